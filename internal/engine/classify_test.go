package engine

import (
	"regexp"
	"slices"
	"testing"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fastpath"
)

func kinds(ds []diagnostic.Diagnostic) []diagnostic.Kind {
	var out []diagnostic.Kind
	for _, d := range ds {
		out = append(out, d.Kind())
	}
	return out
}

func TestClassify(t *testing.T) {
	fsys := memFS(t, "/r/full/f.txt")
	if err := fsys.Afero().MkdirAll("/r/empty", 0755); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Platform:          fastpath.Linux,
		MaxPathLength:     20,
		MaxNameLength:     8,
		InvalidCharacters: regexp.MustCompile(`[?*]`),
		InvalidNames:      regexp.MustCompile(`(?i)^(CON|NUL)(\..*)?$`),
		Exclude:           []fastpath.Path{lp("/r/skip")},
	}

	tests := []struct {
		name   string
		path   string
		isDir  bool
		checks config.Check
		want   []diagnostic.Kind
	}{
		{"clean file", "/r/ok.txt", false, config.AllChecks, nil},
		{"characters in stem", "/r/a?b.txt", false, config.CheckCharacters, []diagnostic.Kind{diagnostic.KindCharacters}},
		{"reserved name", "/r/nul.txt", false, config.CheckCharacters, []diagnostic.Kind{diagnostic.KindInvalidName}},
		{"name too long", "/r/abcdefghi", false, config.CheckLength, []diagnostic.Kind{diagnostic.KindNameLength}},
		{"path too long", "/r/abcdefg/abcdefg/xy", false, config.CheckLength, []diagnostic.Kind{diagnostic.KindLength}},
		{"empty directory", "/r/empty", true, config.CheckEmpty, []diagnostic.Kind{diagnostic.KindEmpty}},
		{"full directory", "/r/full", true, config.CheckEmpty, nil},
		{"missing directory is not empty", "/r/gone", true, config.CheckEmpty, nil},
		{"check disabled", "/r/a?b.txt", false, config.CheckLength, nil},
		{"excluded", "/r/skip/a?b.txt", false, config.AllChecks, nil},
		{
			"ordered",
			"/r/con?xxxxxxx.txt",
			false,
			config.AllChecks,
			[]diagnostic.Kind{diagnostic.KindCharacters, diagnostic.KindNameLength},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Classify(fsys, lp(tt.path), tt.isDir, cfg, tt.checks, make(EmptyMemo)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Classify(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassify_MemoRecognizesNestedEmpty(t *testing.T) {
	fsys := memFS(t)
	if err := fsys.Afero().MkdirAll("/r/a/b", 0755); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Platform: fastpath.Linux, MaxPathLength: 100, MaxNameLength: 100}
	memo := make(EmptyMemo)

	if got := Classify(fsys, lp("/r/a"), true, cfg, config.CheckEmpty, memo); got != nil {
		t.Fatalf("parent classified before child: %v", got)
	}
	Classify(fsys, lp("/r/a/b"), true, cfg, config.CheckEmpty, memo)
	got := Classify(fsys, lp("/r/a"), true, cfg, config.CheckEmpty, memo)
	if len(got) != 1 || got[0].Kind() != diagnostic.KindEmpty {
		t.Errorf("Classify(/r/a) = %v, want one empty", got)
	}
	if !memo.Has(lp("/r/a")) {
		t.Error("memo should record /r/a")
	}

	// without a memo emptiness is never asserted
	if got := Classify(fsys, lp("/r/a/b"), true, cfg, config.CheckEmpty, nil); got != nil {
		t.Errorf("Classify without memo = %v, want nil", got)
	}
}
