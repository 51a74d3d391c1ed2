// Package report renders diagnostics for people and for other programs.
//
// A Writer receives diagnostics one at a time while a run progresses and
// is closed once the run ends. The cli writer aligns carets under the
// offending characters, csv and json emit one record per diagnostic, and
// silent discards everything so that only the final count is printed.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fsops"
)

var (
	// ErrUnknownOutput is returned for an unsupported output kind.
	ErrUnknownOutput = errors.New("unknown output kind")

	// ErrOutputExists is returned when a csv file destination already
	// exists.
	ErrOutputExists = errors.New("output file already exists")
)

// Kind selects a rendering.
type Kind string

const (
	KindCLI    Kind = "cli"
	KindSilent Kind = "silent"
	KindCSV    Kind = "csv"
	KindJSON   Kind = "json"
)

// Output is a parsed --output value.
type Output struct {
	Kind Kind

	// File is the csv destination. Empty means standard output.
	File string
}

// ParseOutput parses "cli", "silent", "json", "csv" or "csv=<file>".
func ParseOutput(s string) (Output, error) {
	v := strings.TrimSpace(s)
	if file, ok := strings.CutPrefix(v, "csv="); ok {
		if file == "" {
			return Output{}, fmt.Errorf("%w: %q, missing file name", ErrUnknownOutput, s)
		}
		return Output{Kind: KindCSV, File: file}, nil
	}
	switch k := Kind(strings.ToLower(v)); k {
	case "":
		return Output{Kind: KindCLI}, nil
	case KindCLI, KindSilent, KindCSV, KindJSON:
		return Output{Kind: k}, nil
	default:
		return Output{}, fmt.Errorf("%w: %q", ErrUnknownOutput, s)
	}
}

func (o Output) String() string {
	if o.File != "" {
		return string(o.Kind) + "=" + o.File
	}
	return string(o.Kind)
}

// Writer consumes diagnostics.
type Writer interface {
	Write(d diagnostic.Diagnostic) error
	Close() error
}

// Options configures New.
type Options struct {
	// Width is the terminal width used to clamp long parents in cli output.
	Width int

	// FS receives csv files.
	FS fsops.FS
}

// New returns the writer for out. Output goes to w unless out names a file.
func New(out Output, w io.Writer, opts Options) (Writer, error) {
	switch out.Kind {
	case KindCLI, "":
		return NewCLI(w, opts.Width), nil
	case KindSilent:
		return NewSilent(), nil
	case KindJSON:
		return NewJSON(w), nil
	case KindCSV:
		if out.File == "" {
			return NewCSV(w), nil
		}
		return NewCSVFile(opts.FS, out.File)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, out.Kind)
	}
}

// Silent discards every diagnostic.
type Silent struct{}

// NewSilent returns a writer that discards everything.
func NewSilent() Silent { return Silent{} }

func (Silent) Write(diagnostic.Diagnostic) error { return nil }
func (Silent) Close() error                      { return nil }
