package config

import (
	"errors"
	"testing"
)

func TestParseFileSystem(t *testing.T) {
	tests := []struct {
		input   string
		want    FileSystem
		wantErr bool
	}{
		{input: "ntfs", want: FSNTFSWin32},
		{input: "NTFS_posix", want: FSNTFSPosix},
		{input: "auto", want: FSAuto},
		{input: "fat32", want: FSFAT32},
		{input: "zfs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFileSystem(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFileSystem) {
					t.Fatalf("error = %v, want ErrUnknownFileSystem", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFileSystem(%q) = %q, %v, want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestFromMountType(t *testing.T) {
	for mount, want := range map[string]FileSystem{
		"ntfs3":   FSNTFSWin32,
		"fuseblk": FSNTFSWin32,
		"ext4":    FSExt4,
		"vfat":    FSFAT32,
		"exfat":   FSExFAT,
	} {
		if got, err := FromMountType(mount); err != nil || got != want {
			t.Errorf("FromMountType(%q) = %q, %v, want %q", mount, got, err, want)
		}
	}
	if _, err := FromMountType("tmpfs"); !errors.Is(err, ErrUnknownFileSystem) {
		t.Errorf("FromMountType(tmpfs) error = %v, want ErrUnknownFileSystem", err)
	}
}

func TestInvalidCharacters(t *testing.T) {
	table := DefaultFileSystems()

	tests := []struct {
		name    string
		fs      FileSystem
		extra   string
		ascii   ASCII
		input   string
		invalid bool
	}{
		{name: "win32 question mark", fs: FSNTFSWin32, input: "what?", invalid: true},
		{name: "win32 backslash", fs: FSNTFSWin32, input: `a\b`, invalid: true},
		{name: "win32 control", fs: FSNTFSWin32, input: "tab\there", invalid: true},
		{name: "win32 plain", fs: FSNTFSWin32, input: "report_2024", invalid: false},
		{name: "ext4 allows question mark", fs: FSExt4, input: "what?", invalid: false},
		{name: "nul always invalid", fs: FSExt4, input: "a\x00b", invalid: true},
		{name: "fat32 bracket", fs: FSFAT32, input: "a[1]", invalid: true},
		{name: "extra dot", fs: FSExt4, extra: ".", input: "a.b", invalid: true},
		{name: "extra dash is literal", fs: FSExt4, extra: "-", input: "a-b", invalid: true},
		{name: "extra dash does not form a range", fs: FSExt4, extra: "a-c", input: "b", invalid: false},
		{name: "strict rejects accents", fs: FSExt4, ascii: ASCIIStrict, input: "café", invalid: true},
		{name: "accents allows latin letters", fs: FSExt4, ascii: ASCIIAccents, input: "café", invalid: false},
		{name: "accents rejects emoji", fs: FSExt4, ascii: ASCIIAccents, input: "a😀", invalid: true},
		{name: "print rejects accents", fs: FSExt4, ascii: ASCIIPrint, input: "é", invalid: true},
		{name: "print allows tilde", fs: FSExt4, ascii: ASCIIPrint, input: "~x", invalid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := InvalidCharacters(table[tt.fs], tt.extra, tt.ascii)
			if err != nil {
				t.Fatalf("InvalidCharacters() error = %v", err)
			}
			if got := re.MatchString(tt.input); got != tt.invalid {
				t.Errorf("%s matches %q = %v, want %v", re, tt.input, got, tt.invalid)
			}
		})
	}
}

func TestInvalidNames(t *testing.T) {
	table := DefaultFileSystems()
	if InvalidNames(table[FSExt4]) != nil {
		t.Error("ext4 reserves no names")
	}

	re := InvalidNames(table[FSNTFSWin32])
	for name, reserved := range map[string]bool{
		"CON":         true,
		"con.txt":     true,
		"LPT1":        true,
		"COM9.tar.gz": true,
		"trailing.":   true,
		"space ":      true,
		"console":     false,
		"CONFIG.sys":  false,
		"normal.txt":  false,
	} {
		if got := re.MatchString(name); got != reserved {
			t.Errorf("InvalidNames matches %q = %v, want %v", name, got, reserved)
		}
	}
}
