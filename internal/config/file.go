package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the on-disk configuration grammar.
//
//	exclude = ["build", "/tmp/scratch"]
//
//	[behavior]
//	collision = "increment"
//	dry_run = false
//
//	[check]
//	run = "characters|length"
//	operating_system = "auto"
//	file_system = "auto"
//	base_path_length = 0
//	max_path_length = 0
//	max_name_length = 0
//
//	[check.characters]
//	extra_invalid = ""
//	replacement = "_"
//	ascii = "no"
//
//	[file_systems.ntfs_win32]
//	max_path_length = 260
//
//	[[rename]]
//	pattern = "(_){2,}"
//	replacement = "_"
//	case_sensitive = true
//	accent_sensitive = true
type File struct {
	Exclude     []string                  `toml:"exclude"`
	Behavior    BehaviorSection           `toml:"behavior"`
	Check       CheckSection              `toml:"check"`
	FileSystems map[string]FileSystemFile `toml:"file_systems,omitempty"`
	Rename      []RuleSection             `toml:"rename"`
}

// BehaviorSection holds [behavior].
type BehaviorSection struct {
	Collision string `toml:"collision"`

	// DryRun is a boolean or an integer entry limit.
	DryRun any `toml:"dry_run"`
}

// CheckSection holds [check].
type CheckSection struct {
	Run             string            `toml:"run"`
	OperatingSystem string            `toml:"operating_system"`
	FileSystem      string            `toml:"file_system"`
	BasePathLength  int               `toml:"base_path_length"`
	MaxPathLength   int               `toml:"max_path_length"`
	MaxNameLength   int               `toml:"max_name_length"`
	Characters      CharactersSection `toml:"characters"`
}

// CharactersSection holds [check.characters].
type CharactersSection struct {
	ExtraInvalid string `toml:"extra_invalid"`
	Replacement  string `toml:"replacement"`
	ASCII        string `toml:"ascii"`
}

// FileSystemFile overrides one entry of the file system table. Unset
// fields keep the built-in value.
type FileSystemFile struct {
	SpecialCharacters *string `toml:"special_characters,omitempty"`
	ControlCharacters *bool   `toml:"control_characters,omitempty"`
	ReservedNames     *bool   `toml:"reserved_names,omitempty"`
	MaxPathLength     *int    `toml:"max_path_length,omitempty"`
	MaxNameLength     *int    `toml:"max_name_length,omitempty"`
}

// RuleSection is one [[rename]] entry.
type RuleSection struct {
	Pattern         string  `toml:"pattern"`
	Replacement     *string `toml:"replacement"`
	CaseSensitive   *bool   `toml:"case_sensitive,omitempty"`
	AccentSensitive *bool   `toml:"accent_sensitive,omitempty"`
}

// DefaultFile returns the configuration file written by "config init".
func DefaultFile() File {
	return File{
		Exclude: []string{},
		Behavior: BehaviorSection{
			Collision: string(CollisionIncrement),
			DryRun:    false,
		},
		Check: CheckSection{
			Run:             DefaultChecks.String(),
			OperatingSystem: string(OSAuto),
			FileSystem:      string(FSAuto),
			Characters: CharactersSection{
				Replacement: "_",
				ASCII:       string(ASCIINo),
			},
		},
		Rename: []RuleSection{},
	}
}

// ReadFile decodes the configuration file at path. Keys outside the
// grammar are rejected.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: CodeOSError, Op: "read config", Value: path, Err: err}
	}
	return DecodeFile(data, path)
}

// DecodeFile decodes configuration data. name is used in error messages.
func DecodeFile(data []byte, name string) (*File, error) {
	f := DefaultFile()
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, &Error{Code: CodeParseNotUnderstood, Op: name, Err: fmt.Errorf("line %d: %s", perr.Position.Line, perr.Message)}
		}
		return nil, &Error{Code: CodeInvalidValue, Op: name, Err: err}
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		code := CodeParseNotUnderstood
		if len(undecoded[0]) > 1 {
			code = CodeOutsideSection
		}
		return nil, &Error{Code: code, Op: name, Value: strings.Join(keys, ", "), Err: ErrUnknownOption}
	}

	for i, r := range f.Rename {
		if r.Replacement == nil {
			return nil, invalid(fmt.Sprintf("rename[%d]", i), r.Pattern, ErrMissingReplacement)
		}
	}
	return &f, nil
}

// Encode renders f as TOML.
func (f File) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// fileExists reports whether path names a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
