package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/danieljhkim/pathaudit/internal/fastpath"
)

// OS identifies the operating system the tree is audited for.
type OS string

const (
	OSAuto    OS = "auto"
	OSWindows OS = "windows"
	OSLinux   OS = "linux"
)

// ParseOS parses an operating system name. "win32" is accepted for Windows.
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return OSAuto, nil
	case "windows", "win32":
		return OSWindows, nil
	case "linux":
		return OSLinux, nil
	default:
		return "", fmt.Errorf("%w: %q, expected one of auto, windows, linux", ErrUnknownOS, s)
	}
}

// Platform returns the path syntax used by the operating system.
func (o OS) Platform() fastpath.Platform {
	if o == OSWindows {
		return fastpath.Windows
	}
	if o == OSLinux {
		return fastpath.Linux
	}
	return fastpath.Host()
}

// FileSystem identifies a target file system.
type FileSystem string

const (
	FSAuto      FileSystem = "auto"
	FSNTFSWin32 FileSystem = "ntfs_win32"
	FSNTFSPosix FileSystem = "ntfs_posix"
	FSExt4      FileSystem = "ext4"
	FSExFAT     FileSystem = "exfat"
	FSFAT32     FileSystem = "fat32"
)

// FileSystems lists the known file systems in display order.
var FileSystems = []FileSystem{FSNTFSWin32, FSNTFSPosix, FSExt4, FSExFAT, FSFAT32}

// ParseFileSystem parses a file system name. "ntfs" means ntfs_win32.
func ParseFileSystem(s string) (FileSystem, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "auto":
		return FSAuto, nil
	case "ntfs":
		return FSNTFSWin32, nil
	}
	for _, fs := range FileSystems {
		if string(fs) == name {
			return fs, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFileSystem, s)
}

// FromMountType maps a kernel mount type (as reported for a partition) to
// a file system.
func FromMountType(fstype string) (FileSystem, error) {
	switch strings.ToLower(fstype) {
	case "ntfs", "ntfs3", "fuseblk":
		return FSNTFSWin32, nil
	case "ext4":
		return FSExt4, nil
	case "exfat":
		return FSExFAT, nil
	case "vfat", "msdos", "fat32", "fat":
		return FSFAT32, nil
	default:
		return "", fmt.Errorf("%w: mount type %q", ErrUnknownFileSystem, fstype)
	}
}

// FileSystemSpec describes the naming rules of a file system.
type FileSystemSpec struct {
	// SpecialCharacters are forbidden anywhere in a name.
	SpecialCharacters string `toml:"special_characters"`

	// ControlCharacters forbids U+0001 to U+001F. NUL is always forbidden.
	ControlCharacters bool `toml:"control_characters"`

	// ReservedNames forbids device names such as CON or LPT1 and names
	// ending with a space or a dot.
	ReservedNames bool `toml:"reserved_names"`

	MaxPathLength int `toml:"max_path_length"`
	MaxNameLength int `toml:"max_name_length"`
}

const win32Special = `<>:"/\|?*`

// DefaultFileSystems returns a fresh copy of the built-in table.
func DefaultFileSystems() map[FileSystem]FileSystemSpec {
	return map[FileSystem]FileSystemSpec{
		FSNTFSWin32: {SpecialCharacters: win32Special, ControlCharacters: true, ReservedNames: true, MaxPathLength: 260, MaxNameLength: 255},
		FSNTFSPosix: {SpecialCharacters: "/", MaxPathLength: 32767, MaxNameLength: 255},
		FSExt4:      {SpecialCharacters: "/", MaxPathLength: 4096, MaxNameLength: 255},
		FSExFAT:     {SpecialCharacters: win32Special, ControlCharacters: true, ReservedNames: true, MaxPathLength: 260, MaxNameLength: 255},
		FSFAT32:     {SpecialCharacters: win32Special + "+,;=[]", ControlCharacters: true, ReservedNames: true, MaxPathLength: 260, MaxNameLength: 255},
	}
}

// ASCII restricts names to subsets of ASCII on top of the file system rules.
type ASCII string

const (
	// ASCIIStrict forbids every non-ASCII character.
	ASCIIStrict ASCII = "strict"

	// ASCIIPrint forbids everything but printable ASCII.
	ASCIIPrint ASCII = "print"

	// ASCIIAccents is ASCIIPrint plus accented Latin letters.
	ASCIIAccents ASCII = "accents"

	// ASCIINo adds no restriction.
	ASCIINo ASCII = "no"
)

// ParseASCII parses an ASCII restriction name.
func ParseASCII(s string) (ASCII, error) {
	switch a := ASCII(strings.ToLower(strings.TrimSpace(s))); a {
	case ASCIIStrict, ASCIIPrint, ASCIIAccents, ASCIINo:
		return a, nil
	case "":
		return ASCIINo, nil
	default:
		return "", fmt.Errorf("%w: ascii %q, expected one of strict, print, accents, no", ErrInvalidValue, s)
	}
}

// class returns the character class ranges forbidden by a.
func (a ASCII) class() string {
	switch a {
	case ASCIIStrict:
		return `\x{80}-\x{10FFFF}`
	case ASCIIPrint:
		return `\x01-\x1F\x{7F}-\x{10FFFF}`
	case ASCIIAccents:
		// Latin-1 letters and Latin Extended-A stay allowed.
		return `\x01-\x1F\x{7F}-\x{BF}\x{D7}\x{F7}\x{180}-\x{10FFFF}`
	default:
		return ""
	}
}

// escapeClass escapes the characters that are special inside [...].
func escapeClass(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ']', '[', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InvalidCharacters compiles the forbidden character class for spec,
// extended with extra characters and an ASCII restriction.
func InvalidCharacters(spec FileSystemSpec, extra string, ascii ASCII) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`[\x00`)
	if spec.ControlCharacters {
		b.WriteString(`\x01-\x1F`)
	}
	b.WriteString(escapeClass(spec.SpecialCharacters))
	b.WriteString(escapeClass(extra))
	b.WriteString(ascii.class())
	b.WriteString("]")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid characters: %v", ErrInvalidValue, err)
	}
	return re, nil
}

var reservedNames = regexp.MustCompile(`(?i)^(CON|PRN|AUX|NUL|COM[0-9]|LPT[0-9])(\..*)?$|[. ]$`)

// InvalidNames returns the full-name pattern for spec, or nil when the file
// system reserves no name.
func InvalidNames(spec FileSystemSpec) *regexp.Regexp {
	if !spec.ReservedNames {
		return nil
	}
	return reservedNames
}
