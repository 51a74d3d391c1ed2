package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Detector inspects the machine for the values left on "auto".
type Detector interface {
	// MountType returns the kernel file system type of the partition
	// holding path.
	MountType(ctx context.Context, path string) (string, error)

	// OperatingSystem returns the name of the running operating system.
	OperatingSystem() string
}

// LoadOptions carries the command line layer. Zero values defer to the
// configuration file, then to the built-in defaults.
type LoadOptions struct {
	// Root is the file or directory to audit, relative to Cwd.
	Root string
	Cwd  string

	// ConfigFile is read when non-empty.
	ConfigFile string

	FileSystem  string
	OS          string
	Destination string
	Checks      CheckFlags
	DryRun      string
	Collision   string

	FollowSymlinks bool

	// Detector resolves "auto" values. Required only when one is used.
	Detector Detector
}

// Load builds the Config for one invocation.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	f := DefaultFile()
	if opts.ConfigFile != "" {
		read, err := ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		f = *read
	}
	return Build(ctx, &f, opts)
}

// Build resolves f and the command line layer into a Config.
func Build(ctx context.Context, f *File, opts LoadOptions) (*Config, error) {
	cfg := &Config{
		FollowSymlinks: opts.FollowSymlinks,
		FileSystems:    DefaultFileSystems(),
	}

	if err := applyFileSystems(cfg.FileSystems, f.FileSystems); err != nil {
		return nil, err
	}

	base, err := ParseChecks(f.Check.Run)
	if err != nil {
		return nil, invalid("check.run", f.Check.Run, err)
	}
	cfg.Checks = ResolveChecks(base, opts.Checks)

	cfg.Root = ResolvePath(opts.Cwd, opts.Root)

	osName := pick(opts.OS, f.Check.OperatingSystem)
	if cfg.OS, err = ParseOS(osName); err != nil {
		return nil, invalid("check.operating_system", osName, err)
	}
	if cfg.OS == OSAuto {
		if opts.Detector == nil {
			return nil, invalid("check.operating_system", osName, fmt.Errorf("%w: no detector", ErrUnknownOS))
		}
		detected := opts.Detector.OperatingSystem()
		if cfg.OS, err = ParseOS(detected); err != nil || cfg.OS == OSAuto {
			return nil, invalid("check.operating_system", detected, fmt.Errorf("%w: cannot detect", ErrUnknownOS))
		}
	}
	cfg.Platform = cfg.OS.Platform()

	probe := cfg.Root.String()
	switch {
	case opts.Destination != "":
		dest := ResolvePath(opts.Cwd, opts.Destination)
		probe = dest.String()
		cfg.BasePathLength = utf8.RuneCountInString(dest.String()) + 1
	case f.Check.BasePathLength > 0:
		cfg.BasePathLength = f.Check.BasePathLength
	}

	fsName := pick(opts.FileSystem, f.Check.FileSystem)
	if cfg.FileSystem, err = ParseFileSystem(fsName); err != nil {
		return nil, invalid("check.file_system", fsName, err)
	}
	if cfg.FileSystem == FSAuto {
		if cfg.FileSystem, err = detectFileSystem(ctx, opts.Detector, probe); err != nil {
			return nil, err
		}
	}

	spec := cfg.FileSystems[cfg.FileSystem]
	cfg.MaxPathLength = spec.MaxPathLength
	if f.Check.MaxPathLength > 0 {
		cfg.MaxPathLength = f.Check.MaxPathLength
	}
	cfg.MaxPathLength -= cfg.BasePathLength
	cfg.MaxNameLength = spec.MaxNameLength
	if f.Check.MaxNameLength > 0 {
		cfg.MaxNameLength = f.Check.MaxNameLength
	}

	chars := f.Check.Characters
	if cfg.ASCII, err = ParseASCII(chars.ASCII); err != nil {
		return nil, invalid("check.characters.ascii", chars.ASCII, err)
	}
	cfg.ExtraInvalid = chars.ExtraInvalid
	cfg.Replacement = chars.Replacement
	if cfg.InvalidCharacters, err = InvalidCharacters(spec, chars.ExtraInvalid, cfg.ASCII); err != nil {
		return nil, invalid("check.characters.extra_invalid", chars.ExtraInvalid, err)
	}
	if strings.ContainsAny(cfg.Replacement, `/\`) || cfg.InvalidCharacters.MatchString(cfg.Replacement) {
		return nil, invalid("check.characters.replacement", cfg.Replacement, ErrInvalidValue)
	}
	cfg.InvalidNames = InvalidNames(spec)

	for i, r := range f.Rename {
		if r.Replacement == nil {
			return nil, invalid(fmt.Sprintf("rename[%d]", i), r.Pattern, ErrMissingReplacement)
		}
		rule, err := NewRenameRule(r.Pattern, *r.Replacement, boolOr(r.CaseSensitive, true), boolOr(r.AccentSensitive, true))
		if err != nil {
			return nil, err
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	for _, ex := range f.Exclude {
		cfg.Exclude = append(cfg.Exclude, ResolvePath(opts.Cwd, ex))
	}

	collision := pick(opts.Collision, f.Behavior.Collision)
	if cfg.Collision, err = ParseCollision(collision); err != nil {
		return nil, invalid("behavior.collision", collision, err)
	}

	if opts.DryRun != "" {
		if cfg.DryRun, err = ParseDryRun(opts.DryRun); err != nil {
			return nil, invalid("dry-run", opts.DryRun, err)
		}
	} else if cfg.DryRun, err = dryRunFromFile(f.Behavior.DryRun); err != nil {
		return nil, invalid("behavior.dry_run", fmt.Sprint(f.Behavior.DryRun), err)
	}

	return cfg, nil
}

func applyFileSystems(table map[FileSystem]FileSystemSpec, overrides map[string]FileSystemFile) error {
	for name, o := range overrides {
		fs, err := ParseFileSystem(name)
		if err != nil || fs == FSAuto {
			return invalid("file_systems", name, fmt.Errorf("%w: %q", ErrUnknownFileSystem, name))
		}
		spec := table[fs]
		if o.SpecialCharacters != nil {
			spec.SpecialCharacters = *o.SpecialCharacters
		}
		if o.ControlCharacters != nil {
			spec.ControlCharacters = *o.ControlCharacters
		}
		if o.ReservedNames != nil {
			spec.ReservedNames = *o.ReservedNames
		}
		if o.MaxPathLength != nil {
			if *o.MaxPathLength <= 0 {
				return invalid("file_systems."+name+".max_path_length", fmt.Sprint(*o.MaxPathLength), ErrInvalidValue)
			}
			spec.MaxPathLength = *o.MaxPathLength
		}
		if o.MaxNameLength != nil {
			if *o.MaxNameLength <= 0 {
				return invalid("file_systems."+name+".max_name_length", fmt.Sprint(*o.MaxNameLength), ErrInvalidValue)
			}
			spec.MaxNameLength = *o.MaxNameLength
		}
		table[fs] = spec
	}
	return nil
}

func detectFileSystem(ctx context.Context, d Detector, path string) (FileSystem, error) {
	if d == nil {
		return "", invalid("check.file_system", string(FSAuto), fmt.Errorf("%w: no detector", ErrUnknownFileSystem))
	}
	mount, err := d.MountType(ctx, filepath.Clean(path))
	if err != nil {
		return "", invalid("check.file_system", path, fmt.Errorf("%w: %v", ErrUnknownFileSystem, err))
	}
	fs, err := FromMountType(mount)
	if err != nil {
		return "", invalid("check.file_system", mount, err)
	}
	return fs, nil
}

func dryRunFromFile(v any) (DryRun, error) {
	switch v := v.(type) {
	case nil:
		return DryRun{}, nil
	case bool:
		return DryRun{Enabled: v}, nil
	case int64:
		return ParseDryRun(fmt.Sprint(v))
	case int:
		return ParseDryRun(fmt.Sprint(v))
	case string:
		return ParseDryRun(v)
	default:
		return DryRun{}, fmt.Errorf("%w: dry run %v", ErrInvalidValue, v)
	}
}

func pick(override, fromFile string) string {
	if override != "" {
		return override
	}
	return fromFile
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
