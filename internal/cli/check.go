package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/detect"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/engine"
	"github.com/danieljhkim/pathaudit/internal/fsops"
	"github.com/danieljhkim/pathaudit/internal/progress"
	"github.com/danieljhkim/pathaudit/internal/report"
	"github.com/danieljhkim/pathaudit/internal/walk"
)

var errNotDirectory = errors.New("not a directory")

var (
	checkDoc            bool
	checkFix            bool
	checkFileSystem     string
	checkOS             string
	checkDestination    string
	checkOutput         string
	checkDryRun         string
	checkCollision      string
	checkFollowSymlinks bool
	checkAll            bool
)

// check switches, each paired with its negation
var checkSwitches = []struct {
	name, short, negName, negShort string
	usage                          string
	on, off                        bool
}{
	{name: "check-empty-dirs", short: "e", negName: "no-check-empty-dirs", negShort: "E", usage: "empty directories"},
	{name: "check-invalid-characters", short: "i", negName: "no-check-invalid-characters", negShort: "I", usage: "invalid characters"},
	{name: "check-path-length", short: "l", negName: "no-check-path-length", negShort: "L", usage: "path length"},
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check paths against a target file system",
	Long: `Check walks a file or directory and reports every name that would be invalid
on the target file system: invalid characters, reserved names, over-long paths
and, when selected, empty directories.

With --fix, invalid characters are replaced, renaming rules from the configuration
are applied, and empty directories are removed.

Exit status is 10 when a check finds invalid paths and 20 when --fix leaves some unresolved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkDoc {
			return printCheckDoc(cmd.OutOrStdout())
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		out, err := resolveOutput()
		if err != nil {
			return withCode(err)
		}

		fs := fsops.NewRealFS()
		if err := validateDestination(fs, checkDestination); err != nil {
			return withCode(err)
		}

		cfg, err := loadConfig(cmd, root)
		if err != nil {
			return withCode(err)
		}

		w, err := report.New(out, cmd.OutOrStdout(), report.Options{Width: terminalWidth(os.Stdout), FS: fs})
		if err != nil {
			return withCode(err)
		}

		return runCheck(cmd, cfg, out, w)
	},
}

func init() {
	f := checkCmd.Flags()
	f.BoolVar(&checkDoc, "doc", false, "Display the full command documentation")
	f.BoolVar(&checkFix, "fix", false, "Fix invalid paths in place")
	f.StringVar(&checkFileSystem, "fs", "", "Target file system (ntfs_win32|ntfs_posix|ext4|exfat|fat32|auto)")
	f.StringVar(&checkOS, "os", "", "Target operating system (windows|linux|auto)")
	f.StringVar(&checkDestination, "destination", "", "Directory the tree will be copied to")
	f.StringVarP(&checkOutput, "output", "o", "cli", "Output format (cli|silent|csv|csv=<file>|json)")
	f.StringVar(&checkDryRun, "dry-run", "", "Report fixes without renaming or removing anything (on|off|<limit>)")
	f.Lookup("dry-run").NoOptDefVal = "on"
	f.StringVar(&checkCollision, "collision", "", "What a rename does when its destination exists (increment|skip)")
	f.BoolVar(&checkFollowSymlinks, "follow-symlinks", false, "Descend into symbolic links to directories")
	f.BoolVarP(&checkAll, "check-all", "A", false, "Run all available checks")

	for i := range checkSwitches {
		s := &checkSwitches[i]
		f.BoolVarP(&s.on, s.name, s.short, false, "Check for "+s.usage)
		f.BoolVarP(&s.off, s.negName, s.negShort, false, "Do not check for "+s.usage)
	}
}

// checkFlags reads the tri-state check switches of f.
func checkFlags(f *pflag.FlagSet) config.CheckFlags {
	flags := config.CheckFlags{All: checkAll}
	targets := []**bool{&flags.Empty, &flags.Characters, &flags.Length}

	for i, s := range checkSwitches {
		switch {
		case f.Changed(s.name) && s.on:
			*targets[i] = boolPtr(true)
		case f.Changed(s.negName) && s.off:
			*targets[i] = boolPtr(false)
		}
	}
	return flags
}

func boolPtr(b bool) *bool { return &b }

// resolveOutput combines --output with the global --json flag.
func resolveOutput() (report.Output, error) {
	if jsonOutput {
		return report.Output{Kind: report.KindJSON}, nil
	}
	return report.ParseOutput(checkOutput)
}

// validateDestination requires dest, when given, to be an existing directory.
func validateDestination(fs fsops.FS, dest string) error {
	if dest == "" {
		return nil
	}
	info, err := fs.Stat(dest)
	if err != nil {
		return &config.Error{Code: config.CodeOSError, Op: "destination", Value: dest, Err: err}
	}
	if !info.IsDir() {
		return &config.Error{Code: config.CodeOSError, Op: "destination", Value: dest, Err: errNotDirectory}
	}
	return nil
}

// loadConfig resolves the configuration of a check on root.
func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	cwd, err := workingDir()
	if err != nil {
		return nil, err
	}
	file, err := config.FindConfigFile(configFile)
	if err != nil {
		return nil, &config.Error{Code: config.CodeOSError, Op: "config", Err: err}
	}

	return config.Load(cmd.Context(), config.LoadOptions{
		Root:           root,
		Cwd:            cwd,
		ConfigFile:     file,
		FileSystem:     checkFileSystem,
		OS:             checkOS,
		Destination:    checkDestination,
		Checks:         checkFlags(cmd.Flags()),
		DryRun:         checkDryRun,
		Collision:      checkCollision,
		FollowSymlinks: checkFollowSymlinks,
		Detector:       detect.New(),
	})
}

func runCheck(cmd *cobra.Command, cfg *config.Config, out report.Output, w report.Writer) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	eng := newEngine(stderr)

	var writeErr error
	emit := func(d diagnostic.Diagnostic) {
		if writeErr == nil {
			writeErr = w.Write(d)
		}
	}

	if checkFix {
		bar := newProgress("fixing")
		res, err := eng.Fix(cmd.Context(), cfg, bar, emit)
		if cerr := w.Close(); writeErr == nil {
			writeErr = cerr
		}
		if err != nil {
			return withCode(err)
		}
		if writeErr != nil {
			return withCode(writeErr)
		}

		if err := printFixSummary(stdout, out, cfg, res); err != nil {
			return err
		}
		if res.DryRun {
			fmt.Fprintln(stderr, report.DryRunBanner())
		}
		if res.Errors > 0 {
			PrintWarning(stderr, PrintCount(res.Errors, "path", "paths")+" could not be processed")
		}
		if res.Unresolved > 0 {
			return &ExitError{Code: ExitFixFailed}
		}
		return nil
	}

	bar := newProgress("checking")
	res, err := eng.Diagnose(cmd.Context(), cfg, bar, emit)
	if cerr := w.Close(); writeErr == nil {
		writeErr = cerr
	}
	if err != nil {
		return withCode(err)
	}
	if writeErr != nil {
		return withCode(writeErr)
	}

	if err := printCheckSummary(stdout, out, cfg, res); err != nil {
		return err
	}
	if res.Errors > 0 {
		PrintWarning(stderr, PrintCount(res.Errors, "path", "paths")+" could not be processed")
	}
	if res.Issues > 0 {
		return &ExitError{Code: ExitCheckFailed}
	}
	return nil
}

// checkSummary is the JSON trailer of a check run.
type checkSummary struct {
	Root       string                `json:"root"`
	FileSystem config.FileSystem     `json:"file_system"`
	Checks     []string              `json:"checks"`
	Result     engine.DiagnoseResult `json:"result"`
}

// fixSummary is the JSON trailer of a fix run.
type fixSummary struct {
	Root       string            `json:"root"`
	FileSystem config.FileSystem `json:"file_system"`
	Checks     []string          `json:"checks"`
	Result     engine.FixResult  `json:"result"`
}

func printCheckSummary(w io.Writer, out report.Output, cfg *config.Config, res engine.DiagnoseResult) error {
	switch out.Kind {
	case report.KindJSON:
		return outputJSON(w, checkSummary{
			Root:       cfg.Root.String(),
			FileSystem: cfg.FileSystem,
			Checks:     cfg.Checks.Names(),
			Result:     res,
		})
	case report.KindSilent:
		fmt.Fprintln(w, res.Issues)
	case report.KindCSV:
		// csv on stdout stays machine readable
		if out.File != "" {
			report.PrintCheckSummary(w, cfg.Checks, res.Issues, res.Visited)
		}
	default:
		report.PrintCheckSummary(w, cfg.Checks, res.Issues, res.Visited)
	}
	return nil
}

func printFixSummary(w io.Writer, out report.Output, cfg *config.Config, res engine.FixResult) error {
	switch out.Kind {
	case report.KindJSON:
		return outputJSON(w, fixSummary{
			Root:       cfg.Root.String(),
			FileSystem: cfg.FileSystem,
			Checks:     cfg.Checks.Names(),
			Result:     res,
		})
	case report.KindSilent:
		fmt.Fprintln(w, res.Unresolved)
	case report.KindCSV:
		if out.File != "" {
			report.PrintFixSummary(w, cfg.Checks, res.Unresolved)
		}
	default:
		report.PrintFixSummary(w, cfg.Checks, res.Unresolved)
	}
	return nil
}

// newProgress returns a walk counter drawn on stderr when it is a terminal.
func newProgress(label string) *progress.Bar[walk.Entry] {
	bar := progress.ForTerminal[walk.Entry](os.Stderr, label)
	bar.Weight = func(e walk.Entry) int { return len(e.Names()) }
	return bar
}

// terminalWidth returns the width of f, or zero when f is not a terminal.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
