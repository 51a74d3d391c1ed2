package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/detect"
)

// Analysis describes the target a path would be checked against.
type Analysis struct {
	Path            string            `json:"path"`
	MountType       string            `json:"mount_type,omitempty"`
	FileSystem      config.FileSystem `json:"file_system,omitempty"`
	OperatingSystem config.OS         `json:"operating_system"`
	MaxPathLength   int               `json:"max_path_length,omitempty"`
	MaxNameLength   int               `json:"max_name_length,omitempty"`
	Invalid         string            `json:"invalid_characters,omitempty"`
	ReservedNames   bool              `json:"reserved_names"`
	Exclude         []string          `json:"exclude,omitempty"`
	Rules           []string          `json:"rules,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Show the detected file system and its limits",
	Long: `Analyze detects the file system holding a path and the running operating system,
and prints the limits a check on that path would use.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}

		a, err := analyze(cmd, path, detect.New())
		if err != nil {
			return withCode(err)
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), a)
		}
		printAnalysis(cmd.OutOrStdout(), a)
		return nil
	},
}

// analyze resolves the configuration of path with every value detected.
func analyze(cmd *cobra.Command, path string, det *detect.System) (*Analysis, error) {
	cwd, err := workingDir()
	if err != nil {
		return nil, err
	}
	file, err := config.FindConfigFile(configFile)
	if err != nil {
		return nil, &config.Error{Code: config.CodeOSError, Op: "config", Err: err}
	}

	root := config.ResolvePath(cwd, path)
	a := &Analysis{Path: root.String()}
	if mount, err := det.MountType(cmd.Context(), root.String()); err == nil {
		a.MountType = mount
	}

	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		Root:       path,
		Cwd:        cwd,
		ConfigFile: file,
		Detector:   det,
	})
	if errors.Is(err, config.ErrUnknownFileSystem) {
		// an unsupported mount still gets its OS reported
		a.OperatingSystem, _ = config.ParseOS(det.OperatingSystem())
		return a, nil
	}
	if err != nil {
		return nil, err
	}

	a.FileSystem = cfg.FileSystem
	a.OperatingSystem = cfg.OS
	a.MaxPathLength = cfg.MaxPathLength
	a.MaxNameLength = cfg.MaxNameLength
	a.ReservedNames = cfg.InvalidNames != nil
	if cfg.InvalidCharacters != nil {
		a.Invalid = cfg.InvalidCharacters.String()
	}
	for _, ex := range cfg.Exclude {
		a.Exclude = append(a.Exclude, ex.String())
	}
	for _, r := range cfg.Rules {
		a.Rules = append(a.Rules, r.String())
	}
	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	PrintSection(w, "Analysis of "+a.Path)

	mount := a.MountType
	if mount == "" {
		mount = "unknown"
	}
	PrintLabelValue(w, "Mount type", mount)
	if a.FileSystem == "" {
		PrintWarning(w, fmt.Sprintf("file system %q is not supported, use --fs with check", mount))
	} else {
		PrintLabelValue(w, "File system", string(a.FileSystem))
		PrintLabelValue(w, "Max path length", strconv.Itoa(a.MaxPathLength))
		PrintLabelValue(w, "Max filename length", strconv.Itoa(a.MaxNameLength))
		PrintLabelValue(w, "Invalid characters", a.Invalid)
		PrintLabelValue(w, "Reserved names", strconv.FormatBool(a.ReservedNames))
	}
	PrintLabelValue(w, "Operating system", string(a.OperatingSystem))

	if len(a.Exclude) > 0 {
		PrintSection(w, "Excluded")
		PrintList(w, a.Exclude, 1)
	}
	if len(a.Rules) > 0 {
		PrintSection(w, "Renaming rules")
		PrintList(w, a.Rules, 1)
	}

	PrintSection(w, "Known file systems")
	table := config.DefaultFileSystems()
	rows := make([][]string, 0, len(config.FileSystems))
	for _, fs := range config.FileSystems {
		spec := table[fs]
		rows = append(rows, []string{
			string(fs),
			strconv.Itoa(spec.MaxPathLength),
			strconv.Itoa(spec.MaxNameLength),
			spec.SpecialCharacters,
		})
	}
	PrintTable(w, []string{"NAME", "MAX PATH", "MAX NAME", "SPECIAL"}, rows)
}
