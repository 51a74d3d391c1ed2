package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/detect"
	"github.com/danieljhkim/pathaudit/internal/fsops"
)

// ErrConfigExists is returned by "config init" when the file exists.
var ErrConfigExists = errors.New("configuration file already exists")

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
	Long:  `Inspect the effective configuration or write the default configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration a check on path would run with, after the configuration
file and the detected file system and operating system are applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}

		cwd, err := workingDir()
		if err != nil {
			return err
		}
		file, err := config.FindConfigFile(configFile)
		if err != nil {
			return withCode(&config.Error{Code: config.CodeOSError, Op: "config", Err: err})
		}
		cfg, err := config.Load(cmd.Context(), config.LoadOptions{
			Root:       path,
			Cwd:        cwd,
			ConfigFile: file,
			Detector:   detect.New(),
		})
		if err != nil {
			return withCode(err)
		}

		if jsonOutput {
			out, err := formatJSON(cfg.File())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		}

		data, err := cfg.File().Encode()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the default configuration to $PATHAUDIT_CONFIG or <config dir>/pathaudit/config.toml.
An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return err
		}
		target := paths.Config
		if configFile != "" {
			target = configFile
		}

		written, err := writeDefaultConfig(fsops.NewRealFS(), paths, target, configInitForce)
		if err != nil {
			return err
		}
		PrintSuccess(cmd.OutOrStdout(), "Wrote "+written)
		return nil
	},
}

// writeDefaultConfig writes the default configuration to target.
func writeDefaultConfig(fs fsops.FS, paths *config.Paths, target string, force bool) (string, error) {
	exists, err := fs.Exists(target)
	if err != nil {
		return "", err
	}
	if exists && !force {
		return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, target)
	}

	if target == paths.Config {
		if err := paths.EnsureDirectories(); err != nil {
			return "", err
		}
	}

	data, err := config.DefaultFile().Encode()
	if err != nil {
		return "", err
	}
	if err := fs.AtomicWrite(target, data, os.FileMode(0644)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
