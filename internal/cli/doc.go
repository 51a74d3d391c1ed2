package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/report"
)

var (
	docOptionColor   = color.New(color.FgGreen, color.Bold)
	docCodeColor     = color.New(color.FgCyan, color.Italic)
	docArgumentColor = color.New(color.Underline)

	docOption   = regexp.MustCompile(`(^|[\s(\[|])(--[\w-]+|-[A-Za-z])\b`)
	docCode     = regexp.MustCompile("`[^`]*`")
	docArgument = regexp.MustCompile(`<[^<>\s]+>`)
)

type docSection struct {
	title string
	body  []string
}

func checkDocSections() []docSection {
	return []docSection{
		{"name", []string{
			"check - check for invalid file paths on a target file system and fix them",
		}},
		{"synopsis", []string{
			"pathaudit check -h | --help",
			"pathaudit check --doc",
			"pathaudit check [<path>] [--fs <file_system>] [--os <os>] [--destination <dest_path>]",
			"                [--config <config_path>] [--output <format>] [--fix] [--dry-run[=<limit>]]",
			"                [--collision <policy>] [--check-all | -A] [-eEiIlL]",
		}},
		{"description", []string{
			"Check performs checks on a file or directory <path> to find file names that would be invalid on a target <file_system>.",
			"This is useful to identify issues before copying files from one file system to another.",
		}},
		{"options", []string{
			"--doc",
			"    Display this documentation.",
			"--fs <file_system>",
			"    Select the target file system, one of " + fileSystemNames() + " or auto.",
			"    With auto, the file system holding --destination (or <path>) is detected.",
			"--os <os>",
			"    Select the target operating system, one of windows, linux or auto.",
			"--destination <dest_path>",
			"    Provide the directory <path> would be copied to. The maximum path length is",
			"    shortened by the length of <dest_path> and the target file system can be detected.",
			"--config <config_path>",
			"    Provide a configuration file.",
			"--output <format>",
			"    Select the output format: cli, silent, csv, csv=<file> or json.",
			"    silent only prints the number of invalid paths. csv=<file> never overwrites <file>.",
			"--fix",
			"    Fix invalid paths in <path>. Invalid characters are replaced first, then renaming",
			"    rules from the configuration are applied, then empty directories are removed and",
			"    path lengths are checked. Path lengths cannot be fixed automatically.",
			"--dry-run[=<limit>]",
			"    With --fix, report what would change without touching the disk. <limit> bounds",
			"    the number of entries the renaming rules are applied to.",
			"--collision <policy>",
			"    When a fixed name already exists, skip the rename or increment the name as `name(1).ext`.",
			"-A or --check-all",
			"    Run all available checks.",
			"-e or --check-empty-dirs",
			"    Check for (or remove) empty directories recursively.",
			"-i or --check-invalid-characters",
			"    Check for invalid characters and reserved names.",
			"-l or --check-path-length",
			"    Check for names and paths exceeding the file system limits.",
			"",
			"By default, invalid characters and path lengths are checked, as with `pathaudit check -i -l`.",
			"Any of -e, -i and -l selects exactly the named checks. Capital letters -E, -I and -L",
			"disable the named check and keep the others.",
		}},
		{"configuration", configDocLines()},
		{"renaming rules", []string{
			"Each [[rename]] entry holds a regular expression `pattern`, a `replacement` and optional",
			"`case_sensitive` and `accent_sensitive` booleans. Rules apply in order to every file and",
			"directory name, each one seeing the result of the previous one. A result that is empty,",
			"'.', '..' or contains a path separator is reported as an error and the entry is left alone.",
			"",
			"Example: `pattern = \"(_){2,}\"` with `replacement = \"_\"` collapses consecutive underscores.",
			"",
			"In cli output, rule flags are shown after a '⎥' character:",
			"    " + report.FlagIgnoreCase + " for case insensitive",
			"    " + report.FlagIgnoreAccents + "  for accent insensitive",
		}},
	}
}

func configDocLines() []string {
	lines := []string{
		"Options are read from --config, else $PATHAUDIT_CONFIG, else <config dir>/pathaudit/config.toml.",
		"Command line options override the file. The default configuration is:",
		"",
	}
	f := config.DefaultFile()
	if data, err := f.Encode(); err == nil {
		for _, l := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			lines = append(lines, "    "+l)
		}
	}
	return append(lines,
		"",
		"Section [file_systems.<name>] overrides `special_characters`, `control_characters`,",
		"`reserved_names`, `max_path_length` and `max_name_length` of one file system.",
		"The top level `exclude` list holds paths to leave out, absolute or relative to the",
		"current directory.",
	)
}

func fileSystemNames() string {
	names := make([]string, 0, len(config.FileSystems))
	for _, fs := range config.FileSystems {
		names = append(names, string(fs))
	}
	return strings.Join(names, ", ")
}

// highlightDoc colors options, code spans and arguments in line.
func highlightDoc(line string) string {
	line = docCode.ReplaceAllStringFunc(line, func(s string) string { return docCodeColor.Sprint(s) })
	line = docArgument.ReplaceAllStringFunc(line, func(s string) string { return docArgumentColor.Sprint(s) })
	return docOption.ReplaceAllStringFunc(line, func(s string) string {
		m := docOption.FindStringSubmatch(s)
		return m[1] + docOptionColor.Sprint(m[2])
	})
}

func printCheckDoc(w io.Writer) error {
	var b strings.Builder
	b.WriteString("pathaudit check\n\n")
	for _, s := range checkDocSections() {
		b.WriteString(headerColor.Sprint(strings.ToUpper(s.title)))
		b.WriteString("\n")
		for _, l := range s.body {
			if l == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString("    " + highlightDoc(l) + "\n")
		}
		b.WriteString("\n")
	}
	_, err := fmt.Fprint(w, b.String())
	return err
}
