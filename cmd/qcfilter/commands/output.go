package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/qcfilter/config"
	"github.com/teranos/qcfilter/errors"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
)

var (
	// ConfigFile, when set, replaces the config cascade with one file.
	ConfigFile string
	// Verbosity is the -v count, used to gate optional output.
	Verbosity int
)

// LoadConfig loads --config when given, otherwise the merged cascade.
func LoadConfig() (*config.Config, error) {
	if ConfigFile != "" {
		return config.LoadFromFile(ConfigFile)
	}
	return config.Load()
}

// ApplyTheme switches terminal styling for the configured theme.
func ApplyTheme(theme string) {
	switch theme {
	case config.ThemePlain:
		pterm.DisableStyling()
	case config.ThemeColor:
		pterm.EnableStyling()
	default:
		if os.Getenv("NO_COLOR") != "" {
			pterm.DisableStyling()
		}
	}
}

// PrintError writes err and its hints for a terminal user.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", pterm.Red("Error:"), err)
	for _, hint := range errors.Hints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Yellow("Hint:"), hint)
	}
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	data := append(pterm.TableData{header}, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}
	return enc.Close()
}

func unsupportedFormat(format string, supported ...string) error {
	return errors.WithHintf(
		errors.Wrapf(errors.ErrInvalidInput, "unsupported format %q", format),
		"supported formats: %v", supported,
	)
}
