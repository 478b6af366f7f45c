package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qcfilter/config"
	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
)

// ConfigCmd manages qcfilter configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage qcfilter configuration",
	Long: `Show, create, validate and watch qcfilter configuration.

Configuration is merged from, lowest precedence first:
  1. built-in defaults
  2. ~/.qcfilter/qcfilter.toml
  3. the nearest qcfilter.toml in the working directory or a parent
  4. QCFILTER_* environment variables (QCFILTER_STORE_PATH, ...)`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

var configWatchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Reload and validate a configuration file on every change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigWatch,
}

var (
	configFormat string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", FormatTOML, "Output format: toml, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWatchCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch configFormat {
	case FormatTOML:
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		return writeJSON(w, cfg)
	case FormatYAML:
		return writeYAML(w, cfg)
	}
	return unsupportedFormat(configFormat, FormatTOML, FormatJSON, FormatYAML)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.InitFile(path, configForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

// watchPath picks the file to watch: the argument, --config, then the
// project file found by the loader.
func watchPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if ConfigFile != "" {
		return ConfigFile, nil
	}
	files := config.ConfigFiles()
	if len(files) == 0 {
		return "", errors.WithHint(
			errors.NewNotFoundError("no %s found", config.FileName),
			"create one with 'qcfilter config init'",
		)
	}
	return files[len(files)-1], nil
}

func runConfigWatch(cmd *cobra.Command, args []string) error {
	path, err := watchPath(args)
	if err != nil {
		return err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}

	w, err := config.NewWatcher(path, logger.ComponentLogger("config"))
	if err != nil {
		return err
	}
	config.SetGlobalWatcher(w)
	defer config.SetGlobalWatcher(nil)

	out := cmd.OutOrStdout()
	w.OnReload(func(cfg *config.Config) error {
		p, err := cfg.BuildPipeline(logger.ComponentLogger("pipeline"))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s [%s]\n", pterm.Green("✓ Reloaded"), p.Scope(), strings.Join(p.Descriptors(), " | "))
		return nil
	})
	w.Start()
	defer w.Stop()

	fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", pterm.LightCyan(path))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	fmt.Fprintln(out, "Stopped")
	return nil
}
