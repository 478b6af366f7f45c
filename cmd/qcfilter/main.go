package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/qcfilter/cmd/qcfilter/commands"
	"github.com/teranos/qcfilter/config"
	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qcfilter",
	Short: "qcfilter - GNSS quality-control filter toolkit",
	Long: `qcfilter - parse GNSS quality-control filters and split observation
series in the time domain.

Available commands:
  parse    - Parse filter descriptors
  pipeline - Inspect the configured filter pipeline
  obs      - Store and split observation series
  config   - Manage qcfilter configuration
  version  - Show version information

Examples:
  qcfilter parse "!= GLO" ">= 10 deg" "decim:30 s"
  qcfilter pipeline show
  qcfilter obs import rover.csv
  qcfilter obs split --window "1 hour"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")

		cfg, err := commands.LoadConfig()
		if err != nil {
			// init must work even when the file it replaces is broken
			if cmd.Name() != "init" {
				return err
			}
			cfg = config.Defaults()
		}
		// Flags only raise what the config file asks for
		verbosity = max(verbosity, cfg.Log.Verbosity)
		jsonLog = jsonLog || cfg.Log.JSON

		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		commands.Verbosity = verbosity
		commands.ApplyTheme(cfg.GetTheme())

		logger.Debugw("Configuration loaded",
			logger.FieldComponent, "cli",
			"config", cfg.String(),
			"verbosity", logger.LevelName(verbosity))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigFile, "config", "c", "", "Use this config file instead of the search path")

	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.PipelineCmd)
	rootCmd.AddCommand(commands.ObsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		commands.PrintError(os.Stderr, err)
	}
	logger.Cleanup()
	if err != nil {
		os.Exit(1)
	}
}
