package commands

import (
	"fmt"
	"strconv"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qcfilter/config"
	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
	"github.com/teranos/qcfilter/pipeline"
	"github.com/teranos/qcfilter/processing"
)

// PipelineCmd inspects the configured filter pipeline.
var PipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Inspect the configured filter pipeline",
	Long: `Build the filter pipeline from configuration and inspect it.

The scope and steps come from [pipeline] in qcfilter.toml and can be
overridden per invocation:

  qcfilter pipeline show --scope nav --steps '"!= GLO" "decim:30 s"'`,
}

var pipelineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the installed steps",
	RunE:  runPipelineShow,
}

var pipelineValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every configured step parses",
	RunE:  runPipelineValidate,
}

var (
	pipelineScope  string
	pipelineSteps  string
	pipelineFormat string
)

func init() {
	PipelineCmd.PersistentFlags().StringVar(&pipelineScope, "scope", "", "Override pipeline scope (<product>[:<file>])")
	PipelineCmd.PersistentFlags().StringVar(&pipelineSteps, "steps", "", "Override steps as one shell-quoted list")
	pipelineShowCmd.Flags().StringVarP(&pipelineFormat, "format", "f", FormatTable, "Output format: table, json, yaml")

	PipelineCmd.AddCommand(pipelineShowCmd)
	PipelineCmd.AddCommand(pipelineValidateCmd)
}

// pipelineStep is the printable form of a pipeline.Step.
type pipelineStep struct {
	ID string `json:"id" yaml:"id"`
	processing.Description `yaml:",inline"`
}

type pipelineView struct {
	Scope string         `json:"scope" yaml:"scope"`
	Steps []pipelineStep `json:"steps" yaml:"steps"`
}

func buildPipeline() (*pipeline.Pipeline, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	scope := cfg.Pipeline.Scope
	if pipelineScope != "" {
		scope = pipelineScope
	}
	steps := cfg.Pipeline.Steps
	if pipelineSteps != "" {
		if steps, err = shellquote.Split(pipelineSteps); err != nil {
			return nil, errors.WithHint(
				errors.Wrap(err, "failed to split --steps"),
				`quote each descriptor, e.g. --steps '"!= GLO" "decim:30 s"'`,
			)
		}
	}

	override := config.Config{Pipeline: config.PipelineConfig{Scope: scope, Steps: steps}}
	return override.BuildPipeline(logger.ComponentLogger("pipeline"))
}

func runPipelineShow(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	view := pipelineView{Scope: p.Scope().String(), Steps: []pipelineStep{}}
	for _, s := range p.Steps() {
		view.Steps = append(view.Steps, pipelineStep{ID: s.ID.String(), Description: processing.Describe(s.Filter)})
	}

	w := cmd.OutOrStdout()
	switch pipelineFormat {
	case FormatTable:
		fmt.Fprintf(w, "Scope: %s\n", pterm.LightCyan(view.Scope))
		if len(view.Steps) == 0 {
			fmt.Fprintln(w, "No steps installed")
			return nil
		}
		rows := make([][]string, len(view.Steps))
		for i, s := range view.Steps {
			rows[i] = []string{strconv.Itoa(i + 1), s.Descriptor, s.Kind, s.ID}
		}
		return writeTable(w, []string{"#", "DESCRIPTOR", "KIND", "ID"}, rows)
	case FormatJSON:
		return writeJSON(w, view)
	case FormatYAML:
		return writeYAML(w, view)
	}
	return unsupportedFormat(pipelineFormat, FormatTable, FormatJSON, FormatYAML)
}

func runPipelineValidate(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pipeline is valid (%s, %d steps)\n", p.Scope(), p.Len())
	return nil
}
