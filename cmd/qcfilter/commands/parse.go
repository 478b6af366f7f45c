package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/qcfilter/processing"
)

// ParseCmd parses filter descriptors and prints their structure.
var ParseCmd = &cobra.Command{
	Use:   "parse <descriptor>...",
	Short: "Parse filter descriptors",
	Long: `Parse one or more filter descriptors and print what they select.

Grammar:
  decim:<rate>[:<scope>]     decimation, rate is a count or a duration
  mask:<operand><items>      mask with an explicit identifier
  <operand><items>           bare mask

Operands: = != > >= < <= (default =)
Items:    epochs, durations, angles, or lists of SVs, constellations,
          signals or fields

Examples:
  qcfilter parse GPS "!= GLO" ">G08, G09"
  qcfilter parse "decim:10 min:L1C" --format yaml
  qcfilter parse ">= 10 deg" --negate`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseFormat string
	parseNegate bool
)

func init() {
	ParseCmd.Flags().StringVarP(&parseFormat, "format", "f", FormatTable, "Output format: table, json, yaml")
	ParseCmd.Flags().BoolVar(&parseNegate, "negate", false, "Print the negation of each filter")
}

func runParse(cmd *cobra.Command, args []string) error {
	descriptions := make([]processing.Description, 0, len(args))
	for _, arg := range args {
		f, err := processing.ParseFilter(arg)
		if err != nil {
			return err
		}
		if parseNegate {
			f = processing.Not(f)
		}
		descriptions = append(descriptions, processing.Describe(f))
	}

	w := cmd.OutOrStdout()
	switch parseFormat {
	case FormatTable:
		rows := make([][]string, len(descriptions))
		for i, d := range descriptions {
			rows[i] = []string{
				d.Descriptor,
				d.Kind,
				d.Operand,
				d.ItemKind,
				strings.Join(d.Items, ","),
				d.Rate,
				strings.Join(d.Scope, ","),
			}
		}
		return writeTable(w, []string{"DESCRIPTOR", "KIND", "OPERAND", "ITEM KIND", "ITEMS", "RATE", "SCOPE"}, rows)
	case FormatJSON:
		return writeJSON(w, descriptions)
	case FormatYAML:
		return writeYAML(w, descriptions)
	}
	return unsupportedFormat(parseFormat, FormatTable, FormatJSON, FormatYAML)
}
