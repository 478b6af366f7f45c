package commands

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/qcfilter/config"
	"github.com/teranos/qcfilter/dataset"
	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
	"github.com/teranos/qcfilter/pipeline"
	"github.com/teranos/qcfilter/processing"
	"github.com/teranos/qcfilter/store"
)

// ObsCmd stores observations and splits them into time windows.
var ObsCmd = &cobra.Command{
	Use:   "obs",
	Short: "Store and split observation series",
}

var obsImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import observations from CSV",
	Long: `Import observations from a CSV file with the columns

  epoch,sv,signal,value

for example "2020-06-25T00:00:00,G08,L1C,22340125.5". A first row whose
first column is "epoch" is treated as a header.`,
	Args: cobra.ExactArgs(1),
	RunE: runObsImport,
}

var obsSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split stored observations into even time windows",
	Long: `Load observations and split them into windows of equal duration.
Windows without records are skipped.

Examples:
  qcfilter obs split --window "1 hour"
  qcfilter obs split --window "15 min" --from 2020-06-25T00:00:00 --to "2020-06-25 06:00"`,
	RunE: runObsSplit,
}

var (
	obsDB     string
	obsWindow string
	obsFrom   string
	obsTo     string
	obsFormat string
)

func init() {
	ObsCmd.PersistentFlags().StringVar(&obsDB, "db", "", "Observation database (default: store.path)")
	obsSplitCmd.Flags().StringVar(&obsWindow, "window", "", "Window duration (default: split.window)")
	obsSplitCmd.Flags().StringVar(&obsFrom, "from", "", "First epoch to include")
	obsSplitCmd.Flags().StringVar(&obsTo, "to", "", "Last epoch to include")
	obsSplitCmd.Flags().StringVarP(&obsFormat, "format", "f", FormatTable, "Output format: table, json, yaml")

	ObsCmd.AddCommand(obsImportCmd)
	ObsCmd.AddCommand(obsSplitCmd)
}

func openStore(cfg *config.Config) (*sql.DB, error) {
	path := cfg.GetStorePath()
	if obsDB != "" {
		path = obsDB
	}
	return store.Open(path, logger.ComponentLogger("store"))
}

func runObsImport(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", args[0])
	}
	defer f.Close()

	series, err := readObservations(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", args[0])
	}

	if scope, err := pipeline.ParseScope(cfg.Pipeline.Scope); err == nil &&
		!scope.Covers(pipeline.ProductObservation, filepath.Base(args[0])) {
		logger.Warnw("Configured pipeline scope does not cover this file",
			logger.FieldScope, scope.String(),
			logger.FieldFile, args[0])
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := logger.WithComponent(cmd.Context(), "obs")
	n, err := store.SaveSeries(ctx, db, series)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d observations\n", n)
	if first, last, ok := series.Span(); ok && logger.ShouldOutput(Verbosity, logger.OutputSummary) {
		fmt.Fprintf(cmd.OutOrStdout(), "  span %s .. %s\n", first.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	return nil
}

// readObservations parses epoch,sv,signal,value rows. Epochs, SVs and
// signals use the filter item grammar.
func readObservations(r io.Reader) (*dataset.Observations, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	series := dataset.NewSeries[dataset.Observation]()
	for n := 1; ; n++ {
		row, err := cr.Read()
		if err == io.EOF {
			return series, nil
		}
		if err != nil {
			return nil, errors.Mark(err, errors.ErrInvalidInput)
		}
		if n == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "epoch") {
			continue
		}

		o, err := parseObservation(row)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "row %d", n), errors.ErrInvalidInput)
		}
		series.Insert(o)
	}
}

func parseObservation(row []string) (dataset.Observation, error) {
	epoch, err := parseEpoch(row[0])
	if err != nil {
		return dataset.Observation{}, err
	}

	sv, err := processing.ParseItem(row[1])
	if err != nil || sv.Kind() != processing.ItemSV || len(sv.SVs()) != 1 {
		return dataset.Observation{}, errors.Newf("invalid sv %q", row[1])
	}

	signal, err := processing.ParseItem(row[2])
	if err != nil || signal.Kind() != processing.ItemSignal || len(signal.Signals()) != 1 {
		return dataset.Observation{}, errors.Newf("invalid signal %q", row[2])
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return dataset.Observation{}, errors.Wrapf(err, "invalid value %q", row[3])
	}

	return dataset.Observation{
		Time:   epoch,
		SV:     sv.String(),
		Signal: signal.String(),
		Value:  value,
	}, nil
}

func parseEpoch(text string) (time.Time, error) {
	item, err := processing.ParseItem(text)
	if err != nil || item.Kind() != processing.ItemEpoch {
		return time.Time{}, errors.WithHint(
			errors.Newf("invalid epoch %q", text),
			`epochs look like "2020-06-25T00:00:00" or "2020-06-25 00:00 GPST"`,
		)
	}
	t, _ := item.Epoch()
	return t, nil
}

// splitWindow is the printable summary of one split window.
type splitWindow struct {
	Index   int       `json:"index" yaml:"index"`
	First   time.Time `json:"first" yaml:"first"`
	Last    time.Time `json:"last" yaml:"last"`
	Records int       `json:"records" yaml:"records"`
}

func runObsSplit(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	window, err := cfg.SplitWindow()
	if obsWindow != "" {
		window, err = processing.ParseDuration(obsWindow)
	}
	if err != nil {
		return errors.Wrap(err, "window")
	}

	var from, to time.Time
	if obsFrom != "" {
		if from, err = parseEpoch(obsFrom); err != nil {
			return errors.Wrap(err, "--from")
		}
	}
	if obsTo != "" {
		if to, err = parseEpoch(obsTo); err != nil {
			return errors.Wrap(err, "--to")
		}
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := logger.WithScope(logger.WithComponent(cmd.Context(), "obs"), pipeline.ProductObservation.String())
	series, err := store.LoadSeries(ctx, db, from, to)
	if err != nil {
		return err
	}

	parts, err := series.SplitEvenDt(window)
	if err != nil {
		return err
	}
	logger.LoggerFromContext(ctx).Infow("Split observations",
		logger.FieldWindow, processing.FormatDuration(window),
		logger.FieldWindows, len(parts),
		logger.FieldCount, series.Len())

	windows := make([]splitWindow, 0, len(parts))
	for i, part := range parts {
		first, last, _ := part.Span()
		windows = append(windows, splitWindow{Index: i + 1, First: first, Last: last, Records: part.Len()})
	}

	w := cmd.OutOrStdout()
	switch obsFormat {
	case FormatTable:
		if len(windows) == 0 {
			fmt.Fprintln(w, "No observations")
			return nil
		}
		rows := make([][]string, len(windows))
		for i, win := range windows {
			rows[i] = []string{
				strconv.Itoa(win.Index),
				win.First.Format(time.RFC3339),
				win.Last.Format(time.RFC3339),
				strconv.Itoa(win.Records),
			}
		}
		if err := writeTable(w, []string{"#", "FIRST", "LAST", "RECORDS"}, rows); err != nil {
			return err
		}
		if logger.ShouldOutput(Verbosity, logger.OutputSummary) {
			fmt.Fprintf(w, "%d records in %d windows of %s\n",
				series.Len(), len(windows), processing.FormatDuration(window))
		}
		return nil
	case FormatJSON:
		return writeJSON(w, windows)
	case FormatYAML:
		return writeYAML(w, windows)
	}
	return unsupportedFormat(obsFormat, FormatTable, FormatJSON, FormatYAML)
}
