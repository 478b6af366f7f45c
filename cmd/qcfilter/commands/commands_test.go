package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/qcfilter/config"
	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/processing"
	"github.com/teranos/qcfilter/version"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

// resetFlags restores every flag variable except ConfigFile, since
// package-level commands keep parsed values between executions.
func resetFlags() {
	parseFormat, parseNegate = FormatTable, false
	pipelineScope, pipelineSteps, pipelineFormat = "", "", FormatTable
	configFormat, configForce = FormatTOML, false
	obsDB, obsWindow, obsFrom, obsTo, obsFormat = "", "", "", "", FormatTable
	Verbosity = 0
	_ = VersionCmd.Flags().Set("json", "false")
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	if args == nil {
		args = []string{}
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

// useConfig points LoadConfig at a fresh file holding content.
func useConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), config.DefaultFilePermissions))
	ConfigFile = path
	t.Cleanup(func() { ConfigFile = "" })
	return path
}

func TestParse_Table(t *testing.T) {
	out, err := execute(t, ParseCmd, "GPS", "!= GLO", "decim:10 min:L1C")
	require.NoError(t, err)

	for _, want := range []string{"mask:=GPS", "mask:!=GLO", "decim:10 min:L1C", "constellation", "not-equals"} {
		assert.Contains(t, out, want)
	}
}

func TestParse_JSON(t *testing.T) {
	out, err := execute(t, ParseCmd, "--format", "json", ">G08, G09", "decim:2:G08, iode")
	require.NoError(t, err)

	var got []processing.Description
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	assert.Equal(t, processing.Description{
		Kind:       "mask",
		Descriptor: "mask:>G08,G09",
		Operand:    "greater-than",
		ItemKind:   "sv",
		Items:      []string{"G08", "G09"},
	}, got[0])
	assert.Equal(t, processing.Description{
		Kind:       "decim",
		Descriptor: "decim:2:G08,iode",
		Rate:       "2",
		Scope:      []string{"G08", "iode"},
	}, got[1])
}

func TestParse_YAMLNegate(t *testing.T) {
	out, err := execute(t, ParseCmd, "--format", "yaml", "--negate", ">= 10 deg")
	require.NoError(t, err)

	var got []processing.Description
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "lower-than", got[0].Operand)
	assert.Equal(t, "angle", got[0].ItemKind)
}

func TestParse_Errors(t *testing.T) {
	_, err := execute(t, ParseCmd, "GPS", "!!!")
	assert.True(t, errors.Is(err, processing.ErrUnknownFilterType))

	_, err = execute(t, ParseCmd, "--format", "xml", "GPS")
	assert.True(t, errors.IsInvalidInputError(err))
	assert.NotEmpty(t, errors.Hints(err))

	_, err = execute(t, ParseCmd)
	assert.Error(t, err, "at least one descriptor is required")
}

func TestPipeline_Show(t *testing.T) {
	useConfig(t, `
[pipeline]
scope = "nav:BRDC.rnx"
steps = ["GPS", ">= 10 deg", "decim:30 s"]
`)

	out, err := execute(t, PipelineCmd, "show", "--format", "json")
	require.NoError(t, err)

	var view pipelineView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "nav:BRDC.rnx", view.Scope)
	require.Len(t, view.Steps, 3)
	assert.Equal(t, "mask:=GPS", view.Steps[0].Descriptor)
	assert.Equal(t, "decim", view.Steps[2].Kind)
	assert.NotEqual(t, view.Steps[0].ID, view.Steps[1].ID)

	out, err = execute(t, PipelineCmd, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Scope: nav:BRDC.rnx")
	assert.Contains(t, out, "mask:>=10 deg")
}

func TestPipeline_Overrides(t *testing.T) {
	useConfig(t, `
[pipeline]
steps = ["GPS"]
`)

	out, err := execute(t, PipelineCmd, "show", "--format", "json",
		"--scope", "meteo", "--steps", `"!= GLO" "decim:10 min:L1C, L2W"`)
	require.NoError(t, err)

	var view pipelineView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "meteo", view.Scope)
	require.Len(t, view.Steps, 2)
	assert.Equal(t, "mask:!=GLO", view.Steps[0].Descriptor)
	assert.Equal(t, []string{"L1C", "L2W"}, view.Steps[1].Scope)

	out, err = execute(t, PipelineCmd, "show", "--steps", "")
	require.NoError(t, err)
	assert.Contains(t, out, "mask:=GPS", "empty override keeps configured steps")
}

func TestPipeline_Validate(t *testing.T) {
	useConfig(t, `
[pipeline]
steps = ["GPS", "!!!"]
`)

	_, err := execute(t, PipelineCmd, "validate")
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	out, err := execute(t, PipelineCmd, "validate", "--steps", `">G08"`)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Pipeline is valid (obs, 1 steps)")

	_, err = execute(t, PipelineCmd, "validate", "--steps", `"unterminated`)
	assert.Error(t, err)
}

func TestConfig_InitShowValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.FileName)

	out, err := execute(t, ConfigCmd, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote "+path)

	_, err = execute(t, ConfigCmd, "init", path)
	assert.True(t, errors.Is(err, config.ErrConfigExists))

	_, err = execute(t, ConfigCmd, "init", path, "--force")
	require.NoError(t, err)

	ConfigFile = path
	t.Cleanup(func() { ConfigFile = "" })

	out, err = execute(t, ConfigCmd, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Configuration is valid")

	out, err = execute(t, ConfigCmd, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[pipeline]")
	assert.Contains(t, out, "decim:30 s")

	out, err = execute(t, ConfigCmd, "show", "--format", "yaml")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.Sample().Pipeline.Steps, cfg.Pipeline.Steps)
}

func TestConfig_ValidateRejects(t *testing.T) {
	useConfig(t, `
[split]
window = "-5 min"
`)
	_, err := execute(t, ConfigCmd, "validate")
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestWatchPath(t *testing.T) {
	path, err := watchPath([]string{"explicit.toml"})
	require.NoError(t, err)
	assert.Equal(t, "explicit.toml", path)

	ConfigFile = "flag.toml"
	t.Cleanup(func() { ConfigFile = "" })
	path, err = watchPath(nil)
	require.NoError(t, err)
	assert.Equal(t, "flag.toml", path)

	ConfigFile = ""
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	_, err = watchPath(nil)
	assert.True(t, errors.IsNotFoundError(err))
}

const sampleCSV = `epoch,sv,signal,value
# first hour
2020-06-25T00:00:00,G08,L1C,100.5
2020-06-25T00:30:00,g8,l1c,101.5
2020-06-25T00:59:59,E24,C1C,102.5
2020-06-25 03:10:00,R05,L2P,103.5
2020-06-25T03:20:00 GPST,G09,S1C,41
`

func TestReadObservations(t *testing.T) {
	series, err := readObservations(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 5, series.Len())

	records := series.Records()
	assert.Equal(t, "G08", records[1].SV)
	assert.Equal(t, "L1C", records[1].Signal)
	assert.Equal(t, 41.0, records[4].Value)

	first, last, ok := series.Span()
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 6, 25, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2020, 6, 25, 3, 20, 0, 0, time.UTC), last)
}

func TestReadObservations_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"bad epoch", "yesterday,G08,L1C,1\n", "invalid epoch"},
		{"constellation instead of sv", "2020-06-25,GPS,L1C,1\n", "invalid sv"},
		{"sv list", `2020-06-25,"G08,G09",L1C,1` + "\n", "invalid sv"},
		{"bad signal", "2020-06-25,G08,X1C,1\n", "invalid signal"},
		{"bad value", "2020-06-25,G08,L1C,abc\n", "invalid value"},
		{"short row", "2020-06-25,G08,L1C\n", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readObservations(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errors.IsInvalidInputError(err))
		})
	}
}

func TestObs_ImportAndSplit(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "obs.db")
	useConfig(t, `
[split]
window = "1 hour"
`)

	csvPath := filepath.Join(dir, "rover.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), config.DefaultFilePermissions))

	out, err := execute(t, ObsCmd, "import", csvPath, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported 5 observations")

	out, err = execute(t, ObsCmd, "split", "--db", db, "--format", "json")
	require.NoError(t, err)

	var windows []splitWindow
	require.NoError(t, json.Unmarshal([]byte(out), &windows))
	require.Len(t, windows, 2, "empty hours are skipped")
	assert.Equal(t, 3, windows[0].Records)
	assert.Equal(t, 2, windows[1].Records)
	assert.Equal(t, time.Date(2020, 6, 25, 3, 10, 0, 0, time.UTC), windows[1].First.UTC())

	out, err = execute(t, ObsCmd, "split", "--db", db, "--format", "json",
		"--window", "15 min", "--from", "2020-06-25T00:15:00", "--to", "2020-06-25T01:00:00")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &windows))
	require.Len(t, windows, 2)
	assert.Equal(t, 1, windows[0].Records)
	assert.Equal(t, 1, windows[1].Records)

	out, err = execute(t, ObsCmd, "split", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "RECORDS")
	assert.NotContains(t, out, "records in", "summary needs -v")
}

func TestObs_SplitErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "obs.db")
	useConfig(t, "")

	_, err := execute(t, ObsCmd, "split", "--db", db, "--window", "0 s")
	assert.Error(t, err)

	_, err = execute(t, ObsCmd, "split", "--db", db, "--from", "tomorrow")
	assert.Error(t, err)

	out, err := execute(t, ObsCmd, "split", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No observations")

	_, err = execute(t, ObsCmd, "import", filepath.Join(t.TempDir(), "absent.csv"), "--db", db)
	assert.Error(t, err)
}

func TestPrintError(t *testing.T) {
	err := errors.WithHint(errors.New("boom"), "try again")

	var buf bytes.Buffer
	PrintError(&buf, err)
	assert.Equal(t, "Error: boom\n  Hint: try again\n", buf.String())
}

func TestVersion(t *testing.T) {
	out, err := execute(t, VersionCmd, "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.GoVersion)

	out, err = execute(t, VersionCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "qcfilter ")
	assert.Contains(t, out, "Platform: ")
}
