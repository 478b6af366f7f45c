package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qcfilter/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DefaultDirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), DefaultFilePermissions))
}

func TestLoadWithViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultScope, cfg.Pipeline.Scope)
	assert.Empty(t, cfg.Pipeline.Steps)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, ThemeAuto, cfg.Log.Theme)
	assert.Equal(t, "1 hour", cfg.Split.Window)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
[pipeline]
scope = "nav:BRDC.rnx"
steps = ["GPS", ">= 10 deg", "decim:10 min:l1c"]

[split]
window = "10 min"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nav:BRDC.rnx", cfg.Pipeline.Scope)
	assert.Equal(t, []string{"GPS", ">= 10 deg", "decim:10 min:l1c"}, cfg.Pipeline.Steps)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path, "unset keys keep defaults")

	window, err := cfg.SplitWindow()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, window)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestNewViper_Precedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(project)

	writeFile(t, filepath.Join(home, DirName, FileName), `
[pipeline]
scope = "nav"
[store]
path = "user.db"
`)
	writeFile(t, filepath.Join(project, FileName), `
[store]
path = "project.db"
`)
	t.Setenv("QCFILTER_LOG_THEME", "plain")
	t.Setenv("QCFILTER_PIPELINE_STEPS", `"G08, G09" "decim:10 min"`)

	cfg, err := LoadWithViper(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "nav", cfg.Pipeline.Scope, "user file")
	assert.Equal(t, "project.db", cfg.Store.Path, "project file beats user file")
	assert.Equal(t, ThemePlain, cfg.Log.Theme, "environment beats files")
	assert.Equal(t, []string{"G08, G09", "decim:10 min"}, cfg.Pipeline.Steps)
}

func TestLoad_Caches(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	Reset()
	t.Cleanup(Reset)

	a, err := Load()
	require.NoError(t, err)
	b, err := Load()
	require.NoError(t, err)
	assert.Same(t, a, b)

	Reset()
	c, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, a, c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"sample", func(c *Config) { *c = *Sample() }, false},
		{"bad scope", func(c *Config) { c.Pipeline.Scope = "ionex" }, true},
		{"bad step", func(c *Config) { c.Pipeline.Steps = []string{"GPS", "bogus:!!!"} }, true},
		{"ordering on constellation", func(c *Config) { c.Pipeline.Steps = []string{">GPS"} }, true},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -1 }, true},
		{"unknown theme", func(c *Config) { c.Log.Theme = "gruvbox" }, true},
		{"empty theme is auto", func(c *Config) { c.Log.Theme = "" }, false},
		{"bad window", func(c *Config) { c.Split.Window = "soon" }, true},
		{"zero window", func(c *Config) { c.Split.Window = "0 s" }, true},
		{"empty window is default", func(c *Config) { c.Split.Window = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_NamesStep(t *testing.T) {
	cfg := Defaults()
	cfg.Pipeline.Steps = []string{"GPS", "decim:0"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline.steps[1]")
}

func TestBuildPipeline(t *testing.T) {
	cfg := Sample()
	p, err := cfg.BuildPipeline(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"mask:!=GLO", "mask:>=10 deg", "decim:30 s"}, p.Descriptors())

	cfg.Pipeline.Steps = append(cfg.Pipeline.Steps, "decim:")
	_, err = cfg.BuildPipeline(nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestGetters(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultStorePath, cfg.GetStorePath())
	assert.Equal(t, ThemeAuto, cfg.GetTheme())

	window, err := cfg.SplitWindow()
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow, window)
}
