// Package config loads qcfilter settings from TOML files and QCFILTER_*
// environment variables.
package config

import "fmt"

// Config is the full qcfilter configuration.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline" toml:"pipeline" yaml:"pipeline"`
	Store    StoreConfig    `mapstructure:"store" toml:"store" yaml:"store"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log"`
	Split    SplitConfig    `mapstructure:"split" toml:"split" yaml:"split"`
}

// PipelineConfig describes the filter pipeline applied by default.
type PipelineConfig struct {
	Scope string   `mapstructure:"scope" toml:"scope" yaml:"scope"` // <product>[:<file>], e.g. "obs"
	Steps []string `mapstructure:"steps" toml:"steps" yaml:"steps"` // filter descriptors, in order
}

// StoreConfig configures the observation database.
type StoreConfig struct {
	Path string `mapstructure:"path" toml:"path" yaml:"path"`
}

// LogConfig configures logging and terminal output.
type LogConfig struct {
	JSON      bool   `mapstructure:"json" toml:"json" yaml:"json"`
	Verbosity int    `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity"` // same scale as -v count
	Theme     string `mapstructure:"theme" toml:"theme" yaml:"theme"`             // auto, color or plain
}

// SplitConfig configures time-domain splitting.
type SplitConfig struct {
	Window string `mapstructure:"window" toml:"window" yaml:"window"` // duration literal, e.g. "1 hour"
}

// Log themes.
const (
	ThemeAuto  = "auto"
	ThemeColor = "color"
	ThemePlain = "plain"
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Config file names
const (
	FileName = "qcfilter.toml"
	DirName  = ".qcfilter"
)

func (c *Config) String() string {
	return fmt.Sprintf("Config{Pipeline: {Scope: %s, Steps: %d}, Store: %s, Split: %s}",
		c.Pipeline.Scope, len(c.Pipeline.Steps), c.Store.Path, c.Split.Window)
}
