package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/teranos/qcfilter/processing"
)

// Default values, also written by InitFile.
const (
	DefaultScope     = "obs"
	DefaultStorePath = "qcfilter.db"
	DefaultWindow    = time.Hour
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.scope", DefaultScope)
	v.SetDefault("pipeline.steps", []string{})

	v.SetDefault("store.path", DefaultStorePath)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.theme", ThemeAuto)

	v.SetDefault("split.window", processing.FormatDuration(DefaultWindow))
}

// Defaults returns a Config holding only default values.
func Defaults() *Config {
	return &Config{
		Pipeline: PipelineConfig{Scope: DefaultScope, Steps: []string{}},
		Store:    StoreConfig{Path: DefaultStorePath},
		Log:      LogConfig{Theme: ThemeAuto},
		Split:    SplitConfig{Window: processing.FormatDuration(DefaultWindow)},
	}
}

// GetStorePath returns the database path, falling back to the default.
func (c *Config) GetStorePath() string {
	if c.Store.Path == "" {
		return DefaultStorePath
	}
	return c.Store.Path
}

// GetTheme returns the log theme, falling back to auto.
func (c *Config) GetTheme() string {
	if c.Log.Theme == "" {
		return ThemeAuto
	}
	return c.Log.Theme
}

// SplitWindow parses split.window. An empty window yields DefaultWindow.
func (c *Config) SplitWindow() (time.Duration, error) {
	if c.Split.Window == "" {
		return DefaultWindow, nil
	}
	return processing.ParseDuration(c.Split.Window)
}
