package config

import (
	"go.uber.org/zap"

	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/pipeline"
	"github.com/teranos/qcfilter/processing"
)

// ErrInvalidConfig marks every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks that the configuration is usable: the scope and every
// pipeline step parse, and numeric settings are in range. It stops at the
// first problem.
func (c *Config) Validate() error {
	if _, err := pipeline.ParseScope(c.Pipeline.Scope); err != nil {
		return invalid(err, "pipeline.scope")
	}

	for i, step := range c.Pipeline.Steps {
		if _, err := processing.ParseFilter(step); err != nil {
			return invalid(err, "pipeline.steps[%d]", i)
		}
	}

	if c.Log.Verbosity < 0 {
		return invalid(errors.Newf("got %d", c.Log.Verbosity), "log.verbosity must be >= 0")
	}

	switch c.GetTheme() {
	case ThemeAuto, ThemeColor, ThemePlain:
	default:
		return errors.WithHint(
			invalid(errors.Newf("unknown theme %q", c.Log.Theme), "log.theme"),
			"themes are auto, color and plain",
		)
	}

	window, err := c.SplitWindow()
	if err != nil {
		return invalid(err, "split.window")
	}
	if window <= 0 {
		return invalid(errors.Newf("got %s", c.Split.Window), "split.window must be positive")
	}

	return nil
}

func invalid(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrInvalidConfig)
}

// BuildPipeline creates the configured pipeline with every step installed.
func (c *Config) BuildPipeline(log *zap.SugaredLogger) (*pipeline.Pipeline, error) {
	p, err := pipeline.New(c.Pipeline.Scope, log)
	if err != nil {
		return nil, invalid(err, "pipeline.scope")
	}
	if err := p.InstallAll(c.Pipeline.Steps); err != nil {
		return nil, invalid(err, "pipeline.steps")
	}
	return p, nil
}
