package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
)

// ErrConfigExists is returned by InitFile when the target already exists.
var ErrConfigExists = errors.New("config file already exists")

const fileHeader = `# qcfilter configuration
#
# [pipeline] steps are filter descriptors applied in order, e.g.
#   "GPS"                  keep GPS only
#   "!= GLO"               drop Glonass
#   ">= 10 deg"            elevation mask
#   "decim:30 s:L1C,L2W"   decimate two signals to 30 s
#
# Every key can be overridden with QCFILTER_<SECTION>_<KEY>.

`

// Sample returns the configuration written by InitFile.
func Sample() *Config {
	cfg := Defaults()
	cfg.Pipeline.Steps = []string{"!= GLO", ">= 10 deg", "decim:30 s"}
	return cfg
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return buf.Bytes(), nil
}

// InitFile writes the sample configuration to path. An existing file is
// kept unless force is set, in which case it is rotated into backups first.
func InitFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Wrapf(ErrConfigExists, "%s", path),
			"pass --force to overwrite; the old file is kept as .back1",
		)
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	return Save(path, Sample())
}

// Save writes cfg to path, rotating the previous content into backups.
func Save(path string, cfg *Config) error {
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), data...), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Debugw("Config written", logger.FieldPath, path)
	return nil
}

// createBackup rotates path into .back1, .back2 and .back3, dropping the oldest.
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	back1, back2, back3 := path+".back1", path+".back2", path+".back3"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old backup", logger.FieldPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
