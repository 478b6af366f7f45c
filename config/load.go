package config

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/teranos/qcfilter/errors"
)

// EnvPrefix prefixes every environment override, e.g. QCFILTER_STORE_PATH.
const EnvPrefix = "QCFILTER"

var (
	globalMu     sync.Mutex
	globalConfig *Config
)

// Load reads the configuration once and caches it. Sources are merged in
// precedence order: defaults, user file, project file, environment.
func Load() (*Config, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := LoadWithViper(NewViper())
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

// Reset clears the cached configuration.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}

// NewViper builds a viper instance with defaults, config files and
// environment bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	for _, path := range ConfigFiles() {
		v.SetConfigFile(path)
		// Unreadable files are skipped; Validate reports bad values
		_ = v.MergeInConfig()
	}
	return v
}

// LoadWithViper decodes a prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads defaults overlaid with one TOML file, ignoring the
// environment and other files.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadWithViper(v)
}

// decodeHook lets list settings arrive as one shell-quoted string, which is
// how they come from the environment:
//
//	QCFILTER_PIPELINE_STEPS='"G08, G09" "decim:10 min"'
func decodeHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return []string{}, nil
		}
		words, err := shellquote.Split(s)
		if err != nil {
			return nil, errors.Wrapf(err, "split list %q", s)
		}
		return words, nil
	}
}

// ConfigFiles returns the existing config files in merge order.
func ConfigFiles() []string {
	var candidates []string
	if dir := UserDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, FileName))
	}
	if project := findProjectConfig(); project != "" {
		candidates = append(candidates, project)
	}

	var files []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil && !slices.Contains(files, path) {
			files = append(files, path)
		}
	}
	return files
}

// UserDir returns ~/.qcfilter, or "" when the home directory is unknown.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName)
}

// findProjectConfig walks up from the working directory looking for
// qcfilter.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
