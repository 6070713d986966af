package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	ThresholdStop   = "stop"
	ThresholdFilter = "filter"

	UngroupableAbort = "abort"
	UngroupableSkip  = "skip"

	EnvPrefix = "SPEAKER_SPLIT"
)

var ErrInvalid = errors.New("config")

type Root struct {
	Input string `mapstructure:"input" yaml:"input"`
	Train string `mapstructure:"train" yaml:"train"`
	Dev   string `mapstructure:"dev" yaml:"dev"`
	Test  string `mapstructure:"test" yaml:"test"`

	DevPct      float64 `mapstructure:"dev_pct" yaml:"dev_pct"`
	TestPct     float64 `mapstructure:"test_pct" yaml:"test_pct"`
	MinExamples int     `mapstructure:"min_examples" yaml:"min_examples"`
	Seed        int64   `mapstructure:"seed" yaml:"seed"`

	SkipHeader    bool   `mapstructure:"skip_header" yaml:"skip_header"`
	ThresholdMode string `mapstructure:"threshold_mode" yaml:"threshold_mode"`
	OnUngroupable string `mapstructure:"on_ungroupable" yaml:"on_ungroupable"`

	Report string `mapstructure:"report" yaml:"report,omitempty"`
	LogLvl string `mapstructure:"log_level" yaml:"log_level"`
}

// SetDefaults registers every key so env vars resolve even without a flag or
// config file entry.
func SetDefaults(v *viper.Viper) {
	for _, k := range []string{"input", "train", "dev", "test", "report"} {
		v.SetDefault(k, "")
	}
	v.SetDefault("dev_pct", 0.0)
	v.SetDefault("test_pct", 0.0)
	v.SetDefault("min_examples", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("skip_header", false)
	v.SetDefault("threshold_mode", ThresholdFilter)
	v.SetDefault("on_ungroupable", UngroupableSkip)
	v.SetDefault("log_level", "info")
}

// Load resolves configuration from v. Values already bound to v (flags) win
// over SPEAKER_SPLIT_* env vars, which win over the config file. When file is
// empty a config.yaml is looked up under config/$CONFIG_ENV; a missing guessed
// file is not an error.
func Load(v *viper.Viper, file string) (*Root, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		guess := filepath.Join("config", env, "config.yaml")
		if _, err := os.Stat(guess); err == nil {
			v.SetConfigFile(guess)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", guess, err)
			}
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the split parameters. It does not touch the filesystem.
func (c *Root) Validate() error {
	paths := []struct{ key, val string }{
		{"input", c.Input}, {"train", c.Train}, {"dev", c.Dev}, {"test", c.Test},
	}
	if c.Report != "" {
		paths = append(paths, struct{ key, val string }{"report", c.Report})
	}
	seen := map[string]string{}
	for _, p := range paths {
		if p.val == "" {
			return invalid("%s is required", p.key)
		}
		clean := filepath.Clean(p.val)
		if other, ok := seen[clean]; ok {
			return invalid("%s and %s both point at %s", other, p.key, p.val)
		}
		seen[clean] = p.key
	}
	if !(c.DevPct > 0 && c.DevPct < 1) {
		return invalid("dev_pct must be in (0, 1), got %g", c.DevPct)
	}
	if !(c.TestPct > 0 && c.TestPct < 1) {
		return invalid("test_pct must be in (0, 1), got %g", c.TestPct)
	}
	if !(c.DevPct+c.TestPct < 1) {
		return invalid("dev_pct + test_pct must be below 1, got %g", c.DevPct+c.TestPct)
	}
	if c.MinExamples < 0 {
		return invalid("min_examples must not be negative, got %d", c.MinExamples)
	}
	switch c.ThresholdMode {
	case ThresholdStop, ThresholdFilter:
	default:
		return invalid("threshold_mode must be %q or %q, got %q", ThresholdStop, ThresholdFilter, c.ThresholdMode)
	}
	switch c.OnUngroupable {
	case UngroupableAbort, UngroupableSkip:
	default:
		return invalid("on_ungroupable must be %q or %q, got %q", UngroupableAbort, UngroupableSkip, c.OnUngroupable)
	}
	return nil
}
