// ABOUTME: Layered configuration with viper: defaults, optional YAML file, CALLDECK_* environment, then flags.
// ABOUTME: Load unmarshals the merged view into a Config and validates it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/2389-research/calldeck/dashboard"
	"github.com/2389-research/calldeck/metricsapi"
)

// EnvPrefix namespaces environment overrides: CALLDECK_BASE_URL, CALLDECK_LOG_LEVEL, ...
const EnvPrefix = "CALLDECK"

// Config is the merged runtime configuration.
type Config struct {
	BaseURL string     `mapstructure:"base_url"`
	APIKey  string     `mapstructure:"api_key"`
	Limit   int        `mapstructure:"limit"`
	Log     LogConfig  `mapstructure:"log"`
	Demo    DemoConfig `mapstructure:"demo"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	Env   string `mapstructure:"env"`
}

// DemoConfig controls the serve-demo command.
type DemoConfig struct {
	Addr    string   `mapstructure:"addr"`
	DB      string   `mapstructure:"db"`
	Seed    string   `mapstructure:"seed"`
	APIKeys []string `mapstructure:"api_keys"`
}

// New returns a viper instance with defaults derived from dirs and
// environment overrides enabled.
func New(dirs Dirs) *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", metricsapi.DefaultBaseURL)
	v.SetDefault("api_key", metricsapi.DefaultAPIKey)
	v.SetDefault("limit", dashboard.DefaultLimit)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "local")
	if dirs.State != "" {
		v.SetDefault("log.file", filepath.Join(dirs.State, "calldeck.log"))
	} else {
		v.SetDefault("log.file", "")
	}
	v.SetDefault("demo.addr", "127.0.0.1:8000")
	if dirs.Data != "" {
		v.SetDefault("demo.db", filepath.Join(dirs.Data, "demo.db"))
	} else {
		v.SetDefault("demo.db", "demo.db")
	}
	v.SetDefault("demo.seed", "")
	v.SetDefault("demo.api_keys", []string{metricsapi.DefaultAPIKey})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a YAML config file into v. An explicit path must exist;
// with no path, <configDir>/config.yaml is read when present. Returns the
// file used, or "".
func ReadFile(v *viper.Viper, path, configDir string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if configDir == "" {
			return "", nil
		}
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load unmarshals and validates the merged configuration.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Demo.APIKeys = splitList(cfg.Demo.APIKeys)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q: unsupported scheme %q", c.BaseURL, u.Scheme)
	}
	if !slices.Contains(dashboard.LimitChoices, c.Limit) {
		return fmt.Errorf("limit %d: %w (choices %v)", c.Limit, dashboard.ErrInvalidLimit, dashboard.LimitChoices)
	}
	return nil
}

// splitList flattens comma-separated entries (as they arrive from the
// environment) and drops blanks.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
