// Package config loads the simulator configuration for nucleusd.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Init describes the init process spawned at boot.
type Init struct {
	Path string   `yaml:"path" mapstructure:"path"`
	Args []string `yaml:"args" mapstructure:"args"`
	Env  []string `yaml:"env" mapstructure:"env"`
}

// Config is the nucleusd configuration.
type Config struct {
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`
	Terminal  string `yaml:"terminal" mapstructure:"terminal"`
	Init      Init   `yaml:"init" mapstructure:"init"`
}

// Default returns the boot defaults.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Terminal:  "n_tty",
		Init: Init{
			Path: "/sbin/init",
		},
	}
}

// Load reads the configuration file (optional) and applies NUCLEUS_*
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NUCLEUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("terminal", defaults.Terminal)
	v.SetDefault("init.path", defaults.Init.Path)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAML renders the effective configuration, for --debug output.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// Validate checks the configuration for values the kernel would
// reject later.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Init.Path, "/") {
		return fmt.Errorf("init.path must be absolute, got %q", c.Init.Path)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
