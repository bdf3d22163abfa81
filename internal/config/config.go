// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for skyvault.
type Config struct {
	BackendURL     string `mapstructure:"backend_url" yaml:"backend_url"`
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	NamingPrefix   string `mapstructure:"naming_prefix" yaml:"naming_prefix"`
}

// Default returns the built-in defaults without reading any config file.
func Default() *Config {
	return &Config{
		DataDir:        ".skyvault",
		LogLevel:       "info",
		RequestTimeout: 15,
		NamingPrefix:   "skyv",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("skyvault")

	// Defaults (backend_url has no default - it's required for submission)
	v.SetDefault("backend_url", "")
	v.SetDefault("data_dir", ".skyvault")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("naming_prefix", "skyv")

	// Setup ENV binding with SKYVAULT_ prefix
	v.SetEnvPrefix("SKYVAULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better parsing
	if err := v.BindEnv("backend_url", "SKYVAULT_BACKEND_URL"); err != nil {
		return nil, fmt.Errorf("binding backend_url env: %w", err)
	}
	if err := v.BindEnv("data_dir", "SKYVAULT_DATA_DIR"); err != nil {
		return nil, fmt.Errorf("binding data_dir env: %w", err)
	}
	if err := v.BindEnv("log_level", "SKYVAULT_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("binding log_level env: %w", err)
	}
	if err := v.BindEnv("log_file", "SKYVAULT_LOG_FILE"); err != nil {
		return nil, fmt.Errorf("binding log_file env: %w", err)
	}
	if err := v.BindEnv("request_timeout_seconds", "SKYVAULT_REQUEST_TIMEOUT_SECONDS"); err != nil {
		return nil, fmt.Errorf("binding request_timeout_seconds env: %w", err)
	}
	if err := v.BindEnv("naming_prefix", "SKYVAULT_NAMING_PREFIX"); err != nil {
		return nil, fmt.Errorf("binding naming_prefix env: %w", err)
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/skyvault/skyvault.yml or $XDG_CONFIG_HOME/skyvault/skyvault.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "skyvault", "skyvault.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "skyvault", "skyvault.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./skyvault.yml in the current working directory.
func ProjectPath() string {
	return "skyvault.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	path := ProjectPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
