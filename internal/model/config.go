package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AccountConfig identifies the mail account and the service it lives on.
// The password is never stored here; it comes from the system keyring.
type AccountConfig struct {
	// Email is the account address, used as the session identity.
	Email string `mapstructure:"email" yaml:"email"`

	// BaseURL is the root URL of the mail service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// PageSize is the number of mails shown per page in the mailbox view.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// SortBy is the default sort criterion (sender, date, priority).
	SortBy string `mapstructure:"sort_by" yaml:"sort_by"`

	// SortAscending is the default sort direction.
	SortAscending bool `mapstructure:"sort_ascending" yaml:"sort_ascending"`
}

// LogConfig controls the application log file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Account AccountConfig `mapstructure:"account" yaml:"account"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mansymail/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mansymail", "config.yaml")
}

// DefaultDataDir returns the directory holding the local session database
// and log file.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "mansymail")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Account: AccountConfig{
			BaseURL: "http://localhost:8080",
		},
		Display: DisplayConfig{
			PageSize:      6,
			SortBy:        "date",
			SortAscending: false,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(DefaultDataDir(), "mansymail.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("account.base_url", "http://localhost:8080")
	v.SetDefault("display.page_size", 6)
	v.SetDefault("display.sort_by", "date")
	v.SetDefault("display.sort_ascending", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(DefaultDataDir(), "mansymail.log"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.PageSize <= 0 {
		cfg.Display.PageSize = 6
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("account", cfg.Account)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
