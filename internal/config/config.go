// Package config provides configuration management for nsvault.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nsvault/nsvault/internal/fileutil"
)

// Config represents the application configuration.
type Config struct {
	Version     int             `yaml:"version"`
	Home        string          `yaml:"home"`
	WalletDir   string          `yaml:"wallet_dir"`
	BackupDir   string          `yaml:"backup_dir"`
	Language    string          `yaml:"language"`
	Password    PasswordConfig  `yaml:"password"`
	Retention   RetentionConfig `yaml:"retention"`
	Logging     LoggingConfig   `yaml:"logging"`
	RememberKey string          `yaml:"remember_key,omitempty"`
}

// PasswordConfig defines password-generator defaults.
type PasswordConfig struct {
	Length int  `yaml:"length"`
	Clever bool `yaml:"clever"`
}

// RetentionConfig defines auto-backup retention parameters.
type RetentionConfig struct {
	MinKeep    int `yaml:"min_keep"`
	MaxAgeDays int `yaml:"max_age_days"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file, applying Defaults
// first so a partial or absent file still produces a usable configuration.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the specified file, creating its parent
// directory if absent.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path under an application home
// directory.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// RememberedPasswordPath returns the path of the optional encrypted
// remembered-master-password file under the application home directory.
// Its presence is entirely optional; the vault never requires it.
func RememberedPasswordPath(home string) string {
	return filepath.Join(home, "remembered.age")
}

// GetHome returns the application home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// DefaultHome returns the default application home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nsvault"
	}
	return filepath.Join(home, ".nsvault")
}
