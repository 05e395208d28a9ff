// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Server struct {
		Port             int    `mapstructure:"port" yaml:"port"`
		MaxPurchaseFiles int    `mapstructure:"max_purchase_files" yaml:"max_purchase_files"`
		MaxUploadMB      int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
		UploadDir        string `mapstructure:"upload_dir" yaml:"upload_dir"`
	} `mapstructure:"server" yaml:"server"`

	Output struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"output" yaml:"output"`
}

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// Load reads configuration from defaults, then the config file, then
// RECONCILER_* environment variables. An empty path searches
// $HOME/.reconciler and the working directory for config.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.reconciler")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("RECONCILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "RECONCILER_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT: %w", err)
	}

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.port", 5001)
	v.SetDefault("server.max_purchase_files", 10)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.upload_dir", os.TempDir())

	v.SetDefault("output.format", "json")
}

// Validate checks the configuration values
func Validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}
	if cfg.Server.MaxPurchaseFiles < 1 {
		return fmt.Errorf("server.max_purchase_files must be at least 1, got: %d", cfg.Server.MaxPurchaseFiles)
	}
	if cfg.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be at least 1, got: %d", cfg.Server.MaxUploadMB)
	}
	switch cfg.Output.Format {
	case "json", "yaml", "csv":
	default:
		return fmt.Errorf("invalid output format: %s (must be 'json', 'yaml' or 'csv')", cfg.Output.Format)
	}
	return nil
}
