/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jose-perigolo/bystruct/internal/codec"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Config represents the bystruct CLI configuration
type Config struct {
	Output   string         `mapstructure:"output"`
	Indent   int            `mapstructure:"indent"`
	Color    bool           `mapstructure:"color"`
	Log      LogConfig      `mapstructure:"log"`
	Validate ValidateConfig `mapstructure:"validate"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ValidateConfig represents validate command configuration
type ValidateConfig struct {
	Collect bool `mapstructure:"collect"`
}

// Options control where configuration is read from.
type Options struct {
	// File is an explicit config file. If empty, bystruct.yaml is
	// searched for in Paths.
	File  string
	Paths []string

	// Flags are bound over the file and environment values.
	Flags *pflag.FlagSet
}

// Load loads the configuration from bystruct.yaml, BYSTRUCT_*
// environment variables and bound flags, in increasing precedence.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	v.SetDefault("output", string(codec.JSON))
	v.SetDefault("indent", 2)
	v.SetDefault("color", true)
	v.SetDefault("log.level", "warn")
	v.SetDefault("validate.collect", false)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("bystruct")
		v.SetConfigType("yaml")
		paths := opts.Paths
		if 0 == len(paths) {
			paths = []string{"."}
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix("BYSTRUCT")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if opts.Flags != nil {
		if err := v.BindPFlags(opts.Flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.File != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Format returns the configured output format.
func (c *Config) Format() codec.Format {
	f, _ := codec.ParseFormat(c.Output)
	return f
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if _, err := codec.ParseFormat(cfg.Output); err != nil {
		return fmt.Errorf("output must be json, yaml or dump: %w", err)
	}

	if cfg.Indent < 0 || 8 < cfg.Indent {
		return fmt.Errorf("indent must be between 0 and 8, got: %d", cfg.Indent)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got: %s", cfg.Log.Level)
	}

	return nil
}
