// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-feldman.
//
// go-feldman is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads the feldman CLI configuration.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML
// file and FELDMAN_ prefixed environment variables. Nested keys map to
// environment names by replacing dots with underscores, for example
// parameters.bits is FELDMAN_PARAMETERS_BITS.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeremyhahn/go-feldman/pkg/entropy"
	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "FELDMAN"

// Storage backend names
const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

// Config represents the complete CLI configuration
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging" json:"logging"`
	Parameters ParametersConfig `mapstructure:"parameters" yaml:"parameters" json:"parameters"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage" json:"storage"`
	Entropy    EntropyConfig    `mapstructure:"entropy" yaml:"entropy" json:"entropy"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// ParametersConfig controls safe prime generation
type ParametersConfig struct {
	Bits      int `mapstructure:"bits" yaml:"bits" json:"bits"`
	MaxTrials int `mapstructure:"max_trials" yaml:"max_trials" json:"max_trials"`
}

// StorageConfig controls where dealings are persisted
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// EntropyConfig selects the randomness source
type EntropyConfig struct {
	Mode         string `mapstructure:"mode" yaml:"mode" json:"mode"`
	FallbackMode string `mapstructure:"fallback_mode" yaml:"fallback_mode" json:"fallback_mode"`
	TPM2Device   string `mapstructure:"tpm2_device" yaml:"tpm2_device" json:"tpm2_device"`
	PKCS11Module string `mapstructure:"pkcs11_module" yaml:"pkcs11_module" json:"pkcs11_module"`
	PKCS11Slot   uint   `mapstructure:"pkcs11_slot" yaml:"pkcs11_slot" json:"pkcs11_slot"`
	PKCS11PIN    string `mapstructure:"pkcs11_pin" yaml:"pkcs11_pin,omitempty" json:"pkcs11_pin,omitempty"`
}

// MetricsConfig controls Prometheus instrumentation. Textfile, when set,
// receives the registry in node-exporter textfile format after each command.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Parameters: ParametersConfig{
			Bits: vss.DefaultParameterBits,
		},
		Storage: StorageConfig{
			Backend: StorageFile,
			Path:    "feldman-data",
		},
		Entropy: EntropyConfig{
			Mode:         string(entropy.ModeAuto),
			FallbackMode: string(entropy.ModeSoftware),
			TPM2Device:   "/dev/tpmrm0",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from a YAML file and applies environment
// variable overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("parameters.bits", d.Parameters.Bits)
	v.SetDefault("parameters.max_trials", d.Parameters.MaxTrials)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("entropy.mode", d.Entropy.Mode)
	v.SetDefault("entropy.fallback_mode", d.Entropy.FallbackMode)
	v.SetDefault("entropy.tpm2_device", d.Entropy.TPM2Device)
	v.SetDefault("entropy.pkcs11_module", d.Entropy.PKCS11Module)
	v.SetDefault("entropy.pkcs11_slot", d.Entropy.PKCS11Slot)
	v.SetDefault("entropy.pkcs11_pin", d.Entropy.PKCS11PIN)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		logging.FormatText: true, logging.FormatJSON: true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	if c.Parameters.Bits < vss.MinParameterBits {
		return fmt.Errorf("parameters.bits must be at least %d, got %d",
			vss.MinParameterBits, c.Parameters.Bits)
	}
	if c.Parameters.MaxTrials < 0 {
		return errors.New("parameters.max_trials must not be negative")
	}

	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the file backend")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be file or memory)", c.Storage.Backend)
	}

	if _, err := entropy.ParseMode(c.Entropy.Mode); err != nil {
		return err
	}
	if c.Entropy.FallbackMode != "" {
		if _, err := entropy.ParseMode(c.Entropy.FallbackMode); err != nil {
			return err
		}
	}
	if c.Entropy.Mode == string(entropy.ModePKCS11) && c.Entropy.PKCS11Module == "" {
		return errors.New("entropy.pkcs11_module is required for pkcs11 mode")
	}

	return nil
}

// EntropyConfig converts the entropy settings for entropy.NewResolver.
func (c *Config) EntropyConfig() *entropy.Config {
	cfg := &entropy.Config{
		Mode:         entropy.Mode(strings.ToLower(c.Entropy.Mode)),
		FallbackMode: entropy.Mode(strings.ToLower(c.Entropy.FallbackMode)),
		TPM2: &entropy.TPM2Config{
			Device: c.Entropy.TPM2Device,
		},
	}
	if c.Entropy.PKCS11Module != "" {
		cfg.PKCS11 = &entropy.PKCS11Config{
			Module: c.Entropy.PKCS11Module,
			SlotID: c.Entropy.PKCS11Slot,
			PIN:    c.Entropy.PKCS11PIN,
		}
	}
	return cfg
}
