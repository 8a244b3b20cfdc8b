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

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeremyhahn/go-feldman/internal/config"
	"github.com/jeremyhahn/go-feldman/pkg/entropy"
	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/metrics"
	"github.com/jeremyhahn/go-feldman/pkg/sharestore"
	"github.com/jeremyhahn/go-feldman/pkg/storage"
	"github.com/jeremyhahn/go-feldman/pkg/storage/file"
	"github.com/jeremyhahn/go-feldman/pkg/storage/memory"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// StoreDir overrides storage.path and selects the file backend
	StoreDir string

	// OutputFormat controls output formatting (text, json, yaml)
	OutputFormat string

	// Verbose enables debug logging
	Verbose bool

	settings *config.Config
	logger   logging.Logger
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: string(OutputFormatText),
		logger:       logging.NewNoOp(),
	}
}

// Load reads the configuration file and environment, then applies the
// global flags on top. Log output goes to stderr.
func (c *Config) Load(stderr io.Writer) error {
	settings, err := config.Load(c.ConfigFile)
	if err != nil {
		return err
	}
	if c.StoreDir != "" {
		settings.Storage.Backend = config.StorageFile
		settings.Storage.Path = c.StoreDir
	}
	if c.Verbose {
		settings.Logging.Level = logging.LevelDebug.String()
	}
	if err := ValidateOutputFormat(c.OutputFormat); err != nil {
		return err
	}

	level, err := logging.ParseLevel(settings.Logging.Level)
	if err != nil {
		return err
	}
	c.logger = logging.NewSlogAdapter(&logging.SlogConfig{
		Level:  level,
		Format: strings.ToLower(settings.Logging.Format),
		Writer: stderr,
	})

	if settings.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	c.settings = settings
	return nil
}

// Settings returns the loaded configuration, or the defaults before Load.
func (c *Config) Settings() *config.Config {
	if c.settings == nil {
		return config.Default()
	}
	return c.settings
}

// Logger returns the CLI logger.
func (c *Config) Logger() logging.Logger {
	return c.logger
}

// OpenStore opens the configured storage backend.
func (c *Config) OpenStore() (*sharestore.Store, error) {
	var backend storage.Backend
	settings := c.Settings()

	switch settings.Storage.Backend {
	case config.StorageFile:
		fs, err := file.New(settings.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage backend: %w", err)
		}
		backend = fs
	case config.StorageMemory:
		backend = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", settings.Storage.Backend)
	}

	c.logger.Debug("storage opened",
		logging.String("backend", settings.Storage.Backend),
		logging.String("path", settings.Storage.Path))
	return sharestore.New(backend)
}

// OpenEntropy opens the configured randomness source.
func (c *Config) OpenEntropy() (entropy.Resolver, error) {
	rng, err := entropy.NewResolver(c.Settings().EntropyConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open entropy source: %w", err)
	}
	c.logger.Debug("entropy source opened", logging.String("mode", string(rng.Mode())))
	return rng, nil
}

// FlushMetrics writes the metrics textfile when one is configured.
func (c *Config) FlushMetrics() error {
	settings := c.Settings()
	if !settings.Metrics.Enabled || settings.Metrics.Textfile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(settings.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
