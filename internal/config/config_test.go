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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeremyhahn/go-feldman/pkg/entropy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feldman.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "debug"
  format: "json"

parameters:
  bits: 512
  max_trials: 100000

storage:
  backend: "file"
  path: "/var/lib/feldman"

entropy:
  mode: "tpm2"
  fallback_mode: "software"
  tpm2_device: "/dev/tpm0"

metrics:
  enabled: true
  textfile: "/var/lib/node_exporter/feldman.prom"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %v, want json", cfg.Logging.Format)
	}
	if cfg.Parameters.Bits != 512 {
		t.Errorf("Parameters.Bits = %v, want 512", cfg.Parameters.Bits)
	}
	if cfg.Parameters.MaxTrials != 100000 {
		t.Errorf("Parameters.MaxTrials = %v, want 100000", cfg.Parameters.MaxTrials)
	}
	if cfg.Storage.Path != "/var/lib/feldman" {
		t.Errorf("Storage.Path = %v, want /var/lib/feldman", cfg.Storage.Path)
	}
	if cfg.Entropy.Mode != "tpm2" {
		t.Errorf("Entropy.Mode = %v, want tpm2", cfg.Entropy.Mode)
	}
	if cfg.Entropy.TPM2Device != "/dev/tpm0" {
		t.Errorf("Entropy.TPM2Device = %v, want /dev/tpm0", cfg.Entropy.TPM2Device)
	}
	if cfg.Metrics.Textfile != "/var/lib/node_exporter/feldman.prom" {
		t.Errorf("Metrics.Textfile = %v", cfg.Metrics.Textfile)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
parameters:
  bits: 128
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if cfg.Parameters.Bits != 128 {
		t.Errorf("Parameters.Bits = %v, want 128", cfg.Parameters.Bits)
	}
	if cfg.Logging != def.Logging {
		t.Errorf("Logging = %+v, want %+v", cfg.Logging, def.Logging)
	}
	if cfg.Storage != def.Storage {
		t.Errorf("Storage = %+v, want %+v", cfg.Storage, def.Storage)
	}
	if cfg.Entropy != def.Entropy {
		t.Errorf("Entropy = %+v, want %+v", cfg.Entropy, def.Entropy)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "info"
parameters:
  bits: 256
`)

	t.Setenv("FELDMAN_LOGGING_LEVEL", "warn")
	t.Setenv("FELDMAN_PARAMETERS_BITS", "1024")
	t.Setenv("FELDMAN_STORAGE_PATH", "/tmp/override")
	t.Setenv("FELDMAN_ENTROPY_MODE", "software")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %v, want warn", cfg.Logging.Level)
	}
	if cfg.Parameters.Bits != 1024 {
		t.Errorf("Parameters.Bits = %v, want 1024", cfg.Parameters.Bits)
	}
	if cfg.Storage.Path != "/tmp/override" {
		t.Errorf("Storage.Path = %v, want /tmp/override", cfg.Storage.Path)
	}
	if cfg.Entropy.Mode != "software" {
		t.Errorf("Entropy.Mode = %v, want software", cfg.Entropy.Mode)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "logging: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
parameters:
  bits: 8
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"memory storage", func(c *Config) { c.Storage = StorageConfig{Backend: StorageMemory} }, ""},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
		{"bits too small", func(c *Config) { c.Parameters.Bits = 15 }, "parameters.bits"},
		{"negative trials", func(c *Config) { c.Parameters.MaxTrials = -1 }, "max_trials"},
		{"unknown storage", func(c *Config) { c.Storage.Backend = "s3" }, "invalid storage backend"},
		{"file without path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"unknown entropy mode", func(c *Config) { c.Entropy.Mode = "dice" }, "unknown mode"},
		{"unknown fallback", func(c *Config) { c.Entropy.FallbackMode = "dice" }, "unknown mode"},
		{"pkcs11 without module", func(c *Config) { c.Entropy.Mode = "pkcs11" }, "pkcs11_module"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Parameters.Bits = 384
	cfg.Entropy.PKCS11Module = "/usr/lib/softhsm/libsofthsm2.so"
	cfg.Entropy.PKCS11Slot = 3
	cfg.Metrics.Textfile = "/tmp/feldman.prom"

	path := filepath.Join(t.TempDir(), "nested", "feldman.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load(Save(cfg)) = %+v, want %+v", loaded, cfg)
	}
}

func TestEntropyConfig(t *testing.T) {
	cfg := Default()
	ec := cfg.EntropyConfig()
	if ec.Mode != entropy.ModeAuto {
		t.Errorf("Mode = %v, want auto", ec.Mode)
	}
	if ec.FallbackMode != entropy.ModeSoftware {
		t.Errorf("FallbackMode = %v, want software", ec.FallbackMode)
	}
	if ec.TPM2 == nil || ec.TPM2.Device != "/dev/tpmrm0" {
		t.Errorf("TPM2 = %+v", ec.TPM2)
	}
	if ec.PKCS11 != nil {
		t.Errorf("PKCS11 should be nil without a module, got %+v", ec.PKCS11)
	}

	cfg.Entropy.PKCS11Module = "/lib/hsm.so"
	cfg.Entropy.PKCS11Slot = 2
	ec = cfg.EntropyConfig()
	if ec.PKCS11 == nil || ec.PKCS11.Module != "/lib/hsm.so" || ec.PKCS11.SlotID != 2 {
		t.Errorf("PKCS11 = %+v", ec.PKCS11)
	}
}
