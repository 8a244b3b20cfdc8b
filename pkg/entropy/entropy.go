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

// Package entropy resolves the process-wide randomness source used for
// parameter generation and polynomial coefficients.
//
// # Sources
//
//   - software: crypto/rand
//   - tpm2: TPM 2.0 GetRandom (requires the tpm2 build tag)
//   - pkcs11: C_GenerateRandom on an HSM slot (requires the pkcs11 build tag)
//   - auto: the first available of pkcs11, tpm2, software
//
// A FallbackMode may be configured; it is used when the primary source
// cannot be opened and again whenever a read from the primary fails.
//
// # Usage
//
//	rng, err := entropy.NewResolver(&entropy.Config{
//	    Mode:         entropy.ModeTPM2,
//	    FallbackMode: entropy.ModeSoftware,
//	})
//	if err != nil {
//	    return err
//	}
//	defer rng.Close()
//	params, err := vss.GenerateParameters(rng, 256, 0)
//
// Resolvers are safe for concurrent use.
package entropy

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Mode specifies which randomness source to use.
type Mode string

const (
	// ModeAuto selects the best available source.
	// Preference order: PKCS#11 > TPM2 > Software
	ModeAuto Mode = "auto"

	// ModeSoftware uses crypto/rand
	ModeSoftware Mode = "software"

	// ModeTPM2 uses the TPM 2.0 hardware RNG
	ModeTPM2 Mode = "tpm2"

	// ModePKCS11 uses a PKCS#11 hardware security module RNG
	ModePKCS11 Mode = "pkcs11"
)

var (
	// ErrUnavailable is returned when a source is not compiled in or the
	// device cannot be opened
	ErrUnavailable = errors.New("entropy: source unavailable")

	// ErrUnknownMode is returned for an unrecognized mode name
	ErrUnknownMode = errors.New("entropy: unknown mode")

	// ErrClosed is returned when reading from a closed resolver
	ErrClosed = errors.New("entropy: resolver closed")
)

// Config contains randomness source configuration.
type Config struct {
	// Mode is the primary source. Defaults to ModeAuto.
	Mode Mode

	// FallbackMode is used if the primary source fails. Empty disables
	// fallback and failures are returned as errors.
	FallbackMode Mode

	// TPM2 contains TPM-specific settings. Defaults are used when nil.
	TPM2 *TPM2Config

	// PKCS11 contains HSM-specific settings. Required for ModePKCS11.
	PKCS11 *PKCS11Config
}

// TPM2Config contains configuration for the TPM2 source.
type TPM2Config struct {
	// Device path (default: "/dev/tpmrm0")
	Device string

	// MaxRequestSize limits the bytes requested per GetRandom call.
	// Default: 32
	MaxRequestSize int

	// UseSimulator connects to a TCP simulator (swtpm) instead of Device
	UseSimulator bool

	// SimulatorHost defaults to "localhost"
	SimulatorHost string

	// SimulatorPort defaults to 2321, the platform port is SimulatorPort+1
	SimulatorPort int
}

// PKCS11Config contains configuration for the PKCS#11 source.
type PKCS11Config struct {
	// Module path to the PKCS#11 library (e.g. /usr/lib/softhsm/libsofthsm2.so)
	Module string

	// SlotID of the token providing the RNG
	SlotID uint

	// PIN logs the session in when non-empty
	PIN string
}

// Resolver is a randomness source. It implements io.Reader so it can be
// passed anywhere crypto/rand.Reader is accepted.
type Resolver interface {
	io.Reader

	// Mode reports the source actually serving reads.
	Mode() Mode

	// Available returns true if the resolver can serve reads.
	Available() bool

	// Close releases device handles.
	Close() error
}

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeSoftware, ModeTPM2, ModePKCS11:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// NewResolver opens the configured source. If the primary source cannot be
// opened and a fallback is configured, the fallback serves alone. A nil
// config selects auto mode without fallback.
func NewResolver(cfg *Config) (Resolver, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeAuto
	}

	primary, err := open(mode, cfg)
	if cfg.FallbackMode == "" || cfg.FallbackMode == mode {
		return primary, err
	}

	fallback, fbErr := open(cfg.FallbackMode, cfg)
	if err != nil {
		if fbErr != nil {
			return nil, fmt.Errorf("%w; fallback: %w", err, fbErr)
		}
		return fallback, nil
	}
	if fbErr != nil {
		_ = primary.Close()
		return nil, fmt.Errorf("fallback: %w", fbErr)
	}
	return &fallbackResolver{primary: primary, fallback: fallback}, nil
}

func open(mode Mode, cfg *Config) (Resolver, error) {
	switch mode {
	case ModeAuto:
		return openAuto(cfg), nil
	case ModeSoftware:
		return newSoftwareResolver(), nil
	case ModeTPM2:
		return newTPM2Resolver(cfg.TPM2)
	case ModePKCS11:
		return newPKCS11Resolver(cfg.PKCS11)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// openAuto returns the first hardware source that opens, or software.
func openAuto(cfg *Config) Resolver {
	if pkcs11Available() && cfg.PKCS11 != nil {
		if r, err := newPKCS11Resolver(cfg.PKCS11); err == nil {
			return r
		}
	}
	if tpm2Available() {
		if r, err := newTPM2Resolver(cfg.TPM2); err == nil {
			return r
		}
	}
	return newSoftwareResolver()
}

// readChunked fills p using generate, requesting at most max bytes per call.
func readChunked(p []byte, max int, generate func(n int) ([]byte, error)) (int, error) {
	filled := 0
	for filled < len(p) {
		n := len(p) - filled
		if max > 0 && n > max {
			n = max
		}
		chunk, err := generate(n)
		if err != nil {
			return filled, err
		}
		if len(chunk) == 0 {
			return filled, io.ErrNoProgress
		}
		filled += copy(p[filled:], chunk)
	}
	return filled, nil
}
