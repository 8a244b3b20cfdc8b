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

// Package shamir wraps the Feldman VSS primitives in dealing and recovery
// sessions.
//
// A Splitter owns one secret. It generates (or accepts) field parameters,
// draws a fresh polynomial and returns a Dealing: public parameters, the
// commitments, n shares and the secret width. A Recoverer is built from
// public parameters alone; it verifies shares against commitments and
// interpolates the secret from the first k shares added.
//
//	splitter, err := shamir.NewSplitter(secret, &shamir.Config{
//	    Threshold: 3,
//	    Total:     5,
//	    Rand:      rng,
//	})
//	dealing, err := splitter.Split()
//
//	recoverer, err := shamir.NewRecoverer(dealing.Public,
//	    shamir.WithCommitments(dealing.Commitments))
//	for _, share := range dealing.Shares[:3] {
//	    if err := recoverer.VerifyShare(share); err != nil {
//	        return err
//	    }
//	    recoverer.AddShare(share)
//	}
//	secret, err := recoverer.Recover(dealing.Width)
//
// Splitters and Recoverers are not safe for concurrent use. Independent
// sessions may run in parallel.
package shamir

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// Config configures a dealing.
type Config struct {
	// Threshold is k, the number of shares needed to recover
	Threshold int

	// Total is n, the number of shares to create
	Total int

	// Bits is the minimum safe prime size when parameters are generated.
	// The effective size is at least 8*len(secret)+10.
	Bits int

	// MaxTrials caps the safe prime search. 0 selects vss.DefaultMaxTrials.
	MaxTrials int

	// Rand is the randomness source. Defaults to crypto/rand.Reader.
	Rand io.Reader

	// Logger receives session events. Defaults to a no-op logger.
	Logger logging.Logger

	// Parameters, when set, skips generation and deals over this field.
	Parameters *vss.FieldParameters
}

// DefaultConfig returns a 2-of-3 configuration with 256-bit parameters.
func DefaultConfig() *Config {
	return &Config{
		Threshold: 2,
		Total:     3,
		Bits:      vss.DefaultParameterBits,
		Rand:      rand.Reader,
		Logger:    logging.NewNoOp(),
	}
}

// Validate checks the threshold relation 1 <= k <= n and the parameter
// settings.
func (c *Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1, got %d", vss.ErrInvalidThreshold, c.Threshold)
	}
	if c.Total < c.Threshold {
		return fmt.Errorf("%w: total shares (%d) must be >= threshold (%d)",
			vss.ErrInvalidThreshold, c.Total, c.Threshold)
	}
	if c.Parameters == nil && c.Bits != 0 && c.Bits < vss.MinParameterBits {
		return fmt.Errorf("%w: bit length %d is below minimum %d",
			vss.ErrParameterGeneration, c.Bits, vss.MinParameterBits)
	}
	if c.MaxTrials < 0 {
		return fmt.Errorf("%w: max trials must not be negative", vss.ErrParameterGeneration)
	}
	return nil
}

// withDefaults returns a copy with unset fields filled in.
func (c *Config) withDefaults() Config {
	out := *c
	if out.Rand == nil {
		out.Rand = rand.Reader
	}
	if out.Logger == nil {
		out.Logger = logging.NewNoOp()
	}
	if out.Bits == 0 {
		out.Bits = vss.DefaultParameterBits
	}
	return out
}
