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

package shamir

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-feldman/pkg/encoding"
	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/metrics"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// parameterMarginBits is added to the secret's bit length when sizing
// generated parameters.
const parameterMarginBits = 10

// Dealing is the result of one split.
type Dealing struct {
	// SessionID correlates log lines of this dealing
	SessionID string

	// Public is what recovering parties need besides shares
	Public *vss.PublicParameters

	// Commitments are published alongside the public parameters
	Commitments vss.Commitments

	// Shares are indexed 1..n
	Shares []vss.Share

	// Width is the secret length in bytes
	Width int
}

// EncodedShares returns every share as a transport blob carrying the width.
func (d *Dealing) EncodedShares() ([]string, error) {
	blobs := make([]string, len(d.Shares))
	for i, share := range d.Shares {
		blob, err := encoding.EncodeShare(share, d.Width)
		if err != nil {
			return nil, err
		}
		blobs[i] = blob
	}
	return blobs, nil
}

// Splitter deals one secret.
type Splitter struct {
	secret []byte
	cfg    Config
	params *vss.FieldParameters
}

// NewSplitter validates cfg and copies secret. A nil cfg selects
// DefaultConfig.
func NewSplitter(secret []byte, cfg *Config) (*Splitter, error) {
	if len(secret) == 0 {
		return nil, vss.ErrEmptySecret
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Splitter{
		secret: append([]byte(nil), secret...),
		cfg:    cfg.withDefaults(),
		params: cfg.Parameters,
	}, nil
}

// Bits returns the parameter size Split will generate: the configured
// size, raised to 8*len(secret)+10 when the secret needs more room.
func (s *Splitter) Bits() int {
	need := 8*len(s.secret) + parameterMarginBits
	if s.cfg.Bits > need {
		return s.cfg.Bits
	}
	return need
}

// Parameters returns the field in use, or nil before the first Split when
// parameters are generated.
func (s *Splitter) Parameters() *vss.FieldParameters {
	return s.params
}

// Split produces a new dealing. Field parameters are generated on the
// first call and reused afterwards; every call draws a fresh polynomial.
func (s *Splitter) Split() (*Dealing, error) {
	if s.secret == nil {
		return nil, fmt.Errorf("shamir: splitter has been destroyed")
	}

	sessionID := uuid.NewString()
	log := s.cfg.Logger.With(logging.String("session_id", sessionID))
	start := time.Now()

	dealing, err := s.split(sessionID, log)
	if err != nil {
		metrics.RecordOperation(metrics.OpSplit, metrics.StatusError, time.Since(start).Seconds())
		metrics.RecordError(metrics.OpSplit, metrics.ErrorType(err))
		log.Error("split failed", logging.Error(err))
		return nil, err
	}

	metrics.RecordOperation(metrics.OpSplit, metrics.StatusSuccess, time.Since(start).Seconds())
	log.Info("dealing created",
		logging.Int("threshold", s.cfg.Threshold),
		logging.Int("total", s.cfg.Total),
		logging.Int("bits", dealing.Public.Field.BitLen()),
		logging.Int("width", dealing.Width))
	return dealing, nil
}

func (s *Splitter) split(sessionID string, log logging.Logger) (*Dealing, error) {
	if s.params == nil {
		params, err := s.generateParameters(log)
		if err != nil {
			return nil, err
		}
		s.params = params
	}

	value, width, err := encoding.EncodeSecret(s.secret)
	if err != nil {
		return nil, err
	}
	defer value.SetInt64(0)

	poly, err := vss.NewPolynomial(s.cfg.Rand, value, s.cfg.Threshold, s.params)
	if err != nil {
		return nil, err
	}
	defer poly.Destroy()

	shares, err := vss.Evaluate(poly, vss.Indexes(s.cfg.Total), s.cfg.Total)
	if err != nil {
		return nil, err
	}
	commitments, err := vss.Commit(poly)
	if err != nil {
		return nil, err
	}
	public, err := vss.NewPublicParameters(s.params, s.cfg.Threshold)
	if err != nil {
		return nil, err
	}

	return &Dealing{
		SessionID:   sessionID,
		Public:      public,
		Commitments: commitments,
		Shares:      shares,
		Width:       width,
	}, nil
}

func (s *Splitter) generateParameters(log logging.Logger) (*vss.FieldParameters, error) {
	bits := s.Bits()
	log.Debug("generating field parameters", logging.Int("bits", bits))

	start := time.Now()
	params, trials, err := vss.SearchParameters(s.cfg.Rand, bits, s.cfg.MaxTrials)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordOperation(metrics.OpGenerateParameters, metrics.StatusError, elapsed)
		return nil, err
	}

	metrics.RecordOperation(metrics.OpGenerateParameters, metrics.StatusSuccess, elapsed)
	metrics.RecordParameterTrials(trials)
	log.Debug("field parameters generated",
		logging.Int("bits", params.BitLen()),
		logging.Int("trials", trials))
	return params, nil
}

// Destroy zeroes the splitter's copy of the secret. Split fails afterwards.
func (s *Splitter) Destroy() {
	for i := range s.secret {
		s.secret[i] = 0
	}
	s.secret = nil
}

// GenerateParameters creates field parameters for a dealing of secrets up
// to maxSecretBytes long, independent of any secret.
func GenerateParameters(cfg *Config, maxSecretBytes int) (*vss.FieldParameters, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := cfg.withDefaults()
	bits := c.Bits
	if need := 8*maxSecretBytes + parameterMarginBits; need > bits {
		bits = need
	}

	start := time.Now()
	params, trials, err := vss.SearchParameters(c.Rand, bits, c.MaxTrials)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordOperation(metrics.OpGenerateParameters, metrics.StatusError, elapsed)
		metrics.RecordError(metrics.OpGenerateParameters, metrics.ErrorType(err))
		c.Logger.Error("parameter generation failed", logging.Int("bits", bits), logging.Error(err))
		return nil, err
	}
	metrics.RecordOperation(metrics.OpGenerateParameters, metrics.StatusSuccess, elapsed)
	metrics.RecordParameterTrials(trials)
	c.Logger.Info("field parameters generated",
		logging.Int("bits", params.BitLen()),
		logging.Int("trials", trials))
	return params, nil
}
