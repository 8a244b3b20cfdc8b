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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-feldman/pkg/encoding"
	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/metrics"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// Recoverer verifies shares and reconstructs a secret from public
// parameters alone.
type Recoverer struct {
	public      *vss.PublicParameters
	commitments vss.Commitments
	shares      []vss.Share
	logger      logging.Logger
}

// RecovererOption configures a Recoverer.
type RecovererOption func(*Recoverer)

// WithLogger sets the session logger.
func WithLogger(logger logging.Logger) RecovererOption {
	return func(r *Recoverer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCommitments sets the commitments used by VerifyShare.
func WithCommitments(c vss.Commitments) RecovererOption {
	return func(r *Recoverer) {
		r.commitments = c.Clone()
	}
}

// NewRecoverer starts a recovery session over loaded public parameters.
func NewRecoverer(public *vss.PublicParameters, opts ...RecovererOption) (*Recoverer, error) {
	if public == nil {
		return nil, fmt.Errorf("%w: public parameters are required", vss.ErrInvalidParameters)
	}
	if err := public.Validate(); err != nil {
		return nil, err
	}

	r := &Recoverer{
		public: public,
		logger: logging.NewNoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logging.String("session_id", uuid.NewString()))
	return r, nil
}

// Threshold returns k.
func (r *Recoverer) Threshold() int {
	return r.public.Threshold
}

// SetCommitments replaces the commitments used by VerifyShare. The list
// must hold exactly k entries.
func (r *Recoverer) SetCommitments(c vss.Commitments) error {
	if len(c) == 0 {
		return vss.ErrMissingCommitments
	}
	if len(c) != r.public.Threshold {
		return &vss.ParametersError{
			Reason: fmt.Sprintf("%d commitments for threshold %d", len(c), r.public.Threshold),
		}
	}
	r.commitments = c.Clone()
	return nil
}

// VerifyShare checks a share against the commitments. It returns nil for
// a valid share, vss.ErrMissingCommitments when no commitments are set,
// vss.ErrMalformedShare for out of range input and a *vss.VerificationError
// for a share that does not lie on the committed polynomial.
func (r *Recoverer) VerifyShare(share vss.Share) error {
	start := time.Now()
	err := vss.Verify(share, r.commitments, r.public.Field)
	metrics.RecordOperation(metrics.OpVerify, status(err), time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.RecordVerification(metrics.ResultValid)
		r.logger.Debug("share verified", logging.Int("index", share.Index))
	case errors.Is(err, vss.ErrVerificationFailed):
		metrics.RecordVerification(metrics.ResultInvalid)
		r.logger.Warn("share invalid", logging.Int("index", share.Index))
	case errors.Is(err, vss.ErrMalformedShare):
		metrics.RecordVerification(metrics.ResultMalformed)
		r.logger.Warn("share malformed", logging.Int("index", share.Index), logging.Error(err))
	default:
		metrics.RecordError(metrics.OpVerify, metrics.ErrorType(err))
	}
	return err
}

// VerifyEncoded decodes a share blob and verifies it. The decoded share and
// its declared width are returned even when verification fails.
func (r *Recoverer) VerifyEncoded(blob string) (vss.Share, int, error) {
	share, width, err := encoding.DecodeShare(blob)
	if err != nil {
		metrics.RecordVerification(metrics.ResultMalformed)
		return vss.Share{}, 0, err
	}
	return share, width, r.VerifyShare(share)
}

// AddShare appends a share. Order matters: Recover uses the first k added.
func (r *Recoverer) AddShare(share vss.Share) error {
	if share.Index < 1 || share.Value == nil {
		return fmt.Errorf("%w: share %d is incomplete", vss.ErrMalformedShare, share.Index)
	}
	r.shares = append(r.shares, vss.Share{Index: share.Index, Value: share.Value})
	return nil
}

// AddShares appends shares in order.
func (r *Recoverer) AddShares(shares ...vss.Share) error {
	for _, share := range shares {
		if err := r.AddShare(share); err != nil {
			return err
		}
	}
	return nil
}

// AddEncoded decodes and appends share blobs in order. It returns the
// width declared by the blobs; blobs that disagree on the width are
// rejected.
func (r *Recoverer) AddEncoded(blobs ...string) (int, error) {
	width := -1
	for _, blob := range blobs {
		share, w, err := encoding.DecodeShare(blob)
		if err != nil {
			return 0, err
		}
		if width >= 0 && w != width {
			return 0, fmt.Errorf("%w: share %d declares width %d, expected %d",
				vss.ErrMalformedShare, share.Index, w, width)
		}
		width = w
		if err := r.AddShare(share); err != nil {
			return 0, err
		}
	}
	if width < 0 {
		width = 0
	}
	return width, nil
}

// Shares returns the shares added so far in order.
func (r *Recoverer) Shares() []vss.Share {
	out := make([]vss.Share, len(r.shares))
	copy(out, r.shares)
	return out
}

// Recover interpolates the secret from the first k shares and decodes it
// to width bytes. With width 0, leading zero bytes of the secret are lost.
func (r *Recoverer) Recover(width int) ([]byte, error) {
	start := time.Now()
	secret, err := r.recover(width)
	if err != nil {
		metrics.RecordOperation(metrics.OpRecover, metrics.StatusError, time.Since(start).Seconds())
		metrics.RecordError(metrics.OpRecover, metrics.ErrorType(err))
		r.logger.Error("recover failed", logging.Int("shares", len(r.shares)), logging.Error(err))
		return nil, err
	}

	metrics.RecordOperation(metrics.OpRecover, metrics.StatusSuccess, time.Since(start).Seconds())
	r.logger.Info("secret recovered",
		logging.Int("threshold", r.public.Threshold),
		logging.Ints("indexes", r.usedIndexes()))
	return secret, nil
}

func (r *Recoverer) recover(width int) ([]byte, error) {
	value, err := vss.Interpolate(r.shares, r.public.Threshold, r.public.Field)
	if err != nil {
		return nil, err
	}
	defer value.SetInt64(0)
	return encoding.DecodeSecret(value, width)
}

// VerifyAndRecover verifies every added share, then recovers. The first
// failing share aborts recovery.
func (r *Recoverer) VerifyAndRecover(width int) ([]byte, error) {
	if len(r.commitments) == 0 {
		return nil, vss.ErrMissingCommitments
	}
	for _, share := range r.shares {
		if err := r.VerifyShare(share); err != nil {
			return nil, err
		}
	}
	return r.Recover(width)
}

// Reset drops all added shares.
func (r *Recoverer) Reset() {
	r.shares = nil
}

func (r *Recoverer) usedIndexes() []int {
	k := r.public.Threshold
	if k > len(r.shares) {
		k = len(r.shares)
	}
	indexes := make([]int, k)
	for i := 0; i < k; i++ {
		indexes[i] = r.shares[i].Index
	}
	return indexes
}

func status(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}
