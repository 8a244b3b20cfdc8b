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

package vss

import (
	"fmt"
	"math/big"
)

// Verify checks a share against the commitments using Feldman's equation:
//
//	g^y mod p == prod_{j=0}^{k-1} C_j^(x^j mod q) mod p
//
// A nil return means the share is consistent. Failures are distinct:
// ErrMissingCommitments when no commitments are set, ErrMalformedShare when
// the share or a commitment is out of range, and a *VerificationError
// (ErrVerificationFailed) when the equation does not hold. Only the last one
// means the share is invalid.
func Verify(share Share, commitments Commitments, params *FieldParameters) error {
	if params == nil {
		return fmt.Errorf("%w: field parameters are required", ErrInvalidParameters)
	}
	if len(commitments) == 0 {
		return ErrMissingCommitments
	}
	if err := checkShare(share, params); err != nil {
		return err
	}
	for j, c := range commitments {
		if c == nil || c.Sign() <= 0 || c.Cmp(params.p) >= 0 {
			return fmt.Errorf("%w: commitment %d is outside (0, p)", ErrMalformedShare, j)
		}
	}

	lhs := new(big.Int).Exp(params.g, share.Value, params.p)

	x := mod(big.NewInt(int64(share.Index)), params.q)
	exponent := big.NewInt(1)
	rhs := big.NewInt(1)
	term := new(big.Int)
	for _, c := range commitments {
		term.Exp(c, exponent, params.p)
		rhs.Mul(rhs, term)
		rhs.Mod(rhs, params.p)

		exponent.Mul(exponent, x)
		exponent.Mod(exponent, params.q)
	}

	if lhs.Cmp(rhs) != 0 {
		return &VerificationError{Index: share.Index}
	}
	return nil
}

// VerifyAll verifies every share and returns the first failure.
func VerifyAll(shares []Share, commitments Commitments, params *FieldParameters) error {
	for _, share := range shares {
		if err := Verify(share, commitments, params); err != nil {
			return err
		}
	}
	return nil
}

// checkShare rejects shares that cannot be points on a polynomial over Z_q.
func checkShare(share Share, params *FieldParameters) error {
	if share.Index < 1 {
		return fmt.Errorf("%w: index %d must be >= 1", ErrMalformedShare, share.Index)
	}
	if share.Value == nil {
		return fmt.Errorf("%w: share %d has no value", ErrMalformedShare, share.Index)
	}
	if share.Value.Sign() < 0 || share.Value.Cmp(params.q) >= 0 {
		return fmt.Errorf("%w: share %d value is outside [0, q)", ErrMalformedShare, share.Index)
	}
	return nil
}
