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

// Interpolate recovers f(0) from the first k shares, in the order they were
// supplied, using Lagrange interpolation modulo q:
//
//	f(0) = sum_i y_i * prod_{j != i} x_j / (x_j - x_i)  (mod q)
//
// Shares beyond the first k are ignored for the computation but still take
// part in the duplicate index check.
func Interpolate(shares []Share, k int, params *FieldParameters) (*big.Int, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: field parameters are required", ErrInvalidParameters)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: threshold must be at least 1, got %d", ErrInvalidThreshold, k)
	}
	if len(shares) < k {
		return nil, &InsufficientSharesError{Have: len(shares), Need: k}
	}

	seen := make(map[int]struct{}, len(shares))
	for _, share := range shares {
		if share.Index < 1 || share.Value == nil {
			return nil, fmt.Errorf("%w: share %d is incomplete", ErrMalformedShare, share.Index)
		}
		if _, ok := seen[share.Index]; ok {
			return nil, &DuplicateIndexError{Index: share.Index}
		}
		seen[share.Index] = struct{}{}
	}

	// Use only the first k shares
	selected := shares[:k]
	q := params.q

	xs := make([]*big.Int, k)
	for i, share := range selected {
		xs[i] = mod(big.NewInt(int64(share.Index)), q)
	}

	secret := new(big.Int)
	for i, share := range selected {
		basis := big.NewInt(1)
		for j := range selected {
			if i == j {
				continue
			}
			denominator := new(big.Int).Sub(xs[j], xs[i])
			inv, err := modInverse(denominator, q)
			if err != nil {
				return nil, fmt.Errorf("%w: indexes %d and %d coincide modulo q",
					ErrReconstruction, selected[i].Index, selected[j].Index)
			}
			basis.Mul(basis, xs[j])
			basis.Mul(basis, inv)
			basis.Mod(basis, q)
		}

		term := new(big.Int).Mul(mod(share.Value, q), basis)
		secret.Add(secret, term)
		secret.Mod(secret, q)
	}

	return secret, nil
}
