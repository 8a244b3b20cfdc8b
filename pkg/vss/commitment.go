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
	"math/big"
)

// Commitments are the public Feldman commitments C_j = g^a_j mod p, in
// coefficient order. The order is significant for verification.
type Commitments []*big.Int

// Commit computes C_j = g^a_j mod p for every coefficient of f.
func Commit(f *Polynomial) (Commitments, error) {
	if f == nil || len(f.coefficients) == 0 {
		return nil, errPolynomialDestroyed
	}

	params := f.params
	commitments := make(Commitments, len(f.coefficients))
	for j, a := range f.coefficients {
		commitments[j] = new(big.Int).Exp(params.g, a, params.p)
	}
	return commitments, nil
}

// Threshold returns k, the number of commitments.
func (c Commitments) Threshold() int {
	return len(c)
}

// Clone returns a deep copy.
func (c Commitments) Clone() Commitments {
	if c == nil {
		return nil
	}
	out := make(Commitments, len(c))
	for i, v := range c {
		if v != nil {
			out[i] = new(big.Int).Set(v)
		}
	}
	return out
}

// Equal reports whether both sets contain the same values in the same order.
func (c Commitments) Equal(other Commitments) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] == nil || other[i] == nil {
			if c[i] != other[i] {
				return false
			}
			continue
		}
		if c[i].Cmp(other[i]) != 0 {
			return false
		}
	}
	return true
}
