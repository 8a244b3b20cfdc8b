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
	"errors"
	"fmt"
	"math/big"
)

// errPolynomialDestroyed is returned when a destroyed polynomial is used.
var errPolynomialDestroyed = errors.New("vss: polynomial has been destroyed")

// Share is a single point (x, y) on the sharing polynomial.
type Share struct {
	// Index is the x-coordinate, in [1, n]
	Index int

	// Value is f(Index) mod q
	Value *big.Int
}

// String returns a representation that omits the share value.
func (s Share) String() string {
	return fmt.Sprintf("Share{Index: %d}", s.Index)
}

// Equal reports whether two shares carry the same point.
func (s Share) Equal(other Share) bool {
	if s.Index != other.Index {
		return false
	}
	if s.Value == nil || other.Value == nil {
		return s.Value == other.Value
	}
	return s.Value.Cmp(other.Value) == 0
}

// Evaluate computes one share per requested index. Indexes must be distinct
// and lie in [1, n]; an index that is zero modulo q is rejected because it
// would expose a0 directly.
func Evaluate(f *Polynomial, indexes []int, n int) ([]Share, error) {
	if f == nil || len(f.coefficients) == 0 {
		return nil, errPolynomialDestroyed
	}
	if err := ValidateIndexes(indexes, n, f.params); err != nil {
		return nil, err
	}

	shares := make([]Share, len(indexes))
	for i, index := range indexes {
		shares[i] = Share{
			Index: index,
			Value: f.EvaluateAt(big.NewInt(int64(index))),
		}
	}
	return shares, nil
}

// Indexes returns the sequence 1..n.
func Indexes(n int) []int {
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i + 1
	}
	return indexes
}

// ValidateIndexes checks that every index is unique, within [1, n] and
// non-zero modulo q.
func ValidateIndexes(indexes []int, n int, params *FieldParameters) error {
	seen := make(map[int]struct{}, len(indexes))
	for _, index := range indexes {
		if index < 1 {
			return &IndexError{Index: index, Reason: "must be >= 1"}
		}
		if index > n {
			return &IndexError{Index: index, Reason: fmt.Sprintf("must be <= total %d", n)}
		}
		if params != nil && mod(big.NewInt(int64(index)), params.q).Sign() == 0 {
			return &IndexError{Index: index, Reason: "is zero modulo q"}
		}
		if _, ok := seen[index]; ok {
			return &IndexError{Index: index, Reason: "requested more than once"}
		}
		seen[index] = struct{}{}
	}
	return nil
}
