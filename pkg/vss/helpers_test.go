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
	"testing"

	"github.com/jeremyhahn/go-feldman/internal/testutil"
	"github.com/stretchr/testify/require"
)

// tinyParams returns the p=23, q=11, g=2 group.
func tinyParams(t *testing.T) *FieldParameters {
	t.Helper()
	params, err := NewFieldParameters(
		testutil.MustBigInt(testutil.TinyP),
		testutil.MustBigInt(testutil.TinyQ),
		testutil.MustBigInt(testutil.TinyG),
	)
	require.NoError(t, err)
	return params
}

// group128 returns a 128-bit safe prime group.
func group128(t *testing.T) *FieldParameters {
	t.Helper()
	params, err := NewFieldParameters(
		testutil.MustBigInt(testutil.Group128P),
		testutil.MustBigInt(testutil.Group128Q),
		testutil.MustBigInt(testutil.Group128G),
	)
	require.NoError(t, err)
	return params
}

// group256 returns a 256-bit safe prime group.
func group256(t *testing.T) *FieldParameters {
	t.Helper()
	params, err := NewFieldParameters(
		testutil.MustBigInt(testutil.Group256P),
		testutil.MustBigInt(testutil.Group256Q),
		testutil.MustBigInt(testutil.Group256G),
	)
	require.NoError(t, err)
	return params
}

// fixedPolynomial builds a polynomial from known coefficients.
func fixedPolynomial(params *FieldParameters, coefficients ...int64) *Polynomial {
	coeffs := make([]*big.Int, len(coefficients))
	for i, c := range coefficients {
		coeffs[i] = mod(big.NewInt(c), params.q)
	}
	return &Polynomial{coefficients: coeffs, params: params}
}

// dealShares builds a random polynomial for secret and returns all n shares
// and the commitments.
func dealShares(t *testing.T, params *FieldParameters, secret *big.Int, k, n int, seed string) ([]Share, Commitments) {
	t.Helper()
	poly, err := NewPolynomial(testutil.NewDeterministicReader(seed), secret, k, params)
	require.NoError(t, err)
	defer poly.Destroy()

	shares, err := Evaluate(poly, Indexes(n), n)
	require.NoError(t, err)
	commitments, err := Commit(poly)
	require.NoError(t, err)
	return shares, commitments
}
