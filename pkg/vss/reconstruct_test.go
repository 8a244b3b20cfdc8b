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
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate_KnownScenario(t *testing.T) {
	// f(x) = 7 + 3x over Z_11: shares (1,10), (2,2), (3,5)
	params := tinyParams(t)
	shares := []Share{
		{Index: 1, Value: big.NewInt(10)},
		{Index: 2, Value: big.NewInt(2)},
		{Index: 3, Value: big.NewInt(5)},
	}

	secret, err := Interpolate(shares[:2], 2, params)
	require.NoError(t, err)
	assert.Equal(t, int64(7), secret.Int64())

	secret, err = Interpolate([]Share{shares[2], shares[0]}, 2, params)
	require.NoError(t, err)
	assert.Equal(t, int64(7), secret.Int64())
}

func TestInterpolate_RoundTrip(t *testing.T) {
	params := group256(t)
	rng := rand.New(rand.NewPCG(1, 2))

	configs := []struct{ k, n int }{
		{1, 1}, {1, 5}, {2, 2}, {2, 3}, {3, 5}, {5, 5}, {4, 10}, {10, 20}, {25, 50}, {50, 50},
	}

	for _, cfg := range configs {
		secret := new(big.Int).SetUint64(rng.Uint64())
		shares, _ := dealShares(t, params, secret, cfg.k, cfg.n, "roundtrip")

		// Prefix
		got, err := Interpolate(shares[:cfg.k], cfg.k, params)
		require.NoError(t, err)
		assert.Equal(t, 0, secret.Cmp(got), "k=%d n=%d prefix", cfg.k, cfg.n)

		// Random subsets in random order
		for trial := 0; trial < 5; trial++ {
			perm := rng.Perm(cfg.n)
			subset := make([]Share, cfg.k)
			for i := 0; i < cfg.k; i++ {
				subset[i] = shares[perm[i]]
			}
			got, err := Interpolate(subset, cfg.k, params)
			require.NoError(t, err)
			assert.Equal(t, 0, secret.Cmp(got), "k=%d n=%d subset %v", cfg.k, cfg.n, perm[:cfg.k])
		}
	}
}

func TestInterpolate_InsufficientShares(t *testing.T) {
	params := group128(t)

	for k := 1; k <= 6; k++ {
		shares, _ := dealShares(t, params, big.NewInt(31337), k, 6, "threshold")

		secret, err := Interpolate(shares[:k-1], k, params)
		require.Error(t, err, "k=%d", k)
		assert.Nil(t, secret)
		assert.ErrorIs(t, err, ErrInsufficientShares)

		var ie *InsufficientSharesError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, k-1, ie.Have)
		assert.Equal(t, k, ie.Need)
	}
}

func TestInterpolate_DuplicateIndex(t *testing.T) {
	params := tinyParams(t)
	share := Share{Index: 1, Value: big.NewInt(10)}

	_, err := Interpolate([]Share{share, share}, 2, params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIndex)

	var de *DuplicateIndexError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Index)

	// Duplicates beyond the first k are still rejected
	shares := []Share{
		{Index: 1, Value: big.NewInt(10)},
		{Index: 2, Value: big.NewInt(2)},
		{Index: 2, Value: big.NewInt(2)},
	}
	_, err = Interpolate(shares, 2, params)
	assert.ErrorIs(t, err, ErrDuplicateIndex)
}

func TestInterpolate_IndexesCollideModuloQ(t *testing.T) {
	params := tinyParams(t)
	shares := []Share{
		{Index: 1, Value: big.NewInt(10)},
		{Index: 12, Value: big.NewInt(10)},
	}

	_, err := Interpolate(shares, 2, params)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReconstruction)
	assert.NotErrorIs(t, err, ErrDuplicateIndex)
}

func TestInterpolate_UsesFirstKInSuppliedOrder(t *testing.T) {
	params := tinyParams(t)
	good := []Share{
		{Index: 1, Value: big.NewInt(10)},
		{Index: 2, Value: big.NewInt(2)},
	}
	bogus := Share{Index: 3, Value: big.NewInt(0)}

	// A bad share after the first k is never read
	secret, err := Interpolate([]Share{good[0], good[1], bogus}, 2, params)
	require.NoError(t, err)
	assert.Equal(t, int64(7), secret.Int64())

	// The same bad share inside the first k changes the result, even though
	// the two good shares have the smallest indexes
	secret, err = Interpolate([]Share{bogus, good[0], good[1]}, 2, params)
	require.NoError(t, err)
	assert.NotEqual(t, int64(7), secret.Int64())
}

func TestInterpolate_UsageErrors(t *testing.T) {
	params := tinyParams(t)

	_, err := Interpolate(nil, 0, params)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = Interpolate([]Share{{Index: 1, Value: big.NewInt(1)}}, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidParameters)

	_, err = Interpolate([]Share{{Index: 1}}, 1, params)
	assert.ErrorIs(t, err, ErrMalformedShare)

	_, err = Interpolate([]Share{{Index: 0, Value: big.NewInt(1)}}, 1, params)
	assert.ErrorIs(t, err, ErrMalformedShare)
}

func TestModInverse(t *testing.T) {
	q := big.NewInt(11)
	for a := int64(1); a < 11; a++ {
		inv, err := modInverse(big.NewInt(a), q)
		require.NoError(t, err)
		product := new(big.Int).Mul(big.NewInt(a), inv)
		assert.Equal(t, int64(1), product.Mod(product, q).Int64(), "a=%d", a)
	}

	// Negative values are reduced first
	inv, err := modInverse(big.NewInt(-1), q)
	require.NoError(t, err)
	assert.Equal(t, int64(10), inv.Int64())

	_, err = modInverse(big.NewInt(22), q)
	assert.ErrorIs(t, err, ErrReconstruction)
}
