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
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// primalityRounds is the number of Miller-Rabin rounds passed to
// big.Int.ProbablyPrime. A Baillie-PSW test is always applied as well.
const primalityRounds = 20

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// isProbablePrime reports whether n is a positive probable prime.
func isProbablePrime(n *big.Int) bool {
	return n != nil && n.Sign() > 0 && n.ProbablyPrime(primalityRounds)
}

// mod returns a mod m in the range [0, m).
func mod(a, m *big.Int) *big.Int {
	return new(big.Int).Mod(a, m)
}

// modInverse returns the multiplicative inverse of a modulo m using the
// extended Euclidean algorithm.
func modInverse(a, m *big.Int) (*big.Int, error) {
	r := mod(a, m)
	if r.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero has no inverse modulo q", ErrReconstruction)
	}
	inv := new(big.Int).ModInverse(r, m)
	if inv == nil {
		return nil, fmt.Errorf("%w: %s is not invertible", ErrReconstruction, r)
	}
	return inv, nil
}

// randomBelow draws a uniform integer in [0, max) from r.
func randomBelow(r io.Reader, max *big.Int) (*big.Int, error) {
	n, err := rand.Int(r, max)
	if err != nil {
		return nil, fmt.Errorf("failed to read randomness: %w", err)
	}
	return n, nil
}

// randomOddWithBits draws an integer with exactly the given bit length and
// the lowest bit set.
func randomOddWithBits(r io.Reader, bits int) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read randomness: %w", err)
	}
	// Clear the bits above the requested length
	if excess := len(buf)*8 - bits; excess > 0 {
		buf[0] &= byte(0xff >> excess)
	}
	n := new(big.Int).SetBytes(buf)
	n.SetBit(n, bits-1, 1)
	n.SetBit(n, 0, 1)
	return n, nil
}
