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
	"io"
	"math/big"
)

const (
	// MinParameterBits is the smallest safe prime bit length accepted by
	// GenerateParameters. Values this small are only useful for tests.
	MinParameterBits = 16

	// DefaultParameterBits is the default bit length of the safe prime p.
	DefaultParameterBits = 256
)

// FieldParameters holds a safe prime p = 2q+1, the Sophie Germain prime q
// and a generator g of the order-q subgroup of Z*_p.
//
// FieldParameters is immutable; accessors return copies.
type FieldParameters struct {
	p *big.Int
	q *big.Int
	g *big.Int
}

// NewFieldParameters validates and wraps externally supplied parameters.
// Returns an error wrapping ErrInvalidParameters if p is not prime, q is
// not (p-1)/2, q is not prime, or g does not have order q.
func NewFieldParameters(p, q, g *big.Int) (*FieldParameters, error) {
	if p == nil || q == nil || g == nil {
		return nil, &ParametersError{Reason: "p, q and g are required"}
	}
	if !isProbablePrime(p) {
		return nil, &ParametersError{Reason: "p is not prime"}
	}
	expectedQ := new(big.Int).Rsh(new(big.Int).Sub(p, bigOne), 1)
	if q.Cmp(expectedQ) != 0 {
		return nil, &ParametersError{Reason: "q is not (p-1)/2"}
	}
	if !isProbablePrime(q) {
		return nil, &ParametersError{Reason: "q is not prime"}
	}
	if g.Cmp(bigOne) <= 0 || g.Cmp(p) >= 0 {
		return nil, &ParametersError{Reason: "g must satisfy 1 < g < p"}
	}
	if new(big.Int).Exp(g, q, p).Cmp(bigOne) != 0 {
		return nil, &ParametersError{Reason: "g does not have order q"}
	}

	return &FieldParameters{
		p: new(big.Int).Set(p),
		q: new(big.Int).Set(q),
		g: new(big.Int).Set(g),
	}, nil
}

// GenerateParameters produces a fresh safe prime p with exactly bits bits
// and a generator g of the order-q subgroup. Randomness is read from r.
//
// Each candidate q counts as one trial. If no safe prime is found within
// maxTrials candidates the call fails with a *GenerationError. A maxTrials
// value <= 0 selects DefaultMaxTrials(bits).
func GenerateParameters(r io.Reader, bits, maxTrials int) (*FieldParameters, error) {
	params, _, err := SearchParameters(r, bits, maxTrials)
	return params, err
}

// SearchParameters is GenerateParameters that also reports how many safe
// prime candidates were consumed.
func SearchParameters(r io.Reader, bits, maxTrials int) (*FieldParameters, int, error) {
	if r == nil {
		return nil, 0, fmt.Errorf("%w: randomness source is required", ErrParameterGeneration)
	}
	if bits < MinParameterBits {
		return nil, 0, fmt.Errorf("%w: bit length %d is below minimum %d",
			ErrParameterGeneration, bits, MinParameterBits)
	}
	if maxTrials <= 0 {
		maxTrials = DefaultMaxTrials(bits)
	}

	for trial := 0; trial < maxTrials; trial++ {
		q, err := randomOddWithBits(r, bits-1)
		if err != nil {
			return nil, trial, fmt.Errorf("%w: %v", ErrParameterGeneration, err)
		}
		if !isProbablePrime(q) {
			continue
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, bigOne)
		if !isProbablePrime(p) {
			continue
		}

		g, err := findGenerator(r, p, q, maxTrials)
		if err != nil {
			return nil, trial + 1, err
		}
		return &FieldParameters{p: p, q: q, g: g}, trial + 1, nil
	}

	return nil, maxTrials, &GenerationError{Bits: bits, Trials: maxTrials, Stage: "safe prime"}
}

// DefaultMaxTrials returns the candidate budget used for a bit length when
// the caller does not supply one. The expected number of candidates grows
// with the square of the bit length.
func DefaultMaxTrials(bits int) int {
	trials := bits * bits
	if trials < 4096 {
		return 4096
	}
	return trials
}

// findGenerator samples h in [2, p-2] and returns g = h^2 mod p. Squaring
// maps into the quadratic residues, the unique subgroup of order q, so g
// has order 1 or q; g == 1 is rejected.
func findGenerator(r io.Reader, p, q *big.Int, maxTrials int) (*big.Int, error) {
	span := new(big.Int).Sub(p, big.NewInt(3))
	for trial := 0; trial < maxTrials; trial++ {
		h, err := randomBelow(r, span)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParameterGeneration, err)
		}
		h.Add(h, bigTwo)

		g := new(big.Int).Exp(h, bigTwo, p)
		if g.Cmp(bigOne) == 0 {
			continue
		}
		if new(big.Int).Exp(g, q, p).Cmp(bigOne) != 0 {
			continue
		}
		return g, nil
	}
	return nil, &GenerationError{Bits: p.BitLen(), Trials: maxTrials, Stage: "generator"}
}

// P returns a copy of the safe prime p.
func (fp *FieldParameters) P() *big.Int {
	return new(big.Int).Set(fp.p)
}

// Q returns a copy of the subgroup order q = (p-1)/2.
func (fp *FieldParameters) Q() *big.Int {
	return new(big.Int).Set(fp.q)
}

// G returns a copy of the subgroup generator g.
func (fp *FieldParameters) G() *big.Int {
	return new(big.Int).Set(fp.g)
}

// BitLen returns the bit length of p.
func (fp *FieldParameters) BitLen() int {
	return fp.p.BitLen()
}

// MaxSecretBytes returns the largest secret byte length that always maps
// to an integer below q.
func (fp *FieldParameters) MaxSecretBytes() int {
	return (fp.q.BitLen() - 1) / 8
}

// Equal reports whether both parameter sets describe the same group.
func (fp *FieldParameters) Equal(other *FieldParameters) bool {
	if fp == nil || other == nil {
		return fp == other
	}
	return fp.p.Cmp(other.p) == 0 && fp.q.Cmp(other.q) == 0 && fp.g.Cmp(other.g) == 0
}

// String returns a short description that does not include the full primes.
func (fp *FieldParameters) String() string {
	return fmt.Sprintf("FieldParameters{p: %d bits, q: %d bits}", fp.p.BitLen(), fp.q.BitLen())
}
