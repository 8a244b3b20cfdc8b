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

// Polynomial is a degree k-1 polynomial over Z_q whose constant term is
// the secret:
//
//	f(x) = a0 + a1*x + a2*x^2 + ... + a(k-1)*x^(k-1)
//
// A Polynomial exists only while shares and commitments are derived. It is
// never serialized; call Destroy once it is no longer needed.
type Polynomial struct {
	coefficients []*big.Int
	params       *FieldParameters
}

// NewPolynomial builds a random polynomial with a0 = secret and a1..a(k-1)
// drawn uniformly from [0, q) using r. Every call draws fresh coefficients.
func NewPolynomial(r io.Reader, secret *big.Int, k int, params *FieldParameters) (*Polynomial, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: field parameters are required", ErrInvalidParameters)
	}
	if r == nil {
		return nil, fmt.Errorf("randomness source is required")
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: threshold must be at least 1, got %d", ErrInvalidThreshold, k)
	}
	if secret == nil || secret.Sign() < 0 {
		return nil, fmt.Errorf("%w: secret must be a non-negative integer", ErrSecretTooLarge)
	}
	if secret.Cmp(params.q) >= 0 {
		return nil, fmt.Errorf("%w: secret has %d bits, q has %d bits",
			ErrSecretTooLarge, secret.BitLen(), params.q.BitLen())
	}

	coefficients := make([]*big.Int, k)
	coefficients[0] = new(big.Int).Set(secret)
	for j := 1; j < k; j++ {
		a, err := randomBelow(r, params.q)
		if err != nil {
			return nil, fmt.Errorf("failed to generate coefficient %d: %w", j, err)
		}
		coefficients[j] = a
	}

	return &Polynomial{
		coefficients: coefficients,
		params:       params,
	}, nil
}

// Degree returns k-1.
func (f *Polynomial) Degree() int {
	return len(f.coefficients) - 1
}

// Threshold returns the number of coefficients, k.
func (f *Polynomial) Threshold() int {
	return len(f.coefficients)
}

// Params returns the field parameters the polynomial is defined over.
func (f *Polynomial) Params() *FieldParameters {
	return f.params
}

// EvaluateAt evaluates the polynomial at x modulo q using Horner's method:
// f(x) = a0 + x(a1 + x(a2 + ... + x*a(k-1))).
func (f *Polynomial) EvaluateAt(x *big.Int) *big.Int {
	q := f.params.q
	xq := mod(x, q)

	result := new(big.Int).Set(f.coefficients[len(f.coefficients)-1])
	for j := len(f.coefficients) - 2; j >= 0; j-- {
		result.Mul(result, xq)
		result.Add(result, f.coefficients[j])
		result.Mod(result, q)
	}
	return result.Mod(result, q)
}

// Destroy zeroes the coefficients. The polynomial cannot be used afterwards.
func (f *Polynomial) Destroy() {
	for _, c := range f.coefficients {
		if c != nil {
			c.SetInt64(0)
		}
	}
	f.coefficients = nil
}
