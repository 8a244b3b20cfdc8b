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

// Package vss implements Shamir's Secret Sharing over a prime field with
// Feldman verifiable commitments.
//
// A secret integer s < q becomes the constant term of a random polynomial
// of degree k-1 over Z_q:
//
//	f(x) = s + a1*x + a2*x^2 + ... + a(k-1)*x^(k-1)
//
// Shares are the points (i, f(i)) for i = 1..n. Any k shares determine f
// and therefore f(0) = s through Lagrange interpolation; k-1 shares are
// consistent with every possible secret.
//
// # Field Parameters
//
// Arithmetic uses a safe prime p = 2q+1. The quadratic residues of Z*_p
// form a subgroup of prime order q, generated by g = h^2 mod p for any h
// other than 1 and p-1. Exponents therefore live in Z_q, the same field
// the polynomial is defined over, which is what makes Feldman's check work.
//
// # Feldman Commitments
//
// The dealer publishes C_j = g^a_j mod p for every coefficient. A holder of
// share (x, y) checks
//
//	g^y == C_0 * C_1^x * C_2^(x^2) * ... * C_(k-1)^(x^(k-1))  (mod p)
//
// without learning anything about s beyond g^s.
//
// # Usage Example
//
//	params, err := vss.GenerateParameters(rand.Reader, 256, 0)
//	poly, err := vss.NewPolynomial(rand.Reader, secret, 3, params)
//	shares, err := vss.Evaluate(poly, vss.Indexes(5), 5)
//	commitments, err := vss.Commit(poly)
//	poly.Destroy()
//
//	err = vss.Verify(shares[0], commitments, params)
//	recovered, err := vss.Interpolate(shares[2:], 3, params)
//
// # Reconstruction Order
//
// Interpolate uses the first k shares in the order they were supplied, not
// the k smallest indexes. Callers that collect shares as they arrive get
// "whichever k arrived first".
//
// # Concurrency
//
// All functions are synchronous and free of shared state. FieldParameters
// and Commitments are read-only and may be shared; a Polynomial must not be
// used from several goroutines.
package vss
