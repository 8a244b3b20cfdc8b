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

package testutil

import "math/big"

// Known safe prime groups (p = 2q+1, g of order q) used as test fixtures so
// tests do not pay for parameter generation.
const (
	// Tiny group from the textbook example: p=23, q=11, g=2.
	TinyP = "23"
	TinyQ = "11"
	TinyG = "2"

	Group64P = "11881870593822888767"
	Group64Q = "5940935296911444383"
	Group64G = "5220939015281829362"

	Group128P = "219696744652113973279370777339351347463"
	Group128Q = "109848372326056986639685388669675673731"
	Group128G = "73062905937758895932955701853143842728"

	Group256P = "80802692371254467794648652381291960969845003040359968384842626923386443427963"
	Group256Q = "40401346185627233897324326190645980484922501520179984192421313461693221713981"
	Group256G = "47160152031874880701821542857091962855159226714244836021100515535891592265835"
)

// MustBigInt parses a base-10 integer and panics on malformed input.
func MustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("testutil: invalid integer " + s)
	}
	return n
}
