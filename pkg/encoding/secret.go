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

package encoding

import (
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// EncodeSecret maps secret bytes to a big-endian integer and returns the
// declared width, len(secret), needed to restore leading zero bytes.
func EncodeSecret(secret []byte) (*big.Int, int, error) {
	if len(secret) == 0 {
		return nil, 0, vss.ErrEmptySecret
	}
	return new(big.Int).SetBytes(secret), len(secret), nil
}

// DecodeSecret maps a recovered integer back to bytes.
//
// With width > 0 the result is left-padded to exactly width bytes, so
// leading zero bytes of the original secret survive. With width == 0 the
// minimal big-endian form is returned and leading zero bytes are lost; a
// zero value decodes to a single 0x00 byte.
func DecodeSecret(v *big.Int, width int) ([]byte, error) {
	if v == nil || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: recovered value must be a non-negative integer", vss.ErrReconstruction)
	}
	if width < 0 {
		return nil, fmt.Errorf("%w: negative secret width %d", vss.ErrReconstruction, width)
	}

	if width == 0 {
		if v.Sign() == 0 {
			return []byte{0}, nil
		}
		return v.Bytes(), nil
	}

	if (v.BitLen()+7)/8 > width {
		return nil, fmt.Errorf("%w: recovered value needs %d bytes, declared width is %d",
			vss.ErrReconstruction, (v.BitLen()+7)/8, width)
	}
	return v.FillBytes(make([]byte, width)), nil
}
