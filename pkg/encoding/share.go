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
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// shareSeparator separates the decimal fields inside a share blob.
const shareSeparator = ";"

// EncodeShare encodes a share as base64 of "x;y;w", where w is the declared
// secret width. A width of 0 produces the two-field form "x;y".
func EncodeShare(share vss.Share, width int) (string, error) {
	if share.Index < 1 || share.Value == nil || share.Value.Sign() < 0 {
		return "", fmt.Errorf("%w: share %d is incomplete", vss.ErrMalformedShare, share.Index)
	}
	if width < 0 {
		return "", fmt.Errorf("%w: negative secret width %d", ErrInvalidData, width)
	}

	fields := []string{strconv.Itoa(share.Index), share.Value.String()}
	if width > 0 {
		fields = append(fields, strconv.Itoa(width))
	}
	raw := strings.Join(fields, shareSeparator)
	return base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// DecodeShare parses a share blob produced by EncodeShare. Blobs without a
// width field decode with width 0. Any undecodable input is reported as
// vss.ErrMalformedShare.
func DecodeShare(blob string) (vss.Share, int, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return vss.Share{}, 0, fmt.Errorf("%w: invalid base64: %v", vss.ErrMalformedShare, err)
	}

	fields := strings.Split(string(raw), shareSeparator)
	if len(fields) != 2 && len(fields) != 3 {
		return vss.Share{}, 0, fmt.Errorf("%w: expected 2 or 3 fields, got %d", vss.ErrMalformedShare, len(fields))
	}

	index, err := strconv.Atoi(fields[0])
	if err != nil || index < 1 {
		return vss.Share{}, 0, fmt.Errorf("%w: invalid index %q", vss.ErrMalformedShare, fields[0])
	}

	value, ok := new(big.Int).SetString(fields[1], 10)
	if !ok || value.Sign() < 0 {
		return vss.Share{}, 0, fmt.Errorf("%w: invalid value for share %d", vss.ErrMalformedShare, index)
	}

	width := 0
	if len(fields) == 3 {
		width, err = strconv.Atoi(fields[2])
		if err != nil || width < 0 {
			return vss.Share{}, 0, fmt.Errorf("%w: invalid width %q", vss.ErrMalformedShare, fields[2])
		}
	}

	return vss.Share{Index: index, Value: value}, width, nil
}
