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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicParameters(t *testing.T) {
	field := tinyParams(t)

	pp, err := NewPublicParameters(field, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, pp.Threshold)
	assert.True(t, pp.Field.Equal(field))

	_, err = NewPublicParameters(field, 0)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewPublicParameters(nil, 2)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}
