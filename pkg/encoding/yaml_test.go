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
	"testing"

	"github.com/jeremyhahn/go-feldman/pkg/vss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicParametersYAML_RoundTrip(t *testing.T) {
	pp := tinyPublic(t, 3)

	data, err := MarshalPublicParametersYAML(pp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `p: "23"`)
	assert.Contains(t, string(data), "k: 3")

	view := ViewPublicParameters(pp)
	assert.Equal(t, 5, view.Bits)
	assert.Equal(t, 0, view.MaxSecret)

	decoded, err := UnmarshalPublicParametersYAML(data)
	require.NoError(t, err)
	assert.True(t, pp.Field.Equal(decoded.Field))
	assert.Equal(t, pp.Threshold, decoded.Threshold)
}

func TestUnmarshalPublicParametersYAML(t *testing.T) {
	pp, err := UnmarshalPublicParametersYAML([]byte("p: \"23\"\nq: \"11\"\ng: \"2\"\nk: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, pp.Threshold)
	assert.Equal(t, int64(23), pp.Field.P().Int64())
}

func TestUnmarshalPublicParametersYAML_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unknown field", "p: \"23\"\nq: \"11\"\ng: \"2\"\nk: 2\nn: 5\n", ErrInvalidData},
		{"bits mismatch", "p: \"23\"\nq: \"11\"\ng: \"2\"\nk: 2\nbits: 6\n", ErrInvalidData},
		{"max secret mismatch", "p: \"23\"\nq: \"11\"\ng: \"2\"\nk: 2\nmax_secret_bytes: 1\n", ErrInvalidData},
		{"missing k", "p: \"23\"\nq: \"11\"\ng: \"2\"\n", ErrMissingField},
		{"not decimal", "p: \"0x17\"\nq: \"11\"\ng: \"2\"\nk: 2\n", ErrInvalidData},
		{"bad group", "p: \"23\"\nq: \"11\"\ng: \"5\"\nk: 2\n", vss.ErrInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalPublicParametersYAML([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, vss.ErrInvalidParameters)
		})
	}
}
