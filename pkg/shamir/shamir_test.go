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

package shamir

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/jeremyhahn/go-feldman/internal/testutil"
	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/metrics"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func group256(t *testing.T) *vss.FieldParameters {
	t.Helper()
	params, err := vss.NewFieldParameters(
		testutil.MustBigInt(testutil.Group256P),
		testutil.MustBigInt(testutil.Group256Q),
		testutil.MustBigInt(testutil.Group256G),
	)
	require.NoError(t, err)
	return params
}

func deal(t *testing.T, secret []byte, k, n int, seed string) *Dealing {
	t.Helper()
	splitter, err := NewSplitter(secret, &Config{
		Threshold:  k,
		Total:      n,
		Rand:       testutil.NewDeterministicReader(seed),
		Parameters: group256(t),
	})
	require.NoError(t, err)
	dealing, err := splitter.Split()
	require.NoError(t, err)
	return dealing
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", Config{Threshold: 3, Total: 5}, nil},
		{"k equals n", Config{Threshold: 5, Total: 5}, nil},
		{"one of one", Config{Threshold: 1, Total: 1}, nil},
		{"zero threshold", Config{Threshold: 0, Total: 5}, vss.ErrInvalidThreshold},
		{"k greater than n", Config{Threshold: 6, Total: 5}, vss.ErrInvalidThreshold},
		{"bits too small", Config{Threshold: 2, Total: 3, Bits: 8}, vss.ErrParameterGeneration},
		{"negative trials", Config{Threshold: 2, Total: 3, MaxTrials: -1}, vss.ErrParameterGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Threshold)
	assert.Equal(t, 3, cfg.Total)
	assert.Equal(t, vss.DefaultParameterBits, cfg.Bits)
	assert.NotNil(t, cfg.Rand)
	assert.NotNil(t, cfg.Logger)
}

func TestNewSplitter_Errors(t *testing.T) {
	_, err := NewSplitter(nil, DefaultConfig())
	assert.ErrorIs(t, err, vss.ErrEmptySecret)

	_, err = NewSplitter([]byte("s"), &Config{Threshold: 4, Total: 3})
	assert.ErrorIs(t, err, vss.ErrInvalidThreshold)
}

func TestSplitRecover_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		secret []byte
		k, n   int
	}{
		{"1-of-1", []byte("x"), 1, 1},
		{"2-of-3", []byte("top secret data"), 2, 3},
		{"5-of-9", []byte("correct horse battery staple"), 5, 9},
		{"k equals n", []byte("all hands"), 7, 7},
		{"31 bytes", bytes.Repeat([]byte{0xff}, 31), 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dealing := deal(t, tt.secret, tt.k, tt.n, tt.name)
			require.Len(t, dealing.Shares, tt.n)
			require.Len(t, dealing.Commitments, tt.k)
			assert.Equal(t, len(tt.secret), dealing.Width)
			assert.NotEmpty(t, dealing.SessionID)

			r, err := NewRecoverer(dealing.Public, WithCommitments(dealing.Commitments))
			require.NoError(t, err)

			perm := rand.New(rand.NewPCG(1, uint64(tt.n))).Perm(tt.n)
			for _, i := range perm[:tt.k] {
				require.NoError(t, r.VerifyShare(dealing.Shares[i]))
				require.NoError(t, r.AddShare(dealing.Shares[i]))
			}

			secret, err := r.Recover(dealing.Width)
			require.NoError(t, err)
			assert.Equal(t, tt.secret, secret)
		})
	}
}

func TestSplit_EveryShareVerifies(t *testing.T) {
	dealing := deal(t, []byte("verify me"), 4, 12, "every")
	r, err := NewRecoverer(dealing.Public, WithCommitments(dealing.Commitments))
	require.NoError(t, err)

	for _, share := range dealing.Shares {
		assert.NoError(t, r.VerifyShare(share), "share %d", share.Index)
	}
}

func TestSplit_GeneratesParameters(t *testing.T) {
	splitter, err := NewSplitter([]byte("hi"), &Config{
		Threshold: 2,
		Total:     3,
		Bits:      32,
		Rand:      testutil.NewDeterministicReader("generate"),
	})
	require.NoError(t, err)
	assert.Nil(t, splitter.Parameters())
	assert.Equal(t, 32, splitter.Bits())

	first, err := splitter.Split()
	require.NoError(t, err)
	assert.Equal(t, 32, first.Public.Field.BitLen())

	// Parameters are reused, the polynomial is not
	second, err := splitter.Split()
	require.NoError(t, err)
	assert.True(t, first.Public.Field.Equal(second.Public.Field))
	assert.Equal(t, 0, first.Commitments[0].Cmp(second.Commitments[0]))
	assert.NotEqual(t, 0, first.Commitments[1].Cmp(second.Commitments[1]))
	assert.NotEqual(t, first.Shares[0].Value, second.Shares[0].Value)
}

func TestSplitter_BitsGrowWithSecret(t *testing.T) {
	splitter, err := NewSplitter(make([]byte, 10), &Config{Threshold: 2, Total: 3, Bits: 32})
	require.NoError(t, err)
	assert.Equal(t, 90, splitter.Bits())

	splitter, err = NewSplitter(make([]byte, 10), &Config{Threshold: 2, Total: 3, Bits: 512})
	require.NoError(t, err)
	assert.Equal(t, 512, splitter.Bits())
}

func TestSplit_SecretTooLarge(t *testing.T) {
	splitter, err := NewSplitter(bytes.Repeat([]byte{0xff}, 32), &Config{
		Threshold:  2,
		Total:      3,
		Parameters: group256(t),
	})
	require.NoError(t, err)

	_, err = splitter.Split()
	assert.ErrorIs(t, err, vss.ErrSecretTooLarge)
}

func TestSplit_GenerationBudgetExhausted(t *testing.T) {
	splitter, err := NewSplitter([]byte("s"), &Config{
		Threshold: 2,
		Total:     3,
		Bits:      1024,
		MaxTrials: 1,
		Rand:      testutil.NewDeterministicReader("budget"),
	})
	require.NoError(t, err)

	_, err = splitter.Split()
	assert.ErrorIs(t, err, vss.ErrParameterGeneration)
	var ge *vss.GenerationError
	assert.True(t, errors.As(err, &ge))
}

func TestSplitter_Destroy(t *testing.T) {
	secret := []byte("wipe")
	splitter, err := NewSplitter(secret, &Config{Threshold: 1, Total: 1, Parameters: group256(t)})
	require.NoError(t, err)

	splitter.Destroy()
	_, err = splitter.Split()
	assert.Error(t, err)
	assert.Equal(t, []byte("wipe"), secret, "caller's slice must not be modified")
}

func TestRecover_LeadingZeros(t *testing.T) {
	secret := []byte{0x00, 0x00, 0x01, 0x02}
	dealing := deal(t, secret, 2, 3, "zeros")

	blobs, err := dealing.EncodedShares()
	require.NoError(t, err)

	t.Run("width carried in blobs", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public)
		require.NoError(t, err)
		width, err := r.AddEncoded(blobs[2], blobs[0])
		require.NoError(t, err)
		assert.Equal(t, 4, width)

		out, err := r.Recover(width)
		require.NoError(t, err)
		assert.Equal(t, secret, out)
	})

	t.Run("width zero loses leading zeros", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public)
		require.NoError(t, err)
		require.NoError(t, r.AddShares(dealing.Shares[0], dealing.Shares[1]))

		out, err := r.Recover(0)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02}, out)
	})
}

func TestRecover_UsesFirstKInInsertionOrder(t *testing.T) {
	dealing := deal(t, []byte("order"), 2, 4, "order")

	tampered := vss.Share{Index: 4, Value: testutil.MustBigInt("12345")}

	// The tampered share is beyond the first k and does not take part
	r, err := NewRecoverer(dealing.Public)
	require.NoError(t, err)
	require.NoError(t, r.AddShares(dealing.Shares[1], dealing.Shares[0], tampered))
	out, err := r.Recover(dealing.Width)
	require.NoError(t, err)
	assert.Equal(t, []byte("order"), out)

	// Placed within the first k it corrupts the result
	r, err = NewRecoverer(dealing.Public)
	require.NoError(t, err)
	require.NoError(t, r.AddShares(tampered, dealing.Shares[0], dealing.Shares[1]))
	out, err = r.Recover(0)
	if err == nil {
		assert.NotEqual(t, []byte("order"), out)
	}

	assert.Len(t, r.Shares(), 3)
	r.Reset()
	assert.Empty(t, r.Shares())
}

func TestVerifyShare_Failures(t *testing.T) {
	dealing := deal(t, []byte("tamper"), 3, 5, "tamper")

	t.Run("missing commitments", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public)
		require.NoError(t, err)
		assert.ErrorIs(t, r.VerifyShare(dealing.Shares[0]), vss.ErrMissingCommitments)

		_, err = r.VerifyAndRecover(dealing.Width)
		assert.ErrorIs(t, err, vss.ErrMissingCommitments)
	})

	t.Run("tampered value", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public, WithCommitments(dealing.Commitments))
		require.NoError(t, err)

		bad := vss.Share{Index: 2, Value: dealing.Shares[2].Value}
		err = r.VerifyShare(bad)
		assert.ErrorIs(t, err, vss.ErrVerificationFailed)
		var ve *vss.VerificationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, 2, ve.Index)
	})

	t.Run("verify and recover aborts on invalid share", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public, WithCommitments(dealing.Commitments))
		require.NoError(t, err)
		require.NoError(t, r.AddShares(dealing.Shares[0], vss.Share{Index: 2, Value: dealing.Shares[0].Value}, dealing.Shares[2]))

		_, err = r.VerifyAndRecover(dealing.Width)
		assert.ErrorIs(t, err, vss.ErrVerificationFailed)
	})

	t.Run("malformed blob", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public, WithCommitments(dealing.Commitments))
		require.NoError(t, err)
		_, _, err = r.VerifyEncoded("not a share")
		assert.ErrorIs(t, err, vss.ErrMalformedShare)
	})

	t.Run("valid blob", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public, WithCommitments(dealing.Commitments))
		require.NoError(t, err)
		blobs, err := dealing.EncodedShares()
		require.NoError(t, err)

		share, width, err := r.VerifyEncoded(blobs[4])
		require.NoError(t, err)
		assert.Equal(t, 5, share.Index)
		assert.Equal(t, dealing.Width, width)
	})
}

func TestVerifyAndRecover(t *testing.T) {
	dealing := deal(t, []byte("happy path"), 3, 5, "happy")
	r, err := NewRecoverer(dealing.Public)
	require.NoError(t, err)
	require.NoError(t, r.SetCommitments(dealing.Commitments))
	require.NoError(t, r.AddShares(dealing.Shares[4], dealing.Shares[1], dealing.Shares[3]))

	out, err := r.VerifyAndRecover(dealing.Width)
	require.NoError(t, err)
	assert.Equal(t, []byte("happy path"), out)
}

func TestSetCommitments(t *testing.T) {
	dealing := deal(t, []byte("c"), 3, 5, "commitments")
	r, err := NewRecoverer(dealing.Public)
	require.NoError(t, err)

	assert.ErrorIs(t, r.SetCommitments(nil), vss.ErrMissingCommitments)
	assert.ErrorIs(t, r.SetCommitments(dealing.Commitments[:2]), vss.ErrInvalidParameters)
	assert.NoError(t, r.SetCommitments(dealing.Commitments))
}

func TestRecover_Errors(t *testing.T) {
	dealing := deal(t, []byte("errors"), 3, 5, "errors")

	t.Run("insufficient shares", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public)
		require.NoError(t, err)
		require.NoError(t, r.AddShares(dealing.Shares[:2]...))

		_, err = r.Recover(dealing.Width)
		var ie *vss.InsufficientSharesError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, 2, ie.Have)
		assert.Equal(t, 3, ie.Need)
	})

	t.Run("duplicate index", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public)
		require.NoError(t, err)
		require.NoError(t, r.AddShares(dealing.Shares[0], dealing.Shares[1], dealing.Shares[0]))

		_, err = r.Recover(dealing.Width)
		assert.ErrorIs(t, err, vss.ErrDuplicateIndex)
	})

	t.Run("incomplete share", func(t *testing.T) {
		r, err := NewRecoverer(dealing.Public)
		require.NoError(t, err)
		assert.ErrorIs(t, r.AddShare(vss.Share{Index: 1}), vss.ErrMalformedShare)
		assert.ErrorIs(t, r.AddShare(vss.Share{Index: 0, Value: dealing.Shares[0].Value}), vss.ErrMalformedShare)
	})

	t.Run("mixed widths", func(t *testing.T) {
		other := deal(t, []byte("e"), 3, 5, "other")
		a, err := dealing.EncodedShares()
		require.NoError(t, err)
		b, err := other.EncodedShares()
		require.NoError(t, err)

		r, err := NewRecoverer(dealing.Public)
		require.NoError(t, err)
		_, err = r.AddEncoded(a[0], b[1])
		assert.ErrorIs(t, err, vss.ErrMalformedShare)
	})
}

func TestNewRecoverer_Errors(t *testing.T) {
	_, err := NewRecoverer(nil)
	assert.ErrorIs(t, err, vss.ErrInvalidParameters)

	_, err = NewRecoverer(&vss.PublicParameters{Field: group256(t), Threshold: 0})
	assert.ErrorIs(t, err, vss.ErrInvalidThreshold)
}

func TestSplit_LogsWithoutSecretMaterial(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogAdapter(&logging.SlogConfig{
		Writer: &buf,
		Format: logging.FormatJSON,
		Level:  logging.LevelDebug,
	})

	secret := []byte("do-not-log-this-secret")
	splitter, err := NewSplitter(secret, &Config{
		Threshold:  2,
		Total:      3,
		Rand:       testutil.NewDeterministicReader("logging"),
		Logger:     logger,
		Parameters: group256(t),
	})
	require.NoError(t, err)
	dealing, err := splitter.Split()
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, string(secret))
	for _, share := range dealing.Shares {
		assert.NotContains(t, out, share.Value.String())
	}

	var rec map[string]any
	line := strings.SplitN(strings.TrimSpace(out), "\n", 2)[0]
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, dealing.SessionID, rec["session_id"])
	assert.Equal(t, "dealing created", rec["msg"])
}

func TestVerifyShare_RecordsMetrics(t *testing.T) {
	metrics.Enable()
	dealing := deal(t, []byte("metrics"), 2, 3, "metrics")
	r, err := NewRecoverer(dealing.Public, WithCommitments(dealing.Commitments))
	require.NoError(t, err)

	valid := metrics.VerificationsTotal.WithLabelValues(metrics.ResultValid)
	invalid := metrics.VerificationsTotal.WithLabelValues(metrics.ResultInvalid)
	validBefore := promtest.ToFloat64(valid)
	invalidBefore := promtest.ToFloat64(invalid)

	require.NoError(t, r.VerifyShare(dealing.Shares[0]))
	require.Error(t, r.VerifyShare(vss.Share{Index: 1, Value: dealing.Shares[1].Value}))

	assert.Equal(t, validBefore+1, promtest.ToFloat64(valid))
	assert.Equal(t, invalidBefore+1, promtest.ToFloat64(invalid))
}

func TestGenerateParameters(t *testing.T) {
	params, err := GenerateParameters(&Config{
		Bits: 32,
		Rand: testutil.NewDeterministicReader("params"),
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, 42, params.BitLen())
	assert.GreaterOrEqual(t, params.MaxSecretBytes(), 4)
}
