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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// publicRecord is the JSON layout of the public parameters file:
//
//	{"p": 23, "q": 11, "g": 2, "k": 2}
//
// Integers are written as JSON numbers of arbitrary precision.
type publicRecord struct {
	P *big.Int `json:"p"`
	Q *big.Int `json:"q"`
	G *big.Int `json:"g"`
	K *int     `json:"k"`
}

// MarshalPublicParameters encodes public parameters as JSON.
func MarshalPublicParameters(pp *vss.PublicParameters) ([]byte, error) {
	if pp == nil {
		return nil, fmt.Errorf("%w: public parameters are nil", ErrInvalidData)
	}
	if err := pp.Validate(); err != nil {
		return nil, err
	}
	k := pp.Threshold
	return json.MarshalIndent(&publicRecord{
		P: pp.Field.P(),
		Q: pp.Field.Q(),
		G: pp.Field.G(),
		K: &k,
	}, "", "  ")
}

// UnmarshalPublicParameters decodes and validates a public parameters
// record. Unknown fields, missing fields and parameters that fail the
// primality or order checks are rejected.
func UnmarshalPublicParameters(data []byte) (*vss.PublicParameters, error) {
	var rec publicRecord
	if err := decodeStrictJSON(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", vss.ErrInvalidParameters, err)
	}

	var missing []string
	if rec.P == nil {
		missing = append(missing, "p")
	}
	if rec.Q == nil {
		missing = append(missing, "q")
	}
	if rec.G == nil {
		missing = append(missing, "g")
	}
	if rec.K == nil {
		missing = append(missing, "k")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %w: %s", vss.ErrInvalidParameters, ErrMissingField, strings.Join(missing, ", "))
	}

	field, err := vss.NewFieldParameters(rec.P, rec.Q, rec.G)
	if err != nil {
		return nil, err
	}
	pp, err := vss.NewPublicParameters(field, *rec.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vss.ErrInvalidParameters, err)
	}
	return pp, nil
}

// commitmentsRecord is the JSON layout of the commitments file. The list
// order is the coefficient order.
type commitmentsRecord struct {
	Commitments []*big.Int `json:"commitments"`
}

// MarshalCommitments encodes commitments as JSON, preserving order.
func MarshalCommitments(c vss.Commitments) ([]byte, error) {
	if len(c) == 0 {
		return nil, vss.ErrMissingCommitments
	}
	for j, v := range c {
		if v == nil {
			return nil, fmt.Errorf("%w: commitment %d is nil", ErrInvalidData, j)
		}
	}
	return json.MarshalIndent(&commitmentsRecord{Commitments: c}, "", "  ")
}

// UnmarshalCommitments decodes a commitments record. An empty list is
// reported as ErrMissingCommitments.
func UnmarshalCommitments(data []byte) (vss.Commitments, error) {
	var rec commitmentsRecord
	if err := decodeStrictJSON(data, &rec); err != nil {
		return nil, err
	}
	if len(rec.Commitments) == 0 {
		return nil, vss.ErrMissingCommitments
	}
	for j, v := range rec.Commitments {
		if v == nil {
			return nil, fmt.Errorf("%w: commitment %d is null", ErrInvalidData, j)
		}
	}
	return vss.Commitments(rec.Commitments), nil
}

// decodeStrictJSON decodes exactly one JSON object into v, rejecting
// unknown fields and trailing data.
func decodeStrictJSON(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty input", ErrInvalidData)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after record", ErrInvalidData)
	}
	return nil
}
