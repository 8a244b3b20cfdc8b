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

import "fmt"

// PublicParameters is everything a recovering party needs besides the
// shares: the field and the threshold k. It replaces loosely keyed
// dictionaries with an explicit record of exactly {p, q, g, k}.
type PublicParameters struct {
	Field     *FieldParameters
	Threshold int
}

// NewPublicParameters pairs validated field parameters with a threshold.
func NewPublicParameters(field *FieldParameters, threshold int) (*PublicParameters, error) {
	pp := &PublicParameters{Field: field, Threshold: threshold}
	if err := pp.Validate(); err != nil {
		return nil, err
	}
	return pp, nil
}

// Validate checks that the record is complete.
func (pp *PublicParameters) Validate() error {
	if pp.Field == nil {
		return &ParametersError{Reason: "field parameters are required"}
	}
	if pp.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1, got %d", ErrInvalidThreshold, pp.Threshold)
	}
	return nil
}
