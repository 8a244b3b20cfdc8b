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

package metrics

import (
	"errors"

	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// Error type label values.
const (
	ErrTypeParameterGeneration = "parameter_generation"
	ErrTypeInvalidParameters   = "invalid_parameters"
	ErrTypeSecretTooLarge      = "secret_too_large"
	ErrTypeEmptySecret         = "empty_secret"
	ErrTypeInvalidThreshold    = "invalid_threshold"
	ErrTypeInvalidIndex        = "invalid_index"
	ErrTypeMissingCommitments  = "missing_commitments"
	ErrTypeMalformedShare      = "malformed_share"
	ErrTypeVerificationFailed  = "verification_failed"
	ErrTypeInsufficientShares  = "insufficient_shares"
	ErrTypeDuplicateIndex      = "duplicate_index"
	ErrTypeReconstruction      = "reconstruction"
	ErrTypeUnknown             = "unknown"
)

var errorTypes = []struct {
	err   error
	label string
}{
	{vss.ErrParameterGeneration, ErrTypeParameterGeneration},
	{vss.ErrInvalidParameters, ErrTypeInvalidParameters},
	{vss.ErrSecretTooLarge, ErrTypeSecretTooLarge},
	{vss.ErrEmptySecret, ErrTypeEmptySecret},
	{vss.ErrInvalidThreshold, ErrTypeInvalidThreshold},
	{vss.ErrInvalidIndex, ErrTypeInvalidIndex},
	{vss.ErrMissingCommitments, ErrTypeMissingCommitments},
	{vss.ErrMalformedShare, ErrTypeMalformedShare},
	{vss.ErrVerificationFailed, ErrTypeVerificationFailed},
	{vss.ErrInsufficientShares, ErrTypeInsufficientShares},
	{vss.ErrDuplicateIndex, ErrTypeDuplicateIndex},
	{vss.ErrReconstruction, ErrTypeReconstruction},
}

// ErrorType maps an error to a low-cardinality label value. Errors that do
// not wrap a known sentinel map to ErrTypeUnknown.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}
	for _, et := range errorTypes {
		if errors.Is(err, et.err) {
			return et.label
		}
	}
	return ErrTypeUnknown
}
