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
	"errors"
	"fmt"
)

// Sentinel errors for the sharing engine.
// These errors can be checked with errors.Is().
var (
	// ErrParameterGeneration indicates the safe prime or generator search was exhausted.
	ErrParameterGeneration = errors.New("vss: parameter generation failed")

	// ErrInvalidParameters indicates field parameters failed primality or order checks.
	ErrInvalidParameters = errors.New("vss: invalid field parameters")

	// ErrSecretTooLarge indicates the secret integer does not fit below q.
	ErrSecretTooLarge = errors.New("vss: secret too large for field")

	// ErrEmptySecret indicates an empty secret was supplied.
	ErrEmptySecret = errors.New("vss: secret cannot be empty")

	// ErrInvalidThreshold indicates the threshold configuration is invalid.
	ErrInvalidThreshold = errors.New("vss: invalid threshold")

	// ErrInvalidIndex indicates a share index is zero, out of range or repeated.
	ErrInvalidIndex = errors.New("vss: invalid share index")

	// ErrMissingCommitments indicates verification was attempted without commitments.
	ErrMissingCommitments = errors.New("vss: commitments not set")

	// ErrMalformedShare indicates a share or commitment could not be interpreted.
	ErrMalformedShare = errors.New("vss: malformed share")

	// ErrVerificationFailed indicates a share is inconsistent with the commitments.
	ErrVerificationFailed = errors.New("vss: share verification failed")

	// ErrInsufficientShares indicates fewer than k shares were supplied.
	ErrInsufficientShares = errors.New("vss: insufficient shares")

	// ErrDuplicateIndex indicates two supplied shares carry the same index.
	ErrDuplicateIndex = errors.New("vss: duplicate share index")

	// ErrReconstruction indicates interpolation or secret decoding failed.
	ErrReconstruction = errors.New("vss: reconstruction failed")
)

// GenerationError reports an exhausted parameter search.
type GenerationError struct {
	Bits   int
	Trials int
	Stage  string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("vss: %s search exhausted after %d trials (%d bits)", e.Stage, e.Trials, e.Bits)
}

// Unwrap returns the underlying error for errors.Is() support.
func (e *GenerationError) Unwrap() error {
	return ErrParameterGeneration
}

// ParametersError describes why field parameters were rejected.
type ParametersError struct {
	Reason string
}

// Error implements the error interface.
func (e *ParametersError) Error() string {
	return fmt.Sprintf("vss: invalid field parameters: %s", e.Reason)
}

// Unwrap returns the underlying error for errors.Is() support.
func (e *ParametersError) Unwrap() error {
	return ErrInvalidParameters
}

// IndexError provides detail about a rejected share index.
type IndexError struct {
	Index  int
	Reason string
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("vss: invalid share index %d: %s", e.Index, e.Reason)
}

// Unwrap returns the underlying error for errors.Is() support.
func (e *IndexError) Unwrap() error {
	return ErrInvalidIndex
}

// VerificationError identifies the share that failed the commitment check.
type VerificationError struct {
	Index int
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf("vss: share %d is inconsistent with commitments", e.Index)
}

// Unwrap returns the underlying error for errors.Is() support.
func (e *VerificationError) Unwrap() error {
	return ErrVerificationFailed
}

// InsufficientSharesError reports how many shares were supplied versus required.
type InsufficientSharesError struct {
	Have int
	Need int
}

// Error implements the error interface.
func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("vss: insufficient shares: need %d, got %d", e.Need, e.Have)
}

// Unwrap returns the underlying error for errors.Is() support.
func (e *InsufficientSharesError) Unwrap() error {
	return ErrInsufficientShares
}

// DuplicateIndexError identifies a repeated share index.
type DuplicateIndexError struct {
	Index int
}

// Error implements the error interface.
func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("vss: duplicate share index: %d", e.Index)
}

// Unwrap returns the underlying error for errors.Is() support.
func (e *DuplicateIndexError) Unwrap() error {
	return ErrDuplicateIndex
}
