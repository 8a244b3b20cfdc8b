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

package cli

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/shamir"
	"github.com/jeremyhahn/go-feldman/pkg/sharestore"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
	"github.com/spf13/cobra"
)

// Verification outcomes reported per share.
const (
	StatusValid      = "valid"
	StatusInvalid    = "share invalid"
	StatusUnreadable = "share unreadable"
)

var (
	// errCommitmentsMissing is returned when a dealing has no commitments
	errCommitmentsMissing = errors.New("commitments missing")

	// errSharesFailed is returned when at least one share did not verify
	errSharesFailed = errors.New("share verification failed")
)

func newVerifyCmd(cfg *Config) *cobra.Command {
	var (
		name    string
		indexes []int
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify stored shares against the published commitments",
		Long: `Verify each share against the dealing's commitments. Every share is
reported as valid, "share invalid" (it does not lie on the committed
polynomial) or "share unreadable" (missing or undecodable). The command
fails if any share is not valid or the commitments are missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			recoverer, err := openRecoverer(cfg, store, name, true)
			if err != nil {
				return err
			}

			if len(indexes) == 0 {
				if indexes, err = store.ListShareIndexes(name); err != nil {
					return err
				}
				if len(indexes) == 0 {
					return fmt.Errorf("no shares found for dealing %q", name)
				}
			}

			report := &VerifyReport{Name: name, Valid: true}
			for _, index := range indexes {
				status := verifyStored(store, recoverer, name, index)
				if status.Status != StatusValid {
					report.Valid = false
				}
				report.Results = append(report.Results, status)
			}

			if err := printer(cmd, cfg).PrintVerifyReport(report); err != nil {
				return err
			}
			if !report.Valid {
				return errSharesFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	cmd.Flags().IntSliceVar(&indexes, "index", nil, "share indexes to verify (default all stored)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func verifyStored(store *sharestore.Store, r *shamir.Recoverer, name string, index int) ShareStatus {
	blob, err := store.LoadShare(name, index)
	if err != nil {
		return ShareStatus{Index: index, Status: StatusUnreadable, Error: err.Error()}
	}
	share, _, err := r.VerifyEncoded(blob)
	switch {
	case err == nil && share.Index != index:
		return ShareStatus{
			Index:  index,
			Status: StatusUnreadable,
			Error:  fmt.Sprintf("file holds share %d", share.Index),
		}
	case err == nil:
		return ShareStatus{Index: index, Status: StatusValid}
	case errors.Is(err, vss.ErrVerificationFailed):
		return ShareStatus{Index: index, Status: StatusInvalid}
	default:
		return ShareStatus{Index: index, Status: StatusUnreadable, Error: err.Error()}
	}
}

// openRecoverer loads the public parameters of a dealing and, when
// withCommitments is set, its commitments.
func openRecoverer(cfg *Config, store *sharestore.Store, name string, withCommitments bool) (*shamir.Recoverer, error) {
	pp, err := store.LoadParameters(name)
	if err != nil {
		return nil, err
	}

	recoverer, err := shamir.NewRecoverer(pp,
		shamir.WithLogger(cfg.Logger().With(logging.String("dealing", name))))
	if err != nil {
		return nil, err
	}
	if !withCommitments {
		return recoverer, nil
	}

	commitments, err := store.LoadCommitments(name)
	if errors.Is(err, vss.ErrMissingCommitments) {
		return nil, fmt.Errorf("%w: %w", errCommitmentsMissing, err)
	}
	if err != nil {
		return nil, err
	}
	if err := recoverer.SetCommitments(commitments); err != nil {
		return nil, err
	}
	return recoverer, nil
}
