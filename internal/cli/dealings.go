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

	"github.com/jeremyhahn/go-feldman/pkg/vss"
	"github.com/spf13/cobra"
)

func newListCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored dealings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.List()
			if err != nil {
				return err
			}

			dealings := make([]DealingSummary, 0, len(names))
			for _, name := range names {
				pp, err := store.LoadParameters(name)
				if err != nil {
					return err
				}
				indexes, err := store.ListShareIndexes(name)
				if err != nil {
					return err
				}
				_, err = store.LoadCommitments(name)
				if err != nil && !errors.Is(err, vss.ErrMissingCommitments) {
					return err
				}
				dealings = append(dealings, DealingSummary{
					Name:           name,
					Threshold:      pp.Threshold,
					Bits:           pp.Field.BitLen(),
					HasCommitments: err == nil,
					Shares:         indexes,
				})
			}
			return printer(cmd, cfg).PrintDealingList(dealings)
		},
	}
}

func newDeleteCmd(cfg *Config) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored dealing and all of its shares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(name); err != nil {
				return err
			}
			return printer(cmd, cfg).PrintSuccess(fmt.Sprintf("Dealing %s deleted", name))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
