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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRecoverCmd(cfg *Config) *cobra.Command {
	var (
		name    string
		indexes []int
		verify  bool
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover the secret from stored shares",
		Long: `Recover the secret from the first k shares, in the order given by
--index (default ascending). Shares are verified against the commitments
first unless --verify=false is passed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			recoverer, err := openRecoverer(cfg, store, name, verify)
			if err != nil {
				return err
			}

			blobs, err := store.LoadShares(name, indexes)
			if err != nil {
				return err
			}
			width, err := recoverer.AddEncoded(blobs...)
			if err != nil {
				return err
			}

			var secret []byte
			if verify {
				secret, err = recoverer.VerifyAndRecover(width)
			} else {
				secret, err = recoverer.Recover(width)
			}
			if err != nil {
				return err
			}
			defer wipe(secret)

			used := make([]int, 0, recoverer.Threshold())
			for _, share := range recoverer.Shares()[:recoverer.Threshold()] {
				used = append(used, share.Index)
			}

			result := NewRecoverResult(name, used, len(secret), verify, secret)
			if outFile != "" {
				if err := os.WriteFile(outFile, secret, 0600); err != nil {
					return fmt.Errorf("failed to write secret: %w", err)
				}
				result.Secret = ""
				result.SecretBase64 = ""
				result.OutFile = outFile
			}
			return printer(cmd, cfg).PrintRecovered(result)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	cmd.Flags().IntSliceVar(&indexes, "index", nil, "share indexes to use, in order (default all stored)")
	cmd.Flags().BoolVar(&verify, "verify", true, "verify shares against the commitments first")
	cmd.Flags().StringVar(&outFile, "out", "", "write the secret to a file (0600) instead of printing it")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
