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
	"io"
	"os"

	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/shamir"
	"github.com/jeremyhahn/go-feldman/pkg/sharestore"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
	"github.com/spf13/cobra"
)

func newSplitCmd(cfg *Config) *cobra.Command {
	var (
		secret      string
		secretFile  string
		name        string
		total       int
		threshold   int
		bits        int
		force       bool
		printShares bool
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a secret into verifiable shares",
		Long: `Split a secret into n shares with threshold k and store the dealing.

If public parameters were stored earlier with "params generate" or
"params import" and no commitments exist yet, the stored group is reused
and -k defaults to its threshold. Otherwise a new group is generated.`,
		Example: `  feldman split --secret-file key.bin -n 5 -k 3 --name backup
  echo -n hunter2 | feldman split --secret-file - -n 3 -k 2 --name pw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSecret(cmd, secret, secretFile)
			if err != nil {
				return err
			}
			defer wipe(data)

			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			field, err := prepareDealing(cmd, store, name, &threshold, force)
			if err != nil {
				return err
			}

			rng, err := cfg.OpenEntropy()
			if err != nil {
				return err
			}
			defer rng.Close()

			settings := cfg.Settings()
			if !cmd.Flags().Changed("bits") {
				bits = settings.Parameters.Bits
			}

			splitter, err := shamir.NewSplitter(data, &shamir.Config{
				Threshold:  threshold,
				Total:      total,
				Bits:       bits,
				MaxTrials:  settings.Parameters.MaxTrials,
				Rand:       rng,
				Logger:     cfg.Logger().With(logging.String("dealing", name)),
				Parameters: field,
			})
			if err != nil {
				return err
			}
			defer splitter.Destroy()

			if field == nil {
				printVerbose(cmd, cfg, "Generating %d-bit parameters", splitter.Bits())
			}
			dealing, err := splitter.Split()
			if err != nil {
				return err
			}

			if err := saveDealing(store, name, dealing); err != nil {
				return err
			}

			result := &DealingResult{
				Name:      name,
				SessionID: dealing.SessionID,
				Threshold: threshold,
				Total:     total,
				Bits:      dealing.Public.Field.BitLen(),
				Width:     dealing.Width,
				Indexes:   vss.Indexes(total),
			}
			if printShares {
				if result.Shares, err = dealing.EncodedShares(); err != nil {
					return err
				}
			}
			return printer(cmd, cfg).PrintDealing(result)
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "secret value")
	cmd.Flags().StringVar(&secretFile, "secret-file", "", "read the secret from a file (- for stdin)")
	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	cmd.Flags().IntVarP(&total, "shares", "n", 3, "number of shares to create")
	cmd.Flags().IntVarP(&threshold, "threshold", "k", 2, "shares needed to recover")
	cmd.Flags().IntVar(&bits, "bits", 0, "minimum bit length of p (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing dealing")
	cmd.Flags().BoolVar(&printShares, "print-shares", false, "print the encoded shares")
	cmd.MarkFlagsMutuallyExclusive("secret", "secret-file")
	cmd.MarkFlagsOneRequired("secret", "secret-file")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// prepareDealing checks the target name. It returns the stored field when
// the name holds parameters only, and nil when a new group is needed.
func prepareDealing(cmd *cobra.Command, store *sharestore.Store, name string, threshold *int, force bool) (*vss.FieldParameters, error) {
	exists, err := store.Exists(name)
	if err != nil || !exists {
		return nil, err
	}

	_, err = store.LoadCommitments(name)
	switch {
	case err == nil:
		if !force {
			return nil, errExists(name)
		}
		return nil, store.Delete(name)
	case !errors.Is(err, vss.ErrMissingCommitments):
		return nil, err
	}

	pp, err := store.LoadParameters(name)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("threshold") {
		*threshold = pp.Threshold
	}
	return pp.Field, nil
}

func saveDealing(store *sharestore.Store, name string, d *shamir.Dealing) error {
	if err := store.SaveParameters(name, d.Public); err != nil {
		return err
	}
	if err := store.SaveCommitments(name, d.Commitments); err != nil {
		return err
	}
	return store.SaveShares(name, d.Shares, d.Width)
}

func readSecret(cmd *cobra.Command, secret, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		data = []byte(secret)
	case "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		// #nosec G304 - path is provided by the user
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	if len(data) == 0 {
		return nil, vss.ErrEmptySecret
	}
	return data, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
