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
	"path/filepath"
	"strings"

	"github.com/jeremyhahn/go-feldman/pkg/encoding"
	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/shamir"
	"github.com/jeremyhahn/go-feldman/pkg/sharestore"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
	"github.com/spf13/cobra"
)

func newParamsCmd(cfg *Config) *cobra.Command {
	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "Manage public field parameters",
		Long: `Generate, inspect, export and import the public parameters {p, q, g, k}
of a dealing. Parameters generated ahead of time are reused by split.`,
	}

	paramsCmd.AddCommand(newParamsGenerateCmd(cfg))
	paramsCmd.AddCommand(newParamsShowCmd(cfg))
	paramsCmd.AddCommand(newParamsExportCmd(cfg))
	paramsCmd.AddCommand(newParamsImportCmd(cfg))
	return paramsCmd
}

func newParamsGenerateCmd(cfg *Config) *cobra.Command {
	var (
		name           string
		bits           int
		threshold      int
		maxSecretBytes int
		force          bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a safe prime group and store it under a dealing name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := checkOverwrite(store, name, force); err != nil {
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
			printVerbose(cmd, cfg, "Generating %d-bit parameters", bits)

			field, err := shamir.GenerateParameters(&shamir.Config{
				Bits:      bits,
				MaxTrials: settings.Parameters.MaxTrials,
				Rand:      rng,
				Logger:    cfg.Logger().With(logging.String("dealing", name)),
			}, maxSecretBytes)
			if err != nil {
				return err
			}
			pp, err := vss.NewPublicParameters(field, threshold)
			if err != nil {
				return err
			}
			if err := store.SaveParameters(name, pp); err != nil {
				return err
			}

			return printer(cmd, cfg).PrintParameters(&ParametersResult{
				Name:                 name,
				PublicParametersView: encoding.ViewPublicParameters(pp),
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	cmd.Flags().IntVar(&bits, "bits", 0, "bit length of the safe prime p (default from config)")
	cmd.Flags().IntVarP(&threshold, "threshold", "k", 2, "shares needed to recover")
	cmd.Flags().IntVar(&maxSecretBytes, "max-secret-bytes", 0, "grow p to fit secrets of this length")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing dealing")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newParamsShowCmd(cfg *Config) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the public parameters of a dealing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			pp, err := store.LoadParameters(name)
			if err != nil {
				return err
			}
			return printer(cmd, cfg).PrintParameters(&ParametersResult{
				Name:                 name,
				PublicParametersView: encoding.ViewPublicParameters(pp),
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newParamsExportCmd(cfg *Config) *cobra.Command {
	var (
		name   string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export public parameters as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			pp, err := store.LoadParameters(name)
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "json":
				data, err = encoding.MarshalPublicParameters(pp)
				data = append(data, '\n')
			case "yaml":
				data, err = encoding.MarshalPublicParametersYAML(pp)
			default:
				return fmt.Errorf("unknown export format: %s (must be json or yaml)", format)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			// #nosec G306 - public parameters are not secret
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			return printer(cmd, cfg).PrintSuccess(fmt.Sprintf("Parameters of %s written to %s", name, out))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	cmd.Flags().StringVar(&format, "format", "json", "export format (json, yaml)")
	cmd.Flags().StringVar(&out, "out", "", "write to file instead of stdout")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newParamsImportCmd(cfg *Config) *cobra.Command {
	var (
		name  string
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import public parameters from a JSON or YAML file",
		Long: `Import public parameters {p, q, g, k}. Files ending in .yaml or .yml are
read as YAML, anything else as JSON. Unknown or missing fields and
parameters that do not form a valid group are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// #nosec G304 - path is provided by the user
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			var pp *vss.PublicParameters
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				pp, err = encoding.UnmarshalPublicParametersYAML(data)
			default:
				pp, err = encoding.UnmarshalPublicParameters(data)
			}
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			store, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := checkOverwrite(store, name, force); err != nil {
				return err
			}
			if err := store.SaveParameters(name, pp); err != nil {
				return err
			}
			return printer(cmd, cfg).PrintParameters(&ParametersResult{
				Name:                 name,
				PublicParametersView: encoding.ViewPublicParameters(pp),
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealing name")
	cmd.Flags().StringVar(&path, "file", "", "parameters file")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing dealing")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// checkOverwrite refuses to replace a stored dealing unless force is set,
// in which case the old dealing is removed.
func checkOverwrite(store *sharestore.Store, name string, force bool) error {
	exists, err := store.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if !force {
		return errExists(name)
	}
	return store.Delete(name)
}
