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

// Package cli implements the feldman command line tool.
package cli

import (
	"fmt"

	"github.com/jeremyhahn/go-feldman/pkg/logging"
	"github.com/jeremyhahn/go-feldman/pkg/storage"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the feldman command tree bound to cfg.
func NewRootCommand(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "feldman",
		Short: "go-feldman CLI - Feldman verifiable secret sharing",
		Long: `go-feldman splits a secret into n shares, any k of which recover it,
and publishes commitments that let every shareholder check their share
without learning anything about the secret.

Dealings are stored by name:
  NAME/public.json        public parameters {p, q, g, k}
  NAME/commitments.json   Feldman commitments
  NAME/shares/I.share     encoded share I (owner-only permissions)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Load(cmd.ErrOrStderr())
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "",
		"config file (YAML); FELDMAN_* environment variables override it")
	rootCmd.PersistentFlags().StringVar(&cfg.StoreDir, "store-dir", "",
		"directory for dealing storage (overrides storage.path)")
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputFormat, "output", "o", string(OutputFormatText),
		"output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false,
		"verbose output")

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd(cfg))
	rootCmd.AddCommand(newParamsCmd(cfg))
	rootCmd.AddCommand(newSplitCmd(cfg))
	rootCmd.AddCommand(newVerifyCmd(cfg))
	rootCmd.AddCommand(newRecoverCmd(cfg))
	rootCmd.AddCommand(newListCmd(cfg))
	rootCmd.AddCommand(newDeleteCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))

	return rootCmd
}

// Execute runs the root command. Errors are printed to stderr in the
// selected output format and returned so main can exit non-zero.
func Execute() error {
	cfg := NewConfig()
	rootCmd := NewRootCommand(cfg)
	return run(rootCmd, cfg)
}

func run(rootCmd *cobra.Command, cfg *Config) error {
	err := rootCmd.Execute()
	if flushErr := cfg.FlushMetrics(); flushErr != nil {
		cfg.Logger().Warn("metrics not written", logging.Error(flushErr))
	}
	if err != nil {
		handleError(rootCmd, cfg, err)
	}
	return err
}

// handleError prints an error to stderr
func handleError(cmd *cobra.Command, cfg *Config, err error) {
	format := cfg.OutputFormat
	if ValidateOutputFormat(format) != nil {
		format = string(OutputFormatText)
	}
	printer := NewPrinter(format, cmd.ErrOrStderr())
	_ = printer.PrintError(err) // Error printing to stderr is best-effort
}

// printer returns a Printer on the command's stdout.
func printer(cmd *cobra.Command, cfg *Config) *Printer {
	return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout())
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(cmd *cobra.Command, cfg *Config, format string, args ...interface{}) {
	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "[VERBOSE] "+format+"\n", args...)
	}
}

// errExists reports an existing dealing the command would overwrite.
func errExists(name string) error {
	return fmt.Errorf("dealing %q: %w, use --force to replace it", name, storage.ErrAlreadyExists)
}
