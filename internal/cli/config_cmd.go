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
	"io/fs"
	"os"

	"github.com/jeremyhahn/go-feldman/internal/config"
	"github.com/jeremyhahn/go-feldman/pkg/storage"
	"github.com/spf13/cobra"
)

func newConfigCmd(cfg *Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
	}

	var (
		path  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s: %w, use --force to replace it", path, storage.ErrAlreadyExists)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			return printer(cmd, cfg).PrintSuccess(fmt.Sprintf("Configuration written to %s", path))
		},
	}
	initCmd.Flags().StringVar(&path, "path", "feldman.yaml", "configuration file to write")
	initCmd.Flags().BoolVar(&force, "force", false, "replace an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := *cfg.Settings()
			if settings.Entropy.PKCS11PIN != "" {
				settings.Entropy.PKCS11PIN = "********"
			}
			p := printer(cmd, cfg)
			if OutputFormat(cfg.OutputFormat) == OutputFormatJSON {
				return p.printJSON(settings)
			}
			return p.printYAML(settings)
		},
	}

	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	return configCmd
}
