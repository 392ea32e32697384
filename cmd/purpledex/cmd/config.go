// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/purpledex/purpledex/config"
	"github.com/purpledex/purpledex/utils"
)

func newConfigCmd(h *handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage node configs",
	}
	cmd.AddCommand(newConfigInitCmd(h))
	return cmd
}

func newConfigInitCmd(h *handler) *cobra.Command {
	var (
		admin   string
		dataDir string
		listen  string
	)
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config with defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			addr, err := h.address(admin, "admin", &accountType)
			if err != nil {
				return err
			}
			cfg := config.NewDefaultConfig()
			cfg.Admin = addr.String()
			cfg.HTTP.ListenAddress = listen
			if dataDir != "" {
				cfg.DatabaseDir, err = utils.InitSubDirectory(dataDir, "db")
				if err != nil {
					return err
				}
				cfg.Log.Directory = filepath.Join(dataDir, "logs")
			}
			if err := cfg.Verify(); err != nil {
				return err
			}
			if err := cfg.Save(args[0]); err != nil {
				return err
			}
			utils.Outf("{{green}}wrote config:{{/}} %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&admin, "admin", "", "admin account")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for state and logs (state is in memory when empty)")
	cmd.Flags().StringVar(&listen, "listen", config.DefaultListenAddress, "API listen address")
	return cmd
}
