// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/spf13/cobra"

	"github.com/purpledex/purpledex/config"
	"github.com/purpledex/purpledex/node"
)

func newServeCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a node serving the exchange API",
		Long: `Run a node serving the exchange API.

Requests name their caller in a field the node does not authenticate, so any
client that reaches the API can act as the admin: initialize the registry,
collect fees, and mint from the faucet. Keep http.listenAddress on a loopback
address, or put the node behind a proxy that admits only trusted callers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			n, err := node.New(cfg)
			if err != nil {
				return err
			}
			errs := wrappers.Errs{}
			errs.Add(
				n.Run(cmd.Context()),
				n.Close(),
			)
			return errs.Err
		},
	}
	cmd.Flags().StringVar(&path, "config", "purpledex.yaml", "path to the node config")
	return cmd
}
