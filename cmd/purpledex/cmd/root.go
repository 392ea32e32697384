// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/purpledex/purpledex/config"
	"github.com/purpledex/purpledex/consts"
)

// Options are the persistent flags shared by every command.
type Options struct {
	Endpoint string
	Caller   string
	Prompt   bool
}

func DefaultOptions() Options {
	return Options{
		Endpoint: "http://" + config.DefaultListenAddress + config.DefaultBaseURL,
		Prompt:   true,
	}
}

// NewRootCmd builds a fresh command tree. The shell builds one per line so
// flags never leak between invocations.
func NewRootCmd(defaults Options) *cobra.Command {
	h := &handler{opts: defaults}
	cmd := &cobra.Command{
		Use:   consts.Name,
		Short: "constant-product exchange node and client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVar(&h.opts.Endpoint, "endpoint", defaults.Endpoint, "base uri of the node API")
	flags.StringVar(&h.opts.Caller, "caller", defaults.Caller, "account the request is made as")
	flags.BoolVar(&h.opts.Prompt, "prompt", defaults.Prompt, "prompt for values missing from flags")

	cmd.AddCommand(
		newServeCmd(),
		newConfigCmd(h),
		newAddressCmd(),
		newPingCmd(h),
		newInitializeCmd(h),
		newRegistryCmd(h),
		newCreatePoolCmd(h),
		newPoolCmd(h),
		newPoolsCmd(h),
		newDepositCmd(h),
		newWithdrawCmd(h),
		newQuoteCmd(h),
		newSwapCmd(h),
		newCollectFeesCmd(h),
		newMintCmd(h),
		newBalanceCmd(h),
		newStatsCmd(h),
		newWatchCmd(h),
		newPrometheusCmd(h),
		newShellCmd(h),
	)
	return cmd
}
