// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/purpledex/purpledex/cli/prompt"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/rpc"
	"github.com/purpledex/purpledex/utils"
)

func newWatchCmd(h *handler) *cobra.Command {
	var pools, accounts, types []string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream exchange events until interrupted",
		Long: "Stream exchange events until interrupted. Filters are combined: an event\n" +
			"is shown when it matches any given pool, account or type.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var labels []string
			for _, p := range pools {
				addr, err := prompt.ParseAddress(p, &poolType)
				if err != nil {
					return err
				}
				labels = append(labels, addr.String())
			}
			for _, a := range accounts {
				addr, err := prompt.ParseAddress(a, nil)
				if err != nil {
					return err
				}
				labels = append(labels, addr.String())
			}
			labels = append(labels, types...)

			ctx := cmd.Context()
			cli, err := rpc.NewWebSocketClient(ctx, h.opts.Endpoint)
			if err != nil {
				return err
			}
			defer cli.Close()
			if len(labels) > 0 {
				if err := cli.Subscribe(labels...); err != nil {
					return err
				}
			}

			utils.Outf("{{yellow}}watching events at %s{{/}}\n", h.opts.Endpoint)
			for {
				ev, err := cli.ListenEvent(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return err
				}
				printEvent(ev)
			}
		},
	}
	cmd.Flags().StringSliceVar(&pools, "pool", nil, "pool addresses to watch")
	cmd.Flags().StringSliceVar(&accounts, "account", nil, "accounts to watch")
	cmd.Flags().StringSliceVar(&types, "type", nil, "event types to watch (poolCreated, liquidityDeposited, liquidityWithdrawn, swapExecuted, feesCollected)")
	return cmd
}

func printEvent(ev *exchange.Event) {
	switch ev.Type {
	case exchange.PoolCreated:
		utils.Outf("{{green}}%s{{/}} pool=%s tokens=%s/%s\n", ev.Type, ev.Pool, ev.TokenA, ev.TokenB)
	case exchange.LiquidityDeposited:
		utils.Outf(
			"{{green}}%s{{/}} pool=%s account=%s in=%s/%s minted=%s\n",
			ev.Type, ev.Pool, ev.Account,
			utils.FormatAmount(ev.AmountA), utils.FormatAmount(ev.AmountB), utils.FormatAmount(ev.Shares),
		)
	case exchange.LiquidityWithdrawn:
		utils.Outf(
			"{{green}}%s{{/}} pool=%s account=%s out=%s/%s burned=%s\n",
			ev.Type, ev.Pool, ev.Account,
			utils.FormatAmount(ev.AmountA), utils.FormatAmount(ev.AmountB), utils.FormatAmount(ev.Shares),
		)
	case exchange.SwapExecuted:
		utils.Outf(
			"{{green}}%s{{/}} pool=%s account=%s in=%s out=%s fee=%s\n",
			ev.Type, ev.Pool, ev.Account,
			utils.FormatAmount(ev.Input), utils.FormatAmount(ev.Output), utils.FormatAmount(ev.TotalFee),
		)
	case exchange.FeesCollected:
		utils.Outf(
			"{{green}}%s{{/}} pool=%s collector=%s amounts=%s/%s\n",
			ev.Type, ev.Pool, ev.Account,
			utils.FormatAmount(ev.AmountA), utils.FormatAmount(ev.AmountB),
		)
	default:
		utils.Outf("{{yellow}}%s{{/}} pool=%s\n", ev.Type, ev.Pool)
	}
}
