// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/purpledex/purpledex/cli/prompt"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/utils"
)

func newPingCmd(h *handler) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the node is serving",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli := h.client()
			if _, err := cli.Ping(cmd.Context()); err != nil {
				return err
			}
			name, version, err := cli.Version(cmd.Context())
			if err != nil {
				return err
			}
			utils.Outf("{{green}}%s{{/}} %s at %s\n", name, version, h.opts.Endpoint)
			return nil
		},
	}
}

func newInitializeCmd(h *handler) *cobra.Command {
	var numerator, denominator, protocolFee, collector string
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Write the registry fee schedule (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := h.caller()
			if err != nil {
				return err
			}
			n, err := h.amount(numerator, "fee numerator")
			if err != nil {
				return err
			}
			d, err := h.amount(denominator, "fee denominator")
			if err != nil {
				return err
			}
			p, err := h.bounded(protocolFee, "protocol fee percentage", uint64(consts.MaxProtocolFeePercentage))
			if err != nil {
				return err
			}
			c, err := h.address(collector, "fee collector", &accountType)
			if err != nil {
				return err
			}
			ok, err := h.confirm(fmt.Sprintf("write fee %d/%d with %d%% to %s", n, d, p, c))
			if err != nil || !ok {
				return err
			}
			r, err := h.client().Initialize(cmd.Context(), caller, n, d, uint8(p), c)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}registry initialized:{{/}} fee %d/%d, %d%% to %s\n", r.FeeNumerator, r.FeeDenominator, r.ProtocolFeePercentage, r.FeeCollector)
			return nil
		},
	}
	cmd.Flags().StringVar(&numerator, "fee-numerator", "", "trading fee numerator")
	cmd.Flags().StringVar(&denominator, "fee-denominator", "", "trading fee denominator")
	cmd.Flags().StringVar(&protocolFee, "protocol-fee", "", "percentage of each fee kept by the protocol")
	cmd.Flags().StringVar(&collector, "collector", "", "account receiving protocol fees")
	return cmd
}

func newRegistryCmd(h *handler) *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Show the registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := h.client().Registry(cmd.Context())
			if err != nil {
				return err
			}
			utils.Outf("{{cyan}}admin:{{/}} %s\n", r.Admin)
			utils.Outf("{{cyan}}pools:{{/}} %d\n", r.PoolsCount)
			utils.Outf("{{cyan}}fee:{{/}} %d/%d\n", r.FeeNumerator, r.FeeDenominator)
			utils.Outf("{{cyan}}protocol share:{{/}} %d%%\n", r.ProtocolFeePercentage)
			utils.Outf("{{cyan}}fee collector:{{/}} %s\n", r.FeeCollector)
			return nil
		},
	}
}

func newCreatePoolCmd(h *handler) *cobra.Command {
	var tokenA, tokenB string
	cmd := &cobra.Command{
		Use:   "create-pool",
		Short: "Open a pool for an ordered token pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := h.address(tokenA, "token A", &assetType)
			if err != nil {
				return err
			}
			b, err := h.address(tokenB, "token B", &assetType)
			if err != nil {
				return err
			}
			p, err := h.client().CreatePool(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			printPool(p)
			return nil
		},
	}
	cmd.Flags().StringVar(&tokenA, "token-a", "", "first asset of the pair")
	cmd.Flags().StringVar(&tokenB, "token-b", "", "second asset of the pair")
	return cmd
}

func newPoolCmd(h *handler) *cobra.Command {
	var pool, tokenA, tokenB string
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Show a pool by address or token pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli := h.client()
			if pool == "" && tokenA != "" && tokenB != "" {
				a, err := prompt.ParseAddress(tokenA, &assetType)
				if err != nil {
					return err
				}
				b, err := prompt.ParseAddress(tokenB, &assetType)
				if err != nil {
					return err
				}
				p, err := cli.PoolByTokens(cmd.Context(), a, b)
				if err != nil {
					return err
				}
				printPool(p)
				return nil
			}
			addr, err := h.address(pool, "pool", &poolType)
			if err != nil {
				return err
			}
			p, err := cli.Pool(cmd.Context(), addr)
			if err != nil {
				return err
			}
			printPool(p)
			return nil
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&tokenA, "token-a", "", "first asset of the pair")
	cmd.Flags().StringVar(&tokenB, "token-b", "", "second asset of the pair")
	return cmd
}

func newPoolsCmd(h *handler) *cobra.Command {
	var offset, limit uint64
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List pools in creation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pools, err := h.client().Pools(cmd.Context(), offset, limit)
			if err != nil {
				return err
			}
			if len(pools) == 0 {
				utils.Outf("{{yellow}}no pools{{/}}\n")
			}
			for _, p := range pools {
				printPool(p)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&offset, "offset", 0, "index of the first pool")
	cmd.Flags().Uint64Var(&limit, "limit", 0, "maximum pools to list (server maximum when 0)")
	return cmd
}

func newDepositCmd(h *handler) *cobra.Command {
	var pool, amountA, amountB string
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Add liquidity to a pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := h.caller()
			if err != nil {
				return err
			}
			addr, err := h.address(pool, "pool", &poolType)
			if err != nil {
				return err
			}
			a, err := h.amount(amountA, "amount A")
			if err != nil {
				return err
			}
			b, err := h.amount(amountB, "amount B")
			if err != nil {
				return err
			}
			minted, err := h.client().DepositLiquidity(cmd.Context(), caller, addr, a, b)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}minted:{{/}} %s lp\n", utils.FormatAmount(minted))
			return nil
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&amountA, "amount-a", "", "units of token A")
	cmd.Flags().StringVar(&amountB, "amount-b", "", "units of token B")
	return cmd
}

func newWithdrawCmd(h *handler) *cobra.Command {
	var pool, lp string
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Burn lp units for a share of the reserves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := h.caller()
			if err != nil {
				return err
			}
			addr, err := h.address(pool, "pool", &poolType)
			if err != nil {
				return err
			}
			amount, err := h.amount(lp, "lp units")
			if err != nil {
				return err
			}
			a, b, err := h.client().WithdrawLiquidity(cmd.Context(), caller, addr, amount)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}received:{{/}} %s A, %s B\n", utils.FormatAmount(a), utils.FormatAmount(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&lp, "lp", "", "lp units to burn")
	return cmd
}

type swapFlags struct {
	pool, input, source, destination, direction string
}

func (f *swapFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&f.input, "input", "", "units of the source asset")
	cmd.Flags().StringVar(&f.source, "source", "", "asset sold")
	cmd.Flags().StringVar(&f.destination, "destination", "", "asset bought")
	cmd.Flags().StringVar(&f.direction, "direction", "", "used when no asset is given: "+directionChoices)
}

func newQuoteCmd(h *handler) *cobra.Command {
	f := &swapFlags{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a swap without executing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := h.address(f.pool, "pool", &poolType)
			if err != nil {
				return err
			}
			input, err := h.amount(f.input, "input")
			if err != nil {
				return err
			}
			source, destination, err := h.direction(cmd.Context(), addr, f)
			if err != nil {
				return err
			}
			q, err := h.client().Quote(cmd.Context(), addr, input, source, destination)
			if err != nil {
				return err
			}
			printQuote(q)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printQuote(q *pricing.Quote) {
	utils.Outf("{{cyan}}output:{{/}} %s\n", utils.FormatAmount(q.Output))
	utils.Outf("{{cyan}}fee:{{/}} %s ({{cyan}}protocol:{{/}} %s)\n", utils.FormatAmount(q.TotalFee), utils.FormatAmount(q.ProtocolFee))
	utils.Outf("{{cyan}}price impact:{{/}} %d.%02d%%\n", q.PriceImpactBps/100, q.PriceImpactBps%100)
}

func newSwapCmd(h *handler) *cobra.Command {
	var (
		f           = &swapFlags{}
		minOutput   string
		slippageBps uint64
	)
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Exchange one asset of a pool for the other",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := h.caller()
			if err != nil {
				return err
			}
			addr, err := h.address(f.pool, "pool", &poolType)
			if err != nil {
				return err
			}
			input, err := h.amount(f.input, "input")
			if err != nil {
				return err
			}
			source, destination, err := h.direction(cmd.Context(), addr, f)
			if err != nil {
				return err
			}

			cli := h.client()
			var minimum uint64
			if minOutput != "" {
				minimum, err = prompt.ParseUint64(minOutput, consts.MaxUint64)
				if err != nil {
					return err
				}
			} else {
				q, err := cli.Quote(cmd.Context(), addr, input, source, destination)
				if err != nil {
					return err
				}
				printQuote(q)
				minimum, err = pricing.MulDiv(q.Output, consts.BasisPoints-min(slippageBps, consts.BasisPoints), consts.BasisPoints)
				if err != nil {
					return err
				}
				utils.Outf("{{cyan}}minimum output:{{/}} %s\n", utils.FormatAmount(minimum))
				if h.opts.Prompt {
					cont, err := prompt.Continue()
					if err != nil || !cont {
						return err
					}
				}
			}

			res, err := cli.Swap(cmd.Context(), caller, addr, input, minimum, source, destination)
			if err != nil {
				return err
			}
			utils.Outf(
				"{{green}}swapped:{{/}} %s in, %s out, %s fee\n",
				utils.FormatAmount(res.Input),
				utils.FormatAmount(res.Output),
				utils.FormatAmount(res.TotalFee),
			)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&minOutput, "min-output", "", "fail unless at least this much is received (quoted when empty)")
	cmd.Flags().Uint64Var(&slippageBps, "slippage-bps", 50, "tolerance applied to the quote when --min-output is empty")
	return cmd
}

func newCollectFeesCmd(h *handler) *cobra.Command {
	var pool string
	cmd := &cobra.Command{
		Use:   "collect-fees",
		Short: "Pay a pool's protocol fees to the collector (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := h.caller()
			if err != nil {
				return err
			}
			addr, err := h.address(pool, "pool", &poolType)
			if err != nil {
				return err
			}
			ok, err := h.confirm("pay protocol fees of " + addr.String() + " to the collector")
			if err != nil || !ok {
				return err
			}
			a, b, err := h.client().CollectFees(cmd.Context(), caller, addr)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}collected:{{/}} %s A, %s B\n", utils.FormatAmount(a), utils.FormatAmount(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "pool address")
	return cmd
}

func newMintCmd(h *handler) *cobra.Command {
	var account, asset, amount string
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Create units of an asset from the faucet (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := h.caller()
			if err != nil {
				return err
			}
			to, err := h.address(account, "account", &accountType)
			if err != nil {
				return err
			}
			a, err := h.address(asset, "asset", &assetType)
			if err != nil {
				return err
			}
			n, err := h.amount(amount, "amount")
			if err != nil {
				return err
			}
			bal, err := h.client().Mint(cmd.Context(), caller, to, a, n)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}balance:{{/}} %s\n", utils.FormatAmount(bal))
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account credited")
	cmd.Flags().StringVar(&asset, "asset", "", "asset minted")
	cmd.Flags().StringVar(&amount, "amount", "", "units to mint")
	return cmd
}

func newBalanceCmd(h *handler) *cobra.Command {
	var account, asset string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an account's balance of an asset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if account == "" {
				account = h.opts.Caller
			}
			who, err := h.address(account, "account", &accountType)
			if err != nil {
				return err
			}
			// LP assets are valid here too, so the type is not checked.
			a, err := h.address(asset, "asset", nil)
			if err != nil {
				return err
			}
			bal, err := h.client().Balance(cmd.Context(), who, a)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}balance:{{/}} %s\n", utils.FormatAmount(bal))
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account (defaults to --caller)")
	cmd.Flags().StringVar(&asset, "asset", "", "asset or lp asset")
	return cmd
}

func newStatsCmd(h *handler) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show activity counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := h.client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			utils.Outf("{{cyan}}pools:{{/}} %d\n", s.Pools)
			utils.Outf("{{cyan}}transactions:{{/}} %d ({{red}}%d failed{{/}})\n", s.Transactions, s.Failures)
			utils.Outf("{{cyan}}swaps:{{/}} %d\n", s.Swaps)
			utils.Outf("{{cyan}}deposits:{{/}} %d\n", s.Deposits)
			utils.Outf("{{cyan}}withdrawals:{{/}} %d\n", s.Withdrawals)
			utils.Outf("{{cyan}}fee collections:{{/}} %d\n", s.FeeCollections)
			return nil
		},
	}
}
