// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//nolint:gosec
package workload

import (
	"context"
	"math/rand"
	"sync/atomic"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/rpc"
	"github.com/purpledex/purpledex/utils"
)

const (
	DefaultFeeNumerator   uint64 = 3
	DefaultFeeDenominator uint64 = 1000
	DefaultProtocolFee    uint8  = 20

	initialBalance = 1_000_000_000
	seedLiquidity  = 10_000_000
	minTrade       = 1_000
	maxTrade       = 100_000
)

// Market is a set of fresh tokens, pools over consecutive token pairs, and
// funded traders. Addresses are random so repeated runs against a long-lived
// node do not collide.
type Market struct {
	Tokens  []codec.Address
	Traders []codec.Address
	Pools   []*exchange.PoolInfo
}

func NewMarket(tokens int, traders int) *Market {
	m := &Market{
		Tokens:  make([]codec.Address, tokens),
		Traders: make([]codec.Address, traders),
	}
	for i := range m.Tokens {
		m.Tokens[i] = codec.CreateAddress(consts.AssetID, ids.GenerateTestID())
	}
	for i := range m.Traders {
		m.Traders[i] = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
	}
	return m
}

// Setup creates the pools, funds every trader, and seeds each pool with
// liquidity from the first trader.
func (m *Market) Setup(ctx context.Context, require *require.Assertions, uri string, admin codec.Address) {
	client := rpc.NewJSONRPCClient(uri)
	for i := 0; i+1 < len(m.Tokens); i++ {
		p, err := client.CreatePool(ctx, m.Tokens[i], m.Tokens[i+1])
		require.NoError(err)
		require.Zero(p.TotalLiquidity)
		m.Pools = append(m.Pools, p)
	}
	for _, trader := range m.Traders {
		for _, token := range m.Tokens {
			balance, err := client.Mint(ctx, admin, trader, token, initialBalance)
			require.NoError(err)
			require.Equal(uint64(initialBalance), balance)
		}
	}
	for _, p := range m.Pools {
		minted, err := client.DepositLiquidity(ctx, m.Traders[0], p.Address, seedLiquidity, seedLiquidity)
		require.NoError(err)
		require.Equal(uint64(seedLiquidity), minted)
	}
	utils.Outf("{{green}}market ready:{{/}} %d pools, %d traders\n", len(m.Pools), len(m.Traders))
}

// Result counts the operations a workload executed.
type Result struct {
	Swaps       atomic.Uint64
	Deposits    atomic.Uint64
	Withdrawals atomic.Uint64
}

// ExecuteWorkload has every trader run ops random operations concurrently,
// spreading requests across uris.
func (m *Market) ExecuteWorkload(ctx context.Context, require *require.Assertions, uris []string, ops int) *Result {
	var (
		res     = &Result{}
		g, gctx = errgroup.WithContext(ctx)
	)
	for i, trader := range m.Traders {
		trader := trader
		client := rpc.NewJSONRPCClient(uris[i%len(uris)])
		r := rand.New(rand.NewSource(int64(i)))
		g.Go(func() error {
			for j := 0; j < ops; j++ {
				if err := m.step(gctx, client, r, trader, res); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(g.Wait())
	utils.Outf(
		"{{green}}workload done:{{/}} %d swaps, %d deposits, %d withdrawals\n",
		res.Swaps.Load(), res.Deposits.Load(), res.Withdrawals.Load(),
	)
	return res
}

// GenerateUntilCancel runs swaps against uris until ctx is done. Errors are
// logged and otherwise ignored.
func (m *Market) GenerateUntilCancel(ctx context.Context, uris []string) *Result {
	res := &Result{}
	var g errgroup.Group
	for i, trader := range m.Traders {
		trader := trader
		client := rpc.NewJSONRPCClient(uris[i%len(uris)])
		r := rand.New(rand.NewSource(int64(i)))
		g.Go(func() error {
			for ctx.Err() == nil {
				if err := m.swap(ctx, client, r, trader, res); err != nil && ctx.Err() == nil {
					utils.Outf("{{orange}}swap failed:{{/}} %v\n", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

func (m *Market) step(ctx context.Context, client *rpc.JSONRPCClient, r *rand.Rand, trader codec.Address, res *Result) error {
	switch n := r.Intn(10); {
	case n < 7:
		return m.swap(ctx, client, r, trader, res)
	case n < 9:
		p := m.Pools[r.Intn(len(m.Pools))]
		amount := tradeSize(r)
		if _, err := client.DepositLiquidity(ctx, trader, p.Address, amount, amount); err != nil {
			return err
		}
		res.Deposits.Add(1)
		return nil
	default:
		p := m.Pools[r.Intn(len(m.Pools))]
		lp, err := client.Balance(ctx, trader, p.LPAsset)
		if err != nil || lp < 4 {
			return err
		}
		// A quarter to three quarters of the trader's units. The seeding
		// trader may hold every unit, and the pool must stay priced.
		amount := lp / 4 * uint64(1+r.Intn(3))
		if _, _, err := client.WithdrawLiquidity(ctx, trader, p.Address, amount); err != nil {
			return err
		}
		res.Withdrawals.Add(1)
		return nil
	}
}

func (m *Market) swap(ctx context.Context, client *rpc.JSONRPCClient, r *rand.Rand, trader codec.Address, res *Result) error {
	p := m.Pools[r.Intn(len(m.Pools))]
	source, destination := p.TokenA, p.TokenB
	if r.Intn(2) == 0 {
		source, destination = destination, source
	}
	if _, err := client.Swap(ctx, trader, p.Address, tradeSize(r), 0, source, destination); err != nil {
		return err
	}
	res.Swaps.Add(1)
	return nil
}

func tradeSize(r *rand.Rand) uint64 {
	return uint64(minTrade + r.Intn(maxTrade-minTrade))
}
