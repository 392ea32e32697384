// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workload

import (
	"context"

	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/rpc"
)

// Refresh reloads every pool of the market.
func (m *Market) Refresh(ctx context.Context, require *require.Assertions, uri string) {
	client := rpc.NewJSONRPCClient(uri)
	for i, p := range m.Pools {
		latest, err := client.Pool(ctx, p.Address)
		require.NoError(err)
		m.Pools[i] = latest
	}
}

// CheckConservation checks that no units of any market token were created or
// destroyed outside of minting: every unit is held by a trader, a pool vault,
// or the fee collector.
func (m *Market) CheckConservation(ctx context.Context, require *require.Assertions, uri string, collector codec.Address) {
	client := rpc.NewJSONRPCClient(uri)
	m.Refresh(ctx, require, uri)

	expected := uint64(initialBalance) * uint64(len(m.Traders))
	for _, token := range m.Tokens {
		supply, err := client.Supply(ctx, token)
		require.NoError(err)
		require.Equal(expected, supply, "supply of %s", token)

		holders := append([]codec.Address{collector}, m.Traders...)
		for _, p := range m.Pools {
			switch token {
			case p.TokenA:
				holders = append(holders, p.VaultA)
			case p.TokenB:
				holders = append(holders, p.VaultB)
			}
		}
		var held uint64
		for _, holder := range holders {
			balance, err := client.Balance(ctx, holder, token)
			require.NoError(err)
			held += balance
		}
		require.Equal(supply, held, "holdings of %s", token)
	}
}

// CheckPools checks the per-pool accounting against the ledger.
func (m *Market) CheckPools(ctx context.Context, require *require.Assertions, uri string) {
	client := rpc.NewJSONRPCClient(uri)
	m.Refresh(ctx, require, uri)

	for _, p := range m.Pools {
		lpSupply, err := client.Supply(ctx, p.LPAsset)
		require.NoError(err)
		require.Equal(p.TotalLiquidity, lpSupply)

		var held uint64
		for _, trader := range m.Traders {
			balance, err := client.Balance(ctx, trader, p.LPAsset)
			require.NoError(err)
			held += balance
		}
		require.Equal(lpSupply, held)

		require.LessOrEqual(p.ProtocolFeesTokenA, p.ReserveA)
		require.LessOrEqual(p.ProtocolFeesTokenB, p.ReserveB)
		require.Positive(p.ReserveA)
		require.Positive(p.ReserveB)
	}
}

// CollectAll drains every pool's protocol fees and checks the collector
// received exactly what had accrued.
func (m *Market) CollectAll(ctx context.Context, require *require.Assertions, uri string, admin codec.Address, collector codec.Address) {
	client := rpc.NewJSONRPCClient(uri)
	m.Refresh(ctx, require, uri)

	for _, p := range m.Pools {
		before, err := m.collectorBalances(ctx, client, p, collector)
		require.NoError(err)

		feeA, feeB, err := client.CollectFees(ctx, admin, p.Address)
		require.NoError(err)
		require.Equal(p.ProtocolFeesTokenA, feeA)
		require.Equal(p.ProtocolFeesTokenB, feeB)

		after, err := m.collectorBalances(ctx, client, p, collector)
		require.NoError(err)
		require.Equal(before[0]+feeA, after[0])
		require.Equal(before[1]+feeB, after[1])

		latest, err := client.Pool(ctx, p.Address)
		require.NoError(err)
		require.Zero(latest.ProtocolFeesTokenA)
		require.Zero(latest.ProtocolFeesTokenB)
	}
}

func (*Market) collectorBalances(ctx context.Context, client *rpc.JSONRPCClient, p *exchange.PoolInfo, collector codec.Address) ([2]uint64, error) {
	var out [2]uint64
	for i, token := range []codec.Address{p.TokenA, p.TokenB} {
		balance, err := client.Balance(ctx, collector, token)
		if err != nil {
			return out, err
		}
		out[i] = balance
	}
	return out, nil
}
