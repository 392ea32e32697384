// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package e2e

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/rpc"
	"github.com/purpledex/purpledex/tests/registry"
	"github.com/purpledex/purpledex/tests/workload"

	ginkgo "github.com/onsi/ginkgo/v2"
)

var (
	_ = registry.RegisterTest("pools/reversed-pair", reversedPair)
	_ = registry.RegisterTest("auth/admin-only", adminOnly)
	_ = registry.RegisterTest("swap/slippage-floor", slippageFloor)
	_ = registry.RegisterTest("liquidity/full-withdrawal", fullWithdrawal)
)

func newAsset() codec.Address {
	return codec.CreateAddress(consts.AssetID, ids.GenerateTestID())
}

func newAccount() codec.Address {
	return codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
}

// fundedPool creates a pool over fresh tokens and seeds it from a fresh
// provider holding 10x the seeded amounts.
func fundedPool(ctx context.Context, require *require.Assertions, tn workload.TestNetwork, seed uint64) (*rpc.JSONRPCClient, codec.Address, codec.Address) {
	var (
		client   = rpc.NewJSONRPCClient(tn.URIs()[0])
		admin    = tn.Configuration().Admin()
		provider = newAccount()
	)
	p, err := client.CreatePool(ctx, newAsset(), newAsset())
	require.NoError(err)
	for _, token := range []codec.Address{p.TokenA, p.TokenB} {
		_, err := client.Mint(ctx, admin, provider, token, 10*seed)
		require.NoError(err)
	}
	_, err = client.DepositLiquidity(ctx, provider, p.Address, seed, seed)
	require.NoError(err)
	return client, p.Address, provider
}

func reversedPair(ctx context.Context, t ginkgo.FullGinkgoTInterface, tn workload.TestNetwork) error {
	require := require.New(t)
	client := rpc.NewJSONRPCClient(tn.URIs()[0])
	a, b := newAsset(), newAsset()

	forward, err := client.CreatePool(ctx, a, b)
	require.NoError(err)
	backward, err := client.CreatePool(ctx, b, a)
	require.NoError(err)
	require.NotEqual(forward.Address, backward.Address)

	_, err = client.CreatePool(ctx, a, b)
	require.ErrorContains(err, "pool already exists")

	found, err := client.PoolByTokens(ctx, b, a)
	require.NoError(err)
	require.Equal(backward.Address, found.Address)
	return nil
}

func adminOnly(ctx context.Context, t ginkgo.FullGinkgoTInterface, tn workload.TestNetwork) error {
	require := require.New(t)
	client, pool, provider := fundedPool(ctx, require, tn, 1_000_000)

	_, _, err := client.CollectFees(ctx, provider, pool)
	require.ErrorContains(err, consts.ErrAuthorization.Error())

	_, err = client.Mint(ctx, provider, provider, newAsset(), 1)
	require.ErrorContains(err, consts.ErrAuthorization.Error())

	r, err := client.Registry(ctx)
	require.NoError(err)
	_, err = client.Initialize(ctx, provider, 1, 2, 0, provider)
	require.ErrorContains(err, consts.ErrAuthorization.Error())
	after, err := client.Registry(ctx)
	require.NoError(err)
	require.Equal(r.FeeCollector, after.FeeCollector)
	return nil
}

func slippageFloor(ctx context.Context, t ginkgo.FullGinkgoTInterface, tn workload.TestNetwork) error {
	require := require.New(t)
	client, pool, provider := fundedPool(ctx, require, tn, 1_000_000)
	p, err := client.Pool(ctx, pool)
	require.NoError(err)

	q, err := client.Quote(ctx, pool, 10_000, p.TokenA, p.TokenB)
	require.NoError(err)
	_, err = client.Swap(ctx, provider, pool, 10_000, q.Output+1, p.TokenA, p.TokenB)
	require.Error(err)
	require.True(strings.Contains(err.Error(), consts.ErrSlippage.Error()))

	unchanged, err := client.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(p.ReserveA, unchanged.ReserveA)
	require.Equal(p.ReserveB, unchanged.ReserveB)

	res, err := client.Swap(ctx, provider, pool, 10_000, q.Output, p.TokenA, p.TokenB)
	require.NoError(err)
	require.Equal(q.Output, res.Output)
	return nil
}

func fullWithdrawal(ctx context.Context, t ginkgo.FullGinkgoTInterface, tn workload.TestNetwork) error {
	require := require.New(t)
	client, pool, provider := fundedPool(ctx, require, tn, 1_000_000)
	p, err := client.Pool(ctx, pool)
	require.NoError(err)

	_, err = client.Swap(ctx, provider, pool, 100_000, 1, p.TokenA, p.TokenB)
	require.NoError(err)
	lp, err := client.Balance(ctx, provider, p.LPAsset)
	require.NoError(err)
	_, _, err = client.WithdrawLiquidity(ctx, provider, pool, lp)
	require.NoError(err)

	empty, err := client.Pool(ctx, pool)
	require.NoError(err)
	require.Zero(empty.TotalLiquidity)
	require.Zero(empty.ReserveA)
	require.Zero(empty.ReserveB)
	require.Zero(empty.ProtocolFeesTokenA)

	// The emptied pool accepts a fresh first deposit.
	minted, err := client.DepositLiquidity(ctx, provider, pool, 4_000, 9_000)
	require.NoError(err)
	require.Equal(uint64(6_000), minted)
	return nil
}
