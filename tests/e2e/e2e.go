// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package e2e

import (
	"context"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/rpc"
	"github.com/purpledex/purpledex/tests/registry"
	"github.com/purpledex/purpledex/tests/workload"
	"github.com/purpledex/purpledex/utils"

	ginkgo "github.com/onsi/ginkgo/v2"
)

const (
	defaultTimeout = 2 * time.Minute

	marketTokens  = 4
	marketTraders = 8
	workloadOps   = 25
)

var network workload.TestNetwork

// SetNetwork must be called before the suite runs, typically from
// SynchronizedBeforeSuite.
func SetNetwork(tn workload.TestNetwork) {
	network = tn
}

func defaultContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultTimeout)
}

var _ = ginkgo.Describe("[purpledex APIs]", func() {
	ginkgo.It("Ping", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		workload.Ping(ctx, require.New(ginkgo.GinkgoT()), network.URIs())
	})

	ginkgo.It("Version", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		workload.Version(ctx, require.New(ginkgo.GinkgoT()), network.URIs())
	})
})

var _ = ginkgo.Describe("[purpledex Market Workload]", ginkgo.Ordered, func() {
	var market *workload.Market

	ginkgo.BeforeAll(func() {
		ctx, cancel := defaultContext()
		defer cancel()
		market = workload.NewMarket(marketTokens, marketTraders)
		market.Setup(ctx, require.New(ginkgo.GinkgoT()), network.URIs()[0], network.Configuration().Admin())
	})

	ginkgo.It("Executes concurrent trading", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		require := require.New(ginkgo.GinkgoT())

		res := market.ExecuteWorkload(ctx, require, network.URIs(), workloadOps)
		require.Equal(
			uint64(marketTraders*workloadOps),
			res.Swaps.Load()+res.Deposits.Load()+res.Withdrawals.Load(),
		)
	})

	ginkgo.It("Conserves every token", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		market.CheckConservation(ctx, require.New(ginkgo.GinkgoT()), network.URIs()[0], network.Configuration().Collector())
	})

	ginkgo.It("Keeps pool accounting consistent", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		market.CheckPools(ctx, require.New(ginkgo.GinkgoT()), network.URIs()[0])
	})

	ginkgo.It("Streams swap events", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		market.StreamSwap(ctx, require.New(ginkgo.GinkgoT()), network.URIs()[0])
	})

	ginkgo.It("Collects protocol fees", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		require := require.New(ginkgo.GinkgoT())
		uri := network.URIs()[0]
		cfg := network.Configuration()

		market.CollectAll(ctx, require, uri, cfg.Admin(), cfg.Collector())
		market.CheckConservation(ctx, require, uri, cfg.Collector())
		market.CheckPools(ctx, require, uri)
	})

	ginkgo.It("Collects protocol fees while trading", func() {
		ctx, cancel := defaultContext()
		defer cancel()
		require := require.New(ginkgo.GinkgoT())
		uri := network.URIs()[0]
		cfg := network.Configuration()

		tradeCtx, stopTrading := context.WithCancel(ctx)
		done := make(chan *workload.Result, 1)
		go func() {
			defer ginkgo.GinkgoRecover()
			done <- market.GenerateUntilCancel(tradeCtx, network.URIs())
		}()

		time.Sleep(time.Second)
		for _, p := range market.Pools {
			_, _, err := rpc.NewJSONRPCClient(uri).CollectFees(ctx, cfg.Admin(), p.Address)
			require.NoError(err)
		}
		stopTrading()
		res := <-done
		utils.Outf("{{green}}swaps during collection:{{/}} %d\n", res.Swaps.Load())

		market.CheckConservation(ctx, require, uri, cfg.Collector())
		market.CheckPools(ctx, require, uri)
	})
})

var _ = ginkgo.Describe("[purpledex Scenarios]", func() {
	for _, test := range registry.List() {
		test := test
		ginkgo.It(test.Name, func() {
			ctx, cancel := defaultContext()
			defer cancel()
			require.NoError(ginkgo.GinkgoT(), test.Fnc(ctx, ginkgo.GinkgoT(), network))
		})
	}
})
