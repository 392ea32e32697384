// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/purpledex/purpledex/cli/prompt"
	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/config"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/node"
	"github.com/purpledex/purpledex/rpc"
)

var (
	admin     = codec.CreateAddress(consts.AccountID, ids.ID{1})
	collector = codec.CreateAddress(consts.AccountID, ids.ID{2})
	trader    = codec.CreateAddress(consts.AccountID, ids.ID{3})
	tokenA    = codec.CreateAddress(consts.AssetID, ids.ID{4})
	tokenB    = codec.CreateAddress(consts.AssetID, ids.ID{5})
)

func startNode(t *testing.T) string {
	require := require.New(t)

	cfg := config.NewDefaultConfig()
	cfg.Admin = admin.String()
	cfg.HTTP.ListenAddress = "127.0.0.1:0"
	cfg.HTTP.ShutdownTimeout = time.Second
	cfg.Log.Directory = t.TempDir()
	cfg.Log.DisableDisplay = true

	n, err := node.New(cfg)
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- n.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(<-done)
		require.NoError(n.Close())
	})

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer waitCancel()
	require.NoError(rpc.NewJSONRPCClient(n.URI()).WaitForHealthy(waitCtx))
	return n.URI()
}

func run(uri string, caller codec.Address, args ...string) error {
	root := NewRootCmd(Options{
		Endpoint: uri,
		Caller:   caller.String(),
	})
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestCommands(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	uri := startNode(t)
	cli := rpc.NewJSONRPCClient(uri)

	require.NoError(run(uri, admin, "ping"))
	require.NoError(run(uri, admin, "initialize",
		"--fee-numerator", "3",
		"--fee-denominator", "1000",
		"--protocol-fee", "20",
		"--collector", collector.String(),
	))
	require.NoError(run(uri, admin, "registry"))
	require.NoError(run(uri, trader, "create-pool",
		"--token-a", tokenA.String(),
		"--token-b", tokenB.String(),
	))
	pool, err := cli.PoolByTokens(ctx, tokenA, tokenB)
	require.NoError(err)

	for _, asset := range []codec.Address{tokenA, tokenB} {
		require.NoError(run(uri, admin, "mint",
			"--account", trader.String(),
			"--asset", asset.String(),
			"--amount", "2,000,000",
		))
	}
	require.NoError(run(uri, trader, "deposit",
		"--pool", pool.Address.String(),
		"--amount-a", "1000000",
		"--amount-b", "1000000",
	))
	lp, err := cli.Balance(ctx, trader, pool.LPAsset)
	require.NoError(err)
	require.Equal(uint64(1_000_000), lp)

	swapArgs := []string{
		"--pool", pool.Address.String(),
		"--input", "10000",
		"--source", tokenA.String(),
		"--destination", tokenB.String(),
	}
	require.NoError(run(uri, trader, append([]string{"quote"}, swapArgs...)...))
	require.NoError(run(uri, trader, append([]string{"swap"}, swapArgs...)...))
	require.NoError(run(uri, trader, append([]string{"swap", "--min-output", "1"}, swapArgs...)...))

	balanceB, err := cli.Balance(ctx, trader, tokenB)
	require.NoError(err)
	require.Greater(balanceB, uint64(1_000_000))

	// A minimum above any achievable output is rejected by the node.
	err = run(uri, trader, append([]string{"swap", "--min-output", "1000000"}, swapArgs...)...)
	require.ErrorContains(err, "slippage")

	// The direction is taken by index or implied by a single asset.
	poolFlags := []string{"--pool", pool.Address.String(), "--input", "1000"}
	require.NoError(run(uri, trader, append([]string{"swap", "--direction", "1", "--min-output", "1"}, poolFlags...)...))
	require.NoError(run(uri, trader, append([]string{"quote", "--destination", tokenA.String()}, poolFlags...)...))
	err = run(uri, trader, append([]string{"quote", "--direction", "2"}, poolFlags...)...)
	require.ErrorIs(err, prompt.ErrIndexOutOfRange)
	err = run(uri, trader, append([]string{"quote"}, poolFlags...)...)
	require.ErrorIs(err, ErrMissingValue)
	other := codec.CreateAddress(consts.AssetID, ids.ID{9})
	err = run(uri, trader, append([]string{"quote", "--source", other.String()}, poolFlags...)...)
	require.ErrorIs(err, ErrNotPoolAsset)

	err = run(uri, trader, "collect-fees", "--pool", pool.Address.String())
	require.ErrorContains(err, "authorization")
	require.NoError(run(uri, admin, "collect-fees", "--pool", pool.Address.String()))
	fees, err := cli.Balance(ctx, collector, tokenA)
	require.NoError(err)
	require.Positive(fees)

	require.NoError(run(uri, trader, "withdraw", "--pool", pool.Address.String(), "--lp", "500000"))
	require.NoError(run(uri, trader, "balance", "--asset", pool.LPAsset.String()))
	require.NoError(run(uri, trader, "pool", "--token-a", tokenA.String(), "--token-b", tokenB.String()))
	require.NoError(run(uri, trader, "pools"))
	require.NoError(run(uri, trader, "stats"))

	stats, err := cli.Stats(ctx)
	require.NoError(err)
	require.Equal(uint64(1), stats.Pools)
	require.Equal(uint64(3), stats.Swaps)
}

func TestMissingValueWithoutPrompt(t *testing.T) {
	root := NewRootCmd(Options{Endpoint: "http://127.0.0.1:1/ext"})
	root.SetArgs([]string{"create-pool", "--prompt=false"})
	require.ErrorIs(t, root.ExecuteContext(context.Background()), ErrMissingValue)
}

func TestWatchRejectsNonPoolFilter(t *testing.T) {
	root := NewRootCmd(Options{Endpoint: "http://127.0.0.1:1/ext"})
	root.SetArgs([]string{"watch", "--pool", trader.String()})
	require.ErrorIs(t, root.ExecuteContext(context.Background()), prompt.ErrWrongType)
}

func TestServeHelpWarnsAboutCallers(t *testing.T) {
	require := require.New(t)
	serve, _, err := NewRootCmd(DefaultOptions()).Find([]string{"serve"})
	require.NoError(err)
	require.Contains(serve.Long, "act as the admin")
	require.Contains(serve.Long, "loopback")
}

func TestShellLine(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	opts := Options{Endpoint: "http://127.0.0.1:1/ext"}

	exit, err := runShellLine(ctx, opts, "  ")
	require.NoError(err)
	require.False(exit)

	exit, err = runShellLine(ctx, opts, "quit")
	require.NoError(err)
	require.True(exit)

	_, err = runShellLine(ctx, opts, "shell")
	require.ErrorIs(err, ErrNestedShell)

	_, err = runShellLine(ctx, opts, `address inspect "unterminated`)
	require.Error(err)

	_, err = runShellLine(ctx, opts, "address inspect "+tokenA.String())
	require.NoError(err)
}

func TestPrometheusConfig(t *testing.T) {
	require := require.New(t)

	c, err := NewPrometheusConfig([]string{"http://127.0.0.1:9650/ext"})
	require.NoError(err)
	require.Len(c.ScrapeConfigs, 1)
	require.Equal("/ext/metrics", c.ScrapeConfigs[0].MetricsPath)
	require.Equal([]string{"127.0.0.1:9650"}, c.ScrapeConfigs[0].StaticConfigs[0].Targets)

	file := filepath.Join(t.TempDir(), "prometheus.yaml")
	require.NoError(run("http://127.0.0.1:9650/ext", admin, "prometheus", "--prometheus-file", file))
	data, err := os.ReadFile(file)
	require.NoError(err)
	var parsed PrometheusConfig
	require.NoError(yaml.Unmarshal(data, &parsed))
	require.Equal("purpledex", parsed.ScrapeConfigs[0].JobName)

	url := DashboardURL("http://localhost:9090", []string{"a", "b"})
	require.True(strings.HasPrefix(url, "http://localhost:9090/graph?g0.expr=a"))
	require.Contains(url, "&g1.expr=b")
}
