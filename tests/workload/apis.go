// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workload

import (
	"context"

	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/rpc"
)

func Ping(ctx context.Context, require *require.Assertions, uris []string) {
	for _, uri := range uris {
		client := rpc.NewJSONRPCClient(uri)
		ok, err := client.Ping(ctx)
		require.NoError(err)
		require.True(ok)
	}
}

func Version(ctx context.Context, require *require.Assertions, uris []string) {
	for _, uri := range uris {
		client := rpc.NewJSONRPCClient(uri)
		name, version, err := client.Version(ctx)
		require.NoError(err)
		require.Equal(consts.Name, name)
		require.Equal(consts.Version.String(), version)
	}
}

// Initialize writes the registry and checks every node observes it.
func Initialize(ctx context.Context, require *require.Assertions, uris []string, admin codec.Address, collector codec.Address) {
	client := rpc.NewJSONRPCClient(uris[0])
	r, err := client.Initialize(ctx, admin, DefaultFeeNumerator, DefaultFeeDenominator, DefaultProtocolFee, collector)
	require.NoError(err)

	for _, uri := range uris {
		observed, err := rpc.NewJSONRPCClient(uri).Registry(ctx)
		require.NoError(err)
		require.Equal(r, observed)
	}
}
