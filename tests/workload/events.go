// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workload

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/rpc"
)

const swapInterval = 100 * time.Millisecond

// StreamSwap swaps until one of its swaps is observed on the event stream.
// The stream only carries events committed after the server registers the
// connection, so the first swaps may go unseen. Unrelated events are skipped.
func (m *Market) StreamSwap(ctx context.Context, require *require.Assertions, uri string) {
	listener, err := rpc.NewWebSocketClient(ctx, uri)
	require.NoError(err)
	defer listener.Close()

	var (
		trader = m.Traders[len(m.Traders)-1]
		p      = m.Pools[0]
		client = rpc.NewJSONRPCClient(uri)

		l       sync.Mutex
		results []*pricing.SwapResult
		swapErr error

		stop = make(chan struct{})
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		t := time.NewTicker(swapInterval)
		defer t.Stop()
		for {
			res, err := client.Swap(ctx, trader, p.Address, minTrade, 1, p.TokenA, p.TokenB)
			l.Lock()
			if err != nil {
				swapErr = err
				l.Unlock()
				return
			}
			results = append(results, res)
			l.Unlock()

			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()

	var ev *exchange.Event
	for {
		ev, err = listener.ListenEvent(ctx)
		require.NoError(err)
		if ev.Type == exchange.SwapExecuted && ev.Account == trader && ev.Pool == p.Address {
			break
		}
	}
	close(stop)
	<-done

	require.NoError(swapErr)
	require.Equal(p.TokenA, ev.Source)
	require.Equal(p.TokenB, ev.Destination)
	require.Equal(uint64(minTrade), ev.Input)
	require.Contains(results, &pricing.SwapResult{
		Input:       ev.Input,
		InputNet:    ev.Input - ev.TotalFee,
		TotalFee:    ev.TotalFee,
		ProtocolFee: ev.ProtocolFee,
		Output:      ev.Output,
	})
}
