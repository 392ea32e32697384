// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"github.com/purpledex/purpledex/storage"
)

// Stats summarizes activity since the exchange was started.
type Stats struct {
	Pools          uint64 `json:"pools"`
	Transactions   uint64 `json:"transactions"`
	Failures       uint64 `json:"failures"`
	Swaps          uint64 `json:"swaps"`
	Deposits       uint64 `json:"deposits"`
	Withdrawals    uint64 `json:"withdrawals"`
	FeeCollections uint64 `json:"feeCollections"`
}

func (e *Exchange) Stats(ctx context.Context) (*Stats, error) {
	pools, err := storage.GetPoolSequence(ctx, e.db)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Pools:          pools,
		Transactions:   e.stats.transactions.Load(),
		Failures:       e.stats.failures.Load(),
		Swaps:          e.stats.swaps.Load(),
		Deposits:       e.stats.deposits.Load(),
		Withdrawals:    e.stats.withdrawals.Load(),
		FeeCollections: e.stats.collections.Load(),
	}, nil
}
