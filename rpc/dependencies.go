// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/storage"
)

// Exchange is the engine surface served over JSON-RPC.
type Exchange interface {
	Initialize(ctx context.Context, caller codec.Address, feeNumerator uint64, feeDenominator uint64, protocolFeePercentage uint8, feeCollector codec.Address) (*storage.Registry, error)
	Registry(ctx context.Context) (*storage.Registry, error)
	CreatePool(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*storage.Pool, error)
	Pool(ctx context.Context, addr codec.Address) (*exchange.PoolInfo, error)
	PoolByTokens(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*exchange.PoolInfo, error)
	Pools(ctx context.Context, offset uint64, limit uint64) ([]*exchange.PoolInfo, error)
	DepositLiquidity(ctx context.Context, caller codec.Address, addr codec.Address, amountA uint64, amountB uint64) (uint64, error)
	WithdrawLiquidity(ctx context.Context, caller codec.Address, addr codec.Address, lpAmount uint64) (uint64, uint64, error)
	Swap(ctx context.Context, caller codec.Address, addr codec.Address, input uint64, minimumOutput uint64, source codec.Address, destination codec.Address) (*pricing.SwapResult, error)
	Quote(ctx context.Context, addr codec.Address, input uint64, source codec.Address, destination codec.Address) (*pricing.Quote, error)
	CollectFees(ctx context.Context, caller codec.Address, addr codec.Address) (uint64, uint64, error)
	Mint(ctx context.Context, caller codec.Address, account codec.Address, asset codec.Address, amount uint64) error
	Balance(ctx context.Context, account codec.Address, asset codec.Address) (uint64, error)
	Supply(ctx context.Context, asset codec.Address) (uint64, error)
	Stats(ctx context.Context) (*exchange.Stats, error)
}

var _ Exchange = (*exchange.Exchange)(nil)
