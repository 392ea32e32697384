// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/storage"
)

const waitSleep = 500 * time.Millisecond

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

// NewJSONRPCClient talks to the service mounted under uri, for example
// http://127.0.0.1:9650/ext.
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args any, reply any) error {
	return cli.requester.SendRequest(ctx, Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", nil, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) Version(ctx context.Context) (string, string, error) {
	resp := new(VersionReply)
	err := cli.send(ctx, "version", nil, resp)
	return resp.Name, resp.Version, err
}

// WaitForHealthy polls ping until the service answers or ctx is done.
func (cli *JSONRPCClient) WaitForHealthy(ctx context.Context) error {
	for {
		if ok, err := cli.Ping(ctx); err == nil && ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitSleep):
		}
	}
}

func (cli *JSONRPCClient) Initialize(
	ctx context.Context,
	caller codec.Address,
	feeNumerator uint64,
	feeDenominator uint64,
	protocolFeePercentage uint8,
	feeCollector codec.Address,
) (*storage.Registry, error) {
	resp := new(RegistryReply)
	err := cli.send(ctx, "initialize", &InitializeArgs{
		Caller:                caller,
		FeeNumerator:          feeNumerator,
		FeeDenominator:        feeDenominator,
		ProtocolFeePercentage: protocolFeePercentage,
		FeeCollector:          feeCollector,
	}, resp)
	return resp.Registry, err
}

func (cli *JSONRPCClient) Registry(ctx context.Context) (*storage.Registry, error) {
	resp := new(RegistryReply)
	err := cli.send(ctx, "registry", nil, resp)
	return resp.Registry, err
}

func (cli *JSONRPCClient) CreatePool(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*exchange.PoolInfo, error) {
	resp := new(PoolReply)
	err := cli.send(ctx, "createPool", &CreatePoolArgs{
		TokenA: tokenA,
		TokenB: tokenB,
	}, resp)
	return resp.Pool, err
}

func (cli *JSONRPCClient) Pool(ctx context.Context, addr codec.Address) (*exchange.PoolInfo, error) {
	resp := new(PoolReply)
	err := cli.send(ctx, "pool", &PoolArgs{Address: addr}, resp)
	return resp.Pool, err
}

func (cli *JSONRPCClient) PoolByTokens(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*exchange.PoolInfo, error) {
	resp := new(PoolReply)
	err := cli.send(ctx, "pool", &PoolArgs{
		TokenA: tokenA,
		TokenB: tokenB,
	}, resp)
	return resp.Pool, err
}

func (cli *JSONRPCClient) Pools(ctx context.Context, offset uint64, limit uint64) ([]*exchange.PoolInfo, error) {
	resp := new(PoolsReply)
	err := cli.send(ctx, "pools", &PoolsArgs{
		Offset: offset,
		Limit:  limit,
	}, resp)
	return resp.Pools, err
}

func (cli *JSONRPCClient) DepositLiquidity(
	ctx context.Context,
	caller codec.Address,
	pool codec.Address,
	amountA uint64,
	amountB uint64,
) (uint64, error) {
	resp := new(DepositLiquidityReply)
	err := cli.send(ctx, "depositLiquidity", &DepositLiquidityArgs{
		Caller:  caller,
		Pool:    pool,
		AmountA: amountA,
		AmountB: amountB,
	}, resp)
	return resp.Minted, err
}

func (cli *JSONRPCClient) WithdrawLiquidity(
	ctx context.Context,
	caller codec.Address,
	pool codec.Address,
	lpAmount uint64,
) (uint64, uint64, error) {
	resp := new(AmountsReply)
	err := cli.send(ctx, "withdrawLiquidity", &WithdrawLiquidityArgs{
		Caller:   caller,
		Pool:     pool,
		LPAmount: lpAmount,
	}, resp)
	return resp.AmountA, resp.AmountB, err
}

func (cli *JSONRPCClient) Swap(
	ctx context.Context,
	caller codec.Address,
	pool codec.Address,
	input uint64,
	minimumOutput uint64,
	source codec.Address,
	destination codec.Address,
) (*pricing.SwapResult, error) {
	resp := new(SwapReply)
	err := cli.send(ctx, "swap", &SwapArgs{
		Caller:        caller,
		Pool:          pool,
		Input:         input,
		MinimumOutput: minimumOutput,
		Source:        source,
		Destination:   destination,
	}, resp)
	return resp.Result, err
}

func (cli *JSONRPCClient) Quote(
	ctx context.Context,
	pool codec.Address,
	input uint64,
	source codec.Address,
	destination codec.Address,
) (*pricing.Quote, error) {
	resp := new(QuoteReply)
	err := cli.send(ctx, "quote", &QuoteArgs{
		Pool:        pool,
		Input:       input,
		Source:      source,
		Destination: destination,
	}, resp)
	return resp.Quote, err
}

func (cli *JSONRPCClient) CollectFees(ctx context.Context, caller codec.Address, pool codec.Address) (uint64, uint64, error) {
	resp := new(AmountsReply)
	err := cli.send(ctx, "collectFees", &CollectFeesArgs{
		Caller: caller,
		Pool:   pool,
	}, resp)
	return resp.AmountA, resp.AmountB, err
}

// Mint returns the account's balance after minting.
func (cli *JSONRPCClient) Mint(
	ctx context.Context,
	caller codec.Address,
	account codec.Address,
	asset codec.Address,
	amount uint64,
) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "mint", &MintArgs{
		Caller:  caller,
		Account: account,
		Asset:   asset,
		Amount:  amount,
	}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, account codec.Address, asset codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "balance", &BalanceArgs{
		Account: account,
		Asset:   asset,
	}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Supply(ctx context.Context, asset codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "supply", &SupplyArgs{Asset: asset}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Stats(ctx context.Context) (*exchange.Stats, error) {
	resp := new(StatsReply)
	err := cli.send(ctx, "stats", nil, resp)
	return resp.Stats, err
}
