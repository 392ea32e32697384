// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/storage"
)

// JSONRPCServer exposes the exchange under the [Name] namespace. Callers
// identify themselves with a Caller field; authenticating that identity is
// left to whatever admits requests in front of this service.
type JSONRPCServer struct {
	ex     Exchange
	log    logging.Logger
	tracer trace.Tracer
}

func NewJSONRPCServer(ex Exchange, log logging.Logger, tracer trace.Tracer) *JSONRPCServer {
	return &JSONRPCServer{
		ex:     ex,
		log:    log,
		tracer: tracer,
	}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type VersionReply struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (*JSONRPCServer) Version(_ *http.Request, _ *struct{}, reply *VersionReply) error {
	reply.Name = consts.Name
	reply.Version = consts.Version.String()
	return nil
}

type InitializeArgs struct {
	Caller                codec.Address `json:"caller"`
	FeeNumerator          uint64        `json:"feeNumerator"`
	FeeDenominator        uint64        `json:"feeDenominator"`
	ProtocolFeePercentage uint8         `json:"protocolFeePercentage"`
	FeeCollector          codec.Address `json:"feeCollector"`
}

type RegistryReply struct {
	Registry *storage.Registry `json:"registry"`
}

func (j *JSONRPCServer) Initialize(req *http.Request, args *InitializeArgs, reply *RegistryReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Initialize")
	defer span.End()

	r, err := j.ex.Initialize(ctx, args.Caller, args.FeeNumerator, args.FeeDenominator, args.ProtocolFeePercentage, args.FeeCollector)
	if err != nil {
		return err
	}
	reply.Registry = r
	return nil
}

func (j *JSONRPCServer) Registry(req *http.Request, _ *struct{}, reply *RegistryReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Registry")
	defer span.End()

	r, err := j.ex.Registry(ctx)
	if err != nil {
		return err
	}
	reply.Registry = r
	return nil
}

type CreatePoolArgs struct {
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`
}

type PoolReply struct {
	Pool *exchange.PoolInfo `json:"pool"`
}

func (j *JSONRPCServer) CreatePool(req *http.Request, args *CreatePoolArgs, reply *PoolReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.CreatePool")
	defer span.End()

	p, err := j.ex.CreatePool(ctx, args.TokenA, args.TokenB)
	if err != nil {
		return err
	}
	info, err := j.ex.Pool(ctx, p.Address())
	if err != nil {
		return err
	}
	reply.Pool = info
	return nil
}

// PoolArgs selects a pool by address or, when Address is empty, by its
// ordered token pair.
type PoolArgs struct {
	Address codec.Address `json:"address"`
	TokenA  codec.Address `json:"tokenA"`
	TokenB  codec.Address `json:"tokenB"`
}

func (j *JSONRPCServer) Pool(req *http.Request, args *PoolArgs, reply *PoolReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Pool")
	defer span.End()

	var (
		info *exchange.PoolInfo
		err  error
	)
	if args.Address.Empty() {
		info, err = j.ex.PoolByTokens(ctx, args.TokenA, args.TokenB)
	} else {
		info, err = j.ex.Pool(ctx, args.Address)
	}
	if err != nil {
		return err
	}
	reply.Pool = info
	return nil
}

type PoolsArgs struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type PoolsReply struct {
	Pools []*exchange.PoolInfo `json:"pools"`
}

// Pools lists pools in creation order. A zero or oversized limit is
// replaced by [MaxPools].
func (j *JSONRPCServer) Pools(req *http.Request, args *PoolsArgs, reply *PoolsReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Pools")
	defer span.End()

	limit := args.Limit
	if limit == 0 || limit > MaxPools {
		limit = MaxPools
	}
	pools, err := j.ex.Pools(ctx, args.Offset, limit)
	if err != nil {
		return err
	}
	reply.Pools = pools
	return nil
}

type DepositLiquidityArgs struct {
	Caller  codec.Address `json:"caller"`
	Pool    codec.Address `json:"pool"`
	AmountA uint64        `json:"amountA"`
	AmountB uint64        `json:"amountB"`
}

type DepositLiquidityReply struct {
	Minted uint64 `json:"minted"`
}

func (j *JSONRPCServer) DepositLiquidity(req *http.Request, args *DepositLiquidityArgs, reply *DepositLiquidityReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.DepositLiquidity")
	defer span.End()

	minted, err := j.ex.DepositLiquidity(ctx, args.Caller, args.Pool, args.AmountA, args.AmountB)
	if err != nil {
		return err
	}
	reply.Minted = minted
	return nil
}

type WithdrawLiquidityArgs struct {
	Caller   codec.Address `json:"caller"`
	Pool     codec.Address `json:"pool"`
	LPAmount uint64        `json:"lpAmount"`
}

type AmountsReply struct {
	AmountA uint64 `json:"amountA"`
	AmountB uint64 `json:"amountB"`
}

func (j *JSONRPCServer) WithdrawLiquidity(req *http.Request, args *WithdrawLiquidityArgs, reply *AmountsReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.WithdrawLiquidity")
	defer span.End()

	amountA, amountB, err := j.ex.WithdrawLiquidity(ctx, args.Caller, args.Pool, args.LPAmount)
	if err != nil {
		return err
	}
	reply.AmountA, reply.AmountB = amountA, amountB
	return nil
}

type SwapArgs struct {
	Caller        codec.Address `json:"caller"`
	Pool          codec.Address `json:"pool"`
	Input         uint64        `json:"input"`
	MinimumOutput uint64        `json:"minimumOutput"`
	Source        codec.Address `json:"source"`
	Destination   codec.Address `json:"destination"`
}

type SwapReply struct {
	Result *pricing.SwapResult `json:"result"`
}

func (j *JSONRPCServer) Swap(req *http.Request, args *SwapArgs, reply *SwapReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Swap")
	defer span.End()

	res, err := j.ex.Swap(ctx, args.Caller, args.Pool, args.Input, args.MinimumOutput, args.Source, args.Destination)
	if err != nil {
		j.log.Debug("swap rejected",
			zap.Stringer("pool", args.Pool),
			zap.Error(err),
		)
		return err
	}
	reply.Result = res
	return nil
}

type QuoteArgs struct {
	Pool        codec.Address `json:"pool"`
	Input       uint64        `json:"input"`
	Source      codec.Address `json:"source"`
	Destination codec.Address `json:"destination"`
}

type QuoteReply struct {
	Quote *pricing.Quote `json:"quote"`
}

func (j *JSONRPCServer) Quote(req *http.Request, args *QuoteArgs, reply *QuoteReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Quote")
	defer span.End()

	q, err := j.ex.Quote(ctx, args.Pool, args.Input, args.Source, args.Destination)
	if err != nil {
		return err
	}
	reply.Quote = q
	return nil
}

type CollectFeesArgs struct {
	Caller codec.Address `json:"caller"`
	Pool   codec.Address `json:"pool"`
}

func (j *JSONRPCServer) CollectFees(req *http.Request, args *CollectFeesArgs, reply *AmountsReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.CollectFees")
	defer span.End()

	amountA, amountB, err := j.ex.CollectFees(ctx, args.Caller, args.Pool)
	if err != nil {
		return err
	}
	reply.AmountA, reply.AmountB = amountA, amountB
	return nil
}

type MintArgs struct {
	Caller  codec.Address `json:"caller"`
	Account codec.Address `json:"account"`
	Asset   codec.Address `json:"asset"`
	Amount  uint64        `json:"amount"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

// Mint credits the faucet amount and replies with the new balance.
func (j *JSONRPCServer) Mint(req *http.Request, args *MintArgs, reply *BalanceReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Mint")
	defer span.End()

	if err := j.ex.Mint(ctx, args.Caller, args.Account, args.Asset, args.Amount); err != nil {
		return err
	}
	bal, err := j.ex.Balance(ctx, args.Account, args.Asset)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

type BalanceArgs struct {
	Account codec.Address `json:"account"`
	Asset   codec.Address `json:"asset"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	bal, err := j.ex.Balance(ctx, args.Account, args.Asset)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

type SupplyArgs struct {
	Asset codec.Address `json:"asset"`
}

func (j *JSONRPCServer) Supply(req *http.Request, args *SupplyArgs, reply *BalanceReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Supply")
	defer span.End()

	supply, err := j.ex.Supply(ctx, args.Asset)
	if err != nil {
		return err
	}
	reply.Amount = supply
	return nil
}

type StatsReply struct {
	Stats *exchange.Stats `json:"stats"`
}

func (j *JSONRPCServer) Stats(req *http.Request, _ *struct{}, reply *StatsReply) error {
	ctx, span := j.tracer.Start(req.Context(), "JSONRPCServer.Stats")
	defer span.End()

	stats, err := j.ex.Stats(ctx)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
