// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/neilotoole/errgroup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/ledger"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/state"
	"github.com/purpledex/purpledex/storage"
	"github.com/purpledex/purpledex/trace"
)

var (
	admin     = account(1)
	collector = account(2)
	alice     = account(3)
	bob       = account(4)

	tokenA = asset(10)
	tokenB = asset(11)
	tokenC = asset(12)
)

func account(b byte) codec.Address {
	return codec.CreateAddress(consts.AccountID, ids.ID{b})
}

func asset(b byte) codec.Address {
	return codec.CreateAddress(consts.AssetID, ids.ID{b})
}

func newTestExchange(t *testing.T, l ledger.Ledger) (*Exchange, state.Database) {
	db := state.NewMemoryDatabase()
	e, err := New(admin, db, l, logging.NoLog{}, trace.Noop(), prometheus.NewRegistry())
	require.NoError(t, err)
	return e, db
}

// setup returns an initialized exchange with a (tokenA, tokenB) pool and
// funds for alice and bob.
func setup(t *testing.T, protocolFeePercentage uint8) (*Exchange, codec.Address) {
	require := require.New(t)
	ctx := context.Background()

	e, _ := newTestExchange(t, ledger.NewStateLedger())
	_, err := e.Initialize(ctx, admin, 3, 1000, protocolFeePercentage, collector)
	require.NoError(err)
	p, err := e.CreatePool(ctx, tokenA, tokenB)
	require.NoError(err)
	for _, who := range []codec.Address{alice, bob} {
		for _, tok := range []codec.Address{tokenA, tokenB} {
			require.NoError(e.Mint(ctx, admin, who, tok, 10_000_000))
		}
	}
	return e, p.Address()
}

func requireBalance(t *testing.T, e *Exchange, who codec.Address, asset codec.Address, expected uint64) {
	bal, err := e.Balance(context.Background(), who, asset)
	require.NoError(t, err)
	require.Equal(t, expected, bal)
}

func TestInitialize(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, _ := newTestExchange(t, ledger.NewStateLedger())

	_, err := e.Registry(ctx)
	require.ErrorIs(err, storage.ErrRegistryNotInitialized)

	_, err = e.Initialize(ctx, alice, 3, 1000, 20, collector)
	require.ErrorIs(err, ErrUnauthorized)
	require.ErrorIs(err, consts.ErrAuthorization)

	for _, fees := range []pricing.FeeSchedule{{0, 1000, 20}, {1000, 1000, 20}, {3, 1000, 101}} {
		_, err = e.Initialize(ctx, admin, fees.Numerator, fees.Denominator, fees.ProtocolPercentage, collector)
		require.ErrorIs(err, consts.ErrConfiguration)
	}

	r, err := e.Initialize(ctx, admin, 3, 1000, 20, collector)
	require.NoError(err)
	require.Equal(admin, r.Admin)
	require.Zero(r.PoolsCount)

	_, err = e.CreatePool(ctx, tokenA, tokenB)
	require.NoError(err)

	// Re-initialization overwrites the fee schedule and resets the counter.
	_, err = e.Initialize(ctx, admin, 5, 1000, 0, alice)
	require.NoError(err)
	r, err = e.Registry(ctx)
	require.NoError(err)
	require.Equal(uint64(5), r.FeeNumerator)
	require.Equal(alice, r.FeeCollector)
	require.Zero(r.PoolsCount)

	// Existing pools keep their frozen fees and stay listed.
	pools, err := e.Pools(ctx, 0, 10)
	require.NoError(err)
	require.Len(pools, 1)
	require.Equal(uint64(3), pools[0].FeeNumerator)
}

func TestCreatePool(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, _ := newTestExchange(t, ledger.NewStateLedger())

	_, err := e.CreatePool(ctx, tokenA, tokenB)
	require.ErrorIs(err, storage.ErrRegistryNotInitialized)
	require.ErrorIs(err, consts.ErrConfiguration)

	_, err = e.Initialize(ctx, admin, 3, 1000, 20, collector)
	require.NoError(err)

	_, err = e.CreatePool(ctx, tokenA, tokenA)
	require.ErrorIs(err, ErrIdenticalTokens)

	p, err := e.CreatePool(ctx, tokenA, tokenB)
	require.NoError(err)
	require.Equal(uint64(3), p.FeeNumerator)
	require.Equal(uint64(1000), p.FeeDenominator)
	require.Equal(uint8(20), p.ProtocolFeePercentage)
	require.Zero(p.TotalLiquidity)

	_, err = e.CreatePool(ctx, tokenA, tokenB)
	require.ErrorIs(err, ErrPoolExists)

	// The reversed pair is a distinct pool.
	reversed, err := e.CreatePool(ctx, tokenB, tokenA)
	require.NoError(err)
	require.NotEqual(p.Address(), reversed.Address())

	r, err := e.Registry(ctx)
	require.NoError(err)
	require.Equal(uint64(2), r.PoolsCount)

	pools, err := e.Pools(ctx, 0, 10)
	require.NoError(err)
	require.Len(pools, 2)
	require.Equal(p.Address(), pools[0].Address)
	require.Equal(reversed.Address(), pools[1].Address)
	require.Zero(pools[0].ReserveA)

	pools, err = e.Pools(ctx, 1, 10)
	require.NoError(err)
	require.Len(pools, 1)

	info, err := e.PoolByTokens(ctx, tokenB, tokenA)
	require.NoError(err)
	require.Equal(reversed.Address(), info.Address)
	require.Equal(reversed.Authority(), info.Authority)
}

func TestDepositLiquidity(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 20)

	_, err := e.DepositLiquidity(ctx, alice, pool, 0, 400)
	require.ErrorIs(err, consts.ErrLiquidity)

	minted, err := e.DepositLiquidity(ctx, alice, pool, 100, 400)
	require.NoError(err)
	require.Equal(uint64(200), minted)

	info, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(200), info.TotalLiquidity)
	require.Equal(uint64(100), info.ReserveA)
	require.Equal(uint64(400), info.ReserveB)
	requireBalance(t, e, alice, info.LPAsset, 200)
	requireBalance(t, e, alice, tokenA, 10_000_000-100)

	// Proportional deposit credits the smaller side; the excess is donated.
	minted, err = e.DepositLiquidity(ctx, bob, pool, 50, 1_000)
	require.NoError(err)
	require.Equal(uint64(100), minted)
	requireBalance(t, e, bob, tokenB, 10_000_000-1_000)

	supply, err := e.Supply(ctx, info.LPAsset)
	require.NoError(err)
	require.Equal(uint64(300), supply)

	// Depositing more than the caller holds fails without side effects.
	_, err = e.DepositLiquidity(ctx, alice, pool, 20_000_000, 80_000_000)
	require.ErrorIs(err, ledger.ErrInsufficientBalance)
	requireBalance(t, e, alice, info.LPAsset, 200)
	require.NoError(e.CheckInvariants(ctx))
}

func TestWithdrawLiquidity(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 20)

	minted, err := e.DepositLiquidity(ctx, alice, pool, 1_000, 4_000)
	require.NoError(err)
	require.Equal(uint64(2_000), minted)
	_, err = e.DepositLiquidity(ctx, bob, pool, 100, 400)
	require.NoError(err)

	_, _, err = e.WithdrawLiquidity(ctx, bob, pool, 201)
	require.ErrorIs(err, ErrInsufficientShares)
	require.ErrorIs(err, consts.ErrLiquidity)
	info, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(2_200), info.TotalLiquidity)

	// Rounding leaves the remainder with the other providers.
	a, b, err := e.WithdrawLiquidity(ctx, bob, pool, 200)
	require.NoError(err)
	require.Equal(uint64(99), a)
	require.Equal(uint64(399), b)
	requireBalance(t, e, bob, info.LPAsset, 0)

	a, b, err = e.WithdrawLiquidity(ctx, alice, pool, 2_000)
	require.NoError(err)
	require.Equal(uint64(1_001), a)
	require.Equal(uint64(4_001), b)

	info, err = e.Pool(ctx, pool)
	require.NoError(err)
	require.Zero(info.TotalLiquidity)
	require.Zero(info.ReserveA)
	require.Zero(info.ReserveB)
	require.NoError(e.CheckInvariants(ctx))
}

func TestSwap(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 50)

	_, err := e.Swap(ctx, bob, pool, 1_000, 0, tokenA, tokenB)
	require.ErrorIs(err, pricing.ErrReservesZero)

	_, err = e.DepositLiquidity(ctx, alice, pool, 100_000, 100_000)
	require.NoError(err)

	_, err = e.Swap(ctx, bob, pool, 1_000, 988, tokenA, tokenB)
	require.ErrorIs(err, pricing.ErrSlippageExceeded)
	require.ErrorIs(err, consts.ErrSlippage)
	requireBalance(t, e, bob, tokenA, 10_000_000)
	info, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(100_000), info.ReserveA)
	require.Zero(info.ProtocolFeesTokenA)

	res, err := e.Swap(ctx, bob, pool, 1_000, 987, tokenA, tokenB)
	require.NoError(err)
	require.Equal(uint64(3), res.TotalFee)
	require.Equal(uint64(1), res.ProtocolFee)
	require.Equal(uint64(997), res.InputNet)
	require.Equal(uint64(987), res.Output)
	requireBalance(t, e, bob, tokenA, 10_000_000-1_000)
	requireBalance(t, e, bob, tokenB, 10_000_000+987)

	info, err = e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(101_000), info.ReserveA)
	require.Equal(uint64(99_013), info.ReserveB)
	require.Equal(uint64(1), info.ProtocolFeesTokenA)
	require.Zero(info.ProtocolFeesTokenB)

	// Fees accrue on the input side.
	res, err = e.Swap(ctx, bob, pool, 10_000, 0, tokenB, tokenA)
	require.NoError(err)
	require.Equal(uint64(30), res.TotalFee)
	require.Equal(uint64(15), res.ProtocolFee)
	info, err = e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(15), info.ProtocolFeesTokenB)

	stats, err := e.Stats(ctx)
	require.NoError(err)
	require.Equal(uint64(2), stats.Swaps)
	require.Equal(uint64(1), stats.Pools)
	require.NoError(e.CheckInvariants(ctx))
}

func TestSwapAssetMismatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 20)

	_, err := e.DepositLiquidity(ctx, alice, pool, 100_000, 100_000)
	require.NoError(err)

	for _, pair := range [][2]codec.Address{{tokenA, tokenA}, {tokenA, tokenC}, {tokenC, tokenB}} {
		_, err = e.Swap(ctx, bob, pool, 1_000, 0, pair[0], pair[1])
		require.ErrorIs(err, ErrAssetMismatch)
		_, err = e.Quote(ctx, pool, 1_000, pair[0], pair[1])
		require.ErrorIs(err, ErrAssetMismatch)
	}

	_, err = e.Swap(ctx, bob, account(99), 1_000, 0, tokenA, tokenB)
	require.ErrorIs(err, storage.ErrPoolNotFound)
}

func TestQuote(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 20)

	_, err := e.DepositLiquidity(ctx, alice, pool, 100_000, 100_000)
	require.NoError(err)

	q, err := e.Quote(ctx, pool, 1_000, tokenA, tokenB)
	require.NoError(err)
	require.Equal(uint64(987), q.Output)
	require.Equal(uint64(130), q.PriceImpactBps)

	res, err := e.Swap(ctx, bob, pool, 1_000, q.Output, tokenA, tokenB)
	require.NoError(err)
	require.Equal(q.SwapResult, *res)
}

func TestCollectFees(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 50)

	_, err := e.DepositLiquidity(ctx, alice, pool, 1_000_000, 1_000_000)
	require.NoError(err)
	_, err = e.Swap(ctx, bob, pool, 100_000, 0, tokenA, tokenB)
	require.NoError(err)
	_, err = e.Swap(ctx, bob, pool, 10_000, 0, tokenB, tokenA)
	require.NoError(err)

	_, _, err = e.CollectFees(ctx, alice, pool)
	require.ErrorIs(err, ErrUnauthorized)

	info, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(150), info.ProtocolFeesTokenA)
	require.Equal(uint64(15), info.ProtocolFeesTokenB)

	feeA, feeB, err := e.CollectFees(ctx, admin, pool)
	require.NoError(err)
	require.Equal(uint64(150), feeA)
	require.Equal(uint64(15), feeB)
	requireBalance(t, e, collector, tokenA, 150)
	requireBalance(t, e, collector, tokenB, 15)

	after, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.Zero(after.ProtocolFeesTokenA)
	require.Zero(after.ProtocolFeesTokenB)
	require.Equal(info.ReserveA-150, after.ReserveA)
	require.Equal(info.ReserveB-15, after.ReserveB)
	require.Equal(info.TotalLiquidity, after.TotalLiquidity)

	feeA, feeB, err = e.CollectFees(ctx, admin, pool)
	require.NoError(err)
	require.Zero(feeA)
	require.Zero(feeB)
	requireBalance(t, e, collector, tokenA, 150)
	require.NoError(e.CheckInvariants(ctx))
}

func TestFullWithdrawalPaysProtocolFees(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 50)

	minted, err := e.DepositLiquidity(ctx, alice, pool, 1_000_000, 1_000_000)
	require.NoError(err)
	_, err = e.Swap(ctx, bob, pool, 100_000, 0, tokenA, tokenB)
	require.NoError(err)

	info, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(150), info.ProtocolFeesTokenA)

	a, b, err := e.WithdrawLiquidity(ctx, alice, pool, minted)
	require.NoError(err)
	require.Equal(info.ReserveA, a)
	require.Equal(info.ReserveB, b)

	info, err = e.Pool(ctx, pool)
	require.NoError(err)
	require.Zero(info.ReserveA)
	require.Zero(info.ProtocolFeesTokenA)
	require.Zero(info.ProtocolFeesTokenB)
	require.NoError(e.CheckInvariants(ctx))

	feeA, feeB, err := e.CollectFees(ctx, admin, pool)
	require.NoError(err)
	require.Zero(feeA)
	require.Zero(feeB)
}

func TestPartialWithdrawalLeavesProtocolFees(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 100)

	minted, err := e.DepositLiquidity(ctx, alice, pool, 1_000, 1_000)
	require.NoError(err)
	require.Equal(uint64(1_000), minted)

	// fee 3000, all of it protocol; out = 1000 * 997000 / 998000
	res, err := e.Swap(ctx, bob, pool, 1_000_000, 0, tokenA, tokenB)
	require.NoError(err)
	require.Equal(uint64(3_000), res.ProtocolFee)
	require.Equal(uint64(998), res.Output)

	// Priced against (998000, 2), not the vault balances (1001000, 2).
	a, b, err := e.WithdrawLiquidity(ctx, alice, pool, minted-1)
	require.NoError(err)
	require.Equal(uint64(997_002), a)
	require.Equal(uint64(1), b)

	info, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(3_998), info.ReserveA)
	require.Equal(uint64(1), info.ReserveB)
	require.Equal(uint64(3_000), info.ProtocolFeesTokenA)
	require.NoError(e.CheckInvariants(ctx))

	feeA, feeB, err := e.CollectFees(ctx, admin, pool)
	require.NoError(err)
	require.Equal(uint64(3_000), feeA)
	require.Zero(feeB)
	requireBalance(t, e, collector, tokenA, 3_000)
	require.NoError(e.CheckInvariants(ctx))

	a, b, err = e.WithdrawLiquidity(ctx, alice, pool, 1)
	require.NoError(err)
	require.Equal(uint64(998), a)
	require.Equal(uint64(1), b)
	info, err = e.Pool(ctx, pool)
	require.NoError(err)
	require.Zero(info.ReserveA)
	require.Zero(info.ReserveB)
	require.NoError(e.CheckInvariants(ctx))
}

func TestMint(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 20)

	require.ErrorIs(e.Mint(ctx, alice, alice, tokenA, 1), ErrUnauthorized)
	require.ErrorIs(e.Mint(ctx, admin, alice, tokenA, 0), ErrZeroAmount)

	info, err := e.Pool(ctx, pool)
	require.NoError(err)
	require.ErrorIs(e.Mint(ctx, admin, alice, info.LPAsset, 1), ErrNotMintable)

	require.NoError(e.Mint(ctx, admin, alice, tokenC, 5))
	requireBalance(t, e, alice, tokenC, 5)
}

func TestLedgerFailureRollsBack(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	errCredit := errors.New("credit failed")
	stateLedger := ledger.NewStateLedger()

	l := ledger.NewMockLedger(ctrl)
	l.EXPECT().BalanceKeys(gomock.Any(), gomock.Any()).DoAndReturn(stateLedger.BalanceKeys).AnyTimes()
	l.EXPECT().SupplyKeys(gomock.Any()).DoAndReturn(stateLedger.SupplyKeys).AnyTimes()
	l.EXPECT().Balance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(0), nil).AnyTimes()
	l.EXPECT().Debit(gomock.Any(), gomock.Any(), alice, tokenA, uint64(100)).Return(nil)
	l.EXPECT().Credit(gomock.Any(), gomock.Any(), gomock.Any(), tokenA, uint64(100)).Return(errCredit)

	e, db := newTestExchange(t, l)
	_, err := e.Initialize(ctx, admin, 3, 1000, 20, collector)
	require.NoError(err)
	p, err := e.CreatePool(ctx, tokenA, tokenB)
	require.NoError(err)

	_, err = e.DepositLiquidity(ctx, alice, p.Address(), 100, 400)
	require.ErrorIs(err, errCredit)

	stored, err := storage.GetPool(ctx, db, p.Address())
	require.NoError(err)
	require.Zero(stored.TotalLiquidity)

	stats, err := e.Stats(ctx)
	require.NoError(err)
	require.Equal(uint64(1), stats.Failures)
}

func TestConcurrentOperations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e, pool := setup(t, 30)

	other, err := e.CreatePool(ctx, tokenB, tokenA)
	require.NoError(err)
	for _, p := range []codec.Address{pool, other.Address()} {
		_, err := e.DepositLiquidity(ctx, alice, p, 1_000_000, 1_000_000)
		require.NoError(err)
	}

	const rounds = 50
	g, gctx := errgroup.WithContextN(ctx, 4, 8)
	for _, p := range []codec.Address{pool, other.Address()} {
		p := p
		g.Go(func() error {
			for i := 0; i < rounds; i++ {
				if _, err := e.Swap(gctx, bob, p, 1_000, 0, tokenA, tokenB); err != nil {
					return err
				}
				if _, err := e.Swap(gctx, bob, p, 1_000, 0, tokenB, tokenA); err != nil {
					return err
				}
			}
			return nil
		})
		g.Go(func() error {
			for i := 0; i < rounds; i++ {
				minted, err := e.DepositLiquidity(gctx, alice, p, 1_000, 1_000)
				if err != nil {
					return err
				}
				if _, _, err := e.WithdrawLiquidity(gctx, alice, p, minted); err != nil {
					return err
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := 0; i < rounds; i++ {
			if _, _, err := e.CollectFees(gctx, admin, pool); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(g.Wait())
	require.NoError(e.CheckInvariants(ctx))

	// Every unit of tokenA is accounted for.
	var total uint64
	for _, who := range []codec.Address{alice, bob, collector} {
		bal, err := e.Balance(ctx, who, tokenA)
		require.NoError(err)
		total += bal
	}
	for _, p := range []codec.Address{pool, other.Address()} {
		info, err := e.Pool(ctx, p)
		require.NoError(err)
		if info.TokenA == tokenA {
			total += info.ReserveA
		} else {
			total += info.ReserveB
		}
	}
	supply, err := e.Supply(ctx, tokenA)
	require.NoError(err)
	require.Equal(supply, total)

	stats, err := e.Stats(ctx)
	require.NoError(err)
	require.Equal(uint64(4*rounds), stats.Swaps)
	require.Zero(stats.Failures)
}

type recorder struct {
	events []*Event
}

func (r *recorder) OnEvent(ev *Event) {
	r.events = append(r.events, ev)
}

func TestEvents(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	e, _ := newTestExchange(t, ledger.NewStateLedger())
	rec := &recorder{}
	e.AddListener(rec)

	_, err := e.Initialize(ctx, admin, 3, 1000, 50, collector)
	require.NoError(err)
	p, err := e.CreatePool(ctx, tokenA, tokenB)
	require.NoError(err)
	pool := p.Address()
	require.NoError(e.Mint(ctx, admin, alice, tokenA, 1_000_000))
	require.NoError(e.Mint(ctx, admin, alice, tokenB, 1_000_000))

	minted, err := e.DepositLiquidity(ctx, alice, pool, 100_000, 100_000)
	require.NoError(err)
	_, err = e.Swap(ctx, alice, pool, 1_000, 0, tokenA, tokenB)
	require.NoError(err)

	// Failed operations emit nothing.
	_, err = e.Swap(ctx, alice, pool, 1_000, 1_000, tokenA, tokenB)
	require.ErrorIs(err, pricing.ErrSlippageExceeded)

	_, _, err = e.CollectFees(ctx, admin, pool)
	require.NoError(err)
	_, _, err = e.WithdrawLiquidity(ctx, alice, pool, minted)
	require.NoError(err)

	types := make([]EventType, 0, len(rec.events))
	for _, ev := range rec.events {
		require.Equal(pool, ev.Pool)
		types = append(types, ev.Type)
	}
	require.Equal([]EventType{
		PoolCreated,
		LiquidityDeposited,
		SwapExecuted,
		FeesCollected,
		LiquidityWithdrawn,
	}, types)

	require.Equal(tokenA, rec.events[0].TokenA)
	require.Equal(minted, rec.events[1].Shares)
	require.Equal(uint64(987), rec.events[2].Output)
	require.Equal(collector, rec.events[3].Account)
	require.Equal(uint64(1), rec.events[3].AmountA)
}
