// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/ledger"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/state"
	"github.com/purpledex/purpledex/storage"
)

// liquidityKeys declares everything a deposit or withdrawal by caller
// touches: the pool record, both reserves, the caller's balances of both
// tokens and of the LP asset, and the LP supply.
func (e *Exchange) liquidityKeys(caller codec.Address, addr codec.Address, p *storage.Pool) state.Keys {
	keys := state.Keys{string(storage.PoolKey(addr)): state.Read | state.Write}
	keys.Union(e.vaultKeys(p))
	keys.Union(e.ledger.BalanceKeys(caller, p.TokenA))
	keys.Union(e.ledger.BalanceKeys(caller, p.TokenB))
	keys.Union(e.ledger.BalanceKeys(caller, p.LPAsset))
	keys.Union(e.ledger.SupplyKeys(p.LPAsset))
	return keys
}

// DepositLiquidity moves amountA and amountB from caller into the pool and
// mints LP units to caller. The first deposit mints the geometric mean of
// the amounts; later ones mint in proportion to the smaller side, and any
// excess on the other side stays in the pool.
func (e *Exchange) DepositLiquidity(
	ctx context.Context,
	caller codec.Address,
	addr codec.Address,
	amountA uint64,
	amountB uint64,
) (uint64, error) {
	p, err := storage.GetPool(ctx, e.db, addr)
	if err != nil {
		return 0, err
	}

	var minted uint64
	keys := e.liquidityKeys(caller, addr, p)
	err = e.execute(ctx, "DepositLiquidity", keys, func(ctx context.Context, v *state.View) error {
		p, err := storage.GetPool(ctx, v, addr)
		if err != nil {
			return err
		}
		m, err := e.model(ctx, v, p)
		if err != nil {
			return err
		}
		minted, err = m.AddLiquidity(amountA, amountB)
		if err != nil {
			return err
		}
		_, _, p.TotalLiquidity = m.GetState()

		if err := ledger.Transfer(ctx, e.ledger, v, caller, p.VaultA, p.TokenA, amountA); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, e.ledger, v, caller, p.VaultB, p.TokenB, amountB); err != nil {
			return err
		}
		if err := e.ledger.Mint(ctx, v, caller, p.LPAsset, minted); err != nil {
			return err
		}
		return storage.SetPool(ctx, v, p)
	})
	if err != nil {
		return 0, err
	}
	e.stats.deposits.Inc()
	e.log.Info("liquidity deposited",
		zap.Stringer("pool", addr),
		zap.Stringer("provider", caller),
		zap.Uint64("amountA", amountA),
		zap.Uint64("amountB", amountB),
		zap.Uint64("minted", minted),
	)
	e.emit(&Event{
		Type:    LiquidityDeposited,
		Pool:    addr,
		Account: caller,
		AmountA: amountA,
		AmountB: amountB,
		Shares:  minted,
	})
	return minted, nil
}

// WithdrawLiquidity burns lpAmount of caller's LP units and pays out the
// matching share of both claimable reserves, rounded down. Uncollected
// protocol fees stay in the vaults, except when the last units are burned:
// that provider receives the whole vaults and the fee accumulators reset.
func (e *Exchange) WithdrawLiquidity(
	ctx context.Context,
	caller codec.Address,
	addr codec.Address,
	lpAmount uint64,
) (uint64, uint64, error) {
	p, err := storage.GetPool(ctx, e.db, addr)
	if err != nil {
		return 0, 0, err
	}

	var amountA, amountB uint64
	keys := e.liquidityKeys(caller, addr, p)
	err = e.execute(ctx, "WithdrawLiquidity", keys, func(ctx context.Context, v *state.View) error {
		p, err := storage.GetPool(ctx, v, addr)
		if err != nil {
			return err
		}
		shares, err := e.ledger.Balance(ctx, v, caller, p.LPAsset)
		if err != nil {
			return err
		}
		if lpAmount > shares {
			return ErrInsufficientShares
		}
		m, err := e.model(ctx, v, p)
		if err != nil {
			return err
		}
		amountA, amountB, err = m.RemoveLiquidity(lpAmount)
		if err != nil {
			return err
		}
		_, _, p.TotalLiquidity = m.GetState()
		if p.TotalLiquidity == 0 {
			// The last provider sweeps the vaults, accrued protocol fees
			// included.
			if amountA, err = pricing.Add64(amountA, p.ProtocolFeesTokenA); err != nil {
				return err
			}
			if amountB, err = pricing.Add64(amountB, p.ProtocolFeesTokenB); err != nil {
				return err
			}
			p.ProtocolFeesTokenA, p.ProtocolFeesTokenB = 0, 0
		}

		if err := e.ledger.Burn(ctx, v, caller, p.LPAsset, lpAmount); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, e.ledger, v, p.VaultA, caller, p.TokenA, amountA); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, e.ledger, v, p.VaultB, caller, p.TokenB, amountB); err != nil {
			return err
		}
		return storage.SetPool(ctx, v, p)
	})
	if err != nil {
		return 0, 0, err
	}
	e.stats.withdrawals.Inc()
	e.log.Info("liquidity withdrawn",
		zap.Stringer("pool", addr),
		zap.Stringer("provider", caller),
		zap.Uint64("burned", lpAmount),
		zap.Uint64("amountA", amountA),
		zap.Uint64("amountB", amountB),
	)
	e.emit(&Event{
		Type:    LiquidityWithdrawn,
		Pool:    addr,
		Account: caller,
		AmountA: amountA,
		AmountB: amountB,
		Shares:  lpAmount,
	})
	return amountA, amountB, nil
}
