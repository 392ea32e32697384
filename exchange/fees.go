// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/ledger"
	"github.com/purpledex/purpledex/state"
	"github.com/purpledex/purpledex/storage"
)

// CollectFees pays a pool's accrued protocol fees to the registry's fee
// collector. Only the registry admin may call it. Both accumulators are
// zeroed before anything is transferred, and an empty accumulator is
// skipped, so collecting twice in a row returns (0, 0) the second time.
func (e *Exchange) CollectFees(ctx context.Context, caller codec.Address, addr codec.Address) (uint64, uint64, error) {
	p, err := storage.GetPool(ctx, e.db, addr)
	if err != nil {
		return 0, 0, err
	}

	// The collector's balance keys depend on the registry, so the registry is
	// locked first and the rest are declared under it.
	keys := state.Keys{string(storage.RegistryKey()): state.Read}
	extend := func(ctx context.Context) (state.Keys, error) {
		r, err := storage.GetRegistry(ctx, e.db)
		if err != nil {
			return nil, err
		}
		extra := state.Keys{string(storage.PoolKey(addr)): state.Read | state.Write}
		extra.Union(e.vaultKeys(p))
		extra.Union(e.ledger.BalanceKeys(r.FeeCollector, p.TokenA))
		extra.Union(e.ledger.BalanceKeys(r.FeeCollector, p.TokenB))
		return extra, nil
	}

	var (
		feeA, feeB uint64
		collector  codec.Address
	)
	err = e.executeExtended(ctx, "CollectFees", keys, extend, func(ctx context.Context, v *state.View) error {
		r, err := storage.GetRegistry(ctx, v)
		if err != nil {
			return err
		}
		if caller != r.Admin {
			return ErrUnauthorized
		}
		collector = r.FeeCollector
		p, err := storage.GetPool(ctx, v, addr)
		if err != nil {
			return err
		}

		feeA, feeB = p.ProtocolFeesTokenA, p.ProtocolFeesTokenB
		p.ProtocolFeesTokenA, p.ProtocolFeesTokenB = 0, 0
		if err := storage.SetPool(ctx, v, p); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, e.ledger, v, p.VaultA, collector, p.TokenA, feeA); err != nil {
			return err
		}
		return ledger.Transfer(ctx, e.ledger, v, p.VaultB, collector, p.TokenB, feeB)
	})
	if err != nil {
		return 0, 0, err
	}
	e.stats.collections.Inc()
	e.metrics.feesCollected.WithLabelValues(p.TokenA.String()).Add(float64(feeA))
	e.metrics.feesCollected.WithLabelValues(p.TokenB.String()).Add(float64(feeB))
	e.log.Info("protocol fees collected",
		zap.Stringer("pool", addr),
		zap.Stringer("collector", collector),
		zap.Uint64("feeA", feeA),
		zap.Uint64("feeB", feeB),
	)
	e.emit(&Event{
		Type:    FeesCollected,
		Pool:    addr,
		Account: collector,
		AmountA: feeA,
		AmountB: feeB,
	})
	return feeA, feeB, nil
}
