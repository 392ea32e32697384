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

// direction resolves (source, destination) against the pool's pair.
func direction(p *storage.Pool, source codec.Address, destination codec.Address) (bool, error) {
	aToB, ok := p.Side(source)
	if !ok || source == destination {
		return false, ErrAssetMismatch
	}
	if _, ok := p.Side(destination); !ok {
		return false, ErrAssetMismatch
	}
	return aToB, nil
}

// Swap exchanges input units of source for destination. It fails with a
// slippage error, leaving all state untouched, if the output would fall
// below minimumOutput. The protocol's share of the fee is accrued on the
// input side until collected.
func (e *Exchange) Swap(
	ctx context.Context,
	caller codec.Address,
	addr codec.Address,
	input uint64,
	minimumOutput uint64,
	source codec.Address,
	destination codec.Address,
) (*pricing.SwapResult, error) {
	p, err := storage.GetPool(ctx, e.db, addr)
	if err != nil {
		return nil, err
	}
	if _, err := direction(p, source, destination); err != nil {
		return nil, err
	}

	keys := state.Keys{string(storage.PoolKey(addr)): state.Read | state.Write}
	keys.Union(e.vaultKeys(p))
	keys.Union(e.ledger.BalanceKeys(caller, source))
	keys.Union(e.ledger.BalanceKeys(caller, destination))

	var res *pricing.SwapResult
	err = e.execute(ctx, "Swap", keys, func(ctx context.Context, v *state.View) error {
		p, err := storage.GetPool(ctx, v, addr)
		if err != nil {
			return err
		}
		aToB, err := direction(p, source, destination)
		if err != nil {
			return err
		}
		m, err := e.model(ctx, v, p)
		if err != nil {
			return err
		}
		res, err = m.Swap(input, minimumOutput, aToB)
		if err != nil {
			return err
		}

		vaultIn, vaultOut := p.VaultA, p.VaultB
		if aToB {
			p.ProtocolFeesTokenA, err = pricing.Add64(p.ProtocolFeesTokenA, res.ProtocolFee)
		} else {
			vaultIn, vaultOut = p.VaultB, p.VaultA
			p.ProtocolFeesTokenB, err = pricing.Add64(p.ProtocolFeesTokenB, res.ProtocolFee)
		}
		if err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, e.ledger, v, caller, vaultIn, source, res.Input); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, e.ledger, v, vaultOut, caller, destination, res.Output); err != nil {
			return err
		}
		return storage.SetPool(ctx, v, p)
	})
	if err != nil {
		return nil, err
	}
	e.stats.swaps.Inc()
	e.metrics.swapInput.WithLabelValues(source.String()).Add(float64(res.Input))
	e.metrics.swapFees.WithLabelValues(source.String()).Add(float64(res.TotalFee))
	e.log.Info("swap executed",
		zap.Stringer("pool", addr),
		zap.Stringer("trader", caller),
		zap.Stringer("source", source),
		zap.Stringer("destination", destination),
		zap.Uint64("input", res.Input),
		zap.Uint64("output", res.Output),
		zap.Uint64("totalFee", res.TotalFee),
		zap.Uint64("protocolFee", res.ProtocolFee),
	)
	e.emit(&Event{
		Type:        SwapExecuted,
		Pool:        addr,
		Account:     caller,
		Source:      source,
		Destination: destination,
		Input:       res.Input,
		Output:      res.Output,
		TotalFee:    res.TotalFee,
		ProtocolFee: res.ProtocolFee,
	})
	return res, nil
}

// Quote prices a swap of input units of source against the pool's current
// reserves without executing it.
func (e *Exchange) Quote(
	ctx context.Context,
	addr codec.Address,
	input uint64,
	source codec.Address,
	destination codec.Address,
) (*pricing.Quote, error) {
	p, err := storage.GetPool(ctx, e.db, addr)
	if err != nil {
		return nil, err
	}
	keys := state.Keys{string(storage.PoolKey(addr)): state.Read}
	keys.Union(readOnly(e.vaultKeys(p)))

	var q *pricing.Quote
	err = e.query(ctx, "Quote", keys, func(ctx context.Context, v *state.View) error {
		p, err := storage.GetPool(ctx, v, addr)
		if err != nil {
			return err
		}
		aToB, err := direction(p, source, destination)
		if err != nil {
			return err
		}
		m, err := e.model(ctx, v, p)
		if err != nil {
			return err
		}
		q, err = m.Quote(input, aToB)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.log.Debug("swap quoted",
		zap.Stringer("pool", addr),
		zap.Uint64("input", input),
		zap.Uint64("output", q.Output),
		zap.Uint64("priceImpactBps", q.PriceImpactBps),
	)
	return q, nil
}
