// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/state"
	"github.com/purpledex/purpledex/storage"
)

// PoolInfo is a pool together with its current reserves.
type PoolInfo struct {
	storage.Pool

	Address   codec.Address `json:"address"`
	Authority codec.Address `json:"authority"`
	ReserveA  uint64        `json:"reserveA"`
	ReserveB  uint64        `json:"reserveB"`
}

// CreatePool opens an empty pool for the ordered pair (tokenA, tokenB) with
// the registry's current fee schedule. Any caller may create a pool.
func (e *Exchange) CreatePool(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*storage.Pool, error) {
	if tokenA == tokenB {
		return nil, ErrIdenticalTokens
	}
	addr := storage.PoolAddress(tokenA, tokenB)

	var (
		pool     *storage.Pool
		sequence uint64
	)
	keys := state.Keys{
		string(storage.RegistryKey()):     state.Read | state.Write,
		string(storage.PoolSequenceKey()): state.All,
		string(storage.PoolKey(addr)):     state.All,
	}
	extend := func(ctx context.Context) (state.Keys, error) {
		var err error
		sequence, err = storage.GetPoolSequence(ctx, e.db)
		if err != nil {
			return nil, err
		}
		return state.Keys{string(storage.PoolIndexKey(sequence)): state.All}, nil
	}
	err := e.executeExtended(ctx, "CreatePool", keys, extend, func(ctx context.Context, v *state.View) error {
		r, err := storage.GetRegistry(ctx, v)
		if err != nil {
			return err
		}
		exists, err := storage.PoolExists(ctx, v, addr)
		if err != nil {
			return err
		}
		if exists {
			return ErrPoolExists
		}
		next, err := pricing.Add64(r.PoolsCount, 1)
		if err != nil {
			return err
		}
		nextSequence, err := pricing.Add64(sequence, 1)
		if err != nil {
			return err
		}

		pool = storage.NewPool(tokenA, tokenB, r, sequence)
		r.PoolsCount = next
		if err := storage.SetRegistry(ctx, v, r); err != nil {
			return err
		}
		if err := storage.SetPool(ctx, v, pool); err != nil {
			return err
		}
		if err := storage.SetPoolAtIndex(ctx, v, sequence, addr); err != nil {
			return err
		}
		return storage.SetPoolSequence(ctx, v, nextSequence)
	})
	if err != nil {
		return nil, err
	}
	e.metrics.poolsCreated.Inc()
	e.log.Info("pool created",
		zap.Stringer("pool", addr),
		zap.Stringer("tokenA", tokenA),
		zap.Stringer("tokenB", tokenB),
		zap.Stringer("lpAsset", pool.LPAsset),
		zap.Uint64("index", pool.Index),
	)
	e.emit(&Event{
		Type:   PoolCreated,
		Pool:   addr,
		TokenA: tokenA,
		TokenB: tokenB,
	})
	return pool, nil
}

// Pool returns the pool at addr with its reserves.
func (e *Exchange) Pool(ctx context.Context, addr codec.Address) (*PoolInfo, error) {
	p, err := storage.GetPool(ctx, e.db, addr)
	if err != nil {
		return nil, err
	}
	keys := state.Keys{string(storage.PoolKey(addr)): state.Read}
	keys.Union(readOnly(e.vaultKeys(p)))

	var info *PoolInfo
	err = e.query(ctx, "Pool", keys, func(ctx context.Context, v *state.View) error {
		p, err := storage.GetPool(ctx, v, addr)
		if err != nil {
			return err
		}
		reserveA, reserveB, err := e.reserves(ctx, v, p)
		if err != nil {
			return err
		}
		info = &PoolInfo{
			Pool:      *p,
			Address:   addr,
			Authority: p.Authority(),
			ReserveA:  reserveA,
			ReserveB:  reserveB,
		}
		return nil
	})
	return info, err
}

// PoolByTokens returns the pool of the ordered pair (tokenA, tokenB).
func (e *Exchange) PoolByTokens(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (*PoolInfo, error) {
	return e.Pool(ctx, storage.PoolAddress(tokenA, tokenB))
}

// Pools lists up to limit pools in creation order, starting at offset.
func (e *Exchange) Pools(ctx context.Context, offset uint64, limit uint64) ([]*PoolInfo, error) {
	sequence, err := storage.GetPoolSequence(ctx, e.db)
	if err != nil {
		return nil, err
	}
	pools := make([]*PoolInfo, 0, min(limit, sequence))
	for i := offset; i < sequence && uint64(len(pools)) < limit; i++ {
		addr, err := storage.GetPoolAtIndex(ctx, e.db, i)
		if err != nil {
			return nil, err
		}
		info, err := e.Pool(ctx, addr)
		if err != nil {
			return nil, err
		}
		pools = append(pools, info)
	}
	return pools, nil
}

// vaultKeys declares the pool's two reserve balances.
func (e *Exchange) vaultKeys(p *storage.Pool) state.Keys {
	keys := e.ledger.BalanceKeys(p.VaultA, p.TokenA)
	keys.Union(e.ledger.BalanceKeys(p.VaultB, p.TokenB))
	return keys
}

func (e *Exchange) reserves(ctx context.Context, im state.Immutable, p *storage.Pool) (uint64, uint64, error) {
	reserveA, err := e.ledger.Balance(ctx, im, p.VaultA, p.TokenA)
	if err != nil {
		return 0, 0, err
	}
	reserveB, err := e.ledger.Balance(ctx, im, p.VaultB, p.TokenB)
	if err != nil {
		return 0, 0, err
	}
	return reserveA, reserveB, nil
}

// claimable returns the part of the vault balances owned by liquidity
// providers. Accrued protocol fees sit in the vaults until collected but are
// never priced as reserves.
func (e *Exchange) claimable(ctx context.Context, im state.Immutable, p *storage.Pool) (uint64, uint64, error) {
	reserveA, reserveB, err := e.reserves(ctx, im, p)
	if err != nil {
		return 0, 0, err
	}
	claimableA, err := pricing.Sub64(reserveA, p.ProtocolFeesTokenA)
	if err != nil {
		return 0, 0, err
	}
	claimableB, err := pricing.Sub64(reserveB, p.ProtocolFeesTokenB)
	if err != nil {
		return 0, 0, err
	}
	return claimableA, claimableB, nil
}

// model loads the pool's pricing model at its claimable reserves.
func (e *Exchange) model(ctx context.Context, im state.Immutable, p *storage.Pool) (pricing.Model, error) {
	reserveA, reserveB, err := e.claimable(ctx, im, p)
	if err != nil {
		return nil, err
	}
	return pricing.New(p.ModelID, reserveA, reserveB, p.TotalLiquidity, p.Fees())
}

func readOnly(keys state.Keys) state.Keys {
	for k := range keys {
		keys[k] = state.Read
	}
	return keys
}
