// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/state"
	"github.com/purpledex/purpledex/storage"
)

// PoolSnapshot is a consistent read of one pool and the ledger state it
// depends on.
type PoolSnapshot struct {
	Address  codec.Address
	Pool     *storage.Pool
	ReserveA uint64
	ReserveB uint64
	LPSupply uint64
}

// Invariant checks one property of every pool. It returns a description of
// each violation and whether any was found.
type Invariant func(snapshots []*PoolSnapshot) (string, bool)

// Invariants returns the named pool invariants checked by
// [Exchange.CheckInvariants].
func Invariants() map[string]Invariant {
	return map[string]Invariant{
		"pool-reserves":  PoolReservesInvariant,
		"pool-shares":    PoolSharesInvariant,
		"protocol-fees":  ProtocolFeesInvariant,
		"pool-liquidity": PoolLiquidityInvariant,
	}
}

// PoolReservesInvariant checks that a pool without liquidity holds no
// reserves, and a pool with liquidity holds both.
func PoolReservesInvariant(snapshots []*PoolSnapshot) (string, bool) {
	var (
		msg   strings.Builder
		count int
	)
	for _, s := range snapshots {
		empty := s.Pool.TotalLiquidity == 0
		if empty != (s.ReserveA == 0 && s.ReserveB == 0) || (!empty && (s.ReserveA == 0 || s.ReserveB == 0)) {
			count++
			fmt.Fprintf(&msg, "pool %s: total liquidity %d with reserves (%d, %d)\n",
				s.Address, s.Pool.TotalLiquidity, s.ReserveA, s.ReserveB)
		}
	}
	return format("pool-reserves", count, "pools with liquidity inconsistent with reserves", msg.String()), count != 0
}

// PoolSharesInvariant checks that total liquidity equals the LP supply.
func PoolSharesInvariant(snapshots []*PoolSnapshot) (string, bool) {
	var (
		msg   strings.Builder
		count int
	)
	for _, s := range snapshots {
		if s.Pool.TotalLiquidity != s.LPSupply {
			count++
			fmt.Fprintf(&msg, "pool %s: total liquidity %d != lp supply %d\n",
				s.Address, s.Pool.TotalLiquidity, s.LPSupply)
		}
	}
	return format("pool-shares", count, "pools with mismatched lp supply", msg.String()), count != 0
}

// ProtocolFeesInvariant checks that accrued protocol fees are still held by
// the vaults.
func ProtocolFeesInvariant(snapshots []*PoolSnapshot) (string, bool) {
	var (
		msg   strings.Builder
		count int
	)
	for _, s := range snapshots {
		if s.Pool.ProtocolFeesTokenA > s.ReserveA || s.Pool.ProtocolFeesTokenB > s.ReserveB {
			count++
			fmt.Fprintf(&msg, "pool %s: protocol fees (%d, %d) exceed reserves (%d, %d)\n",
				s.Address, s.Pool.ProtocolFeesTokenA, s.Pool.ProtocolFeesTokenB, s.ReserveA, s.ReserveB)
		}
	}
	return format("protocol-fees", count, "pools with unbacked protocol fees", msg.String()), count != 0
}

// PoolLiquidityInvariant checks that no pool has issued more LP units than
// the geometric bound of its reserves allows.
func PoolLiquidityInvariant(snapshots []*PoolSnapshot) (string, bool) {
	var (
		msg   strings.Builder
		count int
	)
	for _, s := range snapshots {
		product := pricing.Product(s.ReserveA, s.ReserveB)
		shares := pricing.Product(s.Pool.TotalLiquidity, s.Pool.TotalLiquidity)
		if shares.Gt(product) {
			count++
			fmt.Fprintf(&msg, "pool %s: total liquidity %d exceeds sqrt(%d * %d)\n",
				s.Address, s.Pool.TotalLiquidity, s.ReserveA, s.ReserveB)
		}
	}
	return format("pool-liquidity", count, "pools with excess liquidity", msg.String()), count != 0
}

func format(route string, count int, what string, msg string) string {
	return fmt.Sprintf("exchange: %s invariant\n\tfound %d %s\n%s", route, count, what, msg)
}

// CheckInvariants verifies every registered invariant against all pools.
func (e *Exchange) CheckInvariants(ctx context.Context) error {
	snapshots, err := e.snapshots(ctx)
	if err != nil {
		return err
	}
	var broken []string
	for name, inv := range Invariants() {
		if res, stop := inv(snapshots); stop {
			e.log.Warn("invariant broken", zap.String("invariant", name))
			broken = append(broken, name+": "+res)
		}
	}
	if len(broken) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n%s", ErrInvariantBroken, strings.Join(broken, "\n"))
}

func (e *Exchange) snapshots(ctx context.Context) ([]*PoolSnapshot, error) {
	sequence, err := storage.GetPoolSequence(ctx, e.db)
	if err != nil {
		return nil, err
	}
	snapshots := make([]*PoolSnapshot, 0, sequence)
	for i := uint64(0); i < sequence; i++ {
		addr, err := storage.GetPoolAtIndex(ctx, e.db, i)
		if err != nil {
			return nil, err
		}
		p, err := storage.GetPool(ctx, e.db, addr)
		if err != nil {
			return nil, err
		}
		keys := state.Keys{string(storage.PoolKey(addr)): state.Read}
		keys.Union(e.vaultKeys(p))
		keys.Union(e.ledger.SupplyKeys(p.LPAsset))
		snap := &PoolSnapshot{Address: addr}
		err = e.query(ctx, "Snapshot", readOnly(keys), func(ctx context.Context, v *state.View) error {
			var err error
			snap.Pool, err = storage.GetPool(ctx, v, addr)
			if err != nil {
				return err
			}
			snap.ReserveA, snap.ReserveB, err = e.reserves(ctx, v, snap.Pool)
			if err != nil {
				return err
			}
			snap.LPSupply, err = e.ledger.Supply(ctx, v, snap.Pool.LPAsset)
			return err
		})
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
