// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_ledger.go . Ledger

package ledger

import (
	"context"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/state"
)

// Ledger moves assets between accounts. Every method runs against the
// caller's state view, so its effects commit or roll back together with the
// operation that made them.
type Ledger interface {
	// BalanceKeys declares the state touched by reading or changing the
	// balance of asset held by account.
	BalanceKeys(account codec.Address, asset codec.Address) state.Keys
	// SupplyKeys declares the state touched by minting or burning asset.
	SupplyKeys(asset codec.Address) state.Keys

	Balance(ctx context.Context, im state.Immutable, account codec.Address, asset codec.Address) (uint64, error)
	Supply(ctx context.Context, im state.Immutable, asset codec.Address) (uint64, error)

	// Debit removes amount from account. It fails if the balance is short.
	Debit(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error
	// Credit adds amount to account, provisioning the account if it has never
	// held asset.
	Credit(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error
	// Mint creates amount of asset for account.
	Mint(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error
	// Burn destroys amount of asset held by account.
	Burn(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error
}

// Transfer debits from and credits to. A zero amount is a no-op.
func Transfer(
	ctx context.Context,
	l Ledger,
	mu state.Mutable,
	from codec.Address,
	to codec.Address,
	asset codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return nil
	}
	if err := l.Debit(ctx, mu, from, asset, amount); err != nil {
		return err
	}
	return l.Credit(ctx, mu, to, asset, amount)
}
