// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/state"
)

// Mint creates amount of asset for account. Only the admin may mint, and
// only plain assets: LP units are issued exclusively by deposits.
func (e *Exchange) Mint(
	ctx context.Context,
	caller codec.Address,
	account codec.Address,
	asset codec.Address,
	amount uint64,
) error {
	if caller != e.admin {
		return ErrUnauthorized
	}
	if asset.TypeID() != consts.AssetID {
		return ErrNotMintable
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	keys := e.ledger.BalanceKeys(account, asset)
	keys.Union(e.ledger.SupplyKeys(asset))
	err := e.execute(ctx, "Mint", keys, func(ctx context.Context, v *state.View) error {
		return e.ledger.Mint(ctx, v, account, asset, amount)
	})
	if err != nil {
		return err
	}
	e.log.Info("minted",
		zap.Stringer("account", account),
		zap.Stringer("asset", asset),
		zap.Uint64("amount", amount),
	)
	return nil
}

// Balance returns account's balance of asset.
func (e *Exchange) Balance(ctx context.Context, account codec.Address, asset codec.Address) (uint64, error) {
	var bal uint64
	keys := readOnly(e.ledger.BalanceKeys(account, asset))
	err := e.query(ctx, "Balance", keys, func(ctx context.Context, v *state.View) error {
		var err error
		bal, err = e.ledger.Balance(ctx, v, account, asset)
		return err
	})
	return bal, err
}

// Supply returns the outstanding supply of asset.
func (e *Exchange) Supply(ctx context.Context, asset codec.Address) (uint64, error) {
	var supply uint64
	keys := readOnly(e.ledger.SupplyKeys(asset))
	err := e.query(ctx, "Supply", keys, func(ctx context.Context, v *state.View) error {
		var err error
		supply, err = e.ledger.Supply(ctx, v, asset)
		return err
	})
	return supply, err
}
