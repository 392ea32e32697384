// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/state"
)

// Key prefixes, kept clear of the exchange's own records.
const (
	balancePrefix byte = 0x10 + iota
	supplyPrefix
)

var _ Ledger = (*StateLedger)(nil)

// StateLedger keeps balances and supplies as 8-byte big-endian values in
// state. Zero balances are removed.
type StateLedger struct{}

func NewStateLedger() *StateLedger {
	return &StateLedger{}
}

func BalanceKey(account codec.Address, asset codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen*2)
	k[0] = balancePrefix
	copy(k[1:], account[:])
	copy(k[1+codec.AddressLen:], asset[:])
	return k
}

func SupplyKey(asset codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = supplyPrefix
	copy(k[1:], asset[:])
	return k
}

func (*StateLedger) BalanceKeys(account codec.Address, asset codec.Address) state.Keys {
	return state.Keys{string(BalanceKey(account, asset)): state.All}
}

func (*StateLedger) SupplyKeys(asset codec.Address) state.Keys {
	return state.Keys{string(SupplyKey(asset)): state.All}
}

func (*StateLedger) Balance(ctx context.Context, im state.Immutable, account codec.Address, asset codec.Address) (uint64, error) {
	return getUint64(ctx, im, BalanceKey(account, asset))
}

func (*StateLedger) Supply(ctx context.Context, im state.Immutable, asset codec.Address) (uint64, error) {
	return getUint64(ctx, im, SupplyKey(asset))
}

func (*StateLedger) Debit(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error {
	key := BalanceKey(account, asset)
	bal, err := getUint64(ctx, mu, key)
	if err != nil {
		return err
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	return setUint64(ctx, mu, key, nbal)
}

func (*StateLedger) Credit(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error {
	key := BalanceKey(account, asset)
	bal, err := getUint64(ctx, mu, key)
	if err != nil {
		return err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return ErrBalanceOverflow
	}
	return setUint64(ctx, mu, key, nbal)
}

func (l *StateLedger) Mint(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error {
	key := SupplyKey(asset)
	supply, err := getUint64(ctx, mu, key)
	if err != nil {
		return err
	}
	nsupply, err := smath.Add(supply, amount)
	if err != nil {
		return ErrBalanceOverflow
	}
	if err := setUint64(ctx, mu, key, nsupply); err != nil {
		return err
	}
	return l.Credit(ctx, mu, account, asset, amount)
}

func (l *StateLedger) Burn(ctx context.Context, mu state.Mutable, account codec.Address, asset codec.Address, amount uint64) error {
	if err := l.Debit(ctx, mu, account, asset, amount); err != nil {
		return err
	}
	key := SupplyKey(asset)
	supply, err := getUint64(ctx, mu, key)
	if err != nil {
		return err
	}
	nsupply, err := smath.Sub(supply, amount)
	if err != nil {
		return ErrInsufficientSupply
	}
	return setUint64(ctx, mu, key, nsupply)
}

func getUint64(ctx context.Context, im state.Immutable, key []byte) (uint64, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrInvalidBalance
	}
	return binary.BigEndian.Uint64(v), nil
}

func setUint64(ctx context.Context, mu state.Mutable, key []byte, value uint64) error {
	if value == 0 {
		return mu.Remove(ctx, key)
	}
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, value)
	return mu.Insert(ctx, key, v)
}
