// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/state"
)

var (
	alice = codec.CreateAddress(consts.AccountID, ids.ID{1})
	bob   = codec.CreateAddress(consts.AccountID, ids.ID{2})
	coin  = codec.CreateAddress(consts.AssetID, ids.ID{3})
)

func TestStateLedger(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := state.MutableStorage{}
	l := NewStateLedger()

	bal, err := l.Balance(ctx, db, alice, coin)
	require.NoError(err)
	require.Zero(bal)

	require.NoError(l.Mint(ctx, db, alice, coin, 100))
	require.NoError(Transfer(ctx, l, db, alice, bob, coin, 40))
	require.NoError(Transfer(ctx, l, db, alice, bob, coin, 0))

	bal, err = l.Balance(ctx, db, alice, coin)
	require.NoError(err)
	require.Equal(uint64(60), bal)
	bal, err = l.Balance(ctx, db, bob, coin)
	require.NoError(err)
	require.Equal(uint64(40), bal)

	err = l.Debit(ctx, db, bob, coin, 41)
	require.ErrorIs(err, ErrInsufficientBalance)
	require.ErrorIs(err, consts.ErrLiquidity)

	require.NoError(l.Burn(ctx, db, bob, coin, 40))
	supply, err := l.Supply(ctx, db, coin)
	require.NoError(err)
	require.Equal(uint64(60), supply)

	// Emptied balances are removed from state
	_, ok := db[string(BalanceKey(bob, coin))]
	require.False(ok)

	require.ErrorIs(l.Credit(ctx, db, alice, coin, math.MaxUint64), ErrBalanceOverflow)
}

func TestStateLedgerKeys(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l := NewStateLedger()

	keys := l.BalanceKeys(alice, coin)
	keys.Union(l.SupplyKeys(coin))
	require.Len(keys, 2)

	// Reads and writes outside of the declared keys are rejected.
	v := state.NewView(state.MutableStorage{}, keys)
	require.NoError(l.Mint(ctx, v, alice, coin, 5))
	require.ErrorIs(l.Credit(ctx, v, bob, coin, 5), state.ErrKeyNotSpecified)
}

func TestTransferStopsOnDebitFailure(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	db := state.MutableStorage{}
	errDebit := errors.New("debit failed")

	l := NewMockLedger(ctrl)
	l.EXPECT().Debit(ctx, db, alice, coin, uint64(10)).Return(errDebit)
	require.ErrorIs(Transfer(ctx, l, db, alice, bob, coin, 10), errDebit)
}
