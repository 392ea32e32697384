// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Mutable = (*View)(nil)

// View buffers the reads and writes of a single operation over a
// [Database]. Every access must be declared in the view's scope with the
// required permission. Nothing reaches the database until [View.Commit],
// which applies all changes as one batch; dropping the view discards them.
type View struct {
	db    Database
	scope Keys

	pendingChangedKeys map[string]maybe.Maybe[[]byte]
	committed          bool
}

func NewView(db Database, scope Keys) *View {
	return &View{
		db:                 db,
		scope:              scope,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], len(scope)),
	}
}

func (v *View) checkScope(key []byte, require Permissions) error {
	p, ok := v.scope[string(key)]
	if !ok {
		return fmt.Errorf("%w: %x", ErrKeyNotSpecified, key)
	}
	if !p.Has(require) {
		return fmt.Errorf("%w: %x", ErrInvalidPermissions, key)
	}
	return nil
}

// GetValue returns the pending value of [key] if the view changed it, and
// otherwise reads through to the database.
func (v *View) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if err := v.checkScope(key, Read); err != nil {
		return nil, err
	}
	value, exists, err := v.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return value, nil
}

func (v *View) getValue(ctx context.Context, key string) ([]byte, bool, error) {
	if pending, ok := v.pendingChangedKeys[key]; ok {
		if pending.IsNothing() {
			return nil, false, nil
		}
		return pending.Value(), true, nil
	}
	value, err := v.db.GetValue(ctx, []byte(key))
	switch {
	case err == nil:
		return value, true, nil
	case errors.Is(err, database.ErrNotFound):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// Insert sets [key] to [value]. Creating a key requires [Allocate] and
// updating one requires [Write].
//
// Any bytes passed into [Insert] are owned by the view afterwards.
func (v *View) Insert(ctx context.Context, key []byte, value []byte) error {
	if v.committed {
		return ErrViewCommitted
	}
	k := string(key)
	_, exists, err := v.getValue(ctx, k)
	if err != nil {
		return err
	}
	require := Write
	if !exists {
		require = Allocate
	}
	if err := v.checkScope(key, require); err != nil {
		return err
	}
	v.pendingChangedKeys[k] = maybe.Some(value)
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (v *View) Remove(ctx context.Context, key []byte) error {
	if v.committed {
		return ErrViewCommitted
	}
	if err := v.checkScope(key, Write); err != nil {
		return err
	}
	k := string(key)
	_, exists, err := v.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	v.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	return nil
}

func (v *View) PendingChanges() int {
	return len(v.pendingChangedKeys)
}

// Commit writes every pending change to the database atomically. A view can
// only be committed once.
func (v *View) Commit(ctx context.Context) error {
	if v.committed {
		return ErrViewCommitted
	}
	if err := v.db.Apply(ctx, v.pendingChangedKeys); err != nil {
		return err
	}
	v.committed = true
	return nil
}
