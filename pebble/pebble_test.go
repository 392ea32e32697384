// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/state"
)

func TestDatabaseApply(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cfg := NewDefaultConfig()
	cfg.Sync = false
	cfg.CacheSize = 1024 * 1024
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(err)
	require.NotNil(registry)

	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"a": maybe.Some([]byte{1}),
		"b": maybe.Some([]byte{2}),
	}))
	val, err := db.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte{1}, val)

	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"a": maybe.Nothing[[]byte](),
	}))
	_, err = db.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Close())
	require.ErrorIs(db.Close(), database.ErrClosed)
}

func TestDatabaseReopen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	db, _, err := New(dir, NewDefaultConfig())
	require.NoError(err)
	v := state.NewView(db, state.Keys{"k": state.All})
	require.NoError(v.Insert(ctx, []byte("k"), []byte("value")))
	require.NoError(v.Commit(ctx))
	require.NoError(db.Close())

	db, _, err = New(dir, NewDefaultConfig())
	require.NoError(err)
	val, err := db.GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte("value"), val)
	require.NoError(db.Close())
}

func TestDatabaseMetrics(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(err)
	defer db.Close()

	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"a": maybe.Some([]byte{1}),
		"b": maybe.Some([]byte{2}),
		"c": maybe.Nothing[[]byte](),
	}))
	db.metrics.sample(db.db.Metrics())

	families, err := registry.Gather()
	require.NoError(err)
	values := make(map[string]float64)
	for _, f := range families {
		if m := f.GetMetric(); len(m) == 1 && m[0].Counter != nil {
			values[f.GetName()] = m[0].Counter.GetValue()
		}
	}
	require.Equal(float64(2), values["pebble_keys_written"])
	require.Equal(float64(1), values["pebble_keys_deleted"])
	require.Len(db.metrics.sampled, len(sampledGauges))
}
