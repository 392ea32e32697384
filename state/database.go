// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Database = (*BatchDatabase)(nil)

// BatchDatabase adapts an avalanchego [database.Database] to [Database],
// applying changes through a single batch write.
type BatchDatabase struct {
	db database.Database
}

func NewBatchDatabase(db database.Database) *BatchDatabase {
	return &BatchDatabase{db: db}
}

// NewMemoryDatabase returns a [BatchDatabase] over a fresh memdb.
func NewMemoryDatabase() *BatchDatabase {
	return NewBatchDatabase(memdb.New())
}

func (b *BatchDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return b.db.Get(key)
}

func (b *BatchDatabase) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := b.db.NewBatch()
	for k, v := range changes {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	return batch.Write()
}

func (b *BatchDatabase) Close() error {
	return b.db.Close()
}
