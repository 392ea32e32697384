// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/purpledex/purpledex/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int64 `yaml:"cacheSize"`
	BytesPerSync                int   `yaml:"bytesPerSync"`
	WALBytesPerSync             int   `yaml:"walBytesPerSync"`
	MemTableStopWritesThreshold int   `yaml:"memTableStopWritesThreshold"`
	MaxOpenFiles                int   `yaml:"maxOpenFiles"`
	ConcurrentCompactions       int   `yaml:"concurrentCompactions"`
	Sync                        bool  `yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   256 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

type Database struct {
	db      *pebble.DB
	metrics *metrics
	sync    bool

	closeOnce sync.Once
	closing   chan struct{}
}

// New opens (or creates) a pebble database in dir. The returned registry
// holds the database's compaction and stall metrics.
func New(dir string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics: metrics,
		sync:    cfg.Sync,
		closing: make(chan struct{}),
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	defer opts.Cache.Unref()
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	go d.collectMetrics()
	return d, registry, nil
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		d.metrics.getLatency.Observe(float64(time.Since(start)))
	}()

	data, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	value := make([]byte, len(data))
	copy(value, data)
	return value, closer.Close()
}

// Apply commits changes in one batch. A Nothing value deletes its key.
func (d *Database) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	start := time.Now()
	batch := d.db.NewBatch()
	defer batch.Close()

	var written, deleted int
	for k, v := range changes {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k), nil)
			deleted++
		} else {
			err = batch.Set([]byte(k), v.Value(), nil)
			written++
		}
		if err != nil {
			return err
		}
	}
	opt := pebble.NoSync
	if d.sync {
		opt = pebble.Sync
	}
	if err := batch.Commit(opt); err != nil {
		return err
	}
	d.metrics.applyLatency.Observe(float64(time.Since(start)))
	d.metrics.keysWritten.Add(float64(written))
	d.metrics.keysDeleted.Add(float64(deleted))
	return nil
}

func (d *Database) Close() error {
	err := database.ErrClosed
	d.closeOnce.Do(func() {
		close(d.closing)
		err = d.db.Close()
	})
	return err
}
