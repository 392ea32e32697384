// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

// gaugeSpec is a gauge refreshed from [pebble.Metrics] on every collection.
type gaugeSpec struct {
	name string
	help string
	read func(*pebble.Metrics) float64
}

var sampledGauges = []gaugeSpec{
	{"tombstone_count", "approximate count of internal tombstones", func(m *pebble.Metrics) float64 {
		return float64(m.Keys.TombstoneCount)
	}},
	{"obsolete_table_size", "bytes in tables no longer referenced by the db", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ObsoleteSize)
	}},
	{"zombie_table_size", "bytes in unreferenced tables still held by iterators", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ZombieSize)
	}},
	{"obsolete_wal_size", "bytes in WAL files no longer needed by the db", func(m *pebble.Metrics) float64 {
		return float64(m.WAL.ObsoletePhysicalSize)
	}},
	{"memtable_size", "bytes allocated by memtables", func(m *pebble.Metrics) float64 {
		return float64(m.MemTable.Size)
	}},
	{"disk_space_usage", "bytes on disk used by the db", func(m *pebble.Metrics) float64 {
		return float64(m.DiskSpaceUsage())
	}},
}

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager

	getLatency   metric.Averager
	applyLatency metric.Averager
	keysWritten  prometheus.Counter
	keysDeleted  prometheus.Counter

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	sampled []prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	var (
		r    = prometheus.NewRegistry()
		errs = wrappers.Errs{}
		m    = &metrics{}
		err  error
	)
	m.writeStall, err = metric.NewAverager("pebble_write_stall", "time spent waiting for disk write", r)
	errs.Add(err)
	m.getLatency, err = metric.NewAverager("pebble_read_latency", "time spent waiting for db get", r)
	errs.Add(err)
	m.applyLatency, err = metric.NewAverager("pebble_apply_latency", "time spent committing a change set", r)
	errs.Add(err)
	if errs.Errored() {
		return nil, nil, errs.Err
	}

	m.keysWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keys_written",
		Help:      "number of keys set by committed change sets",
	})
	m.keysDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keys_deleted",
		Help:      "number of keys deleted by committed change sets",
	})
	m.compactions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compactions",
		Help:      "number of compactions by input level",
	}, []string{"level"})
	m.activeCompactions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_compactions",
		Help:      "number of active compactions",
	})
	errs.Add(
		r.Register(m.keysWritten),
		r.Register(m.keysDeleted),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
	)
	for _, gs := range sampledGauges {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      gs.name,
			Help:      gs.help,
		})
		errs.Add(r.Register(g))
		m.sampled = append(m.sampled, g)
	}
	return r, m, errs.Err
}

func (m *metrics) sample(pm *pebble.Metrics) {
	for i, gs := range sampledGauges {
		m.sampled[i].Set(gs.read(pm))
	}
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "other"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.metrics.sample(db.db.Metrics())
		case <-db.closing:
			return
		}
	}
}
