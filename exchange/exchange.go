// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/ledger"
	"github.com/purpledex/purpledex/lockmap"
	"github.com/purpledex/purpledex/state"
)

const initialLocks = 256

// Exchange runs the AMM operations. Each operation declares the state keys
// it touches, holds their locks for its whole duration, and writes through a
// [state.View] that is committed only when the operation succeeds. Operations
// on different pools proceed in parallel.
type Exchange struct {
	admin  codec.Address
	db     state.Database
	ledger ledger.Ledger
	locks  *lockmap.Lockmap

	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics
	stats   *stats

	listeners []Listener
}

// New returns an exchange over db. admin is the only identity allowed to
// initialize the registry and mint from the faucet.
func New(
	admin codec.Address,
	db state.Database,
	l ledger.Ledger,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
) (*Exchange, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Exchange{
		admin:   admin,
		db:      db,
		ledger:  l,
		locks:   lockmap.New(initialLocks),
		log:     log,
		tracer:  tracer,
		metrics: m,
		stats:   &stats{},
	}, nil
}

func (e *Exchange) Admin() codec.Address {
	return e.admin
}

// execute runs fn over a view scoped to keys and commits it if fn succeeds.
func (e *Exchange) execute(
	ctx context.Context,
	name string,
	keys state.Keys,
	fn func(context.Context, *state.View) error,
) error {
	return e.executeExtended(ctx, name, keys, nil, fn)
}

// executeExtended locks keys, then asks extend for further keys that can only
// be computed from state guarded by the first set. Keys returned by extend
// must never be locked by an operation that later waits on keys, and a key
// already in keys keeps the lock mode it was first acquired with.
func (e *Exchange) executeExtended(
	ctx context.Context,
	name string,
	keys state.Keys,
	extend func(context.Context) (state.Keys, error),
	fn func(context.Context, *state.View) error,
) error {
	ctx, span := e.tracer.Start(ctx, "Exchange."+name)
	defer span.End()

	start := time.Now()
	err := e.run(ctx, keys, extend, fn, true)
	e.observe(name, start, err)
	return err
}

// query runs fn over a view scoped to keys without committing it.
func (e *Exchange) query(
	ctx context.Context,
	name string,
	keys state.Keys,
	fn func(context.Context, *state.View) error,
) error {
	ctx, span := e.tracer.Start(ctx, "Exchange."+name)
	defer span.End()

	return e.run(ctx, keys, nil, fn, false)
}

func (e *Exchange) run(
	ctx context.Context,
	keys state.Keys,
	extend func(context.Context) (state.Keys, error),
	fn func(context.Context, *state.View) error,
	commit bool,
) error {
	release := e.locks.LockKeys(keys)
	defer release()

	scope := state.Keys{}
	scope.Union(keys)
	if extend != nil {
		extra, err := extend(ctx)
		if err != nil {
			return err
		}
		locked := state.Keys{}
		for k, p := range extra {
			if _, ok := keys[k]; !ok {
				locked[k] = p
			}
		}
		defer e.locks.LockKeys(locked)()
		scope.Union(extra)
	}

	view := state.NewView(e.db, scope)
	if err := fn(ctx, view); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	return view.Commit(ctx)
}

func (e *Exchange) observe(name string, start time.Time, err error) {
	e.metrics.latency.WithLabelValues(name).Observe(float64(time.Since(start)))
	if err != nil {
		e.stats.failures.Inc()
		e.metrics.operations.WithLabelValues(name, statusFailure).Inc()
		e.log.Debug("operation failed",
			zap.String("operation", name),
			zap.Error(err),
		)
		return
	}
	e.stats.transactions.Inc()
	e.metrics.operations.WithLabelValues(name, statusSuccess).Inc()
}

// stats are process-lifetime counters reported by [Exchange.Stats].
type stats struct {
	transactions atomic.Uint64
	failures     atomic.Uint64
	swaps        atomic.Uint64
	deposits     atomic.Uint64
	withdrawals  atomic.Uint64
	collections  atomic.Uint64
}
