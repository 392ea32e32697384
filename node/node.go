// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/purpledex/purpledex/config"
	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/ledger"
	"github.com/purpledex/purpledex/logger"
	"github.com/purpledex/purpledex/pebble"
	"github.com/purpledex/purpledex/pubsub"
	"github.com/purpledex/purpledex/rpc"
	"github.com/purpledex/purpledex/server"
	"github.com/purpledex/purpledex/state"

	htrace "github.com/purpledex/purpledex/trace"
)

const metricsEndpoint = "metrics"

// Node wires an exchange to its storage, observability, and API.
type Node struct {
	config *config.Config

	logFactory *logger.Factory
	log        logging.Logger
	tracer     trace.Tracer
	db         state.Database
	gatherer   prometheus.Gatherers

	exchange *exchange.Exchange
	ws       *rpc.WebSocketServer
	server   server.Server
}

// New builds a node from cfg and binds its listener. Nothing is served
// until [Node.Run].
func New(cfg *config.Config) (*Node, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	admin, err := cfg.AdminAddress()
	if err != nil {
		return nil, err
	}
	logConfig, err := cfg.Log.Parse()
	if err != nil {
		return nil, err
	}

	n := &Node{
		config:     cfg,
		logFactory: logger.NewFactory(logConfig),
	}
	ready := false
	defer func() {
		if !ready {
			_ = n.Close()
		}
	}()

	n.log, err = n.logFactory.Make("purpledex")
	if err != nil {
		return nil, err
	}
	n.tracer, err = htrace.New(&cfg.Trace)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	n.gatherer = prometheus.Gatherers{registry}
	if cfg.DatabaseDir == "" {
		n.log.Info("using in-memory state")
		n.db = state.NewMemoryDatabase()
	} else {
		db, dbRegistry, err := pebble.New(cfg.DatabaseDir, cfg.Pebble)
		if err != nil {
			return nil, fmt.Errorf("failed to open state db: %w", err)
		}
		n.log.Info("opened state db", zap.String("dir", cfg.DatabaseDir))
		n.db = db
		n.gatherer = append(n.gatherer, dbRegistry)
	}

	n.exchange, err = exchange.New(admin, n.db, ledger.NewStateLedger(), n.log, n.tracer, registry)
	if err != nil {
		return nil, err
	}
	n.ws = rpc.NewWebSocketServer(n.log, pubsub.NewDefaultServerConfig())
	n.exchange.AddListener(n.ws)

	listener, err := net.Listen("tcp", cfg.HTTP.ListenAddress)
	if err != nil {
		return nil, err
	}
	if !cfg.HTTP.Loopback() {
		n.log.Warn("API reachable beyond loopback; callers are not authenticated, so any client can act as the admin",
			zap.String("listenAddress", cfg.HTTP.ListenAddress),
		)
	}
	n.server = server.New(n.log, listener, cfg.HTTP, server.NewRequestLogger(n.log))
	if err := n.addRoutes(); err != nil {
		_ = listener.Close()
		return nil, err
	}
	ready = true
	return n, nil
}

func (n *Node) addRoutes() error {
	handler, err := server.NewHandler(rpc.NewJSONRPCServer(n.exchange, n.log, n.tracer), rpc.Name)
	if err != nil {
		return err
	}
	errs := wrappers.Errs{}
	errs.Add(
		n.server.AddRoute(handler, rpc.Name, ""),
		n.server.AddRoute(n.ws.Handler(), rpc.Name+"ws", ""),
	)
	if n.config.MetricsEnabled {
		errs.Add(n.server.AddRoute(promhttp.HandlerFor(n.gatherer, promhttp.HandlerOpts{}), metricsEndpoint, ""))
	}
	return errs.Err
}

// URI is the base uri clients pass to [rpc.NewJSONRPCClient].
func (n *Node) URI() string {
	return "http://" + n.server.Addr().String() + n.config.HTTP.BaseURL
}

func (n *Node) Exchange() *exchange.Exchange {
	return n.exchange
}

func (n *Node) Logger() logging.Logger {
	return n.log
}

// Run serves the API until ctx is canceled or the server fails.
func (n *Node) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(n.server.Dispatch)
	g.Go(func() error {
		<-ctx.Done()
		n.ws.Close()
		return n.server.Shutdown()
	})
	if interval := n.config.InvariantCheckInterval; interval > 0 {
		g.Go(func() error {
			n.audit(ctx, interval)
			return nil
		})
	}
	n.log.Info("node started",
		zap.String("uri", n.URI()),
		zap.Strings("routes", n.server.Routes()),
	)
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// audit checks pool invariants every interval. A violation is logged, not
// fatal, so the state can be inspected over the API.
func (n *Node) audit(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := n.exchange.CheckInvariants(ctx); err != nil {
				n.log.Error("invariant check failed", zap.Error(err))
			}
		}
	}
}

// Close releases the node's storage and observability. It must be called
// after Run returns.
func (n *Node) Close() error {
	errs := wrappers.Errs{}
	if n.db != nil {
		errs.Add(n.db.Close())
	}
	if n.tracer != nil {
		errs.Add(n.tracer.Close())
	}
	n.logFactory.Close()
	return errs.Err
}
