// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/purpledex/purpledex/config"
)

var _ Server = (*server)(nil)

type PathAdder interface {
	// AddRoute registers a route to a handler.
	AddRoute(handler http.Handler, base, endpoint string) error
}

// Server maintains the HTTP router
type Server interface {
	PathAdder
	// Dispatch starts the API server
	Dispatch() error
	// Addr is the address the server is listening on
	Addr() net.Addr
	// Routes lists every registered url
	Routes() []string
	// Shutdown this server
	Shutdown() error
}

type server struct {
	cfg config.HTTPConfig

	// log this server writes to
	log logging.Logger

	// Maps endpoints to handlers
	router *router

	srv *http.Server

	// Listener used to serve traffic
	listener net.Listener
}

// New returns an instance of a Server.
func New(
	log logging.Logger,
	listener net.Listener,
	cfg config.HTTPConfig,
	wrappers ...Wrapper,
) Server {
	router := newRouter()
	handler := rootHandler(router, cfg, wrappers)
	log.Info("API created",
		zap.Strings("allowedOrigins", cfg.AllowedOrigins),
		zap.Strings("allowedHosts", cfg.AllowedHosts),
	)

	return &server{
		cfg:    cfg,
		log:    log,
		router: router,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		listener: listener,
	}
}

// rootHandler layers host filtering, CORS and compression under the given
// wrappers. The first wrapper runs innermost.
func rootHandler(router http.Handler, cfg config.HTTPConfig, wrappers []Wrapper) http.Handler {
	var h http.Handler = filterInvalidHosts(router, cfg.AllowedHosts)
	h = cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(h)
	h = gziphandler.GzipHandler(h)
	for _, w := range wrappers {
		h = w.WrapHandler(h)
	}
	return h
}

// Dispatch serves until Shutdown is called, after which it returns nil.
func (s *server) Dispatch() error {
	s.log.Info("serving API", zap.Stringer("address", s.listener.Addr()))
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := fmt.Sprintf("%s/%s", s.cfg.BaseURL, base)
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

func (s *server) Routes() []string {
	return s.router.Routes()
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
