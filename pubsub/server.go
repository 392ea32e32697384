// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Config struct {
	ReadBufferSize     int           `yaml:"readBufferSize"`
	WriteBufferSize    int           `yaml:"writeBufferSize"`
	WriteWait          time.Duration `yaml:"writeWait"`
	PongWait           time.Duration `yaml:"pongWait"`
	PingPeriod         time.Duration `yaml:"pingPeriod"`
	MaxReadMessageSize int           `yaml:"maxReadMessageSize"`
	MaxWriteMessage    int           `yaml:"maxWriteMessage"`
	MaxPendingMessages int           `yaml:"maxPendingMessages"`
	TargetWriteDelay   time.Duration `yaml:"targetWriteDelay"`
}

func NewDefaultServerConfig() *Config {
	return &Config{
		ReadBufferSize:     readBufferSize,
		WriteBufferSize:    writeBufferSize,
		WriteWait:          writeWait,
		PongWait:           pongWait,
		PingPeriod:         (9 * pongWait) / 10,
		MaxReadMessageSize: maxReadMessageSize,
		MaxWriteMessage:    maxWriteMessage,
		MaxPendingMessages: maxPendingMessages,
		TargetWriteDelay:   targetWriteDelay,
	}
}

// Server fans published messages out to websocket clients. Each client gets
// its messages in publish order, batched as JSON arrays, filtered by its
// latest [Subscription].
type Server struct {
	log      logging.Logger
	config   *Config
	upgrader *websocket.Upgrader
	conns    *connections

	dropped atomic.Uint64
}

func New(log logging.Logger, config *Config) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns: newConnections(),
	}
}

// ServeHTTP upgrades the request and attaches the client.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade", zap.Error(err))
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessage,
			s.config.TargetWriteDelay,
			s.recordDrops,
		),
	}
	conn.active.Store(true)
	s.conns.add(conn)

	go conn.writePump()
	go conn.readPump()
}

func (s *Server) recordDrops(messages int) {
	s.dropped.Add(uint64(messages))
}

// Publish sends msg to every client whose subscription matches labels.
func (s *Server) Publish(msg []byte, labels ...string) {
	for _, conn := range s.conns.snapshot() {
		if !conn.wants(labels) {
			continue
		}
		if !conn.Send(msg) {
			s.recordDrops(1)
		}
	}
}

// Connections returns the number of attached clients.
func (s *Server) Connections() int {
	return s.conns.len()
}

// Dropped returns how many messages were discarded because a client could
// not keep up.
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

// Close flushes and disconnects every client.
func (s *Server) Close() {
	for _, conn := range s.conns.snapshot() {
		conn.shutdown()
	}
}
