// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Connection is one subscribed websocket client.
type Connection struct {
	s    *Server
	conn *websocket.Conn
	mb   *MessageBuffer

	active    atomic.Bool
	closeOnce sync.Once

	filterLock sync.RWMutex
	filter     set.Set[string]
}

func (c *Connection) wants(labels []string) bool {
	c.filterLock.RLock()
	defer c.filterLock.RUnlock()

	return matches(c.filter, labels)
}

func (c *Connection) subscribe(filter set.Set[string]) {
	c.filterLock.Lock()
	defer c.filterLock.Unlock()

	c.filter = filter
}

// Send queues msg and reports whether it was accepted.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	if err := c.mb.Send(msg); err != nil {
		c.s.log.Debug("unable to send message", zap.Error(err))
		return false
	}
	return true
}

// shutdown detaches c from the server and stops its buffer. Both pumps call
// it on exit.
func (c *Connection) shutdown() {
	c.closeOnce.Do(func() {
		c.s.conns.remove(c)
		c.active.Store(false)
		_ = c.mb.Close()
	})
}

// readPump applies subscriptions sent by the client and keeps the read
// deadline moving with pongs. It is the only reader of c.conn.
func (c *Connection) readPump() {
	defer func() {
		c.shutdown()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(c.s.config.MaxReadMessageSize))
	if err := c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("unexpected close in websockets", zap.Error(err))
			}
			return
		}
		filter, err := ParseSubscription(msg)
		if err != nil {
			c.s.log.Debug("closing the connection",
				zap.String("reason", "invalid subscription"),
				zap.Error(err),
			)
			return
		}
		c.subscribe(filter)
		c.s.log.Debug("subscription updated", zap.Int("labels", filter.Len()))
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

// writePump writes queued batches and pings. It is the only writer of
// c.conn.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
		_ = c.conn.Close()
	}()

	for {
		select {
		case batch, ok := <-c.mb.Queue:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, batch); err != nil {
				c.s.log.Debug("closing the connection",
					zap.String("reason", "failed to write batch"),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
