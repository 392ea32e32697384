// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/pubsub"
)

const maxEventBatch = 256 * 1024

type WebSocketClient struct {
	conn *websocket.Conn

	// Events that arrived in a batch but have not been returned yet.
	pending []*exchange.Event

	writeLock sync.Mutex
	closeOnce sync.Once
}

// NewWebSocketClient dials the event stream. uri is the same base uri given
// to [NewJSONRPCClient].
func NewWebSocketClient(ctx context.Context, uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http://", "ws://", 1)
	uri = strings.Replace(uri, "https://", "wss://", 1)
	uri += WebSocketEndpoint

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, uri, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Body.Close(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &WebSocketClient{conn: conn}, nil
}

// ListenEvent blocks until the next event arrives or ctx is done.
func (c *WebSocketClient) ListenEvent(ctx context.Context) (*exchange.Event, error) {
	if len(c.pending) > 0 {
		ev := c.pending[0]
		c.pending = c.pending[1:]
		return ev, nil
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.Close()
	})
	defer stop()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		batch, err := pubsub.ParseBatchMessage(maxEventBatch, msg)
		if err != nil {
			return nil, err
		}
		for _, raw := range batch {
			ev := new(exchange.Event)
			if err := json.Unmarshal(raw, ev); err != nil {
				return nil, err
			}
			c.pending = append(c.pending, ev)
		}
		if len(c.pending) > 0 {
			ev := c.pending[0]
			c.pending = c.pending[1:]
			return ev, nil
		}
	}
}

// Subscribe limits the stream to events carrying any of labels: event types,
// pool addresses or account addresses. No labels restores the full stream.
// Events already in flight are not filtered.
func (c *WebSocketClient) Subscribe(labels ...string) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	return c.conn.WriteJSON(pubsub.Subscription{Labels: labels})
}

func (c *WebSocketClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}
