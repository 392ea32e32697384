// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import "sync"

// connections is the set of clients attached to a [Server].
type connections struct {
	lock  sync.RWMutex
	conns map[*Connection]struct{}
}

func newConnections() *connections {
	return &connections{conns: make(map[*Connection]struct{})}
}

func (c *connections) add(conn *Connection) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.conns[conn] = struct{}{}
}

// remove reports whether conn was still attached.
func (c *connections) remove(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	_, ok := c.conns[conn]
	delete(c.conns, conn)
	return ok
}

// snapshot copies the set so callers can write without holding the lock.
func (c *connections) snapshot() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	out := make([]*Connection, 0, len(c.conns))
	for conn := range c.conns {
		out = append(out, conn)
	}
	return out
}

func (c *connections) len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return len(c.conns)
}
