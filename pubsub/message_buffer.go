// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/zap"
)

// MessageBuffer groups outbound messages into batches. A batch is queued once
// adding a message would push it past maxSize bytes, or once timeout has
// passed since its first message. Batches that do not fit in Queue are
// dropped and reported to onDrop.
type MessageBuffer struct {
	Queue chan []byte

	log     logging.Logger
	maxSize int
	timeout time.Duration
	onDrop  func(messages int)
	flusher *timer.Timer

	l      sync.Mutex
	batch  [][]byte
	size   int
	closed bool
}

func NewMessageBuffer(
	log logging.Logger,
	pending int,
	maxSize int,
	timeout time.Duration,
	onDrop func(messages int),
) *MessageBuffer {
	m := &MessageBuffer{
		Queue:   make(chan []byte, pending),
		log:     log,
		maxSize: maxSize,
		timeout: timeout,
		onDrop:  onDrop,
	}
	m.flusher = timer.NewTimer(m.flushOnTimeout)
	go m.flusher.Dispatch()
	return m
}

func (m *MessageBuffer) flushOnTimeout() {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return
	}
	m.flushLocked()
}

// flushLocked queues the current batch, if any. m.l must be held.
func (m *MessageBuffer) flushLocked() {
	count := len(m.batch)
	if count == 0 {
		return
	}
	select {
	case m.Queue <- CreateBatchMessage(m.batch):
		m.log.Debug("queued batch", zap.Int("messages", count))
	default:
		m.log.Debug("dropped batch", zap.Int("messages", count))
		if m.onDrop != nil {
			m.onDrop(count)
		}
	}
	m.batch = nil
	m.size = 0
}

// Send adds msg to the current batch.
func (m *MessageBuffer) Send(msg []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	switch {
	case m.closed:
		return ErrClosed
	case len(msg) > m.maxSize:
		return ErrMessageTooLarge
	}

	if m.size+len(msg) > m.maxSize {
		m.flusher.Cancel()
		m.flushLocked()
	}
	m.batch = append(m.batch, msg)
	m.size += len(msg)
	if len(m.batch) == 1 {
		m.flusher.SetTimeoutIn(m.timeout)
	}
	return nil
}

// Close queues whatever is pending and closes Queue. The reader is expected
// to drain Queue before dropping the connection.
func (m *MessageBuffer) Close() error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.flushLocked()
	m.flusher.Stop()
	m.closed = true
	close(m.Queue)
	return nil
}
