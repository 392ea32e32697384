// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

const (
	readBufferSize  = units.KiB
	writeBufferSize = 4 * units.KiB
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second

	// A subscription is the only thing a client sends.
	maxReadMessageSize = 16 * units.KiB
	maxWriteMessage    = 64 * units.KiB
	maxPendingMessages = 1024
	targetWriteDelay   = 50 * time.Millisecond
)
