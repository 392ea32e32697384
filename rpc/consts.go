// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name              = "purpledex"
	JSONRPCEndpoint   = "/purpledex"
	WebSocketEndpoint = "/purpledexws"

	// MaxPools caps a single pools listing.
	MaxPools = 256
)
