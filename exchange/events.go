// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"github.com/purpledex/purpledex/codec"
)

type EventType string

const (
	PoolCreated        EventType = "poolCreated"
	LiquidityDeposited EventType = "liquidityDeposited"
	LiquidityWithdrawn EventType = "liquidityWithdrawn"
	SwapExecuted       EventType = "swapExecuted"
	FeesCollected      EventType = "feesCollected"
)

// Event describes a committed pool state change. Fields not relevant to
// the event type are zero.
type Event struct {
	Type    EventType     `json:"type"`
	Pool    codec.Address `json:"pool"`
	Account codec.Address `json:"account"`

	// Pool creation
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`

	// Deposits, withdrawals and fee collections
	AmountA uint64 `json:"amountA,omitempty"`
	AmountB uint64 `json:"amountB,omitempty"`
	Shares  uint64 `json:"shares,omitempty"`

	// Swaps
	Source      codec.Address `json:"source"`
	Destination codec.Address `json:"destination"`
	Input       uint64        `json:"input,omitempty"`
	Output      uint64        `json:"output,omitempty"`
	TotalFee    uint64        `json:"totalFee,omitempty"`
	ProtocolFee uint64        `json:"protocolFee,omitempty"`
}

// Listener is notified after each committed pool state change. Events from
// concurrent operations on different pools may arrive in any order.
type Listener interface {
	OnEvent(*Event)
}

// AddListener registers l. It must be called before the exchange is used.
func (e *Exchange) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Exchange) emit(ev *Event) {
	for _, l := range e.listeners {
		l.OnEvent(ev)
	}
}
