// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/purpledex/purpledex/consts"
)

// IDs for pricing models
const (
	InvalidModelID uint8 = iota
	ConstantProductID
)

// ErrUnknownModel is returned by [New] for an unregistered model ID.
var ErrUnknownModel = fmt.Errorf("%w: pricing model does not exist", consts.ErrConfiguration)

type Model interface {
	// AddLiquidity returns the LP units minted for the deposit.
	AddLiquidity(amountA uint64, amountB uint64) (uint64, error)
	// RemoveLiquidity returns the amounts of A and B paid out.
	RemoveLiquidity(lpAmount uint64) (uint64, uint64, error)
	// Swap prices and applies an exchange of input in the given direction.
	Swap(input uint64, minimumOutput uint64, aToB bool) (*SwapResult, error)
	// Quote prices an exchange without applying it.
	Quote(input uint64, aToB bool) (*Quote, error)
	// GetState returns reserveA, reserveB and totalLiquidity.
	GetState() (uint64, uint64, uint64)
}

type NewModel func(reserveA, reserveB, totalLiquidity uint64, fees FeeSchedule) Model

var Models map[uint8]NewModel

func init() {
	Models = make(map[uint8]NewModel)

	// Append any additional pricing models here
	Models[ConstantProductID] = NewConstantProduct
}

// New builds the model registered under id.
func New(id uint8, reserveA, reserveB, totalLiquidity uint64, fees FeeSchedule) (Model, error) {
	f, ok := Models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, id)
	}
	return f(reserveA, reserveB, totalLiquidity, fees), nil
}
