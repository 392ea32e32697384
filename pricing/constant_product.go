// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"github.com/holiman/uint256"

	"github.com/purpledex/purpledex/consts"
)

var _ Model = (*ConstantProduct)(nil)

// SwapResult describes a priced exchange.
type SwapResult struct {
	Input       uint64 `json:"input"`
	InputNet    uint64 `json:"inputNet"`
	TotalFee    uint64 `json:"totalFee"`
	ProtocolFee uint64 `json:"protocolFee"`
	Output      uint64 `json:"output"`
}

// Quote is a [SwapResult] together with the price impact of the trade,
// expressed in basis points against the current spot price.
type Quote struct {
	SwapResult
	PriceImpactBps uint64 `json:"priceImpactBps"`
}

type ConstantProduct struct {
	reserveA       uint64
	reserveB       uint64
	totalLiquidity uint64
	fees           FeeSchedule
}

func NewConstantProduct(
	reserveA uint64,
	reserveB uint64,
	totalLiquidity uint64,
	fees FeeSchedule,
) Model {
	return &ConstantProduct{
		reserveA:       reserveA,
		reserveB:       reserveB,
		totalLiquidity: totalLiquidity,
		fees:           fees,
	}
}

func (c *ConstantProduct) AddLiquidity(amountA uint64, amountB uint64) (uint64, error) {
	var (
		minted uint64
		err    error
	)
	if c.totalLiquidity == 0 {
		minted, err = InitialLiquidity(amountA, amountB)
	} else {
		minted, err = ProportionalLiquidity(amountA, amountB, c.reserveA, c.reserveB, c.totalLiquidity)
	}
	if err != nil {
		return 0, err
	}

	reserveA, err := Add64(c.reserveA, amountA)
	if err != nil {
		return 0, err
	}
	reserveB, err := Add64(c.reserveB, amountB)
	if err != nil {
		return 0, err
	}
	totalLiquidity, err := Add64(c.totalLiquidity, minted)
	if err != nil {
		return 0, err
	}
	c.reserveA, c.reserveB, c.totalLiquidity = reserveA, reserveB, totalLiquidity
	return minted, nil
}

func (c *ConstantProduct) RemoveLiquidity(lpAmount uint64) (uint64, uint64, error) {
	outA, outB, err := WithdrawalAmounts(lpAmount, c.reserveA, c.reserveB, c.totalLiquidity)
	if err != nil {
		return 0, 0, err
	}
	reserveA, err := Sub64(c.reserveA, outA)
	if err != nil {
		return 0, 0, err
	}
	reserveB, err := Sub64(c.reserveB, outB)
	if err != nil {
		return 0, 0, err
	}
	totalLiquidity, err := Sub64(c.totalLiquidity, lpAmount)
	if err != nil {
		return 0, 0, err
	}
	c.reserveA, c.reserveB, c.totalLiquidity = reserveA, reserveB, totalLiquidity
	return outA, outB, nil
}

func (c *ConstantProduct) Swap(input uint64, minimumOutput uint64, aToB bool) (*SwapResult, error) {
	res, err := c.price(input, aToB)
	if err != nil {
		return nil, err
	}
	if res.Output < minimumOutput {
		return nil, ErrSlippageExceeded
	}

	reserveIn, reserveOut := c.directed(aToB)
	oldK := Product(reserveIn, reserveOut)
	newIn, err := Add64(reserveIn, input)
	if err != nil {
		return nil, err
	}
	newOut, err := Sub64(reserveOut, res.Output)
	if err != nil {
		return nil, err
	}
	if Product(newIn, newOut).Lt(oldK) {
		return nil, ErrProductDecreased
	}
	if aToB {
		c.reserveA, c.reserveB = newIn, newOut
	} else {
		c.reserveB, c.reserveA = newIn, newOut
	}
	return res, nil
}

func (c *ConstantProduct) Quote(input uint64, aToB bool) (*Quote, error) {
	res, err := c.price(input, aToB)
	if err != nil {
		return nil, err
	}
	reserveIn, reserveOut := c.directed(aToB)

	// impact = 1 - (output / input) / (reserveOut / reserveIn)
	ideal := Product(input, reserveOut)
	actual := Product(res.Output, reserveIn)
	impact := new(uint256.Int)
	if actual.Lt(ideal) {
		impact.Sub(ideal, actual)
		impact.Mul(impact, uint256.NewInt(consts.BasisPoints))
		impact.Div(impact, ideal)
	}
	return &Quote{SwapResult: *res, PriceImpactBps: impact.Uint64()}, nil
}

func (c *ConstantProduct) GetState() (uint64, uint64, uint64) {
	return c.reserveA, c.reserveB, c.totalLiquidity
}

func (c *ConstantProduct) directed(aToB bool) (uint64, uint64) {
	if aToB {
		return c.reserveA, c.reserveB
	}
	return c.reserveB, c.reserveA
}

func (c *ConstantProduct) price(input uint64, aToB bool) (*SwapResult, error) {
	if input == 0 {
		return nil, ErrZeroInput
	}
	totalFee, protocolFee, err := c.fees.Breakdown(input)
	if err != nil {
		return nil, err
	}
	inputNet, err := Sub64(input, totalFee)
	if err != nil {
		return nil, err
	}
	reserveIn, reserveOut := c.directed(aToB)
	output, err := OutputAmount(inputNet, reserveIn, reserveOut)
	if err != nil {
		return nil, err
	}
	return &SwapResult{
		Input:       input,
		InputNet:    inputNet,
		TotalFee:    totalFee,
		ProtocolFee: protocolFee,
		Output:      output,
	}, nil
}

// OutputAmount returns floor(reserveOut * inputNet / (reserveIn + inputNet)).
func OutputAmount(inputNet uint64, reserveIn uint64, reserveOut uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrReservesZero
	}
	denom := new(uint256.Int).AddUint64(uint256.NewInt(reserveIn), inputNet)
	out := new(uint256.Int).Mul(uint256.NewInt(reserveOut), uint256.NewInt(inputNet))
	out.Div(out, denom)
	if out.IsZero() {
		return 0, ErrZeroOutput
	}
	if !out.IsUint64() || out.Uint64() > reserveOut {
		return 0, ErrOutputExceedsReserve
	}
	return out.Uint64(), nil
}
