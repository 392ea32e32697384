// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"github.com/holiman/uint256"

	"github.com/purpledex/purpledex/consts"
)

// InitialLiquidity returns floor(sqrt(amountA * amountB)), the LP units
// minted by the first deposit into an empty pool.
func InitialLiquidity(amountA uint64, amountB uint64) (uint64, error) {
	r := Sqrt(Product(amountA, amountB))
	if !r.IsUint64() {
		return 0, ErrOverflow
	}
	if r.IsZero() {
		return 0, ErrInsufficientMinted
	}
	return r.Uint64(), nil
}

// ProportionalLiquidity returns the LP units minted for a deposit into a pool
// that already has liquidity. The smaller of the two ratios wins, so any
// excess on the other side is donated to the pool.
func ProportionalLiquidity(
	amountA uint64,
	amountB uint64,
	reserveA uint64,
	reserveB uint64,
	totalLiquidity uint64,
) (uint64, error) {
	if reserveA == 0 || reserveB == 0 {
		return 0, ErrDivisionByZero
	}
	byA, err := MulDiv(amountA, totalLiquidity, reserveA)
	if err != nil {
		return 0, err
	}
	byB, err := MulDiv(amountB, totalLiquidity, reserveB)
	if err != nil {
		return 0, err
	}
	minted := min(byA, byB)
	if minted == 0 {
		return 0, ErrInsufficientMinted
	}
	return minted, nil
}

// WithdrawalAmounts returns the reserves owed for lpAmount. The share is taken
// at 10^18 precision and both outputs round down.
func WithdrawalAmounts(
	lpAmount uint64,
	reserveA uint64,
	reserveB uint64,
	totalLiquidity uint64,
) (uint64, uint64, error) {
	if totalLiquidity == 0 {
		return 0, 0, ErrDivisionByZero
	}
	if lpAmount > totalLiquidity {
		return 0, 0, ErrExceedsTotalLiquidity
	}
	scale := uint256.NewInt(consts.ShareScale)
	share := new(uint256.Int).Mul(uint256.NewInt(lpAmount), scale)
	share.Div(share, uint256.NewInt(totalLiquidity))

	outA := new(uint256.Int).Mul(share, uint256.NewInt(reserveA))
	outA.Div(outA, scale)
	outB := new(uint256.Int).Mul(share, uint256.NewInt(reserveB))
	outB.Div(outB, scale)
	if !outA.IsUint64() || !outB.IsUint64() {
		return 0, 0, ErrOverflow
	}
	if outA.IsZero() || outB.IsZero() {
		return 0, 0, ErrDustWithdrawal
	}
	return outA.Uint64(), outB.Uint64(), nil
}
