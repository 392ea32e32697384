// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"github.com/holiman/uint256"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Add64 returns a + b, failing with [ErrOverflow].
func Add64(a, b uint64) (uint64, error) {
	v, err := smath.Add(a, b)
	if err != nil {
		return 0, ErrOverflow
	}
	return v, nil
}

// Sub64 returns a - b, failing with [ErrUnderflow].
func Sub64(a, b uint64) (uint64, error) {
	v, err := smath.Sub(a, b)
	if err != nil {
		return 0, ErrUnderflow
	}
	return v, nil
}

// MulDiv returns floor(a * b / c) computed over 256 bits. The result must fit
// in 64 bits.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	v := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	v.Div(v, uint256.NewInt(c))
	if !v.IsUint64() {
		return 0, ErrOverflow
	}
	return v.Uint64(), nil
}

// Sqrt returns the largest r such that r*r <= v, found by binary search.
func Sqrt(v *uint256.Int) *uint256.Int {
	var (
		lo     = new(uint256.Int)
		hi     = new(uint256.Int).Set(v)
		result = new(uint256.Int)
		one    = uint256.NewInt(1)
	)
	// sqrt(2^256 - 1) < 2^128
	if limit := new(uint256.Int).Lsh(one, 128); hi.Gt(limit) {
		hi.Set(limit)
	}
	for !lo.Gt(hi) {
		mid := new(uint256.Int).Add(lo, hi)
		mid.Rsh(mid, 1)
		sq, overflow := new(uint256.Int).MulOverflow(mid, mid)
		switch {
		case !overflow && sq.Eq(v):
			return mid
		case !overflow && sq.Lt(v):
			result.Set(mid)
			lo.Add(mid, one)
		default:
			if mid.IsZero() {
				return result
			}
			hi.Sub(mid, one)
		}
	}
	return result
}

// Product returns a * b without truncation.
func Product(a, b uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
}
