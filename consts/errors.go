// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "errors"

// Error kinds. Every concrete failure in the engine wraps exactly one of
// these, so callers can branch on the kind with errors.Is while still
// reporting the specific cause.
var (
	ErrAuthorization = errors.New("authorization error")
	ErrConfiguration = errors.New("configuration error")
	ErrLiquidity     = errors.New("liquidity error")
	ErrSlippage      = errors.New("slippage error")
	ErrFeeCollection = errors.New("fee collection error")
)
