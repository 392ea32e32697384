// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/purpledex/purpledex/consts"
)

var (
	ErrInvalidFeeFraction = fmt.Errorf("%w: fee numerator must be in (0, denominator)", consts.ErrConfiguration)
	ErrInvalidProtocolFee = fmt.Errorf("%w: protocol fee percentage exceeds 100", consts.ErrConfiguration)

	ErrZeroInput             = fmt.Errorf("%w: input amount is zero", consts.ErrLiquidity)
	ErrReservesZero          = fmt.Errorf("%w: reserves are zero", consts.ErrLiquidity)
	ErrZeroOutput            = fmt.Errorf("%w: output amount is zero", consts.ErrLiquidity)
	ErrOutputExceedsReserve  = fmt.Errorf("%w: output exceeds reserve", consts.ErrLiquidity)
	ErrInsufficientMinted    = fmt.Errorf("%w: insufficient liquidity minted", consts.ErrLiquidity)
	ErrDustWithdrawal        = fmt.Errorf("%w: withdrawal rounds to zero", consts.ErrLiquidity)
	ErrExceedsTotalLiquidity = fmt.Errorf("%w: amount exceeds total liquidity", consts.ErrLiquidity)
	ErrOverflow              = fmt.Errorf("%w: arithmetic overflow", consts.ErrLiquidity)
	ErrUnderflow             = fmt.Errorf("%w: arithmetic underflow", consts.ErrLiquidity)
	ErrDivisionByZero        = fmt.Errorf("%w: division by zero", consts.ErrLiquidity)
	ErrProductDecreased      = fmt.Errorf("%w: reserve product decreased", consts.ErrLiquidity)

	ErrSlippageExceeded = fmt.Errorf("%w: output below minimum", consts.ErrSlippage)
)
