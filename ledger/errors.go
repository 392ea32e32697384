// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"fmt"

	"github.com/purpledex/purpledex/consts"
)

var (
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", consts.ErrLiquidity)
	ErrInsufficientSupply  = fmt.Errorf("%w: insufficient supply", consts.ErrLiquidity)
	ErrBalanceOverflow     = fmt.Errorf("%w: balance overflow", consts.ErrLiquidity)
	ErrInvalidBalance      = errors.New("invalid balance encoding")
)
