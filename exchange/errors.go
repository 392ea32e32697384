// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"errors"
	"fmt"

	"github.com/purpledex/purpledex/consts"
)

var (
	ErrUnauthorized       = fmt.Errorf("%w: caller is not the admin", consts.ErrAuthorization)
	ErrIdenticalTokens    = fmt.Errorf("%w: pool tokens must differ", consts.ErrConfiguration)
	ErrAssetMismatch      = fmt.Errorf("%w: assets do not match the pool", consts.ErrConfiguration)
	ErrNotMintable        = fmt.Errorf("%w: asset cannot be minted directly", consts.ErrConfiguration)
	ErrInsufficientShares = fmt.Errorf("%w: lp amount exceeds balance", consts.ErrLiquidity)
	ErrZeroAmount         = fmt.Errorf("%w: amount is zero", consts.ErrLiquidity)

	ErrPoolExists      = errors.New("pool already exists")
	ErrInvariantBroken = errors.New("invariant broken")
)
