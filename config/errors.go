// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"

	"github.com/purpledex/purpledex/consts"
)

var (
	ErrMalformed            = fmt.Errorf("%w: malformed config", consts.ErrConfiguration)
	ErrMissingAdmin         = fmt.Errorf("%w: admin not set", consts.ErrConfiguration)
	ErrInvalidAdmin         = fmt.Errorf("%w: invalid admin", consts.ErrConfiguration)
	ErrMissingListenAddress = fmt.Errorf("%w: listen address not set", consts.ErrConfiguration)
	ErrNegativeInterval     = fmt.Errorf("%w: negative invariant check interval", consts.ErrConfiguration)
)
