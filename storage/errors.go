// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"errors"
	"fmt"

	"github.com/purpledex/purpledex/consts"
)

var (
	ErrRegistryNotInitialized = fmt.Errorf("%w: registry not initialized", consts.ErrConfiguration)
	ErrPoolNotFound           = errors.New("pool not found")
	ErrCorruptRecord          = errors.New("corrupt record")
)
