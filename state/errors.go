// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "errors"

var (
	ErrKeyNotSpecified    = errors.New("key not specified")
	ErrInvalidPermissions = errors.New("invalid permissions")
	ErrViewCommitted      = errors.New("view already committed")
)
