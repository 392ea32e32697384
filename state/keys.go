// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys holds the state keys an operation touches and the permissions it
// needs on each. Use [Keys.Add] so that declaring a key twice unions the
// permissions instead of overwriting them.
type Keys map[string]Permissions

// All acceptable permission options
type Permissions byte

func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Union adds every key of other to k.
func (k Keys) Union(other Keys) {
	for name, permission := range other {
		k.Add(name, permission)
	}
}

// Sorted returns the key names in ascending byte order.
func (k Keys) Sorted() []string {
	names := maps.Keys(k)
	slices.Sort(names)
	return names
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}
