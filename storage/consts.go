// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes. The reference ledger owns prefixes from 0x10.
const (
	registryPrefix byte = iota
	poolPrefix
	poolIndexPrefix
	poolSequencePrefix
)

// Seeds mixed into derived addresses
const (
	poolSeed      = "liquidity_pool"
	authoritySeed = "authority"
	vaultSeed     = "vault"
	lpAssetSeed   = "lp_asset"
)

// DefaultAuthorityBump is the nonce used to derive a pool's authority.
const DefaultAuthorityBump uint8 = 255
