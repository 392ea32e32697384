// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
)

// PoolAddress derives the pool identity of the ordered pair (tokenA, tokenB).
// The pair is not sorted, so (A, B) and (B, A) name different pools.
func PoolAddress(tokenA codec.Address, tokenB codec.Address) codec.Address {
	return codec.DeriveAddress(consts.PoolID, []byte(poolSeed), tokenA[:], tokenB[:])
}

// AuthorityAddress derives the signer that owns a pool's vaults and LP asset.
func AuthorityAddress(pool codec.Address, bump uint8) codec.Address {
	return codec.DeriveAddress(consts.AuthorityID, []byte(authoritySeed), pool[:], []byte{bump})
}

// VaultAddress derives the ledger account holding a pool's reserve of asset.
func VaultAddress(pool codec.Address, asset codec.Address) codec.Address {
	return codec.DeriveAddress(consts.VaultID, []byte(vaultSeed), pool[:], asset[:])
}

func LPAssetAddress(pool codec.Address) codec.Address {
	return codec.DeriveAddress(consts.LPAssetID, []byte(lpAssetSeed), pool[:])
}
