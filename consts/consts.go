// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/version"

const (
	Name = "purpledex"
	HRP  = "purple"

	IDLen     = 32
	ByteLen   = 1
	Uint16Len = 2
	Uint64Len = 8
	MaxUint64 = ^uint64(0)
)

// TypeIDs prefixed to derived addresses
const (
	AccountID uint8 = iota
	AssetID
	PoolID
	VaultID
	LPAssetID
	AuthorityID
)

const (
	// MaxProtocolFeePercentage bounds the share of each trading fee diverted
	// to the protocol collector.
	MaxProtocolFeePercentage uint8 = 100

	// ShareScale is the fixed-point scale used when converting LP shares into
	// a proportion of the reserves.
	ShareScale uint64 = 1_000_000_000_000_000_000

	// BasisPoints is the denominator used when reporting price impact.
	BasisPoints uint64 = 10_000
)

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}
