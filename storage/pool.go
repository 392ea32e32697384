// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/state"
)

// Pool is the persisted state of one ordered token pair. Reserves are not
// stored here: they are the ledger balances of VaultA and VaultB.
type Pool struct {
	TokenA                codec.Address `json:"tokenA"`
	TokenB                codec.Address `json:"tokenB"`
	VaultA                codec.Address `json:"vaultA"`
	VaultB                codec.Address `json:"vaultB"`
	LPAsset               codec.Address `json:"lpAsset"`
	AuthorityBump         uint8         `json:"authorityBump"`
	TotalLiquidity        uint64        `json:"totalLiquidity"`
	FeeNumerator          uint64        `json:"feeNumerator"`
	FeeDenominator        uint64        `json:"feeDenominator"`
	ProtocolFeePercentage uint8         `json:"protocolFeePercentage"`
	ProtocolFeesTokenA    uint64        `json:"protocolFeesTokenA"`
	ProtocolFeesTokenB    uint64        `json:"protocolFeesTokenB"`
	ModelID               uint8         `json:"modelID"`
	Index                 uint64        `json:"index"`
}

// NewPool lays out a fresh pool for (tokenA, tokenB) using the registry's
// current fee schedule. index is the pool's creation sequence number.
func NewPool(tokenA codec.Address, tokenB codec.Address, r *Registry, index uint64) *Pool {
	addr := PoolAddress(tokenA, tokenB)
	return &Pool{
		TokenA:                tokenA,
		TokenB:                tokenB,
		VaultA:                VaultAddress(addr, tokenA),
		VaultB:                VaultAddress(addr, tokenB),
		LPAsset:               LPAssetAddress(addr),
		AuthorityBump:         DefaultAuthorityBump,
		FeeNumerator:          r.FeeNumerator,
		FeeDenominator:        r.FeeDenominator,
		ProtocolFeePercentage: r.ProtocolFeePercentage,
		ModelID:               pricing.ConstantProductID,
		Index:                 index,
	}
}

func (p *Pool) Address() codec.Address {
	return PoolAddress(p.TokenA, p.TokenB)
}

// Authority returns the signer that owns the pool's vaults and LP asset.
func (p *Pool) Authority() codec.Address {
	return AuthorityAddress(p.Address(), p.AuthorityBump)
}

func (p *Pool) Fees() pricing.FeeSchedule {
	return pricing.FeeSchedule{
		Numerator:          p.FeeNumerator,
		Denominator:        p.FeeDenominator,
		ProtocolPercentage: p.ProtocolFeePercentage,
	}
}

// Side reports whether asset is the pool's token A (true) or token B
// (false). ok is false when the asset is not part of the pair.
func (p *Pool) Side(asset codec.Address) (isA bool, ok bool) {
	switch asset {
	case p.TokenA:
		return true, true
	case p.TokenB:
		return false, true
	default:
		return false, false
	}
}

func PoolKey(pool codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = poolPrefix
	copy(k[1:], pool[:])
	return k
}

func GetPool(ctx context.Context, im state.Immutable, pool codec.Address) (*Pool, error) {
	v, err := im.GetValue(ctx, PoolKey(pool))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrPoolNotFound
	}
	if err != nil {
		return nil, err
	}
	p := new(Pool)
	if err := borsh.Deserialize(p, v); err != nil {
		return nil, errors.Join(ErrCorruptRecord, err)
	}
	return p, nil
}

func PoolExists(ctx context.Context, im state.Immutable, pool codec.Address) (bool, error) {
	_, err := im.GetValue(ctx, PoolKey(pool))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func SetPool(ctx context.Context, mu state.Mutable, p *Pool) error {
	v, err := borsh.Serialize(*p)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, PoolKey(p.Address()), v)
}

// PoolIndexKey maps a pool's creation sequence number to its address, so
// pools can be listed in order without iterating the database.
func PoolIndexKey(index uint64) []byte {
	k := make([]byte, 1+consts.Uint64Len)
	k[0] = poolIndexPrefix
	binary.BigEndian.PutUint64(k[1:], index)
	return k
}

func GetPoolAtIndex(ctx context.Context, im state.Immutable, index uint64) (codec.Address, error) {
	v, err := im.GetValue(ctx, PoolIndexKey(index))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, ErrPoolNotFound
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ToAddress(v)
}

func SetPoolAtIndex(ctx context.Context, mu state.Mutable, index uint64, pool codec.Address) error {
	return mu.Insert(ctx, PoolIndexKey(index), pool[:])
}

// PoolSequenceKey holds the number of pools ever created. Unlike
// [Registry.PoolsCount] it survives re-initialization, so index entries are
// never reused.
func PoolSequenceKey() []byte {
	return []byte{poolSequencePrefix}
}

func GetPoolSequence(ctx context.Context, im state.Immutable) (uint64, error) {
	v, err := im.GetValue(ctx, PoolSequenceKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrCorruptRecord
	}
	return binary.BigEndian.Uint64(v), nil
}

func SetPoolSequence(ctx context.Context, mu state.Mutable, sequence uint64) error {
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, sequence)
	return mu.Insert(ctx, PoolSequenceKey(), v)
}
