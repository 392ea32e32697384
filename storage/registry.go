// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/state"
)

// Registry is the exchange-wide configuration.
type Registry struct {
	Admin                 codec.Address `json:"admin"`
	PoolsCount            uint64        `json:"poolsCount"`
	FeeNumerator          uint64        `json:"feeNumerator"`
	FeeDenominator        uint64        `json:"feeDenominator"`
	ProtocolFeePercentage uint8         `json:"protocolFeePercentage"`
	FeeCollector          codec.Address `json:"feeCollector"`
}

func (r *Registry) Fees() pricing.FeeSchedule {
	return pricing.FeeSchedule{
		Numerator:          r.FeeNumerator,
		Denominator:        r.FeeDenominator,
		ProtocolPercentage: r.ProtocolFeePercentage,
	}
}

func RegistryKey() []byte {
	return []byte{registryPrefix}
}

func GetRegistry(ctx context.Context, im state.Immutable) (*Registry, error) {
	v, err := im.GetValue(ctx, RegistryKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrRegistryNotInitialized
	}
	if err != nil {
		return nil, err
	}
	r := new(Registry)
	if err := borsh.Deserialize(r, v); err != nil {
		return nil, errors.Join(ErrCorruptRecord, err)
	}
	return r, nil
}

func SetRegistry(ctx context.Context, mu state.Mutable, r *Registry) error {
	v, err := borsh.Serialize(*r)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, RegistryKey(), v)
}
