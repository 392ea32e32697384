// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"

	"go.uber.org/zap"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/pricing"
	"github.com/purpledex/purpledex/state"
	"github.com/purpledex/purpledex/storage"
)

// Initialize writes the registry. Calling it again overwrites the fee
// schedule and collector and resets PoolsCount; existing pools keep the fees
// they were created with.
func (e *Exchange) Initialize(
	ctx context.Context,
	caller codec.Address,
	feeNumerator uint64,
	feeDenominator uint64,
	protocolFeePercentage uint8,
	feeCollector codec.Address,
) (*storage.Registry, error) {
	if caller != e.admin {
		return nil, ErrUnauthorized
	}
	fees := pricing.FeeSchedule{
		Numerator:          feeNumerator,
		Denominator:        feeDenominator,
		ProtocolPercentage: protocolFeePercentage,
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}

	r := &storage.Registry{
		Admin:                 caller,
		PoolsCount:            0,
		FeeNumerator:          feeNumerator,
		FeeDenominator:        feeDenominator,
		ProtocolFeePercentage: protocolFeePercentage,
		FeeCollector:          feeCollector,
	}
	keys := state.Keys{string(storage.RegistryKey()): state.All}
	err := e.execute(ctx, "Initialize", keys, func(ctx context.Context, v *state.View) error {
		return storage.SetRegistry(ctx, v, r)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("registry initialized",
		zap.Stringer("admin", r.Admin),
		zap.Uint64("feeNumerator", r.FeeNumerator),
		zap.Uint64("feeDenominator", r.FeeDenominator),
		zap.Uint8("protocolFeePercentage", r.ProtocolFeePercentage),
		zap.Stringer("feeCollector", r.FeeCollector),
	)
	return r, nil
}

// Registry returns the current registry.
func (e *Exchange) Registry(ctx context.Context) (*storage.Registry, error) {
	var r *storage.Registry
	keys := state.Keys{string(storage.RegistryKey()): state.Read}
	err := e.query(ctx, "Registry", keys, func(ctx context.Context, v *state.View) error {
		var err error
		r, err = storage.GetRegistry(ctx, v)
		return err
	})
	return r, err
}
