// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "github.com/purpledex/purpledex/consts"

// FeeSchedule is the fee configuration a pool freezes at creation.
type FeeSchedule struct {
	Numerator          uint64 `json:"numerator"`
	Denominator        uint64 `json:"denominator"`
	ProtocolPercentage uint8  `json:"protocolPercentage"`
}

func (f FeeSchedule) Validate() error {
	if f.Numerator == 0 || f.Denominator == 0 || f.Numerator >= f.Denominator {
		return ErrInvalidFeeFraction
	}
	if f.ProtocolPercentage > consts.MaxProtocolFeePercentage {
		return ErrInvalidProtocolFee
	}
	return nil
}

// Breakdown splits the fee charged on input. Returns the total fee and the
// protocol's portion of it, both rounded down.
func (f FeeSchedule) Breakdown(input uint64) (uint64, uint64, error) {
	totalFee, err := MulDiv(input, f.Numerator, f.Denominator)
	if err != nil {
		return 0, 0, err
	}
	protocolFee, err := MulDiv(totalFee, uint64(f.ProtocolPercentage), uint64(consts.MaxProtocolFeePercentage))
	if err != nil {
		return 0, 0, err
	}
	return totalFee, protocolFee, nil
}
