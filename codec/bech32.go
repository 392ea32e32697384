// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/purpledex/purpledex/consts"
)

// bech32Prefix is the human readable part plus separator every bech32
// address produced by this package starts with.
const bech32Prefix = consts.HRP + "1"

// Bech32 returns the human readable form of [a].
func (a Address) Bech32() (string, error) {
	p, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(consts.HRP, p)
}

// ParseBech32 decodes [s] and verifies it carries the expected HRP.
func ParseBech32(s string) (Address, error) {
	hrp, p, err := bech32.Decode(s)
	if err != nil {
		return EmptyAddress, err
	}
	if hrp != consts.HRP {
		return EmptyAddress, fmt.Errorf("%w: expected %q, found %q", ErrIncorrectHRP, consts.HRP, hrp)
	}
	b, err := bech32.ConvertBits(p, 5, 8, false)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}
