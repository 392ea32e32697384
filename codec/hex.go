// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const hexPrefix = "0x"

// ParseHex decodes the hex form of an address. The 0x prefix is optional.
func ParseHex(s string) (Address, error) {
	s = strings.TrimPrefix(s, hexPrefix)
	if len(s) != hex.EncodedLen(AddressLen) {
		return EmptyAddress, fmt.Errorf("%w: %d hex characters", ErrInvalidSize, len(s))
	}
	var a Address
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return EmptyAddress, err
	}
	return a, nil
}

// String implements fmt.Stringer with the 0x-prefixed hex form.
func (a Address) String() string {
	return hexPrefix + hex.EncodeToString(a[:])
}
