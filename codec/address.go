// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

const AddressLen = 33

// Address identifies an account, asset, pool, or vault. The first byte is the
// type the address was derived for; the remaining 32 bytes are an id.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// DeriveAddress hashes [parts] together and prefixes the digest with
// [typeID]. It is used for every address the exchange derives on its own
// (pools, vaults, LP assets, authorities).
func DeriveAddress(typeID uint8, parts ...[]byte) Address {
	id := ids.ID(hashing.ComputeHash256Array(bytes.Join(parts, nil)))
	return CreateAddress(typeID, id)
}

// ToAddress copies [b] into an Address. [b] must be exactly [AddressLen]
// bytes long.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, ErrInvalidSize
	}
	copy(a[:], b)
	return a, nil
}

// StringToAddress parses either the hex or the bech32 form of an address.
func StringToAddress(s string) (Address, error) {
	if strings.HasPrefix(s, bech32Prefix) {
		return ParseBech32(s)
	}
	return ParseHex(s)
}

// TypeID returns the type the address was derived for.
func (a Address) TypeID() uint8 {
	return a[0]
}

func (a Address) Empty() bool {
	return a == EmptyAddress
}

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex or bech32 encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := StringToAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
