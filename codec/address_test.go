// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	require := require.New(t)
	typeID := byte(0)
	addrID := ids.GenerateTestID()

	addr := CreateAddress(typeID, addrID)
	addrStr, err := addr.MarshalText()
	require.NoError(err)

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
	require.Equal(typeID, parsedAddr.TypeID())
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(3, ids.GenerateTestID())

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestAddressBech32(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(1, ids.GenerateTestID())

	s, err := addr.Bech32()
	require.NoError(err)
	require.Contains(s, bech32Prefix)

	parsed, err := StringToAddress(s)
	require.NoError(err)
	require.Equal(addr, parsed)
}

func TestDeriveAddress(t *testing.T) {
	require := require.New(t)
	a := CreateAddress(1, ids.GenerateTestID())
	b := CreateAddress(1, ids.GenerateTestID())

	ab := DeriveAddress(2, a[:], b[:])
	ba := DeriveAddress(2, b[:], a[:])
	require.NotEqual(ab, ba)
	require.Equal(ab, DeriveAddress(2, a[:], b[:]))
	require.Equal(uint8(2), ab.TypeID())
}

func TestStringToAddressErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "short hex", input: "0x0102"},
		{name: "not hex", input: "0xzz"},
		{name: "bad bech32 checksum", input: bech32Prefix + "qqqqqqqq"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StringToAddress(tt.input)
			require.Error(t, err)
		})
	}
}

func TestCompare(t *testing.T) {
	require := require.New(t)
	lo := CreateAddress(0, ids.Empty)
	hi := CreateAddress(1, ids.Empty)
	require.Negative(lo.Compare(hi))
	require.Positive(hi.Compare(lo))
	require.Zero(lo.Compare(lo))
	require.True(EmptyAddress.Empty())
}

func TestParseHex(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(2, ids.GenerateTestID())

	withPrefix, err := ParseHex(addr.String())
	require.NoError(err)
	require.Equal(addr, withPrefix)

	bare, err := ParseHex(addr.String()[len(hexPrefix):])
	require.NoError(err)
	require.Equal(addr, bare)

	_, err = ParseHex(addr.String()[:len(addr.String())-2])
	require.ErrorIs(err, ErrInvalidSize)
}
