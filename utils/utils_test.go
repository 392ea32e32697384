// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1,000"},
		{100_000, "100,000"},
		{1_234_567, "1,234,567"},
		{math.MaxUint64, "18,446,744,073,709,551,615"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require := require.New(t)

			require.Equal(tt.expected, FormatAmount(tt.amount))
			parsed, err := ParseAmount(tt.expected)
			require.NoError(err)
			require.Equal(tt.amount, parsed)
		})
	}
}

func TestParseAmount(t *testing.T) {
	require := require.New(t)

	v, err := ParseAmount(" 10_000 ")
	require.NoError(err)
	require.Equal(uint64(10_000), v)

	_, err = ParseAmount("-1")
	require.Error(err)
	_, err = ParseAmount("1.5")
	require.Error(err)
}

func TestHostAndPort(t *testing.T) {
	require := require.New(t)

	host, err := GetHost("http://127.0.0.1:9650/ext")
	require.NoError(err)
	require.Equal("127.0.0.1", host)
	port, err := GetPort("http://127.0.0.1:9650/ext")
	require.NoError(err)
	require.Equal("9650", port)
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	p, err := InitSubDirectory(root, "db")
	require.NoError(err)
	require.Equal(filepath.Join(root, "db"), p)
	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())
}
