// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
)

var admin = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())

func TestLoad(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
admin: ` + admin.String() + `
databaseDir: /tmp/purpledex
http:
  listenAddress: 0.0.0.0:8080
  readTimeout: 5s
log:
  level: debug
invariantCheckInterval: 0s
`
	require.NoError(os.WriteFile(path, []byte(raw), 0o600))

	c, err := Load(path)
	require.NoError(err)
	require.Equal("/tmp/purpledex", c.DatabaseDir)
	require.Equal("0.0.0.0:8080", c.HTTP.ListenAddress)
	require.Equal(5*time.Second, c.HTTP.ReadTimeout)
	require.Equal(DefaultBaseURL, c.HTTP.BaseURL)
	require.Equal("debug", c.Log.Level)
	require.Zero(c.InvariantCheckInterval)
	require.True(c.MetricsEnabled)

	addr, err := c.AdminAddress()
	require.NoError(err)
	require.Equal(admin, addr)
}

func TestLoadUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admins: nobody\n"), 0o600))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:   "missing admin",
			modify: func(c *Config) { c.Admin = "" },
			err:    ErrMissingAdmin,
		},
		{
			name: "admin is not an account",
			modify: func(c *Config) {
				c.Admin = codec.CreateAddress(consts.AssetID, ids.GenerateTestID()).String()
			},
			err: ErrInvalidAdmin,
		},
		{
			name:   "missing listen address",
			modify: func(c *Config) { c.HTTP.ListenAddress = "" },
			err:    ErrMissingListenAddress,
		},
		{
			name:   "negative interval",
			modify: func(c *Config) { c.InvariantCheckInterval = -time.Second },
			err:    ErrNegativeInterval,
		},
		{
			name:   "bad log level",
			modify: func(c *Config) { c.Log.Level = "loud" },
			err:    ErrMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			c := NewDefaultConfig()
			c.Admin = admin.String()
			tt.modify(c)
			err := c.Verify()
			require.ErrorIs(err, tt.err)
			if tt.err != nil {
				require.ErrorIs(err, consts.ErrConfiguration)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	require := require.New(t)

	c := NewDefaultConfig()
	c.Admin = admin.String()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(c.Save(path))

	loaded, err := Load(path)
	require.NoError(err)
	require.Equal(c, loaded)
}

func TestLoopback(t *testing.T) {
	tests := []struct {
		address  string
		loopback bool
	}{
		{address: DefaultListenAddress, loopback: true},
		{address: "localhost:9650", loopback: true},
		{address: "[::1]:9650", loopback: true},
		{address: "0.0.0.0:9650", loopback: false},
		{address: ":9650", loopback: false},
		{address: "10.0.0.7:9650", loopback: false},
		{address: "nonsense", loopback: false},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			cfg := HTTPConfig{ListenAddress: tt.address}
			require.Equal(t, tt.loopback, cfg.Loopback())
		})
	}
}
