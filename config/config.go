// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/purpledex/purpledex/codec"
	"github.com/purpledex/purpledex/consts"
	"github.com/purpledex/purpledex/logger"
	"github.com/purpledex/purpledex/pebble"
	"github.com/purpledex/purpledex/trace"
)

const (
	DefaultListenAddress = "127.0.0.1:9650"
	DefaultBaseURL       = "/ext"
)

type HTTPConfig struct {
	ListenAddress     string        `yaml:"listenAddress"`
	BaseURL           string        `yaml:"baseURL"`
	AllowedOrigins    []string      `yaml:"allowedOrigins"`
	AllowedHosts      []string      `yaml:"allowedHosts"`
	ReadTimeout       time.Duration `yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
}

// Loopback reports whether the listener only accepts local connections.
// Requests name their caller without proving it, so anything else lets any
// client act as the admin.
func (c HTTPConfig) Loopback() bool {
	host, _, err := net.SplitHostPort(c.ListenAddress)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

type Config struct {
	// Admin may initialize the registry, collect fees, and mint from the
	// faucet. Hex or bech32.
	Admin string `yaml:"admin"`

	// DatabaseDir is where pebble keeps its files. State is held in memory
	// when empty.
	DatabaseDir string        `yaml:"databaseDir"`
	Pebble      pebble.Config `yaml:"pebble"`

	Log   logger.Config `yaml:"log"`
	HTTP  HTTPConfig    `yaml:"http"`
	Trace trace.Config  `yaml:"trace"`

	MetricsEnabled bool `yaml:"metricsEnabled"`

	// InvariantCheckInterval is how often the server audits every pool
	// against the ledger. Zero disables the audit.
	InvariantCheckInterval time.Duration `yaml:"invariantCheckInterval"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Pebble: pebble.NewDefaultConfig(),
		Log:    logger.NewDefaultConfig(),
		HTTP: HTTPConfig{
			ListenAddress:     DefaultListenAddress,
			BaseURL:           DefaultBaseURL,
			AllowedOrigins:    []string{"*"},
			AllowedHosts:      []string{"localhost"},
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Trace:                  trace.NewDefaultConfig(),
		MetricsEnabled:         true,
		InvariantCheckInterval: time.Minute,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unverified, since they carry no admin.
func Load(path string) (*Config, error) {
	c := NewDefaultConfig()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return c, c.Verify()
}

// AdminAddress parses the configured admin.
func (c *Config) AdminAddress() (codec.Address, error) {
	if c.Admin == "" {
		return codec.EmptyAddress, ErrMissingAdmin
	}
	addr, err := codec.StringToAddress(c.Admin)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidAdmin, err)
	}
	if addr.TypeID() != consts.AccountID {
		return codec.EmptyAddress, fmt.Errorf("%w: type %d is not an account", ErrInvalidAdmin, addr.TypeID())
	}
	return addr, nil
}

func (c *Config) Verify() error {
	if _, err := c.AdminAddress(); err != nil {
		return err
	}
	if c.HTTP.ListenAddress == "" {
		return ErrMissingListenAddress
	}
	if c.InvariantCheckInterval < 0 {
		return ErrNegativeInterval
	}
	if _, err := c.Log.Parse(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return c.Trace.Verify()
}

// Save writes c as YAML to path.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
