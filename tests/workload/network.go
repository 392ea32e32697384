// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workload

import "github.com/purpledex/purpledex/codec"

// TestNetwork is a set of nodes serving the same exchange.
type TestNetwork interface {
	URIs() []string
	Configuration() TestNetworkConfiguration
}

// TestNetworkConfiguration is fixed before the network starts. All
// implementations must be thread-safe.
type TestNetworkConfiguration interface {
	Name() string
	Admin() codec.Address
	Collector() codec.Address
}

type DefaultTestNetworkConfiguration struct {
	name      string
	admin     codec.Address
	collector codec.Address
}

func (d DefaultTestNetworkConfiguration) Name() string {
	return d.name
}

func (d DefaultTestNetworkConfiguration) Admin() codec.Address {
	return d.admin
}

func (d DefaultTestNetworkConfiguration) Collector() codec.Address {
	return d.collector
}

func NewDefaultTestNetworkConfiguration(name string, admin codec.Address, collector codec.Address) DefaultTestNetworkConfiguration {
	return DefaultTestNetworkConfiguration{
		name:      name,
		admin:     admin,
		collector: collector,
	}
}
