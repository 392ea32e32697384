// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "exchange"

	statusSuccess = "success"
	statusFailure = "failure"
)

type metrics struct {
	operations    *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	poolsCreated  prometheus.Counter
	swapInput     *prometheus.CounterVec
	swapFees      *prometheus.CounterVec
	feesCollected *prometheus.CounterVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations",
			Help:      "number of operations executed",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency",
			Help:      "time spent executing an operation in nanoseconds",
			Buckets:   prometheus.ExponentialBuckets(1_000, 4, 10),
		}, []string{"operation"}),
		poolsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pools_created",
			Help:      "number of pools created",
		}),
		swapInput: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_input",
			Help:      "units swapped into pools by input asset",
		}, []string{"asset"}),
		swapFees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_fees",
			Help:      "units charged as trading fees by input asset",
		}, []string{"asset"}),
		feesCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_fees_collected",
			Help:      "units of protocol fees paid to the collector by asset",
		}, []string{"asset"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.operations),
		r.Register(m.latency),
		r.Register(m.poolsCreated),
		r.Register(m.swapInput),
		r.Register(m.swapFees),
		r.Register(m.feesCollected),
	)
	return m, errs.Err
}
