// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"github.com/ava-labs/avalanchego/trace"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/purpledex/purpledex/consts"
)

var _ trace.Tracer = (*disabledTracer)(nil)

// disabledTracer hands out spans that record nothing. A span started under a
// propagated parent keeps the parent's span context.
type disabledTracer struct {
	oteltrace.Tracer
}

func newDisabledTracer(name string) *disabledTracer {
	return &disabledTracer{
		Tracer: oteltrace.NewNoopTracerProvider().Tracer(name),
	}
}

func (*disabledTracer) Close() error {
	return nil
}

// Noop returns a tracer that records nothing.
func Noop() trace.Tracer {
	return newDisabledTracer(consts.Name)
}
