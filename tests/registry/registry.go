// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry collects named scenarios that any harness able to provide
// a [workload.TestNetwork] can run.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/onsi/ginkgo/v2"

	"github.com/purpledex/purpledex/tests/workload"
)

type TestFunc func(ctx context.Context, t ginkgo.FullGinkgoTInterface, tn workload.TestNetwork) error

type NamedTest struct {
	Name string
	Fnc  TestFunc
}

type Registry struct {
	names map[string]struct{}
	tests []NamedTest
}

// Add appends a test. Names must be unique.
func (r *Registry) Add(name string, f TestFunc) error {
	if r.names == nil {
		r.names = make(map[string]struct{})
	}
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("test %q registered twice", name)
	}
	r.names[name] = struct{}{}
	r.tests = append(r.tests, NamedTest{Name: name, Fnc: f})
	return nil
}

// List returns tests in registration order.
func (r *Registry) List() []NamedTest {
	return r.tests
}

// Filter returns the tests whose name contains substr.
func (r *Registry) Filter(substr string) []NamedTest {
	var out []NamedTest
	for _, t := range r.tests {
		if strings.Contains(t.Name, substr) {
			out = append(out, t)
		}
	}
	return out
}

var testRegistry Registry

// RegisterTest is meant to be assigned to a package level var so tests
// register on import.
func RegisterTest(name string, f TestFunc) bool {
	if err := testRegistry.Add(name, f); err != nil {
		panic(err)
	}
	return true
}

func List() []NamedTest {
	return testRegistry.List()
}

func Filter(substr string) []NamedTest {
	return testRegistry.Filter(substr)
}
