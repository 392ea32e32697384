// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/gorilla/rpc/v2"
)

// MaxRequestSize bounds the body of a single JSON-RPC request.
const MaxRequestSize = units.MiB

var jsonContentTypes = []string{
	"application/json",
	"application/json;charset=UTF-8",
	"application/json; charset=utf-8",
}

// NewHandler serves the exported methods of service as name.method over
// JSON-RPC 2.0. Larger bodies than [MaxRequestSize] fail to decode.
func NewHandler(service any, name string) (http.Handler, error) {
	s := rpc.NewServer()
	codec := json.NewCodec()
	for _, contentType := range jsonContentTypes {
		s.RegisterCodec(codec, contentType)
	}
	if err := s.RegisterService(service, name); err != nil {
		return nil, err
	}
	return http.MaxBytesHandler(s, MaxRequestSize), nil
}
