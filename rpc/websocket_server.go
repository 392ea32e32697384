// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/purpledex/purpledex/exchange"
	"github.com/purpledex/purpledex/pubsub"
)

var _ exchange.Listener = (*WebSocketServer)(nil)

// WebSocketServer streams committed exchange events to connected websocket
// clients. Clients narrow the stream with [WebSocketClient.Subscribe].
type WebSocketServer struct {
	log logging.Logger
	s   *pubsub.Server
}

func NewWebSocketServer(log logging.Logger, config *pubsub.Config) *WebSocketServer {
	return &WebSocketServer{
		log: log,
		s:   pubsub.New(log, config),
	}
}

// Handler serves the websocket upgrade.
func (w *WebSocketServer) Handler() *pubsub.Server {
	return w.s
}

func (w *WebSocketServer) OnEvent(ev *exchange.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		w.log.Error("unable to marshal event",
			zap.String("type", string(ev.Type)),
			zap.Error(err),
		)
		return
	}
	w.s.Publish(msg, EventLabels(ev)...)
}

// EventLabels are the subscription labels an event is published under: its
// type, its pool and the account involved.
func EventLabels(ev *exchange.Event) []string {
	labels := []string{string(ev.Type), ev.Pool.String()}
	if !ev.Account.Empty() {
		labels = append(labels, ev.Account.String())
	}
	return labels
}

func (w *WebSocketServer) Close() {
	w.s.Close()
}
