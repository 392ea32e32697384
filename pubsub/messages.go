// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import "encoding/json"

// CreateBatchMessage joins JSON messages into a single JSON array.
func CreateBatchMessage(msgs [][]byte) []byte {
	raw := make([]json.RawMessage, len(msgs))
	for i, msg := range msgs {
		raw[i] = msg
	}
	b, _ := json.Marshal(raw)
	return b
}

// ParseBatchMessage splits a batch created by [CreateBatchMessage].
func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	if len(msg) > maxSize {
		return nil, ErrMessageTooLarge
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(msg, &raw); err != nil {
		return nil, err
	}
	msgs := make([][]byte, len(raw))
	for i, r := range raw {
		msgs[i] = r
	}
	return msgs, nil
}
