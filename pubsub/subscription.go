// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"encoding/json"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Subscription is the only message a client sends. It replaces the labels the
// connection is interested in. A connection with no labels receives every
// message; otherwise a message is delivered when it carries any of them.
type Subscription struct {
	Labels []string `json:"labels"`
}

func ParseSubscription(msg []byte) (set.Set[string], error) {
	var sub Subscription
	if err := json.Unmarshal(msg, &sub); err != nil {
		return nil, err
	}
	return set.Of(sub.Labels...), nil
}

func matches(filter set.Set[string], labels []string) bool {
	if filter.Len() == 0 {
		return true
	}
	for _, label := range labels {
		if filter.Contains(label) {
			return true
		}
	}
	return false
}
