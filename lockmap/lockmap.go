// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"

	"github.com/purpledex/purpledex/state"
)

type holderLock struct {
	holders int
	mu      sync.RWMutex
}

// Lockmap is a set of read-write locks created on demand per key. A key's
// lock is dropped once it has no holders.
type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

// LockKeys acquires every key in ascending order, exclusively when the key
// needs more than [state.Read]. Two callers locking overlapping key sets can
// therefore never deadlock. The returned func releases all of them.
func (l *Lockmap) LockKeys(keys state.Keys) func() {
	sorted := keys.Sorted()
	writes := make([]bool, len(sorted))
	for i, k := range sorted {
		writes[i] = keys[k] != state.Read
		l.lock(k, writes[i])
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			l.unlock(sorted[i], writes[i])
		}
	}
}

func (l *Lockmap) lock(key string, write bool) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	l.l.Unlock()

	if write {
		hl.mu.Lock()
	} else {
		hl.mu.RLock()
	}
}

func (l *Lockmap) unlock(key string, write bool) {
	l.l.Lock()
	hl := l.m[key]
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
	l.l.Unlock()

	if write {
		hl.mu.Unlock()
	} else {
		hl.mu.RUnlock()
	}
}

// held returns the number of keys currently held or waited on.
func (l *Lockmap) held() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
