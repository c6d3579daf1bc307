// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package history - bounded list of recently sent transactions
//
// entries are numbered from a counter that never goes backwards; once
// full, each new entry evicts the oldest
package history

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/bitmark-inc/custodyd/transaction"
)

// DefaultSize - entries kept unless configured otherwise
const DefaultSize = 32

// Entry - list item for display
type Entry struct {
	Index uint32 `json:"index"`
	ID    string `json:"id"`
}

// History - the recent transactions
type History struct {
	sync.Mutex
	next  uint32
	cache *lru.Cache
}

// New - create a history holding at most size entries
func New(size int) (*History, error) {
	cache, err := lru.New(size)
	if nil != err {
		return nil, err
	}
	return &History{
		cache: cache,
	}, nil
}

// Add - record a transaction, returning its index
func (h *History) Add(tx *transaction.Transaction) uint32 {
	h.Lock()
	defer h.Unlock()

	index := h.next
	h.next += 1
	h.cache.Add(index, tx)
	return index
}

// Get - fetch an entry without changing eviction order
func (h *History) Get(index uint32) (*transaction.Transaction, bool) {
	item, ok := h.cache.Peek(index)
	if !ok {
		return nil, false
	}
	return item.(*transaction.Transaction), true
}

// List - index and asset id of each entry, oldest first
func (h *History) List() []Entry {
	h.Lock()
	defer h.Unlock()

	keys := h.cache.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		item, ok := h.cache.Peek(key)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Index: key.(uint32),
			ID:    item.(*transaction.Transaction).ID(),
		})
	}
	return entries
}

// Len - number of entries held
func (h *History) Len() int {
	return h.cache.Len()
}
