// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record implements Store.
func (s *MemoryStore) Record(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.Goals = append([]string(nil), rec.Goals...)
	rec.Plan = append([]string(nil), rec.Plan...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if filter.Match(rec) {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
