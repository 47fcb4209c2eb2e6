// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jllopis/telos/pkg/config"
	"github.com/jllopis/telos/pkg/planner"
)

func sampleRecords() []Record {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []Record{
		{
			RunID: "run-b", DomainID: "coffee", Goals: []string{"FetchCoffee"}, Status: StatusSucceeded,
			Plan:      []string{"MoveToKitchen", "PourCoffee", "ReturnToStart"},
			Stats:     planner.Stats{Expansions: 4, MethodTrials: 1, OperatorsApplied: 3, MaxDepth: 3},
			StartedAt: base.Add(2 * time.Second), FinishedAt: base.Add(3 * time.Second),
		},
		{
			RunID: "run-a", DomainID: "coffee", Goals: []string{"FetchCoffee"}, Status: StatusFailed,
			Reason: "NO_APPLICABLE_METHOD", Task: "FetchCoffee",
			StartedAt: base, FinishedAt: base.Add(time.Millisecond),
		},
		{
			RunID: "run-c", DomainID: "refuel", Goals: []string{"Travel"}, Status: StatusFatal,
			Error:     "[MAX_DEPTH_EXCEEDED] max depth exceeded",
			StartedAt: base.Add(time.Second), FinishedAt: base.Add(time.Second),
		},
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range sampleRecords() {
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("record %s: %v", rec.RunID, err)
		}
	}

	all, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := runIDs(all); len(got) != 3 || got[0] != "run-a" || got[1] != "run-c" || got[2] != "run-b" {
		t.Fatalf("records not in start-time order: %v", got)
	}

	b := all[2]
	if len(b.Plan) != 3 || b.Plan[2] != "ReturnToStart" || b.Stats.OperatorsApplied != 3 {
		t.Fatalf("record not preserved: %+v", b)
	}
	if !b.StartedAt.Equal(time.Date(2026, 3, 1, 9, 0, 2, 0, time.UTC)) || b.Duration() != time.Second {
		t.Fatalf("timestamps not preserved: %v %v", b.StartedAt, b.Duration())
	}

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "domain", filter: Filter{DomainID: "coffee"}, want: []string{"run-a", "run-b"}},
		{name: "status", filter: Filter{Status: StatusFatal}, want: []string{"run-c"}},
		{name: "run", filter: Filter{RunID: "run-b"}, want: []string{"run-b"}},
		{name: "limit", filter: Filter{Limit: 2}, want: []string{"run-a", "run-c"}},
		{name: "no match", filter: Filter{DomainID: "coffee", Status: StatusFatal}, want: nil},
	}
	for _, tc := range cases {
		got, err := store.List(ctx, tc.filter)
		if err != nil {
			t.Fatalf("%s: list: %v", tc.name, err)
		}
		ids := runIDs(got)
		if len(ids) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, ids, tc.want)
		}
		for i := range ids {
			if ids[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.name, ids, tc.want)
			}
		}
	}
}

func runIDs(records []Record) []string {
	var out []string
	for _, rec := range records {
		out = append(out, rec.RunID)
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStoreCopiesSlices(t *testing.T) {
	store := NewMemoryStore()
	goals := []string{"A"}
	if err := store.Record(context.Background(), Record{RunID: "r", Goals: goals}); err != nil {
		t.Fatalf("record: %v", err)
	}
	goals[0] = "B"
	got, _ := store.List(context.Background(), Filter{})
	if got[0].Goals[0] != "A" {
		t.Fatalf("stored record aliases caller slice")
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)

	if err := store.Record(context.Background(), Record{}); err == nil {
		t.Fatalf("expected error for missing run id")
	}
}

func TestBadgerStore(t *testing.T) {
	store, err := NewBadgerStore(BadgerConfig{}, WithBadgerInMemory(), WithBadgerKeyPrefix("test:"))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)

	if _, err := NewBadgerStore(BadgerConfig{}); err == nil {
		t.Fatalf("expected error without dir")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(ctx, config.AuditConfig{Backend: "none"})
	if err != nil || store != nil {
		t.Fatalf("none backend: %v %v", store, err)
	}

	for _, cfg := range []config.AuditConfig{
		{Backend: "memory"},
		{Backend: "file", Path: filepath.Join(dir, "audit.jsonl")},
		{Backend: "sqlite", Path: filepath.Join(dir, "audit.db"), Retries: 3},
		{Backend: "badger", Path: filepath.Join(dir, "badger")},
	} {
		store, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("%s backend: %v", cfg.Backend, err)
		}
		if err := store.Record(ctx, Record{RunID: "r1", DomainID: "d", StartedAt: time.Now()}); err != nil {
			t.Fatalf("%s record: %v", cfg.Backend, err)
		}
		got, err := store.List(ctx, Filter{DomainID: "d"})
		if err != nil || len(got) != 1 {
			t.Fatalf("%s list: %v %v", cfg.Backend, got, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("%s close: %v", cfg.Backend, err)
		}
	}

	retrying, err := Open(ctx, config.AuditConfig{Backend: "file", Path: filepath.Join(dir, "retry.jsonl"), Retries: 2})
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	if _, ok := retrying.(*RetryStore); !ok {
		t.Fatalf("expected retrying store, got %T", retrying)
	}

	for _, cfg := range []config.AuditConfig{
		{Backend: "file"},
		{Backend: "sqlite"},
		{Backend: "badger"},
		{Backend: "postgres"},
	} {
		if _, err := Open(ctx, cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
