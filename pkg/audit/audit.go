// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit persists one record per planning run so past outcomes can
// be listed and compared.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jllopis/telos/pkg/config"
	"github.com/jllopis/telos/pkg/planner"
)

// Status summarizes how a run ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusFatal     Status = "fatal"
)

// Record is the audit entry of one planning run.
type Record struct {
	RunID      string        `json:"run_id"`
	DomainID   string        `json:"domain_id"`
	Goals      []string      `json:"goals"`
	Status     Status        `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	Task       string        `json:"task,omitempty"`
	Plan       []string      `json:"plan,omitempty"`
	Stats      planner.Stats `json:"stats"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Duration returns the wall time of the run.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Filter narrows List results. Zero fields match everything; a Limit of
// zero or less returns all matches.
type Filter struct {
	DomainID string
	RunID    string
	Status   Status
	Limit    int
}

// Match reports whether rec satisfies the filter, ignoring Limit.
func (f Filter) Match(rec Record) bool {
	if f.DomainID != "" && rec.DomainID != f.DomainID {
		return false
	}
	if f.RunID != "" && rec.RunID != f.RunID {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	return true
}

// Store persists audit records. Records are listed in start-time order,
// ties broken by insertion order.
type Store interface {
	Record(ctx context.Context, rec Record) error
	List(ctx context.Context, filter Filter) ([]Record, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Open builds the store selected by cfg. The "none" backend returns a nil
// Store and no error. Persistent backends retry failed writes up to
// cfg.Retries attempts.
func Open(ctx context.Context, cfg config.AuditConfig) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	var (
		store Store
		err   error
	)
	switch backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit: file backend requires a path")
		}
		store = NewFileStore(cfg.Path)
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit: sqlite backend requires a path")
		}
		store, err = OpenSQLite(ctx, cfg.Path)
	case BackendBadger:
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit: badger backend requires a path")
		}
		store, err = NewBadgerStore(BadgerConfig{Dir: cfg.Path})
	default:
		return nil, fmt.Errorf("audit: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Retries > 1 {
		retry := DefaultRetryConfig()
		retry.MaxAttempts = cfg.Retries
		store = NewRetryStore(store, retry)
	}
	return store, nil
}
