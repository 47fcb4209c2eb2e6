// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig configures the Badger-backed store.
type BadgerConfig struct {
	// Dir is the directory to store data in.
	Dir string

	// InMemory keeps everything in memory (useful for testing).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// KeyPrefix is added to all keys.
	KeyPrefix string

	// Logger is the badger logger; nil silences badger.
	Logger badger.Logger
}

// BadgerOption configures a BadgerConfig.
type BadgerOption func(*BadgerConfig)

// WithBadgerInMemory enables in-memory storage.
func WithBadgerInMemory() BadgerOption {
	return func(c *BadgerConfig) {
		c.InMemory = true
	}
}

// WithBadgerSyncWrites enables synchronous writes.
func WithBadgerSyncWrites() BadgerOption {
	return func(c *BadgerConfig) {
		c.SyncWrites = true
	}
}

// WithBadgerKeyPrefix sets the key prefix.
func WithBadgerKeyPrefix(prefix string) BadgerOption {
	return func(c *BadgerConfig) {
		c.KeyPrefix = prefix
	}
}

// ErrBadgerOpen is returned when the database cannot be opened.
var ErrBadgerOpen = errors.New("audit: badger open failed")

// BadgerStore persists records in BadgerDB. Keys are
// <prefix>run/<started-at nanos, zero padded>/<run id> so a prefix scan
// returns records in start-time order.
type BadgerStore struct {
	db        *badger.DB
	keyPrefix string
}

// NewBadgerStore opens a Badger database with cfg and opts applied.
func NewBadgerStore(cfg BadgerConfig, opts ...BadgerOption) (*BadgerStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, fmt.Errorf("audit: badger requires a directory unless in memory")
	}

	bopts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithSyncWrites(cfg.SyncWrites).WithLogger(cfg.Logger)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Join(ErrBadgerOpen, err)
	}
	return &BadgerStore{db: db, keyPrefix: cfg.KeyPrefix}, nil
}

func (s *BadgerStore) runPrefix() []byte {
	return []byte(s.keyPrefix + "run/")
}

func (s *BadgerStore) runKey(rec Record) []byte {
	return []byte(fmt.Sprintf("%srun/%020d/%s", s.keyPrefix, rec.StartedAt.UTC().UnixNano(), rec.RunID))
}

// Record implements Store.
func (s *BadgerStore) Record(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.RunID == "" {
		return fmt.Errorf("record requires a run id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.runKey(rec), data)
	})
}

// List implements Store.
func (s *BadgerStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.runPrefix()

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if !filter.Match(rec) {
				continue
			}
			out = append(out, rec)
			if filter.Limit > 0 && len(out) >= filter.Limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
