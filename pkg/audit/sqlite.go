// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const runsTable = "planner_runs"

// SQLiteStore persists audit records in a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

// OpenSQLite opens (or creates) the database at dsn and ensures the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	store, err := NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.owned = true
	return store, nil
}

// NewSQLiteStore creates a store on an existing database and ensures schema.
// The caller keeps ownership of db.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT PRIMARY KEY,
			domain_id TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT NOT NULL,
			task TEXT NOT NULL,
			error TEXT NOT NULL,
			goals_json BLOB NOT NULL,
			plan_json BLOB NOT NULL,
			stats_json BLOB NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		);`, runsTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_domain ON %s(domain_id);`, runsTable, runsTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_status ON %s(status);`, runsTable, runsTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_started ON %s(started_at);`, runsTable, runsTable),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record implements Store.
func (s *SQLiteStore) Record(ctx context.Context, rec Record) error {
	if rec.RunID == "" {
		return fmt.Errorf("record requires a run id")
	}
	goals, err := json.Marshal(rec.Goals)
	if err != nil {
		return err
	}
	plan, err := json.Marshal(rec.Plan)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(rec.Stats)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (run_id, domain_id, status, reason, task, error, goals_json, plan_json, stats_json, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, runsTable),
		rec.RunID, rec.DomainID, string(rec.Status), rec.Reason, rec.Task, rec.Error,
		goals, plan, stats, rec.StartedAt.UTC().UnixNano(), rec.FinishedAt.UTC().UnixNano())
	return err
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	where, args := buildRunFilter(filter)
	query := fmt.Sprintf(`SELECT run_id, domain_id, status, reason, task, error, goals_json, plan_json, stats_json, started_at, finished_at
		FROM %s%s ORDER BY started_at ASC, rowid ASC`, runsTable, where)
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                 Record
			status              string
			goals, plan, stats  []byte
			startedAt, finished int64
		)
		if err := rows.Scan(&rec.RunID, &rec.DomainID, &status, &rec.Reason, &rec.Task, &rec.Error,
			&goals, &plan, &stats, &startedAt, &finished); err != nil {
			return nil, err
		}
		rec.Status = Status(status)
		if err := json.Unmarshal(goals, &rec.Goals); err != nil {
			return nil, fmt.Errorf("decode goals of %s: %w", rec.RunID, err)
		}
		if err := json.Unmarshal(plan, &rec.Plan); err != nil {
			return nil, fmt.Errorf("decode plan of %s: %w", rec.RunID, err)
		}
		if err := json.Unmarshal(stats, &rec.Stats); err != nil {
			return nil, fmt.Errorf("decode stats of %s: %w", rec.RunID, err)
		}
		rec.StartedAt = time.Unix(0, startedAt).UTC()
		rec.FinishedAt = time.Unix(0, finished).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the database when the store opened it.
func (s *SQLiteStore) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

func buildRunFilter(filter Filter) (string, []any) {
	var clauses []string
	var args []any
	if filter.DomainID != "" {
		clauses = append(clauses, "domain_id = ?")
		args = append(args, filter.DomainID)
	}
	if filter.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
