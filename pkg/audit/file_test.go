// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "audit.jsonl"))
	defer store.Close()
	exerciseStore(t, store)
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.jsonl"))
	got, err := store.List(context.Background(), Filter{})
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v %v", got, err)
	}
}

func TestFileStoreRejectsCorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := os.WriteFile(path, []byte("{\"run_id\": \"r1\"}\nnot json\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileStore(path).List(context.Background(), Filter{}); err == nil {
		t.Fatalf("expected error for corrupt line")
	}
}

func TestFileStoreRequiresRunID(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err := store.Record(context.Background(), Record{}); err == nil {
		t.Fatalf("expected error without run id")
	}
}
