// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherReportsChangedPath(t *testing.T) {
	tmpDir := t.TempDir()
	domainPath := filepath.Join(tmpDir, "domain.yaml")
	otherPath := filepath.Join(tmpDir, "other.yaml")
	for _, p := range []string{domainPath, otherPath} {
		if err := os.WriteFile(p, []byte("id: a\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	watcher, err := NewWatcher([]string{domainPath}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	changes := make(chan string, 4)
	watcher.OnChange(func(path string) { changes <- path })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	defer watcher.Stop()

	if err := os.WriteFile(otherPath, []byte("id: b\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(domainPath, []byte("id: b\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	want, _ := filepath.Abs(domainPath)
	select {
	case got := <-changes:
		if got != want {
			t.Errorf("changed path = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change notification")
	}
}

func TestWatcherDebouncesBurst(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "domain.yaml")
	if err := os.WriteFile(path, []byte("v: 0\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	watcher, err := NewWatcher([]string{path}, WithDebounce(200*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	var count atomic.Int32
	watcher.OnChange(func(string) { count.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	defer watcher.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("v: 1\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(600 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected one debounced notification, got %d", got)
	}
}

func TestWatcherStops(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(`log: {}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	watcher, err := NewWatcher([]string{configPath})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	watcher.Start(context.Background())

	done := make(chan struct{})
	go func() {
		watcher.Stop()
		watcher.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("watcher.Stop() did not complete in time")
	}
}

func TestWatcherRequiresPaths(t *testing.T) {
	if _, err := NewWatcher(nil); err == nil {
		t.Fatalf("expected error without paths")
	}
}

func TestConfigWatcherReloads(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("planner:\n  max_depth: 10\n"), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, cfg, err := WatchConfig(ctx, configPath, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to watch config: %v", err)
	}
	defer watcher.Stop()
	if cfg.Planner.MaxDepth != 10 {
		t.Errorf("expected max depth 10, got %d", cfg.Planner.MaxDepth)
	}

	changes := make(chan *Config, 4)
	watcher.OnChange(func(c *Config) { changes <- c })

	if err := os.WriteFile(configPath, []byte("planner:\n  max_depth: 20\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config: %v", err)
	}

	select {
	case newCfg := <-changes:
		if newCfg.Planner.MaxDepth != 20 {
			t.Errorf("expected max depth 20, got %d", newCfg.Planner.MaxDepth)
		}
		if watcher.Config().Planner.MaxDepth != 20 {
			t.Errorf("watcher should expose the reloaded config")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config change notification")
	}
}

func TestReloadableConfig(t *testing.T) {
	rc := NewReloadableConfig(&Config{Planner: PlannerConfig{MaxDepth: 1}})
	if rc.Planner().MaxDepth != 1 {
		t.Errorf("expected 1, got %d", rc.Planner().MaxDepth)
	}

	rc.Update(&Config{Planner: PlannerConfig{MaxDepth: 2}, Log: LogConfig{Level: "debug"}})
	if rc.Planner().MaxDepth != 2 || rc.Log().Level != "debug" {
		t.Errorf("unexpected config after update: %+v", rc.Get())
	}
}
