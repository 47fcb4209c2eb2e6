// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Planner.MaxDepth != 1000 {
		t.Errorf("expected default max depth 1000, got %d", cfg.Planner.MaxDepth)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Telemetry.Exporter != "none" || cfg.Telemetry.ServiceName != "telos" {
		t.Errorf("unexpected telemetry defaults: %+v", cfg.Telemetry)
	}
	if cfg.Audit.Backend != "none" || cfg.Audit.Retries != 3 {
		t.Errorf("unexpected audit defaults: %+v", cfg.Audit)
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("expected batch concurrency 4, got %d", cfg.Batch.Concurrency)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TELOS_PLANNER_MAX_DEPTH", "25")
	t.Setenv("TELOS_TELEMETRY_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Planner.MaxDepth != 25 {
		t.Errorf("expected max depth 25 from env, got %d", cfg.Planner.MaxDepth)
	}
	if cfg.Telemetry.OTLPEndpoint != "collector:4317" {
		t.Errorf("expected endpoint from env, got %s", cfg.Telemetry.OTLPEndpoint)
	}
}

func TestLoadFileFormats(t *testing.T) {
	tmpDir := t.TempDir()
	files := map[string]string{
		"config.yaml": "planner:\n  max_depth: 50\naudit:\n  backend: sqlite\n  path: runs.db\n",
		"config.json": `{"planner": {"max_depth": 50}, "audit": {"backend": "sqlite", "path": "runs.db"}}`,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Planner.MaxDepth != 50 {
				t.Errorf("expected max depth 50, got %d", cfg.Planner.MaxDepth)
			}
			if cfg.Audit.Backend != "sqlite" || cfg.Audit.Path != "runs.db" {
				t.Errorf("unexpected audit config: %+v", cfg.Audit)
			}
			if cfg.Log.Level != "info" {
				t.Errorf("defaults should survive a partial file, got %s", cfg.Log.Level)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadWithProfile(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := `
planner:
  max_depth: 200
log:
  level: "info"
batch:
  concurrency: 8
`
	basePath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(basePath, []byte(baseConfig), 0644); err != nil {
		t.Fatalf("failed to write base config: %v", err)
	}

	devConfig := `
planner:
  max_depth: 50
log:
  level: "debug"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.dev.yaml"), []byte(devConfig), 0644); err != nil {
		t.Fatalf("failed to write dev config: %v", err)
	}

	tests := []struct {
		name            string
		profile         string
		wantMaxDepth    int
		wantLogLevel    string
		wantConcurrency int
	}{
		{name: "no profile - base only", wantMaxDepth: 200, wantLogLevel: "info", wantConcurrency: 8},
		{name: "dev profile", profile: "dev", wantMaxDepth: 50, wantLogLevel: "debug", wantConcurrency: 8},
		{name: "nonexistent profile - falls back to base", profile: "staging", wantMaxDepth: 200, wantLogLevel: "info", wantConcurrency: 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadWithProfile(basePath, tc.profile)
			if err != nil {
				t.Fatalf("LoadWithProfile failed: %v", err)
			}
			if cfg.Planner.MaxDepth != tc.wantMaxDepth {
				t.Errorf("max depth: got %d, want %d", cfg.Planner.MaxDepth, tc.wantMaxDepth)
			}
			if cfg.Log.Level != tc.wantLogLevel {
				t.Errorf("log level: got %s, want %s", cfg.Log.Level, tc.wantLogLevel)
			}
			if cfg.Batch.Concurrency != tc.wantConcurrency {
				t.Errorf("concurrency: got %d, want %d", cfg.Batch.Concurrency, tc.wantConcurrency)
			}
		})
	}
}

func TestProfileConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	devPath := filepath.Join(tmpDir, "config.dev.yaml")
	if err := os.WriteFile(devPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create dev config: %v", err)
	}
	basePath := filepath.Join(tmpDir, "config.yaml")

	tests := []struct {
		name     string
		base     string
		profile  string
		wantPath string
	}{
		{name: "existing profile", base: basePath, profile: "dev", wantPath: devPath},
		{name: "nonexistent profile", base: basePath, profile: "prod"},
		{name: "empty profile", base: basePath},
		{name: "empty base", profile: "dev"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := profileConfigPath(tc.base, tc.profile)
			if got != tc.wantPath {
				t.Errorf("profileConfigPath(%q, %q) = %q, want %q", tc.base, tc.profile, got, tc.wantPath)
			}
		})
	}
}

func TestLoadWithCLIOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	content := []byte(`{
  "planner": {"max_depth": 300},
  "telemetry": {"exporter": "stdout"}
}`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TELOS_PLANNER_MAX_DEPTH", "400")

	cfg, err := LoadWithCLI([]string{
		"plan", "--domain", "coffee.yaml",
		"--config", path,
		"--set", "planner.max_depth=500",
		"--set=audit.backend=badger",
		"--set", "telemetry.otlp_insecure=false",
		`--set`, `telemetry.otlp_headers={"x-org-id":"org-123"}`,
	})
	if err != nil {
		t.Fatalf("LoadWithCLI failed: %v", err)
	}
	if cfg.Planner.MaxDepth != 500 {
		t.Fatalf("expected cli override max depth, got %d", cfg.Planner.MaxDepth)
	}
	if cfg.Audit.Backend != "badger" {
		t.Fatalf("expected audit backend override, got %s", cfg.Audit.Backend)
	}
	if cfg.Telemetry.Exporter != "stdout" {
		t.Fatalf("expected exporter from file, got %s", cfg.Telemetry.Exporter)
	}
	if cfg.Telemetry.OTLPInsecure {
		t.Fatalf("expected otlp_insecure=false")
	}
	if cfg.Telemetry.OTLPHeaders["x-org-id"] != "org-123" {
		t.Fatalf("unexpected headers: %v", cfg.Telemetry.OTLPHeaders)
	}
}

func TestLoadWithCLIProfile(t *testing.T) {
	tmpDir := t.TempDir()
	basePath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(basePath, []byte("audit:\n  backend: memory\n"), 0644); err != nil {
		t.Fatalf("failed to write base config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "config.dev.yaml"), []byte("audit:\n  backend: sqlite\n"), 0644); err != nil {
		t.Fatalf("failed to write dev config: %v", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "profile flag", args: []string{"--config", basePath, "--profile", "dev"}},
		{name: "env flag alias", args: []string{"--config", basePath, "--env", "dev"}},
		{name: "with equals", args: []string{"--config=" + basePath, "--profile=dev"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadWithCLI(tc.args)
			if err != nil {
				t.Fatalf("LoadWithCLI failed: %v", err)
			}
			if cfg.Audit.Backend != "sqlite" {
				t.Errorf("backend: got %s, want sqlite", cfg.Audit.Backend)
			}
		})
	}
}

func TestParseCLIOverridesErrors(t *testing.T) {
	if _, _, err := parseCLIOverrides([]string{"--config"}); err == nil {
		t.Fatalf("expected error for missing --config value")
	}
	if _, _, err := parseCLIOverrides([]string{"--set"}); err == nil {
		t.Fatalf("expected error for missing --set value")
	}
	if _, _, err := parseCLIOverrides([]string{"--set", "invalid"}); err == nil {
		t.Fatalf("expected error for invalid --set value")
	}
	if _, _, err := parseCLIOverrides([]string{"--set", "=1"}); err == nil {
		t.Fatalf("expected error for empty --set key")
	}
}

func TestDecodeOverride(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{raw: "12", want: float64(12)},
		{raw: "true", want: true},
		{raw: "plain", want: "plain"},
		{raw: "localhost:4317", want: "localhost:4317"},
		{raw: "", want: ""},
	}
	for _, tc := range tests {
		if got := decodeOverride(tc.raw); got != tc.want {
			t.Errorf("decodeOverride(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}
