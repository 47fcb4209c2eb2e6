// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads Telos configuration from defaults, files, environment
// variables and command line overrides, in that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
// TELOS_PLANNER_MAX_DEPTH maps to planner.max_depth.
const EnvPrefix = "TELOS_"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Planner   PlannerConfig   `koanf:"planner"`
	Audit     AuditConfig     `koanf:"audit"`
	Batch     BatchConfig     `koanf:"batch"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter     string            `koanf:"exporter"` // none, stdout, otlp
	OTLPEndpoint string            `koanf:"otlp_endpoint"`
	OTLPInsecure bool              `koanf:"otlp_insecure"`
	OTLPHeaders  map[string]string `koanf:"otlp_headers"`
	ServiceName  string            `koanf:"service_name"`
}

type PlannerConfig struct {
	MaxDepth int `koanf:"max_depth"`
}

type AuditConfig struct {
	Backend string `koanf:"backend"` // none, memory, file, sqlite, badger
	Path    string `koanf:"path"`
	Retries int    `koanf:"retries"` // write attempts for persistent backends
}

type BatchConfig struct {
	Concurrency int `koanf:"concurrency"`
}

var defaults = map[string]any{
	"log.level":               "info",
	"log.format":              "text",
	"telemetry.exporter":      "none",
	"telemetry.otlp_endpoint": "localhost:4317",
	"telemetry.otlp_insecure": true,
	"telemetry.service_name":  "telos",
	"planner.max_depth":       1000,
	"audit.backend":           "none",
	"audit.path":              "",
	"audit.retries":           3,
	"batch.concurrency":       4,
}

// Load reads configuration from defaults, the optional file at path and
// TELOS_* environment variables.
func Load(path string) (*Config, error) {
	return load(path, "", nil)
}

// LoadWithProfile loads path and then overlays the profile file next to it
// (config.yaml + "dev" reads config.dev.yaml) when that file exists.
func LoadWithProfile(path, profile string) (*Config, error) {
	return load(path, profile, nil)
}

// LoadWithCLI parses --config, --profile (alias --env) and repeatable
// --set key=value flags from args and loads configuration with the
// overrides applied last. Values are decoded as JSON when possible.
// Unrelated arguments are ignored.
func LoadWithCLI(args []string) (*Config, error) {
	opts, overrides, err := parseCLIOverrides(args)
	if err != nil {
		return nil, err
	}
	return load(opts.path, opts.profile, overrides)
}

func load(path, profile string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if overlay := profileConfigPath(path, profile); overlay != "" {
			if err := k.Load(file.Provider(overlay), parserFor(overlay)); err != nil {
				return nil, fmt.Errorf("load profile config %s: %w", overlay, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps TELOS_PLANNER_MAX_DEPTH to planner.max_depth: the first
// underscore separates the section, the rest belong to the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return section + "." + rest
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return kjson.Parser()
	}
	return yaml.Parser()
}

// profileConfigPath returns the profile overlay for base if it exists.
func profileConfigPath(base, profile string) string {
	if base == "" || profile == "" {
		return ""
	}
	ext := filepath.Ext(base)
	candidate := strings.TrimSuffix(base, ext) + "." + profile + ext
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

type cliOptions struct {
	path    string
	profile string
}

func parseCLIOverrides(args []string) (cliOptions, map[string]any, error) {
	var opts cliOptions
	overrides := make(map[string]any)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, inline := strings.Cut(arg, "=")
		switch name {
		case "--config", "--profile", "--env", "--set":
		default:
			continue
		}
		if !inline {
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("%s requires a value", name)
			}
			i++
			value = args[i]
		}
		switch name {
		case "--config":
			opts.path = value
		case "--profile", "--env":
			opts.profile = value
		case "--set":
			key, raw, ok := strings.Cut(value, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return opts, nil, fmt.Errorf("invalid --set value %q, expected key=value", value)
			}
			overrides[key] = decodeOverride(raw)
		}
	}
	return opts, overrides, nil
}

func decodeOverride(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		return decoded
	}
	return raw
}
