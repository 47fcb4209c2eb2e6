// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDefinition loads a domain definition from a YAML or JSON file. Files
// without a known extension are sniffed.
func LoadDefinition(path string) (*DomainDefinition, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("domain path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return parseDefinitionAuto(data)
	}
}

func parseDefinitionAuto(data []byte) (*DomainDefinition, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if def, err := ParseJSON(data); err == nil {
			return def, nil
		}
	}
	if def, err := ParseYAML(data); err == nil {
		return def, nil
	}
	if def, err := ParseJSON(data); err == nil {
		return def, nil
	}
	return nil, fmt.Errorf("unsupported domain format")
}

// LoadDomain loads and compiles a domain document.
func LoadDomain(path string, opts ...CompileOption) (*DomainDefinition, *Registry[Facts], error) {
	def, err := LoadDefinition(path)
	if err != nil {
		return nil, nil, err
	}
	reg, err := Compile(def, opts...)
	if err != nil {
		return nil, nil, err
	}
	return def, reg, nil
}
