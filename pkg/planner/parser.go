// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseJSON loads a domain definition from JSON and validates it.
func ParseJSON(data []byte) (*DomainDefinition, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON payload")
	}
	var def DomainDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse json domain: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// ParseYAML loads a domain definition from YAML and validates it.
func ParseYAML(data []byte) (*DomainDefinition, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty YAML payload")
	}
	var def DomainDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse yaml domain: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// MarshalJSON serializes a domain definition to JSON. Use pretty for
// indented output.
func MarshalJSON(def *DomainDefinition, pretty bool) ([]byte, error) {
	if def == nil {
		return nil, fmt.Errorf("domain definition is nil")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if pretty {
		return json.MarshalIndent(def, "", "  ")
	}
	return json.Marshal(def)
}

// MarshalYAML serializes a domain definition to YAML.
func MarshalYAML(def *DomainDefinition) ([]byte, error) {
	if def == nil {
		return nil, fmt.Errorf("domain definition is nil")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(def)
}
