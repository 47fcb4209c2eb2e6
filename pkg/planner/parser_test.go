// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSON(t *testing.T) {
	payload := []byte(`{
  "id": "domain-json",
  "operators": [
    { "name": "Open", "when": "!open", "set": { "open": "true" } }
  ],
  "tasks": [
    { "name": "Enter", "methods": [ { "name": "door", "subtasks": ["Open"] } ] }
  ]
}`)
	def, err := ParseJSON(payload)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if def.ID != "domain-json" {
		t.Fatalf("unexpected domain id: %q", def.ID)
	}
	if def.Operators[0].Set["open"] != "true" {
		t.Fatalf("unexpected operator: %+v", def.Operators[0])
	}
}

func TestParseYAML(t *testing.T) {
	payload := []byte(`
id: domain-yaml
operators:
  - name: Open
    when: "!open"
tasks:
  - name: Enter
    methods:
      - name: door
        subtasks: [Open]
problems:
  - name: closed
    goals: [Enter]
    state:
      open: false
`)
	def, err := ParseYAML(payload)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if def.ID != "domain-yaml" {
		t.Fatalf("unexpected domain id: %q", def.ID)
	}
	if def.Tasks[0].Methods[0].Subtasks[0] != "Open" {
		t.Fatalf("unexpected task: %+v", def.Tasks[0])
	}
	if got := def.ProblemNames(); len(got) != 1 || got[0] != "closed" {
		t.Fatalf("unexpected problems: %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseJSON(nil); err == nil {
		t.Fatalf("expected error for empty json")
	}
	if _, err := ParseYAML(nil); err == nil {
		t.Fatalf("expected error for empty yaml")
	}
	if _, err := ParseJSON([]byte(`{"id": `)); err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if _, err := ParseYAML([]byte("operators:\n  - name: A\n")); err == nil {
		t.Fatalf("expected validation error for missing id")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	def := &DomainDefinition{
		ID: "domain-rt",
		Operators: []OperatorDefinition{
			{Name: "A", When: "x > 1", Set: map[string]string{"x": "x - 1"}},
		},
		Tasks: []TaskDefinition{
			{Name: "T", Methods: []MethodDefinition{{Name: "m", Subtasks: []string{"A"}}}},
		},
	}

	jsonPayload, err := MarshalJSON(def, true)
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	parsedJSON, err := ParseJSON(jsonPayload)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if parsedJSON.ID != def.ID || parsedJSON.Operators[0].When != "x > 1" {
		t.Fatalf("json round-trip mismatch: %+v", parsedJSON)
	}

	yamlPayload, err := MarshalYAML(def)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	parsedYAML, err := ParseYAML(yamlPayload)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if parsedYAML.ID != def.ID || parsedYAML.Tasks[0].Name != "T" {
		t.Fatalf("yaml round-trip mismatch: %+v", parsedYAML)
	}

	if _, err := MarshalJSON(nil, false); err == nil {
		t.Fatalf("expected error for nil definition")
	}
}

func TestLoadDefinitionSniffsFormat(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"domain.conf": "id: sniff-yaml\noperators:\n  - name: A\n",
		"domain.txt":  `{"id": "sniff-json", "operators": [{"name": "A"}]}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		def, err := LoadDefinition(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if def.Operators[0].Name != "A" {
			t.Fatalf("unexpected definition: %+v", def)
		}
	}
	if _, err := LoadDefinition(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadDefinition(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
