// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DomainDefinition is the serializable form of a declarative domain.
type DomainDefinition struct {
	ID          string               `json:"id" yaml:"id" validate:"required"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Operators   []OperatorDefinition `json:"operators" yaml:"operators" validate:"dive"`
	Tasks       []TaskDefinition     `json:"tasks,omitempty" yaml:"tasks,omitempty" validate:"dive"`
	Problems    []ProblemDefinition  `json:"problems,omitempty" yaml:"problems,omitempty" validate:"dive"`
}

// OperatorDefinition declares an operator. When is a boolean expression
// over the facts; Set maps fact names to expressions computing their new
// value; Delete lists facts removed by the effect.
type OperatorDefinition struct {
	Name   string            `json:"name" yaml:"name" validate:"required"`
	When   string            `json:"when,omitempty" yaml:"when,omitempty"`
	Set    map[string]string `json:"set,omitempty" yaml:"set,omitempty" validate:"dive,keys,required,endkeys,required"`
	Delete []string          `json:"delete,omitempty" yaml:"delete,omitempty" validate:"dive,required"`
}

// TaskDefinition declares a compound task and its methods in priority order.
type TaskDefinition struct {
	Name    string             `json:"name" yaml:"name" validate:"required"`
	Methods []MethodDefinition `json:"methods" yaml:"methods" validate:"required,min=1,dive"`
}

// MethodDefinition declares one decomposition of a task.
type MethodDefinition struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	When     string   `json:"when,omitempty" yaml:"when,omitempty"`
	Subtasks []string `json:"subtasks" yaml:"subtasks" validate:"dive,required"`
}

// ProblemDefinition is a named planning request against the domain.
type ProblemDefinition struct {
	Name  string   `json:"name" yaml:"name" validate:"required"`
	Goals []string `json:"goals" yaml:"goals" validate:"dive,required"`
	State Facts    `json:"state,omitempty" yaml:"state,omitempty"`
}

var definitionValidate = validator.New()

// Validate checks the document structure: required fields and unique
// operator, task, method and problem names. Subtask references are checked
// by Registry.Validate once the document is compiled.
func (d *DomainDefinition) Validate() error {
	if d == nil {
		return fmt.Errorf("domain definition is nil")
	}
	if err := definitionValidate.Struct(d); err != nil {
		return fmt.Errorf("invalid domain definition: %w", err)
	}

	operators := make(map[string]struct{}, len(d.Operators))
	for _, op := range d.Operators {
		if _, dup := operators[op.Name]; dup {
			return fmt.Errorf("duplicate operator %q", op.Name)
		}
		operators[op.Name] = struct{}{}
	}

	tasks := make(map[string]struct{}, len(d.Tasks))
	for _, task := range d.Tasks {
		if _, dup := tasks[task.Name]; dup {
			return fmt.Errorf("duplicate task %q", task.Name)
		}
		tasks[task.Name] = struct{}{}
		methods := make(map[string]struct{}, len(task.Methods))
		for _, m := range task.Methods {
			if _, dup := methods[m.Name]; dup {
				return fmt.Errorf("duplicate method %q in task %q", m.Name, task.Name)
			}
			methods[m.Name] = struct{}{}
		}
	}

	problems := make(map[string]struct{}, len(d.Problems))
	for _, p := range d.Problems {
		if _, dup := problems[p.Name]; dup {
			return fmt.Errorf("duplicate problem %q", p.Name)
		}
		problems[p.Name] = struct{}{}
	}
	return nil
}

// Problem returns the problem with the given name.
func (d *DomainDefinition) Problem(name string) (ProblemDefinition, bool) {
	for _, p := range d.Problems {
		if p.Name == name {
			return p, true
		}
	}
	return ProblemDefinition{}, false
}

// ProblemNames lists problem names in document order.
func (d *DomainDefinition) ProblemNames() []string {
	names := make([]string, 0, len(d.Problems))
	for _, p := range d.Problems {
		names = append(names, p.Name)
	}
	return names
}

func normalizeExpression(expression string) string {
	return strings.TrimSpace(expression)
}
