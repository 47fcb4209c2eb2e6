// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package planner implements hierarchical task network planning: goals are
// decomposed through user supplied methods into a flat sequence of operators,
// simulating each operator's effect on a caller-defined world state and
// backtracking when a decomposition leads to a dead end.
package planner

// Condition reports whether a task is applicable in the given state.
// A nil Condition is always satisfied.
type Condition[S any] func(state S) bool

// Effect returns the successor of a state. Effects must not mutate their
// input: backtracking relies on discarding rejected states. A nil Effect
// leaves the state unchanged.
type Effect[S any] func(state S) S

// Operator is a primitive, directly executable action.
type Operator[S any] struct {
	Name      string
	Condition Condition[S]
	Effect    Effect[S]
}

// NewOperator builds an operator.
func NewOperator[S any](name string, condition Condition[S], effect Effect[S]) *Operator[S] {
	return &Operator[S]{Name: name, Condition: condition, Effect: effect}
}

// Applicable evaluates the operator precondition.
func (o *Operator[S]) Applicable(state S) bool {
	if o.Condition == nil {
		return true
	}
	return o.Condition(state)
}

// Apply runs the operator effect.
func (o *Operator[S]) Apply(state S) S {
	if o.Effect == nil {
		return state
	}
	return o.Effect(state)
}

// Method is one decomposition recipe for a compound task.
type Method[S any] struct {
	Name      string
	Condition Condition[S]
	Subtasks  []string
}

// NewMethod builds a method expanding into the given subtasks, in order.
func NewMethod[S any](name string, condition Condition[S], subtasks ...string) *Method[S] {
	return &Method[S]{Name: name, Condition: condition, Subtasks: subtasks}
}

// Applicable evaluates the method precondition.
func (m *Method[S]) Applicable(state S) bool {
	if m.Condition == nil {
		return true
	}
	return m.Condition(state)
}

// CompoundTask is an abstract task resolved by trying its methods in
// registration order.
type CompoundTask[S any] struct {
	Name    string
	Methods []*Method[S]
}
