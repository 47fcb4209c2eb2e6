// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

// TaskKind classifies a task name within a domain.
type TaskKind int

const (
	KindUnknown TaskKind = iota
	KindOperator
	KindCompound
)

func (k TaskKind) String() string {
	switch k {
	case KindOperator:
		return "operator"
	case KindCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// TaskRef is the result of resolving a name against a domain.
type TaskRef[S any] struct {
	Name     string
	Kind     TaskKind
	Operator *Operator[S]
	Compound *CompoundTask[S]
}

// Domain is the namespace of operators and compound tasks available to a
// planning run. It is read-only while plans are computed and may then be
// shared by concurrent runs; registering into it concurrently is not safe.
type Domain[S any] struct {
	operators     map[string]*Operator[S]
	tasks         map[string]*CompoundTask[S]
	operatorOrder []string
	taskOrder     []string
}

// NewDomain returns an empty domain.
func NewDomain[S any]() *Domain[S] {
	return &Domain[S]{
		operators: make(map[string]*Operator[S]),
		tasks:     make(map[string]*CompoundTask[S]),
	}
}

// Lookup resolves a name with a single namespace query. Operators take
// precedence over compound tasks registered under the same name.
func (d *Domain[S]) Lookup(name string) TaskRef[S] {
	ref := TaskRef[S]{Name: name}
	if d == nil {
		return ref
	}
	if op, ok := d.operators[name]; ok {
		ref.Kind = KindOperator
		ref.Operator = op
		return ref
	}
	if task, ok := d.tasks[name]; ok {
		ref.Kind = KindCompound
		ref.Compound = task
	}
	return ref
}

// Operator returns the operator registered under name.
func (d *Domain[S]) Operator(name string) (*Operator[S], bool) {
	if d == nil {
		return nil, false
	}
	op, ok := d.operators[name]
	return op, ok
}

// CompoundTask returns the compound task registered under name.
func (d *Domain[S]) CompoundTask(name string) (*CompoundTask[S], bool) {
	if d == nil {
		return nil, false
	}
	task, ok := d.tasks[name]
	return task, ok
}

// OperatorNames lists operator names in first-registration order.
func (d *Domain[S]) OperatorNames() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.operatorOrder...)
}

// TaskNames lists compound task names in first-registration order.
func (d *Domain[S]) TaskNames() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.taskOrder...)
}

// Ambiguous lists names registered both as an operator and as a compound
// task. Such names always resolve to the operator.
func (d *Domain[S]) Ambiguous() []string {
	if d == nil {
		return nil
	}
	var names []string
	for _, name := range d.taskOrder {
		if _, ok := d.operators[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
