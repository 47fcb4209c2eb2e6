// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

// Registry incrementally builds a Domain.
//
// A Registry is not safe for concurrent writers; build the domain first and
// share the result of Domain read-only.
type Registry[S any] struct {
	domain *Domain[S]
}

// NewRegistry returns an empty registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{domain: NewDomain[S]()}
}

// RegisterOperator inserts op under op.Name, replacing any previous operator
// with that name. It panics if op is nil.
func (r *Registry[S]) RegisterOperator(op *Operator[S]) *Registry[S] {
	if op == nil {
		panic("planner: nil operator")
	}
	d := r.domain
	if _, exists := d.operators[op.Name]; !exists {
		d.operatorOrder = append(d.operatorOrder, op.Name)
	}
	d.operators[op.Name] = op
	return r
}

// RegisterMethod appends m to the methods of the compound task named task,
// creating the task on first use. It panics if m is nil.
func (r *Registry[S]) RegisterMethod(task string, m *Method[S]) *Registry[S] {
	if m == nil {
		panic("planner: nil method")
	}
	d := r.domain
	ct, ok := d.tasks[task]
	if !ok {
		ct = &CompoundTask[S]{Name: task}
		d.tasks[task] = ct
		d.taskOrder = append(d.taskOrder, task)
	}
	ct.Methods = append(ct.Methods, m)
	return r
}

// Operator looks up an operator by name.
func (r *Registry[S]) Operator(name string) (*Operator[S], bool) {
	return r.domain.Operator(name)
}

// Method looks up a method by name across every compound task. When several
// methods share a name the earliest registered one is returned.
func (r *Registry[S]) Method(name string) (*Method[S], bool) {
	d := r.domain
	for _, taskName := range d.taskOrder {
		for _, m := range d.tasks[taskName].Methods {
			if m.Name == name {
				return m, true
			}
		}
	}
	return nil, false
}

// Validate checks that every subtask referenced by every method resolves to
// an operator or a compound task. The first dangling reference, in
// registration order, is reported as a *ValidationError.
func (r *Registry[S]) Validate() error {
	d := r.domain
	for _, taskName := range d.taskOrder {
		for _, m := range d.tasks[taskName].Methods {
			for _, sub := range m.Subtasks {
				if d.Lookup(sub).Kind == KindUnknown {
					return &ValidationError{Name: sub, Task: taskName, Method: m.Name}
				}
			}
		}
	}
	return nil
}

// Domain returns the domain being built. It is the live value, not a copy.
func (r *Registry[S]) Domain() *Domain[S] {
	return r.domain
}
