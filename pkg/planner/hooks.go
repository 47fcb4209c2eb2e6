// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

// Hooks are optional notifications emitted synchronously by the search.
// They observe only: nothing a hook does changes the outcome of a run.
// States handed to OnApply are the live values and must not be mutated.
type Hooks[S any] struct {
	// OnExpand is called for every task name taken off the pending queue.
	OnExpand func(task string, depth int)

	// OnMethodTry is called for every method whose precondition holds, just
	// before its subtasks are expanded.
	OnMethodTry func(task string, method *Method[S], depth int)

	// OnBacktrack is called when a tried method's subtree was exhausted
	// without producing a plan.
	OnBacktrack func(task string, method *Method[S], depth int)

	// OnApply is called every time an operator effect is applied.
	OnApply func(op *Operator[S], before, after S, depth int)
}

// ChainHooks fans every notification out to each non-nil hook set, in order.
func ChainHooks[S any](hooks ...*Hooks[S]) *Hooks[S] {
	var set []*Hooks[S]
	for _, h := range hooks {
		if h != nil {
			set = append(set, h)
		}
	}
	switch len(set) {
	case 0:
		return nil
	case 1:
		return set[0]
	}
	return &Hooks[S]{
		OnExpand: func(task string, depth int) {
			for _, h := range set {
				h.expand(task, depth)
			}
		},
		OnMethodTry: func(task string, m *Method[S], depth int) {
			for _, h := range set {
				h.methodTry(task, m, depth)
			}
		},
		OnBacktrack: func(task string, m *Method[S], depth int) {
			for _, h := range set {
				h.backtrack(task, m, depth)
			}
		},
		OnApply: func(op *Operator[S], before, after S, depth int) {
			for _, h := range set {
				h.apply(op, before, after, depth)
			}
		},
	}
}

func (h *Hooks[S]) expand(task string, depth int) {
	if h != nil && h.OnExpand != nil {
		h.OnExpand(task, depth)
	}
}

func (h *Hooks[S]) methodTry(task string, m *Method[S], depth int) {
	if h != nil && h.OnMethodTry != nil {
		h.OnMethodTry(task, m, depth)
	}
}

func (h *Hooks[S]) backtrack(task string, m *Method[S], depth int) {
	if h != nil && h.OnBacktrack != nil {
		h.OnBacktrack(task, m, depth)
	}
}

func (h *Hooks[S]) apply(op *Operator[S], before, after S, depth int) {
	if h != nil && h.OnApply != nil {
		h.OnApply(op, before, after, depth)
	}
}
