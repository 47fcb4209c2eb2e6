// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

// search holds the per-run mutable accumulator. A fresh search is created by
// every call to Planner.Plan, so concurrent runs never share one.
type search[S any] struct {
	domain   *Domain[S]
	hooks    *Hooks[S]
	maxDepth int
	plan     []*Operator[S]
	stats    Stats
}

// run resolves queue left to right starting from state. It returns the final
// simulated state and whether a complete plan was found. The only error it
// returns is a *DepthError.
func (s *search[S]) run(queue []string, state S, depth int) (S, bool, error) {
	if depth > s.maxDepth {
		task := ""
		if len(queue) > 0 {
			task = queue[0]
		}
		return state, false, &DepthError{Depth: depth, Limit: s.maxDepth, Task: task}
	}
	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}
	if len(queue) == 0 {
		return state, true, nil
	}

	name, rest := queue[0], queue[1:]
	s.stats.Expansions++
	s.hooks.expand(name, depth)

	ref := s.domain.Lookup(name)
	switch ref.Kind {
	case KindOperator:
		op := ref.Operator
		if !op.Applicable(state) {
			return state, false, nil
		}
		next := op.Apply(state)
		s.stats.OperatorsApplied++
		s.hooks.apply(op, state, next, depth)

		mark := len(s.plan)
		s.plan = append(s.plan, op)
		final, ok, err := s.run(rest, next, depth+1)
		if err != nil || !ok {
			s.plan = s.plan[:mark]
		}
		return final, ok, err

	case KindCompound:
		for _, m := range ref.Compound.Methods {
			if !m.Applicable(state) {
				continue
			}
			s.stats.MethodTrials++
			s.hooks.methodTry(name, m, depth)

			expanded := make([]string, 0, len(m.Subtasks)+len(rest))
			expanded = append(expanded, m.Subtasks...)
			expanded = append(expanded, rest...)
			final, ok, err := s.run(expanded, state, depth+1)
			if err != nil {
				return state, false, err
			}
			if ok {
				return final, true, nil
			}
			s.stats.Backtracks++
			s.hooks.backtrack(name, m, depth)
		}
		return state, false, nil
	}

	return state, false, nil
}
