// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

// FindUnresolved walks the decomposition graph breadth-first from roots and
// returns the first name that is neither an operator nor a compound task.
// Every method of every compound task is followed regardless of its
// precondition, and each name is visited once, so cyclic domains terminate.
func FindUnresolved[S any](domain *Domain[S], roots []string) (string, bool) {
	visited := make(map[string]struct{}, len(roots))
	queue := append([]string(nil), roots...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, seen := visited[name]; seen {
			continue
		}
		visited[name] = struct{}{}

		ref := domain.Lookup(name)
		switch ref.Kind {
		case KindOperator:
		case KindCompound:
			for _, m := range ref.Compound.Methods {
				queue = append(queue, m.Subtasks...)
			}
		default:
			return name, true
		}
	}
	return "", false
}
