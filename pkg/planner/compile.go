// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompileOption configures Compile.
type CompileOption func(*compiler)

// WithExprLogger sets the logger used to report expression evaluation
// errors. Defaults to slog.Default().
func WithExprLogger(logger *slog.Logger) CompileOption {
	return func(c *compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type compiler struct {
	logger *slog.Logger
}

// Compile validates def and turns it into a registry over Facts. Conditions
// that fail to evaluate count as false; assignments that fail to evaluate
// leave the fact untouched. Both cases are logged at warn level.
func Compile(def *DomainDefinition, opts ...CompileOption) (*Registry[Facts], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	c := &compiler{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	reg := NewRegistry[Facts]()
	for _, od := range def.Operators {
		op, err := c.operator(od)
		if err != nil {
			return nil, err
		}
		reg.RegisterOperator(op)
	}
	for _, td := range def.Tasks {
		for _, md := range td.Methods {
			cond, err := c.condition(md.When, "method", md.Name)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", td.Name, err)
			}
			reg.RegisterMethod(td.Name, NewMethod(md.Name, cond, md.Subtasks...))
		}
	}
	return reg, nil
}

type assignment struct {
	key        string
	expression string
	program    *vm.Program
}

func (c *compiler) operator(od OperatorDefinition) (*Operator[Facts], error) {
	cond, err := c.condition(od.When, "operator", od.Name)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(od.Set))
	for key := range od.Set {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	assignments := make([]assignment, 0, len(keys))
	for _, key := range keys {
		source := normalizeExpression(od.Set[key])
		program, err := expr.Compile(source, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("operator %q: compile set %q expression %q: %w", od.Name, key, source, err)
		}
		assignments = append(assignments, assignment{key: key, expression: source, program: program})
	}
	deletes := append([]string(nil), od.Delete...)

	name := od.Name
	logger := c.logger
	effect := func(state Facts) Facts {
		next := state.Clone()
		env := map[string]any(state)
		if env == nil {
			env = map[string]any{}
		}
		for _, a := range assignments {
			value, err := expr.Run(a.program, env)
			if err != nil {
				logger.Warn("planner.expr.error",
					slog.String("operator", name),
					slog.String("fact", a.key),
					slog.String("expression", a.expression),
					slog.String("error", err.Error()),
				)
				continue
			}
			next[a.key] = value
		}
		for _, key := range deletes {
			delete(next, key)
		}
		return next
	}
	return NewOperator(od.Name, cond, effect), nil
}

// condition compiles a boolean expression. An empty expression yields a nil
// condition, which always holds.
func (c *compiler) condition(source, kind, owner string) (Condition[Facts], error) {
	source = normalizeExpression(source)
	if source == "" {
		return nil, nil
	}
	program, err := expr.Compile(source, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%s %q: compile when expression %q: %w", kind, owner, source, err)
	}
	logger := c.logger
	return func(state Facts) bool {
		env := map[string]any(state)
		if env == nil {
			env = map[string]any{}
		}
		out, err := expr.Run(program, env)
		if err != nil {
			logger.Warn("planner.expr.error",
				slog.String(kind, owner),
				slog.String("expression", source),
				slog.String("error", err.Error()),
			)
			return false
		}
		ok, _ := out.(bool)
		return ok
	}, nil
}
