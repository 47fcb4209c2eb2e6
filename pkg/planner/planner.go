// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"

	"github.com/jllopis/telos/pkg/errors"
)

// DefaultMaxDepth is the recursion ceiling guarding against cyclic
// decompositions.
const DefaultMaxDepth = 1000

// FailureReason classifies an ordinary planning failure.
type FailureReason string

const (
	ReasonUnknownTask                FailureReason = "UNKNOWN_TASK"
	ReasonOperatorPreconditionFailed FailureReason = "OPERATOR_PRECONDITION_FAILED"
	ReasonNoApplicableMethod         FailureReason = "NO_APPLICABLE_METHOD"
)

// Failure explains why no plan was found.
type Failure struct {
	Reason FailureReason `json:"reason"`
	Task   string        `json:"task"`
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Reason, f.Task)
}

// Stats summarises the work done by a single planning run.
type Stats struct {
	Expansions       int `json:"expansions"`
	MethodTrials     int `json:"method_trials"`
	Backtracks       int `json:"backtracks"`
	OperatorsApplied int `json:"operators_applied"`
	MaxDepth         int `json:"max_depth"`
}

// Result is the outcome of a planning run. Exactly one of Plan (possibly
// empty) or Failure is meaningful: Failure is nil on success.
type Result[S any] struct {
	Plan       []*Operator[S]
	FinalState S
	Failure    *Failure
	Stats      Stats
}

// Success reports whether a plan was found.
func (r *Result[S]) Success() bool {
	return r != nil && r.Failure == nil
}

// Err converts a failure into a typed error, or returns nil on success.
func (r *Result[S]) Err() error {
	if r == nil || r.Failure == nil {
		return nil
	}
	var code errors.ErrorCode
	switch r.Failure.Reason {
	case ReasonUnknownTask:
		code = errors.CodeUnknownTask
	case ReasonOperatorPreconditionFailed:
		code = errors.CodeOperatorPrecondition
	default:
		code = errors.CodeNoApplicableMethod
	}
	return errors.New(code, fmt.Sprintf("no plan found for task %q", r.Failure.Task), nil).
		WithContext("task", r.Failure.Task).
		WithAttribute("telos.plan.failure_task", r.Failure.Task).
		WithRecoverable(true)
}

// Option configures a Planner.
type Option[S any] func(*Planner[S])

// WithHooks installs instrumentation callbacks.
func WithHooks[S any](hooks *Hooks[S]) Option[S] {
	return func(p *Planner[S]) {
		p.hooks = hooks
	}
}

// WithMaxDepth overrides the recursion ceiling. Non-positive values keep the
// default.
func WithMaxDepth[S any](depth int) Option[S] {
	return func(p *Planner[S]) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Planner computes plans against a read-only domain. A Planner holds no
// per-run state and may be used from several goroutines at once.
type Planner[S any] struct {
	domain   *Domain[S]
	hooks    *Hooks[S]
	maxDepth int
}

// New creates a planner for domain. A nil domain behaves as an empty one.
func New[S any](domain *Domain[S], opts ...Option[S]) *Planner[S] {
	if domain == nil {
		domain = NewDomain[S]()
	}
	p := &Planner[S]{domain: domain, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Domain returns the domain the planner searches.
func (p *Planner[S]) Domain() *Domain[S] {
	return p.domain
}

// Plan decomposes goals, left to right, into a sequence of operators that is
// executable from initial. Ordinary failures are reported through
// Result.Failure; the returned error is reserved for a *DepthError.
func (p *Planner[S]) Plan(goals []string, initial S) (*Result[S], error) {
	if name, found := FindUnresolved(p.domain, goals); found {
		return &Result[S]{
			FinalState: initial,
			Failure:    &Failure{Reason: ReasonUnknownTask, Task: name},
		}, nil
	}

	s := &search[S]{domain: p.domain, hooks: p.hooks, maxDepth: p.maxDepth}
	final, ok, err := s.run(append([]string(nil), goals...), initial, 0)
	if err != nil {
		return nil, err
	}
	if ok {
		plan := s.plan
		if plan == nil {
			plan = []*Operator[S]{}
		}
		return &Result[S]{Plan: plan, FinalState: final, Stats: s.stats}, nil
	}
	return &Result[S]{
		FinalState: initial,
		Failure:    p.diagnose(goals, initial),
		Stats:      s.stats,
	}, nil
}

// diagnose attributes an exhausted search to the first top-level goal that
// is not applicable in the initial state. Failures that only surface deeper
// in the tree are attributed to the first goal.
func (p *Planner[S]) diagnose(goals []string, initial S) *Failure {
	for _, goal := range goals {
		ref := p.domain.Lookup(goal)
		switch ref.Kind {
		case KindOperator:
			if !ref.Operator.Applicable(initial) {
				return &Failure{Reason: ReasonOperatorPreconditionFailed, Task: goal}
			}
		case KindCompound:
			if !anyApplicable(ref.Compound.Methods, initial) {
				return &Failure{Reason: ReasonNoApplicableMethod, Task: goal}
			}
		}
	}
	first := ""
	if len(goals) > 0 {
		first = goals[0]
	}
	return &Failure{Reason: ReasonNoApplicableMethod, Task: first}
}

func anyApplicable[S any](methods []*Method[S], state S) bool {
	for _, m := range methods {
		if m.Applicable(state) {
			return true
		}
	}
	return false
}

// OperatorNames returns the names of the operators in plan.
func OperatorNames[S any](plan []*Operator[S]) []string {
	names := make([]string, len(plan))
	for i, op := range plan {
		names[i] = op.Name
	}
	return names
}
