// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package testing provides utilities for testing Telos planning domains.
//
// This package includes:
//   - Scenario definitions for declarative planning tests
//   - A hook recorder for inspecting the search
//   - Assertion helpers for plans and failures
//
// Example usage:
//
//	testing.NewScenario("travel", domain).
//	    WithGoals("Travel").
//	    WithState(car{Gas: true}).
//	    ExpectPlan("SlowRefuel", "Drive").
//	    ExpectHookCount(testing.HookBacktrack, 0).
//	    Run(t)
package testing

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/jllopis/telos/pkg/planner"
)

// Scenario describes one planning problem and what its outcome must be.
type Scenario[S any] struct {
	name         string
	domain       *planner.Domain[S]
	goals        []string
	state        S
	maxDepth     int
	expectations []Expectation[S]
}

// Expectation defines a condition to verify after running a scenario.
type Expectation[S any] interface {
	// Check verifies the expectation against the result.
	Check(result *ScenarioResult[S]) error
	// Description returns a human-readable description of the expectation.
	Description() string
}

// ScenarioResult contains the outcome of running a scenario.
type ScenarioResult[S any] struct {
	Result   *planner.Result[S]
	Err      error
	Trace    []TraceEntry
	Duration time.Duration
}

// NewScenario creates a scenario planning against domain.
func NewScenario[S any](name string, domain *planner.Domain[S]) *Scenario[S] {
	return &Scenario[S]{name: name, domain: domain}
}

// WithGoals sets the top-level goals.
func (s *Scenario[S]) WithGoals(goals ...string) *Scenario[S] {
	s.goals = goals
	return s
}

// WithState sets the initial world state.
func (s *Scenario[S]) WithState(state S) *Scenario[S] {
	s.state = state
	return s
}

// WithMaxDepth overrides the recursion ceiling.
func (s *Scenario[S]) WithMaxDepth(depth int) *Scenario[S] {
	s.maxDepth = depth
	return s
}

// Expect adds an expectation to the scenario.
func (s *Scenario[S]) Expect(exp Expectation[S]) *Scenario[S] {
	s.expectations = append(s.expectations, exp)
	return s
}

// ExpectPlan expects success with exactly the given operator sequence.
func (s *Scenario[S]) ExpectPlan(operators ...string) *Scenario[S] {
	return s.Expect(&planExpectation[S]{want: operators})
}

// ExpectFailure expects an ordinary failure with reason and task.
func (s *Scenario[S]) ExpectFailure(reason planner.FailureReason, task string) *Scenario[S] {
	return s.Expect(&failureExpectation[S]{reason: reason, task: task})
}

// ExpectFatal expects a fatal error matching target with errors.Is.
func (s *Scenario[S]) ExpectFatal(target error) *Scenario[S] {
	return s.Expect(&fatalExpectation[S]{target: target})
}

// ExpectHookCount expects exactly n notifications of kind.
func (s *Scenario[S]) ExpectHookCount(kind HookKind, n int) *Scenario[S] {
	return s.Expect(&hookCountExpectation[S]{kind: kind, want: n})
}

// ExpectState expects the final state to satisfy check.
func (s *Scenario[S]) ExpectState(desc string, check func(S) bool) *Scenario[S] {
	return s.Expect(&stateExpectation[S]{desc: desc, check: check})
}

// Execute plans the scenario without checking expectations.
func (s *Scenario[S]) Execute() *ScenarioResult[S] {
	rec := NewRecorder[S]()
	p := planner.New(s.domain, planner.WithHooks(rec.Hooks()), planner.WithMaxDepth[S](s.maxDepth))

	start := time.Now()
	res, err := p.Plan(s.goals, s.state)
	return &ScenarioResult[S]{
		Result:   res,
		Err:      err,
		Trace:    rec.Entries(),
		Duration: time.Since(start),
	}
}

// Run executes the scenario and reports every failed expectation to t.
func (s *Scenario[S]) Run(t testing.TB) *ScenarioResult[S] {
	t.Helper()
	result := s.Execute()
	for _, exp := range s.expectations {
		if err := exp.Check(result); err != nil {
			t.Errorf("scenario %q: expectation %q failed: %v", s.name, exp.Description(), err)
		}
	}
	return result
}

// Expectation implementations

type planExpectation[S any] struct {
	want []string
}

func (e *planExpectation[S]) Check(r *ScenarioResult[S]) error {
	if r.Err != nil {
		return fmt.Errorf("unexpected error: %v", r.Err)
	}
	if r.Result.Failure != nil {
		return fmt.Errorf("planning failed: %s", r.Result.Failure)
	}
	got := planner.OperatorNames(r.Result.Plan)
	if !slices.Equal(got, e.want) {
		return fmt.Errorf("got plan %v", got)
	}
	return nil
}

func (e *planExpectation[S]) Description() string {
	return fmt.Sprintf("plan %v", e.want)
}

type failureExpectation[S any] struct {
	reason planner.FailureReason
	task   string
}

func (e *failureExpectation[S]) Check(r *ScenarioResult[S]) error {
	if r.Err != nil {
		return fmt.Errorf("unexpected error: %v", r.Err)
	}
	f := r.Result.Failure
	if f == nil {
		return fmt.Errorf("got plan %v", planner.OperatorNames(r.Result.Plan))
	}
	if f.Reason != e.reason || f.Task != e.task {
		return fmt.Errorf("got %s", f)
	}
	return nil
}

func (e *failureExpectation[S]) Description() string {
	return fmt.Sprintf("failure %s(%s)", e.reason, e.task)
}

type fatalExpectation[S any] struct {
	target error
}

func (e *fatalExpectation[S]) Check(r *ScenarioResult[S]) error {
	if r.Err == nil {
		return fmt.Errorf("expected fatal error, got none")
	}
	if !errors.Is(r.Err, e.target) {
		return fmt.Errorf("got %v", r.Err)
	}
	return nil
}

func (e *fatalExpectation[S]) Description() string {
	return fmt.Sprintf("fatal %v", e.target)
}

type hookCountExpectation[S any] struct {
	kind HookKind
	want int
}

func (e *hookCountExpectation[S]) Check(r *ScenarioResult[S]) error {
	n := 0
	for _, entry := range r.Trace {
		if entry.Kind == e.kind {
			n++
		}
	}
	if n != e.want {
		return fmt.Errorf("got %d", n)
	}
	return nil
}

func (e *hookCountExpectation[S]) Description() string {
	return fmt.Sprintf("%d %s notifications", e.want, e.kind)
}

type stateExpectation[S any] struct {
	desc  string
	check func(S) bool
}

func (e *stateExpectation[S]) Check(r *ScenarioResult[S]) error {
	if r.Err != nil {
		return fmt.Errorf("unexpected error: %v", r.Err)
	}
	if !e.check(r.Result.FinalState) {
		return fmt.Errorf("final state %v", r.Result.FinalState)
	}
	return nil
}

func (e *stateExpectation[S]) Description() string {
	return e.desc
}
