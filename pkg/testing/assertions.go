// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"slices"
	"testing"

	"github.com/jllopis/telos/pkg/planner"
)

// OperatorNames returns the operator names of a result's plan, or nil when
// the result is nil or failed.
func OperatorNames[S any](res *planner.Result[S]) []string {
	if !res.Success() {
		return nil
	}
	return planner.OperatorNames(res.Plan)
}

// AssertPlan fails the test unless res succeeded with exactly the given
// operator sequence.
func AssertPlan[S any](t testing.TB, res *planner.Result[S], want ...string) {
	t.Helper()
	if res == nil {
		t.Errorf("expected plan %v, got nil result", want)
		return
	}
	if res.Failure != nil {
		t.Errorf("expected plan %v, got failure %s", want, res.Failure)
		return
	}
	got := planner.OperatorNames(res.Plan)
	if !slices.Equal(got, want) {
		t.Errorf("expected plan %v, got %v", want, got)
	}
}

// AssertFailure fails the test unless res failed with reason and task.
func AssertFailure[S any](t testing.TB, res *planner.Result[S], reason planner.FailureReason, task string) {
	t.Helper()
	if res == nil {
		t.Errorf("expected failure %s(%s), got nil result", reason, task)
		return
	}
	if res.Failure == nil {
		t.Errorf("expected failure %s(%s), got plan %v", reason, task, planner.OperatorNames(res.Plan))
		return
	}
	if res.Failure.Reason != reason || res.Failure.Task != task {
		t.Errorf("expected failure %s(%s), got %s(%s)", reason, task, res.Failure.Reason, res.Failure.Task)
	}
}
