// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jllopis/telos/pkg/core"
	"github.com/jllopis/telos/pkg/errors"
	"github.com/jllopis/telos/pkg/planner"
	"github.com/jllopis/telos/pkg/runtime"
)

// problemFlags selects what to plan: a named problem of the document or an
// ad-hoc goal list with an initial state.
type problemFlags struct {
	domain  string
	problem string
	goals   []string
	state   []string
}

func (f *problemFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.domain, "domain", "", "Path to the domain document (YAML or JSON)")
	cmd.Flags().StringVar(&f.problem, "problem", "", "Name of a problem declared in the document")
	cmd.Flags().StringArrayVar(&f.goals, "goal", nil, "Goal task (repeatable, planned left to right)")
	cmd.Flags().StringArrayVar(&f.state, "state", nil, "Initial fact as key=value (repeatable, YAML scalar values)")
}

func bindDomainFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "domain", "", "Path to the domain document (YAML or JSON)")
}

func requireDomain(path string) error {
	if strings.TrimSpace(path) == "" {
		return NewInvalidArgumentError("--domain", "a domain document is required")
	}
	return nil
}

// loadDomain reads and compiles the document at path.
func (a *App) loadDomain(path string) (*planner.DomainDefinition, *planner.Registry[planner.Facts], error) {
	if err := requireDomain(path); err != nil {
		return nil, nil, err
	}
	def, reg, err := planner.LoadDomain(path, planner.WithExprLogger(a.logger))
	if err != nil {
		return nil, nil, NewDomainError(err, path)
	}
	return def, reg, nil
}

// resolve returns the problem to plan. --problem and --goal are mutually
// exclusive; --state values overlay the problem state.
func (f *problemFlags) resolve(def *planner.DomainDefinition) (planner.ProblemDefinition, error) {
	if f.problem != "" && len(f.goals) > 0 {
		return planner.ProblemDefinition{}, NewInvalidArgumentError("--goal", "cannot be combined with --problem")
	}

	var pb planner.ProblemDefinition
	switch {
	case f.problem != "":
		found, ok := def.Problem(f.problem)
		if !ok {
			return pb, NewNotFoundError("problem", f.problem, def.ProblemNames())
		}
		pb = found
		pb.State = found.State.Clone()
	case len(f.goals) > 0:
		pb = planner.ProblemDefinition{Name: "adhoc", Goals: append([]string(nil), f.goals...), State: planner.Facts{}}
	default:
		return pb, NewInvalidArgumentError("--problem", "either --problem or --goal is required")
	}

	overlay, err := parseState(f.state)
	if err != nil {
		return pb, err
	}
	if pb.State == nil {
		pb.State = planner.Facts{}
	}
	for k, v := range overlay {
		pb.State[k] = v
	}
	return pb, nil
}

// parseState decodes key=value pairs. Values are YAML scalars, so 100 is
// an int, false a bool and Hall a string.
func parseState(pairs []string) (planner.Facts, error) {
	facts := planner.Facts{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, NewInvalidArgumentError("--state", fmt.Sprintf("%q is not key=value", pair))
		}
		var value any
		if strings.TrimSpace(raw) == "" {
			value = ""
		} else if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		facts[key] = value
	}
	return facts, nil
}

func (a *App) newRunner(def *planner.DomainDefinition, reg *planner.Registry[planner.Facts], hooks *planner.Hooks[planner.Facts]) *runtime.Runner[planner.Facts] {
	return runtime.NewRunner(reg.Domain(), runtime.Options[planner.Facts]{
		DomainID:   def.ID,
		MaxDepth:   a.cfg.Planner.MaxDepth,
		Hooks:      hooks,
		AuditStore: a.store,
		Metrics:    a.metrics,
		Logger:     a.logger,
	})
}

// planProblem runs pb and returns its result with the run id assigned.
func (a *App) planProblem(ctx context.Context, runner *runtime.Runner[planner.Facts], pb planner.ProblemDefinition) (string, *planner.Result[planner.Facts], error) {
	runID := core.NewRunID()
	res, err := runner.Run(core.WithRunID(ctx, runID), pb.Goals, pb.State)
	if err != nil {
		return runID, nil, fatalError(err)
	}
	return runID, res, nil
}

// fatalError attaches a hint to fatal planner errors.
func fatalError(err error) error {
	var te *errors.TelosError
	if !stderrors.As(err, &te) {
		return err
	}
	switch te.Code {
	case errors.CodeMaxDepthExceeded:
		return NewCLIError(te, "the domain decomposes cyclically; check methods that re-enter their own task")
	case errors.CodeDomainValidation:
		return NewCLIError(te, "run 'telos validate' to list unresolved subtasks")
	}
	return err
}

// planOutput is the JSON shape of a single planning run.
type planOutput struct {
	RunID      string           `json:"run_id"`
	Domain     string           `json:"domain"`
	Problem    string           `json:"problem"`
	Goals      []string         `json:"goals"`
	Success    bool             `json:"success"`
	Plan       []string         `json:"plan"`
	FinalState planner.Facts    `json:"final_state,omitempty"`
	Failure    *planner.Failure `json:"failure,omitempty"`
	Stats      planner.Stats    `json:"stats"`
}

func newPlanOutput(runID, domainID string, pb planner.ProblemDefinition, res *planner.Result[planner.Facts]) planOutput {
	out := planOutput{
		RunID:   runID,
		Domain:  domainID,
		Problem: pb.Name,
		Goals:   pb.Goals,
		Success: res.Success(),
		Plan:    planner.OperatorNames(res.Plan),
		Failure: res.Failure,
		Stats:   res.Stats,
	}
	if res.Success() {
		out.FinalState = res.FinalState
	}
	return out
}
