// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jllopis/telos/pkg/planner"
	telostest "github.com/jllopis/telos/pkg/testing"
)

type explainResult struct {
	planOutput
	Trace []telostest.TraceEntry `json:"trace"`
	Error string                 `json:"error,omitempty"`
}

func (a *App) newExplainCmd() *cobra.Command {
	var flags problemFlags
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Plan and print the search trace",
		Long: `explain runs the planner with a recording hook and prints every expansion,
method attempt, backtrack and operator application, indented by depth.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, reg, err := a.loadDomain(flags.domain)
			if err != nil {
				return err
			}
			pb, err := flags.resolve(def)
			if err != nil {
				return err
			}

			rec := telostest.NewRecorder[planner.Facts]()
			runID, res, runErr := a.planProblem(cmd.Context(), a.newRunner(def, reg, rec.Hooks()), pb)

			out := explainResult{Trace: rec.Entries()}
			if res != nil {
				out.planOutput = newPlanOutput(runID, def.ID, pb, res)
			} else {
				out.planOutput = planOutput{RunID: runID, Domain: def.ID, Problem: pb.Name, Goals: pb.Goals, Plan: []string{}}
			}
			if runErr != nil {
				out.Error = runErr.Error()
			}

			if a.opts.json {
				if err := a.printJSON(out); err != nil {
					return err
				}
			} else {
				a.printExplain(out)
			}

			if runErr != nil {
				return runErr
			}
			if !res.Success() {
				return &reportedError{err: res.Err()}
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *App) printExplain(out explainResult) {
	fmt.Fprintf(a.stdout, "Search trace for %v (%d notifications):\n", out.Goals, len(out.Trace))
	fmt.Fprint(a.stdout, telostest.FormatTrace(out.Trace))
	fmt.Fprintln(a.stdout)

	s := out.Stats
	fmt.Fprintf(a.stdout, "Stats: expansions=%d method_trials=%d backtracks=%d operators_applied=%d max_depth=%d\n",
		s.Expansions, s.MethodTrials, s.Backtracks, s.OperatorsApplied, s.MaxDepth)
	switch {
	case out.Error != "":
		fmt.Fprintln(a.stdout, "Outcome: fatal")
	case out.Success:
		fmt.Fprintf(a.stdout, "Outcome: plan %v\n", out.Plan)
	default:
		fmt.Fprintf(a.stdout, "Outcome: no plan (%s)\n", out.Failure)
	}
}
