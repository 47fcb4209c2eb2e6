// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) newPlanCmd() *cobra.Command {
	var flags problemFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Decompose goals into a plan",
		Example: `  telos plan --domain coffee.yaml --problem morning
  telos plan --domain coffee.yaml --goal FetchCoffee --state location=Hall --state battery=3`,
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
			runID, res, err := a.planProblem(cmd.Context(), a.newRunner(def, reg, nil), pb)
			if err != nil {
				return err
			}

			out := newPlanOutput(runID, def.ID, pb, res)
			if a.opts.json {
				if err := a.printJSON(out); err != nil {
					return err
				}
			} else {
				a.printPlan(out)
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

func (a *App) printPlan(out planOutput) {
	fmt.Fprintf(a.stdout, "Domain:  %s\n", out.Domain)
	fmt.Fprintf(a.stdout, "Problem: %s\n", out.Problem)
	fmt.Fprintf(a.stdout, "Goals:   %s\n", strings.Join(out.Goals, ", "))
	fmt.Fprintf(a.stdout, "Run:     %s\n", out.RunID)
	if !out.Success {
		fmt.Fprintf(a.stdout, "\nNo plan found: %s\n", out.Failure)
		return
	}
	fmt.Fprintf(a.stdout, "\nPlan (%d steps):\n", len(out.Plan))
	for i, name := range out.Plan {
		fmt.Fprintf(a.stdout, "  %d. %s\n", i+1, name)
	}
	fmt.Fprintf(a.stdout, "\nFinal state: %s\n", out.FinalState)
}
