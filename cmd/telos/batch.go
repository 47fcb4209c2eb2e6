// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jllopis/telos/pkg/errors"
	"github.com/jllopis/telos/pkg/planner"
	"github.com/jllopis/telos/pkg/runtime"
)

type batchItem struct {
	planOutput
	Error string `json:"error,omitempty"`
}

func (a *App) newBatchCmd() *cobra.Command {
	var (
		domainPath  string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Plan every problem of a domain document concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, reg, err := a.loadDomain(domainPath)
			if err != nil {
				return err
			}
			if len(def.Problems) == 0 {
				return NewInvalidArgumentError("--domain", fmt.Sprintf("%s declares no problems", domainPath))
			}
			if concurrency <= 0 {
				concurrency = a.cfg.Batch.Concurrency
			}

			problems := make([]runtime.Problem[planner.Facts], len(def.Problems))
			for i, pb := range def.Problems {
				problems[i] = runtime.Problem[planner.Facts]{Name: pb.Name, Goals: pb.Goals, State: pb.State.Clone()}
			}
			results := a.newRunner(def, reg, nil).RunBatch(cmd.Context(), problems, concurrency)

			items := make([]batchItem, len(results))
			var worst error
			for i, br := range results {
				items[i] = batchItem{planOutput: planOutput{
					RunID:   br.RunID,
					Domain:  def.ID,
					Problem: br.Problem,
					Goals:   def.Problems[i].Goals,
					Plan:    []string{},
				}}
				switch {
				case br.Err != nil:
					items[i].Error = br.Err.Error()
					worst = worseOf(worst, br.Err)
				case br.Result != nil:
					items[i].planOutput = newPlanOutput(br.RunID, def.ID, def.Problems[i], br.Result)
					worst = worseOf(worst, br.Result.Err())
				}
			}

			if a.opts.json {
				if err := a.printJSON(items); err != nil {
					return err
				}
			} else {
				a.printBatch(items)
			}
			if worst != nil {
				return &reportedError{err: worst}
			}
			return nil
		},
	}
	bindDomainFlag(cmd, &domainPath)
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent runs (default from batch.concurrency)")
	return cmd
}

// worseOf keeps the error with the higher exit status.
func worseOf(current, next error) error {
	if next == nil {
		return current
	}
	if current == nil || severity(next) > severity(current) {
		return next
	}
	return current
}

func severity(err error) int {
	var te *errors.TelosError
	if !stderrors.As(err, &te) {
		return 1
	}
	switch te.ExitCode() {
	case 2:
		return 2
	case 3:
		return 3
	}
	return 1
}

func (a *App) printBatch(items []batchItem) {
	w := a.newTabWriter()
	writeRow(w, "PROBLEM", "STATUS", "PLAN", "RUN")
	for _, item := range items {
		status := "ok"
		detail := strings.Join(item.Plan, " → ")
		switch {
		case item.Error != "":
			status = "error"
			detail = item.Error
		case !item.Success:
			status = "failed"
			detail = item.Failure.String()
		}
		writeRow(w, item.Problem, status, detail, item.RunID)
	}
	_ = w.Flush()
}
