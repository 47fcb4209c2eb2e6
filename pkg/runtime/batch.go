// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jllopis/telos/pkg/core"
	"github.com/jllopis/telos/pkg/planner"
)

// DefaultConcurrency bounds RunBatch when no limit is given.
const DefaultConcurrency = 4

// Problem is one independent planning request of a batch.
type Problem[S any] struct {
	Name  string
	Goals []string
	State S
}

// BatchResult pairs a problem with its outcome. Err holds fatal errors and
// context cancellation; ordinary failures live in Result.
type BatchResult[S any] struct {
	Problem string
	RunID   string
	Result  *planner.Result[S]
	Err     error
}

// RunBatch plans every problem with at most concurrency runs in flight.
// Results are returned in input order. A fatal error in one problem does
// not stop the others; problems that had not started when ctx was
// cancelled report ctx.Err().
func (r *Runner[S]) RunBatch(ctx context.Context, problems []Problem[S], concurrency int) []BatchResult[S] {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]BatchResult[S], len(problems))

	r.opts.Logger.InfoContext(ctx, "planner.batch.start",
		slog.String("domain", r.opts.DomainID),
		slog.Int("problems", len(problems)),
		slog.Int("concurrency", concurrency),
	)

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, pb := range problems {
		i, pb := i, pb
		runID := core.NewRunID()
		results[i] = BatchResult[S]{Problem: pb.Name, RunID: runID}
		g.Go(func() error {
			res, err := r.Run(core.WithRunID(ctx, runID), pb.Goals, pb.State)
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return results
}
