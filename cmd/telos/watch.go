// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jllopis/telos/pkg/config"
	"github.com/jllopis/telos/pkg/errors"
)

func (a *App) newWatchCmd() *cobra.Command {
	var (
		flags    problemFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-plan every time the domain document changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDomain(flags.domain); err != nil {
				return err
			}
			// The first plan must succeed in loading; later edits may break
			// the document and are reported without stopping the watch.
			if _, _, err := a.loadDomain(flags.domain); err != nil {
				return err
			}

			watcher, err := config.NewWatcher([]string{flags.domain},
				config.WithDebounce(debounce),
				config.WithWatchLogger(a.logger),
			)
			if err != nil {
				return NewCLIError(errors.New(errors.CodeInternal, fmt.Sprintf("cannot watch %s", flags.domain), err), "")
			}

			ctx := cmd.Context()
			w := &watchSession{app: a, flags: flags}
			watcher.OnChange(func(path string) {
				a.logger.InfoContext(ctx, "watch.change", slog.String("path", path))
				w.replan(ctx, "changed")
			})
			watcher.Start(ctx)
			defer watcher.Stop()

			w.replan(ctx, "initial")
			<-ctx.Done()
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "Quiet period after the last change before re-planning")
	return cmd
}

// watchSession serializes re-plans so their output never interleaves.
type watchSession struct {
	mu    sync.Mutex
	app   *App
	flags problemFlags
	runs  int
}

func (w *watchSession) replan(ctx context.Context, trigger string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.runs++
	a := w.app

	if !a.opts.json {
		fmt.Fprintf(a.stdout, "=== run %d (%s) ===\n", w.runs, trigger)
	}
	def, reg, err := a.loadDomain(w.flags.domain)
	if err != nil {
		a.reportError(err)
		return
	}
	pb, err := w.flags.resolve(def)
	if err != nil {
		a.reportError(err)
		return
	}
	runID, res, err := a.planProblem(ctx, a.newRunner(def, reg, nil), pb)
	if err != nil {
		a.reportError(err)
		return
	}
	out := newPlanOutput(runID, def.ID, pb, res)
	if a.opts.json {
		_ = a.printJSON(out)
		return
	}
	a.printPlan(out)
	fmt.Fprintln(a.stdout)
}
