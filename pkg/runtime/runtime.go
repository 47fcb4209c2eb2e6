// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package runtime runs the pure planner inside an observable environment:
// run ids, spans, metrics, events, audit records and logs.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/telos/pkg/audit"
	"github.com/jllopis/telos/pkg/core"
	"github.com/jllopis/telos/pkg/planner"
	"github.com/jllopis/telos/pkg/telemetry"
)

// Options configures a Runner. Every field is optional.
type Options[S any] struct {
	DomainID   string
	MaxDepth   int
	Hooks      *planner.Hooks[S]
	AuditStore audit.Store
	Emitter    core.EventEmitter
	Metrics    *telemetry.PlanMetrics
	Logger     *slog.Logger
	Tracer     trace.Tracer
}

// Runner plans against one domain. It is safe for concurrent use as long
// as the domain is not modified while runs are in flight.
type Runner[S any] struct {
	domain *planner.Domain[S]
	opts   Options[S]
}

// NewRunner creates a runner for domain.
func NewRunner[S any](domain *planner.Domain[S], opts Options[S]) *Runner[S] {
	if domain == nil {
		domain = planner.NewDomain[S]()
	}
	if opts.Emitter == nil {
		opts.Emitter = core.NoopEventEmitter{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("telos/runtime")
	}
	return &Runner[S]{domain: domain, opts: opts}
}

// Domain returns the domain the runner plans against.
func (r *Runner[S]) Domain() *planner.Domain[S] {
	return r.domain
}

// Run plans goals from initial. Ordinary failures are returned in the
// result; fatal planner errors are returned as *errors.TelosError.
// The context is only consulted before planning starts.
func (r *Runner[S]) Run(ctx context.Context, goals []string, initial S) (*planner.Result[S], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, runID := core.EnsureRunID(ctx)
	domainID := r.opts.DomainID
	if domainID != "" {
		ctx = core.WithDomainID(ctx, domainID)
	}
	log := r.opts.Logger

	ctx, span := r.opts.Tracer.Start(ctx, "Planner.Plan",
		trace.WithAttributes(telemetry.RunAttributes(runID, domainID, goals)...))
	defer span.End()

	log.InfoContext(ctx, "planner.run.start",
		slog.Any("goals", goals),
	)
	r.opts.Emitter.Emit(ctx, core.NewEvent(core.EventPlanStarted, runID, domainID, map[string]any{
		"goals": goals,
	}))

	started := time.Now()
	p := planner.New(r.domain,
		planner.WithHooks(planner.ChainHooks(spanHooks[S](span), r.opts.Hooks)),
		planner.WithMaxDepth[S](r.opts.MaxDepth),
	)
	res, err := p.Plan(goals, initial)
	finished := time.Now()
	durationMs := float64(finished.Sub(started).Microseconds()) / 1000

	rec := audit.Record{
		RunID:      runID,
		DomainID:   domainID,
		Goals:      append([]string(nil), goals...),
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
	}

	if err != nil {
		te := planner.WrapError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(telemetry.AttrPlanOutcome, telemetry.OutcomeFatal),
			attribute.String(telemetry.AttrPlanErrorCode, string(te.Code)))
		r.opts.Metrics.RecordFatal(ctx, domainID, string(te.Code))
		log.ErrorContext(ctx, "planner.run.fatal",
			slog.String("code", string(te.Code)),
			slog.String("error", err.Error()),
		)
		r.opts.Emitter.Emit(ctx, core.NewEvent(core.EventPlanFailed, runID, domainID, map[string]any{
			"code":  string(te.Code),
			"error": err.Error(),
		}))
		rec.Status = audit.StatusFatal
		rec.Error = err.Error()
		r.record(ctx, rec)
		return nil, te
	}

	stats := res.Stats
	span.SetAttributes(telemetry.StatsAttributes(stats.Expansions, stats.MethodTrials,
		stats.Backtracks, stats.OperatorsApplied, stats.MaxDepth)...)
	r.opts.Metrics.RecordSearch(ctx, domainID, stats.Backtracks, stats.OperatorsApplied)
	rec.Stats = stats

	if res.Success() {
		names := planner.OperatorNames(res.Plan)
		span.SetAttributes(telemetry.OutcomeAttributes(true, len(names), "", "")...)
		span.SetAttributes(attribute.String(telemetry.AttrPlanOutcome, telemetry.OutcomeSucceeded))
		r.opts.Metrics.RecordSuccess(ctx, domainID, len(names), durationMs)
		log.InfoContext(ctx, "planner.run.complete",
			slog.Int("length", len(names)),
			slog.Any("plan", names),
			slog.Float64("duration_ms", durationMs),
		)
		r.opts.Emitter.Emit(ctx, core.NewEvent(core.EventPlanCompleted, runID, domainID, map[string]any{
			"plan": names,
		}))
		rec.Status = audit.StatusSucceeded
		rec.Plan = names
		r.record(ctx, rec)
		return res, nil
	}

	reason := string(res.Failure.Reason)
	span.SetAttributes(telemetry.OutcomeAttributes(false, 0, reason, res.Failure.Task)...)
	span.SetAttributes(attribute.String(telemetry.AttrPlanOutcome, telemetry.OutcomeFailed))
	r.opts.Metrics.RecordFailure(ctx, domainID, reason, durationMs)
	log.WarnContext(ctx, "planner.run.failed",
		slog.String("reason", reason),
		slog.String("task", res.Failure.Task),
		slog.Float64("duration_ms", durationMs),
	)
	r.opts.Emitter.Emit(ctx, core.NewEvent(core.EventPlanFailed, runID, domainID, map[string]any{
		"reason": reason,
		"task":   res.Failure.Task,
	}))
	rec.Status = audit.StatusFailed
	rec.Reason = reason
	rec.Task = res.Failure.Task
	r.record(ctx, rec)
	return res, nil
}

func (r *Runner[S]) record(ctx context.Context, rec audit.Record) {
	if r.opts.AuditStore == nil {
		return
	}
	if err := r.opts.AuditStore.Record(ctx, rec); err != nil {
		r.opts.Logger.ErrorContext(ctx, "audit.record.error",
			slog.String("error", err.Error()),
		)
	}
}

// spanHooks turns search notifications into span events.
func spanHooks[S any](span trace.Span) *planner.Hooks[S] {
	if !span.IsRecording() {
		return nil
	}
	return &planner.Hooks[S]{
		OnExpand: func(task string, depth int) {
			span.AddEvent("task.expand", trace.WithAttributes(telemetry.TaskAttributes(task, depth)...))
		},
		OnMethodTry: func(task string, m *planner.Method[S], depth int) {
			span.AddEvent("method.try", trace.WithAttributes(telemetry.MethodAttributes(task, m.Name, depth)...))
		},
		OnBacktrack: func(task string, m *planner.Method[S], depth int) {
			span.AddEvent("method.backtrack", trace.WithAttributes(telemetry.MethodAttributes(task, m.Name, depth)...))
		},
		OnApply: func(op *planner.Operator[S], _, _ S, depth int) {
			span.AddEvent("operator.apply", trace.WithAttributes(telemetry.OperatorAttributes(op.Name, depth)...))
		},
	}
}
