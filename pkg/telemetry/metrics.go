// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PlanMetrics records planning outcomes and search effort.
// A nil *PlanMetrics is valid and records nothing.
type PlanMetrics struct {
	runs             metric.Int64Counter
	failures         metric.Int64Counter
	fatal            metric.Int64Counter
	length           metric.Int64Histogram
	duration         metric.Float64Histogram
	backtracks       metric.Int64Counter
	operatorsApplied metric.Int64Counter
}

// NewPlanMetrics creates the planner instruments on the global meter provider.
func NewPlanMetrics() (*PlanMetrics, error) {
	return NewPlanMetricsWithMeter(otel.Meter("telos/planner"))
}

// NewPlanMetricsWithMeter creates the planner instruments on meter.
func NewPlanMetricsWithMeter(meter metric.Meter) (*PlanMetrics, error) {
	var (
		m   PlanMetrics
		err error
	)
	if m.runs, err = meter.Int64Counter(
		"telos.plan.runs",
		metric.WithDescription("Planning runs by outcome"),
	); err != nil {
		return nil, err
	}
	if m.failures, err = meter.Int64Counter(
		"telos.plan.failures",
		metric.WithDescription("Ordinary planning failures by reason"),
	); err != nil {
		return nil, err
	}
	if m.fatal, err = meter.Int64Counter(
		"telos.plan.fatal",
		metric.WithDescription("Fatal planning errors by code"),
	); err != nil {
		return nil, err
	}
	if m.length, err = meter.Int64Histogram(
		"telos.plan.length",
		metric.WithDescription("Number of operators in successful plans"),
	); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram(
		"telos.plan.duration_ms",
		metric.WithDescription("Planning wall time"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.backtracks, err = meter.Int64Counter(
		"telos.search.backtracks",
		metric.WithDescription("Method backtracks during search"),
	); err != nil {
		return nil, err
	}
	if m.operatorsApplied, err = meter.Int64Counter(
		"telos.search.operators_applied",
		metric.WithDescription("Operator applications during search, including undone ones"),
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordSuccess records a run that produced a plan.
func (m *PlanMetrics) RecordSuccess(ctx context.Context, domainID string, length int, durationMs float64) {
	if m == nil {
		return
	}
	domain := attribute.String(AttrPlanDomain, domainID)
	m.runs.Add(ctx, 1, metric.WithAttributes(domain, attribute.String(AttrPlanOutcome, OutcomeSucceeded)))
	m.length.Record(ctx, int64(length), metric.WithAttributes(domain))
	m.duration.Record(ctx, durationMs, metric.WithAttributes(domain, attribute.String(AttrPlanOutcome, OutcomeSucceeded)))
}

// RecordFailure records an ordinary planning failure.
func (m *PlanMetrics) RecordFailure(ctx context.Context, domainID, reason string, durationMs float64) {
	if m == nil {
		return
	}
	domain := attribute.String(AttrPlanDomain, domainID)
	m.runs.Add(ctx, 1, metric.WithAttributes(domain, attribute.String(AttrPlanOutcome, OutcomeFailed)))
	m.failures.Add(ctx, 1, metric.WithAttributes(domain, attribute.String(AttrPlanFailureReason, reason)))
	m.duration.Record(ctx, durationMs, metric.WithAttributes(domain, attribute.String(AttrPlanOutcome, OutcomeFailed)))
}

// RecordFatal records a fatal planning error.
func (m *PlanMetrics) RecordFatal(ctx context.Context, domainID, code string) {
	if m == nil {
		return
	}
	domain := attribute.String(AttrPlanDomain, domainID)
	m.runs.Add(ctx, 1, metric.WithAttributes(domain, attribute.String(AttrPlanOutcome, OutcomeFatal)))
	m.fatal.Add(ctx, 1, metric.WithAttributes(domain, attribute.String(AttrPlanErrorCode, code)))
}

// RecordSearch records the effort spent by one search.
func (m *PlanMetrics) RecordSearch(ctx context.Context, domainID string, backtracks, operatorsApplied int) {
	if m == nil {
		return
	}
	domain := attribute.String(AttrPlanDomain, domainID)
	if backtracks > 0 {
		m.backtracks.Add(ctx, int64(backtracks), metric.WithAttributes(domain))
	}
	if operatorsApplied > 0 {
		m.operatorsApplied.Add(ctx, int64(operatorsApplied), metric.WithAttributes(domain))
	}
}
