// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides OpenTelemetry integration with planner
// attributes and metrics, plus trace-aware slog configuration.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Telos planner telemetry.
const (
	// Run attributes
	AttrPlanRunID  = "telos.plan.run_id"
	AttrPlanDomain = "telos.plan.domain"
	AttrPlanGoals  = "telos.plan.goals"

	// Outcome attributes
	AttrPlanSuccess       = "telos.plan.success"
	AttrPlanLength        = "telos.plan.length"
	AttrPlanOutcome       = "telos.plan.outcome"
	AttrPlanFailureReason = "telos.plan.failure_reason"
	AttrPlanFailureTask   = "telos.plan.failure_task"
	AttrPlanErrorCode     = "telos.plan.error_code"

	// Search attributes
	AttrTaskName     = "telos.task.name"
	AttrTaskDepth    = "telos.task.depth"
	AttrMethodName   = "telos.method.name"
	AttrOperatorName = "telos.operator.name"

	// Stats attributes
	AttrStatsExpansions       = "telos.stats.expansions"
	AttrStatsMethodTrials     = "telos.stats.method_trials"
	AttrStatsBacktracks       = "telos.stats.backtracks"
	AttrStatsOperatorsApplied = "telos.stats.operators_applied"
	AttrStatsMaxDepth         = "telos.stats.max_depth"
)

// Outcome values for AttrPlanOutcome.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeFatal     = "fatal"
)

// RunAttributes returns common attributes for a planning run span.
func RunAttributes(runID, domainID string, goals []string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrPlanRunID, runID),
		attribute.StringSlice(AttrPlanGoals, goals),
	}
	if domainID != "" {
		attrs = append(attrs, attribute.String(AttrPlanDomain, domainID))
	}
	return attrs
}

// OutcomeAttributes describes how a run ended. reason and task are only
// set for failures.
func OutcomeAttributes(success bool, length int, reason, task string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Bool(AttrPlanSuccess, success),
	}
	if success {
		attrs = append(attrs, attribute.Int(AttrPlanLength, length))
		return attrs
	}
	if reason != "" {
		attrs = append(attrs, attribute.String(AttrPlanFailureReason, reason))
	}
	if task != "" {
		attrs = append(attrs, attribute.String(AttrPlanFailureTask, task))
	}
	return attrs
}

// TaskAttributes returns attributes for a task expansion.
func TaskAttributes(task string, depth int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrTaskName, task),
		attribute.Int(AttrTaskDepth, depth),
	}
}

// MethodAttributes returns attributes for a method trial or backtrack.
func MethodAttributes(task, method string, depth int) []attribute.KeyValue {
	attrs := TaskAttributes(task, depth)
	if method != "" {
		attrs = append(attrs, attribute.String(AttrMethodName, method))
	}
	return attrs
}

// OperatorAttributes returns attributes for an operator application.
func OperatorAttributes(operator string, depth int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOperatorName, operator),
		attribute.Int(AttrTaskDepth, depth),
	}
}

// StatsAttributes returns the search counters of a run.
func StatsAttributes(expansions, methodTrials, backtracks, operatorsApplied, maxDepth int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrStatsExpansions, expansions),
		attribute.Int(AttrStatsMethodTrials, methodTrials),
		attribute.Int(AttrStatsBacktracks, backtracks),
		attribute.Int(AttrStatsOperatorsApplied, operatorsApplied),
		attribute.Int(AttrStatsMaxDepth, maxDepth),
	}
}
