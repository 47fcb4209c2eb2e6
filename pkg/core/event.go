// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"sync"
	"time"
)

// EventType identifies a semantic event emitted around a planning run.
type EventType string

const (
	EventPlanStarted   EventType = "plan.started"
	EventPlanCompleted EventType = "plan.completed"
	EventPlanFailed    EventType = "plan.failed"
)

// Event captures a semantic run event.
type Event struct {
	Type      EventType
	RunID     string
	DomainID  string
	Timestamp time.Time
	Payload   map[string]any
}

// EventEmitter receives semantic events.
type EventEmitter interface {
	Emit(ctx context.Context, event Event)
}

// NoopEventEmitter is a default no-op implementation.
type NoopEventEmitter struct{}

// Emit implements EventEmitter.
func (NoopEventEmitter) Emit(_ context.Context, _ Event) {}

// EventEmitterFunc adapts a function to EventEmitter.
type EventEmitterFunc func(ctx context.Context, event Event)

// Emit implements EventEmitter.
func (f EventEmitterFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }

// EventCollector keeps every emitted event in memory.
type EventCollector struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements EventEmitter.
func (c *EventCollector) Emit(_ context.Context, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the collected events.
func (c *EventCollector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType EventType, runID, domainID string, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		RunID:     runID,
		DomainID:  domainID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
