// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package core holds the small vocabulary shared by the Telos outer layers:
// run identifiers carried in a context and the semantic events emitted
// around a planning run.
package core

import (
	"context"

	"github.com/google/uuid"
)

type runIDKey struct{}
type domainIDKey struct{}

// WithRunID attaches a run id to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id if present.
func RunID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// EnsureRunID ensures a run id exists in the context.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := RunID(ctx); ok {
		return ctx, id
	}
	id := NewRunID()
	return WithRunID(ctx, id), id
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "run-" + uuid.NewString()
}

// WithDomainID attaches the id of the domain being planned against.
func WithDomainID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, domainIDKey{}, id)
}

// DomainID returns the domain id if present.
func DomainID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(domainIDKey{}).(string)
	return id, ok && id != ""
}
