// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	stderrors "errors"
	"fmt"

	"github.com/jllopis/telos/pkg/errors"
)

var (
	// ErrMaxDepthExceeded is wrapped by every *DepthError.
	ErrMaxDepthExceeded = stderrors.New("maximum decomposition depth exceeded")

	// ErrDomainValidation is wrapped by every *ValidationError.
	ErrDomainValidation = stderrors.New("domain validation failed")
)

// DepthError reports a search that recursed past the depth ceiling, which
// means the domain decomposes cyclically or pathologically deep.
type DepthError struct {
	Depth int
	Limit int
	Task  string
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%v: depth %d over limit %d while expanding %q", ErrMaxDepthExceeded, e.Depth, e.Limit, e.Task)
}

func (e *DepthError) Unwrap() error { return ErrMaxDepthExceeded }

// ValidationError names the first subtask reference that resolves to
// neither an operator nor a compound task.
type ValidationError struct {
	Name   string
	Task   string
	Method string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: unresolved subtask %q in method %q of task %q", ErrDomainValidation, e.Name, e.Method, e.Task)
}

func (e *ValidationError) Unwrap() error { return ErrDomainValidation }

// WrapError converts planner errors into typed Telos errors. Fatal planner
// errors keep their code; anything else is reported as internal.
func WrapError(err error) *errors.TelosError {
	if err == nil {
		return nil
	}
	var depthErr *DepthError
	if stderrors.As(err, &depthErr) {
		return errors.New(errors.CodeMaxDepthExceeded, "decomposition exceeded the depth ceiling", err).
			WithContext("depth", depthErr.Depth).
			WithContext("limit", depthErr.Limit).
			WithContext("task", depthErr.Task).
			WithAttribute("telos.task.name", depthErr.Task).
			WithRecoverable(false)
	}
	var validationErr *ValidationError
	if stderrors.As(err, &validationErr) {
		return errors.New(errors.CodeDomainValidation, "domain references an unknown subtask", err).
			WithContext("task", validationErr.Name).
			WithContext("compound_task", validationErr.Task).
			WithContext("method", validationErr.Method).
			WithAttribute("telos.task.name", validationErr.Name).
			WithRecoverable(false)
	}
	return errors.AsTelosError(err)
}
