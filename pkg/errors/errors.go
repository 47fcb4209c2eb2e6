// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Package errors provides typed error handling with rich context for Telos.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies Telos errors for monitoring and exit statuses.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeUnknownTask indicates a goal or subtask name absent from the domain.
	CodeUnknownTask ErrorCode = "UNKNOWN_TASK"

	// CodeOperatorPrecondition indicates a top-level operator goal whose
	// precondition does not hold in the initial state.
	CodeOperatorPrecondition ErrorCode = "OPERATOR_PRECONDITION_FAILED"

	// CodeNoApplicableMethod indicates the search was exhausted without any
	// method leading to a complete plan.
	CodeNoApplicableMethod ErrorCode = "NO_APPLICABLE_METHOD"

	// CodeMaxDepthExceeded indicates a cyclic or pathologically deep decomposition.
	CodeMaxDepthExceeded ErrorCode = "MAX_DEPTH_EXCEEDED"

	// CodeDomainValidation indicates a dangling subtask reference in a domain.
	CodeDomainValidation ErrorCode = "DOMAIN_VALIDATION"

	// CodeAudit indicates the audit store could not be written or read.
	CodeAudit ErrorCode = "AUDIT_ERROR"

	// CodeConfig indicates configuration could not be loaded.
	CodeConfig ErrorCode = "CONFIG_ERROR"
)

// TelosError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type TelosError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
}

// Error implements the error interface.
func (e *TelosError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *TelosError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *TelosError) MarshalJSON() ([]byte, error) {
	var cause string
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return json.Marshal(&struct {
		Code        string                 `json:"code"`
		Message     string                 `json:"message"`
		Err         string                 `json:"error,omitempty"`
		Context     map[string]interface{} `json:"context,omitempty"`
		Attributes  map[string]string      `json:"attributes,omitempty"`
		Recoverable bool                   `json:"recoverable"`
	}{
		Code:        string(e.Code),
		Message:     e.Message,
		Err:         cause,
		Context:     e.Context,
		Attributes:  e.Attributes,
		Recoverable: e.Recoverable,
	})
}

// New creates a new TelosError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *TelosError {
	return &TelosError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *TelosError) WithContext(key string, value interface{}) *TelosError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *TelosError) WithAttribute(key, value string) *TelosError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *TelosError) WithRecoverable(recoverable bool) *TelosError {
	e.Recoverable = recoverable
	return e
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *TelosError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// ExitCode maps the error code to a process exit status.
func (e *TelosError) ExitCode() int {
	if e == nil {
		return 0
	}
	return codeToExitCode(e.Code)
}

// AsTelosError attempts to convert an error to a TelosError.
// Anything in the chain that is already a TelosError is returned as is;
// other errors are wrapped as internal.
func AsTelosError(err error) *TelosError {
	if err == nil {
		return nil
	}
	var te *TelosError
	if stderrors.As(err, &te) {
		return te
	}
	return New(CodeInternal, "wrapped error", err)
}

// CodeOf returns the code of the first TelosError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var te *TelosError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return CodeInternal
}

func codeToExitCode(code ErrorCode) int {
	switch code {
	case CodeUnknownTask, CodeOperatorPrecondition, CodeNoApplicableMethod:
		return 2
	case CodeMaxDepthExceeded, CodeDomainValidation:
		return 3
	case CodeInvalidInput, CodeConfig, CodeNotFound:
		return 64
	default:
		return 1
	}
}
