// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/jllopis/telos/pkg/errors"
)

// CLIError wraps TelosError with CLI-specific formatting and hints.
type CLIError struct {
	*errors.TelosError
	Hint string
}

// NewCLIError creates a new CLI error.
func NewCLIError(te *errors.TelosError, hint string) *CLIError {
	return &CLIError{
		TelosError: te,
		Hint:       hint,
	}
}

// Error returns the formatted error message with hints.
func (e *CLIError) Error() string {
	if e.TelosError == nil {
		return "unknown error"
	}

	msg := e.TelosError.Error()
	if e.Hint != "" {
		msg += "\n  Hint: " + e.Hint
	}
	return msg
}

// Unwrap exposes the typed error.
func (e *CLIError) Unwrap() error {
	if e.TelosError == nil {
		return nil
	}
	return e.TelosError
}

// PrintError prints the error with appropriate formatting.
func (e *CLIError) PrintError(w io.Writer, asJSON bool) {
	if asJSON {
		payload, _ := json.Marshal(map[string]any{
			"error": map[string]string{
				"code":    string(e.Code),
				"message": e.Message,
				"cause":   causeOf(e.TelosError),
				"hint":    e.Hint,
			},
		})
		fmt.Fprintln(w, string(payload))
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", FormatErrorCode(e.Code), e.Message)
	if cause := causeOf(e.TelosError); cause != "" {
		fmt.Fprintf(w, "  Cause: %s\n", cause)
	}
	if e.Hint != "" {
		fmt.Fprintf(w, "  Hint: %s\n", e.Hint)
	}
}

func causeOf(te *errors.TelosError) string {
	if te == nil || te.Err == nil {
		return ""
	}
	return te.Err.Error()
}

// reportedError marks an error whose details were already written to the
// output; only its exit status remains to be applied.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewInvalidArgumentError creates an invalid argument error with CLI hints.
func NewInvalidArgumentError(arg, reason string) *CLIError {
	te := errors.New(errors.CodeInvalidInput, fmt.Sprintf("invalid argument %s: %s", arg, reason), nil).
		WithContext("argument", arg).
		WithContext("reason", reason).
		WithRecoverable(false)
	return NewCLIError(te, "run 'telos help' for usage information")
}

// NewConfigError creates a configuration error with CLI hints.
func NewConfigError(err error, configPath string) *CLIError {
	te := errors.New(errors.CodeConfig, "configuration error", err).
		WithContext("config_path", configPath).
		WithRecoverable(false)

	hint := "check your configuration file syntax"
	if configPath != "" {
		hint = fmt.Sprintf("check %s for syntax errors", configPath)
	}
	return NewCLIError(te, hint)
}

// NewDomainError reports a domain document that cannot be loaded.
func NewDomainError(err error, path string) *CLIError {
	var te *errors.TelosError
	if stderrors.As(err, &te) {
		return NewCLIError(te, fmt.Sprintf("run 'telos validate --domain %s' for details", path))
	}
	te = errors.New(errors.CodeInvalidInput, "cannot load domain document", err).
		WithContext("path", path).
		WithRecoverable(false)
	return NewCLIError(te, fmt.Sprintf("check %s against the domain document format", path))
}

// NewNotFoundError creates a not found error with CLI hints.
func NewNotFoundError(resource, name string, known []string) *CLIError {
	te := errors.New(errors.CodeNotFound, fmt.Sprintf("%s '%s' not found", resource, name), nil).
		WithContext("resource", resource).
		WithContext("name", name).
		WithRecoverable(false)
	hint := fmt.Sprintf("check that the %s exists", resource)
	if len(known) > 0 {
		hint = fmt.Sprintf("available: %v", known)
	}
	return NewCLIError(te, hint)
}

// exitCode returns the process status for err.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var te *errors.TelosError
	if stderrors.As(err, &te) {
		return te.ExitCode()
	}
	return 1
}

// FormatErrorCode returns a user-friendly name for error codes.
func FormatErrorCode(code errors.ErrorCode) string {
	switch code {
	case errors.CodeInternal:
		return "Internal Error"
	case errors.CodeInvalidInput:
		return "Invalid Input"
	case errors.CodeNotFound:
		return "Not Found"
	case errors.CodeUnknownTask:
		return "Unknown Task"
	case errors.CodeOperatorPrecondition:
		return "Operator Precondition Failed"
	case errors.CodeNoApplicableMethod:
		return "No Applicable Method"
	case errors.CodeMaxDepthExceeded:
		return "Max Depth Exceeded"
	case errors.CodeDomainValidation:
		return "Domain Validation"
	case errors.CodeAudit:
		return "Audit Error"
	case errors.CodeConfig:
		return "Configuration Error"
	default:
		return string(code)
	}
}
