package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error type mapped to process exit codes.
type Code int

const (
	CodeSuccess     Code = 0
	CodeInternal    Code = 1
	CodeUsage       Code = 2
	CodeUnavailable Code = 12
	CodeUnsupported Code = 13
	CodeBlocked     Code = 16
	CodeToolFailed  Code = 20
)

// Error is a typed CLI error that carries a stable error code.
//
// Status is only set for CodeToolFailed and holds the external tool's exit
// status, which the process reuses verbatim as its own.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Status  int
	Stderr  []byte
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// ToolFailed reports a non-zero exit of the external tool.
func ToolFailed(tool string, status int, stderr []byte) *Error {
	return &Error{
		Code:    CodeToolFailed,
		Message: fmt.Sprintf("%s exited with status %d", tool, status),
		Status:  status,
		Stderr:  stderr,
	}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsToolFailure reports whether err is a failed external tool invocation.
func IsToolFailure(err error) bool {
	cErr, ok := As(err)
	return ok && cErr.Code == CodeToolFailed
}

func ExitCode(err error) int {
	if err == nil {
		return int(CodeSuccess)
	}
	if cliErr, ok := As(err); ok {
		if cliErr.Code == CodeToolFailed && cliErr.Status != 0 {
			return cliErr.Status
		}
		return int(cliErr.Code)
	}
	return int(CodeInternal)
}
