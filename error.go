package vigie

import (
	"errors"
	"fmt"
)

// Domain error codes - transport layer maps these to HTTP status codes.
const (
	ECONFLICT      = "conflict"      // 409 - Resource already exists
	EINTERNAL      = "internal"      // 500 - Internal server error
	EINVALID       = "invalid"       // 400 - Invalid input
	ENOTFOUND      = "not_found"     // 404 - Resource not found
	EUNPROCESSABLE = "unprocessable" // 422 - Operation left partial state
)

// Stable machine-readable reasons carried alongside the coarse code.
// Import callers branch on these, never on message text.
const (
	ReasonMissingClient       = "missing_client"
	ReasonMissingReport       = "missing_report"
	ReasonMissingReportNumber = "missing_report_number"
	ReasonEmptyMachines       = "empty_machines"
	ReasonInvalidJSON         = "invalid_json"
	ReasonReportExists        = "report_already_exists"
	ReasonReplaceIncomplete   = "replace_incomplete"
)

// Error represents an application-specific error.
type Error struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Reason is a finer-grained stable code, set on import errors.
	Reason string `json:"reason,omitempty"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Fields contains field-specific validation errors.
	Fields map[string]string `json:"fields,omitempty"`

	// Err is the underlying error (not exposed to clients).
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new application error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an underlying error with application context.
func WrapError(code string, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL if the error is not an *Error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorReason extracts the stable reason code from an error, if any.
func ErrorReason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// ErrorMessage extracts the user-safe message from an error.
// Returns a generic message if the error is not an *Error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An internal error occurred."
}

// ErrorFields extracts field-specific errors from a validation error.
// Returns nil if the error has no field errors.
func ErrorFields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// IsErrorCode checks if an error has the specified error code.
func IsErrorCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// IsErrorReason checks if an error carries the specified reason code.
func IsErrorReason(err error, reason string) bool {
	return ErrorReason(err) == reason
}

// NotFound creates a not found error.
func NotFound(format string, args ...any) *Error {
	return Errorf(ENOTFOUND, format, args...)
}

// Invalid creates a validation error.
func Invalid(format string, args ...any) *Error {
	return Errorf(EINVALID, format, args...)
}

// InvalidReason creates a validation error with a stable reason code.
func InvalidReason(reason string, format string, args ...any) *Error {
	e := Errorf(EINVALID, format, args...)
	e.Reason = reason
	return e
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *Error {
	return Errorf(ECONFLICT, format, args...)
}

// Internal creates an internal error wrapping an underlying cause.
func Internal(message string, err error) *Error {
	return WrapError(EINTERNAL, message, err)
}

// ReportExists creates the recoverable "report already exists" conflict.
// Callers are expected to re-invoke the import with replaceExisting=true,
// or abandon it.
func ReportExists(reportNumber string) *Error {
	e := Conflict("Report %q already exists", reportNumber)
	e.Reason = ReasonReportExists
	return e
}

// ReplaceIncomplete flags the partial state left behind when the recreate
// phase fails after a replace already deleted the prior report. It must be
// surfaced distinctly from retryable failures; the old rows are gone.
func ReplaceIncomplete(reportNumber string, err error) *Error {
	e := WrapError(EUNPROCESSABLE, fmt.Sprintf("Replace of report %q failed after delete; manual remediation required", reportNumber), err)
	e.Reason = ReasonReplaceIncomplete
	return e
}
