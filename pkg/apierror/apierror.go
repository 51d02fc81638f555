package apierror

import "fmt"

// Code is the machine-readable classification attached to API failures.
type Code string

const (
	CodeTimeout      Code = "TIMEOUT"
	CodeNetwork      Code = "NETWORK"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeConflict     Code = "CONFLICT"
	CodeServer       Code = "SERVER"
	CodeUnexpected   Code = "UNEXPECTED"
)

// Error is the typed failure surfaced to SDK callers. Status is the HTTP
// status of the failing response, or 0 for transport-level failures (timeouts
// and connection errors). Errors carries a field error bag when the server
// supplied one; it is nil otherwise.
type Error struct {
	Message string
	Status  int
	Code    Code
	Errors  map[string][]string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("swellforms: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("swellforms: %s (status %d, code %s)", e.Message, e.Status, e.Code)
}

// New constructs an Error with the given message, status, and code.
func New(message string, status int, code Code) *Error {
	return &Error{Message: message, Status: status, Code: code}
}

// Unexpected builds the catch-all error for a status outside an operation's
// documented contract.
func Unexpected(status int) *Error {
	return &Error{
		Message: fmt.Sprintf("unexpected response status %d", status),
		Status:  status,
		Code:    CodeUnexpected,
	}
}
