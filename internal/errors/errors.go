// Package errors provides the coded error type used across the
// runtime. Codes give operators a stable identifier to search for;
// suggestions tell them what to do about it.
package errors

import "fmt"

// Category represents the subsystem an error belongs to.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategorySession  Category = "session"
	CategoryExport   Category = "export"
)

// Error is a structured error with a stable code and a fix suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "F101").
	Code string

	// Category is the subsystem the error belongs to.
	Category Category

	// Message is a short description of the error.
	Message string

	// Suggestion is a hint on how to fix or avoid the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion attaches a fix suggestion.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Wrap attaches an underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates a coded error.
func New(code string, category Category, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Known runtime error constructors.

// DetachedNode reports a removal issued against a node no longer in the
// output tree. Cooperative teardown can race with a parent-initiated
// removal; callers log this and continue.
func DetachedNode() *Error {
	return New("F101", CategoryRuntime, "remove issued for a detached output node").
		WithSuggestion("a parent region was likely torn down first; this is tolerated and logged")
}

// UnknownDescription reports a description shape the mount engine does
// not recognize. Unknown shapes render nothing.
func UnknownDescription(kind string) *Error {
	return New("F102", CategoryRuntime, "unmountable description shape %q", kind).
		WithSuggestion("components must return a *ui.Node, a []*ui.Node, a primitive, or nil")
}

// FrameDecode reports a malformed patch frame from a client.
func FrameDecode(err error) *Error {
	return New("F201", CategoryProtocol, "frame decode failed").Wrap(err)
}
