// Package errors provides structured error handling for the analyzer.
package errors

import "fmt"

// Type categorizes a parse or query failure.
type Type string

const (
	// TypeMalformedInput marks a structural problem in the file itself:
	// an unterminated chunk, a non-numeric token in a data row.
	TypeMalformedInput Type = "malformed_input"
	// TypeClassification marks a variable name outside the known families.
	TypeClassification Type = "classification"
	// TypeLookup marks a requested time point or isotope that is not
	// present in the loaded data.
	TypeLookup Type = "lookup"
	// TypePrecondition marks a query that cannot be answered because the
	// required metadata was never loaded.
	TypePrecondition Type = "precondition"
)

// Error carries the failure category plus enough context (file, record)
// to localize the problem without re-running with extra instrumentation.
type Error struct {
	Type    Type
	Message string
	File    string
	Record  string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Record != "" {
		msg += fmt.Sprintf(" (record %q)", e.Record)
	}
	if e.File != "" {
		msg += fmt.Sprintf(" [%s]", e.File)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an error with the given type and message.
func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(t Type, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a type and message. Returns nil for a
// nil cause so call sites can wrap unconditionally.
func Wrap(err error, t Type, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Message: message, Cause: err}
}

// WithFile attaches the source file path.
func (e *Error) WithFile(path string) *Error {
	e.File = path
	return e
}

// WithRecord attaches the record or variable name being processed.
func (e *Error) WithRecord(name string) *Error {
	e.Record = name
	return e
}

// IsType reports whether err is an *Error of the given type anywhere in
// its chain.
func IsType(err error, t Type) bool {
	for err != nil {
		if se, ok := err.(*Error); ok && se.Type == t {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
