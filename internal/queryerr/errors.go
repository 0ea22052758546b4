// Package queryerr defines the error taxonomy shared by the query pipeline
// and its collaborators.
package queryerr

import (
	"errors"
	"fmt"
)

// Code categorizes pipeline errors.
type Code string

const (
	// CodeSyntax covers bad token counts, missing operands and malformed
	// literals.
	CodeSyntax Code = "SYNTAX_ERROR"

	// CodeBinding covers unknown or permission-denied property paths.
	CodeBinding Code = "BINDING_ERROR"

	// CodeSemantic covers well-formed commands that cannot be evaluated,
	// e.g. Sort without a Where to supply the base type.
	CodeSemantic Code = "SEMANTIC_ERROR"
)

// Error is raised synchronously during parse or optimize, before any
// candidate list is touched.
type Error struct {
	Code    Code
	Message string

	// Token is the offending command token, if one can be named.
	Token string

	// Suggestions lists close matches for unknown names.
	Suggestions []string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Token != "" {
		msg = fmt.Sprintf("%s (at %q)", msg, e.Token)
	}
	if len(e.Suggestions) > 0 {
		msg = fmt.Sprintf("%s; did you mean %v?", msg, e.Suggestions)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken returns e with Token set.
func (e *Error) WithToken(tok string) *Error {
	e.Token = tok
	return e
}

// Syntax creates a CodeSyntax error.
func Syntax(format string, args ...any) *Error {
	return &Error{Code: CodeSyntax, Message: fmt.Sprintf(format, args...)}
}

// Binding creates a CodeBinding error.
func Binding(format string, args ...any) *Error {
	return &Error{Code: CodeBinding, Message: fmt.Sprintf(format, args...)}
}

// Semantic creates a CodeSemantic error.
func Semantic(format string, args ...any) *Error {
	return &Error{Code: CodeSemantic, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the code from an error chain, or "" if there is none.
func CodeOf(err error) Code {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// IsSyntax reports whether err wraps a syntax error.
func IsSyntax(err error) bool { return CodeOf(err) == CodeSyntax }

// IsBinding reports whether err wraps a binding error.
func IsBinding(err error) bool { return CodeOf(err) == CodeBinding }

// IsSemantic reports whether err wraps a semantic error.
func IsSemantic(err error) bool { return CodeOf(err) == CodeSemantic }
