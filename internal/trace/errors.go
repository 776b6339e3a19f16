// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the error taxonomy shared by the registry and the trace
// builder. Every failure is fatal for the run; the kinds exist so callers and
// tests can tell them apart with errors.Is.
package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDescriptor is returned for a descriptor line that does not have
	// four fields, has non-numeric ids, or an undecodable location vector.
	ErrMalformedDescriptor = errors.New("malformed descriptor")
	// ErrDuplicateTaskID is returned when a task id appears twice in the descriptor map.
	ErrDuplicateTaskID = errors.New("duplicate task id")
	// ErrUnknownTask is returned when the log references an id missing from the registry.
	ErrUnknownTask = errors.New("unknown task")
	// ErrSequenceViolation is returned when a dispatch counter is not the next expected one.
	ErrSequenceViolation = errors.New("sequence violation")
	// ErrMalformedRecord is returned for a log line whose fields cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)

// Error describes a fatal input error together with where it was found.
type Error struct {
	Kind   error  // One of the Err* sentinels above.
	Source string // Input name, empty when unknown.
	Line   int    // 1-based line number, 0 when unknown.
	Msg    string
}

// NewError creates an Error of the given kind without position information.
func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At returns a copy of the error positioned at source:line.
func (e *Error) At(source string, line int) *Error {
	cp := *e
	cp.Source = source
	cp.Line = line
	return &cp
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("%v: %s:%d: %s", e.Kind, e.Source, e.Line, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("%v: line %d: %s", e.Kind, e.Line, e.Msg)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}
