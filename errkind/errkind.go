// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errkind classifies errors raised anywhere in the engine into
// the taxonomy of §7 of the format spec (IO, Parse, Semantic,
// CapabilityMissing, Conflict), so that cmd/wgatools can pick an exit
// code and a log line without string-matching error text.
package errkind

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind is one of the error categories named in the error-handling
// design.
type Kind int

const (
	// Other is the zero value for errors that do not originate from
	// this engine (e.g. a wrapped os error that was never classified).
	Other Kind = iota
	IO
	Parse
	Semantic
	CapabilityMissing
	Conflict
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case Parse:
		return "Parse"
	case Semantic:
		return "Semantic"
	case CapabilityMissing:
		return "CapabilityMissing"
	case Conflict:
		return "Conflict"
	default:
		return "Other"
	}
}

// Error pairs a Kind with the underlying cause, preserving the
// pkg/errors stack trace of the cause for FATAL reporting.
type Error struct {
	Kind Kind
	Line int // 1-based source line, 0 if not applicable
	Path string
	err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.err.Error()
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.err }
func (e *Error) Cause() error  { return e.err }

// New wraps err (via pkg/errors, for the stack trace) as a Kind error.
func New(kind Kind, path string, line int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Line: line, Path: path, err: pkgerrors.WithStack(err)}
}

// Wrapf formats a new message, wraps it with pkg/errors for a stack
// trace, and classifies it as kind.
func Wrapf(kind Kind, path string, line int, format string, args ...interface{}) error {
	return New(kind, path, line, pkgerrors.Errorf(format, args...))
}

// KindOf returns the Kind of err if it (or something it wraps) is an
// *Error, and Other otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}
