// fitz - a device-abstraction graphics pipeline for page-oriented documents
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fitz

import (
	"errors"
	"fmt"
)

// Kind classifies an [Error] the way the source's longjmp ladder tagged
// the condition it was unwinding for.
type Kind int

const (
	// Generic is an unclassified error.
	Generic Kind = iota
	// OutOfMemory is raised when the allocator cannot satisfy a request
	// even after scavenging the store (see Context.allocate and the store
	// package).
	OutOfMemory
	// Syntax is raised by a malformed input that a collaborator (parser,
	// codec) reported.
	Syntax
	// Range is raised when an argument is out of its documented domain.
	Range
	// IO is raised by an underlying I/O failure.
	IO
	// Unsupported is raised for a recognised but unimplemented feature.
	Unsupported
	// TryLater is raised by progressive loaders when an operation depends
	// on data that has not arrived yet; see Cookie.IncompleteOK.
	TryLater
	// Abort is raised when a Cookie's abort flag is honoured.
	Abort
)

func (k Kind) String() string {
	switch k {
	case OutOfMemory:
		return "out of memory"
	case Syntax:
		return "syntax error"
	case Range:
		return "out of range"
	case IO:
		return "I/O error"
	case Unsupported:
		return "unsupported"
	case TryLater:
		return "try later"
	case Abort:
		return "aborted"
	default:
		return "error"
	}
}

// Error is the error type carried through the core's propagation scheme
// (§7). It wraps an optional underlying cause and classifies the failure
// by Kind so that catch-frames can decide whether to recover.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is implements support for errors.Is(err, OutOfMemory) and friends by
// comparing Kind when the target is itself an *Error with no message.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) && other.Msg == "" && other.Err == nil {
		return e.Kind == other.Kind
	}
	return false
}

// Errorf builds an *Error of the given kind, formatting Msg like fmt.Sprintf.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind to an existing error, preserving it as the cause.
// If err already is (or wraps) an *Error, that *Error is returned as it
// is and kind is ignored.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: kind, Err: err}
}

// IsAbort reports whether err is (or wraps) an Abort-kind error, the
// condition raised when a Cookie's abort flag is honoured.
func IsAbort(err error) bool {
	return errors.Is(err, &Error{Kind: Abort})
}

// IsTryLater reports whether err is (or wraps) a TryLater-kind error.
func IsTryLater(err error) bool {
	return errors.Is(err, &Error{Kind: TryLater})
}

// sentinel errors used internally, in the teacher's style of small
// package-level errors.New values for conditions that carry no extra data.
var errLockOrder = errors.New("lock acquired out of order")
