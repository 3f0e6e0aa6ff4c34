/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package pdag

import "fmt"

// ErrorKind discriminates the construction-time error taxonomy from
// spec.md §7. A non-match is not an error for normalization; it only
// populates unparsed fields, so no ErrorKind exists for "no match".
type ErrorKind int

const (
	// ErrConfig marks a malformed configuration object: missing or
	// non-string type, malformed alternative, or kind-specific settings
	// that the kind's constructor rejects.
	ErrConfig ErrorKind = iota
	// ErrUnknownKind marks a type name that resolves to neither a
	// registered built-in kind nor a known named sub-pdag.
	ErrUnknownKind
	// ErrUnknownType marks a reference to a named sub-pdag that does not
	// exist and was not requested to be created.
	ErrUnknownType
	// ErrBadShape marks a configuration value that is neither an array,
	// an alternative object, nor a leaf parser object.
	ErrBadShape
	// ErrCycle marks a named-sub-pdag reference graph that is not
	// acyclic (spec.md §9 SHOULD-reject item).
	ErrCycle
	// ErrZeroLengthLoop marks a construction that would allow an
	// infinite loop of zero-length matches (spec.md §9 SHOULD-reject
	// item).
	ErrZeroLengthLoop
	// ErrResource marks allocation/resource exhaustion.
	ErrResource
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfig:
		return "config"
	case ErrUnknownKind:
		return "unknown-kind"
	case ErrUnknownType:
		return "unknown-type"
	case ErrBadShape:
		return "bad-shape"
	case ErrCycle:
		return "cycle"
	case ErrZeroLengthLoop:
		return "zero-length-loop"
	case ErrResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is the tagged construction error surfaced to callers of AddParser
// and Optimize. It carries a human-readable location string so no
// context is lost relative to the reference implementation's debug
// messages.
type Error struct {
	Kind    ErrorKind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// Unwrap exposes the wrapped error, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}
