/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package registry holds the process-wide, read-only table that maps a
// built-in parser kind to its behavior: a name, a default priority, and
// the construct/run/destruct hooks the pdag package drives during
// construction and normalization.
//
// Built-in kinds self-register from the sibling kinds package via init(),
// the same way database/sql drivers or image.RegisterFormat register
// themselves. The numeric identity of a Kind is fixed by its iota position
// below, not by registration order.
package registry

import (
	"fmt"
	"strings"
	"sync"
)

// Kind is a stable, small integer tag for a built-in parser. KindUserDefined
// is a sentinel for named sub-pdags and is never present in the table.
type Kind int

const (
	KindLiteral Kind = iota
	KindRepeat
	KindNumber
	KindFloat
	KindHexNumber
	KindRFC3164Date
	KindRFC5424Date
	KindISODate
	KindKernelTimestamp
	KindTime24
	KindTime12
	KindDuration
	KindWhitespace
	KindIPv4
	KindIPv6
	KindMAC48
	KindWord
	KindAlpha
	KindRest
	KindQuotedString
	KindOpQuotedString
	KindStringTo
	KindCharTo
	KindCharSep
	KindNameValue
	KindJSON
	KindCEESyslog
	KindCEF
	KindCheckpointLEA
	KindCiscoInterfaceSpec
	KindIPTables

	numKinds int = iota
)

// KindUserDefined marks an edge as invoking a named sub-pdag rather than a
// built-in parser. It deliberately falls outside the built-in Kind range so
// it can never collide with a real table entry.
const KindUserDefined Kind = -1

// UserDefinedPriority is the nominal kind-priority assigned to user-defined
// type references (spec: "assign a nominal kind priority (16)").
const UserDefinedPriority uint8 = 16

// ConstructFunc builds kind-specific opaque data from a stripped
// configuration object (type/name/priority already removed). It may be nil
// for stateless parsers.
type ConstructFunc func(cfg map[string]interface{}) (interface{}, error)

// RunFunc is the matching function for one parser kind. It returns the
// offset reached after a successful match (equivalent to the reference's
// advanced offs plus parsed len), an optional captured value, and ok=false
// on failure. Parsers must be pure: same (data, offset, opaque) in, same
// result out.
type RunFunc func(data []byte, offset int, opaque interface{}) (newOffset int, value interface{}, ok bool)

// DestructFunc releases kind-specific opaque data. It may be nil.
type DestructFunc func(opaque interface{})

// Entry is one row of the registry table.
type Entry struct {
	Kind            Kind
	Name            string
	DefaultPriority uint8
	Construct       ConstructFunc
	Run             RunFunc
	Destruct        DestructFunc

	// MayMatchEmpty, if non-nil, reports whether an instance built from
	// opaque can succeed on a zero-length input. Construction uses this
	// to reject edges that could loop forever on zero-length matches
	// (spec.md §9 SHOULD-reject item); kinds that can never match empty
	// input may leave this nil.
	MayMatchEmpty func(opaque interface{}) bool
}

var (
	mtx   sync.RWMutex
	table [numKinds]Entry
	set   [numKinds]bool
)

// Register installs entry at entry.Kind. It is intended to be called from
// kinds/*.go init() functions exactly once per kind; a second registration
// of the same kind is a programming error and panics, matching the
// fail-fast posture of similar self-registering stdlib tables
// (image.RegisterFormat, sql.Register).
func Register(entry Entry) {
	mtx.Lock()
	defer mtx.Unlock()
	if entry.Kind < 0 || int(entry.Kind) >= numKinds {
		panic(fmt.Sprintf("registry: kind %d out of range", entry.Kind))
	}
	if set[entry.Kind] {
		panic(fmt.Sprintf("registry: kind %d (%s) already registered", entry.Kind, entry.Name))
	}
	if entry.Run == nil {
		panic(fmt.Sprintf("registry: kind %d (%s) has nil Run", entry.Kind, entry.Name))
	}
	table[entry.Kind] = entry
	set[entry.Kind] = true
}

// Lookup returns the table entry for kind.
func Lookup(kind Kind) (Entry, bool) {
	mtx.RLock()
	defer mtx.RUnlock()
	if kind < 0 || int(kind) >= numKinds || !set[kind] {
		return Entry{}, false
	}
	return table[kind], true
}

// ByName resolves a rule-file type name ("literal", "ipv4", ...) to a Kind
// via a linear scan, as the table is small (spec: "<40 entries").
func ByName(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	mtx.RLock()
	defer mtx.RUnlock()
	for i := 0; i < numKinds; i++ {
		if set[i] && table[i].Name == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// NumKinds reports the size of the built-in kind table, mostly useful for
// diagnostics and tests that want to assert full registration.
func NumKinds() int {
	return numKinds
}

// AllRegistered reports whether every built-in kind has a table entry; the
// kinds package should be imported (even if only for side effects) before
// pdag construction begins, and callers can assert this in tests.
func AllRegistered() bool {
	mtx.RLock()
	defer mtx.RUnlock()
	for i := 0; i < numKinds; i++ {
		if !set[i] {
			return false
		}
	}
	return true
}

// Missing returns the Kind of every built-in kind without a registered
// entry, for diagnostics when AllRegistered is false.
func Missing() []Kind {
	mtx.RLock()
	defer mtx.RUnlock()
	var out []Kind
	for i := 0; i < numKinds; i++ {
		if !set[i] {
			out = append(out, Kind(i))
		}
	}
	return out
}
