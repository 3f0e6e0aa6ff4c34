/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import "github.com/gravwell/lognorm/registry"

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindWord,
		Name:            "word",
		DefaultPriority: 32,
		Run:             runWord,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindAlpha,
		Name:            "alpha",
		DefaultPriority: 32,
		Run:             runAlpha,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindRest,
		Name:            "rest",
		DefaultPriority: 255,
		Run:             runRest,
		MayMatchEmpty:   func(interface{}) bool { return true },
	})
}

// runWord matches a maximal run of alphanumeric/underscore bytes (the
// regex "\w+" notion of a word), stopping at whitespace as well as at
// punctuation and separators such as '=' or '.' — what distinguishes it
// from "rest" and lets it compose with surrounding literals without
// swallowing them.
func runWord(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	i := offset
	for i < len(data) && isWordChar(data[i]) {
		i++
	}
	if i == offset {
		return offset, nil, false
	}
	return i, string(data[offset:i]), true
}

func isWordChar(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_'
}

// runAlpha matches a maximal run of ASCII letters.
func runAlpha(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	i := offset
	for i < len(data) && isAlpha(data[i]) {
		i++
	}
	if i == offset {
		return offset, nil, false
	}
	return i, string(data[offset:i]), true
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// runRest unconditionally consumes the remainder of the input, including
// zero bytes; it is the catch-all parser used to capture trailing,
// unstructured text.
func runRest(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	return len(data), string(data[offset:]), true
}
