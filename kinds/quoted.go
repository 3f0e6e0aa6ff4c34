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
		Kind:            registry.KindQuotedString,
		Name:            "quoted-string",
		DefaultPriority: 32,
		Run:             runQuotedString,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindOpQuotedString,
		Name:            "op-quoted-string",
		DefaultPriority: 32,
		Run:             runOptionallyQuotedString,
	})
}

// runQuotedString matches a double-quoted string with backslash escapes,
// returning the content with quotes stripped (escapes left intact, as the
// reference does not unescape).
func runQuotedString(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	if offset >= len(data) || data[offset] != '"' {
		return offset, nil, false
	}
	i := offset + 1
	for i < len(data) {
		if data[i] == '\\' && i+1 < len(data) {
			i += 2
			continue
		}
		if data[i] == '"' {
			return i + 1, string(data[offset+1 : i]), true
		}
		i++
	}
	return offset, nil, false
}

// runOptionallyQuotedString matches a quoted-string if the input starts
// with '"', otherwise falls back to the word parser (a bare run of letters,
// digits and underscores) — useful for fields that are sometimes, but not always, quoted by the
// emitting application.
func runOptionallyQuotedString(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
	if offset < len(data) && data[offset] == '"' {
		return runQuotedString(data, offset, opaque)
	}
	return runWord(data, offset, opaque)
}
