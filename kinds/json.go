/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"github.com/buger/jsonparser"

	"github.com/gravwell/lognorm/registry"
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindJSON,
		Name:            "json",
		DefaultPriority: 64,
		Run:             runJSON,
	})
}

// runJSON scans for one complete, balanced JSON object starting at offset
// (a top-level array does not match) and decodes it with buger/jsonparser's callback walker, the
// same library the ingest pipeline's jsonextract processor uses to pull
// structured fields out of raw JSON without allocating a full DOM.
func runJSON(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	end := matchingBraceEnd(data, offset)
	if end < 0 {
		return offset, nil, false
	}
	chunk := data[offset:end]

	out := make(map[string]interface{})
	err := jsonparser.ObjectEach(chunk, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		out[string(key)] = decodeJSONValue(value, dataType)
		return nil
	})
	if err != nil {
		return offset, nil, false
	}
	return end, out, true
}

func decodeJSONValue(value []byte, dataType jsonparser.ValueType) interface{} {
	switch dataType {
	case jsonparser.String:
		s, _ := jsonparser.ParseString(value)
		return s
	case jsonparser.Number:
		f, _ := jsonparser.ParseFloat(value)
		return f
	case jsonparser.Boolean:
		b, _ := jsonparser.ParseBoolean(value)
		return b
	case jsonparser.Null:
		return nil
	default:
		return string(value)
	}
}

// matchingBraceEnd finds the end offset (exclusive) of a balanced {...}
// object starting at offset, respecting quoted strings, or -1 if offset
// does not begin an object or it is never closed.
func matchingBraceEnd(data []byte, offset int) int {
	if offset >= len(data) || data[offset] != '{' {
		return -1
	}
	depth := 0
	inString := false
	escaped := false
	for i := offset; i < len(data); i++ {
		b := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
