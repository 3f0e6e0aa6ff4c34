/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package record defines the structured output of normalization: a map of
// string keys to string, number, boolean, nil, slice, or nested-map values.
package record

import (
	"github.com/goccy/go-json"
)

// Reserved keys, per spec.
const (
	OriginalMsgKey  = "originalmsg"
	UnparsedDataKey = "unparsed-data"
	TagsKey         = "event.tags"
)

// Record is the structured result of a normalization pass. It is owned by
// the caller once Normalize returns.
type Record map[string]interface{}

// New returns an empty Record.
func New() Record {
	return make(Record)
}

// Set attaches value under key, overwriting any prior value.
func (r Record) Set(key string, value interface{}) {
	r[key] = value
}

// Merge flattens the keys of other into r. Used for the "." capture-name
// merge rule: a successful parse whose value is itself structured gets its
// keys hoisted into the parent record instead of nested under a literal key.
func (r Record) Merge(other map[string]interface{}) {
	for k, v := range other {
		r[k] = v
	}
}

// MarshalJSON renders the record via goccy/go-json, whose encoder emits
// map[string]interface{} keys in sorted order — convenient for
// deterministic test fixtures and diffable CLI output.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(r))
}

// AsStructured reports whether v is a structured object
// (map[string]interface{}) as opposed to a scalar or a slice, used by the capture-naming rule to decide whether a
// "." capture should merge or fall back to the literal "." key.
func AsStructured(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}
