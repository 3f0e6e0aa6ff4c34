/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gravwell/lognorm/registry"
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindStringTo,
		Name:            "string-to",
		DefaultPriority: 16,
		Construct:       constructDelimiter("extra-data"),
		Run:             runStringTo,
		MayMatchEmpty:   delimiterMayMatchEmpty,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindCharTo,
		Name:            "char-to",
		DefaultPriority: 16,
		Construct:       constructDelimiter("extra-data"),
		Run:             runCharTo,
		MayMatchEmpty:   delimiterMayMatchEmpty,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindCharSep,
		Name:            "char-sep",
		DefaultPriority: 16,
		Construct:       constructDelimiter("extra-data"),
		Run:             runCharSep,
		MayMatchEmpty:   delimiterMayMatchEmpty,
	})
}

// DelimiterConfig names the terminator a delimiter-bounded field stops at:
// ExtraData is a literal string (string-to) or a set of terminator bytes,
// any one of which ends the field (char-to, char-sep), chosen by which Run
// function the edge uses.
type DelimiterConfig struct {
	ExtraData string `mapstructure:"extra-data"`
}

func constructDelimiter(field string) func(map[string]interface{}) (interface{}, error) {
	return func(cfg map[string]interface{}) (interface{}, error) {
		var c DelimiterConfig
		if err := decode(cfg, &c); err != nil {
			return nil, err
		}
		if c.ExtraData == "" {
			return nil, fmt.Errorf("%s: requires a non-empty terminator", field)
		}
		return &c, nil
	}
}

// runStringTo matches everything up to (not including) the first
// occurrence of a literal terminator string.
func runStringTo(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
	c := opaque.(*DelimiterConfig)
	idx := bytes.Index(data[offset:], []byte(c.ExtraData))
	if idx < 0 {
		return offset, nil, false
	}
	return offset + idx, string(data[offset : offset+idx]), true
}

// runCharTo matches everything up to (not including) the first occurrence
// of any byte in the terminator set.
func runCharTo(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
	c := opaque.(*DelimiterConfig)
	idx := bytes.IndexAny(data[offset:], c.ExtraData)
	if idx < 0 {
		return offset, nil, false
	}
	return offset + idx, string(data[offset : offset+idx]), true
}

// runCharSep matches everything up to and including the first occurrence
// of any byte in the separator set, excluding the separator itself from
// the captured value — the common "split on one of these bytes" case.
func runCharSep(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
	c := opaque.(*DelimiterConfig)
	idx := strings.IndexAny(string(data[offset:]), c.ExtraData)
	if idx < 0 {
		return offset, nil, false
	}
	return offset + idx + 1, string(data[offset : offset+idx]), true
}

// delimiterMayMatchEmpty is conservative: the terminator may appear at the
// very start of the remaining input, so these parsers can always produce a
// zero-length match regardless of configuration.
func delimiterMayMatchEmpty(interface{}) bool {
	return true
}
