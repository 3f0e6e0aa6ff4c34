/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"github.com/gravwell/lognorm/registry"
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindNameValue,
		Name:            "name-value-list",
		DefaultPriority: 64,
		Construct:       constructNameValue,
		Run:             runNameValue,
	})
}

// NameValueConfig configures a "key=value key2=value2 ..." style list, the
// shape emitted by firewalls, load balancers, and most vendor appliance
// logs.
type NameValueConfig struct {
	FieldSeparator string `mapstructure:"field-separator"`
	ValueSeparator string `mapstructure:"value-separator"`
	QuoteChar      string `mapstructure:"quote-char"`
}

func constructNameValue(cfg map[string]interface{}) (interface{}, error) {
	c := NameValueConfig{FieldSeparator: " ", ValueSeparator: "=", QuoteChar: `"`}
	if err := decode(cfg, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// runNameValue greedily consumes "key=value" pairs separated by
// FieldSeparator until none remain, returning a map[string]interface{} so
// it can participate in the "." merge capture rule.
func runNameValue(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
	c := opaque.(*NameValueConfig)
	fieldSep := []byte(c.FieldSeparator)
	valueSep := []byte(c.ValueSeparator)
	quote := byte(0)
	if len(c.QuoteChar) > 0 {
		quote = c.QuoteChar[0]
	}

	out := make(map[string]interface{})
	cur := offset
	matchedAny := false

	for cur < len(data) {
		keyStart := cur
		sepIdx := indexFrom(data, cur, valueSep)
		if sepIdx < 0 {
			break
		}
		key := string(data[keyStart:sepIdx])
		if key == "" {
			break
		}
		vStart := sepIdx + len(valueSep)
		var vEnd int
		if vStart < len(data) && quote != 0 && data[vStart] == quote {
			closeIdx := indexByteFrom(data, vStart+1, quote)
			if closeIdx < 0 {
				break
			}
			out[key] = string(data[vStart+1 : closeIdx])
			vEnd = closeIdx + 1
		} else {
			nextFieldIdx := indexFrom(data, vStart, fieldSep)
			if nextFieldIdx < 0 {
				vEnd = len(data)
			} else {
				vEnd = nextFieldIdx
			}
			out[key] = string(data[vStart:vEnd])
		}
		matchedAny = true
		cur = vEnd
		skip := indexFrom(data, cur, fieldSep)
		if skip == cur {
			cur += len(fieldSep)
		} else {
			break
		}
	}

	if !matchedAny {
		return offset, nil, false
	}
	return cur, out, true
}

func indexFrom(data []byte, from int, sep []byte) int {
	if from > len(data) || len(sep) == 0 {
		return -1
	}
	for i := from; i+len(sep) <= len(data); i++ {
		if string(data[i:i+len(sep)]) == string(sep) {
			return i
		}
	}
	return -1
}

func indexByteFrom(data []byte, from int, b byte) int {
	for i := from; i < len(data); i++ {
		if data[i] == b {
			return i
		}
	}
	return -1
}
