/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"strconv"

	"github.com/gravwell/lognorm/registry"
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindNumber,
		Name:            "number",
		DefaultPriority: 8,
		Run:             runNumber,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindFloat,
		Name:            "float",
		DefaultPriority: 8,
		Run:             runFloat,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindHexNumber,
		Name:            "hexnumber",
		DefaultPriority: 8,
		Run:             runHexNumber,
	})
}

// runNumber matches an optional sign followed by one or more decimal
// digits, the pdag reference's "number" parser.
func runNumber(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	i := offset
	if i < len(data) && (data[i] == '+' || data[i] == '-') {
		i++
	}
	start := i
	for i < len(data) && isDigit(data[i]) {
		i++
	}
	if i == start {
		return offset, nil, false
	}
	n, err := strconv.ParseInt(string(data[offset:i]), 10, 64)
	if err != nil {
		return offset, nil, false
	}
	return i, n, true
}

// runFloat matches an optional sign, digits, a mandatory '.', and more
// digits.
func runFloat(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	i := offset
	if i < len(data) && (data[i] == '+' || data[i] == '-') {
		i++
	}
	intStart := i
	for i < len(data) && isDigit(data[i]) {
		i++
	}
	if i == intStart {
		return offset, nil, false
	}
	if i >= len(data) || data[i] != '.' {
		return offset, nil, false
	}
	i++
	fracStart := i
	for i < len(data) && isDigit(data[i]) {
		i++
	}
	if i == fracStart {
		return offset, nil, false
	}
	f, err := strconv.ParseFloat(string(data[offset:i]), 64)
	if err != nil {
		return offset, nil, false
	}
	return i, f, true
}

// runHexNumber matches an optional "0x"/"0X" prefix followed by one or more
// hex digits.
func runHexNumber(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	i := offset
	if i+1 < len(data) && data[i] == '0' && (data[i+1] == 'x' || data[i+1] == 'X') {
		i += 2
	}
	start := i
	for i < len(data) && isHexDigit(data[i]) {
		i++
	}
	if i == start {
		return offset, nil, false
	}
	n, err := strconv.ParseUint(string(data[start:i]), 16, 64)
	if err != nil {
		return offset, nil, false
	}
	return i, n, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
