/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"strings"

	"github.com/gravwell/lognorm/registry"
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindCheckpointLEA,
		Name:            "checkpoint-lea",
		DefaultPriority: 4,
		Run:             runCheckpointLEA,
	})
}

// runCheckpointLEA matches a Checkpoint LEA-style "key: value; key2:
// value2;" field list, the export format used by Checkpoint's Log Export
// API.
func runCheckpointLEA(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	rest := string(data[offset:])
	out := make(map[string]interface{})
	cur := 0
	matchedAny := false

	for cur < len(rest) {
		semiIdx := strings.IndexByte(rest[cur:], ';')
		if semiIdx < 0 {
			break
		}
		field := rest[cur : cur+semiIdx]
		colonIdx := strings.IndexByte(field, ':')
		if colonIdx < 0 {
			break
		}
		key := strings.TrimSpace(field[:colonIdx])
		value := strings.TrimSpace(field[colonIdx+1:])
		if key == "" {
			break
		}
		out[key] = value
		matchedAny = true
		cur += semiIdx + 1
		for cur < len(rest) && rest[cur] == ' ' {
			cur++
		}
	}

	if !matchedAny {
		return offset, nil, false
	}
	return offset + cur, out, true
}
