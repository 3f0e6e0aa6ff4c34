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
		Kind:            registry.KindIPTables,
		Name:            "v2-iptables",
		DefaultPriority: 4,
		Run:             runIPTables,
	})
}

// runIPTables matches the Linux kernel's netfilter LOG target format:
// space-separated "KEY=value" tokens (some with an empty value, e.g.
// "OUT=" when the interface is unset), as produced by `iptables -j LOG`.
func runIPTables(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	rest := string(data[offset:])
	out := make(map[string]interface{})
	matchedAny := false
	cur := 0

	for cur < len(rest) {
		for cur < len(rest) && rest[cur] == ' ' {
			cur++
		}
		tokenEnd := strings.IndexByte(rest[cur:], ' ')
		var token string
		if tokenEnd < 0 {
			token = rest[cur:]
			tokenEnd = len(rest) - cur
		} else {
			token = rest[cur : cur+tokenEnd]
		}
		if token == "" {
			break
		}
		eqIdx := strings.IndexByte(token, '=')
		if eqIdx < 0 || !isUpperToken(token[:eqIdx]) {
			break
		}
		out[token[:eqIdx]] = token[eqIdx+1:]
		matchedAny = true
		cur += tokenEnd
	}

	if !matchedAny {
		return offset, nil, false
	}
	return offset + cur, out, true
}

func isUpperToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !((b >= 'A' && b <= 'Z') || b == '_') {
			return false
		}
	}
	return true
}
