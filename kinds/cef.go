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
	"strings"

	"github.com/gravwell/lognorm/registry"
)

const cefPrefix = "CEF:"

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindCEF,
		Name:            "cef",
		DefaultPriority: 4,
		Run:             runCEF,
	})
}

// runCEF matches an ArcSight Common Event Format record: "CEF:Version|
// Device Vendor|Device Product|Device Version|Signature ID|Name|Severity|
// Extension", where Extension is a space-separated "key=value" list with
// backslash-escaped '|', '=' and spaces inside values.
func runCEF(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	if !strings.HasPrefix(string(data[offset:]), cefPrefix) {
		return offset, nil, false
	}
	rest := string(data[offset+len(cefPrefix):])

	fields, consumed := splitEscaped(rest, '|', 7)
	if len(fields) < 7 {
		return offset, nil, false
	}

	out := map[string]interface{}{
		"cef-version":    fields[0],
		"device-vendor":  fields[1],
		"device-product": fields[2],
		"device-version": fields[3],
		"signature-id":   fields[4],
		"name":           fields[5],
	}
	if sev, err := strconv.Atoi(fields[6]); err == nil {
		out["severity"] = sev
	} else {
		out["severity"] = fields[6]
	}

	extStart := consumed
	extEnd := indexUnescaped(rest[extStart:], '\n')
	var ext string
	if extEnd < 0 {
		ext = rest[extStart:]
		extEnd = len(rest)
	} else {
		ext = rest[extStart : extStart+extEnd]
		extEnd += extStart
	}
	for _, kv := range splitUnescaped(ext, ' ') {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			out[parts[0]] = parts[1]
		}
	}

	return offset + len(cefPrefix) + extEnd, out, true
}

// splitEscaped splits s on sep into at most n fields, honoring backslash
// escapes, and reports the byte offset immediately after the nth field's
// separator (i.e. where the remainder begins).
func splitEscaped(s string, sep byte, n int) ([]string, int) {
	var fields []string
	start := 0
	i := 0
	for i < len(s) && len(fields) < n-1 {
		if s[i] == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if s[i] == sep {
			fields = append(fields, unescape(s[start:i]))
			i++
			start = i
			continue
		}
		i++
	}
	if len(fields) < n-1 {
		return fields, i
	}
	// final field runs until sep or end of string
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if s[i] == sep {
			break
		}
		i++
	}
	fields = append(fields, unescape(s[start:i]))
	if i < len(s) {
		i++
	}
	return fields, i
}

func indexUnescaped(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] == b {
			return i
		}
	}
	return -1
}

func splitUnescaped(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] == sep {
			out = append(out, unescape(s[start:i]))
			start = i + 1
		}
	}
	out = append(out, unescape(s[start:]))
	return out
}

func unescape(s string) string {
	return strings.NewReplacer(`\|`, `|`, `\=`, `=`, `\\`, `\`).Replace(s)
}
