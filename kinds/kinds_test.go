/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"testing"
)

func TestRunLiteral(t *testing.T) {
	c := &LiteralConfig{Value: "hello"}
	off, val, ok := runLiteral([]byte("hello world"), 0, c)
	if !ok || off != 5 || val != "hello" {
		t.Fatalf("runLiteral = (%d, %v, %v), want (5, hello, true)", off, val, ok)
	}
	if _, _, ok := runLiteral([]byte("goodbye"), 0, c); ok {
		t.Errorf("runLiteral matched a non-prefix input")
	}
}

func TestRunNumber(t *testing.T) {
	off, val, ok := runNumber([]byte("-42abc"), 0, nil)
	if !ok || off != 3 || val != int64(-42) {
		t.Fatalf("runNumber = (%d, %v, %v), want (3, -42, true)", off, val, ok)
	}
	if _, _, ok := runNumber([]byte("abc"), 0, nil); ok {
		t.Errorf("runNumber matched non-numeric input")
	}
}

func TestRunFloat(t *testing.T) {
	off, val, ok := runFloat([]byte("3.14x"), 0, nil)
	if !ok || off != 4 || val != 3.14 {
		t.Fatalf("runFloat = (%d, %v, %v), want (4, 3.14, true)", off, val, ok)
	}
	if _, _, ok := runFloat([]byte("42"), 0, nil); ok {
		t.Errorf("runFloat matched an integer with no fractional part")
	}
}

func TestRunHexNumber(t *testing.T) {
	off, val, ok := runHexNumber([]byte("0xFFz"), 0, nil)
	if !ok || off != 4 || val != uint64(255) {
		t.Fatalf("runHexNumber = (%d, %v, %v), want (4, 255, true)", off, val, ok)
	}
}

func TestRunWhitespace(t *testing.T) {
	off, _, ok := runWhitespace([]byte("   x"), 0, nil)
	if !ok || off != 3 {
		t.Fatalf("runWhitespace = (%d, _, %v), want (3, true)", off, ok)
	}
	if _, _, ok := runWhitespace([]byte("x"), 0, nil); ok {
		t.Errorf("runWhitespace matched a non-whitespace byte")
	}
}

func TestRunWord(t *testing.T) {
	off, val, ok := runWord([]byte("x=y"), 0, nil)
	if !ok || off != 1 || val != "x" {
		t.Fatalf("runWord = (%d, %v, %v), want (1, x, true) — must stop at '='", off, val, ok)
	}
}

func TestRunRest(t *testing.T) {
	off, val, ok := runRest([]byte("abc"), 1, nil)
	if !ok || off != 3 || val != "bc" {
		t.Fatalf("runRest = (%d, %v, %v), want (3, bc, true)", off, val, ok)
	}
}

func TestRunQuotedString(t *testing.T) {
	off, val, ok := runQuotedString([]byte(`"a\"b" rest`), 0, nil)
	if !ok || val != `a\"b` {
		t.Fatalf("runQuotedString = (%d, %q, %v)", off, val, ok)
	}
	if _, _, ok := runQuotedString([]byte("noquote"), 0, nil); ok {
		t.Errorf("runQuotedString matched an unquoted input")
	}
}

func TestRunOptionallyQuotedString(t *testing.T) {
	off, val, ok := runOptionallyQuotedString([]byte("bare "), 0, nil)
	if !ok || off != 4 || val != "bare" {
		t.Fatalf("runOptionallyQuotedString(bare) = (%d, %v, %v)", off, val, ok)
	}
}

func TestRunStringTo(t *testing.T) {
	c := &DelimiterConfig{ExtraData: "STOP"}
	off, val, ok := runStringTo([]byte("abcSTOPdef"), 0, c)
	if !ok || off != 3 || val != "abc" {
		t.Fatalf("runStringTo = (%d, %v, %v), want (3, abc, true)", off, val, ok)
	}
}

func TestRunCharTo(t *testing.T) {
	c := &DelimiterConfig{ExtraData: ",;"}
	off, val, ok := runCharTo([]byte("abc;def"), 0, c)
	if !ok || off != 3 || val != "abc" {
		t.Fatalf("runCharTo = (%d, %v, %v), want (3, abc, true)", off, val, ok)
	}
}

func TestRunCharSep(t *testing.T) {
	c := &DelimiterConfig{ExtraData: ","}
	off, val, ok := runCharSep([]byte("abc,def"), 0, c)
	if !ok || off != 4 || val != "abc" {
		t.Fatalf("runCharSep = (%d, %v, %v), want (4, abc, true) — separator itself consumed", off, val, ok)
	}
}

func TestRunNameValue(t *testing.T) {
	c := &NameValueConfig{FieldSeparator: " ", ValueSeparator: "=", QuoteChar: `"`}
	off, val, ok := runNameValue([]byte(`a=1 b="two words"`), 0, c)
	if !ok {
		t.Fatalf("runNameValue failed to match")
	}
	m, ok := val.(map[string]interface{})
	if !ok || m["a"] != "1" || m["b"] != "two words" {
		t.Errorf("runNameValue value = %v, want a=1 b=\"two words\"", val)
	}
	if off != len(`a=1 b="two words"`) {
		t.Errorf("runNameValue consumed %d bytes, want %d", off, len(`a=1 b="two words"`))
	}
}

func TestRunJSON(t *testing.T) {
	input := `{"a":1,"b":"x"} trailing`
	off, val, ok := runJSON([]byte(input), 0, nil)
	if !ok {
		t.Fatalf("runJSON failed to match")
	}
	m, ok := val.(map[string]interface{})
	if !ok || m["b"] != "x" {
		t.Errorf("runJSON value = %v, want b=x", val)
	}
	if off != len(`{"a":1,"b":"x"}`) {
		t.Errorf("runJSON consumed %d bytes, want the object length only", off)
	}
}

func TestRunCEF(t *testing.T) {
	input := `CEF:0|Vendor|Product|1.0|100|Name|5|src=10.0.0.1 dst=10.0.0.2`
	_, val, ok := runCEF([]byte(input), 0, nil)
	if !ok {
		t.Fatalf("runCEF failed to match")
	}
	m := val.(map[string]interface{})
	if m["device-vendor"] != "Vendor" || m["src"] != "10.0.0.1" || m["severity"] != 5 {
		t.Errorf("runCEF value = %v", m)
	}
}

func TestRunCheckpointLEA(t *testing.T) {
	input := "action: accept; src: 1.2.3.4; dst: 5.6.7.8;"
	_, val, ok := runCheckpointLEA([]byte(input), 0, nil)
	if !ok {
		t.Fatalf("runCheckpointLEA failed to match")
	}
	m := val.(map[string]interface{})
	if m["action"] != "accept" || m["src"] != "1.2.3.4" {
		t.Errorf("runCheckpointLEA value = %v", m)
	}
}

func TestRunCiscoInterfaceSpec(t *testing.T) {
	off, val, ok := runCiscoInterfaceSpec([]byte("GigabitEthernet0/1 is up"), 0, nil)
	if !ok || val != "GigabitEthernet0/1" {
		t.Fatalf("runCiscoInterfaceSpec = (%d, %v, %v)", off, val, ok)
	}
}

func TestRunIPTables(t *testing.T) {
	input := "IN=eth0 OUT= MAC=00:11:22:33:44:55 SRC=1.2.3.4 DST=5.6.7.8"
	_, val, ok := runIPTables([]byte(input), 0, nil)
	if !ok {
		t.Fatalf("runIPTables failed to match")
	}
	m := val.(map[string]interface{})
	if m["IN"] != "eth0" || m["SRC"] != "1.2.3.4" {
		t.Errorf("runIPTables value = %v", m)
	}
}

func TestRunIPv4(t *testing.T) {
	off, val, ok := runIPv4([]byte("192.168.1.1 rest"), 0, nil)
	if !ok || val != "192.168.1.1" || off != 11 {
		t.Fatalf("runIPv4 = (%d, %v, %v)", off, val, ok)
	}
}

func TestRunIPv6(t *testing.T) {
	_, val, ok := runIPv6([]byte("fe80::1 rest"), 0, nil)
	if !ok || val != "fe80::1" {
		t.Fatalf("runIPv6 = (%v, %v)", val, ok)
	}
}

func TestRunMAC48(t *testing.T) {
	_, val, ok := runMAC48([]byte("00:11:22:33:44:55 rest"), 0, nil)
	if !ok || val != "00:11:22:33:44:55" {
		t.Fatalf("runMAC48 = (%v, %v)", val, ok)
	}
}

func TestRunRFC3164Date(t *testing.T) {
	_, _, ok := runRFC3164Date([]byte("Jan  2 15:04:05 host"), 0, nil)
	if !ok {
		t.Fatalf("runRFC3164Date failed to match")
	}
}

func TestRunISODate(t *testing.T) {
	_, _, ok := runISODate([]byte("2024-01-02T15:04:05Z rest"), 0, nil)
	if !ok {
		t.Fatalf("runISODate failed to match")
	}
}

func TestRunKernelTimestamp(t *testing.T) {
	off, val, ok := runKernelTimestamp([]byte("[12345.678901] kernel: msg"), 0, nil)
	if !ok || val != 12345.678901 {
		t.Fatalf("runKernelTimestamp = (%d, %v, %v)", off, val, ok)
	}
}

func TestRunTime24(t *testing.T) {
	_, _, ok := runTime24([]byte("23:59:59 rest"), 0, nil)
	if !ok {
		t.Fatalf("runTime24 failed to match")
	}
}

func TestRunTime12(t *testing.T) {
	_, _, ok := runTime12([]byte("11:59:59 PM rest"), 0, nil)
	if !ok {
		t.Fatalf("runTime12 failed to match")
	}
}

func TestRunDuration(t *testing.T) {
	_, val, ok := runDuration([]byte("150ms rest"), 0, nil)
	if !ok {
		t.Fatalf("runDuration failed to match")
	}
	_ = val
}

func TestConstructRepeatAndRun(t *testing.T) {
	cfg := map[string]interface{}{
		"parser": map[string]interface{}{"type": "whitespace"},
	}
	opaque, err := constructRepeat(cfg)
	if err != nil {
		t.Fatalf("constructRepeat: %v", err)
	}
	off, val, ok := runRepeatEdge([]byte("   x"), 0, opaque)
	if !ok || off != 3 {
		t.Fatalf("runRepeatEdge = (%d, %v, %v), want (3, _, true)", off, val, ok)
	}
}
