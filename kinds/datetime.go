/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"regexp"
	"strconv"
	"time"

	"github.com/gravwell/lognorm/registry"
)

// regexLayout pairs an anchored regular expression with the time.Parse
// layout that decodes whatever it matches — the same regex+layout idiom
// timegrinder uses for every one of its built-in timestamp formats.
type regexLayout struct {
	re     *regexp.Regexp
	layout string
}

var (
	rfc3164DateMatcher = regexLayout{
		re:     regexp.MustCompile(`^[JFMASOND][a-z]{2}\s+\d{1,2}\s+\d\d:\d\d:\d\d`),
		layout: `Jan _2 15:04:05`,
	}
	isoDateMatcher = regexLayout{
		re:     regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?`),
		layout: time.RFC3339Nano,
	}
	time24Matcher = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}`)
	time12Matcher = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}\s*[AaPp][Mm]`)
	kernelTimestampMatcher = regexp.MustCompile(`^\[\s*\d+\.\d+\]`)
	durationMatcher = regexp.MustCompile(`^\d+(\.\d+)?(ns|us|µs|ms|s|m|h)`)
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindRFC3164Date,
		Name:            "rfc3164-date",
		DefaultPriority: 8,
		Run:             runRFC3164Date,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindRFC5424Date,
		Name:            "rfc5424-date",
		DefaultPriority: 8,
		Run:             runRFC5424Date,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindISODate,
		Name:            "iso-date",
		DefaultPriority: 8,
		Run:             runISODate,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindKernelTimestamp,
		Name:            "kernel-timestamp",
		DefaultPriority: 8,
		Run:             runKernelTimestamp,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindTime24,
		Name:            "time-24hr",
		DefaultPriority: 8,
		Run:             runTime24,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindTime12,
		Name:            "time-12hr",
		DefaultPriority: 8,
		Run:             runTime12,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindDuration,
		Name:            "duration",
		DefaultPriority: 8,
		Run:             runDuration,
	})
}

func runRFC3164Date(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	return matchAndParseTime(data, offset, rfc3164DateMatcher)
}

// runRFC5424Date matches the timestamp portion of an RFC5424 syslog header
// on its own (full-frame parsing, including structured data, is handled by
// the cee-syslog kind via crewjam/rfc5424 instead).
func runRFC5424Date(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	return matchAndParseTime(data, offset, isoDateMatcher)
}

func runISODate(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	return matchAndParseTime(data, offset, isoDateMatcher)
}

func matchAndParseTime(data []byte, offset int, rl regexLayout) (int, interface{}, bool) {
	loc := rl.re.FindIndex(data[offset:])
	if loc == nil || loc[0] != 0 {
		return offset, nil, false
	}
	candidate := string(data[offset : offset+loc[1]])
	t, err := time.Parse(rl.layout, candidate)
	if err != nil {
		return offset, nil, false
	}
	return offset + loc[1], t, true
}

func runKernelTimestamp(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := kernelTimestampMatcher.FindIndex(data[offset:])
	if loc == nil || loc[0] != 0 {
		return offset, nil, false
	}
	inner := string(data[offset+1 : offset+loc[1]-1])
	inner = trimSpaceLeft(inner)
	f, err := strconv.ParseFloat(inner, 64)
	if err != nil {
		return offset, nil, false
	}
	return offset + loc[1], f, true
}

func trimSpaceLeft(s string) string {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return s[i:]
}

func runTime24(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := time24Matcher.FindIndex(data[offset:])
	if loc == nil || loc[0] != 0 {
		return offset, nil, false
	}
	candidate := string(data[offset : offset+loc[1]])
	layout := "15:04:05"
	if len(candidate) > 0 && candidate[1] == ':' {
		layout = "3:04:05"
	}
	t, err := time.Parse(layout, candidate)
	if err != nil {
		return offset, nil, false
	}
	return offset + loc[1], t, true
}

func runTime12(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := time12Matcher.FindIndex(data[offset:])
	if loc == nil || loc[0] != 0 {
		return offset, nil, false
	}
	candidate := string(data[offset : offset+loc[1]])
	for _, layout := range []string{"3:04:05 PM", "3:04:05PM", "03:04:05 PM", "03:04:05PM"} {
		if t, err := time.Parse(layout, candidate); err == nil {
			return offset + loc[1], t, true
		}
	}
	return offset, nil, false
}

func runDuration(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := durationMatcher.FindIndex(data[offset:])
	if loc == nil || loc[0] != 0 {
		return offset, nil, false
	}
	candidate := string(data[offset : offset+loc[1]])
	d, err := time.ParseDuration(candidate)
	if err != nil {
		return offset, nil, false
	}
	return offset + loc[1], d, true
}
