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

	"github.com/gravwell/lognorm/registry"
)

// ciscoInterfaceRegex matches a Cisco IOS/NX-OS interface name: a run of
// letters (the interface family, abbreviated or spelled out) followed by
// slash- or colon-separated numeric slot/port/sub-interface components.
var ciscoInterfaceRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z\-]*\d+(/\d+)*(\.\d+)?(:\d+)?`)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindCiscoInterfaceSpec,
		Name:            "cisco-interface-spec",
		DefaultPriority: 16,
		Run:             runCiscoInterfaceSpec,
	})
}

func runCiscoInterfaceSpec(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := ciscoInterfaceRegex.FindIndex(data[offset:])
	if loc == nil || loc[0] != 0 {
		return offset, nil, false
	}
	return offset + loc[1], string(data[offset : offset+loc[1]]), true
}
