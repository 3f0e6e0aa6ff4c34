/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import "github.com/gravwell/lognorm/registry"

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindWhitespace,
		Name:            "whitespace",
		DefaultPriority: 2,
		Run:             runWhitespace,
	})
}

// runWhitespace matches one or more space/tab characters.
func runWhitespace(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	i := offset
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	if i == offset {
		return offset, nil, false
	}
	return i, nil, true
}
