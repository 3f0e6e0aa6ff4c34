/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"net"
	"regexp"

	"github.com/gravwell/lognorm/registry"
)

var (
	ipv4Regex = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
	ipv6Regex = regexp.MustCompile(`^[0-9A-Fa-f:]*:[0-9A-Fa-f:]*`)
	mac48Regex = regexp.MustCompile(`^[0-9A-Fa-f]{2}(:[0-9A-Fa-f]{2}){5}`)
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindIPv4,
		Name:            "ipv4",
		DefaultPriority: 4,
		Run:             runIPv4,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindIPv6,
		Name:            "ipv6",
		DefaultPriority: 4,
		Run:             runIPv6,
	})
	registry.Register(registry.Entry{
		Kind:            registry.KindMAC48,
		Name:            "mac48",
		DefaultPriority: 16,
		Run:             runMAC48,
	})
}

func runIPv4(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := ipv4Regex.FindIndex(data[offset:])
	if loc == nil {
		return offset, nil, false
	}
	candidate := string(data[offset+loc[0] : offset+loc[1]])
	if net.ParseIP(candidate).To4() == nil {
		return offset, nil, false
	}
	return offset + loc[1], candidate, true
}

func runIPv6(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := ipv6Regex.FindIndex(data[offset:])
	if loc == nil || loc[1] == loc[0] {
		return offset, nil, false
	}
	candidate := string(data[offset+loc[0] : offset+loc[1]])
	ip := net.ParseIP(candidate)
	if ip == nil || ip.To4() != nil {
		return offset, nil, false
	}
	return offset + loc[1], candidate, true
}

func runMAC48(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	loc := mac48Regex.FindIndex(data[offset:])
	if loc == nil {
		return offset, nil, false
	}
	candidate := string(data[offset+loc[0] : offset+loc[1]])
	if _, err := net.ParseMAC(candidate); err != nil {
		return offset, nil, false
	}
	return offset + loc[1], candidate, true
}
