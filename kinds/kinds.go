/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package kinds holds the built-in parser kinds: literal text, numbers,
// dates and times, addresses, quoted strings, delimiter-bounded fields,
// and a handful of log-format-specific parsers (JSON, CEE-syslog, CEF,
// Checkpoint LEA, Cisco interface specs, iptables). Every kind registers
// itself with the registry package from an init() function, the same
// self-registration idiom the ingest/processors package uses for its
// processor table.
//
// Importing this package (even with the blank identifier) is required
// before constructing or normalizing any pdag that references built-in
// kinds by name.
package kinds

import "github.com/mitchellh/mapstructure"

// decode maps a generic JSON-shaped configuration object onto a
// kind-specific typed struct, generalizing the ingest config package's
// VariableConfig.MapTo reflection idiom onto the JSON config source used
// here instead of gravwell's INI dialect.
func decode(cfg map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(cfg)
}
