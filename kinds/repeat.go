/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"fmt"

	"github.com/gravwell/lognorm/registry"
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindRepeat,
		Name:            "repeat",
		DefaultPriority: 4,
		Construct:       constructRepeat,
		Run:             runRepeatEdge,
	})
}

// RepeatConfig wraps an inner parser applied one or more times, optionally
// separated by a "while" continuation parser checked between iterations —
// the Go rendering of the reference's data_Repeat (inner parser plus a
// while_cond sub-pdag).
type RepeatConfig struct {
	innerKind   registry.Kind
	innerOpaque interface{}
	hasWhile    bool
	whileKind   registry.Kind
	whileOpaque interface{}
}

func constructRepeat(cfg map[string]interface{}) (interface{}, error) {
	innerKind, innerOpaque, err := resolveSubParser(cfg, "parser")
	if err != nil {
		return nil, err
	}
	c := &RepeatConfig{innerKind: innerKind, innerOpaque: innerOpaque}

	if raw, ok := cfg["while"]; ok {
		whileCfg, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("repeat: %q must be a parser object", "while")
		}
		whileKind, whileOpaque, err := resolveSubParser(whileCfg, "type")
		if err != nil {
			return nil, err
		}
		c.hasWhile = true
		c.whileKind = whileKind
		c.whileOpaque = whileOpaque
	}
	return c, nil
}

// resolveSubParser looks cfg[key] (a nested parser object with its own
// "type" and kind-specific keys) up in the registry and constructs its
// opaque data, used for repeat's embedded "parser"/"while" sub-parsers.
func resolveSubParser(cfg map[string]interface{}, key string) (registry.Kind, interface{}, error) {
	raw, ok := cfg[key]
	if key != "type" {
		if !ok {
			return 0, nil, fmt.Errorf("repeat: missing %q", key)
		}
	} else {
		raw = cfg
	}
	sub, ok := raw.(map[string]interface{})
	if !ok {
		return 0, nil, fmt.Errorf("repeat: %q must be a parser object", key)
	}
	typeName, _ := sub["type"].(string)
	kind, ok := registry.ByName(typeName)
	if !ok {
		return 0, nil, fmt.Errorf("repeat: unknown sub-parser type %q", typeName)
	}
	entry, ok := registry.Lookup(kind)
	if !ok {
		return 0, nil, fmt.Errorf("repeat: unregistered sub-parser kind %q", typeName)
	}
	var opaque interface{}
	if entry.Construct != nil {
		stripped := make(map[string]interface{}, len(sub))
		for k, v := range sub {
			if k == "type" || k == "name" || k == "priority" {
				continue
			}
			stripped[k] = v
		}
		var err error
		opaque, err = entry.Construct(stripped)
		if err != nil {
			return 0, nil, err
		}
	}
	return kind, opaque, nil
}

func runRepeatEdge(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
	c := opaque.(*RepeatConfig)
	innerEntry, ok := registry.Lookup(c.innerKind)
	if !ok {
		return offset, nil, false
	}
	var whileEntry registry.Entry
	if c.hasWhile {
		whileEntry, ok = registry.Lookup(c.whileKind)
		if !ok {
			return offset, nil, false
		}
	}

	var values []interface{}
	cur := offset
	for {
		newOffset, value, ok := innerEntry.Run(data, cur, c.innerOpaque)
		if !ok || newOffset == cur {
			break
		}
		values = append(values, value)
		cur = newOffset

		if c.hasWhile {
			wOffset, _, wok := whileEntry.Run(data, cur, c.whileOpaque)
			if !wok {
				break
			}
			cur = wOffset
		}
	}

	if len(values) == 0 {
		return offset, nil, false
	}
	return cur, values, true
}
