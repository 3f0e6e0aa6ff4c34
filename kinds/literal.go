/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"bytes"

	"github.com/gravwell/lognorm/registry"
)

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindLiteral,
		Name:            "literal",
		DefaultPriority: 4,
		Construct:       constructLiteral,
		Run:             runLiteral,
		MayMatchEmpty:   literalMayMatchEmpty,
	})
}

// LiteralConfig holds the fixed text a literal edge must match.
type LiteralConfig struct {
	Value string `mapstructure:"text"`
}

// Text satisfies the unexported texter interface the pdag optimizer uses
// to fold consecutive literal edges into one during literal-chain
// compaction.
func (c *LiteralConfig) Text() string { return c.Value }

func constructLiteral(cfg map[string]interface{}) (interface{}, error) {
	var c LiteralConfig
	if err := decode(cfg, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func runLiteral(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
	c := opaque.(*LiteralConfig)
	text := []byte(c.Value)
	if offset+len(text) > len(data) {
		return offset, nil, false
	}
	if !bytes.Equal(data[offset:offset+len(text)], text) {
		return offset, nil, false
	}
	return offset + len(text), c.Value, true
}

func literalMayMatchEmpty(opaque interface{}) bool {
	c, ok := opaque.(*LiteralConfig)
	return ok && len(c.Value) == 0
}
