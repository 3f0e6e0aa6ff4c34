/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package rulebase loads a JSON rule file — the external interface
// equivalent of the reference's ln_rbRepos/ln_rbRead sample repository —
// into parser-instance configuration objects and wires them into a
// pdag.Context via pdag.AddParser.
package rulebase

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/gravwell/lognorm/pdag"
)

// Rule is one entry of a rule file: an ordered parser configuration
// (sequence, alternative, or leaf, in the shape pdag.AddParser accepts)
// plus the tags attached to the record on a successful match.
type Rule struct {
	Tags   []string    `json:"tags"`
	Parser interface{} `json:"parser"`
}

// File is the top-level shape of a rule file: a set of named sub-pdag
// definitions ("types", keyed without the leading "@") plus an ordered
// list of top-level rules appended to the main pdag.
type File struct {
	Types map[string]interface{} `json:"types"`
	Rules []Rule                 `json:"rules"`
}

// Load decodes r as a rule File and applies it to ctx: every type
// definition first (in map iteration order, which is not file order), then
// every rule in file order. A reference to a type that the file never
// defines does not fail; it creates an empty named sub-pdag, as
// pdag.AddParser does for any "@name" reference.
func Load(ctx *pdag.Context, r io.Reader) error {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("rulebase: decode: %w", err)
	}
	return Apply(ctx, &f)
}

// Apply wires every type and rule in f into ctx.
func Apply(ctx *pdag.Context, f *File) error {
	for name, cfg := range f.Types {
		nt, _ := ctx.FindOrAddType(name, true)
		cursor := nt.Root
		if err := ctx.AddParser(&cursor, cfg); err != nil {
			return fmt.Errorf("rulebase: type %q: %w", name, err)
		}
		cursor.IsTerminal = true
	}

	for i, rule := range f.Rules {
		cursor := ctx.Main
		if err := ctx.AddParser(&cursor, rule.Parser); err != nil {
			return fmt.Errorf("rulebase: rule %d: %w", i, err)
		}
		cursor.IsTerminal = true
		if len(rule.Tags) > 0 {
			cursor.Tags = rule.Tags
		}
	}
	return nil
}
