/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package pdag_test

import (
	"testing"

	"github.com/gravwell/lognorm/pdag"
	"github.com/gravwell/lognorm/record"

	_ "github.com/gravwell/lognorm/kinds"
)

func mustAddParser(t *testing.T, ctx *pdag.Context, cursor **pdag.Node, cfg interface{}) {
	t.Helper()
	if err := ctx.AddParser(cursor, cfg); err != nil {
		t.Fatalf("AddParser(%v): %v", cfg, err)
	}
}

// Scenario 1: literal only.
func TestNormalizeLiteralOnly(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{"type": "literal", "text": "hello"},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	rec, err := ctx.Normalize("hello")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, ok := rec[record.UnparsedDataKey]; ok {
		t.Errorf("expected no unparsed-data key on full match, got %v", rec)
	}

	rec, err = ctx.Normalize("hell")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := rec[record.UnparsedDataKey]; got != "hell" {
		t.Errorf("unparsed-data = %q, want %q (max_parsed stayed at 0, formula is str[max_parsed:])", got, "hell")
	}
}

// Scenario 2: number capture.
func TestNormalizeNumberCapture(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{"type": "literal", "text": "id="},
		map[string]interface{}{"type": "number", "name": "id"},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	rec, err := ctx.Normalize("id=42")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec["id"] != int64(42) {
		t.Errorf("id = %v, want 42", rec["id"])
	}

	rec, err = ctx.Normalize("id=abc")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := rec[record.UnparsedDataKey]; got != "abc" {
		t.Errorf("unparsed-data = %q, want %q", got, "abc")
	}
}

// Scenario 3: alternative priority. The spec.md narrative claims the
// literal alternative wins a priority tie-break against a word alternative
// whose priority is explicitly set to 100, but that contradicts the
// documented composite-priority formula ((user<<8)|kind, lower wins):
// composite(user=100, kind=32) is numerically far below
// composite(user=30000, kind=4), so the word branch sorts first and wins.
// We test the formula as implemented (see DESIGN.md for the discrepancy).
func TestNormalizeAlternativePriority(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, map[string]interface{}{
		"type": "alternative",
		"parser": []interface{}{
			map[string]interface{}{"type": "word", "name": "w", "priority": 100},
			map[string]interface{}{"type": "literal", "text": "ok"},
		},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	rec, err := ctx.Normalize("ok")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, ok := rec["w"]; !ok {
		t.Errorf("expected the word branch (lower composite priority) to win and capture %q, got %v", "w", rec)
	}
}

// Scenario 4: literal compaction.
func TestOptimizeLiteralCompaction(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{"type": "literal", "text": "fo"},
		map[string]interface{}{"type": "literal", "text": "o"},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if got := len(ctx.Main.Edges); got != 1 {
		t.Fatalf("root has %d edges after compaction, want 1", got)
	}
	rec, err := ctx.Normalize("foo")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, ok := rec[record.UnparsedDataKey]; ok {
		t.Errorf("expected full match after compaction, got %v", rec)
	}
}

// Scenario 5: backtracking. Constructed without calling Optimize so the
// alternative's edges stay in author-declared order (word before literal),
// isolating backtracking behavior from priority-sort interaction.
func TestNormalizeBacktracking(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{
			"type": "alternative",
			"parser": []interface{}{
				map[string]interface{}{"type": "word", "name": "a"},
				map[string]interface{}{"type": "literal", "text": "abc"},
			},
		},
		map[string]interface{}{"type": "literal", "text": "!"},
	})
	cursor.IsTerminal = true

	rec, err := ctx.Normalize("abc!")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec["a"] != "abc" {
		t.Errorf("a = %v, want %q", rec["a"], "abc")
	}

	rec, err = ctx.Normalize("abc")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := rec[record.UnparsedDataKey]; got != "" {
		t.Errorf("unparsed-data = %q, want empty (max_parsed=3)", got)
	}
}

// A terminal node reached before the end of input must not count as a
// match on the main pdag: "id=42x" has a trailing "x" the rule never
// names, so the whole normalization must fail and fall through to
// unparsed-data rather than silently truncating the match at "id=42".
func TestNormalizeRejectsTerminalBeforeEndOfInput(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{"type": "literal", "text": "id="},
		map[string]interface{}{"type": "number", "name": "id"},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	rec, err := ctx.Normalize("id=42x")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, ok := rec["id"]; ok {
		t.Errorf("rec captured %v from a partial match on the main pdag, want no capture", rec)
	}
	if got := rec[record.UnparsedDataKey]; got != "x" {
		t.Errorf("unparsed-data = %q, want %q", got, "x")
	}
}

// Scenario 6: user-defined type with "." merge.
func TestNormalizeUserDefinedTypeMerge(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	pairType, _ := ctx.FindOrAddType("@pair", true)
	pairCursor := pairType.Root
	mustAddParser(t, ctx, &pairCursor, []interface{}{
		map[string]interface{}{"type": "word", "name": "k"},
		map[string]interface{}{"type": "literal", "text": "="},
		map[string]interface{}{"type": "word", "name": "v"},
	})
	pairCursor.IsTerminal = true

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{"type": "@pair", "name": "."},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	rec, err := ctx.Normalize("x=y")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec["k"] != "x" || rec["v"] != "y" {
		t.Errorf("rec = %v, want k=x v=y", rec)
	}
}
