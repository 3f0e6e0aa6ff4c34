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

	_ "github.com/gravwell/lognorm/kinds"
)

// Optimize must sort an alternative's edges by ascending composite
// priority: a word with an explicit low user priority sorts ahead of a
// literal relying on its (numerically larger) default composite.
func TestOptimizeSortsEdgesByPriority(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, map[string]interface{}{
		"type": "alternative",
		"parser": []interface{}{
			map[string]interface{}{"type": "literal", "text": "abc"},
			map[string]interface{}{"type": "word", "name": "w", "priority": 1},
		},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	edges := ctx.Main.Edges
	if len(edges) != 2 {
		t.Fatalf("root has %d edges, want 2", len(edges))
	}
	if edges[0].Priority > edges[1].Priority {
		t.Errorf("edges not sorted ascending by priority: %d before %d", edges[0].Priority, edges[1].Priority)
	}
}

// A stable sort must preserve the author-given order of two edges with
// equal composite priority.
func TestOptimizeSortIsStable(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, map[string]interface{}{
		"type": "alternative",
		"parser": []interface{}{
			map[string]interface{}{"type": "literal", "text": "aaa"},
			map[string]interface{}{"type": "literal", "text": "bbb"},
		},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if _, err := ctx.Normalize("aaa"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	first, ok := ctx.Main.Edges[0].Opaque.(interface{ Text() string })
	if !ok || first.Text() != "aaa" {
		t.Errorf("first edge after sort is not the author-first literal %q", "aaa")
	}
}

// A named sub-pdag that references itself (directly) must be rejected by
// Optimize with ErrCycle.
func TestOptimizeRejectsSelfReferencingType(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	nt, _ := ctx.FindOrAddType("@loop", true)
	cursor := nt.Root
	mustAddParser(t, ctx, &cursor, map[string]interface{}{"type": "@loop"})

	err := ctx.Optimize()
	if err == nil {
		t.Fatal("expected Optimize to reject a self-referencing named type, got nil")
	}
	perr, ok := err.(*pdag.Error)
	if !ok {
		t.Fatalf("error is %T, want *pdag.Error", err)
	}
	if perr.Kind != pdag.ErrCycle {
		t.Errorf("error kind = %v, want %v", perr.Kind, pdag.ErrCycle)
	}
}

// A mutual reference cycle (@a -> @b -> @a) must also be rejected.
func TestOptimizeRejectsMutualCycle(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	ntA, _ := ctx.FindOrAddType("@a", true)
	cursorA := ntA.Root
	mustAddParser(t, ctx, &cursorA, map[string]interface{}{"type": "@b"})

	ntB, _ := ctx.FindOrAddType("@b", true)
	cursorB := ntB.Root
	mustAddParser(t, ctx, &cursorB, map[string]interface{}{"type": "@a"})

	err := ctx.Optimize()
	if err == nil {
		t.Fatal("expected Optimize to reject a mutual named-type cycle, got nil")
	}
	perr, ok := err.(*pdag.Error)
	if !ok {
		t.Fatalf("error is %T, want *pdag.Error", err)
	}
	if perr.Kind != pdag.ErrCycle {
		t.Errorf("error kind = %v, want %v", perr.Kind, pdag.ErrCycle)
	}
}

// Consecutive unnamed literal edges must compact into a single edge that
// still matches the full concatenated text.
func TestOptimizeCompactsThreeLiterals(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{"type": "literal", "text": "a"},
		map[string]interface{}{"type": "literal", "text": "b"},
		map[string]interface{}{"type": "literal", "text": "c"},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if got := len(ctx.Main.Edges); got != 1 {
		t.Fatalf("root has %d edges after compaction, want 1", got)
	}

	if _, err := ctx.Normalize("abc"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
}

// A named literal capture must survive compaction untouched: its neighbor
// literal edges may still merge around it, but the named edge itself must
// not be folded away (it would lose the capture).
func TestOptimizeDoesNotCompactNamedLiteral(t *testing.T) {
	ctx := pdag.New()
	defer ctx.Close()

	cursor := ctx.Main
	mustAddParser(t, ctx, &cursor, []interface{}{
		map[string]interface{}{"type": "literal", "text": "pre", "name": "tag"},
		map[string]interface{}{"type": "literal", "text": "-"},
		map[string]interface{}{"type": "literal", "text": "post"},
	})
	cursor.IsTerminal = true

	if err := ctx.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if got := len(ctx.Main.Edges); got != 1 {
		t.Fatalf("root has %d edges, want 1 (named edge survives on its own)", got)
	}
	if ctx.Main.Edges[0].FieldName != "tag" {
		t.Errorf("first edge FieldName = %q, want %q (named capture must not be absorbed)", ctx.Main.Edges[0].FieldName, "tag")
	}

	rec, err := ctx.Normalize("pre-post")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec["tag"] != "pre" {
		t.Errorf(`rec["tag"] = %v, want "pre"`, rec["tag"])
	}
}
