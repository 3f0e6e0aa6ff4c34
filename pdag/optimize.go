/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package pdag

import (
	"fmt"
	"sort"

	"github.com/gravwell/lognorm/registry"
)

// Optimize prepares ctx's pdags for normalization: it sorts each node's
// edges by composite priority, checks for named sub-pdag reference cycles,
// and compacts consecutive unnamed literal edges into single wider-match
// edges, per spec.md §4.F. It is not safe to call concurrently with
// construction or with Normalize, and should be called exactly once after
// the last AddParser call.
func (ctx *Context) Optimize() error {
	if err := ctx.checkCycles(); err != nil {
		return err
	}

	ctx.clearVisited()
	ctx.sortEdges(ctx.Main)
	for _, t := range ctx.Types {
		ctx.clearVisited()
		ctx.sortEdges(t.Root)
	}

	ctx.clearVisited()
	ctx.compactLiterals(ctx.Main)
	for _, t := range ctx.Types {
		ctx.clearVisited()
		ctx.compactLiterals(t.Root)
	}
	return nil
}

// clearVisited resets the transient visited flag across every reachable
// node before a fresh single-threaded pass; passes share the field but
// never run concurrently with one another.
func (ctx *Context) clearVisited() {
	work := []*Node{ctx.Main}
	for _, t := range ctx.Types {
		work = append(work, t.Root)
	}
	seen := make(map[*Node]bool)
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		n.visited = false
		for _, e := range n.Edges {
			work = append(work, e.Successor)
		}
	}
}

// sortEdges stably sorts every reachable node's outgoing edges by composite
// priority (lower wins), matching the reference's qsort-by-priority pass.
// Stability preserves author-given ordering among equal priorities.
func (ctx *Context) sortEdges(n *Node) {
	if n == nil || n.visited {
		return
	}
	n.visited = true
	sort.SliceStable(n.Edges, func(i, j int) bool {
		return n.Edges[i].Priority < n.Edges[j].Priority
	})
	for _, e := range n.Edges {
		ctx.sortEdges(e.Successor)
	}
}

// compactLiterals merges a chain of unnamed, single-successor, non-terminal
// literal edges into one edge whose opaque value is their concatenated
// literal text, shrinking the normalizer's inner loop for the common case
// of long fixed separators between captures (spec.md §4.F, the reference's
// "prefix" optimization folded into the general-purpose literal merge
// instead of a byte-indexed subtree[256] — see SPEC_FULL.md's supplemented
// features note on why that structure was not reproduced here).
func (ctx *Context) compactLiterals(n *Node) {
	if n == nil || n.visited {
		return
	}
	n.visited = true

	for _, e := range n.Edges {
		ctx.compactLiterals(e.Successor)
	}

	for _, e := range n.Edges {
		ctx.mergeLiteralChain(e)
	}
}

// mergeLiteralChain absorbs a run of mergeable literal edges starting at e
// into e itself.
func (ctx *Context) mergeLiteralChain(e *Edge) {
	entry, ok := lookupEntry(registry.KindLiteral)
	if !ok || e.Kind != registry.KindLiteral || !isMergeableLiteral(e) {
		return
	}
	text, ok := literalText(e.Opaque)
	if !ok {
		return
	}

	for {
		succ := e.Successor
		if succ == nil || succ.Refcount != 1 || succ.IsTerminal || len(succ.Edges) != 1 {
			break
		}
		next := succ.Edges[0]
		if next.Kind != registry.KindLiteral || !isMergeableLiteral(next) {
			break
		}
		nextText, ok := literalText(next.Opaque)
		if !ok {
			break
		}
		text += nextText
		e.Successor = next.Successor
		succ.release()
		ctx.nodeCount--
	}

	if newOpaque, err := entry.Construct(map[string]interface{}{"text": text}); err == nil {
		e.Opaque = newOpaque
	}
	if serialized, err := canonicalize(map[string]interface{}{"text": text}); err == nil {
		e.Serialized = serialized
		e.digest = digestFor(e.Kind, serialized)
	}
}

// isMergeableLiteral reports whether e is safe to fold into a literal
// chain: unnamed (no capture to preserve) and not itself a merge ("." )
// target.
func isMergeableLiteral(e *Edge) bool {
	return e.FieldName == ""
}

// literalText extracts the matched text from a literal kind's opaque value.
// It is grounded on the kinds.LiteralConfig shape defined in the kinds
// package; a type assertion failure (an unexpected Construct result) simply
// disables compaction for that edge rather than panicking.
func literalText(opaque interface{}) (string, bool) {
	type texter interface{ Text() string }
	t, ok := opaque.(texter)
	if !ok {
		return "", false
	}
	return t.Text(), true
}

// checkCycles walks the named-sub-pdag reference graph (an edge of Kind
// KindUserDefined points at a NamedType; that type's root may itself
// contain more KindUserDefined edges) looking for a cycle. The reference
// implementation relies on rule authors avoiding self-referential types;
// spec.md §9 asks for this to be rejected explicitly instead.
func (ctx *Context) checkCycles() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*NamedType]int, len(ctx.Types))

	var visit func(nt *NamedType) error
	visit = func(nt *NamedType) error {
		switch color[nt] {
		case gray:
			return newErr(ErrCycle, nt.Name, fmt.Errorf("named sub-pdag %q references itself", nt.Name))
		case black:
			return nil
		}
		color[nt] = gray
		for _, child := range referencedTypes(nt.Root) {
			if err := visit(child); err != nil {
				return err
			}
		}
		color[nt] = black
		return nil
	}

	for _, nt := range ctx.Types {
		if err := visit(nt); err != nil {
			return err
		}
	}
	return nil
}

// referencedTypes collects the distinct named sub-pdags directly reachable
// from root via KindUserDefined edges, using a local visited set rather
// than Node.visited so it composes safely inside checkCycles (which itself
// may be called before clearVisited has run for this pass).
func referencedTypes(root *Node) []*NamedType {
	var out []*NamedType
	seenNode := make(map[*Node]bool)
	seenType := make(map[*NamedType]bool)
	work := []*Node{root}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if n == nil || seenNode[n] {
			continue
		}
		seenNode[n] = true
		for _, e := range n.Edges {
			if e.Kind == registry.KindUserDefined && e.SubPdag != nil && !seenType[e.SubPdag] {
				seenType[e.SubPdag] = true
				out = append(out, e.SubPdag)
			}
			work = append(work, e.Successor)
		}
	}
	return out
}
