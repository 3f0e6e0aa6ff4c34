/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package pdag

import (
	"strings"

	"github.com/gravwell/lognorm/annotate"
	"github.com/gravwell/lognorm/metrics"
)

// userDefinedPrefix marks a configuration "type" value as a reference to a
// named sub-pdag rather than a built-in kind.
const userDefinedPrefix = "@"

// NamedType is the spec's named sub-pdag: a (name, root) pair. Names are
// stored without the leading "@" sentinel.
type NamedType struct {
	Name string
	Root *Node
}

// Context owns the main pdag and the table of named sub-pdags ("user-
// defined types"). It is not safe for concurrent construction; see
// spec.md §5.
type Context struct {
	Main  *Node
	Types []*NamedType

	// Debug, when true, causes Normalize to invoke Trace (if non-nil)
	// on every edge attempt, standing in for the reference's
	// ln_dbgprintf tracing without hard-wiring stderr writes into the
	// core.
	Debug bool
	Trace func(node *Node, edgeIdx int, offset int, matched bool)

	// Annotator is invoked once per successful normalization. Defaults
	// to annotate.Nop{} when nil.
	Annotator annotate.Annotator

	// Metrics, if non-nil, receives node-count and normalize-duration
	// observations (component H: Diagnostics).
	Metrics *metrics.Recorder

	nodeCount int
}

// New allocates a Context with an empty main pdag.
func New() *Context {
	return &Context{
		Main:      newNode(),
		Annotator: annotate.Nop{},
		nodeCount: 1,
	}
}

// FindOrAddType looks up the named sub-pdag called name (a leading "@" is
// stripped, so "@pair" and "pair" name the same type). If add is true and no such type
// exists, a fresh named sub-pdag with an empty root is appended and
// returned. If add is false and no such type exists, ok is false.
func (ctx *Context) FindOrAddType(name string, add bool) (nt *NamedType, ok bool) {
	name = strings.TrimPrefix(name, userDefinedPrefix)
	for _, t := range ctx.Types {
		if t.Name == name {
			return t, true
		}
	}
	if !add {
		return nil, false
	}
	nt = &NamedType{Name: name, Root: newNode()}
	ctx.Types = append(ctx.Types, nt)
	ctx.nodeCount++
	return nt, true
}

// lookupType is a read-only variant of FindOrAddType(name, false).
func (ctx *Context) lookupType(name string) (*NamedType, bool) {
	return ctx.FindOrAddType(name, false)
}

// isUserDefinedTypeName reports whether a configuration "type" value names
// a sub-pdag rather than a built-in kind.
func isUserDefinedTypeName(typeName string) bool {
	return strings.HasPrefix(typeName, userDefinedPrefix)
}

// Close tears down every named sub-pdag and then the main pdag. Deletion
// walks outgoing edges with an explicit worklist (not recursion) so
// teardown cost does not grow the call stack with graph depth, per
// spec.md §9.
func (ctx *Context) Close() {
	for _, t := range ctx.Types {
		ctx.deleteGraph(t.Root)
	}
	ctx.Types = nil
	ctx.deleteGraph(ctx.Main)
	ctx.Main = nil
}

// deleteGraph releases root's implicit "root" reference and frees any node
// whose refcount reaches zero, using a worklist rather than recursion.
func (ctx *Context) deleteGraph(root *Node) {
	if root == nil {
		return
	}
	work := []*Node{root}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if n == nil {
			continue
		}
		if n.release() > 0 {
			continue
		}
		for _, e := range n.Edges {
			if e.Opaque != nil {
				if entry, ok := lookupEntry(e.Kind); ok && entry.Destruct != nil {
					entry.Destruct(e.Opaque)
				}
			}
			if e.Successor != nil {
				work = append(work, e.Successor)
			}
		}
		n.Edges = nil
		ctx.nodeCount--
	}
}

// NodeCount returns the number of live nodes across the main pdag and all
// named sub-pdags, maintained incrementally as an O(1) diagnostic.
func (ctx *Context) NodeCount() int {
	return ctx.nodeCount
}
