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
	"strings"

	"github.com/gravwell/lognorm/registry"
)

// StatsReport summarizes the shape of a pdag for operators deciding whether
// a rule set needs further optimization attention (spec.md §4.H).
type StatsReport struct {
	Nodes        int
	Edges        int
	TerminalNode int
	NamedTypes   int
	MaxFanout    int
}

// Stats walks ctx's main pdag and named sub-pdags and reports aggregate
// shape statistics. It carries its own visited set rather than touching
// Node.visited, so it is safe to call concurrently with other read-only
// diagnostics after Optimize has completed.
func (ctx *Context) Stats() StatsReport {
	var report StatsReport
	report.NamedTypes = len(ctx.Types)

	seen := make(map[*Node]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		report.Nodes++
		report.Edges += len(n.Edges)
		if len(n.Edges) > report.MaxFanout {
			report.MaxFanout = len(n.Edges)
		}
		if n.IsTerminal {
			report.TerminalNode++
		}
		for _, e := range n.Edges {
			walk(e.Successor)
		}
	}
	walk(ctx.Main)
	for _, t := range ctx.Types {
		walk(t.Root)
	}
	return report
}

// Dump renders a human-readable, indented listing of ctx's main pdag and
// every named sub-pdag, in the spirit of the reference's ln_displayPDAG
// debug dump.
func (ctx *Context) Dump() string {
	var b strings.Builder
	seen := make(map[*Node]bool)

	fmt.Fprintln(&b, "main:")
	dumpNode(&b, ctx.Main, 1, seen)

	for _, t := range ctx.Types {
		fmt.Fprintf(&b, "type %s:\n", t.Name)
		dumpNode(&b, t.Root, 1, seen)
	}
	return b.String()
}

func dumpNode(b *strings.Builder, n *Node, depth int, seen map[*Node]bool) {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		fmt.Fprintf(b, "%s<nil>\n", indent)
		return
	}
	if seen[n] {
		fmt.Fprintf(b, "%s(repeat node, refcount=%d)\n", indent, n.Refcount)
		return
	}
	seen[n] = true
	if n.IsTerminal {
		fmt.Fprintf(b, "%sterminal\n", indent)
	}
	for _, e := range n.Edges {
		name := kindName(e.Kind, e)
		if e.FieldName != "" {
			fmt.Fprintf(b, "%s-> %s (name=%q, prio=%d)\n", indent, name, e.FieldName, e.Priority)
		} else {
			fmt.Fprintf(b, "%s-> %s (prio=%d)\n", indent, name, e.Priority)
		}
		dumpNode(b, e.Successor, depth+1, seen)
	}
}

func kindName(kind registry.Kind, e *Edge) string {
	if kind == registry.KindUserDefined {
		if e.SubPdag != nil {
			return "@" + e.SubPdag.Name
		}
		return "@<unresolved>"
	}
	if entry, ok := lookupEntry(kind); ok {
		return entry.Name
	}
	return fmt.Sprintf("kind(%d)", kind)
}

// DOT renders ctx's main pdag as a Graphviz DOT graph, for operators
// visualizing rule sets with `dot -Tpng`.
func (ctx *Context) DOT() string {
	var b strings.Builder
	fmt.Fprintln(&b, "digraph pdag {")
	fmt.Fprintln(&b, "  rankdir=LR;")

	ids := make(map[*Node]int)
	next := 0
	nodeID := func(n *Node) int {
		if id, ok := ids[n]; ok {
			return id
		}
		ids[n] = next
		next++
		return ids[n]
	}

	seen := make(map[*Node]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		id := nodeID(n)
		shape := "circle"
		if n.IsTerminal {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "  n%d [shape=%s];\n", id, shape)
		for _, e := range n.Edges {
			succID := nodeID(e.Successor)
			label := kindName(e.Kind, e)
			if e.FieldName != "" {
				label += ":" + e.FieldName
			}
			fmt.Fprintf(&b, "  n%d -> n%d [label=%q];\n", id, succID, label)
		}
		for _, e := range n.Edges {
			walk(e.Successor)
		}
	}
	walk(ctx.Main)
	fmt.Fprintln(&b, "}")
	return b.String()
}
