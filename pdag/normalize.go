/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package pdag

import (
	"time"

	"github.com/gravwell/lognorm/record"
	"github.com/gravwell/lognorm/registry"
)

// Normalize matches input against ctx's main pdag and returns a structured
// record, per spec.md §4.G. On a match the record holds the captured
// fields, the matched terminal's tags under record.TagsKey (if it has any),
// and any annotator additions; on a non-match it carries only
// record.OriginalMsgKey and record.UnparsedDataKey, the latter holding the
// input from the furthest offset any parser reached during the attempt
// (the reference's max_parsed fallback).
func (ctx *Context) Normalize(input string) (record.Record, error) {
	start := time.Now()
	data := []byte(input)

	rec := record.New()

	st := &walkState{ctx: ctx, data: data}
	matched, _ := st.rec(ctx.Main, 0, false, rec)

	if !matched {
		rec.Set(record.OriginalMsgKey, input)
		rec.Set(record.UnparsedDataKey, string(data[st.maxParsed:]))
	} else if ctx.Annotator != nil {
		if err := ctx.Annotator.Annotate(rec, rec[record.TagsKey]); err != nil {
			ctx.Metrics.ObserveNormalize(time.Since(start), matched)
			return rec, newErr(ErrResource, "annotate", err)
		}
	}

	ctx.Metrics.ObserveNormalize(time.Since(start), matched)
	return rec, nil
}

// walkState carries the per-call mutable state of one Normalize attempt:
// the input bytes and the high-water mark of consumed input, used to
// produce a useful unparsed-data suffix even when nothing matches.
type walkState struct {
	ctx       *Context
	data      []byte
	maxParsed int
}

// rec implements the recursive backtracking search of spec.md §4.G: try
// each outgoing edge of n in priority order (already established by
// Optimize), and on the first edge whose match leads to an eventual
// terminal node, commit its capture into rec and report success.
//
// partial mirrors the reference's bPartialMatch (pdag.c:1046): the main
// pdag is walked with partial=false, so a terminal reached before the end
// of input is not a match and the search instead keeps trying edges (or
// fails, falling through to unparsed-data). A named sub-pdag reached via a
// user-defined edge is walked with partial=true, since the sub-pdag's own
// terminal only needs to end the sub-match, not the whole input.
//
// Edges within one node are tried strictly in order; a node is reached as
// "matched" either because it qualifies as terminal under the partial rule
// and no edges remain to try, or because some suffix of edges led to a
// terminal node deeper in the graph. Captures are only committed to rec
// once the whole remaining match succeeds, so a failed deeper branch never
// leaves partial state behind.
func (st *walkState) rec(n *Node, offset int, partial bool, rec record.Record) (bool, int) {
	if offset > st.maxParsed {
		st.maxParsed = offset
	}

	for i, e := range n.Edges {
		newOffset, value, ok := st.runEdge(e, offset)
		if st.ctx.Debug && st.ctx.Trace != nil {
			st.ctx.Trace(n, i, offset, ok)
		}
		if !ok {
			continue
		}

		childRec := rec
		if e.isCaptured() {
			childRec = record.New()
			for k, v := range rec {
				childRec[k] = v
			}
			applyCapture(childRec, e, value)
		}

		if matched, finalOffset := st.rec(e.Successor, newOffset, partial, childRec); matched {
			for k, v := range childRec {
				rec[k] = v
			}
			return true, finalOffset
		}
	}

	if n.IsTerminal && (offset == len(st.data) || partial) {
		attachTags(rec, n)
		return true, offset
	}

	return false, offset
}

// attachTags implements spec.md §4.G's "attach the terminal's tags (if
// any) under event.tags" step for a node reached as a successful match
// endpoint.
func attachTags(rec record.Record, n *Node) {
	if n.Tags == nil {
		return
	}
	rec.Set(record.TagsKey, n.Tags)
}

// runEdge executes one edge's parser, dispatching to a named sub-pdag's
// own recursive search when the edge is a user-defined type reference
// instead of a built-in kind.
func (st *walkState) runEdge(e *Edge, offset int) (int, interface{}, bool) {
	if e.Kind == registry.KindUserDefined {
		sub := record.New()
		matched, finalOffset := st.rec(e.SubPdag.Root, offset, true, sub)
		if !matched {
			return offset, nil, false
		}
		return finalOffset, map[string]interface{}(sub), true
	}

	entry, ok := lookupEntry(e.Kind)
	if !ok {
		return offset, nil, false
	}
	newOffset, value, ok := entry.Run(st.data, offset, e.Opaque)
	if !ok {
		return offset, nil, false
	}
	return newOffset, value, true
}

// applyCapture commits value into rec under the rules of spec.md §4.G's
// capture-naming convention: "." flattens a structured value into rec (or
// attaches it under the literal key "." if it isn't structured), any other
// name attaches the raw value under that key, and a nil FieldName (handled
// by the isCaptured guard in rec) discards the value entirely.
func applyCapture(rec record.Record, e *Edge, value interface{}) {
	if e.isMerge() {
		if m, ok := record.AsStructured(value); ok {
			rec.Merge(m)
			return
		}
		rec.Set(mergeFieldName, value)
		return
	}
	rec.Set(e.FieldName, value)
}
