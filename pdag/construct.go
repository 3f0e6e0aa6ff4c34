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

	"github.com/gravwell/lognorm/registry"
)

const (
	keyType     = "type"
	keyName     = "name"
	keyPriority = "priority"
	keyParser   = "parser"

	typeAlternative = "alternative"
	unnamedMarker   = "-"

	defaultUserPriority uint32 = 30000
)

func lookupEntry(kind registry.Kind) (registry.Entry, bool) {
	return registry.Lookup(kind)
}

// AddParser extends the pdag rooted at *cursor with cfgObj, which must be a
// sequential array ([]interface{}), an alternative object
// (map[string]interface{}{"type": "alternative", "parser": [...]}), or a
// single leaf parser object. *cursor is advanced to the node reached after
// the whole of cfgObj has been consumed.
func (ctx *Context) AddParser(cursor **Node, cfgObj interface{}) error {
	if cursor == nil || *cursor == nil {
		return newErr(ErrConfig, "add-parser", fmt.Errorf("nil cursor"))
	}
	next, err := ctx.build(*cursor, cfgObj)
	if err != nil {
		return err
	}
	*cursor = next
	return nil
}

// build dispatches on the shape of val, implementing the three composite
// forms from spec.md §4.C.
func (ctx *Context) build(current *Node, val interface{}) (*Node, error) {
	switch v := val.(type) {
	case []interface{}:
		return ctx.buildSequence(current, v)
	case map[string]interface{}:
		if isAlternative(v) {
			return ctx.buildAlternative(current, v)
		}
		var next *Node
		if err := ctx.addEdge(current, v, &next); err != nil {
			return nil, err
		}
		return next, nil
	default:
		return nil, newErr(ErrBadShape, "add-parser", fmt.Errorf("unsupported configuration shape %T", val))
	}
}

func isAlternative(v map[string]interface{}) bool {
	t, ok := v[keyType].(string)
	return ok && t == typeAlternative
}

// buildSequence walks an ordered array; each element's successor becomes
// the current node for the next element. A nested array recurses
// sequentially, per spec.md §4.C.
func (ctx *Context) buildSequence(current *Node, items []interface{}) (*Node, error) {
	for i, item := range items {
		next, err := ctx.build(current, item)
		if err != nil {
			return nil, fmt.Errorf("sequence element %d: %w", i, err)
		}
		current = next
	}
	return current, nil
}

// buildAlternative appends every element of cfg["parser"] as a sibling
// edge of current; all alternatives share one common successor (the join
// node).
func (ctx *Context) buildAlternative(current *Node, cfg map[string]interface{}) (*Node, error) {
	rawList, ok := cfg[keyParser]
	if !ok {
		return nil, newErr(ErrConfig, "alternative", fmt.Errorf("missing %q", keyParser))
	}
	list, ok := rawList.([]interface{})
	if !ok {
		return nil, newErr(ErrConfig, "alternative", fmt.Errorf("%q must be an array", keyParser))
	}
	var next *Node
	for i, raw := range list {
		leaf, ok := raw.(map[string]interface{})
		if !ok {
			return nil, newErr(ErrBadShape, "alternative", fmt.Errorf("alternative element %d must be a parser object", i))
		}
		if err := ctx.addEdge(current, leaf, &next); err != nil {
			return nil, fmt.Errorf("alternative element %d: %w", i, err)
		}
	}
	if next == nil {
		return nil, newErr(ErrConfig, "alternative", fmt.Errorf("empty alternative"))
	}
	return next, nil
}

// addEdge is the construction primitive from spec.md §4.C
// (add_parser_instance): it builds one edge from cfg, merges it into an
// equivalent existing sibling if one exists, and otherwise appends it,
// allocating or sharing *successor as appropriate.
func (ctx *Context) addEdge(current *Node, cfg map[string]interface{}, successor **Node) error {
	edge, err := ctx.buildEdge(cfg)
	if err != nil {
		return err
	}

	for _, existing := range current.Edges {
		if sameEdgeConfig(existing, edge) {
			destructEdge(edge)
			*successor = existing.Successor
			return nil
		}
	}

	if *successor == nil {
		*successor = newNode()
		ctx.nodeCount++
	} else {
		(*successor).retain()
	}
	edge.Successor = *successor

	if err := ctx.checkZeroLengthLoop(current, edge); err != nil {
		// Undo the successor bookkeeping we just did before bailing.
		if (*successor).release() == 0 {
			ctx.deleteGraph(*successor)
		}
		destructEdge(edge)
		return err
	}

	current.addEdgeRaw(edge)
	return nil
}

// buildEdge implements spec.md §4.B's parser-instance construction
// algorithm.
func (ctx *Context) buildEdge(cfg map[string]interface{}) (*Edge, error) {
	rawType, ok := cfg[keyType]
	if !ok {
		return nil, newErr(ErrConfig, "parser-instance", fmt.Errorf("missing %q", keyType))
	}
	typeName, ok := rawType.(string)
	if !ok {
		return nil, newErr(ErrConfig, "parser-instance", fmt.Errorf("%q must be a string", keyType))
	}

	fieldName := stripFieldName(cfg)
	userPrio := stripPriority(cfg)

	delete(cfg, keyType)
	delete(cfg, keyName)
	delete(cfg, keyPriority)

	edge := &Edge{FieldName: fieldName}

	if isUserDefinedTypeName(typeName) {
		nt, ok := ctx.FindOrAddType(typeName, true)
		if !ok {
			return nil, newErr(ErrUnknownType, typeName, nil)
		}
		edge.Kind = registry.KindUserDefined
		edge.SubPdag = nt
		edge.Priority = computePriority(userPrio, registry.UserDefinedPriority)
	} else {
		kind, ok := registry.ByName(typeName)
		if !ok {
			return nil, newErr(ErrUnknownKind, typeName, nil)
		}
		entry, ok := lookupEntry(kind)
		if !ok {
			return nil, newErr(ErrUnknownKind, typeName, nil)
		}
		edge.Kind = kind
		edge.Priority = computePriority(userPrio, entry.DefaultPriority)
	}

	serialized, err := canonicalize(cfg)
	if err != nil {
		return nil, newErr(ErrResource, "canonicalize", err)
	}
	edge.Serialized = serialized
	edge.digest = digestFor(edge.Kind, serialized)

	if edge.Kind != registry.KindUserDefined {
		entry, _ := lookupEntry(edge.Kind)
		if entry.Construct != nil {
			opaque, err := entry.Construct(cfg)
			if err != nil {
				return nil, newErr(ErrConfig, typeName, err)
			}
			edge.Opaque = opaque
		}
	}

	return edge, nil
}

func stripFieldName(cfg map[string]interface{}) string {
	raw, ok := cfg[keyName]
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok || s == unnamedMarker {
		return ""
	}
	return s
}

func stripPriority(cfg map[string]interface{}) uint32 {
	raw, ok := cfg[keyPriority]
	if !ok {
		return defaultUserPriority
	}
	switch v := raw.(type) {
	case float64:
		return uint32(v)
	case int:
		return uint32(v)
	case int64:
		return uint32(v)
	default:
		return defaultUserPriority
	}
}

func destructEdge(e *Edge) {
	if e == nil || e.Opaque == nil || e.Kind == registry.KindUserDefined {
		return
	}
	if entry, ok := lookupEntry(e.Kind); ok && entry.Destruct != nil {
		entry.Destruct(e.Opaque)
	}
}

// checkZeroLengthLoop rejects an edge that could succeed on zero bytes and
// loop: either straight back to the node it was just added to, or into any
// named sub-pdag's root (the simplest, most common self-loop shapes). This is the SHOULD-reject behavior from
// spec.md §9 that the reference implementation trusts rule authors to
// avoid instead.
func (ctx *Context) checkZeroLengthLoop(current *Node, edge *Edge) error {
	if edge.Kind == registry.KindUserDefined {
		return nil
	}
	entry, ok := lookupEntry(edge.Kind)
	if !ok || entry.MayMatchEmpty == nil || !entry.MayMatchEmpty(edge.Opaque) {
		return nil
	}
	if edge.Successor == current {
		return newErr(ErrZeroLengthLoop, entry.Name, fmt.Errorf("zero-length-capable edge loops to its own node"))
	}
	for _, t := range ctx.Types {
		if edge.Successor == t.Root {
			return newErr(ErrZeroLengthLoop, entry.Name, fmt.Errorf("zero-length-capable edge loops to sub-pdag %q root", t.Name))
		}
	}
	return nil
}
