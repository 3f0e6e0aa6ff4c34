/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package annotate declares the narrow interface through which the
// normalizer reaches the external annotation step named in spec.md §4.G:
// "invoke the external annotator". Annotation logic (tag enrichment, field
// renaming, lookups against external data) is explicitly out of scope for
// the core; this package only defines the seam and a no-op default.
package annotate

import "github.com/gravwell/lognorm/record"

// Annotator is invoked once per successful normalization, after terminal
// tags (if any) have been attached under record.TagsKey. tags is passed
// alongside rec (rather than requiring it be recovered from
// rec[record.TagsKey]) to mirror the reference's ln_annotate(ctx, json,
// tags) at pdag.c:1094, which receives the matched terminal's tag bucket
// directly.
type Annotator interface {
	Annotate(rec record.Record, tags interface{}) error
}

// Nop is the zero-configuration Annotator: it does nothing and never
// fails. Contexts default to it when no Annotator is supplied.
type Nop struct{}

// Annotate implements Annotator.
func (Nop) Annotate(record.Record, interface{}) error { return nil }

// Func adapts a plain function to the Annotator interface.
type Func func(record.Record, interface{}) error

// Annotate implements Annotator.
func (f Func) Annotate(rec record.Record, tags interface{}) error { return f(rec, tags) }
