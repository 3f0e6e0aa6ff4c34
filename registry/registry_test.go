/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package registry

import "testing"

func TestRegisterAndLookup(t *testing.T) {
	const k = KindLiteral
	if _, ok := Lookup(k); ok {
		t.Skip("literal already registered by an imported kinds package")
	}
	Register(Entry{
		Kind:            k,
		Name:            "literal",
		DefaultPriority: 4,
		Run: func(data []byte, offset int, opaque interface{}) (int, interface{}, bool) {
			return offset, nil, true
		},
	})
	e, ok := Lookup(k)
	if !ok {
		t.Fatal("expected literal kind to be registered")
	}
	if e.Name != "literal" {
		t.Fatalf("got name %q, want literal", e.Name)
	}
	if got, ok := ByName("literal"); !ok || got != k {
		t.Fatalf("ByName(literal) = %v, %v", got, ok)
	}
}

func TestRegisterOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range kind")
		}
	}()
	Register(Entry{Kind: Kind(numKinds + 5), Name: "bogus", Run: func([]byte, int, interface{}) (int, interface{}, bool) { return 0, nil, false }})
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup(Kind(numKinds + 100)); ok {
		t.Fatal("expected lookup of out-of-range kind to fail")
	}
	if _, ok := ByName("not-a-real-parser-kind"); ok {
		t.Fatal("expected ByName of unknown name to fail")
	}
}
