/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package pdag

import (
	"encoding/binary"

	"github.com/goccy/go-json"
	"github.com/minio/highwayhash"

	"github.com/gravwell/lognorm/registry"
)

// mergeFieldName is the reserved capture name that flattens a structured
// parse result into the parent record.
const mergeFieldName = "."

// digestKey is a fixed, process-wide key for the highwayhash edge-dedup
// digest. It only needs to distribute bits well across a single process's
// comparisons, not to resist an adversary, so a constant key is
// appropriate here (unlike, say, a MAC).
var digestKey = [32]byte{
	0x6c, 0x6f, 0x67, 0x6e, 0x6f, 0x72, 0x6d, 0x2d,
	0x65, 0x64, 0x67, 0x65, 0x2d, 0x64, 0x69, 0x67,
	0x65, 0x73, 0x74, 0x2d, 0x6b, 0x65, 0x79, 0x2d,
	0x76, 0x31, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Edge is one outgoing parser of a Node — the spec's "parser instance".
type Edge struct {
	Kind      registry.Kind
	FieldName string // "" = unnamed, "." = merge
	Opaque    interface{}
	Successor *Node

	// Serialized is the canonical rendering of the construction
	// configuration (type/name/priority stripped), used for edge dedup.
	// It is produced by marshaling the stripped config map with
	// goccy/go-json, whose encoder sorts map[string]interface{} keys
	// alphabetically — giving us the spec's "SHOULD normalize key
	// order" canonicalization for free rather than as a known bug.
	Serialized string
	digest     uint64 // highwayhash pre-check over Kind||Serialized

	// Priority packs the user-assigned priority (upper 24 bits) and the
	// kind's default priority (lower 8 bits); lower numeric value wins.
	Priority uint32

	// SubPdag is set only for Kind == registry.KindUserDefined: the
	// named sub-pdag this edge invokes.
	SubPdag *NamedType
}

// isMerge reports whether a successful match on this edge should flatten
// its structured value into the parent record instead of attaching it
// under a key.
func (e *Edge) isMerge() bool {
	return e.FieldName == mergeFieldName
}

// isCaptured reports whether this edge requests a value at all.
func (e *Edge) isCaptured() bool {
	return e.FieldName != ""
}

// computePriority packs a user priority (0..2^24-1) and a kind default
// priority (0..255) into the spec's composite 32-bit priority.
func computePriority(userPrio uint32, kindPrio uint8) uint32 {
	return (userPrio << 8) | uint32(kindPrio)
}

// canonicalize renders cfg (with type/name/priority already stripped) into
// a stable string used both for edge dedup and for the highwayhash digest
// pre-check.
func canonicalize(cfg map[string]interface{}) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// digestFor is a pure speed pre-filter for sameEdgeConfig: it lets two
// edges with differing configurations be rejected with a uint64 compare
// instead of a full string compare in the common case. It is never itself
// the source of truth for equality — removing it would change nothing
// about which edges dedup, only how fast the check runs.
func digestFor(kind registry.Kind, serialized string) uint64 {
	h, err := highwayhash.New64(digestKey[:])
	if err != nil {
		// highwayhash.New64 only fails on a malformed key; digestKey
		// is a fixed 32-byte literal above, so this can't happen at
		// runtime. Fall back to a trivial non-zero digest rather than
		// panic in a pure, side-effect-free helper.
		return 1
	}
	var kb [8]byte
	binary.LittleEndian.PutUint64(kb[:], uint64(kind))
	h.Write(kb[:])
	h.Write([]byte(serialized))
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// sameEdgeConfig reports whether two edges are equivalent for dedup
// purposes: same kind and same canonical configuration. The digest is
// checked first as a cheap pre-filter; the spec requires the string
// compare as the source of truth; a digest collision without a content
// match to be nearly vanishingly rare, but it is never trusted, only
// used to avoid a full tag string compare.
//
// For a user-defined edge, type/name/priority stripping leaves the
// canonicalized config empty whenever the "@type" reference carries no
// extra keys, so two edges naming distinct sub-pdags would otherwise
// serialize identically. The reference avoids this because its node->conf
// is strdup'd before the type name is stripped out (pdag.c:239), so the
// type name survives into the compared string; here the sub-pdag identity
// is compared directly instead.
func sameEdgeConfig(a, b *Edge) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == registry.KindUserDefined {
		if a.SubPdag != b.SubPdag {
			return false
		}
	} else if a.digest != b.digest {
		return false
	}
	return a.Serialized == b.Serialized
}
