package schema

import (
	"strings"
	"sync"
)

// Registry is the immutable, process-wide catalog mapping
// (subrecord_sig, parent_record_sig, data_length) to a Schema. It is built
// once and never mutated afterward (spec §4.2 "Registry invariants").
type Registry struct {
	exact3 map[key]Schema // (sig, rec, len)
	exact2 map[key]Schema // (sig, rec)
	bySize map[key]Schema // (sig, len)
	bySig  map[[4]byte]Schema

	// stringSet holds (sig, rec) and (sig, "") pairs identifying
	// null-terminated/raw-ASCII subrecords that pass through unchanged.
	stringSet map[key]struct{}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide Registry, building it on first use.
// Building is race-free: sync.Once guarantees a single construction even
// if multiple conversions are started concurrently by a host (spec §5).
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = newRegistry()
	})
	return defaultReg
}

func mk(sig, rec string, length int) key {
	var k key
	copy(k.sig[:], sig)
	if rec != "" {
		copy(k.rec[:], rec)
	}
	k.length = length
	return k
}

// newRegistry constructs the static table described in tables_*.go.
func newRegistry() *Registry {
	r := &Registry{
		exact3:    make(map[key]Schema),
		exact2:    make(map[key]Schema),
		bySize:    make(map[key]Schema),
		bySig:     make(map[[4]byte]Schema),
		stringSet: make(map[key]struct{}),
	}
	for _, e := range schemaTableExact3 {
		r.exact3[mk(e.sig, e.rec, e.length)] = e.schema
	}
	for _, e := range schemaTableExact2 {
		r.exact2[mk(e.sig, e.rec, 0)] = e.schema
	}
	for _, e := range schemaTableBySize {
		r.bySize[mk(e.sig, "", e.length)] = e.schema
	}
	for _, e := range schemaTableBySig {
		var sig [4]byte
		copy(sig[:], e.sig)
		r.bySig[sig] = e.schema
	}
	for _, s := range stringSubrecords {
		r.stringSet[mk(s.sig, s.rec, 0)] = struct{}{}
	}
	return r
}

// IsStringSubrecord reports whether (sig, rec) identifies a null-terminated
// or raw-ASCII subrecord that must pass through unchanged (spec §4.2
// "String-subrecord set"). Record-type-specific entries override
// record-agnostic ones implicitly: both are present in the set and either
// match is sufficient, since a string subrecord is a string regardless of
// context once either key form is known to name it.
func (r *Registry) IsStringSubrecord(sig, rec [4]byte) bool {
	if _, ok := r.stringSet[mk(string(sig[:]), string(rec[:]), 0)]; ok {
		return true
	}
	_, ok := r.stringSet[mk(string(sig[:]), "", 0)]
	return ok
}

// Lookup resolves a schema for (sig, rec, length) following the priority
// order in spec §4.2. It returns (Schema{}, false) when nothing matches,
// at which point the caller falls back per §4.3.
func (r *Registry) Lookup(sig, rec [4]byte, length int) (Schema, bool) {
	// 1. IMAD is a closed-set dedicated handler: nearly every subrecord of
	// an IMAD record is a float array, EDID is a string, and *IAD key
	// subrecords are float pairs.
	if rec == imadSig {
		if s, ok := imadSchema(sig, length); ok {
			return s, true
		}
	}

	sigStr, recStr := string(sig[:]), string(rec[:])

	// 2. Exact (sig, rec, len).
	if s, ok := r.exact3[mk(sigStr, recStr, length)]; ok {
		return s, true
	}
	// 3. (sig, rec).
	if s, ok := r.exact2[mk(sigStr, recStr, 0)]; ok {
		return s, true
	}
	// 4. (sig, len), including record-agnostic (sig, "", len) exact rows.
	if s, ok := r.bySize[mk(sigStr, "", length)]; ok {
		return s, true
	}
	if s, ok := r.exact3[mk(sigStr, "", length)]; ok {
		return s, true
	}
	// 5. (sig), including record-agnostic (sig, "") rows.
	if s, ok := r.bySig[sig]; ok {
		return s, true
	}
	if s, ok := r.exact2[mk(sigStr, "", 0)]; ok {
		return s, true
	}
	// 6. DATA fallback.
	if sigStr == "DATA" {
		switch {
		case length <= 2:
			return Schema{Sentinel: SentinelByteArray}, true
		case length <= 64 && length%4 == 0:
			return Schema{Sentinel: SentinelFloatArray}, true
		default:
			return Schema{Sentinel: SentinelByteArray}, true
		}
	}
	// 7. WTHR *IAD keyed float pairs: any subrecord in a WTHR record whose
	// signature ends in "IAD" is a sequence of (keytime:u32, value:float)
	// pairs.
	if rec == wthrSig && strings.HasSuffix(sigStr, "IAD") {
		return Schema{
			Fields: []Field{
				{Name: "keytime", Type: UInt32},
				{Name: "value", Type: Float},
			},
			ExpectedSize: -1,
		}, true
	}
	// 8. No schema.
	return Schema{}, false
}

var (
	imadSig = [4]byte{'I', 'M', 'A', 'D'}
	wthrSig = [4]byte{'W', 'T', 'H', 'R'}
)
