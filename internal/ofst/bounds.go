// Package ofst implements spec §4.10 OfstRebuilder: recomputing each
// worldspace's OFST subrecord (the per-cell offset table addressed by grid
// position) against the freshly written PC output, since the Xbox source's
// OFST is stale by construction (console streaming reorders everything
// OFST points at).
package ofst

import (
	"encoding/binary"
	"math"
)

// ComputeGridBounds implements spec §4.10 step 2's NAM0/NAM9 -> grid bounds
// conversion: round(value/4096), after replacing any float whose magnitude
// is >= 1e20 or which is NaN with 0. nam0 and nam9 are each a subrecord's
// already PC-ordered (little-endian) payload; only the first two floats
// (x, y) of each are used.
func ComputeGridBounds(nam0, nam9 []byte) (minX, minY, maxX, maxY int32, ok bool) {
	if len(nam0) < 8 || len(nam9) < 8 {
		return 0, 0, 0, 0, false
	}
	x0 := sanitizeFloat(readFloatLE(nam0, 0))
	y0 := sanitizeFloat(readFloatLE(nam0, 4))
	x1 := sanitizeFloat(readFloatLE(nam9, 0))
	y1 := sanitizeFloat(readFloatLE(nam9, 4))

	return roundDiv4096(x0), roundDiv4096(y0), roundDiv4096(x1), roundDiv4096(y1), true
}

func readFloatLE(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

func sanitizeFloat(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.Abs(f) >= 1e20 {
		return 0
	}
	return v
}

func roundDiv4096(v float32) int32 {
	return int32(math.Round(float64(v) / 4096))
}

// ResolveGridShape implements spec §4.10 step 3: reconcile the bounds'
// column/row count against the OFST entry count n, preferring the exact
// match and falling back to whichever axis divides n evenly. ok is false
// when neither reconciliation works and the worldspace's OFST must be left
// untouched.
func ResolveGridShape(minX, minY, maxX, maxY int32, n int) (columns, rows int, ok bool) {
	columns = int(maxX-minX) + 1
	rows = int(maxY-minY) + 1
	if columns <= 0 || rows <= 0 {
		return 0, 0, false
	}
	if n == columns*rows {
		return columns, rows, true
	}
	if n%columns == 0 {
		return columns, n / columns, true
	}
	if n%rows == 0 {
		return n / rows, rows, true
	}
	return 0, 0, false
}
