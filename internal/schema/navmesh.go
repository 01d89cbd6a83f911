package schema

import "github.com/slfx77/esm360/internal/format"

// navmeshFallback implements the "well-known navmesh info/connection/grid
// subrecords" fallback named in spec §4.3: when no schema entry matches,
// NVMI/NVCI/NVGD get a dedicated, variable-length, flag-gated parse instead
// of being treated as opaque.
func navmeshFallback(sig [4]byte, data []byte) ([]byte, bool) {
	switch string(sig[:]) {
	case "NVMI":
		return convertNVMI(data), true
	case "NVCI":
		return convertNVCI(data), true
	case "NVGD":
		return convertNVGD(data), true
	default:
		return nil, false
	}
}

// convertNVMI converts a navmesh info block: a fixed 4-byte FormID/u32
// header, a u32 flag word gating an optional variable section, followed by
// that section when present.
func convertNVMI(data []byte) []byte {
	out := append([]byte(nil), data...)
	if len(out) < 8 {
		return out
	}
	format.Swap4(out, 0) // navmesh FormID
	format.Swap4(out, 4) // flags
	flags := format.ReadU32LE(out, 4)
	off := 8
	if flags&0x1 != 0 && off+4 <= len(out) {
		format.Swap4(out, off) // variable section length/extra field
		off += 4
	}
	for off+4 <= len(out) {
		format.Swap4(out, off)
		off += 4
	}
	return out
}

// convertNVCI converts a navmesh connection record: a sequence of
// (FormID, u16, u16) connection triples.
func convertNVCI(data []byte) []byte {
	const entrySize = 8
	out := append([]byte(nil), data...)
	for base := 0; base+entrySize <= len(out); base += entrySize {
		format.Swap4(out, base)
		format.Swap2(out, base+4)
		format.Swap2(out, base+6)
	}
	return out
}

// convertNVGD converts a navmesh grid-data block: a flat array of u32
// triangle-index entries.
func convertNVGD(data []byte) []byte {
	out := append([]byte(nil), data...)
	for off := 0; off+4 <= len(out); off += 4 {
		format.Swap4(out, off)
	}
	return out
}
