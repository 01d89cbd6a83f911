package format

import "encoding/binary"

// Swap2 reverses the two bytes at b[off:off+2] in place.
func Swap2(b []byte, off int) {
	b[off], b[off+1] = b[off+1], b[off]
}

// Swap4 reverses the four bytes at b[off:off+4] in place.
func Swap4(b []byte, off int) {
	b[off], b[off+3] = b[off+3], b[off]
	b[off+1], b[off+2] = b[off+2], b[off+1]
}

// Swap8 reverses the eight bytes at b[off:off+8] in place.
func Swap8(b []byte, off int) {
	b[off], b[off+7] = b[off+7], b[off]
	b[off+1], b[off+6] = b[off+6], b[off+1]
	b[off+2], b[off+5] = b[off+5], b[off+2]
	b[off+3], b[off+4] = b[off+4], b[off+3]
}

// ReadU16BE reads a big-endian uint16 at the given offset.
func ReadU16BE(b []byte, off int) uint16 {
	return binary.BigEndian.Uint16(b[off : off+2])
}

// ReadU32BE reads a big-endian uint32 at the given offset.
func ReadU32BE(b []byte, off int) uint32 {
	return binary.BigEndian.Uint32(b[off : off+4])
}

// ReadU64BE reads a big-endian uint64 at the given offset.
func ReadU64BE(b []byte, off int) uint64 {
	return binary.BigEndian.Uint64(b[off : off+8])
}

// ReadU16LE reads a little-endian uint16 at the given offset.
func ReadU16LE(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadU32LE reads a little-endian uint32 at the given offset.
func ReadU32LE(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// PutU32LE writes a little-endian uint32 at the given offset.
func PutU32LE(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutU16LE writes a little-endian uint16 at the given offset.
func PutU16LE(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// SignatureValid reports whether sig contains only printable upper-ASCII
// letters or digits, the validity rule spec §3 gives for both record and
// GRUP-label-as-signature bytes.
func SignatureValid(sig [4]byte) bool {
	for _, c := range sig {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// ReverseSignature returns sig with its four bytes reversed. Xbox stores
// record/top-level-GRUP-label signatures byte-reversed relative to PC; this
// converts between the two, and is its own inverse.
func ReverseSignature(sig [4]byte) [4]byte {
	return [4]byte{sig[3], sig[2], sig[1], sig[0]}
}

// ReinterpretLabelLE reinterprets a GRUP label read as raw big-endian bytes
// (the Xbox source convention) as a little-endian u32 and re-encodes it,
// the one-shot fixup needed whenever a source group body is being
// re-emitted into PC output. It does not apply to group-type-0 labels,
// which are literal ASCII record signatures in both orderings.
func ReinterpretLabelLE(label [4]byte) [4]byte {
	v := ReadU32BE(label[:], 0)
	var out [4]byte
	PutU32LE(out[:], 0, v)
	return out
}

// SignExtend32 reinterprets a raw big-endian uint32 grid coordinate as a
// signed int32 via two's-complement sign extension (spec §9).
func SignExtend32(v uint32) int32 {
	if v > 0x7FFF_FFFF {
		return int32(int64(v) - 0x1_0000_0000)
	}
	return int32(v)
}
