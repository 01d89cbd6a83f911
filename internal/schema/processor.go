package schema

import (
	"errors"
	"fmt"

	"github.com/slfx77/esm360/internal/format"
)

// ErrUnknownSubrecord is returned by Process in strict mode when no schema,
// override, or fallback describes the subrecord (spec §4.3 "a strict
// diagnostic mode may fail-fast").
var ErrUnknownSubrecord = errors.New("schema: unknown subrecord")

// Process translates one subrecord's payload from the Xbox layout to the PC
// layout, per spec §4.3. sig is the subrecord signature, rec is the
// enclosing record's signature, and data is the subrecord's raw payload
// (already its full declared length; the caller owns XXXX-extended-size
// resolution, see internal/recordio).
//
// In non-strict mode, an unmatched subrecord is passed through unchanged
// and no error is returned (spec §7 SchemaMiss: "the subrecord is emitted
// unchanged"). In strict mode, ErrUnknownSubrecord is returned instead so a
// diagnostic build can fail fast; the returned bytes are still the
// unchanged payload for callers that choose to ignore the error.
func Process(reg *Registry, sig, rec [4]byte, data []byte, strict bool) ([]byte, error) {
	if reg.IsStringSubrecord(sig, rec) {
		return data, nil
	}

	if out, ok := applyOverride(sig, rec, data); ok {
		return out, nil
	}

	s, ok := reg.Lookup(sig, rec, len(data))
	if !ok {
		if out, ok := navmeshFallback(sig, data); ok {
			return out, nil
		}
		out, handled := unknownSubrecordFallback(data)
		if !handled && strict {
			return out, fmt.Errorf("%w: %s in %s (len=%d)", ErrUnknownSubrecord, sig, rec, len(data))
		}
		return out, nil
	}

	return applySchema(s, data), nil
}

// unknownSubrecordFallback implements spec §4.3's default policy for a
// subrecord with no schema, override, or navmesh fallback: 0-byte passes
// through, 2-byte swaps as u16, 4-byte swaps as u32, otherwise pass
// through unchanged. handled reports whether the shape was one of the
// three fully-determined cases (used only to decide whether strict mode's
// diagnostic is worth raising).
func unknownSubrecordFallback(data []byte) (out []byte, handled bool) {
	switch len(data) {
	case 0:
		return data, true
	case 2:
		out = append([]byte(nil), data...)
		format.Swap2(out, 0)
		return out, true
	case 4:
		out = append([]byte(nil), data...)
		format.Swap4(out, 0)
		return out, true
	default:
		return data, false
	}
}

// applySchema applies a resolved Schema to data, per spec §4.3.
//
// Field conversion errors (a field extending beyond the buffer) stop
// processing at that field rather than panicking: the buffer is
// semantically truncated there, matching "if a field extends beyond the
// buffer, stop processing at that field; the buffer is truncated
// semantically (do not crash)".
func applySchema(s Schema, data []byte) []byte {
	switch s.Sentinel {
	case SentinelString, SentinelByteArray:
		return data
	case SentinelFormIdArray:
		out := append([]byte(nil), data...)
		for off := 0; off+4 <= len(out); off += 4 {
			format.Swap4(out, off)
		}
		return out
	case SentinelFloatArray:
		out := append([]byte(nil), data...)
		for off := 0; off+4 <= len(out); off += 4 {
			format.Swap4(out, off)
		}
		return out
	}

	out := append([]byte(nil), data...)

	if s.IsRepeating() {
		elemSize := s.ElementSize()
		if elemSize <= 0 {
			return out
		}
		count := len(out) / elemSize
		for i := 0; i < count; i++ {
			applyFields(out, i*elemSize, s.Fields)
		}
		return out
	}

	applyFields(out, 0, s.Fields)
	return out
}

// applyFields walks one instance of fields starting at base, converting
// each field in place and stopping early if a field would extend beyond
// out.
func applyFields(out []byte, base int, fields []Field) {
	off := base
	for _, fld := range fields {
		width := fld.Type.Size()
		if width == 0 {
			width = fld.N
		}
		if off+width > len(out) {
			return
		}
		applyField(out, off, fld)
		off += width
	}
}

// applyField performs the single-field conversion described in spec §4.3
// "Field conversions".
func applyField(out []byte, off int, fld Field) {
	switch fld.Type {
	case UInt16, Int16:
		format.Swap2(out, off)
	case UInt32, Int32, Float, FieldFormId:
		format.Swap4(out, off)
	case FormIdLittleEndian, UInt16LittleEndian:
		// Already PC-ordered on Xbox; no-op.
	case UInt32WordSwapped:
		// Middle-endian u32: two big-endian 16-bit halves stored in
		// little-endian half-order. Swap the high word's two bytes and
		// the low word's two bytes to produce a proper little-endian u32.
		format.Swap2(out, off)
		format.Swap2(out, off+2)
	case UInt64, Int64, Double:
		format.Swap8(out, off)
	case Vec3:
		format.Swap4(out, off)
		format.Swap4(out, off+4)
		format.Swap4(out, off+8)
	case Quaternion:
		format.Swap4(out, off)
		format.Swap4(out, off+4)
		format.Swap4(out, off+8)
		format.Swap4(out, off+12)
	case PosRot:
		for i := 0; i < 6; i++ {
			format.Swap4(out, off+i*4)
		}
	case ColorArgb:
		// Rotate ARGB -> RGBA.
		a, r, g, b := out[off], out[off+1], out[off+2], out[off+3]
		out[off], out[off+1], out[off+2], out[off+3] = r, g, b, a
	case ColorRgba, UInt8, Int8, ByteArray, Padding:
		// No-op.
	case PlatformByte:
		out[off] = byte(fld.N)
	}
}
