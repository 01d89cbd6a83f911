package esm

import (
	"math"

	"github.com/slfx77/esm360/internal/format"
)

// detectBigEndian implements spec §6's detection rule: big-endian if the
// TES4 header's inner HEDR version field, interpreted big-endian, yields a
// sensible value. "Sensible" is read as a small positive float (every
// TES4-family HEDR version on record is well under 100), which also gives
// testable property 3 (endian idempotence) for free: an already-PC file's
// HEDR bytes read big-endian decode to a wildly out-of-range float.
func detectBigEndian(input []byte) bool {
	minLen := format.RecordHeaderSize + format.SubrecordHeaderSize + 4
	if len(input) < minLen {
		return false
	}
	h := format.ReadRecordHeaderBE(input, 0)
	if h.Sig != format.TES4Signature {
		return false
	}
	sh := format.ReadSubrecordHeaderBE(input, format.RecordHeaderSize)
	if sh.Sig != format.HEDRSignature || sh.DataSize < 4 {
		return false
	}
	bits := format.ReadU32BE(input, format.RecordHeaderSize+format.SubrecordHeaderSize)
	version := math.Float32frombits(bits)
	return version > 0 && version < 100
}
