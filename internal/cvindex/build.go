package cvindex

import "github.com/slfx77/esm360/internal/format"

// Build runs the full three-phase scan (spec §4.8) over the Xbox-side
// input and returns the resulting ConversionIndex. input is read-only for
// the whole call.
func Build(input []byte) *Index {
	idx := newIndex()

	tes4End := tes4RecordEnd(input)
	phase1End, firstTOFT := scanNested(input, tes4End, idx)
	scanFlat(input, maxInt64(phase1End, firstTOFT), idx)
	scanComprehensive(input, idx)
	applyFallbacks(input, idx)

	return idx
}

func tes4RecordEnd(input []byte) int64 {
	if len(input) < format.RecordHeaderSize {
		return int64(len(input))
	}
	h := format.ReadRecordHeaderBE(input, 0)
	end := int64(format.RecordHeaderSize) + int64(h.DataSize)
	if end > int64(len(input)) {
		return int64(len(input))
	}
	return end
}
