package recordio

import (
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/infomerge"
)

// ScanInfoRecords locates every INFO record in the raw Xbox input and
// decodes its subrecords into PC byte order, regardless of where in the
// (possibly scattered) group hierarchy each one lives: pairing is by
// FormID alone (spec §4.5), so this is a flat linear scan for the INFO
// signature rather than a tree walk, the same technique internal/cvindex
// uses for its cell-count fallback scan.
func (w *Writer) ScanInfoRecords(input []byte) []infomerge.Record {
	var records []infomerge.Record
	n := int64(len(input))

	for offset := int64(0); offset+format.RecordHeaderSize <= n; {
		if sigAt(input, offset) != format.INFOSignature {
			offset++
			continue
		}
		h := format.ReadRecordHeaderBE(input, int(offset))
		recEnd := offset + int64(format.RecordHeaderSize) + int64(h.DataSize)
		if recEnd > n || recEnd <= offset {
			offset++
			continue
		}

		payload := input[offset+format.RecordHeaderSize : recEnd]
		subs := w.decodeInfoSubs(h, payload)
		records = append(records, infomerge.Record{FormID: int64(h.FormID), Offset: offset, Subs: subs})

		offset = recEnd
	}

	return records
}

func (w *Writer) decodeInfoSubs(h format.RecordHeader, payload []byte) []infomerge.Subrecord {
	if h.Flags&format.CompressedFlag == 0 {
		subs, _ := w.walkSubrecords(h.Sig, payload)
		return subs
	}
	if len(payload) < 4 {
		return nil
	}
	decompressed, ok := zlibDecompress(payload[4:])
	if !ok {
		return nil
	}
	subs, _ := w.walkSubrecords(h.Sig, decompressed)
	return subs
}

func sigAt(input []byte, offset int64) [4]byte {
	if offset < 0 || offset+4 > int64(len(input)) {
		return [4]byte{}
	}
	return format.ReverseSignature([4]byte{input[offset], input[offset+1], input[offset+2], input[offset+3]})
}
