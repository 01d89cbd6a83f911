package recordio

import (
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/infomerge"
	"github.com/slfx77/esm360/internal/ofst"
	"github.com/slfx77/esm360/internal/outbuf"
	"github.com/slfx77/esm360/internal/reccompress"
)

// WriteRecord implements spec §4.6 steps 1-8 for the record at src offset
// in the Xbox input, appending its PC form to out. It returns the offset
// just past the source record (for the caller's scan cursor) and whether
// anything was written — false only for a skipped TOFT marker or the
// consumed response half of an INFO pair.
func (w *Writer) WriteRecord(input []byte, offset int64, out *outbuf.Writer) (nextOffset int64, wrote bool) {
	h := format.ReadRecordHeaderBE(input, int(offset))
	recEnd := offset + int64(format.RecordHeaderSize) + int64(h.DataSize)
	if recEnd > int64(len(input)) {
		recEnd = int64(len(input))
	}

	w.Stats.CountRecordType(h.Sig)

	if h.Sig == format.TOFTSignature {
		w.Stats.TOFTSkipped++
		return recEnd, false
	}

	if h.Sig == format.TES4Signature {
		h.Flags &^= format.XboxOriginFlag
	}

	if h.Sig == format.INFOSignature && w.merger != nil {
		subs, result := w.merger.TryMerge(offset)
		switch result {
		case infomerge.Skip:
			return recEnd, false
		case infomerge.Merged:
			w.Stats.InfoMerged++
			w.Stats.RecordsConverted++
			w.emitInfoRecord(h, subs, out)
			return recEnd, true
		default:
			subs = infomerge.ReorderInfoSubrecords(w.infoSubsAt[offset])
			w.Stats.InfoReordered++
			w.Stats.RecordsConverted++
			w.emitInfoRecord(h, subs, out)
			return recEnd, true
		}
	}

	payload := input[offset+format.RecordHeaderSize : recEnd]

	if h.Flags&format.CompressedFlag != 0 {
		w.Stats.CompressedRecords++
		body, err := reccompress.Convert(h.Sig, payload, w.subrecordWalk, w.Stats)
		if err != nil {
			body = nil
		}
		w.Stats.RecordsConverted++
		out.WriteRecordHeader(h.Sig, uint32(len(body)), h.Flags, h.FormID, h.Timestamp, h.VCSInfo, h.Version)
		out.Write(body)
		return recEnd, true
	}

	subs, _ := w.walkSubrecords(h.Sig, payload)
	if h.Sig == format.WRLDSignature {
		subs = appendOFSTPlaceholder(subs)
	}
	body := serializeSubrecords(subs)
	w.Stats.RecordsConverted++
	out.WriteRecordHeader(h.Sig, uint32(len(body)), h.Flags, h.FormID, h.Timestamp, h.VCSInfo, h.Version)
	out.Write(body)
	return recEnd, true
}

// appendOFSTPlaceholder gives a freshly written WRLD record a correctly
// sized, zero-filled OFST subrecord sized from its own (already converted)
// NAM0/NAM9 bounds, in place of the stale Xbox OFST walkSubrecords just
// stripped. internal/ofst's later pass finds it already sized and
// overwrites its contents in place (spec §4.10 step 6).
func appendOFSTPlaceholder(subs []infomerge.Subrecord) []infomerge.Subrecord {
	var nam0, nam9 []byte
	for _, s := range subs {
		switch s.Sig {
		case format.NAM0Signature:
			nam0 = s.Data
		case format.NAM9Signature:
			nam9 = s.Data
		}
	}
	if nam0 == nil || nam9 == nil {
		return subs
	}
	minX, minY, maxX, maxY, ok := ofst.ComputeGridBounds(nam0, nam9)
	if !ok {
		return subs
	}
	columns := int(maxX-minX) + 1
	rows := int(maxY-minY) + 1
	if columns <= 0 || rows <= 0 {
		return subs
	}
	placeholder := make([]byte, columns*rows*4)
	return append(subs, infomerge.Subrecord{Sig: format.OFSTSignature, Data: placeholder})
}

// emitInfoRecord writes an INFO record whose subrecord stream was produced
// by the merger or the second-form reorder rather than by walkSubrecords
// directly, recompressing it if the source record was compressed (spec
// §4.6 step 5 "recompressed if source was compressed").
func (w *Writer) emitInfoRecord(h format.RecordHeader, subs []infomerge.Subrecord, out *outbuf.Writer) {
	body := serializeSubrecords(subs)
	if h.Flags&format.CompressedFlag != 0 {
		body = compressZlibLE(body)
	}
	out.WriteRecordHeader(h.Sig, uint32(len(body)), h.Flags, h.FormID, h.Timestamp, h.VCSInfo, h.Version)
	out.Write(body)
}
