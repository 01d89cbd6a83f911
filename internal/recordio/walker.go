package recordio

import (
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/infomerge"
	"github.com/slfx77/esm360/internal/outbuf"
	"github.com/slfx77/esm360/internal/schema"
)

// walkSubrecords implements the subrecord walk rules shared by both the
// compressed and uncompressed paths (spec §4.6): XXXX extended-size
// carry-forward, the WRLD/OFST strip, and per-subrecord schema conversion.
// parentRec is the enclosing record's (already PC-ordered) signature.
func (w *Writer) walkSubrecords(parentRec [4]byte, data []byte) ([]infomerge.Subrecord, error) {
	var out []infomerge.Subrecord
	var firstErr error

	off := 0
	pendingExtended := uint32(0)
	n := len(data)

	for off+format.SubrecordHeaderSize <= n {
		h := format.ReadSubrecordHeaderBE(data, off)
		off += format.SubrecordHeaderSize

		if h.Sig == format.XXXXSignature && h.DataSize == 4 {
			if off+4 > n {
				break
			}
			pendingExtended = format.ReadU32BE(data, off)
			off += 4
			continue
		}

		size := int(h.DataSize)
		if size == 0 && pendingExtended > 0 {
			size = int(pendingExtended)
		}
		pendingExtended = 0

		if off+size > n {
			size = n - off
		}
		payload := data[off : off+size]
		off += size

		if parentRec == format.WRLDSignature && h.Sig == format.OFSTSignature {
			w.Stats.OFSTBytesStripped += format.SubrecordHeaderSize + size
			continue
		}

		converted, err := schema.Process(w.Registry, h.Sig, parentRec, payload, true)
		if err != nil {
			w.Stats.UnknownSubrecords++
			if firstErr == nil {
				firstErr = err
			}
		}
		out = append(out, infomerge.Subrecord{Sig: h.Sig, Data: converted})
	}

	if w.Strict && firstErr != nil {
		return out, firstErr
	}
	return out, nil
}

// subrecordWalk adapts walkSubrecords to reccompress.SubrecordWalker's
// shape: the compressed path needs the fully re-serialized byte stream,
// not the decomposed subrecord list.
func (w *Writer) subrecordWalk(parentRec [4]byte, data []byte) ([]byte, error) {
	subs, err := w.walkSubrecords(parentRec, data)
	if err != nil && w.Strict {
		return serializeSubrecords(subs), err
	}
	return serializeSubrecords(subs), nil
}

func serializeSubrecords(subs []infomerge.Subrecord) []byte {
	buf := outbuf.New()
	for _, s := range subs {
		buf.WriteSubrecord(s.Sig, s.Data)
	}
	return buf.Bytes()
}
