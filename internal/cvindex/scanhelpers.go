package cvindex

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/slfx77/esm360/internal/format"
)

func sigAt(input []byte, offset int64) [4]byte {
	if offset < 0 || offset+4 > int64(len(input)) {
		return [4]byte{}
	}
	return format.ReverseSignature([4]byte{input[offset], input[offset+1], input[offset+2], input[offset+3]})
}

func isValidRecordSig(sig [4]byte) bool {
	return format.SignatureValid(sig)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// findCellGrid locates a CELL record's XCLC subrecord (decompressing first
// if needed) and reports its big-endian grid coordinates, sign-extended.
func findCellGrid(input []byte, h format.RecordHeader, recOffset int64) (gx, gy int32, exterior bool) {
	dataOff := recOffset + format.RecordHeaderSize
	dataEnd := dataOff + int64(h.DataSize)
	if dataOff < 0 || dataEnd > int64(len(input)) || dataEnd < dataOff {
		return 0, 0, false
	}
	payload := input[dataOff:dataEnd]

	if h.Flags&format.CompressedFlag != 0 {
		decompressed, ok := decompressPayloadBE(payload)
		if !ok {
			return 0, 0, false
		}
		payload = decompressed
	}

	return scanForXCLC(payload)
}

func decompressPayloadBE(payload []byte) ([]byte, bool) {
	if len(payload) < 4 {
		return nil, false
	}
	r, err := zlib.NewReader(bytes.NewReader(payload[4:]))
	if err != nil {
		return nil, false
	}
	defer func() { _ = r.Close() }()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, false
	}
	return out, true
}

// scanForXCLC walks a CELL's subrecord stream (still Xbox byte order) for
// XCLC, honoring the XXXX extended-size carry rule shared with the main
// subrecord walk (spec §4.6).
func scanForXCLC(data []byte) (gx, gy int32, exterior bool) {
	off := 0
	pendingExtended := uint32(0)

	for off+format.SubrecordHeaderSize <= len(data) {
		h := format.ReadSubrecordHeaderBE(data, off)
		off += format.SubrecordHeaderSize

		if h.Sig == format.XXXXSignature && h.DataSize == 4 {
			if off+4 > len(data) {
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

		if off+size > len(data) {
			break
		}
		if h.Sig == format.XCLCSignature && size >= 8 {
			gxRaw := format.ReadU32BE(data, off)
			gyRaw := format.ReadU32BE(data, off+4)
			return format.SignExtend32(gxRaw), format.SignExtend32(gyRaw), true
		}
		off += size
	}

	return 0, 0, false
}
