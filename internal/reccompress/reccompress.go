// Package reccompress implements spec §4.4 RecordCompression: decompressing
// a compressed record's payload, running the converted subrecord walk over
// the plaintext, and recompressing it with the PC little-endian
// uncompressed-size prefix.
package reccompress

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/slfx77/esm360/internal/convstats"
	"github.com/slfx77/esm360/internal/format"
)

// SubrecordWalker converts the subrecord stream of a decompressed record
// body. It is supplied by internal/recordio so that reccompress needs no
// dependency on the record-writing package (avoiding an import cycle); both
// the compressed and uncompressed paths share the exact same walk (spec
// §4.6 "Subrecord walk rules... shared between compressed and uncompressed
// paths").
type SubrecordWalker func(parentRec [4]byte, data []byte) ([]byte, error)

// Convert implements spec §4.4 steps 1-6. recSig is the enclosing record's
// signature (used to decide whether to strip WRLD's OFST subrecord) and
// payload is the record's raw data (uncompressed_size_be + zlib stream).
//
// On decompression failure, Convert returns the degraded passthrough
// payload described in spec §4.4 step 2 and §7 DecompressionFailure: the
// original zlib bytes are kept, only the size prefix is re-encoded
// little-endian. stats.DecompressionFailures is incremented in that case.
func Convert(recSig [4]byte, payload []byte, walk SubrecordWalker, stats *convstats.Stats) ([]byte, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("reccompress: payload too short for size prefix (%d bytes)", len(payload))
	}
	uncompressedSize := format.ReadU32BE(payload, 0)
	zlibBytes := payload[4:]

	r, err := zlib.NewReader(bytes.NewReader(zlibBytes))
	if err != nil {
		return passthrough(uncompressedSize, zlibBytes, stats), nil
	}
	decompressed, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return passthrough(uncompressedSize, zlibBytes, stats), nil
	}

	converted, err := walk(recSig, decompressed)
	if err != nil {
		return nil, fmt.Errorf("reccompress: converting subrecords: %w", err)
	}

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(converted); err != nil {
		return nil, fmt.Errorf("reccompress: recompressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("reccompress: closing zlib writer: %w", err)
	}

	out := make([]byte, 4+buf.Len())
	format.PutU32LE(out, 0, uint32(len(converted)))
	copy(out[4:], buf.Bytes())
	return out, nil
}

// passthrough re-encodes the size prefix little-endian but otherwise keeps
// the original (still big-endian-sourced) zlib stream untouched, per spec
// §4.4 step 2 / §7 DecompressionFailure: "the record's payload is
// re-emitted as pass-through with a little-endian uncompressed-size
// prefix. The record itself is kept rather than dropped."
func passthrough(uncompressedSize uint32, zlibBytes []byte, stats *convstats.Stats) []byte {
	stats.DecompressionFailures++
	out := make([]byte, 4+len(zlibBytes))
	format.PutU32LE(out, 0, uncompressedSize)
	copy(out[4:], zlibBytes)
	return out
}
