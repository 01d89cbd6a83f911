package recordio

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/slfx77/esm360/internal/format"
)

// compressZlibLE zlib-compresses data and prefixes it with data's
// uncompressed length as a little-endian u32, the PC wire format (spec
// §4.4), for the paths that build a record body directly rather than via
// internal/reccompress.Convert (INFO merge results, which have no single
// source payload to hand that package).
func compressZlibLE(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()

	out := make([]byte, 4+buf.Len())
	format.PutU32LE(out, 0, uint32(len(data)))
	copy(out[4:], buf.Bytes())
	return out
}

// zlibDecompress inflates a raw zlib stream (no size prefix).
func zlibDecompress(zlibBytes []byte) ([]byte, bool) {
	r, err := zlib.NewReader(bytes.NewReader(zlibBytes))
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
