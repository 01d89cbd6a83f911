// Package outbuf is the PC-side output byte stream: a single append-only
// buffer with the handful of patch-in-place operations the converter needs
// (a GRUP's size field, fixed up once its contents are known). It has no
// domain knowledge of records or groups beyond their fixed header shapes;
// internal/recordio and internal/group build the conversion semantics on
// top of it.
package outbuf

import "github.com/slfx77/esm360/internal/format"

// Writer is the PC output buffer. Per spec §5, output is append-only
// except for GRUP size fix-up and the post-pass OFST patch. GRUP sizes are
// patched through PatchU32LE against an offset already written; the OFST
// rebuild in internal/ofst patches the finished output slice directly.
type Writer struct {
	buf []byte
}

// New returns an empty Writer.
func New() *Writer {
	return &Writer{}
}

// Pos is the current write position, i.e. the offset the next Write call
// will land at.
func (w *Writer) Pos() int64 {
	return int64(len(w.buf))
}

// Bytes returns the buffer's contents. The returned slice aliases the
// writer's internal storage and is invalidated by further writes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Write appends p to the buffer.
func (w *Writer) Write(p []byte) {
	w.buf = append(w.buf, p...)
}

func (w *Writer) putU32LE(v uint32) {
	var tmp [4]byte
	format.PutU32LE(tmp[:], 0, v)
	w.Write(tmp[:])
}

func (w *Writer) putU16LE(v uint16) {
	var tmp [2]byte
	format.PutU16LE(tmp[:], 0, v)
	w.Write(tmp[:])
}

// PatchU32LE overwrites the 4 bytes at pos with v, little-endian. pos must
// reference a location already written.
func (w *Writer) PatchU32LE(pos int64, v uint32) {
	format.PutU32LE(w.buf, int(pos), v)
}

// WriteGroupHeader writes a 24-byte PC GRUP header (spec §3) with the
// total_size field left as a zero placeholder, and returns the header's
// position for a matching FinalizeGroup call once the group's contents
// have been written.
func (w *Writer) WriteGroupHeader(label [4]byte, groupType, stamp, unknown uint32) int64 {
	headerPos := w.Pos()
	w.Write(format.GRUPSignature[:])
	w.putU32LE(0)
	w.Write(label[:])
	w.putU32LE(groupType)
	w.putU32LE(stamp)
	w.putU32LE(unknown)
	return headerPos
}

// FinalizeGroup patches the size field of the GRUP header at headerPos
// with the number of bytes written since that header started, including
// the header itself (spec §4.7 "finalize_grup").
func (w *Writer) FinalizeGroup(headerPos int64) {
	size := uint32(w.Pos() - headerPos)
	w.PatchU32LE(headerPos+4, size)
}

// WriteRecordHeader writes a 24-byte PC record header (spec §3), always
// little-endian, and returns the header's position.
func (w *Writer) WriteRecordHeader(sig [4]byte, dataSize, flags, formID, timestamp uint32, vcsInfo, version uint16) int64 {
	pos := w.Pos()
	w.Write(sig[:])
	w.putU32LE(dataSize)
	w.putU32LE(flags)
	w.putU32LE(formID)
	w.putU32LE(timestamp)
	w.putU16LE(vcsInfo)
	w.putU16LE(version)
	return pos
}

// WriteSubrecord writes a 6-byte PC subrecord header plus data. The
// header's data_size field is the original little-endian serialization of
// len(data) (spec §4.6 "the original 16-bit data_size header... unchanged").
// Payloads over 65535 bytes (an oversized OFST table is the one case that
// arises in practice) get the XXXX extended-size prefix instead of
// silently truncating the 16-bit field.
func (w *Writer) WriteSubrecord(sig [4]byte, data []byte) {
	if len(data) > 0xFFFF {
		w.Write(format.XXXXSignature[:])
		w.putU16LE(4)
		w.putU32LE(uint32(len(data)))
		w.Write(sig[:])
		w.putU16LE(0)
		w.Write(data)
		return
	}
	w.Write(sig[:])
	w.putU16LE(uint16(len(data)))
	w.Write(data)
}
