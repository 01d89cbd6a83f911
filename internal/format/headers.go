package format

// RecordHeader is a decoded 24-byte main-record header (spec §3 "Main
// record"), common to both the Xbox and PC layouts.
type RecordHeader struct {
	Sig       [4]byte
	DataSize  uint32
	Flags     uint32
	FormID    uint32
	Timestamp uint32
	VCSInfo   uint16
	Version   uint16
}

// ReadRecordHeaderBE decodes a big-endian (Xbox-side) record header at off.
// The signature is stored byte-reversed on Xbox (spec §3/§4.1) and is
// un-reversed here, so Sig is always the canonical PC-ordered tag
// regardless of which Read*HeaderBE function decoded it.
func ReadRecordHeaderBE(b []byte, off int) RecordHeader {
	return RecordHeader{
		Sig:       ReverseSignature([4]byte{b[off], b[off+1], b[off+2], b[off+3]}),
		DataSize:  ReadU32BE(b, off+4),
		Flags:     ReadU32BE(b, off+8),
		FormID:    ReadU32BE(b, off+12),
		Timestamp: ReadU32BE(b, off+16),
		VCSInfo:   ReadU16BE(b, off+20),
		Version:   ReadU16BE(b, off+22),
	}
}

// ReadRecordHeaderLE decodes a little-endian (PC-side) record header at off.
func ReadRecordHeaderLE(b []byte, off int) RecordHeader {
	return RecordHeader{
		Sig:       [4]byte{b[off], b[off+1], b[off+2], b[off+3]},
		DataSize:  ReadU32LE(b, off+4),
		Flags:     ReadU32LE(b, off+8),
		FormID:    ReadU32LE(b, off+12),
		Timestamp: ReadU32LE(b, off+16),
		VCSInfo:   ReadU16LE(b, off+20),
		Version:   ReadU16LE(b, off+22),
	}
}

// GroupHeader is a decoded 24-byte GRUP header (spec §3 "GRUP"). Label's
// interpretation depends on GroupType, so it is kept as raw bytes; callers
// use LabelU32BE/LabelSig depending on context.
type GroupHeader struct {
	TotalSize uint32
	Label     [4]byte
	GroupType uint32
	Stamp     uint32
	Unknown   uint32
}

// ReadGroupHeaderBE decodes a big-endian (Xbox-side) GRUP header at off.
// The caller is expected to have already checked that the on-disk tag,
// stored byte-reversed, un-reverses to "GRUP".
func ReadGroupHeaderBE(b []byte, off int) GroupHeader {
	return GroupHeader{
		TotalSize: ReadU32BE(b, off+4),
		Label:     [4]byte{b[off+8], b[off+9], b[off+10], b[off+11]},
		GroupType: ReadU32BE(b, off+12),
		Stamp:     ReadU32BE(b, off+16),
		Unknown:   ReadU32BE(b, off+20),
	}
}

// ReadGroupHeaderLE decodes a little-endian (PC-side) GRUP header at off.
func ReadGroupHeaderLE(b []byte, off int) GroupHeader {
	return GroupHeader{
		TotalSize: ReadU32LE(b, off+4),
		Label:     [4]byte{b[off+8], b[off+9], b[off+10], b[off+11]},
		GroupType: ReadU32LE(b, off+12),
		Stamp:     ReadU32LE(b, off+16),
		Unknown:   ReadU32LE(b, off+20),
	}
}

// LabelU32BE interprets Label as a big-endian u32 (group types 1,4,5,6,8,9,10).
func (h GroupHeader) LabelU32BE() uint32 {
	return ReadU32BE(h.Label[:], 0)
}

// LabelU32LE interprets Label as a little-endian u32, used for PC-side
// GRUP labels written by GroupWriter (spec §4.7's packed block/sub-block
// coordinates and FormID labels are always little-endian on output).
func (h GroupHeader) LabelU32LE() uint32 {
	return ReadU32LE(h.Label[:], 0)
}

// LabelSig interprets Label as a 4-byte record signature (group type 0).
func (h GroupHeader) LabelSig() [4]byte {
	return h.Label
}

// SubrecordHeader is a decoded 6-byte subrecord header (spec §3 "Subrecord").
type SubrecordHeader struct {
	Sig      [4]byte
	DataSize uint16
}

// ReadSubrecordHeaderBE decodes a big-endian (Xbox-side) subrecord header.
// Like the record signature, the subrecord signature is stored
// byte-reversed on Xbox and is un-reversed here.
func ReadSubrecordHeaderBE(b []byte, off int) SubrecordHeader {
	return SubrecordHeader{
		Sig:      ReverseSignature([4]byte{b[off], b[off+1], b[off+2], b[off+3]}),
		DataSize: ReadU16BE(b, off+4),
	}
}

// ReadSubrecordHeaderLE decodes a little-endian (PC-side) subrecord header.
func ReadSubrecordHeaderLE(b []byte, off int) SubrecordHeader {
	return SubrecordHeader{
		Sig:      [4]byte{b[off], b[off+1], b[off+2], b[off+3]},
		DataSize: ReadU16LE(b, off+4),
	}
}
