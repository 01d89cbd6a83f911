package esm

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slfx77/esm360/internal/format"
)

// --- big-endian (Xbox-side) input builder, mirroring internal/cvindex's
// build_test.go helpers but kept local since cvindex's are unexported. ---

func beU32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func beU16(v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return b[:]
}

// onDiskSig reverses a canonical 4-byte ASCII tag into the byte order Xbox
// actually stores it in (spec §3/§4.1), so every builder below produces
// input that looks like genuine Xbox disk bytes rather than the
// implementation's own assumptions.
func onDiskSig(s string) [4]byte {
	var b [4]byte
	copy(b[:], s)
	return format.ReverseSignature(b)
}

func beRecord(sig string, formID uint32, flags uint32, payload []byte) []byte {
	var buf []byte
	diskSig := onDiskSig(sig)
	buf = append(buf, diskSig[:]...)
	buf = append(buf, beU32(uint32(len(payload)))...)
	buf = append(buf, beU32(flags)...)
	buf = append(buf, beU32(formID)...)
	buf = append(buf, beU32(0)...) // timestamp
	buf = append(buf, beU16(0)...) // vcs_info
	buf = append(buf, beU16(0)...) // version
	buf = append(buf, payload...)
	return buf
}

func beSub(sig string, data []byte) []byte {
	diskSig := onDiskSig(sig)
	buf := append([]byte{}, diskSig[:]...)
	buf = append(buf, beU16(uint16(len(data)))...)
	return append(buf, data...)
}

// beGroup builds a GRUP on-disk: the literal "GRUP" marker and, for
// group_type 0, the label (itself a record signature) are reversed the
// same way any other signature is; a non-zero group type's label is a
// packed numeric value and is left as the caller supplied it.
func beGroup(label [4]byte, groupType uint32, body []byte) []byte {
	var buf []byte
	diskMarker := onDiskSig("GRUP")
	buf = append(buf, diskMarker[:]...)
	buf = append(buf, beU32(uint32(format.GroupHeaderSize+len(body)))...)
	diskLabel := label
	if groupType == uint32(format.GroupTopLevel) {
		diskLabel = format.ReverseSignature(label)
	}
	buf = append(buf, diskLabel[:]...)
	buf = append(buf, beU32(groupType)...)
	buf = append(buf, beU32(0)...) // stamp
	buf = append(buf, beU32(0)...) // unknown
	return append(buf, body...)
}

func sigLabel(s string) [4]byte {
	var out [4]byte
	copy(out[:], s)
	return out
}

func formIDLabelBE(id uint32) [4]byte {
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], id)
	return out
}

func beFloats(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// hedrTES4 builds a minimal valid TES4 record recognized by detectBigEndian: a
// small positive float version field.
func hedrTES4() []byte {
	payload := beSub("HEDR", append(beFloats(1.34), beU32(0)...))
	return beRecord("TES4", 0, 0, payload)
}

func TestConvert_ErrFormatMismatch_TooShort(t *testing.T) {
	_, _, err := Convert([]byte("TES4"), DefaultOptions())
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestConvert_ErrFormatMismatch_WrongSignature(t *testing.T) {
	input := beRecord("ARMO", 0, 0, beSub("HEDR", append(beFloats(1.34), beU32(0)...)))
	_, _, err := Convert(input, DefaultOptions())
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

// TestDetectBigEndian_RejectsCanonicalOrderSignature pins down the §3/§4.1
// reversal requirement: a buffer carrying "TES4"/"HEDR" in literal PC order
// is not a valid Xbox record (on Xbox disk those tags read "4SET"/"RDEH"),
// so detection must reject it even though beRecord/beSub's reversal would
// never itself produce such bytes.
func TestDetectBigEndian_RejectsCanonicalOrderSignature(t *testing.T) {
	var input []byte
	input = append(input, []byte("TES4")...)
	input = append(input, beU32(6)...) // data_size
	input = append(input, beU32(0)...) // flags
	input = append(input, beU32(0)...) // form_id
	input = append(input, beU32(0)...) // timestamp
	input = append(input, beU16(0)...) // vcs_info
	input = append(input, beU16(0)...) // version
	input = append(input, []byte("HEDR")...)
	input = append(input, beU16(4)...)
	input = append(input, beFloats(1.34)...)

	_, _, err := Convert(input, DefaultOptions())
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

// TestDetectBigEndian_AcceptsReversedOnDiskSignature is the positive half:
// the same record with its tags genuinely byte-reversed (as hedrTES4/beRecord
// build it) is recognized as a valid Xbox ESM.
func TestDetectBigEndian_AcceptsReversedOnDiskSignature(t *testing.T) {
	input := hedrTES4()
	assert.True(t, detectBigEndian(input))
}

// TestConvert_GenericTopLevelGroup covers the ordinary "record type wrapped
// in its own top-level GRUP" path: written through unchanged (S1-like).
func TestConvert_GenericTopLevelGroup(t *testing.T) {
	edid := append([]byte("TestArmor"), 0)
	armoPayload := beSub("EDID", edid)
	armoRec := beRecord("ARMO", 0x800, 0, armoPayload)
	group := beGroup(sigLabel("ARMO"), 0, armoRec)

	input := append(hedrTES4(), group...)

	out, stats, err := Convert(input, DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, 1, stats.GroupsWritten)

	// TES4 header first, little-endian.
	h0 := format.ReadRecordHeaderLE(out, 0)
	assert.Equal(t, format.TES4Signature, h0.Sig)

	tes4End := int(format.RecordHeaderSize) + int(h0.DataSize)
	gh := format.ReadGroupHeaderLE(out, tes4End)
	assert.Equal(t, sigLabel("ARMO"), gh.LabelSig())
	assert.EqualValues(t, 0, gh.GroupType)

	armoOffset := tes4End + int(format.GroupHeaderSize)
	rh := format.ReadRecordHeaderLE(out, armoOffset)
	assert.Equal(t, [4]byte{'A', 'R', 'M', 'O'}, rh.Sig)
	assert.EqualValues(t, 0x800, rh.FormID)
}

// TestConvert_TopLevelBareRecordSkippedAsDuplicate covers spec's step 4:
// a record sitting at top level outside any GRUP is an Xbox streaming
// duplicate and must be dropped rather than emitted twice.
func TestConvert_TopLevelBareRecordSkippedAsDuplicate(t *testing.T) {
	bare := beRecord("ARMO", 0x900, 0, nil)
	input := append(hedrTES4(), bare...)

	out, stats, err := Convert(input, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RecordsSkippedDup)

	// Only the TES4 record should have been written.
	h0 := format.ReadRecordHeaderLE(out, 0)
	tes4End := int(format.RecordHeaderSize) + int(h0.DataSize)
	assert.Equal(t, tes4End, len(out))
}

// TestConvert_NestedOnlyGroupDroppedAtTopLevel covers the other half of
// step 4 symmetry: a nested-only group type (cell-temporary, 9) appearing
// at top level is an Xbox duplicate, dropped rather than emitted.
func TestConvert_NestedOnlyGroupDroppedAtTopLevel(t *testing.T) {
	cellRec := beRecord("CELL", 0x40, 0, beSub("XCLC", append(beU32(0), beU32(0)...)))
	orphanGroup := beGroup(formIDLabelBE(0x40), 9, cellRec)
	input := append(hedrTES4(), orphanGroup...)

	out, stats, err := Convert(input, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.GroupsDroppedNestedDup)

	h0 := format.ReadRecordHeaderLE(out, 0)
	tes4End := int(format.RecordHeaderSize) + int(h0.DataSize)
	assert.Equal(t, tes4End, len(out), "nothing beyond TES4 should have been written")
}

// TestConvert_NestedOnlyGroupKeptWhenActuallyNested covers the same group
// type (here, DIAL's type-7 topic-children group) appearing nested inside
// a legitimate top-level group: it must fall through to the generic
// group-entry path rather than being dropped, since IsNestedOnly only
// gates behavior at the top level (S3).
func TestConvert_NestedOnlyGroupKeptWhenActuallyNested(t *testing.T) {
	innerRec := beRecord("INFO", 0x51, 0, nil)
	topicChildren := beGroup(formIDLabelBE(0x50), 7, innerRec)
	dialRec := beRecord("DIAL", 0x50, 0, nil)
	dialGroup := beGroup(sigLabel("DIAL"), 0, append(dialRec, topicChildren...))

	input := append(hedrTES4(), dialGroup...)

	out, stats, err := Convert(input, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.GroupsDroppedNestedDup)
	assert.Equal(t, 2, stats.GroupsWritten) // DIAL top group + nested type-7 group

	h0 := format.ReadRecordHeaderLE(out, 0)
	tes4End := int(format.RecordHeaderSize) + int(h0.DataSize)
	outerGH := format.ReadGroupHeaderLE(out, tes4End)
	assert.EqualValues(t, 0, outerGH.GroupType)

	dialOffset := tes4End + int(format.GroupHeaderSize)
	dialHeader := format.ReadRecordHeaderLE(out, dialOffset)
	assert.Equal(t, [4]byte{'D', 'I', 'A', 'L'}, dialHeader.Sig)

	innerGroupOffset := dialOffset + int(format.RecordHeaderSize) + int(dialHeader.DataSize)
	innerGH := format.ReadGroupHeaderLE(out, innerGroupOffset)
	assert.EqualValues(t, 7, innerGH.GroupType)
	assert.EqualValues(t, 0x50, innerGH.LabelU32LE())
}

// TestConvert_WorldspaceReconstructionRebuildsOFST is an end-to-end pass
// of spec §8 S4 through the whole Converter: a nested WRLD/CELL hierarchy
// in the input gets reconstructed and its OFST table filled in by the
// post-pass.
func TestConvert_WorldspaceReconstructionRebuildsOFST(t *testing.T) {
	wrldFormID := uint32(0x10)
	cellAFormID := uint32(0x2000)
	cellBFormID := uint32(0x2001)

	wrldPayload := append(
		beSub("NAM0", beFloats(-4096, -4096, 0)),
		beSub("NAM9", beFloats(4096, 4096, 0))...,
	)
	wrldRec := beRecord("WRLD", wrldFormID, 0, wrldPayload)

	cellA := beRecord("CELL", cellAFormID, 0, beSub("XCLC", append(beU32(uint32(int32(-1))), beU32(uint32(int32(-1)))...)))
	cellB := beRecord("CELL", cellBFormID, 0, beSub("XCLC", append(beU32(1), beU32(1)...)))
	worldChildren := beGroup(formIDLabelBE(wrldFormID), 1, append(cellA, cellB...))

	wrldGroup := beGroup(sigLabel("WRLD"), 0, append(wrldRec, worldChildren...))

	input := append(hedrTES4(), wrldGroup...)

	out, stats, err := Convert(input, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WorldsIndexed)
	assert.Equal(t, 2, stats.CellsIndexed)
	assert.Equal(t, 1, stats.WorldspacesRebuilt)

	// Locate the rebuilt WRLD record and its OFST table.
	h0 := format.ReadRecordHeaderLE(out, 0)
	tes4End := int(format.RecordHeaderSize) + int(h0.DataSize)

	outerGH := format.ReadGroupHeaderLE(out, tes4End)
	assert.Equal(t, format.WRLDSignature, outerGH.LabelSig())

	wrldOffset := tes4End + int(format.GroupHeaderSize)
	wh := format.ReadRecordHeaderLE(out, wrldOffset)
	require.Equal(t, format.WRLDSignature, wh.Sig)

	off := wrldOffset + int(format.RecordHeaderSize)
	end := off + int(wh.DataSize)
	var ofstOff, ofstLen int
	for off+int(format.SubrecordHeaderSize) <= end {
		sh := format.ReadSubrecordHeaderLE(out, off)
		off += int(format.SubrecordHeaderSize)
		if sh.Sig == format.OFSTSignature {
			ofstOff = off
			ofstLen = int(sh.DataSize)
		}
		off += int(sh.DataSize)
	}
	require.Greater(t, ofstLen, 0, "rebuilt WRLD must carry an OFST subrecord")
	require.Equal(t, 36, ofstLen) // 3x3 grid from NAM0/NAM9 bounds

	nonZero := 0
	for i := 0; i < ofstLen/4; i++ {
		if format.ReadU32LE(out, ofstOff+i*4) != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 2, nonZero, "exactly the two indexed cells should get a non-zero OFST entry")
}
