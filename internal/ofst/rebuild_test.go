package ofst

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slfx77/esm360/internal/cvindex"
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/outbuf"
)

type leBuilder struct{ w *outbuf.Writer }

func newLEBuilder() *leBuilder { return &leBuilder{w: outbuf.New()} }

type sub struct {
	sig  [4]byte
	data []byte
}

func (b *leBuilder) record(sig [4]byte, formID uint32, subs []sub) int64 {
	pos := b.w.WriteRecordHeader(sig, 0, 0, formID, 0, 0, 0)
	for _, s := range subs {
		b.w.WriteSubrecord(s.sig, s.data)
	}
	b.w.PatchU32LE(pos+4, uint32(b.w.Pos()-pos-format.RecordHeaderSize))
	return pos
}

func subData(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func xclcData(x, y int32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], uint32(x))
	binary.LittleEndian.PutUint32(buf[4:], uint32(y))
	return buf
}

// TestRebuild_S4Scenario pins spec §8 S4: NAM0=(-8192,-8192), NAM9=(8192,8192)
// gives a 5x5 grid (columns=rows=5); two exterior cells at grid (-2,-2) and
// (2,2) land at OFST indices 0 and 24.
func TestRebuild_S4Scenario(t *testing.T) {
	wrldFormID := uint32(0x10)
	cellAFormID := uint32(0x2000)
	cellBFormID := uint32(0x2001)

	b := newLEBuilder()
	wrldPos := b.record(format.WRLDSignature, wrldFormID, []sub{
		{format.NAM0Signature, subData(-8192, -8192, 0)},
		{format.NAM9Signature, subData(8192, 8192, 0)},
		{format.OFSTSignature, make([]byte, 25*4)},
	})

	worldGroupPos := b.w.WriteGroupHeader(formIDLabelFor(wrldFormID), uint32(format.GroupWorldChildren), 0, 0)
	cellAPos := b.record(format.CELLSignature, cellAFormID, []sub{
		{format.XCLCSignature, xclcData(-2, -2)},
	})
	cellBPos := b.record(format.CELLSignature, cellBFormID, []sub{
		{format.XCLCSignature, xclcData(2, 2)},
	})
	b.w.FinalizeGroup(worldGroupPos)

	output := append([]byte{}, b.w.Bytes()...)

	idx := &cvindex.Index{
		Worlds: []cvindex.WorldRef{{FormID: wrldFormID, Offset: 0}},
		Cells: map[uint32]cvindex.CellEntry{
			cellAFormID: {FormID: cellAFormID, IsExterior: true, GridX: -2, GridY: -2, WorldID: wrldFormID},
			cellBFormID: {FormID: cellBFormID, IsExterior: true, GridX: 2, GridY: 2, WorldID: wrldFormID},
		},
		ExteriorByWorld: map[uint32][]cvindex.CellEntry{
			wrldFormID: {
				{FormID: cellAFormID, IsExterior: true, GridX: -2, GridY: -2, WorldID: wrldFormID},
				{FormID: cellBFormID, IsExterior: true, GridX: 2, GridY: 2, WorldID: wrldFormID},
			},
		},
	}

	Rebuild(output, idx)

	h := format.ReadRecordHeaderLE(output, int(wrldPos))
	_, _, ofstDataOff, ofstLen, ok := scanWRLDSubrecords(output, wrldPos, h.DataSize)
	require.True(t, ok)
	require.Equal(t, 100, ofstLen)

	entry0 := format.ReadU32LE(output, int(ofstDataOff)+0*4)
	entry24 := format.ReadU32LE(output, int(ofstDataOff)+24*4)
	assert.EqualValues(t, cellAPos-wrldPos, entry0)
	assert.EqualValues(t, cellBPos-wrldPos, entry24)

	for i := 1; i < 24; i++ {
		assert.EqualValues(t, 0, format.ReadU32LE(output, int(ofstDataOff)+i*4))
	}
}

func formIDLabelFor(id uint32) [4]byte {
	var out [4]byte
	format.PutU32LE(out[:], 0, id)
	return out
}
