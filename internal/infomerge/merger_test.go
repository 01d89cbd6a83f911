package infomerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerger_PairsBaseAndResponseByFormID(t *testing.T) {
	base := Record{FormID: 0x1000, Offset: 100, Subs: []Subrecord{sigData("DATA", 1)}}
	response := Record{FormID: 0x1000, Offset: 200, Subs: []Subrecord{sigData("TRDT", 2)}}

	m := NewMerger([]Record{base, response})

	data, result := m.TryMerge(base.Offset)
	assert.Equal(t, Merged, result)
	assert.NotEmpty(t, data)

	_, result = m.TryMerge(response.Offset)
	assert.Equal(t, Skip, result)
}

func TestMerger_UnpairedRecordFallsThrough(t *testing.T) {
	lone := Record{FormID: 0x2000, Offset: 300, Subs: []Subrecord{sigData("RNAM", 1)}}
	m := NewMerger([]Record{lone})

	_, result := m.TryMerge(lone.Offset)
	assert.Equal(t, NoMerge, result)
}

func TestMerger_LowestOffsetPairWinsWhenMultipleShareFormID(t *testing.T) {
	b1 := Record{FormID: 0x3000, Offset: 10, Subs: []Subrecord{sigData("DATA", 1)}}
	b2 := Record{FormID: 0x3000, Offset: 50, Subs: []Subrecord{sigData("DATA", 1)}}
	r1 := Record{FormID: 0x3000, Offset: 20, Subs: []Subrecord{sigData("TRDT", 1)}}
	r2 := Record{FormID: 0x3000, Offset: 60, Subs: []Subrecord{sigData("TRDT", 1)}}

	m := NewMerger([]Record{b1, b2, r1, r2})

	_, result := m.TryMerge(b1.Offset)
	require.Equal(t, Merged, result)
	_, result = m.TryMerge(r1.Offset)
	assert.Equal(t, Skip, result)
	_, result = m.TryMerge(b2.Offset)
	assert.Equal(t, NoMerge, result)
	_, result = m.TryMerge(r2.Offset)
	assert.Equal(t, NoMerge, result)
}
