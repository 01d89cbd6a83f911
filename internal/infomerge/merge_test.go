package infomerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigData(s string, b byte) Subrecord {
	return Subrecord{Sig: sig(s), Data: []byte{b}}
}

func TestMerge_HeaderAndOrder(t *testing.T) {
	base := []Subrecord{
		sigData("DATA", 1),
		sigData("QSTI", 2),
		sigData("CTDA", 3),
		sigData("NAM3", 9),
		sigData("RNAM", 4),
	}
	response := []Subrecord{
		sigData("TRDT", 5),
		sigData("NAM1", 6),
	}

	out := Merge(base, response)
	require.GreaterOrEqual(t, len(out), 6)
	assert.Equal(t, sig("DATA"), out[0].Sig)
	assert.Equal(t, sig("QSTI"), out[1].Sig)

	// The TRDT group should have consumed the base NAM3.
	var sawNAM3AfterTRDT bool
	for i, s := range out {
		if s.Sig == sig("TRDT") {
			require.Less(t, i+2, len(out))
			if out[i+2].Sig == sig("NAM3") {
				sawNAM3AfterTRDT = true
			}
		}
	}
	assert.True(t, sawNAM3AfterTRDT)

	// RNAM is appended last.
	assert.Equal(t, sig("RNAM"), out[len(out)-1].Sig)
}

func TestMerge_TrailingBaseNAM3sWithoutEnoughTRDTGroups(t *testing.T) {
	base := []Subrecord{
		sigData("DATA", 1),
		sigData("NAM3", 9),
		sigData("NAM3", 10),
	}
	response := []Subrecord{
		sigData("TRDT", 5),
	}

	out := Merge(base, response)
	count := 0
	for _, s := range out {
		if s.Sig == sig("NAM3") {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestSplitResponseGroups_StopsAtNonRunSubrecord(t *testing.T) {
	response := []Subrecord{
		sigData("TRDT", 1),
		sigData("NAM1", 2),
		sigData("SCHR", 3),
		sigData("TRDT", 4),
		sigData("NAM2", 5),
	}
	groups := splitResponseGroups(response)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 2)
}

func TestReorderInfoSubrecords_StripsOrphanNAM3(t *testing.T) {
	subs := []Subrecord{sigData("DATA", 1), sigData("NAM3", 2), sigData("RNAM", 3)}
	out := ReorderInfoSubrecords(subs)
	for _, s := range out {
		assert.NotEqual(t, sig("NAM3"), s.Sig)
	}
}

func TestReorderInfoSubrecords_StripsScriptSubsWhenNoSCHRorSCDA(t *testing.T) {
	subs := []Subrecord{sigData("DATA", 1), sigData("SCTX", 2), sigData("NEXT", 3)}
	out := ReorderInfoSubrecords(subs)
	for _, s := range out {
		assert.NotEqual(t, sig("SCTX"), s.Sig)
		assert.NotEqual(t, sig("NEXT"), s.Sig)
	}
}

func TestReorderInfoSubrecords_KeepsScriptSubsWhenSCHRPresent(t *testing.T) {
	subs := []Subrecord{sigData("SCHR", 1), sigData("SCDA", 2), sigData("SCTX", 3)}
	out := ReorderInfoSubrecords(subs)
	assert.Len(t, out, 3)
}
