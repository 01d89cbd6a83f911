package infomerge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMerge_S6 pins the worked INFO-merge example: a base record with two
// conditions/choices and bracketing script source text, paired with a
// response carrying two dialogue lines and two compiled script blocks.
func TestMerge_S6(t *testing.T) {
	strSub := func(name string, text string) Subrecord {
		return Subrecord{Sig: sig(name), Data: []byte(text)}
	}
	emptySub := func(name string) Subrecord {
		return Subrecord{Sig: sig(name)}
	}

	base := []Subrecord{
		emptySub("DATA"), emptySub("QSTI"), emptySub("TCLT"),
		emptySub("NAM3"), emptySub("NAM3"), emptySub("CTDA"),
		strSub("SCTX", "Begin"), strSub("SCTX", "End"),
	}
	response := []Subrecord{
		emptySub("TRDT"), emptySub("NAM1"),
		emptySub("TRDT"), emptySub("NAM1"),
		emptySub("SCHR"), emptySub("SCDA"), emptySub("NEXT"),
		emptySub("SCHR"), emptySub("SCDA"),
	}

	out := Merge(base, response)

	wantSigs := []string{
		"DATA", "QSTI",
		"TRDT", "NAM1", "NAM3",
		"TRDT", "NAM1", "NAM3",
		"CTDA", "TCLT",
		"SCHR", "SCDA", "SCTX",
		"NEXT",
		"SCHR", "SCDA", "SCTX",
	}
	require.Len(t, out, len(wantSigs))
	for i, want := range wantSigs {
		require.Equal(t, sig(want), out[i].Sig, "subrecord %d", i)
	}
	require.Equal(t, "Begin", string(out[12].Data))
	require.Equal(t, "End", string(out[16].Data))
}
