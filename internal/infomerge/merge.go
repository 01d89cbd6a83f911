package infomerge

// Merge implements spec §4.5 steps 1-10: reconciling one base/response INFO
// pair into the strict subrecord order PC expects. base and response are
// already in source offset order internally; only groups that are
// non-empty are emitted.
func Merge(base, response []Subrecord) []Subrecord {
	var out []Subrecord

	// 1. Base header: DATA, QSTI.
	out = append(out, filterSig(base, sigDATA)...)
	out = append(out, filterSig(base, sigQSTI)...)

	// 2. Pre-response: NAME (wherever it was declared).
	out = append(out, filterSig(base, sigNAME)...)
	out = append(out, filterSig(response, sigNAME)...)

	// 3. Response groups, one per TRDT in source order, each followed by
	// its immediate NAM1/NAM2/NAM3 run and one base NAM3.
	groups := splitResponseGroups(response)
	baseNAM3 := filterSig(base, sigNAM3)
	consumed := 0
	for _, g := range groups {
		out = append(out, g...)
		if consumed < len(baseNAM3) {
			out = append(out, baseNAM3[consumed])
			consumed++
		}
	}

	// 4. Trailing base NAM3s that weren't consumed.
	out = append(out, baseNAM3[consumed:]...)

	// 5. Base conditions.
	out = append(out, filterSig(base, sigCTDA, sigCTDT)...)

	// 6. Base choices.
	out = append(out, filterSig(base, sigTCLT, sigTCLF)...)

	// 7. Pre-scripts.
	out = append(out, filterSig(base, sigTCFU)...)

	// 8. Script blocks.
	out = append(out, reconstructScripts(base, response)...)

	// 9. Other base tail subrecords, in their original order, excluding
	// everything already placed above.
	out = append(out, otherBaseTail(base)...)

	// 10. RNAM, ANAM, KNAM, DNAM.
	out = append(out, filterSig(base, sigRNAM)...)
	out = append(out, filterSig(response, sigRNAM)...)
	out = append(out, filterSig(base, sigANAM)...)
	out = append(out, filterSig(response, sigANAM)...)
	out = append(out, filterSig(base, sigKNAM)...)
	out = append(out, filterSig(response, sigKNAM)...)
	out = append(out, filterSig(base, sigDNAM)...)
	out = append(out, filterSig(response, sigDNAM)...)

	return out
}

// splitResponseGroups chunks the response's subrecords into one slice per
// TRDT: the TRDT itself plus any NAM1/NAM2/NAM3 immediately following it,
// stopping at the next TRDT or at a subrecord outside that set.
func splitResponseGroups(response []Subrecord) [][]Subrecord {
	var groups [][]Subrecord
	var cur []Subrecord
	inGroup := false

	flush := func() {
		if inGroup {
			groups = append(groups, cur)
			cur = nil
			inGroup = false
		}
	}

	for _, s := range response {
		switch s.Sig {
		case sigTRDT:
			flush()
			cur = []Subrecord{s}
			inGroup = true
		case sigNAM1, sigNAM2, sigNAM3:
			if inGroup {
				cur = append(cur, s)
			}
		default:
			flush()
		}
	}
	flush()
	return groups
}

// placedInMerge identifies everything merge.go's steps 1-8,10 already
// pull from the base record explicitly, by signature.
var placedInMerge = map[[4]byte]bool{
	sigDATA: true, sigQSTI: true, sigNAME: true,
	sigNAM1: true, sigNAM2: true, sigNAM3: true, sigTRDT: true,
	sigCTDA: true, sigCTDT: true, sigTCLT: true, sigTCLF: true,
	sigTCFU: true, sigSCTX: true, sigSCHR: true, sigSCDA: true,
	sigSCRO: true, sigNEXT: true,
	sigRNAM: true, sigANAM: true, sigKNAM: true, sigDNAM: true,
}

// otherBaseTail returns the base record's remaining, record-type-specific
// tail subrecords in their original order (spec §4.5 step 9).
func otherBaseTail(base []Subrecord) []Subrecord {
	var out []Subrecord
	for _, s := range base {
		if !placedInMerge[s.Sig] {
			out = append(out, s)
		}
	}
	return out
}

// ReorderInfoSubrecords implements the second-form pass (spec §4.5, "Second
// form"): an unpaired INFO strips orphaned NAM3 (which only make sense
// following TRDT) and, if it carries no script, strips all script
// subrecords. The data is already byte-swapped; this only reorders/drops.
func ReorderInfoSubrecords(subs []Subrecord) []Subrecord {
	hasScript := hasAny(subs, sigSCHR, sigSCDA)
	var out []Subrecord
	for _, s := range subs {
		if s.Sig == sigNAM3 {
			continue
		}
		if !hasScript && (s.Sig == sigSCHR || s.Sig == sigSCDA || s.Sig == sigSCRO || s.Sig == sigNEXT || s.Sig == sigSCTX) {
			continue
		}
		out = append(out, s)
	}
	return out
}
