package infomerge

// scriptBlock is one SCHR-headed script, assembled from the response's
// compiled bytecode and the base's source text, per spec §4.5.1.
type scriptBlock struct {
	schr         Subrecord
	scda         []Subrecord
	other        []Subrecord // e.g. SLSD/SCVR/SCRV local-variable subrecords
	scro         []Subrecord
	sctx         *Subrecord
	hasNextAfter bool
	next         Subrecord
}

// syntheticSCHR is 20 zero bytes with little-endian u16 `1` at offset 18,
// the placeholder header for a Begin/End block that the source never wrote
// explicitly (spec §4.5.1 edge cases).
func syntheticSCHR() Subrecord {
	data := make([]byte, 20)
	data[18] = 1
	data[19] = 0
	return Subrecord{Sig: sigSCHR, Data: data}
}

// parseScriptBlocks walks the response's script subrecords into blocks keyed
// by SCHR, handling the NEXT-before-first-SCHR and trailing-NEXT edge cases.
func parseScriptBlocks(responseSubs []Subrecord) []*scriptBlock {
	var blocks []*scriptBlock
	var cur *scriptBlock
	sawNext := false

	for _, s := range responseSubs {
		switch s.Sig {
		case sigSCHR:
			cur = &scriptBlock{schr: s}
			blocks = append(blocks, cur)
		case sigSCDA:
			if cur != nil {
				cur.scda = append(cur.scda, s)
			}
		case sigSCRO:
			if cur != nil {
				cur.scro = append(cur.scro, s)
			}
		case sigNEXT:
			sawNext = true
			if cur == nil {
				synth := &scriptBlock{schr: syntheticSCHR(), hasNextAfter: true, next: s}
				blocks = append([]*scriptBlock{synth}, blocks...)
			} else {
				cur.hasNextAfter = true
				cur.next = s
			}
		default:
			if cur != nil {
				cur.other = append(cur.other, s)
			}
		}
	}

	if len(blocks) == 0 {
		sctxPresent := hasAny(responseSubs, sigSCTX)
		if sctxPresent || sawNext {
			begin := &scriptBlock{schr: syntheticSCHR(), hasNextAfter: true}
			end := &scriptBlock{schr: syntheticSCHR()}
			blocks = []*scriptBlock{begin, end}
		}
		return blocks
	}

	if blocks[len(blocks)-1].hasNextAfter {
		blocks = append(blocks, &scriptBlock{schr: syntheticSCHR()})
	}

	return blocks
}

// assignSCTX distributes base SCTX entries across blocks per spec §4.5.1
// step 3, and reports any that could not be assigned.
func assignSCTX(blocks []*scriptBlock, sctx []Subrecord) (leftover []Subrecord) {
	if len(blocks) == 0 {
		return sctx
	}

	if len(sctx) >= len(blocks) {
		for i := range blocks {
			entry := sctx[i]
			blocks[i].sctx = &entry
		}
		return sctx[len(blocks):]
	}

	var withCode, withoutCode []*scriptBlock
	for _, b := range blocks {
		if len(b.scda) > 0 {
			withCode = append(withCode, b)
		} else {
			withoutCode = append(withoutCode, b)
		}
	}
	ordered := append(withCode, withoutCode...)
	for i := range sctx {
		entry := sctx[i]
		ordered[i].sctx = &entry
	}
	return nil
}

// emitScriptBlocks renders the assembled blocks in PC subrecord order
// (spec §4.5.1 step 4), appending any SCTX that could not be assigned to a
// block at the end (step 5).
func emitScriptBlocks(blocks []*scriptBlock, leftoverSCTX []Subrecord) []Subrecord {
	var out []Subrecord
	for i, b := range blocks {
		out = append(out, b.schr)
		out = append(out, b.scda...)
		if b.sctx != nil {
			out = append(out, *b.sctx)
		}
		out = append(out, b.other...)
		out = append(out, b.scro...)
		if b.hasNextAfter && i < len(blocks)-1 {
			next := b.next
			if next.Sig != sigNEXT {
				next = Subrecord{Sig: sigNEXT}
			}
			out = append(out, next)
		}
	}
	out = append(out, leftoverSCTX...)
	return out
}

// reconstructScripts implements spec §4.5.1 end to end: response script
// subrecords plus base SCTX source text go in, the PC-ordered script
// subrecord sequence comes out.
func reconstructScripts(baseSubs, responseSubs []Subrecord) []Subrecord {
	baseSCTX := filterSig(baseSubs, sigSCTX)
	blocks := parseScriptBlocks(responseSubs)
	if len(blocks) == 0 {
		return nil
	}
	leftover := assignSCTX(blocks, baseSCTX)
	return emitScriptBlocks(blocks, leftover)
}
