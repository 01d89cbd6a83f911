package ofst

import (
	"math"

	"github.com/slfx77/esm360/internal/cvindex"
	"github.com/slfx77/esm360/internal/format"
)

// Rebuild implements spec §4.10 OfstRebuilder end to end, patching every
// worldspace's OFST subrecord in the already-written PC output buffer in
// place. idx is the ConversionIndex built from the Xbox input earlier in
// the pipeline; output is the full PC byte stream internal/group and
// internal/recordio already produced (including internal/recordio's
// zero-filled OFST placeholders, sized to match each WRLD's own NAM0/NAM9).
func Rebuild(output []byte, idx *cvindex.Index) {
	formIDToOffset, worldOfCell := scanOutput(output)

	for _, world := range idx.Worlds {
		rebuildWorld(output, idx, world, formIDToOffset, worldOfCell)
	}
}

func rebuildWorld(
	output []byte,
	idx *cvindex.Index,
	world cvindex.WorldRef,
	formIDToOffset map[uint32]int64,
	worldOfCell map[uint32]uint32,
) {
	wrldOffset, ok := formIDToOffset[world.FormID]
	if !ok {
		return
	}
	h := format.ReadRecordHeaderLE(output, int(wrldOffset))
	if h.Flags&format.CompressedFlag != 0 {
		return
	}

	nam0, nam9, ofstDataOff, ofstLen, ok := scanWRLDSubrecords(output, wrldOffset, h.DataSize)
	if !ok || ofstLen == 0 {
		return
	}

	minX, minY, maxX, maxY, ok := ComputeGridBounds(nam0, nam9)
	if !ok {
		return
	}
	n := ofstLen / 4
	columns, rows, ok := ResolveGridShape(minX, minY, maxX, maxY, n)
	if !ok {
		return
	}

	candidates := exteriorCellCandidates(idx, world.FormID, worldOfCell)

	best := make(map[int]int64, len(candidates))
	for _, cell := range candidates {
		col := int(cell.GridX - minX)
		row := int(cell.GridY - minY)
		if col < 0 || col >= columns || row < 0 || row >= rows {
			continue
		}
		ofstIndex := row*columns + col

		cellOffset, ok := formIDToOffset[cell.FormID]
		if !ok {
			continue
		}
		rel := cellOffset - wrldOffset
		if rel <= 0 || rel > math.MaxUint32 {
			continue
		}
		if cur, exists := best[ofstIndex]; !exists || rel < cur {
			best[ofstIndex] = rel
		}
	}

	for i := 0; i < n; i++ {
		var v uint32
		if rel, ok := best[i]; ok {
			v = uint32(rel)
		}
		format.PutU32LE(output, int(ofstDataOff)+i*4, v)
	}
}

// exteriorCellCandidates implements spec §4.10 step 4: the union of the
// index's per-world exterior cell list and a fresh rescan of the output
// pairing CELL records with their stacked world-children ancestor, falling
// back to every indexed cell if both are empty for this world.
func exteriorCellCandidates(idx *cvindex.Index, worldFormID uint32, worldOfCell map[uint32]uint32) []cvindex.CellEntry {
	seen := make(map[uint32]cvindex.CellEntry)
	for _, c := range idx.ExteriorByWorld[worldFormID] {
		seen[c.FormID] = c
	}
	for cellFormID, w := range worldOfCell {
		if w != worldFormID {
			continue
		}
		if c, ok := idx.Cells[cellFormID]; ok {
			seen[cellFormID] = c
		}
	}
	if len(seen) == 0 {
		for formID, c := range idx.Cells {
			seen[formID] = c
		}
	}

	out := make([]cvindex.CellEntry, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	return out
}

// scanWRLDSubrecords linearly walks one WRLD record's PC-ordered subrecord
// stream (including internal/outbuf's XXXX extended-size convention for an
// oversized OFST placeholder) and returns the NAM0/NAM9 payloads plus the
// OFST subrecord's data offset and length.
func scanWRLDSubrecords(output []byte, recStart int64, dataSize uint32) (nam0, nam9 []byte, ofstDataOff int64, ofstLen int, ok bool) {
	off := recStart + format.RecordHeaderSize
	end := off + int64(dataSize)
	n := int64(len(output))
	if end > n {
		end = n
	}

	pendingExtended := uint32(0)
	for off+format.SubrecordHeaderSize <= end {
		sh := format.ReadSubrecordHeaderLE(output, int(off))
		off += format.SubrecordHeaderSize

		if sh.Sig == format.XXXXSignature && sh.DataSize == 4 {
			if off+4 > end {
				break
			}
			pendingExtended = format.ReadU32LE(output, int(off))
			off += 4
			continue
		}

		size := int(sh.DataSize)
		if size == 0 && pendingExtended > 0 {
			size = int(pendingExtended)
		}
		pendingExtended = 0

		if off+int64(size) > end {
			size = int(end - off)
		}

		switch sh.Sig {
		case format.NAM0Signature:
			nam0 = output[off : off+int64(size)]
		case format.NAM9Signature:
			nam9 = output[off : off+int64(size)]
		case format.OFSTSignature:
			ofstDataOff = off
			ofstLen = size
		}
		off += int64(size)
	}

	ok = nam0 != nil && nam9 != nil && ofstLen > 0
	return
}

// scanOutput walks the whole PC output once (an explicit frame stack, the
// same iterative shape internal/cvindex and internal/group use rather than
// recursion) building every record's FormID -> offset and, for CELL
// records, the FormID of the innermost world-children (type 1) ancestor
// group they are nested under.
func scanOutput(output []byte) (formIDToOffset map[uint32]int64, worldOfCell map[uint32]uint32) {
	formIDToOffset = make(map[uint32]int64)
	worldOfCell = make(map[uint32]uint32)

	type frame struct {
		groupType uint32
		label     uint32
		end       int64
	}
	var stack []frame
	offset := int64(0)
	end := int64(len(output))

	currentWorld := func() (uint32, bool) {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].groupType == uint32(format.GroupWorldChildren) {
				return stack[i].label, true
			}
		}
		return 0, false
	}

	for offset < end {
		for len(stack) > 0 && offset >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}

		if offset+4 > end {
			break
		}
		sig := sigAt(output, offset)

		if sig == format.GRUPSignature {
			if offset+format.GroupHeaderSize > end {
				break
			}
			gh := format.ReadGroupHeaderLE(output, int(offset))
			groupEnd := offset + int64(gh.TotalSize)
			if gh.TotalSize < format.GroupHeaderSize || groupEnd > end {
				break
			}
			label := uint32(0)
			if gh.GroupType != uint32(format.GroupTopLevel) {
				label = gh.LabelU32LE()
			}
			stack = append(stack, frame{groupType: gh.GroupType, label: label, end: groupEnd})
			offset += format.GroupHeaderSize
			continue
		}

		if offset+format.RecordHeaderSize > end {
			break
		}
		rh := format.ReadRecordHeaderLE(output, int(offset))
		formIDToOffset[rh.FormID] = offset
		if rh.Sig == format.CELLSignature {
			if w, ok := currentWorld(); ok {
				worldOfCell[rh.FormID] = w
			}
		}
		next := offset + format.RecordHeaderSize + int64(rh.DataSize)
		if next <= offset {
			break
		}
		offset = next
	}

	return formIDToOffset, worldOfCell
}

func sigAt(b []byte, offset int64) [4]byte {
	if offset < 0 || offset+4 > int64(len(b)) {
		return [4]byte{}
	}
	return [4]byte{b[offset], b[offset+1], b[offset+2], b[offset+3]}
}
