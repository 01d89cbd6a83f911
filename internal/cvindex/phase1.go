package cvindex

import "github.com/slfx77/esm360/internal/format"

type frame struct {
	EndOffset int64
	GroupType uint32
	Label     uint32
}

// scanNested implements spec §4.8 Phase 1: an iterative stack-based walk of
// records and groups starting at the TES4 record's end, stopping at the
// first top-level TOFT (the console streaming boundary). Returns the offset
// the walk stopped at and the first top-level TOFT's offset (-1 if none was
// seen before running out of input).
func scanNested(input []byte, start int64, idx *Index) (stoppedAt, firstTOFT int64) {
	offset := start
	n := int64(len(input))
	var stack []frame
	firstTOFT = -1

	for offset+4 <= n {
		for len(stack) > 0 && offset >= stack[len(stack)-1].EndOffset {
			stack = stack[:len(stack)-1]
		}

		sig := sigAt(input, offset)

		if sig == format.GRUPSignature {
			if offset+format.GroupHeaderSize > n {
				break
			}
			gh := format.ReadGroupHeaderBE(input, int(offset))
			groupEnd := offset + int64(gh.TotalSize)
			if gh.TotalSize < format.GroupHeaderSize || groupEnd > n {
				break
			}
			if isCellChildGroupType(gh.GroupType) {
				idx.addCellChild(gh.LabelU32BE(), gh.GroupType, offset, gh.TotalSize)
			}
			stack = append(stack, frame{EndOffset: groupEnd, GroupType: gh.GroupType, Label: gh.LabelU32BE()})
			offset += format.GroupHeaderSize
			continue
		}

		if sig == format.TOFTSignature && len(stack) == 0 {
			firstTOFT = offset
			return offset, firstTOFT
		}

		if offset+format.RecordHeaderSize > n {
			break
		}
		rh := format.ReadRecordHeaderBE(input, int(offset))
		recEnd := offset + format.RecordHeaderSize + int64(rh.DataSize)
		if recEnd > n {
			break
		}

		switch rh.Sig {
		case format.WRLDSignature:
			idx.Worlds = append(idx.Worlds, WorldRef{FormID: rh.FormID, Offset: offset})
		case format.CELLSignature:
			idx.addCell(buildCellEntry(input, rh, offset, stack))
		}

		offset = recEnd
	}

	return offset, firstTOFT
}

func isCellChildGroupType(t uint32) bool {
	return format.GroupType(t).IsCellChildType()
}

func innermostWorldID(stack []frame) (uint32, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].GroupType == uint32(format.GroupWorldChildren) {
			return stack[i].Label, true
		}
	}
	return 0, false
}

func buildCellEntry(input []byte, rh format.RecordHeader, offset int64, stack []frame) CellEntry {
	gx, gy, exterior := findCellGrid(input, rh, offset)
	entry := CellEntry{
		FormID: rh.FormID, Offset: offset, Flags: rh.Flags, DataSize: rh.DataSize,
		IsExterior: exterior, GridX: gx, GridY: gy,
	}
	if exterior {
		if worldID, ok := innermostWorldID(stack); ok {
			entry.WorldID = worldID
		}
	}
	return entry
}
