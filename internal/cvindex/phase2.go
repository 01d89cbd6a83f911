package cvindex

import "github.com/slfx77/esm360/internal/format"

// scanFlat implements spec §4.8 Phase 2: after the TOFT boundary, Xbox
// stores cell-temporary groups and an entire World-Children group flatly.
// This skips non-group records until a GRUP signature appears, then
// dispatches on its type.
func scanFlat(input []byte, start int64, idx *Index) {
	n := int64(len(input))
	offset := start
	if offset < 0 {
		offset = 0
	}

	for offset+4 <= n {
		if sigAt(input, offset) != format.GRUPSignature {
			if offset+format.RecordHeaderSize <= n {
				rh := format.ReadRecordHeaderBE(input, int(offset))
				recEnd := offset + format.RecordHeaderSize + int64(rh.DataSize)
				if isValidRecordSig(rh.Sig) && recEnd > offset && recEnd <= n {
					offset = recEnd
					continue
				}
			}
			offset++
			continue
		}

		if offset+format.GroupHeaderSize > n {
			break
		}
		gh := format.ReadGroupHeaderBE(input, int(offset))
		groupEnd := offset + int64(gh.TotalSize)
		if gh.TotalSize < format.GroupHeaderSize || groupEnd > n {
			offset++
			continue
		}

		switch format.GroupType(gh.GroupType) {
		case format.GroupCellTemporary:
			idx.addCellChild(gh.LabelU32BE(), gh.GroupType, offset, gh.TotalSize)
		case format.GroupWorldChildren:
			scanFlatWorldChildren(input, offset+format.GroupHeaderSize, groupEnd, gh.LabelU32BE(), idx)
		}

		offset = groupEnd
	}
}

// scanFlatWorldChildren recurses into a flat World-Children group, pulling
// out every exterior CELL it contains.
func scanFlatWorldChildren(input []byte, start, end int64, worldID uint32, idx *Index) {
	n := end
	if n > int64(len(input)) {
		n = int64(len(input))
	}
	offset := start

	for offset+4 <= n {
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
			offset = groupEnd
			continue
		}

		if offset+format.RecordHeaderSize > n {
			break
		}
		rh := format.ReadRecordHeaderBE(input, int(offset))
		recEnd := offset + format.RecordHeaderSize + int64(rh.DataSize)
		if recEnd > n {
			break
		}
		if rh.Sig == format.CELLSignature {
			gx, gy, exterior := findCellGrid(input, rh, offset)
			if exterior {
				idx.addCell(CellEntry{
					FormID: rh.FormID, Offset: offset, Flags: rh.Flags, DataSize: rh.DataSize,
					IsExterior: true, GridX: gx, GridY: gy, WorldID: worldID,
				})
			}
		}
		offset = recEnd
	}
}
