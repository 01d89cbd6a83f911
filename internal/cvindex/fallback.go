package cvindex

import "github.com/slfx77/esm360/internal/format"

// minIndexedCells is the "fewer than ~1000 cells" threshold from spec §4.8
// below which the comprehensive CELL fallback kicks in.
const minIndexedCells = 1000

// applyFallbacks implements spec §4.8's two fallbacks: if phase 1 found no
// worlds at all, linearly scan for every WRLD record; if indexing found
// suspiciously few cells, linearly scan for every CELL and default exterior
// cells with no resolved world to the first indexed world.
func applyFallbacks(input []byte, idx *Index) {
	if len(idx.Worlds) == 0 {
		scanAllRecords(input, format.WRLDSignature, func(rh format.RecordHeader, offset int64) {
			idx.Worlds = append(idx.Worlds, WorldRef{FormID: rh.FormID, Offset: offset})
		})
	}

	if len(idx.Cells) < minIndexedCells {
		defaultWorld, hasDefault := uint32(0), false
		if len(idx.Worlds) > 0 {
			defaultWorld, hasDefault = idx.Worlds[0].FormID, true
		}
		scanAllRecords(input, format.CELLSignature, func(rh format.RecordHeader, offset int64) {
			if _, exists := idx.Cells[rh.FormID]; exists {
				return
			}
			gx, gy, exterior := findCellGrid(input, rh, offset)
			entry := CellEntry{
				FormID: rh.FormID, Offset: offset, Flags: rh.Flags, DataSize: rh.DataSize,
				IsExterior: exterior, GridX: gx, GridY: gy,
			}
			if exterior && hasDefault {
				entry.WorldID = defaultWorld
			}
			idx.addCell(entry)
		})
	}
}

func scanAllRecords(input []byte, want [4]byte, fn func(format.RecordHeader, int64)) {
	n := int64(len(input))
	for offset := int64(0); offset+format.RecordHeaderSize <= n; {
		if sigAt(input, offset) != want {
			offset++
			continue
		}
		rh := format.ReadRecordHeaderBE(input, int(offset))
		recEnd := offset + format.RecordHeaderSize + int64(rh.DataSize)
		if recEnd > n || recEnd <= offset {
			offset++
			continue
		}
		fn(rh, offset)
		offset = recEnd
	}
}
