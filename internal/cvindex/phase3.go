package cvindex

import "github.com/slfx77/esm360/internal/format"

// scanComprehensive implements spec §4.8 Phase 3: a linear byte-by-byte
// scan for every GRUP signature in the file, catching cell-children groups
// scattered in regions the first two phases never visited. Entries already
// known at a given offset are skipped (addCellChild already dedups by
// offset, this avoids the work of re-decoding them).
func scanComprehensive(input []byte, idx *Index) {
	n := int64(len(input))
	known := make(map[int64]bool)
	for _, entries := range idx.CellChildren {
		for _, e := range entries {
			known[e.Offset] = true
		}
	}

	for offset := int64(0); offset+4 <= n; offset++ {
		if sigAt(input, offset) != format.GRUPSignature {
			continue
		}
		if known[offset] || offset+format.GroupHeaderSize > n {
			continue
		}
		gh := format.ReadGroupHeaderBE(input, int(offset))
		if gh.TotalSize < format.GroupHeaderSize || offset+int64(gh.TotalSize) > n {
			continue
		}
		if !isCellChildGroupType(gh.GroupType) {
			continue
		}
		idx.addCellChild(gh.LabelU32BE(), gh.GroupType, offset, gh.TotalSize)
		known[offset] = true
	}
}
