// Package cvindex implements spec §4.8 IndexBuilder: a three-phase scan of
// the Xbox-side input that reconstructs the hierarchy (worlds, cells,
// scattered cell-children groups) the console layout has flattened and
// scattered, so the converter can rebuild the PC-canonical tree from it.
package cvindex

import "github.com/slfx77/esm360/internal/format"

// WorldRef is one WRLD record's identity and source position.
type WorldRef struct {
	FormID uint32
	Offset int64
}

// CellEntry is one CELL record's identity, position, and (for exterior
// cells) grid placement, per spec §3's ConversionIndex CellEntry.
type CellEntry struct {
	FormID     uint32
	Offset     int64
	Flags      uint32
	DataSize   uint32
	IsExterior bool
	GridX      int32
	GridY      int32
	WorldID    uint32 // only meaningful when IsExterior
}

// GrupEntry is one scattered cell-children GRUP's position, kept so
// internal/group can later merge every instance discovered for a cell.
type GrupEntry struct {
	Type   uint32
	Label  uint32
	Offset int64
	Size   uint32
}

type cellChildKey struct {
	CellFormID uint32
	GroupType  uint32
}

// Index is the ConversionIndex of spec §3: built once from the immutable
// input, then queried read-only for the rest of the conversion.
type Index struct {
	Worlds          []WorldRef
	Cells           map[uint32]CellEntry
	ExteriorByWorld map[uint32][]CellEntry
	Interior        []CellEntry
	CellChildren    map[cellChildKey][]GrupEntry
}

func newIndex() *Index {
	return &Index{
		Cells:           make(map[uint32]CellEntry),
		ExteriorByWorld: make(map[uint32][]CellEntry),
		CellChildren:    make(map[cellChildKey][]GrupEntry),
	}
}

func (idx *Index) addCell(e CellEntry) {
	if _, exists := idx.Cells[e.FormID]; exists {
		return
	}
	idx.Cells[e.FormID] = e
	if e.IsExterior {
		idx.ExteriorByWorld[e.WorldID] = append(idx.ExteriorByWorld[e.WorldID], e)
	} else {
		idx.Interior = append(idx.Interior, e)
	}
}

func (idx *Index) addCellChild(cellFormID, groupType uint32, offset int64, size uint32) {
	key := cellChildKey{CellFormID: cellFormID, GroupType: groupType}
	for _, e := range idx.CellChildren[key] {
		if e.Offset == offset {
			return
		}
	}
	idx.CellChildren[key] = append(idx.CellChildren[key], GrupEntry{
		Type: groupType, Label: cellFormID, Offset: offset, Size: size,
	})
}

// cellChildGroupTypes lists the three group types that carry a cell's
// children (persistent/temporary/visible-when-distant, spec §3).
var cellChildGroupTypes = []uint32{
	uint32(format.GroupCellPersistent),
	uint32(format.GroupCellTemporary),
	uint32(format.GroupCellVisibleDistant),
}

// CellChildrenFor returns every discovered cell-children GRUP for cellFormID,
// keyed by group type, for internal/group to merge (spec §4.7 "Cell
// children").
func (idx *Index) CellChildrenFor(cellFormID uint32) map[uint32][]GrupEntry {
	out := make(map[uint32][]GrupEntry)
	for _, t := range cellChildGroupTypes {
		key := cellChildKey{CellFormID: cellFormID, GroupType: t}
		if entries, ok := idx.CellChildren[key]; ok {
			out[t] = entries
		}
	}
	return out
}
