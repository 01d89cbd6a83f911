package group

import (
	"sort"

	"github.com/slfx77/esm360/internal/cvindex"
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/outbuf"
)

type gridKey struct {
	x, y int32
}

// WriteExteriorWorld implements spec §4.7 "Exterior cells (per world)":
// GRUP(1, world FormID) containing 32x32 blocks (ordered y,x), each
// containing 8x8 sub-blocks (ordered y,x), each containing its cells
// (ordered y,x,FormID) followed by their cell-children groups.
func (b *Builder) WriteExteriorWorld(out *outbuf.Writer, world cvindex.WorldRef, cells []cvindex.CellEntry) {
	worldPos := b.writeGroup(out, formIDLabel(world.FormID), uint32(format.GroupWorldChildren))

	byBlock := make(map[gridKey][]cvindex.CellEntry)
	for _, c := range cells {
		k := gridKey{x: floorDiv(c.GridX, 32), y: floorDiv(c.GridY, 32)}
		byBlock[k] = append(byBlock[k], c)
	}
	for _, blk := range sortedGridKeys(byBlock) {
		blockPos := b.writeGroup(out, packGridLabel(blk.x, blk.y), uint32(format.GroupExteriorCellBlock))

		bySub := make(map[gridKey][]cvindex.CellEntry)
		for _, c := range byBlock[blk] {
			k := gridKey{x: floorDiv(c.GridX, 8), y: floorDiv(c.GridY, 8)}
			bySub[k] = append(bySub[k], c)
		}
		for _, sub := range sortedGridKeys(bySub) {
			subPos := b.writeGroup(out, packGridLabel(sub.x, sub.y), uint32(format.GroupExteriorCellSubBlock))

			group := dedupLowestFormIDPerGrid(bySub[sub])
			sort.Slice(group, func(i, j int) bool {
				if group[i].GridY != group[j].GridY {
					return group[i].GridY < group[j].GridY
				}
				if group[i].GridX != group[j].GridX {
					return group[i].GridX < group[j].GridX
				}
				return group[i].FormID < group[j].FormID
			})
			for _, cell := range group {
				b.writeCellAndChildren(out, cell)
			}

			out.FinalizeGroup(subPos)
		}
		out.FinalizeGroup(blockPos)
	}

	out.FinalizeGroup(worldPos)
	b.Stats.WorldspacesRebuilt++
}

// dedupLowestFormIDPerGrid implements spec §4.11's tie-break rule: when
// more than one cell occupies the same grid coordinate, only the lowest
// FormID survives.
func dedupLowestFormIDPerGrid(cells []cvindex.CellEntry) []cvindex.CellEntry {
	best := make(map[gridKey]cvindex.CellEntry)
	for _, c := range cells {
		k := gridKey{x: c.GridX, y: c.GridY}
		if cur, ok := best[k]; !ok || c.FormID < cur.FormID {
			best[k] = c
		}
	}
	out := make([]cvindex.CellEntry, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	return out
}

func sortedGridKeys(m map[gridKey][]cvindex.CellEntry) []gridKey {
	keys := make([]gridKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].y != keys[j].y {
			return keys[i].y < keys[j].y
		}
		return keys[i].x < keys[j].x
	})
	return keys
}
