package group

import (
	"sort"

	"github.com/slfx77/esm360/internal/cvindex"
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/outbuf"
)

type interiorKey struct {
	block, sub uint32
}

// WriteInteriorCells implements spec §4.7 "Interior cells": block
// `(form_id & 0xFFF) % 10`, sub-block `form_id % 10`, GRUP(2) > GRUP(3) >
// cell + children. cells need not be pre-sorted; this groups and orders
// them deterministically by (block, sub-block, FormID).
func (b *Builder) WriteInteriorCells(out *outbuf.Writer, cells []cvindex.CellEntry) {
	byKey := make(map[interiorKey][]cvindex.CellEntry)
	for _, c := range cells {
		k := interiorKey{block: (c.FormID & 0xFFF) % 10, sub: c.FormID % 10}
		byKey[k] = append(byKey[k], c)
	}
	if len(byKey) == 0 {
		return
	}

	blocks := make(map[uint32][]uint32)
	for k := range byKey {
		blocks[k.block] = append(blocks[k.block], k.sub)
	}
	blockIDs := make([]uint32, 0, len(blocks))
	for blk := range blocks {
		blockIDs = append(blockIDs, blk)
	}
	sort.Slice(blockIDs, func(i, j int) bool { return blockIDs[i] < blockIDs[j] })

	for _, blk := range blockIDs {
		blockPos := b.writeGroup(out, smallIntLabel(blk), uint32(format.GroupInteriorCellBlock))

		subs := blocks[blk]
		sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })
		for _, sub := range subs {
			subPos := b.writeGroup(out, smallIntLabel(sub), uint32(format.GroupInteriorCellSubBlock))

			group := byKey[interiorKey{block: blk, sub: sub}]
			sort.Slice(group, func(i, j int) bool { return group[i].FormID < group[j].FormID })
			for _, cell := range group {
				b.writeCellAndChildren(out, cell)
			}

			out.FinalizeGroup(subPos)
		}
		out.FinalizeGroup(blockPos)
	}
}
