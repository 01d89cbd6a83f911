// Package group implements spec §4.7 GroupWriter: the high-level PC-side
// GRUP hierarchy builders (interior cell blocks/sub-blocks, exterior cell
// blocks/sub-blocks per world, and cell-children merging) built on top of
// internal/outbuf's low-level write_grup_header/finalize_grup pair.
package group

import (
	"sort"

	"github.com/slfx77/esm360/internal/convstats"
	"github.com/slfx77/esm360/internal/cvindex"
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/outbuf"
	"github.com/slfx77/esm360/internal/recordio"
)

// Builder synthesizes PC-canonical GRUP trees from a ConversionIndex,
// reading cell/record bytes out of the immutable Xbox input and writing
// their converted form through a shared recordio.Writer.
type Builder struct {
	Index   *cvindex.Index
	Input   []byte
	Records *recordio.Writer
	Stats   *convstats.Stats
}

// New creates a Builder.
func New(idx *cvindex.Index, input []byte, records *recordio.Writer, stats *convstats.Stats) *Builder {
	return &Builder{Index: idx, Input: input, Records: records, Stats: stats}
}

// floorDiv is Euclidean division: for negative numerators it rounds toward
// negative infinity, so floorDiv(-1, 32) == -1 rather than 0 (spec §4.7).
func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func smallIntLabel(n uint32) [4]byte {
	var out [4]byte
	format.PutU32LE(out[:], 0, n)
	return out
}

func formIDLabel(id uint32) [4]byte {
	var out [4]byte
	format.PutU32LE(out[:], 0, id)
	return out
}

// packGridLabel packs two signed 16-bit block/sub-block coordinates into a
// little-endian u32 label: (x_lo << 0) | (y_lo << 16) (spec §4.7).
func packGridLabel(x, y int32) [4]byte {
	v := uint32(uint16(int16(x))) | uint32(uint16(int16(y)))<<16
	var out [4]byte
	format.PutU32LE(out[:], 0, v)
	return out
}

// WriteWorldspaces emits one top-level GRUP(type=0, label="WRLD") per
// indexed world, each containing that world's WRLD record followed by its
// GRUP(type=1) exterior cell hierarchy (spec §4.7, §4.9 step 5 "WRLD
// top-level reconstruction"). The driver calls this once, on the first
// top-level WRLD-labeled group it sees, and drops every subsequent one as
// an already-reconstructed Xbox duplicate.
func (b *Builder) WriteWorldspaces(out *outbuf.Writer) {
	for _, w := range b.Index.Worlds {
		pos := b.writeGroup(out, format.WRLDSignature, uint32(format.GroupTopLevel))
		b.Records.WriteRecord(b.Input, w.Offset, out)
		b.WriteExteriorWorld(out, w, b.Index.ExteriorByWorld[w.FormID])
		out.FinalizeGroup(pos)
	}
}

// WriteInteriorTopLevel emits the single top-level GRUP(type=0,
// label="CELL") wrapping the full interior-cell block/sub-block hierarchy
// (spec §4.7, §4.9's symmetric "CELL top-level reconstruction"). The
// driver calls this once, on the first top-level CELL-labeled group it
// sees.
func (b *Builder) WriteInteriorTopLevel(out *outbuf.Writer) {
	pos := b.writeGroup(out, format.CELLSignature, uint32(format.GroupTopLevel))
	b.WriteInteriorCells(out, b.Index.Interior)
	out.FinalizeGroup(pos)
}

func (b *Builder) writeGroup(out *outbuf.Writer, label [4]byte, groupType uint32) int64 {
	pos := out.WriteGroupHeader(label, groupType, 0, 0)
	b.Stats.GroupsWritten++
	return pos
}

// writeCellAndChildren emits one cell record followed by its merged
// cell-children wrapper group, if it has any (spec §4.7 "followed by its
// cell-children group").
func (b *Builder) writeCellAndChildren(out *outbuf.Writer, cell cvindex.CellEntry) {
	_, wrote := b.Records.WriteRecord(b.Input, cell.Offset, out)
	if !wrote {
		return
	}
	b.writeCellChildren(out, cell.FormID)
}

// writeCellChildren implements spec §4.7 "Cell children": up to three
// merged inner groups (types 8, 9, 10 in that order), each the
// concatenation of every source GrupEntry found for that type, wrapped in
// one type-6 group labeled with the cell's FormID.
func (b *Builder) writeCellChildren(out *outbuf.Writer, cellFormID uint32) {
	children := b.Index.CellChildrenFor(cellFormID)
	if len(children) == 0 {
		return
	}

	wrapperPos := b.writeGroup(out, formIDLabel(cellFormID), uint32(format.GroupCellChildren))
	for _, t := range []uint32{
		uint32(format.GroupCellPersistent),
		uint32(format.GroupCellTemporary),
		uint32(format.GroupCellVisibleDistant),
	} {
		entries := children[t]
		if len(entries) == 0 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Offset < entries[j].Offset })

		innerPos := b.writeGroup(out, formIDLabel(cellFormID), t)
		for _, e := range entries {
			b.copyGroupRange(out, e.Offset+format.GroupHeaderSize, e.Offset+int64(e.Size))
		}
		out.FinalizeGroup(innerPos)
	}
	out.FinalizeGroup(wrapperPos)
}

// copyGroupRange re-emits the converted contents of a source group body
// [start, end), the "recursive range walker that handles nested groups and
// records with the same rules as the main loop" spec §4.7 calls for. It is
// iterative (an explicit stack, not recursion) for the same reason the
// main driver's GRUP walk is (spec §9).
func (b *Builder) copyGroupRange(out *outbuf.Writer, start, end int64) {
	type frame struct {
		headerPos int64
		inputEnd  int64
	}
	var stack []frame
	offset := start
	n := int64(len(b.Input))
	if end > n {
		end = n
	}

	for offset < end {
		for len(stack) > 0 && offset >= stack[len(stack)-1].inputEnd {
			out.FinalizeGroup(stack[len(stack)-1].headerPos)
			stack = stack[:len(stack)-1]
		}

		if offset+4 > end {
			break
		}
		sig := sigAt(b.Input, offset)

		if sig == format.GRUPSignature {
			if offset+format.GroupHeaderSize > end {
				break
			}
			gh := format.ReadGroupHeaderBE(b.Input, int(offset))
			groupEnd := offset + int64(gh.TotalSize)
			if gh.TotalSize < format.GroupHeaderSize || groupEnd > end {
				break
			}
			label := gh.Label
			if gh.GroupType == uint32(format.GroupTopLevel) {
				label = format.ReverseSignature(gh.Label)
			} else {
				label = format.ReinterpretLabelLE(gh.Label)
			}
			headerPos := b.writeGroup(out, label, gh.GroupType)
			stack = append(stack, frame{headerPos: headerPos, inputEnd: groupEnd})
			offset += format.GroupHeaderSize
			continue
		}

		if offset+format.RecordHeaderSize > end {
			break
		}
		next, _ := b.Records.WriteRecord(b.Input, offset, out)
		if next <= offset {
			break
		}
		offset = next
	}

	for len(stack) > 0 {
		out.FinalizeGroup(stack[len(stack)-1].headerPos)
		stack = stack[:len(stack)-1]
	}
}

func sigAt(input []byte, offset int64) [4]byte {
	if offset < 0 || offset+4 > int64(len(input)) {
		return [4]byte{}
	}
	return format.ReverseSignature([4]byte{input[offset], input[offset+1], input[offset+2], input[offset+3]})
}
