package esm

import (
	"github.com/slfx77/esm360/internal/convstats"
	"github.com/slfx77/esm360/internal/cvindex"
	"github.com/slfx77/esm360/internal/format"
	"github.com/slfx77/esm360/internal/group"
	"github.com/slfx77/esm360/internal/ofst"
	"github.com/slfx77/esm360/internal/outbuf"
	"github.com/slfx77/esm360/internal/recordio"
	"github.com/slfx77/esm360/internal/schema"
)

// frame tracks one still-open PC-side GRUP: where its header landed in the
// output, and the input offset (exclusive) its source group's contents end
// at (spec §4.9's "(output_header_pos, input_group_end)" stack).
type frame struct {
	headerPos     int64
	inputGroupEnd int64
}

// Convert implements spec §4.9 end to end: detects the input, builds the
// ConversionIndex (C8), drives the main GRUP-stack loop emitting records
// (C6) and reconstructed hierarchies (C7), then runs the OFST rebuild
// post-pass (C10).
func Convert(input []byte, opts *Options) (output []byte, stats Stats, err error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	applyVerbose(opts.Verbose)

	if !detectBigEndian(input) {
		return nil, Stats{}, ErrFormatMismatch
	}
	debugf("detected big-endian Xbox ESM", "bytes", len(input))

	idx := cvindex.Build(input)
	debugf("index built", "worlds", len(idx.Worlds), "cells", len(idx.Cells))

	st := &convstats.Stats{
		WorldsIndexed: len(idx.Worlds),
		CellsIndexed:  len(idx.Cells),
	}

	rw := recordio.New(schema.Default(), opts.StrictSchema, st)
	rw.PrepareInfoMerge(input)
	gb := group.New(idx, input, rw, st)

	out := outbuf.New()

	offset, _ := rw.WriteRecord(input, 0, out) // TES4, written first (spec §4.9)

	var stack []frame
	n := int64(len(input))
	wroteWorlds := false
	wroteInterior := false
	unrecoverable := false

	for offset < n {
		for len(stack) > 0 && offset >= stack[len(stack)-1].inputGroupEnd {
			out.FinalizeGroup(stack[len(stack)-1].headerPos)
			stack = stack[:len(stack)-1]
		}

		if offset+4 > n {
			break
		}
		sig := sigAt(input, offset)
		atTop := len(stack) == 0

		if atTop && sig == format.TOFTSignature {
			offset = skipTOFTRun(input, offset, st)
			continue
		}

		if !format.SignatureValid(sig) && sig != format.GRUPSignature {
			next, found := resync(input, offset)
			st.Resyncs++
			if !found {
				unrecoverable = true
				break
			}
			offset = next
			continue
		}

		if sig == format.GRUPSignature {
			if offset+format.GroupHeaderSize > n {
				break
			}
			gh := format.ReadGroupHeaderBE(input, int(offset))
			groupEnd := offset + int64(gh.TotalSize)
			if gh.TotalSize < format.GroupHeaderSize || groupEnd > n {
				next, found := resync(input, offset)
				st.Resyncs++
				if !found {
					unrecoverable = true
					break
				}
				offset = next
				continue
			}

			if atTop && gh.GroupType == uint32(format.GroupTopLevel) && format.ReverseSignature(gh.LabelSig()) == format.WRLDSignature {
				if !wroteWorlds {
					gb.WriteWorldspaces(out)
					wroteWorlds = true
				}
				offset = groupEnd
				continue
			}
			if atTop && gh.GroupType == uint32(format.GroupTopLevel) && format.ReverseSignature(gh.LabelSig()) == format.CELLSignature {
				if !wroteInterior {
					gb.WriteInteriorTopLevel(out)
					wroteInterior = true
				}
				offset = groupEnd
				continue
			}
			if atTop && format.GroupType(gh.GroupType).IsNestedOnly() {
				st.GroupsDroppedNestedDup++
				offset = groupEnd
				continue
			}

			// Top-level labels are record signatures and, like any other
			// signature on Xbox disk, are stored byte-reversed; every other
			// group type's label is a packed grid/FormID value (spec §4.1).
			label := gh.Label
			if gh.GroupType == uint32(format.GroupTopLevel) {
				label = format.ReverseSignature(gh.Label)
			} else {
				label = format.ReinterpretLabelLE(gh.Label)
			}
			headerPos := out.WriteGroupHeader(label, gh.GroupType, gh.Stamp, gh.Unknown)
			st.GroupsWritten++
			stack = append(stack, frame{headerPos: headerPos, inputGroupEnd: groupEnd})
			offset += format.GroupHeaderSize
			continue
		}

		if atTop {
			// Top-level non-GRUP record outside the reconstructed
			// hierarchies: an Xbox streaming duplicate (spec §4.9 step 4).
			if offset+format.RecordHeaderSize > n {
				break
			}
			h := format.ReadRecordHeaderBE(input, int(offset))
			next := offset + int64(format.RecordHeaderSize) + int64(h.DataSize)
			if next <= offset || next > n {
				resynced, found := resync(input, offset)
				st.Resyncs++
				if !found {
					unrecoverable = true
					break
				}
				offset = resynced
				continue
			}
			st.RecordsSkippedDup++
			offset = next
			continue
		}

		next, _ := rw.WriteRecord(input, offset, out)
		if next <= offset {
			resynced, found := resync(input, offset)
			st.Resyncs++
			if !found {
				unrecoverable = true
				break
			}
			offset = resynced
			continue
		}
		offset = next
	}

	for len(stack) > 0 {
		out.FinalizeGroup(stack[len(stack)-1].headerPos)
		stack = stack[:len(stack)-1]
	}

	result := out.Bytes()
	ofst.Rebuild(result, idx)
	debugf("ofst rebuild complete", "worlds_rebuilt", st.WorldspacesRebuilt)

	if unrecoverable {
		return result, *st, ErrUnrecoverable
	}
	return result, *st, nil
}

// skipTOFTRun implements spec §4.9 step 2: from a top-level TOFT marker,
// skip every non-GRUP record forward until the next GRUP (or EOF).
func skipTOFTRun(input []byte, offset int64, st *convstats.Stats) int64 {
	n := int64(len(input))
	for offset+4 <= n {
		if sigAt(input, offset) == format.GRUPSignature {
			return offset
		}
		if offset+format.RecordHeaderSize > n {
			return n
		}
		h := format.ReadRecordHeaderBE(input, int(offset))
		next := offset + int64(format.RecordHeaderSize) + int64(h.DataSize)
		if next <= offset || next > n {
			return n
		}
		st.TOFTSkipped++
		offset = next
	}
	return n
}

// resync implements spec §7's ResyncableCorruption recovery: linearly scan
// forward for the next literal "GRUP" signature.
func resync(input []byte, offset int64) (next int64, found bool) {
	n := int64(len(input))
	for p := offset + 1; p+4 <= n; p++ {
		if sigAt(input, p) == format.GRUPSignature {
			return p, true
		}
	}
	return n, false
}

// sigAt reads the 4-byte tag at offset and un-reverses it, so the result is
// always in canonical order regardless of which on-disk marker it is.
func sigAt(input []byte, offset int64) [4]byte {
	if offset < 0 || offset+4 > int64(len(input)) {
		return [4]byte{}
	}
	return format.ReverseSignature([4]byte{input[offset], input[offset+1], input[offset+2], input[offset+3]})
}
