// Package recordio implements spec §4.6 RecordWriter: converting one
// source record at a time into its PC byte-order equivalent, dispatching
// to internal/reccompress for compressed bodies and internal/infomerge for
// INFO base/response pairs.
package recordio

import (
	"github.com/slfx77/esm360/internal/convstats"
	"github.com/slfx77/esm360/internal/infomerge"
	"github.com/slfx77/esm360/internal/schema"
)

// Writer holds the read-only state shared by every record conversion in
// one pass: the schema registry, the strictness flag, and the stats sink.
// Mirrors internal/reccompress's shape of taking Stats as an explicit
// pointer rather than package state (spec §9 "mutable shared stats").
type Writer struct {
	Registry *schema.Registry
	Strict   bool
	Stats    *convstats.Stats

	merger     *infomerge.Merger
	infoSubsAt map[int64][]infomerge.Subrecord
}

// New creates a Writer. PrepareInfoMerge must be called once before the
// first WriteRecord call that might encounter an INFO record.
func New(reg *schema.Registry, strict bool, stats *convstats.Stats) *Writer {
	return &Writer{Registry: reg, Strict: strict, Stats: stats}
}

// PrepareInfoMerge scans the whole input once for every INFO record (spec
// §4.5 "Pairing"), builds the FormID pairing index, and caches each
// record's own converted subrecords so the unpaired (NoMerge) path in
// WriteRecord never has to decompress and walk the same bytes twice.
func (w *Writer) PrepareInfoMerge(input []byte) {
	records := w.ScanInfoRecords(input)
	w.infoSubsAt = make(map[int64][]infomerge.Subrecord, len(records))
	for _, r := range records {
		w.infoSubsAt[r.Offset] = r.Subs
	}
	w.merger = infomerge.NewMerger(records)
}
