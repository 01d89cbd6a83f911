// Package convstats holds the conversion pipeline's counters. Spec §9
// calls out that the source's mutable shared stats object must not become
// hidden global state if multiple conversions run concurrently; Stats is
// therefore always passed explicitly, one instance per call to
// esm.Convert, the way internal/repair.EngineResult and
// hive/merge.StorageStats are threaded through hivekit's pipelines.
package convstats

import "fmt"

// Stats accumulates the forward-progress counters named in spec §7: every
// top-level increment call mutates one Stats value owned by a single
// conversion. It is not safe for concurrent use by multiple goroutines
// converting into the same Stats; each conversion owns its own value.
type Stats struct {
	RecordsConverted       int
	RecordsSkippedDup      int // top-level Xbox duplicate records dropped
	TOFTSkipped            int
	GroupsWritten          int
	GroupsDroppedNestedDup int // nested-only group types seen at top level
	InfoMerged             int
	InfoReordered          int // second-form INFO subrecord reorder/strip
	CompressedRecords      int
	DecompressionFailures  int
	Resyncs                int
	UnknownSubrecords      int
	WorldspacesRebuilt     int
	CellsIndexed           int
	WorldsIndexed          int
	OFSTBytesStripped      int // WRLD's own Xbox OFST subrecord, dropped before rebuild
	RecordTypeCounts       map[string]int
}

// CountRecordType increments the per-signature record count, allocating
// the map on first use (spec §4.6 step 2 "increment the record-type
// count").
func (s *Stats) CountRecordType(sig [4]byte) {
	if s.RecordTypeCounts == nil {
		s.RecordTypeCounts = make(map[string]int)
	}
	s.RecordTypeCounts[string(sig[:])]++
}

// Report renders a short human-readable summary, the concrete default for
// the externally-formatted "stats reporter" collaborator named in spec §6.
func (s Stats) Report() string {
	return fmt.Sprintf(
		"records converted: %d (skipped duplicates: %d, TOFT skipped: %d, distinct types: %d)\n"+
			"groups written: %d (dropped nested duplicates: %d)\n"+
			"INFO records merged: %d, reordered: %d\n"+
			"compressed records: %d (decompression failures: %d)\n"+
			"resyncs: %d, unknown subrecords: %d, WRLD OFST bytes stripped: %d\n"+
			"worldspaces rebuilt: %d (worlds indexed: %d, cells indexed: %d)",
		s.RecordsConverted, s.RecordsSkippedDup, s.TOFTSkipped, len(s.RecordTypeCounts),
		s.GroupsWritten, s.GroupsDroppedNestedDup,
		s.InfoMerged, s.InfoReordered,
		s.CompressedRecords, s.DecompressionFailures,
		s.Resyncs, s.UnknownSubrecords, s.OFSTBytesStripped,
		s.WorldspacesRebuilt, s.WorldsIndexed, s.CellsIndexed,
	)
}
