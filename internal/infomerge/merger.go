package infomerge

// Merger scans every INFO record once to pair bases with responses by
// FormID, then answers the RecordWriter's per-record question (spec §4.6
// step 5): does this offset get merged data, get skipped as the consumed
// half of a pair, or fall through to the ordinary single-record path?
type Merger struct {
	mergedAtOffset map[int64][]Subrecord // base offset -> merged subrecord stream
	skipOffset     map[int64]bool        // response offset -> skip entirely
}

// NewMerger builds the pairing index from every INFO record encountered in
// a single pass over the input (spec §4.5 "Pairing"). records need not be
// in any particular order relative to each other, but within a FormID group
// the lowest-offset base/response pair is the one merged.
func NewMerger(records []Record) *Merger {
	m := &Merger{
		mergedAtOffset: make(map[int64][]Subrecord),
		skipOffset:     make(map[int64]bool),
	}

	byFormID := make(map[int64][]Record)
	order := make([]int64, 0)
	for _, r := range records {
		if _, ok := byFormID[r.FormID]; !ok {
			order = append(order, r.FormID)
		}
		byFormID[r.FormID] = append(byFormID[r.FormID], r)
	}

	for _, formID := range order {
		group := byFormID[formID]
		if len(group) < 2 {
			continue
		}
		base, response, ok := selectPair(group)
		if !ok {
			continue
		}
		m.mergedAtOffset[base.Offset] = Merge(base.Subs, response.Subs)
		m.skipOffset[response.Offset] = true
	}

	return m
}

// selectPair picks the lowest-offset base and lowest-offset response from a
// FormID group; only one merge pair is produced per FormID even if more
// than two records share it.
func selectPair(group []Record) (base, response Record, ok bool) {
	var haveBase, haveResponse bool
	for _, r := range group {
		switch Classify(r.Subs) {
		case ClassBase:
			if !haveBase || r.Offset < base.Offset {
				base = r
				haveBase = true
			}
		case ClassResponse:
			if !haveResponse || r.Offset < response.Offset {
				response = r
				haveResponse = true
			}
		}
	}
	return base, response, haveBase && haveResponse
}

// MergeResult is what TryMerge reports for one INFO record's offset.
type MergeResult int

const (
	// NoMerge means this record is unpaired; the caller should run
	// ReorderInfoSubrecords on its own subrecords and emit it as-is.
	NoMerge MergeResult = iota
	// Merged means data holds the full merged subrecord stream to emit in
	// place of this record.
	Merged
	// Skip means this record is the consumed half of a pair and produces
	// no output at all.
	Skip
)

// TryMerge answers spec §4.6 step 5 for the record at offset.
func (m *Merger) TryMerge(offset int64) (data []Subrecord, result MergeResult) {
	if m.skipOffset[offset] {
		return nil, Skip
	}
	if merged, ok := m.mergedAtOffset[offset]; ok {
		return merged, Merged
	}
	return nil, NoMerge
}
