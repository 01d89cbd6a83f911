package esm

// Options configures Convert (mirrors hivekit's hive/builder.Options: a
// plain struct of directly-settable fields plus a DefaultOptions
// constructor, no functional-options indirection).
type Options struct {
	// Verbose toggles debug logging of conversion milestones through the
	// package logger. The core never depends on logged output for
	// correctness (spec §6).
	Verbose bool

	// StrictSchema fails a record's conversion outright on the first
	// unknown subrecord instead of passing it through unchanged (spec
	// §4.3 "a strict diagnostic mode may fail-fast").
	StrictSchema bool
}

// DefaultOptions returns the recommended options for general-purpose
// conversion: permissive schema handling, quiet logging.
func DefaultOptions() *Options {
	return &Options{
		Verbose:      false,
		StrictSchema: false,
	}
}
