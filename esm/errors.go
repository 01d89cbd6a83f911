package esm

import "errors"

// Error taxonomy per spec §7. ResyncableCorruption and SchemaMiss never
// surface as returned errors — they are forward-progress diagnostics
// folded into Stats instead (resyncs, unknown subrecords). Only the two
// fail-fast/fail-clean cases are errors.Is-able sentinels.
var (
	// ErrFormatMismatch means the input does not look like big-endian
	// Xbox-side ESM data (spec §6's detection via TES4's HEDR version
	// field, or the idempotence check of testable property 3).
	ErrFormatMismatch = errors.New("esm: input is not a big-endian Xbox ESM")

	// ErrUnrecoverable means resync failed to find another GRUP after a
	// corruption point; conversion stopped at the last good boundary and
	// whatever was already written remains valid, but the result is
	// incomplete.
	ErrUnrecoverable = errors.New("esm: unrecoverable corruption, no further GRUP found")
)
