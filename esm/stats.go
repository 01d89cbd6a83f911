package esm

import "github.com/slfx77/esm360/internal/convstats"

// Stats is convstats.Stats at the public boundary; it lives in its own
// low-level package purely to break an import cycle (internal/reccompress,
// internal/recordio, and internal/group all need to increment counters
// without importing this package).
type Stats = convstats.Stats
