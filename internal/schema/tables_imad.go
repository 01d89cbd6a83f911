package schema

// IMAD (Image Space Adapter) records are almost entirely float arrays with
// two closed-set exceptions: EDID (the editor ID string) and the handful of
// "*IAD" keyframe-array subrecords, which are (time:u32, value:float) pairs
// rather than bare floats (spec §4.2 lookup step 1).
func imadSchema(sig [4]byte, length int) (Schema, bool) {
	sigStr := string(sig[:])
	switch sigStr {
	case "EDID":
		return Schema{Sentinel: SentinelString}, true
	case "DNAM":
		// DNAM carries IMAD's scalar parameter block; handled by the
		// dedicated DNAM/244 override in overrides.go when it matches
		// that exact shape, otherwise treat it as a float array like the
		// rest of IMAD's fields.
		if length == 244 {
			return Schema{}, false // defer to the special override
		}
		return Schema{Sentinel: SentinelFloatArray}, true
	}
	if len(sigStr) == 4 && sigStr[1:] == "IAD" {
		return Schema{
			Fields: []Field{
				{Name: "keytime", Type: UInt32},
				{Name: "value", Type: Float},
			},
			ExpectedSize: -1,
		}, true
	}
	// Everything else in an IMAD record is a float array.
	return Schema{Sentinel: SentinelFloatArray}, true
}
