package schema

import "github.com/slfx77/esm360/internal/format"

// applyOverride implements the nine special-cased subrecord layouts from
// spec §4.3. Each exists because the field is stored in a non-uniform Xbox
// layout that a generic schema field would corrupt. Overrides run before
// registry lookup and, when one matches, replace it entirely.
//
// Returns (converted, true) when an override applied, or (nil, false) to
// fall through to the normal schema/fallback path.
func applyOverride(sig, rec [4]byte, data []byte) ([]byte, bool) {
	sigStr, recStr := string(sig[:]), string(rec[:])
	n := len(data)

	switch {
	case sigStr == "PKDT" && n == 12:
		return overridePKDT(data), true

	case sigStr == "DATA" && recStr == "PERK" && n == 5:
		// Flags/type u32 is already correctly ordered by the time it
		// reaches here relative to the 5th byte: PC uses a 4-byte DATA
		// when the trailing byte is zero.
		if data[4] == 0x00 {
			return append([]byte(nil), data[:4]...), true
		}
		return nil, false

	case sigStr == "DATA" && recStr == "PERK" && n == 8:
		out := append([]byte(nil), data...)
		format.Swap4(out, 0)
		return out, true

	case sigStr == "DATA" && recStr == "IDLE" && n == 8:
		return append([]byte(nil), data[:6]...), true

	case sigStr == "DNAM" && recStr == "IMAD" && n == 244:
		return overrideIMADDNAM(data), true

	case sigStr == "INAM" && recStr == "WTHR" && n == 304:
		return overrideWTHRINAM(data), true

	case sigStr == "TNAM" && recStr == "NOTE" && n == 4:
		out := append([]byte(nil), data...)
		format.Swap4(out, 0)
		return out, true

	case sigStr == "NVTR" && recStr == "NAVM":
		return overrideNVTR(data), true

	case sigStr == "NVDP" && recStr == "NAVM":
		return overrideNVDP(data), true
	}

	return nil, false
}

// overridePKDT swaps byte 0 with byte 3 (flags/type are interleaved), then
// swaps the three u16 fields at offsets 1, 6, 8.
func overridePKDT(data []byte) []byte {
	out := append([]byte(nil), data...)
	out[0], out[3] = out[3], out[0]
	format.Swap2(out, 1)
	format.Swap2(out, 6)
	format.Swap2(out, 8)
	return out
}

// overrideIMADDNAM skips bytes 0-3 (already little-endian) and swaps the
// remaining 60 u32s.
func overrideIMADDNAM(data []byte) []byte {
	out := append([]byte(nil), data...)
	for off := 4; off+4 <= len(out); off += 4 {
		format.Swap4(out, off)
	}
	return out
}

// overrideWTHRINAM swaps u32s in [0,84) and [100,128), skips [84,100)
// (already little-endian), swaps single u32s at 152 and 208, and leaves
// everything else (the zero-padding regions) untouched.
func overrideWTHRINAM(data []byte) []byte {
	out := append([]byte(nil), data...)
	for off := 0; off+4 <= 84; off += 4 {
		format.Swap4(out, off)
	}
	for off := 100; off+4 <= 128; off += 4 {
		format.Swap4(out, off)
	}
	if len(out) >= 156 {
		format.Swap4(out, 152)
	}
	if len(out) >= 212 {
		format.Swap4(out, 208)
	}
	return out
}

// overrideNVTR swaps each 16-byte navmesh triangle's u16 fields, then swaps
// the positions of the two trailing u16 fields: Xbox stores
// (CoverFlags, Flags), PC stores (Flags, CoverFlags).
func overrideNVTR(data []byte) []byte {
	const triangleSize = 16
	out := append([]byte(nil), data...)
	for base := 0; base+triangleSize <= len(out); base += triangleSize {
		for off := base; off+2 <= base+triangleSize; off += 2 {
			format.Swap2(out, off)
		}
		coverFlagsOff := base + triangleSize - 4
		flagsOff := base + triangleSize - 2
		out[coverFlagsOff], out[coverFlagsOff+1], out[flagsOff], out[flagsOff+1] =
			out[flagsOff], out[flagsOff+1], out[coverFlagsOff], out[coverFlagsOff+1]
	}
	return out
}

// overrideNVDP swaps the FormID and u16 triangle index of each 8-byte entry
// and zeroes the trailing two bytes (Xbox-only payload with no PC
// equivalent).
func overrideNVDP(data []byte) []byte {
	const entrySize = 8
	out := append([]byte(nil), data...)
	for base := 0; base+entrySize <= len(out); base += entrySize {
		format.Swap4(out, base)
		format.Swap2(out, base+4)
		out[base+6] = 0
		out[base+7] = 0
	}
	return out
}
