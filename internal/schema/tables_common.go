package schema

// entry3/entry2/entrySize/entrySig are the literal rows of the declarative
// schema table (spec §9 "render the schema registry as a static, immutable
// data table"). They exist only to make the table below readable; Registry
// flattens them into lookup maps at construction time.
type entry3 struct {
	sig, rec string
	length   int
	schema   Schema
}

type entry2 struct {
	sig, rec string
	schema   Schema
}

type entrySize struct {
	sig    string
	length int
	schema Schema
}

type entrySig struct {
	sig    string
	schema Schema
}

func f(name string, t FieldType) Field { return Field{Name: name, Type: t} }

func ba(name string, n int) Field { return Field{Name: name, Type: ByteArray, N: n} }

func pad(n int) Field { return Field{Name: "unused", Type: Padding, N: n} }

// schemaTableExact3 keys on the full (sig, parent record, data length)
// triple: the highest-priority, most specific schemas.
var schemaTableExact3 = []entry3{
	// CTDA/CTDT condition blocks: a 1-byte op/type field, padding, a
	// 4-byte comparison value (float-or-u32 union), a 2-byte function
	// index, then FormID/u32 parameters (see S2 in spec §8).
	{"CTDA", "", 28, Schema{Fields: []Field{
		ba("operator_flags", 1),
		pad(3),
		f("comparison_value", UInt32),
		f("function_index", UInt16),
		pad(2),
		f("param1", UInt32),
		f("param2", UInt32),
		f("run_on", UInt32),
		f("reference", FieldFormId),
	}, ExpectedSize: 28}},
	{"CTDT", "", 20, Schema{Fields: []Field{
		ba("operator_flags", 1),
		pad(3),
		f("comparison_value", UInt32),
		f("function_index", UInt16),
		pad(2),
		f("param1", UInt32),
		f("param2", UInt32),
		f("run_on", UInt32),
	}, ExpectedSize: 20}},

	// PERK.DATA variants are handled entirely by the dedicated overrides
	// in overrides.go (truncation / partial swap); no schema entry here.

	// XCLC: exterior cell grid coordinates, signed 32-bit each, plus an
	// optional trailing height flag word on newer forms.
	{"XCLC", "CELL", 8, Schema{Fields: []Field{
		f("grid_x", Int32),
		f("grid_y", Int32),
	}, ExpectedSize: 8}},
	{"XCLC", "CELL", 12, Schema{Fields: []Field{
		f("grid_x", Int32),
		f("grid_y", Int32),
		f("force_hide_land", UInt32),
	}, ExpectedSize: 12}},

	// HEDR: file header version/record-count/next-id block in TES4.
	{"HEDR", "TES4", 12, Schema{Fields: []Field{
		f("version", Float),
		f("num_records", Int32),
		f("next_object_id", UInt32),
	}, ExpectedSize: 12}},

	// DODT: decal placement/orientation plus an ARGB tint that must be
	// rotated to RGBA on output.
	{"DODT", "", 36, Schema{Fields: []Field{
		f("min_width", Float),
		f("max_width", Float),
		f("min_height", Float),
		f("max_height", Float),
		f("depth", Float),
		f("shininess", Float),
		f("parallax_scale", Float),
		f("parallax_passes", UInt8),
		ba("flags", 3),
		f("color", ColorArgb),
	}, ExpectedSize: 36}},

	// WEAP.DNAM: the projectile FormID is already little-endian on Xbox
	// (FormIdLittleEndian); the head and tail byte ranges around it are
	// copied as byte arrays and are not swapped.
	{"DNAM", "WEAP", 204, Schema{Fields: []Field{
		ba("head", 88),
		f("projectile", FormIdLittleEndian),
		ba("tail", 112),
	}, ExpectedSize: 204}},

	// RGDL.DATA: ragdoll bone/constraint counts, where the bone count is
	// a middle-endian word-swapped u32 on Xbox.
	{"DATA", "RGDL", 8, Schema{Fields: []Field{
		f("bone_count", UInt32WordSwapped),
		f("feedback_dynamic_bone_count", UInt32),
	}, ExpectedSize: 8}},

	// LAND.ATXT/BTXT: quadrant alpha texture layer, where the "platform"
	// flag byte is an Xbox-specific marker overwritten with PC's fixed
	// value.
	{"ATXT", "LAND", 8, Schema{Fields: []Field{
		f("texture", FieldFormId),
		{Name: "quadrant", Type: PlatformByte, N: 0},
		pad(1),
		f("layer", Int16),
	}, ExpectedSize: 8}},
	{"BTXT", "LAND", 8, Schema{Fields: []Field{
		f("texture", FieldFormId),
		{Name: "quadrant", Type: PlatformByte, N: 0},
		pad(1),
		f("layer", Int16),
	}, ExpectedSize: 8}},
}

// schemaTableExact2 keys on (sig, parent record) only: record-specific
// schemas where the data length is fixed by the format and not worth
// double-keying. Rows with an empty parent record are record-agnostic and
// match at Lookup's (sig) tier.
var schemaTableExact2 = []entry2{
	{"XYZA", "", Schema{Sentinel: SentinelFloatArray}},
	{"VNML", "", Schema{Sentinel: SentinelFloatArray}},

	// WRLD.NAM0/NAM9: the world's map bounds corners, each a float Vec3.
	// internal/ofst reads these back out of the converted output to size
	// and rebuild the OFST table, so they must already be little-endian
	// by the time WriteRecord finishes.
	{"NAM0", "WRLD", Schema{Sentinel: SentinelFloatArray}},
	{"NAM9", "WRLD", Schema{Sentinel: SentinelFloatArray}},
}

// schemaTableBySize keys on (sig, length) only, used for subrecords whose
// signature recurs across many record types with a stable per-length shape.
var schemaTableBySize = []entrySize{
	{"EAMT", 2, Schema{Fields: []Field{f("value", UInt16)}, ExpectedSize: 2}},
	{"XCLW", 4, Schema{Fields: []Field{f("water_height", Float)}, ExpectedSize: 4}},
}

// schemaTableBySig keys on the subrecord signature alone: the broadest,
// lowest-priority catch-alls before the DATA fallback.
var schemaTableBySig = []entrySig{
	{"FNAM", Schema{Fields: []Field{f("value", UInt16)}, ExpectedSize: 2}},
	{"INDX", Schema{Fields: []Field{f("value", UInt32)}, ExpectedSize: 4}},
	{"XPCI", Schema{Fields: []Field{f("form_id", FieldFormId)}, ExpectedSize: 4}},
	{"XLCN", Schema{Fields: []Field{f("form_id", FieldFormId)}, ExpectedSize: 4}},
	{"XTEL", Schema{Fields: []Field{
		f("destination", FieldFormId),
		f("position", Vec3),
		f("rotation", Vec3),
		f("flags", UInt32),
	}, ExpectedSize: 32}},
	{"XESP", Schema{Fields: []Field{
		f("parent", FieldFormId),
		f("flags", UInt32),
	}, ExpectedSize: 8}},
	{"XOWN", Schema{Fields: []Field{f("owner", FieldFormId)}, ExpectedSize: 4}},
	{"XRNK", Schema{Fields: []Field{f("rank", Int32)}, ExpectedSize: 4}},
	{"XGLB", Schema{Fields: []Field{f("global", FieldFormId)}, ExpectedSize: 4}},
	{"XCLR", Schema{Sentinel: SentinelFormIdArray}},
	{"VATS", Schema{Sentinel: SentinelFloatArray}},
}

// stringSubrecords identifies null-terminated/raw-ASCII subrecords that are
// never byte-swapped. Record-agnostic entries (rec == "") apply everywhere;
// record-specific entries narrow the match to one parent record type.
var stringSubrecords = []struct{ sig, rec string }{
	{"EDID", ""},
	{"FULL", ""},
	{"MODL", ""},
	{"ICON", ""},
	{"MICO", ""},
	{"SCTX", ""},
	{"NAM1", "INFO"},
	{"RNAM", "INFO"},
	{"ONAM", "AMMO"},
	{"ONAM", "CELL"},
	{"SHRT", ""},
	{"DESC", ""},
	{"CNAM", "SCPT"},
	{"BMCT", ""},
	{"MODT", ""},
	{"MODS", ""},
}
