// Package format houses low-level decoders and declarative constants for the
// TES4-family ESM container format. The goal is to keep parsing focused,
// allocation-free where possible, and independent from the higher-level
// conversion packages so they can orchestrate the data in a more ergonomic
// form.
package format

// Signature byte slices for the handful of tags the converter special-cases
// by name. Most subrecord/record signatures are compared as raw [4]byte
// arrays rather than through named constants (there are hundreds of them;
// see internal/schema for the declarative table).
var (
	TES4Signature = [4]byte{'T', 'E', 'S', '4'}
	GRUPSignature = [4]byte{'G', 'R', 'U', 'P'}
	WRLDSignature = [4]byte{'W', 'R', 'L', 'D'}
	CELLSignature = [4]byte{'C', 'E', 'L', 'L'}
	INFOSignature = [4]byte{'I', 'N', 'F', 'O'}
	TOFTSignature = [4]byte{'T', 'O', 'F', 'T'}
	XXXXSignature = [4]byte{'X', 'X', 'X', 'X'}
	OFSTSignature = [4]byte{'O', 'F', 'S', 'T'}
	NAM0Signature = [4]byte{'N', 'A', 'M', '0'}
	NAM9Signature = [4]byte{'N', 'A', 'M', '9'}
	XCLCSignature = [4]byte{'X', 'C', 'L', 'C'}
	HEDRSignature = [4]byte{'H', 'E', 'D', 'R'}
)

const (
	// RecordHeaderSize is the fixed 24-byte main-record header size shared by
	// both the Xbox and PC layouts.
	RecordHeaderSize = 24

	// SubrecordHeaderSize is the fixed 6-byte subrecord header size.
	SubrecordHeaderSize = 6

	// GroupHeaderSize is the fixed 24-byte GRUP header size.
	GroupHeaderSize = 24

	// CompressedFlag marks a record's data as zlib-compressed with a
	// 4-byte uncompressed-size prefix.
	CompressedFlag uint32 = 0x0004_0000

	// XboxOriginFlag is the TES4-only flag bit marking the file as
	// Xbox-origin; it must be cleared on output.
	XboxOriginFlag uint32 = 0x10
)

// GroupType identifies the semantics of a GRUP's 4-byte label per spec §3.
type GroupType uint32

const (
	GroupTopLevel             GroupType = 0
	GroupWorldChildren        GroupType = 1
	GroupInteriorCellBlock    GroupType = 2
	GroupInteriorCellSubBlock GroupType = 3
	GroupExteriorCellBlock    GroupType = 4
	GroupExteriorCellSubBlock GroupType = 5
	GroupCellChildren         GroupType = 6
	groupTypeUnused7          GroupType = 7
	GroupCellPersistent       GroupType = 8
	GroupCellTemporary        GroupType = 9
	GroupCellVisibleDistant   GroupType = 10
)

// IsNestedOnly reports whether a group type only ever legitimately appears
// nested inside another group. If one is seen at the top level it is an
// Xbox streaming duplicate and must be dropped (spec §3).
func (t GroupType) IsNestedOnly() bool {
	switch t {
	case GroupInteriorCellBlock, GroupInteriorCellSubBlock,
		GroupExteriorCellBlock, GroupExteriorCellSubBlock,
		GroupCellChildren, groupTypeUnused7,
		GroupCellPersistent, GroupCellTemporary, GroupCellVisibleDistant:
		return true
	default:
		return false
	}
}

// IsCellChildType reports whether t is one of the three "cell children"
// group variants (persistent/temporary/visible-when-distant).
func (t GroupType) IsCellChildType() bool {
	return t == GroupCellPersistent || t == GroupCellTemporary || t == GroupCellVisibleDistant
}
