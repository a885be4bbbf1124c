package parser

import (
	"fmt"
)

const (
	// LeaderSize is the fixed length of every record leader.
	LeaderSize = 24

	// FieldTerminator ends a field and the directory.
	FieldTerminator = 0x1E

	// UnitTerminator separates variable-length subfields.
	UnitTerminator = 0x1F
)

// RecordKind selects which leader rules apply.
type RecordKind int

const (
	// KindDescriptive is the Data Descriptive Record (DDR), the schema header.
	KindDescriptive RecordKind = iota
	// KindData is a Data Record (DR).
	KindData
)

func (k RecordKind) String() string {
	if k == KindDescriptive {
		return "DDR"
	}
	return "DR"
}

// Leader holds the decoded 24-byte record leader.
//
// Byte layout (ISO 8211 §6.1, 0-indexed):
//
//	[0-4]   record length
//	[5]     interchange level
//	[6]     leader identifier ('L' for DDR, 'D' or 'R' for DR)
//	[7]     inline code extension indicator
//	[8]     version number
//	[9]     application indicator
//	[10-11] field control length
//	[12-16] start address of field area
//	[17-19] extended character set indicator
//	[20]    size of field length
//	[21]    size of field position
//	[22]    reserved
//	[23]    size of field tag
type Leader struct {
	RecordLength         int
	InterchangeLevel     byte
	LeaderID             byte
	InlineCodeExtension  byte
	Version              byte
	ApplicationIndicator byte
	FieldControlLength   int
	FieldAreaStart       int
	ExtendedCharSet      string
	SizeFieldLength      int
	SizeFieldPos         int
	SizeFieldTag         int
}

// EntryWidth is the width of one directory entry.
func (l Leader) EntryWidth() int {
	return l.SizeFieldTag + l.SizeFieldLength + l.SizeFieldPos
}

// ReuseDirectory reports whether following data records omit their leader and
// directory and reuse this one (leader identifier 'R').
func (l Leader) ReuseDirectory() bool {
	return l.LeaderID == 'R'
}

// ParseLeader decodes and validates a leader.
//
// The descriptive record is held to the full rule set. Data records share the
// grammar but carry blanks in the interchange level, version and field control
// length positions, so those are not checked for KindData.
func ParseLeader(b []byte, kind RecordKind) (Leader, error) {
	var l Leader
	if len(b) < LeaderSize {
		return l, &ErrTruncated{Want: LeaderSize, Got: len(b)}
	}
	b = b[:LeaderSize]

	for i, c := range b {
		if c < 32 || c > 126 {
			return l, formatErr(i, "%s leader contains non-printable byte 0x%02x", kind, c)
		}
	}

	l.InterchangeLevel = b[5]
	l.LeaderID = b[6]
	l.InlineCodeExtension = b[7]
	l.Version = b[8]
	l.ApplicationIndicator = b[9]
	l.ExtendedCharSet = string(b[17:20])

	switch kind {
	case KindDescriptive:
		if l.InterchangeLevel != '1' && l.InterchangeLevel != '2' && l.InterchangeLevel != '3' {
			return l, formatErr(5, "interchange level %q not in 1..3", l.InterchangeLevel)
		}
		if l.LeaderID != 'L' {
			return l, formatErr(6, "leader identifier %q, want 'L'", l.LeaderID)
		}
		if l.Version != '1' && l.Version != ' ' {
			return l, formatErr(8, "version number %q not '1' or blank", l.Version)
		}
	case KindData:
		if l.LeaderID != 'D' && l.LeaderID != 'R' {
			return l, formatErr(6, "leader identifier %q, want 'D' or 'R'", l.LeaderID)
		}
	}

	var err error
	if l.RecordLength, err = parseDigits(b, 0, 5, "record length"); err != nil {
		return l, err
	}
	if kind == KindDescriptive {
		if l.FieldControlLength, err = parseDigits(b, 10, 2, "field control length"); err != nil {
			return l, err
		}
	}
	if l.FieldAreaStart, err = parseDigits(b, 12, 5, "field area start"); err != nil {
		return l, err
	}
	if l.SizeFieldLength, err = parseDigits(b, 20, 1, "size of field length"); err != nil {
		return l, err
	}
	if l.SizeFieldPos, err = parseDigits(b, 21, 1, "size of field position"); err != nil {
		return l, err
	}
	if l.SizeFieldTag, err = parseDigits(b, 23, 1, "size of field tag"); err != nil {
		return l, err
	}

	if l.RecordLength < 12 {
		return l, formatErr(0, "record length %d below minimum 12", l.RecordLength)
	}
	if kind == KindDescriptive && l.FieldControlLength == 0 {
		return l, formatErr(10, "field control length is zero")
	}
	if l.FieldAreaStart < LeaderSize {
		return l, formatErr(12, "field area start %d inside the leader", l.FieldAreaStart)
	}
	if l.SizeFieldLength == 0 || l.SizeFieldPos == 0 || l.SizeFieldTag == 0 {
		return l, formatErr(20, "directory entry sizes %d/%d/%d must be non-zero",
			l.SizeFieldLength, l.SizeFieldPos, l.SizeFieldTag)
	}
	if l.FieldAreaStart > l.RecordLength {
		return l, formatErr(12, "field area start %d beyond record length %d",
			l.FieldAreaStart, l.RecordLength)
	}

	return l, nil
}

// parseDigits reads a fixed-width unsigned decimal. Every byte must be a digit.
func parseDigits(b []byte, off, width int, what string) (int, error) {
	if off+width > len(b) {
		return 0, &ErrTruncated{Offset: int64(off), Want: width, Got: len(b) - off}
	}
	n := 0
	for i := off; i < off+width; i++ {
		c := b[i]
		if c < '0' || c > '9' {
			return 0, formatErr(i, "%s %q is not numeric", what, string(b[off:off+width]))
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func (l Leader) String() string {
	return fmt.Sprintf("Leader{len=%d level=%c id=%c ver=%c fcl=%d start=%d charset=%q sizes=%d/%d/%d}",
		l.RecordLength, l.InterchangeLevel, l.LeaderID, l.Version, l.FieldControlLength,
		l.FieldAreaStart, l.ExtendedCharSet, l.SizeFieldLength, l.SizeFieldPos, l.SizeFieldTag)
}
