package iso8211

import (
	"github.com/beetlebugorg/iso8211/internal/parser"
)

// Record framing bytes.
const (
	LeaderSize      = parser.LeaderSize
	FieldTerminator = parser.FieldTerminator
	UnitTerminator  = parser.UnitTerminator
)

// Leader is a decoded 24-byte record leader.
type Leader = parser.Leader

// Catalog is the schema declared by the Data Descriptive Record. It is
// immutable once built and may be shared between modules.
type Catalog = parser.Catalog

// FieldDefinition describes a field: tag, name, subfields and repetition.
type FieldDefinition = parser.FieldDefinition

// SubfieldDefinition describes a subfield and its decode rule.
type SubfieldDefinition = parser.SubfieldDefinition

// Format is the decode rule of a subfield.
type Format = parser.Format

const (
	FormatString    = parser.FormatString
	FormatInteger   = parser.FormatInteger
	FormatReal      = parser.FormatReal
	FormatUnsigned  = parser.FormatUnsigned
	FormatSigned    = parser.FormatSigned
	FormatFloat     = parser.FormatFloat
	FormatBinaryRaw = parser.FormatBinaryRaw
	FormatBitString = parser.FormatBitString
	FormatFiller    = parser.FormatFiller
)

// Kind is the kind of a decoded subfield value.
type Kind = parser.Kind

const (
	KindString = parser.KindString
	KindInt    = parser.KindInt
	KindReal   = parser.KindReal
	KindBytes  = parser.KindBytes
)

// Value is a decoded subfield value.
type Value = parser.Value
