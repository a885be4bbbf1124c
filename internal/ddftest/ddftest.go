// Package ddftest builds small ISO 8211 files for tests.
package ddftest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Directory geometry used by every record built here.
const (
	SizeFieldLength = 4
	SizeFieldPos    = 5
	SizeFieldTag    = 4

	FieldControlLength = 6

	ft = 0x1E
	ut = 0x1F
)

// Definition declares one DDR field.
type Definition struct {
	Tag      string
	Controls string // FieldControlLength bytes, e.g. "1600;&"
	Name     string
	Array    string // e.g. "*YCOO!XCOO"
	Formats  string // e.g. "(2b24)"
}

// Field is one data record field. Data is written as given; use Term to add
// the field terminator.
type Field struct {
	Tag  string
	Data []byte
}

// Descriptor renders a field descriptor as stored in the DDR field area.
func (d Definition) Descriptor() []byte {
	var b bytes.Buffer
	b.WriteString(d.Controls)
	b.WriteString(d.Name)
	if d.Array != "" || d.Formats != "" {
		b.WriteByte(ut)
		b.WriteString(d.Array)
		b.WriteByte(ut)
		b.WriteString(d.Formats)
	}
	b.WriteByte(ft)
	return b.Bytes()
}

// Header builds a Data Descriptive Record.
func Header(defs ...Definition) []byte {
	fields := make([]Field, len(defs))
	for i, d := range defs {
		fields[i] = Field{Tag: d.Tag, Data: d.Descriptor()}
	}
	return build(fields, func(recLen, start int) string {
		return fmt.Sprintf("%05d3LE1 %02d%05d ! %d%d0%d",
			recLen, FieldControlLength, start, SizeFieldLength, SizeFieldPos, SizeFieldTag)
	})
}

// Record builds a data record with leader identifier 'D'.
func Record(fields ...Field) []byte {
	return RecordWithID('D', fields...)
}

// RecordWithID builds a data record with the given leader identifier.
func RecordWithID(id byte, fields ...Field) []byte {
	return build(fields, func(recLen, start int) string {
		return fmt.Sprintf("%05d %c     %05d   %d%d0%d",
			recLen, id, start, SizeFieldLength, SizeFieldPos, SizeFieldTag)
	})
}

// FieldArea concatenates field data the way a record lays it out, for
// records that reuse an earlier directory.
func FieldArea(fields ...Field) []byte {
	var b bytes.Buffer
	for _, f := range fields {
		b.Write(f.Data)
	}
	return b.Bytes()
}

func build(fields []Field, leader func(recLen, start int) string) []byte {
	var dir, area bytes.Buffer
	for _, f := range fields {
		fmt.Fprintf(&dir, "%-*s%0*d%0*d", SizeFieldTag, f.Tag, SizeFieldLength, len(f.Data), SizeFieldPos, area.Len())
		area.Write(f.Data)
	}
	dir.WriteByte(ft)

	start := 24 + dir.Len()
	recLen := start + area.Len()

	var b bytes.Buffer
	b.WriteString(leader(recLen, start))
	b.Write(dir.Bytes())
	b.Write(area.Bytes())
	return b.Bytes()
}

// Term appends the field terminator.
func Term(parts ...[]byte) []byte {
	var b bytes.Buffer
	for _, p := range parts {
		b.Write(p)
	}
	b.WriteByte(ft)
	return b.Bytes()
}

// Text returns s followed by a unit terminator.
func Text(s string) []byte {
	return append([]byte(s), ut)
}

// U16 encodes v least significant octet first.
func U16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

// U32 encodes v least significant octet first.
func U32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// I32 encodes v least significant octet first.
func I32(v int32) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(v))
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// WriteFile writes the concatenated records to a temporary file and returns
// its path.
func WriteFile(t testing.TB, records ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.000")
	require.NoError(t, os.WriteFile(path, Concat(records...), 0o644))
	return path
}

// Standard definitions shared by tests.
var (
	FileControl = Definition{Tag: "0000", Controls: "0000;&", Name: "test file"}

	// RecordID holds a single 4-byte unsigned integer.
	RecordID = Definition{Tag: "0001", Controls: "1500;&", Name: "record identifier",
		Array: "RCID", Formats: "(b14)"}

	// Pairs repeats two 5-byte text subfields.
	Pairs = Definition{Tag: "DATA", Controls: "2600;&", Name: "pairs",
		Array: "*A!B", Formats: "(2A(5))"}

	// Attributes repeats a binary code and a variable text value.
	Attributes = Definition{Tag: "ATTF", Controls: "2600;&", Name: "attributes",
		Array: "*ATTL!ATVL", Formats: "(b12,A)"}

	// Identification mixes fixed binary, variable text and ASCII numbers.
	Identification = Definition{Tag: "DSID", Controls: "1600;&", Name: "data set identification",
		Array: "RCNM!RCID!DSNM!EDTN!STED!SCAL", Formats: "(b11,b14,2A,R(4),I(6))"}
)
