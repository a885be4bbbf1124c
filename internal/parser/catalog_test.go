package parser

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/iso8211/internal/ddftest"
)

func standardHeader() []byte {
	return ddftest.Header(
		ddftest.FileControl,
		ddftest.RecordID,
		ddftest.Pairs,
		ddftest.Attributes,
		ddftest.Identification,
	)
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog(standardHeader(), true, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 5, c.Len())
	assert.Equal(t, ddftest.FieldControlLength, c.Leader().FieldControlLength)
	assert.Equal(t, "0000", c.At(0).Tag)
	assert.Nil(t, c.At(5))
	assert.Nil(t, c.At(-1))
	assert.Nil(t, c.FindByTag("VRID"))

	control := c.FindByTag("0000")
	require.NotNil(t, control)
	assert.Equal(t, StructureElementary, control.StructureCode)
	assert.Equal(t, "test file", control.Name)
	assert.Empty(t, control.Subfields)

	rcid := c.FindByTag("0001")
	require.NotNil(t, rcid)
	assert.False(t, rcid.Repeating)
	assert.Equal(t, 4, rcid.FixedWidth)
	require.Len(t, rcid.Subfields, 1)
	assert.Equal(t, FormatUnsigned, rcid.Subfields[0].Format)

	pairs := c.FindByTag("data")
	require.NotNil(t, pairs, "lookup is case-insensitive")
	assert.Equal(t, StructureArray, pairs.StructureCode)
	assert.Equal(t, TypeMixed, pairs.TypeCode)
	assert.True(t, pairs.Repeating)
	assert.Equal(t, 10, pairs.FixedWidth)
	assert.Equal(t, "*A!B", pairs.ArrayDescriptor)
	assert.Equal(t, "(2A(5))", pairs.FormatControls)

	attf := c.FindByTag("ATTF")
	require.NotNil(t, attf)
	assert.True(t, attf.Repeating)
	assert.Zero(t, attf.FixedWidth)
	require.NotNil(t, attf.FindSubfield("ATVL"))
	assert.True(t, attf.FindSubfield("ATVL").IsVariable())
	assert.Equal(t, 1, attf.SubfieldIndex(attf.FindSubfield("ATVL")))
	assert.Nil(t, attf.FindSubfield("atvl"))

	dsid := c.FindByTag("DSID")
	require.NotNil(t, dsid)
	names := make([]string, len(dsid.Subfields))
	for i, sf := range dsid.Subfields {
		names[i] = sf.Name
	}
	assert.Equal(t, []string{"RCNM", "RCID", "DSNM", "EDTN", "STED", "SCAL"}, names)
	assert.Equal(t, FormatReal, dsid.Subfields[4].Format)
	assert.Equal(t, 6, dsid.Subfields[5].Width())

	defs := c.Definitions()
	defs[0] = nil
	assert.NotNil(t, c.At(0), "Definitions returns a copy")
}

func TestParseCatalog_DuplicateTag(t *testing.T) {
	replacement := ddftest.Definition{Tag: "DATA", Controls: "1600;&", Name: "replacement",
		Array: "X", Formats: "(I(3))"}
	header := ddftest.Header(ddftest.FileControl, ddftest.Pairs, replacement)

	var logs bytes.Buffer
	c, err := ParseCatalog(header, true, zerolog.New(&logs))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	def := c.FindByTag("DATA")
	require.NotNil(t, def)
	assert.Equal(t, "replacement", def.Name)
	assert.Same(t, def, c.At(1))
	assert.Contains(t, logs.String(), "duplicate field definition")
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		def  ddftest.Definition
	}{
		{"name and format count mismatch", ddftest.Definition{Tag: "BAD1", Controls: "1600;&",
			Array: "A!B!C", Formats: "(A,A)"}},
		{"unknown structure code", ddftest.Definition{Tag: "BAD2", Controls: "9600;&",
			Array: "A", Formats: "(A)"}},
		{"unknown type code", ddftest.Definition{Tag: "BAD3", Controls: "1900;&",
			Array: "A", Formats: "(A)"}},
		{"format controls without brackets", ddftest.Definition{Tag: "BAD4", Controls: "1600;&",
			Array: "A!B", Formats: "A,B"}},
		{"unsupported subfield format", ddftest.Definition{Tag: "BAD5", Controls: "1600;&",
			Array: "A", Formats: "(Q)"}},
		{"duplicate subfield name", ddftest.Definition{Tag: "BAD6", Controls: "2600;&",
			Array: "*A!A", Formats: "(2A(2))"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := ddftest.Header(ddftest.FileControl, tt.def)
			_, err := ParseCatalog(header, true, zerolog.Nop())
			var fe *ErrFormat
			require.True(t, errors.As(err, &fe), "got %v", err)
			// offsets point into the descriptor, past the leader and directory
			c, _ := ParseLeader(header, KindDescriptive)
			assert.GreaterOrEqual(t, fe.Offset, int64(c.FieldAreaStart))
		})
	}
}

func TestParseCatalog_Truncated(t *testing.T) {
	header := standardHeader()
	_, err := ParseCatalog(header[:len(header)-10], true, zerolog.Nop())
	var te *ErrTruncated
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, len(header), te.Want)
}

func TestParseCatalog_DataLeader(t *testing.T) {
	_, err := ParseCatalog(twoFieldRecord(), true, zerolog.Nop())
	var fe *ErrFormat
	assert.True(t, errors.As(err, &fe), "a data record is not a valid header")
}
