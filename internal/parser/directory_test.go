package parser

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/iso8211/internal/ddftest"
)

func twoFieldRecord() []byte {
	return ddftest.Record(
		ddftest.Field{Tag: "0001", Data: ddftest.Term(ddftest.U32(7))},
		ddftest.Field{Tag: "DATA", Data: []byte("AAAA1BBBB1AAAA2BBBB2")},
	)
}

func TestParseDirectory(t *testing.T) {
	rec := twoFieldRecord()
	l, err := ParseLeader(rec, KindData)
	require.NoError(t, err)
	assert.Equal(t, len(rec), l.RecordLength)
	assert.Equal(t, LeaderSize+2*13+1, l.FieldAreaStart)

	entries, err := ParseDirectory(rec, l, true)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, DirEntry{Tag: "0001", Length: 5, Pos: 0}, entries[0])
	assert.Equal(t, DirEntry{Tag: "DATA", Length: 20, Pos: 5}, entries[1])

	// the field area is not needed
	entries, err = ParseDirectory(rec[:l.FieldAreaStart], l, true)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestParseDirectory_Overlap(t *testing.T) {
	rec := twoFieldRecord()
	// second entry position digits
	posOff := LeaderSize + 13 + 4 + 4
	copy(rec[posOff:], "00003")

	l, err := ParseLeader(rec, KindData)
	require.NoError(t, err)

	_, err = ParseDirectory(rec, l, true)
	var fe *ErrFormat
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Contains(t, fe.Reason, "overlaps")

	_, err = ParseDirectory(rec, l, false)
	assert.NoError(t, err)
}

func TestParseDirectory_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rec []byte)
	}{
		{"missing terminator", func(rec []byte) { rec[LeaderSize+2*13] = 'X' }},
		{"length not numeric", func(rec []byte) { copy(rec[LeaderSize+4:], "00x5") }},
		{"position not numeric", func(rec []byte) { copy(rec[LeaderSize+8:], "0 000") }},
		{"span past record", func(rec []byte) { copy(rec[LeaderSize+13+4:], "9999") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := twoFieldRecord()
			tt.mutate(rec)
			l, err := ParseLeader(rec, KindData)
			require.NoError(t, err)

			_, err = ParseDirectory(rec, l, true)
			var fe *ErrFormat
			assert.True(t, errors.As(err, &fe), "want *ErrFormat, got %v", err)
		})
	}
}

func TestParseDirectory_Empty(t *testing.T) {
	rec := ddftest.Record()
	l, err := ParseLeader(rec, KindData)
	require.NoError(t, err)

	entries, err := ParseDirectory(rec, l, true)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
