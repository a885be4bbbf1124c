package parser

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validDDRLeader = "002413LE1 0600040 ! 4504"
	validDRLeader  = "00100 D     00040   4504"
)

func TestParseLeader_Descriptive(t *testing.T) {
	l, err := ParseLeader([]byte(validDDRLeader), KindDescriptive)
	require.NoError(t, err)

	assert.Equal(t, 241, l.RecordLength)
	assert.Equal(t, byte('3'), l.InterchangeLevel)
	assert.Equal(t, byte('L'), l.LeaderID)
	assert.Equal(t, byte('E'), l.InlineCodeExtension)
	assert.Equal(t, byte('1'), l.Version)
	assert.Equal(t, byte(' '), l.ApplicationIndicator)
	assert.Equal(t, 6, l.FieldControlLength)
	assert.Equal(t, 40, l.FieldAreaStart)
	assert.Equal(t, " ! ", l.ExtendedCharSet)
	assert.Equal(t, 4, l.SizeFieldLength)
	assert.Equal(t, 5, l.SizeFieldPos)
	assert.Equal(t, 4, l.SizeFieldTag)
	assert.Equal(t, 13, l.EntryWidth())
	assert.False(t, l.ReuseDirectory())
}

func TestParseLeader_Data(t *testing.T) {
	l, err := ParseLeader([]byte(validDRLeader), KindData)
	require.NoError(t, err)
	assert.Equal(t, 100, l.RecordLength)
	assert.Equal(t, byte('D'), l.LeaderID)
	assert.Equal(t, 0, l.FieldControlLength)
	assert.Equal(t, 40, l.FieldAreaStart)

	reuse := []byte(validDRLeader)
	reuse[6] = 'R'
	l, err = ParseLeader(reuse, KindData)
	require.NoError(t, err)
	assert.True(t, l.ReuseDirectory())
}

func TestParseLeader_ControlByteAnywhere(t *testing.T) {
	for i := 0; i < LeaderSize; i++ {
		b := []byte(validDDRLeader)
		b[i] = 0x01
		_, err := ParseLeader(b, KindDescriptive)

		var fe *ErrFormat
		require.True(t, errors.As(err, &fe), "position %d: got %v", i, err)
		assert.Equal(t, int64(i), fe.Offset)
	}
}

func TestParseLeader_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		leader string
		kind   RecordKind
	}{
		{"leader id not L", "002413XE1 0600040 ! 4504", KindDescriptive},
		{"data leader id L", "00100 L     00040   4504", KindData},
		{"record length not numeric", "0a2413LE1 0600040 ! 4504", KindDescriptive},
		{"record length blank", "     3LE1 0600040 ! 4504", KindDescriptive},
		{"interchange level 4", "002414LE1 0600040 ! 4504", KindDescriptive},
		{"version 2", "002413LE2 0600040 ! 4504", KindDescriptive},
		{"record length below 12", "000113LE1 0600040 ! 4504", KindDescriptive},
		{"field control length zero", "002413LE1 0000040 ! 4504", KindDescriptive},
		{"field control length blank", "002413LE1   00040 ! 4504", KindDescriptive},
		{"field area start zero", "002413LE1 0600000 ! 4504", KindDescriptive},
		{"field area start inside leader", "002413LE1 0600010 ! 4504", KindDescriptive},
		{"field area start past record", "000303LE1 0600040 ! 4504", KindDescriptive},
		{"size of field length zero", "002413LE1 0600040 ! 0504", KindDescriptive},
		{"size of field pos zero", "002413LE1 0600040 ! 4004", KindDescriptive},
		{"size of field tag zero", "002413LE1 0600040 ! 4500", KindDescriptive},
		{"size of field tag blank", "002413LE1 0600040 ! 450 ", KindDescriptive},
		{"data field area start blank", "00100 D             4504", KindData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := []byte(tt.leader)
			for len(b) < LeaderSize {
				b = append(b, ' ')
			}
			_, err := ParseLeader(b, tt.kind)
			var fe *ErrFormat
			assert.True(t, errors.As(err, &fe), "want *ErrFormat, got %v", err)
		})
	}
}

func TestParseLeader_Short(t *testing.T) {
	_, err := ParseLeader([]byte(validDDRLeader[:10]), KindDescriptive)
	var te *ErrTruncated
	require.True(t, errors.As(err, &te))
	assert.Equal(t, LeaderSize, te.Want)
	assert.Equal(t, 10, te.Got)
}
