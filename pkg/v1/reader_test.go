package iso8211_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/iso8211/internal/ddftest"
	iso8211 "github.com/beetlebugorg/iso8211/pkg/v1"
)

func writeSample(t *testing.T, extra ...[]byte) string {
	t.Helper()
	records := [][]byte{
		ddftest.Header(ddftest.FileControl, ddftest.RecordID, ddftest.Pairs, ddftest.Identification),
		ddftest.Record(
			ddftest.Field{Tag: "0001", Data: ddftest.Term(ddftest.U32(1))},
			ddftest.Field{Tag: "DSID", Data: ddftest.Term(
				[]byte{10}, ddftest.U32(1), ddftest.Text("GB5X01SW"), ddftest.Text("2"),
				[]byte("03.1"), []byte("022000"),
			)},
		),
		ddftest.Record(
			ddftest.Field{Tag: "0001", Data: ddftest.Term(ddftest.U32(2))},
			ddftest.Field{Tag: "DATA", Data: []byte("AAAA1BBBB1AAAA2BBBB2")},
			ddftest.Field{Tag: "DATA", Data: []byte("CCCC1DDDD1")},
		),
	}
	return ddftest.WriteFile(t, append(records, extra...)...)
}

func TestParseFile(t *testing.T) {
	file, err := iso8211.ParseFile(writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, 4, file.Catalog.Len())
	assert.Equal(t, byte('L'), file.Leader.LeaderID)
	require.Len(t, file.Records, 2)

	first := file.Records[0]
	assert.Equal(t, []string{"0001", "DSID"}, first.Tags)
	assert.Equal(t, ddftest.U32(1), first.Fields["0001"])
	scale, ok := first.Record.IntSubfield("DSID", 0, "SCAL", 0)
	assert.True(t, ok)
	assert.Equal(t, int64(22000), scale)
	name, ok := first.Record.StringSubfield("DSID", 0, "DSNM", 0)
	assert.True(t, ok)
	assert.Equal(t, "GB5X01SW", name)

	second := file.Records[1]
	assert.Equal(t, []string{"0001", "DATA", "DATA"}, second.Tags)
	assert.Equal(t, []byte("AAAA1BBBB1AAAA2BBBB2"), second.Fields["DATA"], "first occurrence wins")
	c, ok := second.Record.StringSubfield("DATA", 1, "A", 0)
	assert.True(t, ok)
	assert.Equal(t, "CCCC1", c)
}

func TestReaderParse_PartialOnError(t *testing.T) {
	r, err := iso8211.NewReader(writeSample(t, []byte("not a record, just trailing junk")))
	require.NoError(t, err)
	defer r.Close()

	file, err := r.Parse()
	require.Error(t, err)
	assert.True(t, iso8211.IsCorrupt(err))
	assert.Contains(t, err.Error(), "record 2")
	require.NotNil(t, file)
	assert.Len(t, file.Records, 2)

	// Parse always starts over
	_, err = r.Parse()
	assert.Error(t, err)
	assert.Equal(t, 2, r.Module().RecordsRead())
}

func TestReaderWithOptions(t *testing.T) {
	opts := iso8211.DefaultOpenOptions()
	opts.UseMmap = true
	r, err := iso8211.NewReaderWithOptions(writeSample(t), opts)
	require.NoError(t, err)
	defer r.Close()

	file, err := r.Parse()
	require.NoError(t, err)
	assert.Len(t, file.Records, 2)

	// payloads outlive the mapping
	require.NoError(t, r.Close())
	assert.Equal(t, ddftest.U32(2), file.Records[1].Fields["0001"])
	assert.Equal(t, []byte("AAAA1BBBB1AAAA2BBBB2"), file.Records[1].Fields["DATA"])
}

func TestDump(t *testing.T) {
	m, err := iso8211.Open(writeSample(t))
	require.NoError(t, err)
	defer m.Close()

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "Tag = DSID")
	assert.Contains(t, out, "FormatControls = (2A(5))")
	assert.Contains(t, out, "Label = SCAL")

	_, err = m.ReadRecord()
	require.NoError(t, err)
	rec, err := m.ReadRecord()
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, rec.Dump(&buf))
	out = buf.String()
	assert.Contains(t, out, "Tag = `DATA'")
	assert.Contains(t, out, `A[1] = "AAAA2" (string, 5 bytes)`)
	assert.Contains(t, out, "RCID[0] = 2 (int, 4 bytes)")
}

func TestNewReader_Missing(t *testing.T) {
	_, err := iso8211.NewReader(t.TempDir() + "/missing.000")
	var ioe *iso8211.ErrIO
	assert.True(t, errors.As(err, &ioe))
}
