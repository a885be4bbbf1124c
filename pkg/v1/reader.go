package iso8211

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Reader reads a whole ISO 8211 file into memory.
//
// It suits small files and callers that want field bytes keyed by tag;
// use Module directly to stream large files.
type Reader struct {
	module *Module
}

// ISO8211File is the in-memory form of a file.
type ISO8211File struct {
	Leader  Leader
	Catalog *Catalog
	Records []*DataRecord
}

// DataRecord is a data record with its field payloads keyed by tag.
type DataRecord struct {
	Leader Leader

	// Fields maps each tag to its payload, trailing field terminator
	// removed. When a tag occurs more than once the first occurrence is kept;
	// Record holds all of them.
	Fields map[string][]byte

	// Tags lists the field tags in directory order.
	Tags []string

	// Record is the decoded record, for subfield access.
	Record *Record
}

// NewReader opens path with default options.
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, DefaultOpenOptions())
}

// NewReaderWithOptions opens path.
func NewReaderWithOptions(path string, opts OpenOptions) (*Reader, error) {
	m, err := OpenWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	return &Reader{module: m}, nil
}

// Module returns the underlying module.
func (r *Reader) Module() *Module {
	return r.module
}

// Parse reads every data record from the start of the file.
//
// On a corrupt record Parse returns the records read so far together with
// the error.
func (r *Reader) Parse() (*ISO8211File, error) {
	m := r.module
	if err := m.RewindToStart(); err != nil {
		return nil, err
	}

	file := &ISO8211File{
		Leader:  m.Leader(),
		Catalog: m.Catalog(),
	}
	for {
		rec, err := m.ReadRecord()
		if err == io.EOF {
			return file, nil
		}
		if err != nil {
			return file, errors.Wrapf(err, "record %d", len(file.Records))
		}

		dr, err := newDataRecord(rec)
		if err != nil {
			return file, errors.Wrapf(err, "record %d", len(file.Records))
		}
		file.Records = append(file.Records, dr)
	}
}

func newDataRecord(rec *Record) (*DataRecord, error) {
	dr := &DataRecord{
		Leader: rec.Leader(),
		Fields: make(map[string][]byte, rec.FieldCount()),
		Tags:   make([]string, 0, rec.FieldCount()),
		Record: rec,
	}
	for _, f := range rec.Fields() {
		dr.Tags = append(dr.Tags, f.Tag())
		if _, seen := dr.Fields[f.Tag()]; seen {
			continue
		}
		payload, err := f.Payload()
		if err != nil {
			return nil, err
		}
		dr.Fields[f.Tag()] = payload
	}
	return dr, nil
}

// ParseFile opens path, reads every record and closes it again.
func ParseFile(path string) (file *ISO8211File, err error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()
	return r.Parse()
}

// Close closes the underlying module.
func (r *Reader) Close() error {
	return r.module.Close()
}
