package iso8211

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/beetlebugorg/iso8211/internal/parser"
	"github.com/beetlebugorg/iso8211/internal/source"
)

type moduleState int

const (
	stateOpen    moduleState = iota // schema loaded, no record read yet
	stateReading                    // cursor at a record boundary
	stateError                      // a record failed; reads return the error until Rewind
	stateClosed
)

func (s moduleState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateReading:
		return "reading"
	case stateError:
		return "error"
	default:
		return "closed"
	}
}

// reusedDirectory is the directory carried forward by an 'R' leader.
type reusedDirectory struct {
	leader  Leader
	entries []parser.DirEntry
}

// Module is an open ISO 8211 file: its schema plus a cursor over its data
// records.
//
// A Module is not safe for concurrent use. ReadRecord, Rewind, Release and
// Close must be serialized by the caller.
type Module struct {
	path    string
	opts    OpenOptions
	log     zerolog.Logger
	src     source.Source
	size    int64
	catalog *Catalog

	firstRecordOffset int64
	offset            int64
	records           int

	state moduleState
	err   error
	reuse *reusedDirectory
}

// Open opens path and reads its Data Descriptive Record with default options.
func Open(path string) (*Module, error) {
	return OpenWithOptions(path, DefaultOpenOptions())
}

// OpenWithOptions opens path and reads its Data Descriptive Record.
//
// Any problem with the header record is returned here; a Module is never
// returned without a schema.
func OpenWithOptions(path string, opts OpenOptions) (*Module, error) {
	var src source.Source
	var err error
	if opts.UseMmap {
		src, err = source.OpenMmap(path)
	} else {
		src, err = source.OpenFile(path)
	}
	if err != nil {
		return nil, &ErrIO{Op: "open", Err: err}
	}

	m := &Module{
		path: path,
		opts: opts,
		log:  opts.Logger.With().Str("path", path).Logger(),
		src:  src,
	}
	if err := m.loadSchema(); err != nil {
		return nil, multierr.Append(err, src.Close())
	}

	m.log.Debug().
		Int("fields", m.catalog.Len()).
		Int64("first_record", m.firstRecordOffset).
		Bool("mmap", opts.UseMmap).
		Msg("opened module")
	return m, nil
}

func (m *Module) loadSchema() error {
	size, err := m.src.Size()
	if err != nil {
		return &ErrIO{Op: "stat", Err: err}
	}
	m.size = size

	head, err := m.read(0, LeaderSize)
	if err != nil {
		return err
	}
	if len(head) < LeaderSize {
		return &ErrTruncated{Want: LeaderSize, Got: len(head)}
	}
	l, err := parser.ParseLeader(head, parser.KindDescriptive)
	if err != nil {
		return err
	}

	header, err := m.read(0, l.RecordLength)
	if err != nil {
		return err
	}
	if len(header) < l.RecordLength {
		return &ErrTruncated{Want: l.RecordLength, Got: len(header)}
	}

	parse := func() (*Catalog, error) {
		return parser.ParseCatalog(header, m.opts.CheckOverlaps, m.log)
	}
	if m.opts.CatalogCache != nil {
		m.catalog, err = m.opts.CatalogCache.Get(catalogKey(header, m.opts.CheckOverlaps), parse)
	} else {
		m.catalog, err = parse()
	}
	if err != nil {
		return err
	}

	m.firstRecordOffset = int64(l.RecordLength)
	m.offset = m.firstRecordOffset
	m.state = stateOpen
	return nil
}

// read returns up to n bytes at off. A short result means end of data.
func (m *Module) read(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := m.src.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return nil, &ErrIO{Op: "read", Offset: off, Err: err}
	}
	return buf[:got], nil
}

// load returns the n bytes at off, without copying when the source allows.
func (m *Module) load(off int64, n int) ([]byte, error) {
	if m.state == stateClosed {
		return nil, ErrClosed
	}
	if s, ok := m.src.(source.Slicer); ok {
		b, err := s.Slice(off, n)
		if err == io.ErrUnexpectedEOF {
			return nil, &ErrTruncated{Offset: off, Want: n, Got: int(max(m.size-off, 0))}
		}
		if err != nil {
			return nil, &ErrIO{Op: "read", Offset: off, Err: err}
		}
		return b, nil
	}
	b, err := m.read(off, n)
	if err != nil {
		return nil, err
	}
	if len(b) < n {
		return nil, &ErrTruncated{Offset: off, Want: n, Got: len(b)}
	}
	return b, nil
}

// ReadRecord reads the data record at the cursor and advances past it.
//
// It returns io.EOF when the cursor sits exactly at the end of the file.
// A record that starts but is malformed yields *ErrFormat or *ErrTruncated;
// the Module then keeps returning that error until Rewind. Records returned
// earlier stay valid.
func (m *Module) ReadRecord() (*Record, error) {
	switch m.state {
	case stateClosed:
		return nil, ErrClosed
	case stateError:
		return nil, m.err
	}

	var rec *Record
	var err error
	if m.reuse != nil {
		rec, err = m.readReused()
	} else {
		rec, err = m.readFull()
	}
	if err == io.EOF {
		m.log.Debug().Int("records", m.records).Msg("end of file")
		return nil, io.EOF
	}
	if err != nil {
		m.state = stateError
		m.err = err
		m.log.Debug().Err(err).Int64("offset", m.offset).Msg("record failed")
		return nil, err
	}

	m.offset += int64(rec.length)
	m.records++
	m.state = stateReading
	m.log.Trace().Int64("offset", rec.offset).Int("fields", len(rec.fields)).Msg("read record")
	return rec, nil
}

// readFull reads a record with its own leader and directory.
func (m *Module) readFull() (*Record, error) {
	off := m.offset
	head, err := m.read(off, LeaderSize)
	if err != nil {
		return nil, err
	}
	if len(head) == 0 {
		return nil, io.EOF
	}
	if len(head) < LeaderSize {
		return nil, &ErrTruncated{Offset: off, Want: LeaderSize, Got: len(head)}
	}

	l, err := parser.ParseLeader(head, parser.KindData)
	if err != nil {
		return nil, relocate(err, off)
	}
	if avail := m.size - off; int64(l.RecordLength) > avail {
		return nil, &ErrTruncated{Offset: off, Want: l.RecordLength, Got: int(avail)}
	}

	dir, err := m.read(off, l.FieldAreaStart)
	if err != nil {
		return nil, err
	}
	entries, err := parser.ParseDirectory(dir, l, m.opts.CheckOverlaps)
	if err != nil {
		return nil, relocate(err, off)
	}

	rec, err := m.bind(l, entries, off, off+int64(l.FieldAreaStart), l.RecordLength)
	if err != nil {
		return nil, err
	}
	if l.ReuseDirectory() {
		m.reuse = &reusedDirectory{leader: l, entries: entries}
		m.log.Debug().Int64("offset", off).Msg("following records reuse this directory")
	}
	return rec, nil
}

// readReused reads a record made only of field area bytes laid out by the
// directory of the last 'R' record.
func (m *Module) readReused() (*Record, error) {
	off := m.offset
	l := m.reuse.leader
	n := l.RecordLength - l.FieldAreaStart

	avail := m.size - off
	if avail <= 0 {
		return nil, io.EOF
	}
	if int64(n) > avail {
		return nil, &ErrTruncated{Offset: off, Want: n, Got: int(avail)}
	}

	rec, err := m.bind(l, m.reuse.entries, off, off, n)
	if err != nil {
		return nil, err
	}
	rec.reused = true
	return rec, nil
}

// bind resolves directory entries against the catalog and builds lazy fields
// over the field area starting at fieldArea.
func (m *Module) bind(l Leader, entries []parser.DirEntry, off, fieldArea int64, length int) (*Record, error) {
	rec := &Record{
		leader: l,
		offset: off,
		length: length,
		fields: make([]*Field, 0, len(entries)),
	}
	for _, e := range entries {
		def := m.catalog.FindByTag(e.Tag)
		if def == nil {
			return nil, &ErrFormat{Offset: off, Reason: "undefined field " + e.Tag + " in data record"}
		}
		rec.fields = append(rec.fields, &Field{
			module: m,
			def:    def,
			tag:    e.Tag,
			offset: fieldArea + int64(e.Pos),
			length: e.Length,
		})
	}
	return rec, nil
}

// Rewind moves the cursor to an absolute byte offset, which must be the start
// of a record with its own leader. A negative offset means the first data
// record. Rewinding clears an error state and any reused directory.
func (m *Module) Rewind(offset int64) error {
	if m.state == stateClosed {
		return ErrClosed
	}
	if offset < 0 {
		offset = m.firstRecordOffset
	}
	if offset > m.size {
		return errors.Errorf("iso8211: rewind offset %d beyond file size %d", offset, m.size)
	}

	m.offset = offset
	m.reuse = nil
	m.err = nil
	if offset == m.firstRecordOffset {
		m.records = 0
		m.state = stateOpen
	} else {
		m.state = stateReading
	}
	m.log.Debug().Int64("offset", offset).Msg("rewind")
	return nil
}

// RewindToStart moves the cursor back to the first data record.
func (m *Module) RewindToStart() error {
	return m.Rewind(-1)
}

// Release gives up the operating system handle without closing the Module.
// The next read reacquires it and continues at the same offset.
func (m *Module) Release() error {
	if m.state == stateClosed {
		return nil
	}
	m.log.Debug().Int64("offset", m.offset).Msg("release handle")
	if err := m.src.Release(); err != nil {
		return &ErrIO{Op: "release", Offset: m.offset, Err: err}
	}
	return nil
}

// Close releases the file. It is safe to call more than once.
func (m *Module) Close() error {
	if m.state == stateClosed {
		return nil
	}
	m.state = stateClosed
	m.reuse = nil
	if err := m.src.Close(); err != nil {
		return &ErrIO{Op: "close", Offset: m.offset, Err: err}
	}
	return nil
}

// Path returns the path the module was opened from.
func (m *Module) Path() string {
	return m.path
}

// Catalog returns the schema read from the header record.
func (m *Module) Catalog() *Catalog {
	return m.catalog
}

// Leader returns the header record's leader.
func (m *Module) Leader() Leader {
	return m.catalog.Leader()
}

// FindFieldDefinition returns the definition for tag, or nil.
func (m *Module) FindFieldDefinition(tag string) *FieldDefinition {
	return m.catalog.FindByTag(tag)
}

// FirstRecordOffset returns the file offset of the first data record.
func (m *Module) FirstRecordOffset() int64 {
	return m.firstRecordOffset
}

// Offset returns the file offset of the next record to be read.
func (m *Module) Offset() int64 {
	return m.offset
}

// Size returns the file size in bytes.
func (m *Module) Size() int64 {
	return m.size
}

// RecordsRead returns how many records were read since open or the last
// rewind to the first record.
func (m *Module) RecordsRead() int {
	return m.records
}

// Err returns the error that stopped record iteration, if any.
func (m *Module) Err() error {
	return m.err
}
