//go:build unix

package source

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Mmap serves reads from a read-only memory mapping of the whole file.
//
// The descriptor is closed as soon as the mapping exists, so Release has
// nothing to give back. Slices handed out stay valid until Close.
type Mmap struct {
	path   string
	data   []byte
	closed atomic.Bool
}

// OpenMmap maps path into memory.
func OpenMmap(path string) (Source, error) {
	m := &Mmap{path: path}
	if err := m.mapFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mmap) mapFile() error {
	f, err := os.Open(m.path)
	if err != nil {
		return errors.Wrapf(err, "os.Open(%s)", m.path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "f.Stat")
	}
	if st.Size() == 0 {
		return nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return errors.Wrapf(err, "mmap %s", m.path)
	}
	// records are read front to back
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		_ = unix.Munmap(data)
		return errors.Wrap(err, "madvise")
	}
	m.data = data
	return nil
}

func (m *Mmap) bytes() ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return m.data, nil
}

// ReadAt implements io.ReaderAt.
func (m *Mmap) ReadAt(p []byte, off int64) (int, error) {
	data, err := m.bytes()
	if err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, errors.Errorf("negative offset %d", off)
	}
	if off >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Slice returns n mapped bytes at off without copying.
func (m *Mmap) Slice(off int64, n int) ([]byte, error) {
	data, err := m.bytes()
	if err != nil {
		return nil, err
	}
	if off < 0 || off+int64(n) > int64(len(data)) {
		return nil, io.ErrUnexpectedEOF
	}
	return data[off : off+int64(n) : off+int64(n)], nil
}

// Size returns the mapped length.
func (m *Mmap) Size() (int64, error) {
	data, err := m.bytes()
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// Release is a no-op: the mapping holds no descriptor.
func (m *Mmap) Release() error {
	return nil
}

// Close unmaps the file. It is idempotent.
func (m *Mmap) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	data := m.data
	m.data = nil
	if data == nil {
		return nil
	}
	return errors.Wrap(unix.Munmap(data), "munmap")
}
