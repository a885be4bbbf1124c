package source

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
)

// File reads through an *os.File that is opened on demand.
type File struct {
	path    string
	f       *os.File
	closed  atomic.Bool
	reopens int
}

// OpenFile opens path for reading.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "os.Open(%s)", path)
	}
	return &File{path: path, f: f}, nil
}

func (s *File) handle() (*os.File, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if s.f == nil {
		f, err := os.Open(s.path)
		if err != nil {
			return nil, errors.Wrapf(err, "reopen %s", s.path)
		}
		s.f = f
		s.reopens++
	}
	return s.f, nil
}

// ReadAt implements io.ReaderAt.
func (s *File) ReadAt(p []byte, off int64) (int, error) {
	f, err := s.handle()
	if err != nil {
		return 0, err
	}
	n, err := f.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, errors.Wrapf(err, "f.ReadAt(%d, len: %d)", off, len(p))
	}
	return n, err
}

// Size returns the current file size.
func (s *File) Size() (int64, error) {
	f, err := s.handle()
	if err != nil {
		return 0, err
	}
	st, err := f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "f.Stat")
	}
	return st.Size(), nil
}

// Release closes the descriptor but keeps the source usable.
func (s *File) Release() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return errors.Wrap(err, "f.Close")
}

// Close is idempotent.
func (s *File) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.Release()
}

// Reopens counts how many times a released handle was reacquired.
func (s *File) Reopens() int {
	return s.reopens
}
