// Package source provides the random-access byte sources a module reads from.
//
// A source can drop its operating system resources with Release and pick
// them up again on the next read, so long-lived readers over many files do
// not pin a descriptor per file.
package source

import (
	"io"

	"github.com/pkg/errors"
)

// ErrClosed is returned by reads after Close.
var ErrClosed = errors.New("iso8211: source closed")

// Source is a random-access, releasable byte source.
type Source interface {
	io.ReaderAt

	// Size returns the total number of bytes available.
	Size() (int64, error)

	// Release frees the underlying handle. The next read reacquires it.
	Release() error

	// Close frees the underlying handle for good.
	Close() error
}

// Slicer is implemented by sources that can hand out bytes without copying.
// The returned slice is only valid until the next Release or Close.
type Slicer interface {
	Slice(off int64, n int) ([]byte, error)
}
