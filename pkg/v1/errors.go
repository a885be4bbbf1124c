package iso8211

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/beetlebugorg/iso8211/internal/parser"
)

// ErrFormat indicates a malformed leader, directory, descriptor, terminator
// or numeric field. Offsets reported by a Module are absolute file offsets.
type ErrFormat = parser.ErrFormat

// ErrTruncated indicates fewer bytes than a declared length requires.
type ErrTruncated = parser.ErrTruncated

// ErrIO wraps a failure of the underlying byte source.
type ErrIO struct {
	Op     string
	Offset int64
	Err    error
}

func (e *ErrIO) Error() string {
	return fmt.Sprintf("iso8211: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *ErrIO) Unwrap() error {
	return e.Err
}

// ErrClosed is returned by operations on a closed Module.
var ErrClosed = errors.New("iso8211: module closed")

// relocate turns record-relative offsets in parser errors into file offsets.
func relocate(err error, base int64) error {
	var fe *ErrFormat
	if errors.As(err, &fe) {
		fe.Offset += base
		return err
	}
	var te *ErrTruncated
	if errors.As(err, &te) {
		te.Offset += base
	}
	return err
}

// IsCorrupt reports whether err means the data itself is malformed, as
// opposed to an I/O failure or a clean end of file.
func IsCorrupt(err error) bool {
	var fe *ErrFormat
	var te *ErrTruncated
	return errors.As(err, &fe) || errors.As(err, &te)
}
