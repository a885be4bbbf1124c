package parser

import (
	"fmt"
)

// ErrFormat indicates bytes that violate the ISO 8211 record structure:
// a malformed leader, directory, descriptor, terminator or numeric field.
type ErrFormat struct {
	Offset int64 // Byte offset of the offending item, relative to the record unless noted
	Reason string
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("iso8211: format error at offset %d: %s", e.Offset, e.Reason)
}

// ErrTruncated indicates that fewer bytes were available than a declared length requires.
type ErrTruncated struct {
	Offset int64
	Want   int
	Got    int
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("iso8211: truncated data at offset %d: need %d bytes, have %d",
		e.Offset, e.Want, e.Got)
}

func formatErr(off int, format string, args ...any) error {
	return &ErrFormat{Offset: int64(off), Reason: fmt.Sprintf(format, args...)}
}
