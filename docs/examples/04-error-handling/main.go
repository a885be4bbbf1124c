package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	iso8211 "github.com/beetlebugorg/iso8211/pkg/v1"
)

// readAll reads records until the end of the file or the first corrupt
// record, keeping what was read before it.
func readAll(path string) ([]*iso8211.Record, error) {
	m, err := iso8211.Open(path)
	if err != nil {
		var ioErr *iso8211.ErrIO
		if errors.As(err, &ioErr) && errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, err
	}
	defer m.Close()

	var records []*iso8211.Record
	for {
		rec, err := m.ReadRecord()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

func describe(err error) string {
	var formatErr *iso8211.ErrFormat
	var truncErr *iso8211.ErrTruncated
	switch {
	case errors.As(err, &formatErr):
		return fmt.Sprintf("malformed data at byte %d: %s", formatErr.Offset, formatErr.Reason)
	case errors.As(err, &truncErr):
		return fmt.Sprintf("file ends early at byte %d (%d of %d bytes)", truncErr.Offset, truncErr.Got, truncErr.Want)
	default:
		return err.Error()
	}
}

func main() {
	records, err := readAll("US5MA22M.000")
	if err != nil {
		log.Printf("Error: %s", describe(err))
		if !iso8211.IsCorrupt(err) {
			return
		}
	}
	fmt.Printf("Records read: %d\n", len(records))

	// Try to read a file that does not exist
	_, err = readAll("NONEXISTENT.000")
	if err != nil {
		log.Printf("Expected error: %v", err)
	}
}
