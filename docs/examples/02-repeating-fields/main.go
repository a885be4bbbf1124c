package main

import (
	"fmt"
	"io"
	"log"

	iso8211 "github.com/beetlebugorg/iso8211/pkg/v1"
)

// printAttributes lists the code/value pairs of an S-57 ATTF field.
func printAttributes(f *iso8211.Field) error {
	codes, err := f.Subfields("ATTL")
	if err != nil {
		return err
	}
	values, err := f.Subfields("ATVL")
	if err != nil {
		return err
	}
	for i := range codes {
		fmt.Printf("  %5d = %q\n", codes[i].AsInt(), values[i].AsString())
	}
	return nil
}

// printCoordinates decodes only the first and last point of an SG2D field.
func printCoordinates(f *iso8211.Field) error {
	n, err := f.RepeatCount()
	if err != nil || n == 0 {
		return err
	}
	ycoo := f.Definition().FindSubfield("YCOO")
	xcoo := f.Definition().FindSubfield("XCOO")
	for _, i := range []int{0, n - 1} {
		y, err := f.SubfieldData(ycoo, i)
		if err != nil {
			return err
		}
		x, err := f.SubfieldData(xcoo, i)
		if err != nil {
			return err
		}
		fmt.Printf("  point %d of %d: %d, %d\n", i, n, y.AsInt(), x.AsInt())
	}
	return nil
}

func main() {
	m, err := iso8211.Open("US5MA22M.000")
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	for {
		rec, err := m.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		if f := rec.Field("ATTF"); f != nil {
			fmt.Printf("Record at %d attributes:\n", rec.Offset())
			if err := printAttributes(f); err != nil {
				log.Fatal(err)
			}
		}
		if f := rec.Field("SG2D"); f != nil {
			fmt.Printf("Record at %d coordinates:\n", rec.Offset())
			if err := printCoordinates(f); err != nil {
				log.Fatal(err)
			}
		}
	}
}
