package main

import (
	"fmt"
	"io"
	"log"

	iso8211 "github.com/beetlebugorg/iso8211/pkg/v1"
)

func main() {
	// Open the file and read its field definitions
	m, err := iso8211.Open("US5MA22M.000")
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	fmt.Printf("Field definitions: %d\n", m.Catalog().Len())

	// Walk every data record
	for {
		rec, err := m.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		if name, ok := rec.StringSubfield("DSID", 0, "DSNM", 0); ok {
			fmt.Printf("Dataset: %s\n", name)
		}
		if edition, ok := rec.StringSubfield("DSID", 0, "EDTN", 0); ok {
			fmt.Printf("Edition: %s\n", edition)
		}
	}

	fmt.Printf("Records: %d\n", m.RecordsRead())
}
