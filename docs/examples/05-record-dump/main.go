package main

import (
	"flag"
	"io"
	"log"
	"os"

	iso8211 "github.com/beetlebugorg/iso8211/pkg/v1"
)

func main() {
	path := flag.String("file", "", "Path to ISO 8211 file")
	limit := flag.Int("n", 0, "Dump at most n records (0 for all)")
	schemaOnly := flag.Bool("schema", false, "Dump only the field definitions")
	flag.Parse()

	if *path == "" {
		log.Fatal("Please provide -file path")
	}

	m, err := iso8211.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if err := m.Dump(os.Stdout); err != nil {
		log.Fatal(err)
	}
	if *schemaOnly {
		return
	}

	for *limit == 0 || m.RecordsRead() < *limit {
		rec, err := m.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		if err := rec.Dump(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}
}
