package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	iso8211 "github.com/beetlebugorg/iso8211/pkg/v1"
)

// countRecords reads every record and releases the descriptor afterwards,
// keeping the module open for a later pass.
func countRecords(m *iso8211.Module) (int, error) {
	for {
		_, err := m.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return m.RecordsRead(), err
		}
	}
	return m.RecordsRead(), m.Release()
}

func main() {
	root := "ENC_ROOT"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	cells, err := filepath.Glob(filepath.Join(root, "*", "*.000"))
	if err != nil {
		log.Fatal(err)
	}

	// Every cell of an exchange set carries the same header record, so it is
	// parsed once and shared.
	cache := iso8211.NewCatalogCache(16)

	opts := iso8211.DefaultOpenOptions()
	opts.UseMmap = true
	opts.CatalogCache = cache
	opts.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)

	var modules []*iso8211.Module
	defer func() {
		for _, m := range modules {
			m.Close()
		}
	}()

	for _, path := range cells {
		m, err := iso8211.OpenWithOptions(path, opts)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		modules = append(modules, m)

		n, err := countRecords(m)
		if err != nil {
			log.Printf("%s: stopped after %d records: %v", path, n, err)
			continue
		}
		fmt.Printf("%-20s %6d records\n", filepath.Base(path), n)
	}

	stats := cache.Stats()
	fmt.Printf("\nCatalogs parsed: %d, reused: %d\n", stats.Misses, stats.Hits)
}
