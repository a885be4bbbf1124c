// Package iso8211 decodes ISO/IEC 8211 Data Descriptive Files (DDF), the
// container format underneath IHO S-57 Electronic Navigational Charts and
// other GIS exchange formats.
//
// A DDF file starts with a Data Descriptive Record (DDR) that declares every
// field: its tag, its name, and the names and formats of its subfields. Data
// Records (DR) follow; each carries a directory of (tag, length, position)
// entries and a field area holding the field data.
//
// # Basic Usage
//
//	m, err := iso8211.Open("US5MA22M.000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	for {
//	    rec, err := m.ReadRecord()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err) // *ErrFormat, *ErrTruncated or *ErrIO
//	    }
//
//	    if f := rec.Field("DSID"); f != nil {
//	        name, _ := f.Subfield("DSNM")
//	        fmt.Println(name.AsString())
//	    }
//	}
//
// # Fields and Subfields
//
// Field data is not read until it is asked for. A field whose array
// descriptor starts with '*' repeats its subfield sequence; RepeatCount
// reports how many times, Subfields returns every instance of one subfield in
// order, and SubfieldData jumps to a single instance.
//
//	f := rec.Field("SG2D")
//	n, _ := f.RepeatCount()
//	ycoo, _ := f.Subfields("YCOO")
//	xcoo, _ := f.Subfields("XCOO")
//	for i := 0; i < n; i++ {
//	    fmt.Println(ycoo[i].AsInt(), xcoo[i].AsInt())
//	}
//
// Looking up a tag or subfield name that is not present returns nil, never an
// error, so optional and vendor-specific fields can be probed freely.
//
// # Whole-file Reading
//
// NewReader and Parse read every record into memory with the field payloads
// keyed by tag, which suits small files such as S-57 update cells:
//
//	reader, err := iso8211.NewReader("US5MA22M.001")
//	isoFile, err := reader.Parse()
//	for _, record := range isoFile.Records {
//	    if dsid, ok := record.Fields["DSID"]; ok {
//	        // ...
//	    }
//	}
//
// # Concurrency
//
// A Module has a single read cursor and is not safe for concurrent use.
// Records and fields it returns may be read from other goroutines only while
// the Module is not being advanced. A CatalogCache may be shared freely.
package iso8211
