package iso8211

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the header leader and every field definition to w.
func (m *Module) Dump(w io.Writer) error {
	l := m.Leader()
	var b strings.Builder
	fmt.Fprintf(&b, "DDFModule:\n")
	fmt.Fprintf(&b, "    Path = %s\n", m.path)
	fmt.Fprintf(&b, "    RecordLength = %d\n", l.RecordLength)
	fmt.Fprintf(&b, "    InterchangeLevel = %c\n", l.InterchangeLevel)
	fmt.Fprintf(&b, "    LeaderIdentifier = %c\n", l.LeaderID)
	fmt.Fprintf(&b, "    InlineCodeExtension = %c\n", l.InlineCodeExtension)
	fmt.Fprintf(&b, "    VersionNumber = %c\n", l.Version)
	fmt.Fprintf(&b, "    ApplicationIndicator = %c\n", l.ApplicationIndicator)
	fmt.Fprintf(&b, "    FieldControlLength = %d\n", l.FieldControlLength)
	fmt.Fprintf(&b, "    FieldAreaStart = %d\n", l.FieldAreaStart)
	fmt.Fprintf(&b, "    ExtendedCharSet = %q\n", l.ExtendedCharSet)
	fmt.Fprintf(&b, "    SizeFieldLength = %d\n", l.SizeFieldLength)
	fmt.Fprintf(&b, "    SizeFieldPos = %d\n", l.SizeFieldPos)
	fmt.Fprintf(&b, "    SizeFieldTag = %d\n", l.SizeFieldTag)
	for _, def := range m.catalog.Definitions() {
		dumpDefinition(&b, def)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func dumpDefinition(b *strings.Builder, def *FieldDefinition) {
	fmt.Fprintf(b, "  DDFFieldDefn:\n")
	fmt.Fprintf(b, "      Tag = %s\n", def.Tag)
	fmt.Fprintf(b, "      Name = %s\n", def.Name)
	fmt.Fprintf(b, "      DataStructCode = %c\n", def.StructureCode)
	fmt.Fprintf(b, "      DataTypeCode = %c\n", def.TypeCode)
	fmt.Fprintf(b, "      ArrayDescriptor = %s\n", def.ArrayDescriptor)
	fmt.Fprintf(b, "      FormatControls = %s\n", def.FormatControls)
	fmt.Fprintf(b, "      Repeating = %t\n", def.Repeating)
	if def.FixedWidth > 0 {
		fmt.Fprintf(b, "      FixedWidth = %d\n", def.FixedWidth)
	}
	for _, sf := range def.Subfields {
		fmt.Fprintf(b, "    DDFSubfieldDefn:\n")
		fmt.Fprintf(b, "        Label = %s\n", sf.Name)
		fmt.Fprintf(b, "        FormatString = %s\n", sf.Control)
		fmt.Fprintf(b, "        Format = %s\n", sf.Format)
	}
}

// Dump writes the record and every decoded field to w.
func (r *Record) Dump(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "DDFRecord:\n")
	fmt.Fprintf(&b, "    Offset = %d\n", r.offset)
	fmt.Fprintf(&b, "    DataSize = %d\n", r.length)
	fmt.Fprintf(&b, "    ReusedDirectory = %t\n", r.reused)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	for _, f := range r.fields {
		if err := f.Dump(w); err != nil {
			return err
		}
	}
	return nil
}

// maxDumpRepeats bounds how many repetitions Field.Dump prints.
const maxDumpRepeats = 8

// Dump writes the field and its decoded subfields to w.
func (f *Field) Dump(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "  DDFField:\n")
	fmt.Fprintf(&b, "      Tag = `%s'\n", f.tag)
	fmt.Fprintf(&b, "      DataSize = %d\n", f.length)

	count, err := f.RepeatCount()
	if err != nil {
		return err
	}
	data, err := f.Data()
	if err != nil {
		return err
	}
	fmt.Fprintf(&b, "      Data = `%s'\n", printable(data, 40))

	all, err := f.DecodeAll()
	if err != nil {
		return err
	}
	for rep := 0; rep < count && rep < maxDumpRepeats; rep++ {
		if count > 1 {
			fmt.Fprintf(&b, "      Occurrence %d:\n", rep)
		}
		for _, sf := range f.def.Subfields {
			values := all[sf.Name]
			if rep < len(values) {
				fmt.Fprintf(&b, "      %s\n", values[rep])
			}
		}
	}
	if count > maxDumpRepeats {
		fmt.Fprintf(&b, "      ... (%d more occurrences)\n", count-maxDumpRepeats)
	}
	_, err = io.WriteString(w, b.String())
	return err
}

// printable renders up to n bytes, escaping anything outside printable ASCII.
func printable(data []byte, n int) string {
	var b strings.Builder
	for i, c := range data {
		if i >= n {
			b.WriteString("...")
			break
		}
		if c < 32 || c > 126 {
			fmt.Fprintf(&b, "\\%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
