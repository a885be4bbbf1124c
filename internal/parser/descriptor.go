package parser

import (
	"strings"
)

// StructureCode is the data structure code, first field control byte.
type StructureCode byte

const (
	StructureElementary   StructureCode = '0'
	StructureVector       StructureCode = '1'
	StructureArray        StructureCode = '2'
	StructureConcatenated StructureCode = '3'
)

// TypeCode is the data type code, second field control byte.
type TypeCode byte

const (
	TypeCharString     TypeCode = '0'
	TypeImplicitPoint  TypeCode = '1'
	TypeExplicitPoint  TypeCode = '2'
	TypeExplicitScaled TypeCode = '3'
	TypeCharBitString  TypeCode = '4'
	TypeBitString      TypeCode = '5'
	TypeMixed          TypeCode = '6'
)

// FieldDefinition describes one field as declared in the DDR.
//
// Definitions are built once when a file is opened and never change afterwards,
// so they may be shared between modules.
type FieldDefinition struct {
	Tag             string
	Name            string
	StructureCode   StructureCode
	TypeCode        TypeCode
	Controls        string // Complete field control string
	ArrayDescriptor string
	FormatControls  string
	Subfields       []*SubfieldDefinition

	// Repeating is set when the subfield sequence may occur more than once
	// in a field instance (array descriptor prefixed with '*').
	Repeating bool

	// FixedWidth is the total width of one repetition when every subfield
	// is fixed width, 0 otherwise.
	FixedWidth int

	byName map[string]int
}

// FindSubfield returns the named subfield definition, or nil.
func (d *FieldDefinition) FindSubfield(name string) *SubfieldDefinition {
	if i, ok := d.byName[name]; ok {
		return d.Subfields[i]
	}
	return nil
}

// SubfieldIndex returns the position of sub within the definition, or -1.
func (d *FieldDefinition) SubfieldIndex(sub *SubfieldDefinition) int {
	for i, s := range d.Subfields {
		if s == sub {
			return i
		}
	}
	return -1
}

// ParseFieldDescriptor parses the DDR field area entry for tag.
//
// Layout: fieldControlLength bytes of field controls, then the field name,
// array descriptor and format controls, each ended by a unit terminator and
// the last by the field terminator.
func ParseFieldDescriptor(tag string, data []byte, fieldControlLength int) (*FieldDefinition, error) {
	if len(data) < fieldControlLength {
		return nil, &ErrTruncated{Want: fieldControlLength, Got: len(data)}
	}

	d := &FieldDefinition{
		Tag:      tag,
		Controls: string(data[:fieldControlLength]),
		byName:   make(map[string]int),
	}
	if fieldControlLength >= 1 {
		d.StructureCode = StructureCode(data[0])
		if d.StructureCode < StructureElementary || d.StructureCode > StructureConcatenated {
			return nil, formatErr(0, "field %q: unrecognised data structure code %q", tag, data[0])
		}
	}
	if fieldControlLength >= 2 {
		d.TypeCode = TypeCode(data[1])
		if d.TypeCode < TypeCharString || d.TypeCode > TypeMixed {
			return nil, formatErr(1, "field %q: unrecognised data type code %q", tag, data[1])
		}
	}

	rest := data[fieldControlLength:]
	var n int
	d.Name, n = fetchVariable(rest)
	rest = rest[n:]
	d.ArrayDescriptor, n = fetchVariable(rest)
	rest = rest[n:]
	d.FormatControls, _ = fetchVariable(rest)

	if d.StructureCode == StructureElementary {
		return d, nil
	}
	if err := d.buildSubfields(); err != nil {
		return nil, err
	}
	return d, nil
}

// fetchVariable returns the text up to the next terminator and the number of
// bytes consumed, terminator included.
func fetchVariable(b []byte) (string, int) {
	n := variableLength(b)
	if n < len(b) {
		return string(b[:n]), n + 1
	}
	return string(b), n
}

func (d *FieldDefinition) buildSubfields() error {
	list := d.ArrayDescriptor
	if strings.HasPrefix(list, "*") {
		d.Repeating = true
		list = list[1:]
	}

	var names []string
	if list != "" {
		names = strings.Split(list, "!")
	}
	if len(names) == 0 && strings.TrimSpace(d.FormatControls) == "" {
		return nil
	}

	controls, err := ExpandFormats(d.FormatControls)
	if err != nil {
		return formatErr(0, "field %q: %v", d.Tag, err)
	}
	if len(controls) != len(names) {
		return formatErr(0, "field %q: %d subfield names but %d format controls",
			d.Tag, len(names), len(controls))
	}

	d.Subfields = make([]*SubfieldDefinition, 0, len(names))
	fixed := 0
	for i, name := range names {
		sf, err := NewSubfieldDefinition(name, strings.TrimSpace(controls[i]))
		if err != nil {
			return err
		}
		if _, dup := d.byName[name]; dup {
			return formatErr(0, "field %q: subfield name %q declared twice", d.Tag, name)
		}
		d.Subfields = append(d.Subfields, sf)
		d.byName[name] = i
		if fixed >= 0 && sf.Width() > 0 {
			fixed += sf.Width()
		} else {
			fixed = -1
		}
	}
	if fixed > 0 {
		d.FixedWidth = fixed
	}
	return nil
}
