package iso8211

import (
	"bytes"

	"github.com/beetlebugorg/iso8211/internal/parser"
	"github.com/beetlebugorg/iso8211/internal/source"
)

// Field is one field instance within a record.
//
// The field holds only the offset and length of its data until Data or one
// of the decode methods needs the bytes.
type Field struct {
	module *Module
	def    *FieldDefinition
	tag    string
	offset int64
	length int

	data    []byte
	offsets []int // memoized repetition start offsets
}

// Tag returns the field tag as written in the directory.
func (f *Field) Tag() string {
	return f.tag
}

// Definition returns the field definition from the catalog.
func (f *Field) Definition() *FieldDefinition {
	return f.def
}

// Offset returns the absolute file offset of the field data.
func (f *Field) Offset() int64 {
	return f.offset
}

// Len returns the length of the field data, trailing terminator included.
func (f *Field) Len() int {
	return f.length
}

// Data returns the raw field bytes, trailing field terminator included.
// The slice must not be modified. With UseMmap it points into the mapping and
// is only valid until the Module is closed; after Close, Data returns
// ErrClosed even for bytes loaded earlier.
func (f *Field) Data() ([]byte, error) {
	if f.module.state == stateClosed {
		return nil, ErrClosed
	}
	if f.data == nil {
		if f.length == 0 {
			f.data = []byte{}
			return f.data, nil
		}
		b, err := f.module.load(f.offset, f.length)
		if err != nil {
			return nil, err
		}
		f.data = b
	}
	return f.data, nil
}

// Payload returns the field bytes without the trailing field terminator.
// The result is owned by the caller and stays valid after Close.
func (f *Field) Payload() ([]byte, error) {
	b, err := f.Data()
	if err != nil {
		return nil, err
	}
	if n := len(b); n > 0 && b[n-1] == FieldTerminator {
		b = b[:n-1]
	}
	if _, mapped := f.module.src.(source.Slicer); mapped {
		return bytes.Clone(b), nil
	}
	return b, nil
}

// RepeatCount returns how many times the subfield sequence occurs.
// Non-repeating fields always report 1.
func (f *Field) RepeatCount() (int, error) {
	b, err := f.Data()
	if err != nil {
		return 0, err
	}
	n, err := parser.RepeatCount(f.def, b)
	return n, relocate(err, f.offset)
}

// repetitions returns the start offset of every repetition, walking the
// field at most once.
func (f *Field) repetitions() ([]int, error) {
	if f.offsets != nil {
		return f.offsets, nil
	}
	b, err := f.Data()
	if err != nil {
		return nil, err
	}
	offs, err := parser.Offsets(f.def, b)
	if err != nil {
		return nil, relocate(err, f.offset)
	}
	f.offsets = offs
	return offs, nil
}

// DecodeAll decodes every subfield instance. The result maps each subfield
// name to its values in repetition order; a field that does not repeat has
// one value per name.
func (f *Field) DecodeAll() (map[string][]*Subfield, error) {
	b, err := f.Data()
	if err != nil {
		return nil, err
	}
	all, err := parser.DecodeAll(f.def, b)
	if err != nil {
		return nil, relocate(err, f.offset)
	}
	out := make(map[string][]*Subfield, len(all))
	for name, ds := range all {
		sfs := make([]*Subfield, len(ds))
		for i := range ds {
			sfs[i] = &Subfield{d: ds[i]}
		}
		out[name] = sfs
	}
	return out, nil
}

// Subfields returns every instance of the named subfield in repetition
// order, or nil when the field has no such subfield.
func (f *Field) Subfields(name string) ([]*Subfield, error) {
	def := f.def.FindSubfield(name)
	if def == nil {
		return nil, nil
	}
	offs, err := f.repetitions()
	if err != nil {
		return nil, err
	}
	out := make([]*Subfield, 0, len(offs))
	for i := range offs {
		sf, err := f.SubfieldData(def, i)
		if err != nil {
			return nil, err
		}
		if sf != nil {
			out = append(out, sf)
		}
	}
	return out, nil
}

// Subfield returns the first instance of the named subfield, or nil.
func (f *Field) Subfield(name string) (*Subfield, error) {
	def := f.def.FindSubfield(name)
	if def == nil {
		return nil, nil
	}
	return f.SubfieldData(def, 0)
}

// SubfieldData decodes one instance of a subfield without decoding the rest
// of the field. Fixed-width fields locate the instance directly; others use
// repetition offsets computed on first use. A nil result means the subfield
// is not part of this field or the instance does not exist.
func (f *Field) SubfieldData(def *SubfieldDefinition, instance int) (*Subfield, error) {
	idx := f.def.SubfieldIndex(def)
	if idx < 0 || instance < 0 {
		return nil, nil
	}
	b, err := f.Data()
	if err != nil {
		return nil, err
	}

	var d *parser.Decoded
	if f.def.FixedWidth > 0 {
		d, err = parser.SubfieldData(f.def, b, def, instance)
	} else {
		var offs []int
		if offs, err = f.repetitions(); err != nil {
			return nil, err
		}
		if instance >= len(offs) {
			return nil, nil
		}
		d, err = parser.SubfieldDataFrom(f.def, b, offs[instance], idx, instance)
	}
	if err != nil {
		return nil, relocate(err, f.offset)
	}
	if d == nil {
		return nil, nil
	}
	return &Subfield{d: *d}, nil
}

// InstanceData returns the raw bytes of one repetition, or nil.
// Like Data, the bytes may point into a mapping that Close releases.
func (f *Field) InstanceData(instance int) ([]byte, error) {
	b, err := f.Data()
	if err != nil {
		return nil, err
	}
	out, err := parser.InstanceData(f.def, b, instance)
	return out, relocate(err, f.offset)
}
