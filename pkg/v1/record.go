package iso8211

import (
	"strings"
)

// Record is one data record: its leader and its fields in directory order.
//
// Each ReadRecord call returns a new Record; nothing is shared with records
// read before or after it. Field data is fetched from the Module on first
// use, so a Record must not be used after its Module is closed.
type Record struct {
	leader Leader
	offset int64
	length int
	reused bool
	fields []*Field
}

// Leader returns the record leader. For records that reuse a previous
// directory this is the leader of the record that declared it.
func (r *Record) Leader() Leader {
	return r.leader
}

// Offset returns the file offset where the record starts.
func (r *Record) Offset() int64 {
	return r.offset
}

// Len returns the number of bytes the record occupies in the file.
func (r *Record) Len() int {
	return r.length
}

// ReusedDirectory reports whether the record had no leader or directory of
// its own.
func (r *Record) ReusedDirectory() bool {
	return r.reused
}

// Fields returns the fields in directory order.
func (r *Record) Fields() []*Field {
	return r.fields
}

// FieldCount returns the number of fields.
func (r *Record) FieldCount() int {
	return len(r.fields)
}

// FieldAt returns the i'th field, or nil.
func (r *Record) FieldAt(i int) *Field {
	if i < 0 || i >= len(r.fields) {
		return nil
	}
	return r.fields[i]
}

// Field returns the first field with tag, or nil. Tags match case-insensitively.
func (r *Record) Field(tag string) *Field {
	return r.FindField(tag, 0)
}

// FindField returns the occurrence'th field with tag, or nil.
func (r *Record) FindField(tag string, occurrence int) *Field {
	for _, f := range r.fields {
		if strings.EqualFold(f.tag, tag) {
			if occurrence == 0 {
				return f
			}
			occurrence--
		}
	}
	return nil
}

// lookup resolves a subfield instance; any miss or decode failure is reported
// as not found.
func (r *Record) lookup(tag string, occurrence int, name string, instance int) *Subfield {
	f := r.FindField(tag, occurrence)
	if f == nil {
		return nil
	}
	def := f.def.FindSubfield(name)
	if def == nil {
		return nil
	}
	sf, err := f.SubfieldData(def, instance)
	if err != nil {
		return nil
	}
	return sf
}

// IntSubfield returns an integer subfield value.
//
// Example:
//
//	rcid, ok := rec.IntSubfield("FRID", 0, "RCID", 0)
func (r *Record) IntSubfield(tag string, occurrence int, name string, instance int) (int64, bool) {
	sf := r.lookup(tag, occurrence, name, instance)
	if sf == nil {
		return 0, false
	}
	return sf.AsInt(), true
}

// FloatSubfield returns a real subfield value.
func (r *Record) FloatSubfield(tag string, occurrence int, name string, instance int) (float64, bool) {
	sf := r.lookup(tag, occurrence, name, instance)
	if sf == nil {
		return 0, false
	}
	return sf.AsReal(), true
}

// StringSubfield returns a subfield value as text.
func (r *Record) StringSubfield(tag string, occurrence int, name string, instance int) (string, bool) {
	sf := r.lookup(tag, occurrence, name, instance)
	if sf == nil {
		return "", false
	}
	return sf.AsString(), true
}
