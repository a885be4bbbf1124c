package parser

// Decoded is one decoded subfield instance within a field.
type Decoded struct {
	Def      *SubfieldDefinition
	Value    Value
	Consumed int // Bytes taken from the field data, terminator included
	Instance int // Repetition index
	Offset   int // Offset within the field data
}

// step returns how far one subfield advances a walk over rest.
//
// A variable subfield with no terminator before the end of the data keeps the
// remaining bytes when it is the last subfield of the sequence; otherwise the
// walk is pushed one byte past the end so the partial repetition is dropped.
func step(sf *SubfieldDefinition, rest []byte, last bool) int {
	if !sf.IsVariable() {
		return sf.Width()
	}
	n := variableLength(rest)
	if n == len(rest) && last {
		return n
	}
	return n + 1
}

func restAt(data []byte, off int) []byte {
	if off >= len(data) {
		return nil
	}
	return data[off:]
}

// fixedPayload returns the length of data that holds fixed-width repetitions.
// A single trailing field terminator that breaks exact division is not payload.
func fixedPayload(def *FieldDefinition, data []byte) int {
	n := len(data)
	if n%def.FixedWidth != 0 && n > 0 && data[n-1] == FieldTerminator {
		n--
	}
	return n
}

// RepeatCount returns how many times the subfield sequence occurs in data.
func RepeatCount(def *FieldDefinition, data []byte) (int, error) {
	if !def.Repeating || len(def.Subfields) == 0 {
		return 1, nil
	}
	if def.FixedWidth > 0 {
		n := fixedPayload(def, data)
		if n%def.FixedWidth != 0 {
			return 0, formatErr(0, "field %q: %d bytes is not a multiple of the %d byte repetition",
				def.Tag, n, def.FixedWidth)
		}
		return n / def.FixedWidth, nil
	}
	return len(walk(def, data)), nil
}

// walk returns the start offset of every complete repetition of a variable
// width field. It stops once fewer than two bytes remain, tolerating a
// trailing terminator, or when a repetition would run past the data.
func walk(def *FieldDefinition, data []byte) []int {
	var starts []int
	last := len(def.Subfields) - 1
	off := 0
	for {
		start := off
		for i, sf := range def.Subfields {
			off += step(sf, restAt(data, off), i == last)
			if off > len(data) {
				return starts
			}
		}
		starts = append(starts, start)
		if off > len(data)-2 {
			return starts
		}
	}
}

// Offsets returns the start offset of every repetition in data.
func Offsets(def *FieldDefinition, data []byte) ([]int, error) {
	count, err := RepeatCount(def, data)
	if err != nil {
		return nil, err
	}
	switch {
	case !def.Repeating || len(def.Subfields) == 0:
		return []int{0}, nil
	case def.FixedWidth > 0:
		offs := make([]int, count)
		for i := range offs {
			offs[i] = i * def.FixedWidth
		}
		return offs, nil
	default:
		return walk(def, data), nil
	}
}

// DecodeAll decodes every subfield of every repetition in one pass. The result
// maps subfield name to its values in repetition order.
func DecodeAll(def *FieldDefinition, data []byte) (map[string][]Decoded, error) {
	offs, err := Offsets(def, data)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Decoded, len(def.Subfields))
	last := len(def.Subfields) - 1
	for rep, off := range offs {
		for i, sf := range def.Subfields {
			d, err := decodeOne(sf, data, off)
			if err != nil {
				return nil, err
			}
			d.Instance = rep
			out[sf.Name] = append(out[sf.Name], d)
			off += step(sf, restAt(data, off), i == last)
		}
	}
	return out, nil
}

func decodeOne(sf *SubfieldDefinition, data []byte, off int) (Decoded, error) {
	v, n, err := sf.Decode(restAt(data, off))
	if err != nil {
		switch e := err.(type) {
		case *ErrFormat:
			e.Offset += int64(off)
		case *ErrTruncated:
			e.Offset += int64(off)
		}
		return Decoded{}, err
	}
	return Decoded{Def: sf, Value: v, Consumed: n, Offset: off}, nil
}

// SubfieldData decodes one instance of sub without decoding the whole field.
//
// Fixed-width fields jump straight to the repetition; variable-width fields
// are walked from the start. A nil result means the subfield or instance is
// not present.
func SubfieldData(def *FieldDefinition, data []byte, sub *SubfieldDefinition, instance int) (*Decoded, error) {
	idx := def.SubfieldIndex(sub)
	if idx < 0 || instance < 0 {
		return nil, nil
	}
	count, err := RepeatCount(def, data)
	if err != nil {
		return nil, err
	}
	if instance >= count {
		return nil, nil
	}

	start := 0
	if def.FixedWidth > 0 {
		start = instance * def.FixedWidth
	} else {
		last := len(def.Subfields) - 1
		for rep := 0; rep < instance; rep++ {
			for i, sf := range def.Subfields {
				start += step(sf, restAt(data, start), i == last)
			}
		}
	}
	return SubfieldDataFrom(def, data, start, idx, instance)
}

// SubfieldDataFrom decodes subfield idx of the repetition starting at start.
// It lets callers that memoized Offsets skip the walk.
func SubfieldDataFrom(def *FieldDefinition, data []byte, start, idx, instance int) (*Decoded, error) {
	if idx < 0 || idx >= len(def.Subfields) {
		return nil, nil
	}
	last := len(def.Subfields) - 1
	off := start
	for i := 0; i < idx; i++ {
		off += step(def.Subfields[i], restAt(data, off), i == last)
	}
	if off > len(data) {
		return nil, nil
	}
	d, err := decodeOne(def.Subfields[idx], data, off)
	if err != nil {
		return nil, err
	}
	d.Instance = instance
	return &d, nil
}

// InstanceData returns the raw bytes of one repetition, or nil when absent.
func InstanceData(def *FieldDefinition, data []byte, instance int) ([]byte, error) {
	offs, err := Offsets(def, data)
	if err != nil {
		return nil, err
	}
	if instance < 0 || instance >= len(offs) {
		return nil, nil
	}
	if !def.Repeating || len(def.Subfields) == 0 {
		return data, nil
	}

	start := offs[instance]
	end := start
	last := len(def.Subfields) - 1
	for i, sf := range def.Subfields {
		end += step(sf, restAt(data, end), i == last)
	}
	return data[start:min(end, len(data))], nil
}
