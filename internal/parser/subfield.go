package parser

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format is the decode rule of a subfield, taken from its format control.
type Format int

const (
	FormatString    Format = iota // A, C: character data
	FormatInteger                 // I, S: ASCII implicit-point integer
	FormatReal                    // R: ASCII real
	FormatUnsigned                // b1w / B1w: unsigned binary integer
	FormatSigned                  // b2w / B2w: two's complement binary integer
	FormatFloat                   // b4w / B4w: IEEE 754 float
	FormatBinaryRaw               // b3w, b5w: fixed-point and complex, kept as bytes
	FormatBitString               // B(n): bit string of n bits
	FormatFiller                  // X(n): unused filler
)

var formatNames = map[Format]string{
	FormatString:    "string",
	FormatInteger:   "integer",
	FormatReal:      "real",
	FormatUnsigned:  "unsigned",
	FormatSigned:    "signed",
	FormatFloat:     "float",
	FormatBinaryRaw: "binary",
	FormatBitString: "bitstring",
	FormatFiller:    "filler",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Kind is the kind of a decoded value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindReal
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	default:
		return "bytes"
	}
}

// Value is a decoded subfield value. Only the member selected by Kind is set,
// plus Uint for unsigned binary integers. Raw never aliases the field data.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	// Uint holds unsigned binary values (b1w/B1w) without wrapping; Int is
	// the same value as int64 and goes negative above math.MaxInt64.
	Uint uint64
	Real float64
	Raw  []byte
}

// SubfieldDefinition describes one subfield of a field definition.
type SubfieldDefinition struct {
	Name    string
	Control string // Format control as written, e.g. "A", "b14", "R(5)"
	Format  Format
	// width is the fixed byte width, 0 when the subfield is terminator delimited.
	width     int
	bigEndian bool
}

// Width returns the fixed byte width, or 0 for variable-width subfields.
func (d *SubfieldDefinition) Width() int {
	return d.width
}

// IsVariable reports whether the subfield is delimited by a terminator.
func (d *SubfieldDefinition) IsVariable() bool {
	return d.width == 0
}

// Kind returns the kind of value Decode produces.
func (d *SubfieldDefinition) Kind() Kind {
	switch d.Format {
	case FormatString:
		return KindString
	case FormatInteger, FormatUnsigned, FormatSigned:
		return KindInt
	case FormatReal, FormatFloat:
		return KindReal
	default:
		return KindBytes
	}
}

// NewSubfieldDefinition builds a definition from a name and a single expanded
// format control such as "A", "A(8)", "I(5)", "b12", "B24" or "B(40)".
func NewSubfieldDefinition(name, control string) (*SubfieldDefinition, error) {
	d := &SubfieldDefinition{Name: name, Control: control}
	if control == "" {
		return nil, formatErr(0, "subfield %q has an empty format control", name)
	}

	width, hasWidth, err := parenWidth(control)
	if err != nil {
		return nil, formatErr(0, "subfield %q: %v", name, err)
	}

	switch control[0] {
	case 'A', 'C':
		d.Format = FormatString
		d.width = width
	case 'I', 'S':
		d.Format = FormatInteger
		d.width = width
	case 'R':
		d.Format = FormatReal
		d.width = width
	case 'X':
		d.Format = FormatFiller
		if !hasWidth || width == 0 {
			return nil, formatErr(0, "subfield %q: filler %q needs a width", name, control)
		}
		d.width = width
	case 'B', 'b':
		if hasWidth {
			if control[0] != 'B' || width == 0 || width%8 != 0 {
				return nil, formatErr(0, "subfield %q: bit string %q must be B(n) with n a multiple of 8", name, control)
			}
			d.Format = FormatBitString
			d.width = width / 8
			break
		}
		if err := d.setBinary(control); err != nil {
			return nil, formatErr(0, "subfield %q: %v", name, err)
		}
	default:
		return nil, formatErr(0, "subfield %q: unsupported format control %q", name, control)
	}
	return d, nil
}

// setBinary handles the "btw" form: t is the binary type, w the byte width.
// Lowercase b is least significant octet first, uppercase B most significant first.
func (d *SubfieldDefinition) setBinary(control string) error {
	if len(control) < 3 {
		return fmt.Errorf("binary control %q needs a type and width", control)
	}
	width, err := strconv.Atoi(control[2:])
	if err != nil || width <= 0 {
		return fmt.Errorf("binary control %q has a bad width", control)
	}
	d.width = width
	d.bigEndian = control[0] == 'B'

	switch control[1] {
	case '1':
		d.Format = FormatUnsigned
	case '2':
		d.Format = FormatSigned
	case '4':
		d.Format = FormatFloat
		if width != 4 && width != 8 {
			return fmt.Errorf("float control %q must be 4 or 8 bytes", control)
		}
		return nil
	case '3', '5':
		d.Format = FormatBinaryRaw
		return nil
	default:
		return fmt.Errorf("unknown binary type %q in %q", control[1], control)
	}
	if width != 1 && width != 2 && width != 4 && width != 8 {
		return fmt.Errorf("integer control %q must be 1, 2, 4 or 8 bytes", control)
	}
	return nil
}

// parenWidth extracts n from a "F(n)" control.
func parenWidth(control string) (int, bool, error) {
	if len(control) < 2 || control[1] != '(' {
		return 0, false, nil
	}
	if !strings.HasSuffix(control, ")") {
		return 0, true, fmt.Errorf("unbalanced width in %q", control)
	}
	inner := strings.TrimSpace(control[2 : len(control)-1])
	if inner == "" {
		return 0, true, nil
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n < 0 {
		return 0, true, fmt.Errorf("bad width in %q", control)
	}
	return n, true, nil
}

// Consumed returns how many bytes the subfield takes from the front of b.
//
// Fixed subfields consume their declared width even if b is shorter.
// Variable subfields consume up to and including the next unit or field
// terminator; with no terminator the result is len(b)+1 so that a caller
// walking a field sees the overrun.
func (d *SubfieldDefinition) Consumed(b []byte) int {
	if d.width > 0 {
		return d.width
	}
	return variableLength(b) + 1
}

func variableLength(b []byte) int {
	for i, c := range b {
		if c == UnitTerminator || c == FieldTerminator {
			return i
		}
	}
	return len(b)
}

// Decode decodes the subfield at the front of b and reports the bytes consumed.
func (d *SubfieldDefinition) Decode(b []byte) (Value, int, error) {
	if d.width == 0 {
		n := variableLength(b)
		consumed := n + 1
		if n == len(b) {
			// No terminator: the value runs to the end of the data.
			consumed = n
		}
		v, err := d.decodeText(b[:n])
		return v, consumed, err
	}

	if len(b) < d.width {
		return Value{}, 0, &ErrTruncated{Want: d.width, Got: len(b)}
	}
	raw := b[:d.width]

	switch d.Format {
	case FormatString, FormatInteger, FormatReal:
		v, err := d.decodeText(raw)
		return v, d.width, err
	case FormatUnsigned:
		u := d.uint(raw)
		return Value{Kind: KindInt, Int: int64(u), Uint: u}, d.width, nil
	case FormatSigned:
		return Value{Kind: KindInt, Int: d.sint(raw)}, d.width, nil
	case FormatFloat:
		u := d.uint(raw)
		if d.width == 4 {
			return Value{Kind: KindReal, Real: float64(math.Float32frombits(uint32(u)))}, d.width, nil
		}
		return Value{Kind: KindReal, Real: math.Float64frombits(u)}, d.width, nil
	default:
		return Value{Kind: KindBytes, Raw: bytes.Clone(raw)}, d.width, nil
	}
}

func (d *SubfieldDefinition) decodeText(raw []byte) (Value, error) {
	switch d.Format {
	case FormatInteger:
		s := strings.TrimSpace(string(raw))
		if s == "" {
			return Value{Kind: KindInt}, nil
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, 64)
		if err != nil {
			return Value{}, formatErr(0, "subfield %q: %q is not an integer", d.Name, s)
		}
		return Value{Kind: KindInt, Int: n}, nil
	case FormatReal:
		s := strings.TrimSpace(string(raw))
		if s == "" {
			return Value{Kind: KindReal}, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, formatErr(0, "subfield %q: %q is not a real", d.Name, s)
		}
		return Value{Kind: KindReal, Real: f}, nil
	case FormatString:
		return Value{Kind: KindString, Str: string(raw)}, nil
	default:
		return Value{Kind: KindBytes, Raw: bytes.Clone(raw)}, nil
	}
}

func (d *SubfieldDefinition) uint(raw []byte) uint64 {
	switch len(raw) {
	case 1:
		return uint64(raw[0])
	case 2:
		if d.bigEndian {
			return uint64(binary.BigEndian.Uint16(raw))
		}
		return uint64(binary.LittleEndian.Uint16(raw))
	case 4:
		if d.bigEndian {
			return uint64(binary.BigEndian.Uint32(raw))
		}
		return uint64(binary.LittleEndian.Uint32(raw))
	default:
		if d.bigEndian {
			return binary.BigEndian.Uint64(raw)
		}
		return binary.LittleEndian.Uint64(raw)
	}
}

func (d *SubfieldDefinition) sint(raw []byte) int64 {
	u := d.uint(raw)
	switch len(raw) {
	case 1:
		return int64(int8(u))
	case 2:
		return int64(int16(u))
	case 4:
		return int64(int32(u))
	default:
		return int64(u)
	}
}
