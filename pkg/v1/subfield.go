package iso8211

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beetlebugorg/iso8211/internal/parser"
)

// Subfield is one decoded subfield value.
type Subfield struct {
	d parser.Decoded
}

// Definition returns the subfield definition.
func (s *Subfield) Definition() *SubfieldDefinition {
	return s.d.Def
}

// Name returns the subfield name, e.g. "RCID".
func (s *Subfield) Name() string {
	return s.d.Def.Name
}

// Consumed returns how many bytes of field data the value used, including
// its terminator for variable-width subfields.
func (s *Subfield) Consumed() int {
	return s.d.Consumed
}

// Instance returns the repetition the value came from.
func (s *Subfield) Instance() int {
	return s.d.Instance
}

// Kind returns the kind of the decoded value.
func (s *Subfield) Kind() Kind {
	return s.d.Value.Kind
}

// Value returns the decoded value.
func (s *Subfield) Value() Value {
	return s.d.Value
}

// AsString returns the value as text. Numbers are formatted in decimal.
func (s *Subfield) AsString() string {
	v := s.d.Value
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		if s.d.Def.Format == FormatUnsigned {
			return strconv.FormatUint(v.Uint, 10)
		}
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'f', -1, 64)
	default:
		return string(v.Raw)
	}
}

// AsInt returns the value as an integer. Reals are truncated; text is parsed
// and yields 0 when it is not a number.
func (s *Subfield) AsInt() int64 {
	v := s.d.Value
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindReal:
		return int64(v.Real)
	case KindString:
		n, _ := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		return n
	default:
		return 0
	}
}

// AsUint returns unsigned binary values without wrapping. Other kinds are
// converted as AsInt does.
func (s *Subfield) AsUint() uint64 {
	if s.d.Def.Format == FormatUnsigned {
		return s.d.Value.Uint
	}
	return uint64(s.AsInt())
}

// AsReal returns the value as a float. Text is parsed and yields 0 when it is
// not a number.
func (s *Subfield) AsReal() float64 {
	v := s.d.Value
	switch v.Kind {
	case KindReal:
		return v.Real
	case KindInt:
		return float64(v.Int)
	case KindString:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return f
	default:
		return 0
	}
}

// AsBytes returns the raw bytes of binary values, or the text of string values.
func (s *Subfield) AsBytes() []byte {
	v := s.d.Value
	switch v.Kind {
	case KindBytes:
		return v.Raw
	case KindString:
		return []byte(v.Str)
	default:
		return nil
	}
}

// String returns a diagnostic rendering such as `RCID[0] = 42 (int, 4 bytes)`.
func (s *Subfield) String() string {
	var val string
	switch s.d.Value.Kind {
	case KindString:
		val = strconv.Quote(s.d.Value.Str)
	case KindBytes:
		val = fmt.Sprintf("% x", s.d.Value.Raw)
	default:
		val = s.AsString()
	}
	return fmt.Sprintf("%s[%d] = %s (%s, %d bytes)", s.Name(), s.d.Instance, val, s.d.Value.Kind, s.d.Consumed)
}
