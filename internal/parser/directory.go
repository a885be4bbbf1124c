package parser

import (
	"github.com/dhconnelly/rtreego"
)

// DirEntry is one directory entry: a tag and the span of its field data,
// Pos being relative to the start of the field area.
type DirEntry struct {
	Tag    string
	Length int
	Pos    int
}

// ParseDirectory scans the directory that follows the leader in rec.
//
// rec holds at least the leader and directory of the record; the field area
// need not be present. Entries are read until a field terminator opens an
// entry slot. Every field span must end within the declared record length.
// When checkOverlaps is set, spans that share a byte are rejected.
func ParseDirectory(rec []byte, l Leader, checkOverlaps bool) ([]DirEntry, error) {
	width := l.EntryWidth()
	var entries []DirEntry

	i := LeaderSize
	for {
		if i >= len(rec) || i >= l.FieldAreaStart {
			return nil, formatErr(i, "directory not terminated before field area at %d", l.FieldAreaStart)
		}
		if rec[i] == FieldTerminator {
			break
		}
		if i+width > len(rec) {
			return nil, &ErrTruncated{Offset: int64(i), Want: width, Got: len(rec) - i}
		}

		e := DirEntry{Tag: string(rec[i : i+l.SizeFieldTag])}
		var err error
		off := i + l.SizeFieldTag
		if e.Length, err = parseDigits(rec, off, l.SizeFieldLength, "field length"); err != nil {
			return nil, err
		}
		off += l.SizeFieldLength
		if e.Pos, err = parseDigits(rec, off, l.SizeFieldPos, "field position"); err != nil {
			return nil, err
		}

		if start := l.FieldAreaStart + e.Pos; start+e.Length > l.RecordLength {
			return nil, formatErr(i, "field %q [%d,+%d) runs past record length %d",
				e.Tag, start, e.Length, l.RecordLength)
		}

		entries = append(entries, e)
		i += width
	}

	if checkOverlaps {
		if err := checkSpanOverlaps(entries, l.FieldAreaStart); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// fieldSpan wraps a directory entry for R-tree storage.
type fieldSpan struct {
	entry DirEntry
}

// Bounds implements rtreego.Spatial interface.
//
// Spans are half-open byte ranges; shrinking the length by half a byte keeps
// adjacent fields from touching while any shared byte still intersects.
func (s *fieldSpan) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(rtreego.Point{float64(s.entry.Pos)}, []float64{float64(s.entry.Length) - 0.5})
	return rect
}

// checkSpanOverlaps indexes every non-empty span in a one-dimensional R-tree
// and rejects any span that intersects one already indexed.
func checkSpanOverlaps(entries []DirEntry, fieldAreaStart int) error {
	tree := rtreego.NewTree(1, 4, 16)
	for _, e := range entries {
		if e.Length == 0 {
			continue
		}
		span := &fieldSpan{entry: e}
		if hits := tree.SearchIntersect(span.Bounds()); len(hits) > 0 {
			other := hits[0].(*fieldSpan).entry
			return formatErr(fieldAreaStart+e.Pos, "field %q [%d,+%d) overlaps field %q [%d,+%d)",
				e.Tag, e.Pos, e.Length, other.Tag, other.Pos, other.Length)
		}
		tree.Insert(span)
	}
	return nil
}
