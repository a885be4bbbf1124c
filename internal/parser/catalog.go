package parser

import (
	"strings"

	"github.com/rs/zerolog"
)

// Catalog is the schema read from the Data Descriptive Record: every field
// definition in directory order, indexed by tag.
type Catalog struct {
	leader Leader
	defs   []*FieldDefinition
	byTag  map[string]int
}

// ParseCatalog parses a complete DDR, leader included.
func ParseCatalog(header []byte, checkOverlaps bool, logger zerolog.Logger) (*Catalog, error) {
	l, err := ParseLeader(header, KindDescriptive)
	if err != nil {
		return nil, err
	}
	if len(header) < l.RecordLength {
		return nil, &ErrTruncated{Want: l.RecordLength, Got: len(header)}
	}
	header = header[:l.RecordLength]

	entries, err := ParseDirectory(header, l, checkOverlaps)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		leader: l,
		byTag:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		start := l.FieldAreaStart + e.Pos
		def, err := ParseFieldDescriptor(e.Tag, header[start:start+e.Length], l.FieldControlLength)
		if err != nil {
			if fe, ok := err.(*ErrFormat); ok {
				fe.Offset += int64(start)
			}
			return nil, err
		}

		key := strings.ToUpper(e.Tag)
		if i, dup := c.byTag[key]; dup {
			logger.Warn().Str("tag", e.Tag).Msg("duplicate field definition replaces earlier one")
			c.defs[i] = def
			continue
		}
		c.byTag[key] = len(c.defs)
		c.defs = append(c.defs, def)
	}

	logger.Debug().Int("fields", len(c.defs)).Int("length", l.RecordLength).Msg("parsed data descriptive record")
	return c, nil
}

// Leader returns the DDR leader.
func (c *Catalog) Leader() Leader {
	return c.leader
}

// FindByTag returns the definition for tag, matched case-insensitively, or nil.
func (c *Catalog) FindByTag(tag string) *FieldDefinition {
	if i, ok := c.byTag[strings.ToUpper(tag)]; ok {
		return c.defs[i]
	}
	return nil
}

// Len returns the number of field definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// At returns the i'th field definition in directory order.
func (c *Catalog) At(i int) *FieldDefinition {
	if i < 0 || i >= len(c.defs) {
		return nil
	}
	return c.defs[i]
}

// Definitions returns all field definitions in directory order.
func (c *Catalog) Definitions() []*FieldDefinition {
	out := make([]*FieldDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}
