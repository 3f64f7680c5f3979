// Package tileconfig holds the structured, human-readable representation
// of one decoded tile: which mux arcs are driven, word and enum setting
// values, and any set bits the tile database could not explain.
package tileconfig

import (
	"fmt"
	"strings"
)

// Arc is a driven source->sink connection.
type Arc struct {
	Sink   string
	Source string
}

// Word is a multibit setting value. Value[0] is word bit 0.
type Word struct {
	Name  string
	Value []bool
}

// Enum is a named categorical setting value.
type Enum struct {
	Name  string
	Value string
}

// Unknown is a set bit not explained by any database entry.
type Unknown struct {
	Frame int
	Bit   int
}

// TileConfig is an ordered collection of configuration entries for one
// tile.
type TileConfig struct {
	Arcs     []Arc
	Words    []Word
	Enums    []Enum
	Unknowns []Unknown
}

// Empty reports whether the config carries no entries at all.
func (c *TileConfig) Empty() bool {
	return len(c.Arcs) == 0 && len(c.Words) == 0 && len(c.Enums) == 0 && len(c.Unknowns) == 0
}

func (c *TileConfig) Equal(other *TileConfig) bool {
	if len(c.Arcs) != len(other.Arcs) || len(c.Words) != len(other.Words) ||
		len(c.Enums) != len(other.Enums) || len(c.Unknowns) != len(other.Unknowns) {
		return false
	}
	for i, a := range c.Arcs {
		if a != other.Arcs[i] {
			return false
		}
	}
	for i, w := range c.Words {
		if w.Name != other.Words[i].Name || !boolsEqual(w.Value, other.Words[i].Value) {
			return false
		}
	}
	for i, e := range c.Enums {
		if e != other.Enums[i] {
			return false
		}
	}
	for i, u := range c.Unknowns {
		if u != other.Unknowns[i] {
			return false
		}
	}
	return true
}

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String renders the config in its textual form, one entry per line.
func (c *TileConfig) String() string {
	var buf strings.Builder
	for _, a := range c.Arcs {
		fmt.Fprintf(&buf, "arc: %s %s\n", a.Sink, a.Source)
	}
	for _, w := range c.Words {
		fmt.Fprintf(&buf, "word: %s %s\n", w.Name, FormatBits(w.Value))
	}
	for _, e := range c.Enums {
		fmt.Fprintf(&buf, "enum: %s %s\n", e.Name, e.Value)
	}
	for _, u := range c.Unknowns {
		fmt.Fprintf(&buf, "unknown: F%dB%d\n", u.Frame, u.Bit)
	}
	return buf.String()
}

// FormatBits renders a word value as a string of 0/1 characters, index 0
// first. This is the same convention the bit database uses for word
// defaults.
func FormatBits(v []bool) string {
	if len(v) == 0 {
		return "-"
	}
	var buf strings.Builder
	for _, b := range v {
		if b {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	}
	return buf.String()
}

// ParseBits reads a word value written by FormatBits.
func ParseBits(s string) ([]bool, error) {
	if s == "-" {
		return nil, nil
	}
	v := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			v[i] = false
		case '1':
			v[i] = true
		default:
			return nil, fmt.Errorf("invalid word value %q", s)
		}
	}
	return v, nil
}

// Parse reads a tile config from its textual form.
func Parse(src []byte) (*TileConfig, error) {
	c := &TileConfig{}
	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kind, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("line %d: expected <kind>: <entry>", i+1)
		}
		fields := strings.Fields(rest)
		switch kind {
		case "arc":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: arc expects sink and source", i+1)
			}
			c.Arcs = append(c.Arcs, Arc{Sink: fields[0], Source: fields[1]})
		case "word":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: word expects name and value", i+1)
			}
			v, err := ParseBits(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			c.Words = append(c.Words, Word{Name: fields[0], Value: v})
		case "enum":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: enum expects name and value", i+1)
			}
			c.Enums = append(c.Enums, Enum{Name: fields[0], Value: fields[1]})
		case "unknown":
			if len(fields) != 1 {
				return nil, fmt.Errorf("line %d: unknown expects a single bit", i+1)
			}
			var frame, bit int
			if n, err := fmt.Sscanf(fields[0], "F%dB%d", &frame, &bit); n != 2 || err != nil {
				return nil, fmt.Errorf("line %d: invalid unknown bit %q", i+1, fields[0])
			}
			c.Unknowns = append(c.Unknowns, Unknown{Frame: frame, Bit: bit})
		default:
			return nil, fmt.Errorf("line %d: unknown entry kind %q", i+1, kind)
		}
	}
	return c, nil
}
