// Package bitdb keeps track of what each bit in a tile does. Unlike the
// other databases in the project, this one is mutable at runtime so that
// fuzzing tooling can grow it in place and persist it back to disk.
package bitdb

import (
	"fmt"
	"strconv"
	"strings"
)

// CRAMView is the read/write window onto one tile's configuration memory.
// The caller owns the view and its synchronization; the database only
// issues reads and writes through it.
type CRAMView interface {
	Bit(frame, bit int) bool
	SetBit(frame, bit int, v bool)
	Frames() int
	FrameBits() int
}

// ConfigBit is a single configuration bit, given by its frame/bit offset
// inside the tile and whether or not it is inverted.
type ConfigBit struct {
	Frame int
	Bit   int
	Inv   bool
}

// String renders the bit in its textual form: [!]F<frame>B<bit>.
func (b ConfigBit) String() string {
	if b.Inv {
		return fmt.Sprintf("!F%dB%d", b.Frame, b.Bit)
	}
	return fmt.Sprintf("F%dB%d", b.Frame, b.Bit)
}

// ParseConfigBit reads a configuration bit from its textual form.
func ParseConfigBit(s string) (ConfigBit, error) {
	var b ConfigBit
	rest := s
	if strings.HasPrefix(rest, "!") {
		b.Inv = true
		rest = rest[1:]
	}
	if !strings.HasPrefix(rest, "F") {
		return ConfigBit{}, fmt.Errorf("invalid config bit %q", s)
	}
	frameStr, bitStr, found := strings.Cut(rest[1:], "B")
	if !found {
		return ConfigBit{}, fmt.Errorf("invalid config bit %q", s)
	}
	frame, err := strconv.Atoi(frameStr)
	if err != nil || frame < 0 {
		return ConfigBit{}, fmt.Errorf("invalid frame in config bit %q", s)
	}
	bit, err := strconv.Atoi(bitStr)
	if err != nil || bit < 0 {
		return ConfigBit{}, fmt.Errorf("invalid bit in config bit %q", s)
	}
	b.Frame = frame
	b.Bit = bit
	return b, nil
}

// BitSet is a coverage accumulator: the set of bits consulted during
// decode calls. Accumulation is additive. A nil BitSet is a valid "no
// coverage requested" value on every decode path.
type BitSet map[ConfigBit]struct{}

func NewBitSet() BitSet { return make(BitSet) }

func (s BitSet) Add(b ConfigBit) {
	if s == nil {
		return
	}
	s[b] = struct{}{}
}

func (s BitSet) Contains(b ConfigBit) bool {
	_, ok := s[b]
	return ok
}

// ContainsCoord reports whether the coordinate is covered in either
// polarity.
func (s BitSet) ContainsCoord(frame, bit int) bool {
	return s.Contains(ConfigBit{Frame: frame, Bit: bit}) ||
		s.Contains(ConfigBit{Frame: frame, Bit: bit, Inv: true})
}

// Merge adds every bit of other into s.
func (s BitSet) Merge(other BitSet) {
	for b := range other {
		s.Add(b)
	}
}

func (s BitSet) Len() int { return len(s) }

// BitGroup is an ordered list of configuration bits that together
// correspond to one setting. The empty group is a valid distinguished
// value meaning "no bits required": it matches any state and setting or
// clearing it is a no-op. Empty groups encode default mux drivers and
// default enum options.
type BitGroup []ConfigBit

// Match returns true if every bit of the group reads at its match
// polarity: 1 when not inverted, 0 when inverted.
func (g BitGroup) Match(view CRAMView) bool {
	for _, b := range g {
		if view.Bit(b.Frame, b.Bit) == b.Inv {
			return false
		}
	}
	return true
}

// Set writes every bit of the group to its match polarity.
func (g BitGroup) Set(view CRAMView) {
	for _, b := range g {
		view.SetBit(b.Frame, b.Bit, !b.Inv)
	}
}

// Clear writes every bit of the group to the opposite of its match
// polarity.
func (g BitGroup) Clear(view CRAMView) {
	for _, b := range g {
		view.SetBit(b.Frame, b.Bit, b.Inv)
	}
}

// AddCoverage records the group's bits in a coverage set.
func (g BitGroup) AddCoverage(cov BitSet) {
	for _, b := range g {
		cov.Add(b)
	}
}

func (g BitGroup) Equal(other BitGroup) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the group as space-separated bit tokens, or "-" for the
// empty group.
func (g BitGroup) String() string {
	if len(g) == 0 {
		return "-"
	}
	toks := make([]string, len(g))
	for i, b := range g {
		toks[i] = b.String()
	}
	return strings.Join(toks, " ")
}

// ParseBitGroup reads a group from its textual form.
func ParseBitGroup(s string) (BitGroup, error) {
	fields := strings.Fields(s)
	if len(fields) == 1 && fields[0] == "-" {
		return BitGroup{}, nil
	}
	g := make(BitGroup, 0, len(fields))
	for _, f := range fields {
		b, err := ParseConfigBit(f)
		if err != nil {
			return nil, err
		}
		g = append(g, b)
	}
	return g, nil
}
