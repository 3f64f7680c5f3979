// Package cram models a tile-local configuration memory: a dense
// frames-by-bits matrix with windowed views onto sub-regions. The bit
// database only consumes the view interface; this package provides the
// concrete matrix used by tests and the command line tooling.
package cram

import (
	"fmt"
	"strings"
)

// CRAM is a frames x bits matrix, initially all zero.
type CRAM struct {
	frames int
	bits   int
	data   []bool
}

// New allocates a zeroed CRAM.
func New(frames, bits int) *CRAM {
	if frames < 0 || bits < 0 {
		panic(fmt.Sprintf("cram: invalid dimensions %dx%d", frames, bits))
	}
	return &CRAM{frames: frames, bits: bits, data: make([]bool, frames*bits)}
}

func (c *CRAM) Frames() int    { return c.frames }
func (c *CRAM) FrameBits() int { return c.bits }

func (c *CRAM) index(frame, bit int) int {
	if frame < 0 || frame >= c.frames || bit < 0 || bit >= c.bits {
		panic(fmt.Sprintf("cram: bit (%d, %d) out of range %dx%d", frame, bit, c.frames, c.bits))
	}
	return frame*c.bits + bit
}

// Bit reads one bit.
func (c *CRAM) Bit(frame, bit int) bool {
	return c.data[c.index(frame, bit)]
}

// SetBit writes one bit.
func (c *CRAM) SetBit(frame, bit int, v bool) {
	c.data[c.index(frame, bit)] = v
}

// View returns a window of the CRAM starting at (frameOffset, bitOffset)
// spanning frames x bits. Tile databases address bits relative to their
// tile's window, not the whole chip.
func (c *CRAM) View(frameOffset, bitOffset, frames, bits int) *View {
	if frameOffset < 0 || bitOffset < 0 || frameOffset+frames > c.frames || bitOffset+bits > c.bits {
		panic(fmt.Sprintf("cram: view (%d+%d, %d+%d) out of range %dx%d",
			frameOffset, frames, bitOffset, bits, c.frames, c.bits))
	}
	return &View{cram: c, frameOffset: frameOffset, bitOffset: bitOffset, frames: frames, bits: bits}
}

// FullView returns a view spanning the whole CRAM.
func (c *CRAM) FullView() *View {
	return c.View(0, 0, c.frames, c.bits)
}

// Equal compares two CRAMs bit for bit.
func (c *CRAM) Equal(other *CRAM) bool {
	if c.frames != other.frames || c.bits != other.bits {
		return false
	}
	for i := range c.data {
		if c.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Dump renders the CRAM as text, one line of 0/1 characters per frame.
func (c *CRAM) Dump() string {
	var buf strings.Builder
	for frame := 0; frame < c.frames; frame++ {
		for bit := 0; bit < c.bits; bit++ {
			if c.Bit(frame, bit) {
				buf.WriteByte('1')
			} else {
				buf.WriteByte('0')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Parse reads a CRAM from its text dump. All frames must have the same
// length.
func Parse(src []byte) (*CRAM, error) {
	var rows []string
	for i, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(rows) > 0 && len(line) != len(rows[0]) {
			return nil, fmt.Errorf("line %d: frame length %d, expected %d", i+1, len(line), len(rows[0]))
		}
		for j := 0; j < len(line); j++ {
			if line[j] != '0' && line[j] != '1' {
				return nil, fmt.Errorf("line %d: invalid character %q", i+1, line[j])
			}
		}
		rows = append(rows, line)
	}
	bits := 0
	if len(rows) > 0 {
		bits = len(rows[0])
	}
	c := New(len(rows), bits)
	for frame, row := range rows {
		for bit := 0; bit < len(row); bit++ {
			if row[bit] == '1' {
				c.SetBit(frame, bit, true)
			}
		}
	}
	return c, nil
}

// View is a window onto a CRAM. It satisfies the bit database's view
// interface.
type View struct {
	cram        *CRAM
	frameOffset int
	bitOffset   int
	frames      int
	bits        int
}

func (v *View) Frames() int    { return v.frames }
func (v *View) FrameBits() int { return v.bits }

func (v *View) check(frame, bit int) {
	if frame < 0 || frame >= v.frames || bit < 0 || bit >= v.bits {
		panic(fmt.Sprintf("cram: view bit (%d, %d) out of range %dx%d", frame, bit, v.frames, v.bits))
	}
}

func (v *View) Bit(frame, bit int) bool {
	v.check(frame, bit)
	return v.cram.Bit(v.frameOffset+frame, v.bitOffset+bit)
}

func (v *View) SetBit(frame, bit int, val bool) {
	v.check(frame, bit)
	v.cram.SetBit(v.frameOffset+frame, v.bitOffset+bit, val)
}
