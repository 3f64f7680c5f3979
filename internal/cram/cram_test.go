package cram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsZeroed(t *testing.T) {
	c := New(3, 5)
	assert.Equal(t, 3, c.Frames())
	assert.Equal(t, 5, c.FrameBits())
	for frame := 0; frame < 3; frame++ {
		for bit := 0; bit < 5; bit++ {
			assert.False(t, c.Bit(frame, bit))
		}
	}
}

func TestSetBit(t *testing.T) {
	c := New(2, 2)
	c.SetBit(1, 0, true)
	assert.True(t, c.Bit(1, 0))
	assert.False(t, c.Bit(0, 1))
	c.SetBit(1, 0, false)
	assert.False(t, c.Bit(1, 0))
}

func TestOutOfRangePanics(t *testing.T) {
	c := New(2, 2)
	assert.Panics(t, func() { c.Bit(2, 0) })
	assert.Panics(t, func() { c.SetBit(0, -1, true) })
	assert.Panics(t, func() { c.View(1, 1, 2, 1) })
}

func TestView(t *testing.T) {
	c := New(4, 4)
	v := c.View(1, 2, 2, 2)
	assert.Equal(t, 2, v.Frames())
	assert.Equal(t, 2, v.FrameBits())

	v.SetBit(0, 0, true)
	assert.True(t, c.Bit(1, 2), "view coordinates are relative to the window")
	c.SetBit(2, 3, true)
	assert.True(t, v.Bit(1, 1))

	assert.Panics(t, func() { v.Bit(2, 0) }, "views do not reach outside their window")
}

func TestDumpParseRoundTrip(t *testing.T) {
	c := New(3, 4)
	c.SetBit(0, 0, true)
	c.SetBit(1, 3, true)
	c.SetBit(2, 2, true)

	dump := c.Dump()
	assert.Equal(t, "1000\n0001\n0010\n", dump)

	parsed, err := Parse([]byte(dump))
	require.NoError(t, err)
	assert.True(t, c.Equal(parsed))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("10\n1\n"))
	assert.Error(t, err, "ragged frames")
	_, err = Parse([]byte("10\n1x\n"))
	assert.Error(t, err, "invalid character")
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Frames())
}

func TestEqual(t *testing.T) {
	a := New(2, 2)
	b := New(2, 2)
	assert.True(t, a.Equal(b))
	b.SetBit(0, 1, true)
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(New(2, 3)))
}
