package bitdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngi-nix/prjtrellis/internal/cram"
)

func TestParseConfigBit(t *testing.T) {
	cases := []struct {
		in   string
		want ConfigBit
	}{
		{"F0B0", ConfigBit{Frame: 0, Bit: 0}},
		{"F12B34", ConfigBit{Frame: 12, Bit: 34}},
		{"!F2B3", ConfigBit{Frame: 2, Bit: 3, Inv: true}},
	}
	for _, tc := range cases {
		got, err := ParseConfigBit(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.in, got.String())
	}
}

func TestParseConfigBitErrors(t *testing.T) {
	for _, in := range []string{"", "!", "F1", "B2", "F1B", "FxB2", "F1B2x", "F-1B2", "F1B-2", "f1b2"} {
		_, err := ParseConfigBit(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseBitGroup(t *testing.T) {
	g, err := ParseBitGroup("F0B1 !F2B3 F4B5")
	require.NoError(t, err)
	require.Len(t, g, 3)
	assert.Equal(t, ConfigBit{Frame: 2, Bit: 3, Inv: true}, g[1])
	assert.Equal(t, "F0B1 !F2B3 F4B5", g.String())

	empty, err := ParseBitGroup("-")
	require.NoError(t, err)
	assert.Len(t, empty, 0)
	assert.Equal(t, "-", empty.String())
}

func TestBitGroupMatchSetClear(t *testing.T) {
	g := BitGroup{
		{Frame: 0, Bit: 0},
		{Frame: 1, Bit: 2, Inv: true},
	}
	view := cram.New(4, 4).FullView()

	// Zero CRAM: the non-inverted bit reads 0, no match.
	assert.False(t, g.Match(view))

	g.Set(view)
	assert.True(t, view.Bit(0, 0))
	assert.False(t, view.Bit(1, 2))
	assert.True(t, g.Match(view))

	g.Clear(view)
	assert.False(t, view.Bit(0, 0))
	assert.True(t, view.Bit(1, 2))
	assert.False(t, g.Match(view))
}

func TestBitGroupInvertedMatchRequiresZero(t *testing.T) {
	g := BitGroup{{Frame: 2, Bit: 3, Inv: true}}
	view := cram.New(4, 4).FullView()
	assert.True(t, g.Match(view), "inverted bit matches a 0 in the raw CRAM")
	view.SetBit(2, 3, true)
	assert.False(t, g.Match(view))
}

func TestEmptyBitGroup(t *testing.T) {
	var g BitGroup
	c := cram.New(2, 2)
	view := c.FullView()
	assert.True(t, g.Match(view))
	g.Set(view)
	g.Clear(view)
	assert.True(t, c.Equal(cram.New(2, 2)), "set/clear of the empty group are no-ops")
}

func TestBitSetCoverage(t *testing.T) {
	g := BitGroup{{Frame: 0, Bit: 1}, {Frame: 2, Bit: 3, Inv: true}}
	cov := NewBitSet()
	g.AddCoverage(cov)
	assert.Equal(t, 2, cov.Len())
	assert.True(t, cov.Contains(ConfigBit{Frame: 0, Bit: 1}))
	assert.True(t, cov.ContainsCoord(2, 3))
	assert.False(t, cov.Contains(ConfigBit{Frame: 2, Bit: 3}), "polarity is part of identity")

	// Accumulation is additive.
	before := cov.Len()
	g.AddCoverage(cov)
	assert.Equal(t, before, cov.Len())
	other := NewBitSet()
	other.Add(ConfigBit{Frame: 9, Bit: 9})
	cov.Merge(other)
	assert.Equal(t, before+1, cov.Len())
}

func TestNilBitSetIsAccepted(t *testing.T) {
	g := BitGroup{{Frame: 0, Bit: 0}}
	var cov BitSet
	g.AddCoverage(cov) // must not panic
	assert.Equal(t, 0, cov.Len())
	assert.False(t, cov.Contains(ConfigBit{Frame: 0, Bit: 0}))
}
