package bitdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngi-nix/prjtrellis/internal/cram"
)

func lutWord() WordSettingBits {
	return WordSettingBits{
		Name: "LUT",
		Bits: []BitGroup{
			{{Frame: 0, Bit: 0}},
			{{Frame: 0, Bit: 1}},
			{{Frame: 1, Bit: 0, Inv: true}},
			{{Frame: 1, Bit: 1}},
		},
		DefVal: []bool{false, false, false, false},
	}
}

func TestWordRoundTrip(t *testing.T) {
	word := lutWord()
	view := cram.New(2, 2).FullView()

	require.NoError(t, word.SetValue(view, []bool{true, false, true, false}))
	assert.True(t, view.Bit(0, 0))
	assert.False(t, view.Bit(0, 1))
	assert.False(t, view.Bit(1, 0), "setting an inverted bit writes a 0")
	assert.False(t, view.Bit(1, 1))

	value, ok := word.GetValue(view, nil)
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true, false}, value)

	// Writing the default makes the word decode as unset.
	require.NoError(t, word.SetValue(view, []bool{false, false, false, false}))
	assert.True(t, view.Bit(1, 0), "clearing an inverted bit writes a 1")
	_, ok = word.GetValue(view, nil)
	assert.False(t, ok)
}

func TestWordShapeMismatch(t *testing.T) {
	word := lutWord()
	view := cram.New(2, 2).FullView()
	err := word.SetValue(view, []bool{true})
	var shape *ShapeMismatchError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "LUT", shape.Name)
	assert.Equal(t, 4, shape.Want)
	assert.Equal(t, 1, shape.Got)
}

func TestWordZeroWidth(t *testing.T) {
	word := WordSettingBits{Name: "NOP"}
	view := cram.New(1, 1).FullView()
	require.NoError(t, word.SetValue(view, nil))
	_, ok := word.GetValue(view, nil)
	assert.False(t, ok, "a zero-width word is always at its default")
}

func TestWordCoverageRegardlessOfOutcome(t *testing.T) {
	word := lutWord()
	view := cram.New(2, 2).FullView()
	cov := NewBitSet()
	_, ok := word.GetValue(view, cov)
	assert.False(t, ok)
	assert.Equal(t, 4, cov.Len(), "coverage is the union of all member groups")
}

func ioTypeEnum() EnumSettingBits {
	return EnumSettingBits{
		Name: "IO_TYPE",
		Options: map[string]BitGroup{
			"LVCMOS": {},
			"LVDS":   {{Frame: 2, Bit: 3, Inv: true}},
		},
		DefVal: "LVCMOS",
	}
}

func TestEnumInversion(t *testing.T) {
	enum := ioTypeEnum()
	view := cram.New(4, 4).FullView()

	// The inverted option matches a 0 in the raw CRAM, so it decodes
	// even on a zero CRAM; the empty-group default never shadows it.
	value, ok, err := enum.GetValue(view, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "LVDS", value)

	// Writing the default drives the inverted bit to 1, after which the
	// enum decodes as unset (equal to its declared default).
	require.NoError(t, enum.SetValue(view, "LVCMOS"))
	assert.True(t, view.Bit(2, 3))
	_, ok, err = enum.GetValue(view, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// Driving LVDS writes the bit back to 0.
	require.NoError(t, enum.SetValue(view, "LVDS"))
	assert.False(t, view.Bit(2, 3))
	value, ok, err = enum.GetValue(view, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "LVDS", value)
}

func TestEnumNoDefaultNeverUnsetOnMatch(t *testing.T) {
	enum := EnumSettingBits{
		Name: "MODE",
		Options: map[string]BitGroup{
			"A": {{Frame: 0, Bit: 0}},
			"B": {{Frame: 0, Bit: 1}},
		},
	}
	view := cram.New(1, 2).FullView()
	_, ok, err := enum.GetValue(view, nil)
	require.NoError(t, err)
	assert.False(t, ok, "nothing matches and there is no default option")

	require.NoError(t, enum.SetValue(view, "A"))
	value, ok, err := enum.GetValue(view, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", value)
}

func TestEnumAmbiguousDecode(t *testing.T) {
	enum := EnumSettingBits{
		Name: "MODE",
		Options: map[string]BitGroup{
			"A": {{Frame: 0, Bit: 0}},
			"B": {{Frame: 0, Bit: 0}},
		},
	}
	view := cram.New(1, 1).FullView()
	view.SetBit(0, 0, true)
	_, _, err := enum.GetValue(view, nil)
	var ambiguous *AmbiguousDecodeError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "MODE", ambiguous.Name)
	assert.ElementsMatch(t, []string{"A", "B"}, ambiguous.Matches)
}

func TestEnumSetValueUnknownOption(t *testing.T) {
	enum := ioTypeEnum()
	view := cram.New(4, 4).FullView()
	err := enum.SetValue(view, "HSTL")
	var unknown *UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, EntityEnumOption, unknown.Kind)
}

func TestEnumSetValueClearsOtherOptions(t *testing.T) {
	enum := EnumSettingBits{
		Name: "MODE",
		Options: map[string]BitGroup{
			"A": {{Frame: 0, Bit: 0}},
			"B": {{Frame: 0, Bit: 1}},
		},
	}
	view := cram.New(1, 2).FullView()
	require.NoError(t, enum.SetValue(view, "A"))
	require.NoError(t, enum.SetValue(view, "B"))
	assert.False(t, view.Bit(0, 0))
	assert.True(t, view.Bit(0, 1))
}
