package bitdb

import "sort"

// WordSettingBits is a multibit setting such as a LUT initialisation.
// Bits[i] encodes word bit i; DefVal is the same length as Bits.
type WordSettingBits struct {
	Name   string
	Bits   []BitGroup
	DefVal []bool
}

func (w WordSettingBits) Equal(other WordSettingBits) bool {
	if w.Name != other.Name || len(w.Bits) != len(other.Bits) || len(w.DefVal) != len(other.DefVal) {
		return false
	}
	for i := range w.Bits {
		if !w.Bits[i].Equal(other.Bits[i]) {
			return false
		}
	}
	for i := range w.DefVal {
		if w.DefVal[i] != other.DefVal[i] {
			return false
		}
	}
	return true
}

// GetValue returns the word value in the tile; ok is false when the
// decoded vector equals the default exactly. A zero-width word always
// decodes as the default. Coverage receives the union of all member
// groups regardless of outcome.
func (w WordSettingBits) GetValue(view CRAMView, cov BitSet) (value []bool, ok bool) {
	value = make([]bool, len(w.Bits))
	isDefault := true
	for i, g := range w.Bits {
		g.AddCoverage(cov)
		value[i] = g.Match(view)
		if value[i] != w.DefVal[i] {
			isDefault = false
		}
	}
	if isDefault {
		return nil, false
	}
	return value, true
}

// SetValue writes the word value into the tile, bit-parallel: set the
// group for a 1, clear it for a 0.
func (w WordSettingBits) SetValue(view CRAMView, value []bool) error {
	if len(value) != len(w.Bits) {
		return &ShapeMismatchError{Name: w.Name, Want: len(w.Bits), Got: len(value)}
	}
	for i, g := range w.Bits {
		if value[i] {
			g.Set(view)
		} else {
			g.Clear(view)
		}
	}
	return nil
}

// EnumSettingBits is a setting with several textual values, such as an IO
// type. An empty DefVal means the enum has no default option; option
// names are whitespace-free tokens in the on-disk form, so the empty
// string is never a valid option name.
type EnumSettingBits struct {
	Name    string
	Options map[string]BitGroup
	DefVal  string
}

func (e EnumSettingBits) Equal(other EnumSettingBits) bool {
	if e.Name != other.Name || e.DefVal != other.DefVal || len(e.Options) != len(other.Options) {
		return false
	}
	for name, g := range e.Options {
		og, ok := other.Options[name]
		if !ok || !g.Equal(og) {
			return false
		}
	}
	return true
}

// optionNames returns the option names in sorted order, for deterministic
// scans and diagnostics.
func (e EnumSettingBits) optionNames() []string {
	names := make([]string, 0, len(e.Options))
	for name := range e.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetValue returns the value of the enumeration in the tile. ok is false
// when nothing matches and there is no empty-group option, or when the
// decoded value equals the declared default. An enum without a declared
// default never decodes as unset once any option matches. Two or more
// matching non-empty options fail.
func (e EnumSettingBits) GetValue(view CRAMView, cov BitSet) (value string, ok bool, err error) {
	defaultOption := ""
	hasDefaultOption := false
	var matches []string
	for _, name := range e.optionNames() {
		g := e.Options[name]
		g.AddCoverage(cov)
		if len(g) == 0 {
			defaultOption = name
			hasDefaultOption = true
			continue
		}
		if g.Match(view) {
			matches = append(matches, name)
		}
	}
	var found string
	switch len(matches) {
	case 1:
		found = matches[0]
	case 0:
		if !hasDefaultOption {
			return "", false, nil
		}
		found = defaultOption
	default:
		return "", false, &AmbiguousDecodeError{Kind: EntityEnum, Name: e.Name, Matches: matches}
	}
	if e.DefVal != "" && found == e.DefVal {
		return "", false, nil
	}
	return found, true, nil
}

// SetValue writes the chosen option into the tile, clearing every other
// option's bits first.
func (e EnumSettingBits) SetValue(view CRAMView, value string) error {
	chosen, ok := e.Options[value]
	if !ok {
		return &UnknownEntityError{Kind: EntityEnumOption, Name: value}
	}
	for _, g := range e.Options {
		g.Clear(view)
	}
	chosen.Set(view)
	return nil
}
