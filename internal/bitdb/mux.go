package bitdb

// ArcData is one configurable source->sink connection within a mux. The
// sink duplicates the enclosing mux's sink; the redundancy is preserved
// for round-tripping.
type ArcData struct {
	Source string
	Sink   string
	Bits   BitGroup
}

func (a ArcData) Equal(other ArcData) bool {
	return a.Source == other.Source && a.Sink == other.Sink && a.Bits.Equal(other.Bits)
}

// MuxBits specifies all the possible source arcs driving one sink node.
// Sources are unique within a mux; at most one arc may carry an empty
// bit group, acting as the implicit default driver.
type MuxBits struct {
	Sink string
	Arcs []ArcData
}

func (m MuxBits) Equal(other MuxBits) bool {
	if m.Sink != other.Sink || len(m.Arcs) != len(other.Arcs) {
		return false
	}
	for i := range m.Arcs {
		if !m.Arcs[i].Equal(other.Arcs[i]) {
			return false
		}
	}
	return true
}

// GetDriver works out which connection inside the mux, if any, is made in
// the tile. ok is false when no arc matches and the mux has no default.
// An empty-group arc is the implicit default and never shadows an
// explicit match; two or more matching non-empty arcs are a database or
// bitstream inconsistency and fail.
//
// Coverage, if non-nil, receives the bits of every arc examined, not just
// the winner: fuzzing needs the full decision surface.
func (m MuxBits) GetDriver(view CRAMView, cov BitSet) (driver string, ok bool, err error) {
	defaultArc := -1
	var matches []string
	for i := range m.Arcs {
		arc := &m.Arcs[i]
		arc.Bits.AddCoverage(cov)
		if len(arc.Bits) == 0 {
			defaultArc = i
			continue
		}
		if arc.Bits.Match(view) {
			matches = append(matches, arc.Source)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], true, nil
	case 0:
		if defaultArc >= 0 {
			return m.Arcs[defaultArc].Source, true, nil
		}
		return "", false, nil
	default:
		return "", false, &AmbiguousDecodeError{Kind: EntityMux, Name: m.Sink, Matches: matches}
	}
}

// SetDriver configures the tile so that the given source drives the
// mux's sink. Every arc is cleared first so no stale bits remain; driving
// an empty-group arc therefore leaves the cleared state in place.
func (m MuxBits) SetDriver(view CRAMView, driver string) error {
	selected := -1
	for i := range m.Arcs {
		if m.Arcs[i].Source == driver {
			selected = i
			break
		}
	}
	if selected < 0 {
		return &UnknownEntityError{Kind: EntityMuxSource, Name: driver}
	}
	for i := range m.Arcs {
		m.Arcs[i].Bits.Clear(view)
	}
	m.Arcs[selected].Bits.Set(view)
	return nil
}

// arcBits returns the bit group of the arc with the given source.
func (m MuxBits) arcBits(source string) (BitGroup, bool) {
	for i := range m.Arcs {
		if m.Arcs[i].Source == source {
			return m.Arcs[i].Bits, true
		}
	}
	return nil, false
}
