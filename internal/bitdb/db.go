package bitdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ngi-nix/prjtrellis/internal/tileconfig"
)

// TileBitDatabase is the mutable per-tile bit database. Many readers may
// run translations while fuzzing mutates the database; a single
// readers/writer lock guards all three entry maps, and the dirty flag
// makes a clean Save a lock-free no-op.
type TileBitDatabase struct {
	mu    sync.RWMutex
	dirty atomic.Bool
	muxes map[string]MuxBits
	words map[string]WordSettingBits
	enums map[string]EnumSettingBits
	path  string
}

// Load reads a tile bit database from its text file. The path is retained
// as the Save target.
func Load(path string) (*TileBitDatabase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading tile database: %w", err)
	}
	db := &TileBitDatabase{path: path}
	if err := db.parse(data); err != nil {
		return nil, err
	}
	return db, nil
}

// New returns an empty database that will save to the given path. Used
// when fuzzing starts a tile type from scratch.
func New(path string) *TileBitDatabase {
	return &TileBitDatabase{
		path:  path,
		muxes: make(map[string]MuxBits),
		words: make(map[string]WordSettingBits),
		enums: make(map[string]EnumSettingBits),
	}
}

// Path returns the file this database was loaded from and saves to.
func (db *TileBitDatabase) Path() string { return db.path }

// Dirty reports whether the database has unsaved mutations.
func (db *TileBitDatabase) Dirty() bool { return db.dirty.Load() }

// Sinks returns the sorted list of mux sinks.
func (db *TileBitDatabase) Sinks() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return sortedKeys(db.muxes)
}

// SettingWords returns the sorted list of word setting names.
func (db *TileBitDatabase) SettingWords() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return sortedKeys(db.words)
}

// SettingEnums returns the sorted list of enum setting names.
func (db *TileBitDatabase) SettingEnums() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return sortedKeys(db.enums)
}

// MuxData returns a copy of the mux driving the given sink.
func (db *TileBitDatabase) MuxData(sink string) (MuxBits, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	m, ok := db.muxes[sink]
	if !ok {
		return MuxBits{}, &UnknownEntityError{Kind: EntityMux, Name: sink}
	}
	return copyMux(m), nil
}

// WordData returns a copy of the named word setting.
func (db *TileBitDatabase) WordData(name string) (WordSettingBits, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	w, ok := db.words[name]
	if !ok {
		return WordSettingBits{}, &UnknownEntityError{Kind: EntityWord, Name: name}
	}
	return copyWord(w), nil
}

// EnumData returns a copy of the named enum setting.
func (db *TileBitDatabase) EnumData(name string) (EnumSettingBits, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.enums[name]
	if !ok {
		return EnumSettingBits{}, &UnknownEntityError{Kind: EntityEnum, Name: name}
	}
	return copyEnum(e), nil
}

// AddMux adds a mux to the database, replacing any existing entry for the
// same sink.
func (db *TileBitDatabase) AddMux(mux MuxBits) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.muxes[mux.Sink] = copyMux(mux)
	db.dirty.Store(true)
}

// AddSettingWord adds a word setting, replacing any existing entry for
// the same name.
func (db *TileBitDatabase) AddSettingWord(word WordSettingBits) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.words[word.Name] = copyWord(word)
	db.dirty.Store(true)
}

// AddSettingEnum adds an enum setting, replacing any existing entry for
// the same name.
func (db *TileBitDatabase) AddSettingEnum(enum EnumSettingBits) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.enums[enum.Name] = copyEnum(enum)
	db.dirty.Store(true)
}

// ConfigToTileCRAM applies a tile config onto a CRAM view. Entries absent
// from the config are left untouched; unknown names are fatal. The CRAM
// is a caller-owned scratch buffer, so a failed call may leave it half
// updated.
func (db *TileBitDatabase) ConfigToTileCRAM(cfg *tileconfig.TileConfig, view CRAMView) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, arc := range cfg.Arcs {
		mux, ok := db.muxes[arc.Sink]
		if !ok {
			return &UnknownEntityError{Kind: EntityMux, Name: arc.Sink}
		}
		if err := mux.SetDriver(view, arc.Source); err != nil {
			return fmt.Errorf("mux %q: %w", arc.Sink, err)
		}
	}
	for _, word := range cfg.Words {
		w, ok := db.words[word.Name]
		if !ok {
			return &UnknownEntityError{Kind: EntityWord, Name: word.Name}
		}
		if err := w.SetValue(view, word.Value); err != nil {
			return err
		}
	}
	for _, enum := range cfg.Enums {
		e, ok := db.enums[enum.Name]
		if !ok {
			return &UnknownEntityError{Kind: EntityEnum, Name: enum.Name}
		}
		if err := e.SetValue(view, enum.Value); err != nil {
			return fmt.Errorf("enum %q: %w", enum.Name, err)
		}
	}
	for _, unk := range cfg.Unknowns {
		view.SetBit(unk.Frame, unk.Bit, true)
	}
	return nil
}

// TileCRAMToConfig decodes a CRAM view into a tile config. The database
// is walked in key-sorted order (muxes by sink, then words, then enums by
// name) so that output is stable for diffing; entries decoding to their
// default are omitted. Set bits not covered by any database entry are
// recorded as unknown bits.
func (db *TileBitDatabase) TileCRAMToConfig(view CRAMView) (*tileconfig.TileConfig, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	cfg := &tileconfig.TileConfig{}
	coverage := NewBitSet()
	for _, sink := range sortedKeys(db.muxes) {
		mux := db.muxes[sink]
		driver, ok, err := mux.GetDriver(view, coverage)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		// The empty-group default driver is the decoded form of "no
		// explicit configuration"; it is omitted like any other
		// default-valued entry.
		if bits, found := mux.arcBits(driver); found && len(bits) == 0 {
			continue
		}
		cfg.Arcs = append(cfg.Arcs, tileconfig.Arc{Sink: sink, Source: driver})
	}
	for _, name := range sortedKeys(db.words) {
		word := db.words[name]
		value, ok := word.GetValue(view, coverage)
		if !ok {
			continue
		}
		cfg.Words = append(cfg.Words, tileconfig.Word{Name: name, Value: value})
	}
	for _, name := range sortedKeys(db.enums) {
		enum := db.enums[name]
		value, ok, err := enum.GetValue(view, coverage)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		cfg.Enums = append(cfg.Enums, tileconfig.Enum{Name: name, Value: value})
	}
	for frame := 0; frame < view.Frames(); frame++ {
		for bit := 0; bit < view.FrameBits(); bit++ {
			if view.Bit(frame, bit) && !coverage.ContainsCoord(frame, bit) {
				cfg.Unknowns = append(cfg.Unknowns, tileconfig.Unknown{Frame: frame, Bit: bit})
			}
		}
	}
	return cfg, nil
}

// Text renders the database in its normative on-disk form.
func (db *TileBitDatabase) Text() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.writeText()
}

// Save persists the database back to the file it was loaded from. It is a
// no-op when there are no unsaved mutations. The file is written to a
// sibling temporary file and renamed over the target so a failed save
// leaves the previous file intact.
func (db *TileBitDatabase) Save() error {
	if !db.dirty.Load() {
		return nil
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	text := db.writeText()
	dir := filepath.Dir(db.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(db.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("saving tile database: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("saving tile database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("saving tile database: %w", err)
	}
	if err := os.Rename(tmpName, db.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("saving tile database: %w", err)
	}
	db.dirty.Store(false)
	return nil
}

// Equal compares the abstract contents of two databases, ignoring path
// and dirtiness.
func (db *TileBitDatabase) Equal(other *TileBitDatabase) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	if len(db.muxes) != len(other.muxes) || len(db.words) != len(other.words) ||
		len(db.enums) != len(other.enums) {
		return false
	}
	for sink, m := range db.muxes {
		om, ok := other.muxes[sink]
		if !ok || !m.Equal(om) {
			return false
		}
	}
	for name, w := range db.words {
		ow, ok := other.words[name]
		if !ok || !w.Equal(ow) {
			return false
		}
	}
	for name, e := range db.enums {
		oe, ok := other.enums[name]
		if !ok || !e.Equal(oe) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Mutators and accessors hand out copies so callers can never alias the
// maps behind the lock.

func copyMux(m MuxBits) MuxBits {
	out := MuxBits{Sink: m.Sink, Arcs: make([]ArcData, len(m.Arcs))}
	for i, arc := range m.Arcs {
		out.Arcs[i] = ArcData{
			Source: arc.Source,
			Sink:   arc.Sink,
			Bits:   append(BitGroup(nil), arc.Bits...),
		}
	}
	return out
}

func copyWord(w WordSettingBits) WordSettingBits {
	out := WordSettingBits{
		Name:   w.Name,
		Bits:   make([]BitGroup, len(w.Bits)),
		DefVal: append([]bool(nil), w.DefVal...),
	}
	for i, g := range w.Bits {
		out.Bits[i] = append(BitGroup(nil), g...)
	}
	return out
}

func copyEnum(e EnumSettingBits) EnumSettingBits {
	out := EnumSettingBits{
		Name:    e.Name,
		Options: make(map[string]BitGroup, len(e.Options)),
		DefVal:  e.DefVal,
	}
	for name, g := range e.Options {
		out.Options[name] = append(BitGroup(nil), g...)
	}
	return out
}
