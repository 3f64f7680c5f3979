// Package devices loads the device index that sits at a database root.
// The index is a single YAML file describing, per family, the tile types
// and their CRAM dimensions. There is no discovery: callers name the
// index file explicitly.
package devices

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Index is the parsed device index.
type Index struct {
	Families map[string]Family `yaml:"families"`
}

// Family describes one device family's tile types.
type Family struct {
	TileTypes map[string]TileType `yaml:"tiletypes"`
}

// TileType carries the CRAM dimensions of one tile type.
type TileType struct {
	Frames int `yaml:"frames"`
	Bits   int `yaml:"bits"`
}

// LoadIndex reads and validates a device index file.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading device index: %w", err)
	}
	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing device index %s: %w", path, err)
	}
	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("device index %s: %w", path, err)
	}
	return &idx, nil
}

// Validate checks the index for structural errors.
func (idx *Index) Validate() error {
	var errs []error
	if len(idx.Families) == 0 {
		errs = append(errs, fmt.Errorf("no families declared"))
	}
	for family, f := range idx.Families {
		if len(f.TileTypes) == 0 {
			errs = append(errs, fmt.Errorf("family %q declares no tile types", family))
		}
		for tiletype, t := range f.TileTypes {
			if t.Frames <= 0 || t.Bits <= 0 {
				errs = append(errs, fmt.Errorf("tile type %s/%s has invalid dimensions %dx%d",
					family, tiletype, t.Frames, t.Bits))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TileDims returns the CRAM dimensions of a tile type.
func (idx *Index) TileDims(family, tiletype string) (frames, bits int, err error) {
	f, ok := idx.Families[family]
	if !ok {
		return 0, 0, fmt.Errorf("unknown family %q", family)
	}
	t, ok := f.TileTypes[tiletype]
	if !ok {
		return 0, 0, fmt.Errorf("unknown tile type %q in family %q", tiletype, family)
	}
	return t.Frames, t.Bits, nil
}
