package bitdb

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TileLocator identifies one tile type's database within a database root.
type TileLocator struct {
	Family   string
	TileType string
}

func (l TileLocator) String() string {
	return l.Family + "/" + l.TileType
}

// Registry hands out shared TileBitDatabase handles, at most one live
// instance per locator. Handles live for the registry lifetime, which in
// practice is the process lifetime. Construction races are serialized:
// losers get the winner's instance.
type Registry struct {
	root   string
	mu     sync.RWMutex
	tiles  map[TileLocator]*TileBitDatabase
	flight singleflight.Group
}

// NewRegistry creates a registry over a database root directory.
func NewRegistry(root string) *Registry {
	return &Registry{
		root:  root,
		tiles: make(map[TileLocator]*TileBitDatabase),
	}
}

// Path resolves a locator to its database file below the root.
func (r *Registry) Path(loc TileLocator) string {
	return filepath.Join(r.root, loc.Family, "tiledata", loc.TileType, "bits.db")
}

// Get returns the shared database handle for a locator, loading it on
// first use. Any two calls with the same locator return the same
// in-memory database.
func (r *Registry) Get(loc TileLocator) (*TileBitDatabase, error) {
	r.mu.RLock()
	db, ok := r.tiles[loc]
	r.mu.RUnlock()
	if ok {
		return db, nil
	}
	v, err, _ := r.flight.Do(loc.String(), func() (any, error) {
		r.mu.RLock()
		db, ok := r.tiles[loc]
		r.mu.RUnlock()
		if ok {
			return db, nil
		}
		db, err := Load(r.Path(loc))
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tiles[loc] = db
		r.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TileBitDatabase), nil
}
