package tiled

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultTilesetCache is shared by every loader created with NewDirLoader or
// LoadFile. Entries are never evicted.
var DefaultTilesetCache = NewTilesetCache()

// TilesetCache holds external tilesets by canonical path so that maps
// referencing the same TSX share one *Tileset. Concurrent loads of a path
// that is not cached yet parse it once; the other callers wait for that
// result.
type TilesetCache struct {
	mu       sync.RWMutex
	tilesets map[string]*Tileset
	group    singleflight.Group
}

func NewTilesetCache() *TilesetCache {
	return &TilesetCache{
		tilesets: make(map[string]*Tileset),
	}
}

func (c *TilesetCache) Get(key string) (*Tileset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ts, ok := c.tilesets[key]
	return ts, ok
}

func (c *TilesetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.tilesets)
}

// Keys returns the cached paths in no particular order.
func (c *TilesetCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.tilesets))
	for k := range c.tilesets {
		keys = append(keys, k)
	}
	return keys
}

// getOrLoad returns the cached tileset for key, calling parse at most once
// per key across goroutines. Failed parses are not cached.
func (c *TilesetCache) getOrLoad(key string, parse func() (*Tileset, error)) (ts *Tileset, loaded bool, err error) {
	if ts, ok := c.Get(key); ok {
		return ts, false, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if ts, ok := c.Get(key); ok {
			return ts, nil
		}

		ts, err := parse()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.tilesets[key] = ts
		c.mu.Unlock()

		loaded = true
		return ts, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Tileset), loaded, nil
}
