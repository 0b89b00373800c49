package tiled

import (
	"cmp"
	"slices"
)

// Registry resolves global tile ids against the tilesets of one map.
type Registry struct {
	tilesets []*MapTileset // ascending FirstGID
}

func NewRegistry(tilesets ...*MapTileset) *Registry {
	sorted := slices.Clone(tilesets)
	slices.SortStableFunc(sorted, func(a, b *MapTileset) int {
		return cmp.Compare(a.FirstGID, b.FirstGID)
	})
	return &Registry{tilesets: sorted}
}

// Resolve strips the flip bits of gid and returns the tileset owning the
// remaining id together with the local id. Tilesets are scanned from the
// highest first GID down; the first one not above the id wins.
func (r *Registry) Resolve(gid uint32) (*MapTileset, uint32, FlipFlag, error) {
	id, flags := DecodeGID(gid)
	if id == 0 {
		return nil, 0, flags, &UnresolvedGIDError{GID: gid}
	}

	for i := len(r.tilesets) - 1; i >= 0; i-- {
		if id >= r.tilesets[i].FirstGID {
			return r.tilesets[i], id - r.tilesets[i].FirstGID, flags, nil
		}
	}
	return nil, 0, flags, &UnresolvedGIDError{GID: gid}
}

// TileData resolves gid and returns its per-tile data, which is nil for
// tiles without special data.
func (r *Registry) TileData(gid uint32) (*TileData, FlipFlag, error) {
	ts, local, flags, err := r.Resolve(gid)
	if err != nil {
		return nil, flags, err
	}
	return ts.Tile(local), flags, nil
}

// Binding returns the map binding of a shared tileset, or nil when the map
// does not use it.
func (r *Registry) Binding(ts *Tileset) *MapTileset {
	for _, mt := range r.tilesets {
		if mt.Tileset == ts {
			return mt
		}
	}
	return nil
}

// Tilesets returns the bindings in ascending FirstGID order.
func (r *Registry) Tilesets() []*MapTileset {
	return slices.Clone(r.tilesets)
}

func (r *Registry) Len() int {
	return len(r.tilesets)
}
