package tiled

import "math"

// TileRegion defines a rectangular region in tile coordinates. Max is
// exclusive.
type TileRegion struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

// RegionForBounds returns the smallest region of an orthogonal grid covering
// the pixel rectangle.
func RegionForBounds(minX, minY, maxX, maxY float64, tileWidth, tileHeight int32) TileRegion {
	return TileRegion{
		MinX: int32(math.Floor(minX / float64(tileWidth))),
		MinY: int32(math.Floor(minY / float64(tileHeight))),
		MaxX: int32(math.Ceil(maxX / float64(tileWidth))),
		MaxY: int32(math.Ceil(maxY / float64(tileHeight))),
	}
}

func (tr TileRegion) Equal(other TileRegion) bool {
	return tr.MinX == other.MinX && tr.MinY == other.MinY && tr.MaxX == other.MaxX && tr.MaxY == other.MaxY
}

func (tr TileRegion) Overlaps(other TileRegion) bool {
	return tr.MinX < other.MaxX && tr.MaxX > other.MinX &&
		tr.MinY < other.MaxY && tr.MaxY > other.MinY
}

func (tr TileRegion) Contains(c Coordinate) bool {
	return c.X >= tr.MinX && c.X < tr.MaxX && c.Y >= tr.MinY && c.Y < tr.MaxY
}

func (tr TileRegion) Width() int32 {
	return tr.MaxX - tr.MinX
}

func (tr TileRegion) Height() int32 {
	return tr.MaxY - tr.MinY
}

func (tr TileRegion) Empty() bool {
	return tr.MinX >= tr.MaxX || tr.MinY >= tr.MaxY
}

func (tr TileRegion) Union(other TileRegion) TileRegion {
	return TileRegion{
		MinX: min(tr.MinX, other.MinX),
		MinY: min(tr.MinY, other.MinY),
		MaxX: max(tr.MaxX, other.MaxX),
		MaxY: max(tr.MaxY, other.MaxY),
	}
}

func (tr TileRegion) Intersect(other TileRegion) TileRegion {
	r := TileRegion{
		MinX: max(tr.MinX, other.MinX),
		MinY: max(tr.MinY, other.MinY),
		MaxX: min(tr.MaxX, other.MaxX),
		MaxY: min(tr.MaxY, other.MaxY),
	}
	if r.Empty() {
		return TileRegion{}
	}
	return r
}

// Grow returns the region extended by n tiles on every side.
func (tr TileRegion) Grow(n int32) TileRegion {
	return TileRegion{MinX: tr.MinX - n, MinY: tr.MinY - n, MaxX: tr.MaxX + n, MaxY: tr.MaxY + n}
}

// CompatibleForCaching returns true if regions have compatible dimensions for cache reuse.
func (tr TileRegion) CompatibleForCaching(other TileRegion) bool {
	widthDiff := tr.Width() - other.Width()
	heightDiff := tr.Height() - other.Height()
	return widthDiff >= -1 && widthDiff <= 1 && heightDiff >= -1 && heightDiff <= 1
}

// TileIterator iterates over the tile layers of a map in z-order.
// Each call to Next() returns the tiles of the next layer as a slice.
// If a layer is not visible, Next() returns an empty slice for that layer.
// When all layers have been iterated, Next() returns nil.
type TileIterator struct {
	tiles     []Tile
	positions []int
	index     int
}

// NewTileIterator builds an iterator over tiles grouped by layer: layer i
// holds tiles[positions[i]:positions[i+1]].
func NewTileIterator(tiles []Tile, positions []int) TileIterator {
	return TileIterator{tiles: tiles, positions: positions}
}

// Next returns the next layer of tiles, nil once every layer was returned.
func (ti *TileIterator) Next() []Tile {
	if ti.index >= len(ti.positions)-1 {
		return nil
	}

	start := ti.positions[ti.index]
	end := ti.positions[ti.index+1]
	ti.index++

	return ti.tiles[start:end]
}

func (ti *TileIterator) HasNext() bool {
	return ti.index < len(ti.positions)-1
}

func (ti *TileIterator) Index() int {
	return ti.index
}

func (ti *TileIterator) Reset() {
	ti.index = 0
}

// Len returns the number of layers.
func (ti *TileIterator) Len() int {
	return max(len(ti.positions)-1, 0)
}

// TilesInRegion collects the non-empty tiles of every tile layer inside r,
// one slice per tile layer in z-order. Tiles are in row-major order, chunk
// by chunk for infinite maps. Hidden layers yield empty slices.
func (m *Map) TilesInRegion(r TileRegion) TileIterator {
	layers := m.TileLayers()
	positions := make([]int, 0, len(layers)+1)

	// Frames may reach far past the map; only the covered part can hold tiles.
	area := r.Intersect(m.Bounds())
	tiles := make([]Tile, 0, int(area.Width())*int(area.Height()))

	for _, l := range layers {
		positions = append(positions, len(tiles))
		if !l.VisibleInTree() {
			continue
		}
		tiles = m.appendRegion(tiles, l, r.Intersect(l.Bounds()))
	}
	positions = append(positions, len(tiles))

	return NewTileIterator(tiles, positions)
}

func (m *Map) appendRegion(tiles []Tile, l *TileLayer, r TileRegion) []Tile {
	if l.Storage == StorageFlat {
		for y := r.MinY; y < r.MaxY; y++ {
			for x := r.MinX; x < r.MaxX; x++ {
				c := Coordinate{X: x, Y: y}
				if gid := l.GID(c); gid != 0 {
					tiles = append(tiles, m.tile(l, c, gid))
				}
			}
		}
		return tiles
	}

	for _, chunk := range l.Chunks {
		cr := r.Intersect(chunk.Region())
		for y := cr.MinY; y < cr.MaxY; y++ {
			for x := cr.MinX; x < cr.MaxX; x++ {
				c := Coordinate{X: x, Y: y}
				if gid := chunk.GID(chunk.Local(c)); gid != 0 {
					tiles = append(tiles, m.tile(l, c, gid))
				}
			}
		}
	}
	return tiles
}
