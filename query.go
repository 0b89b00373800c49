package tiled

import (
	"image"
	"slices"
	"strings"
)

// Tile is one placed cell of a tile layer with its GID resolved.
type Tile struct {
	Layer      *TileLayer
	Coordinate Coordinate

	GID     uint32 // raw cell value, flip bits included
	LocalID uint32
	Flip    FlipFlag
	Tileset *MapTileset

	// Data is the shared per-tile data, nil when the tileset has none for
	// this tile.
	Data *TileData

	// Attributes are the properties a TileAttributeProvider supplied for
	// the tile's type.
	Attributes Properties
}

// ID returns the GID without flip bits.
func (t Tile) ID() uint32 {
	return t.GID & GIDMask
}

func (t Tile) Type() string {
	if t.Data == nil {
		return ""
	}
	return t.Data.Type
}

// Properties returns the tile's own properties merged over the attributes
// supplied for its type.
func (t Tile) Properties() Properties {
	if t.Data == nil {
		return t.Attributes
	}
	return t.Data.Properties.Merge(t.Attributes)
}

// Region returns the texture rectangle of the tile in its tileset image.
func (t Tile) Region() (image.Rectangle, bool) {
	if t.Tileset == nil {
		return image.Rectangle{}, false
	}
	return t.Tileset.Region(t.LocalID)
}

// tile builds the Tile of a non-empty cell. Cells were checked against the
// registry at build time, so resolution only fails for hand-built layers.
func (m *Map) tile(l *TileLayer, c Coordinate, gid uint32) Tile {
	t := Tile{Layer: l, Coordinate: c, GID: gid}

	ts, local, flags, err := m.registry.Resolve(gid)
	t.Flip = flags
	if err != nil {
		return t
	}

	t.Tileset = ts
	t.LocalID = local
	t.Data = ts.Tile(local)
	if t.Data != nil && t.Data.Type != "" {
		t.Attributes = m.typeAttrs[t.Data.Type]
	}
	return t
}

// ======================================================
// Index
// ======================================================

type cellRef struct {
	layer int // index into queryIndex.tileLayers
	c     Coordinate
}

type queryIndex struct {
	tileLayers   []*TileLayer
	objectGroups []*ObjectGroup
	objects      []*Object

	cells []uint32 // distinct GIDs without flip bits, ascending
	byGID map[uint32][]cellRef

	objectsByID   map[int32]*Object
	objectsByName map[string][]*Object

	layersByXPath map[string]Layer
	layersByID    map[int32]Layer
	layersByName  map[string][]Layer
}

func newQueryIndex(zorder []Layer) *queryIndex {
	idx := &queryIndex{
		byGID:         make(map[uint32][]cellRef),
		objectsByID:   make(map[int32]*Object),
		objectsByName: make(map[string][]*Object),
		layersByXPath: make(map[string]Layer, len(zorder)),
		layersByID:    make(map[int32]Layer, len(zorder)),
		layersByName:  make(map[string][]Layer),
	}

	for _, l := range zorder {
		base := l.Base()
		idx.layersByXPath[base.XPath] = l
		if base.ID != 0 {
			idx.layersByID[base.ID] = l
		}
		idx.layersByName[base.Name] = append(idx.layersByName[base.Name], l)

		switch layer := l.(type) {
		case *TileLayer:
			n := len(idx.tileLayers)
			idx.tileLayers = append(idx.tileLayers, layer)
			for c, gid := range layer.Cells() {
				id := gid & GIDMask
				idx.byGID[id] = append(idx.byGID[id], cellRef{layer: n, c: c})
			}
		case *ObjectGroup:
			idx.objectGroups = append(idx.objectGroups, layer)
			for _, o := range layer.Objects {
				idx.objects = append(idx.objects, o)
				if _, dup := idx.objectsByID[o.ID]; !dup {
					idx.objectsByID[o.ID] = o
				}
				if o.Name != "" {
					idx.objectsByName[o.Name] = append(idx.objectsByName[o.Name], o)
				}
			}
		}
	}

	idx.cells = make([]uint32, 0, len(idx.byGID))
	for id := range idx.byGID {
		idx.cells = append(idx.cells, id)
	}
	slices.Sort(idx.cells)

	return idx
}

func (m *Map) tilesFor(id uint32) []Tile {
	refs := m.index.byGID[id]
	tiles := make([]Tile, 0, len(refs))
	for _, ref := range refs {
		l := m.index.tileLayers[ref.layer]
		tiles = append(tiles, m.tile(l, ref.c, l.GID(ref.c)))
	}
	return tiles
}

func (m *Map) tilesMatching(match func(id uint32, td *TileData, attrs Properties) bool) []Tile {
	var tiles []Tile
	for _, id := range m.index.cells {
		var td *TileData
		var attrs Properties
		if ts, local, _, err := m.registry.Resolve(id); err == nil {
			td = ts.Tile(local)
		}
		if td != nil && td.Type != "" {
			attrs = m.typeAttrs[td.Type]
		}
		if match(id, td, attrs) {
			tiles = append(tiles, m.tilesFor(id)...)
		}
	}
	return tiles
}

// ======================================================
// Tile queries
// ======================================================

// TilesAt returns the tiles of every tile layer at c, top layer first.
func (m *Map) TilesAt(c Coordinate) []Tile {
	var tiles []Tile
	for i := len(m.index.tileLayers) - 1; i >= 0; i-- {
		l := m.index.tileLayers[i]
		if gid := l.GID(c); gid != 0 {
			tiles = append(tiles, m.tile(l, c, gid))
		}
	}
	return tiles
}

// Tile returns the tile of layer l at c.
func (m *Map) Tile(l *TileLayer, c Coordinate) (Tile, bool) {
	gid := l.GID(c)
	if gid == 0 {
		return Tile{}, false
	}
	return m.tile(l, c, gid), true
}

// TilesWithGID returns every cell showing gid, whatever its flip flags.
// Layers are in z-order.
func (m *Map) TilesWithGID(gid uint32) []Tile {
	return m.tilesFor(gid & GIDMask)
}

// TilesOfType returns every cell whose tile has the given type.
func (m *Map) TilesOfType(tileType string) []Tile {
	if tileType == "" {
		return nil
	}
	return m.tilesMatching(func(_ uint32, td *TileData, _ Properties) bool {
		return td != nil && td.Type == tileType
	})
}

// TilesWithProperty returns every cell whose tile, or the attributes of its
// type, carry key.
func (m *Map) TilesWithProperty(key string) []Tile {
	return m.tilesMatching(func(_ uint32, td *TileData, attrs Properties) bool {
		return (td != nil && td.Properties.Has(key)) || attrs.Has(key)
	})
}

// UsedGIDs returns the distinct GIDs, without flip bits, placed on any tile
// layer.
func (m *Map) UsedGIDs() []uint32 {
	return slices.Clone(m.index.cells)
}

// ======================================================
// Object queries
// ======================================================

// Object returns the object with the given id, or nil.
func (m *Map) Object(id int32) *Object {
	return m.index.objectsByID[id]
}

// Objects returns every object of every object group in z-order.
func (m *Map) Objects() []*Object {
	return slices.Clone(m.index.objects)
}

func (m *Map) ObjectsNamed(name string) []*Object {
	return slices.Clone(m.index.objectsByName[name])
}

// ObjectsWithText returns the text objects whose content equals text,
// ignoring surrounding whitespace.
func (m *Map) ObjectsWithText(text string) []*Object {
	text = strings.TrimSpace(text)

	var out []*Object
	for _, o := range m.index.objects {
		if o.Text != nil && strings.TrimSpace(o.Text.Content) == text {
			out = append(out, o)
		}
	}
	return out
}

func (m *Map) ObjectsOfType(objectType string) []*Object {
	var out []*Object
	for _, o := range m.index.objects {
		if o.Type == objectType {
			out = append(out, o)
		}
	}
	return out
}

// ======================================================
// Layer queries
// ======================================================

// LayerAt returns the layer with the given XPath, e.g. /map/group[1]/layer[2].
func (m *Map) LayerAt(xpath string) Layer {
	return m.index.layersByXPath[xpath]
}

// Layer returns the layer with the given id, or nil.
func (m *Map) Layer(id int32) Layer {
	return m.index.layersByID[id]
}

// LayerNamed returns the lowest layer in z-order with the given name.
func (m *Map) LayerNamed(name string) Layer {
	if layers := m.index.layersByName[name]; len(layers) > 0 {
		return layers[0]
	}
	return nil
}

func (m *Map) LayersNamed(name string) []Layer {
	return slices.Clone(m.index.layersByName[name])
}

// AllLayers returns every layer, groups included, in z-order: a group comes
// right before its children.
func (m *Map) AllLayers() []Layer {
	return slices.Clone(m.zorder)
}

func (m *Map) TileLayers() []*TileLayer {
	return slices.Clone(m.index.tileLayers)
}

func (m *Map) ObjectGroups() []*ObjectGroup {
	return slices.Clone(m.index.objectGroups)
}

func (m *Map) ImageLayers() []*ImageLayer {
	var out []*ImageLayer
	for _, l := range m.zorder {
		if il, ok := l.(*ImageLayer); ok {
			out = append(out, il)
		}
	}
	return out
}
