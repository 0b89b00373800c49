package tiled

// The interfaces below are optional hooks for a host such as a game engine.
// Pass a value implementing any subset of them with WithDelegate. They are
// called synchronously from the goroutine running the load, in build order.

// TilesetAddedHandler is called for every tileset of the map in document
// order, before any layer is built.
type TilesetAddedHandler interface {
	TilesetAdded(m *Map, ts *MapTileset)
}

// LayerAddedHandler is called for every layer in document order, parents
// before children. Tile data and objects are not decoded yet.
type LayerAddedHandler interface {
	LayerAdded(m *Map, layer Layer)
}

// MapReadHandler is called once the map is completely built.
type MapReadHandler interface {
	MapRead(m *Map)
}

// MapRenderedHandler is called the first time Map.NotifyRendered runs.
type MapRenderedHandler interface {
	MapRendered(m *Map)
}

// GIDSubstituter may replace the GID of any non-empty tile cell before it is
// resolved. Returning the argument keeps the cell unchanged. Flip bits are
// part of both values.
type GIDSubstituter interface {
	SubstituteGID(layer *TileLayer, gid uint32) uint32
}

// ObjectValueProvider attaches a host value, such as a custom node, to an
// object once its template is applied. The result is stored in Object.Value.
type ObjectValueProvider interface {
	ObjectValue(o *Object) any
}

// TileAttributeProvider supplies extra properties for tiles of a given type.
// It is called once per distinct non-empty type; the returned properties are
// merged under the tile's own properties in Tile.Properties.
type TileAttributeProvider interface {
	TileAttributes(tileType string) Properties
}
