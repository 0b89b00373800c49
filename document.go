package tiled

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// Map is a fully built Tiled map. Apart from NotifyRendered nothing changes
// it after Load returns, so it may be read from many goroutines.
type Map struct {
	UUID uuid.UUID
	Path string

	Version      string
	TiledVersion string
	Class        string

	Width      int32
	Height     int32
	TileWidth  int32
	TileHeight int32

	Orientation   Orientation
	RenderOrder   RenderOrder
	StaggerAxis   StaggerAxis
	StaggerIndex  StaggerIndex
	HexSideLength int32

	ParallaxOrigin  Point
	BackgroundColor Color

	NextLayerID  int32
	NextObjectID int32

	Properties Properties

	// Tilesets are in document order.
	Tilesets []*MapTileset

	// Layers are the top level layers in document order.
	Layers []Layer

	// Diagnostics lists the recoverable problems of the load.
	Diagnostics []Diagnostic

	flags      MapFlag
	projection Projection
	registry   *Registry
	zorder     []Layer
	index      *queryIndex
	typeAttrs  map[string]Properties

	delegate any
	rendered sync.Once
}

func newMap(tmx *Tmx, path string, delegate any) *Map {
	m := &Map{
		UUID:           uuid.New(),
		Path:           path,
		Version:        tmx.Version,
		TiledVersion:   tmx.TiledVersion,
		Class:          tmx.Class,
		Width:          tmx.Width,
		Height:         tmx.Height,
		TileWidth:      tmx.TileWidth,
		TileHeight:     tmx.TileHeight,
		Orientation:    tmx.Orientation,
		RenderOrder:    tmx.RenderOrder,
		StaggerAxis:    tmx.StaggerAxis,
		StaggerIndex:   tmx.StaggerIndex,
		HexSideLength:  tmx.HexSideLength,
		ParallaxOrigin: Point{X: tmx.ParallaxOriginX, Y: tmx.ParallaxOriginY},
		NextLayerID:    tmx.NextLayerID,
		NextObjectID:   tmx.NextObjectID,
		flags:          tmx.Flags,
		typeAttrs:      make(map[string]Properties),
		delegate:       delegate,
	}
	m.projection = NewProjection(m.Orientation, m.TileWidth, m.TileHeight, m.StaggerAxis, m.StaggerIndex, m.HexSideLength)
	m.registry = NewRegistry()
	m.index = newQueryIndex(nil)
	return m
}

func (m *Map) Infinite() bool {
	return m.flags&MapFlagInfinite != 0
}

func (m *Map) Projection() Projection {
	return m.projection
}

func (m *Map) Registry() *Registry {
	return m.registry
}

// Resolve is a shortcut for m.Registry().Resolve.
func (m *Map) Resolve(gid uint32) (*MapTileset, uint32, FlipFlag, error) {
	return m.registry.Resolve(gid)
}

// Bounds returns the tile region covered by the map. For infinite maps this
// is the union of all chunks.
func (m *Map) Bounds() TileRegion {
	if !m.Infinite() {
		return TileRegion{MaxX: m.Width, MaxY: m.Height}
	}

	r := TileRegion{
		MinX: math.MaxInt32, MinY: math.MaxInt32,
		MaxX: math.MinInt32, MaxY: math.MinInt32,
	}
	found := false
	for _, l := range m.TileLayers() {
		if len(l.Chunks) == 0 {
			continue
		}
		r = r.Union(l.Bounds())
		found = true
	}
	if !found {
		return TileRegion{}
	}
	return r
}

// PixelSize returns the size of the map in pixels.
func (m *Map) PixelSize() (w, h float64) {
	b := m.Bounds()
	return m.projection.MapSize(b.Width(), b.Height())
}

// PixelForCoordinate, PointForCoordinate and CoordinateForPoint forward to
// the map's Projection.
func (m *Map) PixelForCoordinate(c Coordinate) Point {
	return m.projection.PixelForCoordinate(c)
}

func (m *Map) PointForCoordinate(c Coordinate) Point {
	return m.projection.PointForCoordinate(c)
}

func (m *Map) CoordinateForPoint(p Point) Coordinate {
	return m.projection.CoordinateForPoint(p)
}

// ObjectCoordinate returns the tile holding the position of o. Isometric
// maps store object positions along the tile axes, measured in tile
// heights.
func (m *Map) ObjectCoordinate(o *Object) Coordinate {
	if m.Orientation == OrientationIsometric {
		th := float64(m.TileHeight)
		if th <= 0 {
			return Coordinate{}
		}
		return Coordinate{
			X: int32(math.Floor(o.X / th)),
			Y: int32(math.Floor(o.Y / th)),
		}
	}
	return m.projection.CoordinateForPoint(o.Position())
}

// NotifyRendered tells the map that a host drew it. The MapRendered hook of
// the delegate runs on the first call only.
func (m *Map) NotifyRendered() {
	m.rendered.Do(func() {
		if h, ok := m.delegate.(MapRenderedHandler); ok {
			h.MapRendered(m)
		}
	})
}
