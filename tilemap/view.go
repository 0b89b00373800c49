package tilemap

import (
	"errors"

	"github.com/tmxkit/tiled"
)

var (
	ErrNoMap        = errors.New("no map set")
	ErrInvalidFrame = errors.New("invalid frame bounds: min > max")
)

// ====================== Frame =====================

// Frame represents the visible region of a map in pixel coordinates.
type Frame struct {
	bounds [4]float64
}

func (f *Frame) Width() float64 {
	return f.bounds[2] - f.bounds[0]
}

func (f *Frame) Height() float64 {
	return f.bounds[3] - f.bounds[1]
}

func (f *Frame) Min() (x, y float64) {
	return f.bounds[0], f.bounds[1]
}

func (f *Frame) Max() (x, y float64) {
	return f.bounds[2], f.bounds[3]
}

func (f *Frame) Bounds() (minX, minY, maxX, maxY float64) {
	return f.bounds[0], f.bounds[1], f.bounds[2], f.bounds[3]
}

func (f *Frame) Set(minX, minY, maxX, maxY float64) {
	f.bounds = [4]float64{minX, minY, maxX, maxY}
}

// ====================== View =====================

// View buffers the tiles of a map that fall inside a frame, so a renderer
// can iterate them every frame without querying the map again until the
// frame moves to another tile region.
//
// A View is not safe for concurrent use; the Map it reads is.
type View struct {
	m *tiled.Map

	frame Frame // current frame

	cachedRegion tiled.TileRegion
	buffered     bool
	itr          tiled.TileIterator
}

func NewView(m *tiled.Map) *View {
	return &View{m: m}
}

func (v *View) Map() *tiled.Map {
	return v.m
}

// SetMap replaces the map and drops buffered tiles. The frame is kept.
func (v *View) SetMap(m *tiled.Map) error {
	if m == nil {
		return ErrNoMap
	}
	v.Flush()
	v.m = m
	return nil
}

// Frame returns the visible region of the map in pixel coordinates.
// Use this to get or set the visible region of the map.
//
// Frame only returns the dimensions of the visible region of the map.
// It does not update or buffer the map for rendering.
func (v *View) Frame() *Frame {
	return &v.frame
}

// Region returns the tile region of the last buffered frame.
func (v *View) Region() tiled.TileRegion {
	return v.cachedRegion
}

// Flush drops buffered tiles.
func (v *View) Flush() {
	v.cachedRegion = tiled.TileRegion{}
	v.buffered = false
	v.itr = tiled.TileIterator{}
}

// BufferFrame buffers tile data for the current frame. The first buffered
// frame of a map notifies its MapRendered delegate hook.
func (v *View) BufferFrame() error {
	if v.m == nil {
		return ErrNoMap
	}

	minX, minY, maxX, maxY := v.frame.Bounds()
	if minX > maxX || minY > maxY {
		return ErrInvalidFrame
	}

	region := v.computeTileRegion()
	if v.buffered && region.Equal(v.cachedRegion) {
		return nil
	}

	v.itr = v.m.TilesInRegion(region)
	v.cachedRegion = region

	if !v.buffered {
		v.buffered = true
		v.m.NotifyRendered()
	}
	return nil
}

// Itr returns an iterator over the buffered tiles, one slice per tile
// layer in z-order.
func (v *View) Itr() tiled.TileIterator {
	itr := v.itr
	itr.Reset()
	return itr
}

// TilePosition returns where the origin of t is drawn, layer offsets
// included.
func (v *View) TilePosition(t tiled.Tile) tiled.Point {
	p := v.m.PixelForCoordinate(t.Coordinate)
	if t.Layer != nil {
		p = p.Add(t.Layer.TotalOffset())
	}
	return p
}

func (v *View) computeTileRegion() tiled.TileRegion {
	minX, minY, maxX, maxY := v.frame.Bounds()

	if v.m.Orientation == tiled.OrientationOrthogonal {
		return tiled.RegionForBounds(minX, minY, maxX, maxY, v.m.TileWidth, v.m.TileHeight)
	}

	// Tiles of the other orientations overlap their neighbours' bounding
	// boxes, so the corner tiles plus one ring around them cover the frame.
	corners := [4]tiled.Point{{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: minX, Y: maxY}, {X: maxX, Y: maxY}}
	first := v.m.CoordinateForPoint(corners[0])
	region := tiled.TileRegion{MinX: first.X, MinY: first.Y, MaxX: first.X + 1, MaxY: first.Y + 1}
	for _, p := range corners[1:] {
		c := v.m.CoordinateForPoint(p)
		region = region.Union(tiled.TileRegion{MinX: c.X, MinY: c.Y, MaxX: c.X + 1, MaxY: c.Y + 1})
	}
	return region.Grow(1)
}
