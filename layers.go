package tiled

import (
	"iter"
	"math"

	"github.com/google/uuid"
)

// Layer is one of *TileLayer, *ObjectGroup, *ImageLayer or *GroupLayer.
type Layer interface {
	Base() *LayerBase
	Kind() LayerKind
}

// LayerBase holds what every layer kind has in common.
type LayerBase struct {
	ID    int32
	UUID  uuid.UUID
	Name  string
	Class string

	Opacity    float64
	Offset     Point
	Parallax   Point
	TintColor  Color
	Properties Properties

	// Parent is the enclosing group, nil for top level layers.
	Parent *GroupLayer

	// XPath locates the layer in the document, e.g. /map/group[2]/layer[1].
	// Indices are 1-based and count siblings with the same element name.
	XPath string

	// ZIndex is the position of the layer in Map.AllLayers. Higher values
	// draw on top.
	ZIndex int

	flags LayerFlag
}

func (lb *LayerBase) Base() *LayerBase {
	return lb
}

func (lb *LayerBase) Visible() bool {
	return lb.flags&LayerFlagVisible != 0
}

func (lb *LayerBase) Locked() bool {
	return lb.flags&LayerFlagLocked != 0
}

// VisibleInTree reports whether the layer and every enclosing group are
// visible.
func (lb *LayerBase) VisibleInTree() bool {
	if !lb.Visible() {
		return false
	}
	for g := lb.Parent; g != nil; g = g.Parent {
		if !g.Visible() {
			return false
		}
	}
	return true
}

// TotalOffset adds the offsets of the enclosing groups to the layer's own.
func (lb *LayerBase) TotalOffset() Point {
	off := lb.Offset
	for g := lb.Parent; g != nil; g = g.Parent {
		off = off.Add(g.Offset)
	}
	return off
}

// TotalOpacity multiplies the opacity of the enclosing groups into the
// layer's own.
func (lb *LayerBase) TotalOpacity() float64 {
	o := lb.Opacity
	for g := lb.Parent; g != nil; g = g.Parent {
		o *= g.Opacity
	}
	return o
}

// ======================================================
// TileLayer
// ======================================================

// TileLayer holds the cells of a tile layer. Finite maps use StorageFlat
// with Data in row-major order; infinite maps use StorageChunked.
type TileLayer struct {
	LayerBase

	Width  int32
	Height int32

	Storage Storage
	Data    []uint32
	Chunks  []*Chunk
}

func (l *TileLayer) Kind() LayerKind {
	return LayerKindTile
}

// GID returns the raw cell value at c, including flip bits. Cells outside
// the layer are 0.
func (l *TileLayer) GID(c Coordinate) uint32 {
	if l.Storage == StorageChunked {
		chunk := l.ChunkAt(c)
		if chunk == nil {
			return 0
		}
		return chunk.GID(chunk.Local(c))
	}

	if c.X < 0 || c.Y < 0 || c.X >= l.Width || c.Y >= l.Height {
		return 0
	}
	i := int(c.Y)*int(l.Width) + int(c.X)
	if i >= len(l.Data) {
		return 0
	}
	return l.Data[i]
}

// ChunkAt returns the chunk covering c, or nil.
func (l *TileLayer) ChunkAt(c Coordinate) *Chunk {
	for _, chunk := range l.Chunks {
		if chunk.Contains(c) {
			return chunk
		}
	}
	return nil
}

// CoordinateForLayer translates a map coordinate into the coordinate local
// to the storage holding it: the owning chunk's origin is subtracted for
// chunked layers, flat layers return c unchanged with a nil chunk.
func (l *TileLayer) CoordinateForLayer(c Coordinate) (*Chunk, Coordinate, bool) {
	if l.Storage == StorageChunked {
		chunk := l.ChunkAt(c)
		if chunk == nil {
			return nil, Coordinate{}, false
		}
		return chunk, chunk.Local(c), true
	}
	if c.X < 0 || c.Y < 0 || c.X >= l.Width || c.Y >= l.Height {
		return nil, Coordinate{}, false
	}
	return nil, c, true
}

// Bounds returns the region covered by the layer's storage.
func (l *TileLayer) Bounds() TileRegion {
	if l.Storage == StorageFlat {
		return TileRegion{MaxX: l.Width, MaxY: l.Height}
	}
	if len(l.Chunks) == 0 {
		return TileRegion{}
	}

	r := TileRegion{
		MinX: math.MaxInt32, MinY: math.MaxInt32,
		MaxX: math.MinInt32, MaxY: math.MinInt32,
	}
	for _, chunk := range l.Chunks {
		r = r.Union(chunk.Region())
	}
	return r
}

// Cells yields every non-empty cell of the layer with its map coordinate.
// Flat layers are walked row by row; chunked layers chunk by chunk in
// document order.
func (l *TileLayer) Cells() iter.Seq2[Coordinate, uint32] {
	return func(yield func(Coordinate, uint32) bool) {
		if l.Storage == StorageFlat {
			for i, gid := range l.Data {
				if gid == 0 || l.Width == 0 {
					continue
				}
				c := Coordinate{X: int32(i) % l.Width, Y: int32(i) / l.Width}
				if !yield(c, gid) {
					return
				}
			}
			return
		}

		for _, chunk := range l.Chunks {
			for i, gid := range chunk.Data {
				if gid == 0 || chunk.Width == 0 {
					continue
				}
				c := chunk.Global(Coordinate{X: int32(i) % chunk.Width, Y: int32(i) / chunk.Width})
				if !yield(c, gid) {
					return
				}
			}
		}
	}
}

// ======================================================
// Chunk
// ======================================================

// Chunk is a rectangular piece of an infinite tile layer. X and Y are the
// map coordinate of its top-left cell.
type Chunk struct {
	X, Y          int32
	Width, Height int32
	Data          []uint32
}

func (c *Chunk) Origin() Coordinate {
	return Coordinate{X: c.X, Y: c.Y}
}

func (c *Chunk) Region() TileRegion {
	return TileRegion{MinX: c.X, MinY: c.Y, MaxX: c.X + c.Width, MaxY: c.Y + c.Height}
}

func (c *Chunk) Contains(coord Coordinate) bool {
	return coord.X >= c.X && coord.X < c.X+c.Width &&
		coord.Y >= c.Y && coord.Y < c.Y+c.Height
}

// Local converts a map coordinate into a chunk-local one.
func (c *Chunk) Local(coord Coordinate) Coordinate {
	return coord.Sub(c.Origin())
}

// Global converts a chunk-local coordinate back into a map coordinate.
func (c *Chunk) Global(local Coordinate) Coordinate {
	return local.Add(c.Origin())
}

// GID returns the raw cell at a chunk-local coordinate, 0 when out of range.
func (c *Chunk) GID(local Coordinate) uint32 {
	if local.X < 0 || local.Y < 0 || local.X >= c.Width || local.Y >= c.Height {
		return 0
	}
	i := int(local.Y)*int(c.Width) + int(local.X)
	if i >= len(c.Data) {
		return 0
	}
	return c.Data[i]
}

// ======================================================
// ObjectGroup
// ======================================================

type ObjectGroup struct {
	LayerBase

	Color     Color
	DrawOrder DrawOrder
	Objects   []*Object
}

func (og *ObjectGroup) Kind() LayerKind {
	return LayerKindObject
}

// ======================================================
// ImageLayer
// ======================================================

type ImageLayer struct {
	LayerBase

	Image   *Image
	RepeatX bool
	RepeatY bool
}

func (il *ImageLayer) Kind() LayerKind {
	return LayerKindImage
}

// ======================================================
// GroupLayer
// ======================================================

type GroupLayer struct {
	LayerBase

	Layers []Layer
}

func (g *GroupLayer) Kind() LayerKind {
	return LayerKindGroup
}

// Walk calls fn for every layer below g in z-order (pre-order, document
// order), stopping early when fn returns false.
func (g *GroupLayer) Walk(fn func(Layer) bool) bool {
	return walkLayers(g.Layers, fn)
}

func walkLayers(layers []Layer, fn func(Layer) bool) bool {
	for _, l := range layers {
		if !fn(l) {
			return false
		}
		if g, ok := l.(*GroupLayer); ok {
			if !walkLayers(g.Layers, fn) {
				return false
			}
		}
	}
	return true
}
