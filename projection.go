package tiled

import "math"

// Point is a position in map pixel space: x to the right, y down.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Coordinate is a tile position: X is the column, Y the row. Coordinates of
// infinite maps may be negative.
type Coordinate struct {
	X, Y int32
}

func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y}
}

func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{X: c.X - o.X, Y: c.Y - o.Y}
}

// Projection converts between tile coordinates and pixels for one map. It
// is a plain value computed once when the map is built.
type Projection struct {
	Orientation   Orientation
	TileWidth     float64
	TileHeight    float64
	StaggerAxis   StaggerAxis
	StaggerIndex  StaggerIndex
	HexSideLength float64
}

func NewProjection(orientation Orientation, tileWidth, tileHeight int32, axis StaggerAxis, index StaggerIndex, hexSideLength int32) Projection {
	p := Projection{
		Orientation:  orientation,
		TileWidth:    float64(tileWidth),
		TileHeight:   float64(tileHeight),
		StaggerAxis:  axis,
		StaggerIndex: index,
	}
	if orientation == OrientationHexagonal {
		p.HexSideLength = float64(hexSideLength)
	}
	return p
}

// PixelForCoordinate returns the origin of the tile at c: the top-left
// corner of its bounding box, or the top vertex for isometric maps.
func (p Projection) PixelForCoordinate(c Coordinate) Point {
	col, row := float64(c.X), float64(c.Y)

	switch p.Orientation {
	case OrientationIsometric:
		return Point{
			X: (col - row) * p.TileWidth / 2,
			Y: (col + row) * p.TileHeight / 2,
		}
	case OrientationStaggered, OrientationHexagonal:
		return p.staggered().tileToPixel(c)
	default:
		return Point{X: col * p.TileWidth, Y: row * p.TileHeight}
	}
}

// PointForCoordinate returns the center of the tile at c.
func (p Projection) PointForCoordinate(c Coordinate) Point {
	origin := p.PixelForCoordinate(c)
	if p.Orientation == OrientationIsometric {
		return Point{X: origin.X, Y: origin.Y + p.TileHeight/2}
	}
	return Point{X: origin.X + p.TileWidth/2, Y: origin.Y + p.TileHeight/2}
}

// CoordinateForPoint returns the tile containing pt. For every coordinate c,
// CoordinateForPoint(PointForCoordinate(c)) == c.
func (p Projection) CoordinateForPoint(pt Point) Coordinate {
	if p.TileWidth <= 0 || p.TileHeight <= 0 {
		return Coordinate{}
	}

	switch p.Orientation {
	case OrientationIsometric:
		ty := pt.Y / p.TileHeight
		tx := pt.X / p.TileWidth
		return Coordinate{
			X: int32(math.Floor(ty + tx)),
			Y: int32(math.Floor(ty - tx)),
		}
	case OrientationStaggered, OrientationHexagonal:
		return p.staggered().pixelToTile(pt)
	default:
		return Coordinate{
			X: int32(math.Floor(pt.X / p.TileWidth)),
			Y: int32(math.Floor(pt.Y / p.TileHeight)),
		}
	}
}

// MapSize returns the pixel size of a map of width x height tiles.
func (p Projection) MapSize(width, height int32) (w, h float64) {
	cols, rows := float64(width), float64(height)

	switch p.Orientation {
	case OrientationIsometric:
		return (cols + rows) * p.TileWidth / 2, (cols + rows) * p.TileHeight / 2
	case OrientationStaggered, OrientationHexagonal:
		s := p.staggered()
		if s.staggerX {
			w = cols*s.columnWidth + s.sideOffsetX
			h = rows * (p.TileHeight + s.sideLengthY)
			if width > 1 {
				h += s.rowHeight
			}
			return w, h
		}
		w = cols * (p.TileWidth + s.sideLengthX)
		h = rows*s.rowHeight + s.sideOffsetY
		if height > 1 {
			w += s.columnWidth
		}
		return w, h
	default:
		return cols * p.TileWidth, rows * p.TileHeight
	}
}

// ScreenForPoint flips pt into a y-up space whose origin is the bottom-left
// corner of a map mapHeight pixels tall.
func (p Projection) ScreenForPoint(pt Point, mapHeight float64) Point {
	return Point{X: pt.X, Y: mapHeight - pt.Y}
}

// PointForScreen is the inverse of ScreenForPoint.
func (p Projection) PointForScreen(screen Point, mapHeight float64) Point {
	return Point{X: screen.X, Y: mapHeight - screen.Y}
}

// ======================================================
// Staggered & hexagonal layout
// ======================================================

// staggerLayout holds the derived metrics of a staggered or hexagonal map.
// A staggered map is a hexagonal map with a side length of zero.
type staggerLayout struct {
	tileWidth, tileHeight    float64
	sideLengthX, sideLengthY float64
	sideOffsetX, sideOffsetY float64
	columnWidth, rowHeight   float64

	staggerX    bool
	staggerEven bool
	hexagonal   bool
}

func (p Projection) staggered() staggerLayout {
	s := staggerLayout{
		tileWidth:   p.TileWidth,
		tileHeight:  p.TileHeight,
		staggerX:    p.StaggerAxis == StaggerAxisX,
		staggerEven: p.StaggerIndex == StaggerIndexEven,
		hexagonal:   p.Orientation == OrientationHexagonal,
	}
	if s.staggerX {
		s.sideLengthX = p.HexSideLength
	} else {
		s.sideLengthY = p.HexSideLength
	}
	s.sideOffsetX = (p.TileWidth - s.sideLengthX) / 2
	s.sideOffsetY = (p.TileHeight - s.sideLengthY) / 2
	s.columnWidth = s.sideOffsetX + s.sideLengthX
	s.rowHeight = s.sideOffsetY + s.sideLengthY
	return s
}

// doStagger reports whether row or column index i is shifted.
func (s staggerLayout) doStagger(i int32) bool {
	odd := i&1 != 0
	return odd != s.staggerEven
}

func (s staggerLayout) tileToPixel(c Coordinate) Point {
	col, row := float64(c.X), float64(c.Y)

	if s.staggerX {
		pt := Point{X: col * s.columnWidth, Y: row * (s.tileHeight + s.sideLengthY)}
		if s.doStagger(c.X) {
			pt.Y += s.rowHeight
		}
		return pt
	}

	pt := Point{X: col * (s.tileWidth + s.sideLengthX), Y: row * s.rowHeight}
	if s.doStagger(c.Y) {
		pt.X += s.columnWidth
	}
	return pt
}

var (
	staggerXOffsets = [4]Coordinate{{0, 0}, {1, -1}, {1, 0}, {2, 0}}
	staggerYOffsets = [4]Coordinate{{0, 0}, {-1, 1}, {0, 1}, {0, 2}}
)

// pixelToTile splits the plane into blocks of two columns (or rows) and
// picks the nearest of the four tile centers that can cover a point of the
// block.
func (s staggerLayout) pixelToTile(pt Point) Coordinate {
	x, y := pt.X, pt.Y
	if s.staggerX {
		if s.staggerEven {
			x -= s.tileWidth
		} else {
			x -= s.sideOffsetX
		}
	} else {
		if s.staggerEven {
			y -= s.tileHeight
		} else {
			y -= s.sideOffsetY
		}
	}

	refX := math.Floor(x / (s.columnWidth * 2))
	refY := math.Floor(y / (s.rowHeight * 2))
	rel := Point{X: x - refX*s.columnWidth*2, Y: y - refY*s.rowHeight*2}

	ref := Coordinate{X: int32(refX), Y: int32(refY)}
	var centers [4]Point
	var offsets [4]Coordinate

	if s.staggerX {
		ref.X *= 2
		if s.staggerEven {
			ref.X++
		}

		left := s.sideLengthX / 2
		centerX := left + s.columnWidth
		centerY := s.tileHeight / 2

		centers = [4]Point{
			{left, centerY},
			{centerX, centerY - s.rowHeight},
			{centerX, centerY + s.rowHeight},
			{centerX + s.columnWidth, centerY},
		}
		offsets = staggerXOffsets
	} else {
		ref.Y *= 2
		if s.staggerEven {
			ref.Y++
		}

		top := s.sideLengthY / 2
		centerX := s.tileWidth / 2
		centerY := top + s.rowHeight

		centers = [4]Point{
			{centerX, top},
			{centerX - s.columnWidth, centerY},
			{centerX + s.columnWidth, centerY},
			{centerX, centerY + s.rowHeight},
		}
		offsets = staggerYOffsets
	}

	nearest := 0
	minDist := math.Inf(1)
	for i, c := range centers {
		if d := s.distance(rel, c); d < minDist {
			minDist = d
			nearest = i
		}
	}

	return ref.Add(offsets[nearest])
}

// distance is the Euclidean distance for hexagons and the diamond metric for
// staggered tiles, whose cells are rhombi around each center.
func (s staggerLayout) distance(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	if s.hexagonal && (s.sideLengthX > 0 || s.sideLengthY > 0) {
		return dx*dx + dy*dy
	}
	return math.Abs(dx)/(s.tileWidth/2) + math.Abs(dy)/(s.tileHeight/2)
}
