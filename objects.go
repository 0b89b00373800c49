package tiled

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Object is an entry of an object group, or a collision shape of a tile.
type Object struct {
	ID    int32
	UUID  uuid.UUID
	Name  string
	Type  string
	Shape ObjectShape

	X, Y          float64
	Width, Height float64
	Rotation      float64 // degrees, clockwise
	Visible       bool

	// GID is the tile of a ShapeTile object without flip bits; Flip holds
	// them. Tileset and Tile are filled in once the GID is resolved.
	GID     uint32
	Flip    FlipFlag
	Tileset *MapTileset
	Tile    *TileData

	Points []Point // polygon and polyline vertices, relative to X, Y
	Text   *Text

	// Template is the canonical path of the template the object was
	// instantiated from, if any.
	Template   string
	Properties Properties

	Group *ObjectGroup

	// Value is set by an ObjectValueProvider delegate.
	Value any
}

func (o *Object) Position() Point {
	return Point{X: o.X, Y: o.Y}
}

func (o *Object) Size() (w, h float64) {
	return o.Width, o.Height
}

// TextColor returns the color of a text object; black when unset.
func (o *Object) TextColor() Color {
	if o.Text == nil || o.Text.Color == "" {
		return Color{A: 0xff}
	}
	c, err := ParseColor(o.Text.Color)
	if err != nil {
		return Color{A: 0xff}
	}
	return c
}

// Bounds returns the axis aligned box of the unrotated object. Polygons and
// polylines use their points, tile objects extend up from their position.
func (o *Object) Bounds() (minX, minY, maxX, maxY float64) {
	switch o.Shape {
	case ShapePolygon, ShapePolyline:
		if len(o.Points) == 0 {
			return o.X, o.Y, o.X, o.Y
		}
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		for _, p := range o.Points {
			minX, minY = min(minX, o.X+p.X), min(minY, o.Y+p.Y)
			maxX, maxY = max(maxX, o.X+p.X), max(maxY, o.Y+p.Y)
		}
		return
	case ShapeTile:
		return o.X, o.Y - o.Height, o.X + o.Width, o.Y
	default:
		return o.X, o.Y, o.X + o.Width, o.Y + o.Height
	}
}

func shapeOf(o *TmxObject) ObjectShape {
	switch {
	case o.Text != nil:
		return ShapeText
	case o.GID != 0:
		return ShapeTile
	case o.Ellipse != nil:
		return ShapeEllipse
	case o.Point != nil:
		return ShapePoint
	case o.Polygon != nil:
		return ShapePolygon
	case o.Polyline != nil:
		return ShapePolyline
	default:
		return ShapeRectangle
	}
}

// newObject converts a parsed <object> element whose template, if any, is
// already applied. The GID is split but not resolved.
func newObject(x *TmxObject) (o *Object, errs []error) {
	o = &Object{
		ID:       x.ID,
		UUID:     uuid.New(),
		Name:     x.Name,
		Type:     x.Type,
		Shape:    shapeOf(x),
		X:        x.X,
		Y:        x.Y,
		Width:    x.Width,
		Height:   x.Height,
		Rotation: x.Rotation,
		Visible:  x.Visible,
		Text:     x.Text,
		Template: x.Template,
	}
	o.GID, o.Flip = DecodeGID(x.GID)

	where := fmt.Sprintf("object %d", x.ID)

	var points *TmxPoints
	switch o.Shape {
	case ShapePolygon:
		points = x.Polygon
	case ShapePolyline:
		points = x.Polyline
	}
	if points != nil {
		pts, err := points.Parse()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		o.Points = pts
	}

	if x.Text != nil {
		for _, align := range x.Text.invalidAlign {
			errs = append(errs, fmt.Errorf("%s: %w: text %s", where, ErrUnsupportedFormat, align))
		}
	}

	props, perrs := newProperties(x.Properties)
	for _, err := range perrs {
		errs = append(errs, fmt.Errorf("%s: %w", where, err))
	}
	o.Properties = props

	return o, errs
}
