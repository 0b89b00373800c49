package tiled

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/adm87/enum"
)

// ======================================================
// Tmx - Tiled Map XML
// ======================================================

type Tmx struct {
	Version      string `xml:"version,attr"`
	TiledVersion string `xml:"tiledversion,attr"`
	Class        string `xml:"class,attr"`

	Width         int32 `xml:"width,attr"`
	Height        int32 `xml:"height,attr"`
	TileHeight    int32 `xml:"tileheight,attr"`
	TileWidth     int32 `xml:"tilewidth,attr"`
	HexSideLength int32 `xml:"hexsidelength,attr"`

	ParallaxOriginX float64 `xml:"parallaxoriginx,attr"`
	ParallaxOriginY float64 `xml:"parallaxoriginy,attr"`
	BackgroundColor string  `xml:"backgroundcolor,attr"`

	Flags        MapFlag      `xml:"-"`
	Orientation  Orientation  `xml:"-"`
	RenderOrder  RenderOrder  `xml:"-"`
	StaggerAxis  StaggerAxis  `xml:"-"`
	StaggerIndex StaggerIndex `xml:"-"`

	NextLayerID  int32 `xml:"nextlayerid,attr"`
	NextObjectID int32 `xml:"nextobjectid,attr"`

	Tilesets []TmxTileset  `xml:"tileset,omitempty"`
	Layers   []LayerElement `xml:",any"`

	Properties []Property `xml:"properties>property,omitempty"`
}

func (t *Tmx) IsInfinite() bool {
	return t.Flags&MapFlagInfinite != 0
}

func (t *Tmx) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var err error
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "infinite":
			if attr.Value == "1" {
				t.Flags |= MapFlagInfinite
			}
		case "orientation":
			t.Orientation, err = enum.UnmarshalEnum[Orientation](attr.Value)
		case "renderorder":
			t.RenderOrder, err = enum.UnmarshalEnum[RenderOrder](attr.Value)
		case "staggeraxis":
			t.StaggerAxis, err = enum.UnmarshalEnum[StaggerAxis](attr.Value)
		case "staggerindex":
			t.StaggerIndex, err = enum.UnmarshalEnum[StaggerIndex](attr.Value)
		}
		if err != nil {
			return fmt.Errorf("map attribute %s: %w", attr.Name.Local, err)
		}
	}

	type tmxAlias Tmx
	aux := (*tmxAlias)(t)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// TmxTileset - <tileset> reference inside a map or template
// ======================================================

// TmxTileset is either a reference to an external TSX file (Source set) or
// an inline tileset definition (Inline set).
type TmxTileset struct {
	FirstGID uint32
	Source   string
	Inline   *Tsx
}

func (ts *TmxTileset) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "firstgid":
			v, err := strconv.ParseUint(attr.Value, 10, 32)
			if err != nil {
				return fmt.Errorf("tileset firstgid: %w", err)
			}
			ts.FirstGID = uint32(v)
		case "source":
			ts.Source = attr.Value
		}
	}

	if ts.Source != "" {
		return d.Skip()
	}

	ts.Inline = new(Tsx)
	return d.DecodeElement(ts.Inline, &start)
}

// ======================================================
// Tsx - Tiled Tileset XML
// ======================================================

type Tsx struct {
	Name  string `xml:"name,attr"`
	Class string `xml:"class,attr"`

	TileWidth  int32 `xml:"tilewidth,attr"`
	TileHeight int32 `xml:"tileheight,attr"`
	Spacing    int32 `xml:"spacing,attr"`
	Margin     int32 `xml:"margin,attr"`
	TileCount  int32 `xml:"tilecount,attr"`
	Columns    int32 `xml:"columns,attr"`

	Image      *Image `xml:"image,omitempty"`
	TileOffset Offset `xml:"tileoffset,omitempty"`

	ObjectAlignment ObjectAlignment `xml:"-"`

	TerrainTypes []TmxTerrain `xml:"terraintypes>terrain,omitempty"`
	WangSets     []TmxWangSet `xml:"wangsets>wangset,omitempty"`
	Tiles        []TsxTile    `xml:"tile,omitempty"`

	Properties []Property `xml:"properties>property,omitempty"`
}

func (t *Tsx) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "objectalignment":
			val, err := enum.UnmarshalEnum[ObjectAlignment](attr.Value)
			if err != nil {
				return err
			}
			t.ObjectAlignment = val
		}
	}

	type tsxAlias Tsx
	aux := (*tsxAlias)(t)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// TsxTile - per tile data of a tileset
// ======================================================

type TsxTile struct {
	ID          uint32  `xml:"id,attr"`
	Type        string  `xml:"-"`
	Terrain     string  `xml:"terrain,attr,omitempty"`
	Probability float64 `xml:"probability,attr,omitempty"`

	Image       *Image           `xml:"image,omitempty"`
	Animation   []AnimationFrame `xml:"animation>frame,omitempty"`
	ObjectGroup *TmxObjectGroup  `xml:"objectgroup,omitempty"`

	Properties []Property `xml:"properties>property,omitempty"`
}

func (t *TsxTile) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	t.Probability = 1

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "type", "class":
			t.Type = attr.Value
		}
	}

	type tileAlias TsxTile
	aux := (*tileAlias)(t)

	return d.DecodeElement(aux, &start)
}

type AnimationFrame struct {
	TileID   uint32 `xml:"tileid,attr"`
	Duration int32  `xml:"duration,attr"` // milliseconds
}

// ======================================================
// Terrain & Wang sets
// ======================================================

type TmxTerrain struct {
	Name string `xml:"name,attr"`
	Tile int32  `xml:"tile,attr"`

	Properties []Property `xml:"properties>property,omitempty"`
}

type TmxWangSet struct {
	Name  string `xml:"name,attr"`
	Class string `xml:"class,attr"`
	Type  string `xml:"type,attr"`
	Tile  int32  `xml:"tile,attr"`

	Colors []TmxWangColor `xml:"wangcolor,omitempty"`
	Tiles  []TmxWangTile  `xml:"wangtile,omitempty"`

	Properties []Property `xml:"properties>property,omitempty"`
}

type TmxWangColor struct {
	Name        string  `xml:"name,attr"`
	Class       string  `xml:"class,attr"`
	Color       string  `xml:"color,attr"`
	Tile        int32   `xml:"tile,attr"`
	Probability float64 `xml:"probability,attr"`

	Properties []Property `xml:"properties>property,omitempty"`
}

type TmxWangTile struct {
	TileID uint32 `xml:"tileid,attr"`
	WangID string `xml:"wangid,attr"`
}

// ======================================================
// LayerElement - one of <layer>, <objectgroup>, <imagelayer>, <group>
// ======================================================

// LayerElement keeps sibling layers of different kinds in document order.
// Exactly one of the pointers is set; elements that are not layers leave
// all of them nil.
type LayerElement struct {
	Kind    LayerKind
	Tile    *TmxLayer
	Objects *TmxObjectGroup
	Image   *TmxImageLayer
	Group   *TmxGroup
}

func (le *LayerElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	switch start.Name.Local {
	case "layer":
		le.Kind, le.Tile = LayerKindTile, new(TmxLayer)
		return d.DecodeElement(le.Tile, &start)
	case "objectgroup":
		le.Kind, le.Objects = LayerKindObject, new(TmxObjectGroup)
		return d.DecodeElement(le.Objects, &start)
	case "imagelayer":
		le.Kind, le.Image = LayerKindImage, new(TmxImageLayer)
		return d.DecodeElement(le.Image, &start)
	case "group":
		le.Kind, le.Group = LayerKindGroup, new(TmxGroup)
		return d.DecodeElement(le.Group, &start)
	}
	return d.Skip()
}

// Common returns the attributes shared by every layer kind, or nil when the
// element was not a layer.
func (le *LayerElement) Common() *TmxLayerCommon {
	switch {
	case le.Tile != nil:
		return &le.Tile.TmxLayerCommon
	case le.Objects != nil:
		return &le.Objects.TmxLayerCommon
	case le.Image != nil:
		return &le.Image.TmxLayerCommon
	case le.Group != nil:
		return &le.Group.TmxLayerCommon
	}
	return nil
}

// ======================================================
// TmxLayerCommon
// ======================================================

type TmxLayerCommon struct {
	ID    int32  `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Class string `xml:"class,attr"`

	OffsetX   float64 `xml:"offsetx,attr"`
	OffsetY   float64 `xml:"offsety,attr"`
	ParallaxX float64 `xml:"parallaxx,attr"`
	ParallaxY float64 `xml:"parallaxy,attr"`
	Opacity   float64 `xml:"opacity,attr"`
	TintColor string  `xml:"tintcolor,attr"`

	Flags LayerFlag `xml:"-"`

	Properties []Property `xml:"properties>property,omitempty"`
}

func (lc *TmxLayerCommon) IsLocked() bool {
	return lc.Flags&LayerFlagLocked != 0
}

func (lc *TmxLayerCommon) IsVisible() bool {
	return lc.Flags&LayerFlagVisible != 0
}

// readAttrs sets defaults and the flag attributes. Everything else is
// decoded through struct tags.
func (lc *TmxLayerCommon) readAttrs(start xml.StartElement) {
	lc.Flags |= LayerFlagVisible
	lc.Opacity = 1
	lc.ParallaxX = 1
	lc.ParallaxY = 1

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "visible":
			if attr.Value == "0" {
				lc.Flags &^= LayerFlagVisible
			} else {
				lc.Flags |= LayerFlagVisible
			}
		case "locked":
			if attr.Value == "1" {
				lc.Flags |= LayerFlagLocked
			} else {
				lc.Flags &^= LayerFlagLocked
			}
		}
	}
}

// ======================================================
// TmxLayer
// ======================================================

type TmxLayer struct {
	TmxLayerCommon

	Width  int32 `xml:"width,attr"`
	Height int32 `xml:"height,attr"`

	Data TmxData `xml:"data,omitempty"`
}

func (l *TmxLayer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	l.readAttrs(start)

	type layerAlias TmxLayer
	aux := (*layerAlias)(l)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// TmxData
// ======================================================

type TmxData struct {
	Encoding    Encoding    `xml:"-"`
	Compression Compression `xml:"-"`

	Chunks []TmxChunk    `xml:"chunk,omitempty"`
	Tiles  []TmxDataTile `xml:"tile,omitempty"`

	Content string `xml:",chardata"`

	// unsupported holds an encoding or compression attribute that names no
	// known format, e.g. compression="lz4".
	unsupported string
}

func (dt *TmxData) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	dt.Encoding = EncodingXML

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "encoding":
			val, err := enum.UnmarshalEnum[Encoding](attr.Value)
			if err != nil {
				dt.unsupported = "encoding " + attr.Value
				continue
			}
			dt.Encoding = val
		case "compression":
			if attr.Value == "" {
				continue
			}
			val, err := enum.UnmarshalEnum[Compression](attr.Value)
			if err != nil {
				dt.unsupported = "compression " + attr.Value
				continue
			}
			dt.Compression = val
		}
	}

	type dataAlias TmxData
	aux := (*dataAlias)(dt)

	return d.DecodeElement(aux, &start)
}

// Supported reports an encoding or compression the codec cannot read.
func (dt *TmxData) Supported() error {
	if dt.unsupported != "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, dt.unsupported)
	}
	return nil
}

// Decode returns the cells of a finite layer.
func (dt *TmxData) Decode() ([]uint32, error) {
	if err := dt.Supported(); err != nil {
		return nil, err
	}
	if dt.Encoding == EncodingXML {
		return tileGIDs(dt.Tiles), nil
	}
	return DecodeContent(dt.Content, dt.Encoding, dt.Compression)
}

type TmxDataTile struct {
	GID uint32 `xml:"gid,attr"`
}

func tileGIDs(tiles []TmxDataTile) []uint32 {
	gids := make([]uint32, len(tiles))
	for i := range tiles {
		gids[i] = tiles[i].GID
	}
	return gids
}

// ======================================================
// TmxChunk
// ======================================================

type TmxChunk struct {
	X      int32 `xml:"x,attr"`
	Y      int32 `xml:"y,attr"`
	Width  int32 `xml:"width,attr"`
	Height int32 `xml:"height,attr"`

	Tiles []TmxDataTile `xml:"tile,omitempty"`

	Content string `xml:",chardata"`
}

// Decode returns the cells of the chunk using the encoding of its parent
// <data> element.
func (c *TmxChunk) Decode(encoding Encoding, compression Compression) ([]uint32, error) {
	if encoding == EncodingXML {
		return tileGIDs(c.Tiles), nil
	}
	return DecodeContent(c.Content, encoding, compression)
}

// ======================================================
// TmxObjectGroup
// ======================================================

type TmxObjectGroup struct {
	TmxLayerCommon

	Color     string    `xml:"color,attr,omitempty"`
	DrawOrder DrawOrder `xml:"-"`

	Objects []TmxObject `xml:"object,omitempty"`

	invalidDrawOrder string
}

func (og *TmxObjectGroup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	og.readAttrs(start)

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "draworder":
			val, err := enum.UnmarshalEnum[DrawOrder](attr.Value)
			if err != nil {
				og.invalidDrawOrder = attr.Value
				continue
			}
			og.DrawOrder = val
		}
	}

	type objectgroupAlias TmxObjectGroup
	aux := (*objectgroupAlias)(og)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// TmxImageLayer
// ======================================================

type TmxImageLayer struct {
	TmxLayerCommon

	RepeatX bool `xml:"repeatx,attr"`
	RepeatY bool `xml:"repeaty,attr"`

	Image *Image `xml:"image,omitempty"`
}

func (il *TmxImageLayer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	il.readAttrs(start)

	type imageLayerAlias TmxImageLayer
	aux := (*imageLayerAlias)(il)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// TmxGroup
// ======================================================

type TmxGroup struct {
	TmxLayerCommon

	Layers []LayerElement `xml:",any"`
}

func (g *TmxGroup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	g.readAttrs(start)

	type groupAlias TmxGroup
	aux := (*groupAlias)(g)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// TmxObject
// ======================================================

type TmxObject struct {
	X        float64 `xml:"x,attr"`
	Y        float64 `xml:"y,attr"`
	Width    float64 `xml:"width,attr,omitempty"`
	Height   float64 `xml:"height,attr,omitempty"`
	Rotation float64 `xml:"rotation,attr,omitempty"`

	Fields  ObjectField `xml:"-"`
	Visible bool        `xml:"-"`

	ID       int32  `xml:"id,attr"`
	GID      uint32 `xml:"gid,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`
	Type     string `xml:"-"`
	Template string `xml:"template,attr,omitempty"`

	Ellipse  *TmxMarker `xml:"ellipse,omitempty"`
	Point    *TmxMarker `xml:"point,omitempty"`
	Polygon  *TmxPoints `xml:"polygon,omitempty"`
	Polyline *TmxPoints `xml:"polyline,omitempty"`
	Text     *Text      `xml:"text,omitempty"`

	Properties []Property `xml:"properties>property,omitempty"`
}

var objectAttrFields = map[string]ObjectField{
	"name":     ObjectFieldName,
	"type":     ObjectFieldType,
	"class":    ObjectFieldType,
	"x":        ObjectFieldX,
	"y":        ObjectFieldY,
	"width":    ObjectFieldWidth,
	"height":   ObjectFieldHeight,
	"rotation": ObjectFieldRotation,
	"gid":      ObjectFieldGID,
	"visible":  ObjectFieldVisible,
}

func (o *TmxObject) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	o.Visible = true

	for _, attr := range start.Attr {
		o.Fields |= objectAttrFields[attr.Name.Local]

		switch attr.Name.Local {
		case "visible":
			o.Visible = attr.Value != "0"
		case "type", "class":
			o.Type = attr.Value
		}
	}

	type objectAlias TmxObject
	aux := (*objectAlias)(o)

	if err := d.DecodeElement(aux, &start); err != nil {
		return err
	}

	if o.Ellipse != nil || o.Point != nil || o.Polygon != nil || o.Polyline != nil {
		o.Fields |= ObjectFieldShape
	}
	if o.Text != nil {
		o.Fields |= ObjectFieldText
	}
	return nil
}

func (o *TmxObject) IsVisible() bool {
	return o.Visible
}

func (o *TmxObject) IsTemplate() bool {
	return o.Template != ""
}

// TmxMarker is an empty shape element such as <ellipse/> or <point/>.
type TmxMarker struct{}

type TmxPoints struct {
	Points string `xml:"points,attr"`
}

// Parse reads a "x1,y1 x2,y2 ..." point list.
func (p *TmxPoints) Parse() ([]Point, error) {
	fields := strings.Fields(p.Points)
	points := make([]Point, 0, len(fields))
	for _, pair := range fields {
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", pair, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// ======================================================
// Text
// ======================================================

type Text struct {
	FontFamily string `xml:"fontfamily,attr,omitempty"`
	PixelSize  int32  `xml:"pixelsize,attr,omitempty"`
	Color      string `xml:"color,attr,omitempty"`

	Wrap      bool `xml:"wrap,attr,omitempty"`
	Bold      bool `xml:"bold,attr,omitempty"`
	Italic    bool `xml:"italic,attr,omitempty"`
	Underline bool `xml:"underline,attr,omitempty"`
	Strikeout bool `xml:"strikeout,attr,omitempty"`
	Kerning   bool `xml:"kerning,attr,omitempty"`

	HAlign HorizontalAlignment `xml:"-"`
	VAlign VerticalAlignment   `xml:"-"`

	Content string `xml:",chardata"`

	invalidAlign []string
}

func (t *Text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	t.PixelSize = 16
	t.Kerning = true
	t.FontFamily = "sans-serif"

	for _, attr := range start.Attr {
		var err error
		switch attr.Name.Local {
		case "halign":
			t.HAlign, err = enum.UnmarshalEnum[HorizontalAlignment](attr.Value)
		case "valign":
			t.VAlign, err = enum.UnmarshalEnum[VerticalAlignment](attr.Value)
		}
		if err != nil {
			// Left at the default; newObject reports it.
			t.invalidAlign = append(t.invalidAlign, attr.Name.Local+" "+attr.Value)
		}
	}

	type textAlias Text
	aux := (*textAlias)(t)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// Tx - Tiled Template XML
// ======================================================

type Tx struct {
	Tileset *TmxTileset `xml:"tileset,omitempty"`
	Object  *TmxObject  `xml:"object,omitempty"`
}

// ======================================================
// Image
// ======================================================

type Image struct {
	Width  int32 `xml:"width,attr,omitempty"`
	Height int32 `xml:"height,attr,omitempty"`

	Source string `xml:"source,attr,omitempty"`
	Trans  string `xml:"trans,attr,omitempty"`
}

// ======================================================
// Offset
// ======================================================

type Offset struct {
	X int32 `xml:"x,attr,omitempty"`
	Y int32 `xml:"y,attr,omitempty"`
}

// ======================================================
// Property
// ======================================================

type Property struct {
	Name         string       `xml:"name,attr"`
	Type         PropertyType `xml:"-"`
	PropertyType string       `xml:"propertytype,attr,omitempty"`
	Value        string       `xml:"value,attr"`
	Text         string       `xml:",chardata"`

	Properties []Property `xml:"properties>property,omitempty"`

	hasValue    bool
	invalidType string
}

func (p *Property) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "type":
			val, err := enum.UnmarshalEnum[PropertyType](attr.Value)
			if err != nil {
				// Kept as a string; the builder reports it and drops it.
				p.invalidType = attr.Value
				continue
			}
			p.Type = val
		case "value":
			p.hasValue = true
		}
	}

	type propertyAlias Property
	aux := (*propertyAlias)(p)

	return d.DecodeElement(aux, &start)
}

// text returns the value attribute, or the element text for multi-line
// string values.
func (p *Property) text() string {
	if p.hasValue {
		return p.Value
	}
	return p.Text
}
