package tiled

// ======================================================
// DrawOrder
// ======================================================

type DrawOrder uint8

const (
	DrawOrderTopDown DrawOrder = iota
	DrawOrderIndex
)

func (do DrawOrder) String() string {
	switch do {
	case DrawOrderTopDown:
		return "topdown"
	case DrawOrderIndex:
		return "index"
	default:
		return "unknown"
	}
}

func (do DrawOrder) IsValid() bool {
	return do >= DrawOrderTopDown && do <= DrawOrderIndex
}

// ======================================================
// Compression
// ======================================================

type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZlib
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

func (c Compression) IsValid() bool {
	return c >= CompressionNone && c <= CompressionZstd
}

// ======================================================
// Encoding
// ======================================================

type Encoding uint8

const (
	EncodingCSV Encoding = iota
	EncodingBase64
	// EncodingXML is the legacy <tile gid="..."/> form, used when the
	// encoding attribute is absent.
	EncodingXML
)

func (e Encoding) String() string {
	switch e {
	case EncodingCSV:
		return "csv"
	case EncodingBase64:
		return "base64"
	case EncodingXML:
		return "xml"
	default:
		return "unknown"
	}
}

func (e Encoding) IsValid() bool {
	return e >= EncodingCSV && e <= EncodingXML
}

// ======================================================
// ObjectAlignment
// ======================================================

type ObjectAlignment uint8

const (
	ObjectAlignmentUnspecified ObjectAlignment = iota
	ObjectAlignmentTopLeft
	ObjectAlignmentTop
	ObjectAlignmentTopRight
	ObjectAlignmentLeft
	ObjectAlignmentCenter
	ObjectAlignmentRight
	ObjectAlignmentBottomLeft
	ObjectAlignmentBottom
	ObjectAlignmentBottomRight
)

func (oa ObjectAlignment) String() string {
	switch oa {
	case ObjectAlignmentUnspecified:
		return "unspecified"
	case ObjectAlignmentTopLeft:
		return "topleft"
	case ObjectAlignmentTop:
		return "top"
	case ObjectAlignmentTopRight:
		return "topright"
	case ObjectAlignmentLeft:
		return "left"
	case ObjectAlignmentCenter:
		return "center"
	case ObjectAlignmentRight:
		return "right"
	case ObjectAlignmentBottomLeft:
		return "bottomleft"
	case ObjectAlignmentBottom:
		return "bottom"
	case ObjectAlignmentBottomRight:
		return "bottomright"
	default:
		return "unknown"
	}
}

func (oa ObjectAlignment) IsValid() bool {
	return oa >= ObjectAlignmentUnspecified && oa <= ObjectAlignmentBottomRight
}

// ======================================================
// Orientation
// ======================================================

type Orientation uint8

const (
	OrientationOrthogonal Orientation = iota
	OrientationIsometric
	OrientationStaggered
	OrientationHexagonal
)

func (o Orientation) String() string {
	switch o {
	case OrientationOrthogonal:
		return "orthogonal"
	case OrientationIsometric:
		return "isometric"
	case OrientationStaggered:
		return "staggered"
	case OrientationHexagonal:
		return "hexagonal"
	default:
		return "unknown"
	}
}

func (o Orientation) IsValid() bool {
	return o >= OrientationOrthogonal && o <= OrientationHexagonal
}

// ======================================================
// RenderOrder
// ======================================================

type RenderOrder uint8

const (
	RenderOrderRightDown RenderOrder = iota
	RenderOrderRightUp
	RenderOrderLeftDown
	RenderOrderLeftUp
)

func (ro RenderOrder) String() string {
	switch ro {
	case RenderOrderRightDown:
		return "right-down"
	case RenderOrderRightUp:
		return "right-up"
	case RenderOrderLeftDown:
		return "left-down"
	case RenderOrderLeftUp:
		return "left-up"
	default:
		return "unknown"
	}
}

func (ro RenderOrder) IsValid() bool {
	return ro >= RenderOrderRightDown && ro <= RenderOrderLeftUp
}

// ======================================================
// StaggerAxis
// ======================================================

type StaggerAxis uint8

const (
	StaggerAxisY StaggerAxis = iota
	StaggerAxisX
)

func (sa StaggerAxis) String() string {
	switch sa {
	case StaggerAxisY:
		return "y"
	case StaggerAxisX:
		return "x"
	default:
		return "unknown"
	}
}

func (sa StaggerAxis) IsValid() bool {
	return sa >= StaggerAxisY && sa <= StaggerAxisX
}

// ======================================================
// StaggerIndex
// ======================================================

type StaggerIndex uint8

const (
	StaggerIndexOdd StaggerIndex = iota
	StaggerIndexEven
)

func (si StaggerIndex) String() string {
	switch si {
	case StaggerIndexOdd:
		return "odd"
	case StaggerIndexEven:
		return "even"
	default:
		return "unknown"
	}
}

func (si StaggerIndex) IsValid() bool {
	return si >= StaggerIndexOdd && si <= StaggerIndexEven
}

// ======================================================
// PropertyType
// ======================================================

type PropertyType uint8

const (
	PropertyString PropertyType = iota
	PropertyInt
	PropertyFloat
	PropertyBool
	PropertyColor
	PropertyFile
	PropertyObject
	PropertyClass
)

func (pt PropertyType) String() string {
	switch pt {
	case PropertyString:
		return "string"
	case PropertyInt:
		return "int"
	case PropertyFloat:
		return "float"
	case PropertyBool:
		return "bool"
	case PropertyColor:
		return "color"
	case PropertyFile:
		return "file"
	case PropertyObject:
		return "object"
	case PropertyClass:
		return "class"
	default:
		return "unknown"
	}
}

func (pt PropertyType) IsValid() bool {
	return pt >= PropertyString && pt <= PropertyClass
}

// ======================================================
// HorizontalAlignment / VerticalAlignment (text objects)
// ======================================================

type HorizontalAlignment uint8

const (
	HAlignLeft HorizontalAlignment = iota
	HAlignCenter
	HAlignRight
	HAlignJustify
)

func (ha HorizontalAlignment) String() string {
	switch ha {
	case HAlignLeft:
		return "left"
	case HAlignCenter:
		return "center"
	case HAlignRight:
		return "right"
	case HAlignJustify:
		return "justify"
	default:
		return "unknown"
	}
}

func (ha HorizontalAlignment) IsValid() bool {
	return ha >= HAlignLeft && ha <= HAlignJustify
}

type VerticalAlignment uint8

const (
	VAlignTop VerticalAlignment = iota
	VAlignCenter
	VAlignBottom
)

func (va VerticalAlignment) String() string {
	switch va {
	case VAlignTop:
		return "top"
	case VAlignCenter:
		return "center"
	case VAlignBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

func (va VerticalAlignment) IsValid() bool {
	return va >= VAlignTop && va <= VAlignBottom
}

// ======================================================
// LayerKind
// ======================================================

type LayerKind uint8

const (
	LayerKindTile LayerKind = iota
	LayerKindObject
	LayerKindImage
	LayerKindGroup
)

func (lk LayerKind) String() string {
	switch lk {
	case LayerKindTile:
		return "layer"
	case LayerKindObject:
		return "objectgroup"
	case LayerKindImage:
		return "imagelayer"
	case LayerKindGroup:
		return "group"
	default:
		return "unknown"
	}
}

func (lk LayerKind) IsValid() bool {
	return lk >= LayerKindTile && lk <= LayerKindGroup
}

// ======================================================
// ObjectShape
// ======================================================

type ObjectShape uint8

const (
	ShapeRectangle ObjectShape = iota
	ShapePoint
	ShapeEllipse
	ShapePolygon
	ShapePolyline
	ShapeTile
	ShapeText
)

func (sh ObjectShape) String() string {
	switch sh {
	case ShapeRectangle:
		return "rectangle"
	case ShapePoint:
		return "point"
	case ShapeEllipse:
		return "ellipse"
	case ShapePolygon:
		return "polygon"
	case ShapePolyline:
		return "polyline"
	case ShapeTile:
		return "tile"
	case ShapeText:
		return "text"
	default:
		return "unknown"
	}
}

func (sh ObjectShape) IsValid() bool {
	return sh >= ShapeRectangle && sh <= ShapeText
}

// ======================================================
// Storage
// ======================================================

// Storage tells how a tile layer keeps its cells: one row-major grid for
// finite maps, or a sparse set of chunks for infinite maps.
type Storage uint8

const (
	StorageFlat Storage = iota
	StorageChunked
)

func (s Storage) String() string {
	switch s {
	case StorageFlat:
		return "flat"
	case StorageChunked:
		return "chunked"
	default:
		return "unknown"
	}
}

func (s Storage) IsValid() bool {
	return s >= StorageFlat && s <= StorageChunked
}
