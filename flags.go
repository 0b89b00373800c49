package tiled

import "strings"

// ======================================================
// MapFlag
// ======================================================

type MapFlag uint8

const (
	MapFlagInfinite MapFlag = 1 << iota

	mapFlagMax = MapFlagInfinite
)

func (f MapFlag) String() string {
	var flags []string
	if f&MapFlagInfinite != 0 {
		flags = append(flags, "infinite")
	}
	if len(flags) == 0 {
		return "None"
	}
	return strings.Join(flags, "|")
}

func (f MapFlag) IsValid() bool {
	return f&^mapFlagMax == 0
}

// ======================================================
// LayerFlag
// ======================================================

type LayerFlag uint8

const (
	LayerFlagLocked LayerFlag = 1 << iota
	LayerFlagVisible

	layerFlagMax = LayerFlagLocked | LayerFlagVisible
)

func (lf LayerFlag) String() string {
	var flags []string
	if lf&LayerFlagLocked != 0 {
		flags = append(flags, "locked")
	}
	if lf&LayerFlagVisible != 0 {
		flags = append(flags, "visible")
	}
	if len(flags) == 0 {
		return "None"
	}
	return strings.Join(flags, "|")
}

func (lf LayerFlag) IsValid() bool {
	return lf&^layerFlagMax == 0
}

// ======================================================
// ObjectField
// ======================================================

// ObjectField records which attributes an <object> element spelled out.
// Template resolution only lets set fields override the template.
type ObjectField uint16

const (
	ObjectFieldName ObjectField = 1 << iota
	ObjectFieldType
	ObjectFieldX
	ObjectFieldY
	ObjectFieldWidth
	ObjectFieldHeight
	ObjectFieldRotation
	ObjectFieldGID
	ObjectFieldVisible
	ObjectFieldShape
	ObjectFieldText

	objectFieldMax = ObjectFieldText<<1 - 1
)

var objectFieldNames = [...]string{
	"name", "type", "x", "y", "width", "height", "rotation", "gid", "visible", "shape", "text",
}

func (of ObjectField) String() string {
	var flags []string
	for i, name := range objectFieldNames {
		if of&(1<<i) != 0 {
			flags = append(flags, name)
		}
	}
	if len(flags) == 0 {
		return "None"
	}
	return strings.Join(flags, "|")
}

func (of ObjectField) IsValid() bool {
	return of&^objectFieldMax == 0
}

func (of ObjectField) Has(field ObjectField) bool {
	return of&field != 0
}

// ======================================================
// FlipFlag
// ======================================================

type FlipFlag uint8

const (
	FlipHorizontal FlipFlag = 1 << iota
	FlipVertical
	FlipDiagonal

	flipFlagMax = FlipHorizontal | FlipVertical | FlipDiagonal
)

func (ff FlipFlag) String() string {
	var flags []string
	if ff&FlipHorizontal != 0 {
		flags = append(flags, "horizontal")
	}
	if ff&FlipVertical != 0 {
		flags = append(flags, "vertical")
	}
	if ff&FlipDiagonal != 0 {
		flags = append(flags, "diagonal")
	}
	if len(flags) == 0 {
		return "None"
	}
	return strings.Join(flags, "|")
}

func (ff FlipFlag) IsValid() bool {
	return ff&^flipFlagMax == 0
}

func (ff FlipFlag) Horizontal() bool {
	return ff&FlipHorizontal != 0
}

func (ff FlipFlag) Vertical() bool {
	return ff&FlipVertical != 0
}

func (ff FlipFlag) Diagonal() bool {
	return ff&FlipDiagonal != 0
}
