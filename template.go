package tiled

// Template is a parsed .tx file: one object that map objects inherit from.
type Template struct {
	Path string

	// Tileset and FirstGID describe the tileset the template object's GID
	// refers to. Both are zero for templates of non-tile objects.
	Tileset  *Tileset
	FirstGID uint32

	Properties Properties

	object TmxObject
}

// Object returns a copy of the template's object element.
func (t *Template) Object() TmxObject {
	return t.object
}

// IsTile reports whether the template is a tile object.
func (t *Template) IsTile() bool {
	return t.object.GID != 0
}

// LocalID returns the tileset-local id of a tile template and its flip
// flags.
func (t *Template) LocalID() (uint32, FlipFlag) {
	id, flags := DecodeGID(t.object.GID)
	if id < t.FirstGID {
		return 0, flags
	}
	return id - t.FirstGID, flags
}

// apply returns inst with every field it does not set itself taken from the
// template. Properties are merged separately.
func (t *Template) apply(inst *TmxObject) TmxObject {
	merged := t.object

	merged.ID = inst.ID
	merged.Template = inst.Template
	merged.Properties = inst.Properties
	merged.Fields = t.object.Fields | inst.Fields

	set := inst.Fields
	if set.Has(ObjectFieldName) {
		merged.Name = inst.Name
	}
	if set.Has(ObjectFieldType) {
		merged.Type = inst.Type
	}
	if set.Has(ObjectFieldX) {
		merged.X = inst.X
	}
	if set.Has(ObjectFieldY) {
		merged.Y = inst.Y
	}
	if set.Has(ObjectFieldWidth) {
		merged.Width = inst.Width
	}
	if set.Has(ObjectFieldHeight) {
		merged.Height = inst.Height
	}
	if set.Has(ObjectFieldRotation) {
		merged.Rotation = inst.Rotation
	}
	if set.Has(ObjectFieldVisible) {
		merged.Visible = inst.Visible
	}
	if set.Has(ObjectFieldGID) {
		merged.GID = inst.GID
	}
	if set.Has(ObjectFieldShape) {
		merged.Ellipse = inst.Ellipse
		merged.Point = inst.Point
		merged.Polygon = inst.Polygon
		merged.Polyline = inst.Polyline
	}
	if set.Has(ObjectFieldText) {
		merged.Text = inst.Text
	}

	return merged
}
