package tiled

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Value is a typed custom property value. Type says which field carries the
// value; accessors of Properties check it before returning anything.
type Value struct {
	Type      PropertyType
	ClassName string // propertytype attribute, custom enum or class name

	raw     string
	integer int
	number  float64
	boolean bool
	color   Color
	members Properties
}

func StringValue(s string) Value { return Value{Type: PropertyString, raw: s} }
func FileValue(path string) Value { return Value{Type: PropertyFile, raw: path} }
func BoolValue(b bool) Value      { return Value{Type: PropertyBool, raw: strconv.FormatBool(b), boolean: b} }
func ColorValue(c Color) Value    { return Value{Type: PropertyColor, raw: c.Hex(), color: c} }

func IntValue(i int) Value {
	return Value{Type: PropertyInt, raw: strconv.Itoa(i), integer: i, number: float64(i)}
}

func FloatValue(f float64) Value {
	return Value{Type: PropertyFloat, raw: strconv.FormatFloat(f, 'g', -1, 64), number: f}
}

// ObjectValue references another object of the map by id; 0 means none.
func ObjectValue(id int) Value {
	return Value{Type: PropertyObject, raw: strconv.Itoa(id), integer: id}
}

func ClassValue(name string, members Properties) Value {
	return Value{Type: PropertyClass, ClassName: name, members: members}
}

// ParseValue converts the textual form of a property into a Value of type t.
func ParseValue(t PropertyType, raw string) (Value, error) {
	switch t {
	case PropertyString:
		return StringValue(raw), nil
	case PropertyFile:
		return FileValue(raw), nil
	case PropertyInt, PropertyObject:
		if raw == "" {
			raw = "0"
		}
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s property value %q: %w", t, raw, err)
		}
		if t == PropertyObject {
			return ObjectValue(i), nil
		}
		return IntValue(i), nil
	case PropertyFloat:
		if raw == "" {
			raw = "0"
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float property value %q: %w", raw, err)
		}
		return FloatValue(f), nil
	case PropertyBool:
		if raw == "" {
			return BoolValue(false), nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, fmt.Errorf("invalid bool property value %q: %w", raw, err)
		}
		return BoolValue(b), nil
	case PropertyColor:
		if raw == "" {
			return Value{Type: PropertyColor}, nil
		}
		c, err := ParseColor(raw)
		if err != nil {
			return Value{}, err
		}
		return ColorValue(c), nil
	case PropertyClass:
		return ClassValue("", nil), nil
	}
	return Value{}, fmt.Errorf("%w: property type %d", ErrUnsupportedFormat, t)
}

// String returns the textual form of the value, as written in the document.
func (v Value) String() string {
	if v.Type == PropertyClass {
		return fmt.Sprintf("%s%v", v.ClassName, map[string]Value(v.members))
	}
	return v.raw
}

// IsEmpty reports whether the value carries nothing an override could use.
func (v Value) IsEmpty() bool {
	if v.Type == PropertyClass {
		return len(v.members) == 0
	}
	return v.raw == ""
}

// Properties is the custom property bag attached to maps, tilesets, tiles,
// layers and objects. A nil Properties is valid and empty.
type Properties map[string]Value

func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Properties) Get(key string) (Value, bool) {
	v, ok := p[key]
	return v, ok
}

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// String returns the textual form of any non-class property.
func (p Properties) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v.Type == PropertyClass {
		return "", false
	}
	return v.raw, true
}

func (p Properties) Int(key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch v.Type {
	case PropertyInt:
		return v.integer, true
	case PropertyString:
		i, err := strconv.Atoi(strings.TrimSpace(v.raw))
		return i, err == nil
	}
	return 0, false
}

func (p Properties) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch v.Type {
	case PropertyFloat, PropertyInt:
		return v.number, true
	case PropertyString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
		return f, err == nil
	}
	return 0, false
}

func (p Properties) Bool(key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	switch v.Type {
	case PropertyBool:
		return v.boolean, true
	case PropertyString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.raw))
		return b, err == nil
	}
	return false, false
}

func (p Properties) Color(key string) (Color, bool) {
	v, ok := p[key]
	if !ok {
		return Color{}, false
	}
	switch v.Type {
	case PropertyColor:
		return v.color, true
	case PropertyString:
		c, err := ParseColor(v.raw)
		return c, err == nil
	}
	return Color{}, false
}

func (p Properties) File(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v.Type != PropertyFile {
		return "", false
	}
	return v.raw, true
}

// Object returns the id of the object referenced by an object property.
func (p Properties) Object(key string) (int, bool) {
	v, ok := p[key]
	if !ok || v.Type != PropertyObject {
		return 0, false
	}
	return v.integer, true
}

// Class returns the members of a class property.
func (p Properties) Class(key string) (Properties, bool) {
	v, ok := p[key]
	if !ok || v.Type != PropertyClass {
		return nil, false
	}
	return v.members, true
}

func (p Properties) StringOr(key, def string) string {
	if s, ok := p.String(key); ok {
		return s
	}
	return def
}

func (p Properties) IntOr(key string, def int) int {
	if i, ok := p.Int(key); ok {
		return i
	}
	return def
}

func (p Properties) FloatOr(key string, def float64) float64 {
	if f, ok := p.Float(key); ok {
		return f
	}
	return def
}

func (p Properties) BoolOr(key string, def bool) bool {
	if b, ok := p.Bool(key); ok {
		return b
	}
	return def
}

// StringArray splits a string property on commas. Whitespace around each
// element is trimmed and empty elements are dropped.
func (p Properties) StringArray(key string) ([]string, bool) {
	v, ok := p[key]
	if !ok || (v.Type != PropertyString && v.Type != PropertyFile) {
		return nil, false
	}
	var out []string
	for s := range strings.SplitSeq(v.raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// IntArray parses a comma separated string property: " 0,1,2 ,3" is
// [0 1 2 3]. Any element that is not an integer makes the whole lookup fail.
func (p Properties) IntArray(key string) ([]int, bool) {
	items, ok := p.StringArray(key)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(items))
	for _, s := range items {
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

func (p Properties) FloatArray(key string) ([]float64, bool) {
	items, ok := p.StringArray(key)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(items))
	for _, s := range items {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

// Merge returns the union of p and base where p's non-empty values win.
// Class values present on both sides are merged member by member. Neither
// input is modified.
func (p Properties) Merge(base Properties) Properties {
	if len(p) == 0 && len(base) == 0 {
		return nil
	}
	out := make(Properties, len(p)+len(base))
	maps.Copy(out, base)
	for k, v := range p {
		b, inBase := base[k]
		switch {
		case inBase && v.Type == PropertyClass && b.Type == PropertyClass:
			merged := v
			merged.members = v.members.Merge(b.members)
			if merged.ClassName == "" {
				merged.ClassName = b.ClassName
			}
			out[k] = merged
		case inBase && v.IsEmpty():
		default:
			out[k] = v
		}
	}
	return out
}

// newProperties converts parsed <property> elements into a Properties bag.
// Properties with a value that does not match their declared type are left
// out and reported through errs.
func newProperties(props []Property) (out Properties, errs []error) {
	if len(props) == 0 {
		return nil, nil
	}
	out = make(Properties, len(props))
	for i := range props {
		prop := &props[i]
		if prop.invalidType != "" {
			errs = append(errs, fmt.Errorf("property %q: %w: type %q", prop.Name, ErrUnsupportedFormat, prop.invalidType))
			continue
		}
		if prop.Type == PropertyClass {
			members, memberErrs := newProperties(prop.Properties)
			errs = append(errs, memberErrs...)
			out[prop.Name] = ClassValue(prop.PropertyType, members)
			continue
		}
		v, err := ParseValue(prop.Type, prop.text())
		if err != nil {
			errs = append(errs, fmt.Errorf("property %q: %w", prop.Name, err))
			continue
		}
		v.ClassName = prop.PropertyType
		out[prop.Name] = v
	}
	return out, errs
}
