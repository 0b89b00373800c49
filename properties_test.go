package tiled

import (
	"encoding/xml"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseProperties(t *testing.T, doc string) (Properties, []error) {
	t.Helper()
	var holder struct {
		Properties []Property `xml:"properties>property"`
	}
	require.NoError(t, xml.Unmarshal([]byte(doc), &holder))
	return newProperties(holder.Properties)
}

func TestNewProperties(t *testing.T) {
	props, errs := parseProperties(t, `<object>
 <properties>
  <property name="name" value="door"/>
  <property name="count" type="int" value="3"/>
  <property name="speed" type="float" value="1.5"/>
  <property name="open" type="bool" value="true"/>
  <property name="tint" type="color" value="#ff00ff00"/>
  <property name="script" type="file" value="door.lua"/>
  <property name="target" type="object" value="12"/>
  <property name="notes">first line
second line</property>
  <property name="stats" type="class" propertytype="Stats">
   <properties>
    <property name="hp" type="int" value="10"/>
   </properties>
  </property>
 </properties>
</object>`)
	require.Empty(t, errs)

	assert.Equal(t, "door", props.StringOr("name", ""))
	assert.Equal(t, 3, props.IntOr("count", 0))
	assert.Equal(t, 1.5, props.FloatOr("speed", 0))
	assert.True(t, props.BoolOr("open", false))

	tint, ok := props.Color("tint")
	require.True(t, ok)
	assert.Equal(t, Color{A: 0xff, G: 0xff}, tint)

	file, ok := props.File("script")
	require.True(t, ok)
	assert.Equal(t, "door.lua", file)

	target, ok := props.Object("target")
	require.True(t, ok)
	assert.Equal(t, 12, target)

	notes, ok := props.String("notes")
	require.True(t, ok)
	assert.Equal(t, "first line\nsecond line", notes)

	stats, ok := props.Class("stats")
	require.True(t, ok)
	assert.Equal(t, 10, stats.IntOr("hp", 0))
	assert.Equal(t, "Stats", props["stats"].ClassName)

	assert.Equal(t, []string{"count", "name", "notes", "open", "script", "speed", "stats", "target", "tint"}, props.Keys())
}

func TestNewPropertiesErrors(t *testing.T) {
	props, errs := parseProperties(t, `<object>
 <properties>
  <property name="speed" type="float" value="fast"/>
  <property name="pos" type="vector" value="1,2"/>
  <property name="title" value="ok"/>
 </properties>
</object>`)

	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[1], ErrUnsupportedFormat)
	assert.False(t, props.Has("speed"))
	assert.False(t, props.Has("pos"))
	assert.True(t, props.Has("title"))
}

func TestPropertiesAccessorsCheckType(t *testing.T) {
	props := Properties{
		"n":    IntValue(4),
		"s":    StringValue(" 12 "),
		"f":    FloatValue(2.5),
		"bad":  StringValue("nope"),
		"flag": BoolValue(true),
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int from int", props.IntOr("n", -1), 4},
		{"int from numeric string", props.IntOr("s", -1), 12},
		{"int from float", props.IntOr("f", -1), -1},
		{"int from garbage", props.IntOr("bad", -1), -1},
		{"float from int", props.FloatOr("n", -1), 4.0},
		{"bool from int", props.BoolOr("n", false), false},
		{"bool", props.BoolOr("flag", false), true},
		{"missing", props.StringOr("missing", "def"), "def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	var empty Properties
	assert.False(t, empty.Has("n"))
	assert.Equal(t, 7, empty.IntOr("n", 7))
}

func TestPropertiesArrays(t *testing.T) {
	props := Properties{
		"ints":   StringValue(" 0,1,2 ,3,4,5,6,7 ,8,9, 10"),
		"floats": StringValue("0.5, 1.25"),
		"names":  StringValue("a, ,b,"),
		"mixed":  StringValue("1,x"),
	}

	ints, ok := props.IntArray("ints")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ints)

	floats, ok := props.FloatArray("floats")
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 1.25}, floats)

	names, ok := props.StringArray("names")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, names)

	_, ok = props.IntArray("mixed")
	assert.False(t, ok)
}

func TestPropertiesMerge(t *testing.T) {
	base := Properties{
		"color": StringValue("green"),
		"hp":    IntValue(30),
		"stats": ClassValue("Stats", Properties{"str": IntValue(5), "dex": IntValue(3)}),
	}
	override := Properties{
		"color": StringValue("purple"),
		"name":  StringValue(""),
		"hp":    StringValue(""),
		"stats": ClassValue("", Properties{"str": IntValue(9)}),
	}

	merged := override.Merge(base)

	want := Properties{
		"color": StringValue("purple"),
		"name":  StringValue(""),
		"hp":    IntValue(30),
		"stats": ClassValue("Stats", Properties{"str": IntValue(9), "dex": IntValue(3)}),
	}
	if diff := cmp.Diff(want, merged, cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}

	// Inputs are untouched
	assert.Equal(t, "green", base.StringOr("color", ""))
	assert.Len(t, override, 4)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ     PropertyType
		raw     string
		want    string
		wantErr bool
	}{
		{typ: PropertyInt, raw: "", want: "0"},
		{typ: PropertyInt, raw: "-4", want: "-4"},
		{typ: PropertyInt, raw: "4.5", wantErr: true},
		{typ: PropertyFloat, raw: "1e3", want: "1000"},
		{typ: PropertyBool, raw: "", want: "false"},
		{typ: PropertyBool, raw: "yes", wantErr: true},
		{typ: PropertyColor, raw: "#abc", want: "#aabbcc"},
		{typ: PropertyColor, raw: "", want: ""},
		{typ: PropertyObject, raw: "7", want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.raw, func(t *testing.T) {
			v, err := ParseValue(tt.typ, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, v.Type)
			assert.Equal(t, tt.want, v.String())
		})
	}
}
