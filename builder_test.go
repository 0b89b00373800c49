package tiled

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTemplates(t *testing.T) {
	m := loadTestdata(t, "maps/dragons.tmx")
	require.Empty(t, m.Diagnostics)

	t.Run("plain instance", func(t *testing.T) {
		o := m.Object(1)
		require.NotNil(t, o)
		assert.Equal(t, "dragon", o.Name)
		assert.Equal(t, "enemy", o.Type)
		assert.Equal(t, ShapeTile, o.Shape)
		assert.Equal(t, 10.0, o.X)
		assert.Equal(t, 20.0, o.Y)
		assert.Equal(t, 32.0, o.Width)
		assert.Equal(t, "templates/dragon-green.tx", o.Template)

		// Tile 1 of the template's tileset, bound at 601 in this map
		assert.Equal(t, uint32(602), o.GID)
		require.NotNil(t, o.Tileset)
		assert.Equal(t, "dragons", o.Tileset.Name)
		require.NotNil(t, o.Tile)
		assert.Equal(t, "dragon", o.Tile.Type)

		assert.Equal(t, "green", o.Properties.StringOr("t_color", ""))
		assert.Equal(t, 30, o.Properties.IntOr("hp", 0))
	})

	t.Run("overridden properties", func(t *testing.T) {
		o := m.Object(2)
		require.NotNil(t, o)
		assert.Equal(t, "boss", o.Name)
		assert.Equal(t, "purple", o.Properties.StringOr("t_color", ""))
		assert.Equal(t, 30, o.Properties.IntOr("hp", 0))
		assert.Equal(t, uint32(602), o.GID)
	})

	t.Run("nested template", func(t *testing.T) {
		o := m.Object(3)
		require.NotNil(t, o)
		assert.Equal(t, "elder", o.Name)
		assert.Equal(t, "enemy", o.Type)
		assert.Equal(t, 90, o.Properties.IntOr("hp", 0))
		assert.Equal(t, "green", o.Properties.StringOr("t_color", ""))
		assert.Equal(t, uint32(602), o.GID)
		assert.Equal(t, "templates/dragon-elder.tx", o.Template)
	})

	t.Run("overridden gid", func(t *testing.T) {
		o := m.Object(4)
		require.NotNil(t, o)
		assert.Equal(t, uint32(2), o.GID)
		assert.Equal(t, FlipHorizontal, o.Flip)
		require.NotNil(t, o.Tileset)
		assert.Equal(t, "terrain", o.Tileset.Name)
	})

	t.Run("text template", func(t *testing.T) {
		o := m.Object(5)
		require.NotNil(t, o)
		assert.Equal(t, ShapeText, o.Shape)
		require.NotNil(t, o.Text)
		assert.Equal(t, "Welcome", o.Text.Content)
		assert.True(t, o.Text.Wrap)
		assert.Equal(t, Color{R: 0xff, G: 0x20, B: 0x40, A: 0xff}, o.TextColor())
		assert.Equal(t, 64.0, o.Width)
		assert.Equal(t, 100.0, o.Y)
	})
}

func TestBuildTemplateWithPrivateTileset(t *testing.T) {
	m := loadTestdata(t, "maps/private-template.tmx")
	require.Empty(t, m.Diagnostics)
	require.Len(t, m.Tilesets, 1)

	o := m.Object(1)
	require.NotNil(t, o)
	require.NotNil(t, o.Tileset)
	assert.Equal(t, "dragons", o.Tileset.Name)
	assert.Equal(t, uint32(1), o.Tileset.FirstGID)
	assert.Equal(t, uint32(2), o.GID)
	require.NotNil(t, o.Tile)
	assert.Equal(t, "dragon", o.Tile.Type)
}

func TestBuildLayerTree(t *testing.T) {
	m := loadTestdata(t, "maps/nested.tmx")
	require.Empty(t, m.Diagnostics)

	var got []string
	for i, l := range m.AllLayers() {
		assert.Equal(t, i, l.Base().ZIndex)
		got = append(got, fmt.Sprintf("%s %s %s", l.Base().XPath, l.Kind(), l.Base().Name))
	}
	assert.Equal(t, []string{
		"/map/layer[1] layer Ground",
		"/map/group[1] group Characters",
		"/map/group[1]/objectgroup[1] objectgroup Bosses",
		"/map/group[1]/layer[1] layer Monsters",
		"/map/group[2] group HUD",
		"/map/group[2]/layer[1] layer Portraits",
		"/map/group[2]/objectgroup[1] objectgroup Text",
		"/map/imagelayer[1] imagelayer Sky",
	}, got)

	require.Len(t, m.Layers, 4)

	characters, ok := m.LayerNamed("Characters").(*GroupLayer)
	require.True(t, ok)
	require.Len(t, characters.Layers, 2)
	assert.Same(t, characters, characters.Layers[0].Base().Parent)

	bosses := m.LayerAt("/map/group[1]/objectgroup[1]").Base()
	assert.Equal(t, Point{X: 10, Y: 4}, bosses.TotalOffset())

	monsters := m.LayerNamed("Monsters").Base()
	assert.Equal(t, 0.25, monsters.TotalOpacity())
	assert.Equal(t, Point{X: 8, Y: 4}, monsters.TotalOffset())

	portraits := m.LayerNamed("Portraits").Base()
	assert.True(t, portraits.Visible())
	assert.False(t, portraits.VisibleInTree())

	text, ok := m.Layer(7).(*ObjectGroup)
	require.True(t, ok)
	assert.Equal(t, Color{A: 0xa0, R: 0xff}, text.Color)
	assert.Same(t, text, text.Objects[0].Group)

	sky := m.ImageLayers()
	require.Len(t, sky, 1)
	assert.True(t, sky[0].RepeatX)
	assert.False(t, sky[0].RepeatY)
	assert.Equal(t, "sky.png", sky[0].Image.Source)

	var walked []string
	characters.Walk(func(l Layer) bool {
		walked = append(walked, l.Base().Name)
		return true
	})
	assert.Equal(t, []string{"Bosses", "Monsters"}, walked)
}

func TestBuildDiagnostics(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	m := loadTestdata(t, "maps/corrupt.tmx", WithLogger(logger))

	require.Len(t, m.Diagnostics, 7)
	assert.Equal(t, 7, strings.Count(logs.String(), "level=WARN"))
	assert.Error(t, m.Errors())

	byElement := make(map[string][]error)
	for _, d := range m.Diagnostics {
		assert.Equal(t, "maps/corrupt.tmx", d.Path)
		byElement[d.Element] = append(byElement[d.Element], d.Err)
	}

	require.Len(t, byElement["/map"], 3)
	assert.ErrorIs(t, byElement["/map"][1], ErrUnsupportedFormat)
	assert.Contains(t, byElement["/map"][2].Error(), "#zz0000")
	require.Len(t, byElement["/map/layer[1]"], 1)
	assert.ErrorIs(t, byElement["/map/layer[1]"][0], ErrCorruptData)
	require.Len(t, byElement["/map/layer[2]"], 1)
	assert.ErrorIs(t, byElement["/map/layer[2]"][0], ErrUnresolvedGID)
	assert.Contains(t, byElement["/map/layer[2]"][0].Error(), "2 cells")
	require.Len(t, byElement["/map/layer[3]"], 1)
	assert.ErrorIs(t, byElement["/map/layer[3]"][0], ErrCorruptData)
	require.Len(t, byElement["/map/objectgroup[1]/object[1]"], 1)
	assert.ErrorIs(t, byElement["/map/objectgroup[1]/object[1]"][0], ErrUnresolvedGID)

	// The map is still usable
	assert.Equal(t, "Corrupt", m.Properties.StringOr("title", ""))
	assert.False(t, m.Properties.Has("speed"))

	layers := m.TileLayers()
	require.Len(t, layers, 3)
	assert.Empty(t, layers[0].Data)
	assert.Equal(t, []uint32{10, 0, 0, 0}, layers[1].Data)
	assert.Empty(t, layers[2].Data)

	o := m.Object(1)
	require.NotNil(t, o)
	assert.Nil(t, o.Tileset)
	assert.Nil(t, o.Tile)
	assert.Equal(t, uint32(3), o.GID)

	assert.Empty(t, m.TilesWithGID(5))
	assert.Len(t, m.TilesWithGID(10), 1)
}

func TestBuildUnsupportedAttributes(t *testing.T) {
	const doc = `<map orientation="orthogonal" width="2" height="1" tilewidth="16" tileheight="16">
 <tileset firstgid="1" name="t" tilewidth="16" tileheight="16" tilecount="4" columns="2"/>
 <layer id="1" name="good" width="2" height="1">
  <data encoding="csv">1,2</data>
 </layer>
 <layer id="2" name="lz4" width="2" height="1">
  <data encoding="base64" compression="lz4">AQAAAAIAAAA=</data>
 </layer>
 <layer id="3" name="binary" width="2" height="1">
  <data encoding="binary">AQAAAAIAAAA=</data>
 </layer>
 <objectgroup id="4" name="notes" draworder="sideways">
  <object id="1" name="label" width="32" height="16">
   <text halign="middle" valign="bottom">hi</text>
  </object>
 </objectgroup>
</map>`

	m, err := Load(fstest.MapFS{"m.tmx": {Data: []byte(doc)}}, "m.tmx")
	require.NoError(t, err)
	require.Len(t, m.Diagnostics, 4)
	for _, d := range m.Diagnostics {
		assert.ErrorIs(t, d.Err, ErrUnsupportedFormat)
	}

	tests := []struct {
		element string
		detail  string
	}{
		{"/map/layer[2]", "compression lz4"},
		{"/map/layer[3]", "encoding binary"},
		{"/map/objectgroup[1]", "draworder sideways"},
		{"/map/objectgroup[1]/object[1]", "halign middle"},
	}

	got := make(map[string]string)
	for _, d := range m.Diagnostics {
		got[d.Element] = d.Err.Error()
	}
	for _, tt := range tests {
		if !strings.Contains(got[tt.element], tt.detail) {
			t.Errorf("diagnostic for %s = %q, want it to mention %q", tt.element, got[tt.element], tt.detail)
		}
	}

	layers := m.TileLayers()
	require.Len(t, layers, 3)
	assert.Equal(t, []uint32{1, 2}, layers[0].Data)
	assert.Empty(t, layers[1].Data)
	assert.Empty(t, layers[2].Data)

	notes := m.ObjectGroups()[0]
	assert.Equal(t, DrawOrderTopDown, notes.DrawOrder)
	label := m.Object(1)
	require.NotNil(t, label)
	assert.Equal(t, HAlignLeft, label.Text.HAlign)
	assert.Equal(t, "hi", label.Text.Content)
}

func TestBuildTemplateTilesetProblems(t *testing.T) {
	fsys := fstest.MapFS{
		"maps/m.tmx": {Data: []byte(`<map orientation="orthogonal" width="1" height="1" tilewidth="16" tileheight="16">
 <objectgroup id="1" name="things">
  <object id="1" template="../templates/crate.tx" x="0" y="16"/>
  <object id="2" template="../templates/crate.tx" x="16" y="16"/>
 </objectgroup>
</map>`)},
		"templates/crate.tx": {Data: []byte(`<template>
 <tileset firstgid="1" source="../tilesets/props.tsx"/>
 <object name="crate" gid="1" width="16" height="16"/>
</template>`)},
		"tilesets/props.tsx": {Data: []byte(`<tileset name="props" tilewidth="16" tileheight="16" tilecount="2" columns="2">
 <properties><property name="weight" type="int" value="heavy"/></properties>
</tileset>`)},
	}

	m, err := Load(fsys, "maps/m.tmx")
	require.NoError(t, err)

	require.Len(t, m.Diagnostics, 1)
	d := m.Diagnostics[0]
	assert.Equal(t, "tilesets/props.tsx", d.Path)
	assert.Equal(t, "/tileset", d.Element)
	assert.Contains(t, d.Err.Error(), "weight")

	crate := m.Object(2)
	require.NotNil(t, crate)
	require.NotNil(t, crate.Tileset)
	assert.Equal(t, "props", crate.Tileset.Name)
}

func TestBuildInfinite(t *testing.T) {
	m := loadTestdata(t, "maps/infinite.tmx")
	require.Empty(t, m.Diagnostics)
	assert.True(t, m.Infinite())

	assert.Equal(t, TileRegion{MinX: -16, MinY: 0, MaxX: 16, MaxY: 16}, m.Bounds())
	w, h := m.PixelSize()
	assert.Equal(t, 512.0, w)
	assert.Equal(t, 256.0, h)

	ground := m.LayerNamed("ground").(*TileLayer)
	assert.Equal(t, StorageChunked, ground.Storage)
	require.Len(t, ground.Chunks, 2)

	assert.Equal(t, uint32(6), ground.GID(Coordinate{X: -16, Y: 0}))
	assert.Equal(t, uint32(0), ground.GID(Coordinate{X: -15, Y: 0}))
	assert.Equal(t, uint32(1), ground.GID(Coordinate{X: 0, Y: 5}))
	assert.Equal(t, uint32(4), ground.GID(Coordinate{X: 3, Y: 0}))
	assert.Equal(t, uint32(0), ground.GID(Coordinate{X: 16, Y: 0}))

	chunk, local, ok := ground.CoordinateForLayer(Coordinate{X: -3, Y: 7})
	require.True(t, ok)
	assert.Equal(t, Coordinate{X: -16, Y: 0}, chunk.Origin())
	assert.Equal(t, Coordinate{X: 13, Y: 7}, local)
	assert.Equal(t, Coordinate{X: -3, Y: 7}, chunk.Global(local))

	_, _, ok = ground.CoordinateForLayer(Coordinate{X: 0, Y: 16})
	assert.False(t, ok)

	water := m.TilesOfType("water")
	assert.Len(t, water, 128)
	for _, tile := range water {
		assert.Less(t, tile.Coordinate.X, int32(0))
	}

	empty := m.LayerNamed("empty").(*TileLayer)
	assert.Empty(t, empty.Chunks)
	assert.True(t, empty.Bounds().Empty())
}

type recorder struct {
	events []string
}

func (r *recorder) TilesetAdded(_ *Map, ts *MapTileset) {
	r.events = append(r.events, "tileset "+ts.Name)
}

func (r *recorder) LayerAdded(_ *Map, l Layer) {
	r.events = append(r.events, "layer "+l.Base().Name)
}

func (r *recorder) MapRead(*Map) {
	r.events = append(r.events, "read")
}

func (r *recorder) MapRendered(*Map) {
	r.events = append(r.events, "rendered")
}

func (r *recorder) SubstituteGID(_ *TileLayer, gid uint32) uint32 {
	if gid == 6 {
		return 7
	}
	return gid
}

func (r *recorder) ObjectValue(o *Object) any {
	return o.Name + "!"
}

type waterAttributes struct{}

func (waterAttributes) TileAttributes(tileType string) Properties {
	if tileType == "water" {
		return Properties{"slow": BoolValue(true)}
	}
	return nil
}

func TestBuildDelegate(t *testing.T) {
	r := &recorder{}
	m := loadTestdata(t, "maps/nested.tmx", WithDelegate(r))

	m.NotifyRendered()
	m.NotifyRendered()

	assert.Equal(t, []string{
		"tileset terrain",
		"layer Ground",
		"layer Characters",
		"layer Bosses",
		"layer Monsters",
		"layer HUD",
		"layer Portraits",
		"layer Text",
		"layer Sky",
		"read",
		"rendered",
	}, r.events)

	assert.Empty(t, m.TilesWithGID(6))
	assert.Len(t, m.TilesWithGID(7), 4)

	assert.Equal(t, "Dragon!", m.Object(1).Value)
}

func TestBuildTileAttributes(t *testing.T) {
	m := loadTestdata(t, "maps/csv.tmx", WithDelegate(waterAttributes{}))

	slow := m.TilesWithProperty("slow")
	require.NotEmpty(t, slow)
	for _, tile := range slow {
		assert.Equal(t, "water", tile.Type())
		props := tile.Properties()
		assert.True(t, props.BoolOr("slow", false))
		assert.True(t, props.BoolOr("collide", false))
		assert.Equal(t, 3, props.IntOr("depth", 0))
	}
}
