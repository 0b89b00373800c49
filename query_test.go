package tiled

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryTiles(t *testing.T) {
	m := loadTestdata(t, "maps/nested.tmx")

	t.Run("at coordinate", func(t *testing.T) {
		tiles := m.TilesAt(Coordinate{X: 1, Y: 1})
		require.Len(t, tiles, 2)
		assert.Equal(t, "Monsters", tiles[0].Layer.Name)
		assert.Equal(t, uint32(8), tiles[0].ID())
		assert.Equal(t, "Ground", tiles[1].Layer.Name)
		assert.Equal(t, uint32(6), tiles[1].ID())

		assert.Empty(t, m.TilesAt(Coordinate{X: 9, Y: 9}))
	})

	t.Run("with gid", func(t *testing.T) {
		tiles := m.TilesWithGID(8)
		require.Len(t, tiles, 2)
		assert.Equal(t, Coordinate{X: 1, Y: 1}, tiles[0].Coordinate)
		assert.Equal(t, FlipFlag(0), tiles[0].Flip)
		assert.Equal(t, Coordinate{X: 3, Y: 3}, tiles[1].Coordinate)
		assert.Equal(t, FlipHorizontal|FlipDiagonal, tiles[1].Flip)
		assert.Equal(t, uint32(2684354568), tiles[1].GID)
		assert.Equal(t, uint32(8), tiles[1].ID())

		assert.Len(t, m.TilesWithGID(2684354568), 2)
		assert.Empty(t, m.TilesWithGID(2))
	})

	t.Run("of type", func(t *testing.T) {
		tiles := m.TilesOfType("water")
		require.Len(t, tiles, 4)
		for _, tile := range tiles {
			assert.Equal(t, "Ground", tile.Layer.Name)
			assert.Equal(t, uint32(5), tile.LocalID)
			assert.Equal(t, "water", tile.Type())
		}
		assert.Nil(t, m.TilesOfType(""))
		assert.Empty(t, m.TilesOfType("lava"))
	})

	t.Run("with property", func(t *testing.T) {
		tiles := m.TilesWithProperty("collide")
		require.Len(t, tiles, 4)
		assert.Equal(t, 3, tiles[0].Properties().IntOr("depth", 0))
		assert.Empty(t, m.TilesWithProperty("biome"))
	})

	t.Run("used gids", func(t *testing.T) {
		assert.Equal(t, []uint32{1, 6, 8}, m.UsedGIDs())
	})

	t.Run("single cell", func(t *testing.T) {
		ground := m.LayerNamed("Ground").(*TileLayer)

		tile, ok := m.Tile(ground, Coordinate{X: 2, Y: 1})
		require.True(t, ok)
		assert.Equal(t, "terrain", tile.Tileset.Name)
		r, ok := tile.Region()
		require.True(t, ok)
		assert.Equal(t, image.Rect(87, 2, 103, 18), r)

		monsters := m.LayerNamed("Monsters").(*TileLayer)
		_, ok = m.Tile(monsters, Coordinate{X: 0, Y: 0})
		assert.False(t, ok)
	})
}

func TestQueryTilesInRegion(t *testing.T) {
	m := loadTestdata(t, "maps/nested.tmx")

	itr := m.TilesInRegion(TileRegion{MaxX: 4, MaxY: 4})
	require.Equal(t, 3, itr.Len())

	var counts []int
	for itr.HasNext() {
		counts = append(counts, len(itr.Next()))
	}
	// Portraits sits in the hidden HUD group
	assert.Equal(t, []int{16, 2, 0}, counts)
	assert.Nil(t, itr.Next())

	itr = m.TilesInRegion(TileRegion{MinX: 1, MinY: 1, MaxX: 3, MaxY: 2})
	ground := itr.Next()
	require.Len(t, ground, 2)
	assert.Equal(t, Coordinate{X: 1, Y: 1}, ground[0].Coordinate)
	assert.Equal(t, Coordinate{X: 2, Y: 1}, ground[1].Coordinate)
}

func TestQueryTilesInRegionBeyondMap(t *testing.T) {
	m := loadTestdata(t, "maps/nested.tmx")

	itr := m.TilesInRegion(TileRegion{MinX: -2000, MinY: -2000, MaxX: 2000, MaxY: 2000})

	total := 0
	for layer := itr.Next(); layer != nil; layer = itr.Next() {
		total += len(layer)
	}
	assert.Equal(t, 18, total)
	assert.LessOrEqual(t, cap(itr.tiles), 64)

	itr = m.TilesInRegion(TileRegion{MinX: 100, MinY: 100, MaxX: 200, MaxY: 200})
	assert.Equal(t, 3, itr.Len())
	assert.Zero(t, cap(itr.tiles))
	require.NotNil(t, itr.Next())
}

func TestQueryObjects(t *testing.T) {
	m := loadTestdata(t, "maps/nested.tmx")

	var names []string
	for _, o := range m.Objects() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"Dragon", "Title", "Hint"}, names)

	dragon := m.Object(1)
	require.NotNil(t, dragon)
	assert.Equal(t, ShapeRectangle, dragon.Shape)
	assert.Equal(t, "Bosses", dragon.Group.Name)
	assert.Equal(t, Coordinate{X: 1, Y: 1}, m.ObjectCoordinate(dragon))
	assert.Equal(t, []*Object{dragon}, m.ObjectsOfType("boss"))
	assert.Equal(t, []*Object{dragon}, m.ObjectsNamed("Dragon"))

	title := m.ObjectsWithText("Game Over")
	require.Len(t, title, 1)
	assert.Equal(t, int32(2), title[0].ID)
	assert.Equal(t, ShapeText, title[0].Shape)
	assert.True(t, title[0].Text.Bold)
	assert.Equal(t, "serif", title[0].Text.FontFamily)
	assert.Equal(t, HAlignCenter, title[0].Text.HAlign)
	assert.Equal(t, Color{A: 0xff}, title[0].TextColor())
	assert.Len(t, m.ObjectsWithText("  Game Over\n"), 1)
	assert.Empty(t, m.ObjectsWithText("Game"))

	hint := m.Object(3)
	require.NotNil(t, hint)
	assert.Equal(t, ShapePoint, hint.Shape)
	assert.Equal(t, 20.0, hint.Y)

	assert.Nil(t, m.Object(42))
	assert.Empty(t, m.ObjectsOfType("enemy"))
}

func TestQueryLayers(t *testing.T) {
	m := loadTestdata(t, "maps/nested.tmx")

	tests := []struct {
		xpath string
		id    int32
		name  string
		kind  LayerKind
	}{
		{"/map/layer[1]", 1, "Ground", LayerKindTile},
		{"/map/group[1]", 2, "Characters", LayerKindGroup},
		{"/map/group[1]/objectgroup[1]", 3, "Bosses", LayerKindObject},
		{"/map/group[1]/layer[1]", 4, "Monsters", LayerKindTile},
		{"/map/group[2]", 5, "HUD", LayerKindGroup},
		{"/map/group[2]/layer[1]", 6, "Portraits", LayerKindTile},
		{"/map/group[2]/objectgroup[1]", 7, "Text", LayerKindObject},
		{"/map/imagelayer[1]", 8, "Sky", LayerKindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byPath := m.LayerAt(tt.xpath)
			require.NotNil(t, byPath)
			if byPath.Base().Name != tt.name {
				t.Errorf("LayerAt(%q) = %q, want %q", tt.xpath, byPath.Base().Name, tt.name)
			}
			if byPath.Kind() != tt.kind {
				t.Errorf("LayerAt(%q).Kind() = %v, want %v", tt.xpath, byPath.Kind(), tt.kind)
			}
			if got := m.Layer(tt.id); got != byPath {
				t.Errorf("Layer(%d) differs from LayerAt(%q)", tt.id, tt.xpath)
			}
			if got := m.LayerNamed(tt.name); got != byPath {
				t.Errorf("LayerNamed(%q) differs from LayerAt(%q)", tt.name, tt.xpath)
			}
		})
	}

	assert.Nil(t, m.LayerAt("/map/layer[2]"))
	assert.Nil(t, m.Layer(99))
	assert.Nil(t, m.LayerNamed("Nope"))
	assert.Len(t, m.LayersNamed("Ground"), 1)

	assert.Len(t, m.TileLayers(), 3)
	assert.Len(t, m.ObjectGroups(), 2)
	assert.Len(t, m.ImageLayers(), 1)
	assert.Len(t, m.AllLayers(), 8)
}
