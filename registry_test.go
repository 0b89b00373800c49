package tiled

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	var bindings []*MapTileset
	// Deliberately out of order
	for _, first := range []uint32{74, 1, 104, 46, 90} {
		bindings = append(bindings, &MapTileset{
			FirstGID: first,
			Tileset:  &Tileset{Name: fmt.Sprintf("ts%d", first), TileCount: 14, tiles: map[uint32]*TileData{}},
		})
	}
	return NewRegistry(bindings...)
}

func TestRegistryResolve(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		gid       uint32
		wantFirst uint32
		wantLocal uint32
		wantFlags FlipFlag
	}{
		{gid: 1, wantFirst: 1, wantLocal: 0},
		{gid: 45, wantFirst: 1, wantLocal: 44},
		{gid: 46, wantFirst: 46, wantLocal: 0},
		{gid: 79, wantFirst: 74, wantLocal: 5},
		{gid: 130, wantFirst: 104, wantLocal: 26},
		{gid: 0x80000000 | 79, wantFirst: 74, wantLocal: 5, wantFlags: FlipHorizontal},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.gid), func(t *testing.T) {
			ts, local, flags, err := r.Resolve(tt.gid)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, ts.FirstGID)
			assert.Equal(t, tt.wantLocal, local)
			assert.Equal(t, tt.wantFlags, flags)
		})
	}
}

func TestRegistryResolveUnresolved(t *testing.T) {
	r := NewRegistry(&MapTileset{FirstGID: 10, Tileset: &Tileset{TileCount: 4}})

	for _, gid := range []uint32{0, 5, 0x80000000} {
		_, _, _, err := r.Resolve(gid)
		assert.ErrorIs(t, err, ErrUnresolvedGID, "gid %d", gid)

		var unresolved *UnresolvedGIDError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, gid, unresolved.GID)
	}

	_, _, _, err := NewRegistry().Resolve(1)
	assert.ErrorIs(t, err, ErrUnresolvedGID)
}

func TestRegistryBinding(t *testing.T) {
	r := testRegistry()
	tilesets := r.Tilesets()
	require.Len(t, tilesets, 5)
	assert.Equal(t, 5, r.Len())

	for i := 1; i < len(tilesets); i++ {
		assert.Less(t, tilesets[i-1].FirstGID, tilesets[i].FirstGID)
	}

	assert.Same(t, tilesets[2], r.Binding(tilesets[2].Tileset))
	assert.Nil(t, r.Binding(&Tileset{}))
}

func TestRegistryTileData(t *testing.T) {
	water := &TileData{ID: 5, Type: "water"}
	r := NewRegistry(&MapTileset{FirstGID: 1, Tileset: &Tileset{TileCount: 10, tiles: map[uint32]*TileData{5: water}}})

	td, flags, err := r.TileData(0x40000000 | 6)
	require.NoError(t, err)
	assert.Same(t, water, td)
	assert.Equal(t, FlipVertical, flags)

	td, _, err = r.TileData(2)
	require.NoError(t, err)
	assert.Nil(t, td)
}
