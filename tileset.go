package tiled

import (
	"fmt"
	"image"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Tileset is a tileset definition independent of any map. External
// tilesets are shared by every map that references the same file, so a
// Tileset must not be modified after load.
type Tileset struct {
	Source string // canonical path of the TSX file, empty when inline
	Name   string
	Class  string

	TileWidth  int32
	TileHeight int32
	Spacing    int32
	Margin     int32
	TileCount  int32
	Columns    int32

	Image           *Image
	TileOffset      Offset
	ObjectAlignment ObjectAlignment

	Terrains   []Terrain
	WangSets   []WangSet
	Properties Properties

	tiles    map[uint32]*TileData
	problems []error // reported by every map using the tileset
}

// TileData is the per-tile description of a tileset. Every cell showing the
// tile points at the same TileData.
type TileData struct {
	ID          uint32
	Type        string
	Probability float64
	Properties  Properties

	Image     *Image // image collection tilesets only
	Animation []Frame

	// Terrain holds the legacy terrain index of each corner in the order
	// top-left, top-right, bottom-left, bottom-right; -1 means none.
	Terrain [4]int

	// Objects are the collision shapes edited on the tile.
	Objects []*Object
}

// Frame is one step of a tile animation.
type Frame struct {
	TileID   uint32
	Duration time.Duration
}

type Terrain struct {
	Name       string
	Tile       int32
	Properties Properties
}

type WangSet struct {
	Name       string
	Class      string
	Type       string // corner, edge or mixed
	Tile       int32
	Colors     []WangColor
	Tiles      []WangTile
	Properties Properties
}

type WangColor struct {
	Name        string
	Class       string
	Color       Color
	Tile        int32
	Probability float64
	Properties  Properties
}

// WangTile assigns wang colors to the eight corners and edges of a tile,
// clockwise from the top edge. 0 means no color.
type WangTile struct {
	TileID uint32
	WangID [8]uint8
}

// Tile returns the per-tile data of localID, or nil when the tileset
// defines nothing special for it.
func (ts *Tileset) Tile(localID uint32) *TileData {
	return ts.tiles[localID]
}

// TileIDs returns the local ids that carry per-tile data, in ascending order.
func (ts *Tileset) TileIDs() []uint32 {
	ids := make([]uint32, 0, len(ts.tiles))
	for id := range ts.tiles {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len is the number of local ids the tileset spans.
func (ts *Tileset) Len() uint32 {
	n := uint32(max(ts.TileCount, 0))
	for id := range ts.tiles {
		n = max(n, id+1)
	}
	return n
}

// IsCollection reports whether tiles carry their own images instead of
// being cut from one atlas.
func (ts *Tileset) IsCollection() bool {
	return ts.Image == nil
}

// Region returns the rectangle of localID inside the tileset image. For
// image collection tilesets the rectangle covers the tile's own image.
func (ts *Tileset) Region(localID uint32) (image.Rectangle, bool) {
	if td := ts.tiles[localID]; td != nil && td.Image != nil {
		return image.Rect(0, 0, int(td.Image.Width), int(td.Image.Height)), true
	}

	if ts.Image == nil || ts.Columns <= 0 || ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		return image.Rectangle{}, false
	}
	if ts.TileCount > 0 && localID >= uint32(ts.TileCount) {
		return image.Rectangle{}, false
	}

	col := int(localID % uint32(ts.Columns))
	row := int(localID / uint32(ts.Columns))

	x := int(ts.Margin) + col*int(ts.TileWidth+ts.Spacing)
	y := int(ts.Margin) + row*int(ts.TileHeight+ts.Spacing)

	return image.Rect(x, y, x+int(ts.TileWidth), y+int(ts.TileHeight)), true
}

// Anchor returns the normalized point of a tile image that sits on the
// object position of a tile object, taking the map orientation into account
// when the tileset leaves the alignment unspecified.
func (ts *Tileset) Anchor(orientation Orientation) (ax, ay float64) {
	alignment := ts.ObjectAlignment
	if alignment == ObjectAlignmentUnspecified {
		if orientation == OrientationIsometric {
			alignment = ObjectAlignmentBottom
		} else {
			alignment = ObjectAlignmentBottomLeft
		}
	}

	switch alignment {
	case ObjectAlignmentTop:
		return 0.5, 0.0
	case ObjectAlignmentTopRight:
		return 1.0, 0.0
	case ObjectAlignmentRight:
		return 1.0, 0.5
	case ObjectAlignmentBottomRight:
		return 1.0, 1.0
	case ObjectAlignmentBottom:
		return 0.5, 1.0
	case ObjectAlignmentBottomLeft:
		return 0.0, 1.0
	case ObjectAlignmentLeft:
		return 0.0, 0.5
	case ObjectAlignmentCenter:
		return 0.5, 0.5
	default:
		return 0.0, 0.0
	}
}

// AnimationDuration is the length of one full cycle of the tile animation.
func (td *TileData) AnimationDuration() time.Duration {
	var total time.Duration
	for _, f := range td.Animation {
		total += f.Duration
	}
	return total
}

// newTileset converts a parsed <tileset> element. Problems that only affect
// a single property or tile are returned as errs; the tileset is still
// usable.
func newTileset(tsx *Tsx, source string) (ts *Tileset, errs []error) {
	ts = &Tileset{
		Source:          source,
		Name:            tsx.Name,
		Class:           tsx.Class,
		TileWidth:       tsx.TileWidth,
		TileHeight:      tsx.TileHeight,
		Spacing:         tsx.Spacing,
		Margin:          tsx.Margin,
		TileCount:       tsx.TileCount,
		Columns:         tsx.Columns,
		Image:           tsx.Image,
		TileOffset:      tsx.TileOffset,
		ObjectAlignment: tsx.ObjectAlignment,
		tiles:           make(map[uint32]*TileData, len(tsx.Tiles)),
	}

	collect := func(where string, e []error) {
		for _, err := range e {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	var perr []error
	ts.Properties, perr = newProperties(tsx.Properties)
	collect("tileset "+tsx.Name, perr)

	for i := range tsx.TerrainTypes {
		t := &tsx.TerrainTypes[i]
		props, perr := newProperties(t.Properties)
		collect("terrain "+t.Name, perr)
		ts.Terrains = append(ts.Terrains, Terrain{Name: t.Name, Tile: t.Tile, Properties: props})
	}

	for i := range tsx.WangSets {
		ws, werrs := newWangSet(&tsx.WangSets[i])
		collect("wangset "+tsx.WangSets[i].Name, werrs)
		ts.WangSets = append(ts.WangSets, ws)
	}

	for i := range tsx.Tiles {
		t := &tsx.Tiles[i]
		where := "tile " + strconv.FormatUint(uint64(t.ID), 10)

		td := &TileData{
			ID:          t.ID,
			Type:        t.Type,
			Probability: t.Probability,
			Image:       t.Image,
			Terrain:     [4]int{-1, -1, -1, -1},
		}

		td.Properties, perr = newProperties(t.Properties)
		collect(where, perr)

		if t.Terrain != "" {
			corners, err := parseTerrainCorners(t.Terrain)
			if err != nil {
				collect(where, []error{err})
			} else {
				td.Terrain = corners
			}
		}

		for _, f := range t.Animation {
			td.Animation = append(td.Animation, Frame{
				TileID:   f.TileID,
				Duration: time.Duration(f.Duration) * time.Millisecond,
			})
		}

		if t.ObjectGroup != nil {
			for j := range t.ObjectGroup.Objects {
				o, oerrs := newObject(&t.ObjectGroup.Objects[j])
				collect(where, oerrs)
				td.Objects = append(td.Objects, o)
			}
		}

		ts.tiles[t.ID] = td
	}

	ts.problems = errs
	return ts, errs
}

func newWangSet(x *TmxWangSet) (ws WangSet, errs []error) {
	ws = WangSet{
		Name:  x.Name,
		Class: x.Class,
		Type:  x.Type,
		Tile:  x.Tile,
	}

	var perr []error
	ws.Properties, perr = newProperties(x.Properties)
	errs = append(errs, perr...)

	for i := range x.Colors {
		c := &x.Colors[i]
		wc := WangColor{
			Name:        c.Name,
			Class:       c.Class,
			Tile:        c.Tile,
			Probability: c.Probability,
		}
		if c.Color != "" {
			col, err := ParseColor(c.Color)
			if err != nil {
				errs = append(errs, err)
			}
			wc.Color = col
		}
		wc.Properties, perr = newProperties(c.Properties)
		errs = append(errs, perr...)
		ws.Colors = append(ws.Colors, wc)
	}

	for _, t := range x.Tiles {
		id, err := parseWangID(t.WangID)
		if err != nil {
			errs = append(errs, fmt.Errorf("wangtile %d: %w", t.TileID, err))
			continue
		}
		ws.Tiles = append(ws.Tiles, WangTile{TileID: t.TileID, WangID: id})
	}

	return ws, errs
}

// parseTerrainCorners reads the legacy "tl,tr,bl,br" terrain attribute where
// an empty field means no terrain.
func parseTerrainCorners(s string) ([4]int, error) {
	corners := [4]int{-1, -1, -1, -1}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return corners, fmt.Errorf("invalid terrain %q", s)
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return [4]int{-1, -1, -1, -1}, fmt.Errorf("invalid terrain %q: %w", s, err)
		}
		corners[i] = v
	}
	return corners, nil
}

func parseWangID(s string) ([8]uint8, error) {
	var id [8]uint8
	parts := strings.Split(s, ",")
	if len(parts) != len(id) {
		return id, fmt.Errorf("invalid wangid %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return id, fmt.Errorf("invalid wangid %q: %w", s, err)
		}
		id[i] = uint8(v)
	}
	return id, nil
}

// MapTileset binds a Tileset into one map at FirstGID.
type MapTileset struct {
	FirstGID uint32
	*Tileset
}

// GID returns the global id of localID in this map, without flip bits.
func (mt *MapTileset) GID(localID uint32) uint32 {
	return mt.FirstGID + localID
}

// LastGID is the highest global id owned by the tileset.
func (mt *MapTileset) LastGID() uint32 {
	n := mt.Len()
	if n == 0 {
		return mt.FirstGID
	}
	return mt.FirstGID + n - 1
}
