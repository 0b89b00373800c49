package tiled

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// build holds the state of one Load. Passes run strictly in order: tilesets,
// layer tree, tile data, objects, references.
type build struct {
	loader *Loader
	cfg    config
	log    *slog.Logger
	path   string
	m      *Map

	templates map[string]*Template
	resolving []string // templates being loaded, innermost last

	reportedTilesets map[*Tileset]bool

	tileLayers   []pendingTileLayer
	objectGroups []pendingObjectGroup
}

type pendingTileLayer struct {
	layer *TileLayer
	data  *TmxData
}

type pendingObjectGroup struct {
	group   *ObjectGroup
	objects []TmxObject
}

func newBuild(l *Loader, cfg config, name string) *build {
	return &build{
		loader:    l,
		cfg:       cfg,
		log:       cfg.logger,
		path:      name,
		templates: make(map[string]*Template),

		reportedTilesets: make(map[*Tileset]bool),
	}
}

func (b *build) run() (*Map, error) {
	var tmx Tmx
	if err := b.loader.readDocument(b.path, "", &tmx); err != nil {
		return nil, &LoadError{Path: b.path, Err: err}
	}

	b.log.Debug("tiled: map parsed", "path", b.path, "tilesets", len(tmx.Tilesets), "layers", len(tmx.Layers))

	b.m = newMap(&tmx, b.path, b.cfg.delegate)
	b.mapAttributes(&tmx)

	if err := b.buildTilesets(&tmx); err != nil {
		return nil, err
	}

	b.m.Layers = b.buildLayers(tmx.Layers, nil, "/map")
	b.decodeTileLayers()

	if err := b.buildObjects(); err != nil {
		return nil, err
	}

	b.resolveReferences()

	b.log.Debug("tiled: map built", "path", b.path, "layers", len(b.m.zorder), "diagnostics", len(b.m.Diagnostics))

	if h, ok := b.cfg.delegate.(MapReadHandler); ok {
		h.MapRead(b.m)
	}
	return b.m, nil
}

// diagnose records a recoverable problem and goes on.
func (b *build) diagnose(path, element string, err error) {
	b.m.Diagnostics = append(b.m.Diagnostics, Diagnostic{Path: path, Element: element, Err: err})
	b.log.Warn("tiled: recoverable load error", "path", path, "element", element, "error", err)
}

func (b *build) diagnoseAll(path, element string, errs []error) {
	for _, err := range errs {
		b.diagnose(path, element, err)
	}
}

// diagnoseTileset reports the problems of an external tileset once per
// build, however many documents reference it.
func (b *build) diagnoseTileset(ts *Tileset) {
	if b.reportedTilesets[ts] {
		return
	}
	b.reportedTilesets[ts] = true
	b.diagnoseAll(ts.Source, "/tileset", ts.problems)
}

func (b *build) mapAttributes(tmx *Tmx) {
	props, errs := newProperties(tmx.Properties)
	b.diagnoseAll(b.path, "/map", errs)
	b.m.Properties = props

	if tmx.BackgroundColor != "" {
		c, err := ParseColor(tmx.BackgroundColor)
		if err != nil {
			b.diagnose(b.path, "/map", err)
		}
		b.m.BackgroundColor = c
	}
}

// ======================================================
// Pass 1: tilesets
// ======================================================

func (b *build) buildTilesets(tmx *Tmx) error {
	added, _ := b.cfg.delegate.(TilesetAddedHandler)

	for i := range tmx.Tilesets {
		ref := &tmx.Tilesets[i]
		element := fmt.Sprintf("/map/tileset[%d]", i+1)

		var ts *Tileset
		if ref.Source != "" {
			loaded, err := b.loader.tileset(b.cfg, resolvePath(b.path, ref.Source), b.path)
			if err != nil {
				return &LoadError{Path: b.path, Element: element, Err: err}
			}
			ts = loaded
			b.diagnoseTileset(ts)
		} else {
			inline := ref.Inline
			if inline == nil {
				inline = &Tsx{}
			}
			var errs []error
			ts, errs = newTileset(inline, "")
			b.diagnoseAll(b.path, element, errs)
		}

		firstGID := ref.FirstGID
		if firstGID == 0 {
			firstGID = 1
			if n := len(b.m.Tilesets); n > 0 {
				firstGID = b.m.Tilesets[n-1].LastGID() + 1
			}
		}

		mt := &MapTileset{FirstGID: firstGID, Tileset: ts}
		b.m.Tilesets = append(b.m.Tilesets, mt)

		if added != nil {
			added.TilesetAdded(b.m, mt)
		}
	}

	b.m.registry = NewRegistry(b.m.Tilesets...)
	return nil
}

// ======================================================
// Pass 2: layer tree
// ======================================================

func (b *build) buildLayers(elements []LayerElement, parent *GroupLayer, prefix string) []Layer {
	added, _ := b.cfg.delegate.(LayerAddedHandler)
	counts := make(map[LayerKind]int)

	var layers []Layer
	for i := range elements {
		el := &elements[i]
		common := el.Common()
		if common == nil {
			continue
		}

		counts[el.Kind]++
		xpath := fmt.Sprintf("%s/%s[%d]", prefix, el.Kind, counts[el.Kind])
		base := b.layerBase(common, parent, xpath)

		var layer Layer
		switch el.Kind {
		case LayerKindTile:
			tl := &TileLayer{LayerBase: base, Width: el.Tile.Width, Height: el.Tile.Height}
			if b.m.Infinite() {
				tl.Storage = StorageChunked
			}
			b.tileLayers = append(b.tileLayers, pendingTileLayer{layer: tl, data: &el.Tile.Data})
			layer = tl

		case LayerKindObject:
			og := &ObjectGroup{LayerBase: base, DrawOrder: el.Objects.DrawOrder}
			if el.Objects.invalidDrawOrder != "" {
				b.diagnose(b.path, xpath, fmt.Errorf("%w: draworder %s", ErrUnsupportedFormat, el.Objects.invalidDrawOrder))
			}
			if el.Objects.Color != "" {
				c, err := ParseColor(el.Objects.Color)
				if err != nil {
					b.diagnose(b.path, xpath, err)
				}
				og.Color = c
			}
			b.objectGroups = append(b.objectGroups, pendingObjectGroup{group: og, objects: el.Objects.Objects})
			layer = og

		case LayerKindImage:
			layer = &ImageLayer{
				LayerBase: base,
				Image:     el.Image.Image,
				RepeatX:   el.Image.RepeatX,
				RepeatY:   el.Image.RepeatY,
			}

		case LayerKindGroup:
			layer = &GroupLayer{LayerBase: base}
		}

		layers = append(layers, layer)
		if added != nil {
			added.LayerAdded(b.m, layer)
		}

		if g, ok := layer.(*GroupLayer); ok {
			g.Layers = b.buildLayers(el.Group.Layers, g, xpath)
		}
	}
	return layers
}

func (b *build) layerBase(c *TmxLayerCommon, parent *GroupLayer, xpath string) LayerBase {
	base := LayerBase{
		ID:       c.ID,
		UUID:     uuid.New(),
		Name:     c.Name,
		Class:    c.Class,
		Opacity:  c.Opacity,
		Offset:   Point{X: c.OffsetX, Y: c.OffsetY},
		Parallax: Point{X: c.ParallaxX, Y: c.ParallaxY},
		Parent:   parent,
		XPath:    xpath,
		flags:    c.Flags,
	}

	if c.TintColor != "" {
		tint, err := ParseColor(c.TintColor)
		if err != nil {
			b.diagnose(b.path, xpath, err)
		}
		base.TintColor = tint
	}

	props, errs := newProperties(c.Properties)
	b.diagnoseAll(b.path, xpath, errs)
	base.Properties = props

	return base
}

// ======================================================
// Pass 3: tile data
// ======================================================

func (b *build) decodeTileLayers() {
	sub, _ := b.cfg.delegate.(GIDSubstituter)

	for _, p := range b.tileLayers {
		l := p.layer
		if err := decodeTileLayer(l, p.data); err != nil {
			b.diagnose(b.path, l.XPath, err)
			l.Data, l.Chunks = nil, nil
			continue
		}

		unresolved := make(map[uint32]int)
		if l.Storage == StorageFlat {
			b.checkCells(l, l.Data, sub, unresolved)
		} else {
			for _, chunk := range l.Chunks {
				b.checkCells(l, chunk.Data, sub, unresolved)
			}
		}

		for _, gid := range slices.Sorted(maps.Keys(unresolved)) {
			b.diagnose(b.path, l.XPath, fmt.Errorf("%d cells: %w", unresolved[gid], &UnresolvedGIDError{GID: gid}))
		}
	}
}

func decodeTileLayer(l *TileLayer, data *TmxData) error {
	if err := data.Supported(); err != nil {
		return err
	}
	if l.Storage == StorageChunked {
		for i := range data.Chunks {
			c := &data.Chunks[i]
			gids, err := c.Decode(data.Encoding, data.Compression)
			if err != nil {
				return fmt.Errorf("chunk %d,%d: %w", c.X, c.Y, err)
			}
			if want := int(c.Width) * int(c.Height); len(gids) != want {
				return fmt.Errorf("%w: chunk %d,%d has %d cells, want %d", ErrCorruptData, c.X, c.Y, len(gids), want)
			}
			l.Chunks = append(l.Chunks, &Chunk{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Data: gids})
		}
		return nil
	}

	gids, err := data.Decode()
	if err != nil {
		return err
	}
	if want := int(l.Width) * int(l.Height); len(gids) != want {
		return fmt.Errorf("%w: layer has %d cells, want %d", ErrCorruptData, len(gids), want)
	}
	l.Data = gids
	return nil
}

// checkCells applies GID substitution and empties cells no tileset owns.
// Unresolved ids are counted so each is reported once per layer.
func (b *build) checkCells(l *TileLayer, cells []uint32, sub GIDSubstituter, unresolved map[uint32]int) {
	for i, gid := range cells {
		if gid == 0 {
			continue
		}
		if sub != nil {
			gid = sub.SubstituteGID(l, gid)
			cells[i] = gid
			if gid == 0 {
				continue
			}
		}
		if _, _, _, err := b.m.registry.Resolve(gid); err != nil {
			unresolved[gid&GIDMask]++
			cells[i] = 0
		}
	}
}

// ======================================================
// Pass 4: objects
// ======================================================

func (b *build) buildObjects() error {
	provider, _ := b.cfg.delegate.(ObjectValueProvider)

	for _, p := range b.objectGroups {
		for i := range p.objects {
			element := fmt.Sprintf("%s/object[%d]", p.group.XPath, i+1)

			o, err := b.buildObject(&p.objects[i], element)
			if err != nil {
				return &LoadError{Path: b.path, Element: element, Err: err}
			}
			o.Group = p.group

			if provider != nil {
				o.Value = provider.ObjectValue(o)
			}
			p.group.Objects = append(p.group.Objects, o)
		}
	}
	return nil
}

func (b *build) buildObject(x *TmxObject, element string) (*Object, error) {
	if !x.IsTemplate() {
		o, errs := newObject(x)
		b.diagnoseAll(b.path, element, errs)
		return o, nil
	}

	tmpl, err := b.template(resolvePath(b.path, x.Template), b.path)
	if err != nil {
		return nil, err
	}

	merged := tmpl.apply(x)
	o, errs := newObject(&merged)
	b.diagnoseAll(b.path, element, errs)

	o.Template = tmpl.Path
	o.Properties = o.Properties.Merge(tmpl.Properties)

	if !x.Fields.Has(ObjectFieldGID) && tmpl.IsTile() {
		b.rebaseTemplateTile(o, tmpl)
	}
	return o, nil
}

// rebaseTemplateTile moves the GID of a tile template, which counts from the
// template's own first GID, onto the map's binding of the same tileset.
func (b *build) rebaseTemplateTile(o *Object, tmpl *Template) {
	local, flip := tmpl.LocalID()
	o.Flip = flip

	if binding := b.m.registry.Binding(tmpl.Tileset); binding != nil {
		o.GID = binding.GID(local)
		return
	}

	// The map does not use the tileset itself: bind it privately so the
	// object still shows its tile.
	if tmpl.Tileset != nil {
		o.Tileset = &MapTileset{FirstGID: tmpl.FirstGID, Tileset: tmpl.Tileset}
		o.GID = o.Tileset.GID(local)
		o.Tile = tmpl.Tileset.Tile(local)
		b.log.Debug("tiled: template tileset not in map", "template", tmpl.Path, "object", o.ID)
	}
}

// template loads the template name once per build. A template whose object
// names another template inherits from it in turn.
func (b *build) template(name, referrer string) (*Template, error) {
	if t, ok := b.templates[name]; ok {
		return t, nil
	}
	if slices.Contains(b.resolving, name) {
		chain := append(slices.Clone(b.resolving), name)
		return nil, fmt.Errorf("%w: %s", ErrCircularReference, strings.Join(chain, " -> "))
	}

	b.resolving = append(b.resolving, name)
	defer func() { b.resolving = b.resolving[:len(b.resolving)-1] }()

	var tx Tx
	if err := b.loader.readDocument(name, referrer, &tx); err != nil {
		return nil, err
	}
	if tx.Object == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTemplate, name)
	}

	t := &Template{Path: name, object: *tx.Object}

	if tx.Tileset != nil {
		t.FirstGID = tx.Tileset.FirstGID
		switch {
		case tx.Tileset.Source != "":
			ts, err := b.loader.tileset(b.cfg, resolvePath(name, tx.Tileset.Source), name)
			if err != nil {
				return nil, err
			}
			b.diagnoseTileset(ts)
			t.Tileset = ts
		case tx.Tileset.Inline != nil:
			ts, errs := newTileset(tx.Tileset.Inline, "")
			b.diagnoseAll(name, "/template/tileset", errs)
			t.Tileset = ts
		}
	}

	props, errs := newProperties(t.object.Properties)
	b.diagnoseAll(name, "/template/object", errs)
	t.Properties = props

	if t.object.IsTemplate() {
		parent, err := b.template(resolvePath(name, t.object.Template), name)
		if err != nil {
			return nil, err
		}
		t.object = parent.apply(&t.object)
		t.Properties = t.Properties.Merge(parent.Properties)
		if !tx.Object.Fields.Has(ObjectFieldGID) {
			t.Tileset, t.FirstGID = parent.Tileset, parent.FirstGID
		}
	}

	b.log.Debug("tiled: template loaded", "path", name)
	b.templates[name] = t
	return t, nil
}

// ======================================================
// Pass 5: references, z-order and index
// ======================================================

func (b *build) resolveReferences() {
	m := b.m

	for _, p := range b.objectGroups {
		for i, o := range p.group.Objects {
			if o.GID == 0 || o.Tileset != nil {
				continue
			}
			ts, local, _, err := m.registry.Resolve(o.GID)
			if err != nil {
				element := fmt.Sprintf("%s/object[%d]", p.group.XPath, i+1)
				b.diagnose(b.path, element, err)
				continue
			}
			o.Tileset = ts
			o.Tile = ts.Tile(local)
		}
	}

	if provider, ok := b.cfg.delegate.(TileAttributeProvider); ok {
		for _, mt := range m.Tilesets {
			for _, id := range mt.TileIDs() {
				td := mt.Tile(id)
				if td.Type == "" {
					continue
				}
				if _, done := m.typeAttrs[td.Type]; done {
					continue
				}
				m.typeAttrs[td.Type] = provider.TileAttributes(td.Type)
			}
		}
	}

	m.zorder = m.zorder[:0]
	walkLayers(m.Layers, func(l Layer) bool {
		l.Base().ZIndex = len(m.zorder)
		m.zorder = append(m.zorder, l)
		return true
	})

	m.index = newQueryIndex(m.zorder)
}
