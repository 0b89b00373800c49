// Package sqlexport writes loaded maps into an SQLite database for offline
// inspection: one row per map, layer, placed tile and object.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package sqlexport

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tmxkit/tiled"
)

const schema = `
	CREATE TABLE maps (
		id INTEGER PRIMARY KEY,
		uuid TEXT,
		path TEXT,
		orientation TEXT,
		width INTEGER,
		height INTEGER,
		tile_width INTEGER,
		tile_height INTEGER,
		infinite INTEGER
	);
	CREATE TABLE layers (
		map_id INTEGER,
		layer_id INTEGER,
		z_index INTEGER,
		xpath TEXT,
		kind TEXT,
		name TEXT,
		visible INTEGER
	);
	CREATE TABLE tiles (
		map_id INTEGER,
		layer_id INTEGER,
		x INTEGER,
		y INTEGER,
		gid INTEGER,
		tileset TEXT,
		local_id INTEGER,
		flip INTEGER
	);
	CREATE TABLE objects (
		map_id INTEGER,
		layer_id INTEGER,
		object_id INTEGER,
		name TEXT,
		type TEXT,
		shape TEXT,
		x REAL,
		y REAL,
		width REAL,
		height REAL,
		gid INTEGER,
		template TEXT
	);
`

// Writer stores maps in an SQLite database. WriteMap may be called from
// several goroutines; writes are serialized.
type Writer struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
}

type writerConfig struct {
	Logger *slog.Logger
}

type WriterOption func(*writerConfig)

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates the database file and its tables.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	return &Writer{db: db, logger: config.Logger}, nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}

// WriteMap stores m in a single transaction and returns its row id.
func (w *Writer) WriteMap(m *tiled.Map) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return 0, err
	}

	id, err := writeMap(tx, m)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("sqlexport: %s: %w", m.Path, err), tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	w.logger.Debug("sqlexport: map written", "path", m.Path, "id", id)
	return id, nil
}

func writeMap(tx *sql.Tx, m *tiled.Map) (int64, error) {
	res, err := tx.Exec(
		"INSERT INTO maps (uuid, path, orientation, width, height, tile_width, tile_height, infinite) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.UUID.String(), m.Path, m.Orientation.String(), m.Width, m.Height, m.TileWidth, m.TileHeight, m.Infinite(),
	)
	if err != nil {
		return 0, err
	}
	mapID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	layerStmt, err := tx.Prepare("INSERT INTO layers (map_id, layer_id, z_index, xpath, kind, name, visible) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer layerStmt.Close()

	for _, l := range m.AllLayers() {
		base := l.Base()
		if _, err := layerStmt.Exec(mapID, base.ID, base.ZIndex, base.XPath, l.Kind().String(), base.Name, base.VisibleInTree()); err != nil {
			return 0, err
		}
	}

	if err := writeTiles(tx, mapID, m); err != nil {
		return 0, err
	}
	if err := writeObjects(tx, mapID, m); err != nil {
		return 0, err
	}
	return mapID, nil
}

func writeTiles(tx *sql.Tx, mapID int64, m *tiled.Map) error {
	stmt, err := tx.Prepare("INSERT INTO tiles (map_id, layer_id, x, y, gid, tileset, local_id, flip) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range m.TileLayers() {
		for c, gid := range l.Cells() {
			t, ok := m.Tile(l, c)
			if !ok {
				continue
			}
			var tileset string
			if t.Tileset != nil {
				tileset = t.Tileset.Name
			}
			if _, err := stmt.Exec(mapID, l.ID, c.X, c.Y, gid&tiled.GIDMask, tileset, t.LocalID, uint32(t.Flip)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeObjects(tx *sql.Tx, mapID int64, m *tiled.Map) error {
	stmt, err := tx.Prepare("INSERT INTO objects (map_id, layer_id, object_id, name, type, shape, x, y, width, height, gid, template) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range m.Objects() {
		var layerID int32
		if o.Group != nil {
			layerID = o.Group.ID
		}
		if _, err := stmt.Exec(mapID, layerID, o.ID, o.Name, o.Type, o.Shape.String(), o.X, o.Y, o.Width, o.Height, o.GID, o.Template); err != nil {
			return err
		}
	}
	return nil
}

// Finalize creates the lookup indexes. Call it once after the last WriteMap.
func (w *Writer) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.logger.Debug("sqlexport: creating indexes")
	_, err := w.db.Exec(`
		CREATE INDEX tile_gid_index ON tiles (map_id, gid);
		CREATE INDEX tile_position_index ON tiles (map_id, layer_id, x, y);
		CREATE INDEX object_name_index ON objects (map_id, name);
	`)
	return err
}
