package tiled

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader reads maps, tilesets and templates from a file system. External
// references are resolved relative to the referencing document. A Loader is
// safe for concurrent use; each Load builds an independent Map.
type Loader struct {
	fsys fs.FS
	root string // absolute directory of fsys, empty for arbitrary file systems
	cfg  config
}

// NewLoader returns a loader reading from fsys. Unless WithTilesetCache is
// given, the loader caches external tilesets in a cache of its own.
func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	cfg := defaultConfig().with(opts...)
	if cfg.cache == nil {
		cfg.cache = NewTilesetCache()
	}
	return &Loader{fsys: fsys, cfg: cfg}
}

// NewDirLoader returns a loader reading from the OS directory dir. External
// tilesets go to DefaultTilesetCache unless WithTilesetCache is given.
func NewDirLoader(dir string, opts ...Option) (*Loader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	cfg := defaultConfig()
	cfg.cache = DefaultTilesetCache
	cfg = cfg.with(opts...)

	return &Loader{fsys: os.DirFS(abs), root: abs, cfg: cfg}, nil
}

// Load reads the map document name and builds it. Options given here apply
// to this load only.
func (l *Loader) Load(name string, opts ...Option) (*Map, error) {
	b := newBuild(l, l.cfg.with(opts...), path.Clean(name))
	return b.run()
}

// LoadTileset reads an external TSX document through the loader's cache.
func (l *Loader) LoadTileset(name string) (*Tileset, error) {
	ts, err := l.tileset(l.cfg, path.Clean(name), "")
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return ts, nil
}

// Load reads the map document name from fsys.
func Load(fsys fs.FS, name string, opts ...Option) (*Map, error) {
	return NewLoader(fsys, opts...).Load(name)
}

// LoadFile reads a map from the OS file system. References may leave the
// directory of the map, e.g. "../tilesets/terrain.tsx".
func LoadFile(filename string, opts ...Option) (*Map, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}

	root := filepath.VolumeName(abs) + string(filepath.Separator)
	l, err := NewDirLoader(root, opts...)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}
	return l.Load(filepath.ToSlash(strings.TrimPrefix(abs, root)))
}

// cacheKey turns a path of the loader's file system into a key that is
// unique across loaders sharing a cache.
func (l *Loader) cacheKey(name string) string {
	if l.root == "" {
		return name
	}
	return filepath.Join(l.root, filepath.FromSlash(name))
}

// readDocument reads and unmarshals one XML document.
func (l *Loader) readDocument(name, referrer string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingResourceError{Path: name, Referrer: referrer, Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTmxData, err)
	}
	return nil
}

// tileset returns the external tileset name, parsing it on first use.
func (l *Loader) tileset(cfg config, name, referrer string) (*Tileset, error) {
	ts, loaded, err := cfg.cache.getOrLoad(l.cacheKey(name), func() (*Tileset, error) {
		var tsx Tsx
		if err := l.readDocument(name, referrer, &tsx); err != nil {
			return nil, err
		}
		ts, _ := newTileset(&tsx, name)
		return ts, nil
	})
	if err != nil {
		return nil, err
	}
	if loaded {
		cfg.logger.Debug("tiled: tileset loaded", "path", name, "tiles", ts.Len())
	}
	return ts, nil
}

// resolvePath resolves src, as written in the document referrer, to a path
// of the loader's file system.
func resolvePath(referrer, src string) string {
	src = filepath.ToSlash(src)
	if path.IsAbs(src) {
		return strings.TrimPrefix(path.Clean(src), "/")
	}
	return path.Join(path.Dir(referrer), src)
}
