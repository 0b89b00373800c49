package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/tmxkit/tiled"
)

type tilesCmd struct {
	gid      uint
	tileType string
	property string
	at       string
}

func (c *tilesCmd) Name() string     { return "tiles" }
func (c *tilesCmd) Synopsis() string { return "list placed tiles matching a query" }
func (c *tilesCmd) Usage() string {
	return "tmxtool tiles [-gid <gid> | -type <type> | -property <name> | -at <x,y>] <map.tmx>\n"
}
func (c *tilesCmd) SetFlags(f *flag.FlagSet) {
	f.UintVar(&c.gid, "gid", 0, "Tiles showing this GID")
	f.StringVar(&c.tileType, "type", "", "Tiles of this type")
	f.StringVar(&c.property, "property", "", "Tiles carrying this property")
	f.StringVar(&c.at, "at", "", "Tiles at this tile coordinate, top layer first")
}

func (c *tilesCmd) query(m *tiled.Map) ([]tiled.Tile, error) {
	switch {
	case c.gid != 0:
		return m.TilesWithGID(uint32(c.gid)), nil
	case c.tileType != "":
		return m.TilesOfType(c.tileType), nil
	case c.property != "":
		return m.TilesWithProperty(c.property), nil
	case c.at != "":
		var x, y int32
		if _, err := fmt.Sscanf(c.at, "%d,%d", &x, &y); err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", c.at, err)
		}
		return m.TilesAt(tiled.Coordinate{X: x, Y: y}), nil
	}
	return nil, fmt.Errorf("one of -gid, -type, -property or -at is required")
}

func (c *tilesCmd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	logger := loggerFrom(args)
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := tiled.LoadFile(f.Arg(0), tiled.WithLogger(logger))
	if err != nil {
		logger.Error("load failed", "error", err)
		return subcommands.ExitFailure
	}

	tiles, err := c.query(m)
	if err != nil {
		logger.Error("invalid query", "error", err)
		return subcommands.ExitUsageError
	}

	printTiles(os.Stdout, tiles)
	return subcommands.ExitSuccess
}

func printTiles(w io.Writer, tiles []tiled.Tile) {
	for _, t := range tiles {
		tileset := "?"
		if t.Tileset != nil {
			tileset = t.Tileset.Name
		}
		fmt.Fprintf(w, "%s (%d,%d) gid=%d %s#%d", t.Layer.XPath, t.Coordinate.X, t.Coordinate.Y, t.ID(), tileset, t.LocalID)
		if t.Flip != 0 {
			fmt.Fprintf(w, " flip=%s", t.Flip)
		}
		if tileType := t.Type(); tileType != "" {
			fmt.Fprintf(w, " type=%s", tileType)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d tiles\n", len(tiles))
}
