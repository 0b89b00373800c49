package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/tmxkit/tiled"
)

type infoCmd struct {
	strict bool
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print a summary of a map" }
func (c *infoCmd) Usage() string {
	return "tmxtool info [-strict] <map.tmx>\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "Fail when the map loaded with recoverable errors")
}

func (c *infoCmd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
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

	printInfo(os.Stdout, m)

	if c.strict && len(m.Diagnostics) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printInfo(w io.Writer, m *tiled.Map) {
	fmt.Fprintf(w, "map %s\n", m.Path)
	fmt.Fprintf(w, "  orientation: %s (%s)\n", m.Orientation, m.RenderOrder)
	if m.Orientation == tiled.OrientationStaggered || m.Orientation == tiled.OrientationHexagonal {
		fmt.Fprintf(w, "  stagger: %s %s, hex side %d\n", m.StaggerAxis, m.StaggerIndex, m.HexSideLength)
	}
	fmt.Fprintf(w, "  size: %dx%d tiles of %dx%d", m.Width, m.Height, m.TileWidth, m.TileHeight)
	if m.Infinite() {
		fmt.Fprint(w, ", infinite")
	}
	pw, ph := m.PixelSize()
	fmt.Fprintf(w, ", %gx%g px\n", pw, ph)

	fmt.Fprintf(w, "tilesets (%d)\n", len(m.Tilesets))
	for _, ts := range m.Tilesets {
		source := ts.Source
		if source == "" {
			source = "inline"
		}
		fmt.Fprintf(w, "  %-20s gids %d-%d  %s\n", ts.Name, ts.FirstGID, ts.LastGID(), source)
	}

	layers := m.AllLayers()
	fmt.Fprintf(w, "layers (%d)\n", len(layers))
	for _, l := range layers {
		base := l.Base()
		depth := strings.Count(base.XPath, "/") - 1
		hidden := ""
		if !base.VisibleInTree() {
			hidden = " (hidden)"
		}
		fmt.Fprintf(w, "  %s%-10s %q %s%s\n", strings.Repeat("  ", depth-1), l.Kind(), base.Name, base.XPath, hidden)
	}

	fmt.Fprintf(w, "objects: %d, used gids: %d\n", len(m.Objects()), len(m.UsedGIDs()))

	if len(m.Diagnostics) > 0 {
		fmt.Fprintf(w, "diagnostics (%d)\n", len(m.Diagnostics))
		for _, d := range m.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}
