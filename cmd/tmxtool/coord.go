package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tmxkit/tiled"
)

type coordCmd struct {
	point  string
	tile   string
	screen bool
}

func (c *coordCmd) Name() string     { return "coord" }
func (c *coordCmd) Synopsis() string { return "convert between pixel and tile coordinates" }
func (c *coordCmd) Usage() string {
	return "tmxtool coord (-point <x,y> | -tile <x,y>) [-screen] <map.tmx>\n"
}
func (c *coordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.point, "point", "", "Pixel position to convert to a tile coordinate")
	f.StringVar(&c.tile, "tile", "", "Tile coordinate to convert to pixel positions")
	f.BoolVar(&c.screen, "screen", false, "Pixel positions use a y-up screen space")
}

func (c *coordCmd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	logger := loggerFrom(args)
	if f.NArg() != 1 || (c.point == "") == (c.tile == "") {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := tiled.LoadFile(f.Arg(0), tiled.WithLogger(logger))
	if err != nil {
		logger.Error("load failed", "error", err)
		return subcommands.ExitFailure
	}

	proj := m.Projection()
	_, mapHeight := m.PixelSize()

	if c.point != "" {
		var p tiled.Point
		if _, err := fmt.Sscanf(c.point, "%g,%g", &p.X, &p.Y); err != nil {
			logger.Error("invalid point", "point", c.point, "error", err)
			return subcommands.ExitUsageError
		}
		if c.screen {
			p = proj.PointForScreen(p, mapHeight)
		}
		coord := proj.CoordinateForPoint(p)
		fmt.Fprintf(os.Stdout, "tile %d,%d\n", coord.X, coord.Y)
		return subcommands.ExitSuccess
	}

	var coord tiled.Coordinate
	if _, err := fmt.Sscanf(c.tile, "%d,%d", &coord.X, &coord.Y); err != nil {
		logger.Error("invalid tile coordinate", "tile", c.tile, "error", err)
		return subcommands.ExitUsageError
	}
	origin, center := proj.PixelForCoordinate(coord), proj.PointForCoordinate(coord)
	if c.screen {
		origin, center = proj.ScreenForPoint(origin, mapHeight), proj.ScreenForPoint(center, mapHeight)
	}
	fmt.Fprintf(os.Stdout, "origin %g,%g\ncenter %g,%g\n", origin.X, origin.Y, center.X, center.Y)
	return subcommands.ExitSuccess
}
