package main

import (
	"context"
	"flag"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/subcommands"
	"github.com/tmxkit/tiled"
)

type dumpCmd struct {
	layer  string
	object int
	depth  int
}

func (c *dumpCmd) Name() string     { return "dump" }
func (c *dumpCmd) Synopsis() string { return "dump a layer or object with all its fields" }
func (c *dumpCmd) Usage() string {
	return "tmxtool dump (-layer <xpath> | -object <id>) [-depth <n>] <map.tmx>\n"
}
func (c *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.layer, "layer", "", "XPath of the layer, e.g. /map/group[1]/layer[2]")
	f.IntVar(&c.object, "object", 0, "Object id")
	f.IntVar(&c.depth, "depth", 3, "Maximum nesting depth")
}

func (c *dumpCmd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	logger := loggerFrom(args)
	if f.NArg() != 1 || (c.layer == "") == (c.object == 0) {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := tiled.LoadFile(f.Arg(0), tiled.WithLogger(logger))
	if err != nil {
		logger.Error("load failed", "error", err)
		return subcommands.ExitFailure
	}

	var v any
	if c.layer != "" {
		l := m.LayerAt(c.layer)
		if l == nil {
			logger.Error("no such layer", "xpath", c.layer)
			return subcommands.ExitFailure
		}
		v = l
	} else {
		o := m.Object(int32(c.object))
		if o == nil {
			logger.Error("no such object", "id", c.object)
			return subcommands.ExitFailure
		}
		v = o
	}

	cfg := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                c.depth,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	cfg.Fdump(os.Stdout, v)
	return subcommands.ExitSuccess
}
