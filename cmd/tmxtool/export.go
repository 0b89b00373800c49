package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"github.com/tmxkit/tiled"
	"github.com/tmxkit/tiled/internal/sqlexport"
	"golang.org/x/sync/errgroup"
)

type exportCmd struct {
	outputPath string
	jobs       int
}

func (c *exportCmd) Name() string     { return "export" }
func (c *exportCmd) Synopsis() string { return "export maps into an SQLite database" }
func (c *exportCmd) Usage() string {
	return "tmxtool export -o <path> [-j <jobs>] <map.tmx>...\n"
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputPath, "o", "", "Output database file path")
	f.IntVar(&c.jobs, "j", runtime.GOMAXPROCS(0), "Maps loaded in parallel")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	logger := loggerFrom(args)
	if c.outputPath == "" || f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	writer, err := sqlexport.NewWriter(c.outputPath, sqlexport.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create database", "path", c.outputPath, "error", err)
		return subcommands.ExitFailure
	}
	defer writer.Close()

	bar := progressbar.NewOptions(f.NArg(), progressbar.OptionShowCount(), progressbar.OptionSetDescription("exporting"))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.jobs, 1))

	for _, filename := range f.Args() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer bar.Add(1)

			// Maps sharing tilesets parse each one once through the default cache.
			m, err := tiled.LoadFile(filename, tiled.WithLogger(logger))
			if err != nil {
				return err
			}
			if _, err := writer.WriteMap(m); err != nil {
				return err
			}
			if n := len(m.Diagnostics); n > 0 {
				logger.Warn("map exported with recoverable errors", "path", filename, "count", n)
			}
			return nil
		})
	}

	err = g.Wait()
	bar.Finish()
	fmt.Println()

	if err != nil {
		logger.Error("export failed", "error", err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		logger.Error("failed to finalize database", "error", err)
		return subcommands.ExitFailure
	}

	logger.Info("export done", "maps", f.NArg(), "tilesets", tiled.DefaultTilesetCache.Len())
	return subcommands.ExitSuccess
}
