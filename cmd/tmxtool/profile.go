package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/google/subcommands"
	"github.com/tmxkit/tiled"
	"github.com/tmxkit/tiled/tilemap"
)

type profileCmd struct {
	addr     string
	duration time.Duration
	width    float64
	height   float64
}

func (c *profileCmd) Name() string     { return "profile" }
func (c *profileCmd) Synopsis() string { return "stress the tile view with random frames under pprof" }
func (c *profileCmd) Usage() string {
	return "tmxtool profile [-addr <host:port>] [-d <duration>] <map.tmx>...\n"
}
func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "localhost:6060", "Address of the pprof server")
	f.DurationVar(&c.duration, "d", 5*time.Second, "Time spent on each map")
	f.Float64Var(&c.width, "w", 640, "Frame width in pixels")
	f.Float64Var(&c.height, "h", 480, "Frame height in pixels")
}

func (c *profileCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	logger := loggerFrom(args)
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	maps := make([]*tiled.Map, 0, f.NArg())
	for _, filename := range f.Args() {
		m, err := tiled.LoadFile(filename, tiled.WithLogger(logger))
		if err != nil {
			logger.Error("load failed", "error", err)
			return subcommands.ExitFailure
		}
		maps = append(maps, m)
	}

	go func() {
		logger.Info("profiling server", "url", "http://"+c.addr+"/debug/pprof/")
		logger.Error("profiling server stopped", "error", http.ListenAndServe(c.addr, nil))
	}()

	view := tilemap.NewView(maps[0])
	current := 0
	switched := time.Now()
	frames, tiles := 0, 0

	for ctx.Err() == nil {
		w, h := view.Map().PixelSize()

		// Random frame movement to defeat region caching
		x := rand.Float64() * max(w-c.width, 1)
		y := rand.Float64() * max(h-c.height, 1)
		view.Frame().Set(x, y, x+c.width, y+c.height)

		if err := view.BufferFrame(); err != nil {
			logger.Error("buffer failed", "error", err)
			return subcommands.ExitFailure
		}

		itr := view.Itr()
		for layer := itr.Next(); layer != nil; layer = itr.Next() {
			for _, t := range layer {
				_ = view.TilePosition(t)
				_ = t.Flip.Horizontal()
				tiles++
			}
		}
		frames++

		if time.Since(switched) > c.duration {
			logger.Info("switching map", "path", view.Map().Path, "frames", frames, "tiles", tiles)
			current = (current + 1) % len(maps)
			if err := view.SetMap(maps[current]); err != nil {
				logger.Error("switch failed", "error", err)
				return subcommands.ExitFailure
			}
			switched = time.Now()
			frames, tiles = 0, 0
		}
	}
	return subcommands.ExitSuccess
}
