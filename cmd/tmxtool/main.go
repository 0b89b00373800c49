// Command tmxtool inspects Tiled maps: summaries, tile and coordinate
// queries, raw dumps and SQLite export.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	verbose := flag.Bool("v", false, "Enable debug logging")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&infoCmd{}, "")
	subcommands.Register(&tilesCmd{}, "")
	subcommands.Register(&coordCmd{}, "")
	subcommands.Register(&dumpCmd{}, "")
	subcommands.Register(&exportCmd{}, "")
	subcommands.Register(&profileCmd{}, "")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	os.Exit(int(subcommands.Execute(context.Background(), logger)))
}

// loggerFrom returns the logger main passes to every command.
func loggerFrom(args []any) *slog.Logger {
	if len(args) > 0 {
		if logger, ok := args[0].(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
