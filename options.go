package tiled

import "log/slog"

// Option configures a Loader or a single load.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	delegate any
	cache    *TilesetCache
}

func defaultConfig() config {
	return config{
		logger: slog.New(slog.DiscardHandler),
	}
}

func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger sets the logger used for load progress (Debug) and
// recoverable problems (Warn). Loads are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDelegate installs a value that implements any of the hook interfaces
// in delegate.go. Hooks it does not implement are skipped.
func WithDelegate(delegate any) Option {
	return func(c *config) {
		c.delegate = delegate
	}
}

// WithTilesetCache shares external tilesets through cache instead of the
// loader's default one.
func WithTilesetCache(cache *TilesetCache) Option {
	return func(c *config) {
		if cache != nil {
			c.cache = cache
		}
	}
}
