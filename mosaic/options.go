package mosaic

import (
	"fmt"
	"log/slog"
	"time"
)

// ProgressFunc receives load-phase progress: done of total candidate
// files handled so far. Calls are throttled; the final call always
// reports done == total.
type ProgressFunc func(done, total int)

// Options configures mosaic generation.
type Options struct {
	// TileWidth and TileHeight are the output cell dimensions in pixels.
	TileWidth  int
	TileHeight int

	// Transparency controls compositing, as a percentage: 0 shows only
	// the original image, 100 only the tiles.
	Transparency int

	// Workers bounds concurrent tile preparation. Zero means GOMAXPROCS.
	Workers int

	// TaskTimeout bounds how long a single tile may take to prepare;
	// tiles that exceed it are skipped. Zero disables the limit.
	TaskTimeout time.Duration

	// CacheDir enables the on-disk tile cache when non-empty.
	CacheDir string

	// OnProgress, when set, receives load-phase progress updates.
	OnProgress ProgressFunc

	// Logger receives structured pipeline logs. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions are the settings used when no option functions override
// them.
var DefaultOptions = Options{
	TileWidth:    32,
	TileHeight:   32,
	Transparency: 80,
	TaskTimeout:  10 * time.Second,
}

func applyOptions(optFns []func(*Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

func (o Options) validate() error {
	if o.TileWidth <= 0 || o.TileHeight <= 0 {
		return fmt.Errorf("mosaic: tile size %dx%d must be positive", o.TileWidth, o.TileHeight)
	}
	if o.Transparency < 0 || o.Transparency > 100 {
		return fmt.Errorf("mosaic: transparency %d%% outside [0, 100]", o.Transparency)
	}
	if o.Workers < 0 {
		return fmt.Errorf("mosaic: workers must not be negative")
	}
	return nil
}
