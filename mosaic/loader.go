package mosaic

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/octree"
	"github.com/hupe1980/octree/tilecache"

	// Tile decoder registrations.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Loader prepares candidate tiles from a directory and registers them in
// an octree index keyed by average color.
//
// Preparation (read, decode, crop, scale, average) runs on a bounded
// worker group; every prepared tile is handed to a single collector
// goroutine which alone calls Octree.Put. That collector is the external
// serialization boundary the index's single-writer contract requires.
type Loader struct {
	opts  Options
	cache *tilecache.Cache
}

// NewLoader creates a Loader, opening the tile cache if Options.CacheDir
// is set.
func NewLoader(optFns ...func(*Options)) (*Loader, error) {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return NewLoaderFromOptions(opts)
}

// NewLoaderFromOptions is NewLoader for already-resolved options.
func NewLoaderFromOptions(opts Options) (*Loader, error) {
	l := &Loader{opts: opts}
	if opts.CacheDir != "" {
		cache, err := tilecache.Open(opts.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open tile cache: %w", err)
		}
		l.cache = cache
	}
	return l, nil
}

// Load prepares every image file in dir and puts the successful ones
// into tree. It returns the number of tiles registered. Individual tile
// failures (unreadable, undecodable, out of time) are skipped with a log
// line; only directory access and context cancellation are errors.
func (l *Loader) Load(ctx context.Context, dir string, tree *octree.Octree[*Tile]) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read tile dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && isImageFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	total := len(files)
	l.opts.Logger.Info("loading tiles", "dir", dir, "candidates", total)

	// Progress updates are rate-limited so per-file callbacks stay
	// cheap even for huge tile directories.
	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 1)

	tiles := make(chan *Tile)
	collectDone := make(chan struct{})
	loaded := 0
	go func() {
		defer close(collectDone)
		done := 0
		for tile := range tiles {
			done++
			if tile != nil {
				if _, _, err := tree.Put(tile.AvgColor(), tile); err != nil {
					l.opts.Logger.Warn("tile rejected by index",
						"tile", tile.Name(), "color", tile.AvgColor().String(), "error", err)
				} else {
					loaded++
				}
			}
			if l.opts.OnProgress != nil && (done == total || limiter.Allow()) {
				l.opts.OnProgress(done, total)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())
	for _, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tile := l.prepareBounded(gctx, dir, name)
			select {
			case tiles <- tile:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	err = g.Wait()
	close(tiles)
	<-collectDone

	if err != nil {
		return loaded, err
	}
	if l.cache != nil {
		if err := l.cache.Flush(); err != nil {
			l.opts.Logger.Warn("tile cache flush failed", "error", err)
		}
	}
	l.opts.Logger.Info("tiles loaded", "loaded", loaded, "skipped", total-loaded)

	return loaded, nil
}

// prepareBounded runs prepare on its own goroutine and waits at most
// TaskTimeout for the result. A preparation stuck past the deadline, for
// example in a pathologically slow decode, is skipped; its goroutine is
// abandoned to run out in the background so the worker slot frees up.
func (l *Loader) prepareBounded(ctx context.Context, dir, name string) *Tile {
	if l.opts.TaskTimeout <= 0 {
		return l.prepare(ctx, dir, name)
	}

	tctx, cancel := context.WithTimeout(ctx, l.opts.TaskTimeout)
	out := make(chan *Tile, 1)
	go func() {
		defer cancel()
		out <- l.prepare(tctx, dir, name)
	}()

	select {
	case tile := <-out:
		return tile
	case <-tctx.Done():
		l.opts.Logger.Debug("skipping tile, out of time", "tile", name)
		return nil
	}
}

// prepare builds one tile, consulting the cache first. It returns nil
// when the tile must be skipped.
func (l *Loader) prepare(ctx context.Context, dir, name string) *Tile {
	w, h := l.opts.TileWidth, l.opts.TileHeight

	if l.cache != nil {
		if img, avg, ok := l.cache.Get(name, w, h); ok {
			return newCachedTile(img, octree.Pt(avg.R, avg.G, avg.B), name)
		}
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		l.opts.Logger.Debug("skipping tile", "tile", name, "error", err)
		return nil
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		l.opts.Logger.Debug("skipping undecodable tile", "tile", name, "error", err)
		return nil
	}
	if ctx.Err() != nil {
		l.opts.Logger.Debug("skipping tile, out of time", "tile", name)
		return nil
	}

	tile := NewTile(src, w, h, name)
	if ctx.Err() != nil {
		l.opts.Logger.Debug("skipping tile, out of time", "tile", name)
		return nil
	}

	if l.cache != nil {
		avg := tile.AvgColor()
		err := l.cache.Put(name, w, h, tile.Image(), tilecache.Color{R: avg.X, G: avg.Y, B: avg.Z})
		if err != nil {
			l.opts.Logger.Debug("tile cache write failed", "tile", name, "error", err)
		}
	}

	return tile
}

func (l *Loader) workers() int {
	if l.opts.Workers > 0 {
		return l.opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}
