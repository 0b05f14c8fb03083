// Package tilecache provides an on-disk cache of prepared mosaic tiles.
//
// Scaling a tile and averaging its color is the expensive part of mosaic
// generation, so both results are cached per (source name, width, height):
// the scaled image as a JPEG, plus a single gzip-compressed JSON manifest
// holding the average colors. Cache misses and corrupt entries are treated
// as absent, never as errors.
package tilecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

const manifestName = "colors.json.gz"

// Color is an average tile color with components in [0, 255].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Cache is a tile cache rooted at a directory. It is safe for concurrent
// use.
type Cache struct {
	root string

	mu     sync.Mutex
	colors map[string]Color
	dirty  bool
}

// Open creates or reuses a cache rooted at dir, loading the color
// manifest if one exists. A corrupt or missing manifest starts empty.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	c := &Cache{
		root:   dir,
		colors: make(map[string]Color),
	}
	if err := c.loadManifest(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// Unreadable manifest: rebuild it over time.
		c.colors = make(map[string]Color)
	}

	return c, nil
}

// Get returns the cached scaled image and average color for the given
// source name and tile size. ok is false on any miss: unknown color,
// missing file, or undecodable image.
func (c *Cache) Get(name string, w, h int) (img image.Image, avg Color, ok bool) {
	key := entryKey(name, w, h)

	c.mu.Lock()
	avg, ok = c.colors[key]
	c.mu.Unlock()
	if !ok {
		return nil, Color{}, false
	}

	f, err := os.Open(filepath.Join(c.root, key+".jpg"))
	if err != nil {
		return nil, Color{}, false
	}
	defer f.Close()

	img, _, err = image.Decode(f)
	if err != nil {
		return nil, Color{}, false
	}
	return img, avg, true
}

// Put stores a scaled tile image and its average color.
func (c *Cache) Put(name string, w, h int, img image.Image, avg Color) error {
	key := entryKey(name, w, h)

	f, err := os.Create(filepath.Join(c.root, key+".jpg"))
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		f.Close()
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.mu.Lock()
	c.colors[key] = avg
	c.dirty = true
	c.mu.Unlock()

	return nil
}

// Flush writes the color manifest to disk if it changed since the last
// flush.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	f, err := os.Create(filepath.Join(c.root, manifestName))
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(c.colors); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.dirty = false
	return nil
}

func (c *Cache) loadManifest() error {
	f, err := os.Open(filepath.Join(c.root, manifestName))
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()

	return json.NewDecoder(zr).Decode(&c.colors)
}

// entryKey builds the on-disk name of a cache entry. Path separators in
// the source name are flattened so entries stay inside the cache root.
func entryKey(name string, w, h int) string {
	name = strings.NewReplacer("/", "_", "\\", "_", string(filepath.Separator), "_").Replace(name)
	return fmt.Sprintf("%s_%dx%d", name, w, h)
}
