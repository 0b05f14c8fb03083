// Package mosaic builds photomosaics on top of the octree index.
//
// Generation runs in two phases against one index instance, matching the
// index's concurrency contract: a load phase in which candidate tiles are
// prepared concurrently but funneled through a single collector goroutine
// into Octree.Put, then a read-only render phase in which every output
// cell queries the nearest tile by average color.
package mosaic

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/octree"
)

// ErrNoTiles is returned when no usable tile could be prepared from the
// tile directory; a mosaic cannot be rendered from an empty index.
var ErrNoTiles = errors.New("mosaic: no usable tiles")

// Generate creates a photomosaic of the image at imagePath using the
// images in tileDir as tiles, writing the JPEG result to outPath.
func Generate(ctx context.Context, imagePath, tileDir, outPath string, optFns ...func(*Options)) error {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return err
	}

	loader, err := NewLoaderFromOptions(opts)
	if err != nil {
		return err
	}
	renderer := NewRendererFromOptions(opts)

	tree, err := octree.New[*Tile](octree.WithBounds[*Tile](0, 255))
	if err != nil {
		return err
	}

	// Decode the source image while tiles load, as independent group
	// members; the tile index itself stays single-writer inside Load.
	var src image.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src, err = decodeFile(imagePath)
		return err
	})
	g.Go(func() error {
		_, err := loader.Load(gctx, tileDir, tree)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	out, err := renderer.Render(src, tree)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := jpeg.Encode(f, out, &jpeg.Options{Quality: 90}); err != nil {
		f.Close()
		return fmt.Errorf("encode output: %w", err)
	}
	return f.Close()
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
