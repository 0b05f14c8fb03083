package mosaic

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/hupe1980/octree"
)

// Renderer turns a source image and a loaded tile index into a mosaic.
// Rendering only reads the index.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer.
func NewRenderer(optFns ...func(*Options)) *Renderer {
	return NewRendererFromOptions(applyOptions(optFns))
}

// NewRendererFromOptions is NewRenderer for already-resolved options.
func NewRendererFromOptions(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render crops src to tile-size multiples and replaces every cell with
// the tile whose average color is nearest the cell's, composited at the
// configured transparency. It fails with ErrNoTiles on an empty index.
func (r *Renderer) Render(src image.Image, tree *octree.Octree[*Tile]) (image.Image, error) {
	if err := r.opts.validate(); err != nil {
		return nil, err
	}
	if tree.IsEmpty() {
		return nil, ErrNoTiles
	}

	tw, th := r.opts.TileWidth, r.opts.TileHeight
	b := src.Bounds()
	w := b.Dx() - b.Dx()%tw
	h := b.Dy() - b.Dy()%th
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("mosaic: image %dx%d smaller than tile size %dx%d",
			b.Dx(), b.Dy(), tw, th)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)

	// Tiles are drawn over the original at Transparency percent, so 0
	// keeps the original untouched and 100 shows tiles only.
	mask := image.NewUniform(color.Alpha{A: uint8(r.opts.Transparency * 255 / 100)})

	for y := 0; y < h; y += th {
		for x := 0; x < w; x += tw {
			cell := image.Rect(x, y, x+tw, y+th)
			e, ok := tree.NearestEntry(averageColor(out, cell))
			if !ok {
				return nil, ErrNoTiles
			}
			draw.DrawMask(out, cell, e.Value().Image(), image.Point{}, mask, image.Point{}, draw.Over)
		}
	}
	r.opts.Logger.Info("mosaic rendered",
		"size", fmt.Sprintf("%dx%d", w, h),
		"cells", (w/tw)*(h/th),
		"tiles", tree.Len(),
	)

	return out, nil
}
