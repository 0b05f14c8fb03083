package mosaic

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/hupe1980/octree"
)

// Tile is one candidate image, scaled to the output cell size, together
// with its average color. Tiles are immutable once constructed.
type Tile struct {
	img  image.Image
	avg  octree.Point3D
	name string
}

// NewTile prepares a tile from a source image: the source is
// center-cropped to the target aspect ratio, scaled to w×h, and its
// average color computed.
func NewTile(src image.Image, w, h int, name string) *Tile {
	scaled := scaleToFill(src, w, h)
	return &Tile{
		img:  scaled,
		avg:  averageColor(scaled, scaled.Bounds()),
		name: name,
	}
}

// newCachedTile wraps an already-scaled image restored from the tile
// cache, skipping the scale and color passes.
func newCachedTile(img image.Image, avg octree.Point3D, name string) *Tile {
	return &Tile{img: img, avg: avg, name: name}
}

// Image returns the scaled tile image.
func (t *Tile) Image() image.Image { return t.img }

// AvgColor returns the tile's average color as an RGB coordinate with
// components in [0, 255]. This is the key under which the tile is indexed.
func (t *Tile) AvgColor() octree.Point3D { return t.avg }

// Name returns the tile's source file name.
func (t *Tile) Name() string { return t.name }

// scaleToFill center-crops src to the w:h aspect ratio and scales the
// crop to exactly w×h.
func scaleToFill(src image.Image, w, h int) *image.RGBA {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	ratio := float64(w) / float64(h)

	cw, ch := sw, sh
	if float64(sh)*ratio > float64(sw) {
		ch = int(float64(sw) / ratio)
	} else {
		cw = int(float64(sh) * ratio)
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	crop := image.Rect(0, 0, cw, ch).
		Add(image.Pt(b.Min.X+(sw-cw)/2, b.Min.Y+(sh-ch)/2))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}

// averageColor returns the mean RGB color over region r of img as a
// Point3D with components in [0, 255].
func averageColor(img image.Image, r image.Rectangle) octree.Point3D {
	r = r.Intersect(img.Bounds())
	var rSum, gSum, bSum, n uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			rSum += uint64(cr >> 8)
			gSum += uint64(cg >> 8)
			bSum += uint64(cb >> 8)
			n++
		}
	}
	if n == 0 {
		return octree.Pt(0, 0, 0)
	}
	return octree.Pt(
		float64(rSum)/float64(n),
		float64(gSum)/float64(n),
		float64(bSum)/float64(n),
	)
}
