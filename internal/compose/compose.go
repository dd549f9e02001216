// Package compose renders the tile canvas into an in-memory image.
package compose

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/paulmach/orb"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"tileviewer/internal/camera"
	"tileviewer/internal/tilestore"
)

// Background is the color behind the tiles
var Background = color.RGBA{R: 238, G: 238, B: 238, A: 255}

// Compose clears dst and draws every tile with the view transform applied,
// using bilinear filtering. Tiles entirely outside dst are skipped.
func Compose(dst draw.Image, c *tilestore.Collection, view camera.View) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, &image.Uniform{Background}, image.Point{}, draw.Src)

	screen := orb.Bound{
		Min: orb.Point{float64(bounds.Min.X), float64(bounds.Min.Y)},
		Max: orb.Point{float64(bounds.Max.X), float64(bounds.Max.Y)},
	}

	for _, t := range c.Tiles() {
		if !view.TileRect(t.Placement, t.Size()).Intersects(screen) {
			continue
		}
		xdraw.BiLinear.Transform(dst, tileTransform(view, t.Placement), t.Image, t.Image.Bounds(), xdraw.Over, nil)
	}
}

// tileTransform maps tile pixel coordinates to destination coordinates
func tileTransform(view camera.View, placement image.Point) f64.Aff3 {
	origin := view.WorldToScreen(orb.Point{float64(placement.X), float64(placement.Y)})
	return f64.Aff3{
		view.Scale, 0, origin.X(),
		0, view.Scale, origin.Y(),
	}
}

// Snapshot renders the view into a new RGBA image of the given size
func Snapshot(c *tilestore.Collection, view camera.View, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	Compose(dst, c, view)
	return dst
}
