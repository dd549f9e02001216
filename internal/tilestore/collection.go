package tilestore

import (
	"image"

	"github.com/paulmach/orb"

	"tileviewer/pkg/tiles"
)

// Tile is a decoded image placed on the canvas
type Tile struct {
	Coord     tiles.TileCoord
	Placement image.Point
	Image     *image.RGBA
}

// Size returns the pixel size of the tile image
func (t *Tile) Size() image.Point {
	return t.Image.Bounds().Size()
}

// Bounds returns the canvas area covered by the tile
func (t *Tile) Bounds() orb.Bound {
	size := t.Size()
	return orb.Bound{
		Min: orb.Point{float64(t.Placement.X), float64(t.Placement.Y)},
		Max: orb.Point{float64(t.Placement.X + size.X), float64(t.Placement.Y + size.Y)},
	}
}

// Collection holds loaded tiles keyed by placement
type Collection struct {
	tiles       []*Tile
	byPlacement map[image.Point]int
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{
		byPlacement: make(map[image.Point]int),
	}
}

// Add registers a tile. A tile already at the same placement is replaced.
func (c *Collection) Add(t *Tile) {
	if i, ok := c.byPlacement[t.Placement]; ok {
		c.tiles[i] = t
		return
	}
	c.byPlacement[t.Placement] = len(c.tiles)
	c.tiles = append(c.tiles, t)
}

// Len returns the number of tiles
func (c *Collection) Len() int {
	return len(c.tiles)
}

// Tiles returns the tiles in load order
func (c *Collection) Tiles() []*Tile {
	return c.tiles
}

// At returns the tile placed at p
func (c *Collection) At(p image.Point) (*Tile, bool) {
	i, ok := c.byPlacement[p]
	if !ok {
		return nil, false
	}
	return c.tiles[i], true
}

// Bounds returns the canvas extent of all tiles, false when empty
func (c *Collection) Bounds() (orb.Bound, bool) {
	if len(c.tiles) == 0 {
		return orb.Bound{}, false
	}
	b := c.tiles[0].Bounds()
	for _, t := range c.tiles[1:] {
		b = b.Union(t.Bounds())
	}
	return b, true
}

// Visible returns the tiles intersecting the given canvas region
func (c *Collection) Visible(region orb.Bound) []*Tile {
	visible := make([]*Tile, 0, len(c.tiles))
	for _, t := range c.tiles {
		if t.Bounds().Intersects(region) {
			visible = append(visible, t)
		}
	}
	return visible
}
