package tiles

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// TileSize is the edge length in pixels every tile is assumed to have
const TileSize = 256

const pngExt = ".png"

// TileCoord represents a tile's grid position as named on disk
type TileCoord struct {
	Col int
	Row int
}

func (t TileCoord) String() string {
	return fmt.Sprintf("%d_%d", t.Col, t.Row)
}

// FileName returns the on-disk name for the tile
func (t TileCoord) FileName() string {
	return t.String() + pngExt
}

// ParseFileName extracts the grid coordinate from a "<col>_<row>.png" name.
// The extension is matched case-insensitively.
func ParseFileName(name string) (TileCoord, bool) {
	if len(name) <= len(pngExt) || !strings.EqualFold(name[len(name)-len(pngExt):], pngExt) {
		return TileCoord{}, false
	}
	parts := strings.Split(name[:len(name)-len(pngExt)], "_")
	if len(parts) != 2 {
		return TileCoord{}, false
	}

	col, err := strconv.Atoi(parts[0])
	if err != nil {
		return TileCoord{}, false
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return TileCoord{}, false
	}

	return TileCoord{Col: col, Row: row}, true
}

// MinCoord returns the smallest column and the smallest row found in coords.
// They need not belong to the same tile.
func MinCoord(coords []TileCoord) (TileCoord, bool) {
	if len(coords) == 0 {
		return TileCoord{}, false
	}

	lowest := coords[0]
	for _, c := range coords[1:] {
		if c.Col < lowest.Col {
			lowest.Col = c.Col
		}
		if c.Row < lowest.Row {
			lowest.Row = c.Row
		}
	}
	return lowest, true
}

// Layout maps grid coordinates onto the shared canvas
type Layout struct {
	TileSize int

	// Subtracted from the minimum column/row, shifts the initial framing
	OffsetCol int
	OffsetRow int
}

// DefaultLayout returns the layout the viewer ships with
func DefaultLayout() Layout {
	return Layout{
		TileSize:  TileSize,
		OffsetCol: 125,
		OffsetRow: 44,
	}
}

// Place returns the canvas position of c given the collection minimum
func (l Layout) Place(c, lowest TileCoord) image.Point {
	return image.Point{
		X: (c.Col - (lowest.Col + l.OffsetCol)) * l.TileSize,
		Y: (c.Row - (lowest.Row + l.OffsetRow)) * l.TileSize,
	}
}

// PlaceAll computes placements for every coordinate. The result depends only
// on the set of coordinates, not their order.
func (l Layout) PlaceAll(coords []TileCoord) map[TileCoord]image.Point {
	placements := make(map[TileCoord]image.Point, len(coords))
	lowest, ok := MinCoord(coords)
	if !ok {
		return placements
	}
	for _, c := range coords {
		placements[c] = l.Place(c, lowest)
	}
	return placements
}
