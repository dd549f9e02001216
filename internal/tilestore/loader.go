package tilestore

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tileviewer/pkg/tiles"
)

// Result is the outcome of a directory load
type Result struct {
	Tiles *Collection

	// Skipped lists entries whose names are not <col>_<row>.png
	Skipped []string

	// Failed maps file names to their decode error
	Failed map[string]error
}

// Loader reads a tile directory into a Collection
type Loader struct {
	Layout tiles.Layout
	Logger zerolog.Logger
}

// NewLoader creates a loader logging through the global logger
func NewLoader(layout tiles.Layout) *Loader {
	return &Loader{
		Layout: layout,
		Logger: log.With().Str("module", "tilestore").Logger(),
	}
}

type entry struct {
	name  string
	coord tiles.TileCoord
}

// Load scans dir, computes placements from the minimum column and row of all
// well-named files, then decodes each file once. Decode failures are recorded
// and loading continues. The returned Result is never nil; err is set only
// when dir itself cannot be read.
func (l *Loader) Load(dir string) (*Result, error) {
	res := &Result{
		Tiles:  NewCollection(),
		Failed: make(map[string]error),
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return res, fmt.Errorf("read tile folder %s: %w", dir, err)
	}

	// parse
	entries := make([]entry, 0, len(dirEntries))
	coords := make([]tiles.TileCoord, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		coord, ok := tiles.ParseFileName(de.Name())
		if !ok {
			res.Skipped = append(res.Skipped, de.Name())
			l.Logger.Debug().Str("file", de.Name()).Msg("Skipping file without tile name")
			continue
		}
		entries = append(entries, entry{name: de.Name(), coord: coord})
		coords = append(coords, coord)
	}

	if len(coords) == 0 {
		l.Logger.Info().Str("dir", dir).Msg("No tiles found")
		return res, nil
	}
	placements := l.Layout.PlaceAll(coords)

	// decode and place
	for _, e := range entries {
		img, err := decodeFile(filepath.Join(dir, e.name))
		if err != nil {
			res.Failed[e.name] = err
			l.Logger.Warn().Err(err).Str("file", e.name).Msg("Tile load error")
			continue
		}
		res.Tiles.Add(&Tile{
			Coord:     e.coord,
			Placement: placements[e.coord],
			Image:     img,
		})
	}

	l.Logger.Info().
		Str("dir", dir).
		Int("loaded", res.Tiles.Len()).
		Int("failed", len(res.Failed)).
		Int("skipped", len(res.Skipped)).
		Msg("Tiles loaded")

	return res, nil
}

// decodeFile reads an image and converts it to RGBA anchored at the origin
func decodeFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}
