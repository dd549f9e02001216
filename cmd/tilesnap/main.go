// Command tilesnap renders the initial view of the configured tile folder to
// a PNG file without opening a window.
package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/rs/zerolog/log"

	"tileviewer/internal/camera"
	"tileviewer/internal/compose"
	"tileviewer/internal/config"
	"tileviewer/internal/logging"
	"tileviewer/internal/tilestore"
)

func main() {
	cfg := config.Get()
	logging.Setup(cfg.Logging)

	output := "snapshot.png"
	if len(os.Args) > 1 {
		output = os.Args[1]
	}

	if err := run(cfg, output); err != nil {
		log.Error().Err(err).Msg("Snapshot failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, output string) error {
	res, err := tilestore.NewLoader(cfg.Layout()).Load(cfg.Tiles.Folder)
	if err != nil {
		log.Warn().Err(err).Msg("Rendering empty canvas")
	}

	img := compose.Snapshot(res.Tiles, camera.DefaultView(), cfg.Window.Width, cfg.Window.Height)

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", output, err)
	}

	log.Info().
		Str("output", output).
		Int("tiles", res.Tiles.Len()).
		Int("failed", len(res.Failed)).
		Msg("Snapshot written")
	return nil
}
