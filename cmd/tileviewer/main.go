package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"tileviewer/internal/app"
	"tileviewer/internal/config"
	"tileviewer/internal/logging"
)

func main() {
	cfg := config.Get()
	logging.Setup(cfg.Logging)

	log.Info().
		Str("folder", cfg.Tiles.Folder).
		Msg("Map Viewer - controls: mouse drag to pan, mouse wheel to zoom")

	application, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Startup failed")
		os.Exit(1)
	}
	defer application.Cleanup()

	if err := application.Run(); err != nil {
		log.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}
