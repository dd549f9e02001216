package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"tileviewer/internal/camera"
	"tileviewer/pkg/tiles"
)

// FileName is the optional config file looked up in the working directory
const FileName = "config.json"

// Config holds application configuration
type Config struct {
	Window Window `json:"window"`

	// Tile source and placement
	Tiles Tiles `json:"tiles"`

	// Input handling parameters
	Navigation Navigation `json:"navigation"`

	Logging Logging `json:"logging"`
}

// Window contains the initial window parameters
type Window struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Tiles describes where tiles come from and how they are laid out
type Tiles struct {
	// Folder is scanned for <col>_<row>.png files
	Folder string `json:"folder"`

	TileSize int `json:"tile_size"`

	// OffsetCol/OffsetRow shift the initial framing, in tiles
	OffsetCol int `json:"offset_col"`
	OffsetRow int `json:"offset_row"`
}

// Navigation contains zoom parameters
type Navigation struct {
	// ZoomFactor is applied once per wheel notch, must be > 1
	ZoomFactor float64 `json:"zoom_factor"`
}

// Logging contains logger parameters
type Logging struct {
	// Level is a zerolog level name (debug, info, warn, error)
	Level string `json:"level"`

	// Pretty enables the human readable console writer
	Pretty bool `json:"pretty"`
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	layout := tiles.DefaultLayout()
	return &Config{
		Window: Window{
			Title:  "Map Viewer",
			Width:  1280,
			Height: 900,
		},
		Tiles: Tiles{
			Folder:    "data",
			TileSize:  layout.TileSize,
			OffsetCol: layout.OffsetCol,
			OffsetRow: layout.OffsetRow,
		},
		Navigation: Navigation{
			ZoomFactor: camera.DefaultZoomFactor,
		},
		Logging: Logging{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Layout returns the tile layout described by the config
func (c *Config) Layout() tiles.Layout {
	return tiles.Layout{
		TileSize:  c.Tiles.TileSize,
		OffsetCol: c.Tiles.OffsetCol,
		OffsetRow: c.Tiles.OffsetRow,
	}
}

// Validate reports every value the viewer cannot work with
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Tiles.Folder == "" {
		errs = append(errs, errors.New("tiles folder is empty"))
	}
	if c.Tiles.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile size %d must be positive", c.Tiles.TileSize))
	}
	if c.Navigation.ZoomFactor <= 1 {
		errs = append(errs, fmt.Errorf("zoom factor %v must be greater than 1", c.Navigation.ZoomFactor))
	}
	return errors.Join(errs...)
}

// Get returns the global configuration instance. The first call reads
// FileName from the working directory; a missing file leaves the defaults.
func Get() *Config {
	once.Do(func() {
		if _, err := Load(FileName); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Warn().Err(err).Str("file", FileName).Msg("Ignoring config file")
			}
			mu.Lock()
			if instance == nil {
				instance = DefaultConfig()
			}
			mu.Unlock()
		}
	})

	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Load loads configuration from a file, replacing the global instance
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	instance = cfg
	return cfg, nil
}

// decode overlays data on the defaults and validates the result
func decode(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := sonic.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
