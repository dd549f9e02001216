package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileviewer/pkg/tiles"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data", cfg.Tiles.Folder)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height)
	assert.Equal(t, 1.05, cfg.Navigation.ZoomFactor)
	assert.Equal(t, tiles.DefaultLayout(), cfg.Layout())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"tiles": {"folder": "maps/north", "offset_col": 0},
		"navigation": {"zoom_factor": 1.2}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "maps/north", cfg.Tiles.Folder)
	assert.Equal(t, 0, cfg.Tiles.OffsetCol)
	assert.Equal(t, 44, cfg.Tiles.OffsetRow, "unset fields keep their defaults")
	assert.Equal(t, 256, cfg.Tiles.TileSize)
	assert.Equal(t, 1.2, cfg.Navigation.ZoomFactor)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, `{"navigation": {"zoom_factor": 0.9}}`))
	assert.ErrorContains(t, err, "zoom factor")

	_, err = Load(writeConfig(t, `{"window": {"width": 0}}`))
	assert.ErrorContains(t, err, "window size")

	_, err = Load(writeConfig(t, `{not json`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func resetGlobal(t *testing.T) {
	t.Helper()
	mu.Lock()
	instance = nil
	once = sync.Once{}
	mu.Unlock()
}

func TestGetReadsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"window": {"title": "Atlas"}}`), 0o644))
	chdir(t, dir)
	resetGlobal(t)

	cfg := Get()
	assert.Equal(t, "Atlas", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Same(t, cfg, Get())
}

func TestGetFallsBackToDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	resetGlobal(t)
	assert.Equal(t, DefaultConfig(), Get())

	require.NoError(t, os.WriteFile(FileName, []byte(`{"window": {"width": -1}}`), 0o644))
	resetGlobal(t)
	assert.Equal(t, DefaultConfig(), Get(), "an invalid file is ignored")
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiles.Folder = ""
	cfg.Tiles.TileSize = -1
	cfg.Navigation.ZoomFactor = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "folder")
	assert.ErrorContains(t, err, "tile size")
	assert.ErrorContains(t, err, "zoom factor")
}

// chdir is a Go 1.21-compatible stand-in for testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
