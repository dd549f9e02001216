package app

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tileviewer/internal/camera"
	"tileviewer/internal/config"
	"tileviewer/internal/renderer"
	"tileviewer/internal/tilestore"
)

type App struct {
	window   *glfw.Window
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	renderer *renderer.Renderer
	camera   *camera.Camera
	pointer  *pointer
	tiles    *tilestore.Collection
	title    string
	log      zerolog.Logger

	// dirty is set by input handlers and cleared after a frame is drawn
	dirty bool
}

func New(cfg *config.Config) (*App, error) {
	runtime.LockOSThread()
	appLog := log.With().Str("module", "app").Logger()

	// Tiles are loaded before the window exists so the first frame is complete
	res, err := tilestore.NewLoader(cfg.Layout()).Load(cfg.Tiles.Folder)
	if err != nil {
		appLog.Error().Err(err).Msg("Tile folder unavailable, starting empty")
	}
	if b, ok := res.Tiles.Bounds(); ok {
		appLog.Info().
			Float64("min_x", b.Min.X()).Float64("min_y", b.Min.Y()).
			Float64("max_x", b.Max.X()).Float64("max_y", b.Max.Y()).
			Msg("Canvas extent")
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("GLFW init failed: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window creation failed: %w", err)
	}

	app := &App{
		window: window,
		tiles:  res.Tiles,
		title:  cfg.Window.Title,
		log:    appLog,
		dirty:  true,
	}

	if err := app.initWebGPU(); err != nil {
		app.Cleanup()
		return nil, err
	}

	winW, winH := window.GetSize()
	app.camera = camera.NewCamera(cfg.Navigation.ZoomFactor, winW, winH)
	app.pointer = newPointer(app.camera)

	fbW, fbH := window.GetFramebufferSize()
	app.renderer, err = renderer.NewRenderer(app.adapter, app.device, app.queue, app.surface, uint32(fbW), uint32(fbH))
	if err != nil {
		app.Cleanup()
		return nil, fmt.Errorf("renderer creation failed: %w", err)
	}

	if err := app.renderer.UploadTiles(app.tiles); err != nil {
		app.Cleanup()
		return nil, err
	}

	app.setupCallbacks()

	return app, nil
}

func (app *App) initWebGPU() error {
	app.instance = wgpu.CreateInstance(&wgpu.InstanceDescriptor{
		Backends: instanceBackend,
	})
	if app.instance == nil {
		return fmt.Errorf("failed to create WebGPU instance")
	}

	app.surface = CreateSurface(app.instance, app.window)
	if app.surface == nil {
		return fmt.Errorf("surface creation failed")
	}

	// Request adapter - try with surface first, then without
	var err error
	app.adapter, err = app.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: app.surface,
		PowerPreference:   wgpu.PowerPreference_HighPerformance,
	})
	if err != nil {
		app.log.Warn().Err(err).Msg("Trying adapter without surface constraint")
		app.adapter, err = app.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			PowerPreference: wgpu.PowerPreference_HighPerformance,
		})
		if err != nil {
			return fmt.Errorf("adapter request failed: %w", err)
		}
	}

	props := app.adapter.GetProperties()
	app.log.Info().Str("gpu", props.Name).Str("driver", props.DriverDescription).Msg("Adapter selected")

	app.device, err = app.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "TileViewerDevice",
	})
	if err != nil {
		return fmt.Errorf("device request failed: %w", err)
	}

	app.queue = app.device.GetQueue()
	return nil
}

func (app *App) setupCallbacks() {
	app.window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		app.camera.SetViewport(width, height)
		app.dirty = true
	})

	app.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		app.renderer.Resize(uint32(width), uint32(height))
		app.dirty = true
	})

	app.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		app.redrawIf(app.pointer.button(action, x, y))
	})

	app.window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		app.redrawIf(app.pointer.move(x, y))
	})

	app.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		x, y := w.GetCursorPos()
		app.redrawIf(app.pointer.scroll(x, y, yoff))
	})
}

func (app *App) redrawIf(changed bool) {
	if changed {
		app.dirty = true
	}
}

// Run processes events until the window is closed, drawing only when the
// view changed.
func (app *App) Run() error {
	for !app.window.ShouldClose() {
		if app.dirty {
			if err := app.renderer.Render(app.camera); err != nil {
				app.log.Error().Err(err).Msg("Render error")
			}
			app.dirty = false
			app.updateTitle()
		}
		glfw.WaitEvents()
	}

	return nil
}

func (app *App) updateTitle() {
	view := app.camera.View()
	visible := app.tiles.Visible(app.camera.Visible())
	app.window.SetTitle(fmt.Sprintf("%s | Zoom: %.0f%% | Tiles: %d/%d", app.title, view.Scale*100, len(visible), app.tiles.Len()))
}

func (app *App) Cleanup() {
	if app.renderer != nil {
		app.renderer.Release()
	}
	if app.queue != nil {
		app.queue.Release()
	}
	if app.device != nil {
		app.device.Release()
	}
	if app.adapter != nil {
		app.adapter.Release()
	}
	if app.surface != nil {
		app.surface.Release()
	}
	if app.instance != nil {
		app.instance.Release()
	}
	if app.window != nil {
		app.window.Destroy()
	}
	glfw.Terminate()
}
