package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scene-viewer/internal/config"
	"github.com/Faultbox/scene-viewer/internal/engine/capture"
	"github.com/Faultbox/scene-viewer/internal/engine/gpu"
	"github.com/Faultbox/scene-viewer/internal/engine/input"
	"github.com/Faultbox/scene-viewer/internal/engine/scene"
	"github.com/Faultbox/scene-viewer/internal/engine/window"
	"github.com/Faultbox/scene-viewer/internal/loader"
	"github.com/Faultbox/scene-viewer/internal/logger"
	"github.com/Faultbox/scene-viewer/internal/watch"
)

const appTitle = "Scene Viewer"

// openRequest is a file chosen in a dialog, delivered to the main thread.
type openRequest struct {
	path   string
	extend bool
}

// App owns the window, the scene and the file watcher.
type App struct {
	cfg *config.Config

	win    *window.Window
	device *gpu.Device
	input  *input.Input

	scene   *scene.Scene
	watcher *watch.Watcher
	capture *capture.Capture

	// screenshot is set by F12 and taken after the next frame is drawn
	screenshot bool

	// files are the model files in the scene, in load order
	files []string

	// now is the timestamp of the event being handled
	now time.Duration

	requests   chan openRequest
	chooseFile func(title string) (string, error)

	running bool
}

// New creates the window, the GPU device and an empty scene.
func New(cfg *config.Config) (*App, error) {
	win, err := window.New(window.Config{
		Title:      appTitle,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	bg := cfg.Viewer.Background
	device, err := gpu.New(mgl32.Vec3{bg.R, bg.G, bg.B})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("creating GPU device: %w", err)
	}

	var watcher *watch.Watcher
	if cfg.Viewer.Watch {
		watcher, err = watch.New()
		if err != nil {
			// reloading is a convenience; the viewer works without it
			logger.Warn("file watching disabled", zap.Error(err))
			watcher = nil
		}
	}

	a := newApp(cfg, device, loader.NewGLTFSource(), watcher)
	a.win = win
	a.device = device
	a.input = input.New()

	a.resize(win.GetSize())
	return a, nil
}

// newApp wires a scene to its collaborators without touching the window system.
func newApp(cfg *config.Config, device scene.Device, source scene.Source, watcher *watch.Watcher) *App {
	a := &App{
		cfg:        cfg,
		watcher:    watcher,
		capture:    capture.New(cfg.Viewer.ScreenshotDir, "scene"),
		requests:   make(chan openRequest, 4),
		chooseFile: chooseModelFile,
		running:    true,
	}

	a.scene = scene.New(device, source, scene.Config{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		FovY:       mgl32.DegToRad(cfg.Camera.FovDegrees),
		PanScale:   cfg.Camera.PanScale,
		OrbitScale: cfg.Camera.OrbitScale,
		ZoomStep:   cfg.Camera.ZoomStep,
		IdleGap:    cfg.Camera.IdleGap,
		Clock:      func() time.Duration { return a.now },
	})
	return a
}

// Close releases everything the app created.
func (a *App) Close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("closing file watcher", zap.Error(err))
		}
	}
	if a.device != nil {
		a.device.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}

// Run processes events and renders until the user quits.
func (a *App) Run() {
	logger.Info("entering main loop")

	for a.running {
		a.input.Update()
		for _, e := range a.input.Events() {
			a.handleEvent(e)
		}

		a.drainRequests()
		a.reloadChanged()

		a.scene.RenderFrame()
		if a.screenshot {
			a.saveScreenshot()
		}
		a.win.SwapBuffers()
	}
}

// saveScreenshot writes the frame just rendered to a PNG file.
func (a *App) saveScreenshot() {
	a.screenshot = false

	width, height := a.win.DrawableSize()
	path, err := a.capture.SavePixels(a.device.ReadPixels(width, height), width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// OpenAll loads the first path and appends the rest.
func (a *App) OpenAll(paths []string) {
	for i, path := range paths {
		a.open(path, i > 0)
	}
}

func (a *App) handleEvent(e input.Event) {
	a.now = e.Time

	switch e.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		a.resize(e.Width, e.Height)

	case input.EventKeyDown:
		a.handleKey(e.Key)

	case input.EventMouseWheel:
		a.scene.Zoom(e.Wheel)

	case input.EventMouseDrag:
		switch e.Drag {
		case input.DragOrbit:
			a.scene.Orbit(e.MouseX, e.MouseY)
		case input.DragPan:
			a.scene.Pan(e.MouseX, e.MouseY)
		}

	case input.EventFileDrop:
		a.open(e.Path, e.Shift)
	}
}

func (a *App) handleKey(key sdl.Keycode) {
	switch key {
	case sdl.K_ESCAPE:
		a.running = false
	case sdl.K_o:
		a.ask("Open Model", false)
	case sdl.K_a:
		a.ask("Append Model", true)
	case sdl.K_c:
		a.clear()
	case sdl.K_r:
		a.scene.Reframe()
	case sdl.K_F12:
		a.screenshot = true
	}
}

func (a *App) resize(width, height int) {
	a.scene.Resize(width, height)
	if a.device != nil && a.win != nil {
		a.device.SetViewport(a.win.DrawableSize())
	}
}

// ask shows a file dialog off the main thread; the choice is picked up by drainRequests.
func (a *App) ask(title string, extend bool) {
	go func() {
		path, err := a.chooseFile(title)
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Error("file dialog failed", zap.Error(err))
			}
			return
		}
		a.requests <- openRequest{path: path, extend: extend}
	}()
}

func (a *App) drainRequests() {
	for {
		select {
		case r := <-a.requests:
			a.open(r.path, r.extend)
		default:
			return
		}
	}
}

// open loads path, or appends it to the scene when extend is set and the
// scene already holds files. Failures are logged and leave the scene as it was.
func (a *App) open(path string, extend bool) {
	start := time.Now()
	extend = extend && len(a.files) > 0

	var err error
	if extend {
		err = a.scene.Append(path)
	} else {
		err = a.scene.Load(path)
	}
	if err != nil {
		logger.Error("failed to open model", zap.String("path", path), zap.Bool("append", extend), zap.Error(err))
		return
	}

	if extend {
		a.files = append(a.files, path)
	} else {
		a.files = []string{path}
		if a.watcher != nil {
			a.watcher.Reset()
		}
	}
	a.watch(path)
	a.updateTitle()

	logger.Info("model opened",
		zap.String("path", path),
		zap.Bool("append", extend),
		zap.Int("files", len(a.files)),
		zap.Int("models", a.scene.ModelCount()),
		zap.Duration("took", time.Since(start)),
	)
}

func (a *App) watch(path string) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Add(path); err != nil {
		logger.Warn("cannot watch model", zap.String("path", path), zap.Error(err))
	}
}

func (a *App) clear() {
	a.scene.Clear()
	a.files = nil
	if a.watcher != nil {
		a.watcher.Reset()
	}
	a.updateTitle()
}

// reloadChanged rebuilds the scene when a watched file changed on disk.
func (a *App) reloadChanged() {
	if a.watcher == nil {
		return
	}
	changed := a.watcher.Poll()
	if len(changed) == 0 {
		return
	}
	logger.Info("model files changed", zap.Strings("paths", changed))
	a.reload()
}

// reload rebuilds the scene from its files: the first that parses is loaded,
// the rest appended. Files that fail stay watched so a later fix reloads them.
func (a *App) reload() {
	a.scene.Clear()

	loaded := 0
	for _, path := range a.files {
		var err error
		if loaded == 0 {
			err = a.scene.Load(path)
		} else {
			err = a.scene.Append(path)
		}
		if err != nil {
			logger.Error("failed to reload model", zap.String("path", path), zap.Error(err))
			continue
		}
		loaded++
	}

	logger.Info("scene reloaded",
		zap.Int("files", len(a.files)),
		zap.Int("loaded", loaded),
		zap.Int("models", a.scene.ModelCount()),
	)
}

func (a *App) updateTitle() {
	if a.win == nil {
		return
	}
	a.win.SetTitle(windowTitle(a.files))
}

func windowTitle(files []string) string {
	switch len(files) {
	case 0:
		return appTitle
	case 1:
		return fmt.Sprintf("%s - %s", appTitle, filepath.Base(files[0]))
	default:
		return fmt.Sprintf("%s - %s (+%d)", appTitle, filepath.Base(files[0]), len(files)-1)
	}
}

func chooseModelFile(title string) (string, error) {
	return dialog.File().
		Filter("glTF Models", "gltf", "glb").
		Filter("All Files", "*").
		Title(title).
		Load()
}
