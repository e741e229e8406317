// Package scene aggregates parsed models into shared GPU buffers, frames the
// camera around them and renders them in an opaque and a transparent pass.
//
// A Scene is driven from a single thread: load, append, input and render
// calls must not run concurrently.
package scene

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scene-viewer/internal/engine/camera"
	"github.com/Faultbox/scene-viewer/internal/engine/geometry"
	"github.com/Faultbox/scene-viewer/internal/logger"
)

// Source is the parsing collaborator that turns model files into geometry.
type Source interface {
	// Open replaces any previous parse state with the contents of path.
	Open(path string) ([]geometry.Model, error)
	// Append parses path in addition to what is already loaded and returns only the new models.
	Append(path string) ([]geometry.Model, error)
	// Clear releases all parse state.
	Clear()
}

// Config contains scene configuration options.
type Config struct {
	Width  int
	Height int

	// FovY is the vertical field of view in radians.
	FovY float32

	// Controller tuning, see camera.OrbitController.
	PanScale   float32
	OrbitScale float32
	ZoomStep   float32
	IdleGap    time.Duration

	// Clock returns a monotonic timestamp for pointer input. Defaults to the time since New.
	Clock func() time.Duration
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:      1280,
		Height:     720,
		FovY:       camera.DefaultFovY,
		PanScale:   camera.DefaultPanScale,
		OrbitScale: camera.DefaultOrbitScale,
		ZoomStep:   camera.DefaultZoomStep,
		IdleGap:    camera.DefaultIdleGap,
	}
}

// Scene owns the model list, the packed buffers and the camera.
type Scene struct {
	device Device
	source Source

	camera  *camera.Camera
	control *camera.OrbitController
	clock   func() time.Duration

	width  int
	height int

	// Geometry
	models      []geometry.Model
	layout      geometry.Layout
	opaque      []geometry.DrawRange
	transparent []geometry.DrawRange

	bounds    geometry.Bounds
	hasBounds bool
}

// New creates a scene rendering through device and loading files through source.
func New(device Device, source Source, cfg Config) *Scene {
	cam := camera.New()
	if cfg.FovY > 0 {
		cam.FovY = cfg.FovY
	}

	control := camera.NewOrbitController(cam)
	if cfg.PanScale != 0 {
		control.PanScale = cfg.PanScale
	}
	if cfg.OrbitScale != 0 {
		control.OrbitScale = cfg.OrbitScale
	}
	if cfg.ZoomStep != 0 {
		control.ZoomStep = cfg.ZoomStep
	}
	if cfg.IdleGap > 0 {
		control.IdleGap = cfg.IdleGap
	}

	clock := cfg.Clock
	if clock == nil {
		start := time.Now()
		clock = func() time.Duration { return time.Since(start) }
	}

	s := &Scene{
		device:  device,
		source:  source,
		camera:  cam,
		control: control,
		clock:   clock,
	}
	s.Resize(cfg.Width, cfg.Height)
	return s
}

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.Camera {
	return s.camera
}

// ModelCount returns the number of models in the scene, drawable or not.
func (s *Scene) ModelCount() int {
	return len(s.models)
}

// Layout returns the current packed layout.
func (s *Scene) Layout() geometry.Layout {
	return s.layout
}

// Bounds returns the scene bounding box; ok is false for a scene without vertices.
func (s *Scene) Bounds() (b geometry.Bounds, ok bool) {
	return s.bounds, s.hasBounds
}

// Load parses path and replaces the scene with its models.
func (s *Scene) Load(path string) error {
	models, err := s.source.Open(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.LoadModels(models); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Append parses path and adds its models after the ones already loaded.
func (s *Scene) Append(path string) error {
	models, err := s.source.Append(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.AppendModels(models); err != nil {
		return fmt.Errorf("appending %s: %w", path, err)
	}
	return nil
}

// LoadModels replaces the scene with models, packing them from offset zero.
// On error the previous scene is left untouched unless the upload itself
// failed, in which case the scene is emptied.
func (s *Scene) LoadModels(models []geometry.Model) error {
	layout, err := geometry.Pack(models, 0, geometry.Layout{})
	if err != nil {
		return err
	}

	if err := s.device.Upload(layout.Vertices, layout.Indices, 0, 0); err != nil {
		s.reset()
		return fmt.Errorf("uploading geometry: %w", err)
	}

	s.commit(models, layout)
	logger.Info("scene loaded",
		zap.Int("models", len(models)),
		zap.Uint32("vertices", layout.VertexCount),
		zap.Uint32("indices", layout.IndexCount),
		zap.Int("ranges", len(layout.Ranges)),
	)
	return nil
}

// AppendModels adds models after the existing ones. Only the new suffix is
// packed and uploaded; bounds and framing are recomputed over the whole scene.
func (s *Scene) AppendModels(models []geometry.Model) error {
	start := len(s.models)
	all := make([]geometry.Model, 0, start+len(models))
	all = append(all, s.models...)
	all = append(all, models...)

	layout, err := geometry.Pack(all, start, s.layout)
	if err != nil {
		return err
	}

	fromVertex, fromIndex := layout.Suffix()
	if err := s.device.Upload(layout.Vertices, layout.Indices, fromVertex, fromIndex); err != nil {
		s.reset()
		return fmt.Errorf("uploading geometry: %w", err)
	}

	s.commit(all, layout)
	logger.Info("scene appended",
		zap.Int("new_models", len(models)),
		zap.Int("models", len(all)),
		zap.Int("from_vertex", fromVertex),
		zap.Int("from_index", fromIndex),
		zap.Uint32("vertices", layout.VertexCount),
		zap.Uint32("indices", layout.IndexCount),
	)
	return nil
}

// Clear empties the scene and releases parse state and GPU buffers.
func (s *Scene) Clear() {
	s.source.Clear()
	s.reset()
	logger.Info("scene cleared")
}

// Resize updates the viewport size. Zero sizes, as reported for minimized
// windows, are ignored.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.control.SetViewport(width, height)
}

// Reframe points the camera at the whole scene again.
func (s *Scene) Reframe() {
	b := s.bounds
	if !s.hasBounds {
		b = geometry.Bounds{}
	}

	f, err := camera.Frame(b, s.aspect(), s.camera.FovY)
	if err != nil {
		logger.Warn("framing skipped", zap.Error(err))
		return
	}
	s.camera.Apply(f)
	s.control.Reset()

	logger.Debug("camera framed",
		zap.Float32("distance", f.Distance),
		zap.Float32("near", f.NearDepth),
		zap.Float32("far", f.FarDepth),
	)
}

// Zoom moves the camera along its view axis; positive delta zooms in.
func (s *Scene) Zoom(delta int) {
	s.control.Zoom(delta)
}

// Pan drags the camera with the pointer at (x, y).
func (s *Scene) Pan(x, y int) {
	s.control.Pan(x, y, s.clock())
}

// Orbit rotates the camera around the scene center with the pointer at (x, y).
func (s *Scene) Orbit(x, y int) {
	s.control.Orbit(x, y, s.clock())
}

func (s *Scene) aspect() float32 {
	if s.height == 0 {
		return 1
	}
	return float32(s.width) / float32(s.height)
}

// commit makes a packed layout current and reframes the camera.
func (s *Scene) commit(models []geometry.Model, layout geometry.Layout) {
	s.models = models
	s.layout = layout
	s.opaque, s.transparent = Partition(layout.Ranges)
	s.bounds, s.hasBounds = geometry.ComputeBounds(models)
	s.Reframe()
}

func (s *Scene) reset() {
	s.device.Release()
	s.models = nil
	s.layout = geometry.Layout{}
	s.opaque, s.transparent = nil, nil
	s.bounds, s.hasBounds = geometry.Bounds{}, false
}
