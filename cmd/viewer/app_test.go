package main

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scene-viewer/internal/config"
	"github.com/Faultbox/scene-viewer/internal/engine/geometry"
	"github.com/Faultbox/scene-viewer/internal/engine/input"
)

type nopDevice struct{}

func (nopDevice) Upload([]float32, []uint32, int, int) error { return nil }
func (nopDevice) Release()                                   {}
func (nopDevice) Clear()                                     {}
func (nopDevice) BindProgram()                               {}
func (nopDevice) UnbindProgram()                             {}
func (nopDevice) BindGeometry()                              {}
func (nopDevice) UnbindGeometry()                            {}
func (nopDevice) SetUniformMat4(string, mgl32.Mat4)          {}
func (nopDevice) SetUniform3f(string, mgl32.Vec3)            {}
func (nopDevice) SetUniform1f(string, float32)               {}
func (nopDevice) SetBlending(bool)                           {}
func (nopDevice) DrawTriangles(int, int)                     {}

// mapSource serves one triangle per known path and records calls.
type mapSource struct {
	broken map[string]bool
	calls  []string
}

func (s *mapSource) Open(path string) ([]geometry.Model, error) {
	s.calls = append(s.calls, "open "+path)
	return s.models(path)
}

func (s *mapSource) Append(path string) ([]geometry.Model, error) {
	s.calls = append(s.calls, "append "+path)
	return s.models(path)
}

func (s *mapSource) Clear() {}

func (s *mapSource) models(path string) ([]geometry.Model, error) {
	if s.broken[path] {
		return nil, errors.New("parse error")
	}
	return []geometry.Model{{
		ID:       1,
		Vertices: []float32{0, 0, 0, 0, -1, 0, 1, 0, 0, 0, -1, 0, 0, 0, 1, 0, -1, 0},
		Indices:  []uint32{0, 2, 1},
		Ranges:   []geometry.MaterialRange{{Material: geometry.Material{Transparency: 1}, IndexCount: 3}},
	}}, nil
}

func newTestApp() (*App, *mapSource) {
	src := &mapSource{broken: make(map[string]bool)}
	return newApp(config.Default(), nopDevice{}, src, nil), src
}

func TestOpenAllLoadsFirstAppendsRest(t *testing.T) {
	a, src := newTestApp()

	a.OpenAll([]string{"a.glb", "b.glb", "c.glb"})

	assert.Equal(t, []string{"open a.glb", "append b.glb", "append c.glb"}, src.calls)
	assert.Equal(t, []string{"a.glb", "b.glb", "c.glb"}, a.files)
	assert.Equal(t, 3, a.scene.ModelCount())
}

func TestFileDrop(t *testing.T) {
	a, src := newTestApp()

	a.handleEvent(input.Event{Type: input.EventFileDrop, Path: "a.glb", Shift: true})
	a.handleEvent(input.Event{Type: input.EventFileDrop, Path: "b.glb", Shift: true})
	a.handleEvent(input.Event{Type: input.EventFileDrop, Path: "c.glb"})

	// shift-drop on an empty scene loads
	assert.Equal(t, []string{"open a.glb", "append b.glb", "open c.glb"}, src.calls)
	assert.Equal(t, []string{"c.glb"}, a.files)
	assert.Equal(t, 1, a.scene.ModelCount())
}

func TestFailedOpenKeepsScene(t *testing.T) {
	a, src := newTestApp()
	src.broken["bad.glb"] = true

	a.OpenAll([]string{"a.glb"})
	a.open("bad.glb", false)
	a.open("bad.glb", true)

	assert.Equal(t, []string{"a.glb"}, a.files)
	assert.Equal(t, 1, a.scene.ModelCount())
}

func TestKeys(t *testing.T) {
	a, _ := newTestApp()
	a.OpenAll([]string{"a.glb"})

	a.handleEvent(input.Event{Type: input.EventKeyDown, Key: sdl.K_c})
	assert.Zero(t, a.scene.ModelCount())
	assert.Empty(t, a.files)

	a.handleEvent(input.Event{Type: input.EventKeyDown, Key: sdl.K_F12})
	assert.True(t, a.screenshot)

	assert.True(t, a.running)
	a.handleEvent(input.Event{Type: input.EventKeyDown, Key: sdl.K_ESCAPE})
	assert.False(t, a.running)
}

func TestDialogChoiceIsOpenedOnDrain(t *testing.T) {
	a, src := newTestApp()
	a.chooseFile = func(string) (string, error) { return "picked.glb", nil }

	a.handleEvent(input.Event{Type: input.EventKeyDown, Key: sdl.K_o})

	require.Eventually(t, func() bool {
		a.drainRequests()
		return len(src.calls) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"picked.glb"}, a.files)
}

func TestReloadKeepsBrokenFiles(t *testing.T) {
	a, src := newTestApp()
	a.OpenAll([]string{"a.glb", "b.glb"})

	src.broken["a.glb"] = true
	src.calls = nil
	a.reload()

	assert.Equal(t, []string{"open a.glb", "open b.glb"}, src.calls)
	assert.Equal(t, []string{"a.glb", "b.glb"}, a.files)
	assert.Equal(t, 1, a.scene.ModelCount())

	src.broken["a.glb"] = false
	src.calls = nil
	a.reload()
	assert.Equal(t, []string{"open a.glb", "append b.glb"}, src.calls)
	assert.Equal(t, 2, a.scene.ModelCount())
}

func TestDragUsesEventTime(t *testing.T) {
	a, _ := newTestApp()
	a.OpenAll([]string{"a.glb"})
	cam := a.scene.Camera()

	a.handleEvent(input.Event{Type: input.EventMouseDrag, Drag: input.DragOrbit, Time: time.Second})
	a.handleEvent(input.Event{Type: input.EventMouseDrag, Drag: input.DragOrbit, MouseX: 10, Time: time.Second + 20*time.Millisecond})
	assert.NotZero(t, cam.Yaw)

	yaw := cam.Yaw
	a.handleEvent(input.Event{Type: input.EventMouseDrag, Drag: input.DragOrbit, MouseX: 500, Time: 3 * time.Second})
	assert.Equal(t, yaw, cam.Yaw)
}

func TestWindowTitle(t *testing.T) {
	assert.Equal(t, "Scene Viewer", windowTitle(nil))
	assert.Equal(t, "Scene Viewer - a.glb", windowTitle([]string{"/models/a.glb"}))
	assert.Equal(t, "Scene Viewer - a.glb (+2)", windowTitle([]string{"/models/a.glb", "b", "c"}))
}
