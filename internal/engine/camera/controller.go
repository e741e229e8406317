package camera

import "time"

// Controller defaults.
const (
	DefaultIdleGap    = 100 * time.Millisecond
	DefaultPanScale   = 275.0
	DefaultOrbitScale = -0.0045
	DefaultZoomStep   = 1.0
)

// OrbitController turns pointer samples into camera motion. Pan and orbit
// share one pointer history: a sample arriving more than IdleGap after the
// previous one restarts the drag at the current position instead of jumping.
type OrbitController struct {
	cam *Camera

	// Sensitivity
	PanScale   float32 // world units per viewport height of pointer travel
	OrbitScale float32 // radians per pixel
	ZoomStep   float32 // world units per wheel notch

	IdleGap time.Duration

	viewportHeight float32

	// Pointer history
	prevX, prevY int
	lastInput    time.Duration
	tracking     bool
}

// NewOrbitController creates a controller driving cam with default settings.
func NewOrbitController(cam *Camera) *OrbitController {
	return &OrbitController{
		cam:            cam,
		PanScale:       DefaultPanScale,
		OrbitScale:     DefaultOrbitScale,
		ZoomStep:       DefaultZoomStep,
		IdleGap:        DefaultIdleGap,
		viewportHeight: 1,
	}
}

// Camera returns the controlled camera.
func (oc *OrbitController) Camera() *Camera {
	return oc.cam
}

// SetViewport records the viewport size used to normalize pan distances.
func (oc *OrbitController) SetViewport(width, height int) {
	if height > 0 {
		oc.viewportHeight = float32(height)
	}
}

// Zoom moves the camera one step along its view axis. Positive delta moves
// forward, negative backward, zero does nothing.
func (oc *OrbitController) Zoom(delta int) {
	switch {
	case delta > 0:
		oc.cam.Walk(oc.ZoomStep)
	case delta < 0:
		oc.cam.Walk(-oc.ZoomStep)
	}
}

// Pan translates the camera by the pointer movement since the last sample.
// t is a monotonic timestamp.
func (oc *OrbitController) Pan(x, y int, t time.Duration) {
	dx, dy := oc.track(x, y, t)
	scale := oc.PanScale / oc.viewportHeight

	// the scene follows the pointer; screen y grows downwards
	oc.cam.Strafe(-float32(dx) * scale)
	oc.cam.Lift(float32(dy) * scale)
}

// Orbit rotates the camera around its center by the pointer movement since
// the last sample. t is a monotonic timestamp.
func (oc *OrbitController) Orbit(x, y int, t time.Duration) {
	dx, dy := oc.track(x, y, t)

	oc.cam.OrbitYaw(oc.OrbitScale * float32(dx))
	oc.cam.OrbitPitch(oc.OrbitScale * float32(dy))
}

// Reset forgets the pointer history so the next sample starts a new drag.
func (oc *OrbitController) Reset() {
	oc.tracking = false
}

// track returns the pointer delta for a sample and records it.
func (oc *OrbitController) track(x, y int, t time.Duration) (dx, dy int) {
	if !oc.tracking || t-oc.lastInput > oc.IdleGap {
		oc.prevX, oc.prevY = x, y
	}

	dx, dy = x-oc.prevX, y-oc.prevY

	oc.prevX, oc.prevY = x, y
	oc.lastInput = t
	oc.tracking = true
	return dx, dy
}
