// Package camera provides the viewer camera, scene framing and pointer-driven
// orbit/pan/zoom control.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the up axis of the scene. Models are Z-up.
var WorldUp = mgl32.Vec3{0, 0, 1}

// DefaultFovY is the vertical field of view in radians (45 degrees).
const DefaultFovY = gomath.Pi / 4

// Camera orbits a center point. It is the single source of the view and
// projection matrices for a frame.
type Camera struct {
	// Center is the focus point the camera orbits and looks at.
	Center mgl32.Vec3

	// Spherical coordinates around Center
	Distance float32 // pull-back length along the view axis
	Yaw      float32 // rotation around WorldUp (radians)
	Pitch    float32 // elevation above the horizontal plane (radians)

	// Depth planes
	NearDepth float32
	FarDepth  float32

	// FovY is the vertical field of view in radians.
	FovY float32

	// Constraints
	MinDistance float32
	MaxPitch    float32
}

// New creates a camera with default settings looking along +Y.
func New() *Camera {
	return &Camera{
		Distance:    5.0,
		NearDepth:   1.0,
		FarDepth:    10000.0,
		FovY:        DefaultFovY,
		MinDistance: 0.01,
		MaxPitch:    gomath.Pi/2 - 0.01,
	}
}

// offsetDir returns the unit vector from Center towards the eye.
// Yaw and pitch of zero place the eye on the -Y side of the center.
func (c *Camera) offsetDir() mgl32.Vec3 {
	sinY, cosY := gomath.Sincos(float64(c.Yaw))
	sinP, cosP := gomath.Sincos(float64(c.Pitch))
	return mgl32.Vec3{
		float32(sinY * cosP),
		float32(-cosY * cosP),
		float32(sinP),
	}
}

// Position returns the eye position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	return c.Center.Add(c.offsetDir().Mul(c.Distance))
}

// Look returns the unit view direction.
func (c *Camera) Look() mgl32.Vec3 {
	return c.offsetDir().Mul(-1)
}

// Right returns the unit strafe axis.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Look().Cross(WorldUp).Normalize()
}

// Up returns the unit lift axis, perpendicular to Look and Right.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Look())
}

// ViewMatrix returns the view matrix for this camera.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, WorldUp)
}

// Projection returns the perspective projection for the given width/height ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, aspect, c.NearDepth, c.FarDepth)
}

// Walk moves the eye d units along the view axis; positive d moves forward.
// When the eye would pass MinDistance from the center, the center is carried
// forward with it.
func (c *Camera) Walk(d float32) {
	look := c.Look()
	c.Distance -= d
	if c.Distance < c.MinDistance {
		c.Center = c.Center.Add(look.Mul(c.MinDistance - c.Distance))
		c.Distance = c.MinDistance
	}
}

// Strafe translates eye and center d units along Right.
func (c *Camera) Strafe(d float32) {
	c.Center = c.Center.Add(c.Right().Mul(d))
}

// Lift translates eye and center d units along Up.
func (c *Camera) Lift(d float32) {
	c.Center = c.Center.Add(c.Up().Mul(d))
}

// OrbitYaw rotates the eye around the center about WorldUp.
func (c *Camera) OrbitYaw(angle float32) {
	c.Yaw = float32(gomath.Remainder(float64(c.Yaw+angle), 2*gomath.Pi))
}

// OrbitPitch tilts the eye around the center about Right, clamped short of the poles.
func (c *Camera) OrbitPitch(angle float32) {
	c.Pitch = mgl32.Clamp(c.Pitch+angle, -c.MaxPitch, c.MaxPitch)
}

// Apply moves the camera to a framing result and resets the orientation to the front view.
func (c *Camera) Apply(f Framing) {
	c.Center = f.Center
	c.Distance = f.Distance
	c.NearDepth = f.NearDepth
	c.FarDepth = f.FarDepth
	c.Yaw = 0
	c.Pitch = 0
}
