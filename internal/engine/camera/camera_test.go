package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestCameraFrontView(t *testing.T) {
	c := New()
	c.Center = mgl32.Vec3{1, 2, 3}
	c.Distance = 10

	assertVecNear(t, mgl32.Vec3{1, -8, 3}, c.Position())
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, c.Look())
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Right())
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, c.Up())
}

func TestCameraViewMatrixMapsCenterOntoAxis(t *testing.T) {
	c := New()
	c.Center = mgl32.Vec3{4, 5, 6}
	c.Distance = 7
	c.OrbitYaw(0.3)
	c.OrbitPitch(0.2)

	p := c.ViewMatrix().Mul4x1(c.Center.Vec4(1))
	assert.InDelta(t, 0, p.X(), 1e-4)
	assert.InDelta(t, 0, p.Y(), 1e-4)
	assert.InDelta(t, -7, p.Z(), 1e-4)
}

func TestCameraWalk(t *testing.T) {
	c := New()
	c.Distance = 5

	c.Walk(2)
	assert.InDelta(t, 3, c.Distance, 1e-6)
	assertVecNear(t, mgl32.Vec3{}, c.Center)

	c.Walk(-4)
	assert.InDelta(t, 7, c.Distance, 1e-6)
}

func TestCameraWalkPastCenterCarriesCenter(t *testing.T) {
	c := New()
	c.Distance = 1
	eye := c.Position()

	c.Walk(3)

	assert.Equal(t, c.MinDistance, c.Distance)
	assertVecNear(t, eye.Add(c.Look().Mul(3)), c.Position())
}

func TestCameraStrafeAndLift(t *testing.T) {
	c := New()
	c.Distance = 10

	c.Strafe(2)
	c.Lift(3)

	assertVecNear(t, mgl32.Vec3{2, 0, 3}, c.Center)
	assert.InDelta(t, 10, c.Distance, 1e-6)
}

func TestCameraOrbitPitchClamped(t *testing.T) {
	c := New()
	c.OrbitPitch(10)
	assert.Equal(t, c.MaxPitch, c.Pitch)

	c.OrbitPitch(-20)
	assert.Equal(t, -c.MaxPitch, c.Pitch)
}

func TestCameraOrbitYawKeepsDistance(t *testing.T) {
	c := New()
	c.Distance = 4
	c.OrbitYaw(gomath.Pi / 2)

	assert.InDelta(t, 4, c.Position().Sub(c.Center).Len(), 1e-5)
	assertVecNear(t, mgl32.Vec3{4, 0, 0}, c.Position())
}

func TestCameraApplyResetsOrientation(t *testing.T) {
	c := New()
	c.OrbitYaw(1)
	c.OrbitPitch(0.5)

	c.Apply(Framing{Center: mgl32.Vec3{1, 1, 1}, Distance: 9, NearDepth: 1, FarDepth: 1000})

	assert.Zero(t, c.Yaw)
	assert.Zero(t, c.Pitch)
	assert.Equal(t, float32(9), c.Distance)
	assert.Equal(t, float32(1000), c.FarDepth)
	assertVecNear(t, mgl32.Vec3{1, -8, 1}, c.Position())
}
