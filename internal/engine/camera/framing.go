package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scene-viewer/internal/engine/geometry"
)

// ErrInvalidProjection is returned for a non-positive aspect ratio or a field
// of view outside (0, pi).
var ErrInvalidProjection = errors.New("invalid projection parameters")

const (
	// FramingMargin scales the fitted distance so the nearest geometry is not clipped.
	FramingMargin = 1.5

	// MinFramingDistance floors the fitted distance. It matches the closest
	// near plane, so zero-extent and sub-unit scenes stay in front of it.
	MinFramingDistance = 1.0

	minNearDepth   = 1.0
	nearFarRatio   = 1e-6
	farDepthSeed   = 10.0
	farDepthMargin = 100.0
)

// Framing is the camera placement that keeps a bounding box fully visible.
type Framing struct {
	Center    mgl32.Vec3
	Distance  float32
	NearDepth float32
	FarDepth  float32

	// BaseDistance is the fitted distance before FramingMargin is applied.
	BaseDistance float32
}

// Frame computes the framing of b for a perspective camera with the given
// width/height ratio and vertical field of view in radians.
//
// The box is fitted for the four cardinal views of a Z-up scene: the X and Z
// extents against the horizontal field of view and the Z and Y extents against
// the vertical one. The largest distance wins. Any fit below
// MinFramingDistance, including a single point, is raised to it.
func Frame(b geometry.Bounds, aspect, fovY float32) (Framing, error) {
	if !(aspect > 0) || !(fovY > 0) || fovY >= gomath.Pi {
		return Framing{}, fmt.Errorf("%w: aspect %v, fov %v", ErrInvalidProjection, aspect, fovY)
	}

	center := b.Center()
	fovX := HorizontalFov(aspect, fovY)

	base := max(
		fitDistance(center.X(), b.Min.X(), b.Max.X(), fovX),
		fitDistance(center.Z(), b.Min.Z(), b.Max.Z(), fovX),
		fitDistance(center.Z(), b.Min.Z(), b.Max.Z(), float64(fovY)),
		fitDistance(center.Y(), b.Min.Y(), b.Max.Y(), float64(fovY)),
	)
	if base < MinFramingDistance {
		base = MinFramingDistance
	}

	fitted := float32(base)
	distance := fitted * FramingMargin
	far := FarDepth(float64(distance))

	return Framing{
		Center:       center,
		Distance:     distance,
		NearDepth:    float32(NearDepth(far)),
		FarDepth:     float32(far),
		BaseDistance: fitted,
	}, nil
}

// HorizontalFov returns the horizontal field of view matching fovY at the given aspect.
func HorizontalFov(aspect, fovY float32) float64 {
	return 2 * gomath.Atan(float64(aspect)*gomath.Tan(float64(fovY)/2))
}

// fitDistance returns how far from center a camera with field of view fov
// must stand so that [lo, hi] fits inside the frustum half-angle.
func fitDistance(center, lo, hi float32, fov float64) float64 {
	extent := gomath.Max(gomath.Abs(float64(center-hi)), gomath.Abs(float64(center-lo)))
	if extent == 0 {
		return 0
	}
	return extent / gomath.Tan(fov/2)
}

// FarDepth returns the far plane for a camera standing distance from the scene center:
// the first power of ten from 10 up that exceeds twice the distance, times 100.
func FarDepth(distance float64) float64 {
	far := farDepthSeed
	for 2*distance > far {
		far *= 10
	}
	return far * farDepthMargin
}

// NearDepth returns the near plane for a far plane, never closer than 1.
func NearDepth(far float64) float64 {
	return gomath.Max(minNearDepth, far*nearFarRatio)
}
