// Package lighting provides the directional light rig used by the scene shader.
package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxDirectional is the number of directional lights the shader declares.
const MaxDirectional = 3

// Directional is a light with no position, shining along Direction.
type Directional struct {
	Direction mgl32.Vec3 // unit vector from the scene toward the light
	Diffuse   mgl32.Vec3
	Ambient   mgl32.Vec3
	Specular  mgl32.Vec3
}

// Rig is the fixed three-light setup: a key light travelling with the camera
// and two dim fills from opposite diagonals.
type Rig [MaxDirectional]Directional

// DefaultRig returns the rig for a camera looking along look.
func DefaultRig(look mgl32.Vec3) Rig {
	key := mgl32.Vec3{0.7, 0.7, 0.7}
	fill := mgl32.Vec3{0.2, 0.2, 0.2}
	diagonal := mgl32.Vec3{1, 1, 0.5}.Normalize()

	return Rig{
		{Direction: look.Mul(-1), Diffuse: key, Ambient: key, Specular: key},
		{Direction: diagonal, Diffuse: fill, Ambient: fill, Specular: fill},
		{Direction: diagonal.Mul(-1), Diffuse: fill, Ambient: fill, Specular: fill},
	}
}

// UniformName returns the shader uniform name of a light field, e.g. "dirLight[1].diffuse".
func UniformName(light int, field string) string {
	return fmt.Sprintf("dirLight[%d].%s", light, field)
}
