package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDefaultRigFollowsCamera(t *testing.T) {
	rig := DefaultRig(mgl32.Vec3{0, 1, 0})

	assert.Equal(t, mgl32.Vec3{0, -1, 0}, rig[0].Direction)
	assert.InDelta(t, 1, rig[1].Direction.Len(), 1e-6)
	assert.Equal(t, rig[1].Direction.Mul(-1), rig[2].Direction)
	assert.Equal(t, mgl32.Vec3{0.7, 0.7, 0.7}, rig[0].Diffuse)
}

func TestUniformName(t *testing.T) {
	assert.Equal(t, "dirLight[2].specular", UniformName(2, "specular"))
}
