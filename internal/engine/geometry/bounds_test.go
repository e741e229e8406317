package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBoundsEmpty(t *testing.T) {
	_, valid := ComputeBounds(nil)
	assert.False(t, valid)

	_, valid = ComputeBounds([]Model{{ID: 1}, {ID: 2, Indices: []uint32{0}}})
	assert.False(t, valid)
}

func TestComputeBoundsSingleVertex(t *testing.T) {
	b, valid := ComputeBounds([]Model{{ID: 1, Vertices: []float32{1, 2, 3, 0, 0, 1}}})
	require.True(t, valid)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Max)
	assert.Equal(t, mgl32.Vec3{}, b.Size())
}

func TestComputeBoundsIgnoresNormals(t *testing.T) {
	m := Model{ID: 1, Vertices: []float32{
		0, 0, 0, 100, -100, 100,
		1, 2, 3, -100, 100, -100,
	}}
	b, valid := ComputeBounds([]Model{m})
	require.True(t, valid)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Max)
	assert.Equal(t, mgl32.Vec3{0.5, 1, 1.5}, b.Center())
}

func TestComputeBoundsMatchesPackedStream(t *testing.T) {
	models := []Model{quad(1, -3, 1), triangle(2), {ID: 0}, quad(3, 10, 0.5)}

	local, valid := ComputeBounds(models)
	require.True(t, valid)

	l, err := Pack(models, 0, Layout{})
	require.NoError(t, err)
	packed, valid := BoundsOf(l.Vertices)
	require.True(t, valid)

	assert.Equal(t, local, packed)
	assert.Equal(t, mgl32.Vec3{-3, 0, 0}, local.Min)
	assert.Equal(t, mgl32.Vec3{11, 1, 5}, local.Max)
}

func TestComputeBoundsIdempotent(t *testing.T) {
	models := []Model{quad(1, 2, 1), triangle(2)}
	a, _ := ComputeBounds(models)
	b, _ := ComputeBounds(models)
	assert.Equal(t, a, b)
}
