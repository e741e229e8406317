package scene

import "github.com/go-gl/mathgl/mgl32"

// Device is the GPU side of a scene. The scene owns one vertex buffer and one
// index buffer on the device and draws them with a single shader program.
type Device interface {
	// Upload makes vertices and indices the buffer contents. Data before
	// fromVertex and fromIndex is already on the device and may be kept.
	Upload(vertices []float32, indices []uint32, fromVertex, fromIndex int) error
	// Release frees the buffers; a later Upload recreates them.
	Release()

	// Clear clears the color and depth targets.
	Clear()

	BindProgram()
	UnbindProgram()
	BindGeometry()
	UnbindGeometry()

	SetUniformMat4(name string, m mgl32.Mat4)
	SetUniform3f(name string, v mgl32.Vec3)
	SetUniform1f(name string, v float32)

	// SetBlending toggles alpha blending for the transparent pass.
	SetBlending(enabled bool)
	// DrawTriangles draws count indices starting at byteOffset in the index buffer.
	DrawTriangles(count, byteOffset int)
}
