// Package gpu implements the scene device on OpenGL 4.1 core.
//
// All calls must be made from the thread that owns the GL context.
package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scene-viewer/internal/engine/geometry"
	"github.com/Faultbox/scene-viewer/internal/engine/shader"
	"github.com/Faultbox/scene-viewer/internal/logger"
)

const floatSize = 4

// Attribute locations in scene.vert.
const (
	attribPosition = 0
	attribNormal   = 1
)

// ErrGL is wrapped by errors reported through glGetError.
var ErrGL = errors.New("OpenGL error")

// Device owns the scene's shader program and its vertex and index buffers.
type Device struct {
	program *shader.Program

	vao      uint32
	vertices buffer
	indices  buffer

	background mgl32.Vec3
}

// New initializes OpenGL and compiles the scene program.
// Must be called after the GL context is created.
func New(background mgl32.Vec3) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	program, err := shader.NewProgram(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene program: %w", err)
	}

	d := &Device{
		program:    program,
		background: background,
	}

	// Triangles are wound clockwise when seen from the front.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CW)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.BLEND)

	return d, nil
}

// Close frees every GL object owned by the device.
func (d *Device) Close() {
	logger.Info("closing GPU device")
	d.Release()
	d.program.Delete()
}

// SetViewport sets the GL viewport to the drawable size in pixels.
func (d *Device) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Upload implements scene.Device. Buffers grow as needed; on growth the
// already uploaded prefix is copied on the GPU and only the suffix is sent.
func (d *Device) Upload(vertices []float32, indices []uint32, fromVertex, fromIndex int) error {
	if len(vertices) == 0 || len(indices) == 0 {
		d.Release()
		return nil
	}
	if fromVertex < 0 || fromVertex*geometry.VertexStride > len(vertices) || fromIndex < 0 || fromIndex > len(indices) {
		return fmt.Errorf("upload suffix (%d, %d) outside buffers of %d vertices and %d indices",
			fromVertex, fromIndex, len(vertices)/geometry.VertexStride, len(indices))
	}

	if d.vao == 0 {
		gl.GenVertexArrays(1, &d.vao)
	}
	gl.BindVertexArray(d.vao)
	defer gl.BindVertexArray(0)

	keepVertex := min(fromVertex*geometry.VertexStride*floatSize, d.vertices.size)
	keepIndex := min(fromIndex*geometry.IndexSize, d.indices.size)

	vertexTail := vertices[keepVertex/floatSize:]
	indexTail := indices[keepIndex/geometry.IndexSize:]

	var vertexData, indexData unsafe.Pointer
	if len(vertexTail) > 0 {
		vertexData = gl.Ptr(&vertexTail[0])
	}
	if len(indexTail) > 0 {
		indexData = gl.Ptr(&indexTail[0])
	}

	if d.vertices.write(vertexData, keepVertex, len(vertexTail)*floatSize) {
		d.bindAttributes()
	}
	if d.indices.write(indexData, keepIndex, len(indexTail)*geometry.IndexSize) {
		// element buffer binding is VAO state
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.indices.id)
	}

	logger.Debug("geometry uploaded",
		zap.Int("vertex_bytes", len(vertexTail)*floatSize),
		zap.Int("index_bytes", len(indexTail)*geometry.IndexSize),
		zap.Int("vertex_capacity", d.vertices.capacity),
		zap.Int("index_capacity", d.indices.capacity),
	)

	return checkError("upload")
}

// bindAttributes points the VAO at the current vertex buffer.
func (d *Device) bindAttributes() {
	stride := int32(geometry.VertexStride * floatSize)

	gl.BindBuffer(gl.ARRAY_BUFFER, d.vertices.id)

	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)

	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 3*floatSize)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Release implements scene.Device.
func (d *Device) Release() {
	d.vertices.release()
	d.indices.release()
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// Clear implements scene.Device.
func (d *Device) Clear() {
	gl.ClearColor(d.background.X(), d.background.Y(), d.background.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// BindProgram implements scene.Device.
func (d *Device) BindProgram() {
	d.program.Use()
}

// UnbindProgram implements scene.Device.
func (d *Device) UnbindProgram() {
	gl.UseProgram(0)
}

// BindGeometry implements scene.Device.
func (d *Device) BindGeometry() {
	gl.BindVertexArray(d.vao)
}

// UnbindGeometry implements scene.Device.
func (d *Device) UnbindGeometry() {
	gl.BindVertexArray(0)
}

// SetUniformMat4 implements scene.Device.
func (d *Device) SetUniformMat4(name string, m mgl32.Mat4) {
	if loc := d.program.Uniform(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetUniform3f implements scene.Device.
func (d *Device) SetUniform3f(name string, v mgl32.Vec3) {
	if loc := d.program.Uniform(name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// SetUniform1f implements scene.Device.
func (d *Device) SetUniform1f(name string, v float32) {
	if loc := d.program.Uniform(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

// SetBlending implements scene.Device.
func (d *Device) SetBlending(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
}

// DrawTriangles implements scene.Device.
func (d *Device) DrawTriangles(count, byteOffset int) {
	if d.vao == 0 || count == 0 {
		return
	}
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(byteOffset))
}

// ReadPixels returns the RGBA contents of the back buffer, bottom row first.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels
}

// checkError drains the GL error queue and reports the first error.
func checkError(op string) error {
	first := uint32(gl.NO_ERROR)
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == gl.NO_ERROR {
			first = code
		}
	}
	if first != gl.NO_ERROR {
		return fmt.Errorf("%s: %w 0x%04X", op, ErrGL, first)
	}
	return nil
}
