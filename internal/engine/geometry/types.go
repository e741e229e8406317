// Package geometry packs parsed mesh fragments into shared GPU-ready buffers
// and computes their bounding volume.
package geometry

import "github.com/go-gl/mathgl/mgl32"

// VertexStride is the number of float32 scalars per vertex: 3 position, 3 normal.
const VertexStride = 6

// IndexSize is the size in bytes of one element of the index buffer.
const IndexSize = 4

// OpaqueThreshold is the transparency above which a material is drawn in the opaque pass.
const OpaqueThreshold = 0.9999

// Material holds the flat-shaded rendering attributes of a material range.
type Material struct {
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Emissive mgl32.Vec3

	// Transparency is the alpha of the material in [0, 1]; 1 is fully opaque.
	Transparency float32
}

// Opaque reports whether the material belongs to the opaque pass.
func (m Material) Opaque() bool {
	return m.Transparency > OpaqueThreshold
}

// MaterialRange is a run of a model's indices drawn with one material.
// IndexOffset is local to the model's own index slice.
type MaterialRange struct {
	Material    Material
	IndexOffset uint32
	IndexCount  uint32
}

// Model is one parsed drawable fragment with its own vertex and index data.
type Model struct {
	// ID is the source engine's identifier. Zero marks a non-geometric item.
	ID uint64

	// Vertices are interleaved position and normal triples (VertexStride scalars per vertex).
	Vertices []float32

	// Indices are local to this model: every value is below VertexCount().
	Indices []uint32

	// Ranges partition Indices by material. Their union may leave indices undrawn.
	Ranges []MaterialRange
}

// VertexCount returns the number of whole vertices in the model.
func (m *Model) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// IndexCount returns the number of indices in the model.
func (m *Model) IndexCount() int {
	return len(m.Indices)
}

// Drawable reports whether the model contributes to the shared buffers.
func (m *Model) Drawable() bool {
	return m.ID != 0 && m.VertexCount() > 0 && m.IndexCount() > 0
}

// Placement records where a model landed in the shared buffers.
type Placement struct {
	VertexOffset uint32
	IndexOffset  uint32
	VertexCount  uint32
	IndexCount   uint32

	// Skipped is set for models that contributed nothing to the buffers.
	Skipped bool
}

// VertexEnd returns one past the last vertex owned by the placement.
func (p Placement) VertexEnd() uint32 {
	return p.VertexOffset + p.VertexCount
}

// IndexEnd returns one past the last index owned by the placement.
func (p Placement) IndexEnd() uint32 {
	return p.IndexOffset + p.IndexCount
}

// DrawRange is a material range rebased into the shared index buffer.
type DrawRange struct {
	Model       int // index of the owning model
	Material    Material
	IndexOffset uint32 // first element in the shared index buffer
	IndexCount  uint32
}

// ByteOffset returns the offset of the range into the index buffer in bytes.
func (d DrawRange) ByteOffset() int {
	return int(d.IndexOffset) * IndexSize
}

// Layout is the packed form of an ordered model list.
type Layout struct {
	Vertices []float32
	Indices  []uint32

	Placements []Placement
	Ranges     []DrawRange

	VertexCount uint32
	IndexCount  uint32

	// First vertex and index written by the Pack call that produced this layout.
	firstVertex uint32
	firstIndex  uint32
}

// Suffix returns the first vertex and first index written by the last Pack.
// Data before them is identical to the prior layout and need not be re-uploaded.
func (l *Layout) Suffix() (vertex, index int) {
	return int(l.firstVertex), int(l.firstIndex)
}

// Empty reports whether the layout holds no drawable geometry.
func (l *Layout) Empty() bool {
	return l.VertexCount == 0
}
