package geometry

import "github.com/go-gl/mathgl/mgl32"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// extend widens the box to contain p.
func (b *Bounds) extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// ComputeBounds returns the box enclosing every vertex position of models.
// valid is false when no model contributes a vertex.
//
// The result depends only on the set of positions, so it is the same for
// the models' local streams and for the packed buffer.
func ComputeBounds(models []Model) (b Bounds, valid bool) {
	for i := range models {
		verts := models[i].Vertices
		n := models[i].VertexCount()
		for j := 0; j < n; j++ {
			o := j * VertexStride
			p := mgl32.Vec3{verts[o], verts[o+1], verts[o+2]}
			if !valid {
				b = Bounds{Min: p, Max: p}
				valid = true
				continue
			}
			b.extend(p)
		}
	}
	return b, valid
}

// BoundsOf returns the box enclosing a packed vertex buffer.
func BoundsOf(vertices []float32) (b Bounds, valid bool) {
	return ComputeBounds([]Model{{Vertices: vertices}})
}
