package loader

import "github.com/go-gl/mathgl/mgl32"

// VertexNormals computes smooth per-vertex normals for counter-clockwise
// triangles by summing the area-weighted face normals around each vertex.
// Vertices touched by no triangle, or only by degenerate ones, get +Z.
func VertexNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	sums := make([]mgl32.Vec3, len(positions))

	for t := 0; t+2 < len(indices); t += 3 {
		ia, ib, ic := indices[t], indices[t+1], indices[t+2]
		a := mgl32.Vec3(positions[ia])
		b := mgl32.Vec3(positions[ib])
		c := mgl32.Vec3(positions[ic])

		// unnormalized, so larger faces weigh more
		face := b.Sub(a).Cross(c.Sub(a))
		sums[ia] = sums[ia].Add(face)
		sums[ib] = sums[ib].Add(face)
		sums[ic] = sums[ic].Add(face)
	}

	normals := make([][3]float32, len(positions))
	for i, n := range sums {
		if l := n.Len(); l > 1e-12 {
			normals[i] = n.Mul(1 / l)
		} else {
			normals[i] = [3]float32{0, 0, 1}
		}
	}
	return normals
}
