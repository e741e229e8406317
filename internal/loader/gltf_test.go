package loader

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scene-viewer/internal/engine/geometry"
)

// triangleDoc builds a document with one unindexed triangle mesh in the XY
// plane, instanced by the given nodes.
func triangleDoc(nodes ...*gltf.Node) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name:       "tri",
		Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: pos}}},
	}}

	if len(nodes) == 0 {
		nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	}
	doc.Nodes = nodes
	roots := make([]int, len(nodes))
	for i := range nodes {
		roots[i] = i
	}
	doc.Scenes = []*gltf.Scene{{Nodes: roots}}
	doc.Scene = gltf.Index(0)
	return doc
}

func save(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func assertFloatsNear(t *testing.T, want, got []float32) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestOpenTriangle(t *testing.T) {
	path := save(t, triangleDoc(&gltf.Node{Mesh: gltf.Index(0), Translation: [3]float64{0, 0, 2}}))

	models, err := NewGLTFSource().Open(path)
	require.NoError(t, err)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, uint64(1), m.ID)
	assert.True(t, m.Drawable())

	// Y-up is rotated into Z-up and the computed normal faces the default camera on -Y
	assertFloatsNear(t, []float32{
		0, -2, 0, 0, -1, 0,
		1, -2, 0, 0, -1, 0,
		0, -2, 1, 0, -1, 0,
	}, m.Vertices)

	// counter-clockwise input is emitted clockwise
	assert.Equal(t, []uint32{0, 2, 1}, m.Indices)

	require.Len(t, m.Ranges, 1)
	assert.Equal(t, uint32(0), m.Ranges[0].IndexOffset)
	assert.Equal(t, uint32(3), m.Ranges[0].IndexCount)
	assert.True(t, m.Ranges[0].Material.Opaque())
}

func TestModelPerMeshInstance(t *testing.T) {
	doc := triangleDoc(
		&gltf.Node{Mesh: gltf.Index(0)},
		&gltf.Node{Mesh: gltf.Index(0), Translation: [3]float64{5, 0, 0}},
	)
	path := save(t, doc)

	src := NewGLTFSource()
	models, err := src.Open(path)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, uint64(1), models[0].ID)
	assert.Equal(t, uint64(2), models[1].ID)
	assert.InDelta(t, 5, models[1].Vertices[0], 1e-5)

	more, err := src.Append(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), more[0].ID)
	assert.Equal(t, uint64(4), more[1].ID)

	again, err := src.Open(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), again[0].ID)
}

func TestChildInheritsParentTransform(t *testing.T) {
	doc := triangleDoc(
		&gltf.Node{Translation: [3]float64{10, 0, 0}, Children: []int{1}},
		&gltf.Node{Mesh: gltf.Index(0), Scale: [3]float64{2, 2, 2}},
	)
	doc.Scenes[0].Nodes = []int{0}

	models, err := NewGLTFSource().Open(save(t, doc))
	require.NoError(t, err)
	require.Len(t, models, 1)

	b, ok := geometry.ComputeBounds(models)
	require.True(t, ok)
	assert.InDelta(t, 10, b.Min.X(), 1e-5)
	assert.InDelta(t, 12, b.Max.X(), 1e-5)
	assert.InDelta(t, 2, b.Max.Z(), 1e-5)
}

func TestMaterials(t *testing.T) {
	tests := []struct {
		name         string
		material     *gltf.Material
		transparency float32
		diffuse      [3]float32
	}{
		{
			name:         "blended",
			material:     &gltf.Material{AlphaMode: gltf.AlphaBlend, PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 0.5}}},
			transparency: 0.5,
			diffuse:      [3]float32{1, 0, 0},
		},
		{
			name:         "opaque ignores alpha",
			material:     &gltf.Material{PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{0, 1, 0, 0.5}}},
			transparency: 1,
			diffuse:      [3]float32{0, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := triangleDoc()
			doc.Materials = []*gltf.Material{tt.material}
			doc.Meshes[0].Primitives[0].Material = gltf.Index(0)

			models, err := NewGLTFSource().Open(save(t, doc))
			require.NoError(t, err)

			mat := models[0].Ranges[0].Material
			assert.InDelta(t, tt.transparency, mat.Transparency, 1e-6)
			assert.Equal(t, tt.diffuse, [3]float32(mat.Diffuse))
		})
	}
}

func TestIndexedPrimitiveWithNormals(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 2, 3, 0})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(idx),
		Attributes: map[string]int{gltf.POSITION: pos, gltf.NORMAL: nrm},
	}}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)

	models, err := NewGLTFSource().Open(save(t, doc))
	require.NoError(t, err)

	m := models[0]
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, []uint32{0, 2, 1, 2, 0, 3}, m.Indices)
	assertFloatsNear(t, []float32{0, -1, 0}, m.Vertices[3:6])
}

func TestIndexOutOfRange(t *testing.T) {
	doc := triangleDoc()
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 7})
	doc.Meshes[0].Primitives[0].Indices = gltf.Index(idx)

	_, err := NewGLTFSource().Open(save(t, doc))
	assert.ErrorIs(t, err, geometry.ErrIndexOutOfRange)
}

func TestNonTrianglePrimitiveSkipped(t *testing.T) {
	doc := triangleDoc()
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	models, err := NewGLTFSource().Open(save(t, doc))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.False(t, models[0].Drawable())
	assert.Empty(t, models[0].Ranges)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := NewGLTFSource().Open(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}

func TestVertexNormals(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {9, 9, 9}}
	normals := VertexNormals(positions, []uint32{0, 1, 2, 2, 3, 0})

	for i := 0; i < 4; i++ {
		assert.InDelta(t, 1, normals[i][2], 1e-6)
	}
	// unreferenced vertex
	assert.Equal(t, [3]float32{0, 0, 1}, normals[4])

	flipped := VertexNormals(positions[:3], []uint32{0, 2, 1})
	assert.InDelta(t, -1, flipped[0][2], 1e-6)
}
