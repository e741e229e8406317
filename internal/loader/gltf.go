// Package loader turns glTF 2.0 files (.gltf and .glb) into scene geometry.
package loader

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/scene-viewer/internal/engine/geometry"
	"github.com/Faultbox/scene-viewer/internal/logger"
)

// Material defaults for primitives without a glTF material.
var (
	defaultColor   = mgl32.Vec3{0.8, 0.8, 0.8}
	ambientFactor  = float32(0.2)
	specularFactor = float32(0.5)
)

// yUpToZUp rotates glTF's Y-up frame into the viewer's Z-up world, so a
// model's front (+Z in glTF) faces the initial camera on -Y.
var yUpToZUp = mgl32.HomogRotate3DX(gomath.Pi / 2)

// GLTFSource parses glTF files into models, one model per mesh instance in
// the scene graph. It hands out model IDs that stay unique across appends.
type GLTFSource struct {
	nextID uint64
	files  int
}

// NewGLTFSource returns an empty source.
func NewGLTFSource() *GLTFSource {
	return &GLTFSource{nextID: 1}
}

// Open clears the source and parses path.
func (s *GLTFSource) Open(path string) ([]geometry.Model, error) {
	s.Clear()
	return s.Append(path)
}

// Append parses path and returns its models.
func (s *GLTFSource) Append(path string) ([]geometry.Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	models, err := s.convert(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf convert %q: %w", path, err)
	}
	s.files++

	logger.Debug("gltf parsed",
		zap.String("path", path),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("models", len(models)),
	)
	return models, nil
}

// Clear forgets every parsed file and restarts model IDs.
func (s *GLTFSource) Clear() {
	s.nextID = 1
	s.files = 0
}

// convert walks the scene graph and emits one model per node that references a mesh.
func (s *GLTFSource) convert(doc *gltf.Document) ([]geometry.Model, error) {
	var models []geometry.Model

	var visit func(node int, parent mgl32.Mat4, depth int) error
	visit = func(node int, parent mgl32.Mat4, depth int) error {
		if node < 0 || node >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", node)
		}
		if depth > len(doc.Nodes) {
			return fmt.Errorf("node %d: cyclic hierarchy", node)
		}

		n := doc.Nodes[node]
		world := parent.Mul4(localTransform(n))

		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
				return fmt.Errorf("node %d: mesh index %d out of range", node, *n.Mesh)
			}
			m, err := s.meshModel(doc, doc.Meshes[*n.Mesh], world)
			if err != nil {
				return fmt.Errorf("node %d: %w", node, err)
			}
			models = append(models, m)
		}

		for _, child := range n.Children {
			if err := visit(child, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := visit(root, yUpToZUp, 0); err != nil {
			return nil, err
		}
	}
	return models, nil
}

// rootNodes returns the nodes of the default scene, or every parentless node
// when the document has no default scene.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}

	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// localTransform returns the node matrix, or its TRS composition.
func localTransform(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != [16]float64{} && n.Matrix != identity64 {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	sc := n.ScaleOrDefault()

	rotation := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(sc[0]), float32(sc[1]), float32(sc[2])))
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// meshModel flattens every triangle primitive of mesh into one model with a
// material range per primitive. Positions and normals are moved into world space.
func (s *GLTFSource) meshModel(doc *gltf.Document, mesh *gltf.Mesh, world mgl32.Mat4) (geometry.Model, error) {
	m := geometry.Model{ID: s.nextID}
	s.nextID++

	normalMatrix := world.Mat3().Inv().Transpose()
	// a mirroring transform turns the winding inside out
	mirrored := world.Mat3().Det() < 0

	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			logger.Warn("skipping non-triangle primitive",
				zap.String("mesh", mesh.Name), zap.Int("primitive", pi), zap.Int("mode", int(prim.Mode)))
			continue
		}

		positions, normals, indices, err := readPrimitive(doc, prim)
		if err != nil {
			return geometry.Model{}, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, pi, err)
		}
		if len(positions) == 0 || len(indices) < 3 {
			continue
		}
		if normals == nil {
			normals = VertexNormals(positions, indices)
		}

		base := uint32(m.VertexCount())
		for i, p := range positions {
			wp := world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3()
			wn := normalMatrix.Mul3x1(mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]})
			if l := wn.Len(); l > 0 {
				wn = wn.Mul(1 / l)
			}
			m.Vertices = append(m.Vertices, wp[0], wp[1], wp[2], wn[0], wn[1], wn[2])
		}

		offset := uint32(len(m.Indices))
		count := len(indices) / 3 * 3
		for t := 0; t < count; t += 3 {
			a, b, c := indices[t], indices[t+1], indices[t+2]
			// glTF winds front faces counter-clockwise; the renderer culls with clockwise fronts
			if !mirrored {
				b, c = c, b
			}
			m.Indices = append(m.Indices, base+a, base+b, base+c)
		}

		m.Ranges = append(m.Ranges, geometry.MaterialRange{
			Material:    materialFor(doc, prim.Material),
			IndexOffset: offset,
			IndexCount:  uint32(count),
		})
	}

	return m, nil
}

// readPrimitive reads positions, optional normals and indices of prim.
// Indices are generated for non-indexed primitives and checked against the
// vertex count so a malformed file fails here, not on the GPU.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (positions, normals [][3]float32, indices []uint32, err error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, nil, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, nil, nil, err
	}
	positions, err = modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("positions: %w", err)
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return nil, nil, nil, err
		}
		normals, err = modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("normals: %w", err)
		}
		if len(normals) != len(positions) {
			logger.Warn("ignoring normals with mismatched count",
				zap.Int("normals", len(normals)), zap.Int("positions", len(positions)))
			normals = nil
		}
	}

	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, nil, nil, err
		}
		indices, err = modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("indices: %w", err)
		}
		for _, ix := range indices {
			if int(ix) >= len(positions) {
				return nil, nil, nil, fmt.Errorf("index %d out of range for %d vertices: %w",
					ix, len(positions), geometry.ErrIndexOutOfRange)
			}
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return positions, normals, indices, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

// materialFor approximates a metallic-roughness material with flat Phong
// colors. Only blended materials carry their base color alpha.
func materialFor(doc *gltf.Document, idx *int) geometry.Material {
	mat := geometry.Material{
		Ambient:      defaultColor.Mul(ambientFactor),
		Diffuse:      defaultColor,
		Specular:     mgl32.Vec3{specularFactor, specularFactor, specularFactor},
		Transparency: 1,
	}
	if idx == nil || *idx < 0 || *idx >= len(doc.Materials) {
		return mat
	}

	gm := doc.Materials[*idx]
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		c := pbr.BaseColorFactorOrDefault()
		base := mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
		mat.Diffuse = base
		mat.Ambient = base.Mul(ambientFactor)

		s := specularFactor * (1 - float32(pbr.RoughnessFactorOrDefault()))
		mat.Specular = mgl32.Vec3{s, s, s}

		if gm.AlphaMode == gltf.AlphaBlend {
			mat.Transparency = mgl32.Clamp(float32(c[3]), 0, 1)
		}
	}

	e := gm.EmissiveFactor
	mat.Emissive = mgl32.Vec3{float32(e[0]), float32(e[1]), float32(e[2])}
	return mat
}
