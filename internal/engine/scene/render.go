package scene

import (
	"github.com/Faultbox/scene-viewer/internal/engine/geometry"
	"github.com/Faultbox/scene-viewer/internal/engine/lighting"
)

// Uniform names shared with the scene shader.
const (
	uniformProjection = "matProj"
	uniformView       = "matView"

	uniformAmbient      = "material.ambient"
	uniformDiffuse      = "material.diffuse"
	uniformSpecular     = "material.specular"
	uniformEmissive     = "material.emissive"
	uniformTransparency = "material.transparency"
)

// Partition splits draw ranges into the opaque and the transparent pass,
// keeping their relative order.
func Partition(ranges []geometry.DrawRange) (opaque, transparent []geometry.DrawRange) {
	for _, r := range ranges {
		if r.Material.Opaque() {
			opaque = append(opaque, r)
		} else {
			transparent = append(transparent, r)
		}
	}
	return opaque, transparent
}

// RenderFrame draws the scene: every opaque range first, then every
// transparent range with blending enabled.
func (s *Scene) RenderFrame() {
	s.device.Clear()

	s.device.BindProgram()
	defer s.device.UnbindProgram()

	s.device.SetUniformMat4(uniformProjection, s.camera.Projection(s.aspect()))
	s.device.SetUniformMat4(uniformView, s.camera.ViewMatrix())
	s.setLights()

	if len(s.opaque) == 0 && len(s.transparent) == 0 {
		return
	}

	s.device.BindGeometry()
	defer s.device.UnbindGeometry()

	s.drawRanges(s.opaque)

	if len(s.transparent) > 0 {
		s.device.SetBlending(true)
		s.drawRanges(s.transparent)
		s.device.SetBlending(false)
	}
}

func (s *Scene) setLights() {
	rig := lighting.DefaultRig(s.camera.Look())
	for i, l := range rig {
		s.device.SetUniform3f(lighting.UniformName(i, "direction"), l.Direction)
		s.device.SetUniform3f(lighting.UniformName(i, "diffuse"), l.Diffuse)
		s.device.SetUniform3f(lighting.UniformName(i, "ambient"), l.Ambient)
		s.device.SetUniform3f(lighting.UniformName(i, "specular"), l.Specular)
	}
}

func (s *Scene) drawRanges(ranges []geometry.DrawRange) {
	for _, r := range ranges {
		s.device.SetUniform3f(uniformAmbient, r.Material.Ambient)
		s.device.SetUniform3f(uniformDiffuse, r.Material.Diffuse)
		s.device.SetUniform3f(uniformSpecular, r.Material.Specular)
		s.device.SetUniform3f(uniformEmissive, r.Material.Emissive)
		s.device.SetUniform1f(uniformTransparency, r.Material.Transparency)
		s.device.DrawTriangles(int(r.IndexCount), r.ByteOffset())
	}
}
