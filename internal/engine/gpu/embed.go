package gpu

import _ "embed"

//go:embed shaders/scene.vert
var sceneVertexShader string

//go:embed shaders/scene.frag
var sceneFragmentShader string
