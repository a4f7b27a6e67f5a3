package shaders

import (
	_ "embed"
)

//go:embed composite.wgsl
var CompositeWGSL string

//go:embed present.wgsl
var PresentWGSL string

//go:embed scene.wgsl
var SceneWGSL string
