// Package shaders holds the viewer's GLSL sources.
package shaders

import _ "embed"

// Uniform names shared by the terrain program and the renderer.
const (
	UniformMVP         = "mvp_matrix"
	UniformHeightMap   = "height_map"
	UniformHeightScale = "height_scale"
	UniformGrass       = "texture_grass"
	UniformRock        = "texture_rock"
	UniformSnow        = "texture_snowrocks"
)

// Terrain program sources.
var (
	//go:embed terrain.vert
	TerrainVertexShader string

	//go:embed terrain.frag
	TerrainFragmentShader string
)
