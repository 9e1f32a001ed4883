// Package shaders provides embedded GLSL sources for the demo scenes.
package shaders

import _ "embed"

// ModelVertexShader transforms the textured model and its normals.
//
//go:embed model.vert
var ModelVertexShader string

// ModelFragmentShader applies ambient plus softened diffuse lighting and the
// color override blend.
//
//go:embed model.frag
var ModelFragmentShader string

// CubeVertexShader is the vertex shader for the colored cube demo.
//
//go:embed cube.vert
var CubeVertexShader string

// CubeFragmentShader is the fragment shader for the colored cube demo.
//
//go:embed cube.frag
var CubeFragmentShader string

// SquareVertexShader is the vertex shader for the test square.
//
//go:embed square.vert
var SquareVertexShader string

// SquareFragmentShader is the fragment shader for the test square.
//
//go:embed square.frag
var SquareFragmentShader string
