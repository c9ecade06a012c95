// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for the loaded model.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader for the loaded model.
//
//go:embed mesh.frag
var MeshFragmentShader string

// BBoxVertexShader is the vertex shader for bounding box lines.
//
//go:embed bbox.vert
var BBoxVertexShader string

// BBoxFragmentShader is the fragment shader for bounding box lines.
//
//go:embed bbox.frag
var BBoxFragmentShader string
