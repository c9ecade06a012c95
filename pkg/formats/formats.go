// Package formats provides parsers for 3D model file formats.
package formats

// Note: Wavefront OBJ (triangles only) is implemented in obj.go and obj_expand.go
