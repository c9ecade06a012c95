// Package mesh uploads expanded mesh buffers to the GPU.
package mesh

import "github.com/Faultbox/meshview/pkg/formats"

// Shader attribute locations.
const (
	LocPosition  = 0
	LocTexCoord  = 1
	LocNormal    = 2
	LocTangent   = 3
	LocBitangent = 4
)

// Attribute is one vertex stream. An attribute with Enabled false has no
// buffer covering every vertex; the shader sees Constant instead.
type Attribute struct {
	Location uint32
	Size     int32 // Components per vertex
	Data     []float32
	Enabled  bool
	Constant [4]float32
}

// Attributes returns the five vertex streams for m in location order.
//
// A stream that does not cover every vertex (for example normals on a mesh
// where only some faces carry them) is disabled as a whole. Disabled normals
// read (0, 0, 1) and disabled tangents the X/Y axes, so lighting stays finite.
func Attributes(m *formats.MeshBuffers) []Attribute {
	attrs := []Attribute{
		{Location: LocPosition, Size: 3, Data: m.Positions, Enabled: !m.IsEmpty()},
		{Location: LocTexCoord, Size: 2, Constant: [4]float32{0, 0, 0, 1}},
		{Location: LocNormal, Size: 3, Constant: [4]float32{0, 0, 1, 1}},
		{Location: LocTangent, Size: 3, Constant: [4]float32{1, 0, 0, 1}},
		{Location: LocBitangent, Size: 3, Constant: [4]float32{0, 1, 0, 1}},
	}

	if m.HasTexCoords() {
		attrs[LocTexCoord].Data = m.TexCoords
		attrs[LocTexCoord].Enabled = true
	}
	if m.HasNormals() {
		attrs[LocNormal].Data = m.Normals
		attrs[LocNormal].Enabled = true
	}
	if m.HasTangents() {
		attrs[LocTangent].Data = m.Tangents
		attrs[LocTangent].Enabled = true
		attrs[LocBitangent].Data = m.Bitangents
		attrs[LocBitangent].Enabled = true
	}

	return attrs
}
