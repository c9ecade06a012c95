package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/pkg/formats"
)

// Mesh is a VAO with one VBO per enabled attribute.
type Mesh struct {
	vao         uint32
	vbos        []uint32
	vertexCount int32
	mode        uint32
	constants   []Attribute // Disabled attributes, re-applied per draw

	HasTexCoords bool
	HasNormals   bool
	HasTangents  bool
}

// Upload creates GPU buffers for m. Must be called on the GL thread.
func Upload(m *formats.MeshBuffers) *Mesh {
	out := &Mesh{
		vertexCount:  int32(m.VertexCount()),
		mode:         gl.TRIANGLES,
		HasTexCoords: m.HasTexCoords(),
		HasNormals:   m.HasNormals(),
		HasTangents:  m.HasTangents(),
	}
	out.upload(Attributes(m))
	return out
}

// UploadLines creates a position-only mesh drawn as GL_LINES.
func UploadLines(positions []float32) *Mesh {
	out := &Mesh{
		vertexCount: int32(len(positions) / 3),
		mode:        gl.LINES,
	}
	out.upload(Attributes(&formats.MeshBuffers{Positions: positions}))
	return out
}

func (m *Mesh) upload(attrs []Attribute) {
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	for _, a := range attrs {
		if !a.Enabled {
			gl.DisableVertexAttribArray(a.Location)
			m.constants = append(m.constants, a)
			continue
		}

		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(a.Data)*4, unsafe.Pointer(&a.Data[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, 0, 0)
		gl.EnableVertexAttribArray(a.Location)
		m.vbos = append(m.vbos, vbo)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// VertexCount returns the number of vertices drawn.
func (m *Mesh) VertexCount() int {
	return int(m.vertexCount)
}

// Draw issues the draw call. The caller binds the program and uniforms.
func (m *Mesh) Draw() {
	if m == nil || m.vertexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	// Constant attribute values are context state, not VAO state.
	for _, a := range m.constants {
		gl.VertexAttrib4f(a.Location, a.Constant[0], a.Constant[1], a.Constant[2], a.Constant[3])
	}
	gl.DrawArrays(m.mode, 0, m.vertexCount)
	gl.BindVertexArray(0)
}

// Destroy frees the GPU buffers.
func (m *Mesh) Destroy() {
	if m == nil {
		return
	}
	if len(m.vbos) > 0 {
		gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
		m.vbos = nil
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	m.vertexCount = 0
}
