package formats

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshview/pkg/math"
)

// objMinUVDeterminant is the smallest UV parallelogram area accepted when
// solving for a tangent basis.
const objMinUVDeterminant = 1e-12

// MeshBuffers holds flat, corner-major vertex attributes ready for upload.
// Every face contributes three vertices; nothing is shared between faces.
//
// Positions always cover every vertex. TexCoords and Normals only hold
// entries for faces that reference them, and Tangents/Bitangents only for
// faces that have both. Faces whose UVs are degenerate get zero vectors.
type MeshBuffers struct {
	Positions  []float32 // x, y, z per vertex
	TexCoords  []float32 // u, v per vertex
	Normals    []float32 // x, y, z per vertex
	Tangents   []float32 // x, y, z per vertex
	Bitangents []float32 // x, y, z per vertex
}

// VertexCount returns the number of vertices (3 per triangle).
func (m *MeshBuffers) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *MeshBuffers) TriangleCount() int {
	return m.VertexCount() / 3
}

// IsEmpty reports whether the mesh has no geometry.
func (m *MeshBuffers) IsEmpty() bool {
	return m == nil || len(m.Positions) == 0
}

// HasTexCoords reports whether every vertex has a texture coordinate.
func (m *MeshBuffers) HasTexCoords() bool {
	return !m.IsEmpty() && len(m.TexCoords) == 2*m.VertexCount()
}

// HasNormals reports whether every vertex has a normal.
func (m *MeshBuffers) HasNormals() bool {
	return !m.IsEmpty() && len(m.Normals) == 3*m.VertexCount()
}

// HasTangents reports whether every vertex has a tangent and bitangent.
func (m *MeshBuffers) HasTangents() bool {
	n := 3 * m.VertexCount()
	return !m.IsEmpty() && len(m.Tangents) == n && len(m.Bitangents) == n
}

// Bounds returns the axis-aligned bounding box of the positions.
// ok is false for an empty mesh.
func (m *MeshBuffers) Bounds() (lo, hi math.Vec3, ok bool) {
	if m.IsEmpty() {
		return math.Vec3{}, math.Vec3{}, false
	}

	lo = vec3At(m.Positions, 0)
	hi = lo
	for i := 1; i < m.VertexCount(); i++ {
		p := vec3At(m.Positions, i)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi, true
}

// ExpandOBJ resolves every face into flat per-corner buffers and computes a
// flat tangent basis for faces with both texture coordinates and normals.
// Faces referencing indices outside the pools are skipped and reported.
func ExpandOBJ(data *OBJData) (*MeshBuffers, []OBJIssue) {
	pool := &data.Pool
	n := len(data.Faces) * 3

	mesh := &MeshBuffers{
		Positions: make([]float32, 0, n*3),
	}
	var issues []OBJIssue

	for i := range data.Faces {
		face := &data.Faces[i]
		hasTex := face.HasTexCoords()
		hasNormals := face.HasNormals()

		if err := checkOBJFace(pool, face, hasTex, hasNormals); err != nil {
			issues = append(issues, OBJIssue{Line: face.Line, Err: err})
			continue
		}

		var corners [3]math.Vec3
		var uvs [3]math.Vec2
		for c, corner := range face.Corners {
			corners[c] = vec3At(pool.Positions, corner.Position)
			mesh.Positions = append(mesh.Positions, pool.Positions[3*corner.Position:3*corner.Position+3]...)

			if hasTex {
				uvs[c] = vec2At(pool.TexCoords, corner.TexCoord)
				mesh.TexCoords = append(mesh.TexCoords, pool.TexCoords[2*corner.TexCoord:2*corner.TexCoord+2]...)
			}
			if hasNormals {
				mesh.Normals = append(mesh.Normals, pool.Normals[3*corner.Normal:3*corner.Normal+3]...)
			}
		}

		if !hasTex || !hasNormals {
			continue
		}

		tangent, bitangent, err := faceTangentBasis(corners, uvs)
		if err != nil {
			issues = append(issues, OBJIssue{Line: face.Line, Err: err})
		}
		t := tangent.Array()
		b := bitangent.Array()
		for c := 0; c < 3; c++ {
			mesh.Tangents = append(mesh.Tangents, t[:]...)
			mesh.Bitangents = append(mesh.Bitangents, b[:]...)
		}
	}

	return mesh, issues
}

// checkOBJFace validates every index the face will read.
func checkOBJFace(pool *OBJPool, face *OBJFace, hasTex, hasNormals bool) error {
	for c, corner := range face.Corners {
		if corner.Position < 0 || corner.Position >= pool.PositionCount() {
			return fmt.Errorf("%w: corner %d position %d (have %d)",
				ErrOBJIndexOutOfRange, c, corner.Position+1, pool.PositionCount())
		}
		if hasTex && (corner.TexCoord < 0 || corner.TexCoord >= pool.TexCoordCount()) {
			return fmt.Errorf("%w: corner %d texture coordinate %d (have %d)",
				ErrOBJIndexOutOfRange, c, corner.TexCoord+1, pool.TexCoordCount())
		}
		if hasNormals && (corner.Normal < 0 || corner.Normal >= pool.NormalCount()) {
			return fmt.Errorf("%w: corner %d normal %d (have %d)",
				ErrOBJIndexOutOfRange, c, corner.Normal+1, pool.NormalCount())
		}
	}
	return nil
}

// faceTangentBasis solves for the unit tangent and bitangent of a triangle
// from its edge vectors and UV deltas. A collapsed UV or position triangle
// returns zero vectors with ErrOBJDegenerateUV.
func faceTangentBasis(p [3]math.Vec3, uv [3]math.Vec2) (tangent, bitangent math.Vec3, err error) {
	e1 := p[1].Sub(p[0])
	e2 := p[2].Sub(p[0])
	duv1 := uv[1].Sub(uv[0])
	duv2 := uv[2].Sub(uv[0])

	det := duv1.Cross(duv2)
	if math32.Abs(det) < objMinUVDeterminant {
		return math.Vec3{}, math.Vec3{}, fmt.Errorf("%w: uv determinant %g", ErrOBJDegenerateUV, det)
	}
	invDet := 1 / det

	tangent = e1.Scale(duv2.Y).Sub(e2.Scale(duv1.Y)).Scale(invDet).Normalize()
	bitangent = e2.Scale(duv1.X).Sub(e1.Scale(duv2.X)).Scale(invDet).Normalize()
	if tangent.IsZero() || bitangent.IsZero() {
		return math.Vec3{}, math.Vec3{}, fmt.Errorf("%w: zero-length edge", ErrOBJDegenerateUV)
	}

	return tangent, bitangent, nil
}

func vec3At(s []float32, i int) math.Vec3 {
	return math.Vec3{X: s[3*i], Y: s[3*i+1], Z: s[3*i+2]}
}

func vec2At(s []float32, i int) math.Vec2 {
	return math.Vec2{X: s[2*i], Y: s[2*i+1]}
}
