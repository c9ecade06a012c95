// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/renderer/shaders"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

// DefaultMeshShaders returns the embedded model shader pair.
func DefaultMeshShaders() shader.Sources {
	return shader.Sources{
		Vertex:   shaders.MeshVertexShader,
		Fragment: shaders.MeshFragmentShader,
	}
}

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	Background  [3]float32
	ObjectColor [3]float32
	MeshShaders shader.Sources
}

// Frame holds the per-frame matrices.
type Frame struct {
	Model      math.Mat4
	View       math.Mat4
	Projection math.Mat4
	Eye        math.Vec3
}

// Renderer draws a single model with optional diffuse and normal maps.
type Renderer struct {
	config Config

	meshProgram uint32
	bboxProgram uint32
	loc         struct {
		model, view, projection int32
		objectColor, eyePos     int32
		hasNormals              int32
		useTexture, diffuse     int32
		useNormalMap, normalMap int32
		bboxMVP, bboxColor      int32
	}

	model  *mesh.Mesh
	bounds *mesh.Mesh

	diffuseTex   uint32
	normalMapTex uint32

	// ShowBounds draws the model's bounding box.
	ShowBounds bool
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	if err := r.createPrograms(); err != nil {
		r.Close()
		return nil, err
	}

	if err := CheckError("renderer init"); err != nil {
		logger.Warn("GL error during init", zap.Error(err))
	}
	return r, nil
}

func (r *Renderer) createPrograms() error {
	var err error
	r.meshProgram, err = r.config.MeshShaders.Compile()
	if err != nil {
		return fmt.Errorf("mesh shader: %w", err)
	}
	r.bboxProgram, err = shader.CompileProgram(shaders.BBoxVertexShader, shaders.BBoxFragmentShader)
	if err != nil {
		return fmt.Errorf("bbox shader: %w", err)
	}

	p := r.meshProgram
	r.loc.model = shader.GetUniform(p, "uModel")
	r.loc.view = shader.GetUniform(p, "uView")
	r.loc.projection = shader.GetUniform(p, "uProjection")
	r.loc.objectColor = shader.GetUniform(p, "uObjectColor")
	r.loc.eyePos = shader.GetUniform(p, "uEyePos")
	r.loc.hasNormals = shader.GetUniform(p, "uHasNormals")
	r.loc.useTexture = shader.GetUniform(p, "uUseTexture")
	r.loc.diffuse = shader.GetUniform(p, "uDiffuse")
	r.loc.useNormalMap = shader.GetUniform(p, "uUseNormalMap")
	r.loc.normalMap = shader.GetUniform(p, "uNormalMap")

	r.loc.bboxMVP = shader.MustGetUniform(r.bboxProgram, "uMVP")
	r.loc.bboxColor = shader.MustGetUniform(r.bboxProgram, "uColor")

	logger.Debug("shader programs created",
		zap.Uint32("mesh", r.meshProgram),
		zap.Uint32("bbox", r.bboxProgram),
	)
	return nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.model.Destroy()
	r.bounds.Destroy()
	r.model, r.bounds = nil, nil
	deleteTexture(&r.diffuseTex)
	deleteTexture(&r.normalMapTex)
	if r.meshProgram != 0 {
		gl.DeleteProgram(r.meshProgram)
		r.meshProgram = 0
	}
	if r.bboxProgram != 0 {
		gl.DeleteProgram(r.bboxProgram)
		r.bboxProgram = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport width over height.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetMesh replaces the drawn model. A nil or empty mesh clears it.
func (r *Renderer) SetMesh(m *formats.MeshBuffers) {
	r.model.Destroy()
	r.bounds.Destroy()
	r.model, r.bounds = nil, nil

	if m.IsEmpty() {
		return
	}

	r.model = mesh.Upload(m)
	if lo, hi, ok := m.Bounds(); ok {
		r.bounds = mesh.UploadLines(debug.GenerateBBoxWireframeVertices(lo, hi))
	}

	logger.Debug("mesh uploaded",
		zap.Int("vertices", r.model.VertexCount()),
		zap.Bool("texcoords", r.model.HasTexCoords),
		zap.Bool("normals", r.model.HasNormals),
		zap.Bool("tangents", r.model.HasTangents),
	)
}

// SetTexture uploads img as the diffuse map. nil removes it.
func (r *Renderer) SetTexture(img image.Image) {
	deleteTexture(&r.diffuseTex)
	if img != nil {
		r.diffuseTex = uploadTexture(img)
	}
}

// SetNormalMap uploads img as the tangent-space normal map. nil removes it.
func (r *Renderer) SetNormalMap(img image.Image) {
	deleteTexture(&r.normalMapTex)
	if img != nil {
		r.normalMapTex = uploadTexture(img)
	}
}

// SetObjectColor sets the base colour multiplied into every fragment.
func (r *Renderer) SetObjectColor(c [3]float32) {
	r.config.ObjectColor = c
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Draw renders the current model with the frame's matrices.
func (r *Renderer) Draw(f Frame) {
	if r.model == nil {
		return
	}

	gl.UseProgram(r.meshProgram)
	gl.UniformMatrix4fv(r.loc.model, 1, false, f.Model.Ptr())
	gl.UniformMatrix4fv(r.loc.view, 1, false, f.View.Ptr())
	gl.UniformMatrix4fv(r.loc.projection, 1, false, f.Projection.Ptr())
	c := r.config.ObjectColor
	gl.Uniform3f(r.loc.objectColor, c[0], c[1], c[2])
	gl.Uniform3f(r.loc.eyePos, f.Eye.X, f.Eye.Y, f.Eye.Z)
	gl.Uniform1i(r.loc.hasNormals, boolToInt(r.model.HasNormals))

	useTexture := r.diffuseTex != 0 && r.model.HasTexCoords
	gl.Uniform1i(r.loc.useTexture, boolToInt(useTexture))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.diffuseTex)
	gl.Uniform1i(r.loc.diffuse, 0)

	useNormalMap := r.normalMapTex != 0 && r.model.HasTangents
	gl.Uniform1i(r.loc.useNormalMap, boolToInt(useNormalMap))
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.normalMapTex)
	gl.Uniform1i(r.loc.normalMap, 1)

	r.model.Draw()

	gl.ActiveTexture(gl.TEXTURE0)

	if r.ShowBounds && r.bounds != nil {
		mvp := f.Projection.Mul(f.View).Mul(f.Model)
		gl.UseProgram(r.bboxProgram)
		gl.UniformMatrix4fv(r.loc.bboxMVP, 1, false, mvp.Ptr())
		gl.Uniform3f(r.loc.bboxColor, 1, 1, 0)
		r.bounds.Draw()
	}
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

func uploadTexture(img image.Image) uint32 {
	rgba := texture.ImageToRGBA(img, true)

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(rgba.Bounds().Dx()), int32(rgba.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return texID
}

func deleteTexture(id *uint32) {
	if *id != 0 {
		gl.DeleteTextures(1, id)
		*id = 0
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
