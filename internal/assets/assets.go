// Package assets loads and caches the viewer's models and images.
package assets

import (
	"errors"
	"image"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

// Manager loads assets from disk and caches them by path.
// It is safe for concurrent use.
type Manager struct {
	log    *zap.Logger
	meshes *Cache[*formats.MeshBuffers]
	images *Cache[image.Image]
}

// NewManager creates a new asset manager. A nil log uses the global logger.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = logger.Named("assets")
	}
	return &Manager{
		log:    log,
		meshes: NewCache[*formats.MeshBuffers](),
		images: NewCache[image.Image](),
	}
}

// LoadMesh returns the expanded mesh for the OBJ file at path.
//
// Every parse or expansion issue is logged as a warning and the load goes
// on. A file that cannot be opened or read is logged as an error and
// returns nil buffers.
func (m *Manager) LoadMesh(path string) (*formats.MeshBuffers, error) {
	key := cacheKey(path)
	if mesh, ok := m.meshes.Get(key); ok {
		return mesh, nil
	}

	mesh, issues, err := formats.LoadOBJ(path)
	if err != nil {
		m.log.Error("unable to load mesh", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	for _, issue := range issues {
		fields := []zap.Field{
			zap.String("path", path),
			zap.Int("line", issue.Line),
			zap.Error(issue.Err),
		}
		if issue.Text != "" {
			fields = append(fields, zap.String("text", issue.Text))
		}
		m.log.Warn(IssueKind(issue.Err), fields...)
	}

	m.log.Info("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("faces", mesh.TriangleCount()),
		zap.Int("issues", len(issues)),
	)

	m.meshes.Set(key, mesh)
	return mesh, nil
}

// LoadImage decodes the image at path.
func (m *Manager) LoadImage(path string) (image.Image, error) {
	key := cacheKey(path)
	if img, ok := m.images.Get(key); ok {
		return img, nil
	}

	img, err := texture.LoadFile(path)
	if err != nil {
		m.log.Error("unable to load image", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	b := img.Bounds()
	m.log.Info("image loaded",
		zap.String("path", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)

	m.images.Set(key, img)
	return img, nil
}

// Invalidate drops any cached asset for path so the next load rereads it.
// It reports whether anything was cached.
func (m *Manager) Invalidate(path string) bool {
	key := cacheKey(path)
	droppedMesh := m.meshes.Delete(key)
	droppedImage := m.images.Delete(key)
	if droppedMesh || droppedImage {
		m.log.Debug("asset invalidated", zap.String("path", path))
	}
	return droppedMesh || droppedImage
}

// Close drops every cached asset.
func (m *Manager) Close() {
	m.meshes.Clear()
	m.images.Clear()
}

// IssueKind returns a short log message for an OBJ issue.
func IssueKind(err error) string {
	switch {
	case errors.Is(err, formats.ErrOBJUnexpectedDirective):
		return "unexpected directive"
	case errors.Is(err, formats.ErrOBJUnsupportedDirective),
		errors.Is(err, formats.ErrOBJFreeFormGeometry):
		return "unsupported directive"
	case errors.Is(err, formats.ErrOBJMalformedNumber),
		errors.Is(err, formats.ErrOBJTooFewCorners),
		errors.Is(err, formats.ErrOBJInvalidIndex):
		return "malformed data"
	case errors.Is(err, formats.ErrOBJIndexOutOfRange):
		return "face index out of range"
	case errors.Is(err, formats.ErrOBJDegenerateUV):
		return "degenerate tangent basis"
	default:
		return "obj issue"
	}
}

// cacheKey resolves path so relative and absolute spellings share an entry.
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
