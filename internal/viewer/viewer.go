// Package viewer implements the interactive mesh viewer loop.
package viewer

import (
	"fmt"
	"image"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/transform"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

const title = "meshview"

type requestKind int

const (
	requestOpen requestKind = iota
)

// request is work posted to the render thread from another goroutine.
type request struct {
	kind requestKind
	path string
}

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	assets   *assets.Manager
	watcher  *assets.Watcher
	capture  *debug.ScreenshotCapture

	camera    *camera.LookAtCamera
	transform transform.Transform
	steps     transform.Steps

	modelPath string
	mesh      *formats.MeshBuffers

	pending             chan request
	dialogOpen          atomic.Bool
	screenshotRequested bool
}

// New creates the window and GL state and loads the configured model.
// A model that cannot be opened is an error; issues inside it are not.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:       cfg,
		log:       logger.Named("viewer"),
		transform: transform.New(),
		steps:     stepsFromConfig(cfg.Controls),
		camera:    cameraFromConfig(cfg.Viewer.Camera),
		pending:   make(chan request, 4),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("model", cfg.Viewer.Model),
	)

	var err error
	v.capture, err = debug.NewScreenshotCapture(cfg.Screenshot.Dir, title, cfg.Screenshot.Format)
	if err != nil {
		return nil, err
	}

	sources, err := shader.ReadSources(renderer.DefaultMeshShaders(), cfg.Viewer.VertexShader, cfg.Viewer.FragmentShader)
	if err != nil {
		return nil, err
	}

	// Window first: it creates the OpenGL context.
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:       width,
		Height:      height,
		Background:  cfg.Graphics.Background,
		ObjectColor: cfg.Viewer.ObjectColor,
		MeshShaders: sources,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Resize(width, height)

	v.input = input.New()
	v.assets = assets.NewManager(logger.Named("assets"))

	if cfg.Viewer.HotReload {
		v.watcher, err = assets.NewWatcher(v.assets, assets.DefaultReloadDelay)
		if err != nil {
			v.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	if cfg.Viewer.Model != "" {
		if err := v.openModel(cfg.Viewer.Model); err != nil {
			v.Close()
			return nil, err
		}
	} else {
		v.log.Info("no model given, press O to open one")
	}

	v.loadTexture(cfg.Viewer.Texture, v.renderer.SetTexture)
	v.loadTexture(cfg.Viewer.NormalMap, v.renderer.SetNormalMap)

	v.log.Info("viewer initialized")
	return v, nil
}

func stepsFromConfig(c config.ControlsConfig) transform.Steps {
	return transform.Steps{
		Translate:     c.TranslateStep,
		RotateDegrees: c.RotateStepDegrees,
		RotateAxis:    vec3(c.RotateAxis),
		Scale:         c.ScaleStep,
		MinScale:      c.MinScale,
		MaxScale:      c.MaxScale,
	}
}

func cameraFromConfig(c config.CameraConfig) *camera.LookAtCamera {
	cam := camera.NewLookAtCamera()
	cam.Eye = vec3(c.Eye)
	cam.Target = vec3(c.Target)
	cam.FOV = c.FOV
	cam.Near = c.Near
	cam.Far = c.Far
	cam.ZoomSensitivity = c.ZoomStep
	return cam
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// post queues a request for the render thread. It never blocks; a full
// queue drops the request.
func (v *Viewer) post(r request) {
	select {
	case v.pending <- r:
	default:
		v.log.Warn("dropping request, queue full", zap.String("path", r.path))
	}
}

// openModel loads path and makes it the displayed model. On failure the
// current model stays.
func (v *Viewer) openModel(path string) error {
	if v.modelPath != "" && v.watcher != nil {
		v.watcher.Unwatch(v.modelPath)
	}
	// Opening a model always rereads it.
	v.assets.Invalidate(path)

	mesh, err := v.assets.LoadMesh(path)
	if err != nil {
		if v.modelPath != "" && v.watcher != nil {
			v.watch(v.modelPath)
		}
		return fmt.Errorf("loading model: %w", err)
	}

	v.modelPath = path
	v.showMesh(mesh)
	v.watch(path)
	v.transform = transform.New()
	return nil
}

// reloadModel rereads the current model after it changed on disk.
func (v *Viewer) reloadModel() {
	mesh, err := v.assets.LoadMesh(v.modelPath)
	if err != nil {
		v.log.Warn("reload failed, keeping previous mesh", zap.Error(err))
		return
	}
	v.showMesh(mesh)
}

func (v *Viewer) showMesh(mesh *formats.MeshBuffers) {
	v.mesh = mesh
	v.renderer.SetMesh(mesh)
	v.window.SetTitle(fmt.Sprintf("%s - %s (%d triangles)", title, filepath.Base(v.modelPath), mesh.TriangleCount()))
}

func (v *Viewer) loadTexture(path string, set func(img image.Image)) {
	if path == "" {
		return
	}
	img, err := v.assets.LoadImage(path)
	if err != nil {
		return
	}
	set(img)
	v.watch(path)
}

func (v *Viewer) watch(path string) {
	if v.watcher == nil {
		return
	}
	if err := v.watcher.Watch(path); err != nil {
		v.log.Warn("cannot watch file", zap.String("path", path), zap.Error(err))
	}
}

// frameModel points the camera at the model's bounding box.
func (v *Viewer) frameModel() {
	lo, hi, ok := v.mesh.Bounds()
	if !ok {
		return
	}
	v.camera.FitToBounds(lo, hi)
}

// Run starts the main loop. It returns when the window is closed or
// Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime)
		lastTime = frameStart

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.handleRequests()

		keys := keyStateFrom(v.input.IsKeyHeld)
		v.transform = transform.ApplyKeys(v.transform, keys, v.steps)

		v.render()

		if v.screenshotRequested {
			v.screenshotRequested = false
			v.takeScreenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if d := frameDelay(v.window.VSync(), v.cfg.Graphics.FPSLimit, time.Since(frameStart)); d > 0 {
			time.Sleep(d)
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := v.window.GetSize()
			v.renderer.Resize(w, h)

		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(event.WheelY))

		case input.EventFileDrop:
			v.post(request{kind: requestOpen, path: event.Path})

		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			switch event.Key {
			case keyQuit:
				v.running = false
			case keyOpen:
				v.openFileDialog()
			case keyFrame:
				v.frameModel()
			case keyBounds:
				v.renderer.ShowBounds = !v.renderer.ShowBounds
			case keyReset:
				v.transform = transform.New()
			case keyScreenshot:
				v.screenshotRequested = true
			}
		}
	}
}

// handleRequests drains work posted by the dialog and the file watcher.
func (v *Viewer) handleRequests() {
	for {
		select {
		case r := <-v.pending:
			if r.kind == requestOpen {
				if err := v.openModel(r.path); err != nil {
					v.log.Error("cannot open model", zap.String("path", r.path), zap.Error(err))
				}
			}
		case path := <-v.watcherChanges():
			v.handleChange(path)
		default:
			return
		}
	}
}

func (v *Viewer) watcherChanges() <-chan string {
	if v.watcher == nil {
		return nil
	}
	return v.watcher.Changes()
}

func (v *Viewer) handleChange(path string) {
	same := func(p string) bool {
		if p == "" {
			return false
		}
		abs, err := filepath.Abs(p)
		return err == nil && abs == path
	}

	switch {
	case same(v.modelPath):
		v.reloadModel()
	case same(v.cfg.Viewer.Texture):
		v.loadTexture(v.cfg.Viewer.Texture, v.renderer.SetTexture)
	case same(v.cfg.Viewer.NormalMap):
		v.loadTexture(v.cfg.Viewer.NormalMap, v.renderer.SetNormalMap)
	}
}

func (v *Viewer) render() {
	v.renderer.Begin()
	v.renderer.Draw(renderer.Frame{
		Model:      v.transform.Model,
		View:       v.camera.ViewMatrix(),
		Projection: v.camera.ProjectionMatrix(v.renderer.Aspect()),
		Eye:        v.camera.Eye,
	})
	v.renderer.End()

	if err := renderer.CheckError("frame"); err != nil {
		v.log.Warn("GL error", zap.Error(err))
	}
}

func (v *Viewer) takeScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.capture.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GL, window and watcher resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Debug("closing watcher", zap.Error(err))
		}
		v.watcher = nil
	}
	if v.assets != nil {
		v.assets.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
