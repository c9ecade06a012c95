// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Screenshot formats.
const (
	ScreenshotPNG  = "png"
	ScreenshotWebP = "webp"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Controls   ControlsConfig   `yaml:"controls"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"`
	Background [3]float32 `yaml:"background"`
}

// ViewerConfig holds what to show and how to shade it.
type ViewerConfig struct {
	Model          string       `yaml:"model"`           // OBJ file to load at startup
	Texture        string       `yaml:"texture"`         // Optional diffuse texture
	NormalMap      string       `yaml:"normal_map"`      // Optional tangent-space normal map
	VertexShader   string       `yaml:"vertex_shader"`   // Overrides the embedded shader when set
	FragmentShader string       `yaml:"fragment_shader"` // Overrides the embedded shader when set
	ObjectColor    [3]float32   `yaml:"object_color"`
	HotReload      bool         `yaml:"hot_reload"`
	Camera         CameraConfig `yaml:"camera"`
}

// CameraConfig holds the fixed look-at camera.
type CameraConfig struct {
	Eye      [3]float32 `yaml:"eye"`
	Target   [3]float32 `yaml:"target"`
	FOV      float32    `yaml:"fov"` // Vertical field of view in degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	ZoomStep float32    `yaml:"zoom_step"` // Fraction of the eye distance per wheel notch
}

// ControlsConfig holds per-frame keyboard step sizes.
type ControlsConfig struct {
	TranslateStep     float32    `yaml:"translate_step"`
	RotateStepDegrees float32    `yaml:"rotate_step_degrees"`
	RotateAxis        [3]float32 `yaml:"rotate_axis"`
	ScaleStep         float32    `yaml:"scale_step"`
	MinScale          float32    `yaml:"min_scale"`
	MaxScale          float32    `yaml:"max_scale"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // "png" or "webp"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      640,
			Height:     480,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Background: [3]float32{0.1, 0.1, 0.15},
		},
		Viewer: ViewerConfig{
			ObjectColor: [3]float32{1, 1, 1},
			HotReload:   true,
			Camera: CameraConfig{
				Eye:      [3]float32{4, 3, 3},
				Target:   [3]float32{0, 0, 0},
				FOV:      45,
				Near:     0.1,
				Far:      100,
				ZoomStep: 0.1,
			},
		},
		Controls: ControlsConfig{
			TranslateStep:     0.05,
			RotateStepDegrees: 15,
			RotateAxis:        [3]float32{4, 3, 3},
			ScaleStep:         0.01,
			MinScale:          0,
			MaxScale:          20,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: ScreenshotPNG,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("graphics: negative fps_limit %d", c.Graphics.FPSLimit))
	}

	cam := c.Viewer.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		errs = append(errs, fmt.Errorf("viewer.camera: fov %.1f out of range (0, 180)", cam.FOV))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, fmt.Errorf("viewer.camera: invalid clip range near=%g far=%g", cam.Near, cam.Far))
	}
	if cam.Eye == cam.Target {
		errs = append(errs, errors.New("viewer.camera: eye and target coincide"))
	}

	if c.Controls.MinScale < 0 || c.Controls.MaxScale < c.Controls.MinScale {
		errs = append(errs, fmt.Errorf("controls: invalid scale range [%g, %g]", c.Controls.MinScale, c.Controls.MaxScale))
	}

	switch c.Screenshot.Format {
	case ScreenshotPNG, ScreenshotWebP:
	default:
		errs = append(errs, fmt.Errorf("screenshot: unknown format %q", c.Screenshot.Format))
	}

	return errors.Join(errs...)
}
