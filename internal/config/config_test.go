package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 640 || cfg.Graphics.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	cam := cfg.Viewer.Camera
	if cam.Eye != [3]float32{4, 3, 3} {
		t.Errorf("expected eye (4,3,3), got %v", cam.Eye)
	}
	if cam.FOV != 45 || cam.Near != 0.1 || cam.Far != 100 {
		t.Errorf("unexpected projection defaults: fov=%v near=%v far=%v", cam.FOV, cam.Near, cam.Far)
	}

	if cfg.Controls.TranslateStep != 0.05 {
		t.Errorf("expected translate step 0.05, got %v", cfg.Controls.TranslateStep)
	}
	if cfg.Controls.RotateStepDegrees != 15 {
		t.Errorf("expected rotate step 15, got %v", cfg.Controls.RotateStepDegrees)
	}
	if cfg.Controls.MaxScale != 20 {
		t.Errorf("expected max scale 20, got %v", cfg.Controls.MaxScale)
	}

	if cfg.Screenshot.Format != ScreenshotPNG {
		t.Errorf("expected png screenshots, got %s", cfg.Screenshot.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshview.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  vsync: false
  fps_limit: 60
  background: [1, 1, 1]

viewer:
  model: "models/doggo.obj"
  normal_map: "textures/doggo_n.png"
  hot_reload: false
  camera:
    eye: [0, 0, 5]
    fov: 60

controls:
  translate_step: 0.1
  rotate_axis: [0, 1, 0]

screenshot:
  format: webp

logging:
  level: "debug"
  log_file: "meshview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.Background != [3]float32{1, 1, 1} {
		t.Errorf("expected white background, got %v", cfg.Graphics.Background)
	}
	if cfg.Viewer.Model != "models/doggo.obj" {
		t.Errorf("expected model path, got %q", cfg.Viewer.Model)
	}
	if cfg.Viewer.NormalMap != "textures/doggo_n.png" {
		t.Errorf("expected normal map path, got %q", cfg.Viewer.NormalMap)
	}
	if cfg.Viewer.HotReload {
		t.Error("expected hot_reload to be false")
	}
	if cfg.Viewer.Camera.Eye != [3]float32{0, 0, 5} {
		t.Errorf("expected eye (0,0,5), got %v", cfg.Viewer.Camera.Eye)
	}
	if cfg.Viewer.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %v", cfg.Viewer.Camera.FOV)
	}
	// Unset keys keep their defaults
	if cfg.Viewer.Camera.Far != 100 {
		t.Errorf("expected far 100 kept from defaults, got %v", cfg.Viewer.Camera.Far)
	}
	if cfg.Controls.TranslateStep != 0.1 {
		t.Errorf("expected translate step 0.1, got %v", cfg.Controls.TranslateStep)
	}
	if cfg.Controls.RotateAxis != [3]float32{0, 1, 0} {
		t.Errorf("expected rotate axis (0,1,0), got %v", cfg.Controls.RotateAxis)
	}
	if cfg.Screenshot.Format != ScreenshotWebP {
		t.Errorf("expected webp, got %s", cfg.Screenshot.Format)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "meshview.log" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/meshview.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "window size"},
		{"negative fps", func(c *Config) { c.Graphics.FPSLimit = -1 }, "fps_limit"},
		{"fov too wide", func(c *Config) { c.Viewer.Camera.FOV = 180 }, "fov"},
		{"far before near", func(c *Config) { c.Viewer.Camera.Far = 0.01 }, "clip range"},
		{"eye on target", func(c *Config) { c.Viewer.Camera.Eye = c.Viewer.Camera.Target }, "coincide"},
		{"inverted scale", func(c *Config) { c.Controls.MaxScale = -1 }, "scale range"},
		{"unknown format", func(c *Config) { c.Screenshot.Format = "gif" }, "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meshview.yaml")

	cfg := Default()
	cfg.Viewer.Model = "cube.obj"
	cfg.Controls.ScaleStep = 0.5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Viewer.Model != "cube.obj" || loaded.Controls.ScaleStep != 0.5 {
		t.Errorf("saved values not restored: model=%q scale_step=%v", loaded.Viewer.Model, loaded.Controls.ScaleStep)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "meshview.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find meshview.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "model and textures",
			setup: func() {
				*flagModel = "doggo.obj"
				*flagTexture = "doggo.tga"
				*flagNormalMap = "doggo_n.bmp"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.Model != "doggo.obj" {
					t.Errorf("expected model doggo.obj, got %s", cfg.Viewer.Model)
				}
				if cfg.Viewer.Texture != "doggo.tga" {
					t.Errorf("expected texture doggo.tga, got %s", cfg.Viewer.Texture)
				}
				if cfg.Viewer.NormalMap != "doggo_n.bmp" {
					t.Errorf("expected normal map doggo_n.bmp, got %s", cfg.Viewer.NormalMap)
				}
			},
			teardown: func() {
				*flagModel = ""
				*flagTexture = ""
				*flagNormalMap = ""
			},
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "no-reload flag",
			setup: func() { *flagNoReload = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.HotReload {
					t.Error("expected hot reload to be disabled")
				}
			},
			teardown: func() { *flagNoReload = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshview.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
viewer:
  model: from-file.obj
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	*flagModel = "from-flag.obj"
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagModel = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Viewer.Model != "from-flag.obj" {
		t.Errorf("expected model from flag, got %s", cfg.Viewer.Model)
	}
	// File beats default
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "meshview.yaml")
	if err := os.WriteFile(configPath, []byte("screenshot:\n  format: gif\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject an invalid config")
	}
}
