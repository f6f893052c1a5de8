package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type WindowConfig struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  bool   `json:"vsync"`
}

type CameraConfig struct {
	Speed             float32 `json:"speed"`
	Sensitivity       float32 `json:"sensitivity"`
	ScrollSensitivity float32 `json:"scroll_sensitivity"`
	Fov               float32 `json:"fov"`
	MinFov            float32 `json:"min_fov"`
	MaxFov            float32 `json:"max_fov"`
	Near              float32 `json:"near"`
	Far               float32 `json:"far"`
}

type LoggingConfig struct {
	Console bool   `json:"console"`
	File    bool   `json:"file"`
	Path    string `json:"path"`
	Level   string `json:"level"`
}

// ShaderConfig names one vertex/fragment source pair.
type ShaderConfig struct {
	Vertex   string `json:"vertex"`
	Fragment string `json:"fragment"`
}

type TextureConfig struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Flip bool   `json:"flip"`
}

// MaterialConfig either names a preset or spells out the coefficients.
type MaterialConfig struct {
	Preset    string      `json:"preset,omitempty"`
	Ambient   *[3]float32 `json:"ambient,omitempty"`
	Diffuse   *[3]float32 `json:"diffuse,omitempty"`
	Specular  *[3]float32 `json:"specular,omitempty"`
	Shininess *float32    `json:"shininess,omitempty"`
}

type Config struct {
	Window    WindowConfig              `json:"window"`
	Camera    CameraConfig              `json:"camera"`
	Logging   LoggingConfig             `json:"logging"`
	Shaders   map[string]ShaderConfig   `json:"shaders"`
	Textures  map[string]TextureConfig  `json:"textures,omitempty"`
	Materials map[string]MaterialConfig `json:"materials,omitempty"`
	Skybox    []string                  `json:"skybox,omitempty"`

	// Development switches
	DebugUniforms bool `json:"debug_uniforms"`
	HotReload     bool `json:"hot_reload"`
	Wireframe     bool `json:"wireframe"`
}

// Default returns the configuration the demo runs with when no file is present.
// The fov range is 1-90 degrees; a narrow range such as 44.4-45.6 makes scroll zoom
// nearly invisible and can still be restored through the file.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "3D engine",
			VSync:  true,
		},
		Camera: CameraConfig{
			Speed:             6.0,
			Sensitivity:       0.1,
			ScrollSensitivity: 0.2,
			Fov:               45.0,
			MinFov:            1.0,
			MaxFov:            90.0,
			Near:              0.1,
			Far:               100.0,
		},
		Logging: LoggingConfig{
			Console: true,
			File:    true,
			Path:    "log.txt",
			Level:   "DEBUG",
		},
		Shaders: map[string]ShaderConfig{
			"default": {Vertex: "shaders/default.vs", Fragment: "shaders/default.fs"},
		},
		Materials: map[string]MaterialConfig{
			"default": {Preset: "black_plastic"},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.MinFov > c.Camera.MaxFov {
		return fmt.Errorf("camera min_fov %.2f exceeds max_fov %.2f", c.Camera.MinFov, c.Camera.MaxFov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip planes invalid: near %.3f far %.3f", c.Camera.Near, c.Camera.Far)
	}
	if len(c.Skybox) != 0 && len(c.Skybox) != 6 {
		return fmt.Errorf("skybox needs 6 faces, got %d", len(c.Skybox))
	}
	for name, s := range c.Shaders {
		if s.Vertex == "" || s.Fragment == "" {
			return fmt.Errorf("shader %q needs both vertex and fragment paths", name)
		}
	}
	return nil
}
