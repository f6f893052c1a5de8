package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Camera.Speed != 6.0 {
		t.Errorf("expected default speed 6, got %f", cfg.Camera.Speed)
	}
	if _, ok := cfg.Shaders["default"]; !ok {
		t.Error("default shader should be configured")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Window.Width != Default().Window.Width {
		t.Error("expected default window width")
	}
}

func TestLoadOverridesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"window": {"width": 1024, "height": 768, "title": "demo"},
		"camera": {"speed": 3, "min_fov": 44.4, "max_fov": 45.6},
		"materials": {"floor": {"preset": "gold"}},
		"debug_uniforms": true
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Title != "demo" {
		t.Errorf("window not overridden: %+v", cfg.Window)
	}
	if cfg.Camera.Speed != 3 {
		t.Errorf("expected speed 3, got %f", cfg.Camera.Speed)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Camera.Sensitivity != 0.1 {
		t.Errorf("expected default sensitivity, got %f", cfg.Camera.Sensitivity)
	}
	if cfg.Materials["floor"].Preset != "gold" {
		t.Error("material preset not loaded")
	}
	if !cfg.DebugUniforms {
		t.Error("debug_uniforms should be true")
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Window.Width != Default().Window.Width {
		t.Error("defaults should be returned alongside the error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"inverted fov": func(c *Config) { c.Camera.MinFov, c.Camera.MaxFov = 60, 30 },
		"zero width":   func(c *Config) { c.Window.Width = 0 },
		"skybox faces": func(c *Config) { c.Skybox = []string{"a", "b"} },
		"half shader":  func(c *Config) { c.Shaders["broken"] = ShaderConfig{Vertex: "a.vs"} },
		"clip planes":  func(c *Config) { c.Camera.Near = 0 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
