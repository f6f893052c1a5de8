package engine

import (
	"fmt"
	"sort"

	"Prism3D/internal/config"
	"Prism3D/internal/logger"
	"Prism3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	defaultShader   = "default"
	skyboxShader    = "skybox"
	defaultMaterial = "default"
	noiseTexture    = "noise"

	noiseSize = 256
	noiseSeed = 1337
)

var triangleVertices = []float32{
	-0.5, -0.5, 0.0,
	0.5, -0.5, 0.0,
	0.0, 0.5, 0.0,
}

// Scene owns everything the demo draws: named programs and materials, the texture
// cache and the camera.
type Scene struct {
	device renderer.Device
	cfg    config.Config

	Camera   *renderer.Camera
	Textures *renderer.TextureCache

	shaders   map[string]*renderer.ShaderProgram
	materials map[string]renderer.Material
	textures  map[string]*renderer.Texture
	skybox    *renderer.Skybox
	watcher   *renderer.ShaderWatcher
	triangle  uint32
}

func NewScene(device renderer.Device, cfg config.Config, opts ...renderer.TextureCacheOption) *Scene {
	camera := renderer.NewDefaultCamera()
	camera.Speed = cfg.Camera.Speed
	camera.Sensitivity = cfg.Camera.Sensitivity
	camera.ScrollSensitivity = cfg.Camera.ScrollSensitivity
	camera.Fov = cfg.Camera.Fov
	camera.SetFovRange(cfg.Camera.MinFov, cfg.Camera.MaxFov)

	return &Scene{
		device:    device,
		cfg:       cfg,
		Camera:    camera,
		Textures:  renderer.NewTextureCache(device, opts...),
		shaders:   make(map[string]*renderer.ShaderProgram),
		materials: make(map[string]renderer.Material),
		textures:  make(map[string]*renderer.Texture),
	}
}

// SetupFromConfig builds every resource the configuration names. Failures are logged and
// collected; the scene stays drawable with whatever did load.
func (s *Scene) SetupFromConfig() error {
	var errs error

	var opts []renderer.ShaderOption
	if s.cfg.DebugUniforms {
		opts = append(opts, renderer.WithUniformWarnings())
	}
	for _, name := range sortedKeys(s.cfg.Shaders) {
		if name == skyboxShader {
			continue // built by the skybox itself
		}
		sc := s.cfg.Shaders[name]
		shader, err := renderer.NewShaderProgram(s.device, sc.Vertex, sc.Fragment, opts...)
		s.shaders[name] = shader
		errs = multierr.Append(errs, wrapf(err, "shader %q", name))
	}

	s.materials[defaultMaterial] = renderer.NewMaterial().Build()
	for name, mc := range s.cfg.Materials {
		material, err := buildMaterial(mc)
		s.materials[name] = material
		errs = multierr.Append(errs, wrapf(err, "material %q", name))
	}

	for name, tc := range s.cfg.Textures {
		texture, err := s.Textures.GetOrLoad(tc.Path, renderer.ParseTextureKind(tc.Kind), tc.Flip)
		s.textures[name] = texture
		errs = multierr.Append(errs, err)
	}
	if _, ok := s.textures[noiseTexture]; !ok {
		s.textures[noiseTexture] = s.Textures.CreateRaw(noiseTexture,
			renderer.NoiseImage(noiseSize, noiseSeed), renderer.KindHeight)
	}

	if len(s.cfg.Skybox) > 0 {
		vs, fs := "shaders/skybox.vs", "shaders/skybox.fs"
		if sc, ok := s.cfg.Shaders[skyboxShader]; ok {
			vs, fs = sc.Vertex, sc.Fragment
		}
		skybox, err := renderer.NewSkybox(s.device, s.Textures, s.cfg.Skybox, vs, fs)
		s.skybox = skybox
		errs = multierr.Append(errs, wrapf(err, "skybox"))
	}

	s.triangle = s.device.CreateMesh(triangleVertices, 3)

	logger.Log.Info("Scene ready",
		zap.Int("shaders", len(s.shaders)),
		zap.Int("materials", len(s.materials)),
		zap.Int("textures", len(s.textures)),
		zap.Bool("skybox", s.skybox != nil),
		zap.Int("errors", len(multierr.Errors(errs))))
	return errs
}

func buildMaterial(mc config.MaterialConfig) (renderer.Material, error) {
	builder := renderer.NewMaterial()
	var err error
	if mc.Preset != "" {
		preset, ok := renderer.MaterialPreset(mc.Preset)
		if ok {
			builder = preset.ToBuilder()
		} else {
			err = fmt.Errorf("unknown preset %q (have %v)", mc.Preset, renderer.MaterialPresetNames())
		}
	}
	if mc.Ambient != nil {
		builder = builder.WithAmbient(mgl32.Vec3(*mc.Ambient))
	}
	if mc.Diffuse != nil {
		builder = builder.WithDiffuse(mgl32.Vec3(*mc.Diffuse))
	}
	if mc.Specular != nil {
		builder = builder.WithSpecular(mgl32.Vec3(*mc.Specular))
	}
	if mc.Shininess != nil {
		builder = builder.WithShininess(*mc.Shininess)
	}
	return builder.Build(), err
}

func (s *Scene) Shader(name string) (*renderer.ShaderProgram, bool) {
	shader, ok := s.shaders[name]
	return shader, ok
}

func (s *Scene) Material(name string) (renderer.Material, bool) {
	material, ok := s.materials[name]
	return material, ok
}

func (s *Scene) Texture(name string) (*renderer.Texture, bool) {
	texture, ok := s.textures[name]
	return texture, ok
}

// EnableHotReload starts watching every shader source; changes are picked up by Update.
func (s *Scene) EnableHotReload() error {
	watcher, err := renderer.NewShaderWatcher()
	if err != nil {
		return err
	}
	var errs error
	for _, shader := range s.allShaders() {
		errs = multierr.Append(errs, watcher.Watch(shader))
	}
	s.watcher = watcher
	return errs
}

// ReloadShaders rebuilds every program, the skybox's included.
func (s *Scene) ReloadShaders() error {
	var errs error
	for _, shader := range s.allShaders() {
		errs = multierr.Append(errs, shader.Reload())
	}
	if errs != nil {
		logger.Log.Warn("Some shaders failed to reload", zap.Error(errs))
	} else {
		logger.Log.Info("All shaders reloaded")
	}
	return errs
}

func (s *Scene) allShaders() []*renderer.ShaderProgram {
	shaders := make([]*renderer.ShaderProgram, 0, len(s.shaders)+1)
	for _, name := range sortedKeys(s.shaders) {
		shaders = append(shaders, s.shaders[name])
	}
	if s.skybox != nil {
		shaders = append(shaders, s.skybox.Shader)
	}
	return shaders
}

// Update advances the camera and applies pending hot reloads. Render thread only.
func (s *Scene) Update(input renderer.InputState, deltaTime float32) {
	if input != nil {
		s.Camera.ProcessInput(input, deltaTime)
	}
	s.Camera.Update()

	if s.watcher != nil {
		if _, err := s.watcher.ReloadPending(); err != nil {
			logger.Log.Warn("Hot reload failed", zap.Error(err))
		}
	}
}

// Draw renders the triangle with the default program and material, then the skybox.
func (s *Scene) Draw(aspect, time float32) {
	view := s.Camera.ViewMatrix()
	projection := s.Camera.ProjectionMatrix(aspect, s.cfg.Camera.Near, s.cfg.Camera.Far)

	if shader, ok := s.shaders[defaultShader]; ok && shader.Ready() {
		shader.Use()
		shader.SetMat4("model", mgl32.Ident4())
		shader.SetMat4("view", view)
		shader.SetMat4("projection", projection)
		shader.SetVec3("viewPos", s.Camera.Position)
		shader.SetFloat("time", time)
		s.materials[defaultMaterial].Apply(shader, "material")

		unit := uint32(0)
		for _, name := range []string{"diffuse", noiseTexture} {
			texture, ok := s.textures[name]
			if !ok {
				continue
			}
			texture.Bind(s.device, unit)
			shader.SetInt(name+"Map", int32(unit))
			unit++
		}
		shader.SetBool("hasDiffuseMap", s.textures["diffuse"] != nil)

		s.device.DrawTriangles(s.triangle, int32(len(triangleVertices)/3))
	}

	if s.skybox != nil {
		s.skybox.Render(view, projection)
	}
}

// Close releases every GPU object the scene created.
func (s *Scene) Close() error {
	var err error
	if s.watcher != nil {
		err = s.watcher.Close()
		s.watcher = nil
	}
	for _, shader := range s.shaders {
		shader.Delete()
	}
	if s.skybox != nil {
		s.skybox.Delete()
	}
	s.device.DeleteMesh(s.triangle)
	s.triangle = 0
	s.Textures.LogStats()
	s.Textures.Clear()
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
