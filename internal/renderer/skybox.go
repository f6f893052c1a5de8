package renderer

import (
	"Prism3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Skybox draws a cubemap around the camera. Faces that fail to load leave the
// placeholder cubemap in place; a failed shader leaves the skybox invisible.
type Skybox struct {
	device  Device
	mesh    uint32
	Cubemap *Texture
	Shader  *ShaderProgram
}

// Unit cube centered at the origin. The vertex shader writes w as depth so size is
// irrelevant.
var skyboxVertices = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,

	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,

	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,

	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,

	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,

	-1, -1, -1, -1, -1, 1, 1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,
}

const skyboxVertexCount = 36

// NewSkybox loads the six faces through the cache and builds the skybox program.
// The skybox is always returned; the error collects whatever went wrong.
func NewSkybox(device Device, cache *TextureCache, faces []string, vertexPath, fragmentPath string) (*Skybox, error) {
	var errs error

	cubemap, err := cache.LoadCubemap(faces)
	errs = multierr.Append(errs, err)

	shader, err := NewShaderProgram(device, vertexPath, fragmentPath)
	errs = multierr.Append(errs, err)

	skybox := &Skybox{
		device:  device,
		mesh:    device.CreateMesh(skyboxVertices, 3),
		Cubemap: cubemap,
		Shader:  shader,
	}
	if shader.Ready() {
		shader.Use()
		shader.SetInt("skybox", 0)
	}

	logger.Log.Info("Skybox created",
		zap.Uint32("cubemap", cubemap.ID),
		zap.Bool("placeholder", cubemap.Placeholder),
		zap.Bool("shaderReady", shader.Ready()))
	return skybox, errs
}

// SkyboxView removes the translation from a view matrix so the sky never moves
// relative to the camera.
func SkyboxView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}

// Render draws the skybox; call it after opaque geometry.
func (s *Skybox) Render(view, projection mgl32.Mat4) {
	if !s.Shader.Ready() {
		return
	}

	s.device.SetDepthMode(DepthSkybox)
	s.Shader.Use()
	s.Shader.SetMat4("view", SkyboxView(view))
	s.Shader.SetMat4("projection", projection)
	s.Cubemap.Bind(s.device, 0)
	s.device.DrawTriangles(s.mesh, skyboxVertexCount)
	s.device.SetDepthMode(DepthDefault)
}

// Delete releases the geometry and program. The cubemap belongs to the cache.
func (s *Skybox) Delete() {
	s.device.DeleteMesh(s.mesh)
	s.Shader.Delete()
	s.mesh = 0
}
