package renderer

import (
	"os"

	"Prism3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// =============================================================
//
//	Shaders
//
// =============================================================

// ShaderProgram is a linked vertex+fragment program built from two source files.
// A failed build never aborts: the program is left with a zero handle, Ready reports
// false and Use binds nothing.
type ShaderProgram struct {
	device         Device
	program        uint32
	linked         bool
	vertexPath     string
	fragmentPath   string
	uniformWarning *UniformWarnings
}

type ShaderOption func(*ShaderProgram)

// WithUniformWarnings logs a warning the first time each unknown uniform is set.
// Meant for development builds; release builds keep the driver's silent no-op.
func WithUniformWarnings() ShaderOption {
	return func(s *ShaderProgram) {
		s.uniformWarning = NewUniformWarnings()
	}
}

// NewShaderProgram reads, compiles and links the two sources. The returned program is
// never nil; the error lists every failure along the way (also logged).
func NewShaderProgram(device Device, vertexPath, fragmentPath string, opts ...ShaderOption) (*ShaderProgram, error) {
	shader := &ShaderProgram{
		device:       device,
		vertexPath:   vertexPath,
		fragmentPath: fragmentPath,
	}
	for _, opt := range opts {
		opt(shader)
	}
	return shader, shader.build()
}

// Reload deletes the current program and rebuilds it from the same paths.
func (shader *ShaderProgram) Reload() error {
	shader.device.DeleteProgram(shader.program)
	shader.program = 0
	shader.linked = false
	if shader.uniformWarning != nil {
		shader.uniformWarning.Clear()
	}

	err := shader.build()
	if err == nil {
		logger.Log.Info("Shader program reloaded",
			zap.String("vertex", shader.vertexPath),
			zap.String("fragment", shader.fragmentPath),
			zap.Uint32("program", shader.program))
	}
	return err
}

func (shader *ShaderProgram) build() error {
	var errs error

	vertexSource, err := readShaderSource(shader.vertexPath)
	errs = multierr.Append(errs, err)
	fragmentSource, err := readShaderSource(shader.fragmentPath)
	errs = multierr.Append(errs, err)

	// Both stages are compiled even if one fails; the link reports the real outcome.
	vertex, err := shader.compile(StageVertex, vertexSource)
	errs = multierr.Append(errs, err)
	fragment, err := shader.compile(StageFragment, fragmentSource)
	errs = multierr.Append(errs, err)

	program, linkErr := shader.device.LinkProgram(vertex, fragment)
	shader.device.DeleteShader(vertex)
	shader.device.DeleteShader(fragment)

	if linkErr != nil {
		logger.Log.Error("Failed to link program",
			zap.String("vertex", shader.vertexPath),
			zap.String("fragment", shader.fragmentPath),
			zap.Error(linkErr))
		shader.device.DeleteProgram(program)
		return multierr.Append(errs, linkErr)
	}

	shader.program = program
	shader.linked = true
	logger.Log.Debug("Shader program linked",
		zap.String("vertex", shader.vertexPath),
		zap.String("fragment", shader.fragmentPath),
		zap.Uint32("program", program))
	return errs
}

func (shader *ShaderProgram) compile(stage ShaderStage, source string) (uint32, error) {
	id, err := shader.device.CompileShader(stage, source)
	if err != nil {
		logger.Log.Error("Failed to compile",
			zap.Stringer("stage", stage),
			zap.String("path", shader.stagePath(stage)),
			zap.Error(err))
	}
	return id, err
}

func (shader *ShaderProgram) stagePath(stage ShaderStage) string {
	if stage == StageFragment {
		return shader.fragmentPath
	}
	return shader.vertexPath
}

// readShaderSource returns whatever could be read; on error that is an empty string.
func readShaderSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		readErr := &FileReadError{Path: path, Err: err}
		logger.Log.Error("Shader file not successfully read", zap.String("path", path), zap.Error(err))
		return string(data), readErr
	}
	return string(data), nil
}

// Delete releases the program; the ShaderProgram stays usable as an inert object.
func (shader *ShaderProgram) Delete() {
	shader.device.DeleteProgram(shader.program)
	shader.program = 0
	shader.linked = false
}

// Use makes this program current. The binding is global GPU state.
func (shader *ShaderProgram) Use() {
	shader.device.UseProgram(shader.program)
}

// Ready reports whether the last build produced a linked program.
func (shader *ShaderProgram) Ready() bool {
	return shader.linked && shader.program != 0
}

func (shader *ShaderProgram) ID() uint32 {
	return shader.program
}

func (shader *ShaderProgram) Paths() (vertex, fragment string) {
	return shader.vertexPath, shader.fragmentPath
}

func (shader *ShaderProgram) location(name string) int32 {
	location := shader.device.UniformLocation(shader.program, name)
	if location == -1 && shader.uniformWarning != nil && shader.uniformWarning.FirstMiss(name) {
		logger.Log.Warn("Uniform not found in program",
			zap.String("uniform", name),
			zap.Uint32("program", shader.program),
			zap.String("vertex", shader.vertexPath),
			zap.String("fragment", shader.fragmentPath))
	}
	return location
}

func (shader *ShaderProgram) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	shader.device.SetUniformInt(shader.location(name), v)
}

func (shader *ShaderProgram) SetInt(name string, value int32) {
	shader.device.SetUniformInt(shader.location(name), value)
}

func (shader *ShaderProgram) SetFloat(name string, value float32) {
	shader.device.SetUniformFloat(shader.location(name), value)
}

func (shader *ShaderProgram) SetVec2(name string, value mgl32.Vec2) {
	shader.device.SetUniformVec2(shader.location(name), value)
}

func (shader *ShaderProgram) SetVec3(name string, value mgl32.Vec3) {
	shader.device.SetUniformVec3(shader.location(name), value)
}

func (shader *ShaderProgram) SetMat3(name string, value mgl32.Mat3) {
	shader.device.SetUniformMat3(shader.location(name), value)
}

func (shader *ShaderProgram) SetMat4(name string, value mgl32.Mat4) {
	shader.device.SetUniformMat4(shader.location(name), value)
}
