package renderer

import "github.com/go-gl/mathgl/mgl32"

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "VERTEX"
	case StageFragment:
		return "FRAGMENT"
	default:
		return "UNKNOWN"
	}
}

// PixelFormat is the GPU-side layout chosen from an image's channel count.
type PixelFormat int

const (
	FormatNone PixelFormat = iota
	FormatRed
	FormatRGB
	FormatRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRed:
		return "RED"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	default:
		return "NONE"
	}
}

// Channels is the number of bytes per pixel for the format.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatRed:
		return 1
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	default:
		return 0
	}
}

// FormatForChannels selects the upload format for a decoded image.
// Only 1, 3 and 4 channels are supported.
func FormatForChannels(channels int) (PixelFormat, bool) {
	switch channels {
	case 1:
		return FormatRed, true
	case 3:
		return FormatRGB, true
	case 4:
		return FormatRGBA, true
	default:
		return FormatNone, false
	}
}

// TextureTarget tells 2D textures and cubemaps apart.
type TextureTarget int

const (
	Target2D TextureTarget = iota
	TargetCubemap
)

// DepthMode selects the depth test configuration for a draw.
type DepthMode int

const (
	// DepthDefault is LESS with depth writes on.
	DepthDefault DepthMode = iota
	// DepthSkybox is LEQUAL with depth writes off, so the sky stays behind everything.
	DepthSkybox
)

// Device is the slice of the graphics API the resource managers need.
// Every call mutates global GPU state and must happen on the thread that owns the context.
//
// CompileShader and LinkProgram return a live object even when they fail so the caller
// can release it; the error carries the driver diagnostics.
type Device interface {
	CompileShader(stage ShaderStage, source string) (uint32, error)
	LinkProgram(shaders ...uint32) (uint32, error)
	DeleteShader(shader uint32)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	UniformLocation(program uint32, name string) int32
	SetUniformInt(location int32, value int32)
	SetUniformFloat(location int32, value float32)
	SetUniformVec2(location int32, value mgl32.Vec2)
	SetUniformVec3(location int32, value mgl32.Vec3)
	SetUniformMat3(location int32, value mgl32.Mat3)
	SetUniformMat4(location int32, value mgl32.Mat4)

	CreateTexture2D(img *Image) uint32
	CreateCubemap(faces [6]*Image) uint32
	BindTexture(unit uint32, target TextureTarget, texture uint32)
	DeleteTexture(texture uint32)

	// CreateMesh uploads tightly packed vertex positions with `components` floats each
	// into attribute 0 and returns the vertex array.
	CreateMesh(vertices []float32, components int32) uint32
	DrawTriangles(mesh uint32, vertexCount int32)
	DeleteMesh(mesh uint32)
	SetDepthMode(mode DepthMode)
}
