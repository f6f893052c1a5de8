package renderer

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLDevice issues the calls through OpenGL 4.1 core. The context must be current
// and gl.Init must have succeeded before any method is used.
type GLDevice struct {
	buffers map[uint32]uint32 // vertex array -> vertex buffer
}

func NewGLDevice() *GLDevice {
	return &GLDevice{buffers: make(map[uint32]uint32)}
}

func glStage(stage ShaderStage) uint32 {
	if stage == StageFragment {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func glFormat(format PixelFormat) uint32 {
	switch format {
	case FormatRed:
		return gl.RED
	case FormatRGB:
		return gl.RGB
	default:
		return gl.RGBA
	}
}

func glTarget(target TextureTarget) uint32 {
	if target == TargetCubemap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func (d *GLDevice) CompileShader(stage ShaderStage, source string) (uint32, error) {
	shader := gl.CreateShader(glStage(stage))
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return shader, &CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

func (d *GLDevice) LinkProgram(shaders ...uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return program, &LinkError{Log: strings.TrimRight(log, "\x00")}
	}
	return program, nil
}

func (d *GLDevice) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *GLDevice) DeleteProgram(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

func (d *GLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDevice) SetUniformInt(location int32, value int32) {
	gl.Uniform1i(location, value)
}

func (d *GLDevice) SetUniformFloat(location int32, value float32) {
	gl.Uniform1f(location, value)
}

func (d *GLDevice) SetUniformVec2(location int32, value mgl32.Vec2) {
	gl.Uniform2fv(location, 1, &value[0])
}

func (d *GLDevice) SetUniformVec3(location int32, value mgl32.Vec3) {
	gl.Uniform3fv(location, 1, &value[0])
}

func (d *GLDevice) SetUniformMat3(location int32, value mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &value[0])
}

func (d *GLDevice) SetUniformMat4(location int32, value mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (d *GLDevice) CreateTexture2D(img *Image) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// RED and RGB rows are not 4-byte aligned.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	format := glFormat(img.Format)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), int32(img.Width), int32(img.Height),
		0, format, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return textureID
}

func (d *GLDevice) CreateCubemap(faces [6]*Image) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, textureID)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, face := range faces {
		format := glFormat(face.Format)
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, int32(format),
			int32(face.Width), int32(face.Height), 0, format, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return textureID
}

func (d *GLDevice) BindTexture(unit uint32, target TextureTarget, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(glTarget(target), texture)
}

func (d *GLDevice) DeleteTexture(texture uint32) {
	if texture != 0 {
		gl.DeleteTextures(1, &texture)
	}
}

func (d *GLDevice) CreateMesh(vertices []float32, components int32) uint32 {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, components, gl.FLOAT, false, components*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	d.buffers[vao] = vbo
	return vao
}

func (d *GLDevice) DrawTriangles(mesh uint32, vertexCount int32) {
	gl.BindVertexArray(mesh)
	gl.DrawArrays(gl.TRIANGLES, 0, vertexCount)
	gl.BindVertexArray(0)
}

func (d *GLDevice) DeleteMesh(mesh uint32) {
	if vbo, ok := d.buffers[mesh]; ok {
		gl.DeleteBuffers(1, &vbo)
		delete(d.buffers, mesh)
	}
	if mesh != 0 {
		gl.DeleteVertexArrays(1, &mesh)
	}
}

func (d *GLDevice) SetDepthMode(mode DepthMode) {
	if mode == DepthSkybox {
		gl.DepthMask(false)
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}
