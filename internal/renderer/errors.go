package renderer

import "fmt"

// FileReadError reports a shader source or texture file that could not be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// CompileError carries the driver's diagnostics for one shader stage.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError carries the driver's diagnostics for a program link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program link failed: %s", e.Log)
}

// DecodeError means the image decoder produced no pixel data.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnsupportedFormatError rejects images whose channel count is not 1, 3 or 4.
type UnsupportedFormatError struct {
	Path     string
	Channels int
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported channel count %d", e.Path, e.Channels)
}

// TextureLoadError wraps whatever stopped a texture from reaching the GPU.
// The caller received the placeholder texture instead.
type TextureLoadError struct {
	Path string
	Err  error
}

func (e *TextureLoadError) Error() string {
	return fmt.Sprintf("load texture %s: %v", e.Path, e.Err)
}

func (e *TextureLoadError) Unwrap() error { return e.Err }
