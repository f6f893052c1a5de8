// Package rendertest provides an in-memory renderer.Device for tests.
//
// Shaders "compile" when their source contains a main function, programs link when
// every attached shader compiled, and uniform locations come from the
// `uniform <type> <name>;` declarations in the linked sources (struct uniforms
// expand to one location per field).
package rendertest

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"Prism3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	uniformDecl = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*;`)
	structDecl  = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	fieldDecl   = regexp.MustCompile(`\w+\s+(\w+)\s*;`)
)

// uniformNames lists the active uniforms of source; struct uniforms expand to name.field.
func uniformNames(source string) []string {
	structs := make(map[string][]string)
	for _, m := range structDecl.FindAllStringSubmatch(source, -1) {
		for _, f := range fieldDecl.FindAllStringSubmatch(m[2], -1) {
			structs[m[1]] = append(structs[m[1]], f[1])
		}
	}

	var names []string
	for _, m := range uniformDecl.FindAllStringSubmatch(source, -1) {
		fields, isStruct := structs[m[1]]
		if !isStruct {
			names = append(names, m[2])
			continue
		}
		for _, f := range fields {
			names = append(names, m[2]+"."+f)
		}
	}
	return names
}

type Shader struct {
	Stage    renderer.ShaderStage
	Source   string
	Compiled bool
}

type Program struct {
	Linked   bool
	Uniforms []string
	Values   map[int32]interface{}
}

type Texture struct {
	Target renderer.TextureTarget
	Width  int
	Height int
	Format renderer.PixelFormat
	Faces  int
}

// Draw is one recorded DrawTriangles call with the state it ran under.
type Draw struct {
	Mesh        uint32
	VertexCount int32
	Program     uint32
	Depth       renderer.DepthMode
}

type Device struct {
	mu sync.Mutex

	nextID   uint32
	shaders  map[uint32]*Shader
	programs map[uint32]*Program
	textures map[uint32]*Texture
	meshes   map[uint32]int

	CurrentProgram  uint32
	Bound           map[uint32]uint32
	DeletedShaders  int
	DeletedPrograms int
	DeletedTextures int
	UniformNoOps    int
	TextureUploads  int
	Depth           renderer.DepthMode
	Draws           []Draw
}

func NewDevice() *Device {
	return &Device{
		shaders:  make(map[uint32]*Shader),
		programs: make(map[uint32]*Program),
		textures: make(map[uint32]*Texture),
		meshes:   make(map[uint32]int),
		Bound:    make(map[uint32]uint32),
	}
}

var _ renderer.Device = (*Device)(nil)

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) CompileShader(stage renderer.ShaderStage, source string) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.id()
	ok := strings.Contains(source, "void main")
	d.shaders[id] = &Shader{Stage: stage, Source: source, Compiled: ok}
	if !ok {
		return id, &renderer.CompileError{Stage: stage, Log: "0:1: error: missing main function"}
	}
	return id, nil
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.id()
	program := &Program{Values: make(map[int32]interface{})}
	d.programs[id] = program

	seen := make(map[string]bool)
	for _, sid := range shaders {
		s, ok := d.shaders[sid]
		if !ok || !s.Compiled {
			return id, &renderer.LinkError{Log: "error: attached shader is not compiled"}
		}
		for _, name := range uniformNames(s.Source) {
			if !seen[name] {
				seen[name] = true
				program.Uniforms = append(program.Uniforms, name)
			}
		}
	}
	sort.Strings(program.Uniforms)
	program.Linked = true
	return id, nil
}

func (d *Device) DeleteShader(shader uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.shaders[shader]; ok {
		delete(d.shaders, shader)
		d.DeletedShaders++
	}
}

func (d *Device) DeleteProgram(program uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.programs[program]; ok {
		delete(d.programs, program)
		d.DeletedPrograms++
	}
}

func (d *Device) UseProgram(program uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CurrentProgram = program
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[program]
	if !ok || !p.Linked {
		return -1
	}
	for i, u := range p.Uniforms {
		if u == name {
			return int32(i)
		}
	}
	return -1
}

func (d *Device) set(location int32, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[d.CurrentProgram]
	if location < 0 || !ok {
		d.UniformNoOps++
		return
	}
	p.Values[location] = value
}

func (d *Device) SetUniformInt(location int32, value int32)       { d.set(location, value) }
func (d *Device) SetUniformFloat(location int32, value float32)   { d.set(location, value) }
func (d *Device) SetUniformVec2(location int32, value mgl32.Vec2) { d.set(location, value) }
func (d *Device) SetUniformVec3(location int32, value mgl32.Vec3) { d.set(location, value) }
func (d *Device) SetUniformMat3(location int32, value mgl32.Mat3) { d.set(location, value) }
func (d *Device) SetUniformMat4(location int32, value mgl32.Mat4) { d.set(location, value) }

func (d *Device) CreateTexture2D(img *renderer.Image) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.id()
	d.textures[id] = &Texture{
		Target: renderer.Target2D,
		Width:  img.Width,
		Height: img.Height,
		Format: img.Format,
		Faces:  1,
	}
	d.TextureUploads++
	return id
}

func (d *Device) CreateCubemap(faces [6]*renderer.Image) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.id()
	d.textures[id] = &Texture{
		Target: renderer.TargetCubemap,
		Width:  faces[0].Width,
		Height: faces[0].Height,
		Format: faces[0].Format,
		Faces:  len(faces),
	}
	d.TextureUploads++
	return id
}

func (d *Device) BindTexture(unit uint32, target renderer.TextureTarget, texture uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Bound[unit] = texture
}

func (d *Device) DeleteTexture(texture uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.textures[texture]; ok {
		delete(d.textures, texture)
		d.DeletedTextures++
	}
}

func (d *Device) CreateMesh(vertices []float32, components int32) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.id()
	d.meshes[id] = len(vertices) / int(components)
	return id
}

func (d *Device) DrawTriangles(mesh uint32, vertexCount int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Draws = append(d.Draws, Draw{
		Mesh:        mesh,
		VertexCount: vertexCount,
		Program:     d.CurrentProgram,
		Depth:       d.Depth,
	})
}

func (d *Device) DeleteMesh(mesh uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.meshes, mesh)
}

func (d *Device) SetDepthMode(mode renderer.DepthMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Depth = mode
}

// MeshVertices reports how many vertices a live mesh holds.
func (d *Device) MeshVertices(mesh uint32) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.meshes[mesh]
	return n, ok
}

// Program returns the live program with the given id.
func (d *Device) Program(id uint32) (*Program, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[id]
	return p, ok
}

// Texture returns the live texture with the given id.
func (d *Device) Texture(id uint32) (*Texture, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	return t, ok
}

// Uniform returns the last value set for name on program, if any.
func (d *Device) Uniform(program uint32, name string) (interface{}, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[program]
	if !ok {
		return nil, false
	}
	for i, u := range p.Uniforms {
		if u == name {
			v, ok := p.Values[int32(i)]
			return v, ok
		}
	}
	return nil, false
}

func (d *Device) LiveShaders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.shaders)
}

func (d *Device) LivePrograms() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.programs)
}

func (d *Device) LiveMeshes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.meshes)
}

func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}
