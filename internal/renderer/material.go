package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Material holds Phong surface parameters. Values are fixed once built; derive a variant
// with ToBuilder.
type Material struct {
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	shininess float32
}

// MaterialBuilder accumulates parameters for a Material. Each With call returns a new
// builder and leaves the receiver untouched.
type MaterialBuilder struct {
	m Material
}

// NewMaterial starts from black plastic.
func NewMaterial() MaterialBuilder {
	return MaterialBuilder{m: materialPresets["black_plastic"]}
}

func (b MaterialBuilder) WithAmbient(c mgl32.Vec3) MaterialBuilder {
	b.m.ambient = c
	return b
}

func (b MaterialBuilder) WithDiffuse(c mgl32.Vec3) MaterialBuilder {
	b.m.diffuse = c
	return b
}

func (b MaterialBuilder) WithSpecular(c mgl32.Vec3) MaterialBuilder {
	b.m.specular = c
	return b
}

// WithShininess takes the normalized exponent, clamped to [0, 1].
func (b MaterialBuilder) WithShininess(s float32) MaterialBuilder {
	b.m.shininess = mgl32.Clamp(s, 0, 1)
	return b
}

func (b MaterialBuilder) Build() Material {
	return b.m
}

func (m Material) ToBuilder() MaterialBuilder {
	return MaterialBuilder{m: m}
}

func (m Material) Ambient() mgl32.Vec3  { return m.ambient }
func (m Material) Diffuse() mgl32.Vec3  { return m.diffuse }
func (m Material) Specular() mgl32.Vec3 { return m.specular }

// Shininess is the normalized exponent in [0, 1].
func (m Material) Shininess() float32 { return m.shininess }

// RealGlossiness is the exponent the lighting equation uses.
func (m Material) RealGlossiness() float32 { return m.shininess * 128 }

// Apply uploads the material as prefix.ambient, prefix.diffuse, prefix.specular and
// prefix.shininess. The program must be in use.
func (m Material) Apply(program *ShaderProgram, prefix string) {
	program.SetVec3(prefix+".ambient", m.ambient)
	program.SetVec3(prefix+".diffuse", m.diffuse)
	program.SetVec3(prefix+".specular", m.specular)
	program.SetFloat(prefix+".shininess", m.RealGlossiness())
}

func gray(v float32) mgl32.Vec3 { return mgl32.Vec3{v, v, v} }

// http://devernay.free.fr/cours/opengl/materials.html
var materialPresets = map[string]Material{
	"black_plastic": {
		ambient:   gray(0),
		diffuse:   gray(0.01),
		specular:  gray(0.5),
		shininess: 0.25,
	},
	"emerald": {
		ambient:   mgl32.Vec3{0.0215, 0.1745, 0.0215},
		diffuse:   mgl32.Vec3{0.07568, 0.61424, 0.07568},
		specular:  mgl32.Vec3{0.633, 0.727811, 0.633},
		shininess: 0.6,
	},
	"ruby": {
		ambient:   mgl32.Vec3{0.1745, 0.01175, 0.01175},
		diffuse:   mgl32.Vec3{0.61424, 0.04136, 0.04136},
		specular:  mgl32.Vec3{0.727811, 0.626959, 0.626959},
		shininess: 0.6,
	},
	"gold": {
		ambient:   mgl32.Vec3{0.24725, 0.1995, 0.0745},
		diffuse:   mgl32.Vec3{0.75164, 0.60648, 0.22648},
		specular:  mgl32.Vec3{0.628281, 0.555802, 0.366065},
		shininess: 0.4,
	},
	"silver": {
		ambient:   gray(0.19225),
		diffuse:   gray(0.50754),
		specular:  gray(0.508273),
		shininess: 0.4,
	},
}

// MaterialPreset returns a named preset.
func MaterialPreset(name string) (Material, bool) {
	m, ok := materialPresets[name]
	return m, ok
}

func MaterialPresetNames() []string {
	names := make([]string, 0, len(materialPresets))
	for name := range materialPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
