package renderer_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"Prism3D/internal/renderer"
	"Prism3D/internal/renderer/rendertest"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

func newProgram(t *testing.T, device *rendertest.Device, vs, fs string, opts ...renderer.ShaderOption) (*renderer.ShaderProgram, error) {
	t.Helper()
	dir := t.TempDir()
	return renderer.NewShaderProgram(device,
		writeFile(t, dir, "test.vs", vs),
		writeFile(t, dir, "test.fs", fs),
		opts...)
}

func TestShaderProgramBuild(t *testing.T) {
	logs := observeLogs(t)
	device := rendertest.NewDevice()

	shader, err := newProgram(t, device, vertexSource, fragmentSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shader.Ready() || shader.ID() == 0 {
		t.Fatal("program should be ready with a non-zero handle")
	}
	if n := len(errorLogs(logs)); n != 0 {
		t.Errorf("expected no error logs, got %d", n)
	}
	if device.LiveShaders() != 0 {
		t.Errorf("stage shaders should be deleted after linking, %d still live", device.LiveShaders())
	}

	shader.Use()
	if device.CurrentProgram != shader.ID() {
		t.Error("Use should bind the program")
	}
}

func TestShaderProgramMissingFile(t *testing.T) {
	logs := observeLogs(t)
	device := rendertest.NewDevice()
	dir := t.TempDir()

	shader, err := renderer.NewShaderProgram(device,
		filepath.Join(dir, "missing.vs"),
		writeFile(t, dir, "test.fs", fragmentSource))

	if shader == nil {
		t.Fatal("a failed build should still return a program")
	}
	var readErr *renderer.FileReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected FileReadError, got %v", err)
	}
	if !strings.HasSuffix(readErr.Path, "missing.vs") {
		t.Errorf("error should name the missing file, got %s", readErr.Path)
	}
	if shader.Ready() || shader.ID() != 0 {
		t.Error("failed program should have a zero handle")
	}
	if logs.FilterMessage("Shader file not successfully read").Len() != 1 {
		t.Error("missing file should be logged once")
	}
	if device.LivePrograms() != 0 {
		t.Error("failed link should not leave a program behind")
	}

	// A failed program is inert, not fatal.
	shader.Use()
	shader.SetFloat("time", 1)
	if device.CurrentProgram != 0 {
		t.Error("using a failed program should bind nothing")
	}
}

func TestShaderProgramCompileErrorNamesStage(t *testing.T) {
	logs := observeLogs(t)
	device := rendertest.NewDevice()

	shader, err := newProgram(t, device, vertexSource, "#version 410 core\nout vec4 c;\n")

	var compileErr *renderer.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if compileErr.Stage != renderer.StageFragment {
		t.Errorf("expected FRAGMENT stage, got %s", compileErr.Stage)
	}
	var linkErr *renderer.LinkError
	if !errors.As(err, &linkErr) {
		t.Error("link failure should be reported alongside the compile error")
	}
	if shader.Ready() {
		t.Error("program should not be ready")
	}

	entries := logs.FilterMessage("Failed to compile").All()
	if len(entries) != 1 {
		t.Fatalf("expected one compile log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["stage"]; got != "FRAGMENT" {
		t.Errorf("compile log should carry the stage, got %v", got)
	}
}

func TestShaderProgramBothStagesFail(t *testing.T) {
	observeLogs(t)
	device := rendertest.NewDevice()

	_, err := newProgram(t, device, "broken", "broken")

	// two compile errors plus the link error
	if n := len(multierr.Errors(err)); n != 3 {
		t.Errorf("expected 3 aggregated errors, got %d: %v", n, err)
	}
	if device.LiveShaders() != 0 {
		t.Error("failed stage shaders should still be deleted")
	}
}

func TestShaderProgramReload(t *testing.T) {
	observeLogs(t)
	device := rendertest.NewDevice()
	dir := t.TempDir()
	vs := writeFile(t, dir, "a.vs", vertexSource)
	fs := writeFile(t, dir, "a.fs", fragmentSource)

	shader, err := renderer.NewShaderProgram(device, vs, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	old := shader.ID()

	if err := shader.Reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if shader.ID() == old {
		t.Error("reload should produce a new program")
	}
	if _, live := device.Program(old); live {
		t.Error("old program should be deleted")
	}
	if v, f := shader.Paths(); v != vs || f != fs {
		t.Errorf("reload should keep the source paths, got %s %s", v, f)
	}
}

func TestShaderProgramReloadFailureLeavesZeroHandle(t *testing.T) {
	observeLogs(t)
	device := rendertest.NewDevice()
	dir := t.TempDir()
	vs := writeFile(t, dir, "a.vs", vertexSource)
	fs := writeFile(t, dir, "a.fs", fragmentSource)

	shader, _ := renderer.NewShaderProgram(device, vs, fs)
	old := shader.ID()

	writeFile(t, dir, "a.fs", "syntax error")
	if err := shader.Reload(); err == nil {
		t.Fatal("expected reload to fail")
	}
	if shader.ID() != 0 || shader.Ready() {
		t.Error("failed reload should leave a zero handle")
	}
	if device.LivePrograms() != 0 {
		t.Errorf("the previous program should be destroyed, %d live", device.LivePrograms())
	}
	if _, live := device.Program(old); live {
		t.Error("old program still live")
	}

	writeFile(t, dir, "a.fs", fragmentSource)
	if err := shader.Reload(); err != nil || !shader.Ready() {
		t.Errorf("fixing the source and reloading should recover, err=%v", err)
	}
}

func TestShaderProgramUniforms(t *testing.T) {
	observeLogs(t)
	device := rendertest.NewDevice()
	shader, _ := newProgram(t, device, vertexSource, fragmentSource)
	shader.Use()

	model := mgl32.Translate3D(1, 2, 3)
	shader.SetMat4("model", model)
	shader.SetVec3("color", mgl32.Vec3{1, 0.5, 0})
	shader.SetFloat("time", 2.5)

	if v, ok := device.Uniform(shader.ID(), "model"); !ok || v != model {
		t.Errorf("model uniform = %v", v)
	}
	if v, ok := device.Uniform(shader.ID(), "color"); !ok || v != (mgl32.Vec3{1, 0.5, 0}) {
		t.Errorf("color uniform = %v", v)
	}
	if v, ok := device.Uniform(shader.ID(), "time"); !ok || v != float32(2.5) {
		t.Errorf("time uniform = %v", v)
	}
}

func TestShaderProgramUnknownUniformIsSilent(t *testing.T) {
	logs := observeLogs(t)
	device := rendertest.NewDevice()
	shader, _ := newProgram(t, device, vertexSource, fragmentSource)
	shader.Use()

	shader.SetFloat("doesNotExist", 1)
	shader.SetBool("alsoMissing", true)

	if device.UniformNoOps != 2 {
		t.Errorf("expected 2 no-op sets, got %d", device.UniformNoOps)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 0 {
		t.Error("unknown uniforms should be silent by default")
	}
}

func TestShaderProgramUniformWarningsOncePerName(t *testing.T) {
	logs := observeLogs(t)
	device := rendertest.NewDevice()
	shader, _ := newProgram(t, device, vertexSource, fragmentSource, renderer.WithUniformWarnings())
	shader.Use()

	for i := 0; i < 10; i++ {
		shader.SetFloat("doesNotExist", 1)
	}
	shader.SetInt("other", 1)

	if n := logs.FilterMessage("Uniform not found in program").Len(); n != 2 {
		t.Errorf("expected one warning per name, got %d", n)
	}

	// a relink forgets what was reported
	if err := shader.Reload(); err != nil {
		t.Fatal(err)
	}
	shader.SetFloat("doesNotExist", 1)
	if n := logs.FilterMessage("Uniform not found in program").Len(); n != 3 {
		t.Errorf("expected a fresh warning after reload, got %d total", n)
	}
}
