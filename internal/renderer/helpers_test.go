package renderer_test

import (
	"os"
	"path/filepath"
	"testing"

	"Prism3D/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const vertexSource = `#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() {
	gl_Position = projection * view * model * vec4(aPos, 1.0);
}
`

const fragmentSource = `#version 410 core
struct Material { vec3 ambient; vec3 diffuse; vec3 specular; float shininess; };
uniform Material material;
uniform vec3 color;
uniform float time;
out vec4 FragColor;
void main() {
	FragColor = vec4(material.diffuse * color * time, 1.0);
}
`

// observeLogs routes logger.Log into an in-memory sink for the duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = previous })
	return logs
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func errorLogs(logs *observer.ObservedLogs) []observer.LoggedEntry {
	return logs.FilterLevelExact(zapcore.ErrorLevel).All()
}
