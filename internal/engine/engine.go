package engine

import (
	"runtime"

	"Prism3D/internal/config"
	"Prism3D/internal/logger"
	"Prism3D/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Engine owns the window, the GL context and the scene. All of its methods run on the
// thread that called Run.
type Engine struct {
	Width  int32
	Height int32

	cfg      config.Config
	window   *glfw.Window
	scene    *Scene
	controls *controls

	reloadRequested bool
	wireframe       bool
}

func NewEngine(cfg config.Config) *Engine {
	return &Engine{
		Width:     int32(cfg.Window.Width),
		Height:    int32(cfg.Window.Height),
		cfg:       cfg,
		controls:  newControls(float64(cfg.Window.Width)/2, float64(cfg.Window.Height)/2),
		wireframe: cfg.Wireframe,
	}
}

// Run opens the window and blocks until it is closed.
func (e *Engine) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		logger.Log.Error("Could not initialize glfw", zap.Error(err))
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(e.Width), int(e.Height), e.cfg.Window.Title, nil, nil)
	if err != nil {
		logger.Log.Error("Could not create glfw window", zap.Error(err))
		return err
	}
	e.window = window
	defer window.Destroy()

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		logger.Log.Error("Could not initialize OpenGL", zap.Error(err))
		return err
	}
	if e.cfg.Window.VSync {
		glfw.SwapInterval(1)
	}
	logger.Log.Info("OpenGL context ready", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.1, 0.1, 0.1, 1.0)
	e.applyPolygonMode()

	e.scene = NewScene(renderer.NewGLDevice(), e.cfg)
	if err := e.scene.SetupFromConfig(); err != nil {
		logger.Log.Warn("Scene set up with errors", zap.Error(err))
	}
	if e.cfg.HotReload {
		if err := e.scene.EnableHotReload(); err != nil {
			logger.Log.Warn("Shader hot reload unavailable", zap.Error(err))
		}
	}
	defer func() {
		if err := e.scene.Close(); err != nil {
			logger.Log.Warn("Scene close", zap.Error(err))
		}
	}()

	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled) // Hide and capture the cursor
	window.SetCursorPosCallback(e.cursorCallback)
	window.SetScrollCallback(e.scrollCallback)
	window.SetKeyCallback(e.keyCallback)
	window.SetFramebufferSizeCallback(e.framebufferSizeCallback)

	e.renderLoop()
	return nil
}

func (e *Engine) renderLoop() {
	input := newWindowInput(e.window)
	lastTime := glfw.GetTime()

	for !e.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := float32(currentTime - lastTime)
		lastTime = currentTime

		if e.reloadRequested {
			e.reloadRequested = false
			e.scene.ReloadShaders()
		}

		if e.controls.cameraEnabled {
			e.scene.Update(input, deltaTime)
		} else {
			e.scene.Update(nil, deltaTime)
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		aspect := float32(1)
		if e.Height > 0 {
			aspect = float32(e.Width) / float32(e.Height)
		}
		e.scene.Draw(aspect, float32(currentTime))

		e.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (e *Engine) applyPolygonMode() {
	if e.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (e *Engine) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetInputMode(glfw.CursorMode, e.controls.toggle())
		logger.Log.Debug("Camera control toggled", zap.Bool("enabled", e.controls.cameraEnabled))
	case glfw.KeyR:
		e.reloadRequested = true
	case glfw.KeyF1:
		e.wireframe = !e.wireframe
		e.applyPolygonMode()
	case closeKey:
		w.SetShouldClose(true)
	}
}

func (e *Engine) cursorCallback(w *glfw.Window, xpos, ypos float64) {
	if dx, dy, ok := e.controls.cursorDelta(xpos, ypos); ok {
		e.scene.Camera.ProcessMouseMovement(dx, dy)
	}
}

func (e *Engine) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if e.controls.cameraEnabled {
		e.scene.Camera.ProcessScroll(float32(yoff))
	}
}

func (e *Engine) framebufferSizeCallback(w *glfw.Window, width, height int) {
	e.Width, e.Height = int32(width), int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}
