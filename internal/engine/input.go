package engine

import (
	"Prism3D/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Keys bound to each camera movement. Any key in the list triggers it.
var movementKeys = map[renderer.Movement][]glfw.Key{
	renderer.MoveForward:  {glfw.KeyW, glfw.KeyUp},
	renderer.MoveBackward: {glfw.KeyS, glfw.KeyDown},
	renderer.MoveLeft:     {glfw.KeyA, glfw.KeyLeft},
	renderer.MoveRight:    {glfw.KeyD, glfw.KeyRight},
	renderer.MoveUp:       {glfw.KeySpace},
	renderer.MoveDown:     {glfw.KeyLeftShift},
	renderer.MoveFast:     {glfw.KeyLeftControl},
}

// closeKey closes the window.
const closeKey = glfw.KeyTab

// keyInput adapts a key query to renderer.InputState.
type keyInput struct {
	pressed func(glfw.Key) bool
}

func newWindowInput(window *glfw.Window) keyInput {
	return keyInput{pressed: func(k glfw.Key) bool {
		return window.GetKey(k) == glfw.Press
	}}
}

func (in keyInput) Pressed(m renderer.Movement) bool {
	for _, k := range movementKeys[m] {
		if in.pressed(k) {
			return true
		}
	}
	return false
}

// controls tracks whether the camera owns the mouse and turns cursor positions into
// movement deltas.
type controls struct {
	cameraEnabled bool
	firstMouse    bool
	lastX, lastY  float64
}

func newControls(x, y float64) *controls {
	return &controls{
		cameraEnabled: true,
		firstMouse:    true,
		lastX:         x,
		lastY:         y,
	}
}

// toggle flips camera control and returns the cursor mode to apply.
func (c *controls) toggle() int {
	c.cameraEnabled = !c.cameraEnabled
	c.firstMouse = true
	if c.cameraEnabled {
		return glfw.CursorDisabled
	}
	return glfw.CursorNormal
}

// cursorDelta returns the offset since the previous position, y pointing up. The first
// event after capture only records the position.
func (c *controls) cursorDelta(xpos, ypos float64) (float32, float32, bool) {
	if !c.cameraEnabled {
		return 0, 0, false
	}
	if c.firstMouse {
		c.lastX, c.lastY = xpos, ypos
		c.firstMouse = false
		return 0, 0, false
	}

	xoffset := xpos - c.lastX
	yoffset := c.lastY - ypos // Reversed since y-coordinates go from bottom to top
	c.lastX, c.lastY = xpos, ypos
	return float32(xoffset), float32(yoffset), true
}
