// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/linmath"
)

// Movement is a camera movement the input layer can request.
type Movement int

const (
	MoveForward Movement = iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	MoveFast
)

// InputState answers whether a movement key is held this frame.
type InputState interface {
	Pressed(m Movement) bool
}

// Camera is a free-fly camera driven by yaw and pitch in degrees.
type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position mgl32.Vec3 // Camera position in world space
	Front    mgl32.Vec3 // Forward direction vector
	Up       mgl32.Vec3 // Up direction vector
	Right    mgl32.Vec3 // Right direction vector
	Pitch    float32    // Pitch angle (vertical rotation)
	Yaw      float32    // Yaw angle (horizontal rotation)
	Fov      float32    // Field of view
	view     mgl32.Mat4

	// COLD DATA - Configuration and input handling, accessed less frequently
	WorldUp           mgl32.Vec3 // World up vector (usually (0,1,0))
	Speed             float32    // Movement speed
	Sensitivity       float32    // Mouse sensitivity
	ScrollSensitivity float32
	FastMultiplier    float32
	MinFov, MaxFov    float32
}

const (
	DefaultYaw               = -90.0
	DefaultPitch             = 0.0
	DefaultFov               = 45.0
	DefaultSpeed             = 6.0
	DefaultSensitivity       = 0.1
	DefaultScrollSensitivity = 0.2
	DefaultFastMultiplier    = 2.0
	DefaultMinFov            = 1.0
	DefaultMaxFov            = 90.0

	maxPitch = 89.0
)

func NewDefaultCamera() *Camera {
	camera := Camera{
		Position:          mgl32.Vec3{0, 0, 3},
		WorldUp:           mgl32.Vec3{0, 1, 0},
		Yaw:               DefaultYaw,
		Pitch:             DefaultPitch,
		Fov:               DefaultFov,
		Speed:             DefaultSpeed,
		Sensitivity:       DefaultSensitivity,
		ScrollSensitivity: DefaultScrollSensitivity,
		FastMultiplier:    DefaultFastMultiplier,
		MinFov:            DefaultMinFov,
		MaxFov:            DefaultMaxFov,
	}
	camera.updateCameraVectors()
	camera.Update()
	return &camera
}

// SetFovRange sets the zoom limits and clamps the current fov into them.
// A reversed range is swapped.
func (c *Camera) SetFovRange(min, max float32) {
	if min > max {
		min, max = max, min
	}
	c.MinFov, c.MaxFov = min, max
	c.Fov = mgl32.Clamp(c.Fov, min, max)
}

// ProcessInput moves the camera for every held key. Deltas are summed first so opposite
// keys cancel exactly.
func (c *Camera) ProcessInput(input InputState, deltaTime float32) {
	velocity := c.Speed * deltaTime
	if input.Pressed(MoveFast) {
		velocity *= c.FastMultiplier
	}

	var delta mgl32.Vec3
	if input.Pressed(MoveForward) {
		delta = delta.Add(c.Front)
	}
	if input.Pressed(MoveBackward) {
		delta = delta.Sub(c.Front)
	}
	if input.Pressed(MoveLeft) {
		delta = delta.Sub(c.Right)
	}
	if input.Pressed(MoveRight) {
		delta = delta.Add(c.Right)
	}
	if input.Pressed(MoveUp) {
		delta = delta.Add(c.WorldUp)
	}
	if input.Pressed(MoveDown) {
		delta = delta.Sub(c.WorldUp)
	}

	c.Position = c.Position.Add(delta.Mul(velocity))
}

// ProcessMouseMovement takes cursor deltas with y pointing up.
func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32) {
	c.Yaw += xoffset * c.Sensitivity
	c.Pitch += yoffset * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch) // Prevent flipping over the poles
	c.updateCameraVectors()
}

// ProcessScroll zooms: scrolling up narrows the field of view.
func (c *Camera) ProcessScroll(yoffset float32) {
	c.Fov = mgl32.Clamp(c.Fov-yoffset*c.ScrollSensitivity, c.MinFov, c.MaxFov)
}

func (c *Camera) updateCameraVectors() {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	pitchRad := float64(mgl32.DegToRad(c.Pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// Update recomputes the view matrix. ViewMatrix keeps returning the previous one until
// this is called.
func (c *Camera) Update() {
	c.view = mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.view
}

func (c *Camera) ProjectionMatrix(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, near, far)
}

func convertMGL32Mat4ToLinMathMat4x4(m mgl32.Mat4) linmath.Mat4x4 {
	var out linmath.Mat4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[i*4+j]
		}
	}
	return out
}

// ViewMatrixVulkan is the current view in linmath's column layout.
func (c *Camera) ViewMatrixVulkan() linmath.Mat4x4 {
	return convertMGL32Mat4ToLinMathMat4x4(c.view)
}
