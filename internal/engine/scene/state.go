package scene

import (
	gomath "math"

	"github.com/Faultbox/folio3d/pkg/math"
)

// AutoRotateStep is the Y rotation added per frame while auto-rotating, in radians.
const AutoRotateStep = 0.02

// Camera and projection defaults.
const (
	DefaultCameraDistance = 5.0
	FieldOfView           = 45.0
	NearPlane             = 0.1
	FarPlane              = 100.0
)

// Transform positions the model. Rotation is in radians.
type Transform struct {
	Rotation [3]float32
	Scale    [3]float32
	Position [3]float32
}

// Lighting holds the directional light and the color override.
// Direction need not be normalized; the shader normalizes it.
type Lighting struct {
	Direction      [3]float32
	Color          [3]float32
	Intensity      float32
	Ambient        float32
	ModelColor     [3]float32
	ColorIntensity float32
}

// State is the mutable transform and lighting state read by the scenes
// every frame. It is owned by the viewer and only touched on the main thread.
type State struct {
	Transform  Transform
	Lighting   Lighting
	AutoRotate bool
}

// DefaultState returns the state a fresh viewer starts with.
func DefaultState() State {
	return State{
		Transform: Transform{
			Scale: [3]float32{1, 1, 1},
		},
		Lighting: Lighting{
			Direction:  [3]float32{0.5, 0.7, 1.0},
			Color:      [3]float32{1, 1, 1},
			Intensity:  1,
			Ambient:    0.3,
			ModelColor: [3]float32{1, 1, 1},
		},
		AutoRotate: true,
	}
}

// Advance applies one frame of auto-rotation.
func (s *State) Advance() {
	if !s.AutoRotate {
		return
	}
	y := s.Transform.Rotation[1] + AutoRotateStep
	if y > 2*gomath.Pi {
		y -= 2 * gomath.Pi
	}
	s.Transform.Rotation[1] = y
}

// SetRotation sets one rotation axis (0=X, 1=Y, 2=Z) and stops auto-rotation,
// replacing whatever angle auto-rotation had accumulated.
func (s *State) SetRotation(axis int, radians float32) {
	s.AutoRotate = false
	s.Transform.Rotation[axis] = radians
}

// ModelMatrix composes T * Ry * Rx * Rz * S: the model is scaled, then
// rotated about Y, X and Z around its own origin, then translated.
func (s *State) ModelMatrix() math.Mat4 {
	t := s.Transform
	return math.MulAll(
		math.Translate(t.Position[0], t.Position[1], t.Position[2]),
		s.NormalMatrix(),
		math.Scale(t.Scale[0], t.Scale[1], t.Scale[2]),
	)
}

// NormalMatrix is the rotation part of ModelMatrix only, so normals stay
// correct under non-uniform scale.
func (s *State) NormalMatrix() math.Mat4 {
	r := s.Transform.Rotation
	return math.MulAll(math.RotateY(r[1]), math.RotateX(r[0]), math.RotateZ(r[2]))
}

// ViewMatrix backs the camera off along -Z.
func ViewMatrix(distance float32) math.Mat4 {
	return math.Translate(0, 0, -distance)
}

// ProjectionMatrix returns the perspective projection for a drawable size.
// A zero height is treated as 1 so the aspect stays finite.
func ProjectionMatrix(width, height int) math.Mat4 {
	if height <= 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	return math.Perspective(math.DegToRad(FieldOfView), aspect, NearPlane, FarPlane)
}
