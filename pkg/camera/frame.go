package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Keyboard step sizes of the interactive viewer
const (
	RotationStep = math.Pi / 18 * 0.25 // radians per key press
	MoveStep     = 2.0                 // world units per key press
)

// Frame is the orthonormal camera basis. Look, Up and Right are unit
// vectors with Right = Look × Up.
//
// A Frame is read by the renderer and mutated only between renders.
type Frame struct {
	Eye   core.Vec3
	Look  core.Vec3
	Up    core.Vec3
	Right core.Vec3
}

// NewFrame builds a frame from an eye position, a look direction and an
// approximate up direction. Up is re-orthogonalized against Look.
func NewFrame(eye, look, up core.Vec3) (Frame, error) {
	l := look.Normalize()
	if l.IsZero() {
		return Frame{}, fmt.Errorf("look direction must be non-zero")
	}
	r := l.Cross(up).Normalize()
	if r.IsZero() {
		return Frame{}, fmt.Errorf("up %v must not be parallel to look %v", up, look)
	}
	u := r.Cross(l).Normalize()
	return Frame{Eye: eye, Look: l, Up: u, Right: r}, nil
}

// DefaultFrame returns the starting pose of the interactive viewer
func DefaultFrame() Frame {
	s := 1 / math.Sqrt2
	return Frame{
		Eye:   core.NewVec3(120, 120, 20),
		Look:  core.NewVec3(-s, -s, 0),
		Up:    core.NewVec3(0, 0, 1),
		Right: core.NewVec3(-s, s, 0),
	}
}

// rotate turns v by angle radians about the unit axis
func rotate(v, axis core.Vec3, angle float64) core.Vec3 {
	q := mgl64.QuatRotate(angle, mgl64.Vec3{axis.X, axis.Y, axis.Z})
	r := q.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
	return core.NewVec3(r[0], r[1], r[2]).Normalize()
}

// LookLeft yaws the camera about Up
func (f *Frame) LookLeft(angle float64) {
	f.Look = rotate(f.Look, f.Up, angle)
	f.Right = rotate(f.Right, f.Up, angle)
}

// LookRight yaws the camera about Up the other way
func (f *Frame) LookRight(angle float64) {
	f.LookLeft(-angle)
}

// LookUp pitches the camera about Right
func (f *Frame) LookUp(angle float64) {
	f.Up = rotate(f.Up, f.Right, angle)
	f.Look = rotate(f.Look, f.Right, angle)
}

// LookDown pitches the camera about Right the other way
func (f *Frame) LookDown(angle float64) {
	f.LookUp(-angle)
}

// TiltClockwise rolls the camera about Look
func (f *Frame) TiltClockwise(angle float64) {
	f.Up = rotate(f.Up, f.Look, -angle)
	f.Right = rotate(f.Right, f.Look, -angle)
}

// TiltAnticlockwise rolls the camera about Look the other way
func (f *Frame) TiltAnticlockwise(angle float64) {
	f.TiltClockwise(-angle)
}

// MoveForward translates the eye along Look. Negative distances move back.
func (f *Frame) MoveForward(distance float64) {
	f.Eye = f.Eye.Add(f.Look.Multiply(distance))
}

// MoveRight translates the eye along Right
func (f *Frame) MoveRight(distance float64) {
	f.Eye = f.Eye.Add(f.Right.Multiply(distance))
}

// MoveUp translates the eye along Up
func (f *Frame) MoveUp(distance float64) {
	f.Eye = f.Eye.Add(f.Up.Multiply(distance))
}

// Orthonormality returns the largest deviation of the basis from an
// orthonormal right-handed frame
func (f Frame) Orthonormality() float64 {
	deviations := []float64{
		math.Abs(f.Look.Length() - 1),
		math.Abs(f.Up.Length() - 1),
		math.Abs(f.Right.Length() - 1),
		math.Abs(f.Look.Dot(f.Up)),
		math.Abs(f.Look.Dot(f.Right)),
		math.Abs(f.Up.Dot(f.Right)),
		f.Look.Cross(f.Up).Subtract(f.Right).Length(),
	}
	worst := 0.0
	for _, d := range deviations {
		worst = max(worst, d)
	}
	return worst
}

func (f Frame) String() string {
	return fmt.Sprintf("eye %v look %v up %v right %v", f.Eye, f.Look, f.Up, f.Right)
}
