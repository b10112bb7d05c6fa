// Package camera provides the first-person observer and projection modes.
package camera

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDegenerateView is returned when target equals position.
	ErrDegenerateView = errors.New("camera: target equals position")
	// ErrParallelUp is returned when up is parallel to the view direction.
	ErrParallelUp = errors.New("camera: up vector parallel to view direction")
)

// minLength guards normalization of near-zero vectors.
const minLength = 1e-6

// Observer is a free camera defined by position, target and up.
type Observer struct {
	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3
}

// NewObserver creates an observer. It rejects a target equal to position and an
// up vector parallel to the view direction.
func NewObserver(position, target, up mgl32.Vec3) (*Observer, error) {
	dir := target.Sub(position)
	if dir.Len() < minLength {
		return nil, ErrDegenerateView
	}
	if dir.Normalize().Cross(up).Len() < minLength {
		return nil, ErrParallelUp
	}
	return &Observer{position: position, target: target, up: up}, nil
}

// ViewMatrix returns the look-at matrix for the current state.
func (o *Observer) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(o.position, o.target, o.up)
}

// Position returns the eye position.
func (o *Observer) Position() mgl32.Vec3 { return o.position }

// Target returns the point looked at.
func (o *Observer) Target() mgl32.Vec3 { return o.target }

// Up returns the up vector.
func (o *Observer) Up() mgl32.Vec3 { return o.up }

// Forward returns the normalized view direction.
func (o *Observer) Forward() mgl32.Vec3 {
	return o.target.Sub(o.position).Normalize()
}

// Right returns the normalized right vector.
func (o *Observer) Right() mgl32.Vec3 {
	return o.Forward().Cross(o.up).Normalize()
}

// MoveForward moves position and target along the view direction.
func (o *Observer) MoveForward(distance float32) {
	o.Translate(o.Forward().Mul(distance))
}

// MoveRight strafes position and target along forward × up.
func (o *Observer) MoveRight(distance float32) {
	o.Translate(o.Right().Mul(distance))
}

// Translate pans position and target by delta without changing the facing.
func (o *Observer) Translate(delta mgl32.Vec3) {
	o.position = o.position.Add(delta)
	o.target = o.target.Add(delta)
}

// Rotate turns the view direction about axis by angleDegrees. The position is
// fixed and the distance to the target is preserved. A rotation that would
// leave the direction parallel to up is ignored.
func (o *Observer) Rotate(angleDegrees float32, axis mgl32.Vec3) {
	if axis.Len() < minLength {
		return
	}
	rot := mgl32.HomogRotate3D(mgl32.DegToRad(angleDegrees), axis.Normalize())
	dir := rot.Mul4x1(o.target.Sub(o.position).Vec4(0)).Vec3()
	if dir.Normalize().Cross(o.up).Len() < minLength {
		return
	}
	o.target = o.position.Add(dir)
}
