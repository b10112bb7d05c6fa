package shadow

import "github.com/go-gl/mathgl/mgl32"

// OrthoBounds is the light's orthographic box in light view space.
type OrthoBounds struct {
	Left, Right, Bottom, Top float32
}

// Symmetric returns ±extent on both axes.
func Symmetric(extent float32) OrthoBounds {
	return OrthoBounds{Left: -extent, Right: extent, Bottom: -extent, Top: extent}
}

// LightSpaceMatrix returns Ortho(bounds, near, far) × LookAt(position, target,
// up), the transform from world space into the light's clip space.
func LightSpaceMatrix(position, target, up mgl32.Vec3, bounds OrthoBounds, near, far float32) mgl32.Mat4 {
	proj := mgl32.Ortho(bounds.Left, bounds.Right, bounds.Bottom, bounds.Top, near, far)
	view := mgl32.LookAtV(position, target, up)
	return proj.Mul4(view)
}

// LightParams describes a directional light's shadow projection.
type LightParams struct {
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Up        mgl32.Vec3
	Bounds    OrthoBounds
	Near, Far float32
}

// Light caches the light-space matrix of its parameters.
type Light struct {
	params LightParams
	matrix mgl32.Mat4
	dirty  bool
}

// NewLight creates a light with the given parameters.
func NewLight(p LightParams) *Light {
	return &Light{params: p, dirty: true}
}

// Params returns the current parameters.
func (l *Light) Params() LightParams { return l.params }

// Set replaces the parameters. The matrix is recomputed on next use.
func (l *Light) Set(p LightParams) {
	if p == l.params {
		return
	}
	l.params = p
	l.dirty = true
}

// Direction returns the normalized direction from the target towards the light.
func (l *Light) Direction() mgl32.Vec3 {
	d := l.params.Position.Sub(l.params.Target)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize()
}

// Matrix returns the light-space matrix.
func (l *Light) Matrix() mgl32.Mat4 {
	if l.dirty {
		p := l.params
		l.matrix = LightSpaceMatrix(p.Position, p.Target, p.Up, p.Bounds, p.Near, p.Far)
		l.dirty = false
	}
	return l.matrix
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the center point of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Mul(0.5).Len()
}

// FitToBounds returns light parameters that enclose the scene box for a
// directional light shining from direction (pointing towards the light).
func FitToBounds(direction mgl32.Vec3, scene AABB) LightParams {
	center := scene.Center()
	radius := max(scene.Radius(), 1)
	dir := mgl32.Vec3{0, 1, 0}
	if direction.Len() > 0 {
		dir = direction.Normalize()
	}

	// Far enough to see the whole scene.
	distance := radius * 2

	up := UpFor(dir, mgl32.Vec3{0, 1, 0})

	padding := radius * 0.1
	half := radius + padding
	return LightParams{
		Position: center.Add(dir.Mul(distance)),
		Target:   center,
		Up:       up,
		Bounds:   Symmetric(half),
		Near:     0.1,
		Far:      distance + radius + padding,
	}
}

// UpFor returns up, or world Z when up is nearly parallel to dir.
func UpFor(dir, up mgl32.Vec3) mgl32.Vec3 {
	d, u := dir.Normalize(), up.Normalize()
	if mgl32.Abs(d.Dot(u)) > 0.99 {
		return mgl32.Vec3{0, 0, 1}
	}
	return up
}
