// Package picking casts rays from the viewport into the scene.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/mesh"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay unprojects a pixel into a world-space ray. The pixel origin is the
// top-left corner of the viewport. A singular view-projection yields a zero ray.
func ScreenToRay(x, y, width, height float32, viewProj mgl32.Mat4) Ray {
	if width <= 0 || height <= 0 {
		return Ray{}
	}
	if viewProj.Det() == 0 {
		return Ray{}
	}
	inv := viewProj.Inv()

	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	near := unproject(inv, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(inv, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if dir.Len() == 0 {
		return Ray{Origin: near}
	}
	return Ray{Origin: near, Direction: dir.Normalize()}
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	w := inv.Mul4x1(p)
	if w[3] != 0 {
		return w.Vec3().Mul(1 / w[3])
	}
	return w.Vec3()
}

// IntersectBounds runs the slab test against an axis-aligned box. It returns the
// entry distance, or the exit distance when the origin is inside the box.
func (r Ray) IntersectBounds(b mesh.Bounds) (float32, bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < b.Min[axis] || o > b.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (b.Min[axis] - o) / d
		t2 := (b.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Pick returns the index of the nearest mesh whose world bounds the ray hits,
// or -1 when nothing is hit.
func Pick(r Ray, meshes []*mesh.Mesh) (int, float32) {
	best, bestT := -1, float32(math.MaxFloat32)
	if r.Direction.Len() == 0 {
		return best, 0
	}
	for i, m := range meshes {
		if t, ok := r.IntersectBounds(m.Bounds()); ok && t < bestT {
			best, bestT = i, t
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestT
}
