// Package mesh provides transformable cube and wall meshes.
//
// Vertices are kept in local space. Every transform composes into a single
// model matrix that is applied by the shaders at draw time, so repeated
// transforms never rewrite the vertex buffers.
package mesh

import "github.com/go-gl/mathgl/mgl32"

// Face is a texturable face slot. Each slot covers six consecutive indices.
type Face int

const (
	Front Face = iota
	Back
	Bottom
	Top
	Left
	Right
)

// CubeFaces is the number of face slots of a cube.
const CubeFaces = 6

// IndicesPerFace is the index count of one quad face (two triangles).
const IndicesPerFace = 6

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	case Bottom:
		return "bottom"
	case Top:
		return "top"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Size returns the box extent along each axis.
func (b Bounds) Size() mgl32.Vec3 { return b.Max.Sub(b.Min) }

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Extend grows b to include other.
func (b Bounds) Extend(other Bounds) Bounds {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], other.Min[i])
		b.Max[i] = max(b.Max[i], other.Max[i])
	}
	return b
}

func boundsOf(points []mgl32.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := range 3 {
			b.Min[i] = min(b.Min[i], p[i])
			b.Max[i] = max(b.Max[i], p[i])
		}
	}
	return b
}
