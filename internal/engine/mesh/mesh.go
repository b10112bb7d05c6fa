package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/logger"
)

// cubeIndices triangulates the eight cube corners, two triangles per face in
// Face order.
var cubeIndices = []uint32{
	0, 1, 2, 2, 3, 0, // front
	4, 5, 6, 6, 7, 4, // back
	0, 1, 5, 5, 4, 0, // bottom
	2, 3, 7, 7, 6, 2, // top
	0, 3, 7, 7, 4, 0, // left
	1, 2, 6, 6, 5, 1, // right
}

var quadIndices = []uint32{0, 1, 2, 2, 3, 0}

// Mesh is an indexed triangle mesh with per-face textures and a model matrix.
type Mesh struct {
	name      string
	positions []float32 // local space, xyz per vertex
	colors    []float32 // rgb per vertex
	indices   []uint32
	textures  []uint32 // per face slot, 0 = flat color
	model     mgl32.Mat4
	local     Bounds

	gpu *buffers
}

// NewCube builds an axis-aligned cube of the given half extent around center,
// colored flat with color.
func NewCube(center mgl32.Vec3, halfExtent float32, color mgl32.Vec3) *Mesh {
	h := halfExtent
	corners := []mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	for i := range corners {
		corners[i] = center.Add(corners[i])
	}
	return newMesh("cube", corners, color, cubeIndices, CubeFaces)
}

// NewWall builds a single quad in the XY plane with its lower-left corner at
// corner. The quad has one face slot, Front, carrying texture.
func NewWall(corner mgl32.Vec3, width, height float32, texture uint32) *Mesh {
	x, y, z := corner[0], corner[1], corner[2]
	corners := []mgl32.Vec3{
		{x, y, z},
		{x + width, y, z},
		{x + width, y + height, z},
		{x, y + height, z},
	}
	m := newMesh("wall", corners, mgl32.Vec3{1, 1, 1}, quadIndices, 1)
	m.textures[Front] = texture
	return m
}

func newMesh(name string, corners []mgl32.Vec3, color mgl32.Vec3, indices []uint32, faces int) *Mesh {
	m := &Mesh{
		name:      name,
		positions: make([]float32, 0, len(corners)*3),
		colors:    make([]float32, 0, len(corners)*3),
		indices:   append([]uint32(nil), indices...),
		textures:  make([]uint32, faces),
		model:     mgl32.Ident4(),
		local:     boundsOf(corners),
	}
	for _, c := range corners {
		m.positions = append(m.positions, c[0], c[1], c[2])
		m.colors = append(m.colors, color[0], color[1], color[2])
	}
	return m
}

// Name returns "cube" or "wall".
func (m *Mesh) Name() string { return m.name }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.positions) / 3 }

// Indices returns the triangle index list. The slice must not be modified.
func (m *Mesh) Indices() []uint32 { return m.indices }

// Colors returns the per-vertex colors.
func (m *Mesh) Colors() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, len(m.colors)/3)
	for i := 0; i+2 < len(m.colors); i += 3 {
		out = append(out, mgl32.Vec3{m.colors[i], m.colors[i+1], m.colors[i+2]})
	}
	return out
}

// Faces returns the number of face slots.
func (m *Mesh) Faces() int { return len(m.textures) }

// Texture returns the texture bound to slot, or 0.
func (m *Mesh) Texture(slot Face) uint32 {
	if slot < 0 || int(slot) >= len(m.textures) {
		return 0
	}
	return m.textures[slot]
}

// SetTextureForSide binds texture to a face slot. A slot outside the mesh's
// face range is ignored and reported with false.
func (m *Mesh) SetTextureForSide(slot Face, texture uint32) bool {
	if slot < 0 || int(slot) >= len(m.textures) {
		logger.Debug("face slot out of range, texture ignored",
			zap.String("mesh", m.name),
			zap.Int("slot", int(slot)),
			zap.Int("faces", len(m.textures)),
		)
		return false
	}
	m.textures[slot] = texture
	return true
}

// Model returns the composed model matrix.
func (m *Mesh) Model() mgl32.Mat4 { return m.model }

// LocalBounds returns the bounding box of the untransformed vertices.
func (m *Mesh) LocalBounds() Bounds { return m.local }

// Positions returns the vertex positions with the model matrix applied.
func (m *Mesh) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, m.VertexCount())
	for i := 0; i+2 < len(m.positions); i += 3 {
		p := mgl32.Vec3{m.positions[i], m.positions[i+1], m.positions[i+2]}
		out = append(out, mgl32.TransformCoordinate(p, m.model))
	}
	return out
}

// Bounds returns the world-space bounding box of the transformed vertices.
func (m *Mesh) Bounds() Bounds { return boundsOf(m.Positions()) }

// Centroid returns the mean of the world-space vertex positions.
func (m *Mesh) Centroid() mgl32.Vec3 {
	var sum mgl32.Vec3
	pts := m.Positions()
	if len(pts) == 0 {
		return sum
	}
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(pts)))
}

// Translate moves the mesh by delta.
func (m *Mesh) Translate(delta mgl32.Vec3) {
	m.model = mgl32.Translate3D(delta[0], delta[1], delta[2]).Mul4(m.model)
}

// Rotate rotates the mesh about the world origin. The mesh orbits the origin
// unless it is centered on it; use RotatePoint or RotateAround to spin in place.
func (m *Mesh) Rotate(angleDegrees float32, axis mgl32.Vec3) {
	m.model = rotation(angleDegrees, axis).Mul4(m.model)
}

// RotatePoint rotates the mesh about pivot: translate by -pivot, rotate, then
// translate back by +pivot.
func (m *Mesh) RotatePoint(angleDegrees float32, axis, pivot mgl32.Vec3) {
	m.Translate(pivot.Mul(-1))
	m.Rotate(angleDegrees, axis)
	m.Translate(pivot)
}

// RotateAround rotates the mesh about its own centroid.
func (m *Mesh) RotateAround(angleDegrees float32, axis mgl32.Vec3) {
	m.RotatePoint(angleDegrees, axis, m.Centroid())
}

// Scale scales each vertex's X and Y offset from the centroid by sx and sy.
// Z is left untouched.
func (m *Mesh) Scale(sx, sy float32) {
	c := m.Centroid()
	s := mgl32.Translate3D(c[0], c[1], c[2]).
		Mul4(mgl32.Scale3D(sx, sy, 1)).
		Mul4(mgl32.Translate3D(-c[0], -c[1], -c[2]))
	m.model = s.Mul4(m.model)
}

func rotation(angleDegrees float32, axis mgl32.Vec3) mgl32.Mat4 {
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(mgl32.DegToRad(angleDegrees), axis.Normalize())
}
