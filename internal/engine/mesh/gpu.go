package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/engine/shader"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Vertex attribute locations shared with the shaders.
const (
	PositionLocation = 0
	ColorLocation    = 1
)

// TextureUnit is the unit face textures are bound to.
const TextureUnit = 0

type buffers struct {
	dev   gfx.Device
	scope gfx.Scope
	vao   *gfx.Handle
}

// Upload creates the vertex array, position and color buffers and the index
// buffer on dev. Uploading again replaces the previous objects.
func (m *Mesh) Upload(dev gfx.Device) {
	m.Destroy()

	b := &buffers{dev: dev}
	b.vao = b.scope.Own(gfx.NewHandle(dev, gfx.KindVertexArray, dev.NewVertexArray()))
	dev.BindVertexArray(b.vao.ID())
	b.scope.Own(gfx.NewHandle(dev, gfx.KindBuffer, dev.NewAttribBuffer(PositionLocation, 3, m.positions)))
	b.scope.Own(gfx.NewHandle(dev, gfx.KindBuffer, dev.NewAttribBuffer(ColorLocation, 3, m.colors)))
	b.scope.Own(gfx.NewHandle(dev, gfx.KindBuffer, dev.NewIndexBuffer(m.indices)))
	dev.BindVertexArray(0)

	m.gpu = b
	logger.Debug("mesh uploaded",
		zap.String("mesh", m.name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("indices", len(m.indices)),
	)
}

// Uploaded reports whether the mesh has GPU buffers.
func (m *Mesh) Uploaded() bool { return m.gpu != nil && m.gpu.vao.Valid() }

// Draw renders the mesh with the color program, one draw per face slot. A
// textured slot binds its texture on TextureUnit; an untextured slot falls
// back to the vertex color. Texture bindings are left as they are.
func (m *Mesh) Draw(prog *shader.Program) {
	if !m.Uploaded() {
		return
	}
	dev := m.gpu.dev
	dev.BindVertexArray(m.gpu.vao.ID())

	local := m.LocalBounds()
	prog.SetMat4("model", m.model)
	prog.SetVec3("localMin", local.Min)
	prog.SetVec3("localSize", local.Size())
	prog.SetVec3("localCenter", local.Center())

	for slot, tex := range m.textures {
		if tex != 0 {
			dev.BindTexture(TextureUnit, tex)
			prog.SetBool("useTexture", true)
			prog.SetInt("diffuseTexture", TextureUnit)
		} else {
			prog.SetBool("useTexture", false)
		}
		dev.DrawTriangles(IndicesPerFace, int32(slot*IndicesPerFace))
	}

	dev.BindVertexArray(0)
}

// DrawDepth renders positions only, for the shadow pass.
func (m *Mesh) DrawDepth(prog *shader.Program) {
	if !m.Uploaded() {
		return
	}
	dev := m.gpu.dev
	dev.BindVertexArray(m.gpu.vao.ID())
	prog.SetMat4("model", m.model)
	dev.DrawTriangles(int32(len(m.indices)), 0)
	dev.BindVertexArray(0)
}

// Destroy releases the GPU buffers. It is safe to call more than once.
func (m *Mesh) Destroy() {
	if m.gpu == nil {
		return
	}
	m.gpu.scope.Release()
	m.gpu = nil
}
