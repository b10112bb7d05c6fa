// Package gfx is the thin layer between the renderer and the graphics API.
//
// Device mirrors the subset of OpenGL 4.1 core the viewer uses. The production
// implementation lives in gfx/opengl and forwards to go-gl; tests use
// gfxtest.Device, which records calls instead of touching a driver.
package gfx

import "github.com/go-gl/mathgl/mgl32"

// ShaderStage selects a programmable pipeline stage.
type ShaderStage uint8

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// InvalidLocation is the location the driver reports for a uniform that is not
// active in a program.
const InvalidLocation int32 = -1

// FramebufferComplete is the completeness status of a usable framebuffer
// (GL_FRAMEBUFFER_COMPLETE).
const FramebufferComplete uint32 = 0x8CD5

// DefaultFramebuffer is the window-system provided framebuffer.
const DefaultFramebuffer uint32 = 0

// Device is the graphics API surface used by the engine. All calls must happen
// on the thread that owns the context.
type Device interface {
	// Shaders and programs.
	CompileShader(stage ShaderStage, source string) (id uint32, infoLog string, ok bool)
	LinkProgram(vertex, fragment uint32) (id uint32, infoLog string, ok bool)
	DeleteShader(id uint32)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)
	UniformMatrix4(location int32, m mgl32.Mat4)

	// Geometry.
	NewVertexArray() uint32
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)
	// NewAttribBuffer uploads tightly packed float components and binds them to
	// the vertex attribute at location with size components per vertex. The
	// target vertex array must be bound.
	NewAttribBuffer(location uint32, size int32, data []float32) uint32
	// NewIndexBuffer uploads a triangle index list into the bound vertex array.
	NewIndexBuffer(indices []uint32) uint32
	DeleteBuffer(id uint32)
	// DrawTriangles draws count indices of the bound vertex array starting at
	// index first.
	DrawTriangles(count, first int32)

	// Textures.
	NewTexture2D(width, height int32, rgba []byte) uint32
	NewDepthTexture(width, height int32) uint32
	BindTexture(unit uint32, id uint32)
	DeleteTexture(id uint32)

	// Framebuffers.
	NewFramebuffer() uint32
	BindFramebuffer(id uint32)
	AttachDepthTexture(texture uint32)
	DisableColorBuffers()
	CheckFramebuffer() uint32
	DeleteFramebuffer(id uint32)

	// Fixed-function state.
	Viewport(x, y, width, height int32)
	SetClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	EnableDepthTest()
	ReadPixels(width, height int32) []byte
}
