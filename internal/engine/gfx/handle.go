package gfx

import "fmt"

// Kind identifies the type of GPU object behind a Handle.
type Kind uint8

const (
	KindBuffer Kind = iota
	KindVertexArray
	KindTexture
	KindFramebuffer
	KindProgram
	KindShader
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindVertexArray:
		return "vertex array"
	case KindTexture:
		return "texture"
	case KindFramebuffer:
		return "framebuffer"
	case KindProgram:
		return "program"
	case KindShader:
		return "shader"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Handle owns one GPU object and deletes it on Release. Release is idempotent,
// so a handle may sit in a Scope and still be released early by its user.
type Handle struct {
	dev  Device
	kind Kind
	id   uint32
}

// NewHandle wraps an object created on dev. A zero id yields an empty handle.
func NewHandle(dev Device, kind Kind, id uint32) *Handle {
	return &Handle{dev: dev, kind: kind, id: id}
}

// ID returns the API name of the object, or 0 once released.
func (h *Handle) ID() uint32 {
	if h == nil {
		return 0
	}
	return h.id
}

// Kind returns the object type.
func (h *Handle) Kind() Kind { return h.kind }

// Valid reports whether the handle still owns an object.
func (h *Handle) Valid() bool { return h.ID() != 0 }

// Release deletes the object.
func (h *Handle) Release() {
	if h == nil || h.id == 0 {
		return
	}
	switch h.kind {
	case KindBuffer:
		h.dev.DeleteBuffer(h.id)
	case KindVertexArray:
		h.dev.DeleteVertexArray(h.id)
	case KindTexture:
		h.dev.DeleteTexture(h.id)
	case KindFramebuffer:
		h.dev.DeleteFramebuffer(h.id)
	case KindProgram:
		h.dev.DeleteProgram(h.id)
	case KindShader:
		h.dev.DeleteShader(h.id)
	}
	h.id = 0
}

// Scope collects handles and releases them in reverse order of acquisition,
// the way deferred calls unwind.
type Scope struct {
	handles []*Handle
}

// Own adds h to the scope and returns it.
func (s *Scope) Own(h *Handle) *Handle {
	if h != nil {
		s.handles = append(s.handles, h)
	}
	return h
}

// Len returns the number of handles still owned.
func (s *Scope) Len() int { return len(s.handles) }

// Release releases every owned handle, last acquired first, and empties the scope.
func (s *Scope) Release() {
	for i := len(s.handles) - 1; i >= 0; i-- {
		s.handles[i].Release()
	}
	s.handles = nil
}
