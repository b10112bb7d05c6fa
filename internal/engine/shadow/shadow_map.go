// Package shadow provides the depth-only shadow target and the light-space
// projection used to render and sample it.
package shadow

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// DefaultResolution is used when a non-positive resolution is requested.
const DefaultResolution = 1024

// Constants of the shadow comparison in the color pass.
const (
	// DepthBias is subtracted from the fragment depth before comparing it to
	// the stored depth, against self-shadowing acne.
	DepthBias float32 = 0.005
	// ShadowIntensity is the light factor applied to shadowed fragments.
	ShadowIntensity float32 = 0.3
)

// Map is an offscreen framebuffer with a single depth texture attachment and
// no color buffers.
type Map struct {
	dev        gfx.Device
	fbo        *gfx.Handle
	depth      *gfx.Handle
	resolution int32
	valid      bool
}

// NewMap allocates the depth texture and framebuffer. An incomplete
// framebuffer is logged and leaves the map invalid; it never fails hard.
func NewMap(dev gfx.Device, resolution int32) *Map {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	sm := &Map{dev: dev, resolution: resolution}

	sm.depth = gfx.NewHandle(dev, gfx.KindTexture, dev.NewDepthTexture(resolution, resolution))
	sm.fbo = gfx.NewHandle(dev, gfx.KindFramebuffer, dev.NewFramebuffer())

	dev.BindFramebuffer(sm.fbo.ID())
	dev.AttachDepthTexture(sm.depth.ID())
	dev.DisableColorBuffers()

	status := dev.CheckFramebuffer()
	dev.BindFramebuffer(gfx.DefaultFramebuffer)

	if status != gfx.FramebufferComplete {
		logger.Error("shadow framebuffer incomplete, shadows disabled",
			zap.String("status", statusString(status)),
			zap.Int32("resolution", resolution),
		)
		return sm
	}

	sm.valid = true
	logger.Debug("shadow map created", zap.Int32("resolution", resolution))
	return sm
}

// Valid reports whether the framebuffer passed the completeness check and
// still owns its objects.
func (sm *Map) Valid() bool {
	return sm != nil && sm.valid && sm.fbo.Valid() && sm.depth.Valid()
}

// Resolution returns the width and height of the depth texture.
func (sm *Map) Resolution() int32 { return sm.resolution }

// Texture returns the depth texture name.
func (sm *Map) Texture() uint32 { return sm.depth.ID() }

// Framebuffer returns the framebuffer name.
func (sm *Map) Framebuffer() uint32 { return sm.fbo.ID() }

// Bind targets the shadow framebuffer, sets the viewport to its resolution and
// clears depth.
func (sm *Map) Bind() {
	res := sm.Resolution()
	sm.dev.BindFramebuffer(sm.Framebuffer())
	sm.dev.Viewport(0, 0, res, res)
	sm.dev.Clear(gfx.ClearDepth)
}

// Unbind restores the default framebuffer. The caller resets the viewport.
func (sm *Map) Unbind() {
	sm.dev.BindFramebuffer(gfx.DefaultFramebuffer)
}

// BindTexture binds the depth texture to a texture unit for sampling.
func (sm *Map) BindTexture(unit uint32) {
	sm.dev.BindTexture(unit, sm.Texture())
}

// Handles returns the owned objects in creation order.
func (sm *Map) Handles() []*gfx.Handle {
	return []*gfx.Handle{sm.depth, sm.fbo}
}

// Destroy releases the framebuffer and texture.
func (sm *Map) Destroy() {
	sm.fbo.Release()
	sm.depth.Release()
	sm.valid = false
}

func statusString(status uint32) string {
	switch status {
	case gfx.FramebufferComplete:
		return "complete"
	case 0x8CD6:
		return "incomplete attachment"
	case 0x8CD7:
		return "missing attachment"
	case 0x8CDB:
		return "incomplete draw buffer"
	case 0x8CDC:
		return "incomplete read buffer"
	case 0x8CDD:
		return "unsupported"
	default:
		return "unknown"
	}
}
