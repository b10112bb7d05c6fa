// Package gfxtest provides a recording gfx.Device for tests.
package gfxtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
)

var _ gfx.Device = (*Device)(nil)

// Draw is one recorded DrawTriangles call with the state it ran under.
type Draw struct {
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Texture0    uint32
	Count       int32
	First       int32
	// Model is the value of the "model" uniform at draw time, if set.
	Model mgl32.Mat4
}

// Device records every call. Knobs are exported fields set before use.
type Device struct {
	// FailStage makes CompileShader fail for that stage when set.
	FailStage map[gfx.ShaderStage]bool
	// FailLink makes LinkProgram fail.
	FailLink bool
	// FramebufferStatus is returned by CheckFramebuffer; zero means complete.
	FramebufferStatus uint32
	// Missing lists uniform names reported as not active.
	Missing map[string]bool

	Calls []string
	Draws []Draw

	// Bound state.
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Textures    map[uint32]uint32 // unit -> texture
	ViewportBox [4]int32
	ClearMasks  []gfx.ClearMask

	// DisabledColor records framebuffers that had draw/read buffers disabled.
	DisabledColor map[uint32]bool
	// DepthAttachment maps framebuffer -> depth texture.
	DepthAttachment map[uint32]uint32
	// Textures2D maps texture -> {width, height}.
	TextureSize map[uint32][2]int32
	// IndexData holds the uploaded index list per element buffer.
	IndexData map[uint32][]uint32
	// AttribData holds uploaded attribute data per buffer.
	AttribData map[uint32][]float32

	uniforms  map[uint32]map[string]any // program -> name -> last value
	locations map[int32]string
	live      map[uint32]gfx.Kind
	nextID    uint32
	nextLoc   int32

	// DoubleDeletes counts deletions of ids that were not live.
	DoubleDeletes int
	// Pixels is returned (resized) by ReadPixels.
	Pixels []byte
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		FailStage:       map[gfx.ShaderStage]bool{},
		Missing:         map[string]bool{},
		Textures:        map[uint32]uint32{},
		DisabledColor:   map[uint32]bool{},
		DepthAttachment: map[uint32]uint32{},
		TextureSize:     map[uint32][2]int32{},
		IndexData:       map[uint32][]uint32{},
		AttribData:      map[uint32][]float32{},
		uniforms:        map[uint32]map[string]any{},
		locations:       map[int32]string{},
		live:            map[uint32]gfx.Kind{},
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) alloc(kind gfx.Kind) uint32 {
	d.nextID++
	d.live[d.nextID] = kind
	return d.nextID
}

func (d *Device) free(kind gfx.Kind, id uint32) {
	if k, ok := d.live[id]; !ok || k != kind {
		d.DoubleDeletes++
		return
	}
	delete(d.live, id)
}

// Live returns the number of objects of kind that were created and not deleted.
func (d *Device) Live(kind gfx.Kind) int {
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

// LiveTotal returns the number of objects not yet deleted.
func (d *Device) LiveTotal() int { return len(d.live) }

// Count returns how many recorded calls have the given name.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name || (len(c) > len(name) && c[:len(name)] == name && c[len(name)] == ' ') {
			n++
		}
	}
	return n
}

// Uniform returns the last value written to name while program was in use.
func (d *Device) Uniform(program uint32, name string) (any, bool) {
	v, ok := d.uniforms[program][name]
	return v, ok
}

// Reset clears recorded calls and draws but keeps objects and bound state.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
	d.ClearMasks = nil
}

func (d *Device) CompileShader(stage gfx.ShaderStage, source string) (uint32, string, bool) {
	id := d.alloc(gfx.KindShader)
	d.record("CompileShader %s", stage)
	if d.FailStage[stage] {
		return id, fmt.Sprintf("0:1(1): error: %s stage rejected", stage), false
	}
	return id, "", true
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, string, bool) {
	id := d.alloc(gfx.KindProgram)
	d.record("LinkProgram %d %d", vertex, fragment)
	if d.FailLink {
		return id, "error: linking failed", false
	}
	return id, "", true
}

func (d *Device) DeleteShader(id uint32) {
	d.record("DeleteShader %d", id)
	d.free(gfx.KindShader, id)
}

func (d *Device) DeleteProgram(id uint32) {
	d.record("DeleteProgram %d", id)
	d.free(gfx.KindProgram, id)
}

func (d *Device) UseProgram(id uint32) {
	d.record("UseProgram %d", id)
	d.Program = id
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if program == 0 || d.Missing[name] {
		return gfx.InvalidLocation
	}
	if _, ok := d.live[program]; !ok {
		return gfx.InvalidLocation
	}
	for loc, n := range d.locations {
		if n == name {
			return loc
		}
	}
	loc := d.nextLoc
	d.nextLoc++
	d.locations[loc] = name
	return loc
}

func (d *Device) setUniform(location int32, v any) {
	name, ok := d.locations[location]
	if !ok {
		return
	}
	if d.uniforms[d.Program] == nil {
		d.uniforms[d.Program] = map[string]any{}
	}
	d.uniforms[d.Program][name] = v
	d.record("Uniform %s", name)
}

func (d *Device) Uniform1i(location int32, v int32)          { d.setUniform(location, v) }
func (d *Device) Uniform1f(location int32, v float32)        { d.setUniform(location, v) }
func (d *Device) Uniform3f(location int32, v mgl32.Vec3)     { d.setUniform(location, v) }
func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) { d.setUniform(location, m) }

func (d *Device) NewVertexArray() uint32 {
	d.record("NewVertexArray")
	return d.alloc(gfx.KindVertexArray)
}

func (d *Device) BindVertexArray(id uint32) {
	d.record("BindVertexArray %d", id)
	d.VertexArray = id
}

func (d *Device) DeleteVertexArray(id uint32) {
	d.record("DeleteVertexArray %d", id)
	d.free(gfx.KindVertexArray, id)
}

func (d *Device) NewAttribBuffer(location uint32, size int32, data []float32) uint32 {
	d.record("NewAttribBuffer %d %d", location, size)
	id := d.alloc(gfx.KindBuffer)
	d.AttribData[id] = append([]float32(nil), data...)
	return id
}

func (d *Device) NewIndexBuffer(indices []uint32) uint32 {
	d.record("NewIndexBuffer")
	id := d.alloc(gfx.KindBuffer)
	d.IndexData[id] = append([]uint32(nil), indices...)
	return id
}

func (d *Device) DeleteBuffer(id uint32) {
	d.record("DeleteBuffer %d", id)
	d.free(gfx.KindBuffer, id)
}

func (d *Device) DrawTriangles(count, first int32) {
	d.record("DrawTriangles %d %d", count, first)
	draw := Draw{
		Program:     d.Program,
		VertexArray: d.VertexArray,
		Framebuffer: d.Framebuffer,
		Texture0:    d.Textures[0],
		Count:       count,
		First:       first,
	}
	if m, ok := d.uniforms[d.Program]["model"].(mgl32.Mat4); ok {
		draw.Model = m
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Device) NewTexture2D(width, height int32, rgba []byte) uint32 {
	d.record("NewTexture2D %d %d", width, height)
	id := d.alloc(gfx.KindTexture)
	d.TextureSize[id] = [2]int32{width, height}
	return id
}

func (d *Device) NewDepthTexture(width, height int32) uint32 {
	d.record("NewDepthTexture %d %d", width, height)
	id := d.alloc(gfx.KindTexture)
	d.TextureSize[id] = [2]int32{width, height}
	return id
}

func (d *Device) BindTexture(unit uint32, id uint32) {
	d.record("BindTexture %d %d", unit, id)
	d.Textures[unit] = id
}

func (d *Device) DeleteTexture(id uint32) {
	d.record("DeleteTexture %d", id)
	d.free(gfx.KindTexture, id)
}

func (d *Device) NewFramebuffer() uint32 {
	d.record("NewFramebuffer")
	return d.alloc(gfx.KindFramebuffer)
}

func (d *Device) BindFramebuffer(id uint32) {
	d.record("BindFramebuffer %d", id)
	d.Framebuffer = id
}

func (d *Device) AttachDepthTexture(texture uint32) {
	d.record("AttachDepthTexture %d", texture)
	d.DepthAttachment[d.Framebuffer] = texture
}

func (d *Device) DisableColorBuffers() {
	d.record("DisableColorBuffers")
	d.DisabledColor[d.Framebuffer] = true
}

// CheckFramebuffer reports FramebufferStatus, or complete when the bound
// framebuffer has a depth attachment and disabled color buffers.
func (d *Device) CheckFramebuffer() uint32 {
	d.record("CheckFramebuffer")
	if d.FramebufferStatus != 0 {
		return d.FramebufferStatus
	}
	if d.DepthAttachment[d.Framebuffer] == 0 || !d.DisabledColor[d.Framebuffer] {
		return 0x8CD6 // GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	}
	return gfx.FramebufferComplete
}

func (d *Device) DeleteFramebuffer(id uint32) {
	d.record("DeleteFramebuffer %d", id)
	d.free(gfx.KindFramebuffer, id)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport %d %d %d %d", x, y, width, height)
	d.ViewportBox = [4]int32{x, y, width, height}
}

func (d *Device) SetClearColor(r, g, b, a float32) {
	d.record("SetClearColor")
}

func (d *Device) Clear(mask gfx.ClearMask) {
	d.record("Clear %d", mask)
	d.ClearMasks = append(d.ClearMasks, mask)
}

func (d *Device) EnableDepthTest() {
	d.record("EnableDepthTest")
}

func (d *Device) ReadPixels(width, height int32) []byte {
	d.record("ReadPixels %d %d", width, height)
	out := make([]byte, int(width)*int(height)*4)
	copy(out, d.Pixels)
	return out
}
