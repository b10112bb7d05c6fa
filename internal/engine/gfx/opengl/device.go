// Package opengl implements gfx.Device on top of go-gl (OpenGL 4.1 core).
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/logger"
)

var _ gfx.Device = (*Device)(nil)

// Device is the OpenGL 4.1 core gfx.Device.
type Device struct{}

// New loads the OpenGL entry points for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)
	return &Device{}, nil
}

func (*Device) CompileShader(stage gfx.ShaderStage, source string) (uint32, string, bool) {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == gfx.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}

	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		return shader, infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) }), false
	}
	return shader, "", true
}

func (*Device) LinkProgram(vertex, fragment uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		return program, infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) }), false
	}
	return program, "", true
}

// infoLog reads a driver info log of logLen bytes (including the terminator).
func infoLog(logLen int32, read func(*uint8)) string {
	if logLen <= 0 {
		return ""
	}
	buf := make([]byte, logLen)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func (*Device) DeleteShader(id uint32)  { gl.DeleteShader(id) }
func (*Device) DeleteProgram(id uint32) { gl.DeleteProgram(id) }
func (*Device) UseProgram(id uint32)    { gl.UseProgram(id) }

func (*Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Device) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (*Device) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (*Device) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (*Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (*Device) NewVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*Device) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (*Device) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

func (*Device) NewAttribBuffer(location uint32, size int32, data []float32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointer(location, size, gl.FLOAT, false, size*4, nil)
	gl.EnableVertexAttribArray(location)
	return vbo
}

func (*Device) NewIndexBuffer(indices []uint32) uint32 {
	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	return ebo
}

func (*Device) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (*Device) DrawTriangles(count, first int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(int(first)*4))
}

func (*Device) NewTexture2D(width, height int32, rgba []byte) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (*Device) NewDepthTexture(width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	// The color pass compares depths itself, so no hardware compare mode.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	// Samples outside the light frustum read depth 1.0 (lit).
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (*Device) BindTexture(unit uint32, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (*Device) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (*Device) NewFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (*Device) BindFramebuffer(id uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, id) }

func (*Device) AttachDepthTexture(texture uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, texture, 0)
}

func (*Device) DisableColorBuffers() {
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
}

func (*Device) CheckFramebuffer() uint32 {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
}

func (*Device) DeleteFramebuffer(id uint32) { gl.DeleteFramebuffers(1, &id) }

func (*Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (*Device) SetClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (*Device) Clear(mask gfx.ClearMask) {
	var bits uint32
	if mask&gfx.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gfx.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (*Device) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

// ReadPixels reads the bound read framebuffer as RGBA rows, bottom row first.
func (*Device) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
