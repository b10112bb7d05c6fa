// Package shader wraps a linked GPU program and its named uniforms.
//
// Compilation is fail-soft: a stage that does not compile or a program that does
// not link is logged and yields an unusable Program instead of an error, so the
// viewer keeps rendering whatever it can. Err reports what went wrong for callers
// that want to surface it.
package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Program is a vertex+fragment program. The zero ID means unusable.
type Program struct {
	dev     gfx.Device
	name    string
	handle  *gfx.Handle
	err     error
	missing map[string]bool
}

// Compile compiles both stages and links them. Compile errors are logged and
// linking is attempted anyway; a link error is logged and leaves the program
// with ID 0.
func Compile(dev gfx.Device, name, vertexSrc, fragmentSrc string) *Program {
	p := &Program{
		dev:     dev,
		name:    name,
		missing: make(map[string]bool),
	}

	var errs []error

	vert, err := p.compileStage(gfx.VertexStage, vertexSrc)
	errs = append(errs, err)
	frag, err := p.compileStage(gfx.FragmentStage, fragmentSrc)
	errs = append(errs, err)

	id, info, ok := dev.LinkProgram(vert, frag)
	if ok {
		p.handle = gfx.NewHandle(dev, gfx.KindProgram, id)
	} else {
		logger.Error("shader program link failed",
			zap.String("program", name),
			zap.String("log", info),
		)
		errs = append(errs, fmt.Errorf("link: %s", info))
		if id != 0 {
			dev.DeleteProgram(id)
		}
	}

	// Stages are owned by the program once linked.
	if vert != 0 {
		dev.DeleteShader(vert)
	}
	if frag != 0 {
		dev.DeleteShader(frag)
	}

	p.err = errors.Join(errs...)
	if p.err == nil {
		logger.Debug("shader program linked", zap.String("program", name), zap.Uint32("id", id))
	}
	return p
}

// compileStage compiles one stage. A failed stage is still returned so that
// linking runs and reports its own diagnostics.
func (p *Program) compileStage(stage gfx.ShaderStage, source string) (uint32, error) {
	id, info, ok := p.dev.CompileShader(stage, source)
	if ok {
		return id, nil
	}
	logger.Error("shader compile failed",
		zap.String("program", p.name),
		zap.Stringer("stage", stage),
		zap.String("log", info),
	)
	return id, fmt.Errorf("%s shader: %s", stage, info)
}

// Name returns the label given at compile time.
func (p *Program) Name() string { return p.name }

// ID returns the program name, or 0 if the program is unusable.
func (p *Program) ID() uint32 { return p.handle.ID() }

// Valid reports whether the program linked.
func (p *Program) Valid() bool { return p.handle.Valid() }

// Err returns the joined compile and link errors, or nil.
func (p *Program) Err() error { return p.err }

// Handle exposes the owning handle so an engine scope can release it.
func (p *Program) Handle() *gfx.Handle { return p.handle }

// Use installs the program as current. An unusable program is installed anyway
// (which unbinds any program) and logged.
func (p *Program) Use() {
	if !p.Valid() {
		logger.Warn("using unusable shader program", zap.String("program", p.name))
	}
	p.dev.UseProgram(p.ID())
}

// Location resolves a uniform by name. The second result is false when the
// program has no active uniform with that name.
func (p *Program) Location(name string) (int32, bool) {
	loc := p.dev.UniformLocation(p.ID(), name)
	return loc, loc != gfx.InvalidLocation
}

// location resolves name on every call. A miss drops the write; it is logged
// once per name so typos show up without flooding the frame loop.
func (p *Program) location(name string) (int32, bool) {
	loc, ok := p.Location(name)
	if !ok && !p.missing[name] {
		p.missing[name] = true
		logger.Debug("uniform not found, write dropped",
			zap.String("program", p.name),
			zap.String("uniform", name),
		)
	}
	return loc, ok
}

// SetBool sets a bool uniform (as int 0/1).
func (p *Program) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	p.SetInt(name, v)
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, value int32) {
	if loc, ok := p.location(name); ok {
		p.dev.Uniform1i(loc, value)
	}
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, value float32) {
	if loc, ok := p.location(name); ok {
		p.dev.Uniform1f(loc, value)
	}
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, value mgl32.Vec3) {
	if loc, ok := p.location(name); ok {
		p.dev.Uniform3f(loc, value)
	}
}

// SetMat4 sets a mat4 uniform (column-major, not transposed).
func (p *Program) SetMat4(name string, value mgl32.Mat4) {
	if loc, ok := p.location(name); ok {
		p.dev.UniformMatrix4(loc, value)
	}
}

// Destroy deletes the program.
func (p *Program) Destroy() {
	p.handle.Release()
}
