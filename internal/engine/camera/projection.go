package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects the projection type.
type Mode int

const (
	Perspective Mode = iota
	Orthographic
)

func (m Mode) String() string {
	switch m {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Projection builds the projection matrix for the window.
type Projection struct {
	Mode Mode

	FovY        float32 // degrees, perspective only
	Near, Far   float32
	OrthoExtent float32 // half size of the orthographic box

	width, height int
}

// NewProjection returns a 60° perspective projection, near 1 and far 100, with
// a ±10 orthographic box for the alternate mode.
func NewProjection(width, height int) *Projection {
	p := &Projection{
		Mode:        Perspective,
		FovY:        60,
		Near:        1,
		Far:         100,
		OrthoExtent: 10,
	}
	p.Resize(width, height)
	return p
}

// Resize updates the viewport size. A zero height is clamped to 1.
func (p *Projection) Resize(width, height int) {
	p.width = max(width, 1)
	p.height = max(height, 1)
}

// Size returns the clamped viewport size.
func (p *Projection) Size() (width, height int) { return p.width, p.height }

// Aspect returns width / height.
func (p *Projection) Aspect() float32 {
	return float32(p.width) / float32(p.height)
}

// Toggle switches between perspective and orthographic and returns the new mode.
func (p *Projection) Toggle() Mode {
	if p.Mode == Perspective {
		p.Mode = Orthographic
	} else {
		p.Mode = Perspective
	}
	return p.Mode
}

// Matrix returns the projection matrix for the current mode and size.
func (p *Projection) Matrix() mgl32.Mat4 {
	if p.Mode == Orthographic {
		e := p.OrthoExtent
		return mgl32.Ortho(-e, e, -e, e, p.Near, p.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(p.FovY), p.Aspect(), p.Near, p.Far)
}
