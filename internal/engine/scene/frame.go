package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/engine/shadow"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// State is the position of the engine in the frame cycle.
type State int

const (
	Idle State = iota
	ShadowPass
	ColorPass
	Present
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ShadowPass:
		return "shadow pass"
	case ColorPass:
		return "color pass"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// OnDisplay renders one frame: the depth pass from the light, the color pass
// from the observer, then presentation. A failing step degrades the frame and
// never aborts it.
func (s *Scene) OnDisplay() {
	s.state = ShadowPass
	s.renderShadowPass()

	s.state = ColorPass
	s.renderColorPass()
	if s.wantCapture {
		s.wantCapture = false
		s.captureFrame()
	}

	s.state = Present
	if s.presenter != nil {
		s.presenter.SwapBuffers()
	}
	s.state = Idle
}

func (s *Scene) renderShadowPass() {
	if !s.shadowMap.Valid() {
		if !s.warnedSkip {
			s.warnedSkip = true
			logger.Warn("shadow map unavailable, shadow pass skipped")
		}
		return
	}

	s.shadowMap.Bind()
	s.shadowProg.Use()
	s.shadowProg.SetMat4("lightSpaceMatrix", s.light.Matrix())
	for _, m := range s.meshes {
		m.DrawDepth(s.shadowProg)
	}
	s.shadowMap.Unbind()
}

func (s *Scene) renderColorPass() {
	w, h := s.projection.Size()
	s.dev.BindFramebuffer(gfx.DefaultFramebuffer)
	s.dev.Viewport(0, 0, int32(w), int32(h))
	s.dev.Clear(gfx.ClearColor | gfx.ClearDepth)

	p := s.colorProg
	p.Use()
	p.SetMat4("view", s.observer.ViewMatrix())
	p.SetMat4("projection", s.projection.Matrix())
	p.SetMat4("lightSpaceMatrix", s.light.Matrix())
	p.SetVec3("lightDir", s.light.Direction())
	p.SetBool("flatShading", s.flat)
	p.SetFloat("depthBias", shadow.DepthBias)
	p.SetFloat("shadowIntensity", s.shadowIntensity())

	s.shadowMap.BindTexture(shadowTextureUnit)
	p.SetInt("shadowMap", shadowTextureUnit)

	for _, m := range s.meshes {
		m.Draw(p)
	}
}

// shadowIntensity disables darkening when the depth texture holds nothing
// meaningful.
func (s *Scene) shadowIntensity() float32 {
	if !s.shadowMap.Valid() {
		return 1
	}
	return shadow.ShadowIntensity
}

// RequestScreenshot captures the next rendered frame.
func (s *Scene) RequestScreenshot() {
	if s.capture == nil {
		logger.Warn("screenshots disabled")
		return
	}
	s.wantCapture = true
}

func (s *Scene) captureFrame() {
	w, h := s.projection.Size()
	pixels := s.dev.ReadPixels(int32(w), int32(h))
	path, err := s.capture.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
