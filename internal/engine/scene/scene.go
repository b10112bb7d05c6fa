// Package scene is the render engine of the viewer: it owns the observer, the
// light and its shadow map, both shader programs and the mesh collection, and
// turns input callbacks into camera and object transforms.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/config"
	"github.com/Faultbox/shadowbox/internal/engine/camera"
	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/engine/lighting"
	"github.com/Faultbox/shadowbox/internal/engine/mesh"
	"github.com/Faultbox/shadowbox/internal/engine/shader"
	"github.com/Faultbox/shadowbox/internal/engine/shaders"
	"github.com/Faultbox/shadowbox/internal/engine/shadow"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Presenter shows a finished frame.
type Presenter interface {
	SwapBuffers()
}

// Capturer stores a read-back frame.
type Capturer interface {
	CaptureFromPixels(pixels []byte, width, height int) (string, error)
}

// TextureLoader loads an image file into a texture.
type TextureLoader interface {
	Load(path string) (*gfx.Handle, error)
}

// Texture unit of the shadow depth texture in the color pass. Face textures
// use mesh.TextureUnit.
const shadowTextureUnit = 1

// Scene holds all per-session render state. Every method must be called from
// the thread owning the graphics context.
type Scene struct {
	dev       gfx.Device
	cfg       *config.Config
	presenter Presenter
	capture   Capturer

	observer   *camera.Observer
	projection *camera.Projection
	light      *shadow.Light
	shadowMap  *shadow.Map

	shadowProg *shader.Program
	colorProg  *shader.Program

	meshes []*mesh.Mesh
	wall   *mesh.Mesh
	// selected is the mesh moved by i/j/k/l; nil means the wall.
	selected *mesh.Mesh

	// scope owns programs, the shadow target and textures. Meshes release
	// their own buffers.
	scope gfx.Scope

	state       State
	flat        bool
	quit        bool
	wantCapture bool
	warnedSkip  bool

	dragging     bool
	lastX, lastY int
}

// New creates the engine on dev. Shader and framebuffer failures are logged
// and leave the engine rendering in a degraded mode; only an unusable camera
// configuration is an error. capture may be nil to disable screenshots.
func New(dev gfx.Device, cfg *config.Config, presenter Presenter, capture Capturer) (*Scene, error) {
	cam := cfg.Camera
	observer, err := camera.NewObserver(mgl32.Vec3(cam.Position), mgl32.Vec3(cam.Target), mgl32.Vec3(cam.Up))
	if err != nil {
		return nil, fmt.Errorf("creating observer: %w", err)
	}

	s := &Scene{
		dev:        dev,
		cfg:        cfg,
		presenter:  presenter,
		capture:    capture,
		observer:   observer,
		projection: camera.NewProjection(cfg.Window.Width, cfg.Window.Height),
		flat:       cfg.Render.Shading == config.ShadingFlat,
	}

	s.projection.FovY = cfg.Render.FOV
	s.projection.Near = cfg.Render.Near
	s.projection.Far = cfg.Render.Far
	s.projection.OrthoExtent = cfg.Render.OrthoExtent
	if cfg.Render.Projection == config.ProjectionOrthographic {
		s.projection.Mode = camera.Orthographic
	}

	s.light = shadow.NewLight(lightParams(cfg.Light))

	s.shadowProg = shader.Compile(dev, "shadow", shaders.ShadowVertexShader, shaders.ShadowFragmentShader)
	s.scope.Own(s.shadowProg.Handle())
	s.colorProg = shader.Compile(dev, "standard", shaders.StandardVertexShader, shaders.StandardFragmentShader)
	s.scope.Own(s.colorProg.Handle())

	s.shadowMap = shadow.NewMap(dev, int32(cfg.Shadow.Resolution))
	for _, h := range s.shadowMap.Handles() {
		s.scope.Own(h)
	}

	c := cfg.Render.ClearColor
	dev.SetClearColor(c[0], c[1], c[2], 1)
	dev.EnableDepthTest()

	logger.Info("scene created",
		zap.Stringer("projection", s.projection.Mode),
		zap.Bool("flat_shading", s.flat),
		zap.Bool("shadows", s.shadowMap.Valid()),
		zap.Int32("shadow_resolution", s.shadowMap.Resolution()),
	)
	return s, nil
}

// Observer returns the camera.
func (s *Scene) Observer() *camera.Observer { return s.observer }

// Projection returns the projection settings.
func (s *Scene) Projection() *camera.Projection { return s.projection }

// Light returns the shadow-casting light.
func (s *Scene) Light() *shadow.Light { return s.light }

// ShadowMap returns the shadow target.
func (s *Scene) ShadowMap() *shadow.Map { return s.shadowMap }

// Meshes returns the mesh collection in insertion order.
func (s *Scene) Meshes() []*mesh.Mesh { return s.meshes }

// Wall returns the movable wall, or nil before Populate.
func (s *Scene) Wall() *mesh.Mesh { return s.wall }

// FlatShading reports the current shading mode.
func (s *Scene) FlatShading() bool { return s.flat }

// State returns the frame state; it is Idle between frames.
func (s *Scene) State() State { return s.state }

// Quit reports whether an exit was requested.
func (s *Scene) Quit() bool { return s.quit }

// Add uploads m and appends it to the collection.
func (s *Scene) Add(m *mesh.Mesh) *mesh.Mesh {
	m.Upload(s.dev)
	s.meshes = append(s.meshes, m)
	s.fitLight()
	return m
}

// Bounds returns the world-space box around every mesh.
func (s *Scene) Bounds() mesh.Bounds {
	if len(s.meshes) == 0 {
		return mesh.Bounds{}
	}
	b := s.meshes[0].Bounds()
	for _, m := range s.meshes[1:] {
		b = b.Extend(m.Bounds())
	}
	return b
}

// fitLight refits the light box to the scene when configured to.
func (s *Scene) fitLight() {
	if !s.cfg.Light.FitScene || len(s.meshes) == 0 {
		return
	}
	b := s.Bounds()
	s.light.Set(shadow.FitToBounds(s.light.Direction(), shadow.AABB{Min: b.Min, Max: b.Max}))
}

// Close releases every GPU object: meshes newest first, then textures, the
// shadow target and programs in reverse order of creation.
func (s *Scene) Close() {
	for i := len(s.meshes) - 1; i >= 0; i-- {
		s.meshes[i].Destroy()
	}
	s.scope.Release()
	logger.Debug("scene closed", zap.Int("meshes", len(s.meshes)))
}

// lightParams builds the shadow light from config. Sun angles, when set, move
// the position onto the sun ray at its configured distance from the target.
// An up vector parallel to the light direction is replaced so the light view
// stays defined.
func lightParams(l config.LightConfig) shadow.LightParams {
	position, target, up := mgl32.Vec3(l.Position), mgl32.Vec3(l.Target), mgl32.Vec3(l.Up)
	if l.Sun != nil {
		sun := lighting.Sun{Azimuth: l.Sun.Azimuth, Elevation: l.Sun.Elevation}
		position = target.Add(sun.Direction().Mul(position.Sub(target).Len()))
		logger.Debug("light placed from sun angles",
			zap.Float32("azimuth", sun.Azimuth),
			zap.Float32("elevation", sun.Elevation),
		)
	}
	if fixed := shadow.UpFor(position.Sub(target), up); fixed != up {
		logger.Warn("light up vector is parallel to the light direction, using +Z",
			zap.Float32s("up", up[:]),
		)
		up = fixed
	}
	return shadow.LightParams{
		Position: position,
		Target:   target,
		Up:       up,
		Bounds:   shadow.OrthoBounds{Left: l.Ortho[0], Right: l.Ortho[1], Bottom: l.Ortho[2], Top: l.Ortho[3]},
		Near:     l.Near,
		Far:      l.Far,
	}
}
