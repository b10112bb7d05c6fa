package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/mesh"
	"github.com/Faultbox/shadowbox/internal/engine/picking"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Key is the character of a pressed key.
type Key = rune

// KeyEscape quits the viewer.
const KeyEscape Key = 27

// Button identifies a mouse button.
type Button uint8

const (
	// ButtonLeft drags the view direction.
	ButtonLeft Button = 1
	// ButtonRight picks the mesh moved by i/j/k/l.
	ButtonRight Button = 3
)

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
)

// OnReshape records the new window size and updates the projection.
func (s *Scene) OnReshape(width, height int) {
	s.projection.Resize(width, height)
	w, h := s.projection.Size()
	logger.Debug("viewport resized", zap.Int("width", w), zap.Int("height", h))
}

// OnKey applies a key binding and reports whether the frame must be redrawn.
func (s *Scene) OnKey(key Key) bool {
	speed := s.cfg.Camera.MoveSpeed

	switch key {
	case 'w':
		s.observer.MoveForward(speed)
	case 's':
		s.observer.MoveForward(-speed)
	case 'a':
		s.observer.MoveRight(-speed)
	case 'd':
		s.observer.MoveRight(speed)
	case 'q':
		s.observer.Translate(mgl32.Vec3{0, speed, 0})
	case 'e':
		s.observer.Translate(mgl32.Vec3{0, -speed, 0})
	case 'i':
		s.moveSelected(mgl32.Vec3{0, 0, -speed})
	case 'k':
		s.moveSelected(mgl32.Vec3{0, 0, speed})
	case 'j':
		s.moveSelected(mgl32.Vec3{-speed, 0, 0})
	case 'l':
		s.moveSelected(mgl32.Vec3{speed, 0, 0})
	case 'f', 'F':
		s.flat = true
		logger.Info("flat shading")
	case 'g', 'G':
		s.flat = false
		logger.Info("smooth shading")
	case 'b':
		s.SpawnCube()
	case 'p':
		mode := s.projection.Toggle()
		logger.Info("projection switched", zap.Stringer("mode", mode))
	case 'c':
		s.RequestScreenshot()
	case KeyEscape:
		s.quit = true
		return false
	default:
		return false
	}
	return true
}

// moveSelected translates the picked mesh, or the wall when nothing is picked.
func (s *Scene) moveSelected(delta mgl32.Vec3) {
	target := s.Selected()
	if target == nil {
		return
	}
	target.Translate(delta)
	s.fitLight()
}

// SpawnCube adds an untextured cube a fixed distance ahead of the observer.
func (s *Scene) SpawnCube() *mesh.Mesh {
	sc := s.cfg.Scene
	pos := s.observer.Position()
	cube := mesh.NewCube(pos, sc.SpawnHalfExtent, mgl32.Vec3(sc.CubeColor))
	cube.Translate(s.observer.Forward().Mul(sc.SpawnDistance))
	s.Add(cube)

	at := cube.Centroid()
	logger.Debug("cube spawned",
		zap.Float32s("at", at[:]),
		zap.Int("meshes", len(s.meshes)),
	)
	return cube
}

// OnMouseButton starts or ends a left-button drag. A right-button press picks
// the mesh under the cursor.
func (s *Scene) OnMouseButton(button Button, pressed bool, x, y int) {
	if button == ButtonRight && pressed {
		s.Pick(x, y)
		return
	}
	if button != ButtonLeft {
		return
	}
	s.dragging = pressed
	if pressed {
		s.lastX, s.lastY = x, y
	} else {
		s.lastX, s.lastY = -1, -1
	}
}

// OnMouseMove turns the view direction while dragging: horizontal motion yaws
// about world Y, vertical motion pitches about world X. It reports whether the
// view changed.
func (s *Scene) OnMouseMove(x, y int) bool {
	if !s.dragging || s.lastX < 0 || s.lastY < 0 {
		return false
	}
	sens := s.cfg.Camera.MouseSensitivity
	dx, dy := x-s.lastX, y-s.lastY
	s.lastX, s.lastY = x, y
	if dx == 0 && dy == 0 {
		return false
	}

	s.observer.Rotate(float32(dx)*sens, axisY)
	s.observer.Rotate(float32(dy)*sens, axisX)
	return true
}

// OnTimerTick advances the cube spin, if enabled, and requests a redraw.
func (s *Scene) OnTimerTick() bool {
	spin := s.cfg.Scene.SpinDegrees
	if spin == 0 {
		return true
	}
	for _, m := range s.meshes {
		if m.Faces() == mesh.CubeFaces {
			m.RotateAround(spin, axisY)
		}
	}
	s.fitLight()
	return true
}

// Pick selects the nearest mesh under the pixel (x, y) as the target of the
// i/j/k/l keys. A miss clears the selection so the keys move the wall again.
func (s *Scene) Pick(x, y int) *mesh.Mesh {
	w, h := s.projection.Size()
	viewProj := s.projection.Matrix().Mul4(s.observer.ViewMatrix())
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), viewProj)

	idx, dist := picking.Pick(ray, s.meshes)
	if idx < 0 {
		s.selected = nil
		logger.Debug("pick missed, wall selected", zap.Int("x", x), zap.Int("y", y))
		return nil
	}
	s.selected = s.meshes[idx]
	logger.Info("mesh picked",
		zap.String("mesh", s.selected.Name()),
		zap.Int("index", idx),
		zap.Float32("distance", dist),
	)
	return s.selected
}

// Selected returns the mesh moved by i/j/k/l, which is the wall unless a
// pick chose another mesh.
func (s *Scene) Selected() *mesh.Mesh {
	if s.selected != nil {
		return s.selected
	}
	return s.wall
}
