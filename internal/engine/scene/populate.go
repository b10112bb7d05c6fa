package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/mesh"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Populate builds the default scene: a square grid of textured cubes in the
// z=0 plane, a wall behind it and a floor below it.
func (s *Scene) Populate(loader TextureLoader) {
	sc := s.cfg.Scene
	cubeTex := s.loadTexture(loader, sc.CubeTexture)
	wallTex := s.loadTexture(loader, sc.WallTexture)

	r := sc.GridRadius
	for i := -r; i <= r; i++ {
		for j := -r; j <= r; j++ {
			center := mgl32.Vec3{float32(i) * sc.GridSpacing, float32(j) * sc.GridSpacing, 0}
			cube := mesh.NewCube(center, sc.CubeHalfExtent, mgl32.Vec3(sc.CubeColor))
			for f := mesh.Front; f <= mesh.Right; f++ {
				cube.SetTextureForSide(f, cubeTex)
			}
			s.Add(cube)
		}
	}

	s.wall = mesh.NewWall(mgl32.Vec3{-5, -5, -15}, 15, 15, wallTex)
	s.wall.RotateAround(90, axisX)
	s.Add(s.wall)

	floor := mesh.NewWall(mgl32.Vec3{0, -10, 0}, 15, 15, wallTex)
	floor.RotateAround(90, axisX)
	s.Add(floor)

	logger.Info("scene populated", zap.Int("meshes", len(s.meshes)))
}

// loadTexture loads path and hands ownership to the scene. A failure is
// logged and yields 0, so the faces fall back to their flat color.
func (s *Scene) loadTexture(loader TextureLoader, path string) uint32 {
	if loader == nil || path == "" {
		return 0
	}
	h, err := loader.Load(path)
	if err != nil {
		logger.Warn("texture load failed, using flat color", zap.String("path", path), zap.Error(err))
		return 0
	}
	s.scope.Own(h)
	return h.ID()
}
