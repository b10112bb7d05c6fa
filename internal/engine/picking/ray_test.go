package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/mesh"
)

const eps = 1e-3

func viewProj() mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

func TestScreenToRayCenter(t *testing.T) {
	r := ScreenToRay(400, 400, 800, 800, viewProj())

	if !vecNear(r.Direction, mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("center ray direction = %v, want (0,0,-1)", r.Direction)
	}
	// The origin sits on the near plane, one unit in front of the eye.
	if !vecNear(r.Origin, mgl32.Vec3{0, 0, 9}, eps) {
		t.Errorf("center ray origin = %v, want (0,0,9)", r.Origin)
	}
}

func TestScreenToRayFlipsY(t *testing.T) {
	top := ScreenToRay(400, 0, 800, 800, viewProj())
	if top.Direction[1] <= 0 {
		t.Errorf("ray through the top row should point up, got %v", top.Direction)
	}
	left := ScreenToRay(0, 400, 800, 800, viewProj())
	if left.Direction[0] >= 0 {
		t.Errorf("ray through the left column should point left, got %v", left.Direction)
	}
}

func TestScreenToRayDegenerate(t *testing.T) {
	if r := ScreenToRay(1, 1, 0, 10, viewProj()); r.Direction.Len() != 0 {
		t.Errorf("zero-width viewport gave %v", r)
	}
	if r := ScreenToRay(1, 1, 10, 10, mgl32.Mat4{}); r.Direction.Len() != 0 {
		t.Errorf("singular matrix gave %v", r)
	}
}

func TestIntersectBounds(t *testing.T) {
	box := mesh.Bounds{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"head on", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, true, 4},
		{"miss", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, false, 0},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, true, 1},
		{"grazing edge", Ray{mgl32.Vec3{1, 0, 5}, mgl32.Vec3{0, 0, -1}}, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectBounds(box)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && mgl32.Abs(got-tt.wantT) > eps {
				t.Errorf("t = %g, want %g", got, tt.wantT)
			}
		})
	}
}

func TestIntersectFlatBounds(t *testing.T) {
	wall := mesh.NewWall(mgl32.Vec3{-5, -5, -15}, 10, 10, 0)
	r := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{0, 0, -1}}

	got, ok := r.IntersectBounds(wall.Bounds())
	if !ok || mgl32.Abs(got-15) > eps {
		t.Errorf("wall hit = %v at %g, want true at 15", ok, got)
	}
}

func TestPickNearest(t *testing.T) {
	far := mesh.NewCube(mgl32.Vec3{0, 0, -10}, 1, mgl32.Vec3{1, 1, 1})
	near := mesh.NewCube(mgl32.Vec3{0, 0, -4}, 1, mgl32.Vec3{1, 1, 1})
	aside := mesh.NewCube(mgl32.Vec3{5, 0, -2}, 1, mgl32.Vec3{1, 1, 1})
	meshes := []*mesh.Mesh{far, near, aside}

	r := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{0, 0, -1}}
	idx, dist := Pick(r, meshes)
	if idx != 1 {
		t.Fatalf("picked %d, want 1", idx)
	}
	if mgl32.Abs(dist-3) > eps {
		t.Errorf("distance = %g, want 3", dist)
	}
	if !vecNear(r.At(dist), mgl32.Vec3{0, 0, -3}, eps) {
		t.Errorf("hit point = %v", r.At(dist))
	}

	up := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if idx, _ := Pick(up, meshes); idx != -1 {
		t.Errorf("picked %d with a ray that misses everything", idx)
	}
	if idx, _ := Pick(Ray{}, meshes); idx != -1 {
		t.Errorf("zero ray picked %d", idx)
	}
}

// vecNear compares component-wise with an absolute tolerance.
func vecNear(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
