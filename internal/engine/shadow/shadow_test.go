package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/shadowbox/internal/logger"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })
	return logs
}

func defaultParams() LightParams {
	return LightParams{
		Position: mgl32.Vec3{-2, 4, -1},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		Bounds:   Symmetric(10),
		Near:     1,
		Far:      7.5,
	}
}

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	clip := m.Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func TestLightSpaceMatrixInsideBounds(t *testing.T) {
	p := defaultParams()
	m := LightSpaceMatrix(p.Position, p.Target, p.Up, p.Bounds, p.Near, p.Far)

	dir := p.Target.Sub(p.Position).Normalize()
	right := dir.Cross(p.Up).Normalize()
	up := right.Cross(dir)

	// Points inside the light's box: offsets within ±10 sideways and between
	// near and far along the view direction.
	for _, depth := range []float32{1.01, 2, p.Position.Len(), 7.49} {
		for _, side := range []float32{-9.9, -3, 0, 5, 9.9} {
			pt := p.Position.Add(dir.Mul(depth)).Add(right.Mul(side)).Add(up.Mul(-side / 2))
			ndc := project(m, pt)
			for i := range 3 {
				if ndc[i] < -1 || ndc[i] > 1 {
					t.Errorf("point %v (depth %v) projects to %v, outside NDC", pt, depth, ndc)
					break
				}
			}
		}
	}
}

func TestLightSpaceMatrixOutsideBounds(t *testing.T) {
	p := defaultParams()
	m := LightSpaceMatrix(p.Position, p.Target, p.Up, p.Bounds, p.Near, p.Far)

	dir := p.Target.Sub(p.Position).Normalize()
	right := dir.Cross(p.Up).Normalize()
	up := right.Cross(dir)
	mid := p.Position.Add(dir.Mul(4))

	for _, off := range []mgl32.Vec3{right.Mul(10.5), right.Mul(-25), up.Mul(11), up.Mul(-10.01)} {
		ndc := project(m, mid.Add(off))
		if mgl32.Abs(ndc[0]) <= 1 && mgl32.Abs(ndc[1]) <= 1 {
			t.Errorf("offset %v projects to %v, want |x| or |y| > 1", off, ndc)
		}
	}
}

func TestLightSpaceMatrixIsProjectionTimesView(t *testing.T) {
	p := defaultParams()
	got := LightSpaceMatrix(p.Position, p.Target, p.Up, p.Bounds, p.Near, p.Far)
	want := mgl32.Ortho(-10, 10, -10, 10, 1, 7.5).Mul4(mgl32.LookAtV(p.Position, p.Target, p.Up))
	if got != want {
		t.Errorf("LightSpaceMatrix = %v, want %v", got, want)
	}
}

func TestLightRecomputesOnlyOnChange(t *testing.T) {
	l := NewLight(defaultParams())
	first := l.Matrix()

	l.Set(defaultParams())
	if l.dirty {
		t.Error("Set with equal parameters marked the light dirty")
	}
	if l.Matrix() != first {
		t.Error("matrix changed without a parameter change")
	}

	moved := defaultParams()
	moved.Position = mgl32.Vec3{3, 5, 2}
	l.Set(moved)
	if l.Matrix() == first {
		t.Error("matrix not recomputed after Set")
	}
	if !vecNear(l.Direction(), moved.Position.Normalize(), 1e-5) {
		t.Errorf("Direction() = %v", l.Direction())
	}
}

func TestFitToBoundsEnclosesScene(t *testing.T) {
	scene := AABB{Min: mgl32.Vec3{-5, -10, -15}, Max: mgl32.Vec3{10, 5, 4}}
	for _, dir := range []mgl32.Vec3{{-2, 4, -1}, {0, 1, 0}, {1, 0.2, 0}} {
		p := FitToBounds(dir, scene)
		m := LightSpaceMatrix(p.Position, p.Target, p.Up, p.Bounds, p.Near, p.Far)

		for i := range 8 {
			corner := mgl32.Vec3{scene.Min[0], scene.Min[1], scene.Min[2]}
			if i&1 != 0 {
				corner[0] = scene.Max[0]
			}
			if i&2 != 0 {
				corner[1] = scene.Max[1]
			}
			if i&4 != 0 {
				corner[2] = scene.Max[2]
			}
			ndc := project(m, corner)
			for k := range 3 {
				if ndc[k] < -1 || ndc[k] > 1 {
					t.Errorf("dir %v: corner %v projects to %v", dir, corner, ndc)
					break
				}
			}
		}
	}
}

func TestNewMapComplete(t *testing.T) {
	logs := observeLogs(t)
	dev := gfxtest.New()

	sm := NewMap(dev, 2048)

	if !sm.Valid() {
		t.Fatal("depth-only framebuffer should be complete")
	}
	fbo := sm.Framebuffer()
	if dev.DepthAttachment[fbo] != sm.Texture() {
		t.Errorf("depth attachment = %d, want %d", dev.DepthAttachment[fbo], sm.Texture())
	}
	if !dev.DisabledColor[fbo] {
		t.Error("color buffers not disabled")
	}
	if dev.TextureSize[sm.Texture()] != [2]int32{2048, 2048} {
		t.Errorf("texture size = %v", dev.TextureSize[sm.Texture()])
	}
	if dev.Framebuffer != gfx.DefaultFramebuffer {
		t.Errorf("framebuffer %d left bound", dev.Framebuffer)
	}
	if logs.FilterMessage("shadow framebuffer incomplete, shadows disabled").Len() != 0 {
		t.Error("complete framebuffer logged as incomplete")
	}
}

func TestNewMapIncompleteLogsAndContinues(t *testing.T) {
	logs := observeLogs(t)
	dev := gfxtest.New()
	dev.FramebufferStatus = 0x8CDD

	sm := NewMap(dev, 512)

	if sm == nil {
		t.Fatal("NewMap returned nil")
	}
	if sm.Valid() {
		t.Error("incomplete framebuffer reported valid")
	}
	entries := logs.FilterMessage("shadow framebuffer incomplete, shadows disabled").All()
	if len(entries) != 1 {
		t.Fatalf("incomplete logs = %d, want 1", len(entries))
	}
	if entries[0].ContextMap()["status"] != "unsupported" {
		t.Errorf("status field = %v", entries[0].ContextMap()["status"])
	}

	// Objects are still owned and released.
	sm.Destroy()
	if dev.LiveTotal() != 0 {
		t.Errorf("LiveTotal() = %d after Destroy", dev.LiveTotal())
	}
}

func TestNewMapDefaultResolution(t *testing.T) {
	sm := NewMap(gfxtest.New(), 0)
	if sm.Resolution() != DefaultResolution {
		t.Errorf("Resolution() = %d, want %d", sm.Resolution(), DefaultResolution)
	}
}

func TestBindUnbind(t *testing.T) {
	dev := gfxtest.New()
	sm := NewMap(dev, 1024)
	dev.Reset()

	sm.Bind()
	if dev.Framebuffer != sm.Framebuffer() {
		t.Errorf("bound framebuffer = %d", dev.Framebuffer)
	}
	if dev.ViewportBox != [4]int32{0, 0, 1024, 1024} {
		t.Errorf("viewport = %v", dev.ViewportBox)
	}
	if len(dev.ClearMasks) != 1 || dev.ClearMasks[0] != gfx.ClearDepth {
		t.Errorf("clear masks = %v, want depth only", dev.ClearMasks)
	}

	sm.Unbind()
	if dev.Framebuffer != gfx.DefaultFramebuffer {
		t.Errorf("framebuffer after Unbind = %d", dev.Framebuffer)
	}

	sm.BindTexture(1)
	if dev.Textures[1] != sm.Texture() {
		t.Errorf("unit 1 = %d, want %d", dev.Textures[1], sm.Texture())
	}
	if len(dev.Draws) != 0 {
		t.Error("shadow map issued draw calls")
	}

	sm.Destroy()
	sm.Destroy()
	if sm.Valid() || dev.DoubleDeletes != 0 {
		t.Errorf("Destroy: valid=%v doubleDeletes=%d", sm.Valid(), dev.DoubleDeletes)
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
