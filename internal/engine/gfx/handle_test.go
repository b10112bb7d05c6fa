package gfx_test

import (
	"testing"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/engine/gfx/gfxtest"
)

func TestHandleReleaseIsIdempotent(t *testing.T) {
	dev := gfxtest.New()
	h := gfx.NewHandle(dev, gfx.KindTexture, dev.NewDepthTexture(4, 4))

	if !h.Valid() {
		t.Fatal("new handle should be valid")
	}
	h.Release()
	h.Release()

	if h.Valid() || h.ID() != 0 {
		t.Errorf("released handle still reports id %d", h.ID())
	}
	if dev.Live(gfx.KindTexture) != 0 {
		t.Errorf("texture still live after release")
	}
	if dev.DoubleDeletes != 0 {
		t.Errorf("DoubleDeletes = %d, want 0", dev.DoubleDeletes)
	}
}

func TestNilHandle(t *testing.T) {
	var h *gfx.Handle
	if h.ID() != 0 || h.Valid() {
		t.Error("nil handle should be empty")
	}
	h.Release() // must not panic
}

func TestScopeReleasesInReverseOrder(t *testing.T) {
	dev := gfxtest.New()
	var scope gfx.Scope

	fbo := scope.Own(gfx.NewHandle(dev, gfx.KindFramebuffer, dev.NewFramebuffer()))
	tex := scope.Own(gfx.NewHandle(dev, gfx.KindTexture, dev.NewDepthTexture(8, 8)))
	vao := scope.Own(gfx.NewHandle(dev, gfx.KindVertexArray, dev.NewVertexArray()))
	scope.Own(nil)

	if scope.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", scope.Len())
	}

	// Releasing one early must not cause a second delete later.
	tex.Release()
	dev.Reset()
	scope.Release()

	want := []string{
		"DeleteVertexArray 3",
		"DeleteFramebuffer 1",
	}
	if len(dev.Calls) != len(want) {
		t.Fatalf("calls = %v, want %v", dev.Calls, want)
	}
	for i := range want {
		if dev.Calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, dev.Calls[i], want[i])
		}
	}
	if fbo.Valid() || vao.Valid() {
		t.Error("scope release left handles valid")
	}
	if scope.Len() != 0 {
		t.Errorf("Len() after release = %d, want 0", scope.Len())
	}
	if dev.LiveTotal() != 0 {
		t.Errorf("LiveTotal() = %d, want 0", dev.LiveTotal())
	}
}

func TestKindString(t *testing.T) {
	if gfx.KindFramebuffer.String() != "framebuffer" {
		t.Errorf("KindFramebuffer.String() = %q", gfx.KindFramebuffer.String())
	}
	if gfx.VertexStage.String() != "vertex" || gfx.FragmentStage.String() != "fragment" {
		t.Error("unexpected ShaderStage names")
	}
}
