package shader

import (
	"strings"
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

func TestCompileLinksAndReleasesStages(t *testing.T) {
	dev := gfxtest.New()
	p := Compile(dev, "standard", "vs", "fs")

	if !p.Valid() {
		t.Fatalf("program should be valid, err = %v", p.Err())
	}
	if p.Err() != nil {
		t.Errorf("Err() = %v, want nil", p.Err())
	}
	if dev.Live(gfx.KindShader) != 0 {
		t.Errorf("%d shader stages leaked after link", dev.Live(gfx.KindShader))
	}
	if dev.Live(gfx.KindProgram) != 1 {
		t.Errorf("live programs = %d, want 1", dev.Live(gfx.KindProgram))
	}

	p.Destroy()
	p.Destroy()
	if dev.Live(gfx.KindProgram) != 0 || dev.DoubleDeletes != 0 {
		t.Errorf("Destroy: live=%d doubleDeletes=%d", dev.Live(gfx.KindProgram), dev.DoubleDeletes)
	}
}

func TestCompileFailureContinuesToLink(t *testing.T) {
	logs := observeLogs(t)
	dev := gfxtest.New()
	dev.FailStage[gfx.FragmentStage] = true

	p := Compile(dev, "shadow", "vs", "broken")

	// Linking is still attempted after a failed stage.
	if dev.Count("LinkProgram") != 1 {
		t.Errorf("LinkProgram calls = %d, want 1", dev.Count("LinkProgram"))
	}
	if p.Err() == nil || !strings.Contains(p.Err().Error(), "fragment shader") {
		t.Errorf("Err() = %v, want fragment shader error", p.Err())
	}
	if logs.FilterMessage("shader compile failed").Len() != 1 {
		t.Errorf("expected one compile failure log, got %v", logs.All())
	}
	entry := logs.FilterMessage("shader compile failed").All()[0]
	if entry.ContextMap()["stage"] != "fragment" {
		t.Errorf("stage field = %v, want fragment", entry.ContextMap()["stage"])
	}
}

func TestLinkFailureYieldsUnusableProgram(t *testing.T) {
	logs := observeLogs(t)
	dev := gfxtest.New()
	dev.FailLink = true

	p := Compile(dev, "standard", "vs", "fs")

	if p.Valid() || p.ID() != 0 {
		t.Fatalf("link failure should leave ID 0, got %d", p.ID())
	}
	if dev.LiveTotal() != 0 {
		t.Errorf("failed link leaked %d objects", dev.LiveTotal())
	}
	if logs.FilterMessage("shader program link failed").Len() != 1 {
		t.Error("expected link failure to be logged")
	}

	// Using and writing to an unusable program must not crash.
	p.Use()
	p.SetMat4("view", mgl32.Ident4())
	if dev.Program != 0 {
		t.Errorf("bound program = %d, want 0", dev.Program)
	}
	if logs.FilterMessage("using unusable shader program").Len() != 1 {
		t.Error("expected Use on an unusable program to warn")
	}
}

func TestSettersWriteUniforms(t *testing.T) {
	dev := gfxtest.New()
	p := Compile(dev, "standard", "vs", "fs")
	p.Use()

	view := mgl32.Translate3D(1, 2, 3)
	p.SetBool("useTexture", true)
	p.SetInt("shadowMap", 1)
	p.SetFloat("depthBias", 0.005)
	p.SetVec3("lightDir", mgl32.Vec3{0, 1, 0})
	p.SetMat4("view", view)

	checks := map[string]any{
		"useTexture": int32(1),
		"shadowMap":  int32(1),
		"depthBias":  float32(0.005),
		"lightDir":   mgl32.Vec3{0, 1, 0},
		"view":       view,
	}
	for name, want := range checks {
		got, ok := dev.Uniform(p.ID(), name)
		if !ok {
			t.Errorf("uniform %q was not written", name)
			continue
		}
		if got != want {
			t.Errorf("uniform %q = %v, want %v", name, got, want)
		}
	}

	p.SetBool("useTexture", false)
	if got, _ := dev.Uniform(p.ID(), "useTexture"); got != int32(0) {
		t.Errorf("SetBool(false) wrote %v, want 0", got)
	}
}

func TestMissingUniformIsLoggedNoOp(t *testing.T) {
	logs := observeLogs(t)
	dev := gfxtest.New()
	dev.Missing["objectColr"] = true

	p := Compile(dev, "standard", "vs", "fs")
	p.Use()
	before := dev.Count("Uniform")

	for i := 0; i < 3; i++ {
		p.SetVec3("objectColr", mgl32.Vec3{1, 0, 0})
	}

	if dev.Count("Uniform") != before {
		t.Error("write to a missing uniform reached the device")
	}
	if _, ok := p.Location("objectColr"); ok {
		t.Error("Location reported a missing uniform as found")
	}
	// Logged once per name, not per call.
	if n := logs.FilterMessage("uniform not found, write dropped").Len(); n != 1 {
		t.Errorf("missing-uniform logs = %d, want 1", n)
	}
}
