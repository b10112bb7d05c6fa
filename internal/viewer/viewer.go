// Package viewer runs the interactive main loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/config"
	"github.com/Faultbox/shadowbox/internal/engine/debug"
	"github.com/Faultbox/shadowbox/internal/engine/gfx/opengl"
	"github.com/Faultbox/shadowbox/internal/engine/input"
	"github.com/Faultbox/shadowbox/internal/engine/scene"
	"github.com/Faultbox/shadowbox/internal/engine/texture"
	"github.com/Faultbox/shadowbox/internal/engine/window"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// Viewer owns the window, the graphics device and the scene.
type Viewer struct {
	log    *zap.Logger
	cfg    *config.Config
	window *window.Window
	scene  *scene.Scene
	input  *input.Input
}

// New opens the window, initializes OpenGL and builds the default scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{log: logger.Named("viewer"), cfg: cfg}
	v.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The context must exist before OpenGL can be loaded.
	dev, err := opengl.New()
	if err != nil {
		v.window.Close()
		return nil, err
	}

	capture := debug.NewScreenshotCapture(cfg.Screenshot.Dir, "shadowbox", cfg.Screenshot.Format)
	v.scene, err = scene.New(dev, cfg, v.window, capture)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	v.scene.OnReshape(v.window.GetSize())
	v.scene.Populate(texture.NewLoader(dev, cfg.Scene.MaxTextureSize))

	v.input = input.New()

	v.log.Info("viewer initialized")
	return v, nil
}

// Run dispatches input, fires the timer at the configured rate and redraws
// when something changed. It returns when Esc is pressed, the window is
// closed or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	tick := v.cfg.Render.TickInterval()
	next := time.Now().Add(tick)
	redraw := true

	frames := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop", zap.Duration("tick", tick))

	for {
		if err := ctx.Err(); err != nil {
			v.log.Info("main loop interrupted", zap.Error(err))
			return nil
		}

		if v.input.Update() {
			v.log.Info("window closed")
			return nil
		}
		for _, event := range v.input.Events() {
			if v.dispatch(event) {
				redraw = true
			}
		}
		if v.scene.Quit() {
			v.log.Info("exit requested")
			return nil
		}

		if now := time.Now(); !now.Before(next) {
			if v.scene.OnTimerTick() {
				redraw = true
			}
			next = next.Add(tick)
			if next.Before(now) {
				// Fell behind; do not replay missed ticks.
				next = now.Add(tick)
			}
		}

		if redraw {
			v.scene.OnDisplay()
			redraw = false
			frames++
		}

		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frames), zap.Int("meshes", len(v.scene.Meshes())))
			frames = 0
			fpsTimer = time.Now()
		}

		v.input.Wait(time.Until(next))
	}
}

// dispatch forwards one event to the scene and reports whether a redraw is
// needed.
func (v *Viewer) dispatch(e input.Event) bool {
	switch e.Type {
	case input.EventWindowResize:
		// Use the drawable size; it differs from the event size on high-DPI displays.
		v.scene.OnReshape(v.window.GetSize())
		return true
	case input.EventKeyDown:
		if e.Key == 0 {
			return false
		}
		return v.scene.OnKey(e.Key)
	case input.EventMouseDown, input.EventMouseUp:
		v.scene.OnMouseButton(scene.Button(e.Button), e.Type == input.EventMouseDown, e.MouseX, e.MouseY)
	case input.EventMouseMove:
		return v.scene.OnMouseMove(e.MouseX, e.MouseY)
	}
	return false
}

// Close releases GPU objects and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.scene != nil {
		v.scene.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
