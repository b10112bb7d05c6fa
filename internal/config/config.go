// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Render     RenderConfig     `yaml:"render"`
	Shadow     ShadowConfig     `yaml:"shadow"`
	Light      LightConfig      `yaml:"light"`
	Camera     CameraConfig     `yaml:"camera"`
	Scene      SceneConfig      `yaml:"scene"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Source is the file the config was read from, empty for built-in defaults.
	Source string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// Projection and shading modes accepted in RenderConfig.
const (
	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"
	ShadingSmooth          = "smooth"
	ShadingFlat            = "flat"
)

// RenderConfig holds frame and projection settings.
type RenderConfig struct {
	Projection  string     `yaml:"projection"`
	Shading     string     `yaml:"shading"`
	FOV         float32    `yaml:"fov"` // degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	OrthoExtent float32    `yaml:"ortho_extent"`
	ClearColor  [3]float32 `yaml:"clear_color"`
	TickRate    int        `yaml:"tick_rate"` // timer callbacks per second
}

// MaxTickRate bounds TickRate so the timer period stays well above zero.
const MaxTickRate = 1000

// TickInterval returns the timer period derived from TickRate. Out-of-range
// rates fall back to 60 Hz.
func (r RenderConfig) TickInterval() time.Duration {
	if r.TickRate <= 0 || r.TickRate > MaxTickRate {
		return time.Second / 60
	}
	return time.Second / time.Duration(r.TickRate)
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Resolution int `yaml:"resolution"`
}

// LightConfig holds the shadow-casting directional light.
type LightConfig struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	Up       [3]float32 `yaml:"up"`
	Ortho    [4]float32 `yaml:"ortho"` // left, right, bottom, top
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	FitScene bool       `yaml:"fit_scene"`

	// Sun, when set, moves Position onto the sun ray through Target at the
	// same distance. Diffuse shading always follows Position - Target.
	Sun *SunConfig `yaml:"sun,omitempty"`
}

// SunConfig gives the light direction as sky angles in degrees.
type SunConfig struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
}

// CameraConfig holds the observer start pose and input sensitivities.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	Target           [3]float32 `yaml:"target"`
	Up               [3]float32 `yaml:"up"`
	MoveSpeed        float32    `yaml:"move_speed"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"` // degrees per pixel
}

// SceneConfig describes the default scene.
type SceneConfig struct {
	GridRadius      int        `yaml:"grid_radius"`
	GridSpacing     float32    `yaml:"grid_spacing"`
	CubeHalfExtent  float32    `yaml:"cube_half_extent"`
	CubeColor       [3]float32 `yaml:"cube_color"`
	SpawnHalfExtent float32    `yaml:"spawn_half_extent"`
	SpawnDistance   float32    `yaml:"spawn_distance"`
	SpinDegrees     float32    `yaml:"spin_degrees"` // per timer tick, 0 disables
	CubeTexture     string     `yaml:"cube_texture"`
	WallTexture     string     `yaml:"wall_texture"`
	MaxTextureSize  int        `yaml:"max_texture_size"`
}

// Screenshot formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// ScreenshotConfig controls frame capture.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the values the viewer ships with.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "shadowbox",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Render: RenderConfig{
			Projection:  ProjectionPerspective,
			Shading:     ShadingSmooth,
			FOV:         60,
			Near:        1,
			Far:         100,
			OrthoExtent: 10,
			TickRate:    60,
		},
		Shadow: ShadowConfig{
			Resolution: 1024,
		},
		Light: LightConfig{
			Position: [3]float32{-2, 4, -1},
			Up:       [3]float32{0, 1, 0},
			Ortho:    [4]float32{-10, 10, -10, 10},
			Near:     1,
			Far:      7.5,
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 0, 10},
			Up:               [3]float32{0, 1, 0},
			MoveSpeed:        0.5,
			MouseSensitivity: 0.1,
		},
		Scene: SceneConfig{
			GridRadius:      2,
			GridSpacing:     2,
			CubeHalfExtent:  0.8,
			CubeColor:       [3]float32{0.5, 0.5, 0.5},
			SpawnHalfExtent: 1,
			SpawnDistance:   3,
			CubeTexture:     "textures/wood.jpg",
			WallTexture:     "textures/wall.jpg",
			MaxTextureSize:  2048,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: FormatPNG,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	switch c.Render.Projection {
	case ProjectionPerspective, ProjectionOrthographic:
	default:
		errs = append(errs, fmt.Errorf("unknown projection %q", c.Render.Projection))
	}
	switch c.Render.Shading {
	case ShadingSmooth, ShadingFlat:
	default:
		errs = append(errs, fmt.Errorf("unknown shading %q", c.Render.Shading))
	}
	if c.Render.TickRate < 0 || c.Render.TickRate > MaxTickRate {
		errs = append(errs, fmt.Errorf("tick rate %d is outside [0, %d]", c.Render.TickRate, MaxTickRate))
	}
	if c.Render.Near <= 0 || c.Render.Far <= c.Render.Near {
		errs = append(errs, fmt.Errorf("render clip range [%g, %g] is invalid", c.Render.Near, c.Render.Far))
	}
	if c.Light.Far <= c.Light.Near {
		errs = append(errs, fmt.Errorf("light clip range [%g, %g] is invalid", c.Light.Near, c.Light.Far))
	}
	if c.Light.Ortho[0] == c.Light.Ortho[1] || c.Light.Ortho[2] == c.Light.Ortho[3] {
		errs = append(errs, errors.New("light ortho bounds are degenerate"))
	}
	if s := c.Light.Sun; s != nil && (s.Elevation < -90 || s.Elevation > 90) {
		errs = append(errs, fmt.Errorf("sun elevation %g is outside [-90, 90]", s.Elevation))
	}
	if c.Light.Position == c.Light.Target {
		errs = append(errs, errors.New("light position and target coincide"))
	}
	if c.Camera.Position == c.Camera.Target {
		errs = append(errs, errors.New("camera position and target coincide"))
	}
	switch c.Screenshot.Format {
	case FormatPNG, FormatWebP:
	default:
		errs = append(errs, fmt.Errorf("unknown screenshot format %q", c.Screenshot.Format))
	}

	return errors.Join(errs...)
}
