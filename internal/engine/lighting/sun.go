// Package lighting converts sun angles into a light direction.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sun places a directional light on the sky dome.
type Sun struct {
	// Azimuth is the rotation about world Y in degrees; 0 faces +Z.
	Azimuth float32
	// Elevation is the angle above the horizon in degrees, clamped to [-90, 90].
	Elevation float32
}

// Direction returns the unit vector pointing towards the sun.
func (s Sun) Direction() mgl32.Vec3 {
	az := float64(mgl32.DegToRad(s.Azimuth))
	el := float64(mgl32.DegToRad(mgl32.Clamp(s.Elevation, -90, 90)))

	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}
