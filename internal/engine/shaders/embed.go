// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// StandardVertexShader transforms scene geometry for the color pass and
// projects it into light space for the shadow test.
//
//go:embed standard.vert
var StandardVertexShader string

// StandardFragmentShader shades with a flat color or texture and applies the
// biased shadow-map comparison.
//
//go:embed standard.frag
var StandardFragmentShader string

// ShadowVertexShader transforms geometry into light clip space.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowFragmentShader writes depth only.
//
//go:embed shadow.frag
var ShadowFragmentShader string
