// Package shaders embeds the WGSL source for the ray-tracing compute
// kernel and the presentation pass, one go:embed file per pass.
package shaders

import (
	_ "embed"
)

//go:embed raytrace.wgsl
var RaytraceWGSL string

//go:embed fullscreen.wgsl
var FullscreenWGSL string
