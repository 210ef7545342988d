// Package camera holds the viewer's projection setup.
package camera

import "github.com/Faultbox/terrainview/pkg/math"

// Projection parameters.
const (
	FovYDegrees = 45.0
	ZNear       = 3.0
	ZFar        = 50.0
)

// Projection returns the perspective projection for a viewport.
// A zero height is treated as one pixel.
func Projection(width, height int) math.Mat4 {
	if height <= 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	return math.PerspectiveDegrees(FovYDegrees, aspect, ZNear, ZFar)
}
