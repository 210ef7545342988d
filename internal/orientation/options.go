package orientation

import "github.com/Faultbox/terrainview/pkg/math"

// Options holds the controller tunables. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	// Friction multiplies the angular speed on every manual tick.
	Friction float32
	// StopThreshold is the speed below which manual rotation settles to zero.
	StopThreshold float32
	// DragScale converts drag length in pixels to degrees per tick.
	DragScale float32
	// KeyStep is the translation applied per navigation key press.
	KeyStep float32

	// Presets applied when auto-rotate is switched on.
	AutoRotateSpeed  float32
	AutoRotateAxis   math.Vec3
	AutoRotateOffset math.Vec3

	// BaseDistance is added to the Z offset when building the view.
	BaseDistance float32

	// Fixed look-at applied after the rotation.
	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3
}

// DefaultOptions returns the stock viewer behaviour.
func DefaultOptions() Options {
	return Options{
		Friction:         0.99,
		StopThreshold:    0.01,
		DragScale:        100,
		KeyStep:          0.2,
		AutoRotateSpeed:  0.5,
		AutoRotateAxis:   math.Vec3{X: 0, Y: 1, Z: 1},
		AutoRotateOffset: math.Vec3{X: 0, Y: 0, Z: -10},
		BaseDistance:     -5,
		Eye:              math.Vec3{X: 1, Y: 1, Z: 1},
		Target:           math.Vec3{},
		Up:               math.Vec3{X: 0, Y: 0, Z: 1},
	}
}
