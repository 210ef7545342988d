// Package orientation implements the viewer's camera controller: drag-driven
// rotation with friction, an auto-rotate mode and key-driven translation.
//
// All methods must be called from the thread that owns the controller,
// normally the UI/render thread. The controller does no locking.
package orientation

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/pkg/math"
)

// Mode is the controller's rotation mode.
type Mode int

const (
	ModeManual Mode = iota
	ModeAutoRotate
)

func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeAutoRotate:
		return "auto-rotate"
	default:
		return "unknown"
	}
}

// Key is a host-independent key code understood by the controller.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyToggleRotate
)

// dragEpsilon is the shortest drag, in pixels, that defines a rotation axis.
const dragEpsilon = 1e-6

// State is the full orientation state owned by a Controller.
type State struct {
	RotationAxis math.Vec3
	Rotation     math.Quat
	// AngularSpeed is in degrees per tick, never negative.
	AngularSpeed float32
	Offset       math.Vec3
	Mode         Mode

	// PressPosition is only meaningful while Pressed is set.
	PressPosition math.Vec2
	Pressed       bool
}

func initialState() State {
	return State{
		Rotation: math.QuatIdentity(),
		Mode:     ModeManual,
	}
}

// Controller owns the orientation state and mutates it in response to
// pointer, tick and key events.
type Controller struct {
	opts   Options
	state  State
	redraw func()
	log    *zap.Logger
}

// Option configures optional Controller collaborators.
type Option func(*Controller)

// WithLogger sets the logger used for mode transitions.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a controller in manual mode with identity rotation and zero
// offsets. redraw is called whenever a new frame should be produced; it may
// be nil.
func New(opts Options, redraw func(), options ...Option) *Controller {
	c := &Controller{
		opts:   opts,
		state:  initialState(),
		redraw: redraw,
		log:    zap.NewNop(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the current rotation mode.
func (c *Controller) Mode() Mode {
	return c.state.Mode
}

// Reset restores the initial state and requests a redraw.
func (c *Controller) Reset() {
	c.state = initialState()
	c.requestRedraw()
}

// PointerDown records the press position. Ignored in auto-rotate mode.
func (c *Controller) PointerDown(pos math.Vec2) {
	if c.state.Mode != ModeManual {
		return
	}
	c.state.PressPosition = pos
	c.state.Pressed = true
}

// PointerUp turns the drag since the last PointerDown into a rotation
// impulse. The new axis is perpendicular to the drag and is blended with the
// current axis weighted by the current speed. Ignored in auto-rotate mode and
// when no press was recorded.
//
// A drag shorter than dragEpsilon keeps the current axis and stops the
// rotation.
func (c *Controller) PointerUp(pos math.Vec2) {
	if c.state.Mode != ModeManual || !c.state.Pressed {
		return
	}
	c.state.Pressed = false

	diff := pos.Sub(c.state.PressPosition)
	n, ok := math.Vec3{X: diff.Y, Y: diff.X}.TryNormalize(dragEpsilon)
	if !ok {
		c.state.AngularSpeed = 0
		return
	}

	acc := diff.Length() / c.opts.DragScale

	blended := c.state.RotationAxis.Scale(c.state.AngularSpeed).Add(n.Scale(acc))
	axis, ok := blended.TryNormalize(dragEpsilon)
	if !ok {
		// The gesture cancelled the previous spin exactly.
		axis = n
	}

	c.state.RotationAxis = axis
	c.state.AngularSpeed = acc
}

// Tick advances the rotation by one step. In manual mode the speed decays
// by Friction and settles to zero below StopThreshold, in which case nothing
// else changes. In auto-rotate mode the rotation always advances.
func (c *Controller) Tick() {
	if c.state.Mode == ModeManual {
		c.state.AngularSpeed *= c.opts.Friction
		if c.state.AngularSpeed < c.opts.StopThreshold {
			c.state.AngularSpeed = 0
			return
		}
	}

	c.advance()
	c.requestRedraw()
}

func (c *Controller) advance() {
	step := math.QuatFromAxisAngleDegrees(c.state.RotationAxis, c.state.AngularSpeed)
	c.state.Rotation = step.Mul(c.state.Rotation).Normalize()
}

// HandleKey applies a key press. Navigation keys move the offset by KeyStep
// in any mode; KeyToggleRotate switches modes. A redraw is always requested.
func (c *Controller) HandleKey(k Key) {
	step := c.opts.KeyStep

	switch k {
	case KeyUp:
		c.state.Offset.Y -= step
	case KeyDown:
		c.state.Offset.Y += step
	case KeyLeft:
		c.state.Offset.X += step
	case KeyRight:
		c.state.Offset.X -= step
	case KeyPageUp:
		c.state.Offset.Z += step
	case KeyPageDown:
		c.state.Offset.Z -= step
	case KeyToggleRotate:
		c.toggleAutoRotate()
	}

	c.requestRedraw()
}

// SetAutoRotate switches to the requested mode if it differs from the
// current one, applying the same resets as KeyToggleRotate.
func (c *Controller) SetAutoRotate(enabled bool) {
	if enabled == (c.state.Mode == ModeAutoRotate) {
		return
	}
	c.toggleAutoRotate()
	c.requestRedraw()
}

func (c *Controller) toggleAutoRotate() {
	if c.state.Mode == ModeManual {
		c.state.Mode = ModeAutoRotate
		c.state.Offset = c.opts.AutoRotateOffset
		c.state.Rotation = math.QuatIdentity()
		c.state.RotationAxis = c.opts.AutoRotateAxis.Normalize()
		c.state.AngularSpeed = c.opts.AutoRotateSpeed
	} else {
		c.state.Mode = ModeManual
		c.state.Rotation = math.QuatIdentity()
		c.state.AngularSpeed = 0
	}
	c.state.Pressed = false

	c.log.Debug("rotation mode changed",
		zap.Stringer("mode", c.state.Mode),
		zap.Float32("speed", c.state.AngularSpeed),
	)
}

// ViewTransform returns projection * model-view for the current state. The
// model-view translates by the offset (Z shifted by BaseDistance), applies
// the rotation, then the fixed look-at.
func (c *Controller) ViewTransform(projection math.Mat4) math.Mat4 {
	o := c.state.Offset
	modelView := math.Translate(o.X, o.Y, c.opts.BaseDistance+o.Z).
		Mul(c.state.Rotation.ToMat4()).
		Mul(math.LookAt(c.opts.Eye, c.opts.Target, c.opts.Up))
	return projection.Mul(modelView)
}

func (c *Controller) requestRedraw() {
	if c.redraw != nil {
		c.redraw()
	}
}
