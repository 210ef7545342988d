package orientation

import (
	"testing"

	"github.com/Faultbox/terrainview/pkg/math"
)

const tolerance = 1e-5

type redrawCounter struct {
	n int
}

func (r *redrawCounter) request() { r.n++ }

func newTestController() (*Controller, *redrawCounter) {
	rc := &redrawCounter{}
	return New(DefaultOptions(), rc.request), rc
}

// drag performs a press at from and a release at to.
func drag(c *Controller, from, to math.Vec2) {
	c.PointerDown(from)
	c.PointerUp(to)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestNewInitialState(t *testing.T) {
	c, rc := newTestController()
	s := c.State()

	if s.Mode != ModeManual {
		t.Errorf("initial mode = %v, want manual", s.Mode)
	}
	if s.AngularSpeed != 0 {
		t.Errorf("initial speed = %v, want 0", s.AngularSpeed)
	}
	if s.Rotation != math.QuatIdentity() {
		t.Errorf("initial rotation = %v, want identity", s.Rotation)
	}
	if s.Offset != (math.Vec3{}) {
		t.Errorf("initial offset = %v, want zero", s.Offset)
	}
	if rc.n != 0 {
		t.Errorf("constructor requested %d redraws, want 0", rc.n)
	}
}

func TestNilRedrawSink(t *testing.T) {
	c := New(DefaultOptions(), nil)
	c.HandleKey(KeyUp)
	c.HandleKey(KeyToggleRotate)
	c.Tick()
	c.Reset()
}

func TestPointerDownRecordsPosition(t *testing.T) {
	c, rc := newTestController()
	c.PointerDown(math.Vec2{X: 10, Y: 20})

	s := c.State()
	if !s.Pressed || s.PressPosition != (math.Vec2{X: 10, Y: 20}) {
		t.Errorf("press state = (%v, %v), want (true, (10, 20))", s.Pressed, s.PressPosition)
	}
	if rc.n != 0 {
		t.Errorf("PointerDown requested %d redraws, want 0", rc.n)
	}
}

func TestPointerUpSetsAxisAndSpeed(t *testing.T) {
	c, rc := newTestController()

	// Horizontal drag rotates around Y.
	drag(c, math.Vec2{X: 100, Y: 100}, math.Vec2{X: 150, Y: 100})

	s := c.State()
	if !s.RotationAxis.ApproxEqual(math.Vec3{Y: 1}, tolerance) {
		t.Errorf("axis = %v, want (0, 1, 0)", s.RotationAxis)
	}
	if absf(s.AngularSpeed-0.5) > tolerance {
		t.Errorf("speed = %v, want 0.5", s.AngularSpeed)
	}
	if s.Pressed {
		t.Error("Pressed should be cleared after release")
	}
	if rc.n != 0 {
		t.Errorf("PointerUp requested %d redraws, want 0", rc.n)
	}
}

func TestPointerUpBlendsAxis(t *testing.T) {
	c, _ := newTestController()

	// Vertical drag of 100px: axis +X, speed 1.
	drag(c, math.Vec2{}, math.Vec2{Y: 100})
	// Horizontal drag of 100px: axis +Y, speed 1, blended equally with +X.
	drag(c, math.Vec2{}, math.Vec2{X: 100})

	s := c.State()
	want := math.Vec3{X: 1, Y: 1}.Normalize()
	if !s.RotationAxis.ApproxEqual(want, tolerance) {
		t.Errorf("blended axis = %v, want %v", s.RotationAxis, want)
	}
	if absf(s.AngularSpeed-1) > tolerance {
		t.Errorf("speed = %v, want 1 (speed is replaced, not added)", s.AngularSpeed)
	}
}

func TestAxisStaysNormalized(t *testing.T) {
	c, _ := newTestController()

	drags := [][2]math.Vec2{
		{{X: 0, Y: 0}, {X: 3, Y: 4}},
		{{X: 10, Y: 10}, {X: -250, Y: 40}},
		{{X: 5, Y: 5}, {X: 5, Y: 6}},
		{{X: 400, Y: 300}, {X: 100, Y: 700}},
		{{X: 0, Y: 0}, {X: 0.01, Y: -0.02}},
		{{X: 1, Y: 1}, {X: 1000, Y: 1000}},
	}

	for i, d := range drags {
		drag(c, d[0], d[1])
		for j := 0; j < 7; j++ {
			c.Tick()
		}
		if l := c.State().RotationAxis.Length(); absf(l-1) > tolerance {
			t.Fatalf("drag %d: |axis| = %v, want 1", i, l)
		}
	}
}

func TestZeroLengthDragStopsRotation(t *testing.T) {
	c, _ := newTestController()

	drag(c, math.Vec2{}, math.Vec2{X: 200})
	before := c.State()

	drag(c, math.Vec2{X: 50, Y: 50}, math.Vec2{X: 50, Y: 50})
	s := c.State()

	if s.AngularSpeed != 0 {
		t.Errorf("speed after click = %v, want 0", s.AngularSpeed)
	}
	if s.RotationAxis != before.RotationAxis {
		t.Errorf("axis after click = %v, want unchanged %v", s.RotationAxis, before.RotationAxis)
	}
	if s.Rotation != before.Rotation {
		t.Errorf("rotation changed on click")
	}
}

func TestZeroLengthDragFromRest(t *testing.T) {
	c, rc := newTestController()

	drag(c, math.Vec2{X: 5, Y: 5}, math.Vec2{X: 5, Y: 5})
	c.Tick()

	s := c.State()
	if s.RotationAxis != (math.Vec3{}) || s.AngularSpeed != 0 {
		t.Errorf("state after click at rest = (%v, %v), want untouched", s.RotationAxis, s.AngularSpeed)
	}
	if s.Rotation != math.QuatIdentity() {
		t.Errorf("rotation = %v, want identity", s.Rotation)
	}
	if rc.n != 0 {
		t.Errorf("redraws = %d, want 0", rc.n)
	}
}

func TestCancellingDragUsesGestureAxis(t *testing.T) {
	c, _ := newTestController()

	// +X axis at speed 1, then a drag whose axis is -X at speed 1.
	drag(c, math.Vec2{}, math.Vec2{Y: 100})
	drag(c, math.Vec2{Y: 100}, math.Vec2{})

	s := c.State()
	if !s.RotationAxis.ApproxEqual(math.Vec3{X: -1}, tolerance) {
		t.Errorf("axis = %v, want (-1, 0, 0)", s.RotationAxis)
	}
}

func TestReleaseWithoutPressIgnored(t *testing.T) {
	c, _ := newTestController()
	c.PointerUp(math.Vec2{X: 300, Y: 300})

	if s := c.State(); s.AngularSpeed != 0 || s.RotationAxis != (math.Vec3{}) {
		t.Errorf("release without press changed state: %+v", s)
	}
}

func TestPointerIgnoredInAutoRotate(t *testing.T) {
	c, _ := newTestController()
	c.HandleKey(KeyToggleRotate)
	before := c.State()

	drag(c, math.Vec2{}, math.Vec2{X: 500, Y: 200})

	s := c.State()
	if s.RotationAxis != before.RotationAxis || s.AngularSpeed != before.AngularSpeed {
		t.Errorf("pointer changed state in auto-rotate: axis %v speed %v", s.RotationAxis, s.AngularSpeed)
	}
	if s.Pressed {
		t.Error("press recorded in auto-rotate mode")
	}
}

func TestFrictionMonotonic(t *testing.T) {
	c, rc := newTestController()

	// 100px drag gives speed exactly 1.
	drag(c, math.Vec2{}, math.Vec2{X: 100})
	if s := c.State().AngularSpeed; s != 1 {
		t.Fatalf("speed = %v, want 1", s)
	}

	prev := c.State().AngularSpeed
	for i := 1; i <= 458; i++ {
		c.Tick()
		speed := c.State().AngularSpeed
		if speed >= prev {
			t.Fatalf("tick %d: speed %v did not decrease from %v", i, speed, prev)
		}
		if speed == 0 {
			t.Fatalf("tick %d: speed settled too early", i)
		}
		prev = speed
	}
	if rc.n != 458 {
		t.Errorf("redraws = %d, want 458", rc.n)
	}

	c.Tick()
	if s := c.State().AngularSpeed; s != 0 {
		t.Errorf("speed after 459 ticks = %v, want 0", s)
	}
	if rc.n != 458 {
		t.Errorf("settling tick requested a redraw")
	}
}

func TestSettledRotationIdempotent(t *testing.T) {
	c, rc := newTestController()
	drag(c, math.Vec2{}, math.Vec2{X: 30, Y: 40})
	for c.State().AngularSpeed > 0 {
		c.Tick()
	}

	settled := c.State()
	redraws := rc.n
	for i := 0; i < 100; i++ {
		c.Tick()
	}

	s := c.State()
	if s.Rotation != settled.Rotation || s.AngularSpeed != 0 {
		t.Errorf("settled state changed: rotation %v -> %v, speed %v", settled.Rotation, s.Rotation, s.AngularSpeed)
	}
	if rc.n != redraws {
		t.Errorf("settled ticks requested %d redraws", rc.n-redraws)
	}
}

func TestTickRotatesAroundAxis(t *testing.T) {
	c, _ := newTestController()
	drag(c, math.Vec2{}, math.Vec2{X: 100})
	c.Tick()

	s := c.State()
	want := math.QuatFromAxisAngleDegrees(math.Vec3{Y: 1}, 0.99)
	if !s.Rotation.ApproxEqual(want, tolerance) {
		t.Errorf("rotation = %v, want %v", s.Rotation, want)
	}
	if absf(s.Rotation.Length()-1) > tolerance {
		t.Errorf("|rotation| = %v, want 1", s.Rotation.Length())
	}
}

func TestToggleResets(t *testing.T) {
	c, rc := newTestController()

	drag(c, math.Vec2{}, math.Vec2{X: 120, Y: 35})
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	c.HandleKey(KeyLeft)
	c.HandleKey(KeyPageDown)
	if c.State().Rotation == math.QuatIdentity() {
		t.Fatal("setup should produce a non-identity rotation")
	}

	redraws := rc.n
	c.HandleKey(KeyToggleRotate)
	if rc.n != redraws+1 {
		t.Errorf("toggle requested %d redraws, want 1", rc.n-redraws)
	}

	auto := c.State()
	if auto.Mode != ModeAutoRotate {
		t.Fatalf("mode = %v, want auto-rotate", auto.Mode)
	}
	if auto.Offset != (math.Vec3{Z: -10}) {
		t.Errorf("offset = %v, want (0, 0, -10)", auto.Offset)
	}
	if auto.Rotation != math.QuatIdentity() {
		t.Errorf("rotation = %v, want identity", auto.Rotation)
	}
	wantAxis := math.Vec3{Y: 1, Z: 1}.Normalize()
	if !auto.RotationAxis.ApproxEqual(wantAxis, tolerance) {
		t.Errorf("axis = %v, want %v", auto.RotationAxis, wantAxis)
	}
	if auto.AngularSpeed != 0.5 {
		t.Errorf("speed = %v, want 0.5", auto.AngularSpeed)
	}

	for i := 0; i < 5; i++ {
		c.Tick()
	}
	c.HandleKey(KeyToggleRotate)

	manual := c.State()
	if manual.Mode != ModeManual {
		t.Fatalf("mode = %v, want manual", manual.Mode)
	}
	if manual.Rotation != math.QuatIdentity() {
		t.Errorf("rotation = %v, want identity", manual.Rotation)
	}
	if manual.AngularSpeed != 0 {
		t.Errorf("speed = %v, want 0", manual.AngularSpeed)
	}
	if manual.Offset != auto.Offset {
		t.Errorf("offset = %v, want unchanged %v", manual.Offset, auto.Offset)
	}
	if manual.RotationAxis != auto.RotationAxis {
		t.Errorf("axis = %v, want unchanged %v", manual.RotationAxis, auto.RotationAxis)
	}
}

func TestAutoRotateAlwaysAdvances(t *testing.T) {
	c, rc := newTestController()
	c.HandleKey(KeyToggleRotate)

	redraws := rc.n
	prev := c.State().Rotation
	for i := 0; i < 1000; i++ {
		c.Tick()
		s := c.State()
		if s.AngularSpeed != 0.5 {
			t.Fatalf("tick %d: speed = %v, want constant 0.5", i, s.AngularSpeed)
		}
		if s.Rotation == prev {
			t.Fatalf("tick %d: rotation did not change", i)
		}
		prev = s.Rotation
	}
	if rc.n-redraws != 1000 {
		t.Errorf("redraws = %d, want 1000", rc.n-redraws)
	}
}

func TestKeySteps(t *testing.T) {
	tests := []struct {
		key  Key
		want math.Vec3
	}{
		{KeyUp, math.Vec3{Y: -0.2}},
		{KeyDown, math.Vec3{Y: 0.2}},
		{KeyLeft, math.Vec3{X: 0.2}},
		{KeyRight, math.Vec3{X: -0.2}},
		{KeyPageUp, math.Vec3{Z: 0.2}},
		{KeyPageDown, math.Vec3{Z: -0.2}},
		{KeyNone, math.Vec3{}},
	}

	for _, tt := range tests {
		c, rc := newTestController()
		c.HandleKey(tt.key)
		if got := c.State().Offset; !got.ApproxEqual(tt.want, tolerance) {
			t.Errorf("key %d: offset = %v, want %v", tt.key, got, tt.want)
		}
		if rc.n != 1 {
			t.Errorf("key %d: redraws = %d, want 1", tt.key, rc.n)
		}
	}
}

func TestKeyStepAccumulation(t *testing.T) {
	c, _ := newTestController()
	for i := 0; i < 3; i++ {
		c.HandleKey(KeyUp)
	}
	if y := c.State().Offset.Y; absf(y+0.6) > tolerance {
		t.Errorf("offset Y = %v, want -0.6", y)
	}
}

func TestKeysMoveInAutoRotate(t *testing.T) {
	c, _ := newTestController()
	c.HandleKey(KeyToggleRotate)
	c.HandleKey(KeyPageUp)

	if z := c.State().Offset.Z; absf(z-(-9.8)) > tolerance {
		t.Errorf("offset Z = %v, want -9.8", z)
	}
}

func TestSetAutoRotate(t *testing.T) {
	c, rc := newTestController()

	c.SetAutoRotate(false)
	if rc.n != 0 || c.Mode() != ModeManual {
		t.Errorf("SetAutoRotate(false) from manual should be a no-op")
	}

	c.SetAutoRotate(true)
	if c.Mode() != ModeAutoRotate || rc.n != 1 {
		t.Errorf("SetAutoRotate(true): mode %v redraws %d", c.Mode(), rc.n)
	}

	c.SetAutoRotate(true)
	if rc.n != 1 {
		t.Errorf("repeated SetAutoRotate(true) requested a redraw")
	}
}

func TestReset(t *testing.T) {
	c, rc := newTestController()
	c.HandleKey(KeyToggleRotate)
	c.Tick()
	c.Reset()

	if s := c.State(); s != initialState() {
		t.Errorf("state after Reset = %+v, want initial", s)
	}
	if rc.n != 3 {
		t.Errorf("redraws = %d, want 3", rc.n)
	}
}

func TestViewTransformInitial(t *testing.T) {
	c, _ := newTestController()
	opts := DefaultOptions()

	got := c.ViewTransform(math.Identity())
	want := math.Translate(0, 0, -5).Mul(math.LookAt(opts.Eye, opts.Target, opts.Up))
	if !got.ApproxEqual(want, tolerance) {
		t.Errorf("ViewTransform = %v, want %v", got, want)
	}

	// The look-at eye ends up 5 units in front of the camera.
	if p := got.TransformVec3(opts.Eye); !p.ApproxEqual(math.Vec3{Z: -5}, tolerance) {
		t.Errorf("eye maps to %v, want (0, 0, -5)", p)
	}
}

func TestViewTransformOffsetAndProjection(t *testing.T) {
	c, _ := newTestController()
	c.HandleKey(KeyLeft)
	c.HandleKey(KeyDown)
	c.HandleKey(KeyPageUp)

	p := c.ViewTransform(math.Identity()).TransformVec3(DefaultOptions().Eye)
	if !p.ApproxEqual(math.Vec3{X: 0.2, Y: 0.2, Z: -4.8}, tolerance) {
		t.Errorf("eye maps to %v, want (0.2, 0.2, -4.8)", p)
	}

	proj := math.PerspectiveDegrees(45, 4.0/3.0, 3, 50)
	got := c.ViewTransform(proj)
	want := proj.Mul(c.ViewTransform(math.Identity()))
	if !got.ApproxEqual(want, tolerance) {
		t.Errorf("ViewTransform(P) != P * ViewTransform(I)")
	}
}

func TestViewTransformPure(t *testing.T) {
	c, rc := newTestController()
	drag(c, math.Vec2{}, math.Vec2{X: 40, Y: 90})
	c.Tick()

	before := c.State()
	redraws := rc.n
	a := c.ViewTransform(math.Identity())
	b := c.ViewTransform(math.Identity())

	if a != b || c.State() != before || rc.n != redraws {
		t.Error("ViewTransform must not change controller state")
	}
}

func TestModeString(t *testing.T) {
	if ModeManual.String() != "manual" || ModeAutoRotate.String() != "auto-rotate" {
		t.Errorf("unexpected mode names %q %q", ModeManual, ModeAutoRotate)
	}
}

func TestViewTransformRotationBeforeLookAt(t *testing.T) {
	c, _ := newTestController()
	opts := DefaultOptions()
	c.HandleKey(KeyRight)

	rot := math.QuatFromAxisAngleDegrees(math.Vec3{X: 1}, 90)
	c.state.Rotation = rot

	translate := math.Translate(-0.2, 0, -5)
	lookAt := math.LookAt(opts.Eye, opts.Target, opts.Up)
	want := translate.Mul(rot.ToMat4()).Mul(lookAt)
	swapped := translate.Mul(lookAt).Mul(rot.ToMat4())

	// The look-at moves the eye onto the view axis, which a quarter turn
	// about X does not preserve, so the two orders must disagree.
	if want.ApproxEqual(swapped, 1e-3) {
		t.Fatal("test rotation commutes with the look-at")
	}

	got := c.ViewTransform(math.Identity())
	if !got.ApproxEqual(want, tolerance) {
		t.Errorf("ViewTransform = %v, want T * R * LookAt = %v", got, want)
	}
}

func TestTickComposesStepOnTheLeft(t *testing.T) {
	c, _ := newTestController()

	prev := math.QuatFromAxisAngleDegrees(math.Vec3{X: 1}, 90)
	c.state.Rotation = prev

	// A horizontal drag spins about Y at 90 degrees per tick before friction.
	drag(c, math.Vec2{}, math.Vec2{X: 9000})
	s := c.State()
	if !s.RotationAxis.ApproxEqual(math.Vec3{Y: 1}, tolerance) {
		t.Fatalf("axis = %v, want (0, 1, 0)", s.RotationAxis)
	}

	c.Tick()

	speed := 90 * DefaultOptions().Friction
	step := math.QuatFromAxisAngleDegrees(math.Vec3{Y: 1}, speed)
	want := step.Mul(prev).Normalize()
	swapped := prev.Mul(step).Normalize()

	if want.ApproxEqual(swapped, 1e-3) {
		t.Fatal("test rotations commute")
	}

	if got := c.State().Rotation; !got.ApproxEqual(want, tolerance) {
		t.Errorf("rotation = %v, want step * previous = %v", got, want)
	}
}
