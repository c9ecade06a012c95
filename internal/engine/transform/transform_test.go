package transform

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshview/pkg/math"
)

var defaultSteps = Steps{
	Translate:     0.05,
	RotateDegrees: 15,
	RotateAxis:    math.Vec3{X: 4, Y: 3, Z: 3},
	Scale:         0.01,
	MinScale:      0,
	MaxScale:      20,
}

func TestApplyKeysNoKeys(t *testing.T) {
	start := New()
	got := ApplyKeys(start, KeyState{}, defaultSteps)
	if got != start {
		t.Errorf("no keys should leave the transform unchanged, got %+v", got)
	}
}

func TestApplyKeysTranslate(t *testing.T) {
	tests := []struct {
		name string
		keys KeyState
		want math.Vec3
	}{
		{"right", KeyState{Right: true}, math.Vec3{X: 0.05}},
		{"left", KeyState{Left: true}, math.Vec3{X: -0.05}},
		{"up", KeyState{Up: true}, math.Vec3{Y: 0.05}},
		{"down", KeyState{Down: true}, math.Vec3{Y: -0.05}},
		{"left and right cancel", KeyState{Left: true, Right: true}, math.Vec3{}},
		{"diagonal", KeyState{Right: true, Up: true}, math.Vec3{X: 0.05, Y: 0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyKeys(New(), tt.keys, defaultSteps)
			origin := got.Model.TransformPoint(math.Vec3{})
			if !near(origin, tt.want) {
				t.Errorf("origin moved to %v, want %v", origin, tt.want)
			}
			if got.Size != 1 {
				t.Errorf("translation must not touch size, got %v", got.Size)
			}
		})
	}
}

func TestApplyKeysTranslateAccumulates(t *testing.T) {
	tr := New()
	for i := 0; i < 10; i++ {
		tr = ApplyKeys(tr, KeyState{Right: true}, defaultSteps)
	}
	origin := tr.Model.TransformPoint(math.Vec3{})
	if !near(origin, math.Vec3{X: 0.5}) {
		t.Errorf("after 10 frames origin at %v, want (0.5, 0, 0)", origin)
	}
}

func TestApplyKeysRotateKeepsAxis(t *testing.T) {
	axis := defaultSteps.RotateAxis.Normalize()
	tr := ApplyKeys(New(), KeyState{Rotate: true}, defaultSteps)

	// Points on the rotation axis are fixed.
	got := tr.Model.TransformPoint(axis)
	if !near(got, axis) {
		t.Errorf("axis point moved to %v, want %v", got, axis)
	}

	// 24 steps of 15 degrees come back around.
	for i := 1; i < 24; i++ {
		tr = ApplyKeys(tr, KeyState{Rotate: true}, defaultSteps)
	}
	p := math.Vec3{X: 1}
	if got := tr.Model.TransformPoint(p); !near(got, p) {
		t.Errorf("full turn moved %v to %v", p, got)
	}
}

func TestApplyKeysScale(t *testing.T) {
	tr := ApplyKeys(New(), KeyState{Grow: true}, defaultSteps)
	if !approx(tr.Size, 1.01) {
		t.Errorf("grow: size %v, want 1.01", tr.Size)
	}
	if got := tr.Model.TransformPoint(math.Vec3{X: 1}); !near(got, math.Vec3{X: 1.01}) {
		t.Errorf("grow: point scaled to %v", got)
	}

	tr = ApplyKeys(New(), KeyState{Shrink: true}, defaultSteps)
	if !approx(tr.Size, 0.99) {
		t.Errorf("shrink: size %v, want 0.99", tr.Size)
	}
}

func TestApplyKeysScaleResetsModel(t *testing.T) {
	tr := ApplyKeys(New(), KeyState{Right: true}, defaultSteps)
	tr = ApplyKeys(tr, KeyState{Grow: true}, defaultSteps)

	if origin := tr.Model.TransformPoint(math.Vec3{}); !near(origin, math.Vec3{}) {
		t.Errorf("scaling should replace the model matrix, origin at %v", origin)
	}
}

func TestApplyKeysScaleClamped(t *testing.T) {
	tr := Transform{Model: math.Identity(), Size: 20}
	tr = ApplyKeys(tr, KeyState{Grow: true}, defaultSteps)
	if tr.Size != 20 {
		t.Errorf("size above max: got %v, want 20", tr.Size)
	}

	tr = Transform{Model: math.Identity(), Size: 0}
	tr = ApplyKeys(tr, KeyState{Shrink: true}, defaultSteps)
	if tr.Size != 0 {
		t.Errorf("size below min: got %v, want 0", tr.Size)
	}
}

func TestKeyStateAny(t *testing.T) {
	if (KeyState{}).Any() {
		t.Error("empty key state reports Any")
	}
	if !(KeyState{Rotate: true}).Any() {
		t.Error("rotate key not reported by Any")
	}
}

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func near(a, b math.Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}
