// Package transform maps held keys to model-matrix changes.
//
// Everything here is pure: the render loop owns a Transform value, feeds it
// the current KeyState once per frame, and hands the result to the renderer.
package transform

import (
	"github.com/Faultbox/meshview/pkg/math"
)

// KeyState is the set of control keys held during a frame.
type KeyState struct {
	Left, Right bool // Translate along -X / +X
	Up, Down    bool // Translate along +Y / -Y
	Rotate      bool
	Shrink      bool
	Grow        bool
}

// Any reports whether at least one control key is held.
func (k KeyState) Any() bool {
	return k != KeyState{}
}

// Steps holds the per-frame increments.
type Steps struct {
	Translate     float32
	RotateDegrees float32
	RotateAxis    math.Vec3
	Scale         float32
	MinScale      float32
	MaxScale      float32
}

// Transform is the model matrix plus the uniform scale factor that the
// shrink/grow keys work on.
type Transform struct {
	Model math.Mat4
	Size  float32
}

// New returns the identity transform at unit size.
func New() Transform {
	return Transform{Model: math.Identity(), Size: 1}
}

// ApplyKeys returns t updated for one frame of held keys.
//
// Translation and rotation post-multiply the current model matrix, so they
// act in model space. Shrink and grow adjust Size within [MinScale, MaxScale]
// and replace the model matrix with a pure scale, discarding accumulated
// translation and rotation.
func ApplyKeys(t Transform, keys KeyState, s Steps) Transform {
	if keys.Right {
		t.Model = t.Model.Mul(math.Translate(math.Vec3{X: s.Translate}))
	}
	if keys.Left {
		t.Model = t.Model.Mul(math.Translate(math.Vec3{X: -s.Translate}))
	}
	if keys.Up {
		t.Model = t.Model.Mul(math.Translate(math.Vec3{Y: s.Translate}))
	}
	if keys.Down {
		t.Model = t.Model.Mul(math.Translate(math.Vec3{Y: -s.Translate}))
	}
	if keys.Rotate {
		t.Model = t.Model.Mul(math.RotateAxis(s.RotateAxis, math.Radians(s.RotateDegrees)))
	}
	if keys.Shrink {
		if t.Size > s.MinScale {
			t.Size -= s.Scale
		}
		t.Model = math.Scale(t.Size)
	}
	if keys.Grow {
		if t.Size < s.MaxScale {
			t.Size += s.Scale
		}
		t.Model = math.Scale(t.Size)
	}
	return t
}
