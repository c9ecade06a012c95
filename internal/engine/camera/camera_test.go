package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshview/pkg/math"
)

func TestNewLookAtCamera(t *testing.T) {
	c := NewLookAtCamera()
	if c.Eye != (math.Vec3{X: 4, Y: 3, Z: 3}) {
		t.Errorf("Eye = %v, want (4, 3, 3)", c.Eye)
	}
	if c.FOV != 45 || c.Near != 0.1 || c.Far != 100 {
		t.Errorf("projection = fov %v near %v far %v, want 45/0.1/100", c.FOV, c.Near, c.Far)
	}
}

func TestViewMatrixMapsTargetToForward(t *testing.T) {
	c := NewLookAtCamera()
	view := c.ViewMatrix()

	// The target sits straight ahead on -Z in view space.
	p := view.TransformPoint(c.Target)
	if math32.Abs(p.X) > 1e-4 || math32.Abs(p.Y) > 1e-4 {
		t.Errorf("target not centred in view space: %v", p)
	}
	if want := -c.Distance(); math32.Abs(p.Z-want) > 1e-4 {
		t.Errorf("target depth = %v, want %v", p.Z, want)
	}
}

func TestHandleZoom(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
		check func(before, after float32) bool
	}{
		{"wheel up moves closer", 1, func(b, a float32) bool { return a < b }},
		{"wheel down moves away", -1, func(b, a float32) bool { return a > b }},
		{"no delta", 0, func(b, a float32) bool { return math32.Abs(a-b) < 1e-5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLookAtCamera()
			before := c.Distance()
			c.HandleZoom(tt.delta)
			if after := c.Distance(); !tt.check(before, after) {
				t.Errorf("distance %v -> %v", before, after)
			}
		})
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewLookAtCamera()
	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	if d := c.Distance(); d < c.MinDistance-1e-4 {
		t.Errorf("distance %v below minimum %v", d, c.MinDistance)
	}

	for i := 0; i < 200; i++ {
		c.HandleZoom(-1)
	}
	if d := c.Distance(); d > c.Far {
		t.Errorf("distance %v beyond far plane %v", d, c.Far)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewLookAtCamera()
	lo := math.Vec3{X: 9, Y: 9, Z: 9}
	hi := math.Vec3{X: 11, Y: 11, Z: 11}
	dirBefore := c.Eye.Sub(c.Target).Normalize()

	c.FitToBounds(lo, hi)

	if c.Target != (math.Vec3{X: 10, Y: 10, Z: 10}) {
		t.Errorf("Target = %v, want box centre", c.Target)
	}
	dirAfter := c.Eye.Sub(c.Target).Normalize()
	if dirBefore.Dot(dirAfter) < 0.9999 {
		t.Errorf("view direction changed: %v -> %v", dirBefore, dirAfter)
	}
	radius := hi.Sub(lo).Length() / 2
	if c.Distance() < radius {
		t.Errorf("eye inside the bounding sphere: distance %v radius %v", c.Distance(), radius)
	}
}

func TestFitToBoundsLargeModelExtendsFar(t *testing.T) {
	c := NewLookAtCamera()
	c.FitToBounds(math.Vec3{X: -500, Y: -500, Z: -500}, math.Vec3{X: 500, Y: 500, Z: 500})
	if c.Far <= c.Distance() {
		t.Errorf("far plane %v does not reach past the eye distance %v", c.Far, c.Distance())
	}
}

func TestProjectionMatrixBadAspect(t *testing.T) {
	c := NewLookAtCamera()
	if c.ProjectionMatrix(0) != c.ProjectionMatrix(1) {
		t.Error("non-positive aspect should fall back to 1")
	}
}
