// Package camera provides the viewer's look-at camera.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshview/pkg/math"
)

// LookAtCamera looks from Eye at Target with +Y up.
type LookAtCamera struct {
	Eye    math.Vec3
	Target math.Vec3

	// Projection
	FOV  float32 // Vertical field of view, degrees
	Near float32
	Far  float32

	// Constraints
	MinDistance     float32
	ZoomSensitivity float32 // Fraction of the eye distance per wheel notch
}

// NewLookAtCamera creates a camera at (4, 3, 3) looking at the origin.
func NewLookAtCamera() *LookAtCamera {
	return &LookAtCamera{
		Eye:             math.Vec3{X: 4, Y: 3, Z: 3},
		Target:          math.Vec3{},
		FOV:             45,
		Near:            0.1,
		Far:             100,
		MinDistance:     0.2,
		ZoomSensitivity: 0.1,
	}
}

// Distance returns the distance from eye to target.
func (c *LookAtCamera) Distance() float32 {
	return c.Eye.Sub(c.Target).Length()
}

// ViewMatrix returns the view matrix for this camera.
func (c *LookAtCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Eye, c.Target, up)
}

// ProjectionMatrix returns the perspective projection for the given aspect.
func (c *LookAtCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.Radians(c.FOV), aspect, c.Near, c.Far)
}

// HandleZoom moves the eye along the view direction. Positive delta (wheel
// up) moves closer. The eye never gets nearer than MinDistance.
func (c *LookAtCamera) HandleZoom(delta float32) {
	offset := c.Eye.Sub(c.Target)
	dist := offset.Length()
	if dist == 0 {
		return
	}

	newDist := dist - delta*dist*c.ZoomSensitivity
	if newDist < c.MinDistance {
		newDist = c.MinDistance
	}
	if far := c.Far * 0.9; newDist > far {
		newDist = far
	}

	c.Eye = c.Target.Add(offset.Scale(newDist / dist))
}

// FitToBounds retargets the camera on the box centre and backs the eye off
// along its current direction until the whole box fits the vertical fov.
func (c *LookAtCamera) FitToBounds(lo, hi math.Vec3) {
	center := lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Length() / 2

	dir := c.Eye.Sub(c.Target).Normalize()
	if dir.IsZero() {
		dir = math.Vec3{Z: 1}
	}

	dist := c.MinDistance
	if radius > 0 {
		dist = radius / math32.Sin(math.Radians(c.FOV)/2)
	}
	if dist < c.MinDistance {
		dist = c.MinDistance
	}

	c.Target = center
	c.Eye = center.Add(dir.Scale(dist))

	// Keep the whole model inside the far plane.
	if need := dist + radius; need > c.Far {
		c.Far = need * 1.1
	}
}
