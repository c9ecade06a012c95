package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshview/internal/engine/transform"
)

// Held keys that drive the model transform.
const (
	keyLeft   = sdl.SCANCODE_LEFT
	keyRight  = sdl.SCANCODE_RIGHT
	keyUp     = sdl.SCANCODE_UP
	keyDown   = sdl.SCANCODE_DOWN
	keyRotate = sdl.SCANCODE_R
	keyShrink = sdl.SCANCODE_S
	keyGrow   = sdl.SCANCODE_B
)

// One-shot keys.
const (
	keyQuit       = sdl.SCANCODE_ESCAPE
	keyOpen       = sdl.SCANCODE_O
	keyFrame      = sdl.SCANCODE_F
	keyBounds     = sdl.SCANCODE_X
	keyReset      = sdl.SCANCODE_HOME
	keyScreenshot = sdl.SCANCODE_F12
)

// keyStateFrom samples the transform keys with held.
func keyStateFrom(held func(sdl.Scancode) bool) transform.KeyState {
	return transform.KeyState{
		Left:   held(keyLeft),
		Right:  held(keyRight),
		Up:     held(keyUp),
		Down:   held(keyDown),
		Rotate: held(keyRotate),
		Shrink: held(keyShrink),
		Grow:   held(keyGrow),
	}
}
