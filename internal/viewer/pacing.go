package viewer

import "time"

// idleFrameDelay is slept after each frame when neither vsync nor an fps
// limit paces the loop.
const idleFrameDelay = 10 * time.Millisecond

// frameDelay returns how long to sleep after a frame that took elapsed.
func frameDelay(vsync bool, fpsLimit int, elapsed time.Duration) time.Duration {
	switch {
	case fpsLimit > 0:
		budget := time.Second / time.Duration(fpsLimit)
		if elapsed >= budget {
			return 0
		}
		return budget - elapsed
	case vsync:
		return 0
	default:
		return idleFrameDelay
	}
}
