package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrGL wraps every error reported by CheckError.
var ErrGL = errors.New("OpenGL error")

// GL error codes. Stack overflow/underflow are not exposed by the 4.1 core
// bindings.
const (
	glInvalidEnum                 = 0x0500
	glInvalidValue                = 0x0501
	glInvalidOperation            = 0x0502
	glStackOverflow               = 0x0503
	glStackUnderflow              = 0x0504
	glOutOfMemory                 = 0x0505
	glInvalidFramebufferOperation = 0x0506
)

// ErrorName returns the symbolic name of a glGetError code.
func ErrorName(code uint32) string {
	switch code {
	case glInvalidEnum:
		return "INVALID_ENUM"
	case glInvalidValue:
		return "INVALID_VALUE"
	case glInvalidOperation:
		return "INVALID_OPERATION"
	case glStackOverflow:
		return "STACK_OVERFLOW"
	case glStackUnderflow:
		return "STACK_UNDERFLOW"
	case glOutOfMemory:
		return "OUT_OF_MEMORY"
	case glInvalidFramebufferOperation:
		return "INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("0x%04X", code)
	}
}

// CheckError drains the GL error queue. label names the call site.
func CheckError(label string) error {
	return collectErrors(label, gl.GetError)
}

func collectErrors(label string, next func() uint32) error {
	var errs []error
	// glGetError can keep returning the same flag on a lost context.
	for i := 0; i < 16; i++ {
		code := next()
		if code == gl.NO_ERROR {
			break
		}
		errs = append(errs, fmt.Errorf("%w: %s at %s", ErrGL, ErrorName(code), label))
	}
	return errors.Join(errs...)
}
