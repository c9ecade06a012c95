package renderer

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorName(t *testing.T) {
	tests := []struct {
		code uint32
		want string
	}{
		{0x0500, "INVALID_ENUM"},
		{0x0501, "INVALID_VALUE"},
		{0x0502, "INVALID_OPERATION"},
		{0x0503, "STACK_OVERFLOW"},
		{0x0504, "STACK_UNDERFLOW"},
		{0x0505, "OUT_OF_MEMORY"},
		{0x0506, "INVALID_FRAMEBUFFER_OPERATION"},
		{0x1234, "0x1234"},
	}

	for _, tt := range tests {
		if got := ErrorName(tt.code); got != tt.want {
			t.Errorf("ErrorName(0x%04X) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

// queue returns a glGetError stand-in that yields codes then NO_ERROR.
func queue(codes ...uint32) func() uint32 {
	return func() uint32 {
		if len(codes) == 0 {
			return 0
		}
		c := codes[0]
		codes = codes[1:]
		return c
	}
}

func TestCollectErrors(t *testing.T) {
	if err := collectErrors("clean", queue()); err != nil {
		t.Errorf("empty queue: err = %v", err)
	}

	err := collectErrors("upload", queue(0x0501, 0x0505))
	if !errors.Is(err, ErrGL) {
		t.Fatalf("err = %v, want ErrGL", err)
	}
	msg := err.Error()
	for _, want := range []string{"INVALID_VALUE at upload", "OUT_OF_MEMORY at upload"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestCollectErrorsBounded(t *testing.T) {
	stuck := func() uint32 { return 0x0502 }
	err := collectErrors("lost context", stuck)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := strings.Count(err.Error(), "INVALID_OPERATION"); n != 16 {
		t.Errorf("collected %d errors, want 16", n)
	}
}
