package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPlatform, "unknown platform: %s", "myspace")

	if err.Code != ErrCodeInvalidPlatform {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidPlatform)
	}
	if err.Message != "unknown platform: myspace" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause should be nil, got %v", err.Cause)
	}

	want := "INVALID_PLATFORM: unknown platform: myspace"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("encoder exploded")
	err := Wrap(ErrCodeRenderFailed, cause, "render %s", "twitter")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}

	want := "RENDER_FAILED: render twitter: encoder exploded"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeShareCancelled, "dismissed")

	if !Is(err, ErrCodeShareCancelled) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeShareUnsupported) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeShareCancelled) {
		t.Error("Is should not match a plain error")
	}
	if Is(nil, ErrCodeShareCancelled) {
		t.Error("Is(nil) should be false")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeTrackingFailed, "beacon rejected")
	outer := fmt.Errorf("export flow: %w", inner)

	if !Is(outer, ErrCodeTrackingFailed) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
	if GetCode(outer) != ErrCodeTrackingFailed {
		t.Errorf("GetCode = %q, want %q", GetCode(outer), ErrCodeTrackingFailed)
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeBusy, "export in progress")); got != ErrCodeBusy {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeBusy)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeRenderFailed, "failed to generate share image")
	if got := UserMessage(err); got != "failed to generate share image" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("disk full")
	if got := UserMessage(plain); got != "disk full" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}
