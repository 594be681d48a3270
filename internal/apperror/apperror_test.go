package apperror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeOf_ThroughWrapping(t *testing.T) {
	base := NewNoFaceDetectedError(nil)
	wrapped := fmt.Errorf("analyze upload: %w", base)

	if got := CodeOf(wrapped); got != CodeNoFaceDetected {
		t.Errorf("Expected %s, got %s", CodeNoFaceDetected, got)
	}
	if !Is(wrapped, CodeNoFaceDetected) {
		t.Error("Is should match through fmt.Errorf wrapping")
	}
	if Is(wrapped, CodeInference) {
		t.Error("Is matched the wrong code")
	}
	if Is(nil, CodeDecode) {
		t.Error("nil error must not match any code")
	}
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInferenceError("collaborator request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error string should mention the cause, got %q", err.Error())
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"decode", NewDecodeError("bad bytes", nil), "Please upload a valid JPG or PNG image."},
		{"no face", NewNoFaceDetectedError(nil), "Face not detected. Please upload an image with a clearly visible face."},
		{"inference", NewInferenceError("call failed", errors.New("status 500")), "An unexpected error occurred: status 500"},
		{"export", NewExportEncodingError("report", errors.New("disk full")), "could not be exported: disk full"},
		{"foreign", errors.New("boom"), "An unexpected error occurred: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Expected empty message, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("UserMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
