// Package apperror defines the closed set of failures an analysis can end with.
package apperror

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure.
type Code string

const (
	CodeDecode         Code = "DECODE_ERROR"
	CodeNoFaceDetected Code = "NO_FACE_DETECTED"
	CodeInference      Code = "INFERENCE_ERROR"
	CodeExportEncoding Code = "EXPORT_ENCODING_ERROR"
)

// Error is a pipeline failure with a code, a short message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewDecodeError(message string, cause error) *Error {
	return &Error{Code: CodeDecode, Message: message, Cause: cause}
}

func NewNoFaceDetectedError(cause error) *Error {
	return &Error{Code: CodeNoFaceDetected, Message: "no face detected", Cause: cause}
}

func NewInferenceError(message string, cause error) *Error {
	return &Error{Code: CodeInference, Message: message, Cause: cause}
}

func NewExportEncodingError(artifact string, cause error) *Error {
	return &Error{
		Code:    CodeExportEncoding,
		Message: fmt.Sprintf("failed to encode %s", artifact),
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// UserMessage renders the text shown to the person who uploaded the image.
// Errors outside the taxonomy are reported like inference failures.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}

	switch appErr.Code {
	case CodeDecode:
		return "Could not read the uploaded file. Please upload a valid JPG or PNG image."
	case CodeNoFaceDetected:
		return "Face not detected. Please upload an image with a clearly visible face."
	case CodeExportEncoding:
		return fmt.Sprintf("The results could not be exported: %v", causeOrMessage(appErr))
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", causeOrMessage(appErr))
	}
}

func causeOrMessage(e *Error) string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}
