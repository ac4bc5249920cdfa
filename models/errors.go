package models

import (
	"errors"
	"fmt"
)

// Error codes attached to probe failures. They only surface in logs; the
// console message has a single shape regardless of the code.
const (
	ErrCodeBrowserLaunch = "BROWSER_LAUNCH_FAILED"
	ErrCodeTimeout       = "NAVIGATION_TIMEOUT"
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeScreenshot    = "SCREENSHOT_FAILED"
	ErrCodeArtifact      = "ARTIFACT_WRITE_FAILED"
)

// ProbeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ProbeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Detail is the human-facing text without the code prefix.
func (e *ProbeError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// NewProbeError creates a new ProbeError.
func NewProbeError(code, message string, err error) *ProbeError {
	return &ProbeError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first ProbeError in err's chain, or "".
func CodeOf(err error) string {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
