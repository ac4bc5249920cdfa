package models

import (
	"errors"
	"time"
)

// Console lines printed by the verify command.
const (
	MsgScreenshotTaken = "Homepage screenshot taken."
	MsgUnreachable     = "Could not reach localhost: "
)

// Outcome is the result of one probe run.
type Outcome struct {
	// URL is the page the probe tried to reach.
	URL string

	// Reachable is true only when navigation, capture and write all succeeded.
	Reachable bool

	// ScreenshotPath is set when the artifact was written.
	ScreenshotPath string

	// Title and StatusCode are collected best-effort after navigation.
	Title      string
	StatusCode int

	// BrowserPID is the launched Chromium process, 0 if launch failed.
	BrowserPID int

	Duration time.Duration

	// Err is the failure, nil on success.
	Err error
}

// Message renders the single console line for this outcome.
func (o *Outcome) Message() string {
	if o.Err == nil {
		return MsgScreenshotTaken
	}
	var pe *ProbeError
	if errors.As(o.Err, &pe) {
		return MsgUnreachable + pe.Detail()
	}
	return MsgUnreachable + o.Err.Error()
}
