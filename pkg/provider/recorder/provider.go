// Package recorder defines the Recorder interface for audio-capture backends.
//
// A Recorder captures one take at a time. Progress is reported through a
// per-second tick callback, and completion through a single-shot callback that
// carries a [Clip] handle — or nil when no audio data was captured. Clips are
// owned by the recorder; callers hold opaque references only and must not
// assume control over the underlying audio's lifetime.
//
// Implementations must be safe for concurrent use.
package recorder

import (
	"errors"
	"time"
)

// ErrAlreadyRecording is returned by Start when a capture is in flight.
var ErrAlreadyRecording = errors.New("recorder: recording already in progress")

// ErrNotRecording is returned by Stop when no capture is in flight.
var ErrNotRecording = errors.New("recorder: no recording in progress")

// Clip is a handle to a finished recording. The recorder owns the underlying
// audio; ID is the opaque reference sessions store and reports display.
type Clip struct {
	// ID uniquely identifies the clip within the recorder's lifetime.
	ID string

	// Duration is the captured length.
	Duration time.Duration
}

// Provider is the abstraction over any audio-capture backend.
type Provider interface {
	// Start begins capturing. onTick, if non-nil, fires roughly once per
	// second with the elapsed seconds until the capture stops. onComplete
	// fires exactly once after Stop: with a clip and the captured duration in
	// seconds, or with (nil, 0) when nothing was captured.
	//
	// Returns a non-nil error when capture could not start (device or
	// permission failure, or a capture already in flight); no callback fires
	// and the recorder's state is unchanged.
	Start(onTick func(seconds int), onComplete func(clip *Clip, seconds int)) error

	// Stop ends the capture and triggers the pending onComplete. Returns
	// ErrNotRecording when no capture is in flight.
	Stop() error

	// IsRecording reports whether a capture is in flight.
	IsRecording() bool
}
