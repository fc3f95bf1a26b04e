// Package stt defines the Transcriber interface for speech-to-text backends.
//
// A Transcriber runs one recognition session at a time, typically alongside a
// recorder capture. While running it emits zero or more interim results and at
// most one final, authoritative result per session through the onResult
// callback. The last final text is also retained for polling after the
// session stops — hosts usually read it once the paired recording completes.
//
// Implementations must be safe for concurrent use.
package stt

import (
	"context"
	"errors"
)

// ErrAlreadyTranscribing is returned by Start when a session is in flight.
var ErrAlreadyTranscribing = errors.New("stt: transcription already in progress")

// Provider is the abstraction over any speech-to-text backend.
type Provider interface {
	// Start opens a recognition session. onResult fires with interim text
	// (isFinal false) zero or more times and with the final authoritative
	// text (isFinal true) at most once. Returns a non-nil error when the
	// session could not start (service or permission failure); state is then
	// unchanged. ctx bounds the session's lifetime.
	Start(ctx context.Context, onResult func(text string, isFinal bool)) error

	// Stop ends the session. Stopping an idle transcriber is a no-op.
	Stop() error

	// RecognizedText returns the last final text observed, or "" when no
	// final result arrived. Starting a new session clears it.
	RecognizedText() string
}
