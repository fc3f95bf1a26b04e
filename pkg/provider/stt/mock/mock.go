// Package mock provides a test double for the stt package interfaces.
//
// Feed interim and final results by hand:
//
//	tr := &mock.Transcriber{}
//	_ = tr.Start(ctx, onResult)
//	tr.FeedInterim("고추")
//	tr.FeedFinal("잠자리")
package mock

import (
	"context"
	"sync"

	"github.com/sorilab/phonocheck/pkg/provider/stt"
)

// Transcriber is a mock implementation of stt.Provider.
type Transcriber struct {
	mu sync.Mutex

	// StartErr, if non-nil, is returned by every Start call.
	StartErr error

	// StartCount and StopCount record lifecycle calls.
	StartCount int
	StopCount  int

	running  bool
	final    string
	onResult func(text string, isFinal bool)
}

// Start records the call, clears any previous final text, and arms onResult.
func (t *Transcriber) Start(_ context.Context, onResult func(text string, isFinal bool)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.StartCount++
	if t.StartErr != nil {
		return t.StartErr
	}
	if t.running {
		return stt.ErrAlreadyTranscribing
	}
	t.running = true
	t.final = ""
	t.onResult = onResult
	return nil
}

// FeedInterim emits an interim result. A no-op when not running.
func (t *Transcriber) FeedInterim(text string) {
	t.mu.Lock()
	cb := t.onResult
	running := t.running
	t.mu.Unlock()
	if running && cb != nil {
		cb(text, false)
	}
}

// FeedFinal emits the final result and retains it for RecognizedText.
// A no-op when not running.
func (t *Transcriber) FeedFinal(text string) {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.final = text
	cb := t.onResult
	t.mu.Unlock()
	if cb != nil {
		cb(text, true)
	}
}

// Stop records the call and ends the session. The last final text survives
// until the next Start.
func (t *Transcriber) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.StopCount++
	t.running = false
	t.onResult = nil
	return nil
}

// RecognizedText returns the last final text fed since Start, or "".
func (t *Transcriber) RecognizedText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.final
}

// Running reports whether a session is in flight.
func (t *Transcriber) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Reset clears all recorded calls and session state. Thread-safe.
func (t *Transcriber) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.StartCount = 0
	t.StopCount = 0
	t.running = false
	t.final = ""
	t.onResult = nil
}

// Ensure Transcriber implements stt.Provider at compile time.
var _ stt.Provider = (*Transcriber)(nil)
