// Package console implements stt.Provider for the interactive dev harness.
// There is no microphone: the harness types the spoken answer and feeds it in
// as the session's final result via Feed.
package console

import (
	"context"
	"sync"

	"github.com/sorilab/phonocheck/pkg/provider/stt"
)

// Transcriber treats typed text as the final recognition result.
type Transcriber struct {
	mu       sync.Mutex
	running  bool
	final    string
	onResult func(text string, isFinal bool)
}

// New returns an idle Transcriber.
func New() *Transcriber {
	return &Transcriber{}
}

// Start opens a session and clears the previous final text.
func (t *Transcriber) Start(_ context.Context, onResult func(text string, isFinal bool)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return stt.ErrAlreadyTranscribing
	}
	t.running = true
	t.final = ""
	t.onResult = onResult
	return nil
}

// Feed supplies the typed answer as the session's final result. A no-op when
// no session is running.
func (t *Transcriber) Feed(text string) {
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

// Stop ends the session; the final text survives until the next Start.
func (t *Transcriber) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.onResult = nil
	return nil
}

// RecognizedText returns the last fed text, or "" when nothing was typed.
func (t *Transcriber) RecognizedText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.final
}

// Ensure Transcriber implements stt.Provider at compile time.
var _ stt.Provider = (*Transcriber)(nil)
