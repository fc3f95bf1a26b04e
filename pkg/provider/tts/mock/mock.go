// Package mock provides a test double for the tts package interfaces.
//
// The Speaker records every Speak call and leaves playback completion under
// test control: call EndPlayback to fire the pending utterance's OnEnd, the
// way a real backend would on natural completion.
//
// Example:
//
//	sp := &mock.Speaker{}
//	host.Speak(ctx, sp)     // code under test calls sp.Speak(...)
//	sp.EndPlayback()        // deterministically signal playback-end
package mock

import (
	"context"
	"sync"

	"github.com/sorilab/phonocheck/pkg/provider/tts"
)

// SpeakCall records a single invocation of Speaker.Speak.
type SpeakCall struct {
	// Text is the utterance text passed to Speak.
	Text string

	// Options is the resolved option struct for the call.
	Options tts.SpeakOptions
}

// Speaker is a mock implementation of tts.Provider.
type Speaker struct {
	mu sync.Mutex

	// SpeakErr, if non-nil, is returned by every Speak call; the call is still
	// recorded but no utterance becomes pending.
	SpeakErr error

	// SpeakCalls records every call to Speak in order.
	SpeakCalls []SpeakCall

	// CancelCount is the number of times Cancel was called.
	CancelCount int

	pending *tts.SpeakOptions
}

// Speak records the call and makes it the pending utterance, implicitly
// dropping (and thereby suppressing the OnEnd of) any previous one. OnStart
// fires synchronously, mirroring a backend that begins playback immediately.
func (s *Speaker) Speak(_ context.Context, text string, opts ...tts.SpeakOption) error {
	o := tts.Options(opts...)

	s.mu.Lock()
	s.SpeakCalls = append(s.SpeakCalls, SpeakCall{Text: text, Options: o})
	if s.SpeakErr != nil {
		err := s.SpeakErr
		s.mu.Unlock()
		return err
	}
	s.pending = &o
	s.mu.Unlock()

	if o.OnStart != nil {
		o.OnStart()
	}
	return nil
}

// Cancel drops the pending utterance without firing its OnEnd.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CancelCount++
	s.pending = nil
}

// EndPlayback completes the pending utterance, firing its OnEnd outside any
// lock so the callback may call back into the Speaker (e.g. to chain the next
// message). Reports whether an utterance was pending.
func (s *Speaker) EndPlayback() bool {
	s.mu.Lock()
	o := s.pending
	s.pending = nil
	s.mu.Unlock()

	if o == nil {
		return false
	}
	if o.OnEnd != nil {
		o.OnEnd()
	}
	return true
}

// FailPlayback fails the pending utterance, firing its OnError. Reports
// whether an utterance was pending.
func (s *Speaker) FailPlayback(err error) bool {
	s.mu.Lock()
	o := s.pending
	s.pending = nil
	s.mu.Unlock()

	if o == nil {
		return false
	}
	if o.OnError != nil {
		o.OnError(err)
	}
	return true
}

// Playing reports whether an utterance is pending completion.
func (s *Speaker) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// LastText returns the text of the most recent Speak call, or "" if none.
func (s *Speaker) LastText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.SpeakCalls) == 0 {
		return ""
	}
	return s.SpeakCalls[len(s.SpeakCalls)-1].Text
}

// Reset clears all recorded calls and the pending utterance. Thread-safe.
func (s *Speaker) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SpeakCalls = nil
	s.CancelCount = 0
	s.pending = nil
}

// Ensure Speaker implements tts.Provider at compile time.
var _ tts.Provider = (*Speaker)(nil)
