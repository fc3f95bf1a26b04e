// Package mock provides a test double for the recorder package interfaces.
//
// The Recorder keeps capture completion under test control: Start succeeds
// (unless StartErr is set) and Stop fires onComplete with a configurable clip.
// Tick lets tests drive the per-second progress callback by hand.
package mock

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sorilab/phonocheck/pkg/provider/recorder"
)

// Recorder is a mock implementation of recorder.Provider.
type Recorder struct {
	mu sync.Mutex

	// StartErr, if non-nil, is returned by every Start call.
	StartErr error

	// CompleteEmpty makes Stop report that no audio was captured:
	// onComplete(nil, 0).
	CompleteEmpty bool

	// CompleteClip, if non-nil, is the clip passed to onComplete on Stop.
	// When nil (and CompleteEmpty is false), a fresh clip with a random ID
	// and CompleteSeconds duration is minted.
	CompleteClip *recorder.Clip

	// CompleteSeconds is the duration reported to onComplete. Defaults to the
	// number of Tick calls since Start when zero.
	CompleteSeconds int

	// StartCount and StopCount record lifecycle calls.
	StartCount int
	StopCount  int

	recording  bool
	ticks      int
	onTick     func(seconds int)
	onComplete func(clip *recorder.Clip, seconds int)
}

// Start records the call and arms the callbacks.
func (r *Recorder) Start(onTick func(seconds int), onComplete func(clip *recorder.Clip, seconds int)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StartCount++
	if r.StartErr != nil {
		return r.StartErr
	}
	if r.recording {
		return recorder.ErrAlreadyRecording
	}
	r.recording = true
	r.ticks = 0
	r.onTick = onTick
	r.onComplete = onComplete
	return nil
}

// Tick fires the armed onTick with the next elapsed-seconds value. A no-op
// when no capture is in flight.
func (r *Recorder) Tick() {
	r.mu.Lock()
	if !r.recording || r.onTick == nil {
		r.mu.Unlock()
		return
	}
	r.ticks++
	tick := r.onTick
	n := r.ticks
	r.mu.Unlock()
	tick(n)
}

// Stop ends the capture and fires onComplete outside any lock, so the
// callback may call back into the Recorder.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	r.StopCount++
	if !r.recording {
		r.mu.Unlock()
		return recorder.ErrNotRecording
	}
	r.recording = false
	complete := r.onComplete
	r.onTick = nil
	r.onComplete = nil

	var clip *recorder.Clip
	seconds := 0
	if !r.CompleteEmpty {
		seconds = r.CompleteSeconds
		if seconds == 0 {
			seconds = r.ticks
		}
		clip = r.CompleteClip
		if clip == nil {
			clip = &recorder.Clip{ID: uuid.NewString()}
		}
	}
	r.mu.Unlock()

	if complete != nil {
		complete(clip, seconds)
	}
	return nil
}

// IsRecording reports whether a capture is in flight.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Reset clears all recorded calls and any in-flight capture. Thread-safe.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StartCount = 0
	r.StopCount = 0
	r.recording = false
	r.ticks = 0
	r.onTick = nil
	r.onComplete = nil
}

// Ensure Recorder implements recorder.Provider at compile time.
var _ recorder.Provider = (*Recorder)(nil)
