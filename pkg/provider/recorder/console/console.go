// Package console implements recorder.Provider for the interactive dev
// harness. No audio device is opened; the "recording" is just elapsed wall
// time between Start and Stop, reported through the standard callbacks with a
// freshly minted clip handle.
package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sorilab/phonocheck/pkg/provider/recorder"
)

// Recorder measures wall-clock takes and mints clip handles.
type Recorder struct {
	mu         sync.Mutex
	recording  bool
	startedAt  time.Time
	stopTicker chan struct{}
	onComplete func(clip *recorder.Clip, seconds int)
}

// New returns an idle Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Start begins a take. A background ticker drives onTick once per second
// until Stop is called.
func (r *Recorder) Start(onTick func(seconds int), onComplete func(clip *recorder.Clip, seconds int)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return recorder.ErrAlreadyRecording
	}
	r.recording = true
	r.startedAt = time.Now()
	r.onComplete = onComplete
	r.stopTicker = make(chan struct{})

	if onTick != nil {
		go func(stop <-chan struct{}) {
			t := time.NewTicker(time.Second)
			defer t.Stop()
			seconds := 0
			for {
				select {
				case <-t.C:
					seconds++
					onTick(seconds)
				case <-stop:
					return
				}
			}
		}(r.stopTicker)
	}
	return nil
}

// Stop ends the take and fires onComplete with a new clip. Takes shorter than
// a second still produce a clip; only the handle matters to the session.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return recorder.ErrNotRecording
	}
	r.recording = false
	close(r.stopTicker)
	complete := r.onComplete
	r.onComplete = nil
	elapsed := time.Since(r.startedAt)
	r.mu.Unlock()

	if complete != nil {
		complete(&recorder.Clip{ID: uuid.NewString(), Duration: elapsed}, int(elapsed/time.Second))
	}
	return nil
}

// IsRecording reports whether a take is in flight.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Ensure Recorder implements recorder.Provider at compile time.
var _ recorder.Provider = (*Recorder)(nil)
