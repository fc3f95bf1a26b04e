// Package console implements tts.Provider by writing utterances to a terminal
// instead of synthesising audio. Playback completes synchronously: OnStart and
// OnEnd fire before Speak returns. Useful for the interactive dev harness and
// for running the assessment without a speech backend.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sorilab/phonocheck/pkg/provider/tts"
)

// Speaker writes each utterance as a line to Out.
type Speaker struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a Speaker writing to out. A nil out defaults to os.Stdout.
func New(out io.Writer) *Speaker {
	if out == nil {
		out = os.Stdout
	}
	return &Speaker{out: out}
}

// Speak prints the utterance and completes it immediately. The rate option is
// accepted and ignored — a terminal has no playback speed.
func (s *Speaker) Speak(_ context.Context, text string, opts ...tts.SpeakOption) error {
	o := tts.Options(opts...)

	if o.OnStart != nil {
		o.OnStart()
	}

	s.mu.Lock()
	_, err := fmt.Fprintf(s.out, "🔊 %s\n", text)
	s.mu.Unlock()
	if err != nil {
		if o.OnError != nil {
			o.OnError(err)
		}
		return nil
	}

	if o.OnEnd != nil {
		o.OnEnd()
	}
	return nil
}

// Cancel is a no-op: console playback never stays in flight.
func (s *Speaker) Cancel() {}

// Ensure Speaker implements tts.Provider at compile time.
var _ tts.Provider = (*Speaker)(nil)
