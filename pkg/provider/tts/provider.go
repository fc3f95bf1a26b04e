// Package tts defines the Speaker interface for speech-synthesis backends.
//
// A Speaker plays one utterance at a time: starting a new utterance while a
// previous one is still playing implicitly cancels it, and a cancelled
// utterance never fires its end callback. Completion is signalled through
// single-shot callback sinks supplied per call, so a host event loop can treat
// playback-end as a discrete external event.
//
// Implementations must be safe for concurrent use.
package tts

import "context"

// SpeakOptions configures a single utterance. Each callback field is an
// optional single-shot event sink; nil fields are simply not invoked.
type SpeakOptions struct {
	// Rate is the playback-speed multiplier. 0 means the provider default;
	// the assessment typically speaks at 0.8 for clarity.
	Rate float64

	// OnStart fires once when audible playback begins.
	OnStart func()

	// OnEnd fires exactly once on natural completion. It is suppressed when
	// the utterance is cancelled, either explicitly via Cancel or implicitly
	// by a subsequent Speak call.
	OnEnd func()

	// OnError fires once if playback fails after Speak returned nil.
	OnError func(err error)
}

// SpeakOption is a functional option for [Provider.Speak].
type SpeakOption func(*SpeakOptions)

// WithRate sets the playback-speed multiplier.
func WithRate(rate float64) SpeakOption {
	return func(o *SpeakOptions) { o.Rate = rate }
}

// WithOnStart registers the playback-start sink.
func WithOnStart(fn func()) SpeakOption {
	return func(o *SpeakOptions) { o.OnStart = fn }
}

// WithOnEnd registers the natural-completion sink.
func WithOnEnd(fn func()) SpeakOption {
	return func(o *SpeakOptions) { o.OnEnd = fn }
}

// WithOnError registers the playback-failure sink.
func WithOnError(fn func(err error)) SpeakOption {
	return func(o *SpeakOptions) { o.OnError = fn }
}

// Options folds a list of SpeakOption into a SpeakOptions struct. Intended
// for Provider implementations.
func Options(opts ...SpeakOption) SpeakOptions {
	var o SpeakOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Provider is the abstraction over any speech-synthesis backend.
type Provider interface {
	// Speak plays text. At most one utterance is in flight at a time; calling
	// Speak while another utterance is playing cancels the prior one and
	// suppresses its OnEnd. Returns a non-nil error only when playback could
	// not start; the provider's state is then unchanged.
	Speak(ctx context.Context, text string, opts ...SpeakOption) error

	// Cancel stops the current utterance immediately and suppresses its
	// pending OnEnd. Calling Cancel while idle is a no-op.
	Cancel()
}
