package assessment

import "log/slog"

// Step is the position within the guided-practice onboarding sequence. The
// sequence is linear; each transition is gated by exactly one external event.
type Step int

const (
	// StepWelcome: the welcome message is playing.
	StepWelcome Step = iota

	// StepAwaitSpeaker: waiting for the test-taker to tap the speaker control.
	StepAwaitSpeaker

	// StepPraise: the praise message is playing after the speaker tap.
	StepPraise

	// StepMicGuide: the microphone instruction message is playing. It chains
	// directly after the praise message.
	StepMicGuide

	// StepAwaitMic: waiting for the test-taker to tap the microphone control.
	StepAwaitMic

	// StepRecording: a trial recording is in progress.
	StepRecording

	// StepWrapUp: the wrap-up message is playing after the trial recording.
	StepWrapUp

	// StepReady: terminal. Proceeding to the practice items is enabled only
	// here; hosts must re-check [Guide.Ready] rather than trust UI state.
	StepReady
)

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepAwaitSpeaker:
		return "await-speaker"
	case StepPraise:
		return "praise"
	case StepMicGuide:
		return "mic-guide"
	case StepAwaitMic:
		return "await-mic"
	case StepRecording:
		return "recording"
	case StepWrapUp:
		return "wrap-up"
	case StepReady:
		return "ready"
	}
	return "unknown"
}

// GuideEvent is an external signal fed into the onboarding machine: a speech
// playback finishing, a control tap, or the recorder completing.
type GuideEvent int

const (
	// EventPlaybackEnded signals that the current guide message finished playing.
	EventPlaybackEnded GuideEvent = iota

	// EventSpeakerTapped signals a tap on the speaker (replay) control.
	EventSpeakerTapped

	// EventMicTapped signals a tap on the microphone control.
	EventMicTapped

	// EventRecordingDone signals that the trial recording completed.
	EventRecordingDone
)

// Effect names the collaborator action the host must perform after a
// transition. The machine itself never touches audio, which keeps it testable
// with synthetic events alone.
type Effect int

const (
	// EffectNone: nothing to do; the event was either absorbed or out of turn.
	EffectNone Effect = iota

	// EffectPlayWelcome: speak the welcome message (sequence [re]start).
	EffectPlayWelcome

	// EffectPlayPraise: speak the praise message.
	EffectPlayPraise

	// EffectPlayMicGuide: speak the microphone instruction message.
	EffectPlayMicGuide

	// EffectStartRecording: start the trial recording.
	EffectStartRecording

	// EffectStopRecording: stop the trial recording in progress.
	EffectStopRecording

	// EffectPlayWrapUp: speak the wrap-up message.
	EffectPlayWrapUp
)

// Guide is the sub-state-machine for the one-time guided-practice onboarding.
// It is pure state: feed it events via [Guide.Handle] and perform the returned
// effects on the speaker and recorder collaborators.
//
// Guide is not safe for concurrent use; it belongs to the host event loop.
type Guide struct {
	step Step
}

// NewGuide returns a guide positioned at [StepWelcome]. The caller is expected
// to play the welcome message immediately (the same action as [EffectPlayWelcome]).
func NewGuide() *Guide {
	return &Guide{step: StepWelcome}
}

// Step returns the current step.
func (g *Guide) Step() Step { return g.step }

// Ready reports whether the onboarding sequence has completed. Only then may
// the host call [Session.BeginPractice].
func (g *Guide) Ready() bool { return g.step == StepReady }

// Handle applies one external event and returns the effect the host must
// perform. Events that arrive out of turn are no-ops: tapping the microphone
// before [StepAwaitMic] does nothing, and so on.
//
// A speaker tap anywhere other than [StepAwaitSpeaker] restarts the entire
// sequence from the welcome message — that is the explicit "play again"
// affordance. The only exception is [StepRecording]: the guide never abandons
// an in-flight capture, since quiescing the recorder is the host's job.
func (g *Guide) Handle(ev GuideEvent) Effect {
	from := g.step
	effect := g.apply(ev)
	if g.step != from {
		slog.Debug("assessment: guide transition",
			"from", from.String(),
			"to", g.step.String(),
			"event", ev,
		)
	}
	return effect
}

func (g *Guide) apply(ev GuideEvent) Effect {
	if ev == EventSpeakerTapped {
		switch g.step {
		case StepAwaitSpeaker:
			g.step = StepPraise
			return EffectPlayPraise
		case StepRecording:
			return EffectNone
		default:
			g.step = StepWelcome
			return EffectPlayWelcome
		}
	}

	switch g.step {
	case StepWelcome:
		if ev == EventPlaybackEnded {
			g.step = StepAwaitSpeaker
		}
	case StepPraise:
		if ev == EventPlaybackEnded {
			g.step = StepMicGuide
			return EffectPlayMicGuide
		}
	case StepMicGuide:
		if ev == EventPlaybackEnded {
			g.step = StepAwaitMic
		}
	case StepAwaitMic:
		if ev == EventMicTapped {
			g.step = StepRecording
			return EffectStartRecording
		}
	case StepRecording:
		switch ev {
		case EventMicTapped:
			return EffectStopRecording
		case EventRecordingDone:
			g.step = StepWrapUp
			return EffectPlayWrapUp
		}
	case StepWrapUp:
		if ev == EventPlaybackEnded {
			g.step = StepReady
		}
	}
	return EffectNone
}
