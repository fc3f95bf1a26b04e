// Package app wires the assessment core to its audio collaborators and drives
// both from discrete external events.
//
// An [App] owns one [assessment.Session] and its onboarding [assessment.Guide],
// plus the speaker, recorder, and transcriber providers. Every exported method
// corresponds to one external event — a control tap, a navigation request — and
// collaborator completions (playback end, capture complete) are fed back in
// through callbacks. State only ever changes inside these handlers; nothing
// runs on a timer.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sorilab/phonocheck/internal/assessment"
	"github.com/sorilab/phonocheck/internal/observe"
	"github.com/sorilab/phonocheck/internal/verify"
	"github.com/sorilab/phonocheck/pkg/provider/recorder"
	"github.com/sorilab/phonocheck/pkg/provider/stt"
	"github.com/sorilab/phonocheck/pkg/provider/tts"
)

// ErrNotReady is returned by [App.BeginPractice] while the guided onboarding
// has not finished, or when the session is not positioned to enter practice.
var ErrNotReady = errors.New("app: onboarding not finished")

// ErrNoQuestionActive is returned by prompt and recording operations in phases
// that carry no current question.
var ErrNoQuestionActive = errors.New("app: no question active in current phase")

// Collaborators bundles the three audio providers an [App] drives.
type Collaborators struct {
	Speaker     tts.Provider
	Recorder    recorder.Provider
	Transcriber stt.Provider
}

// Config assembles everything an [App] needs.
type Config struct {
	// Questions is the validated question bank. Required.
	Questions *assessment.QuestionSet

	// Collaborators are the audio providers. All three are required.
	Collaborators Collaborators

	// SpeechRate is the playback-speed multiplier for every utterance.
	// 0 means the speaker's default.
	SpeechRate float64

	// Threshold overrides the verifier's acceptance threshold. 0 means
	// [verify.DefaultThreshold].
	Threshold float64

	// Metrics receives instrumentation. nil disables metric recording.
	Metrics *observe.Metrics

	// Messages overrides individual spoken scripts; empty fields fall back to
	// [DefaultMessages].
	Messages Messages

	// Logger is the structured logger. nil means [slog.Default].
	Logger *slog.Logger
}

// App is the host event loop for one assessment run. It is safe for concurrent
// use: collaborator callbacks may arrive from provider-owned goroutines.
type App struct {
	mu      sync.Mutex
	guide   *assessment.Guide
	discard bool // drop the next capture completion (navigation quiesce)

	session  *assessment.Session
	set      *assessment.QuestionSet
	verifier *verify.Verifier
	speaker  tts.Provider
	rec      recorder.Provider
	trans    stt.Provider
	metrics  *observe.Metrics
	msgs     Messages
	rate     float64
	log      *slog.Logger

	ctx context.Context // base context for collaborator calls, set by Start
}

// New assembles an App from cfg. The session starts in the intro phase;
// nothing plays until [App.Start].
func New(cfg Config) (*App, error) {
	var errs []error
	if cfg.Collaborators.Speaker == nil {
		errs = append(errs, errors.New("speaker provider is required"))
	}
	if cfg.Collaborators.Recorder == nil {
		errs = append(errs, errors.New("recorder provider is required"))
	}
	if cfg.Collaborators.Transcriber == nil {
		errs = append(errs, errors.New("transcriber provider is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	session, err := assessment.NewSession(cfg.Questions)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	var vopts []verify.Option
	if cfg.Threshold > 0 {
		vopts = append(vopts, verify.WithThreshold(cfg.Threshold))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		guide:    assessment.NewGuide(),
		session:  session,
		set:      cfg.Questions,
		verifier: verify.New(vopts...),
		speaker:  cfg.Collaborators.Speaker,
		rec:      cfg.Collaborators.Recorder,
		trans:    cfg.Collaborators.Transcriber,
		metrics:  cfg.Metrics,
		msgs:     cfg.Messages.merged(),
		rate:     cfg.SpeechRate,
		log:      logger,
		ctx:      context.Background(),
	}, nil
}

// Start begins the guided onboarding: the session enters the practice-intro
// phase and the welcome message plays. ctx bounds all collaborator calls for
// the lifetime of the run.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	if !a.session.StartOnboarding() {
		a.log.Warn("app: start ignored", "phase", a.session.Phase().String())
		return
	}
	if a.metrics != nil {
		a.metrics.ActiveSessions.Add(ctx, 1)
	}
	a.log.Info("app: session started")
	a.speakGuide(a.msgs.Welcome)
}

// TapIntroSpeaker handles a tap on the speaker control during onboarding.
func (a *App) TapIntroSpeaker() { a.handleGuideEvent(assessment.EventSpeakerTapped) }

// TapIntroMic handles a tap on the microphone control during onboarding.
func (a *App) TapIntroMic() { a.handleGuideEvent(assessment.EventMicTapped) }

// handleGuideEvent routes one onboarding event through the guide and performs
// the resulting effect. Events outside the practice-intro phase are dropped —
// the guide only exists during onboarding.
func (a *App) handleGuideEvent(ev assessment.GuideEvent) {
	if a.session.Phase() != assessment.PhasePracticeIntro {
		return
	}
	a.mu.Lock()
	effect := a.guide.Handle(ev)
	a.mu.Unlock()
	a.perform(effect)
}

// perform executes a guide effect against the collaborators. Runs without the
// app lock held: console and mock speakers fire callbacks synchronously, and
// those callbacks re-enter the event loop.
func (a *App) perform(effect assessment.Effect) {
	switch effect {
	case assessment.EffectPlayWelcome:
		a.speakGuide(a.msgs.Welcome)
	case assessment.EffectPlayPraise:
		a.speakGuide(a.msgs.Praise)
	case assessment.EffectPlayMicGuide:
		a.speakGuide(a.msgs.MicGuide)
	case assessment.EffectPlayWrapUp:
		a.speakGuide(a.msgs.WrapUp)
	case assessment.EffectStartRecording:
		err := a.rec.Start(a.onTick, func(clip *recorder.Clip, seconds int) {
			// Trial capture: the take itself is discarded.
			a.countRecording(clip == nil, seconds)
			a.handleGuideEvent(assessment.EventRecordingDone)
		})
		if err != nil {
			a.log.Error("app: trial recording failed to start", "error", err)
		}
	case assessment.EffectStopRecording:
		if err := a.rec.Stop(); err != nil && !errors.Is(err, recorder.ErrNotRecording) {
			a.log.Error("app: trial recording failed to stop", "error", err)
		}
	}
}

// speakGuide plays one onboarding message. Playback end feeds back into the
// guide so chained messages (praise, then the mic instruction) follow on
// without further input.
func (a *App) speakGuide(text string) {
	a.countPrompt("guide")
	err := a.speaker.Speak(a.baseCtx(), text,
		tts.WithRate(a.rate),
		tts.WithOnEnd(func() { a.handleGuideEvent(assessment.EventPlaybackEnded) }),
		tts.WithOnError(func(err error) {
			a.log.Error("app: guide playback failed", "error", err)
		}),
	)
	if err != nil {
		a.log.Error("app: guide playback failed to start", "error", err)
	}
}

// BeginPractice leaves onboarding for the first practice item and speaks its
// prompt. Returns [ErrNotReady] unless the guide has completed — the gate is
// checked here, not trusted from UI state.
func (a *App) BeginPractice() error {
	a.mu.Lock()
	ready := a.guide.Ready()
	a.mu.Unlock()
	if !ready {
		return ErrNotReady
	}
	if !a.session.BeginPractice() {
		return ErrNotReady
	}
	a.log.Info("app: practice started")
	return a.PlayPrompt()
}

// PlayPrompt speaks the current question's prompt. Tapping the speaker control
// during practice or main items routes here — replay is always allowed.
func (a *App) PlayPrompt() error {
	q, ok := a.session.CurrentQuestion()
	if !ok {
		return ErrNoQuestionActive
	}
	a.countPrompt("question")
	if err := a.speaker.Speak(a.baseCtx(), q.Prompt, tts.WithRate(a.rate)); err != nil {
		return fmt.Errorf("app: speak prompt %s: %w", q.ID, err)
	}
	return nil
}

// ToggleRecording handles a tap on the microphone control during practice or
// main items: it starts a capture-plus-recognition pair, or stops the pair in
// flight. The answer is judged when the capture completes.
func (a *App) ToggleRecording() error {
	if a.rec.IsRecording() {
		if err := a.trans.Stop(); err != nil {
			a.log.Warn("app: transcriber stop failed", "error", err)
		}
		if err := a.rec.Stop(); err != nil {
			return fmt.Errorf("app: stop recording: %w", err)
		}
		return nil
	}

	q, ok := a.session.CurrentQuestion()
	if !ok {
		return ErrNoQuestionActive
	}
	if err := a.trans.Start(a.baseCtx(), a.onTranscript); err != nil {
		return fmt.Errorf("app: start transcriber: %w", err)
	}
	err := a.rec.Start(a.onTick, func(clip *recorder.Clip, seconds int) {
		a.onCapture(q, clip, seconds)
	})
	if err != nil {
		_ = a.trans.Stop()
		return fmt.Errorf("app: start recording: %w", err)
	}
	return nil
}

func (a *App) onTranscript(text string, isFinal bool) {
	a.log.Debug("app: transcript", "text", text, "final", isFinal)
}

func (a *App) onTick(seconds int) {
	a.log.Debug("app: recording", "elapsed_s", seconds)
}

// onCapture judges and records the completed take for q. Practice items get
// immediate spoken feedback; main items are verified silently and keep the
// clip reference for the results view.
func (a *App) onCapture(q assessment.Question, clip *recorder.Clip, seconds int) {
	a.mu.Lock()
	discard := a.discard
	a.discard = false
	a.mu.Unlock()
	if discard {
		a.log.Debug("app: capture discarded", "question_id", q.ID)
		return
	}

	a.countRecording(clip == nil, seconds)
	text := a.trans.RecognizedText()

	switch a.session.Phase() {
	case assessment.PhasePractice:
		if text == "" {
			a.log.Warn("app: empty transcription, answer not recorded", "question_id", q.ID)
			return
		}
		match, sim := a.verifier.Score(text, q.Answer)
		a.observeSimilarity(sim)
		verdict := assessment.VerdictFor(match)
		a.session.RecordResponse(q.ID, text, verdict, "")
		a.countResponse(assessment.PhasePractice, verdict)

		feedback := a.msgs.Incorrect
		var opts []tts.SpeakOption
		opts = append(opts, tts.WithRate(a.rate))
		if match {
			feedback = a.msgs.Correct
			if a.lastPractice(q) {
				opts = append(opts, tts.WithOnEnd(func() {
					a.countPrompt("feedback")
					if err := a.speaker.Speak(a.baseCtx(), a.msgs.PracticeDone, tts.WithRate(a.rate)); err != nil {
						a.log.Error("app: feedback playback failed to start", "error", err)
					}
				}))
			}
		}
		a.countPrompt("feedback")
		if err := a.speaker.Speak(a.baseCtx(), feedback, opts...); err != nil {
			a.log.Error("app: feedback playback failed to start", "error", err)
		}

	case assessment.PhaseMain:
		if text == "" && clip == nil {
			a.log.Warn("app: empty capture, answer not recorded", "question_id", q.ID)
			return
		}
		clipRef := ""
		if clip != nil {
			clipRef = clip.ID
		}
		verdict := assessment.VerdictUnknown
		if text != "" {
			match, sim := a.verifier.Score(text, q.Answer)
			a.observeSimilarity(sim)
			verdict = assessment.VerdictFor(match)
		}
		a.session.RecordResponse(q.ID, text, verdict, clipRef)
		a.countResponse(assessment.PhaseMain, verdict)

		if a.lastScored(q) {
			a.countPrompt("guide")
			if err := a.speaker.Speak(a.baseCtx(), a.msgs.Completion, tts.WithRate(a.rate)); err != nil {
				a.log.Error("app: completion playback failed to start", "error", err)
			}
		}
	}
}

// Next quiesces any capture in flight, advances to the next item, and speaks
// its prompt. Advancing past the last scored item ends the run; the results
// view is then available through [App.Report].
func (a *App) Next() error {
	a.quiesce()
	a.session.Advance()
	if a.session.Phase() == assessment.PhaseResult {
		a.log.Info("app: assessment complete")
		return nil
	}
	return a.PlayPrompt()
}

// JumpTo navigates to the flattened item index (practice items first, scored
// items after) and speaks the prompt there. Out-of-range indices are a silent
// no-op; reports whether the jump happened.
func (a *App) JumpTo(global int) bool {
	a.quiesce()
	if !a.session.JumpTo(global) {
		a.log.Debug("app: jump ignored", "index", global)
		return false
	}
	if err := a.PlayPrompt(); err != nil {
		a.log.Error("app: prompt after jump failed", "error", err)
	}
	return true
}

// Restart throws the whole run away and begins again from the welcome message.
// The response log is cleared and previously referenced clips are left to
// their owner; nothing survives.
func (a *App) Restart() {
	a.quiesce()
	a.session.Restart()
	a.mu.Lock()
	a.guide = assessment.NewGuide()
	a.mu.Unlock()
	if a.metrics != nil {
		a.metrics.SessionRestarts.Add(a.baseCtx(), 1)
	}
	a.session.StartOnboarding()
	a.speakGuide(a.msgs.Welcome)
}

// quiesce cancels playback and stops any capture in flight, dropping its
// completion so navigation never records a truncated answer.
func (a *App) quiesce() {
	a.speaker.Cancel()
	if !a.rec.IsRecording() {
		return
	}
	a.mu.Lock()
	a.discard = true
	a.mu.Unlock()
	_ = a.trans.Stop()
	if err := a.rec.Stop(); err != nil {
		a.mu.Lock()
		a.discard = false
		a.mu.Unlock()
		a.log.Warn("app: quiesce stop failed", "error", err)
	}
}

// Phase returns the session's current phase.
func (a *App) Phase() assessment.Phase { return a.session.Phase() }

// Ready reports whether the guided onboarding has completed.
func (a *App) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.guide.Ready()
}

// GuideStep returns the onboarding position, for display.
func (a *App) GuideStep() assessment.Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.guide.Step()
}

// CurrentQuestion exposes the item under the cursor, for display.
func (a *App) CurrentQuestion() (assessment.Question, bool) {
	return a.session.CurrentQuestion()
}

// GlobalIndex exposes the flattened position, the inverse of [App.JumpTo].
func (a *App) GlobalIndex() (int, bool) { return a.session.GlobalIndex() }

// Summary returns per-phase answer tallies over the full response log.
func (a *App) Summary() assessment.Summary { return a.session.Summary() }

// Report returns the canonical results view: one row per scored item.
func (a *App) Report() []assessment.ReportRow { return a.session.MainAnswers() }

// Responses returns the raw response log in attempt order.
func (a *App) Responses() []assessment.Response { return a.session.Responses() }

func (a *App) baseCtx() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

func (a *App) lastPractice(q assessment.Question) bool {
	return len(a.set.Practice) > 0 && a.set.Practice[len(a.set.Practice)-1].ID == q.ID
}

func (a *App) lastScored(q assessment.Question) bool {
	return len(a.set.Scored) > 0 && a.set.Scored[len(a.set.Scored)-1].ID == q.ID
}

func (a *App) countPrompt(kind string) {
	if a.metrics == nil {
		return
	}
	a.metrics.PromptsSpoken.Add(a.baseCtx(), 1,
		metric.WithAttributes(attribute.String("kind", kind)))
}

func (a *App) countRecording(empty bool, seconds int) {
	if a.metrics == nil {
		return
	}
	ctx := a.baseCtx()
	a.metrics.Recordings.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("empty", empty)))
	a.metrics.RecordingDuration.Record(ctx, float64(seconds))
}

func (a *App) countResponse(phase assessment.Phase, verdict assessment.Verdict) {
	if a.metrics == nil {
		return
	}
	a.metrics.Responses.Add(a.baseCtx(), 1, metric.WithAttributes(
		attribute.String("phase", phase.String()),
		attribute.String("verdict", verdict.String()),
	))
}

func (a *App) observeSimilarity(sim float64) {
	if a.metrics == nil {
		return
	}
	a.metrics.Similarity.Record(a.baseCtx(), sim)
}
