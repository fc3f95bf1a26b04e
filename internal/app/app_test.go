package app_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/sorilab/phonocheck/internal/app"
	"github.com/sorilab/phonocheck/internal/assessment"
	recmock "github.com/sorilab/phonocheck/pkg/provider/recorder/mock"
	sttmock "github.com/sorilab/phonocheck/pkg/provider/stt/mock"
	ttsmock "github.com/sorilab/phonocheck/pkg/provider/tts/mock"
)

var msgs = app.DefaultMessages()

func testSet() *assessment.QuestionSet {
	return &assessment.QuestionSet{
		Practice: []assessment.Question{
			{ID: "ex_1", Prompt: "고추잠자리에서 고추 소리를 빼고 말해 주세요.", Answer: "잠자리"},
			{ID: "ex_2", Prompt: "우주여행에서 우주 소리를 빼고 말해 주세요.", Answer: "여행"},
		},
		Scored: []assessment.Question{
			{ID: "del_01", Prompt: "밤나무에서 밤 소리를 빼고 말해 주세요.", Answer: "나무"},
			{ID: "del_02", Prompt: "눈사람에서 눈 소리를 빼고 말해 주세요.", Answer: "사람"},
		},
	}
}

func newTestApp(t *testing.T) (*app.App, *ttsmock.Speaker, *recmock.Recorder, *sttmock.Transcriber) {
	t.Helper()

	sp := &ttsmock.Speaker{}
	rec := &recmock.Recorder{}
	trans := &sttmock.Transcriber{}

	a, err := app.New(app.Config{
		Questions: testSet(),
		Collaborators: app.Collaborators{
			Speaker:     sp,
			Recorder:    rec,
			Transcriber: trans,
		},
		Logger: slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, sp, rec, trans
}

// finishOnboarding drives the guide to its terminal step: welcome, speaker
// tap, praise, mic guide, trial recording, wrap-up.
func finishOnboarding(t *testing.T, a *app.App, sp *ttsmock.Speaker) {
	t.Helper()

	a.Start(context.Background())
	sp.EndPlayback() // welcome
	a.TapIntroSpeaker()
	sp.EndPlayback() // praise; mic guide chains automatically
	sp.EndPlayback() // mic guide
	a.TapIntroMic()  // start trial recording
	a.TapIntroMic()  // stop it; wrap-up chains off the completion
	sp.EndPlayback() // wrap-up
	if !a.Ready() {
		t.Fatalf("Ready() = false after onboarding, guide at %v", a.GuideStep())
	}
}

// startPractice runs onboarding and enters the first practice item.
func startPractice(t *testing.T, a *app.App, sp *ttsmock.Speaker) {
	t.Helper()
	finishOnboarding(t, a, sp)
	if err := a.BeginPractice(); err != nil {
		t.Fatalf("BeginPractice() error = %v", err)
	}
}

// startMain runs onboarding and practice navigation up to the first scored item.
func startMain(t *testing.T, a *app.App, sp *ttsmock.Speaker) {
	t.Helper()
	startPractice(t, a, sp)
	if err := a.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if err := a.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got := a.Phase(); got != assessment.PhaseMain {
		t.Fatalf("phase = %v, want main", got)
	}
}

// answer records one take with the given transcription. An empty text means
// nothing is fed to the transcriber.
func answer(t *testing.T, a *app.App, trans *sttmock.Transcriber, text string) {
	t.Helper()
	if err := a.ToggleRecording(); err != nil {
		t.Fatalf("ToggleRecording(start) error = %v", err)
	}
	if text != "" {
		trans.FeedFinal(text)
	}
	if err := a.ToggleRecording(); err != nil {
		t.Fatalf("ToggleRecording(stop) error = %v", err)
	}
}

func TestNewValidatesInputs(t *testing.T) {
	t.Parallel()

	_, err := app.New(app.Config{Questions: testSet()})
	if err == nil {
		t.Fatal("New() without collaborators: error = nil")
	}

	_, err = app.New(app.Config{
		Collaborators: app.Collaborators{
			Speaker:     &ttsmock.Speaker{},
			Recorder:    &recmock.Recorder{},
			Transcriber: &sttmock.Transcriber{},
		},
	})
	if !errors.Is(err, assessment.ErrNoQuestions) {
		t.Fatalf("New() without questions: error = %v, want ErrNoQuestions", err)
	}
}

func TestOnboardingFlow(t *testing.T) {
	t.Parallel()

	a, sp, rec, _ := newTestApp(t)

	a.Start(context.Background())
	if got := a.Phase(); got != assessment.PhasePracticeIntro {
		t.Fatalf("phase after Start = %v, want practice-intro", got)
	}
	if got := sp.LastText(); got != msgs.Welcome {
		t.Fatalf("spoken = %q, want welcome message", got)
	}

	sp.EndPlayback()
	if err := a.BeginPractice(); !errors.Is(err, app.ErrNotReady) {
		t.Fatalf("BeginPractice() mid-onboarding: error = %v, want ErrNotReady", err)
	}

	a.TapIntroSpeaker()
	if got := sp.LastText(); got != msgs.Praise {
		t.Fatalf("spoken = %q, want praise message", got)
	}

	// The mic guide chains directly off the praise playback ending.
	sp.EndPlayback()
	if got := sp.LastText(); got != msgs.MicGuide {
		t.Fatalf("spoken = %q, want mic guide message", got)
	}
	sp.EndPlayback()

	a.TapIntroMic()
	if !rec.IsRecording() {
		t.Fatal("trial recording did not start")
	}
	a.TapIntroMic()
	if rec.IsRecording() {
		t.Fatal("trial recording did not stop")
	}
	if got := sp.LastText(); got != msgs.WrapUp {
		t.Fatalf("spoken = %q, want wrap-up message", got)
	}

	sp.EndPlayback()
	if !a.Ready() {
		t.Fatal("Ready() = false after wrap-up")
	}

	if err := a.BeginPractice(); err != nil {
		t.Fatalf("BeginPractice() error = %v", err)
	}
	if got := sp.LastText(); got != testSet().Practice[0].Prompt {
		t.Fatalf("spoken = %q, want first practice prompt", got)
	}
}

func TestOnboardingSpeakerTapRestarts(t *testing.T) {
	t.Parallel()

	a, sp, _, _ := newTestApp(t)
	a.Start(context.Background())
	sp.EndPlayback()
	a.TapIntroSpeaker()
	sp.EndPlayback()
	sp.EndPlayback() // now awaiting the mic tap

	a.TapIntroSpeaker()
	if got := sp.LastText(); got != msgs.Welcome {
		t.Fatalf("spoken = %q, want welcome message again", got)
	}
	if a.Ready() {
		t.Fatal("Ready() = true after restart")
	}
}

func TestGuideEventsDroppedAfterOnboarding(t *testing.T) {
	t.Parallel()

	a, sp, _, _ := newTestApp(t)
	startPractice(t, a, sp)

	before := len(sp.SpeakCalls)
	a.TapIntroSpeaker()
	a.TapIntroMic()
	if got := len(sp.SpeakCalls); got != before {
		t.Fatalf("guide events after onboarding spoke %d extra messages", got-before)
	}
}

func TestPracticeCorrectFeedback(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	startPractice(t, a, sp)

	answer(t, a, trans, "잠자리")

	if got := sp.LastText(); got != msgs.Correct {
		t.Fatalf("spoken = %q, want correct-feedback message", got)
	}
	rs := a.Responses()
	if len(rs) != 1 {
		t.Fatalf("len(Responses()) = %d, want 1", len(rs))
	}
	r := rs[0]
	if r.QuestionID != "ex_1" || r.Verdict != assessment.VerdictCorrect {
		t.Fatalf("response = %+v, want ex_1 correct", r)
	}
	if r.AudioRef != "" {
		t.Fatalf("practice response kept clip %q, want none", r.AudioRef)
	}
}

func TestPracticeIncorrectFeedback(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	startPractice(t, a, sp)

	answer(t, a, trans, "바나나")

	if got := sp.LastText(); got != msgs.Incorrect {
		t.Fatalf("spoken = %q, want incorrect-feedback message", got)
	}
	if got := a.Responses()[0].Verdict; got != assessment.VerdictIncorrect {
		t.Fatalf("verdict = %v, want incorrect", got)
	}
}

func TestPracticeEmptyTranscriptionNotRecorded(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	startPractice(t, a, sp)

	before := len(sp.SpeakCalls)
	answer(t, a, trans, "")

	if got := a.Responses(); len(got) != 0 {
		t.Fatalf("len(Responses()) = %d, want 0", len(got))
	}
	if got := len(sp.SpeakCalls); got != before {
		t.Fatal("feedback spoken for an empty transcription")
	}
}

func TestLastPracticeChainsProceedHint(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	startPractice(t, a, sp)
	if err := a.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	answer(t, a, trans, "여행")
	if got := sp.LastText(); got != msgs.Correct {
		t.Fatalf("spoken = %q, want correct-feedback message", got)
	}

	sp.EndPlayback()
	if got := sp.LastText(); got != msgs.PracticeDone {
		t.Fatalf("spoken = %q, want proceed hint after last practice item", got)
	}
}

func TestMainVerifiesSilently(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	startMain(t, a, sp)

	before := len(sp.SpeakCalls)
	answer(t, a, trans, "사람") // wrong: del_01 expects 나무

	if got := len(sp.SpeakCalls); got != before {
		t.Fatal("feedback spoken for a scored item")
	}
	rs := a.Responses()
	if len(rs) != 1 {
		t.Fatalf("len(Responses()) = %d, want 1", len(rs))
	}
	r := rs[0]
	if r.QuestionID != "del_01" || r.Verdict != assessment.VerdictIncorrect {
		t.Fatalf("response = %+v, want del_01 incorrect", r)
	}
	if r.AudioRef == "" {
		t.Fatal("scored response kept no clip reference")
	}
}

func TestMainEmptyTranscriptionKeepsClip(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	startMain(t, a, sp)

	answer(t, a, trans, "")

	rs := a.Responses()
	if len(rs) != 1 {
		t.Fatalf("len(Responses()) = %d, want 1", len(rs))
	}
	r := rs[0]
	if r.Text != "" || r.Verdict != assessment.VerdictUnknown || r.AudioRef == "" {
		t.Fatalf("response = %+v, want empty text, unknown verdict, clip kept", r)
	}
}

func TestMainEmptyCaptureNotRecorded(t *testing.T) {
	t.Parallel()

	a, sp, rec, trans := newTestApp(t)
	startMain(t, a, sp)

	rec.CompleteEmpty = true
	answer(t, a, trans, "")

	if got := a.Responses(); len(got) != 0 {
		t.Fatalf("len(Responses()) = %d, want 0", len(got))
	}
}

func TestLastScoredSpeaksCompletion(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	finishOnboarding(t, a, sp)
	if err := a.BeginPractice(); err != nil {
		t.Fatalf("BeginPractice() error = %v", err)
	}
	if !a.JumpTo(3) { // last item in the flattened index space
		t.Fatal("JumpTo(3) = false")
	}

	answer(t, a, trans, "사람")

	if got := sp.LastText(); got != msgs.Completion {
		t.Fatalf("spoken = %q, want completion message", got)
	}
	if got := a.Responses()[0].Verdict; got != assessment.VerdictCorrect {
		t.Fatalf("verdict = %v, want correct", got)
	}
}

func TestNextThroughToResult(t *testing.T) {
	t.Parallel()

	a, sp, _, _ := newTestApp(t)
	startMain(t, a, sp)

	if err := a.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got := sp.LastText(); got != testSet().Scored[1].Prompt {
		t.Fatalf("spoken = %q, want second scored prompt", got)
	}

	if err := a.Next(); err != nil {
		t.Fatalf("Next() past last item: error = %v", err)
	}
	if got := a.Phase(); got != assessment.PhaseResult {
		t.Fatalf("phase = %v, want result", got)
	}

	// The report carries a row per scored item even when nothing was answered.
	rows := a.Report()
	if len(rows) != 2 {
		t.Fatalf("len(Report()) = %d, want 2", len(rows))
	}
	for i, row := range rows {
		if row.Verdict != assessment.VerdictUnknown {
			t.Errorf("rows[%d].Verdict = %v, want unknown", i, row.Verdict)
		}
	}
}

func TestJumpDiscardsInFlightCapture(t *testing.T) {
	t.Parallel()

	a, sp, rec, trans := newTestApp(t)
	startPractice(t, a, sp)

	if err := a.ToggleRecording(); err != nil {
		t.Fatalf("ToggleRecording() error = %v", err)
	}
	trans.FeedFinal("잠자리")

	if !a.JumpTo(2) {
		t.Fatal("JumpTo(2) = false")
	}
	if rec.IsRecording() {
		t.Fatal("recorder still running after jump")
	}
	if got := a.Responses(); len(got) != 0 {
		t.Fatalf("len(Responses()) = %d, want 0 — truncated take was recorded", len(got))
	}
	if got := sp.LastText(); got != testSet().Scored[0].Prompt {
		t.Fatalf("spoken = %q, want first scored prompt", got)
	}
	if got := a.Phase(); got != assessment.PhaseMain {
		t.Fatalf("phase = %v, want main", got)
	}
}

func TestRestart(t *testing.T) {
	t.Parallel()

	a, sp, _, trans := newTestApp(t)
	startMain(t, a, sp)
	answer(t, a, trans, "나무")

	a.Restart()

	if got := a.Phase(); got != assessment.PhasePracticeIntro {
		t.Fatalf("phase after restart = %v, want practice-intro", got)
	}
	if a.Ready() {
		t.Fatal("Ready() = true after restart")
	}
	if got := a.Responses(); len(got) != 0 {
		t.Fatalf("len(Responses()) after restart = %d, want 0", len(got))
	}
	if got := sp.LastText(); got != msgs.Welcome {
		t.Fatalf("spoken = %q, want welcome message", got)
	}
}

func TestToggleRecordingWithoutQuestion(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newTestApp(t)
	a.Start(context.Background())
	if err := a.ToggleRecording(); !errors.Is(err, app.ErrNoQuestionActive) {
		t.Fatalf("ToggleRecording() during onboarding: error = %v, want ErrNoQuestionActive", err)
	}
}

func TestRecorderStartFailureStopsTranscriber(t *testing.T) {
	t.Parallel()

	a, sp, rec, trans := newTestApp(t)
	startPractice(t, a, sp)

	rec.StartErr = errors.New("device busy")
	if err := a.ToggleRecording(); err == nil {
		t.Fatal("ToggleRecording() = nil error with a failing recorder")
	}
	if trans.Running() {
		t.Fatal("transcriber left running after recorder failure")
	}
}
