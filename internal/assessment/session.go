// Package assessment implements the session state machine and response
// bookkeeping for a spoken phonological-processing assessment.
//
// A [Session] tracks which phase and question the test-taker is on, enforces
// legal transitions, and owns the append-only response log. The guided
// onboarding that precedes the practice items is modelled separately by
// [Guide]. Both are pure state: all audio capture, playback, and transcription
// belong to collaborator providers driven by the host, which feeds their
// completion signals back in as discrete events.
package assessment

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrNoQuestions is returned by [NewSession] when the question set is missing
// one of its item sequences. A session cannot exist without a full bank.
var ErrNoQuestions = errors.New("assessment: question set has no items")

// Session is the state machine for one assessment run. It is created fresh at
// session start and replaced wholesale on restart; nothing survives a restart.
//
// All exported methods are safe for concurrent use, though the expected usage
// is a single host event loop feeding it one external event at a time.
type Session struct {
	mu        sync.Mutex
	set       *QuestionSet
	phase     Phase
	index     int
	responses []Response
	nextSeq   int
}

// NewSession creates a session over the given question set, starting in
// [PhaseIntro]. Returns [ErrNoQuestions] if either item sequence is empty.
func NewSession(set *QuestionSet) (*Session, error) {
	if set == nil || len(set.Practice) == 0 || len(set.Scored) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{
		set:   set,
		phase: PhaseIntro,
	}, nil
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// PhaseIndex returns the 0-based position within the current phase's item
// sequence. The value is meaningless outside Practice and Main.
func (s *Session) PhaseIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// StartOnboarding moves the session from Intro to PracticeIntro. Reports
// whether the transition happened; calling it from any other phase is a no-op.
func (s *Session) StartOnboarding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIntro {
		return false
	}
	s.phase = PhasePracticeIntro
	return true
}

// BeginPractice moves the session from PracticeIntro to the first practice
// item. Reports whether the transition happened. The host must additionally
// check [Guide.Ready] before calling — the onboarding gate is authoritative
// data, not a UI affordance.
func (s *Session) BeginPractice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePracticeIntro {
		return false
	}
	s.phase = PhasePractice
	s.index = 0
	return true
}

// CurrentQuestion returns the item at the current position. ok is false in
// phases that carry no item sequence. No side effects.
func (s *Session) CurrentQuestion() (q Question, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhasePractice:
		return s.set.Practice[s.index], true
	case PhaseMain:
		return s.set.Scored[s.index], true
	}
	return Question{}, false
}

// Advance moves to the next item. When the position runs past the end of the
// practice sequence the session rolls into Main at index 0; past the end of
// the scored sequence it rolls into the terminal Result phase. Advancing from
// Result — or from any phase without items — is a no-op, never a fault.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhasePractice:
		s.index++
		if s.index >= len(s.set.Practice) {
			s.phase = PhaseMain
			s.index = 0
		}
	case PhaseMain:
		s.index++
		if s.index >= len(s.set.Scored) {
			s.phase = PhaseResult
			s.index = 0
		}
	}
}

// JumpTo overrides the current position with a flattened index: practice items
// first, scored items after. Out-of-range indices are rejected as a silent
// no-op (stale UI indices are tolerated, not errors). Reports whether the jump
// was applied. The response log is untouched.
//
// Any in-flight capture must be quiesced by the caller first; the session does
// not own the recorder or transcriber.
func (s *Session) JumpTo(global int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if global < 0 || global >= s.set.Total() {
		return false
	}
	if global < len(s.set.Practice) {
		s.phase = PhasePractice
		s.index = global
	} else {
		s.phase = PhaseMain
		s.index = global - len(s.set.Practice)
	}
	return true
}

// GlobalIndex returns the flattened index of the current position, the inverse
// of [Session.JumpTo]. ok is false in phases without items.
func (s *Session) GlobalIndex() (global int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhasePractice:
		return s.index, true
	case PhaseMain:
		return len(s.set.Practice) + s.index, true
	}
	return 0, false
}

// RecordResponse appends a response for questionID to the log with the current
// timestamp and the next logical sequence number. Duplicate question ids are
// permitted; the log is never rewritten. audioRef may be empty.
func (s *Session) RecordResponse(questionID, text string, verdict Verdict, audioRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.responses = append(s.responses, Response{
		QuestionID: questionID,
		Text:       text,
		Verdict:    verdict,
		AudioRef:   audioRef,
		Seq:        s.nextSeq,
		RecordedAt: time.Now(),
	})
	slog.Debug("assessment: response recorded",
		"question_id", questionID,
		"verdict", verdict.String(),
		"seq", s.nextSeq,
		"has_audio", audioRef != "",
	)
}

// Responses returns a copy of the response log in attempt order.
func (s *Session) Responses() []Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Response, len(s.responses))
	copy(out, s.responses)
	return out
}

// Summary partitions the response log by item namespace and counts correct
// verdicts. Every log entry is counted, duplicates included; Unknown verdicts
// never count as correct.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum Summary
	for _, r := range s.responses {
		switch KindOf(r.QuestionID) {
		case KindPractice:
			sum.Practice.Total++
			if r.Verdict == VerdictCorrect {
				sum.Practice.Correct++
			}
		case KindScored:
			sum.Main.Total++
			if r.Verdict == VerdictCorrect {
				sum.Main.Correct++
			}
		}
	}
	sum.Overall.Total = sum.Practice.Total + sum.Main.Total
	sum.Overall.Correct = sum.Practice.Correct + sum.Main.Correct
	return sum
}

// MainAnswers builds the canonical results view: one row per scored item in
// original question order, regardless of how many responses were recorded or
// in what order. When a question was answered more than once, the response
// with the highest sequence number wins; unanswered items yield a row with an
// empty answer and an Unknown verdict.
func (s *Session) MainAnswers() []ReportRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := make(map[string]Response, len(s.responses))
	for _, r := range s.responses {
		if prev, ok := latest[r.QuestionID]; !ok || r.Seq > prev.Seq {
			latest[r.QuestionID] = r
		}
	}

	rows := make([]ReportRow, 0, len(s.set.Scored))
	for i, q := range s.set.Scored {
		row := ReportRow{
			Number: i + 1,
			Prompt: q.Prompt,
			Answer: q.Answer,
		}
		if r, ok := latest[q.ID]; ok {
			row.UserAnswer = r.Text
			row.Verdict = r.Verdict
			row.AudioRef = r.AudioRef
		}
		rows = append(rows, row)
	}
	return rows
}

// Restart discards all state and returns the session to a freshly constructed
// one: phase Intro, empty response log. Previously referenced audio clips
// become eligible for disposal by their owner; the session keeps nothing.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIntro
	s.index = 0
	s.responses = nil
	s.nextSeq = 0
	slog.Info("assessment: session restarted")
}
