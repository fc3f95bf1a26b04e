package assessment

import "time"

// Verdict is the tri-state correctness classification attached to a response.
// Unknown means no verification was attempted — scored items answered without
// a usable transcription stay Unknown so the report can distinguish "answered
// incorrectly" from "no answer given".
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	}
	return "unknown"
}

// VerdictFor converts a verifier decision into a [Verdict].
func VerdictFor(correct bool) Verdict {
	if correct {
		return VerdictCorrect
	}
	return VerdictIncorrect
}

// Response is one recorded answer attempt. The response log is append-only and
// ordered by attempt, not by question position; when the same question is
// answered again via navigation, the entry with the highest Seq wins in the
// results view.
type Response struct {
	// QuestionID links the response to its question.
	QuestionID string

	// Text is the transcribed answer. May be empty when transcription failed
	// but a recording was still captured.
	Text string

	// Verdict is the correctness classification at record time.
	Verdict Verdict

	// AudioRef is an opaque reference to the captured audio clip, owned by the
	// recorder collaborator. Empty when no audio was kept.
	AudioRef string

	// Seq is a session-local logical sequence number. It, not RecordedAt,
	// orders duplicate responses: wall-clock timestamps are not guaranteed
	// monotonic across clock adjustments.
	Seq int

	// RecordedAt is the wall-clock time the response was recorded.
	RecordedAt time.Time
}

// Tally is a total/correct pair for one partition of the response log.
type Tally struct {
	Total   int
	Correct int
}

// Summary partitions the response log by item namespace. Every log entry is
// counted, duplicates included; only VerdictCorrect entries count as correct.
type Summary struct {
	Practice Tally
	Main     Tally
	Overall  Tally
}

// ReportRow is one line of the canonical results view: a scored item in its
// original position joined with its most recent response, if any.
type ReportRow struct {
	// Number is the 1-based position of the item among the scored items.
	Number int

	// Prompt and Answer come from the question itself.
	Prompt string
	Answer string

	// UserAnswer is the transcribed text of the winning response, or "" when
	// the item was never answered.
	UserAnswer string

	// Verdict is VerdictUnknown when the item was never answered or was
	// recorded without a usable transcription.
	Verdict Verdict

	// AudioRef is the winning response's clip reference, if any.
	AudioRef string
}
