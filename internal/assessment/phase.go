package assessment

// Phase is one of the five coarse stages an assessment session moves through.
// Progression is totally ordered: Intro → PracticeIntro → Practice → Main →
// Result. Practice and Main hold an index into their item sequences; the other
// phases have no position.
type Phase string

const (
	// PhaseIntro is the initial landing stage before the session starts.
	PhaseIntro Phase = "intro"

	// PhasePracticeIntro is the one-time guided onboarding stage. Its internal
	// progression is modelled by [Guide].
	PhasePracticeIntro Phase = "practice-intro"

	// PhasePractice presents the practice items with immediate spoken feedback.
	PhasePractice Phase = "practice"

	// PhaseMain presents the scored items; verdicts are deferred to the report.
	PhaseMain Phase = "main"

	// PhaseResult is the terminal stage. Advancing from it is a no-op.
	PhaseResult Phase = "result"
)

// IsValid reports whether p is a recognised phase.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseIntro, PhasePracticeIntro, PhasePractice, PhaseMain, PhaseResult:
		return true
	}
	return false
}

// HasItems reports whether p carries a position into an item sequence.
func (p Phase) HasItems() bool {
	return p == PhasePractice || p == PhaseMain
}

func (p Phase) String() string { return string(p) }
