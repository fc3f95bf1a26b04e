package assessment

import "strings"

// Item id prefixes. The id namespace disambiguates phase membership without
// any external lookup: practice items are "ex_*", scored items are "del_*"
// (deletion-task items).
const (
	PracticeIDPrefix = "ex_"
	ScoredIDPrefix   = "del_"
)

// ItemKind classifies a question id by its namespace prefix.
type ItemKind int

const (
	// KindUnknown means the id matches neither namespace.
	KindUnknown ItemKind = iota

	// KindPractice marks an onboarding item that only drives immediate feedback.
	KindPractice

	// KindScored marks an item counted toward the final result.
	KindScored
)

// KindOf returns the [ItemKind] for a question id based on its prefix.
func KindOf(id string) ItemKind {
	switch {
	case strings.HasPrefix(id, PracticeIDPrefix):
		return KindPractice
	case strings.HasPrefix(id, ScoredIDPrefix):
		return KindScored
	}
	return KindUnknown
}

// Question is a single assessment item. Prompt is spoken to the test-taker;
// Answer is the expected response used for scoring.
type Question struct {
	// ID is a stable identifier. Its prefix encodes the item kind; see [KindOf].
	ID string `yaml:"id"`

	// Prompt is the text spoken to the test-taker.
	Prompt string `yaml:"prompt"`

	// Answer is the expected answer text used by the verifier.
	Answer string `yaml:"answer"`
}

// QuestionSet is the loaded item bank for one assessment run. It is read-only
// to the session; loading and validation live in the questionbank package.
type QuestionSet struct {
	// Practice holds the ordered practice items (typically 3).
	Practice []Question `yaml:"practice"`

	// Scored holds the ordered scored items (typically 20).
	Scored []Question `yaml:"scored"`
}

// Total returns the number of items across both sequences. This is the size of
// the flattened index space used by [Session.JumpTo].
func (qs *QuestionSet) Total() int {
	return len(qs.Practice) + len(qs.Scored)
}
