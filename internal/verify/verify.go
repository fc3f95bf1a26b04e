// Package verify decides whether a transcribed spoken answer matches the
// expected answer for an assessment item.
//
// The decision is two-stage: both strings are normalized (whitespace and a
// fixed punctuation set stripped, case folded), then compared exactly; on a
// miss, a Levenshtein-based similarity score in [0, 1] is computed and the
// answer is accepted when it reaches the configured threshold. The threshold
// is the sole tolerance mechanism for transcription noise — there is no
// phonetic matching, transliteration, or stemming.
package verify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// DefaultThreshold is the similarity score at or above which a non-exact
// answer is accepted.
const DefaultThreshold = 0.8

// strippedPunct is the punctuation removed during normalization.
const strippedPunct = ".,!?;:"

// Option is a functional option for configuring a [Verifier].
type Option func(*Verifier)

// WithThreshold sets the minimum similarity score for the fuzzy fallback.
// Default: 0.8.
func WithThreshold(threshold float64) Option {
	return func(v *Verifier) {
		v.threshold = threshold
	}
}

// Verifier scores transcribed answers against expected answers. It is
// stateless and safe for concurrent use — read-only after construction.
type Verifier struct {
	threshold float64
}

// New returns a Verifier configured with the supplied options.
func New(opts ...Option) *Verifier {
	v := &Verifier{threshold: DefaultThreshold}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Check reports whether transcribed should be accepted as a match for
// expected. It is a total function: any pair of strings yields a decision,
// never a panic. Callers are responsible for short-circuiting empty
// transcriptions before scoring; an empty string here simply scores 0 against
// any non-empty answer.
func (v *Verifier) Check(transcribed, expected string) bool {
	match, _ := v.Score(transcribed, expected)
	return match
}

// Score is [Verifier.Check] plus the similarity score that produced the
// decision. Exact matches after normalization score 1.0 without computing an
// edit distance.
func (v *Verifier) Score(transcribed, expected string) (match bool, similarity float64) {
	a := Normalize(transcribed)
	b := Normalize(expected)
	if a == b {
		return true, 1.0
	}
	similarity = Similarity(a, b)
	return similarity >= v.threshold, similarity
}

// Normalize strips all whitespace and the punctuation set ".,!?;:" from s and
// lower-cases the result. Normalize is idempotent, so punctuation and spacing
// variants of the same answer collapse to one form.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(strippedPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Similarity returns a closeness score in [0, 1] between two already
// normalized strings: 1 minus the Levenshtein distance over Unicode code
// points divided by the longer length. Equal strings score 1.0; when exactly
// one side is empty the score is 0.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	return 1.0 - float64(matchr.Levenshtein(a, b))/float64(maxLen)
}
