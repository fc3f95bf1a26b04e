// Package questionbank loads and validates the assessment's question set from
// a YAML file.
//
// Example:
//
//	practice:
//	  - id: ex_1
//	    prompt: "고추잠자리에서 고추 소리를 빼고 나머지 소리를 말해 주세요."
//	    answer: "잠자리"
//	scored:
//	  - id: del_01
//	    prompt: "밤나무에서 밤 소리를 빼고 나머지 소리를 말해 주세요."
//	    answer: "나무"
//
// Practice ids must carry the "ex_" prefix and scored ids the "del_" prefix;
// the id namespace is what lets the session classify responses without a
// lookup, so the loader rejects banks that break it.
package questionbank

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sorilab/phonocheck/internal/assessment"
)

// Load reads the YAML question bank at path and returns a validated set.
// A missing or empty bank is a precondition failure for the whole session, so
// errors here should abort startup.
func Load(path string) (*assessment.QuestionSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("questionbank: open %q: %w", path, err)
	}
	defer f.Close()

	set, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("questionbank: parse %q: %w", path, err)
	}
	return set, nil
}

// LoadFromReader decodes a YAML question bank from r and validates the result.
// Useful in tests where banks are constructed from string literals.
func LoadFromReader(r io.Reader) (*assessment.QuestionSet, error) {
	set := &assessment.QuestionSet{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos
	if err := dec.Decode(set); err != nil {
		return nil, fmt.Errorf("questionbank: decode yaml: %w", err)
	}
	if err := Validate(set); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate checks that set is a usable bank: both sequences non-empty, every
// item fully populated, ids in the right namespace and unique across the
// whole bank. Returns a joined error listing all failures found.
func Validate(set *assessment.QuestionSet) error {
	if set == nil || (len(set.Practice) == 0 && len(set.Scored) == 0) {
		return assessment.ErrNoQuestions
	}

	var errs []error
	if len(set.Practice) == 0 {
		errs = append(errs, errors.New("practice sequence is empty"))
	}
	if len(set.Scored) == 0 {
		errs = append(errs, errors.New("scored sequence is empty"))
	}

	seen := make(map[string]string, set.Total())
	check := func(section string, wantKind assessment.ItemKind, items []assessment.Question) {
		for i, q := range items {
			prefix := fmt.Sprintf("%s[%d]", section, i)
			if q.ID == "" {
				errs = append(errs, fmt.Errorf("%s.id is required", prefix))
				continue
			}
			if kind := assessment.KindOf(q.ID); kind != wantKind {
				errs = append(errs, fmt.Errorf("%s.id %q is outside the %s namespace", prefix, q.ID, section))
			}
			if prev, dup := seen[q.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id %q is a duplicate of %s", prefix, q.ID, prev))
			}
			seen[q.ID] = prefix
			if q.Prompt == "" {
				errs = append(errs, fmt.Errorf("%s.prompt is required", prefix))
			}
			if q.Answer == "" {
				errs = append(errs, fmt.Errorf("%s.answer is required", prefix))
			}
		}
	}
	check("practice", assessment.KindPractice, set.Practice)
	check("scored", assessment.KindScored, set.Scored)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("questionbank: %w", err)
	}
	return nil
}
