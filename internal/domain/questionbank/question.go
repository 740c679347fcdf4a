package questionbank

import (
	"fmt"
	"strings"
)

type Kind string

const (
	MultipleChoice Kind = "MCQ"
	NumericAnswer  Kind = "NAT"
)

func (k Kind) Valid() bool {
	return k == MultipleChoice || k == NumericAnswer
}

// OptionLabels is the positional label alphabet. The label of an option is
// the letter at its index; a question carries at most len(OptionLabels)
// options.
var OptionLabels = [...]string{"A", "B", "C", "D", "E", "F"}

// LabelAt returns the label for position i, or "" when i is outside the
// alphabet.
func LabelAt(i int) string {
	if i < 0 || i >= len(OptionLabels) {
		return ""
	}
	return OptionLabels[i]
}

type Option struct {
	Label   string
	Content string
}

// Question is a normalized bank entry. Values are shared read-only between
// the bank, sessions and results once normalization returns.
type Question struct {
	ID            string
	Kind          Kind
	Body          string
	Options       []Option // MultipleChoice only
	CorrectAnswer string   // option label, numeric literal, or "min,max"
	Marks         int
	SourceGroup   string
	ImagePaths    []string

	// AnswerUnresolved is set when a MultipleChoice answer could not be
	// matched to any option. CorrectAnswer then holds the raw content and no
	// response can be graded correct against it.
	AnswerUnresolved bool
}

func (q Question) IsMultipleChoice() bool { return q.Kind == MultipleChoice }

// OptionByLabel returns the option carrying label, case-insensitively.
func (q Question) OptionByLabel(label string) (Option, bool) {
	label = strings.TrimSpace(label)
	for _, o := range q.Options {
		if strings.EqualFold(o.Label, label) {
			return o, true
		}
	}
	return Option{}, false
}

// Penalty is the score deducted for an incorrect attempt: a third of the
// marks for MultipleChoice, nothing for NumericAnswer.
func (q Question) Penalty() float64 {
	if q.Kind != MultipleChoice {
		return 0
	}
	return float64(q.Marks) / 3
}

// Validate checks the invariants every normalized question satisfies.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question id is empty")
	}
	if !q.Kind.Valid() {
		return fmt.Errorf("question %s: unknown kind %q", q.ID, q.Kind)
	}
	if q.Marks <= 0 {
		return fmt.Errorf("question %s: marks must be positive, got %d", q.ID, q.Marks)
	}

	switch q.Kind {
	case MultipleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s: multiple choice without options", q.ID)
		}
		if len(q.Options) > len(OptionLabels) {
			return fmt.Errorf("question %s: %d options exceed label alphabet", q.ID, len(q.Options))
		}
		for i, o := range q.Options {
			if o.Label != LabelAt(i) {
				return fmt.Errorf("question %s: option %d labelled %q, want %q", q.ID, i, o.Label, LabelAt(i))
			}
		}
		if q.AnswerUnresolved {
			return nil
		}
		if _, ok := q.OptionByLabel(q.CorrectAnswer); !ok || len(q.CorrectAnswer) != 1 {
			return fmt.Errorf("question %s: correct answer %q is not an option label", q.ID, q.CorrectAnswer)
		}
	case NumericAnswer:
		if len(q.Options) > 0 {
			return fmt.Errorf("question %s: numeric answer with options", q.ID)
		}
		if _, err := ParseNumericKey(q.CorrectAnswer); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
	}
	return nil
}
