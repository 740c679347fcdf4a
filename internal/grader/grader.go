package grader

import (
	"math"
	"strconv"
	"strings"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
)

// Tolerance is the allowed distance between a numeric answer and a literal
// key. It absorbs float round-trips only.
const Tolerance = 1e-6

// Grader decides whether a user answer to a question is correct.
// Implementations are pure; an answer that cannot be interpreted is simply
// incorrect.
type Grader interface {
	Grade(q questionbank.Question, userAnswer string) bool
}

// Compile-time checks.
var (
	_ Grader = MultipleChoice{}
	_ Grader = Numeric{}
	_ Grader = (*ByKind)(nil)
)

// MultipleChoice compares labels after trimming and lower-casing.
type MultipleChoice struct{}

func (MultipleChoice) Grade(q questionbank.Question, userAnswer string) bool {
	if q.AnswerUnresolved {
		return false
	}
	return fold(userAnswer) == fold(q.CorrectAnswer)
}

// Numeric parses the answer as a float and checks it against a literal key
// or an inclusive range.
type Numeric struct{}

func (Numeric) Grade(q questionbank.Question, userAnswer string) bool {
	v, err := strconv.ParseFloat(fold(userAnswer), 64)
	if err != nil || math.IsNaN(v) {
		return false
	}

	key, err := questionbank.ParseNumericKey(q.CorrectAnswer)
	if err != nil {
		return false
	}
	if key.Range {
		lo, hi := math.Min(key.Lo, key.Hi), math.Max(key.Lo, key.Hi)
		return lo <= v && v <= hi
	}
	return math.Abs(v-key.Lo) < Tolerance
}

// ByKind routes each question to the grader registered for its kind.
type ByKind struct {
	graders map[questionbank.Kind]Grader
}

// New returns the standard grader: MultipleChoice and Numeric by kind.
func New() *ByKind {
	return &ByKind{graders: map[questionbank.Kind]Grader{
		questionbank.MultipleChoice: MultipleChoice{},
		questionbank.NumericAnswer:  Numeric{},
	}}
}

func (g *ByKind) Grade(q questionbank.Question, userAnswer string) bool {
	inner, ok := g.graders[q.Kind]
	if !ok {
		return false
	}
	return inner.Grade(q, userAnswer)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
