package grader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/grader"
)

func mcq(answer string) questionbank.Question {
	return questionbank.Question{
		ID:            "m",
		Kind:          questionbank.MultipleChoice,
		Marks:         1,
		CorrectAnswer: answer,
		Options: []questionbank.Option{
			{Label: "A", Content: "x"}, {Label: "B", Content: "y"}, {Label: "C", Content: "z"},
		},
	}
}

func nat(key string) questionbank.Question {
	return questionbank.Question{ID: "n", Kind: questionbank.NumericAnswer, Marks: 1, CorrectAnswer: key}
}

func TestMultipleChoice(t *testing.T) {
	g := grader.New()

	tests := []struct {
		answer string
		want   bool
	}{
		{"B", true},
		{"b", true},
		{"  B\t", true},
		{"A", false},
		{"", false},
		{"y", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Grade(mcq("B"), tt.answer), "answer %q", tt.answer)
	}
}

func TestMultipleChoice_UnresolvedNeverCorrect(t *testing.T) {
	q := mcq("<p>raw content</p>")
	q.AnswerUnresolved = true

	g := grader.New()
	for _, answer := range []string{"A", "B", "C", "<p>raw content</p>"} {
		assert.False(t, g.Grade(q, answer), "answer %q", answer)
	}
}

func TestNumeric_Range(t *testing.T) {
	g := grader.New()

	tests := []struct {
		answer string
		want   bool
	}{
		{"9.999999", false},
		{"10", true},
		{"15", true},
		{"20", true},
		{"20.000001", false},
	}
	for _, key := range []string{"10,20", "20,10"} {
		for _, tt := range tests {
			assert.Equal(t, tt.want, g.Grade(nat(key), tt.answer), "key %s answer %s", key, tt.answer)
		}
	}
}

func TestNumeric_Literal(t *testing.T) {
	g := grader.New()

	tests := []struct {
		name   string
		key    string
		answer string
		want   bool
	}{
		{"exact", "2.5", "2.5", true},
		{"trailing zero", "2.5", "2.50", true},
		{"whitespace", "2.5", " 2.5 ", true},
		{"float round trip", "0.3", "0.30000000000000004", true},
		{"close but outside tolerance", "2.5", "2.500002", false},
		{"different", "2.5", "3", false},
		{"negative", "-4", "-4.0", true},
		{"exponent", "1000", "1e3", true},
		{"not a number", "2.5", "two", false},
		{"empty", "2.5", "", false},
		{"nan", "2.5", "NaN", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Grade(nat(tt.key), tt.answer))
		})
	}
}

func TestNumeric_BadKeyIsNeverCorrect(t *testing.T) {
	assert.False(t, grader.Numeric{}.Grade(nat("about 3"), "3"))
}

func TestByKind_UnknownKind(t *testing.T) {
	q := questionbank.Question{ID: "x", Kind: "ESSAY", CorrectAnswer: "a"}
	assert.False(t, grader.New().Grade(q, "a"))
}
