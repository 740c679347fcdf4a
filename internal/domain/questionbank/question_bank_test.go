package questionbank_test

import (
	"errors"
	"testing"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
)

func mcq(id, source, answer string, marks int) questionbank.Question {
	return questionbank.Question{
		ID:   id,
		Kind: questionbank.MultipleChoice,
		Body: "Question " + id,
		Options: []questionbank.Option{
			{Label: "A", Content: "alpha"},
			{Label: "B", Content: "beta"},
			{Label: "C", Content: "gamma"},
			{Label: "D", Content: "delta"},
		},
		CorrectAnswer: answer,
		Marks:         marks,
		SourceGroup:   source,
	}
}

func nat(id, source, answer string, marks int) questionbank.Question {
	return questionbank.Question{
		ID:            id,
		Kind:          questionbank.NumericAnswer,
		Body:          "Question " + id,
		CorrectAnswer: answer,
		Marks:         marks,
		SourceGroup:   source,
	}
}

func TestNewQuestionBank(t *testing.T) {
	bank := questionbank.New()

	if bank.ID == "" {
		t.Error("expected bank id to be generated")
	}
	if bank.Len() != 0 {
		t.Errorf("expected empty question bank, got %d questions", bank.Len())
	}
}

func TestAdd(t *testing.T) {
	bank := questionbank.New()

	if err := bank.Add(mcq("q1", "2024", "B", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, ok := bank.Get("q1")
	if !ok {
		t.Fatal("expected q1 to be retrievable")
	}
	if q.CorrectAnswer != "B" {
		t.Errorf("expected correct answer %q, got %q", "B", q.CorrectAnswer)
	}
}

func TestAdd_Duplicate(t *testing.T) {
	bank := questionbank.New()
	if err := bank.Add(mcq("q1", "2024", "A", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := bank.Add(nat("q1", "2024", "4", 2))
	if !errors.Is(err, questionbank.ErrDuplicateQuestion) {
		t.Errorf("expected ErrDuplicateQuestion, got %v", err)
	}
	if bank.Len() != 1 {
		t.Error("expected duplicate not to be added")
	}
}

func TestAdd_RejectsInvalidQuestions(t *testing.T) {
	tests := []struct {
		name string
		q    questionbank.Question
	}{
		{"empty id", mcq("", "s", "A", 1)},
		{"zero marks", mcq("q", "s", "A", 0)},
		{"label out of range", mcq("q", "s", "E", 1)},
		{"unknown kind", questionbank.Question{ID: "q", Kind: "ESSAY", Marks: 1}},
		{"numeric with bad key", nat("q", "s", "ten", 1)},
		{"numeric with options", func() questionbank.Question {
			q := nat("q", "s", "1", 1)
			q.Options = []questionbank.Option{{Label: "A", Content: "x"}}
			return q
		}()},
		{"misordered labels", func() questionbank.Question {
			q := mcq("q", "s", "A", 1)
			q.Options[0].Label, q.Options[1].Label = "B", "A"
			return q
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := questionbank.New()
			if err := bank.Add(tt.q); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAdd_AcceptsUnresolvedAnswer(t *testing.T) {
	q := mcq("q1", "s", "<p>none of these</p>", 1)
	q.AnswerUnresolved = true

	bank := questionbank.New()
	if err := bank.Add(q); err != nil {
		t.Errorf("expected unresolved answer to be accepted, got %v", err)
	}
}

func TestSourcesAndBySources(t *testing.T) {
	bank, err := questionbank.NewFrom([]questionbank.Question{
		mcq("q1", "GATE 2024", "A", 1),
		nat("q2", "GATE 2023", "5", 2),
		mcq("q3", "GATE 2024", "C", 2),
		nat("q4", questionbank.UnknownSource, "1,2", 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sources := bank.Sources()
	want := []string{"GATE 2023", "GATE 2024", questionbank.UnknownSource}
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %v", len(want), sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("source %d: expected %q, got %q", i, want[i], sources[i])
		}
	}

	picked := bank.BySources([]string{"GATE 2024"})
	if len(picked) != 2 || picked[0].ID != "q1" || picked[1].ID != "q3" {
		t.Errorf("expected [q1 q3] in bank order, got %v", picked)
	}

	if got := bank.BySources(nil); len(got) != 0 {
		t.Errorf("expected no questions for no sources, got %d", len(got))
	}
}

func TestStats(t *testing.T) {
	unresolved := mcq("q3", "GATE 2024", "raw blob", 2)
	unresolved.AnswerUnresolved = true

	bank, err := questionbank.NewFrom([]questionbank.Question{
		mcq("q1", "GATE 2024", "A", 1),
		nat("q2", "GATE 2023", "5", 2),
		unresolved,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := bank.Stats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 source stats, got %d", len(stats))
	}

	s23, s24 := stats[0], stats[1]
	if s23.Source != "GATE 2023" || s23.Total != 1 || s23.Numeric != 1 || s23.TotalMarks != 2 {
		t.Errorf("unexpected stats for GATE 2023: %+v", s23)
	}
	if s24.Total != 2 || s24.MultipleChoice != 2 || s24.Unresolved != 1 || s24.TotalMarks != 3 {
		t.Errorf("unexpected stats for GATE 2024: %+v", s24)
	}
}

func TestOptionByLabelAndPenalty(t *testing.T) {
	q := mcq("q1", "s", "C", 3)

	opt, ok := q.OptionByLabel("c")
	if !ok || opt.Content != "gamma" {
		t.Errorf("expected option C to be gamma, got %+v (found=%v)", opt, ok)
	}
	if _, ok := q.OptionByLabel("F"); ok {
		t.Error("expected no option F")
	}
	if q.Penalty() != 1 {
		t.Errorf("expected penalty 1 for 3 marks, got %v", q.Penalty())
	}
	if p := nat("q2", "s", "1", 2).Penalty(); p != 0 {
		t.Errorf("expected no penalty for numeric answer, got %v", p)
	}
}
