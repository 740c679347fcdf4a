package questionbank

import (
	"errors"
	"fmt"
	"sort"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/id"
)

// UnknownSource is the source group assigned to records that carry none.
const UnknownSource = "Unknown Source"

var ErrDuplicateQuestion = errors.New("duplicate question id")

// QuestionBank is the set of normalized questions available for selection,
// in load order. It is read-only once handed to sessions.
type QuestionBank struct {
	ID        string
	Questions []Question

	index map[string]int
}

func New() *QuestionBank {
	return &QuestionBank{
		ID:        id.GenerateID(),
		Questions: []Question{},
		index:     map[string]int{},
	}
}

// NewFrom builds a bank from already normalized questions, as read back from
// storage.
func NewFrom(questions []Question) (*QuestionBank, error) {
	qb := New()
	for _, q := range questions {
		if err := qb.Add(q); err != nil {
			return nil, err
		}
	}
	return qb, nil
}

func (qb *QuestionBank) Add(q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if _, ok := qb.index[q.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateQuestion, q.ID)
	}

	qb.index[q.ID] = len(qb.Questions)
	qb.Questions = append(qb.Questions, q)
	return nil
}

func (qb *QuestionBank) Get(questionID string) (Question, bool) {
	i, ok := qb.index[questionID]
	if !ok {
		return Question{}, false
	}
	return qb.Questions[i], true
}

func (qb *QuestionBank) Len() int { return len(qb.Questions) }

// Sources returns the distinct source groups, sorted.
func (qb *QuestionBank) Sources() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, q := range qb.Questions {
		if _, ok := seen[q.SourceGroup]; ok {
			continue
		}
		seen[q.SourceGroup] = struct{}{}
		out = append(out, q.SourceGroup)
	}
	sort.Strings(out)
	return out
}

// BySources returns the questions whose source group is in sources, in bank
// order.
func (qb *QuestionBank) BySources(sources []string) []Question {
	want := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		want[s] = struct{}{}
	}

	var out []Question
	for _, q := range qb.Questions {
		if _, ok := want[q.SourceGroup]; ok {
			out = append(out, q)
		}
	}
	return out
}
