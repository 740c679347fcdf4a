package practicesession

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/id"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/timer"
)

var (
	ErrSessionSubmitted  = errors.New("session already submitted")
	ErrNoSourcesSelected = errors.New("no source groups selected")
	ErrNoQuestions       = errors.New("no questions match the selection")
	ErrUnknownOption     = errors.New("answer is not an option label")
)

// Response is the test-taker's state for one active question. Answer is
// empty when absent.
type Response struct {
	QuestionID       string
	Answer           string
	TimeSpentSeconds int
	Status           Status
}

func (r Response) Attempted() bool { return r.Answer != "" }

// PracticeSession tracks navigation and answers over a fixed question set.
// It is not safe for concurrent use; one loop owns it for its lifetime.
type PracticeSession struct {
	ID        string
	Questions []questionbank.Question
	Budget    timer.Budget

	responses []Response
	visited   []bool
	marked    []bool
	cursor    int
	submitted bool
}

// Submission is the frozen state handed to scoring.
type Submission struct {
	SessionID      string
	Questions      []questionbank.Question
	Responses      []Response
	ElapsedSeconds int
	Practice       bool
}

// New creates a session over questions in the given order. The first
// question is visited on creation.
func New(questions []questionbank.Question, budget timer.Budget) (*PracticeSession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	s := &PracticeSession{
		ID:        id.GenerateID(),
		Questions: questions,
		Budget:    budget,
		responses: make([]Response, len(questions)),
		visited:   make([]bool, len(questions)),
		marked:    make([]bool, len(questions)),
	}
	for i, q := range questions {
		s.responses[i] = Response{QuestionID: q.ID, Status: NotVisited}
	}
	s.visit(0)
	return s, nil
}

// NewWithConfig selects questions from the bank and starts a session over
// them. Questions are filtered to the configured sources, shuffled with rng
// and truncated to MaxQuestions. A nil rng uses the global source.
func NewWithConfig(bank *questionbank.QuestionBank, config SessionConfig, rng *rand.Rand) (*PracticeSession, error) {
	questions, err := Select(bank, config, rng)
	if err != nil {
		return nil, err
	}
	return New(questions, config.Budget)
}

func Select(bank *questionbank.QuestionBank, config SessionConfig, rng *rand.Rand) ([]questionbank.Question, error) {
	if len(config.Sources) == 0 {
		return nil, ErrNoSourcesSelected
	}

	questions := shuffleQuestions(bank.BySources(config.Sources), rng)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: sources %v", ErrNoQuestions, config.Sources)
	}

	if config.MaxQuestions != nil && *config.MaxQuestions > 0 && *config.MaxQuestions < len(questions) {
		questions = questions[:*config.MaxQuestions]
	}
	return questions, nil
}

// shuffleQuestions returns a new slice with questions in random order.
func shuffleQuestions(questions []questionbank.Question, rng *rand.Rand) []questionbank.Question {
	shuffled := make([]questionbank.Question, len(questions))
	copy(shuffled, questions)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}
	return shuffled
}

func (s *PracticeSession) Len() int        { return len(s.Questions) }
func (s *PracticeSession) Cursor() int     { return s.cursor }
func (s *PracticeSession) Submitted() bool { return s.submitted }
func (s *PracticeSession) Practice() bool  { return s.Budget.Practice() }

func (s *PracticeSession) Current() (questionbank.Question, Response) {
	return s.Questions[s.cursor], s.responses[s.cursor]
}

// Responses returns a copy of the response array.
func (s *PracticeSession) Responses() []Response {
	out := make([]Response, len(s.responses))
	copy(out, s.responses)
	return out
}

func (s *PracticeSession) Response(i int) (Response, bool) {
	if i < 0 || i >= len(s.responses) {
		return Response{}, false
	}
	return s.responses[i], true
}

// NavigateTo moves the cursor, clamping index into range, and marks the
// target visited.
func (s *PracticeSession) NavigateTo(index int) error {
	if s.submitted {
		return ErrSessionSubmitted
	}
	index = max(0, min(index, len(s.Questions)-1))
	s.cursor = index
	s.visit(index)
	return nil
}

func (s *PracticeSession) Next() error { return s.NavigateTo(s.cursor + 1) }

func (s *PracticeSession) Prev() error { return s.NavigateTo(s.cursor - 1) }

// SetAnswer records value for the current question. An empty value clears
// the answer but keeps the review mark. Multiple choice values must name an
// option label and are stored upper-cased.
func (s *PracticeSession) SetAnswer(value string) error {
	if s.submitted {
		return ErrSessionSubmitted
	}

	value = strings.TrimSpace(value)
	q := s.Questions[s.cursor]
	if value != "" && q.IsMultipleChoice() {
		opt, ok := q.OptionByLabel(value)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownOption, value)
		}
		value = opt.Label
	}

	s.responses[s.cursor].Answer = value
	s.refresh(s.cursor)
	return nil
}

// ToggleMark flips the review flag on the current question, leaving the
// answer untouched.
func (s *PracticeSession) ToggleMark() error {
	if s.submitted {
		return ErrSessionSubmitted
	}
	s.marked[s.cursor] = !s.marked[s.cursor]
	s.refresh(s.cursor)
	return nil
}

// ClearAnswer drops the answer and the review mark of the current question.
func (s *PracticeSession) ClearAnswer() error {
	if s.submitted {
		return ErrSessionSubmitted
	}
	s.responses[s.cursor].Answer = ""
	s.marked[s.cursor] = false
	s.refresh(s.cursor)
	return nil
}

// Tick credits one second to the question under the cursor.
func (s *PracticeSession) Tick() {
	if s.submitted {
		return
	}
	s.responses[s.cursor].TimeSpentSeconds++
}

// Submit freezes the session. Later mutations return ErrSessionSubmitted.
func (s *PracticeSession) Submit(elapsedSeconds int) (Submission, error) {
	if s.submitted {
		return Submission{}, ErrSessionSubmitted
	}
	s.submitted = true

	return Submission{
		SessionID:      s.ID,
		Questions:      s.Questions,
		Responses:      s.Responses(),
		ElapsedSeconds: elapsedSeconds,
		Practice:       s.Budget.Practice(),
	}, nil
}

// StatusCounts returns how many questions are in each status.
func (s *PracticeSession) StatusCounts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, r := range s.responses {
		counts[r.Status]++
	}
	return counts
}

func (s *PracticeSession) visit(i int) {
	s.visited[i] = true
	s.refresh(i)
}

func (s *PracticeSession) refresh(i int) {
	s.responses[i].Status = statusOf(s.visited[i], s.responses[i].Answer != "", s.marked[i])
}
