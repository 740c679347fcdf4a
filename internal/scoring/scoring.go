// Package scoring turns a submitted session into a TestResult.
package scoring

import (
	"math"

	practicesession "github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/practice_session"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/grader"
)

// roundingEpsilon nudges values sitting just under a .005 boundary because
// of binary representation, e.g. 1.005.
const roundingEpsilon = 0x1p-52

// QuestionAnalysis is the per-question line of a result.
type QuestionAnalysis struct {
	Question         questionbank.Question
	UserAnswer       string // empty when not attempted
	Attempted        bool
	Correct          bool
	MarksAwarded     float64 // +marks, -penalty or 0
	TimeSpentSeconds int
}

// TestResult is the read-only outcome of one session.
type TestResult struct {
	TotalQuestions      int
	Attempted           int
	Correct             int
	Incorrect           int
	Score               float64
	TotalMarks          int
	TotalAttemptedMarks int
	Accuracy            float64 // percent of attempted answered correctly
	ElapsedSeconds      int
	Practice            bool
	Analysis            []QuestionAnalysis
}

func (r TestResult) Unattempted() int { return r.TotalQuestions - r.Attempted }

// MaxScore is the denominator shown next to the score: attempted marks in
// practice, every mark in a timed exam.
func (r TestResult) MaxScore() int {
	if r.Practice {
		return r.TotalAttemptedMarks
	}
	return r.TotalMarks
}

type Engine struct {
	grader grader.Grader
}

func NewEngine(g grader.Grader) *Engine {
	return &Engine{grader: g}
}

// Score grades with the standard grader.
func Score(questions []questionbank.Question, responses []practicesession.Response, elapsedSeconds int, practice bool) TestResult {
	return NewEngine(grader.New()).Score(questions, responses, elapsedSeconds, practice)
}

func (e *Engine) ScoreSubmission(sub practicesession.Submission) TestResult {
	return e.Score(sub.Questions, sub.Responses, sub.ElapsedSeconds, sub.Practice)
}

// Score walks every active question in order. Responses are matched by
// question id; responses for questions outside the set are ignored and a
// question without a response counts as unattempted.
func (e *Engine) Score(questions []questionbank.Question, responses []practicesession.Response, elapsedSeconds int, practice bool) TestResult {
	byID := make(map[string]practicesession.Response, len(responses))
	for _, r := range responses {
		byID[r.QuestionID] = r
	}

	result := TestResult{
		TotalQuestions: len(questions),
		ElapsedSeconds: elapsedSeconds,
		Practice:       practice,
		Analysis:       make([]QuestionAnalysis, 0, len(questions)),
	}

	var score float64
	for _, q := range questions {
		resp := byID[q.ID]
		line := QuestionAnalysis{
			Question:         q,
			UserAnswer:       resp.Answer,
			Attempted:        resp.Attempted(),
			TimeSpentSeconds: resp.TimeSpentSeconds,
		}
		result.TotalMarks += q.Marks

		if line.Attempted {
			result.Attempted++
			result.TotalAttemptedMarks += q.Marks

			line.Correct = e.grader.Grade(q, resp.Answer)
			if line.Correct {
				result.Correct++
				line.MarksAwarded = float64(q.Marks)
			} else {
				result.Incorrect++
				if p := q.Penalty(); p > 0 {
					line.MarksAwarded = -p
				}
			}
			score += line.MarksAwarded
		}

		result.Analysis = append(result.Analysis, line)
	}

	result.Score = Round2(score)
	if result.Attempted > 0 {
		result.Accuracy = float64(result.Correct) / float64(result.Attempted) * 100
	}
	return result
}

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round((v+math.Copysign(roundingEpsilon, v))*100) / 100
}
