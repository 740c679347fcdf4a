// internal/service/exam.go
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	practicesession "github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/practice_session"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/grader"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/scoring"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/store"
)

// ExamService ties bank import and session start to the store. Sessions
// themselves are driven by the caller.
type ExamService struct {
	store     store.Store
	normalize []questionbank.NormalizerOption
	engine    *scoring.Engine
	rng       *rand.Rand
	logger    *slog.Logger
}

// NewExamService creates an ExamService. rng drives question shuffling; nil
// uses the global source. opts configure the normalizer built for each
// import.
func NewExamService(s store.Store, rng *rand.Rand, logger *slog.Logger, opts ...questionbank.NormalizerOption) *ExamService {
	return &ExamService{
		store:     s,
		normalize: opts,
		engine:    scoring.NewEngine(grader.New()),
		rng:       rng,
		logger:    logger,
	}
}

// WithNormalizerOptions returns a copy of es whose imports also apply opts.
func (es *ExamService) WithNormalizerOptions(opts ...questionbank.NormalizerOption) *ExamService {
	cp := *es
	cp.normalize = append(append([]questionbank.NormalizerOption(nil), es.normalize...), opts...)
	return &cp
}

// ImportBank normalizes a bank export and stores its questions.
func (es *ExamService) ImportBank(ctx context.Context, origin string, r io.Reader) (questionbank.LoadReport, error) {
	bank, report, err := questionbank.NewNormalizer(es.normalize...).Load(r)
	if err != nil {
		es.logger.Error("bank import failed", "origin", origin, "error", err)
		return report, fmt.Errorf("import %s: %w", origin, err)
	}

	imp := store.Import{
		ID:         bank.ID,
		Origin:     origin,
		Loaded:     report.Loaded,
		Unresolved: len(report.Unresolved),
		Rejected:   len(report.Rejected),
	}
	if err := es.store.SaveBank(ctx, bank, imp); err != nil {
		es.logger.Error("failed to save bank", "origin", origin, "error", err)
		return report, fmt.Errorf("import %s: %w", origin, err)
	}

	es.logger.Info("bank imported",
		"origin", origin,
		"import_id", imp.ID,
		"loaded", imp.Loaded,
		"unresolved", imp.Unresolved,
		"rejected", imp.Rejected,
	)
	return report, nil
}

func (es *ExamService) ListSources(ctx context.Context) ([]store.SourceSummary, error) {
	return es.store.ListSources(ctx)
}

// BankStats summarizes the stored question pool per source.
func (es *ExamService) BankStats(ctx context.Context) ([]questionbank.SourceStats, error) {
	bank, err := es.store.LoadBank(ctx)
	if err != nil {
		return nil, err
	}
	return bank.Stats(), nil
}

// StartSession selects questions for config and opens a session over them.
func (es *ExamService) StartSession(ctx context.Context, config practicesession.SessionConfig) (*practicesession.PracticeSession, error) {
	if len(config.Sources) == 0 {
		return nil, practicesession.ErrNoSourcesSelected
	}

	questions, err := es.store.ListQuestions(ctx, config.Sources...)
	if err != nil {
		return nil, err
	}
	bank, err := questionbank.NewFrom(questions)
	if err != nil {
		return nil, err
	}

	session, err := practicesession.NewWithConfig(bank, config, es.rng)
	if err != nil {
		return nil, err
	}

	es.logger.Info("session started",
		"session_id", session.ID,
		"questions", session.Len(),
		"budget", config.Budget.String(),
		"sources", config.Sources,
	)
	return session, nil
}

// Score grades a submitted session. Results are not stored; callers keep
// them for display or export.
func (es *ExamService) Score(sub practicesession.Submission) scoring.TestResult {
	result := es.engine.ScoreSubmission(sub)

	es.logger.Info("session scored",
		"session_id", sub.SessionID,
		"score", result.Score,
		"max_score", result.MaxScore(),
		"attempted", result.Attempted,
		"elapsed_seconds", result.ElapsedSeconds,
	)
	return result
}

// Question returns one stored question by id.
func (es *ExamService) Question(ctx context.Context, questionID string) (questionbank.Question, error) {
	return es.store.GetQuestion(ctx, questionID)
}

// Questions lists stored questions, optionally restricted to sources.
func (es *ExamService) Questions(ctx context.Context, sources ...string) ([]questionbank.Question, error) {
	return es.store.ListQuestions(ctx, sources...)
}

func (es *ExamService) Imports(ctx context.Context) ([]store.Import, error) {
	return es.store.ListImports(ctx)
}
