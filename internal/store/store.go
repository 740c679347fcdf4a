package store

import (
	"context"
	"errors"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store persists the normalized question pool.
type Store interface {
	SaveBank(ctx context.Context, bank *questionbank.QuestionBank, imp Import) error
	LoadBank(ctx context.Context) (*questionbank.QuestionBank, error)
	GetQuestion(ctx context.Context, questionID string) (questionbank.Question, error)
	ListQuestions(ctx context.Context, sources ...string) ([]questionbank.Question, error)
	ListSources(ctx context.Context) ([]SourceSummary, error)
	ListImports(ctx context.Context) ([]Import, error)
	Close() error
}

// Import records one bank file load.
type Import struct {
	ID         string
	Origin     string
	Loaded     int
	Unresolved int
	Rejected   int
	ImportedAt string
}

type SourceSummary struct {
	Source    string
	Questions int
	Marks     int
}
