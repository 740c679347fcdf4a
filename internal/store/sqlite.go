// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
)

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS imports (
    id TEXT PRIMARY KEY,
    origin TEXT NOT NULL,
    loaded INTEGER NOT NULL,
    unresolved INTEGER NOT NULL,
    rejected INTEGER NOT NULL,
    imported_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    import_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    kind TEXT NOT NULL,
    body TEXT NOT NULL,
    options TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    marks INTEGER NOT NULL,
    source_group TEXT NOT NULL,
    image_paths TEXT NOT NULL,
    answer_unresolved INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (import_id) REFERENCES imports(id)
);

CREATE INDEX IF NOT EXISTS idx_questions_source ON questions(source_group);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps PRAGMA foreign_keys in effect for every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// ============================================================================
// Questions
// ============================================================================

// SaveBank records the import and upserts every question of the bank. A
// question id seen in an earlier import is overwritten.
func (s *SQLiteStore) SaveBank(ctx context.Context, bank *questionbank.QuestionBank, imp Import) error {
	if imp.ID == "" {
		imp.ID = bank.ID
	}
	if imp.ImportedAt == "" {
		imp.ImportedAt = now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO imports (id, origin, loaded, unresolved, rejected, imported_at) VALUES (?, ?, ?, ?, ?, ?)",
		imp.ID, imp.Origin, imp.Loaded, imp.Unresolved, imp.Rejected, imp.ImportedAt,
	)
	if err != nil {
		return fmt.Errorf("save import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (id, import_id, position, kind, body, options, correct_answer, marks, source_group, image_paths, answer_unresolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			import_id = excluded.import_id,
			position = excluded.position,
			kind = excluded.kind,
			body = excluded.body,
			options = excluded.options,
			correct_answer = excluded.correct_answer,
			marks = excluded.marks,
			source_group = excluded.source_group,
			image_paths = excluded.image_paths,
			answer_unresolved = excluded.answer_unresolved
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, q := range bank.Questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return err
		}
		imagesJSON, err := json.Marshal(q.ImagePaths)
		if err != nil {
			return err
		}

		if _, err := stmt.ExecContext(ctx,
			q.ID, imp.ID, i, string(q.Kind), q.Body, string(optionsJSON), q.CorrectAnswer,
			q.Marks, q.SourceGroup, string(imagesJSON), q.AnswerUnresolved,
		); err != nil {
			return fmt.Errorf("save question %s: %w", q.ID, err)
		}
	}

	return tx.Commit()
}

const questionColumns = "q.id, q.kind, q.body, q.options, q.correct_answer, q.marks, q.source_group, q.image_paths, q.answer_unresolved"

func (s *SQLiteStore) GetQuestion(ctx context.Context, questionID string) (questionbank.Question, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+questionColumns+" FROM questions q WHERE q.id = ?", questionID)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return questionbank.Question{}, ErrNotFound
	}
	return q, err
}

// ListQuestions returns stored questions in import order, restricted to the
// given source groups when any are named.
func (s *SQLiteStore) ListQuestions(ctx context.Context, sources ...string) ([]questionbank.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions q JOIN imports i ON i.id = q.import_id"
	args := make([]any, 0, len(sources))
	if len(sources) > 0 {
		query += " WHERE q.source_group IN (?" + strings.Repeat(", ?", len(sources)-1) + ")"
		for _, src := range sources {
			args = append(args, src)
		}
	}
	query += " ORDER BY i.imported_at, i.rowid, q.position"

	return s.queryQuestions(ctx, query, args...)
}

// LoadBank rebuilds the full question pool.
func (s *SQLiteStore) LoadBank(ctx context.Context) (*questionbank.QuestionBank, error) {
	questions, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return questionbank.NewFrom(questions)
}

func (s *SQLiteStore) queryQuestions(ctx context.Context, query string, args ...any) ([]questionbank.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []questionbank.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (questionbank.Question, error) {
	var q questionbank.Question
	var kind, optionsJSON, imagesJSON string
	if err := row.Scan(
		&q.ID, &kind, &q.Body, &optionsJSON, &q.CorrectAnswer,
		&q.Marks, &q.SourceGroup, &imagesJSON, &q.AnswerUnresolved,
	); err != nil {
		return questionbank.Question{}, err
	}
	if err := decodeQuestionColumns(&q, kind, optionsJSON, imagesJSON); err != nil {
		return questionbank.Question{}, err
	}
	return q, nil
}

func decodeQuestionColumns(q *questionbank.Question, kind, optionsJSON, imagesJSON string) error {
	q.Kind = questionbank.Kind(kind)
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return fmt.Errorf("question %s options: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(imagesJSON), &q.ImagePaths); err != nil {
		return fmt.Errorf("question %s images: %w", q.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListSources(ctx context.Context) ([]SourceSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source_group, COUNT(*), COALESCE(SUM(marks), 0) FROM questions GROUP BY source_group ORDER BY source_group",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []SourceSummary
	for rows.Next() {
		var ss SourceSummary
		if err := rows.Scan(&ss.Source, &ss.Questions, &ss.Marks); err != nil {
			return nil, err
		}
		sources = append(sources, ss)
	}
	return sources, rows.Err()
}

func (s *SQLiteStore) ListImports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, origin, loaded, unresolved, rejected, imported_at FROM imports ORDER BY imported_at, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Origin, &imp.Loaded, &imp.Unresolved, &imp.Rejected, &imp.ImportedAt); err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}
