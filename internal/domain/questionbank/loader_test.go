package questionbank_test

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
)

const bankArray = `[
  {"id": 101, "type": "MCQ", "question_html": "<p>2+2?</p>",
   "options": [{"index": 0, "html": "<p>3</p>"}, {"index": 1, "html": "<p>4</p>"}],
   "answer": "<p>4</p>", "marks": 2, "source_file": "GATE 2024"},
  {"id": "102", "type": "NAT", "question_html": "<p>Range?</p>",
   "answer": "(Type: Range) 1.5 to 2.5", "marks": "1", "source_file": "GATE 2023",
   "question_images": ["./img/102.png"]},
  {"id": "103", "type": "SA", "question_html": "<p>Pi?</p>", "answer": "3.14"}
]`

func TestLoad_Array(t *testing.T) {
	n := questionbank.NewNormalizer(questionbank.WithRand(fixedDraw(0.9)))

	bank, report, err := n.Load(strings.NewReader(bankArray))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Loaded)
	assert.Empty(t, report.Rejected)
	assert.Empty(t, report.Unresolved)

	q, ok := bank.Get("101")
	require.True(t, ok)
	assert.Equal(t, "B", q.CorrectAnswer)
	assert.Equal(t, 2, q.Marks)

	q, ok = bank.Get("102")
	require.True(t, ok)
	assert.Equal(t, questionbank.NumericAnswer, q.Kind)
	assert.Equal(t, "1.5,2.5", q.CorrectAnswer)
	assert.Equal(t, []string{"/img/102.png"}, q.ImagePaths)

	q, ok = bank.Get("103")
	require.True(t, ok)
	assert.Equal(t, 1, q.Marks, "drawn marks")
	assert.Equal(t, questionbank.UnknownSource, q.SourceGroup)

	ids := make([]string, 0, bank.Len())
	for _, q := range bank.Questions {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"101", "102", "103"}, ids, "load order is kept")
}

func TestLoad_WrapperObject(t *testing.T) {
	n := questionbank.NewNormalizer()

	bank, _, err := n.Load(strings.NewReader(`{"questions": ` + bankArray + `}`))
	require.NoError(t, err)
	assert.Equal(t, 3, bank.Len())
}

func TestLoad_DecodeErrors(t *testing.T) {
	tests := map[string]string{
		"empty":            "   ",
		"invalid json":     "[{",
		"no questions key": `{"items": []}`,
		"bad id type":      `[{"id": {"x": 1}, "type": "NAT", "answer": "1"}]`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := questionbank.NewNormalizer().Load(strings.NewReader(input))
			assert.ErrorIs(t, err, questionbank.ErrInvalidBank)
		})
	}
}

const bankWithBadRecords = `[
  {"id": "1", "type": "NAT", "answer": "5", "marks": 1},
  {"id": "2", "type": "ESSAY", "answer": "x"},
  {"id": "3", "type": "MCQ", "options": [], "answer": "x"},
  {"id": "1", "type": "NAT", "answer": "6", "marks": 1},
  {"id": "4", "type": "MCQ", "options": [{"index": 0, "html": "yes"}], "answer": "maybe", "marks": 1}
]`

func TestLoad_FailsFastOnMalformedRecords(t *testing.T) {
	_, _, err := questionbank.NewNormalizer().Load(strings.NewReader(bankWithBadRecords))
	require.Error(t, err)
	assert.ErrorIs(t, err, questionbank.ErrMalformedRecord)
	assert.ErrorIs(t, err, questionbank.ErrDuplicateQuestion)

	for _, id := range []string{"record 2", "record 3", "record 1"} {
		assert.Contains(t, err.Error(), id)
	}
}

func TestLoad_Quarantine(t *testing.T) {
	n := questionbank.NewNormalizer(questionbank.WithQuarantine())

	bank, report, err := n.Load(strings.NewReader(bankWithBadRecords))
	require.NoError(t, err)

	assert.Equal(t, 2, bank.Len())
	assert.Equal(t, 2, report.Loaded)
	assert.Len(t, report.Rejected, 3)
	assert.Equal(t, []string{"4"}, report.Unresolved)

	for _, rerr := range report.Rejected {
		var mre *questionbank.MalformedRecordError
		assert.True(t, errors.As(rerr, &mre), "rejection %v should be a MalformedRecordError", rerr)
	}
}

func TestLoad_StrictLabelsRejectsWholeBank(t *testing.T) {
	n := questionbank.NewNormalizer(questionbank.WithStrictLabels())

	_, _, err := n.Load(strings.NewReader(`[{"id": "4", "type": "MCQ", "options": [{"index": 0, "html": "yes"}], "answer": "maybe"}]`))
	assert.ErrorIs(t, err, questionbank.ErrUnresolvedAnswerLabel)
}

func TestBuild_DeterministicAcrossWorkerCounts(t *testing.T) {
	records := make([]questionbank.RawRecord, 200)
	for i := range records {
		records[i] = mcqRecord("b", "a", "b", "c")
		records[i].ID = questionbank.FlexString(strings.Repeat("x", i+1))
		records[i].Marks = ""
	}

	build := func(workers int) []questionbank.Question {
		n := questionbank.NewNormalizer(
			questionbank.WithRand(rand.New(rand.NewPCG(42, 42))),
			questionbank.WithWorkers(workers),
		)
		bank, _, err := n.Build(records)
		require.NoError(t, err)
		return bank.Questions
	}

	assert.Equal(t, build(1), build(8))
}
