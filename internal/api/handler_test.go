package api_test

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/api"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/service"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/store"
)

const bankJSON = `[
  {"id": "m1", "type": "MCQ", "question_html": "<p>2+2?</p>",
   "options": [{"index": 0, "html": "3"}, {"index": 1, "html": "4"}],
   "answer": "4", "marks": 1, "source_file": "GATE 2024"},
  {"id": "n1", "type": "NAT", "question_html": "<p>Range?</p>",
   "answer": "10 to 20", "marks": 2, "source_file": "GATE 2023"},
  {"id": "bad", "type": "ESSAY", "answer": "x"}
]`

func newServer(t *testing.T) http.Handler {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.DiscardHandler)
	es := service.NewExamService(s, rand.New(rand.NewPCG(1, 1)), logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(es, logger))
	return api.Logging(logger)(api.CORS(mux))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestImportBank(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/banks?origin=gate.json", bankJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed record fails the import")

	rec = do(t, h, http.MethodPost, "/banks?origin=gate.json&quarantine=true", bankJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[api.ImportResponse](t, rec)
	assert.Equal(t, "gate.json", resp.Origin)
	assert.Equal(t, 2, resp.Loaded)
	assert.Empty(t, resp.Unresolved)
	require.Len(t, resp.Rejected, 1)
	assert.Contains(t, resp.Rejected[0], "bad")

	rec = do(t, h, http.MethodGet, "/imports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	imports := decode[[]api.ImportSummaryResponse](t, rec)
	require.Len(t, imports, 1)
	assert.Equal(t, 1, imports[0].Rejected)
}

func TestImportBank_InvalidBody(t *testing.T) {
	rec := do(t, newServer(t), http.MethodPost, "/banks", `{"items": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid bank file")
}

func TestSourcesAndStats(t *testing.T) {
	h := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/banks?quarantine=true", bankJSON).Code)

	sources := decode[[]api.SourceResponse](t, do(t, h, http.MethodGet, "/sources", ""))
	assert.Equal(t, []api.SourceResponse{
		{Source: "GATE 2023", Questions: 1, Marks: 2},
		{Source: "GATE 2024", Questions: 1, Marks: 1},
	}, sources)

	stats := decode[[]api.SourceStatsResponse](t, do(t, h, http.MethodGet, "/stats", ""))
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].Numeric)
	assert.Equal(t, 1, stats[1].MultipleChoice)
}

func TestQuestions(t *testing.T) {
	h := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/banks?quarantine=true", bankJSON).Code)

	qs := decode[[]api.QuestionResponse](t, do(t, h, http.MethodGet, "/questions?source=GATE+2024", ""))
	require.Len(t, qs, 1)
	assert.Equal(t, "m1", qs[0].ID)
	assert.Empty(t, qs[0].CorrectAnswer, "answer keys are hidden by default")
	assert.InDelta(t, 1.0/3, qs[0].Penalty, 1e-9)
	assert.Len(t, qs[0].Options, 2)

	q := decode[api.QuestionResponse](t, do(t, h, http.MethodGet, "/questions/n1?answers=true", ""))
	assert.Equal(t, "10,20", q.CorrectAnswer)
	assert.Equal(t, "NAT", q.Kind)

	rec := do(t, h, http.MethodGet, "/questions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPresetsAndCORS(t *testing.T) {
	h := newServer(t)

	presets := decode[[]api.PresetResponse](t, do(t, h, http.MethodGet, "/presets", ""))
	require.NotEmpty(t, presets)
	assert.Equal(t, "30m", presets[0].Name)
	assert.Equal(t, 1800, presets[0].Seconds)

	rec := do(t, h, http.MethodOptions, "/sources", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
