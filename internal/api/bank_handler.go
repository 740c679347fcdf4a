package api

import (
	"errors"
	"net/http"

	practicesession "github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/practice_session"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type ImportResponse struct {
	Origin     string   `json:"origin"`
	Loaded     int      `json:"loaded"`
	Unresolved []string `json:"unresolved"`
	Rejected   []string `json:"rejected"`
}

type ImportSummaryResponse struct {
	ID         string `json:"id"`
	Origin     string `json:"origin"`
	Loaded     int    `json:"loaded"`
	Unresolved int    `json:"unresolved"`
	Rejected   int    `json:"rejected"`
	ImportedAt string `json:"imported_at"`
}

type SourceResponse struct {
	Source    string `json:"source"`
	Questions int    `json:"questions"`
	Marks     int    `json:"marks"`
}

type SourceStatsResponse struct {
	Source         string `json:"source"`
	Total          int    `json:"total"`
	MultipleChoice int    `json:"multiple_choice"`
	Numeric        int    `json:"numeric"`
	Unresolved     int    `json:"unresolved"`
	TotalMarks     int    `json:"total_marks"`
}

type PresetResponse struct {
	Name      string `json:"name"`
	Seconds   int    `json:"seconds"` // -1 when untimed
	Questions int    `json:"questions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// importBank normalizes the bank export in the request body and stores it.
// The origin query parameter names the import; malformed records fail the
// whole import unless quarantine=true.
func (h *Handler) importBank(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	if origin == "" {
		origin = "upload"
	}

	body := http.MaxBytesReader(w, r.Body, maxBankBytes)
	exams := h.exams
	if r.URL.Query().Get("quarantine") == "true" {
		exams = exams.WithNormalizerOptions(questionbank.WithQuarantine())
	}

	report, err := exams.ImportBank(r.Context(), origin, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "bank file too large")
			return
		}
		if errors.Is(err, questionbank.ErrMalformedRecord) || errors.Is(err, questionbank.ErrInvalidBank) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("bank import failed", "origin", origin, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to import bank")
		return
	}

	rejected := make([]string, len(report.Rejected))
	for i, e := range report.Rejected {
		rejected[i] = e.Error()
	}
	unresolved := report.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}

	respondJSON(w, http.StatusCreated, ImportResponse{
		Origin:     origin,
		Loaded:     report.Loaded,
		Unresolved: unresolved,
		Rejected:   rejected,
	})
}

func (h *Handler) listImports(w http.ResponseWriter, r *http.Request) {
	imports, err := h.exams.Imports(r.Context())
	if h.handleStoreError(w, err, "imports") {
		return
	}

	response := make([]ImportSummaryResponse, len(imports))
	for i, imp := range imports {
		response[i] = ImportSummaryResponse{
			ID:         imp.ID,
			Origin:     imp.Origin,
			Loaded:     imp.Loaded,
			Unresolved: imp.Unresolved,
			Rejected:   imp.Rejected,
			ImportedAt: imp.ImportedAt,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) listSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.exams.ListSources(r.Context())
	if h.handleStoreError(w, err, "sources") {
		return
	}

	response := make([]SourceResponse, len(sources))
	for i, s := range sources {
		response[i] = SourceResponse{Source: s.Source, Questions: s.Questions, Marks: s.Marks}
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) bankStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.exams.BankStats(r.Context())
	if h.handleStoreError(w, err, "stats") {
		return
	}

	response := make([]SourceStatsResponse, len(stats))
	for i, s := range stats {
		response[i] = SourceStatsResponse{
			Source:         s.Source,
			Total:          s.Total,
			MultipleChoice: s.MultipleChoice,
			Numeric:        s.Numeric,
			Unresolved:     s.Unresolved,
			TotalMarks:     s.TotalMarks,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) listPresets(w http.ResponseWriter, r *http.Request) {
	response := make([]PresetResponse, len(practicesession.Presets))
	for i, p := range practicesession.Presets {
		response[i] = PresetResponse{Name: p.Name, Seconds: int(p.Budget), Questions: p.Questions}
	}
	respondJSON(w, http.StatusOK, response)
}
