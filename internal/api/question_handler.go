package api

import (
	"net/http"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
)

type OptionResponse struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// QuestionResponse omits the answer key unless the caller asks for it.
type QuestionResponse struct {
	ID               string           `json:"id"`
	Kind             string           `json:"kind"`
	Body             string           `json:"body"`
	Options          []OptionResponse `json:"options,omitempty"`
	Marks            int              `json:"marks"`
	Penalty          float64          `json:"penalty"`
	Source           string           `json:"source"`
	Images           []string         `json:"images,omitempty"`
	CorrectAnswer    string           `json:"correct_answer,omitempty"`
	AnswerUnresolved bool             `json:"answer_unresolved,omitempty"`
}

func toQuestionResponse(q questionbank.Question, withAnswer bool) QuestionResponse {
	resp := QuestionResponse{
		ID:      q.ID,
		Kind:    string(q.Kind),
		Body:    q.Body,
		Marks:   q.Marks,
		Penalty: q.Penalty(),
		Source:  q.SourceGroup,
		Images:  q.ImagePaths,
	}
	for _, opt := range q.Options {
		resp.Options = append(resp.Options, OptionResponse{Label: opt.Label, Content: opt.Content})
	}
	if withAnswer {
		resp.CorrectAnswer = q.CorrectAnswer
		resp.AnswerUnresolved = q.AnswerUnresolved
	}
	return resp
}

// listQuestions returns stored questions, filtered by any number of source
// query parameters. answers=true includes the answer keys.
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	questions, err := h.exams.Questions(r.Context(), query["source"]...)
	if h.handleStoreError(w, err, "questions") {
		return
	}

	withAnswer := query.Get("answers") == "true"
	response := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		response[i] = toQuestionResponse(q, withAnswer)
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.exams.Question(r.Context(), r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(q, r.URL.Query().Get("answers") == "true"))
}
