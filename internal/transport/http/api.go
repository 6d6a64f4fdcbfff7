package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"learning-quiz-engine/internal/domain"
)

// ContentAPI is the content service surface exposed over REST.
type ContentAPI interface {
	Catalog(ctx context.Context, quizID string) (domain.Catalog, error)
	CheckAnswer(ctx context.Context, quizID, itemID string, answer domain.Answer) (bool, error)
}

// ResultsAPI is the results service surface exposed over REST.
type ResultsAPI interface {
	SubmitResult(ctx context.Context, record domain.ResultRecord) error
	Get(ctx context.Context, sessionID string) (domain.ResultRecord, error)
	ListByLearner(ctx context.Context, learnerID string) ([]domain.ResultRecord, error)
}

type checkRequest struct {
	Answer domain.Answer `json:"answer"`
}

type checkResponse struct {
	Correct bool `json:"correct"`
}

type contentHandlers struct {
	content ContentAPI
}

func (h contentHandlers) getCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.content.Catalog(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, catalog)
}

func (h contentHandlers) checkAnswer(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answer.IsZero() {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid answer"})
		return
	}
	correct, err := h.content.CheckAnswer(r.Context(), chi.URLParam(r, "quizID"), chi.URLParam(r, "itemID"), req.Answer)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, checkResponse{Correct: correct})
}

type resultsHandlers struct {
	results ResultsAPI
}

func (h resultsHandlers) submit(w http.ResponseWriter, r *http.Request) {
	var record domain.ResultRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid result record"})
		return
	}
	if err := h.results.SubmitResult(r.Context(), record); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"sessionId": record.SessionID})
}

func (h resultsHandlers) get(w http.ResponseWriter, r *http.Request) {
	record, err := h.results.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (h resultsHandlers) listByLearner(w http.ResponseWriter, r *http.Request) {
	records, err := h.results.ListByLearner(r.Context(), chi.URLParam(r, "learnerID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": records})
}

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError maps domain errors to status codes.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCatalogNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidResult):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyCatalog), errors.Is(err, domain.ErrInvalidCatalog):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}
