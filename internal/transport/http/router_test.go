package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"learning-quiz-engine/internal/domain"
)

func TestRouterContentAPI(t *testing.T) {
	env := newTestEnv(t)

	tests := map[string]struct {
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		"catalog is served without answers": {
			method:     http.MethodGet,
			path:       "/api/catalogs/quiz-1",
			wantStatus: http.StatusOK,
			wantBody:   `"quizId":"quiz-1"`,
		},
		"unknown catalog": {
			method:     http.MethodGet,
			path:       "/api/catalogs/missing",
			wantStatus: http.StatusNotFound,
			wantBody:   `"error"`,
		},
		"correct answer": {
			method:     http.MethodPost,
			path:       "/api/catalogs/quiz-1/items/q2/check",
			body:       `{"answer":{"kind":"order","order":[2,0,1]}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"correct":true}`,
		},
		"wrong answer": {
			method:     http.MethodPost,
			path:       "/api/catalogs/quiz-1/items/q1/check",
			body:       `{"answer":{"kind":"choice","choice":"o1"}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"correct":false}`,
		},
		"unknown item": {
			method:     http.MethodPost,
			path:       "/api/catalogs/quiz-1/items/q9/check",
			body:       `{"answer":{"kind":"choice","choice":"o1"}}`,
			wantStatus: http.StatusNotFound,
		},
		"malformed check": {
			method:     http.MethodPost,
			path:       "/api/catalogs/quiz-1/items/q1/check",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		"health": {
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, env.server.URL+tc.path, strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			defer resp.Body.Close()

			var buf bytes.Buffer
			_, _ = buf.ReadFrom(resp.Body)
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, resp.StatusCode, buf.String())
			}
			if tc.wantBody != "" && !strings.Contains(buf.String(), tc.wantBody) {
				t.Fatalf("expected body to contain %s, got %s", tc.wantBody, buf.String())
			}
			if strings.Contains(buf.String(), `"answer":{"kind"`) {
				t.Fatalf("canonical answers must be withheld: %s", buf.String())
			}
		})
	}
}

func TestRouterResultsAPI(t *testing.T) {
	env := newTestEnv(t)
	record := domain.ResultRecord{
		QuizID:                "quiz-1",
		SessionID:             "run-1",
		Kind:                  domain.KindQuiz,
		LearnerID:             "u1",
		LearnerName:           "Alice",
		TotalMarks:            2,
		PossibleMarks:         2,
		ParticipatedQuestions: 2,
		CatalogSize:           2,
		TotalSeconds:          30,
		CompletedAt:           time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC),
	}
	body, _ := json.Marshal(record)

	resp, err := http.Post(env.server.URL+"/api/results", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, err = http.Get(env.server.URL + "/api/results/run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got domain.ResultRecord
	_ = json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if !got.CompletedAt.Equal(record.CompletedAt) {
		t.Fatalf("expected completion %s, got %s", record.CompletedAt, got.CompletedAt)
	}
	got.CompletedAt = record.CompletedAt
	if got != record {
		t.Fatalf("expected %+v, got %+v", record, got)
	}

	resp, err = http.Get(env.server.URL + "/api/learners/u1/results")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list struct {
		Results []domain.ResultRecord `json:"results"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(list.Results))
	}

	record.LearnerID = ""
	body, _ = json.Marshal(record)
	resp, err = http.Post(env.server.URL+"/api/results", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post invalid: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, err = http.Get(env.server.URL + "/api/results/run-404")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
