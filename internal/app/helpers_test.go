package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"learning-quiz-engine/internal/app"
	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/grading"
)

var errUnavailable = errors.New("service unavailable")

// stubContent serves one catalog and checks answers with the shared grading rules.
type stubContent struct {
	mu         sync.Mutex
	catalog    domain.Catalog
	catalogErr error
	checkErr   error
	checkGate  chan struct{}
	checks     int
}

func (s *stubContent) Catalog(_ context.Context, quizID string) (domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalogErr != nil {
		return domain.Catalog{}, s.catalogErr
	}
	if s.catalog.QuizID != quizID {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	return s.catalog, nil
}

func (s *stubContent) CheckAnswer(ctx context.Context, quizID, itemID string, answer domain.Answer) (bool, error) {
	s.mu.Lock()
	gate := s.checkGate
	s.checks++
	err := s.checkErr
	catalog := s.catalog
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if err != nil {
		return false, err
	}
	if catalog.QuizID != quizID {
		return false, domain.ErrCatalogNotFound
	}
	for _, item := range catalog.Items {
		if item.ID == itemID {
			correct, _ := grading.Grade(item, answer)
			return correct, nil
		}
	}
	return false, domain.ErrItemNotFound
}

func (s *stubContent) Checks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks
}

// stubResults records every submitted record, failing when err is set.
type stubResults struct {
	mu       sync.Mutex
	err      error
	gate     chan struct{}
	attempts int
	records  []domain.ResultRecord
}

func (s *stubResults) SubmitResult(ctx context.Context, record domain.ResultRecord) error {
	s.mu.Lock()
	gate := s.gate
	s.attempts++
	err := s.err
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
	return nil
}

func (s *stubResults) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *stubResults) Records() []domain.ResultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ResultRecord(nil), s.records...)
}

// manualTime is a settable time source.
type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func newManualTime() *manualTime {
	return &manualTime{now: time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)}
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// manualTicker delivers ticks only when the test sends them.
type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time, 1)}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

var alice = domain.Learner{ID: "learner-1", DisplayName: "Alice", Contact: "alice@example.com"}

func choiceCatalog(quizID string, n int) domain.Catalog {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{
			ID:     fmt.Sprintf("q%d", i+1),
			Prompt: fmt.Sprintf("Question %d", i+1),
			Type:   domain.ItemSingleChoice,
			Options: []domain.Option{
				{ID: "a", Text: "A"},
				{ID: "b", Text: "B"},
				{ID: "c", Text: "C"},
			},
			Answer: domain.Choice("b"),
		}
	}
	return domain.Catalog{QuizID: quizID, Title: "Visual styles", Style: domain.StyleVisual, Items: items}
}

type fixture struct {
	content *stubContent
	results *stubResults
	time    *manualTime
	runs    int
}

func newFixture(catalog domain.Catalog) *fixture {
	return &fixture{
		content: &stubContent{catalog: catalog},
		results: &stubResults{},
		time:    newManualTime(),
	}
}

func (f *fixture) session(learner domain.Learner, shuffle bool) *app.Session {
	return app.NewSession(app.SessionConfig{
		ID:             "session-1",
		QuizID:         f.content.catalog.QuizID,
		Learner:        learner,
		Content:        f.content,
		Verifier:       app.NewVerifier(f.content, time.Second),
		Submitter:      app.NewSubmitter(f.results, nil, f.time.Now, time.Second),
		Clock:          app.NewClock(f.time.Now, 0, nil),
		ShuffleOnReset: shuffle,
		NewRunID: func() string {
			f.runs++
			return fmt.Sprintf("run-%d", f.runs)
		},
	})
}

func (f *fixture) loaded(learner domain.Learner) *app.Session {
	s := f.session(learner, false)
	s.Load(context.Background())
	return s
}
