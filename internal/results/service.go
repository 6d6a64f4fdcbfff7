// Package results is the reference results service. It validates finished-session records and
// persists them at most once per session id.
package results

import (
	"context"
	"fmt"
	"log/slog"

	"learning-quiz-engine/internal/domain"
)

// Repository persists result records. Save reports created=false when a record for the same
// session id already exists.
type Repository interface {
	Save(ctx context.Context, record domain.ResultRecord) (created bool, err error)
	Get(ctx context.Context, sessionID string) (domain.ResultRecord, error)
	ListByLearner(ctx context.Context, learnerID string) ([]domain.ResultRecord, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SubmitResult validates and stores a record. Re-submitting a session is accepted and ignored.
func (s *Service) SubmitResult(ctx context.Context, record domain.ResultRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	created, err := s.repo.Save(ctx, record)
	if err != nil {
		return fmt.Errorf("save result %s: %w", record.SessionID, err)
	}
	if !created {
		slog.InfoContext(ctx, "results: duplicate submission ignored", "session", record.SessionID, "quiz", record.QuizID)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (domain.ResultRecord, error) {
	return s.repo.Get(ctx, sessionID)
}

func (s *Service) ListByLearner(ctx context.Context, learnerID string) ([]domain.ResultRecord, error) {
	return s.repo.ListByLearner(ctx, learnerID)
}
