// Package content is the reference content service: it serves item catalogs and performs the
// authoritative answer check the engine's verifier calls first.
package content

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/grading"
)

// CatalogRepository loads catalogs from a cache or backing store.
type CatalogRepository interface {
	GetCatalog(ctx context.Context, quizID string) (domain.Catalog, error)
}

// Service serves catalogs and checks answers against the unredacted content.
type Service struct {
	catalogs        CatalogRepository
	withholdAnswers bool
}

// NewService returns a content service. With withholdAnswers set, catalogs are served without
// canonical answers, so correctness can only be decided by CheckAnswer.
func NewService(catalogs CatalogRepository, withholdAnswers bool) *Service {
	return &Service{catalogs: catalogs, withholdAnswers: withholdAnswers}
}

func (s *Service) Catalog(ctx context.Context, quizID string) (domain.Catalog, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, quizID)
	if err != nil {
		return domain.Catalog{}, err
	}
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("catalog %s: %w", quizID, err)
	}
	if s.withholdAnswers {
		return catalog.Redacted(), nil
	}
	return catalog, nil
}

func (s *Service) CheckAnswer(ctx context.Context, quizID, itemID string, answer domain.Answer) (bool, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, quizID)
	if err != nil {
		return false, err
	}
	for _, item := range catalog.Items {
		if item.ID != itemID {
			continue
		}
		correct, ok := grading.Grade(item, answer)
		if !ok {
			slog.DebugContext(ctx, "content: answer could not be graded", "quiz", quizID, "item", itemID, "kind", answer.Kind)
		}
		return correct, nil
	}
	return false, fmt.Errorf("%w: %s/%s", domain.ErrItemNotFound, quizID, itemID)
}

// Warm loads the given catalogs into the repository cache, a few at a time.
func (s *Service) Warm(ctx context.Context, quizIDs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, quizID := range quizIDs {
		quizID := quizID
		g.Go(func() error {
			if _, err := s.catalogs.GetCatalog(ctx, quizID); err != nil {
				return fmt.Errorf("warm catalog %s: %w", quizID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
