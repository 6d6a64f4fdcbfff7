package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/telemetry"
)

// ErrSignInRequired blocks submission for an anonymous learner.
var ErrSignInRequired = errors.New("must be signed in")

// ResultsService persists result records.
type ResultsService interface {
	SubmitResult(ctx context.Context, record domain.ResultRecord) error
}

// SubmissionGuard claims a session id so a finished run is submitted at most once,
// even across service instances.
type SubmissionGuard interface {
	Claim(ctx context.Context, sessionID string) (bool, error)
}

// Receipt reports what happened to one submission attempt.
type Receipt struct {
	OK      bool
	Skipped bool
	Err     error
	Record  domain.ResultRecord
}

// Submitter packages a session summary into a result record and hands it to the results
// service. It never retries on its own.
type Submitter struct {
	results ResultsService
	guard   SubmissionGuard
	now     func() time.Time
	timeout time.Duration
}

func NewSubmitter(results ResultsService, guard SubmissionGuard, now func() time.Time, timeout time.Duration) *Submitter {
	if now == nil {
		now = time.Now
	}
	return &Submitter{results: results, guard: guard, now: now, timeout: timeout}
}

func (s *Submitter) Submit(ctx context.Context, sum domain.Summary) Receipt {
	if !sum.Learner.Known() {
		return Receipt{Err: ErrSignInRequired}
	}
	record := domain.ResultRecord{
		QuizID:                sum.QuizID,
		SessionID:             sum.SessionID,
		Kind:                  sum.Kind,
		LearnerID:             sum.Learner.ID,
		LearnerName:           sum.Learner.DisplayName,
		LearnerContact:        sum.Learner.Contact,
		TotalMarks:            sum.TotalMarks,
		PossibleMarks:         sum.PossibleMarks,
		ParticipatedQuestions: sum.Attempted,
		CatalogSize:           sum.CatalogSize,
		TotalSeconds:          sum.TotalSeconds,
		CompletedAt:           s.now().UTC(),
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.guard != nil {
		claimed, err := s.guard.Claim(ctx, sum.SessionID)
		switch {
		case err != nil:
			// A guard outage must not cost the learner their result.
			slog.WarnContext(ctx, "submitter: submission guard unavailable", "session", sum.SessionID, "error", err)
		case !claimed:
			telemetry.ResultSubmissions.WithLabelValues("skipped").Inc()
			slog.InfoContext(ctx, "submitter: session already submitted", "session", sum.SessionID)
			return Receipt{Skipped: true, Record: record}
		}
	}

	if s.results == nil {
		return Receipt{Err: errors.New("results service not configured"), Record: record}
	}
	if err := s.results.SubmitResult(ctx, record); err != nil {
		telemetry.ResultSubmissions.WithLabelValues("failed").Inc()
		slog.ErrorContext(ctx, "submitter: submit result failed",
			"session", sum.SessionID,
			"quiz", sum.QuizID,
			"error", err,
		)
		return Receipt{Err: fmt.Errorf("submit result: %w", err), Record: record}
	}
	telemetry.ResultSubmissions.WithLabelValues("ok").Inc()
	return Receipt{OK: true, Record: record}
}
