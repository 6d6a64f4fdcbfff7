package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning-quiz-engine/internal/app"
	"learning-quiz-engine/internal/domain"
)

type stubGuard struct {
	claimed map[string]bool
	err     error
}

func (g *stubGuard) Claim(_ context.Context, sessionID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.claimed[sessionID] {
		return false, nil
	}
	g.claimed[sessionID] = true
	return true, nil
}

func TestSubmitter(t *testing.T) {
	summary := domain.Summary{
		QuizID:        "quiz-1",
		SessionID:     "run-1",
		Kind:          domain.KindQuiz,
		Learner:       alice,
		TotalMarks:    4,
		PossibleMarks: 5,
		Attempted:     5,
		CatalogSize:   5,
		TotalSeconds:  42,
	}

	tests := map[string]struct {
		summary     domain.Summary
		resultsErr  error
		guard       *stubGuard
		wantOK      bool
		wantSkipped bool
		wantErr     error
		wantRecords int
	}{
		"submits record": {
			summary:     summary,
			wantOK:      true,
			wantRecords: 1,
		},
		"anonymous learner is refused": {
			summary: func() domain.Summary { s := summary; s.Learner = domain.Learner{}; return s }(),
			wantErr: app.ErrSignInRequired,
		},
		"results failure is reported": {
			summary:    summary,
			resultsErr: errUnavailable,
			wantErr:    errUnavailable,
		},
		"already claimed run is skipped": {
			summary:     summary,
			guard:       &stubGuard{claimed: map[string]bool{"run-1": true}},
			wantSkipped: true,
		},
		"guard outage still submits": {
			summary:     summary,
			guard:       &stubGuard{err: errors.New("redis down")},
			wantOK:      true,
			wantRecords: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			clock := newManualTime()
			results := &stubResults{err: tc.resultsErr}
			var guard app.SubmissionGuard
			if tc.guard != nil {
				guard = tc.guard
			}
			submitter := app.NewSubmitter(results, guard, clock.Now, 0)

			receipt := submitter.Submit(context.Background(), tc.summary)

			assert.Equal(t, tc.wantOK, receipt.OK)
			assert.Equal(t, tc.wantSkipped, receipt.Skipped)
			if tc.wantErr != nil {
				assert.ErrorIs(t, receipt.Err, tc.wantErr)
			} else {
				assert.NoError(t, receipt.Err)
			}
			records := results.Records()
			require.Len(t, records, tc.wantRecords)
			if tc.wantRecords > 0 {
				assert.Equal(t, domain.ResultRecord{
					QuizID:                "quiz-1",
					SessionID:             "run-1",
					Kind:                  domain.KindQuiz,
					LearnerID:             alice.ID,
					LearnerName:           alice.DisplayName,
					LearnerContact:        alice.Contact,
					TotalMarks:            4,
					PossibleMarks:         5,
					ParticipatedQuestions: 5,
					CatalogSize:           5,
					TotalSeconds:          42,
					CompletedAt:           clock.Now(),
				}, records[0])
			}
		})
	}
}

func TestSubmitterWithoutResultsService(t *testing.T) {
	receipt := app.NewSubmitter(nil, nil, nil, 0).Submit(context.Background(), domain.Summary{
		QuizID: "quiz-1", SessionID: "run-1", Learner: alice,
	})
	assert.False(t, receipt.OK)
	assert.Error(t, receipt.Err)
}
