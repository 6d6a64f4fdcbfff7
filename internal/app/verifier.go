package app

import (
	"context"
	"log/slog"
	"time"

	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/grading"
	"learning-quiz-engine/internal/telemetry"
)

// AnswerChecker is the content service's authoritative check.
type AnswerChecker interface {
	CheckAnswer(ctx context.Context, quizID, itemID string, answer domain.Answer) (bool, error)
}

// Verdict is the correctness decision for one answer and where it came from.
type Verdict struct {
	Correct bool
	Source  string
}

// Verifier asks the remote checker first and falls back to the local equality rules
// when the checker is unreachable. The fallback is a degraded mode, so it is logged and counted.
type Verifier struct {
	checker AnswerChecker
	timeout time.Duration
}

func NewVerifier(checker AnswerChecker, timeout time.Duration) *Verifier {
	return &Verifier{checker: checker, timeout: timeout}
}

// Check never fails: an answer the fallback cannot grade is marked incorrect.
func (v *Verifier) Check(ctx context.Context, quizID string, item domain.Item, answer domain.Answer) Verdict {
	if v.checker != nil {
		rctx := ctx
		if v.timeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, v.timeout)
			defer cancel()
		}
		correct, err := v.checker.CheckAnswer(rctx, quizID, item.ID, answer)
		if err == nil {
			return Verdict{Correct: correct, Source: domain.SourceRemote}
		}
		telemetry.VerifierFallbacks.Inc()
		slog.WarnContext(ctx, "verifier: remote check failed, using local rule",
			"quiz", quizID,
			"item", item.ID,
			"error", err,
		)
	}

	correct, ok := grading.Grade(item, answer)
	if !ok {
		slog.WarnContext(ctx, "verifier: local rule could not grade answer, marking incorrect",
			"quiz", quizID,
			"item", item.ID,
			"type", item.Type,
			"kind", answer.Kind,
		)
		correct = false
	}
	return Verdict{Correct: correct, Source: domain.SourceLocal}
}
