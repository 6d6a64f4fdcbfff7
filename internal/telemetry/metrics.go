package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quiz_engine"

var (
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Sessions started, by kind.",
	}, []string{"kind"})

	SessionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_failed_total",
		Help:      "Sessions that could not start because the catalog failed to load.",
	})

	SessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_completed_total",
		Help:      "Sessions that reached the completed state, by kind.",
	}, []string{"kind"})

	AnswerChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answer_checks_total",
		Help:      "Verified answers, by correctness and verification source.",
	}, []string{"correct", "source"})

	VerifierFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifier_fallbacks_total",
		Help:      "Remote answer checks that failed and fell back to local rules.",
	})

	ResultSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "result_submissions_total",
		Help:      "Result submissions, by outcome (ok, failed, skipped).",
	}, []string{"outcome"})
)
