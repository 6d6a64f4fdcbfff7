package app

import (
	"context"
	"math/rand"
	"time"

	"learning-quiz-engine/internal/domain"
)

// SessionRepository abstracts how live quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// ActivityRepository stores live sequential activities.
type ActivityRepository interface {
	PutActivity(activity *Activity)
	GetActivity(id string) (*Activity, bool)
	DeleteActivity(id string)
}

// ContentService is what the engine needs from the content side: the catalog and the
// authoritative answer check.
type ContentService interface {
	CatalogSource
	AnswerChecker
}

// Options tunes session behaviour. Zero values fall back to sensible defaults.
type Options struct {
	Tick           time.Duration
	ShuffleOnReset bool
	LoadTimeout    time.Duration
	CheckTimeout   time.Duration
	SubmitTimeout  time.Duration
	Now            func() time.Time
	NewTicker      func(time.Duration) Ticker
}

// QuizService contains the session use cases.
type QuizService struct {
	sessions   SessionRepository
	activities ActivityRepository
	content    ContentService
	verifier   *Verifier
	submitter  *Submitter
	opts       Options
}

func NewQuizService(sessions SessionRepository, activities ActivityRepository, content ContentService, results ResultsService, guard SubmissionGuard, opts Options) *QuizService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 10 * time.Second
	}
	var checker AnswerChecker
	if content != nil {
		checker = content
	}
	return &QuizService{
		sessions:   sessions,
		activities: activities,
		content:    content,
		verifier:   NewVerifier(checker, opts.CheckTimeout),
		submitter:  NewSubmitter(results, guard, opts.Now, opts.SubmitTimeout),
		opts:       opts,
	}
}

// Start creates a session for quizID and loads its catalog. The session is returned even when
// the load fails; it is then in the failed state with a notice for the learner.
func (s *QuizService) Start(ctx context.Context, quizID string, learner domain.Learner) *Session {
	var source CatalogSource
	if s.content != nil {
		source = s.content
	}
	session := NewSession(SessionConfig{
		QuizID:         quizID,
		Learner:        learner,
		Content:        source,
		Verifier:       s.verifier,
		Submitter:      s.submitter,
		Clock:          NewClock(s.opts.Now, s.opts.Tick, s.opts.NewTicker),
		ShuffleOnReset: s.opts.ShuffleOnReset,
		Rand:           rand.New(rand.NewSource(s.opts.Now().UnixNano())),
	})
	s.sessions.Put(session)

	lctx, cancel := context.WithTimeout(ctx, s.opts.LoadTimeout)
	defer cancel()
	session.Load(lctx)
	return session
}

// Reload retries loading a session that is back in the loading state, typically after a
// failed load was reset. It reports whether the load was accepted and succeeded.
func (s *QuizService) Reload(ctx context.Context, id string) (bool, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	lctx, cancel := context.WithTimeout(ctx, s.opts.LoadTimeout)
	defer cancel()
	return session.Load(lctx), nil
}

// StartActivity creates a sequential activity in its intro state.
func (s *QuizService) StartActivity(_ context.Context, activityID string, learner domain.Learner) *Activity {
	activity := NewActivity(ActivityConfig{
		ActivityID: activityID,
		Learner:    learner,
		Submitter:  s.submitter,
		Clock:      NewClock(s.opts.Now, s.opts.Tick, s.opts.NewTicker),
	})
	s.activities.PutActivity(activity)
	return activity
}

func (s *QuizService) Session(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *QuizService) Activity(id string) (*Activity, error) {
	activity, ok := s.activities.GetActivity(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return activity, nil
}

// End stops the session's clock, discards in-flight responses and drops it from the store.
func (s *QuizService) End(id string) {
	if session, ok := s.sessions.Get(id); ok {
		session.Close()
		s.sessions.Delete(id)
	}
}

func (s *QuizService) EndActivity(id string) {
	if activity, ok := s.activities.GetActivity(id); ok {
		activity.Close()
		s.activities.DeleteActivity(id)
	}
}
