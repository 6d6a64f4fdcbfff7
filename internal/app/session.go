package app

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/telemetry"
)

// Status is the lifecycle state of a quiz session.
type Status string

const (
	StatusLoading    Status = "loading"
	StatusPresenting Status = "presenting"
	StatusChecking   Status = "checking"
	StatusReviewed   Status = "reviewed"
	StatusSubmitting Status = "submitting"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal reports whether no further progress is possible without a reset.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Notices surfaced to the learner.
const (
	NoticeLoadFailed      = "quiz could not be loaded"
	NoticeResultsNotSaved = "results not saved"
	NoticeSignInRequired  = "must be signed in"
)

// CatalogSource supplies the ordered items of a quiz.
type CatalogSource interface {
	Catalog(ctx context.Context, quizID string) (domain.Catalog, error)
}

// View is the snapshot the presentation layer renders.
type View struct {
	SessionID      string          `json:"sessionId"`
	RunID          string          `json:"runId,omitempty"`
	QuizID         string          `json:"quizId"`
	Title          string          `json:"title,omitempty"`
	Status         Status          `json:"status"`
	Index          int             `json:"index"`
	Total          int             `json:"total"`
	Revisit        bool            `json:"revisit"`
	Item           *domain.Item    `json:"item,omitempty"`
	Answer         *domain.Answer  `json:"answer,omitempty"`
	AnswerComplete bool            `json:"answerComplete"`
	ElapsedItem    int             `json:"elapsedItem"`
	ElapsedTotal   int             `json:"elapsedTotal"`
	Score          int             `json:"score"`
	LastOutcome    *domain.Outcome `json:"lastOutcome,omitempty"`
	Final          *FinalScore     `json:"final,omitempty"`
	Submitted      bool            `json:"submitted"`
	Notice         string          `json:"notice,omitempty"`
}

// SessionConfig wires a session to its collaborators. Only QuizID and Content are required.
type SessionConfig struct {
	ID             string
	QuizID         string
	Learner        domain.Learner
	Content        CatalogSource
	Verifier       *Verifier
	Submitter      *Submitter
	Clock          *Clock
	ShuffleOnReset bool
	Rand           *rand.Rand
	NewRunID       func() string
}

// Session is the state machine driving one learner through a catalog:
// loading → presenting(i) → checking(i) → reviewed(i) → presenting(i+1) | submitting → completed.
//
// Every action is applied under one lock, one at a time. Calls to the content and results
// services happen outside the lock and carry the generation they were issued in; a response
// whose generation no longer matches (the session was reset meanwhile) is discarded.
// Actions report whether they were accepted; a rejected action changes nothing.
type Session struct {
	id        string
	quizID    string
	content   CatalogSource
	verifier  *Verifier
	submitter *Submitter
	clock     *Clock
	shuffle   bool
	rnd       *rand.Rand
	newRunID  func() string
	updates   *broadcaster[View]

	mu              sync.Mutex
	gen             uint64
	runID           string
	learner         domain.Learner
	status          Status
	loading         bool
	catalog         domain.Catalog
	index           int
	frontier        int
	answers         *AnswerStore
	scorer          *Scorer
	lastOutcome     *domain.Outcome
	final           *FinalScore
	receipt         *Receipt
	submitAttempted bool
	notice          string
}

func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		id:        cfg.ID,
		quizID:    cfg.QuizID,
		content:   cfg.Content,
		verifier:  cfg.Verifier,
		submitter: cfg.Submitter,
		clock:     cfg.Clock,
		shuffle:   cfg.ShuffleOnReset,
		rnd:       cfg.Rand,
		newRunID:  cfg.NewRunID,
		updates:   newBroadcaster[View](),
		learner:   cfg.Learner,
		status:    StatusLoading,
		scorer:    NewScorer(),
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.verifier == nil {
		s.verifier = NewVerifier(nil, 0)
	}
	if s.submitter == nil {
		s.submitter = NewSubmitter(nil, nil, nil, 0)
	}
	if s.clock == nil {
		s.clock = NewClock(time.Now, 0, nil)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.newRunID == nil {
		s.newRunID = newRunID
	}
	s.answers = NewAnswerStore(func() domain.Catalog { return s.catalog }, s.invalidateLocked)
	s.clock.OnTick(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.publishLocked()
	})
	return s
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Session) ID() string     { return s.id }
func (s *Session) QuizID() string { return s.quizID }

// Load fetches the catalog and moves loading → presenting(0). A failed or empty catalog is
// terminal for the session: it moves to failed and is never retried automatically.
func (s *Session) Load(ctx context.Context) bool {
	s.mu.Lock()
	if s.status != StatusLoading || s.loading {
		s.mu.Unlock()
		return false
	}
	s.loading = true
	gen := s.gen
	s.mu.Unlock()

	var (
		catalog domain.Catalog
		err     error
	)
	if s.content == nil {
		err = domain.ErrCatalogNotFound
	} else {
		catalog, err = s.content.Catalog(ctx, s.quizID)
	}
	if err == nil {
		err = catalog.Validate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.loading = false
	if err != nil {
		s.status = StatusFailed
		s.notice = NoticeLoadFailed
		telemetry.SessionsFailed.Inc()
		slog.ErrorContext(ctx, "session: load catalog failed", "session", s.id, "quiz", s.quizID, "error", err)
		s.publishLocked()
		return false
	}
	s.catalog = catalog
	s.presentFirstLocked()
	return true
}

func (s *Session) presentFirstLocked() {
	s.runID = s.newRunID()
	s.index = 0
	s.frontier = 0
	s.status = StatusPresenting
	s.clock.Reset()
	s.clock.Start()
	telemetry.SessionsStarted.WithLabelValues(domain.KindQuiz).Inc()
	s.publishLocked()
}

// Answer stores value for the current item. Editing an already reviewed frontier item clears
// its outcome and returns it to presenting, so it can be checked again. Items revisited through
// Previous are read-only, and an answer of the wrong kind for the item is refused.
func (s *Session) Answer(value domain.Answer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPresenting && s.status != StatusReviewed {
		return false
	}
	if s.index < s.frontier {
		return false
	}
	if value.Kind != domain.KindFor(s.catalog.Items[s.index].Type) {
		return false
	}
	s.answers.Set(s.index, value)
	if s.status == StatusReviewed {
		s.status = StatusPresenting
		s.clock.ResumeItem()
	}
	s.publishLocked()
	return true
}

// invalidateLocked is the answer store hook; the caller holds s.mu.
func (s *Session) invalidateLocked(index int) {
	s.scorer.Clear(index)
	if s.lastOutcome != nil && s.lastOutcome.Index == index {
		s.lastOutcome = nil
	}
}

// Check verifies the current answer. It is refused unless the session is presenting the
// frontier item with a complete answer; a second check while one is outstanding is refused too.
func (s *Session) Check(ctx context.Context) (domain.Outcome, bool) {
	s.mu.Lock()
	if s.status != StatusPresenting || s.index < s.frontier || !s.answers.IsComplete(s.index) {
		s.mu.Unlock()
		return domain.Outcome{}, false
	}
	s.status = StatusChecking
	gen, index := s.gen, s.index
	item := s.catalog.Items[index]
	answer, _ := s.answers.Get(index)
	s.publishLocked()
	s.mu.Unlock()

	verdict := s.verifier.Check(context.WithoutCancel(ctx), s.quizID, item, answer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.status != StatusChecking || s.index != index {
		slog.DebugContext(ctx, "session: discarding stale check", "session", s.id, "item", item.ID)
		return domain.Outcome{}, false
	}
	s.clock.PauseItem()
	outcome := domain.Outcome{
		Index:     index,
		ItemID:    item.ID,
		Correct:   verdict.Correct,
		Seconds:   s.clock.ElapsedItem(),
		Answer:    answer,
		Canonical: item.Answer.Clone(),
		Source:    verdict.Source,
	}
	if verdict.Correct {
		outcome.Marks = item.MaxMarks()
	}
	s.scorer.Record(index, outcome)
	s.lastOutcome = &outcome
	s.status = StatusReviewed
	telemetry.AnswerChecks.WithLabelValues(strconv.FormatBool(outcome.Correct), outcome.Source).Inc()
	s.publishLocked()
	return outcome, true
}

// Next advances past a reviewed item, walks forward through revisited items, or, on the last
// reviewed item, finishes the session and submits its result exactly once.
func (s *Session) Next(ctx context.Context) bool {
	s.mu.Lock()
	switch {
	case s.status == StatusPresenting && s.index < s.frontier:
		s.index++
		s.enterIndexLocked()
		s.publishLocked()
		s.mu.Unlock()
		return true

	case s.status == StatusReviewed && s.index == s.frontier && s.index+1 < len(s.catalog.Items):
		s.index++
		s.frontier = s.index
		s.status = StatusPresenting
		s.lastOutcome = nil
		s.clock.ResetItem()
		s.publishLocked()
		s.mu.Unlock()
		return true

	case s.status == StatusReviewed && s.index == s.frontier:
		if !s.learner.Known() {
			s.notice = NoticeSignInRequired
			s.publishLocked()
			s.mu.Unlock()
			return false
		}
		if s.submitAttempted {
			s.mu.Unlock()
			return false
		}
		gen, sum := s.beginSubmitLocked()
		s.mu.Unlock()
		return s.finishSubmit(ctx, gen, sum)
	}
	s.mu.Unlock()
	return false
}

// enterIndexLocked restores the state of s.index after walking forward through revisited items.
func (s *Session) enterIndexLocked() {
	s.status = StatusPresenting
	s.lastOutcome = nil
	if o, ok := s.scorer.Outcome(s.index); ok {
		s.lastOutcome = &o
		if s.index == s.frontier {
			s.status = StatusReviewed
		}
		return
	}
	if s.index == s.frontier {
		s.clock.ResumeItem()
	}
}

func (s *Session) beginSubmitLocked() (uint64, domain.Summary) {
	s.status = StatusSubmitting
	s.submitAttempted = true
	s.notice = ""
	final := s.scorer.Final(s.catalog)
	s.final = &final
	s.clock.Stop()
	sum := domain.Summary{
		QuizID:        s.quizID,
		SessionID:     s.runID,
		Kind:          domain.KindQuiz,
		Learner:       s.learner,
		TotalMarks:    final.Total,
		PossibleMarks: final.Possible,
		Attempted:     final.Attempted,
		CatalogSize:   final.CatalogSize,
		TotalSeconds:  s.clock.ElapsedTotal(),
	}
	s.publishLocked()
	return s.gen, sum
}

// finishSubmit completes the session whatever the results service says: a failed submission
// only adds a notice, the score is always shown.
func (s *Session) finishSubmit(ctx context.Context, gen uint64, sum domain.Summary) bool {
	receipt := s.submitter.Submit(context.WithoutCancel(ctx), sum)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.receipt = &receipt
	s.status = StatusCompleted
	if !receipt.OK && !receipt.Skipped {
		s.notice = NoticeResultsNotSaved
	}
	telemetry.SessionsCompleted.WithLabelValues(domain.KindQuiz).Inc()
	s.publishLocked()
	return true
}

// Previous shows an earlier item read-only. Its outcome stays as recorded.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if (s.status != StatusPresenting && s.status != StatusReviewed) || s.index == 0 {
		return false
	}
	if s.index == s.frontier && s.status == StatusPresenting {
		s.clock.PauseItem()
	}
	s.index--
	s.status = StatusPresenting
	s.lastOutcome = nil
	if o, ok := s.scorer.Outcome(s.index); ok {
		s.lastOutcome = &o
	}
	s.publishLocked()
	return true
}

// Identify attaches the learner identity used to stamp the result record.
func (s *Session) Identify(learner domain.Learner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learner = learner
	if s.notice == NoticeSignInRequired && learner.Known() {
		s.notice = ""
	}
	s.publishLocked()
}

// Reset starts a new run: answers, outcomes and the clock are cleared, in-flight responses
// become stale. The loaded catalog is reused (reshuffled if configured); a session that never
// loaded stays in loading until Load is called again.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.clock.Reset()
	s.answers.Reset()
	s.scorer.Reset()
	s.status = StatusLoading
	s.loading = false
	s.lastOutcome = nil
	s.final = nil
	s.receipt = nil
	s.submitAttempted = false
	s.notice = ""
	s.runID = ""
	s.index = 0
	s.frontier = 0

	if len(s.catalog.Items) == 0 {
		s.publishLocked()
		return
	}
	if s.shuffle {
		items := append([]domain.Item(nil), s.catalog.Items...)
		s.rnd.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		s.catalog.Items = items
	}
	s.presentFirstLocked()
}

// Close stops the clock, invalidates in-flight work and ends all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.clock.Reset()
	s.updates.close()
}

// Subscribe returns a channel of snapshots, primed with the current one.
// The caller must invoke the returned cancel function.
func (s *Session) Subscribe() (<-chan View, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates.subscribe(s.viewLocked())
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Outcomes returns the recorded outcomes ordered by item index.
func (s *Session) Outcomes() []domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scorer.Outcomes()
}

// Receipt returns the submission receipt once the session has completed.
func (s *Session) Receipt() (Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receipt == nil {
		return Receipt{}, false
	}
	return *s.receipt, true
}

func (s *Session) publishLocked() {
	s.updates.publish(s.viewLocked())
}

func (s *Session) viewLocked() View {
	v := View{
		SessionID:    s.id,
		RunID:        s.runID,
		QuizID:       s.quizID,
		Title:        s.catalog.Title,
		Status:       s.status,
		Index:        s.index,
		Total:        len(s.catalog.Items),
		Revisit:      s.index < s.frontier,
		ElapsedItem:  s.clock.ElapsedItem(),
		ElapsedTotal: s.clock.ElapsedTotal(),
		Score:        s.scorer.RunningTotal(),
		Notice:       s.notice,
	}
	if s.index < len(s.catalog.Items) && s.status != StatusLoading && s.status != StatusFailed {
		item := s.catalog.Items[s.index].Redacted()
		v.Item = &item
		if a, ok := s.answers.Get(s.index); ok {
			v.Answer = &a
			v.AnswerComplete = s.answers.IsComplete(s.index)
		}
	}
	if s.lastOutcome != nil {
		o := *s.lastOutcome
		v.LastOutcome = &o
	}
	if s.final != nil {
		f := *s.final
		v.Final = &f
	}
	if s.receipt != nil {
		v.Submitted = s.receipt.OK || s.receipt.Skipped
	}
	return v
}
