package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/telemetry"
)

// ActivityStatus is the lifecycle state of a sequential, non-scored activity.
type ActivityStatus string

const (
	ActivityIntro      ActivityStatus = "intro"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityComplete   ActivityStatus = "complete"
)

// ActivityView is the snapshot the presentation layer renders for an activity.
type ActivityView struct {
	SessionID    string         `json:"sessionId"`
	RunID        string         `json:"runId,omitempty"`
	ActivityID   string         `json:"activityId"`
	Status       ActivityStatus `json:"status"`
	ElapsedTotal int            `json:"elapsedTotal"`
	Submitted    bool           `json:"submitted"`
	Pending      bool           `json:"pending"`
	Notice       string         `json:"notice,omitempty"`
}

// ActivityConfig wires an activity to its collaborators.
type ActivityConfig struct {
	ID         string
	ActivityID string
	Learner    domain.Learner
	Submitter  *Submitter
	Clock      *Clock
	NewRunID   func() string
}

// Activity is the collapsed session shape: intro → in_progress → complete. There is a single
// step and no verification; the activity itself signals completion.
type Activity struct {
	id         string
	activityID string
	submitter  *Submitter
	clock      *Clock
	newRunID   func() string
	updates    *broadcaster[ActivityView]

	mu      sync.Mutex
	gen     uint64
	runID   string
	learner domain.Learner
	status  ActivityStatus
	pending bool
	receipt *Receipt
	notice  string
}

func NewActivity(cfg ActivityConfig) *Activity {
	a := &Activity{
		id:         cfg.ID,
		activityID: cfg.ActivityID,
		submitter:  cfg.Submitter,
		clock:      cfg.Clock,
		newRunID:   cfg.NewRunID,
		updates:    newBroadcaster[ActivityView](),
		learner:    cfg.Learner,
		status:     ActivityIntro,
	}
	if a.id == "" {
		a.id = uuid.NewString()
	}
	if a.submitter == nil {
		a.submitter = NewSubmitter(nil, nil, nil, 0)
	}
	if a.clock == nil {
		a.clock = NewClock(time.Now, 0, nil)
	}
	if a.newRunID == nil {
		a.newRunID = newRunID
	}
	a.clock.OnTick(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.publishLocked()
	})
	return a
}

func (a *Activity) ID() string { return a.id }

// Begin leaves the intro and starts the clock.
func (a *Activity) Begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != ActivityIntro {
		return false
	}
	a.runID = a.newRunID()
	a.status = ActivityInProgress
	a.clock.Reset()
	a.clock.Start()
	telemetry.SessionsStarted.WithLabelValues(domain.KindActivity).Inc()
	a.publishLocked()
	return true
}

// Complete is the activity's explicit completion signal. It stops the clock and submits a
// non-scored result once; a failed submission still completes, with a notice.
func (a *Activity) Complete(ctx context.Context) bool {
	a.mu.Lock()
	if a.status != ActivityInProgress {
		a.mu.Unlock()
		return false
	}
	if !a.learner.Known() {
		a.notice = NoticeSignInRequired
		a.publishLocked()
		a.mu.Unlock()
		return false
	}
	a.clock.Stop()
	a.status = ActivityComplete
	a.pending = true
	a.notice = ""
	gen := a.gen
	sum := domain.Summary{
		QuizID:       a.activityID,
		SessionID:    a.runID,
		Kind:         domain.KindActivity,
		Learner:      a.learner,
		Attempted:    1,
		CatalogSize:  1,
		TotalSeconds: a.clock.ElapsedTotal(),
	}
	a.publishLocked()
	a.mu.Unlock()

	receipt := a.submitter.Submit(context.WithoutCancel(ctx), sum)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		slog.DebugContext(ctx, "activity: discarding stale submission", "session", a.id)
		return false
	}
	a.pending = false
	a.receipt = &receipt
	if !receipt.OK && !receipt.Skipped {
		a.notice = NoticeResultsNotSaved
	}
	telemetry.SessionsCompleted.WithLabelValues(domain.KindActivity).Inc()
	a.publishLocked()
	return true
}

// Identify attaches the learner identity used to stamp the result record.
func (a *Activity) Identify(learner domain.Learner) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.learner = learner
	if a.notice == NoticeSignInRequired && learner.Known() {
		a.notice = ""
	}
	a.publishLocked()
}

// Reset returns to the intro; an in-flight submission becomes stale.
func (a *Activity) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.clock.Reset()
	a.status = ActivityIntro
	a.runID = ""
	a.pending = false
	a.receipt = nil
	a.notice = ""
	a.publishLocked()
}

func (a *Activity) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.clock.Reset()
	a.updates.close()
}

func (a *Activity) Subscribe() (<-chan ActivityView, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updates.subscribe(a.viewLocked())
}

func (a *Activity) View() ActivityView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked()
}

// Receipt returns the submission receipt once the activity has completed.
func (a *Activity) Receipt() (Receipt, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.receipt == nil {
		return Receipt{}, false
	}
	return *a.receipt, true
}

func (a *Activity) publishLocked() {
	a.updates.publish(a.viewLocked())
}

func (a *Activity) viewLocked() ActivityView {
	v := ActivityView{
		SessionID:    a.id,
		RunID:        a.runID,
		ActivityID:   a.activityID,
		Status:       a.status,
		ElapsedTotal: a.clock.ElapsedTotal(),
		Pending:      a.pending,
		Notice:       a.notice,
	}
	if a.receipt != nil {
		v.Submitted = a.receipt.OK || a.receipt.Skipped
	}
	return v
}
