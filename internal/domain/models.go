package domain

import (
	"fmt"
	"time"
)

// ItemType tags how an item is answered and verified. It never changes after load.
type ItemType string

const (
	ItemSingleChoice ItemType = "single-choice"
	ItemOrdering     ItemType = "ordering"
	ItemMatchPairs   ItemType = "match-pairs"
	ItemFreeAction   ItemType = "free-action"
)

// Style is the learning style a catalog exercises.
type Style string

const (
	StyleVisual      Style = "visual"
	StyleAuditory    Style = "auditory"
	StyleKinesthetic Style = "kinesthetic"
	StyleReadWrite   Style = "read-write"
	StyleSequential  Style = "sequential"
)

// Option represents a selectable choice for single-choice and match-pairs items.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Item is one quiz question or activity step.
type Item struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Type    ItemType `json:"type"`
	Options []Option `json:"options,omitempty"`
	Steps   []string `json:"steps,omitempty"`
	Slots   []string `json:"slots,omitempty"`
	// Answer is the canonical answer. It is empty when the content service withholds it.
	Answer  Answer  `json:"answer"`
	Points  int     `json:"points"` // defaults to 1 if zero
	PauseAt float64 `json:"pauseAt,omitempty"`
}

// MaxMarks returns the marks awarded for a correct answer.
func (i Item) MaxMarks() int {
	if i.Points <= 0 {
		return 1
	}
	return i.Points
}

// Catalog is the ordered sequence of items for one quiz or activity.
type Catalog struct {
	QuizID string `json:"quizId"`
	Title  string `json:"title"`
	Style  Style  `json:"style"`
	Items  []Item `json:"items"`
}

// Validate checks the invariants a session relies on.
func (c Catalog) Validate() error {
	if len(c.Items) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.ID == "" {
			return fmt.Errorf("%w: item without id", ErrInvalidCatalog)
		}
		if _, ok := seen[item.ID]; ok {
			return fmt.Errorf("%w: duplicate item %s", ErrInvalidCatalog, item.ID)
		}
		seen[item.ID] = struct{}{}
		switch item.Type {
		case ItemSingleChoice, ItemOrdering, ItemMatchPairs, ItemFreeAction:
		default:
			return fmt.Errorf("%w: item %s has unknown type %q", ErrInvalidCatalog, item.ID, item.Type)
		}
	}
	return nil
}

// Redacted returns a copy of the catalog with canonical answers removed.
func (c Catalog) Redacted() Catalog {
	out := c
	out.Items = make([]Item, len(c.Items))
	for i, item := range c.Items {
		out.Items[i] = item.Redacted()
	}
	return out
}

// Redacted returns the item without its canonical answer.
func (i Item) Redacted() Item {
	i.Answer = Answer{}
	return i
}

// PossibleMarks sums the marks available across the catalog.
func (c Catalog) PossibleMarks() int {
	total := 0
	for _, item := range c.Items {
		total += item.MaxMarks()
	}
	return total
}

// Verification sources recorded on an Outcome.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// Outcome is the verified result of one answer against one item.
type Outcome struct {
	Index     int    `json:"index"`
	ItemID    string `json:"itemId"`
	Correct   bool   `json:"correct"`
	Marks     int    `json:"marks"`
	Seconds   int    `json:"seconds"`
	Answer    Answer `json:"answer"`
	Canonical Answer `json:"canonical"`
	Source    string `json:"source"`
}

// Learner identifies who is taking a session.
type Learner struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Contact     string `json:"contact,omitempty"`
}

// Known reports whether the learner carries an identity usable for results.
func (l Learner) Known() bool {
	return l.ID != ""
}

// Result kinds.
const (
	KindQuiz     = "quiz"
	KindActivity = "activity"
)

// Summary is what a finished session hands to the result submitter.
type Summary struct {
	QuizID        string
	SessionID     string
	Kind          string
	Learner       Learner
	TotalMarks    int
	PossibleMarks int
	Attempted     int
	CatalogSize   int
	TotalSeconds  int
}

// ResultRecord is the persisted view of a completed session.
type ResultRecord struct {
	QuizID                string    `json:"quizId"`
	SessionID             string    `json:"sessionId"`
	Kind                  string    `json:"kind"`
	LearnerID             string    `json:"learnerId"`
	LearnerName           string    `json:"learnerName"`
	LearnerContact        string    `json:"learnerContact,omitempty"`
	TotalMarks            int       `json:"totalMarks"`
	PossibleMarks         int       `json:"possibleMarks"`
	ParticipatedQuestions int       `json:"participatedQuestions"`
	CatalogSize           int       `json:"catalogSize"`
	TotalSeconds          int       `json:"totalSeconds"`
	CompletedAt           time.Time `json:"completedAt"`
}

// Validate checks that a record is well formed before it is persisted.
func (r ResultRecord) Validate() error {
	switch {
	case r.QuizID == "":
		return fmt.Errorf("%w: missing quiz id", ErrInvalidResult)
	case r.SessionID == "":
		return fmt.Errorf("%w: missing session id", ErrInvalidResult)
	case r.LearnerID == "":
		return fmt.Errorf("%w: missing learner id", ErrInvalidResult)
	case r.TotalMarks < 0 || r.TotalSeconds < 0:
		return fmt.Errorf("%w: negative totals", ErrInvalidResult)
	case r.CatalogSize > 0 && r.ParticipatedQuestions > r.CatalogSize:
		return fmt.Errorf("%w: %d attempted of %d items", ErrInvalidResult, r.ParticipatedQuestions, r.CatalogSize)
	}
	return nil
}
