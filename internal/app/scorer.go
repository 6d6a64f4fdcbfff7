package app

import (
	"sort"

	"learning-quiz-engine/internal/domain"
)

// FinalScore is the aggregate handed to result submission once a session is finished.
type FinalScore struct {
	Total       int `json:"total"`
	Possible    int `json:"possible"`
	Attempted   int `json:"attempted"`
	CatalogSize int `json:"catalogSize"`
}

// Scorer keeps at most one Outcome per item index.
type Scorer struct {
	outcomes map[int]domain.Outcome
}

func NewScorer() *Scorer {
	return &Scorer{outcomes: make(map[int]domain.Outcome)}
}

// Record upserts the outcome for index; re-recording replaces, it never adds.
func (s *Scorer) Record(index int, outcome domain.Outcome) {
	outcome.Index = index
	s.outcomes[index] = outcome
}

// Clear drops the outcome for index, if any.
func (s *Scorer) Clear(index int) {
	delete(s.outcomes, index)
}

func (s *Scorer) Outcome(index int) (domain.Outcome, bool) {
	o, ok := s.outcomes[index]
	return o, ok
}

// RunningTotal sums marks over recorded outcomes. Unchecked items contribute nothing.
func (s *Scorer) RunningTotal() int {
	total := 0
	for _, o := range s.outcomes {
		total += o.Marks
	}
	return total
}

// Final returns the running total with the number of items attempted.
func (s *Scorer) Final(catalog domain.Catalog) FinalScore {
	return FinalScore{
		Total:       s.RunningTotal(),
		Possible:    catalog.PossibleMarks(),
		Attempted:   len(s.outcomes),
		CatalogSize: len(catalog.Items),
	}
}

// Outcomes returns recorded outcomes ordered by item index.
func (s *Scorer) Outcomes() []domain.Outcome {
	out := make([]domain.Outcome, 0, len(s.outcomes))
	for _, o := range s.outcomes {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (s *Scorer) Reset() {
	s.outcomes = make(map[int]domain.Outcome)
}
