package app

import (
	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/grading"
)

// AnswerStore holds the learner's current answer per item index.
// Every Set invalidates the verification of that item through the onChange hook,
// so answers and outcomes never disagree.
type AnswerStore struct {
	catalog  func() domain.Catalog
	answers  map[int]domain.Answer
	onChange func(index int)
}

func NewAnswerStore(catalog func() domain.Catalog, onChange func(index int)) *AnswerStore {
	return &AnswerStore{
		catalog:  catalog,
		answers:  make(map[int]domain.Answer),
		onChange: onChange,
	}
}

// Set overwrites the answer stored for index.
func (s *AnswerStore) Set(index int, answer domain.Answer) {
	s.answers[index] = answer.Clone()
	if s.onChange != nil {
		s.onChange(index)
	}
}

// Get returns the current answer for index; ok is false when unanswered.
func (s *AnswerStore) Get(index int) (domain.Answer, bool) {
	a, ok := s.answers[index]
	if !ok {
		return domain.Answer{}, false
	}
	return a.Clone(), true
}

// IsComplete applies the item type's completeness rule to the stored answer.
func (s *AnswerStore) IsComplete(index int) bool {
	items := s.catalog().Items
	if index < 0 || index >= len(items) {
		return false
	}
	a, ok := s.answers[index]
	if !ok {
		return false
	}
	return grading.Complete(items[index], a)
}

// Len reports how many items have an answer.
func (s *AnswerStore) Len() int {
	return len(s.answers)
}

func (s *AnswerStore) Reset() {
	s.answers = make(map[int]domain.Answer)
}
