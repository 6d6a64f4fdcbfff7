package memory

import (
	"context"
	"sort"
	"sync"

	"learning-quiz-engine/internal/domain"
)

// ResultRepository keeps result records in memory, keyed by session id.
type ResultRepository struct {
	mu      sync.RWMutex
	records map[string]domain.ResultRecord
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{records: make(map[string]domain.ResultRecord)}
}

// Save stores record unless one already exists for its session; created is false for a duplicate.
func (r *ResultRepository) Save(_ context.Context, record domain.ResultRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.SessionID]; ok {
		return false, nil
	}
	r.records[record.SessionID] = record
	return true, nil
}

func (r *ResultRepository) Get(_ context.Context, sessionID string) (domain.ResultRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[sessionID]
	if !ok {
		return domain.ResultRecord{}, domain.ErrResultNotFound
	}
	return record, nil
}

// ListByLearner returns a learner's records, newest first.
func (r *ResultRepository) ListByLearner(_ context.Context, learnerID string) ([]domain.ResultRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ResultRecord, 0)
	for _, record := range r.records {
		if record.LearnerID == learnerID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out, nil
}
