package memory

import (
	"context"
	"sync"
)

// SubmissionGuard remembers claimed run ids for the lifetime of the process.
type SubmissionGuard struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

func NewSubmissionGuard() *SubmissionGuard {
	return &SubmissionGuard{claimed: make(map[string]struct{})}
}

// Claim returns true the first time sessionID is seen.
func (g *SubmissionGuard) Claim(_ context.Context, sessionID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.claimed[sessionID]; ok {
		return false, nil
	}
	g.claimed[sessionID] = struct{}{}
	return true, nil
}
