package memory

import (
	"sync"

	"learning-quiz-engine/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository and app.ActivityRepository.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*app.Session
	activities map[string]*app.Activity
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*app.Session),
		activities: make(map[string]*app.Activity),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) PutActivity(activity *app.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[activity.ID()] = activity
}

func (s *SessionStore) GetActivity(id string) (*app.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	activity, ok := s.activities[id]
	return activity, ok
}

func (s *SessionStore) DeleteActivity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activities, id)
}

// Len reports the number of live sessions and activities.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions) + len(s.activities)
}
