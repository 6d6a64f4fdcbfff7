package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"learning-quiz-engine/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository and app.ActivityRepository.
// Notes:
//   - Live sessions stay in a local map; their clocks, subscriptions and in-flight calls are
//     process-local.
//   - Redis marks session liveness so other instances and operators can see what is running.
type SessionStore struct {
	client     *redis.Client
	ttl        time.Duration
	mu         sync.RWMutex
	sessions   map[string]*app.Session
	activities map[string]*app.Activity
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:     client,
		ttl:        ttl,
		sessions:   make(map[string]*app.Session),
		activities: make(map[string]*app.Activity),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.QuizID(), s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) PutActivity(activity *app.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[activity.ID()] = activity
	_ = s.client.Set(context.Background(), s.activityKey(activity.ID()), "1", s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.activityKey(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}

func (s *SessionStore) activityKey(id string) string {
	return "activity:session:" + id
}
