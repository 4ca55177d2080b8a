package callRepository

import (
	"sort"
	"sync"
	"time"

	"BistroGolang/internal/api/call"
	"BistroGolang/internal/entity"

	"github.com/sirupsen/logrus"
)

// SessionStore tracks in-flight calls. Sessions are ephemeral state, a
// restart drops them and the caller simply starts over.
type SessionStore interface {
	Start(callID, callerPhone string) entity.CallSession
	Get(callID string) (entity.CallSession, bool)
	Update(callID string, apply func(*entity.CallSession)) (entity.CallSession, error)
	End(callID string)
	List() []entity.CallSession

	// Acquire serializes webhook handling for one call. The returned
	// function releases the lock.
	Acquire(callID string) func()
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.CallSession

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	log *logrus.Logger
	now func() time.Time
}

func NewSessionStore(log *logrus.Logger) SessionStore {
	return &sessionStore{
		sessions: make(map[string]*entity.CallSession),
		locks:    make(map[string]*sync.Mutex),
		log:      log,
		now:      time.Now,
	}
}

// Start is idempotent. A repeated start webhook for a live call returns the
// existing session untouched.
func (s *sessionStore) Start(callID, callerPhone string) entity.CallSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[callID]; ok {
		return *existing
	}

	session := &entity.CallSession{
		CallID:      callID,
		CallerPhone: callerPhone,
		StartedAt:   s.now().UTC(),
		Status:      entity.CallStatusGreeting,
	}
	s.sessions[callID] = session

	s.log.WithFields(logrus.Fields{
		"call_id": callID,
	}).Info("Call session started")

	return *session
}

func (s *sessionStore) Get(callID string) (entity.CallSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[callID]
	if !ok {
		return entity.CallSession{}, false
	}
	return *session, true
}

func (s *sessionStore) Update(callID string, apply func(*entity.CallSession)) (entity.CallSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[callID]
	if !ok {
		return entity.CallSession{}, call.ErrCallNotFound
	}

	apply(session)
	return *session, nil
}

func (s *sessionStore) End(callID string) {
	s.mu.Lock()
	delete(s.sessions, callID)
	s.mu.Unlock()

	s.lockMu.Lock()
	delete(s.locks, callID)
	s.lockMu.Unlock()

	s.log.WithFields(logrus.Fields{
		"call_id": callID,
	}).Info("Call session ended")
}

func (s *sessionStore) List() []entity.CallSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.CallSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, *session)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})

	return out
}

func (s *sessionStore) Acquire(callID string) func() {
	s.lockMu.Lock()
	lock, ok := s.locks[callID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[callID] = lock
	}
	s.lockMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
