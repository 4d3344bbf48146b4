package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown, closed or expired form sessions.
var ErrSessionNotFound = errors.New("form session not found")

// maxPendingNotices bounds the notices kept for a client that does not poll.
const maxPendingNotices = 16

// FieldFactory builds the location field of a new session. Notices emitted by the
// field must be delivered to notifier.
type FieldFactory func(notifier locator.Notifier) *locator.Field

// Session is one open report form.
type Session struct {
	ID    string
	Field *locator.Field

	mu       sync.Mutex
	notices  []locator.Notice
	lastSeen time.Time
}

// Notify queues a notice until the client collects it. The oldest notice is dropped when the queue is full.
func (s *Session) Notify(n locator.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.notices) == maxPendingNotices {
		s.notices = s.notices[1:]
	}
	s.notices = append(s.notices, n)
}

// Notices returns and clears the queued notices.
func (s *Session) Notices() []locator.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	notices := s.notices
	s.notices = nil
	if notices == nil {
		return []locator.Notice{}
	}
	return notices
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionService keeps the open report forms, each with its own location field,
// and expires the ones left idle for longer than the configured TTL.
type SessionService struct {
	log      *slog.Logger     // Logger for session lifecycle events
	metrics  *metrics.Metrics // Metrics for the active session gauge
	newField FieldFactory     // Builds the field of a new session
	ttl      time.Duration    // Idle time after which a session expires
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionService creates an empty session store.
func NewSessionService(
	log *slog.Logger,
	metrics *metrics.Metrics,
	newField FieldFactory,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		log:      log,
		metrics:  metrics,
		newField: newField,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new form session.
func (ss *SessionService) Create(ctx context.Context) *Session {
	session := &Session{ID: uuid.NewString(), lastSeen: ss.now()}
	session.Field = ss.newField(session)

	ss.mu.Lock()
	ss.sessions[session.ID] = session
	ss.mu.Unlock()

	ss.metrics.ActiveSessions.Inc()
	ss.log.DebugContext(ctx, "Form session opened", "session", session.ID)

	return session
}

// Get returns the session with the given id and marks it as active.
func (ss *SessionService) Get(_ context.Context, id string) (*Session, error) {
	ss.mu.Lock()
	session, ok := ss.sessions[id]
	ss.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	session.touch(ss.now())
	return session, nil
}

// Close removes the session and stops its pending work.
func (ss *SessionService) Close(ctx context.Context, id string) error {
	ss.mu.Lock()
	session, ok := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.Field.Close()
	ss.metrics.ActiveSessions.Dec()
	ss.log.DebugContext(ctx, "Form session closed", "session", id)

	return nil
}

// Len returns the number of open sessions.
func (ss *SessionService) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

// Run periodically expires idle sessions until ctx is cancelled, then closes the remaining ones.
func (ss *SessionService) Run(ctx context.Context) {
	interval := ss.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ss.log.InfoContext(ctx, "Session janitor started...", "ttl", ss.ttl)

	for {
		select {
		case <-ctx.Done():
			closed := ss.closeAll()
			ss.log.InfoContext(ctx, "Session janitor stopped.", "closed", closed)
			return
		case <-ticker.C:
			if expired := ss.expire(ctx); expired > 0 {
				ss.log.InfoContext(ctx, "Expired idle form sessions", "count", expired)
			}
		}
	}
}

// expire closes every session idle for longer than the TTL and returns how many were closed.
func (ss *SessionService) expire(ctx context.Context) int {
	now := ss.now()

	ss.mu.Lock()
	var stale []*Session
	for id, session := range ss.sessions {
		if session.idleSince(now) > ss.ttl {
			stale = append(stale, session)
			delete(ss.sessions, id)
		}
	}
	ss.mu.Unlock()

	for _, session := range stale {
		session.Field.Close()
		ss.metrics.ActiveSessions.Dec()
		ss.log.DebugContext(ctx, "Form session expired", "session", session.ID)
	}

	return len(stale)
}

func (ss *SessionService) closeAll() int {
	ss.mu.Lock()
	sessions := ss.sessions
	ss.sessions = make(map[string]*Session)
	ss.mu.Unlock()

	for _, session := range sessions {
		session.Field.Close()
		ss.metrics.ActiveSessions.Dec()
	}

	return len(sessions)
}
