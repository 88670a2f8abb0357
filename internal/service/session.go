package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ignicult/dashboard-server/internal/domain"
	domainerrors "github.com/ignicult/dashboard-server/internal/errors"
	"github.com/ignicult/dashboard-server/internal/id"
	"github.com/ignicult/dashboard-server/internal/ranking"
	"github.com/ignicult/dashboard-server/internal/sse"
)

// DefaultIdleTimeout is how long a session survives without requests.
const DefaultIdleTimeout = 30 * time.Minute

// Session is one viewer's navigation context: the page, the leaderboard
// board, the activity period and the displays.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	board    *ranking.Board
	animator *Animator

	mu       sync.Mutex
	page     domain.Page
	period   domain.Period
	version  string
	lastSeen time.Time
}

// Page returns the page the session is on.
func (s *Session) Page() domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Period returns the activity period last viewed.
func (s *Session) Period() domain.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// LastSeen returns the time of the session's latest request.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Board returns the session's leaderboard board.
func (s *Session) Board() *ranking.Board {
	return s.board
}

func (s *Session) setPage(p domain.Page) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.page != p
	s.page = p
	return changed
}

// syncBoard loads snap into the board when it is newer than what the board
// holds. The active game survives the swap when it is still present.
func (s *Session) syncBoard(snap *domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version == snap.Version {
		return
	}
	s.board.Replace(snap.Buckets)
	s.version = snap.Version
}

// SessionInfo is the public description of a session.
type SessionInfo struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Page      domain.Page   `json:"page"`
	Period    domain.Period `json:"period"`
}

// Info describes the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{ID: s.ID, CreatedAt: s.CreatedAt, Page: s.page, Period: s.period}
}

// SessionConfig configures the session service.
type SessionConfig struct {
	IdleTimeout time.Duration
	Tween       TweenConfig
}

// SessionService manages viewer sessions and builds their views.
type SessionService struct {
	snapshots *SnapshotService
	events    EventEmitter
	cfg       SessionConfig
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates a new session service.
func NewSessionService(snapshots *SnapshotService, events EventEmitter, cfg SessionConfig, logger *slog.Logger) *SessionService {
	if events == nil {
		events = NoopEmitter{}
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	cfg.Tween = cfg.Tween.withDefaults()
	return &SessionService{
		snapshots: snapshots,
		events:    events,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new session on the leaderboard page. Data is loaded on the
// first view, so creation never touches the upstream.
func (s *SessionService) Create(_ context.Context) (*Session, error) {
	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create session")
	}

	now := s.now()
	sess := &Session{
		ID:        sessionID,
		CreatedAt: now.UTC(),
		board:     ranking.NewBoard(nil),
		animator:  NewAnimator(sessionID, s.cfg.Tween, s.events, s.logger),
		page:      domain.PageLeaderboard,
		period:    domain.DefaultActivityPeriod,
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sessionID] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", sessionID, "sessions", count)
	return sess, nil
}

// Get returns a session and marks it as active.
func (s *SessionService) Get(sessionID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domainerrors.NotFoundf("session %q not found", sessionID)
	}

	sess.mu.Lock()
	sess.lastSeen = s.now()
	sess.mu.Unlock()
	return sess, nil
}

// Delete tears a session down: its tweens stop and its streams close.
func (s *SessionService) Delete(sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return domainerrors.NotFoundf("session %q not found", sessionID)
	}

	s.teardown(sess)
	s.logger.Info("session deleted", "session_id", sessionID)
	return nil
}

// Count returns the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ReapIdle removes every session whose last request is older than the idle
// timeout and returns how many were removed.
func (s *SessionService) ReapIdle() int {
	cutoff := s.now().Add(-s.cfg.IdleTimeout)

	var idle []*Session
	s.mu.Lock()
	for sid, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, sid)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		s.teardown(sess)
	}
	if len(idle) > 0 {
		s.logger.Info("reaped idle sessions", "count", len(idle))
	}
	return len(idle)
}

// Shutdown stops every session's tweens.
func (s *SessionService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.animator.Stop()
	}
}

func (s *SessionService) teardown(sess *Session) {
	sess.animator.Stop()
	if closer, ok := s.events.(SessionCloser); ok {
		closer.DisconnectSession(sess.ID)
	}
}

// Navigate moves the session to page.
func (s *SessionService) Navigate(sessionID string, page domain.Page) (SessionInfo, error) {
	if !page.Valid() {
		return SessionInfo{}, domainerrors.Validationf("unknown page %q", page)
	}
	sess, err := s.Get(sessionID)
	if err != nil {
		return SessionInfo{}, err
	}
	s.visit(sess, page)
	return sess.Info(), nil
}

func (s *SessionService) visit(sess *Session, page domain.Page) {
	if sess.setPage(page) {
		s.events.Emit(sse.NewPageChangedEvent(sess.ID, string(page)))
	}
}
