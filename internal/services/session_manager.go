package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/metrics"
	"jobprep/interview/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("interview session not found")

// SettingsStore is the read side of the per-user settings store.
type SettingsStore interface {
	Get(ctx context.Context, userID string) (models.UserSettings, error)
}

type SessionManagerConfig struct {
	Questions        interview.QuestionSource
	Settings         SettingsStore
	History          interview.HistorySink
	FeedbackStrategy string
	QuestionSeconds  int
	AnalysisDelay    time.Duration
	TTL              time.Duration
	SweepInterval    time.Duration
	Clock            interview.Clock
	// NewRandom seeds a random source per session. Defaults to a time-seeded source.
	NewRandom func() interview.Random
	Logger    *zap.Logger
}

// SessionManager holds the live interview sessions of all users.
type SessionManager struct {
	cfg    SessionManagerConfig
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*managedSession
}

type managedSession struct {
	engine *interview.Engine
	userID string
	role   string

	// lastActive is unix nanos, updated without the manager lock
	lastActive atomic.Int64

	mu          sync.Mutex
	lastVersion uint64
	lastStatus  interview.Status
	lastDone    int
	watchers    map[chan interview.Snapshot]struct{}
}

func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	if cfg.Clock == nil {
		cfg.Clock = interview.SystemClock{}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.FeedbackStrategy == "" {
		cfg.FeedbackStrategy = "simulated"
	}
	if cfg.NewRandom == nil {
		var seq atomic.Int64
		cfg.NewRandom = func() interview.Random {
			return rand.New(rand.NewSource(time.Now().UnixNano() + seq.Add(1)))
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SessionManager{
		cfg:      cfg,
		logger:   cfg.Logger,
		sessions: make(map[string]*managedSession),
	}
}

// Create starts a new session for userID. The user's stored settings are read once
// and frozen into the session; if they cannot be loaded the defaults apply.
func (m *SessionManager) Create(ctx context.Context, userID string, req models.CreateInterviewRequest) (*interview.Engine, error) {
	settings := models.DefaultUserSettings()
	if m.cfg.Settings != nil {
		s, err := m.cfg.Settings.Get(ctx, userID)
		if err != nil {
			m.logger.Warn("failed to load user settings, using defaults",
				zap.String("user_id", userID), zap.Error(err))
		} else {
			settings = s
		}
	}
	snapshot := settings.Snapshot(req.MediaAvailable)

	rng := m.cfg.NewRandom()
	strategy, err := interview.SelectStrategy(snapshot, m.cfg.FeedbackStrategy, rng)
	if err != nil {
		return nil, err
	}

	ms := &managedSession{
		userID:     userID,
		role:       req.Role,
		lastStatus: interview.StatusNotStarted,
		watchers:   make(map[chan interview.Snapshot]struct{}),
	}
	ms.touch(m.cfg.Clock.Now())

	id := uuid.New().String()
	engine := interview.NewEngine(interview.Options{
		SessionID:       id,
		UserID:          userID,
		Questions:       m.cfg.Questions,
		Feedback:        strategy,
		Random:          rng,
		Clock:           m.cfg.Clock,
		History:         m.cfg.History,
		Settings:        snapshot,
		Logger:          m.logger,
		QuestionSeconds: m.cfg.QuestionSeconds,
		AnalysisDelay:   m.cfg.AnalysisDelay,
		OnChange:        ms.observe,
	})
	ms.engine = engine

	if err := engine.Configure(req.Role, req.Difficulty); err != nil {
		return nil, err
	}
	if err := engine.Start(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = ms
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.SessionStarted(req.Role)
	metrics.SetActiveSessions(n)
	m.logger.Info("interview session created",
		zap.String("session_id", id),
		zap.String("user_id", userID),
		zap.String("role", req.Role))
	return engine, nil
}

// Get returns the caller's session. Sessions owned by other users are reported as
// not found.
func (m *SessionManager) Get(userID, sessionID string) (*interview.Engine, error) {
	m.mu.RLock()
	ms, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok || ms.userID != userID {
		return nil, ErrSessionNotFound
	}
	ms.touch(m.cfg.Clock.Now())
	return ms.engine, nil
}

// Watch subscribes to snapshots of a session. The channel is closed when the
// session is removed or cancel is called.
func (m *SessionManager) Watch(userID, sessionID string) (<-chan interview.Snapshot, func(), error) {
	m.mu.RLock()
	ms, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok || ms.userID != userID {
		return nil, nil, ErrSessionNotFound
	}

	ch := make(chan interview.Snapshot, 8)
	ms.mu.Lock()
	if ms.watchers == nil {
		ms.mu.Unlock()
		return nil, nil, ErrSessionNotFound
	}
	ms.watchers[ch] = struct{}{}
	ms.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			if _, ok := ms.watchers[ch]; ok {
				delete(ms.watchers, ch)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// Remove ends a session if needed and drops it from the registry.
func (m *SessionManager) Remove(sessionID string) {
	m.mu.Lock()
	ms, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return
	}
	m.retire(ms)
	metrics.SetActiveSessions(n)
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many were removed.
func (m *SessionManager) Sweep() int {
	cutoff := m.cfg.Clock.Now().Add(-m.cfg.TTL).UnixNano()

	m.mu.Lock()
	var expired []*managedSession
	for id, ms := range m.sessions {
		if ms.lastActive.Load() < cutoff {
			expired = append(expired, ms)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, ms := range expired {
		m.logger.Info("expiring idle interview session",
			zap.String("session_id", ms.engine.ID()),
			zap.String("user_id", ms.userID))
		m.retire(ms)
	}
	if len(expired) > 0 {
		metrics.SetActiveSessions(n)
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is cancelled. Live sessions are left to
// Shutdown so the caller decides when their history is flushed.
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Shutdown ends all sessions and empties the registry.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.mu.Unlock()

	for _, ms := range all {
		m.retire(ms)
	}
	metrics.SetActiveSessions(0)
}

// retire cancels timers of a live session and disconnects its watchers.
func (m *SessionManager) retire(ms *managedSession) {
	if err := ms.engine.End(); err != nil && !interview.IsInvalidState(err) {
		m.logger.Warn("failed to end session", zap.String("session_id", ms.engine.ID()), zap.Error(err))
	}
	ms.closeWatchers()
}

func (ms *managedSession) touch(now time.Time) {
	ms.lastActive.Store(now.UnixNano())
}

// observe fans snapshots out to watchers and counts lifecycle transitions.
// Snapshots older than the last one seen are ignored.
func (ms *managedSession) observe(snap interview.Snapshot) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if snap.Version <= ms.lastVersion {
		return
	}
	ms.lastVersion = snap.Version

	if len(snap.CompletedIndices) > ms.lastDone {
		metrics.AnswerSubmitted()
	}
	ms.lastDone = len(snap.CompletedIndices)
	if snap.Status != ms.lastStatus {
		switch snap.Status {
		case interview.StatusCompleted, interview.StatusEnded:
			metrics.SessionFinished(string(snap.Status))
		}
		ms.lastStatus = snap.Status
	}

	for ch := range ms.watchers {
		select {
		case ch <- snap:
		default:
			// slow watcher: drop the oldest snapshot to make room
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (ms *managedSession) closeWatchers() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for ch := range ms.watchers {
		close(ch)
	}
	ms.watchers = nil
}
