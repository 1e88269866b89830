// Package session keeps the live visitor sessions of the service.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/collabhub-go/internal/events"
	"github.com/kapu/collabhub-go/internal/onboarding"
	"github.com/kapu/collabhub-go/internal/router"
	"github.com/kapu/collabhub-go/internal/steps"
	"github.com/kapu/collabhub-go/internal/store"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	TTL               time.Duration
	SweepInterval     time.Duration
	VerificationDelay time.Duration
	StoreBackend      string
	StoreTTL          time.Duration
}

// Manager creates, finds and expires sessions.
type Manager struct {
	cfg      Config
	registry *steps.Registry
	cache    store.Cache
	now      func() time.Time
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       conc.WaitGroup
}

// NewManager builds a manager. cache is required for the redis store backend
// and ignored otherwise.
func NewManager(cfg Config, registry *steps.Registry, cache store.Cache, logger *zap.Logger) *Manager {
	if registry == nil {
		registry = steps.DefaultRegistry()
	}
	if cfg.VerificationDelay <= 0 {
		cfg.VerificationDelay = onboarding.DefaultVerificationDelay
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = StoreMemory
	}
	return &Manager{
		cfg:      cfg,
		registry: registry,
		cache:    cache,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*Session),
		stopCh:   make(chan struct{}),
	}
}

func (m *Manager) newStore(sessionID string) store.Store {
	if m.cfg.StoreBackend == StoreRedis && m.cache != nil {
		return store.NewRedis(m.cache, sessionID, m.cfg.StoreTTL, m.logger)
	}
	return store.NewMemory()
}

func (m *Manager) Create() *Session {
	id := uuid.NewString()
	now := m.now()
	hub := events.NewHub(id, m.logger)
	s := &Session{
		id:        id,
		createdAt: now,
		registry:  m.registry,
		store:     m.newStore(id),
		hub:       hub,
		router:    router.New(id, hub),
		verifier:  onboarding.NewVerifier(m.cfg.VerificationDelay, m.logger),
		now:       m.now,
		logger:    m.logger,
		uploads:   make(map[string]Upload),
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("Session created",
		zap.String("session_id", id),
		zap.String("store", m.cfg.StoreBackend),
		zap.Int("active", count))
	return s
}

// Get returns the session and marks it as recently used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewSessionError("session not found", id, http.StatusNotFound)
	}
	s.touch()
	return s, nil
}

// End removes the session, cancels its pending verification and drops its store.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return apperrors.NewSessionError("session not found", id, http.StatusNotFound)
	}

	if err := s.end(ctx); err != nil {
		m.logger.Warn("Session store cleanup failed", zap.String("session_id", id), zap.Error(err))
		return err
	}
	m.logger.Info("Session ended", zap.String("session_id", id))
	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep ends every session idle for longer than the TTL and returns how many.
func (m *Manager) Sweep(ctx context.Context) int {
	if m.cfg.TTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.TTL)

	m.mu.RLock()
	expired := make([]string, 0)
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		if err := m.End(ctx, id); err != nil {
			m.logger.Debug("Expired session cleanup", zap.String("session_id", id), zap.Error(err))
		}
	}
	if len(expired) > 0 {
		m.logger.Info("Idle sessions expired", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// StartSweeper runs Sweep every SweepInterval until ctx ends or Close is called.
func (m *Manager) StartSweeper(ctx context.Context) {
	if m.cfg.SweepInterval <= 0 || m.cfg.TTL <= 0 {
		return
	}
	m.wg.Go(func() {
		ticker := time.NewTicker(m.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.Sweep(ctx)
			}
		}
	})
}

// Close stops the sweeper and ends every session.
func (m *Manager) Close(ctx context.Context) {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()

	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		_ = m.End(ctx, id)
	}
	m.logger.Info("Session manager closed", zap.Int("ended", len(ids)))
}
