package selections

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
)

// InMemoryConfig configures the in-memory repository
type InMemoryConfig struct {
	TTL          time.Duration // Optional, defaults to DefaultTTL
	TimeProvider TimeProvider  // Optional, defaults to wall clock
}

// InMemoryRepository keeps sessions in a map guarded by a mutex
type InMemoryRepository struct {
	mu           sync.RWMutex
	sessions     map[string]*codex.Session
	ttl          time.Duration
	timeProvider TimeProvider
}

// NewInMemoryRepository creates an empty in-memory repository
func NewInMemoryRepository(cfg *InMemoryConfig) *InMemoryRepository {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}

	repo := &InMemoryRepository{
		sessions:     make(map[string]*codex.Session),
		ttl:          cfg.TTL,
		timeProvider: cfg.TimeProvider,
	}
	if repo.ttl <= 0 {
		repo.ttl = DefaultTTL
	}
	if repo.timeProvider == nil {
		repo.timeProvider = &RealTimeProvider{}
	}

	return repo
}

func (r *InMemoryRepository) Get(ctx context.Context, sessionID string) (*codex.Session, error) {
	if sessionID == "" {
		return nil, apperr.InvalidArgumentf("session ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[sessionID]
	if !exists {
		return nil, notFound(sessionID)
	}
	if r.expired(sess) {
		delete(r.sessions, sessionID)
		return nil, notFound(sessionID)
	}

	sessCopy := *sess
	return &sessCopy, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, sess *codex.Session) error {
	if err := validate(sess); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stamp(sess, r.timeProvider.Now())

	sessCopy := *sess
	r.sessions[sess.ID] = &sessCopy

	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperr.InvalidArgumentf("session ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// List returns live sessions ordered by ID, dropping expired ones
func (r *InMemoryRepository) List(ctx context.Context) ([]*codex.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*codex.Session, 0, len(r.sessions))
	for id, sess := range r.sessions {
		if r.expired(sess) {
			delete(r.sessions, id)
			continue
		}
		sessCopy := *sess
		sessions = append(sessions, &sessCopy)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})

	return sessions, nil
}

func (r *InMemoryRepository) expired(sess *codex.Session) bool {
	return r.timeProvider.Now().Sub(sess.UpdatedAt) > r.ttl
}
