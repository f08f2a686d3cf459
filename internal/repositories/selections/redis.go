package selections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/shinobi-codex/internal/domain/codex"
	apperr "github.com/KirkDiggler/shinobi-codex/internal/errors"
)

const (
	// Key patterns
	sessionKeyPrefix = "selection:"
	sessionIndexKey  = "selections"

	// DefaultTTL bounds how long an idle session keeps its selection
	DefaultTTL = 24 * time.Hour
)

// Data is the JSON form of a session stored in Redis
type Data struct {
	ID        string    `json:"id"`
	Character string    `json:"character,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedisConfig holds configuration for the Redis repository
type RedisConfig struct {
	Client       redis.UniversalClient // Required
	TimeProvider TimeProvider          // Optional, defaults to wall clock
	TTL          time.Duration         // Optional, defaults to DefaultTTL
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
	ttl          time.Duration
}

// NewRedisRepository creates a Redis-backed session repository
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil || cfg.Client == nil {
		return nil, apperr.InvalidArgumentf("redis client is required")
	}

	repo := &redisRepo{
		client:       cfg.Client,
		timeProvider: cfg.TimeProvider,
		ttl:          cfg.TTL,
	}
	if repo.timeProvider == nil {
		repo.timeProvider = &RealTimeProvider{}
	}
	if repo.ttl <= 0 {
		repo.ttl = DefaultTTL
	}

	return repo, nil
}

// NewRedis creates a Redis repository with the given TTL and the wall clock
func NewRedis(client redis.UniversalClient, ttl time.Duration) Repository {
	repo, err := NewRedisRepository(&RedisConfig{
		Client: client,
		TTL:    ttl,
	})
	if err != nil {
		// Only reachable with a nil client
		panic(err)
	}
	return repo
}

func (r *redisRepo) Get(ctx context.Context, sessionID string) (*codex.Session, error) {
	if sessionID == "" {
		return nil, apperr.InvalidArgumentf("session ID is required")
	}

	jsonData, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(sessionID)
		}
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "failed to get session from Redis")
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return toSession(&data), nil
}

func (r *redisRepo) Save(ctx context.Context, sess *codex.Session) error {
	if err := validate(sess); err != nil {
		return err
	}

	stamp(sess, r.timeProvider.Now())

	jsonData, err := json.Marshal(toSessionData(sess))
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKey(sess.ID), string(jsonData), r.ttl)
	pipe.SAdd(ctx, sessionIndexKey, sess.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeUnavailable, "failed to save session in Redis")
	}

	return nil
}

func (r *redisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperr.InvalidArgumentf("session ID is required")
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, sessionIndexKey, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeUnavailable, "failed to delete session from Redis")
	}

	return nil
}

// List loads every indexed session concurrently. Sessions whose key has
// already expired are pruned from the index.
func (r *redisRepo) List(ctx context.Context) ([]*codex.Session, error) {
	ids, err := r.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "failed to list sessions from Redis")
	}

	var (
		mu       sync.Mutex
		sessions = make([]*codex.Session, 0, len(ids))
		stale    = make([]interface{}, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			sess, err := r.Get(gctx, id)
			mu.Lock()
			defer mu.Unlock()

			if apperr.IsNotFound(err) {
				stale = append(stale, id)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get session %s: %w", id, err)
			}
			sessions = append(sessions, sess)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(stale) > 0 {
		if err := r.client.SRem(ctx, sessionIndexKey, stale...).Err(); err != nil {
			log.Printf("[Selections] Failed to prune %d expired sessions: %v", len(stale), err)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})

	return sessions, nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func validate(sess *codex.Session) error {
	if sess == nil {
		return apperr.InvalidArgumentf("session cannot be nil")
	}
	if sess.ID == "" {
		return apperr.InvalidArgumentf("session ID is required")
	}
	return nil
}

func stamp(sess *codex.Session, now time.Time) {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now
}

func notFound(sessionID string) error {
	return apperr.NotFoundf("session %s not found", sessionID).WithMeta("session_id", sessionID)
}

func toSessionData(sess *codex.Session) *Data {
	return &Data{
		ID:        sess.ID,
		Character: sess.Character,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func toSession(data *Data) *codex.Session {
	return &codex.Session{
		ID:        data.ID,
		Character: data.Character,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
