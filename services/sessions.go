package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"socialbook/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "sessionid"
	SessionTTL        = 14 * 24 * time.Hour
	sessionKeyPrefix  = "session:"
)

// SessionStore maps opaque session ids (the sessionid cookie) to user ids.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Lookup(ctx context.Context, sessionID string) (int64, error)
	Delete(ctx context.Context, sessionID string) error
}

func NewRedisClient(conf *config.ConfigSchema) (*redis.Client, error) {
	if conf == nil {
		return nil, fmt.Errorf("config is not loaded")
	}
	redisConfig := conf.Redis
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisConfig.Host, redisConfig.Port),
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})

	// Тест соединения
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client, ttl: SessionTTL}
}

func (s *redisSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+sid, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sid, nil
}

func (s *redisSessionStore) Lookup(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session %s: %w", sessionID, err)
	}
	return userID, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

type memorySession struct {
	userID    int64
	expiresAt time.Time
}

// memorySessionStore is used when no Redis is configured.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]memorySession), ttl: SessionTTL}
}

func (s *memorySessionStore) Create(_ context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = memorySession{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	return sid, nil
}

func (s *memorySessionStore) Lookup(_ context.Context, sessionID string) (int64, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrSessionNotFound
	}
	if time.Now().After(sess.expiresAt) {
		_ = s.Delete(context.Background(), sessionID)
		return 0, ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// IsSessionMissing reports whether err means "no such session" rather than a store failure.
func IsSessionMissing(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
