package persistence

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ErrTokenNotFound is returned for unknown or expired sessions and
// confirmation tokens.
var ErrTokenNotFound = errors.New("token not found")

// SessionStore keeps live sessions and pending email confirmations.
type SessionStore interface {
	SaveSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	PutConfirmation(ctx context.Context, token, userID string, ttl time.Duration) error
	TakeConfirmation(ctx context.Context, token string) (string, error)
}

const (
	sessionKeyPrefix      = "lostfound:session:"
	confirmationKeyPrefix = "lostfound:confirm:"
)

type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore stores sessions as hashes expiring with the session.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) SaveSession(ctx context.Context, session domain.Session) error {
	key := sessionKeyPrefix + session.ID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    session.UserID,
			"email":      session.Email,
			"expires_at": session.ExpiresAt.Unix(),
		})
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	return err
}

func (s *redisSessionStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrTokenNotFound
	}
	expires, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:        id,
		UserID:    fields["user_id"],
		Email:     fields["email"],
		ExpiresAt: time.Unix(expires, 0).UTC(),
	}, nil
}

func (s *redisSessionStore) DeleteSession(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *redisSessionStore) PutConfirmation(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, confirmationKeyPrefix+token, userID, ttl).Err()
}

func (s *redisSessionStore) TakeConfirmation(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, confirmationKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return userID, err
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memorySessionStore struct {
	mu            sync.Mutex
	now           func() time.Time
	sessions      map[string]domain.Session
	confirmations map[string]memoryEntry
}

// NewMemorySessionStore keeps sessions in process memory.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		now:           time.Now,
		sessions:      make(map[string]domain.Session),
		confirmations: make(map[string]memoryEntry),
	}
}

func (s *memorySessionStore) SaveSession(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.Token = ""
	s.sessions[session.ID] = session
	return nil
}

func (s *memorySessionStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrTokenNotFound
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, ErrTokenNotFound
	}
	return &session, nil
}

func (s *memorySessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memorySessionStore) PutConfirmation(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmations[token] = memoryEntry{value: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memorySessionStore) TakeConfirmation(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.confirmations[token]
	delete(s.confirmations, token)
	if !ok || !s.now().Before(entry.expiresAt) {
		return "", ErrTokenNotFound
	}
	return entry.value, nil
}
