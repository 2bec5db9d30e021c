package signup

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	ErrIndexUnavailable  = errors.New("email index unavailable")
	ErrInvalidRedisURL   = errors.New("failed to parse redis connection string")
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
	ErrEmailTaken        = errors.New("email already registered")
)

// EmailIndex answers whether an email address is already registered.
// Addresses are compared lowercased.
type EmailIndex interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// MemoryIndex is an in-process EmailIndex.
type MemoryIndex struct {
	mu     sync.RWMutex
	emails map[string]struct{}
}

func NewMemoryIndex(emails ...string) *MemoryIndex {
	m := &MemoryIndex{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		m.emails[strings.ToLower(e)] = struct{}{}
	}
	return m
}

func (m *MemoryIndex) Exists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.emails[strings.ToLower(email)]
	return ok, nil
}

// Add records email. It returns ErrEmailTaken when the address is already there.
func (m *MemoryIndex) Add(_ context.Context, email string) error {
	email = strings.ToLower(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emails[email]; ok {
		return ErrEmailTaken
	}
	m.emails[email] = struct{}{}
	return nil
}

// RedisIndex keeps registered emails in a Redis set.
type RedisIndex struct {
	client redis.UniversalClient
	key    string
}

func NewRedisIndex(client redis.UniversalClient, key string) *RedisIndex {
	return &RedisIndex{client: client, key: key}
}

// Connect parses url, pings the server and returns an index over the set key.
func Connect(ctx context.Context, url, key string) (*RedisIndex, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidRedisURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrIndexUnavailable, err)
	}
	return NewRedisIndex(client, key), nil
}

func (r *RedisIndex) Exists(ctx context.Context, email string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.key, strings.ToLower(email)).Result()
	if err != nil {
		return false, errors.Join(ErrIndexUnavailable, err)
	}
	return ok, nil
}

// Add records email with SADD. A zero reply means another signup stored the
// address first and yields ErrEmailTaken.
func (r *RedisIndex) Add(ctx context.Context, email string) error {
	added, err := r.client.SAdd(ctx, r.key, strings.ToLower(email)).Result()
	if err != nil {
		return errors.Join(ErrIndexUnavailable, err)
	}
	if added == 0 {
		return ErrEmailTaken
	}
	return nil
}

// Healthcheck pings Redis; it plugs into httpserver.HealthHandler.
func (r *RedisIndex) Healthcheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

func (r *RedisIndex) Close() error {
	return r.client.Close()
}
