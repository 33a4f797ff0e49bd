package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"levelup/model"

	"github.com/redis/go-redis/v9"
)

// DefaultCredentialTTL bounds how long a cookie credential, which carries
// no expiry of its own, is kept.
const DefaultCredentialTTL = 7 * 24 * time.Hour

func credentialKey(profile string) string {
	return fmt.Sprintf("levelup:credential:%s", profile)
}

func credentialTTL(cred model.Credential) (time.Duration, error) {
	if cred.ExpiresAt.IsZero() {
		return DefaultCredentialTTL, nil
	}
	ttl := time.Until(cred.ExpiresAt)
	if ttl <= 0 {
		return 0, fmt.Errorf("credential has already expired")
	}
	return ttl, nil
}

// RedisCredentialStore keeps session credentials in Redis so a restarted
// engine can resume the session.
type RedisCredentialStore struct {
	client *redis.Client
}

// NewRedisCredentialStore builds a store for redisURL without dialing it;
// check IsConnected before relying on it.
func NewRedisCredentialStore(redisURL string) (*RedisCredentialStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}
	return &RedisCredentialStore{client: redis.NewClient(opts)}, nil
}

func NewRedisCredentialStoreFromClient(client *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{client: client}
}

func (s *RedisCredentialStore) Save(ctx context.Context, profile string, cred model.Credential) error {
	if profile == "" {
		return fmt.Errorf("profile cannot be empty")
	}
	ttl, err := credentialTTL(cred)
	if err != nil {
		return err
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %v", err)
	}

	if err := s.client.Set(ctx, credentialKey(profile), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache credential: %v", err)
	}
	return nil
}

// Load returns nil without error on a cache miss.
func (s *RedisCredentialStore) Load(ctx context.Context, profile string) (*model.Credential, error) {
	if profile == "" {
		return nil, fmt.Errorf("profile cannot be empty")
	}

	data, err := s.client.Get(ctx, credentialKey(profile)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential from cache: %v", err)
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %v", err)
	}

	if !cred.ExpiresAt.IsZero() && time.Now().After(cred.ExpiresAt) {
		s.client.Del(ctx, credentialKey(profile))
		return nil, nil
	}
	return &cred, nil
}

func (s *RedisCredentialStore) Delete(ctx context.Context, profile string) error {
	if err := s.client.Del(ctx, credentialKey(profile)).Err(); err != nil {
		return fmt.Errorf("failed to delete credential from cache: %v", err)
	}
	return nil
}

func (s *RedisCredentialStore) IsConnected(ctx context.Context) bool {
	return s != nil && s.client != nil && s.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (s *RedisCredentialStore) Close() error {
	return s.client.Close()
}

type memoryEntry struct {
	cred      model.Credential
	expiresAt time.Time
}

// MemoryCredentialStore is used when no Redis URL is configured. Its
// contents do not survive a restart.
type MemoryCredentialStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryCredentialStore) Save(_ context.Context, profile string, cred model.Credential) error {
	if profile == "" {
		return fmt.Errorf("profile cannot be empty")
	}
	ttl, err := credentialTTL(cred)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[profile] = memoryEntry{cred: cred, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryCredentialStore) Load(_ context.Context, profile string) (*model.Credential, error) {
	s.mu.RLock()
	entry, ok := s.entries[profile]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	cred := entry.cred
	return &cred, nil
}

func (s *MemoryCredentialStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	delete(s.entries, profile)
	s.mu.Unlock()
	return nil
}
