package services

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"levelup/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredential(expiresAt time.Time) model.Credential {
	return model.Credential{
		Token:     "token-value",
		Cookies:   []*http.Cookie{{Name: "session", Value: "abc123", Path: "/"}},
		ExpiresAt: expiresAt,
	}
}

func setupRedisStore(t *testing.T) *RedisCredentialStore {
	t.Helper()

	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available at %s: %v", redisURL, err)
	}

	store := NewRedisCredentialStoreFromClient(client)
	t.Cleanup(func() {
		client.Del(context.Background(), credentialKey("test-profile"))
		store.Close()
	})
	return store
}

func TestRedisCredentialStore(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	t.Run("Save and load", func(t *testing.T) {
		cred := testCredential(time.Now().Add(time.Hour))
		require.NoError(t, store.Save(ctx, "test-profile", cred))

		loaded, err := store.Load(ctx, "test-profile")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "token-value", loaded.Token)
		require.Len(t, loaded.Cookies, 1)
		assert.Equal(t, "abc123", loaded.Cookies[0].Value)

		ttl, err := store.client.TTL(ctx, credentialKey("test-profile")).Result()
		require.NoError(t, err)
		assert.True(t, ttl > 0 && ttl <= time.Hour)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "test-profile"))
		loaded, err := store.Load(ctx, "test-profile")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Expired credential is rejected", func(t *testing.T) {
		err := store.Save(ctx, "test-profile", testCredential(time.Now().Add(-time.Minute)))
		assert.Error(t, err)
	})

	t.Run("Connection", func(t *testing.T) {
		assert.True(t, store.IsConnected(ctx))
	})
}

func TestMemoryCredentialStore(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	loaded, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, loaded, "miss is not an error")

	require.NoError(t, store.Save(ctx, "default", testCredential(time.Time{})))
	loaded, err = store.Load(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "token-value", loaded.Token)

	other, err := store.Load(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, other, "profiles are isolated")

	require.NoError(t, store.Delete(ctx, "default"))
	loaded, err = store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.Error(t, store.Save(ctx, "", testCredential(time.Time{})))
}

func TestCredentialTTL(t *testing.T) {
	ttl, err := credentialTTL(model.Credential{Token: "x"})
	require.NoError(t, err)
	assert.Equal(t, DefaultCredentialTTL, ttl)

	_, err = credentialTTL(model.Credential{Token: "x", ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}
