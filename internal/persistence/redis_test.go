package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedisKVFromClient(client)
	t.Cleanup(func() { _ = kv.Close() })
	return kv, mr
}

func TestRedisKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, _ := newTestRedisKV(t)

	_, err := kv.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeyCredential, "payload"))
	val, err := kv.Get(ctx, KeyCredential)
	require.NoError(t, err)
	assert.Equal(t, "payload", val)

	require.NoError(t, kv.Delete(ctx, KeyCredential))
	_, err = kv.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisKVKeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedisKV(t)

	require.NoError(t, kv.Set(ctx, KeyTenant, "acme"))

	stored, err := mr.Get(redisKeyPrefix + KeyTenant)
	require.NoError(t, err)
	assert.Equal(t, "acme", stored)
}

func TestRedisKVDeleteAbsentKey(t *testing.T) {
	kv, _ := newTestRedisKV(t)
	assert.NoError(t, kv.Delete(context.Background(), KeyCredential))
}
