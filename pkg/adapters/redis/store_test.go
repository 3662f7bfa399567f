package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/wayfare/pkg/adapters/redis"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunConversationStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	conv := domain.NewConversation("conv-ttl")
	conv.Slots.Source = "Dhaka"
	require.NoError(t, store.Save(ctx, conv.ID, conv))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, conv.ID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, conv.ID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	// The index is pruned against wall-clock time, not miniredis time.
	time.Sleep(1200 * time.Millisecond)
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-conv", domain.NewConversation("my-conv")))

	assert.True(t, mr.Exists("custom:app:my-conv"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
}

func TestRedisStore_RejectsEmptyID(t *testing.T) {
	_, client := newClient(t)
	err := redis.NewFromClient(client).Save(context.Background(), "", domain.NewConversation(""))
	assert.ErrorIs(t, err, domain.ErrEmptyConversationID)
}
