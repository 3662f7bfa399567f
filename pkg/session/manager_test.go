package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/wayfare/pkg/adapters/memory"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/ports"
	"github.com/aretw0/wayfare/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]domain.Conversation
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, conversationID string, conv *domain.Conversation) error {
	time.Sleep(2 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]domain.Conversation)
	}
	s.data[conversationID] = *conv
	return nil
}

func (s *SlowStore) Load(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	time.Sleep(2 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.data[conversationID]; ok {
		return &conv, nil
	}
	return nil, domain.ErrConversationNotFound
}

func (s *SlowStore) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, conversationID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateSerializesTurns(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	const turns = 20
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(_ context.Context, conv *domain.Conversation) error {
				conv.Turns++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	conv, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, turns, conv.Turns, "read-modify-write must not lose turns")
}

func TestManager_LoadOrStart(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := manager.LoadOrStart(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, conv)
		}()
	}
	wg.Wait()

	conv, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, conv.ID)
	assert.Equal(t, domain.StatusIdle, conv.Status)
}

func TestManager_UpdateErrorDoesNotPersist(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := manager.Update(ctx, "c1", func(context.Context, *domain.Conversation) error { return boom })
	assert.ErrorIs(t, err, boom)

	_, err = store.Load(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestManager_EmptyID(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	_, err := manager.Load(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyConversationID)
}

type countingLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	ttl      time.Duration
	failWith error
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	l.locks++
	l.ttl = ttl
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(5*time.Second))
	ctx := context.Background()

	_, err := manager.LoadOrStart(ctx, "c1")
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, "c1"))

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)
	assert.Equal(t, 5*time.Second, locker.ttl)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	locker := &countingLocker{failWith: errors.New("unavailable")}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	_, err := manager.LoadOrStart(context.Background(), "c1")
	assert.ErrorContains(t, err, "distributed lock")
}
