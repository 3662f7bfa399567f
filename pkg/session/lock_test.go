package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/wayfare/pkg/domain"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, conversationID string, conv *domain.Conversation) error {
	return nil
}
func (m *MockStore) Load(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	return nil, domain.ErrConversationNotFound
}
func (m *MockStore) Delete(ctx context.Context, conversationID string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)              { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("conversation-%d", i)
		_, _ = mgr.LoadOrStart(ctx, id)
		_, _ = mgr.Update(ctx, id, func(context.Context, *domain.Conversation) error { return nil })
		_ = mgr.Delete(ctx, id)
	}

	lockCount := len(mgr.locks)
	t.Logf("Conversations: %d, Locks remaining: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
