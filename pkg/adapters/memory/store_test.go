package memory_test

import (
	"testing"

	"github.com/aretw0/wayfare/pkg/adapters/memory"
	"github.com/aretw0/wayfare/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunConversationStoreContract(t, store)
}
