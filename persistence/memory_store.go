package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// MemoryTurnStore is an in-process TurnStore for tests and ephemeral
// deployments.
type MemoryTurnStore struct {
	mu    sync.RWMutex
	turns map[string][]types.ConversationTurn
}

// NewMemoryTurnStore creates an empty in-memory store.
func NewMemoryTurnStore() *MemoryTurnStore {
	return &MemoryTurnStore{turns: make(map[string][]types.ConversationTurn)}
}

// SaveTurn appends one turn.
func (s *MemoryTurnStore) SaveTurn(ctx context.Context, turn *types.ConversationTurn) error {
	if turn.ConversationID == "" {
		return types.NewError(types.ErrInvalidRequest, "conversation id is required")
	}
	if !turn.Role.Valid() {
		return types.NewError(types.ErrInvalidRequest, "invalid turn role: "+string(turn.Role))
	}

	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[turn.ConversationID] = append(s.turns[turn.ConversationID], *turn)
	return nil
}

// RecentTurns returns the newest turns oldest first.
func (s *MemoryTurnStore) RecentTurns(ctx context.Context, conversationID string, limit int) ([]types.ConversationTurn, error) {
	limit = normalizeLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[conversationID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}

	out := make([]types.ConversationTurn, len(all))
	copy(out, all)
	return out, nil
}

// Close implements TurnStore.
func (s *MemoryTurnStore) Close() error {
	return nil
}
