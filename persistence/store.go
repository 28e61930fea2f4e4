// Package persistence stores conversation turns. The turn log is
// append-only: orchestration reads a bounded window of recent turns to
// rebuild the agent's conversation history and appends the new user and
// assistant turns once an exchange completes.
package persistence

import (
	"context"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// DefaultRecentLimit bounds RecentTurns when the caller passes a
// non-positive limit.
const DefaultRecentLimit = 30

// TurnStore defines the interface for conversation turn persistence.
type TurnStore interface {
	// SaveTurn appends a single turn. The turn's ID is assigned when
	// empty; CreatedAt is assigned when zero.
	SaveTurn(ctx context.Context, turn *types.ConversationTurn) error

	// RecentTurns returns up to limit most recent turns for the
	// conversation, ordered oldest first. A non-positive limit falls
	// back to DefaultRecentLimit.
	RecentTurns(ctx context.Context, conversationID string, limit int) ([]types.ConversationTurn, error)

	// Close releases any underlying resources.
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return limit
}
