package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

func newGormStore(t *testing.T) *GormTurnStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store, err := NewGormTurnStore(db, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})
	return store
}

func stores(t *testing.T) map[string]TurnStore {
	return map[string]TurnStore{
		"gorm":   newGormStore(t),
		"memory": NewMemoryTurnStore(),
	}
}

func TestSaveAndRecentTurns(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				role := types.RoleUser
				if i%2 == 1 {
					role = types.RoleAssistant
				}
				require.NoError(t, store.SaveTurn(ctx, &types.ConversationTurn{
					ConversationID: "conv-1",
					Role:           role,
					Content:        fmt.Sprintf("mensaje %d", i),
					CreatedAt:      base.Add(time.Duration(i) * time.Minute),
				}))
			}

			turns, err := store.RecentTurns(ctx, "conv-1", 3)
			require.NoError(t, err)
			require.Len(t, turns, 3)

			// Window keeps the newest turns, returned oldest first.
			assert.Equal(t, "mensaje 2", turns[0].Content)
			assert.Equal(t, "mensaje 4", turns[2].Content)
			assert.True(t, turns[0].CreatedAt.Before(turns[1].CreatedAt))
		})
	}
}

func TestSaveTurnAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			turn := &types.ConversationTurn{
				ConversationID: "conv-2",
				Role:           types.RoleUser,
				Content:        "hola",
			}
			require.NoError(t, store.SaveTurn(ctx, turn))
			assert.NotEmpty(t, turn.ID)
			assert.False(t, turn.CreatedAt.IsZero())
		})
	}
}

func TestSaveTurnValidation(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.SaveTurn(ctx, &types.ConversationTurn{Role: types.RoleUser, Content: "x"})
			assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))

			err = store.SaveTurn(ctx, &types.ConversationTurn{
				ConversationID: "conv-3", Role: "system", Content: "x",
			})
			assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
		})
	}
}

func TestRecentTurnsDefaultLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTurnStore()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < DefaultRecentLimit+10; i++ {
		require.NoError(t, store.SaveTurn(ctx, &types.ConversationTurn{
			ConversationID: "conv-4",
			Role:           types.RoleUser,
			Content:        fmt.Sprintf("m%d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}))
	}

	turns, err := store.RecentTurns(ctx, "conv-4", 0)
	require.NoError(t, err)
	assert.Len(t, turns, DefaultRecentLimit)
	assert.Equal(t, "m10", turns[0].Content)
}

func TestRecentTurnsUnknownConversation(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			turns, err := store.RecentTurns(ctx, "missing", 10)
			require.NoError(t, err)
			assert.Empty(t, turns)
		})
	}
}
