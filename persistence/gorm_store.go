package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// turnRecord is the database row for one conversation turn.
type turnRecord struct {
	ID             string    `gorm:"primaryKey;size:64"`
	ConversationID string    `gorm:"index:idx_turns_conversation;size:64;not null"`
	Role           string    `gorm:"size:16;not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"index:idx_turns_conversation"`
}

func (turnRecord) TableName() string {
	return "conversation_turns"
}

// GormTurnStore is the database-backed TurnStore.
type GormTurnStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormTurnStore migrates the turn table and returns the store. The
// caller owns the database handle; Close on the store is a no-op.
func NewGormTurnStore(db *gorm.DB, logger *zap.Logger) (*GormTurnStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := db.AutoMigrate(&turnRecord{}); err != nil {
		return nil, types.NewError(types.ErrPersistence, "migrate conversation turns").WithCause(err)
	}

	return &GormTurnStore{
		db:     db,
		logger: logger.With(zap.String("component", "turn_store")),
	}, nil
}

// SaveTurn appends one turn.
func (s *GormTurnStore) SaveTurn(ctx context.Context, turn *types.ConversationTurn) error {
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

	rec := turnRecord{
		ID:             turn.ID,
		ConversationID: turn.ConversationID,
		Role:           string(turn.Role),
		Content:        turn.Content,
		CreatedAt:      turn.CreatedAt,
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		s.logger.Error("save turn failed",
			zap.String("conversation_id", turn.ConversationID),
			zap.Error(err))
		return types.NewError(types.ErrPersistence, "save turn").WithCause(err)
	}

	return nil
}

// RecentTurns returns the newest turns oldest first.
func (s *GormTurnStore) RecentTurns(ctx context.Context, conversationID string, limit int) ([]types.ConversationTurn, error) {
	limit = normalizeLimit(limit)

	var recs []turnRecord
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, types.NewError(types.ErrPersistence, "load recent turns").WithCause(err)
	}

	// Query is newest-first for the LIMIT; callers want oldest-first.
	turns := make([]types.ConversationTurn, len(recs))
	for i, rec := range recs {
		turns[len(recs)-1-i] = types.ConversationTurn{
			ID:             rec.ID,
			ConversationID: rec.ConversationID,
			Role:           types.Role(rec.Role),
			Content:        rec.Content,
			CreatedAt:      rec.CreatedAt,
		}
	}

	return turns, nil
}

// Close implements TurnStore. The shared database handle is closed by
// its pool manager, not here.
func (s *GormTurnStore) Close() error {
	return nil
}
